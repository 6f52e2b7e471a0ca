// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\session\saver.go
package session

import (
	"log"
	"sync"
	"time"
)

// saveDelay は連続する変更をまとめるための待ち時間です。
const saveDelay = 1500 * time.Millisecond

// Saver は自動保存の単一スロット合流器です。
// 実行中に新しい依頼が来たら dirty を立て、完走後にもう一度だけ保存します。
type Saver struct {
	mu     sync.Mutex
	save   func() error
	timer  *time.Timer
	saving bool
	dirty  bool
}

func NewSaver(save func() error) *Saver {
	return &Saver{save: save}
}

// Schedule は保存を予約します。待機中の予約は打ち直されます。
func (sv *Saver) Schedule() {
	sv.mu.Lock()
	defer sv.mu.Unlock()
	if sv.timer != nil {
		sv.timer.Reset(saveDelay)
		return
	}
	sv.timer = time.AfterFunc(saveDelay, sv.run)
}

func (sv *Saver) run() {
	sv.mu.Lock()
	sv.timer = nil
	if sv.saving {
		sv.dirty = true
		sv.mu.Unlock()
		return
	}
	sv.saving = true
	sv.mu.Unlock()

	for {
		if err := sv.save(); err != nil {
			log.Printf("WARN: 自動保存に失敗しました: %v", err)
		}
		sv.mu.Lock()
		if sv.dirty {
			sv.dirty = false
			sv.mu.Unlock()
			continue
		}
		sv.saving = false
		sv.mu.Unlock()
		return
	}
}

// Flush は待機中の予約を取り消して直ちに保存します。
func (sv *Saver) Flush() {
	sv.mu.Lock()
	if sv.timer != nil {
		sv.timer.Stop()
		sv.timer = nil
	}
	if sv.saving {
		sv.dirty = true
		sv.mu.Unlock()
		return
	}
	sv.saving = true
	sv.mu.Unlock()

	for {
		if err := sv.save(); err != nil {
			log.Printf("WARN: 保存に失敗しました: %v", err)
		}
		sv.mu.Lock()
		if sv.dirty {
			sv.dirty = false
			sv.mu.Unlock()
			continue
		}
		sv.saving = false
		sv.mu.Unlock()
		return
	}
}
