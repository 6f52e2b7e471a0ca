// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\session\session.go
package session

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/jmoiron/sqlx"

	"kaientai/database"
	"kaientai/model"
)

// maxLogLines を超えた操作ログは古いものから捨てます。
const maxLogLines = 500

// Session は取込済みデータセット・設定・分析結果を一元管理します。
// データセットか設定が変わると分析結果は無効化され、再分析待ちになります。
type Session struct {
	mu sync.Mutex

	shipping []model.ShippingRecord
	sales    []model.SalesRecord
	products []model.ProductRecord
	settings model.Settings
	draft    map[string]string

	result   *model.AnalysisResult
	status   string
	logLines []string

	saver *Saver
}

// New は空のセッションを作ります。conn が nil なら自動保存は行いません。
func New(conn *sqlx.DB, moduleID string, chunkSize int) *Session {
	s := &Session{
		settings: model.DefaultSettings(),
		draft:    make(map[string]string),
		status:   "データ取込待ち",
	}
	if conn != nil {
		s.saver = NewSaver(func() error {
			_, err := database.SaveModuleState(conn, moduleID, s.Snapshot(), chunkSize)
			return err
		})
	}
	return s
}

// Logf は操作ログへ1行追記し、サーバーログにも流します。
func (s *Session) Logf(format string, v ...any) {
	line := fmt.Sprintf(format, v...)
	log.Print(line)
	s.mu.Lock()
	s.logLines = append(s.logLines, time.Now().Format("15:04:05")+" "+line)
	if len(s.logLines) > maxLogLines {
		s.logLines = s.logLines[len(s.logLines)-maxLogLines:]
	}
	s.mu.Unlock()
}

// LogLines は操作ログのコピーを返します。
func (s *Session) LogLines() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]string, len(s.logLines))
	copy(out, s.logLines)
	return out
}

// invalidateLocked はデータ変更後に分析結果を破棄します。呼び出し側がロックを持つこと。
func (s *Session) invalidateLocked(reason string) {
	s.result = nil
	s.status = reason
}

// ReplaceShipping は送料マスタを全件置換します。
func (s *Session) ReplaceShipping(records []model.ShippingRecord) {
	s.mu.Lock()
	s.shipping = records
	s.invalidateLocked("送料更新（再分析待ち）")
	s.mu.Unlock()
	s.scheduleSave()
}

// AppendSales は販売実績を追記します。店舗コードの補完済みスライスを渡すこと。
func (s *Session) AppendSales(added []model.SalesRecord) int {
	s.mu.Lock()
	s.sales = append(s.sales, added...)
	total := len(s.sales)
	s.invalidateLocked("販売実績更新（再分析待ち）")
	s.mu.Unlock()
	s.scheduleSave()
	return total
}

// MutateSales は販売実績スライスをロック下で書き換えます(店舗コード補完用)。
func (s *Session) MutateSales(fn func([]model.SalesRecord) int) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.sales)
}

// ReplaceProducts は商品マスタを全件置換します。
func (s *Session) ReplaceProducts(records []model.ProductRecord) {
	s.mu.Lock()
	s.products = records
	s.invalidateLocked("商品マスタ更新（再分析待ち）")
	s.mu.Unlock()
	s.scheduleSave()
}

// ClearShipping は送料マスタを破棄します。
func (s *Session) ClearShipping() {
	s.mu.Lock()
	s.shipping = nil
	s.invalidateLocked("送料マスタ削除（再分析待ち）")
	s.mu.Unlock()
	s.scheduleSave()
}

// ClearProducts は商品マスタを破棄します。
func (s *Session) ClearProducts() {
	s.mu.Lock()
	s.products = nil
	s.invalidateLocked("商品マスタ削除（再分析待ち）")
	s.mu.Unlock()
	s.scheduleSave()
}

// Datasets は3つのデータセットへの参照を返します。呼び出し側は変更しないこと。
func (s *Session) Datasets() ([]model.ShippingRecord, []model.SalesRecord, []model.ProductRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.shipping, s.sales, s.products
}

// Ready は3データセットすべてが取込済みかを返します。
func (s *Session) Ready() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.shipping) > 0 && len(s.sales) > 0 && len(s.products) > 0
}

// Settings は現在の設定のコピーを返します。
func (s *Session) Settings() model.Settings {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.settings
}

// UpdateSettings は設定を正規化して差し替えます。分析結果は無効化されます。
func (s *Session) UpdateSettings(settings model.Settings) {
	s.mu.Lock()
	s.settings = settings.Normalized()
	s.invalidateLocked("設定変更（再分析待ち）")
	s.mu.Unlock()
	s.scheduleSave()
}

// Result は最新の分析結果を返します。未分析なら nil です。
func (s *Session) Result() *model.AnalysisResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.result
}

// SetResult は分析結果を差し替えます。
func (s *Session) SetResult(result *model.AnalysisResult) {
	s.mu.Lock()
	s.result = result
	s.status = fmt.Sprintf("分析済み (%d件)", len(result.Records))
	s.mu.Unlock()
}

// Status は現在の状態表示文字列を返します。
func (s *Session) Status() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// ProgressDraft は画面側の下書きメモを返します。
func (s *Session) ProgressDraft() map[string]string {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[string]string, len(s.draft))
	for k, v := range s.draft {
		out[k] = v
	}
	return out
}

// SetProgressDraft は下書きメモを差し替えます。分析結果は無効化しません。
func (s *Session) SetProgressDraft(draft map[string]string) {
	s.mu.Lock()
	if draft == nil {
		draft = make(map[string]string)
	}
	s.draft = draft
	s.mu.Unlock()
	s.scheduleSave()
}

// Snapshot は保存用ペイロードを組み立てます。
func (s *Session) Snapshot() model.StatePayload {
	s.mu.Lock()
	defer s.mu.Unlock()
	return model.StatePayload{
		SchemaVersion: model.StateSchemaVersion,
		SavedAt:       time.Now(),
		ShippingData:  s.shipping,
		SalesData:     s.sales,
		ProductData:   s.products,
		Settings:      s.settings,
		ProgressDraft: s.draft,
	}
}

// Restore は保存ペイロードからセッションを復元します。
// 3つのデータセット配列が揃っていない壊れたペイロードは拒否し、状態を変えません。
func (s *Session) Restore(payload model.StatePayload) error {
	if payload.ShippingData == nil || payload.SalesData == nil || payload.ProductData == nil {
		return fmt.Errorf("保存データが不完全です (schemaVersion=%d)", payload.SchemaVersion)
	}
	s.mu.Lock()
	s.shipping = payload.ShippingData
	s.sales = payload.SalesData
	s.products = payload.ProductData
	s.settings = payload.Settings.Normalized()
	if payload.ProgressDraft != nil {
		s.draft = payload.ProgressDraft
	} else {
		s.draft = make(map[string]string)
	}
	s.invalidateLocked("保存データ復元（再分析待ち）")
	s.mu.Unlock()
	return nil
}

// scheduleSave は自動保存を依頼します。連打はまとめられます。
func (s *Session) scheduleSave() {
	if s.saver != nil {
		s.saver.Schedule()
	}
}

// FlushSave は保留中の自動保存を直ちに実行します(終了処理用)。
func (s *Session) FlushSave() {
	if s.saver != nil {
		s.saver.Flush()
	}
}
