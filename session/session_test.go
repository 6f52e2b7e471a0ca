// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\session\session_test.go
package session

import (
	"strings"
	"sync"
	"testing"

	"kaientai/model"
)

func newTestSession() *Session {
	return New(nil, "aron-pana", 0)
}

func TestSessionInvalidatesResultOnDataChange(t *testing.T) {
	sess := newTestSession()
	sess.SetResult(&model.AnalysisResult{RunID: "r1"})
	if sess.Result() == nil {
		t.Fatal("結果が入っていない")
	}

	sess.ReplaceShipping([]model.ShippingRecord{{Jan: "A"}})
	if sess.Result() != nil {
		t.Error("送料更新で結果が無効化されるべき")
	}

	sess.SetResult(&model.AnalysisResult{RunID: "r2"})
	sess.UpdateSettings(model.DefaultSettings())
	if sess.Result() != nil {
		t.Error("設定変更で結果が無効化されるべき")
	}

	sess.SetResult(&model.AnalysisResult{RunID: "r3"})
	sess.SetProgressDraft(map[string]string{"memo": "途中"})
	if sess.Result() == nil {
		t.Error("下書き保存では結果を保持する")
	}
}

func TestSessionReady(t *testing.T) {
	sess := newTestSession()
	if sess.Ready() {
		t.Fatal("空セッションはready=false")
	}
	sess.ReplaceShipping([]model.ShippingRecord{{Jan: "A"}})
	sess.AppendSales([]model.SalesRecord{{Jan: "A"}})
	if sess.Ready() {
		t.Fatal("商品マスタ未取込ではready=false")
	}
	sess.ReplaceProducts([]model.ProductRecord{{Jan: "A"}})
	if !sess.Ready() {
		t.Fatal("3点揃えばready=true")
	}
	sess.ClearProducts()
	if sess.Ready() {
		t.Fatal("削除後はready=false")
	}
}

func TestSnapshotRoundTrip(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceShipping([]model.ShippingRecord{{Jan: "A", SizeBand: 150}})
	sess.AppendSales([]model.SalesRecord{{Jan: "A", OrderNo: "J1", Month: "2024-05"}})
	sess.ReplaceProducts([]model.ProductRecord{{Jan: "A", ListPrice: 1000}})
	settings := model.DefaultSettings()
	settings.RebateAron = 0.05
	sess.UpdateSettings(settings)

	payload := sess.Snapshot()
	if payload.SchemaVersion != model.StateSchemaVersion {
		t.Errorf("スキーマ版数: got %d", payload.SchemaVersion)
	}

	restored := newTestSession()
	if err := restored.Restore(payload); err != nil {
		t.Fatalf("復元失敗: %v", err)
	}
	shipping, sales, products := restored.Datasets()
	if len(shipping) != 1 || len(sales) != 1 || len(products) != 1 {
		t.Fatalf("復元件数: %d/%d/%d", len(shipping), len(sales), len(products))
	}
	if restored.Settings().RebateAron != 0.05 {
		t.Errorf("設定の復元: got %v", restored.Settings().RebateAron)
	}
	if restored.Result() != nil {
		t.Error("復元後は再分析待ち")
	}
}

func TestRestoreRejectsBrokenPayload(t *testing.T) {
	sess := newTestSession()
	sess.ReplaceShipping([]model.ShippingRecord{{Jan: "KEEP"}})

	broken := model.StatePayload{
		SchemaVersion: model.StateSchemaVersion,
		ShippingData:  []model.ShippingRecord{},
		SalesData:     []model.SalesRecord{},
		// ProductData が欠けている
	}
	if err := sess.Restore(broken); err == nil {
		t.Fatal("不完全なペイロードは拒否すべき")
	}
	shipping, _, _ := sess.Datasets()
	if len(shipping) != 1 || shipping[0].Jan != "KEEP" {
		t.Fatal("拒否時は状態を変えない")
	}
}

func TestLogfKeepsRecentLines(t *testing.T) {
	sess := newTestSession()
	for i := 0; i < maxLogLines+10; i++ {
		sess.Logf("行%d", i)
	}
	lines := sess.LogLines()
	if len(lines) != maxLogLines {
		t.Fatalf("保持行数: got %d, want %d", len(lines), maxLogLines)
	}
	if !strings.Contains(lines[len(lines)-1], "行509") {
		t.Errorf("末尾が最新行でない: %s", lines[len(lines)-1])
	}
}

func TestSaverCoalesces(t *testing.T) {
	var mu sync.Mutex
	count := 0
	sv := NewSaver(func() error {
		mu.Lock()
		count++
		mu.Unlock()
		return nil
	})

	// 予約してから Flush すると1回だけ保存される
	sv.Schedule()
	sv.Schedule()
	sv.Schedule()
	sv.Flush()

	mu.Lock()
	got := count
	mu.Unlock()
	if got != 1 {
		t.Fatalf("保存回数: got %d, want 1", got)
	}

	sv.Flush()
	mu.Lock()
	got = count
	mu.Unlock()
	if got != 2 {
		t.Fatalf("2回目: got %d, want 2", got)
	}
}
