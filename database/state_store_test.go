// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\database\state_store_test.go
package database

import (
	"testing"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"
)

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	conn, err := sqlx.Open("sqlite3", ":memory:")
	if err != nil {
		t.Fatalf("db open error: %v", err)
	}
	t.Cleanup(func() { conn.Close() })
	if err := InitDatabase(conn); err != nil {
		t.Fatalf("init error: %v", err)
	}
	return conn
}

type testPayload struct {
	Name  string   `json:"name"`
	Items []string `json:"items"`
}

func TestSaveAndLoadModuleState(t *testing.T) {
	conn := openTestDB(t)

	payload := testPayload{Name: "アロンパナ", Items: []string{"a", "b", "c"}}
	meta, err := SaveModuleState(conn, "aron-pana", payload, 0)
	if err != nil {
		t.Fatalf("save error: %v", err)
	}
	if meta.ChunkCount != 1 || meta.ByteLength == 0 || meta.SnapshotID == "" {
		t.Fatalf("meta: %+v", meta)
	}

	var loaded testPayload
	found, err := LoadModuleState(conn, "aron-pana", &loaded)
	if err != nil {
		t.Fatalf("load error: %v", err)
	}
	if !found {
		t.Fatal("保存したのに見つからない")
	}
	if loaded.Name != payload.Name || len(loaded.Items) != 3 {
		t.Fatalf("round trip: %+v", loaded)
	}

	// 未保存のモジュールIDは found=false
	found, err = LoadModuleState(conn, "unknown", &loaded)
	if err != nil || found {
		t.Fatalf("未保存: found=%v err=%v", found, err)
	}
}

func TestSaveModuleStateChunking(t *testing.T) {
	conn := openTestDB(t)

	big := testPayload{Name: "big"}
	for i := 0; i < 100; i++ {
		big.Items = append(big.Items, "0123456789")
	}
	// チャンクサイズを小さくして分割を起こす
	meta, err := SaveModuleState(conn, "aron-pana", big, 100)
	if err != nil {
		t.Fatalf("save error: %v", err)
	}
	if meta.ChunkCount < 2 {
		t.Fatalf("分割されていない: %+v", meta)
	}

	var loaded testPayload
	found, err := LoadModuleState(conn, "aron-pana", &loaded)
	if err != nil || !found {
		t.Fatalf("load: found=%v err=%v", found, err)
	}
	if len(loaded.Items) != 100 {
		t.Fatalf("復元件数: %d", len(loaded.Items))
	}

	// 小さいペイロードで上書きすると余りチャンクが消える
	small := testPayload{Name: "small", Items: []string{"x"}}
	meta2, err := SaveModuleState(conn, "aron-pana", small, 100)
	if err != nil {
		t.Fatalf("overwrite error: %v", err)
	}
	var n int
	if err := conn.Get(&n, `SELECT COUNT(*) FROM module_state_chunks WHERE module_id = ?`, "aron-pana"); err != nil {
		t.Fatalf("count error: %v", err)
	}
	if n != meta2.ChunkCount {
		t.Fatalf("古いチャンクが残っている: %d != %d", n, meta2.ChunkCount)
	}

	if found, err = LoadModuleState(conn, "aron-pana", &loaded); err != nil || !found {
		t.Fatalf("reload: %v", err)
	}
	if loaded.Name != "small" {
		t.Fatalf("上書き結果: %+v", loaded)
	}
}

func TestDeleteModuleState(t *testing.T) {
	conn := openTestDB(t)
	if _, err := SaveModuleState(conn, "aron-pana", testPayload{Name: "x"}, 0); err != nil {
		t.Fatalf("save error: %v", err)
	}
	if err := DeleteModuleState(conn, "aron-pana"); err != nil {
		t.Fatalf("delete error: %v", err)
	}
	var loaded testPayload
	found, err := LoadModuleState(conn, "aron-pana", &loaded)
	if err != nil || found {
		t.Fatalf("削除後: found=%v err=%v", found, err)
	}
}
