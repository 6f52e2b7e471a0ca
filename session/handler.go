// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\session\handler.go
package session

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/jmoiron/sqlx"

	"kaientai/database"
	"kaientai/model"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{"message": message})
}

func respondJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// SettingsHandler は GET で現在の設定を返し、POST で差し替えます。
func SettingsHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respondJSON(w, sess.Settings())
		case http.MethodPost:
			var settings model.Settings
			if err := json.NewDecoder(r.Body).Decode(&settings); err != nil {
				respondJSONError(w, "設定の形式が不正です: "+err.Error(), http.StatusBadRequest)
				return
			}
			sess.UpdateSettings(settings)
			sess.Logf("設定を更新しました")
			respondJSON(w, map[string]interface{}{
				"settings": sess.Settings(),
				"status":   sess.Status(),
			})
		default:
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}

// StatusHandler はデータセット件数・分析状態・状態表示文字列を返します。
func StatusHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		shipping, sales, products := sess.Datasets()
		analyzed := sess.Result() != nil
		respondJSON(w, map[string]interface{}{
			"shippingCount": len(shipping),
			"salesCount":    len(sales),
			"productCount":  len(products),
			"ready":         sess.Ready(),
			"analyzed":      analyzed,
			"status":        sess.Status(),
		})
	}
}

// LogHandler は操作ログを返します。
func LogHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		respondJSON(w, map[string]interface{}{"lines": sess.LogLines()})
	}
}

// ProgressDraftHandler は画面の下書きメモを GET / POST します。
func ProgressDraftHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			respondJSON(w, sess.ProgressDraft())
		case http.MethodPost:
			var draft map[string]string
			if err := json.NewDecoder(r.Body).Decode(&draft); err != nil {
				respondJSONError(w, "下書きの形式が不正です: "+err.Error(), http.StatusBadRequest)
				return
			}
			sess.SetProgressDraft(draft)
			respondJSON(w, map[string]interface{}{"saved": true})
		default:
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	}
}

// SaveStateHandler はセッション状態を即時保存します。
func SaveStateHandler(sess *Session, conn *sqlx.DB, moduleID string, chunkSize int) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		meta, err := database.SaveModuleState(conn, moduleID, sess.Snapshot(), chunkSize)
		if err != nil {
			respondJSONError(w, "保存に失敗しました: "+err.Error(), http.StatusInternalServerError)
			return
		}
		sess.Logf("状態を保存しました (チャンク: %d / %dバイト)", meta.ChunkCount, meta.ByteLength)
		respondJSON(w, meta)
	}
}

// LoadStateHandler は保存済みセッション状態を復元します。
// 保存が無ければ loaded=false を返します。壊れた保存データは状態を変えずに拒否します。
func LoadStateHandler(sess *Session, conn *sqlx.DB, moduleID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload model.StatePayload
		found, err := database.LoadModuleState(conn, moduleID, &payload)
		if err != nil {
			respondJSONError(w, "読込に失敗しました: "+err.Error(), http.StatusInternalServerError)
			return
		}
		if !found {
			respondJSON(w, map[string]interface{}{"loaded": false})
			return
		}
		if err := sess.Restore(payload); err != nil {
			respondJSONError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		shipping, sales, products := sess.Datasets()
		sess.Logf("保存データを復元しました (送料: %d / 実績: %d / 商品: %d)",
			len(shipping), len(sales), len(products))
		respondJSON(w, map[string]interface{}{
			"loaded":        true,
			"savedAt":       payload.SavedAt,
			"shippingCount": len(shipping),
			"salesCount":    len(sales),
			"productCount":  len(products),
			"status":        sess.Status(),
		})
	}
}

// ExportStateHandler はセッション状態をJSONファイルとしてダウンロードさせます。
func ExportStateHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := sess.Snapshot()
		filename := fmt.Sprintf("kaientai_state_%s.json", time.Now().Format("20060102_150405"))
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		enc.Encode(payload)
	}
}

// ImportStateHandler はエクスポートしたJSONからセッション状態を復元します。
func ImportStateHandler(sess *Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		var payload model.StatePayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondJSONError(w, "ファイルの形式が不正です: "+err.Error(), http.StatusBadRequest)
			return
		}
		if err := sess.Restore(payload); err != nil {
			respondJSONError(w, err.Error(), http.StatusUnprocessableEntity)
			return
		}
		shipping, sales, products := sess.Datasets()
		sess.Logf("インポートしました (送料: %d / 実績: %d / 商品: %d)",
			len(shipping), len(sales), len(products))
		respondJSON(w, map[string]interface{}{
			"loaded": true,
			"status": sess.Status(),
		})
	}
}
