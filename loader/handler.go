// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\loader\handler.go
package loader

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"

	"kaientai/model"
	"kaientai/parsers"
	"kaientai/session"
)

// respondJSONError は loader パッケージ共有のエラーレスポンス関数です
func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	log.Println("Error response:", message)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": message,
	})
}

func respondJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// parseUploadedWorkbooks はアップロードされた全ファイルをブックに変換します。
func parseUploadedWorkbooks(r *http.Request) ([]*model.Workbook, error) {
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		return nil, fmt.Errorf("ファイルのアップロードに失敗しました: %w", err)
	}
	defer r.MultipartForm.RemoveAll()

	headers := r.MultipartForm.File["file"]
	if len(headers) == 0 {
		return nil, fmt.Errorf("ファイルが添付されていません")
	}

	var wbs []*model.Workbook
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			return nil, fmt.Errorf("ファイル %s を開けません: %w", fh.Filename, err)
		}
		wb, parseErr := parsers.ParseWorkbook(fh.Filename, f)
		f.Close()
		if parseErr != nil {
			return nil, fmt.Errorf("ファイル %s の解析に失敗しました: %w", fh.Filename, parseErr)
		}
		wbs = append(wbs, wb)
	}
	return wbs, nil
}

// UploadShippingHandler は送料マスタのアップロードを受け付けます(全件置換)。
func UploadShippingHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		wbs, err := parseUploadedWorkbooks(r)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		// 送料マスタは1ファイル運用。複数来たら最後のファイルが有効
		var result ShippingLoadResult
		for _, wb := range wbs {
			result = LoadShipping(wb, sess)
		}
		sess.ReplaceShipping(result.Records)
		respondJSON(w, map[string]interface{}{
			"loaded":  len(result.Records),
			"skipped": result.Skipped,
			"status":  sess.Status(),
		})
	}
}

// UploadSalesHandler は販売実績のアップロードを受け付けます(追記・受注番号重複排除)。
func UploadSalesHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		wbs, err := parseUploadedWorkbooks(r)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		_, existing, _ := sess.Datasets()
		result := LoadSales(wbs, existing, sess.Settings(), sess)
		total := sess.AppendSales(result.Added)
		filled := sess.MutateSales(BackfillStoreCodes)
		if filled > 0 {
			sess.Logf("店舗コード補完: %d件", filled)
		}
		respondJSON(w, map[string]interface{}{
			"added":      len(result.Added),
			"total":      total,
			"duplicates": result.DuplicateCount,
			"dateOk":     result.DateOK,
			"dateFail":   result.DateFail,
			"files":      result.FileCount,
			"status":     sess.Status(),
		})
	}
}

// UploadProductHandler は商品マスタのアップロードを受け付けます(全件置換)。
func UploadProductHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		wbs, err := parseUploadedWorkbooks(r)
		if err != nil {
			respondJSONError(w, err.Error(), http.StatusBadRequest)
			return
		}
		result := LoadProduct(wbs, sess)
		sess.ReplaceProducts(result.Records)
		respondJSON(w, map[string]interface{}{
			"loaded":      len(result.Records),
			"skipped":     result.Skipped,
			"overwritten": result.OverwriteCount,
			"files":       result.FileCount,
			"status":      sess.Status(),
		})
	}
}

// ClearShippingHandler は送料マスタを破棄します。
func ClearShippingHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		sess.ClearShipping()
		sess.Logf("送料マスタを削除しました")
		respondJSON(w, map[string]interface{}{"status": sess.Status()})
	}
}

// ClearProductHandler は商品マスタを破棄します。
func ClearProductHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		sess.ClearProducts()
		sess.Logf("商品マスタを削除しました")
		respondJSON(w, map[string]interface{}{"status": sess.Status()})
	}
}
