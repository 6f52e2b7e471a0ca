// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\loader\loader.go
package loader

import (
	"regexp"
	"strings"

	"kaientai/cells"
	"kaientai/model"
)

// Logger は取込処理の経過を操作ログへ残すための窓口です。
type Logger interface {
	Logf(format string, v ...any)
}

var barcodePattern = regexp.MustCompile(`^\d{8,13}$`)

// FindHeaderRow は先頭15行を走査してヘッダー行の位置を返します。
// キーワードを含む行が見つからなければ 0 行目をヘッダーとみなします。
func FindHeaderRow(rows []model.Row, keywords []string) int {
	limit := len(rows)
	if limit > 15 {
		limit = 15
	}
	for i := 0; i < limit; i++ {
		parts := make([]string, len(rows[i]))
		for j, c := range rows[i] {
			parts[j] = strings.ToLower(cells.ToString(c))
		}
		rowText := strings.Join(parts, " ")
		for _, kw := range keywords {
			if kw != "" && strings.Contains(rowText, kw) {
				return i
			}
		}
	}
	return 0
}

// FindBestSheet は複数シートの中から明細の入っていそうなシートを選びます。
// シート名が preferNames に一致して 5 行を超えるものを最優先し、見つからなければ
// 行数 + 列数が揃った行 + キー列がバーコードらしい行、で採点します。
func FindBestSheet(wb *model.Workbook, preferNames []string, minCols, keyCol int, lg Logger) string {
	if wb == nil || len(wb.SheetNames) == 0 {
		return ""
	}
	for _, pref := range preferNames {
		for _, name := range wb.SheetNames {
			if pref != "" && strings.Contains(name, pref) && len(wb.Sheets[name]) > 5 {
				if lg != nil {
					lg.Logf("  → シート名一致で「%s」を選択", name)
				}
				return name
			}
		}
	}
	best, bestScore := "", 0
	for _, name := range wb.SheetNames {
		rows := wb.Sheets[name]
		if len(rows) < 3 {
			continue
		}
		score := len(rows)
		keyHits := 0
		limit := len(rows)
		if limit > 20 {
			limit = 20
		}
		for i := 1; i < limit; i++ {
			row := rows[i]
			if len(row) >= minCols {
				score += 5
			}
			if val := row.Cell(keyCol); val != "" && barcodePattern.MatchString(cells.ToString(val)) {
				keyHits++
			}
		}
		score += keyHits * 10
		if score > bestScore {
			best, bestScore = name, score
		}
	}
	if best != "" {
		if lg != nil {
			lg.Logf("  → データ内容分析で「%s」を選択 (スコア=%d)", best, bestScore)
		}
		return best
	}
	return wb.SheetNames[0]
}

// makerNoise はメーカー表記の揺れを吸収するために落とす文字です。
var makerNoise = regexp.MustCompile(`[\s（）()株]+`)

// DetectMaker は自由記述のメーカー欄からメーカー区分を判定します。
func DetectMaker(text string, settings model.Settings) model.Maker {
	norm := strings.ToLower(makerNoise.ReplaceAllString(text, ""))
	if norm == "" {
		return model.MakerOther
	}
	for _, kw := range settings.KeywordAron {
		if kw != "" && strings.Contains(norm, kw) {
			return model.MakerAron
		}
	}
	for _, kw := range settings.KeywordPana {
		if kw != "" && strings.Contains(norm, kw) {
			return model.MakerPana
		}
	}
	return model.MakerOther
}

// BackfillStoreCodes は同名店舗の最頻店舗コードを、コード欠損の行へ補完します。
// 補完した行数を返します。
func BackfillStoreCodes(records []model.SalesRecord) int {
	byStore := make(map[string]map[string]int)
	for _, r := range records {
		if r.Store == "" || r.StoreCode == "" {
			continue
		}
		f, ok := byStore[r.Store]
		if !ok {
			f = make(map[string]int)
			byStore[r.Store] = f
		}
		f[r.StoreCode]++
	}
	best := make(map[string]string, len(byStore))
	for store, f := range byStore {
		top, topN := "", 0
		for code, n := range f {
			// 同数のときは辞書順最小のコードを採用（map順による揺れ防止）
			if n > topN || (n == topN && code < top) {
				top, topN = code, n
			}
		}
		best[store] = top
	}
	filled := 0
	for i := range records {
		if records[i].StoreCode != "" {
			continue
		}
		if code, ok := best[records[i].Store]; ok && code != "" {
			records[i].StoreCode = code
			filled++
		}
	}
	return filled
}
