// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\loader\shipping.go
package loader

import (
	"kaientai/cells"
	"kaientai/geo"
	"kaientai/model"
)

// shippingAreaCols は送料マスタのエリア送料が並ぶ固定列(J〜V)です。
var shippingAreaCols = func() []int {
	cols := make([]int, 0, len(model.AreaCodes))
	for c := model.ColJ; c <= model.ColV; c++ {
		cols = append(cols, c)
	}
	return cols
}()

// defaultAreaByCol は列ヘッダーからエリアを特定できなかったときの既定の対応です。
var defaultAreaByCol = func() map[int]model.AreaCode {
	m := make(map[int]model.AreaCode, len(shippingAreaCols))
	for i, col := range shippingAreaCols {
		m[col] = model.AreaCodes[i]
	}
	return m
}()

// buildShippingAreaColumnMap はどの列がどのエリアの送料かを判定します。
// 候補行は 2 行目(J2〜V2)、検出ヘッダー行、その 1 行上の順で、
// エリア名として解決できる列が 5 つ以上あった行を採用します。
func buildShippingAreaColumnMap(rows []model.Row, headerRow int) map[int]model.AreaCode {
	var candidates []model.Row
	if len(rows) > 1 {
		candidates = append(candidates, rows[1])
	}
	if headerRow >= 0 && headerRow < len(rows) {
		candidates = append(candidates, rows[headerRow])
	}
	if headerRow-1 >= 0 && headerRow-1 < len(rows) {
		candidates = append(candidates, rows[headerRow-1])
	}
	for _, candidate := range candidates {
		colMap := make(map[int]model.AreaCode)
		hit := 0
		for _, col := range shippingAreaCols {
			key := geo.ToAreaCode(candidate.Cell(col))
			if key == "" {
				continue
			}
			colMap[col] = key
			hit++
		}
		if hit >= 5 {
			return colMap
		}
	}
	return defaultAreaByCol
}

// ShippingLoadResult は送料マスタ取込の件数内訳です。
type ShippingLoadResult struct {
	Records []model.ShippingRecord
	Skipped int
}

// LoadShipping は送料マスタのブックを読み込みます。呼び出しごとに全件置換です。
// A列=JAN、B列=商品名、I列=サイズ帯、J〜V列=エリア別送料を想定します。
func LoadShipping(wb *model.Workbook, lg Logger) ShippingLoadResult {
	lg.Logf("--- 送料マスタ読込開始: %s ---", wb.FileName)
	lg.Logf("シート数: %d", len(wb.SheetNames))

	sheetName := FindBestSheet(wb, []string{"商品"}, 10, model.ColA, lg)
	rows := wb.Sheets[sheetName]
	lg.Logf("使用シート: 「%s」 / 総行数: %d", sheetName, len(rows))

	headerRow := FindHeaderRow(rows, []string{"jan", "janコード", "商品", "コード", "品番"})
	lg.Logf("ヘッダー行検出: %d行目 → データは%d行目から", headerRow, headerRow+1)

	areaColMap := buildShippingAreaColumnMap(rows, headerRow)

	var result ShippingLoadResult
	for i := headerRow + 1; i < len(rows); i++ {
		row := rows[i]
		jan := cells.ToString(row.Cell(model.ColA))
		if jan == "" {
			result.Skipped++
			continue
		}
		areaCosts := make(map[model.AreaCode]float64)
		for _, col := range shippingAreaCols {
			areaKey, ok := areaColMap[col]
			if !ok {
				continue
			}
			cost := cells.ToNumber(row.Cell(col))
			if cost > 0 {
				areaCosts[areaKey] = cost
			}
		}
		result.Records = append(result.Records, model.ShippingRecord{
			Jan:       jan,
			Name:      cells.ToString(row.Cell(model.ColB)),
			SizeBand:  cells.ToNumber(row.Cell(model.ColI)),
			AreaCosts: areaCosts,
		})
	}
	lg.Logf("送料マスタ: %d件読込 (スキップ: %d件, ヘッダー後空行含む)", len(result.Records), result.Skipped)
	return result
}
