// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\loader\product.go
package loader

import (
	"kaientai/cells"
	"kaientai/model"
)

// ProductLoadResult は商品マスタ取込の件数内訳です。
type ProductLoadResult struct {
	Records        []model.ProductRecord
	Skipped        int
	OverwriteCount int
	FileCount      int
}

// LoadProduct は商品マスタのブック群を読み込みます。呼び出しごとに全件置換で、
// 同一JANは後勝ちで上書きします(上書き件数を数えます)。
// A列=JAN、D列=商品名、H列=定価、M列=仕入原価、O列=倉庫原価を想定します。
func LoadProduct(wbs []*model.Workbook, lg Logger) ProductLoadResult {
	result := ProductLoadResult{FileCount: len(wbs)}
	index := make(map[string]int)

	for _, wb := range wbs {
		lg.Logf("--- 商品マスタ読込: %s ---", wb.FileName)
		sheetName := FindBestSheet(wb, nil, 10, model.ColA, lg)
		rows := wb.Sheets[sheetName]
		lg.Logf("使用シート: 「%s」 / 総行数: %d", sheetName, len(rows))

		headerRow := FindHeaderRow(rows, []string{"jan", "code", "item", "cost", "price"})
		lg.Logf("ヘッダー行: %d行目", headerRow)

		fileCount := 0
		for i := headerRow + 1; i < len(rows); i++ {
			row := rows[i]
			jan := cells.ToString(row.Cell(model.ColA))
			if jan == "" {
				result.Skipped++
				continue
			}
			wc := cells.ToNumber(row.Cell(model.ColO))
			cost := cells.ToNumber(row.Cell(model.ColM))
			effective := cost
			if wc > 0 {
				effective = wc
			}
			rec := model.ProductRecord{
				Jan:           jan,
				Name:          cells.ToString(row.Cell(model.ColD)),
				ListPrice:     cells.ToNumber(row.Cell(model.ColH)),
				Cost:          cost,
				WarehouseCost: wc,
				EffectiveCost: effective,
			}
			if pos, dup := index[jan]; dup {
				result.OverwriteCount++
				result.Records[pos] = rec
			} else {
				index[jan] = len(result.Records)
				result.Records = append(result.Records, rec)
			}
			fileCount++
		}
		lg.Logf("  %s: %d件取込", wb.FileName, fileCount)
	}
	lg.Logf("商品マスタ: %d件 (ファイル: %d, スキップ: %d, JAN重複上書き: %d)",
		len(result.Records), result.FileCount, result.Skipped, result.OverwriteCount)
	return result
}
