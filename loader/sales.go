// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\loader\sales.go
package loader

import (
	"sort"
	"strings"

	"kaientai/cells"
	"kaientai/model"
)

// SalesLoadResult は販売実績取込の件数内訳です。
type SalesLoadResult struct {
	Added          []model.SalesRecord
	DuplicateCount int
	DateOK         int
	DateFail       int
	FileCount      int
}

// LoadSales は販売実績のブック群を読み込みます。既存データへの追記方式で、
// 受注番号は累計全体で重複排除します(先勝ち)。
// A列=受注番号、B列=受注日、D列=店舗名、E列=店舗コード、H列=JAN、I列=商品名、
// K列=数量、L列=単価、M列=金額、S列=メーカー表記、Z列=営業担当、AB列=都道府県。
func LoadSales(wbs []*model.Workbook, existing []model.SalesRecord, settings model.Settings, lg Logger) SalesLoadResult {
	seenOrderNos := make(map[string]struct{}, len(existing))
	monthValues := make(map[string]struct{})
	makerValues := make(map[string]struct{})
	for _, s := range existing {
		if no := strings.TrimSpace(s.OrderNo); no != "" {
			seenOrderNos[no] = struct{}{}
		}
		if s.Month != "" {
			monthValues[s.Month] = struct{}{}
		}
		if s.MakerRaw != "" {
			makerValues[s.MakerRaw] = struct{}{}
		}
	}

	result := SalesLoadResult{FileCount: len(wbs)}
	for _, wb := range wbs {
		lg.Logf("--- 販売実績読込: %s ---", wb.FileName)
		fileMonth := cells.ExtractMonthFromFilename(wb.FileName)
		for _, sheetName := range wb.SheetNames {
			rows := wb.Sheets[sheetName]
			lg.Logf("  シート[%s]: %d行", sheetName, len(rows))

			headerRow := FindHeaderRow(rows, []string{"jan", "janコード", "商品", "コード", "品番", "数量", "販売", "受注"})
			lg.Logf("  ヘッダー行: %d行目", headerRow)

			count, dateOk, dateFail := 0, 0, 0
			for i := headerRow + 1; i < len(rows); i++ {
				row := rows[i]
				jan := cells.ToString(row.Cell(model.ColH))
				if jan == "" {
					continue
				}
				orderNo := strings.TrimSpace(cells.ToString(row.Cell(model.ColA)))

				// B列の受注日から月を判定、取れなければファイル名フォールバック
				month := cells.ExtractMonth(row.Cell(model.ColB))
				if month != "" {
					dateOk++
				} else {
					dateFail++
					month = fileMonth
					if month == "" {
						month = "unknown"
					}
				}
				monthValues[month] = struct{}{}

				makerRaw := cells.ToString(row.Cell(model.ColS))
				if makerRaw != "" {
					makerValues[makerRaw] = struct{}{}
				}
				maker := model.MakerOther
				if makerRaw != "" {
					maker = DetectMaker(makerRaw, settings)
				}

				if orderNo != "" {
					if _, dup := seenOrderNos[orderNo]; dup {
						result.DuplicateCount++
						continue
					}
					seenOrderNos[orderNo] = struct{}{}
				}
				result.Added = append(result.Added, model.SalesRecord{
					OrderNo:    orderNo,
					Month:      month,
					Maker:      maker,
					MakerRaw:   makerRaw,
					SalesRep:   cells.ToString(row.Cell(model.ColZ)),
					Store:      cells.ToString(row.Cell(model.ColD)),
					StoreCode:  cells.ToString(row.Cell(model.ColE)),
					Prefecture: cells.ToString(row.Cell(model.ColAB)),
					Jan:        jan,
					Name:       cells.ToString(row.Cell(model.ColI)),
					Qty:        cells.ToNumber(row.Cell(model.ColK)),
					UnitPrice:  cells.ToNumber(row.Cell(model.ColL)),
					TotalPrice: cells.ToNumber(row.Cell(model.ColM)),
				})
				count++
			}
			result.DateOK += dateOk
			result.DateFail += dateFail
			lg.Logf("  → %d件読込 (B列日付OK=%d, B列日付NG=%d)", count, dateOk, dateFail)
		}
	}

	months := make([]string, 0, len(monthValues))
	for m := range monthValues {
		months = append(months, m)
	}
	sort.Strings(months)
	lg.Logf("検出月一覧: [%s]", strings.Join(months, ", "))
	lg.Logf("販売実績追加: %d件 / 重複受注番号スキップ: %d件", len(result.Added), result.DuplicateCount)
	return result
}
