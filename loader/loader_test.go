// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\loader\loader_test.go
package loader

import (
	"testing"

	"kaientai/model"
)

type nopLogger struct{}

func (nopLogger) Logf(format string, v ...any) {}

func TestFindHeaderRow(t *testing.T) {
	rows := []model.Row{
		{"帳票タイトル"},
		{""},
		{"JANコード", "商品名", "数量"},
		{"4901234567890", "テスト商品", "3"},
	}
	got := FindHeaderRow(rows, []string{"jan", "商品"})
	if got != 2 {
		t.Fatalf("ヘッダー行: got %d, want 2", got)
	}
	if got := FindHeaderRow(rows, []string{"存在しない語"}); got != 0 {
		t.Fatalf("キーワード不一致時は0行目: got %d", got)
	}
}

func TestFindBestSheetPrefersName(t *testing.T) {
	wb := &model.Workbook{
		FileName:   "master.xlsx",
		SheetNames: []string{"説明", "商品一覧"},
		Sheets: map[string][]model.Row{
			"説明":   {{"メモ"}},
			"商品一覧": {{"JAN"}, {"1"}, {"2"}, {"3"}, {"4"}, {"5"}, {"6"}},
		},
	}
	if got := FindBestSheet(wb, []string{"商品"}, 10, model.ColA, nopLogger{}); got != "商品一覧" {
		t.Fatalf("シート名一致を優先すべき: got %s", got)
	}
}

func TestFindBestSheetScoresBarcodes(t *testing.T) {
	wide := make(model.Row, 12)
	wb := &model.Workbook{
		FileName:   "master.xlsx",
		SheetNames: []string{"表紙", "データ"},
		Sheets: map[string][]model.Row{
			"表紙": {{"タイトル"}, {"前書き"}, {"目次"}, {"補足"}},
			"データ": {
				{"JAN", "名前"},
				{"4901234567890", "A"},
				{"4987167012345", "B"},
				wide,
			},
		},
	}
	if got := FindBestSheet(wb, nil, 10, model.ColA, nopLogger{}); got != "データ" {
		t.Fatalf("バーコードを含むシートを選ぶべき: got %s", got)
	}
}

func TestDetectMaker(t *testing.T) {
	settings := model.DefaultSettings()
	tests := []struct {
		in   string
		want model.Maker
	}{
		{"アロン化成（株）", model.MakerAron},
		{"（株）アロン 化成", model.MakerAron},
		{"パナソニック エイジフリー", model.MakerPana},
		{"Panasonic", model.MakerPana},
		{"パナ", model.MakerPana},
		{"別のメーカー", model.MakerOther},
		{"", model.MakerOther},
	}
	for _, tt := range tests {
		if got := DetectMaker(tt.in, settings); got != tt.want {
			t.Errorf("DetectMaker(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func salesRow(orderNo, date, store, jan, name, qty, price, maker string) model.Row {
	row := make(model.Row, model.ColAB+1)
	row[model.ColA] = orderNo
	row[model.ColB] = date
	row[model.ColD] = store
	row[model.ColH] = jan
	row[model.ColI] = name
	row[model.ColK] = qty
	row[model.ColL] = price
	row[model.ColM] = qty
	row[model.ColS] = maker
	row[model.ColAB] = "東京都"
	return row
}

func TestLoadSalesDeduplicatesAcrossFiles(t *testing.T) {
	header := model.Row{"受注番号", "受注日", "", "得意先", "", "", "", "JANコード"}
	wb1 := &model.Workbook{
		FileName:   "sales_2024年5月.xlsx",
		SheetNames: []string{"Sheet1"},
		Sheets: map[string][]model.Row{
			"Sheet1": {
				header,
				salesRow("J001", "2024/05/10", "A店", "4901234567890", "商品A", "2", "900", "アロン化成"),
				salesRow("J002", "2024/05/11", "B店", "4901234567891", "商品B", "1", "500", "パナソニック"),
				salesRow("J001", "2024/05/12", "A店", "4901234567890", "商品A", "2", "900", "アロン化成"),
			},
		},
	}
	settings := model.DefaultSettings()
	first := LoadSales([]*model.Workbook{wb1}, nil, settings, nopLogger{})
	if len(first.Added) != 2 {
		t.Fatalf("追加件数: got %d, want 2", len(first.Added))
	}
	if first.DuplicateCount != 1 {
		t.Fatalf("ファイル内重複: got %d, want 1", first.DuplicateCount)
	}

	// 2回目の取込でも累計の受注番号で重複排除される
	second := LoadSales([]*model.Workbook{wb1}, first.Added, settings, nopLogger{})
	if len(second.Added) != 0 {
		t.Fatalf("累計重複排除が効いていない: added %d", len(second.Added))
	}
	if second.DuplicateCount != 3 {
		t.Fatalf("累計重複件数: got %d, want 3", second.DuplicateCount)
	}

	rec := first.Added[0]
	if rec.Month != "2024-05" {
		t.Errorf("B列日付から月を取るべき: got %s", rec.Month)
	}
	if rec.Maker != model.MakerAron {
		t.Errorf("S列からメーカー判定すべき: got %s", rec.Maker)
	}
	if first.Added[1].Maker != model.MakerPana {
		t.Errorf("パナ判定が効いていない: got %s", first.Added[1].Maker)
	}
}

func TestLoadSalesMonthFallsBackToFilename(t *testing.T) {
	header := model.Row{"受注番号", "受注日", "", "得意先", "", "", "", "JANコード"}
	wb := &model.Workbook{
		FileName:   "実績_2024年7月.csv",
		SheetNames: []string{"Sheet1"},
		Sheets: map[string][]model.Row{
			"Sheet1": {
				header,
				salesRow("J100", "", "A店", "4901234567890", "商品A", "1", "800", ""),
			},
		},
	}
	result := LoadSales([]*model.Workbook{wb}, nil, model.DefaultSettings(), nopLogger{})
	if len(result.Added) != 1 {
		t.Fatalf("追加件数: got %d", len(result.Added))
	}
	if result.Added[0].Month != "2024-07" {
		t.Errorf("ファイル名フォールバック: got %s, want 2024-07", result.Added[0].Month)
	}
	if result.DateFail != 1 {
		t.Errorf("日付NGカウント: got %d, want 1", result.DateFail)
	}
}

func TestLoadShippingAreaColumns(t *testing.T) {
	// J2〜V2にエリア名が並ぶ標準レイアウト
	labelRow := make(model.Row, model.ColV+1)
	labels := []string{"北海道", "北東北", "南東北", "関東", "信越", "北陸", "中部", "関西", "中国", "四国", "北九州", "南九州", "沖縄"}
	for i, label := range labels {
		labelRow[model.ColJ+i] = label
	}
	header := make(model.Row, model.ColV+1)
	header[model.ColA] = "JANコード"
	header[model.ColB] = "商品名"
	dataRow := make(model.Row, model.ColV+1)
	dataRow[model.ColA] = "4901234567890"
	dataRow[model.ColB] = "シャワーチェア"
	dataRow[model.ColI] = "150"
	dataRow[model.ColJ] = "800"  // 北海道
	dataRow[model.ColM] = "500"  // 関東
	dataRow[model.ColV] = "2000" // 沖縄

	wb := &model.Workbook{
		FileName:   "shipping.xlsx",
		SheetNames: []string{"商品"},
		Sheets:     map[string][]model.Row{"商品": {{"送料表"}, labelRow, header, dataRow}},
	}
	result := LoadShipping(wb, nopLogger{})
	if len(result.Records) != 1 {
		t.Fatalf("読込件数: got %d, want 1", len(result.Records))
	}
	rec := result.Records[0]
	if rec.Jan != "4901234567890" || rec.SizeBand != 150 {
		t.Fatalf("基本項目が取れていない: %+v", rec)
	}
	if rec.AreaCosts[model.AreaHokkaido] != 800 {
		t.Errorf("北海道送料: got %v", rec.AreaCosts[model.AreaHokkaido])
	}
	if rec.AreaCosts[model.AreaKanto] != 500 {
		t.Errorf("関東送料: got %v", rec.AreaCosts[model.AreaKanto])
	}
	if rec.AreaCosts[model.AreaOkinawa] != 2000 {
		t.Errorf("沖縄送料: got %v", rec.AreaCosts[model.AreaOkinawa])
	}
	if _, ok := rec.AreaCosts[model.AreaKansai]; ok {
		t.Errorf("0円の列は持たない想定")
	}
}

func TestBuildShippingAreaColumnMapFallback(t *testing.T) {
	// エリア名ヘッダーが無いブックでは既定のJ〜V対応に落ちる
	rows := []model.Row{{"JAN"}, {"4901234567890"}}
	colMap := buildShippingAreaColumnMap(rows, 0)
	if len(colMap) != len(model.AreaCodes) {
		t.Fatalf("既定マップ: got %d列, want %d列", len(colMap), len(model.AreaCodes))
	}
	if colMap[model.ColJ] != model.AreaHokkaido {
		t.Errorf("J列は北海道: got %s", colMap[model.ColJ])
	}
	if colMap[model.ColV] != model.AreaOkinawa {
		t.Errorf("V列は沖縄: got %s", colMap[model.ColV])
	}
}

func TestLoadProductLastWins(t *testing.T) {
	header := model.Row{"jan", "", "", "item", "", "", "", "price"}
	row := func(jan, name, list, cost, wc string) model.Row {
		r := make(model.Row, model.ColO+1)
		r[model.ColA] = jan
		r[model.ColD] = name
		r[model.ColH] = list
		r[model.ColM] = cost
		r[model.ColO] = wc
		return r
	}
	wb := &model.Workbook{
		FileName:   "products.xlsx",
		SheetNames: []string{"Sheet1"},
		Sheets: map[string][]model.Row{
			"Sheet1": {
				header,
				row("4901234567890", "旧名称", "1000", "600", "0"),
				row("4901234567890", "新名称", "1000", "620", "580"),
				row("", "キー無し", "100", "50", "0"),
			},
		},
	}
	result := LoadProduct([]*model.Workbook{wb}, nopLogger{})
	if len(result.Records) != 1 {
		t.Fatalf("件数: got %d, want 1", len(result.Records))
	}
	if result.OverwriteCount != 1 || result.Skipped != 1 {
		t.Fatalf("上書き=%d スキップ=%d", result.OverwriteCount, result.Skipped)
	}
	rec := result.Records[0]
	if rec.Name != "新名称" {
		t.Errorf("後勝ちで上書きすべき: got %s", rec.Name)
	}
	if rec.EffectiveCost != 580 {
		t.Errorf("倉庫原価があればそちらを使う: got %v", rec.EffectiveCost)
	}
}

func TestBackfillStoreCodes(t *testing.T) {
	records := []model.SalesRecord{
		{Store: "A店", StoreCode: "S01"},
		{Store: "A店", StoreCode: "S01"},
		{Store: "A店", StoreCode: "S99"},
		{Store: "A店", StoreCode: ""},
		{Store: "B店", StoreCode: ""},
	}
	filled := BackfillStoreCodes(records)
	if filled != 1 {
		t.Fatalf("補完件数: got %d, want 1", filled)
	}
	if records[3].StoreCode != "S01" {
		t.Errorf("最頻コードで補完すべき: got %s", records[3].StoreCode)
	}
	if records[4].StoreCode != "" {
		t.Errorf("コード実績の無い店舗は補完しない: got %s", records[4].StoreCode)
	}
}

func TestBackfillStoreCodesTieIsDeterministic(t *testing.T) {
	// S10とS02が同数。何度実行しても辞書順最小のS02に決まる
	for i := 0; i < 20; i++ {
		records := []model.SalesRecord{
			{Store: "A店", StoreCode: "S10"},
			{Store: "A店", StoreCode: "S02"},
			{Store: "A店", StoreCode: ""},
		}
		BackfillStoreCodes(records)
		if records[2].StoreCode != "S02" {
			t.Fatalf("同数タイの補完が揺れた: got %s", records[2].StoreCode)
		}
	}
}
