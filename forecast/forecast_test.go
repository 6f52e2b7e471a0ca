// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\forecast\forecast_test.go
package forecast

import (
	"math"
	"testing"

	"kaientai/model"
)

func TestFitPerfectLine(t *testing.T) {
	points := []Point{{0, 10}, {1, 12}, {2, 14}, {3, 16}}
	reg := Fit(points)
	if math.Abs(reg.Slope-2) > 1e-9 {
		t.Errorf("slope: got %v, want 2", reg.Slope)
	}
	if math.Abs(reg.Intercept-10) > 1e-9 {
		t.Errorf("intercept: got %v, want 10", reg.Intercept)
	}
	if math.Abs(reg.R2-1) > 1e-9 {
		t.Errorf("R2: got %v, want 1", reg.R2)
	}
}

func TestFitDegenerateInputs(t *testing.T) {
	if reg := Fit(nil); reg.Slope != 0 || reg.R2 != 0 {
		t.Errorf("空入力: %+v", reg)
	}
	if reg := Fit([]Point{{1, 5}}); reg.Slope != 0 {
		t.Errorf("1点: %+v", reg)
	}
	// 横一直線(全分散ほぼ0)はR2=0
	flat := []Point{{0, 7}, {1, 7}, {2, 7}, {3, 7}}
	reg := Fit(flat)
	if reg.Slope != 0 || reg.R2 != 0 {
		t.Errorf("水平線: slope=%v r2=%v", reg.Slope, reg.R2)
	}
	// X一定(縦一直線)でも落ちない
	vertical := []Point{{5, 1}, {5, 2}, {5, 3}}
	if reg := Fit(vertical); reg.Slope != 0 {
		t.Errorf("X一定: %+v", reg)
	}
}

func mrec(month string, qty, unitPrice float64) model.ReconciledRecord {
	return model.ReconciledRecord{
		SalesRecord: model.SalesRecord{Month: month, Maker: model.MakerAron, Store: "A店", Qty: qty, UnitPrice: unitPrice},
		SalesAmount: qty * unitPrice,
	}
}

func TestBuildMonthlySeries(t *testing.T) {
	records := []model.ReconciledRecord{
		mrec("2024-05", 10, 900),
		mrec("2024-05", 5, 800),
		mrec("2024-07", 3, 1000),
		mrec("unknown", 99, 100), // 月不明は除外
	}
	series := BuildMonthlySeries(records)
	if len(series) != 2 {
		t.Fatalf("月数: got %d, want 2", len(series))
	}
	if series[0].Month != "2024-05" || series[1].Month != "2024-07" {
		t.Fatalf("月順: %s, %s", series[0].Month, series[1].Month)
	}
	// 欠測月があっても連続番号で2か月空く
	if series[1].Index-series[0].Index != 2 {
		t.Errorf("月番号差: got %d", series[1].Index-series[0].Index)
	}
	// 加重平均単価 = (10×900 + 5×800) / 15
	want := (10*900.0 + 5*800.0) / 15
	if math.Abs(series[0].UnitPrice()-want) > 1e-9 {
		t.Errorf("加重平均単価: got %v, want %v", series[0].UnitPrice(), want)
	}
}

func TestEstimateTrend(t *testing.T) {
	// 月販100から毎月+10: 平均125、傾き10 → 率 = 10/125 = 0.08
	records := []model.ReconciledRecord{
		mrec("2024-01", 100, 1000),
		mrec("2024-02", 110, 1000),
		mrec("2024-03", 120, 1000),
		mrec("2024-04", 130, 1000),
		mrec("2024-05", 140, 1000),
		mrec("2024-06", 150, 1000),
	}
	trend := EstimateTrend(BuildMonthlySeries(records))
	if math.Abs(trend.MonthlyRate-0.08) > 1e-9 {
		t.Errorf("月次増減率: got %v, want 0.08", trend.MonthlyRate)
	}
	// 完全直線でも6点しかないので確信度は 1×6/12
	if math.Abs(trend.Confidence-0.5) > 1e-9 {
		t.Errorf("確信度: got %v, want 0.5", trend.Confidence)
	}

	flat := []model.ReconciledRecord{
		mrec("2024-01", 100, 1000),
		mrec("2024-02", 100, 1000),
		mrec("2024-03", 100, 1000),
	}
	ft := EstimateTrend(BuildMonthlySeries(flat))
	if ft.MonthlyRate != 0 || ft.R2 != 0 {
		t.Errorf("横ばい: rate=%v r2=%v", ft.MonthlyRate, ft.R2)
	}
}

func TestEstimateElasticityFallback(t *testing.T) {
	records := []model.ReconciledRecord{
		mrec("2024-01", 100, 1000),
		mrec("2024-02", 90, 1100),
	}
	e := EstimateElasticity(BuildMonthlySeries(records), -1.2)
	if e.Source != "manual" {
		t.Fatalf("3点未満は手入力へフォールバック: %+v", e)
	}
	if e.Value != -1.2 {
		t.Errorf("手入力値: got %v", e.Value)
	}
	// 手入力値も下限[-5,1]に丸める
	if e := EstimateElasticity(nil, -9); e.Value != -5 {
		t.Errorf("下限丸め: got %v", e.Value)
	}
}

func TestEstimateElasticityFitAndClamp(t *testing.T) {
	// 価格2倍で数量1/4 → 弾力性 -2
	records := []model.ReconciledRecord{
		mrec("2024-01", 400, 500),
		mrec("2024-02", 100, 1000),
		mrec("2024-03", 25, 2000),
	}
	e := EstimateElasticity(BuildMonthlySeries(records), 0)
	if e.Source != "fit" {
		t.Fatalf("当てはめのはず: %+v", e)
	}
	if math.Abs(e.Value-(-2)) > 1e-6 {
		t.Errorf("弾力性: got %v, want -2", e.Value)
	}

	// 極端に急な勾配は-5で止まる
	steep := []model.ReconciledRecord{
		mrec("2024-01", 10000, 100),
		mrec("2024-02", 100, 200),
		mrec("2024-03", 1, 400),
	}
	if e := EstimateElasticity(BuildMonthlySeries(steep), 0); e.Value != -5 {
		t.Errorf("下限丸め: got %v", e.Value)
	}
}

func TestSeasonalFactor(t *testing.T) {
	// 12か月、8月だけ高い
	var records []model.ReconciledRecord
	months := []string{"2024-01", "2024-02", "2024-03", "2024-04", "2024-05", "2024-06",
		"2024-07", "2024-08", "2024-09", "2024-10", "2024-11", "2024-12"}
	for _, m := range months {
		qty := 100.0
		if m == "2024-08" {
			qty = 150
		}
		records = append(records, mrec(m, qty, 1000))
	}
	series := BuildMonthlySeries(records)
	factor := SeasonalFactor(series, 5, 8)
	if factor <= 1 {
		t.Errorf("8月は5月より高いはず: got %v", factor)
	}
	if factor > 1.3 {
		t.Errorf("±30%%で丸める: got %v", factor)
	}

	// 履歴6か月未満は補正なし
	short := BuildMonthlySeries(records[:3])
	if got := SeasonalFactor(short, 5, 8); got != 1 {
		t.Errorf("履歴不足: got %v", got)
	}
}

func TestForecastComposite(t *testing.T) {
	records := []model.ReconciledRecord{
		mrec("2024-01", 100, 1000),
		mrec("2024-02", 100, 1000),
		mrec("2024-03", 100, 1000),
	}
	input := Input{Store: "A店", Maker: "aron", HorizonMonths: 2, ManualQtyPerMo: 5}
	result := Forecast(records, input)
	if result.BaseMonthlyQty != 100 {
		t.Fatalf("基準月販: got %v", result.BaseMonthlyQty)
	}
	// 横ばい・価格据え置きなら 100×2 + 5×2
	if math.Abs(result.After.Qty-210) > 1e-9 {
		t.Errorf("予測数量: got %v, want 210", result.After.Qty)
	}
	if math.Abs(result.Before.Sales-200000) > 1e-6 {
		t.Errorf("基準売上: got %v", result.Before.Sales)
	}

	// 対象外スコープは空の結果
	empty := Forecast(records, Input{Store: "Z店", HorizonMonths: 2})
	if empty.Months != 0 || empty.After.Qty != 0 {
		t.Errorf("スコープ外: %+v", empty)
	}
}

func TestWhatIfRecomputesRealProfit(t *testing.T) {
	settings := model.DefaultSettings()
	settings.RebateAron = 0.05
	settings.WarehouseFee = 1000
	settings.WarehouseOutFee = 10

	rec := model.ReconciledRecord{
		SalesRecord:   model.SalesRecord{Month: "2024-05", Maker: model.MakerAron, Store: "A店", Qty: 10, UnitPrice: 900},
		EffectiveCost: 600,
		ShippingCost:  50,
		SalesAmount:   9000,
		TotalCost:     6000,
		TotalShipping: 500,
		GrossProfit:   2500,
	}
	result := &model.AnalysisResult{
		Records:  []model.ReconciledRecord{rec},
		Months:   []string{"2024-05"},
		Settings: settings,
		Grand:    model.GrandTotals{Totals: model.Totals{Qty: 10}},
	}

	base := WhatIf(result, WhatIfInput{Target: "all"})
	if math.Abs(base.Gross-2500) > 1e-9 {
		t.Fatalf("基準粗利: got %v", base.Gross)
	}
	wantReal := 2500 + 9000*0.05 - (1000 + 10*10)
	if math.Abs(base.RealProfit-wantReal) > 1e-9 {
		t.Fatalf("基準実利益: got %v, want %v", base.RealProfit, wantReal)
	}

	// 掛け率+10%: 売上9900、粗利3400、リベートも摂動後売上で引き直す
	up := WhatIf(result, WhatIfInput{Target: "aron", PriceChange: 0.10})
	if math.Abs(up.Gross-3400) > 1e-9 {
		t.Errorf("摂動後粗利: got %v", up.Gross)
	}
	if math.Abs(up.Rebate-9900*0.05) > 1e-9 {
		t.Errorf("摂動後リベート: got %v", up.Rebate)
	}

	// 対象外メーカー指定なら変化しない
	same := WhatIf(result, WhatIfInput{Target: "pana", PriceChange: 0.10})
	if math.Abs(same.Gross-base.Gross) > 1e-9 {
		t.Errorf("対象外は据え置き: got %v", same.Gross)
	}
}

func TestWhatIfAppliesFixedRebateDelta(t *testing.T) {
	settings := model.DefaultSettings()
	settings.RebateAron = 0.05

	result := &model.AnalysisResult{
		Records: []model.ReconciledRecord{
			{SalesRecord: model.SalesRecord{Month: "2024-05", Maker: model.MakerAron, Qty: 10, UnitPrice: 900},
				SalesAmount: 9000, TotalCost: 6000, TotalShipping: 500, GrossProfit: 2500},
		},
		Months:   []string{"2024-05"},
		Settings: settings,
	}

	base := WhatIf(result, WhatIfInput{Target: "all"})

	// アロン固定リベート+5000円/月 → リベートと実利益が同額だけ増える
	up := WhatIf(result, WhatIfInput{Target: "all", FixedDeltaAron: 5000})
	if math.Abs(up.Rebate-(9000*0.05+5000)) > 1e-9 {
		t.Errorf("固定増額後リベート: got %v", up.Rebate)
	}
	if math.Abs(up.RealProfit-(base.RealProfit+5000)) > 1e-9 {
		t.Errorf("固定増額後実利益: got %v, want %v", up.RealProfit, base.RealProfit+5000)
	}

	// パナのバケットが無ければパナ側の増減は効かない
	none := WhatIf(result, WhatIfInput{Target: "all", FixedDeltaPana: 5000})
	if math.Abs(none.Rebate-base.Rebate) > 1e-9 {
		t.Errorf("対象外メーカーの固定増額: got %v, want %v", none.Rebate, base.Rebate)
	}
}

func TestSweepShape(t *testing.T) {
	result := &model.AnalysisResult{
		Records: []model.ReconciledRecord{
			{SalesRecord: model.SalesRecord{Month: "2024-05", Maker: model.MakerAron, Qty: 1, UnitPrice: 1000},
				SalesAmount: 1000, GrossProfit: 400},
		},
		Months:   []string{"2024-05"},
		Settings: model.DefaultSettings(),
	}
	points := Sweep(result, WhatIfInput{Target: "all"})
	if len(points) != 21 {
		t.Fatalf("点数: got %d, want 21", len(points))
	}
	if points[0].PriceChange != -0.20 || points[20].PriceChange != 0.20 {
		t.Errorf("走査範囲: %v .. %v", points[0].PriceChange, points[20].PriceChange)
	}
	// 掛け率を上げれば粗利は単調増加
	for i := 1; i < len(points); i++ {
		if points[i].Gross <= points[i-1].Gross {
			t.Fatalf("単調性が崩れている: %v", points)
		}
	}
}

func TestSimulateStoreQtyUplift(t *testing.T) {
	records := []model.ReconciledRecord{
		{SalesRecord: model.SalesRecord{Store: "A店", Maker: model.MakerAron, Qty: 6, UnitPrice: 1000},
			ListPrice: 1200, EffectiveCost: 500, ShippingCost: 100, SalesAmount: 6000, GrossProfit: 2400},
		{SalesRecord: model.SalesRecord{Store: "A店", Maker: model.MakerAron, Qty: 3, UnitPrice: 900},
			ListPrice: 1200, EffectiveCost: 500, ShippingCost: 100, SalesAmount: 2700, GrossProfit: 900},
		{SalesRecord: model.SalesRecord{Store: "B店", Maker: model.MakerAron, Qty: 100, UnitPrice: 800},
			SalesAmount: 80000, GrossProfit: 10000},
	}
	// 9個の既存数量に対して3個上積み → 比例配分で 2:1
	result := SimulateStore(records, StoreSimInput{Store: "A店", Maker: "aron", IncreaseQty: 3})
	if math.Abs(result.After.Qty-12) > 1e-9 {
		t.Fatalf("数量: got %v, want 12", result.After.Qty)
	}
	// 行1は+2個、行2は+1個
	wantSales := 8.0*1000 + 4.0*900
	if math.Abs(result.After.Sales-wantSales) > 1e-9 {
		t.Errorf("売上: got %v, want %v", result.After.Sales, wantSales)
	}
	// B店の明細は混ざらない
	if result.Before.Sales != 8700 {
		t.Errorf("対象店舗の絞り込み: got %v", result.Before.Sales)
	}

	// 掛け率変更のみ
	rate := SimulateStore(records, StoreSimInput{Store: "A店", Maker: "all", RateChange: -0.1})
	if math.Abs(rate.After.Sales-8700*0.9) > 1e-9 {
		t.Errorf("掛け率-10%%: got %v", rate.After.Sales)
	}
}
