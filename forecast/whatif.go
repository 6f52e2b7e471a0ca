// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\forecast\whatif.go
package forecast

import (
	"kaientai/model"
)

// WhatIfInput は全体シミュレーションの入力です。
type WhatIfInput struct {
	Target          string  `json:"target"` // aron|pana|other|all
	PriceChange     float64 `json:"priceChange"`
	RebateDeltaAron float64 `json:"rebateDeltaAron"` // 率の増減分
	RebateDeltaPana float64 `json:"rebateDeltaPana"`
	FixedDeltaAron  float64 `json:"fixedDeltaAron"` // 月あたり固定額の増減分(円)
	FixedDeltaPana  float64 `json:"fixedDeltaPana"`
}

func fixedDelta(maker model.Maker, input WhatIfInput) float64 {
	switch maker {
	case model.MakerAron:
		return input.FixedDeltaAron
	case model.MakerPana:
		return input.FixedDeltaPana
	}
	return 0
}

// WhatIfOutcome は摂動後の全体収支です。
type WhatIfOutcome struct {
	Sales      float64 `json:"sales"`
	Gross      float64 `json:"gross"`
	Rebate     float64 `json:"rebate"`
	Minus      float64 `json:"minus"`
	RealProfit float64 `json:"realProfit"`
}

// MarkupAverages は現状の平均掛け率(行単純平均)です。
type MarkupAverages struct {
	Aron float64 `json:"aron"`
	Pana float64 `json:"pana"`
	All  float64 `json:"all"`
}

// CurrentMarkup は定価・単価の揃った行の掛け率を単純平均します。
func CurrentMarkup(records []model.ReconciledRecord) MarkupAverages {
	var aronSum, panaSum, allSum float64
	var aronN, panaN, allN int
	for i := range records {
		r := &records[i]
		if r.ListPrice <= 0 || r.UnitPrice <= 0 {
			continue
		}
		rate := r.UnitPrice / r.ListPrice
		allSum += rate
		allN++
		switch r.Maker {
		case model.MakerAron:
			aronSum += rate
			aronN++
		case model.MakerPana:
			panaSum += rate
			panaN++
		}
	}
	avg := func(sum float64, n int) float64 {
		if n == 0 {
			return 0
		}
		return sum / float64(n)
	}
	return MarkupAverages{Aron: avg(aronSum, aronN), Pana: avg(panaSum, panaN), All: avg(allSum, allN)}
}

func inScope(maker model.Maker, target string) bool {
	return target == "" || target == "all" || string(maker) == target
}

// WhatIf は掛け率・リベート率・固定リベート額の摂動を全明細へ適用し、収支を丸ごと再計算します。
// 数量は変えません。月次バケットのリベート・倉庫按分も摂動後の売上で引き直します。
func WhatIf(result *model.AnalysisResult, input WhatIfInput) WhatIfOutcome {
	settings := result.Settings
	settings.RebateAron += input.RebateDeltaAron
	settings.RebatePana += input.RebateDeltaPana

	type bucket struct {
		sales float64
		qty   float64
	}
	buckets := map[model.MonthlyKey]*bucket{}
	var outcome WhatIfOutcome

	for i := range result.Records {
		r := &result.Records[i]
		sales := r.SalesAmount
		gross := r.GrossProfit
		if inScope(r.Maker, input.Target) {
			sales = r.UnitPrice * (1 + input.PriceChange) * r.Qty
			gross = sales - r.TotalCost - r.TotalShipping
		}
		outcome.Sales += sales
		outcome.Gross += gross

		key := model.MonthlyKey{Month: r.Month, Maker: r.Maker}
		b, ok := buckets[key]
		if !ok {
			b = &bucket{}
			buckets[key] = b
		}
		b.sales += sales
		b.qty += r.Qty
	}

	// 固定リベートのみの月次バケットも維持する
	for _, e := range result.Monthly {
		key := model.MonthlyKey{Month: e.Month, Maker: e.Maker}
		if _, ok := buckets[key]; !ok {
			buckets[key] = &bucket{}
		}
	}

	for key, b := range buckets {
		variable := b.sales * settings.RebateRate(key.Maker)
		fixed := settings.FixedRebate(key.Month, key.Maker).Total() + fixedDelta(key.Maker, input)
		outcome.Rebate += variable + fixed
	}

	totalQty := result.Grand.Qty
	outcome.Minus = settings.WarehouseFee*float64(len(result.Months)) + totalQty*settings.WarehouseOutFee
	outcome.RealProfit = outcome.Gross + outcome.Rebate - outcome.Minus
	return outcome
}

// SweepPoint は応答曲線の1点です。
type SweepPoint struct {
	PriceChange float64 `json:"priceChange"`
	Gross       float64 `json:"gross"`
	RealProfit  float64 `json:"realProfit"`
}

// Sweep は掛け率変動 -20%〜+20% を2%刻みで走査します。
func Sweep(result *model.AnalysisResult, input WhatIfInput) []SweepPoint {
	points := make([]SweepPoint, 0, 21)
	for pct := -20; pct <= 20; pct += 2 {
		step := input
		step.PriceChange = float64(pct) / 100
		outcome := WhatIf(result, step)
		points = append(points, SweepPoint{
			PriceChange: step.PriceChange,
			Gross:       outcome.Gross,
			RealProfit:  outcome.RealProfit,
		})
	}
	return points
}
