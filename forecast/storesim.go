// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\forecast\storesim.go
package forecast

import (
	"kaientai/model"
)

// StoreSimInput は販売店単位のシミュレーション入力です。
type StoreSimInput struct {
	Store       string  `json:"store"`
	Maker       string  `json:"maker"` // aron|pana|other|all
	RateChange  float64 `json:"rateChange"`
	IncreaseQty float64 `json:"increaseQty"` // 期間全体で上積みする数量
}

// StoreSimSide は前後どちらか一方の集計です。
type StoreSimSide struct {
	Sales    float64 `json:"sales"`
	Gross    float64 `json:"gross"`
	Qty      float64 `json:"qty"`
	AronRate float64 `json:"aronRate"`
	PanaRate float64 `json:"panaRate"`
}

// StoreSimResult は販売店シミュレーション1回分です。
type StoreSimResult struct {
	Store  string       `json:"store"`
	Before StoreSimSide `json:"before"`
	After  StoreSimSide `json:"after"`
	Diff   StoreSimSide `json:"diff"`
}

// SimulateStore は対象販売店の明細へ掛け率変更と数量上積みを適用します。
// 上積み数量は対象明細の既存数量に比例配分し、数量ゼロの場合は等分します。
func SimulateStore(records []model.ReconciledRecord, input StoreSimInput) StoreSimResult {
	store := input.Store
	result := StoreSimResult{Store: store}

	var storeRecords []*model.ReconciledRecord
	for i := range records {
		name := records[i].Store
		if name == "" {
			name = "(不明)"
		}
		if name == store {
			storeRecords = append(storeRecords, &records[i])
		}
	}
	if len(storeRecords) == 0 {
		return result
	}

	var targetQtyBase float64
	targetCount := 0
	for _, r := range storeRecords {
		if inScope(r.Maker, input.Maker) {
			targetQtyBase += r.Qty
			targetCount++
		}
	}

	var beforeAron, beforePana, afterAron, afterPana model.RatePair
	for _, r := range storeRecords {
		result.Before.Sales += r.SalesAmount
		result.Before.Gross += r.GrossProfit
		result.Before.Qty += r.Qty
		if r.ListPrice > 0 && r.Qty > 0 {
			switch r.Maker {
			case model.MakerAron:
				beforeAron.Num += r.UnitPrice * r.Qty
				beforeAron.Den += r.ListPrice * r.Qty
			case model.MakerPana:
				beforePana.Num += r.UnitPrice * r.Qty
				beforePana.Den += r.ListPrice * r.Qty
			}
		}

		applyChange := inScope(r.Maker, input.Maker)
		addQty := 0.0
		if applyChange && input.IncreaseQty > 0 {
			if targetQtyBase > 0 {
				addQty = input.IncreaseQty * (r.Qty / targetQtyBase)
			} else if targetCount > 0 {
				addQty = input.IncreaseQty / float64(targetCount)
			}
		}

		newQty := r.Qty + addQty
		newUnitPrice := r.UnitPrice
		if applyChange {
			newUnitPrice = r.UnitPrice * (1 + input.RateChange)
		}
		newSales := newQty * newUnitPrice
		newGross := newSales - newQty*r.EffectiveCost - newQty*r.ShippingCost

		result.After.Sales += newSales
		result.After.Gross += newGross
		result.After.Qty += newQty
		if r.ListPrice > 0 && newQty > 0 {
			switch r.Maker {
			case model.MakerAron:
				afterAron.Num += newUnitPrice * newQty
				afterAron.Den += r.ListPrice * newQty
			case model.MakerPana:
				afterPana.Num += newUnitPrice * newQty
				afterPana.Den += r.ListPrice * newQty
			}
		}
	}

	result.Before.AronRate = beforeAron.Rate()
	result.Before.PanaRate = beforePana.Rate()
	result.After.AronRate = afterAron.Rate()
	result.After.PanaRate = afterPana.Rate()
	result.Diff = StoreSimSide{
		Sales:    result.After.Sales - result.Before.Sales,
		Gross:    result.After.Gross - result.Before.Gross,
		Qty:      result.After.Qty - result.Before.Qty,
		AronRate: result.After.AronRate - result.Before.AronRate,
		PanaRate: result.After.PanaRate - result.Before.PanaRate,
	}
	return result
}
