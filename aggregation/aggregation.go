// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\aggregation\aggregation.go
package aggregation

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"kaientai/model"
)

// CalcRebate は月次バケット1件分のリベート内訳を計算します。
// 変動分は売上×メーカー別率、固定分は月別設定の達成+車扱いです。
func CalcRebate(entry *model.MonthlyEntry, settings model.Settings) model.RebateBreakdown {
	variable := entry.Sales * settings.RebateRate(entry.Maker)
	fixed := settings.FixedRebate(entry.Month, entry.Maker)
	return model.RebateBreakdown{
		Variable: variable,
		Achieve:  fixed.Achieve,
		Car:      fixed.Car,
		Fixed:    fixed.Total(),
		Total:    variable + fixed.Total(),
	}
}

// CalcWarehouse は月次バケット1件分のマイナス要件内訳を計算します。
// 月額費は同月全体の売上に対するバケット売上の比率で按分します。
func CalcWarehouse(entry *model.MonthlyEntry, settings model.Settings, monthSalesTotals map[string]float64) model.WarehouseBreakdown {
	monthSales := monthSalesTotals[entry.Month]
	base := 0.0
	if monthSales > 0 {
		base = settings.WarehouseFee * (entry.Sales / monthSales)
	}
	out := entry.Qty * settings.WarehouseOutFee
	return model.WarehouseBreakdown{Base: base, Out: out, Total: base + out}
}

// Aggregate は突合済みレコードから全集計ビューを作ります。
// 実利益 = 商品粗利 + リベート − (月額費×月数 + 総数量×出し手数料) です。
func Aggregate(records []model.ReconciledRecord, stats model.MatchStats, settings model.Settings) *model.AnalysisResult {
	result := &model.AnalysisResult{
		RunID:            uuid.NewString(),
		GeneratedAt:      time.Now().Format(time.RFC3339),
		Records:          records,
		Stats:            stats,
		MonthSalesTotals: map[string]float64{},
		RebateByMaker:    map[model.Maker]float64{},
		MinusByMaker:     map[model.Maker]float64{},
		Settings:         settings,
	}

	monthlyMap := map[model.MonthlyKey]*model.MonthlyEntry{}
	storeMap := map[model.StoreKey]*model.StoreAggregate{}
	sliceMap := map[model.SliceKey]*model.StoreSlice{}
	productMap := map[string]*model.ProductEntry{}
	monthSet := map[string]struct{}{}

	for i := range records {
		r := &records[i]
		result.Grand.AddRecord(r)
		switch r.Maker {
		case model.MakerAron:
			result.Grand.AronSales += r.SalesAmount
		case model.MakerPana:
			result.Grand.PanaSales += r.SalesAmount
		}
		monthSet[r.Month] = struct{}{}

		mk := model.MonthlyKey{Month: r.Month, Maker: r.Maker}
		me, ok := monthlyMap[mk]
		if !ok {
			me = &model.MonthlyEntry{MonthlyKey: mk}
			monthlyMap[mk] = me
		}
		me.AddRecord(r)

		sk := model.StoreKey{Store: r.Store, Maker: r.Maker}
		se, ok := storeMap[sk]
		if !ok {
			se = &model.StoreAggregate{StoreKey: sk}
			storeMap[sk] = se
		}
		se.AddRecord(r)
		if r.ListPrice > 0 && r.Qty > 0 {
			switch r.Maker {
			case model.MakerAron:
				se.AronRate.Num += r.UnitPrice * r.Qty
				se.AronRate.Den += r.ListPrice * r.Qty
			case model.MakerPana:
				se.PanaRate.Num += r.UnitPrice * r.Qty
				se.PanaRate.Den += r.ListPrice * r.Qty
			}
		}

		slk := model.SliceKey{Store: r.Store, StoreCode: r.StoreCode, SalesRep: r.SalesRep, Month: r.Month, Maker: r.Maker}
		sl, ok := sliceMap[slk]
		if !ok {
			sl = &model.StoreSlice{SliceKey: slk}
			sliceMap[slk] = sl
		}
		sl.AddRecord(r)
		if r.ListPrice > 0 && r.Qty > 0 {
			sl.MarkupRate.Num += r.UnitPrice * r.Qty
			sl.MarkupRate.Den += r.ListPrice * r.Qty
		}

		pe, ok := productMap[r.Jan]
		if !ok {
			pe = &model.ProductEntry{
				Jan:           r.Jan,
				Name:          r.Name,
				Maker:         r.Maker,
				ListPrice:     r.ListPrice,
				EffectiveCost: r.EffectiveCost,
				ShippingCost:  r.ShippingCost,
			}
			productMap[r.Jan] = pe
		}
		pe.AddRecord(r)
		if r.UnitPrice > 0 {
			pe.PriceSum += r.UnitPrice
			pe.PriceCount++
		}
	}

	for m := range monthSet {
		result.Months = append(result.Months, m)
	}
	sort.Strings(result.Months)

	// 売上ゼロでも固定リベートが設定されている月×メーカーは空バケットを合成する
	for _, month := range result.Months {
		for _, maker := range []model.Maker{model.MakerAron, model.MakerPana} {
			key := model.MonthlyKey{Month: month, Maker: maker}
			if _, exists := monthlyMap[key]; !exists && settings.FixedRebate(month, maker).Total() > 0 {
				monthlyMap[key] = &model.MonthlyEntry{MonthlyKey: key}
			}
		}
	}

	for _, e := range monthlyMap {
		result.MonthSalesTotals[e.Month] += e.Sales
	}

	for _, e := range monthlyMap {
		e.Rebate = CalcRebate(e, settings)
		e.Warehouse = CalcWarehouse(e, settings, result.MonthSalesTotals)
		e.RealProfit = e.Gross + e.Rebate.Total - e.Warehouse.Total
		result.RebateByMaker[e.Maker] += e.Rebate.Total
		result.MinusByMaker[e.Maker] += e.Warehouse.Total
		result.Grand.TotalRebate += e.Rebate.Total
		result.Monthly = append(result.Monthly, *e)
	}
	sort.Slice(result.Monthly, func(i, j int) bool {
		a, b := result.Monthly[i], result.Monthly[j]
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Maker < b.Maker
	})

	for _, se := range storeMap {
		result.Stores = append(result.Stores, *se)
	}
	sort.Slice(result.Stores, func(i, j int) bool {
		a, b := result.Stores[i], result.Stores[j]
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		return a.Maker < b.Maker
	})

	for _, sl := range sliceMap {
		result.Slices = append(result.Slices, *sl)
	}
	sort.Slice(result.Slices, func(i, j int) bool {
		a, b := result.Slices[i], result.Slices[j]
		if a.Store != b.Store {
			return a.Store < b.Store
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Maker < b.Maker
	})

	for _, pe := range productMap {
		result.Products = append(result.Products, *pe)
	}
	sort.Slice(result.Products, func(i, j int) bool {
		return result.Products[i].Jan < result.Products[j].Jan
	})

	monthCount := float64(len(result.Months))
	result.Grand.TotalWarehouse = settings.WarehouseFee * monthCount
	result.Grand.TotalWarehouseOut = result.Grand.Qty * settings.WarehouseOutFee
	result.Grand.TotalMinus = result.Grand.TotalWarehouse + result.Grand.TotalWarehouseOut
	result.Grand.RealProfit = result.Grand.Gross + result.Grand.TotalRebate - result.Grand.TotalMinus

	return result
}
