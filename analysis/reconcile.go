// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\analysis\reconcile.go
package analysis

import (
	"kaientai/geo"
	"kaientai/model"
)

// Reconcile は販売実績をJANで送料マスタ・商品マスタと突合します。
// どちらかに無いJANの行は除外し、診断カウンタに積みます。
// 突合できた行ごとに送料・原価・粗利を確定します。
func Reconcile(shipping []model.ShippingRecord, products []model.ProductRecord, sales []model.SalesRecord, settings model.Settings) ([]model.ReconciledRecord, model.MatchStats) {
	shippingMap := make(map[string]*model.ShippingRecord, len(shipping))
	for i := range shipping {
		shippingMap[shipping[i].Jan] = &shipping[i]
	}
	productMap := make(map[string]*model.ProductRecord, len(products))
	for i := range products {
		productMap[products[i].Jan] = &products[i]
	}

	var stats model.MatchStats
	records := make([]model.ReconciledRecord, 0, len(sales))
	for i := range sales {
		sale := &sales[i]
		ship, hasShip := shippingMap[sale.Jan]
		prod, hasProd := productMap[sale.Jan]
		if !hasShip {
			stats.NoShipping++
		}
		if !hasProd {
			stats.NoProduct++
		}
		if !hasShip || !hasProd {
			stats.ExcludedCount++
			continue
		}
		stats.MatchCount++

		res := geo.ResolveShippingCost(ship, sale.Prefecture, settings)
		if res.AreaKey == "" {
			stats.NoPrefArea++
		}
		if res.Fallback {
			stats.AreaFallback++
		}
		if res.ShippingCost <= 0 {
			stats.ZeroAreaCost++
		}

		salesAmount := sale.UnitPrice * sale.Qty
		totalShipping := sale.Qty * res.ShippingCost
		totalCost := prod.EffectiveCost * sale.Qty
		rateVsList := 0.0
		if prod.ListPrice > 0 {
			rateVsList = sale.UnitPrice / prod.ListPrice
		}
		records = append(records, model.ReconciledRecord{
			SalesRecord:   *sale,
			ShippingCost:  res.ShippingCost,
			ShippingArea:  res.AreaKey,
			EffectiveCost: prod.EffectiveCost,
			ListPrice:     prod.ListPrice,
			SalesAmount:   salesAmount,
			TotalShipping: totalShipping,
			TotalCost:     totalCost,
			GrossProfit:   salesAmount - totalCost - totalShipping,
			RateVsList:    rateVsList,
		})
	}
	return records, stats
}
