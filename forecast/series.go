// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\forecast\series.go
package forecast

import (
	"sort"
	"strconv"
	"strings"

	"kaientai/model"
)

// MonthPoint は1か月分の集計値です。Index は年×12+月の連続値で、
// 欠測月があっても回帰の横軸が歪まないようにします。
type MonthPoint struct {
	Month string  `json:"month"` // "YYYY-MM"
	Index int     `json:"index"`
	Qty   float64 `json:"qty"`
	Sales float64 `json:"sales"`
	Cost  float64 `json:"cost"`
	Ship  float64 `json:"shipping"`

	priceNum float64 // Σ 単価×数量
	listNum  float64 // Σ 定価×数量
	listDen  float64
}

// UnitPrice は数量加重の平均販売単価です。
func (p MonthPoint) UnitPrice() float64 {
	if p.Qty <= 0 {
		return 0
	}
	return p.priceNum / p.Qty
}

// ListPrice は数量加重の平均定価です。
func (p MonthPoint) ListPrice() float64 {
	if p.listDen <= 0 {
		return 0
	}
	return p.listNum / p.listDen
}

// monthIndex は "YYYY-MM" を連続月番号に変換します。読めない月は ok=false。
func monthIndex(month string) (int, bool) {
	parts := strings.SplitN(month, "-", 2)
	if len(parts) != 2 {
		return 0, false
	}
	year, err1 := strconv.Atoi(parts[0])
	m, err2 := strconv.Atoi(parts[1])
	if err1 != nil || err2 != nil || m < 1 || m > 12 {
		return 0, false
	}
	return year*12 + (m - 1), true
}

// calendarMonth は "YYYY-MM" の暦月(1〜12)を返します。
func calendarMonth(month string) (int, bool) {
	idx, ok := monthIndex(month)
	if !ok {
		return 0, false
	}
	return idx%12 + 1, true
}

// BuildMonthlySeries は突合済みレコードを月ごとにまとめ、月順に並べます。
// 月が判定できなかった行("unknown")は外します。
func BuildMonthlySeries(records []model.ReconciledRecord) []MonthPoint {
	byMonth := map[string]*MonthPoint{}
	for i := range records {
		r := &records[i]
		idx, ok := monthIndex(r.Month)
		if !ok {
			continue
		}
		p, exists := byMonth[r.Month]
		if !exists {
			p = &MonthPoint{Month: r.Month, Index: idx}
			byMonth[r.Month] = p
		}
		p.Qty += r.Qty
		p.Sales += r.SalesAmount
		p.Cost += r.TotalCost
		p.Ship += r.TotalShipping
		p.priceNum += r.UnitPrice * r.Qty
		if r.ListPrice > 0 && r.Qty > 0 {
			p.listNum += r.ListPrice * r.Qty
			p.listDen += r.Qty
		}
	}
	series := make([]MonthPoint, 0, len(byMonth))
	for _, p := range byMonth {
		series = append(series, *p)
	}
	sort.Slice(series, func(i, j int) bool { return series[i].Index < series[j].Index })
	return series
}
