// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\aggregation\rollup.go
package aggregation

import (
	"sort"
	"strings"
	"sync"

	"kaientai/model"
)

// FilterAll はフィルタ無指定を表します。
const FilterAll = "all"

// Filter は販売店ビューの絞り込み条件です。空文字は "all" と同義です。
type Filter struct {
	Maker    string `json:"maker"`
	Month    string `json:"month"`
	SalesRep string `json:"salesRep"`
}

func (f Filter) normalized() Filter {
	if f.Maker == "" {
		f.Maker = FilterAll
	}
	if f.Month == "" {
		f.Month = FilterAll
	}
	if f.SalesRep == "" {
		f.SalesRep = FilterAll
	}
	return f
}

// StoreView は販売店ビューの1行です。
type StoreView struct {
	Store    string `json:"store"`
	SalesRep string `json:"salesRep"`
	model.Totals
	Rate     float64 `json:"rate"` // 粗利率
	AronRate float64 `json:"aronRate"`
	PanaRate float64 `json:"panaRate"`
}

// RollupStores はマテリアライズ済みスライスから販売店ビューを再集計します。
// 全明細の再走査はしません。
func RollupStores(slices []model.StoreSlice, f Filter) []StoreView {
	f = f.normalized()
	type acc struct {
		totals   model.Totals
		reps     map[string]struct{}
		aronRate model.RatePair
		panaRate model.RatePair
	}
	byStore := map[string]*acc{}
	var order []string
	for i := range slices {
		sl := &slices[i]
		if f.Maker != FilterAll && string(sl.Maker) != f.Maker {
			continue
		}
		if f.Month != FilterAll && sl.Month != f.Month {
			continue
		}
		if f.SalesRep != FilterAll && sl.SalesRep != f.SalesRep {
			continue
		}
		store := sl.Store
		if store == "" {
			store = "(不明)"
		}
		a, ok := byStore[store]
		if !ok {
			a = &acc{reps: map[string]struct{}{}}
			byStore[store] = a
			order = append(order, store)
		}
		a.totals.Add(sl.Totals)
		if sl.SalesRep != "" {
			a.reps[sl.SalesRep] = struct{}{}
		}
		switch sl.Maker {
		case model.MakerAron:
			a.aronRate.Num += sl.MarkupRate.Num
			a.aronRate.Den += sl.MarkupRate.Den
		case model.MakerPana:
			a.panaRate.Num += sl.MarkupRate.Num
			a.panaRate.Den += sl.MarkupRate.Den
		}
	}

	views := make([]StoreView, 0, len(order))
	for _, store := range order {
		a := byStore[store]
		reps := make([]string, 0, len(a.reps))
		for rep := range a.reps {
			reps = append(reps, rep)
		}
		sort.Strings(reps)
		repLabel := strings.Join(reps, " / ")
		if repLabel == "" {
			repLabel = "(未設定)"
		}
		rate := 0.0
		if a.totals.Sales > 0 {
			rate = a.totals.Gross / a.totals.Sales
		}
		views = append(views, StoreView{
			Store:    store,
			SalesRep: repLabel,
			Totals:   a.totals,
			Rate:     rate,
			AronRate: a.aronRate.Rate(),
			PanaRate: a.panaRate.Rate(),
		})
	}
	return views
}

// SortStoreViews は指定キーで並べ替えます。既定は粗利の降順です。
func SortStoreViews(entries []StoreView, sortKey string) {
	less := func(fn func(a, b *StoreView) bool) {
		sort.SliceStable(entries, func(i, j int) bool { return fn(&entries[i], &entries[j]) })
	}
	switch sortKey {
	case "gross-asc":
		less(func(a, b *StoreView) bool { return a.Gross < b.Gross })
	case "sales-desc":
		less(func(a, b *StoreView) bool { return a.Sales > b.Sales })
	case "sales-asc":
		less(func(a, b *StoreView) bool { return a.Sales < b.Sales })
	case "qty-desc":
		less(func(a, b *StoreView) bool { return a.Qty > b.Qty })
	case "qty-asc":
		less(func(a, b *StoreView) bool { return a.Qty < b.Qty })
	case "rate-desc":
		less(func(a, b *StoreView) bool { return a.Rate > b.Rate })
	case "rate-asc":
		less(func(a, b *StoreView) bool { return a.Rate < b.Rate })
	case "aron-rate-desc":
		less(func(a, b *StoreView) bool { return a.AronRate > b.AronRate })
	case "aron-rate-asc":
		less(func(a, b *StoreView) bool { return a.AronRate < b.AronRate })
	case "pana-rate-desc":
		less(func(a, b *StoreView) bool { return a.PanaRate > b.PanaRate })
	case "pana-rate-asc":
		less(func(a, b *StoreView) bool { return a.PanaRate < b.PanaRate })
	case "rep-asc":
		less(func(a, b *StoreView) bool { return a.SalesRep < b.SalesRep })
	case "rep-desc":
		less(func(a, b *StoreView) bool { return a.SalesRep > b.SalesRep })
	case "store-asc":
		less(func(a, b *StoreView) bool { return a.Store < b.Store })
	case "store-desc":
		less(func(a, b *StoreView) bool { return a.Store > b.Store })
	default: // gross-desc
		less(func(a, b *StoreView) bool { return a.Gross > b.Gross })
	}
}

// Reps はスライスに登場する営業担当の一覧(昇順・重複なし)です。
func Reps(slices []model.StoreSlice) []string {
	set := map[string]struct{}{}
	for i := range slices {
		if slices[i].SalesRep != "" {
			set[slices[i].SalesRep] = struct{}{}
		}
	}
	out := make([]string, 0, len(set))
	for rep := range set {
		out = append(out, rep)
	}
	sort.Strings(out)
	return out
}

// RollupCache はフィルタ条件ごとの販売店ビューを使い回すためのキャッシュです。
// 分析をやり直したら破棄して作り直します。
type RollupCache struct {
	mu sync.Mutex
	m  map[Filter][]StoreView
}

func NewRollupCache() *RollupCache {
	return &RollupCache{m: map[Filter][]StoreView{}}
}

// Get はキャッシュ済みビューを返し、無ければ集計して格納します。
// 返り値は共有されるため呼び出し側で並べ替える場合はコピーすること。
func (c *RollupCache) Get(slices []model.StoreSlice, f Filter) []StoreView {
	f = f.normalized()
	c.mu.Lock()
	defer c.mu.Unlock()
	if views, ok := c.m[f]; ok {
		return views
	}
	views := RollupStores(slices, f)
	c.m[f] = views
	return views
}
