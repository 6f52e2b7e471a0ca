// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\analysis\handler.go
package analysis

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"kaientai/aggregation"
	"kaientai/model"
	"kaientai/session"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{"message": message})
}

func respondJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// AnalyzeHandler は突合＋集計を実行して結果を差し替えます。
// 3データセットが揃っていなければ 409 を返します。
func AnalyzeHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		if !sess.Ready() {
			respondJSONError(w, "3つのデータ（送料・販売実績・商品マスタ）を先に取り込んでください", http.StatusConflict)
			return
		}
		shipping, sales, products := sess.Datasets()
		settings := sess.Settings()

		records, stats := Reconcile(shipping, products, sales, settings)
		sess.Logf("マッチング: %d件一致(3データ一致) / 除外: %d / 送料未一致: %d / 商品マスタ未一致: %d / 地域判定不可: %d / エリア補完: %d / 送料0円: %d",
			stats.MatchCount, stats.ExcludedCount, stats.NoShipping, stats.NoProduct,
			stats.NoPrefArea, stats.AreaFallback, stats.ZeroAreaCost)

		result := aggregation.Aggregate(records, stats, settings)
		sess.SetResult(result)
		sess.Logf("分析完了: 売上 ¥%.0f / 商品粗利 ¥%.0f / 実利益 ¥%.0f / マイナス要件 ¥%.0f",
			result.Grand.Sales, result.Grand.Gross, result.Grand.RealProfit, result.Grand.TotalMinus)

		respondJSON(w, map[string]interface{}{
			"runId":  result.RunID,
			"stats":  result.Stats,
			"months": result.Months,
			"grand":  result.Grand,
			"status": sess.Status(),
		})
	}
}

// requireResult は分析済みの結果を取り出します。未分析なら 409 を返して nil。
func requireResult(w http.ResponseWriter, sess *session.Session) *model.AnalysisResult {
	result := sess.Result()
	if result == nil {
		respondJSONError(w, "分析が実行されていません。先に /api/analyze を実行してください", http.StatusConflict)
	}
	return result
}

// makerSummary はメーカー別の売上・粗利・実利益です。
type makerSummary struct {
	Maker model.Maker `json:"maker"`
	Label string      `json:"label"`
	Sales float64     `json:"sales"`
	Gross float64     `json:"gross"`
	Real  float64     `json:"real"`
}

// monthPoint は年間推移グラフ用の1か月分です。
type monthPoint struct {
	Month string  `json:"month"`
	Sales float64 `json:"sales"`
	Gross float64 `json:"gross"`
	Real  float64 `json:"real"`
}

// OverviewHandler は概況（KPI・メーカー別・年間推移）を返します。
func OverviewHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := requireResult(w, sess)
		if result == nil {
			return
		}

		byMaker := map[model.Maker]*makerSummary{}
		for _, maker := range model.Makers {
			byMaker[maker] = &makerSummary{Maker: maker, Label: model.MakerLabel(maker)}
		}
		for i := range result.Records {
			rec := &result.Records[i]
			if s, ok := byMaker[rec.Maker]; ok {
				s.Sales += rec.SalesAmount
				s.Gross += rec.GrossProfit
			}
		}
		makers := make([]makerSummary, 0, len(model.Makers))
		for _, maker := range model.Makers {
			s := byMaker[maker]
			s.Real = s.Gross + result.RebateByMaker[maker] - result.MinusByMaker[maker]
			makers = append(makers, *s)
		}

		points := make([]monthPoint, 0, len(result.Months))
		for _, month := range result.Months {
			p := monthPoint{Month: month}
			for i := range result.Records {
				if result.Records[i].Month == month {
					p.Sales += result.Records[i].SalesAmount
					p.Gross += result.Records[i].GrossProfit
				}
			}
			real := p.Gross
			for _, e := range result.Monthly {
				if e.Month == month {
					real += e.Rebate.Total - e.Warehouse.Total
				}
			}
			p.Real = real
			points = append(points, p)
		}

		profitRate := 0.0
		if result.Grand.Sales > 0 {
			profitRate = result.Grand.RealProfit / result.Grand.Sales
		}
		respondJSON(w, map[string]interface{}{
			"runId":       result.RunID,
			"generatedAt": result.GeneratedAt,
			"grand":       result.Grand,
			"profitRate":  profitRate,
			"stats":       result.Stats,
			"makers":      makers,
			"annual":      points,
		})
	}
}

// MonthlyHandler は月次集計を返します。maker=aron|pana|other|all で絞り込めます。
func MonthlyHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := requireResult(w, sess)
		if result == nil {
			return
		}
		makerF := r.URL.Query().Get("maker")
		if makerF == "" {
			makerF = aggregation.FilterAll
		}
		entries := make([]model.MonthlyEntry, 0, len(result.Monthly))
		for _, e := range result.Monthly {
			if makerF != aggregation.FilterAll && string(e.Maker) != makerF {
				continue
			}
			entries = append(entries, e)
		}
		respondJSON(w, map[string]interface{}{
			"entries":          entries,
			"months":           result.Months,
			"monthSalesTotals": result.MonthSalesTotals,
		})
	}
}

// storeViewCache は分析1回分の販売店ビューを使い回します。
type storeViewCache struct {
	mu    sync.Mutex
	runID string
	cache *aggregation.RollupCache
}

func (c *storeViewCache) get(result *model.AnalysisResult, f aggregation.Filter) []aggregation.StoreView {
	c.mu.Lock()
	if c.runID != result.RunID {
		c.runID = result.RunID
		c.cache = aggregation.NewRollupCache()
	}
	cache := c.cache
	c.mu.Unlock()
	return cache.Get(result.Slices, f)
}

const storePageSize = 20

// StoreHandler は販売店別集計を返します。
// maker / month / rep で絞り込み、sort で並べ替え、page でページ送りします。
// page=all で全件返します。
func StoreHandler(sess *session.Session) http.HandlerFunc {
	views := &storeViewCache{}
	return func(w http.ResponseWriter, r *http.Request) {
		result := requireResult(w, sess)
		if result == nil {
			return
		}
		q := r.URL.Query()
		filter := aggregation.Filter{
			Maker:    q.Get("maker"),
			Month:    q.Get("month"),
			SalesRep: q.Get("rep"),
		}
		cached := views.get(result, filter)
		entries := make([]aggregation.StoreView, len(cached))
		copy(entries, cached)
		aggregation.SortStoreViews(entries, q.Get("sort"))

		page := 1
		pageParam := q.Get("page")
		isAll := pageParam == "all"
		if !isAll {
			if n, err := strconv.Atoi(pageParam); err == nil && n > 0 {
				page = n
			}
		}
		totalPages := (len(entries) + storePageSize - 1) / storePageSize
		if totalPages < 1 {
			totalPages = 1
		}
		if page > totalPages {
			page = totalPages
		}
		displayed := entries
		if !isAll {
			start := (page - 1) * storePageSize
			end := start + storePageSize
			if start > len(entries) {
				start = len(entries)
			}
			if end > len(entries) {
				end = len(entries)
			}
			displayed = entries[start:end]
		}

		respondJSON(w, map[string]interface{}{
			"entries":    displayed,
			"total":      len(entries),
			"page":       page,
			"totalPages": totalPages,
			"reps":       aggregation.Reps(result.Slices),
			"months":     result.Months,
		})
	}
}

// productView は商品別明細の1行です。
type productView struct {
	model.ProductEntry
	AvgPrice   float64 `json:"avgPrice"`
	MarkupRate float64 `json:"markupRate"` // 平均販売単価 / 定価
	ProfitRate float64 `json:"profitRate"` // 粗利 / 売上
}

func buildProductViews(result *model.AnalysisResult, makerF, search string) []productView {
	search = strings.ToLower(search)
	out := make([]productView, 0, len(result.Products))
	for _, e := range result.Products {
		if makerF != aggregation.FilterAll && string(e.Maker) != makerF {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(e.Jan), search) &&
			!strings.Contains(strings.ToLower(e.Name), search) {
			continue
		}
		v := productView{ProductEntry: e, AvgPrice: e.AvgPrice()}
		if e.ListPrice > 0 {
			v.MarkupRate = v.AvgPrice / e.ListPrice
		}
		if e.Sales > 0 {
			v.ProfitRate = e.Gross / e.Sales
		}
		out = append(out, v)
	}
	return out
}

func sortStable(entries []productView, less func(a, b *productView) bool) {
	sort.SliceStable(entries, func(i, j int) bool { return less(&entries[i], &entries[j]) })
}

func sortProductViews(entries []productView, sortKey string) {
	switch sortKey {
	case "profit-asc":
		sortStable(entries, func(a, b *productView) bool { return a.Gross < b.Gross })
	case "sales-desc":
		sortStable(entries, func(a, b *productView) bool { return a.Sales > b.Sales })
	case "qty-desc":
		sortStable(entries, func(a, b *productView) bool { return a.Qty > b.Qty })
	default: // profit-desc
		sortStable(entries, func(a, b *productView) bool { return a.Gross > b.Gross })
	}
}

// ProductsHandler は商品別明細を返します。maker / search / sort に対応します。
func ProductsHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := requireResult(w, sess)
		if result == nil {
			return
		}
		q := r.URL.Query()
		makerF := q.Get("maker")
		if makerF == "" {
			makerF = aggregation.FilterAll
		}
		entries := buildProductViews(result, makerF, q.Get("search"))
		sortProductViews(entries, q.Get("sort"))
		respondJSON(w, map[string]interface{}{"entries": entries, "total": len(entries)})
	}
}

func quoteAll(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}

// ExportProductsCSVHandler は商品別集計をCSVでダウンロードさせます。
func ExportProductsCSVHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := requireResult(w, sess)
		if result == nil {
			return
		}

		var buf bytes.Buffer
		buf.Write([]byte{0xEF, 0xBB, 0xBF}) // UTF-8 BOM

		header := []string{"JANコード", "商品名", "メーカー", "定価", "原価", "送料", "数量合計", "売上合計", "粗利合計"}
		for i, h := range header {
			header[i] = quoteAll(h)
		}
		buf.WriteString(strings.Join(header, ",") + "\r\n")

		for _, e := range result.Products {
			record := []string{
				quoteAll(e.Jan),
				quoteAll(e.Name),
				quoteAll(model.MakerLabel(e.Maker)),
				quoteAll(fmt.Sprintf("%.0f", e.ListPrice)),
				quoteAll(fmt.Sprintf("%.0f", e.EffectiveCost)),
				quoteAll(fmt.Sprintf("%.0f", e.ShippingCost)),
				quoteAll(fmt.Sprintf("%.0f", e.Qty)),
				quoteAll(fmt.Sprintf("%.0f", e.Sales)),
				quoteAll(fmt.Sprintf("%.0f", e.Gross)),
			}
			buf.WriteString(strings.Join(record, ",") + "\r\n")
		}

		filename := fmt.Sprintf("アロンパナ分析(%s).csv", time.Now().Format("20060102"))
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", "attachment; filename*=UTF-8''"+url.PathEscape(filename))
		w.Write(buf.Bytes())
	}
}
