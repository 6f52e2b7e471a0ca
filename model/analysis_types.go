// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\model\analysis_types.go
package model

// MatchStats は突合処理の診断カウンタです。データ品質の問題は
// エラーにせず、ここに積んでログ側チャネルで報告します。
type MatchStats struct {
	MatchCount    int `json:"matchCount"`
	NoShipping    int `json:"noShipping"`
	NoProduct     int `json:"noProduct"`
	ExcludedCount int `json:"excludedCount"`
	NoPrefArea    int `json:"noPrefArea"`
	AreaFallback  int `json:"areaFallback"`
	ZeroAreaCost  int `json:"zeroAreaCost"`
}

// Totals は金額・数量の累計値です。
type Totals struct {
	Sales    float64 `json:"sales"`
	Cost     float64 `json:"cost"`
	Shipping float64 `json:"shipping"`
	Gross    float64 `json:"gross"`
	Qty      float64 `json:"qty"`
}

// AddRecord は突合済みレコード1件を累計へ加算します。
func (t *Totals) AddRecord(r *ReconciledRecord) {
	t.Sales += r.SalesAmount
	t.Cost += r.TotalCost
	t.Shipping += r.TotalShipping
	t.Gross += r.GrossProfit
	t.Qty += r.Qty
}

// Add は別の累計値を加算します。
func (t *Totals) Add(o Totals) {
	t.Sales += o.Sales
	t.Cost += o.Cost
	t.Shipping += o.Shipping
	t.Gross += o.Gross
	t.Qty += o.Qty
}

// MonthlyKey は月次集計のキーです。文字列連結キーは使いません
// （区切り文字がデータに紛れると衝突するため）。
type MonthlyKey struct {
	Month string `json:"month"`
	Maker Maker  `json:"maker"`
}

// RebateBreakdown は月次バケット1件分のリベート内訳です。
type RebateBreakdown struct {
	Variable float64 `json:"variable"` // 売上×率
	Achieve  float64 `json:"achieve"`
	Car      float64 `json:"car"`
	Fixed    float64 `json:"fixed"`
	Total    float64 `json:"total"`
}

// WarehouseBreakdown は月次バケット1件分のマイナス要件内訳です。
type WarehouseBreakdown struct {
	Base  float64 `json:"base"` // 月額費の売上按分
	Out   float64 `json:"out"`  // 数量×出し手数料
	Total float64 `json:"total"`
}

// MonthlyEntry は月×メーカーの集計行です。売上ゼロでも固定リベートが
// 設定されている月は空バケットとして合成されます。
type MonthlyEntry struct {
	MonthlyKey
	Totals
	Rebate     RebateBreakdown    `json:"rebate"`
	Warehouse  WarehouseBreakdown `json:"warehouse"`
	RealProfit float64            `json:"realProfit"`
}

// StoreKey は販売店×メーカーの集計キーです。
type StoreKey struct {
	Store string `json:"store"`
	Maker Maker  `json:"maker"`
}

// RatePair は加重掛け率の分子・分母です。rate = Num/Den。
// 定価>0 かつ 数量>0 の行だけが寄与します。
type RatePair struct {
	Num float64 `json:"num"` // Σ(単価×数量)
	Den float64 `json:"den"` // Σ(定価×数量)
}

// Rate は加重掛け率を返します。分母0なら0。
func (p RatePair) Rate() float64 {
	if p.Den <= 0 {
		return 0
	}
	return p.Num / p.Den
}

// StoreAggregate は販売店×メーカーの単純集計です。
type StoreAggregate struct {
	StoreKey
	Totals
	AronRate RatePair `json:"aronRate"`
	PanaRate RatePair `json:"panaRate"`
}

// SliceKey は販売店明細スライスのキーです。任意のメーカー・月・担当
// フィルタで再集計するための最小粒度になります。
type SliceKey struct {
	Store     string `json:"store"`
	StoreCode string `json:"storeCode"`
	SalesRep  string `json:"salesRep"`
	Month     string `json:"month"`
	Maker     Maker  `json:"maker"`
}

// StoreSlice は (販売店, コード, 担当, 月, メーカー) 粒度の
// マテリアライズ済みキャッシュです。フィルタ表示はここからロールアップし、
// 全レコードを再走査しません。
type StoreSlice struct {
	SliceKey
	Totals
	MarkupRate RatePair `json:"markupRate"`
}

// ProductEntry はJAN単位の商品集計です。
type ProductEntry struct {
	Jan           string  `json:"jan"`
	Name          string  `json:"name"`
	Maker         Maker   `json:"maker"`
	ListPrice     float64 `json:"listPrice"`
	EffectiveCost float64 `json:"effectiveCost"`
	ShippingCost  float64 `json:"shippingCost"`
	Totals
	PriceSum   float64 `json:"priceSum"` // 単価>0の行の平均販売単価算出用
	PriceCount int     `json:"priceCount"`
}

// AvgPrice は平均販売単価です。対象行がなければ0。
func (e ProductEntry) AvgPrice() float64 {
	if e.PriceCount == 0 {
		return 0
	}
	return e.PriceSum / float64(e.PriceCount)
}

// GrandTotals は分析全体の合計値です。
type GrandTotals struct {
	Totals
	AronSales         float64 `json:"aronSales"`
	PanaSales         float64 `json:"panaSales"`
	TotalRebate       float64 `json:"totalRebate"`
	TotalWarehouse    float64 `json:"totalWarehouse"`    // 月額費×月数
	TotalWarehouseOut float64 `json:"totalWarehouseOut"` // 総数量×出し手数料
	TotalMinus        float64 `json:"totalMinus"`
	RealProfit        float64 `json:"realProfit"`
}

// AnalysisResult は突合＋集計1回分の成果物です。次回実行で丸ごと
// 置き換えられ、入力データや設定が変わると破棄されます（部分更新なし）。
type AnalysisResult struct {
	RunID            string              `json:"runId"`
	GeneratedAt      string              `json:"generatedAt"`
	Records          []ReconciledRecord  `json:"records"`
	Stats            MatchStats          `json:"stats"`
	Monthly          []MonthlyEntry      `json:"monthly"` // 月昇順、同月内メーカー順
	MonthSalesTotals map[string]float64  `json:"monthSalesTotals"`
	Stores           []StoreAggregate    `json:"stores"`
	Slices           []StoreSlice        `json:"slices"`
	Products         []ProductEntry      `json:"products"`
	Months           []string            `json:"months"` // 昇順・重複なし
	RebateByMaker    map[Maker]float64   `json:"rebateByMaker"`
	MinusByMaker     map[Maker]float64   `json:"minusByMaker"`
	Grand            GrandTotals         `json:"grand"`
	Settings         Settings            `json:"settings"`
}
