// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\forecast\forecast.go
package forecast

import (
	"math"

	"kaientai/model"
)

// Trend は数量の月次トレンド推定です。
type Trend struct {
	MonthlyRate float64 `json:"monthlyRate"` // 月あたりの増減率
	Confidence  float64 `json:"confidence"`  // R²×データ量補正 [0,1]
	R2          float64 `json:"r2"`
	Points      int     `json:"points"`
}

// EstimateTrend は数量を月番号に回帰し、平均月販で正規化した増減率を返します。
// 確信度はR²に対し、12か月未満の履歴では点数比例で割り引きます。
func EstimateTrend(series []MonthPoint) Trend {
	points := make([]Point, 0, len(series))
	var qtySum float64
	for _, p := range series {
		points = append(points, Point{X: float64(p.Index), Y: p.Qty})
		qtySum += p.Qty
	}
	reg := Fit(points)
	rate := 0.0
	if len(series) > 0 {
		avg := qtySum / float64(len(series))
		if avg > 0 {
			rate = reg.Slope / avg
		}
	}
	scale := float64(len(series)) / 12
	if scale > 1 {
		scale = 1
	}
	return Trend{MonthlyRate: rate, Confidence: reg.R2 * scale, R2: reg.R2, Points: len(series)}
}

// Elasticity は価格弾力性の推定です。
type Elasticity struct {
	Value  float64 `json:"value"`
	Source string  `json:"source"` // "fit" か "manual"
	R2     float64 `json:"r2"`
	Points int     `json:"points"`
}

const (
	elasticityMin = -5
	elasticityMax = 1
)

func clampElasticity(v float64) float64 {
	if v < elasticityMin {
		return elasticityMin
	}
	if v > elasticityMax {
		return elasticityMax
	}
	return v
}

// EstimateElasticity は ln(数量) を ln(単価) に回帰します。数量と単価が正の
// 月だけが標本で、3点未満なら手入力値へフォールバックします。
// 弾力性は [-5, 1] に丸めます。
func EstimateElasticity(series []MonthPoint, manual float64) Elasticity {
	var points []Point
	for _, p := range series {
		price := p.UnitPrice()
		if p.Qty > 0 && price > 0 {
			points = append(points, Point{X: math.Log(price), Y: math.Log(p.Qty)})
		}
	}
	if len(points) < 3 {
		return Elasticity{Value: clampElasticity(manual), Source: "manual", Points: len(points)}
	}
	reg := Fit(points)
	return Elasticity{Value: clampElasticity(reg.Slope), Source: "fit", R2: reg.R2, Points: len(points)}
}

const (
	seasonalMin = 0.7
	seasonalMax = 1.3
)

// SeasonalFactor は対象暦月と現在暦月の季節性比を返します。
// 履歴が6か月未満、または対象月のデータが無い場合は1.0(補正なし)です。
// 比は ±30% に丸めます。
func SeasonalFactor(series []MonthPoint, currentMonth, targetMonth int) float64 {
	if len(series) < 6 || currentMonth < 1 || currentMonth > 12 || targetMonth < 1 || targetMonth > 12 {
		return 1
	}
	var total float64
	for _, p := range series {
		total += p.Qty
	}
	avg := total / float64(len(series))
	if avg <= 0 {
		return 1
	}

	ratioSum := map[int]float64{}
	ratioCount := map[int]int{}
	for _, p := range series {
		cm, ok := calendarMonth(p.Month)
		if !ok {
			continue
		}
		ratioSum[cm] += p.Qty / avg
		ratioCount[cm]++
	}
	if ratioCount[currentMonth] == 0 || ratioCount[targetMonth] == 0 {
		return 1
	}
	current := ratioSum[currentMonth] / float64(ratioCount[currentMonth])
	target := ratioSum[targetMonth] / float64(ratioCount[targetMonth])
	if current <= 0 {
		return 1
	}
	factor := target / current
	if factor < seasonalMin {
		return seasonalMin
	}
	if factor > seasonalMax {
		return seasonalMax
	}
	return factor
}

// Input は複合予測の入力です。率は小数(0.05=5%)で渡します。
type Input struct {
	Store            string  `json:"store"`
	Maker            string  `json:"maker"` // aron|pana|other|all
	HorizonMonths    int     `json:"horizonMonths"`
	PriceChange      float64 `json:"priceChange"`
	ManualQtyChange  float64 `json:"manualQtyChange"`
	ManualQtyPerMo   float64 `json:"manualQtyPerMonth"` // 月あたり絶対数の上積み
	ManualElasticity float64 `json:"manualElasticity"`
	CurrentMonth     int     `json:"currentMonth"` // 暦月 1-12。0なら季節補正なし
	TargetMonth      int     `json:"targetMonth"`
}

// Projection は予測の前後比較です。
type Projection struct {
	Qty   float64 `json:"qty"`
	Sales float64 `json:"sales"`
	Gross float64 `json:"gross"`
}

// Result は複合予測1回分の成果物です。
type Result struct {
	Trend          Trend      `json:"trend"`
	Elasticity     Elasticity `json:"elasticity"`
	SeasonalFactor float64    `json:"seasonalFactor"`
	BaseMonthlyQty float64    `json:"baseMonthlyQty"`
	Months         int        `json:"months"` // 参照期間の月数
	Before         Projection `json:"before"`
	After          Projection `json:"after"`
	Diff           Projection `json:"diff"`
}

func nonNegative(v float64) float64 {
	if v < 0 {
		return 0
	}
	return v
}

// Forecast は対象スライスの月次系列からH か月先までの数量・売上・粗利を予測します。
// 予測数量 = 基準月販×H × (1+弾力性×価格変動) × (1+トレンド×H) × (1+手動増減率)
// × 季節係数 + 月あたり上積み×H。負になり得る係数は0で止めます。
func Forecast(records []model.ReconciledRecord, input Input) Result {
	scoped := make([]model.ReconciledRecord, 0, len(records))
	for _, r := range records {
		if input.Store != "" && input.Store != "all" && r.Store != input.Store {
			continue
		}
		if input.Maker != "" && input.Maker != "all" && string(r.Maker) != input.Maker {
			continue
		}
		scoped = append(scoped, r)
	}
	series := BuildMonthlySeries(scoped)

	result := Result{
		Trend:          EstimateTrend(series),
		Elasticity:     EstimateElasticity(series, input.ManualElasticity),
		SeasonalFactor: 1,
	}
	horizon := input.HorizonMonths
	if horizon < 1 {
		horizon = 1
	}
	if input.CurrentMonth >= 1 && input.TargetMonth >= 1 {
		result.SeasonalFactor = SeasonalFactor(series, input.CurrentMonth, input.TargetMonth)
	}
	if len(series) == 0 {
		return result
	}

	var totalQty, totalSales, totalCost, totalShip float64
	for _, p := range series {
		totalQty += p.Qty
		totalSales += p.Sales
		totalCost += p.Cost
		totalShip += p.Ship
	}
	result.Months = len(series)
	result.BaseMonthlyQty = totalQty / float64(len(series))

	// 参照期間の加重平均単価・原価・送料
	var avgPrice, avgCost, avgShip float64
	if totalQty > 0 {
		avgPrice = totalSales / totalQty
		avgCost = totalCost / totalQty
		avgShip = totalShip / totalQty
	}

	h := float64(horizon)
	baseQty := result.BaseMonthlyQty * h
	forecastQty := baseQty *
		nonNegative(1+result.Elasticity.Value*input.PriceChange) *
		nonNegative(1+result.Trend.MonthlyRate*h) *
		nonNegative(1+input.ManualQtyChange) *
		result.SeasonalFactor
	forecastQty += input.ManualQtyPerMo * h

	newPrice := avgPrice * (1 + input.PriceChange)

	result.Before = Projection{
		Qty:   baseQty,
		Sales: baseQty * avgPrice,
		Gross: baseQty * (avgPrice - avgCost - avgShip),
	}
	result.After = Projection{
		Qty:   forecastQty,
		Sales: forecastQty * newPrice,
		Gross: forecastQty * (newPrice - avgCost - avgShip),
	}
	result.Diff = Projection{
		Qty:   result.After.Qty - result.Before.Qty,
		Sales: result.After.Sales - result.Before.Sales,
		Gross: result.After.Gross - result.Before.Gross,
	}
	return result
}
