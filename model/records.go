// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\model\records.go
package model

// ShippingRecord は送料マスタの1行です。JANコード単位で1件、
// エリア別送料は判明しているエリアのみ保持します（スパース）。
type ShippingRecord struct {
	Jan       string               `json:"jan"`
	Name      string               `json:"name"`
	SizeBand  float64              `json:"sizeBand"`
	AreaCosts map[AreaCode]float64 `json:"areaCosts"`
}

// SalesRecord は販売実績の1行です。受注番号が空でない行は
// 取込済みデータ全体で一意になるよう重複排除されます。
type SalesRecord struct {
	OrderNo    string  `json:"orderNo"`
	Month      string  `json:"month"` // "YYYY-MM" または "unknown"
	Maker      Maker   `json:"maker"`
	MakerRaw   string  `json:"makerRaw"`
	SalesRep   string  `json:"salesRep"`
	Store      string  `json:"store"`
	StoreCode  string  `json:"storeCode"`
	Prefecture string  `json:"prefecture"`
	Jan        string  `json:"jan"`
	Name       string  `json:"name"`
	Qty        float64 `json:"qty"`
	UnitPrice  float64 `json:"unitPrice"`
	TotalPrice float64 `json:"totalPrice"`
}

// ProductRecord は商品マスタの1行です。JAN重複は後勝ちで上書き。
type ProductRecord struct {
	Jan           string  `json:"jan"`
	Name          string  `json:"name"`
	ListPrice     float64 `json:"listPrice"`
	Cost          float64 `json:"cost"`
	WarehouseCost float64 `json:"warehouseCost"`
	// EffectiveCost は倉庫入原価が正ならそちら、でなければ原価。
	EffectiveCost float64 `json:"effectiveCost"`
}

// ReconciledRecord は3データの突合に成功した販売行です。
// SalesRecord の各項目に送料・原価・粗利の計算結果を加えたもの。
type ReconciledRecord struct {
	SalesRecord
	ShippingCost  float64  `json:"shippingCost"`
	ShippingArea  AreaCode `json:"shippingArea"` // 判定不可は ""
	EffectiveCost float64  `json:"effectiveCost"`
	ListPrice     float64  `json:"listPrice"`
	SalesAmount   float64  `json:"salesAmount"`   // 単価×数量
	TotalShipping float64  `json:"totalShipping"` // 数量×送料
	TotalCost     float64  `json:"totalCost"`     // 数量×原価
	GrossProfit   float64  `json:"grossProfit"`
	RateVsList    float64  `json:"rateVsList"` // 定価に対する掛け率 (定価0なら0)
}
