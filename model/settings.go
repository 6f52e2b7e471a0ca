// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\model\settings.go
package model

import "strings"

// RebatePair は月別固定リベートの内訳（達成リベート・車扱い還元金）です。
type RebatePair struct {
	Achieve float64 `json:"achieve"`
	Car     float64 `json:"car"`
}

// Total は固定リベートの合計額です。
func (p RebatePair) Total() float64 { return p.Achieve + p.Car }

// MonthlyRebate は1か月分のメーカー別固定リベートです。
type MonthlyRebate struct {
	Aron RebatePair `json:"aron"`
	Pana RebatePair `json:"pana"`
}

// ForMaker は対象メーカーの固定リベートを返します。
// アロン・パナ以外は常にゼロです。
func (m MonthlyRebate) ForMaker(maker Maker) RebatePair {
	switch maker {
	case MakerAron:
		return m.Aron
	case MakerPana:
		return m.Pana
	default:
		return RebatePair{}
	}
}

// Settings は突合・集計の計算パラメータです。分析1回分のスナップショット
// として渡され、実行中に書き換えられることはありません。
type Settings struct {
	RebateAron           float64                  `json:"rebateAron"` // 率 (0.05 = 5%)
	RebatePana           float64                  `json:"rebatePana"`
	WarehouseFee         float64                  `json:"warehouseFee"`    // 月額 倉庫引き取り費
	WarehouseOutFee      float64                  `json:"warehouseOutFee"` // 倉庫出し手数料 (円/個)
	MonthlyRebates       map[string]MonthlyRebate `json:"monthlyRebates"`
	DefaultShippingSmall float64                  `json:"defaultShippingSmall"`
	KeywordAron          []string                 `json:"keywordAron"`
	KeywordPana          []string                 `json:"keywordPana"`
}

// DefaultSettings は初期値です。キーワードは原文UIの既定値と同じ。
func DefaultSettings() Settings {
	return Settings{
		WarehouseOutFee:      50,
		DefaultShippingSmall: 100,
		MonthlyRebates:       map[string]MonthlyRebate{},
		KeywordAron:          []string{"アロン"},
		KeywordPana:          []string{"パナソニック", "パナ", "panasonic"},
	}
}

// Normalized はキーワードの小文字化・空要素除去と、全項目ゼロの
// 月別リベートの刈り込みを行ったコピーを返します。
func (s Settings) Normalized() Settings {
	out := s
	out.KeywordAron = normalizeKeywords(s.KeywordAron, "アロン")
	out.KeywordPana = normalizeKeywords(s.KeywordPana, "パナソニック", "パナ", "panasonic")

	out.MonthlyRebates = map[string]MonthlyRebate{}
	for month, mr := range s.MonthlyRebates {
		if mr.Aron.Total() == 0 && mr.Pana.Total() == 0 {
			continue
		}
		out.MonthlyRebates[month] = mr
	}
	return out
}

// FixedRebate は指定月・メーカーの固定リベートを返します。
func (s Settings) FixedRebate(month string, maker Maker) RebatePair {
	mr, ok := s.MonthlyRebates[month]
	if !ok {
		return RebatePair{}
	}
	return mr.ForMaker(maker)
}

// RebateRate はメーカー別の変動リベート率です。その他メーカーは0。
func (s Settings) RebateRate(maker Maker) float64 {
	switch maker {
	case MakerAron:
		return s.RebateAron
	case MakerPana:
		return s.RebatePana
	default:
		return 0
	}
}

func normalizeKeywords(in []string, fallback ...string) []string {
	var out []string
	for _, kw := range in {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw == "" {
			continue
		}
		out = append(out, kw)
	}
	if len(out) == 0 {
		return fallback
	}
	return out
}
