// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\geo\geo.go
package geo

import (
	"regexp"
	"strings"

	"kaientai/model"
)

// NormalizeToken は判定用にテキストを整えます（trim・小文字化・
// 全角/半角空白の除去）。
func NormalizeToken(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	return strings.NewReplacer(" ", "", "　", "", "\t", "").Replace(s)
}

// 部分一致の優先順。「九州」「東北」のざっくり分類は具体名が
// どれも当たらなかったときだけ適用します。
var areaMatchers = []struct {
	token string
	area  model.AreaCode
}{
	{"北海道", model.AreaHokkaido},
	{"北東北", model.AreaKitaTohoku},
	{"南東北", model.AreaMinamiTohoku},
	{"関東", model.AreaKanto},
	{"信越", model.AreaShinetsu},
	{"北陸", model.AreaHokuriku},
	{"中部", model.AreaChubu},
	{"関西", model.AreaKansai},
	{"中国", model.AreaChugoku},
	{"四国", model.AreaShikoku},
	{"北九州", model.AreaKitaKyushu},
	{"南九州", model.AreaMinamiKyushu},
	{"沖縄", model.AreaOkinawa},
}

// ToAreaCode はエリア名テキストを13エリアのいずれかへ解決します。
// どれにも当たらなければ空文字です。
func ToAreaCode(text string) model.AreaCode {
	s := NormalizeToken(text)
	if s == "" {
		return ""
	}
	for _, m := range areaMatchers {
		if strings.Contains(s, m.token) {
			return m.area
		}
	}
	// ざっくり分類: 下位区分が判定できない場合の損失ありデフォルト
	if strings.Contains(s, "九州") {
		return model.AreaKitaKyushu
	}
	if strings.Contains(s, "東北") {
		return model.AreaMinamiTohoku
	}
	return ""
}

var prefecturePattern = regexp.MustCompile(`(青森|岩手|秋田|宮城|山形|福島|茨城|栃木|群馬|埼玉|千葉|東京|神奈川|山梨|新潟|長野|富山|石川|福井|岐阜|静岡|愛知|三重|滋賀|京都|大阪|兵庫|奈良|和歌山|鳥取|島根|岡山|広島|山口|徳島|香川|愛媛|高知|福岡|佐賀|長崎|大分|熊本|宮崎|鹿児島|沖縄)`)

var prefectureArea = map[string]model.AreaCode{
	"青森": model.AreaKitaTohoku, "岩手": model.AreaKitaTohoku, "秋田": model.AreaKitaTohoku,
	"宮城": model.AreaMinamiTohoku, "山形": model.AreaMinamiTohoku, "福島": model.AreaMinamiTohoku,
	"茨城": model.AreaKanto, "栃木": model.AreaKanto, "群馬": model.AreaKanto,
	"埼玉": model.AreaKanto, "千葉": model.AreaKanto, "東京": model.AreaKanto,
	"神奈川": model.AreaKanto, "山梨": model.AreaKanto,
	"新潟": model.AreaShinetsu, "長野": model.AreaShinetsu,
	"富山": model.AreaHokuriku, "石川": model.AreaHokuriku, "福井": model.AreaHokuriku,
	"岐阜": model.AreaChubu, "静岡": model.AreaChubu, "愛知": model.AreaChubu, "三重": model.AreaChubu,
	"滋賀": model.AreaKansai, "京都": model.AreaKansai, "大阪": model.AreaKansai,
	"兵庫": model.AreaKansai, "奈良": model.AreaKansai, "和歌山": model.AreaKansai,
	"鳥取": model.AreaChugoku, "島根": model.AreaChugoku, "岡山": model.AreaChugoku,
	"広島": model.AreaChugoku, "山口": model.AreaChugoku,
	"徳島": model.AreaShikoku, "香川": model.AreaShikoku, "愛媛": model.AreaShikoku, "高知": model.AreaShikoku,
	"福岡": model.AreaKitaKyushu, "佐賀": model.AreaKitaKyushu, "長崎": model.AreaKitaKyushu, "大分": model.AreaKitaKyushu,
	"熊本": model.AreaMinamiKyushu, "宮崎": model.AreaMinamiKyushu, "鹿児島": model.AreaMinamiKyushu,
	"沖縄": model.AreaOkinawa,
}

// PrefectureToAreaCode は県名テキストをエリアへ解決します。
// エリア名での直接判定が先、だめなら47都道府県名の抽出で引きます。
func PrefectureToAreaCode(text string) model.AreaCode {
	s := NormalizeToken(text)
	if s == "" {
		return ""
	}
	if area := ToAreaCode(s); area != "" {
		return area
	}
	if strings.Contains(s, "北海道") {
		return model.AreaHokkaido
	}
	m := prefecturePattern.FindStringSubmatch(s)
	if m == nil {
		return ""
	}
	return prefectureArea[m[1]]
}

// IsOkinawaPrefecture は県名が沖縄かどうかを判定します。
func IsOkinawaPrefecture(prefecture string) bool {
	return strings.Contains(NormalizeToken(prefecture), "沖縄")
}

// フォールバック探索順。自エリアの次は物量の多い関東から順に試します。
var fallbackOrder = []model.AreaCode{
	model.AreaKanto, model.AreaChubu, model.AreaKansai,
	model.AreaKitaTohoku, model.AreaMinamiTohoku, model.AreaHokkaido,
	model.AreaShinetsu, model.AreaHokuriku, model.AreaChugoku,
	model.AreaShikoku, model.AreaKitaKyushu, model.AreaMinamiKyushu,
	model.AreaOkinawa,
}

// ShippingResolution は送料解決の結果です。
type ShippingResolution struct {
	ShippingCost float64        `json:"shippingCost"`
	AreaKey      model.AreaCode `json:"areaKey"`
	Fallback     bool           `json:"fallback"`
}

// ResolveShippingCost は県名からエリアを求め、送料を決定します。
// 優先順位は (1)自エリアの送料 (2)フォールバック探索 (3)沖縄特例¥3000
// (4)サイズ帯100以下の設定送料 の順に適用され、後のルールほど強いため
// サイズ帯特例が最優先です。エリアキーは表示用に保持されます。
func ResolveShippingCost(shipping *model.ShippingRecord, prefecture string, settings model.Settings) ShippingResolution {
	areaKey := PrefectureToAreaCode(prefecture)
	var cost float64
	fallback := false

	if areaKey != "" && shipping.AreaCosts[areaKey] > 0 {
		cost = shipping.AreaCosts[areaKey]
	} else {
		tried := map[model.AreaCode]bool{}
		order := append([]model.AreaCode{areaKey}, fallbackOrder...)
		for _, key := range order {
			if key == "" || tried[key] {
				continue
			}
			tried[key] = true
			if shipping.AreaCosts[key] > 0 {
				cost = shipping.AreaCosts[key]
				areaKey = key
				fallback = true
				break
			}
		}
	}

	smallParcel := shipping.SizeBand > 0 && shipping.SizeBand <= 100

	// 沖縄県はサイズ帯100以下を除き固定¥3000
	if IsOkinawaPrefecture(prefecture) && !smallParcel {
		cost = 3000
		areaKey = model.AreaOkinawa
		fallback = false
	}

	// サイズ帯100以下は設定送料を最優先
	if smallParcel && settings.DefaultShippingSmall > 0 {
		cost = settings.DefaultShippingSmall
	}

	return ShippingResolution{ShippingCost: cost, AreaKey: areaKey, Fallback: fallback}
}
