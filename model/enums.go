// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\model\enums.go
package model

// Maker は販売行のメーカー区分です。販売実績のメーカー列から
// キーワード判定で決まります。
type Maker string

const (
	MakerAron  Maker = "aron"
	MakerPana  Maker = "pana"
	MakerOther Maker = "other"
)

// Makers は集計・表示で使う固定順です。
var Makers = []Maker{MakerAron, MakerPana, MakerOther}

// MakerLabel はメーカーの表示名です。
func MakerLabel(m Maker) string {
	switch m {
	case MakerAron:
		return "アロン化成"
	case MakerPana:
		return "パナソニック"
	default:
		return "その他"
	}
}

// AreaCode は送料テーブルの13エリア区分です。
type AreaCode string

const (
	AreaHokkaido     AreaCode = "hokkaido"
	AreaKitaTohoku   AreaCode = "kitaTohoku"
	AreaMinamiTohoku AreaCode = "minamiTohoku"
	AreaKanto        AreaCode = "kanto"
	AreaShinetsu     AreaCode = "shinetsu"
	AreaHokuriku     AreaCode = "hokuriku"
	AreaChubu        AreaCode = "chubu"
	AreaKansai       AreaCode = "kansai"
	AreaChugoku      AreaCode = "chugoku"
	AreaShikoku      AreaCode = "shikoku"
	AreaKitaKyushu   AreaCode = "kitaKyushu"
	AreaMinamiKyushu AreaCode = "minamiKyushu"
	AreaOkinawa      AreaCode = "okinawa"
)

// AreaCodes は送料マスタJ〜V列の既定並び順です。
var AreaCodes = []AreaCode{
	AreaHokkaido, AreaKitaTohoku, AreaMinamiTohoku, AreaKanto,
	AreaShinetsu, AreaHokuriku, AreaChubu, AreaKansai,
	AreaChugoku, AreaShikoku, AreaKitaKyushu, AreaMinamiKyushu, AreaOkinawa,
}

var areaLabels = map[AreaCode]string{
	AreaHokkaido:     "北海道",
	AreaKitaTohoku:   "北東北",
	AreaMinamiTohoku: "南東北",
	AreaKanto:        "関東",
	AreaShinetsu:     "信越",
	AreaHokuriku:     "北陸",
	AreaChubu:        "中部",
	AreaKansai:       "関西",
	AreaChugoku:      "中国",
	AreaShikoku:      "四国",
	AreaKitaKyushu:   "北九州",
	AreaMinamiKyushu: "南九州",
	AreaOkinawa:      "沖縄",
}

// AreaLabel はエリアの日本語表示名を返します。未知コードは空文字。
func AreaLabel(a AreaCode) string {
	return areaLabels[a]
}
