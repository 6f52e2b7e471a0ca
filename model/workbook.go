// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\model\workbook.go
package model

// Row はシート1行分の生セル値です。空セルは "" になります。
// xlsxの数値セルはシリアル値や指数表記の文字列で入ってくることがあるため、
// 正規化は cells パッケージ側で行います。
type Row []string

// Workbook は表形式ファイルリーダーの出力契約です。バイナリ形式の
// 解釈は parsers パッケージに閉じていて、以降の処理はこの生グリッド
// だけを見ます。
type Workbook struct {
	FileName   string           `json:"fileName"`
	SheetNames []string         `json:"sheetNames"`
	Sheets     map[string][]Row `json:"sheets"`
}

// Cell は行から列位置のセルを取り出します。範囲外は ""。
func (r Row) Cell(col int) string {
	if col < 0 || col >= len(r) {
		return ""
	}
	return r[col]
}

// 列位置の定数です。原本帳票のA列起点の並びに対応します。
const (
	ColA = iota
	ColB
	ColC
	ColD
	ColE
	ColF
	ColG
	ColH
	ColI
	ColJ
	ColK
	ColL
	ColM
	ColN
	ColO
	ColP
	ColQ
	ColR
	ColS
	ColT
	ColU
	ColV
	ColW
	ColX
	ColY
	ColZ
	ColAA
	ColAB
)
