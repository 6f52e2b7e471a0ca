// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\cells\cells.go
package cells

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"golang.org/x/text/width"
)

// 数値セルの正規化に使う記号類。桁区切りカンマ・円記号・空白(全角含む)を除去。
var numericNoise = strings.NewReplacer(",", "", "¥", "", "￥", "", " ", "", "　", "", "\t", "")

// ToNumber はセル値を数値化します。全角数字は半角へ畳み込んでから
// 解釈します。空・解釈不能は0を返し、決して
// エラーにしません（1行の不正値でファイル全体を落とさないための方針）。
func ToNumber(cell string) float64 {
	s := strings.TrimSpace(cell)
	if s == "" {
		return 0
	}
	s = width.Fold.String(s)
	s = numericNoise.Replace(s)
	n, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(n) || math.IsInf(n, 0) {
		return 0
	}
	return n
}

// ToString はセル値を正規化文字列にします。数値セルは10進整数文字列へ
// 変換します。JANコードのような長い数値が指数表記で壊れるのを防ぐため、
// 整数に近い値(誤差0.001未満)は丸めて整数文字列にします。
func ToString(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return ""
	}
	if n, err := strconv.ParseFloat(s, 64); err == nil && !math.IsNaN(n) && !math.IsInf(n, 0) {
		rounded := math.Round(n)
		if math.Abs(n-rounded) < 0.001 {
			return strconv.FormatFloat(rounded, 'f', 0, 64)
		}
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	return s
}

var (
	reYmd      = regexp.MustCompile(`(\d{4})[/\-](\d{1,2})[/\-]\d{1,2}`)
	reJpYm     = regexp.MustCompile(`(\d{4})\s*年\s*(\d{1,2})\s*月`)
	reUsMdy    = regexp.MustCompile(`(\d{1,2})[/\-](\d{1,2})[/\-](\d{4})`)
	reFileYm   = regexp.MustCompile(`(\d{4})[\-/](\d{1,2})`)
	reFileYmd6 = regexp.MustCompile(`(\d{4})(\d{2})`)
)

// Excel日付シリアルの起点。1900/2/29 を実在扱いするExcel互換バグに
// 合わせて 1899-12-30 を使います。
var serialEpoch = time.Date(1899, time.December, 30, 0, 0, 0, 0, time.UTC)

// 汎用文字列日付の解釈候補。年2000未満は採用しません。
var genericLayouts = []string{
	"2006年1月2日",
	"2006.1.2",
	"20060102",
	"2006/1",
	"2006-1",
	time.RFC3339,
	"2006-01-02T15:04:05",
}

// ExtractMonth はセル値（Excel日付シリアルまたは日付文字列）から
// "YYYY-MM" を抽出します。判定できなければ空文字を返し、どんな入力でも
// パニックしません。
func ExtractMonth(cell string) string {
	s := strings.TrimSpace(cell)
	if s == "" {
		return ""
	}

	// 日付シリアル値 (30000〜100000 をシリアルとみなすヒューリスティック)
	if n, err := strconv.ParseFloat(s, 64); err == nil && n > 30000 && n < 100000 {
		d := serialEpoch.Add(time.Duration(n * 24 * float64(time.Hour)))
		if y := d.Year(); y >= 2000 && y <= 2099 {
			return fmt.Sprintf("%04d-%02d", y, int(d.Month()))
		}
	}

	if m := reYmd.FindStringSubmatch(s); m != nil {
		return yearMonth(m[1], m[2])
	}
	if m := reJpYm.FindStringSubmatch(s); m != nil {
		return yearMonth(m[1], m[2])
	}
	if m := reUsMdy.FindStringSubmatch(s); m != nil {
		return yearMonth(m[3], m[1])
	}

	for _, layout := range genericLayouts {
		if d, err := time.Parse(layout, s); err == nil && d.Year() >= 2000 {
			return fmt.Sprintf("%04d-%02d", d.Year(), int(d.Month()))
		}
	}
	return ""
}

// ExtractMonthFromFilename はファイル名から年月を抽出します。
// 「YYYY年MM月」→「YYYY-MM / YYYY/MM」→ 素の「YYYYMM」の順で試します。
func ExtractMonthFromFilename(name string) string {
	if m := reJpYm.FindStringSubmatch(name); m != nil {
		return yearMonth(m[1], m[2])
	}
	if m := reFileYm.FindStringSubmatch(name); m != nil {
		return yearMonth(m[1], m[2])
	}
	if m := reFileYmd6.FindStringSubmatch(name); m != nil {
		if mm, err := strconv.Atoi(m[2]); err == nil && mm >= 1 && mm <= 12 {
			return m[1] + "-" + m[2]
		}
	}
	return ""
}

func yearMonth(y, m string) string {
	mm, err := strconv.Atoi(m)
	if err != nil || mm < 1 || mm > 12 {
		return ""
	}
	return fmt.Sprintf("%s-%02d", y, mm)
}
