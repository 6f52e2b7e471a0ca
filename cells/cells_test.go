// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\cells\cells_test.go
package cells

import "testing"

func TestToNumber(t *testing.T) {
	tests := []struct {
		in   string
		want float64
	}{
		{"", 0},
		{"  ", 0},
		{"1234", 1234},
		{"1,234,567", 1234567},
		{"¥3,000", 3000},
		{"￥500", 500},
		{"12.5", 12.5},
		{"-980", -980},
		{"１２３４", 1234},   // 全角数字
		{"１，５００", 1500}, // 全角数字+全角カンマ
		{"3,000 円", 0}, // 通貨単位つきは数値扱いしない
		{"abc", 0},
	}
	for _, tt := range tests {
		if got := ToNumber(tt.in); got != tt.want {
			t.Errorf("ToNumber(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestToString(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"", ""},
		{"  abc  ", "abc"},
		{"4901234567890", "4901234567890"},
		// 指数表記で壊れたJANコードの復元
		{"4.90123456789e+12", "4901234567890"},
		{"1234.0002", "1234"}, // 整数に近い誤差は丸める
		{"12.5", "12.5"},
		{"商品A", "商品A"},
	}
	for _, tt := range tests {
		if got := ToString(tt.in); got != tt.want {
			t.Errorf("ToString(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractMonth(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2024/05/15", "2024-05"},
		{"2024-5-1", "2024-05"},
		{"2024年5月", "2024-05"},
		{"5/15/2024", "2024-05"},
		{"45432", "2024-05"}, // Excelシリアル値 2024-05-20
		{"", ""},
		{"garbage", ""},
		{"1999/01/01", ""}, // 2000年未満は対象外
		{"123", ""},        // シリアル範囲外
	}
	for _, tt := range tests {
		if got := ExtractMonth(tt.in); got != tt.want {
			t.Errorf("ExtractMonth(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestExtractMonthFromFilename(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"販売実績2024年5月.xlsx", "2024-05"},
		{"sales_2024-05.xlsx", "2024-05"},
		{"sales_2024/5.csv", "2024-05"},
		{"202405実績.xlsx", "2024-05"},
		{"202499実績.xlsx", ""}, // 月13以上は不採用
		{"sales.xlsx", ""},
	}
	for _, tt := range tests {
		if got := ExtractMonthFromFilename(tt.in); got != tt.want {
			t.Errorf("ExtractMonthFromFilename(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
