// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\model\state.go
package model

import "time"

// StateSchemaVersion は保存ペイロードのスキーマ版数です。
const StateSchemaVersion = 1

// StatePayload はセッション状態の保存・復元の単位です。
// 分析結果は保存せず、復元後に再分析して作り直します。
type StatePayload struct {
	SchemaVersion int               `json:"schemaVersion"`
	SavedAt       time.Time         `json:"savedAt"`
	ShippingData  []ShippingRecord  `json:"shippingData"`
	SalesData     []SalesRecord     `json:"salesData"`
	ProductData   []ProductRecord   `json:"productData"`
	Settings      Settings          `json:"settings"`
	ProgressDraft map[string]string `json:"progressDraft,omitempty"`
}
