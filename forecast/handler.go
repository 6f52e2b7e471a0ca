// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\forecast\handler.go
package forecast

import (
	"encoding/json"
	"net/http"
	"strconv"

	"kaientai/session"
)

func respondJSONError(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	json.NewEncoder(w).Encode(map[string]interface{}{"message": message})
}

func respondJSON(w http.ResponseWriter, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(body)
}

// WhatIfHandler は掛け率・リベート率の全体シミュレーションを実行します。
func WhatIfHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		result := sess.Result()
		if result == nil {
			respondJSONError(w, "分析が実行されていません", http.StatusConflict)
			return
		}
		var input WhatIfInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respondJSONError(w, "リクエストの形式が不正です: "+err.Error(), http.StatusBadRequest)
			return
		}
		outcome := WhatIf(result, input)
		base := WhatIf(result, WhatIfInput{Target: input.Target})
		respondJSON(w, map[string]interface{}{
			"current": CurrentMarkup(result.Records),
			"before":  base,
			"after":   outcome,
			"diff":    outcome.RealProfit - base.RealProfit,
		})
	}
}

// SweepHandler は掛け率変動の応答曲線(-20%〜+20%、2%刻み)を返します。
func SweepHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := sess.Result()
		if result == nil {
			respondJSONError(w, "分析が実行されていません", http.StatusConflict)
			return
		}
		input := WhatIfInput{Target: r.URL.Query().Get("target")}
		respondJSON(w, map[string]interface{}{"points": Sweep(result, input)})
	}
}

// StoreSimHandler は販売店単位のシミュレーションを実行します。
func StoreSimHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		result := sess.Result()
		if result == nil {
			respondJSONError(w, "分析が実行されていません", http.StatusConflict)
			return
		}
		var input StoreSimInput
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respondJSONError(w, "リクエストの形式が不正です: "+err.Error(), http.StatusBadRequest)
			return
		}
		if input.Store == "" {
			respondJSONError(w, "販売店を指定してください", http.StatusBadRequest)
			return
		}
		respondJSON(w, SimulateStore(result.Records, input))
	}
}

// ForecastHandler は弾力性・トレンド・季節性を合成した需要予測を返します。
func ForecastHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			respondJSONError(w, "Method Not Allowed", http.StatusMethodNotAllowed)
			return
		}
		result := sess.Result()
		if result == nil {
			respondJSONError(w, "分析が実行されていません", http.StatusConflict)
			return
		}
		var input Input
		if err := json.NewDecoder(r.Body).Decode(&input); err != nil {
			respondJSONError(w, "リクエストの形式が不正です: "+err.Error(), http.StatusBadRequest)
			return
		}
		respondJSON(w, Forecast(result.Records, input))
	}
}

// TrendHandler は対象スコープのトレンドと月次系列だけを返します(グラフ用)。
func TrendHandler(sess *session.Session) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		result := sess.Result()
		if result == nil {
			respondJSONError(w, "分析が実行されていません", http.StatusConflict)
			return
		}
		q := r.URL.Query()
		manual, _ := strconv.ParseFloat(q.Get("manualElasticity"), 64)
		input := Input{Store: q.Get("store"), Maker: q.Get("maker"), ManualElasticity: manual}

		scoped := result.Records
		if input.Store != "" && input.Store != "all" || input.Maker != "" && input.Maker != "all" {
			filtered := scoped[:0:0]
			for _, rec := range scoped {
				if input.Store != "" && input.Store != "all" && rec.Store != input.Store {
					continue
				}
				if input.Maker != "" && input.Maker != "all" && string(rec.Maker) != input.Maker {
					continue
				}
				filtered = append(filtered, rec)
			}
			scoped = filtered
		}
		series := BuildMonthlySeries(scoped)
		respondJSON(w, map[string]interface{}{
			"series":     series,
			"trend":      EstimateTrend(series),
			"elasticity": EstimateElasticity(series, manual),
		})
	}
}
