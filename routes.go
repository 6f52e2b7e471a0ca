// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\routes.go
package main

import (
	"net/http"

	"github.com/jmoiron/sqlx"

	"kaientai/analysis"
	"kaientai/config"
	"kaientai/forecast"
	"kaientai/loader"
	"kaientai/session"
)

func SetupRoutes(mux *http.ServeMux, dbConn *sqlx.DB, sess *session.Session, cfg config.Config) {

	// データ取込
	mux.HandleFunc("/api/upload/shipping", loader.UploadShippingHandler(sess))
	mux.HandleFunc("/api/upload/sales", loader.UploadSalesHandler(sess))
	mux.HandleFunc("/api/upload/product", loader.UploadProductHandler(sess))
	mux.HandleFunc("/api/shipping/clear", loader.ClearShippingHandler(sess))
	mux.HandleFunc("/api/product/clear", loader.ClearProductHandler(sess))

	// 分析と結果ビュー
	mux.HandleFunc("/api/analyze", analysis.AnalyzeHandler(sess))
	mux.HandleFunc("/api/results/overview", analysis.OverviewHandler(sess))
	mux.HandleFunc("/api/results/monthly", analysis.MonthlyHandler(sess))
	mux.HandleFunc("/api/results/store", analysis.StoreHandler(sess))
	mux.HandleFunc("/api/results/products", analysis.ProductsHandler(sess))
	mux.HandleFunc("/api/results/products/export_csv", analysis.ExportProductsCSVHandler(sess))

	// シミュレーションと予測
	mux.HandleFunc("/api/sim/whatif", forecast.WhatIfHandler(sess))
	mux.HandleFunc("/api/sim/sweep", forecast.SweepHandler(sess))
	mux.HandleFunc("/api/sim/store", forecast.StoreSimHandler(sess))
	mux.HandleFunc("/api/forecast", forecast.ForecastHandler(sess))
	mux.HandleFunc("/api/forecast/trend", forecast.TrendHandler(sess))

	// 設定・状態
	mux.HandleFunc("/api/config", func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			GetConfigHandler()(w, r)
		case http.MethodPost:
			SaveConfigHandler()(w, r)
		default:
			http.Error(w, "Method Not Allowed", http.StatusMethodNotAllowed)
		}
	})
	mux.HandleFunc("/api/settings", session.SettingsHandler(sess))
	mux.HandleFunc("/api/status", session.StatusHandler(sess))
	mux.HandleFunc("/api/log", session.LogHandler(sess))
	mux.HandleFunc("/api/draft", session.ProgressDraftHandler(sess))
	mux.HandleFunc("/api/state/save", session.SaveStateHandler(sess, dbConn, cfg.ModuleID, cfg.ChunkSize))
	mux.HandleFunc("/api/state/load", session.LoadStateHandler(sess, dbConn, cfg.ModuleID))
	mux.HandleFunc("/api/state/export", session.ExportStateHandler(sess))
	mux.HandleFunc("/api/state/import", session.ImportStateHandler(sess))
}
