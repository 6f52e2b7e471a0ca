// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\main.go
package main

import (
	"fmt"
	"log"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"

	"github.com/jmoiron/sqlx"
	_ "github.com/mattn/go-sqlite3"

	"kaientai/config"
	"kaientai/database"
	"kaientai/model"
	"kaientai/session"
)

func main() {
	if _, err := config.LoadConfig(); err != nil {
		log.Printf("WARN: Failed to load config file: %v. Using defaults.", err)
	}
	cfg := config.GetConfig()

	log.Println("Connecting to database...")
	dbConn, err := sqlx.Open("sqlite3", cfg.DatabasePath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		log.Fatalf("db open error: %v", err)
	}
	defer dbConn.Close()
	log.Println("Database connection successful.")

	if err := database.InitDatabase(dbConn); err != nil {
		log.Fatalf("Database initialization failed: %v", err)
	}
	log.Println("Database initialization complete.")

	sess := session.New(dbConn, cfg.ModuleID, cfg.ChunkSize)

	// 前回終了時の保存状態があれば復元する
	var payload model.StatePayload
	loaded, err := database.LoadModuleState(dbConn, cfg.ModuleID, &payload)
	if err != nil {
		log.Printf("WARN: Failed to load saved state: %v. Starting empty.", err)
	} else if loaded {
		if err := sess.Restore(payload); err != nil {
			log.Printf("WARN: Saved state was broken: %v. Starting empty.", err)
		} else {
			log.Printf("Saved state restored (shipping=%d, sales=%d, products=%d).",
				len(payload.ShippingData), len(payload.SalesData), len(payload.ProductData))
		}
	}

	mux := http.NewServeMux()

	mux.Handle("/", http.FileServer(http.Dir(cfg.StaticDir)))

	SetupRoutes(mux, dbConn, sess, cfg)

	addr := fmt.Sprintf(":%d", cfg.Port)
	log.Printf("Starting server on http://localhost%s", addr)

	if cfg.OpenBrowser {
		openBrowser(fmt.Sprintf("http://localhost%s", addr))
	}

	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			log.Fatalf("server start error: %v", err)
		}
	}()

	// Ctrl+C等での終了時は保留中の自動保存を書き切ってから落とす
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down, flushing pending state save...")
	sess.FlushSave()
}

func openBrowser(url string) {
	var err error
	switch runtime.GOOS {
	case "windows":
		err = exec.Command("rundll32", "url.dll,FileProtocolHandler", url).Start()
	case "darwin":
		err = exec.Command("open", url).Start()
	default:
		err = exec.Command("xdg-open", url).Start()
	}
	if err != nil {
		log.Printf("failed to open browser: %v", err)
	}
}
