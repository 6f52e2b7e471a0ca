// C:\Users\wasab\OneDrive\デスクトップ\KAIENTAI\config\config.go
package config

import (
	"encoding/json"
	"os"
	"strconv"
	"sync"

	"github.com/joho/godotenv"
)

// Config はサーバーの起動設定です。設定ファイルが無ければ既定値、
// 環境変数(.env含む)があれば最優先で上書きします。
type Config struct {
	Port         int    `json:"port"`
	DatabasePath string `json:"databasePath"`
	ModuleID     string `json:"moduleID"`
	ChunkSize    int    `json:"chunkSize"`
	StaticDir    string `json:"staticDir"`
	OpenBrowser  bool   `json:"openBrowser"`
}

var (
	cfg Config
	mu  sync.RWMutex
)

const configFilePath = "./kaientai_config.json"

func defaults() Config {
	return Config{
		Port:         8087,
		DatabasePath: "./kaientai.db",
		ModuleID:     "aron-pana",
		ChunkSize:    700000,
		StaticDir:    "static",
		OpenBrowser:  true,
	}
}

// LoadConfig は設定ファイルと環境変数を読み込みます。
func LoadConfig() (Config, error) {
	mu.Lock()
	defer mu.Unlock()

	// .env は無ければ無いで構わない
	_ = godotenv.Load()

	tempCfg := defaults()
	file, err := os.ReadFile(configFilePath)
	if err == nil {
		if err := json.Unmarshal(file, &tempCfg); err != nil {
			return Config{}, err
		}
	} else if !os.IsNotExist(err) {
		return Config{}, err
	}

	applyDefaults(&tempCfg)
	applyEnv(&tempCfg)
	cfg = tempCfg
	return cfg, nil
}

func applyDefaults(c *Config) {
	d := defaults()
	if c.Port == 0 {
		c.Port = d.Port
	}
	if c.DatabasePath == "" {
		c.DatabasePath = d.DatabasePath
	}
	if c.ModuleID == "" {
		c.ModuleID = d.ModuleID
	}
	if c.ChunkSize == 0 {
		c.ChunkSize = d.ChunkSize
	}
	if c.StaticDir == "" {
		c.StaticDir = d.StaticDir
	}
}

func applyEnv(c *Config) {
	if v := os.Getenv("KAIENTAI_PORT"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.Port = n
		}
	}
	if v := os.Getenv("KAIENTAI_DB_PATH"); v != "" {
		c.DatabasePath = v
	}
	if v := os.Getenv("KAIENTAI_MODULE_ID"); v != "" {
		c.ModuleID = v
	}
	if v := os.Getenv("KAIENTAI_CHUNK_SIZE"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			c.ChunkSize = n
		}
	}
	if v := os.Getenv("KAIENTAI_STATIC_DIR"); v != "" {
		c.StaticDir = v
	}
	if v := os.Getenv("KAIENTAI_NO_BROWSER"); v != "" {
		c.OpenBrowser = false
	}
}

// SaveConfig は設定をファイルへ書き出します。
func SaveConfig(newCfg Config) error {
	mu.Lock()
	defer mu.Unlock()

	applyDefaults(&newCfg)
	file, err := json.MarshalIndent(newCfg, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(configFilePath, file, 0644); err != nil {
		return err
	}
	cfg = newCfg
	return nil
}

// GetConfig は読み込み済みの設定を返します。
func GetConfig() Config {
	mu.RLock()
	defer mu.RUnlock()
	return cfg
}
