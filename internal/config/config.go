package config

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/Blessedbiello/NFT-Marketplace-sub001/internal/log"
	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

type Config struct {
	Env        string
	Debug      bool
	LogPath    string
	HealthPort string

	Wallet        string
	MarketplaceID string
	DataDir       string
	TombstoneTTL  time.Duration

	Ledger LedgerConfig
	Feed   FeedConfig
}

type LedgerConfig struct {
	Url     string
	Timeout int
	Debug   bool
}

type FeedConfig struct {
	Url       string
	Topic     string
	Reconnect int
}

func Init(app string) {
	if err := godotenv.Load(".env"); err != nil {
		zap.L().With(zap.Error(err)).Warn("Unable to load .env")
	}

	log.NewLogger(getString("LOG_PATH", "./var/"+app+".log"), getBool("DEBUG", false))
}

func Get() *Config {
	return &Config{
		Env:           getString("ENV", ""),
		Debug:         getBool("DEBUG", false),
		LogPath:       getString("LOG_PATH", "./var/marketd.log"),
		HealthPort:    getString("HEALTH_PORT", "8080"),
		Wallet:        getString("WALLET", ""),
		MarketplaceID: getString("MARKETPLACE_ID", "marketplace"),
		DataDir:       getString("DATA_DIR", "./var/data"),
		TombstoneTTL:  time.Duration(getInt("TOMBSTONE_TTL", 300)) * time.Second,
		Ledger: LedgerConfig{
			Url:     getString("LEDGER_URL", ""),
			Timeout: getInt("LEDGER_TIMEOUT", 30),
			Debug:   getBool("LEDGER_DEBUG", false),
		},
		Feed: FeedConfig{
			Url:       getString("FEED_URL", ""),
			Topic:     getString("FEED_TOPIC", "marketplace"),
			Reconnect: getInt("FEED_RECONNECT", 30),
		},
	}
}

func getString(key string, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}

	return defaultValue
}

func getInt(key string, defaultValue int) int {
	valStr := getString(key, "")
	val, err := strconv.Atoi(strings.TrimSpace(valStr))
	if err != nil {
		return defaultValue
	}

	return val
}

func getBool(key string, defaultValue bool) bool {
	valStr := getString(key, "")
	if val, err := strconv.ParseBool(valStr); err == nil {
		return val
	}

	return defaultValue
}
