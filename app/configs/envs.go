package configs

import (
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
)

type ENV struct {
	Port            string
	AppEnv          string
	AppURL          string
	AssetHost       string
	PagesFile       string
	StorageDriver   string
	SQLitePath      string
	DBHost          string
	DBUser          string
	DBPassword      string
	DBName          string
	DBPort          string
	RedisAddr       string
	RedisPassword   string
	RedisDB         int
	CatalogCacheTTL time.Duration
	CatalogTimeout  time.Duration
	CatalogPageSize int
	SESSION_KEY     string
	AppAuthKey      string
	AppEncKey       string
	CSRFKey         string
	UploadMaxBytes  int64
	UploadTTL       time.Duration
	UploadMaxQueue  int
}

const (
	DriverSQLite = "sqlite"
	DriverMySQL  = "mysql"
	DriverRedis  = "redis"
	DriverMemory = "memory"
)

func LoadEnv() ENV {
	if err := godotenv.Load(".env"); err != nil {
		log.Warn().Msg("LoadEnv: no .env file found, using process environment")
	}

	return ENV{
		Port:            getenv("APP_PORT", "8080"),
		AppEnv:          getenv("APP_ENV", "development"),
		AppURL:          os.Getenv("APP_URL"),
		AssetHost:       os.Getenv("ASSET_HOST"),
		PagesFile:       getenv("PAGES_FILE", "pages.yaml"),
		StorageDriver:   strings.ToLower(getenv("STORAGE_DRIVER", DriverSQLite)),
		SQLitePath:      getenv("SQLITE_PATH", "carestore.db"),
		DBHost:          os.Getenv("DB_HOST"),
		DBUser:          os.Getenv("DB_USER"),
		DBPassword:      os.Getenv("DB_PASSWORD"),
		DBName:          os.Getenv("DB_NAME"),
		DBPort:          getenv("DB_PORT", "3306"),
		RedisAddr:       getenv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   os.Getenv("REDIS_PASSWORD"),
		RedisDB:         getInt("REDIS_DB", 0),
		CatalogCacheTTL: getDuration("CATALOG_CACHE_TTL", 0),
		CatalogTimeout:  getDuration("CATALOG_TIMEOUT", 0),
		CatalogPageSize: getInt("CATALOG_PAGE_SIZE", 10),
		SESSION_KEY:     os.Getenv("SESSION_KEY"),
		AppAuthKey:      os.Getenv("APP_AUTH_KEY"),
		AppEncKey:       os.Getenv("APP_ENC_KEY"),
		CSRFKey:         os.Getenv("CSRF_KEY"),
		UploadMaxBytes:  int64(getInt("UPLOAD_MAX_BYTES", 5<<20)),
		UploadTTL:       getDuration("UPLOAD_TTL", 30*time.Minute),
		UploadMaxQueue:  getInt("UPLOAD_MAX_QUEUE", 1000),
	}
}

func (e ENV) IsProduction() bool {
	return e.AppEnv == "production"
}

// Addr accepts APP_PORT as either "8080" or ":8080".
func (e ENV) Addr() string {
	if strings.Contains(e.Port, ":") {
		return e.Port
	}
	return ":" + e.Port
}

// NeedsRedis reports whether any configured component talks to redis.
func (e ENV) NeedsRedis() bool {
	return e.StorageDriver == DriverRedis || e.CatalogCacheTTL > 0
}

func getenv(key, fallback string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return fallback
}

func getInt(key string, fallback int) int {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("LoadEnv: not an integer, using default")
		return fallback
	}
	return v
}

func getDuration(key string, fallback time.Duration) time.Duration {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return fallback
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		log.Warn().Str("key", key).Str("value", raw).Msg("LoadEnv: not a duration, using default")
		return fallback
	}
	return v
}
