package shared

import (
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog/log"
)

type Config struct {
	AppEnv      string `validate:"required"`
	LogLevel    string
	HTTPAddr    string `validate:"required"`
	MetricsAddr string
	MySQLDSN    string
	RedisAddr   string
	RedisDB     int `validate:"gte=0"`
	RedisPass   string
	CacheTTL    time.Duration `validate:"gte=0"`

	ShopsCSV         string `validate:"required"`
	ReviewsCSV       string `validate:"required"`
	ReviewsEncoding  string `validate:"oneof=latin-1 utf-8"`
	LexiconPath      string
	Workers          int    `validate:"gte=1,lte=256"`
	ReviewPolicy     string `validate:"oneof=fail skip"`
	VenuePolicy      string `validate:"oneof=fail skip"`
	TopN             int    `validate:"gte=1"`
	ExportPath       string
	Persist          bool
	RateLimitRPS     float64 `validate:"gte=0"`
	BatchMetricsAddr string  // METRICS_ADDR without a default; the analyzer serves metrics only when set
}

func Load() Config {
	atoi := func(k string, def int) int {
		if v := os.Getenv(k); v != "" {
			if n, err := strconv.Atoi(v); err == nil {
				return n
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not an integer; using default")
		}
		return def
	}
	atof := func(k string, def float64) float64 {
		if v := os.Getenv(k); v != "" {
			if f, err := strconv.ParseFloat(v, 64); err == nil {
				return f
			}
			log.Warn().Str("key", k).Str("value", v).Msg("not a number; using default")
		}
		return def
	}
	c := Config{
		AppEnv:      env("APP_ENV", "prod"),
		LogLevel:    env("LOG_LEVEL", "info"),
		HTTPAddr:    env("HTTP_ADDR", ":8080"),
		MetricsAddr: env("METRICS_ADDR", ":9100"),
		MySQLDSN:    env("MYSQL_DSN", "root:root@tcp(localhost:3306)/coffee?parseTime=true&charset=utf8mb4,utf8&loc=UTC"),
		RedisAddr:   env("REDIS_ADDR", "localhost:6379"),
		RedisPass:   env("REDIS_PASSWORD", ""),
		RedisDB:     atoi("REDIS_DB", 0),
		CacheTTL:    time.Duration(atoi("CACHE_TTL_SECONDS", 900)) * time.Second,

		ShopsCSV:         env("SHOPS_CSV", "data/coffee_shops.csv"),
		ReviewsCSV:       env("REVIEWS_CSV", "data/coffee_reviews.csv"),
		ReviewsEncoding:  strings.ToLower(env("REVIEWS_ENCODING", "latin-1")),
		LexiconPath:      env("LEXICON_PATH", ""),
		Workers:          atoi("ANALYSIS_WORKERS", 8),
		ReviewPolicy:     strings.ToLower(env("REVIEW_ERROR_POLICY", "skip")),
		VenuePolicy:      strings.ToLower(env("MISSING_VENUE_POLICY", "skip")),
		TopN:             atoi("RECOMMEND_TOP_N", 3),
		ExportPath:       env("EXPORT_PATH", ""),
		Persist:          env("PERSIST_RESULTS", "false") == "true",
		RateLimitRPS:     atof("RATE_LIMIT_RPS", 50),
		BatchMetricsAddr: os.Getenv("METRICS_ADDR"),
	}
	if c.Persist && c.MySQLDSN == "" {
		log.Warn().Msg("PERSIST_RESULTS is set but MYSQL_DSN is empty")
	}
	return c
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

// Validate reports the first invalid field.
func (c Config) Validate() error {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate.Struct(c)
}

func env(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
