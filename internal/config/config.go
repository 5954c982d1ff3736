package config

import (
	"log"
	"os"
	"strconv"
	"strings"
)

// Значения AUTH_MODE
const (
	AuthModeNone = "none"
	AuthModeDev  = "dev"
)

// ScoringConfig — параметры движка оценки
type ScoringConfig struct {
	PenaltyProfile string // reduced | strict
	Strategy       string // runner-focused | general | meal-level
	// NoFoodLogsPenalty переопределяет значение профиля штрафов, если задан
	NoFoodLogsPenalty *float64
	StreakMinScore    int
	HydrationMlPerKg  int
}

// CacheConfig — кэш оценок в Redis
type CacheConfig struct {
	RedisURL        string
	ScoreTTLSeconds int
}

// Enabled сообщает, настроен ли Redis
func (c CacheConfig) Enabled() bool {
	return strings.TrimSpace(c.RedisURL) != ""
}

// Config содержит конфигурацию приложения
type Config struct {
	Env      string // local | staging | prod
	Port     int
	LogLevel string

	// Database
	DatabaseURL       string // runtime connection (resolved: pooled > url > direct)
	DatabaseURLPooled string
	DatabaseURLRaw    string // DATABASE_URL as set
	DatabaseURLDirect string // for migrations / DDL (may be empty)

	// CORS
	CORSAllowedOrigins   []string
	CORSAllowCredentials bool

	// Rate Limiting
	RateLimitRPS   int
	RateLimitBurst int

	Blob BlobConfig

	// Reports
	ReportsMaxRangeDays int

	// Water
	IntakesMaxWaterMlPerDay int

	Scoring ScoringConfig
	Cache   CacheConfig

	// Authentication
	AuthMode      string // none | dev
	AuthRequired  bool
	JWTSecret     string
	JWTIssuer     string
	JWTTTLMinutes int

	// Migrations
	RunMigrationsOnStartup bool
}

// Load загружает конфигурацию из переменных окружения
func Load() *Config {
	// APP_ENV (fallback to ENV, default: local)
	env := os.Getenv("APP_ENV")
	if env == "" {
		env = os.Getenv("ENV")
	}
	if env == "" {
		env = "local"
	}

	logLevel := os.Getenv("LOG_LEVEL")
	if logLevel == "" {
		logLevel = "debug"
	}

	// ---------- Database ----------
	// Priority: DATABASE_URL_POOLED > DATABASE_URL > DATABASE_URL_DIRECT
	dbPooled := strings.TrimSpace(os.Getenv("DATABASE_URL_POOLED"))
	dbRaw := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	dbDirect := strings.TrimSpace(os.Getenv("DATABASE_URL_DIRECT"))
	runtimeDB := firstNonEmpty(dbPooled, dbRaw, dbDirect)

	// ---------- Auth ----------
	authMode := strings.ToLower(strings.TrimSpace(os.Getenv("AUTH_MODE")))
	if authMode == "" {
		authMode = AuthModeNone
	}
	if authMode != AuthModeNone && authMode != AuthModeDev {
		log.Printf("WARNING: unknown AUTH_MODE=%q, fallback to none", authMode)
		authMode = AuthModeNone
	}

	jwtSecret := os.Getenv("JWT_SECRET")
	if jwtSecret == "" {
		jwtSecret = "change_me"
	}
	if jwtSecret == "change_me" && env != "local" {
		log.Println("WARNING: JWT_SECRET is set to 'change_me' in non-local environment!")
	}
	jwtIssuer := os.Getenv("JWT_ISSUER")
	if jwtIssuer == "" {
		jwtIssuer = "fuel-score"
	}

	// ---------- Scoring ----------
	penaltyProfile := parseEnum("SCORING_PENALTY_PROFILE", "reduced", "reduced", "strict")
	strategy := parseEnum("SCORING_STRATEGY", "runner-focused", "runner-focused", "general", "meal-level")

	var noFoodLogsPenalty *float64
	if raw := strings.TrimSpace(os.Getenv("SCORING_NO_FOOD_LOGS_PENALTY")); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		switch {
		case err != nil:
			log.Printf("WARNING: invalid SCORING_NO_FOOD_LOGS_PENALTY=%q, using profile value", raw)
		case v > 0:
			// штраф задаётся положительным числом для удобства
			v = -v
			noFoodLogsPenalty = &v
		default:
			noFoodLogsPenalty = &v
		}
	}

	scoreTTL := envInt("SCORE_CACHE_TTL_SECONDS", 900)
	if scoreTTL <= 0 {
		scoreTTL = 900
	}

	return &Config{
		Env:               env,
		Port:              envInt("PORT", 8080),
		LogLevel:          logLevel,
		DatabaseURL:       runtimeDB,
		DatabaseURLPooled: dbPooled,
		DatabaseURLRaw:    dbRaw,
		DatabaseURLDirect: dbDirect,

		CORSAllowedOrigins:   parseCORSOrigins(os.Getenv("CORS_ALLOWED_ORIGINS"), env),
		CORSAllowCredentials: os.Getenv("CORS_ALLOW_CREDENTIALS") == "1",

		RateLimitRPS:   envInt("RATE_LIMIT_RPS", 0),
		RateLimitBurst: envInt("RATE_LIMIT_BURST", 0),

		Blob: loadBlobConfig(),

		ReportsMaxRangeDays:     envInt("REPORTS_MAX_RANGE_DAYS", 90),
		IntakesMaxWaterMlPerDay: envInt("INTAKES_MAX_WATER_ML_PER_DAY", 8000),

		Scoring: ScoringConfig{
			PenaltyProfile:    penaltyProfile,
			Strategy:          strategy,
			NoFoodLogsPenalty: noFoodLogsPenalty,
			StreakMinScore:    envInt("STREAK_MIN_SCORE", 75),
			HydrationMlPerKg:  envInt("HYDRATION_ML_PER_KG", 35),
		},
		Cache: CacheConfig{
			RedisURL:        strings.TrimSpace(os.Getenv("REDIS_URL")),
			ScoreTTLSeconds: scoreTTL,
		},

		AuthMode:      authMode,
		AuthRequired:  authMode != AuthModeNone && parseBoolEnv("AUTH_REQUIRED"),
		JWTSecret:     jwtSecret,
		JWTIssuer:     jwtIssuer,
		JWTTTLMinutes: envInt("JWT_TTL_MINUTES", 10080),

		RunMigrationsOnStartup: parseBoolEnv("RUN_MIGRATIONS_ON_STARTUP"),
	}
}

// parseCORSOrigins parses CORS_ALLOWED_ORIGINS env var.
// In local mode, defaults to localhost origins if empty.
func parseCORSOrigins(raw, env string) []string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		if env == "local" {
			return []string{"http://localhost:3000", "http://localhost:8081"}
		}
		return nil // prod: deny by default
	}

	parts := strings.Split(raw, ",")
	origins := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			origins = append(origins, p)
		}
	}
	return origins
}

// parseEnum reads key and falls back to defaultVal on unknown values.
func parseEnum(key, defaultVal string, allowed ...string) string {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	if v == "" {
		return defaultVal
	}
	for _, a := range allowed {
		if v == a {
			return v
		}
	}
	log.Printf("WARNING: unknown %s=%q, fallback to %s", key, v, defaultVal)
	return defaultVal
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}

// envInt reads an int env var with a default value.
func envInt(key string, defaultVal int) int {
	s := os.Getenv(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func parseBoolEnv(key string) bool {
	v := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
	return v == "1" || v == "true" || v == "yes" || v == "on"
}
