package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds runtime configuration values for the API service.
type Config struct {
	AppName           string
	AppEnv            string
	AppPort           string
	DatabaseURL       string
	RedisURL          string
	JWTSecret         string
	DashboardCacheTTL time.Duration
	SchedulerEnabled  bool
	OwnerUserID       uint
	AdminUserIDs      []uint
	AIProvider        string
	OpenAIAPIKey      string
	OpenAIModel       string
	PublishTimeout    time.Duration
}

// HTTPAddress returns the address the HTTP server should listen on.
func (c Config) HTTPAddress() string {
	if strings.HasPrefix(c.AppPort, ":") {
		return c.AppPort
	}

	return fmt.Sprintf(":%s", c.AppPort)
}

// Load reads configuration values from environment variables and optional .env file.
func Load() (Config, error) {
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("AUTOSEO")
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	v.SetDefault("app.name", "Autoseo API")
	v.SetDefault("app.env", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("dashboard.cache_ttl", "1m")
	v.SetDefault("scheduler.enabled", true)
	v.SetDefault("publish_timeout_ms", 30000)
	v.SetDefault("ai.provider", "none")
	v.SetDefault("openai_model", "gpt-4o-mini")

	ttlString := v.GetString("dashboard.cache_ttl")
	if ttlString == "" {
		ttlString = "1m"
	}

	ttl, err := time.ParseDuration(ttlString)
	if err != nil {
		return Config{}, fmt.Errorf("invalid dashboard cache ttl: %w", err)
	}

	timeoutMs := v.GetInt("publish_timeout_ms")
	if timeoutMs <= 0 {
		timeoutMs = 30000
	}

	cfg := Config{
		AppName:           v.GetString("app.name"),
		AppEnv:            v.GetString("app.env"),
		AppPort:           v.GetString("app.port"),
		DatabaseURL:       v.GetString("database.url"),
		RedisURL:          v.GetString("redis.url"),
		JWTSecret:         v.GetString("jwt.secret"),
		DashboardCacheTTL: ttl,
		SchedulerEnabled:  v.GetBool("scheduler.enabled"),
		OwnerUserID:       parseUserID(v.GetString("owner_user_id")),
		AdminUserIDs:      parseUserIDList(v.GetString("admin_user_ids")),
		AIProvider:        strings.ToLower(v.GetString("ai.provider")),
		OpenAIAPIKey:      v.GetString("openai_api_key"),
		OpenAIModel:       v.GetString("openai_model"),
		PublishTimeout:    time.Duration(timeoutMs) * time.Millisecond,
	}

	if cfg.JWTSecret == "" {
		return Config{}, fmt.Errorf("jwt secret must be provided")
	}

	return cfg, nil
}

func parseUserID(raw string) uint {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return 0
	}
	parsed, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0
	}
	return uint(parsed)
}

func parseUserIDList(raw string) []uint {
	parts := strings.Split(raw, ",")
	ids := make([]uint, 0, len(parts))
	for _, part := range parts {
		if id := parseUserID(part); id != 0 {
			ids = append(ids, id)
		}
	}
	return ids
}
