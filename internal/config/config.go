package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"

	"github.com/spec-kit/devops-automation/internal/domain"
)

// Config aggregates runtime configuration for the service.
type Config struct {
	App      AppConfig
	Redmine  RedmineConfig
	Ollama   OllamaConfig
	Hours    BusinessHoursConfig
	Team     TeamConfig
	Batch    BatchConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Logger   LoggerConfig
	TestMode bool
}

// AppConfig controls server level behavior.
type AppConfig struct {
	Name                  string
	Host                  string
	Port                  string
	Version               string
	RequestTimeoutSeconds int
}

// RedmineConfig holds ticket tracker connection values.
type RedmineConfig struct {
	BaseURL        string
	APIKey         string
	ProjectID      int
	TeamGroupID    int
	TimeoutSeconds int
	FetchLimit     int
}

// OllamaConfig holds AI backend connection values.
type OllamaConfig struct {
	BaseURL        string
	Model          string
	TimeoutSeconds int
}

// BusinessHoursConfig defines the advisory local-time window.
type BusinessHoursConfig struct {
	StartHour    int
	EndHour      int
	Timezone     string
	WeekdaysOnly bool
}

// TeamConfig carries the static responder roster and priority policy inputs.
type TeamConfig struct {
	L1                 []domain.TeamMember
	L2                 []domain.TeamMember
	ProductionAliases  []string
	DefaultL1MaxTicket int
}

// BatchConfig tunes batch processing behavior.
type BatchConfig struct {
	AIWorkers int
}

// PostgresConfig holds optional audit store connection values.
type PostgresConfig struct {
	DSN            string
	MaxConns       int32
	MinConns       int32
	RunMigrations  bool
	ConnMaxIdleSec int32
	ConnMaxLifeSec int32
}

// RedisConfig holds optional Redis connection values.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// LoggerConfig configures logging behavior.
type LoggerConfig struct {
	Level string
}

// rosterEntry is the wire shape accepted from TEAM_L1_MEMBERS/TEAM_L2_MEMBERS.
type rosterEntry struct {
	UserID     int    `json:"user_id"`
	Name       string `json:"name"`
	MaxTickets int    `json:"max_tickets"`
}

var defaultL1 = []domain.TeamMember{
	{ID: 1239, Name: "Priya Raman", Tier: domain.TierL1, MaxTickets: 5},
	{ID: 1330, Name: "Daniel Okafor", Tier: domain.TierL1, MaxTickets: 5},
	{ID: 1329, Name: "Meera Shetty", Tier: domain.TierL1, MaxTickets: 5},
	{ID: 1328, Name: "Tomasz Kowalski", Tier: domain.TierL1, MaxTickets: 5},
	{ID: 1327, Name: "Aisha Rahman", Tier: domain.TierL1, MaxTickets: 5},
	{ID: 1155, Name: "Victor Almeida", Tier: domain.TierL1, MaxTickets: 5},
	{ID: 1795, Name: "Hana Svobodova", Tier: domain.TierL1, MaxTickets: 5},
}

var defaultL2 = []domain.TeamMember{
	{ID: 21, Name: "Arjun Nair", Tier: domain.TierL2},
	{ID: 155, Name: "Elif Demir", Tier: domain.TierL2},
	{ID: 11, Name: "Marcus Lindqvist", Tier: domain.TierL2},
	{ID: 10, Name: "Grace Mwangi", Tier: domain.TierL2},
}

var defaultProductionAliases = []string{"production", "prod", "live"}

// Load reads configuration from environment variables, applying defaults
// where possible.
func Load() (*Config, error) {
	_ = godotenv.Load()

	redisDB, err := strconv.Atoi(getEnv("REDIS_DB", "0"))
	if err != nil {
		return nil, fmt.Errorf("invalid REDIS_DB: %w", err)
	}

	l1, err := loadRoster("TEAM_L1_MEMBERS", domain.TierL1, defaultL1)
	if err != nil {
		return nil, err
	}
	l2, err := loadRoster("TEAM_L2_MEMBERS", domain.TierL2, defaultL2)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		App: AppConfig{
			Name:                  getEnv("APP_NAME", "devops-automation"),
			Host:                  getEnv("APP_HOST", "0.0.0.0"),
			Port:                  getEnv("APP_PORT", "8000"),
			Version:               getEnv("APP_VERSION", "dev"),
			RequestTimeoutSeconds: getEnvAsInt("HTTP_REQUEST_TIMEOUT_SECONDS", 120),
		},
		Redmine: RedmineConfig{
			BaseURL:        getEnv("REDMINE_BASE_URL", "http://localhost:3000"),
			APIKey:         os.Getenv("REDMINE_API_KEY"),
			ProjectID:      getEnvAsInt("DEVOPS_PROJECT_ID", 1),
			TeamGroupID:    getEnvAsInt("DEVOPS_TEAM_GROUP_ID", 6),
			TimeoutSeconds: getEnvAsInt("REDMINE_TIMEOUT_SECONDS", 10),
			FetchLimit:     getEnvAsInt("REDMINE_FETCH_LIMIT", 50),
		},
		Ollama: OllamaConfig{
			BaseURL:        getEnv("OLLAMA_BASE_URL", "http://localhost:11434"),
			Model:          getEnv("OLLAMA_MODEL", "llama3.2:3b"),
			TimeoutSeconds: getEnvAsInt("OLLAMA_TIMEOUT", 90),
		},
		Hours: BusinessHoursConfig{
			StartHour:    getEnvAsInt("BUSINESS_START_HOUR", 9),
			EndHour:      getEnvAsInt("BUSINESS_END_HOUR", 18),
			Timezone:     getEnv("TIMEZONE", "Asia/Kolkata"),
			WeekdaysOnly: getEnvAsBool("BUSINESS_WEEKDAYS_ONLY", false),
		},
		Team: TeamConfig{
			L1:                 l1,
			L2:                 l2,
			ProductionAliases:  getEnvAsList("CRITICAL_ENVIRONMENTS", defaultProductionAliases),
			DefaultL1MaxTicket: getEnvAsInt("TEAM_L1_MAX_TICKETS", 5),
		},
		Batch: BatchConfig{
			AIWorkers: getEnvAsInt("BATCH_AI_WORKERS", 3),
		},
		Postgres: PostgresConfig{
			DSN:            os.Getenv("POSTGRES_DSN"),
			MaxConns:       int32(getEnvAsInt("POSTGRES_MAX_CONNS", 10)),
			MinConns:       int32(getEnvAsInt("POSTGRES_MIN_CONNS", 2)),
			RunMigrations:  getEnvAsBool("POSTGRES_RUN_MIGRATIONS", true),
			ConnMaxIdleSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_IDLE_SECONDS", 30)),
			ConnMaxLifeSec: int32(getEnvAsInt("POSTGRES_CONN_MAX_LIFE_SECONDS", 300)),
		},
		Redis: RedisConfig{
			Addr:     os.Getenv("REDIS_ADDR"),
			Password: os.Getenv("REDIS_PASSWORD"),
			DB:       redisDB,
		},
		Logger: LoggerConfig{
			Level: getEnv("LOG_LEVEL", "info"),
		},
		// Test mode is the safe default; live processing is an explicit opt-in.
		TestMode: getEnvAsBool("TEST_MODE", true),
	}

	return cfg, nil
}

// InitialMode returns the mode the process starts in.
func (c *Config) InitialMode() domain.Mode {
	if c.TestMode {
		return domain.ModeTest
	}
	return domain.ModeProduction
}

// Addr returns the HTTP bind address.
func (a AppConfig) Addr() string {
	return fmt.Sprintf("%s:%s", a.Host, a.Port)
}

// RequestTimeout returns the configured request timeout duration.
func (a AppConfig) RequestTimeout() time.Duration {
	if a.RequestTimeoutSeconds <= 0 {
		return 0
	}
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

// Timeout returns the tracker request timeout duration.
func (r RedmineConfig) Timeout() time.Duration {
	return time.Duration(r.TimeoutSeconds) * time.Second
}

// Timeout returns the AI request timeout duration.
func (o OllamaConfig) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}

// MemberIDs returns all roster member ids in roster order, L1 first.
func (t TeamConfig) MemberIDs() []int {
	ids := make([]int, 0, len(t.L1)+len(t.L2))
	for _, m := range t.L1 {
		ids = append(ids, m.ID)
	}
	for _, m := range t.L2 {
		ids = append(ids, m.ID)
	}
	return ids
}

// Empty reports whether both tiers are unstaffed.
func (t TeamConfig) Empty() bool {
	return len(t.L1) == 0 && len(t.L2) == 0
}

// loadRoster parses a JSON roster env var, validating each entry. Malformed
// rosters are rejected at startup rather than propagated into assignment.
func loadRoster(key string, tier domain.Tier, fallback []domain.TeamMember) ([]domain.TeamMember, error) {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback, nil
	}

	var entries []rosterEntry
	if err := json.Unmarshal([]byte(raw), &entries); err != nil {
		return nil, fmt.Errorf("invalid %s: %w", key, err)
	}

	seen := make(map[int]bool, len(entries))
	members := make([]domain.TeamMember, 0, len(entries))
	for i, entry := range entries {
		if entry.UserID <= 0 {
			return nil, fmt.Errorf("invalid %s: entry %d has non-positive user_id", key, i)
		}
		if entry.Name == "" {
			return nil, fmt.Errorf("invalid %s: entry %d has empty name", key, i)
		}
		if seen[entry.UserID] {
			return nil, fmt.Errorf("invalid %s: duplicate user_id %d", key, entry.UserID)
		}
		if tier == domain.TierL1 && entry.MaxTickets <= 0 {
			return nil, fmt.Errorf("invalid %s: entry %d requires positive max_tickets", key, i)
		}
		seen[entry.UserID] = true

		maxTickets := entry.MaxTickets
		if tier == domain.TierL2 {
			maxTickets = 0
		}
		members = append(members, domain.TeamMember{
			ID:         entry.UserID,
			Name:       entry.Name,
			Tier:       tier,
			MaxTickets: maxTickets,
		})
	}
	return members, nil
}

func getEnv(key, fallback string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return fallback
}

func getEnvAsInt(key string, fallback int) int {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.Atoi(val)
	if err != nil {
		return fallback
	}
	return parsed
}

func getEnvAsList(key string, fallback []string) []string {
	raw := os.Getenv(key)
	if raw == "" {
		return fallback
	}
	var values []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			values = append(values, part)
		}
	}
	if len(values) == 0 {
		return fallback
	}
	return values
}

func getEnvAsBool(key string, fallback bool) bool {
	val := os.Getenv(key)
	if val == "" {
		return fallback
	}
	parsed, err := strconv.ParseBool(val)
	if err != nil {
		return fallback
	}
	return parsed
}
