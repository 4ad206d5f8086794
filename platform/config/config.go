package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/DedS3t/minopolis/platform/engine"
	_ "github.com/joho/godotenv/autoload"
)

type Config struct {
	Port      string
	LogLevel  string
	JWTSecret string
	AdminKey  string

	DB       Postgres
	RedisURL string

	BoardFile    string
	DeckFile     string
	TurnTimeout  time.Duration
	SweepEvery   time.Duration
	SnapshotTTL  time.Duration
	CleanupAfter time.Duration
	Rules        engine.Rules
}

type Postgres struct {
	User     string
	Password string
	Addr     string
	Name     string
}

// Load reads the environment, after .env has been applied.
func Load() (*Config, error) {
	cfg := &Config{
		Port:      getenv("PORT", "4101"),
		LogLevel:  getenv("LOG_LEVEL", "info"),
		JWTSecret: os.Getenv("JWT_SECRET"),
		AdminKey:  os.Getenv("ADMIN_KEY"),
		DB: Postgres{
			User:     os.Getenv("DB_USER"),
			Password: os.Getenv("DB_PASSWORD"),
			Addr:     getenv("DB_ADDR", "localhost:5432"),
			Name:     os.Getenv("DB_NAME"),
		},
		RedisURL:  getenv("REDIS_URL", "localhost:6379"),
		BoardFile: os.Getenv("BOARD_FILE"),
		DeckFile:  os.Getenv("DECK_FILE"),
		Rules:     engine.DefaultRules(),
	}
	if cfg.JWTSecret == "" {
		return nil, fmt.Errorf("JWT_SECRET is required")
	}

	var err error
	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"TURN_TIMEOUT", 2 * time.Minute, &cfg.TurnTimeout},
		{"SWEEP_EVERY", 15 * time.Second, &cfg.SweepEvery},
		{"SNAPSHOT_TTL", 24 * time.Hour, &cfg.SnapshotTTL},
		{"CLEANUP_AFTER", 48 * time.Hour, &cfg.CleanupAfter},
	}
	for _, d := range durations {
		if *d.dest, err = durationEnv(d.key, d.def); err != nil {
			return nil, err
		}
	}

	ints := []struct {
		key  string
		dest *int
	}{
		{"RULE_STARTING_CASH", &cfg.Rules.StartingCash},
		{"RULE_PASS_GO", &cfg.Rules.PassGoAmount},
		{"RULE_JAIL_FINE", &cfg.Rules.JailFine},
		{"RULE_MAX_JAIL_ATTEMPTS", &cfg.Rules.MaxJailAttempts},
		{"RULE_MAX_DOUBLES", &cfg.Rules.MaxDoubles},
		{"RULE_AUCTION_MIN_INCREMENT", &cfg.Rules.AuctionMinIncrement},
		{"RULE_MORTGAGE_INTEREST", &cfg.Rules.MortgageInterestPercent},
		{"RULE_MIN_PLAYERS", &cfg.Rules.MinPlayers},
		{"RULE_MAX_PLAYERS", &cfg.Rules.MaxPlayers},
	}
	for _, i := range ints {
		if err := intEnv(i.key, i.dest); err != nil {
			return nil, err
		}
	}
	if err := intListEnv("RULE_RAILROAD_RENT", &cfg.Rules.RailroadRent); err != nil {
		return nil, err
	}
	if err := intListEnv("RULE_UTILITY_MULTIPLIERS", &cfg.Rules.UtilityMultipliers); err != nil {
		return nil, err
	}
	if err := cfg.Rules.Validate(); err != nil {
		return nil, fmt.Errorf("rules: %w", err)
	}
	return cfg, nil
}

func getenv(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func durationEnv(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func intEnv(key string, dest *int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return fmt.Errorf("%s: %w", key, err)
	}
	*dest = n
	return nil
}

// intListEnv parses a comma separated list such as "25,50,100,200".
func intListEnv(key string, dest *[]int) error {
	v := os.Getenv(key)
	if v == "" {
		return nil
	}
	var out []int
	for _, part := range strings.Split(v, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return fmt.Errorf("%s: %w", key, err)
		}
		out = append(out, n)
	}
	*dest = out
	return nil
}
