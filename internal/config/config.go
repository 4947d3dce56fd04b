package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/joho/godotenv"
	"github.com/shopspring/decimal"
)

type Config struct {
	Database     DatabaseConfig
	JWT          JWTConfig
	App          AppConfig
	OAuth2Google OAuth2GoogleConfig
	Policy       PolicyConfig
	Cron         CronConfig
}

type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Name     string
	SSLMode  string
	MaxConns int32
	MinConns int32
}

// JWTConfig holds JWT configuration
type JWTConfig struct {
	Secret            string
	RefreshExpiration string
	AccessExpiration  string
}

// AppConfig holds application configuration
type AppConfig struct {
	Port           int
	Env            string
	LogLevel       string
	FrontendURL    string
	AllowedOrigins []string
}

type OAuth2GoogleConfig struct {
	ClientID     string
	ClientSecret string
	RedirectURL  string
	Scopes       []string
}

// PolicyConfig holds the raw attendance rule settings.
type PolicyConfig struct {
	Timezone               string
	WeekdayStart           string
	WeekdayEnd             string
	WeekdayTarget          string
	WeekdayHalfDayBelow    time.Duration
	WeekdayAbsentBelow     time.Duration
	SaturdayStart          string
	SaturdayEnd            string
	SaturdayTarget         string
	SaturdayHalfDayBelow   time.Duration
	SaturdayAbsentBelow    time.Duration
	WorkingSaturdays       []int
	Holidays               []string
	LateGrace              time.Duration
	GraceLateCount         int
	BlockValue             string
	OffsetStep             time.Duration
	AutoCheckoutAt         string
	AutoCheckoutEnabled    bool
	LocationMismatchMeters float64
}

// CronConfig holds background job and stream intervals.
type CronConfig struct {
	AutoCheckoutInterval time.Duration
	TimerTick            time.Duration
}

func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Warn("no .env file loaded, using process environment", "error", err)
	}

	config := &Config{}

	// Database configuration
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_PORT: %w", err)
	}

	maxConns, err := strconv.ParseInt(getEnv("DB_MAX_CONNS", "25"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MAX_CONNS: %w", err)
	}
	minConns, err := strconv.ParseInt(getEnv("DB_MIN_CONNS", "5"), 10, 32)
	if err != nil {
		return nil, fmt.Errorf("invalid DB_MIN_CONNS: %w", err)
	}

	config.Database = DatabaseConfig{
		Host:     getEnv("DB_HOST", "localhost"),
		Port:     dbPort,
		User:     getEnv("DB_USER", "postgres"),
		Password: getEnv("DB_PASSWORD", ""),
		Name:     getEnv("DB_NAME", "attendance"),
		SSLMode:  getEnv("DB_SSL_MODE", "disable"),
		MaxConns: int32(maxConns),
		MinConns: int32(minConns),
	}

	// Application configuration
	appPort, err := strconv.Atoi(getEnv("APP_PORT", "8080"))
	if err != nil {
		return nil, fmt.Errorf("invalid APP_PORT: %w", err)
	}

	config.App = AppConfig{
		Port:           appPort,
		Env:            getEnv("APP_ENV", "development"),
		LogLevel:       getEnv("LOG_LEVEL", "info"),
		FrontendURL:    getEnv("FRONTEND_URL", "http://localhost:3000"),
		AllowedOrigins: getEnvSlice("CORS_ALLOWED_ORIGINS"),
	}
	if len(config.App.AllowedOrigins) == 0 {
		config.App.AllowedOrigins = []string{config.App.FrontendURL}
	}

	// JWT configuration
	config.JWT = JWTConfig{
		Secret:            getEnv("JWT_SECRET_KEY", ""),
		RefreshExpiration: getEnv("JWT_REFRESH_EXPIRATION_TIME", "168h"),
		AccessExpiration:  getEnv("JWT_ACCESS_EXPIRATION_TIME", "1h"),
	}

	// OAuth2 Google Configuration
	config.OAuth2Google = OAuth2GoogleConfig{
		ClientID:     getEnv("CLIENT_ID", ""),
		ClientSecret: getEnv("CLIENT_SECRET", ""),
		RedirectURL:  getEnv("REDIRECT_URL", ""),
		Scopes:       getEnvSlice("SCOPES"),
	}

	if config.Policy, err = loadPolicy(); err != nil {
		return nil, err
	}

	// Cron configuration
	autoCheckoutInterval, err := getEnvDuration("CRON_AUTO_CHECKOUT_INTERVAL", time.Minute)
	if err != nil {
		return nil, err
	}
	timerTick, err := getEnvDuration("TIMER_TICK", time.Second)
	if err != nil {
		return nil, err
	}
	config.Cron = CronConfig{
		AutoCheckoutInterval: autoCheckoutInterval,
		TimerTick:            timerTick,
	}

	// Validate required fields
	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return config, nil
}

func loadPolicy() (PolicyConfig, error) {
	def := policy.DefaultConfig()
	p := PolicyConfig{
		Timezone:       getEnv("POLICY_TIMEZONE", "Asia/Jakarta"),
		WeekdayStart:   getEnv("POLICY_WEEKDAY_START", def.Weekday.Start.String()),
		WeekdayEnd:     getEnv("POLICY_WEEKDAY_END", def.Weekday.End.String()),
		WeekdayTarget:  getEnv("POLICY_WEEKDAY_TARGET", def.Weekday.CountdownTarget.String()),
		SaturdayStart:  getEnv("POLICY_SATURDAY_START", def.Saturday.Start.String()),
		SaturdayEnd:    getEnv("POLICY_SATURDAY_END", def.Saturday.End.String()),
		SaturdayTarget: getEnv("POLICY_SATURDAY_TARGET", def.Saturday.CountdownTarget.String()),
		Holidays:       getEnvSlice("POLICY_HOLIDAYS"),
		BlockValue:     getEnv("POLICY_BLOCK_VALUE", def.BlockValue.String()),
		AutoCheckoutAt: getEnv("POLICY_AUTO_CHECKOUT_AT", def.AutoCheckoutAt.String()),
	}

	var err error
	durations := []struct {
		key  string
		def  time.Duration
		dest *time.Duration
	}{
		{"POLICY_WEEKDAY_HALF_DAY_BELOW", def.Weekday.HalfDayBelow, &p.WeekdayHalfDayBelow},
		{"POLICY_WEEKDAY_ABSENT_BELOW", def.Weekday.AbsentBelow, &p.WeekdayAbsentBelow},
		{"POLICY_SATURDAY_HALF_DAY_BELOW", def.Saturday.HalfDayBelow, &p.SaturdayHalfDayBelow},
		{"POLICY_SATURDAY_ABSENT_BELOW", def.Saturday.AbsentBelow, &p.SaturdayAbsentBelow},
		{"POLICY_LATE_GRACE", def.LateGrace, &p.LateGrace},
		{"POLICY_OFFSET_STEP", def.OffsetStep, &p.OffsetStep},
	}
	for _, d := range durations {
		if *d.dest, err = getEnvDuration(d.key, d.def); err != nil {
			return PolicyConfig{}, err
		}
	}

	if p.GraceLateCount, err = strconv.Atoi(getEnv("POLICY_GRACE_LATE_COUNT", strconv.Itoa(def.GraceLateCount))); err != nil {
		return PolicyConfig{}, fmt.Errorf("invalid POLICY_GRACE_LATE_COUNT: %w", err)
	}
	if p.AutoCheckoutEnabled, err = strconv.ParseBool(getEnv("POLICY_AUTO_CHECKOUT_ENABLED", "true")); err != nil {
		return PolicyConfig{}, fmt.Errorf("invalid POLICY_AUTO_CHECKOUT_ENABLED: %w", err)
	}
	if p.LocationMismatchMeters, err = strconv.ParseFloat(getEnv("POLICY_LOCATION_MISMATCH_METERS", "500"), 64); err != nil {
		return PolicyConfig{}, fmt.Errorf("invalid POLICY_LOCATION_MISMATCH_METERS: %w", err)
	}
	for _, s := range getEnvSlice("POLICY_WORKING_SATURDAYS") {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil {
			return PolicyConfig{}, fmt.Errorf("invalid POLICY_WORKING_SATURDAYS: %w", err)
		}
		p.WorkingSaturdays = append(p.WorkingSaturdays, n)
	}

	return p, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.Database.Password == "" {
		return fmt.Errorf("DB_PASSWORD is required")
	}
	if c.JWT.Secret == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if c.Cron.AutoCheckoutInterval <= 0 {
		return fmt.Errorf("CRON_AUTO_CHECKOUT_INTERVAL must be positive")
	}
	if c.Cron.TimerTick <= 0 {
		return fmt.Errorf("TIMER_TICK must be positive")
	}
	if _, err := c.AttendancePolicy(); err != nil {
		return err
	}
	return nil
}

// GoogleEnabled reports whether Google sign-in is configured.
func (c *Config) GoogleEnabled() bool {
	return c.OAuth2Google.ClientID != "" && c.OAuth2Google.ClientSecret != "" && c.OAuth2Google.RedirectURL != ""
}

// AttendancePolicy builds the evaluator configuration from the policy section.
func (c *Config) AttendancePolicy() (policy.Config, error) {
	p := c.Policy
	cfg := policy.DefaultConfig()

	loc, err := time.LoadLocation(p.Timezone)
	if err != nil {
		return policy.Config{}, fmt.Errorf("invalid POLICY_TIMEZONE: %w", err)
	}
	cfg.Location = loc

	clocks := []struct {
		key  string
		raw  string
		dest *policy.Clock
	}{
		{"POLICY_WEEKDAY_START", p.WeekdayStart, &cfg.Weekday.Start},
		{"POLICY_WEEKDAY_END", p.WeekdayEnd, &cfg.Weekday.End},
		{"POLICY_WEEKDAY_TARGET", p.WeekdayTarget, &cfg.Weekday.CountdownTarget},
		{"POLICY_SATURDAY_START", p.SaturdayStart, &cfg.Saturday.Start},
		{"POLICY_SATURDAY_END", p.SaturdayEnd, &cfg.Saturday.End},
		{"POLICY_SATURDAY_TARGET", p.SaturdayTarget, &cfg.Saturday.CountdownTarget},
		{"POLICY_AUTO_CHECKOUT_AT", p.AutoCheckoutAt, &cfg.AutoCheckoutAt},
	}
	for _, cl := range clocks {
		if *cl.dest, err = policy.ParseClock(cl.raw); err != nil {
			return policy.Config{}, fmt.Errorf("invalid %s: %w", cl.key, err)
		}
	}

	if cfg.BlockValue, err = decimal.NewFromString(p.BlockValue); err != nil {
		return policy.Config{}, fmt.Errorf("invalid POLICY_BLOCK_VALUE: %w", err)
	}

	cfg.Weekday.HalfDayBelow = p.WeekdayHalfDayBelow
	cfg.Weekday.AbsentBelow = p.WeekdayAbsentBelow
	cfg.Saturday.HalfDayBelow = p.SaturdayHalfDayBelow
	cfg.Saturday.AbsentBelow = p.SaturdayAbsentBelow
	cfg.WorkingSaturdays = p.WorkingSaturdays
	cfg.Holidays = p.Holidays
	cfg.LateGrace = p.LateGrace
	cfg.GraceLateCount = p.GraceLateCount
	cfg.OffsetStep = p.OffsetStep
	cfg.AutoCheckoutEnabled = p.AutoCheckoutEnabled
	cfg.LocationMismatchMeters = p.LocationMismatchMeters

	if err := cfg.Validate(); err != nil {
		return policy.Config{}, err
	}
	return cfg, nil
}

// DatabaseURL returns the PostgreSQL connection string
func (c *Config) DatabaseURL() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%d/%s?sslmode=%s",
		c.Database.User,
		c.Database.Password,
		c.Database.Host,
		c.Database.Port,
		c.Database.Name,
		c.Database.SSLMode,
	)
}

func getEnv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) (time.Duration, error) {
	value := os.Getenv(key)
	if value == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func getEnvSlice(env string) []string {
	value := getEnv(env, "")
	if value == "" {
		return []string{}
	}
	var result []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			result = append(result, part)
		}
	}
	return result
}
