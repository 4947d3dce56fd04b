package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("DB_PASSWORD", "secret")
	t.Setenv("JWT_SECRET_KEY", "jwt-secret")
	t.Setenv("POLICY_TIMEZONE", "UTC")
}

func TestLoad_Defaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.App.Port)
	assert.Equal(t, time.Minute, cfg.Cron.AutoCheckoutInterval)
	assert.Equal(t, time.Second, cfg.Cron.TimerTick)
	assert.False(t, cfg.GoogleEnabled())

	p, err := cfg.AttendancePolicy()
	require.NoError(t, err)
	assert.Equal(t, time.UTC, p.Location)
	assert.Equal(t, "09:00", p.Weekday.Start.String())
	assert.Equal(t, "17:00", p.Weekday.CountdownTarget.String())
	assert.Equal(t, 15*time.Minute, p.LateGrace)
	assert.Equal(t, 3, p.GraceLateCount)
	assert.True(t, decimal.NewFromFloat(0.5).Equal(p.BlockValue))
	assert.Equal(t, 4*time.Hour, p.OffsetStep)
	assert.Equal(t, "22:00", p.AutoCheckoutAt.String())
	assert.True(t, p.AutoCheckoutEnabled)
	assert.Empty(t, p.WorkingSaturdays)
}

func TestLoad_PolicyOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("POLICY_LATE_GRACE", "10m")
	t.Setenv("POLICY_GRACE_LATE_COUNT", "4")
	t.Setenv("POLICY_BLOCK_VALUE", "1")
	t.Setenv("POLICY_WORKING_SATURDAYS", "1, 3")
	t.Setenv("POLICY_HOLIDAYS", "2025-03-31,2025-04-18")
	t.Setenv("POLICY_AUTO_CHECKOUT_ENABLED", "false")
	t.Setenv("POLICY_WEEKDAY_END", "17:30")

	cfg, err := Load()
	require.NoError(t, err)

	p, err := cfg.AttendancePolicy()
	require.NoError(t, err)
	assert.Equal(t, 10*time.Minute, p.LateGrace)
	assert.Equal(t, 4, p.GraceLateCount)
	assert.True(t, decimal.NewFromInt(1).Equal(p.BlockValue))
	assert.Equal(t, []int{1, 3}, p.WorkingSaturdays)
	assert.Equal(t, []string{"2025-03-31", "2025-04-18"}, p.Holidays)
	assert.False(t, p.AutoCheckoutEnabled)
	assert.Equal(t, 8*time.Hour+30*time.Minute, p.Weekday.FullShift())
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name string
		key  string
		val  string
	}{
		{"bad duration", "POLICY_OFFSET_STEP", "four hours"},
		{"bad count", "POLICY_GRACE_LATE_COUNT", "three"},
		{"zero count", "POLICY_GRACE_LATE_COUNT", "0"},
		{"bad clock", "POLICY_AUTO_CHECKOUT_AT", "25:00"},
		{"bad saturday", "POLICY_WORKING_SATURDAYS", "first"},
		{"bad timezone", "POLICY_TIMEZONE", "Mars/Olympus"},
		{"bad tick", "TIMER_TICK", "0s"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			setRequiredEnv(t)
			t.Setenv(tt.key, tt.val)

			_, err := Load()
			assert.Error(t, err)
		})
	}
}

func TestValidate_MissingSecrets(t *testing.T) {
	t.Setenv("POLICY_TIMEZONE", "UTC")
	t.Setenv("DB_PASSWORD", "")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := Load()
	assert.ErrorContains(t, err, "DB_PASSWORD")
}

func TestDatabaseURL(t *testing.T) {
	c := &Config{Database: DatabaseConfig{
		Host: "db", Port: 5432, User: "u", Password: "p", Name: "attendance", SSLMode: "disable",
	}}
	assert.Equal(t, "postgres://u:p@db:5432/attendance?sslmode=disable", c.DatabaseURL())
}
