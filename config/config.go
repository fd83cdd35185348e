package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/workforce"
)

// Config is the root application configuration.
type Config struct {
	Server   ServerConfig   `yaml:"server"`
	Database DatabaseConfig `yaml:"database"`
	Payroll  PayrollConfig  `yaml:"payroll"`
	Leave    LeaveConfig    `yaml:"leave"`
	CORS     CORSConfig     `yaml:"cors"`
	Log      LogConfig      `yaml:"log"`
}

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Host            string        `yaml:"host"             env:"SERVER_HOST"             env-default:"0.0.0.0"`
	Port            int           `yaml:"port"             env:"SERVER_PORT"             env-default:"8080"`
	ReadTimeout     time.Duration `yaml:"read_timeout"     env:"SERVER_READ_TIMEOUT"     env-default:"10s"`
	WriteTimeout    time.Duration `yaml:"write_timeout"    env:"SERVER_WRITE_TIMEOUT"    env-default:"30s"`
	IdleTimeout     time.Duration `yaml:"idle_timeout"     env:"SERVER_IDLE_TIMEOUT"     env-default:"60s"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" env:"SERVER_SHUTDOWN_TIMEOUT" env-default:"10s"`
}

func (s ServerConfig) Addr() string {
	return fmt.Sprintf("%s:%d", s.Host, s.Port)
}

// DatabaseConfig holds SQLite settings.
type DatabaseConfig struct {
	Path string `yaml:"path" env:"DATABASE_PATH" env-default:"./workforce.db"`
}

// PayrollConfig is the deployment-wide pay rate used by the payroll view.
type PayrollConfig struct {
	HourlyRate         float64 `yaml:"hourly_rate"         env:"PAYROLL_HOURLY_RATE"         env-default:"25.0"`
	OvertimeMultiplier float64 `yaml:"overtime_multiplier" env:"PAYROLL_OVERTIME_MULTIPLIER" env-default:"1.5"`
}

func (p PayrollConfig) Rate() decimal.Decimal {
	return decimal.NewFromFloat(p.HourlyRate)
}

func (p PayrollConfig) Multiplier() decimal.Decimal {
	return decimal.NewFromFloat(p.OvertimeMultiplier)
}

// LeaveConfig holds yearly allocations in days, keyed by leave type
// ("VACATION:15,SICK:10" in the environment).
type LeaveConfig struct {
	Allocations map[string]int `yaml:"allocations" env:"LEAVE_ALLOCATIONS" env-default:"VACATION:15,SICK:10,PERSONAL:5"`
}

// ByType returns the allocations keyed by parsed leave type.
func (l LeaveConfig) ByType() (map[workforce.LeaveType]int, error) {
	out := make(map[workforce.LeaveType]int, len(l.Allocations))
	for k, days := range l.Allocations {
		lt, err := workforce.ParseLeaveType(k)
		if err != nil {
			return nil, err
		}
		out[lt] = days
	}
	return out, nil
}

// CORSConfig holds CORS settings.
type CORSConfig struct {
	AllowedOrigins string `yaml:"allowed_origins" env:"CORS_ALLOWED_ORIGINS" env-default:"*"`
	MaxAge         int    `yaml:"max_age"         env:"CORS_MAX_AGE"         env-default:"300"`
}

// Origins splits AllowedOrigins on commas.
func (c CORSConfig) Origins() []string {
	var out []string
	for _, o := range strings.Split(c.AllowedOrigins, ",") {
		if o = strings.TrimSpace(o); o != "" {
			out = append(out, o)
		}
	}
	return out
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string `yaml:"level"  env:"LOG_LEVEL"  env-default:"info"`
	Format string `yaml:"format" env:"LOG_FORMAT" env-default:"json"`
}
