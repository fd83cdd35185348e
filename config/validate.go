package config

import (
	"fmt"
	"strings"
)

// Validate performs business-rule validation on the loaded configuration.
// Load calls it automatically.
func (c *Config) Validate() error {
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("server.port must be in 1..65535 (got %d)", c.Server.Port)
	}
	if strings.TrimSpace(c.Database.Path) == "" {
		return fmt.Errorf("database.path is required")
	}
	if c.Payroll.HourlyRate < 0 {
		return fmt.Errorf("payroll.hourly_rate must be >= 0 (got %v)", c.Payroll.HourlyRate)
	}
	if c.Payroll.OvertimeMultiplier < 1 {
		return fmt.Errorf("payroll.overtime_multiplier must be >= 1 (got %v)", c.Payroll.OvertimeMultiplier)
	}
	if _, err := c.Leave.ByType(); err != nil {
		return fmt.Errorf("leave.allocations: %w", err)
	}
	for k, days := range c.Leave.Allocations {
		if days < 0 {
			return fmt.Errorf("leave.allocations.%s must be >= 0 (got %d)", k, days)
		}
	}
	switch strings.ToLower(c.Log.Format) {
	case "json", "text":
	default:
		return fmt.Errorf("log.format must be json or text (got %q)", c.Log.Format)
	}
	return nil
}
