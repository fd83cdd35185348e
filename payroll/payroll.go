/*
payroll.go - Payroll computation

PURPOSE:
  Turns logged hours into gross pay at a flat, per-deployment hourly rate.

FORMULAS (per employee, period [start, end]):
  standard = days / 7 x 40
  regular  = min(total, standard)
  overtime = max(0, total - standard)
  gross    = regular x rate + overtime x rate x multiplier

AGGREGATE TOTALS:
  The company-wide baseline is standard x employeeCount, so it scales
  linearly with headcount. Overtime is measured against that baseline.

PROJECT BILLING:
  Billing uses each project's own hourly rate, not the payroll rate.
  Non-billable entries bill 0. See billing.go.

SEE ALSO:
  - export.go: CSV writers
  - service.go: Store-backed entry points
*/
package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// Config holds the deployment's pay parameters.
type Config struct {
	HourlyRate         decimal.Decimal
	OvertimeMultiplier decimal.Decimal
}

// DefaultConfig is 25.00 per hour with overtime at 1.5x.
func DefaultConfig() Config {
	return Config{HourlyRate: decimal.NewFromInt(25), OvertimeMultiplier: generic.OvertimeMultiplier}
}

func (c Config) Validate() error {
	if c.HourlyRate.IsNegative() {
		return &generic.InputError{Field: "hourly_rate", Message: "must be >= 0"}
	}
	if c.OvertimeMultiplier.LessThan(decimal.NewFromInt(1)) {
		return &generic.InputError{Field: "overtime_multiplier", Message: "must be >= 1"}
	}
	return nil
}

// gross prices regular and overtime hours.
func (c Config) gross(regular, overtime decimal.Decimal) (regularPay, overtimePay decimal.Decimal) {
	regularPay = regular.Mul(c.HourlyRate)
	overtimePay = overtime.Mul(c.HourlyRate).Mul(c.OvertimeMultiplier)
	return regularPay, overtimePay
}

// =============================================================================
// PER EMPLOYEE
// =============================================================================

type EmployeePay struct {
	Employee workforce.Employee
	Period   generic.Period

	StandardHours    decimal.Decimal
	TotalHours       decimal.Decimal
	RegularHours     decimal.Decimal
	OvertimeHours    decimal.Decimal
	BillableHours    decimal.Decimal
	NonBillableHours decimal.Decimal

	HourlyRate  decimal.Decimal
	RegularPay  decimal.Decimal
	OvertimePay decimal.Decimal
	GrossPay    decimal.Decimal
}

// ComputeEmployee prices the employee's entries over p. Entries of other
// users are ignored.
func ComputeEmployee(emp workforce.Employee, entries []workforce.TimeEntry, p generic.Period, cfg Config) (EmployeePay, error) {
	days, err := p.SpanDays()
	if err != nil {
		return EmployeePay{}, err
	}
	standard := generic.ProRate(days)
	totals := workforce.AggregatePeriod(workforce.Select(entries, workforce.EntryQuery{UserID: emp.ID}), p)
	regular, overtime := generic.SplitAt(totals.TotalHours, standard)
	regularPay, overtimePay := cfg.gross(regular, overtime)

	return EmployeePay{
		Employee:         emp,
		Period:           p,
		StandardHours:    standard,
		TotalHours:       totals.TotalHours,
		RegularHours:     regular,
		OvertimeHours:    overtime,
		BillableHours:    totals.BillableHours,
		NonBillableHours: totals.NonBillableHours,
		HourlyRate:       cfg.HourlyRate,
		RegularPay:       regularPay,
		OvertimePay:      overtimePay,
		GrossPay:         regularPay.Add(overtimePay),
	}, nil
}

// =============================================================================
// AGGREGATE TOTALS
// =============================================================================

type Totals struct {
	Period        generic.Period
	EmployeeCount int

	StandardHours decimal.Decimal
	TotalHours    decimal.Decimal
	RegularHours  decimal.Decimal
	OvertimeHours decimal.Decimal
	BillableHours decimal.Decimal

	RegularPay  decimal.Decimal
	OvertimePay decimal.Decimal
	GrossPay    decimal.Decimal
}

// ComputeTotals prices all entries in p against a baseline of
// days / 7 x 40 x employeeCount.
func ComputeTotals(entries []workforce.TimeEntry, employeeCount int, p generic.Period, cfg Config) (Totals, error) {
	days, err := p.SpanDays()
	if err != nil {
		return Totals{}, err
	}
	if employeeCount < 0 {
		return Totals{}, &generic.InputError{Field: "employee_count", Message: "must be >= 0"}
	}

	standard := generic.ProRate(days).Mul(decimal.NewFromInt(int64(employeeCount)))
	totals := workforce.AggregatePeriod(entries, p)
	regular, overtime := generic.SplitAt(totals.TotalHours, standard)
	regularPay, overtimePay := cfg.gross(regular, overtime)

	return Totals{
		Period:        p,
		EmployeeCount: employeeCount,
		StandardHours: standard,
		TotalHours:    totals.TotalHours,
		RegularHours:  regular,
		OvertimeHours: overtime,
		BillableHours: totals.BillableHours,
		RegularPay:    regularPay,
		OvertimePay:   overtimePay,
		GrossPay:      regularPay.Add(overtimePay),
	}, nil
}
