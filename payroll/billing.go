package payroll

import (
	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// BillingLine is one time entry priced at its project's rate.
type BillingLine struct {
	EntryID      string
	Date         generic.TimePoint
	UserID       workforce.UserID
	EmployeeName string
	Hours        decimal.Decimal
	Billable     bool
	Description  string
	Amount       decimal.Decimal
}

type BillingStatement struct {
	Project       workforce.Project
	Period        generic.Period
	Lines         []BillingLine
	TotalHours    decimal.Decimal
	BillableHours decimal.Decimal
	TotalAmount   decimal.Decimal
}

// Bill prices the project's entries in p, in the order given. names maps
// users to display names; unknown users are shown by id.
func Bill(project workforce.Project, entries []workforce.TimeEntry, names map[workforce.UserID]string, p generic.Period) BillingStatement {
	st := BillingStatement{Project: project, Period: p}
	window := p.Window()

	for _, e := range entries {
		if e.ProjectID != project.ID || !window.Contains(e.WorkedAt()) {
			continue
		}
		hours := e.Hours()
		amount := decimal.Zero
		if e.Billable {
			amount = hours.Mul(project.HourlyRate)
			st.BillableHours = st.BillableHours.Add(hours)
		}
		name, ok := names[e.UserID]
		if !ok {
			name = string(e.UserID)
		}
		st.Lines = append(st.Lines, BillingLine{
			EntryID:      e.ID,
			Date:         e.WorkDate(),
			UserID:       e.UserID,
			EmployeeName: name,
			Hours:        hours,
			Billable:     e.Billable,
			Description:  e.Description,
			Amount:       amount,
		})
		st.TotalHours = st.TotalHours.Add(hours)
		st.TotalAmount = st.TotalAmount.Add(amount)
	}
	return st
}
