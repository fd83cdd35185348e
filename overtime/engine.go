package overtime

import (
	"context"
	"log/slog"
	"time"

	"github.com/shopspring/decimal"
	"github.com/warp/workforce-engine/generic"
	"github.com/warp/workforce-engine/workforce"
)

// Engine runs the overtime rules against stored entries.
type Engine struct {
	entries  workforce.EntryStore
	projects workforce.ProjectStore
	logger   *slog.Logger
	now      func() time.Time
}

func NewEngine(entries workforce.EntryStore, projects workforce.ProjectStore, logger *slog.Logger) *Engine {
	if logger == nil {
		logger = slog.Default()
	}
	return &Engine{entries: entries, projects: projects, logger: logger, now: time.Now}
}

func (e *Engine) WeeklyOvertime(ctx context.Context, user workforce.UserID, weekStart generic.TimePoint) (WeeklyResult, error) {
	entries, err := e.entries.QueryEntries(ctx, workforce.EntryQuery{UserID: user, Window: generic.WeekWindow(weekStart)})
	if err != nil {
		return WeeklyResult{}, generic.WrapStorage("QueryEntries", err)
	}
	return Weekly(entries, weekStart), nil
}

func (e *Engine) DailyOvertime(ctx context.Context, user workforce.UserID, p generic.Period) ([]DailyResult, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	entries, err := e.load(ctx, user, p)
	if err != nil {
		return nil, err
	}
	return Daily(entries, p), nil
}

func (e *Engine) OvertimePay(ctx context.Context, user workforce.UserID, p generic.Period, rate decimal.Decimal) (PayResult, error) {
	if _, err := p.SpanDays(); err != nil {
		return PayResult{}, err
	}
	entries, err := e.load(ctx, user, p)
	if err != nil {
		return PayResult{}, err
	}
	return Pay(entries, p, rate)
}

func (e *Engine) Summary(ctx context.Context, user workforce.UserID, p generic.Period, rate decimal.Decimal) (Summary, error) {
	if _, err := p.SpanDays(); err != nil {
		return Summary{}, err
	}
	entries, err := e.load(ctx, user, p)
	if err != nil {
		return Summary{}, err
	}
	return Summarize(user, entries, p, rate)
}

func (e *Engine) load(ctx context.Context, user workforce.UserID, p generic.Period) ([]workforce.TimeEntry, error) {
	entries, err := e.entries.QueryEntries(ctx, workforce.EntryQuery{UserID: user, Window: p.Window()})
	if err != nil {
		return nil, generic.WrapStorage("QueryEntries", err)
	}
	return entries, nil
}

// =============================================================================
// RECORD OVERTIME - Command
// =============================================================================

// RecordCommand describes one overtime entry. Start and End are optional;
// when both are set their duration is the entry's hours. Date is only read
// when Start is nil.
type RecordCommand struct {
	UserID      workforce.UserID
	ProjectID   workforce.ProjectID
	Date        generic.TimePoint
	Start       *time.Time
	End         *time.Time
	Hours       decimal.Decimal
	Description string
}

// RecordOvertime writes a billable OVERTIME entry starting at cmd.Start, or
// at the start of cmd.Date. Existing entries are not reclassified.
func (e *Engine) RecordOvertime(ctx context.Context, cmd RecordCommand) (workforce.TimeEntry, error) {
	var start time.Time
	switch {
	case cmd.Start != nil:
		start = cmd.Start.UTC()
	case cmd.End != nil:
		return workforce.TimeEntry{}, &generic.InputError{Field: "start_time", Message: "required with end_time"}
	case cmd.Date.IsZero():
		return workforce.TimeEntry{}, &generic.InputError{Field: "date", Message: "required"}
	default:
		start = cmd.Date.Midnight()
	}

	entry := workforce.TimeEntry{
		ID:          workforce.NewID(),
		UserID:      cmd.UserID,
		ProjectID:   cmd.ProjectID,
		StartTime:   &start,
		HoursWorked: cmd.Hours,
		Billable:    true,
		Description: cmd.Description,
		Type:        workforce.EntryOvertime,
		CreatedAt:   e.now().UTC(),
	}
	if cmd.End != nil {
		end := cmd.End.UTC()
		entry.EndTime = &end
	}
	if err := entry.Validate(); err != nil {
		return workforce.TimeEntry{}, err
	}
	if entry.EndTime != nil && entry.HoursWorked.IsZero() {
		entry.HoursWorked = entry.Hours()
	}
	if !entry.Hours().IsPositive() {
		return workforce.TimeEntry{}, &generic.InputError{Field: "hours", Message: "must be > 0"}
	}
	if _, err := e.projects.GetProject(ctx, cmd.ProjectID); err != nil {
		return workforce.TimeEntry{}, generic.WrapStorage("GetProject", err)
	}

	if err := e.entries.InsertEntry(ctx, entry); err != nil {
		return workforce.TimeEntry{}, generic.WrapStorage("InsertEntry", err)
	}

	e.logger.Info("overtime recorded",
		slog.String("entry_id", entry.ID),
		slog.String("user_id", string(entry.UserID)),
		slog.String("project_id", string(entry.ProjectID)),
		slog.String("hours", entry.Hours().String()))
	return entry, nil
}
