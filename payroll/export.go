package payroll

import (
	"bufio"
	"io"
	"strings"
)

var (
	payrollHeader = "Employee ID,Employee Name,Regular Hours,Overtime Hours,Total Hours," +
		"Billable Hours,Non-Billable Hours,Gross Pay,Period Start,Period End"
	billingHeader = "Date,Employee Name,Hours Worked,Billable,Description,Amount"
)

// WritePayrollCSV renders one row per employee. Numbers have two decimals and
// the employee name is always quoted.
func WritePayrollCSV(w io.Writer, rows []EmployeePay) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(payrollHeader + "\n")
	for _, r := range rows {
		fields := []string{
			string(r.Employee.ID),
			quote(r.Employee.Name),
			r.RegularHours.StringFixed(2),
			r.OvertimeHours.StringFixed(2),
			r.TotalHours.StringFixed(2),
			r.BillableHours.StringFixed(2),
			r.NonBillableHours.StringFixed(2),
			r.GrossPay.StringFixed(2),
			r.Period.Start.String(),
			r.Period.End.String(),
		}
		bw.WriteString(strings.Join(fields, ",") + "\n")
	}
	return bw.Flush()
}

// WriteBillingCSV renders one row per billing line.
func WriteBillingCSV(w io.Writer, st BillingStatement) error {
	bw := bufio.NewWriter(w)
	bw.WriteString(billingHeader + "\n")
	for _, l := range st.Lines {
		billable := "No"
		if l.Billable {
			billable = "Yes"
		}
		fields := []string{
			l.Date.String(),
			quote(l.EmployeeName),
			l.Hours.StringFixed(2),
			billable,
			quote(l.Description),
			l.Amount.StringFixed(2),
		}
		bw.WriteString(strings.Join(fields, ",") + "\n")
	}
	return bw.Flush()
}

// quote wraps s in double quotes, doubling embedded quotes.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `"`, `""`) + `"`
}
