package cli

import (
	"fmt"
	"io"
	"sort"
	"strconv"
	"text/tabwriter"

	"go-directory/internal/dashboard"
	"go-directory/internal/employee"
)

func newTable(w io.Writer) *tabwriter.Writer {
	return tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
}

func printEmployees(w io.Writer, list []employee.EmployeeResponse) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "No employees found.")
		return err
	}

	tw := newTable(w)
	fmt.Fprintln(tw, "ID\tNAME\tEMAIL\tPOSITION\tDEPARTMENT\tSTATUS\tSALARY\tHIRED")
	for _, e := range list {
		fmt.Fprintf(tw, "%d\t%s %s\t%s\t%s\t%s\t%s\t%s\t%s\n",
			e.ID, e.FirstName, e.LastName, e.Email, e.Position,
			deref(e.Department), e.Status, formatMoney(e.Salary), e.HiredAt)
	}
	return tw.Flush()
}

func printEmployee(w io.Writer, e employee.EmployeeResponse) error {
	tw := newTable(w)
	rows := [][2]string{
		{"ID", strconv.FormatInt(e.ID, 10)},
		{"Name", e.FirstName + " " + e.LastName},
		{"Email", e.Email},
		{"Phone", deref(e.PhoneNumber)},
		{"ID Card", e.IDCardNumber},
		{"Position", e.Position},
		{"Department", deref(e.Department)},
		{"Salary", formatMoney(e.Salary)},
		{"Status", e.Status},
		{"Hired", e.HiredAt},
		{"Notes", deref(e.Notes)},
		{"Photo", deref(e.PhotoURL)},
	}
	for _, r := range rows {
		fmt.Fprintf(tw, "%s:\t%s\n", r[0], r[1])
	}
	return tw.Flush()
}

func printStats(w io.Writer, s dashboard.StatsResponse) error {
	tw := newTable(w)
	fmt.Fprintf(tw, "Total employees:\t%d\n", s.TotalEmployees)
	fmt.Fprintf(tw, "New hires (30 days):\t%d\n", s.NewHires)
	fmt.Fprintf(tw, "Average salary:\t%s\n", formatMoney(s.AverageSalary))

	statuses := make([]string, 0, len(s.ByStatus))
	for status := range s.ByStatus {
		statuses = append(statuses, status)
	}
	sort.Strings(statuses)
	for _, status := range statuses {
		fmt.Fprintf(tw, "  %s:\t%d\n", status, s.ByStatus[status])
	}

	if len(s.RecentHires) > 0 {
		fmt.Fprintln(tw, "Employees by hire date:\t")
		for _, h := range s.RecentHires {
			fmt.Fprintf(tw, "  %s %s\t%s\t%s\t%s\t%s\n",
				h.FirstName, h.LastName, h.Position, deref(h.Department), h.Status, h.HiredAt)
		}
	}
	return tw.Flush()
}

func formatMoney(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func deref(s *string) string {
	if s == nil {
		return "-"
	}
	return *s
}
