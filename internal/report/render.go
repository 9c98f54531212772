package report

import (
	"encoding/csv"
	"html/template"
	"io"
	"strconv"
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/income"
)

const timeLayout = "2006-01-02 15:04"

var htmlTable = template.Must(template.New("report").Parse(`<!DOCTYPE html>
<html>
<head>
  <meta charset="utf-8" />
  <title>{{.Title}}</title>
  <style>
    body { font-family: system-ui, sans-serif; padding: 16px; }
    table { border-collapse: collapse; width: 100%; }
    th, td { border: 1px solid #ccc; padding: 8px; font-size: 12px; }
    th { background-color: #f3f4f6; text-align: left; }
  </style>
</head>
<body>
  <h2>{{.Title}}</h2>
{{- if .Rows}}
  <table>
    <thead><tr>{{range .Columns}}<th>{{.}}</th>{{end}}</tr></thead>
    <tbody>
{{- range .Rows}}
      <tr>{{range .}}<td>{{.}}</td>{{end}}</tr>
{{- end}}
    </tbody>
  </table>
{{- else}}
  <p>No data for selected period.</p>
{{- end}}
</body>
</html>
`))

func WriteCSV(w io.Writer, t Table) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(t.Columns); err != nil {
		return err
	}
	if err := cw.WriteAll(t.Rows); err != nil {
		return err
	}
	return cw.Error()
}

func WriteHTML(w io.Writer, t Table) error {
	return htmlTable.Execute(w, t)
}

func TrainerTable(r *income.Report, loc *time.Location) Table {
	t := Table{
		Title:   "Trainer Report: " + r.TrainerName,
		Columns: []string{"session_id", "date", "attendees", "total_income", "income_per_session"},
	}
	for _, s := range r.Sessions {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(s.SessionID),
			s.SessionDate.In(loc).Format(timeLayout),
			strconv.Itoa(s.AttendeeCount),
			money(s.TotalIncome),
			money(s.IncomePerSession),
		})
	}
	return t
}

func ClientTable(r *ClientReport, loc *time.Location) Table {
	t := Table{
		Title:   "Client Report: " + r.ClientName,
		Columns: []string{"session_id", "date", "trainer", "subscription_type", "subscription_status", "price"},
	}
	for _, row := range r.Rows {
		price := ""
		if row.Price != nil {
			price = money(*row.Price)
		}
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(row.SessionID),
			row.Date.In(loc).Format(timeLayout),
			row.Trainer,
			row.SubscriptionType,
			row.SubscriptionStatus,
			price,
		})
	}
	return t
}

func DateTable(r *DateReport, loc *time.Location) Table {
	t := Table{
		Title:   "Date Report: " + r.Period.From + " - " + r.Period.To,
		Columns: []string{"session_id", "date", "trainer", "clients_count", "active_clients", "expired_clients"},
	}
	for _, row := range r.Rows {
		t.Rows = append(t.Rows, []string{
			strconv.Itoa(row.SessionID),
			row.Date.In(loc).Format(timeLayout),
			row.Trainer,
			strconv.Itoa(row.ClientsCount),
			strconv.Itoa(row.ActiveClients),
			strconv.Itoa(row.ExpiredClients),
		})
	}
	return t
}

func money(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64)
}
