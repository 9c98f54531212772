package report

import (
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/income"
)

type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
	FormatHTML Format = "html"
)

type ClientRow struct {
	SessionID          int       `db:"session_id" json:"session_id"`
	Date               time.Time `db:"date_time" json:"date"`
	Trainer            string    `db:"trainer_name" json:"trainer"`
	SubscriptionType   string    `db:"subscription_type" json:"subscription_type"`
	SubscriptionStatus string    `db:"subscription_status" json:"subscription_status"`
	Price              *float64  `db:"price" json:"price"`
}

type ClientReport struct {
	ClientID      int           `json:"client_id"`
	ClientName    string        `json:"client_name"`
	PhoneNumber   string        `json:"phone_number"`
	Period        income.Period `json:"period"`
	SessionsCount int           `json:"sessions_count"`
	Rows          []ClientRow   `json:"rows"`
}

type DateRow struct {
	SessionID      int       `db:"session_id" json:"session_id"`
	Date           time.Time `db:"date_time" json:"date"`
	Trainer        string    `db:"trainer_name" json:"trainer"`
	ClientsCount   int       `db:"clients_count" json:"clients_count"`
	ActiveClients  int       `db:"active_clients" json:"active_clients"`
	ExpiredClients int       `db:"expired_clients" json:"expired_clients"`
}

type DateReport struct {
	Period        income.Period `json:"period"`
	SessionsCount int           `json:"sessions_count"`
	Rows          []DateRow     `json:"rows"`
}

// Table is the flat rendering of a report used by the CSV and HTML writers.
type Table struct {
	Title   string
	Columns []string
	Rows    [][]string
}
