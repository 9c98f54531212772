package report

import (
	"context"
	"fmt"
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/client"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/income"
)

const dateLayout = "2006-01-02"

type ClientLookup interface {
	GetByID(ctx context.Context, id int) (*client.Client, error)
}

type IncomeReports interface {
	GetTrainerIncome(ctx context.Context, trainerID int, dateFrom, dateTo string) (*income.Report, error)
}

// StatusReconciler persists subscription expiry ahead of report queries
// that print subscription status.
type StatusReconciler interface {
	ExpireOverdue(ctx context.Context)
}

type Service interface {
	Trainer(ctx context.Context, trainerID int, dateFrom, dateTo string) (*income.Report, error)
	Client(ctx context.Context, clientID int, dateFrom, dateTo string) (*ClientReport, error)
	Dates(ctx context.Context, dateFrom, dateTo string) (*DateReport, error)
}

type service struct {
	repo     Repository
	clients  ClientLookup
	incomes  IncomeReports
	statuses StatusReconciler
	loc      *time.Location
}

func NewService(repo Repository, clients ClientLookup, incomes IncomeReports, statuses StatusReconciler, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, clients: clients, incomes: incomes, statuses: statuses, loc: loc}
}

func (s *service) Trainer(ctx context.Context, trainerID int, dateFrom, dateTo string) (*income.Report, error) {
	return s.incomes.GetTrainerIncome(ctx, trainerID, dateFrom, dateTo)
}

func (s *service) Client(ctx context.Context, clientID int, dateFrom, dateTo string) (*ClientReport, error) {
	c, err := s.clients.GetByID(ctx, clientID)
	if err != nil {
		return nil, err
	}

	from, to, err := s.parseRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	s.statuses.ExpireOverdue(ctx)
	rows, err := s.repo.ClientSessions(ctx, clientID, from, to)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions of client %d: %w", clientID, err)
	}

	report := &ClientReport{
		ClientID:      c.ID,
		ClientName:    c.FullName,
		PhoneNumber:   c.PhoneNumber,
		SessionsCount: len(rows),
		Rows:          rows,
	}
	if from != nil {
		report.Period = income.Period{From: dateFrom, To: dateTo}
	}
	return report, nil
}

func (s *service) Dates(ctx context.Context, dateFrom, dateTo string) (*DateReport, error) {
	if dateFrom == "" || dateTo == "" {
		return nil, api.NewError(api.CodeValidation, "date_from and date_to are required")
	}

	from, to, err := s.parseRange(dateFrom, dateTo)
	if err != nil {
		return nil, err
	}

	s.statuses.ExpireOverdue(ctx)
	rows, err := s.repo.DateSessions(ctx, *from, *to)
	if err != nil {
		return nil, fmt.Errorf("failed to load sessions %s..%s: %w", dateFrom, dateTo, err)
	}

	return &DateReport{
		Period:        income.Period{From: dateFrom, To: dateTo},
		SessionsCount: len(rows),
		Rows:          rows,
	}, nil
}

// parseRange turns two YYYY-MM-DD dates into [from, to+1 day) in the
// studio timezone. Nil bounds mean no filter.
func (s *service) parseRange(dateFrom, dateTo string) (*time.Time, *time.Time, error) {
	if dateFrom == "" || dateTo == "" {
		return nil, nil, nil
	}

	from, err := time.ParseInLocation(dateLayout, dateFrom, s.loc)
	if err != nil {
		return nil, nil, api.NewError(api.CodeValidation, "date_from must be YYYY-MM-DD")
	}
	to, err := time.ParseInLocation(dateLayout, dateTo, s.loc)
	if err != nil {
		return nil, nil, api.NewError(api.CodeValidation, "date_to must be YYYY-MM-DD")
	}
	if to.Before(from) {
		return nil, nil, api.NewError(api.CodeValidation, "date_to must not precede date_from")
	}

	to = to.AddDate(0, 0, 1)
	return &from, &to, nil
}
