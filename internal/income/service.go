package income

import (
	"context"
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/trainer"
)

const dateLayout = "2006-01-02"

type TrainerLookup interface {
	GetByID(ctx context.Context, id int) (*trainer.Trainer, error)
}

type Service interface {
	GetTrainerIncome(ctx context.Context, trainerID int, dateFrom, dateTo string) (*Report, error)
}

type service struct {
	repo     Repository
	trainers TrainerLookup
	loc      *time.Location
}

func NewService(repo Repository, trainers TrainerLookup, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{repo: repo, trainers: trainers, loc: loc}
}

// GetTrainerIncome sums recorded income for a trainer. The period filter
// applies only when both bounds are given; date_to is inclusive.
func (s *service) GetTrainerIncome(ctx context.Context, trainerID int, dateFrom, dateTo string) (*Report, error) {
	t, err := s.trainers.GetByID(ctx, trainerID)
	if err != nil {
		return nil, err
	}

	var from, to *time.Time
	if dateFrom != "" && dateTo != "" {
		f, err := time.ParseInLocation(dateLayout, dateFrom, s.loc)
		if err != nil {
			return nil, api.NewError(api.CodeValidation, "date_from must be YYYY-MM-DD")
		}
		e, err := time.ParseInLocation(dateLayout, dateTo, s.loc)
		if err != nil {
			return nil, api.NewError(api.CodeValidation, "date_to must be YYYY-MM-DD")
		}
		if e.Before(f) {
			return nil, api.NewError(api.CodeValidation, "date_to must not precede date_from")
		}
		e = e.AddDate(0, 0, 1)
		from, to = &f, &e
	}

	rows, err := s.repo.ListByTrainer(ctx, trainerID, from, to)
	if err != nil {
		return nil, err
	}

	report := &Report{
		TrainerID:     t.ID,
		TrainerName:   t.FullName,
		SessionsCount: len(rows),
		Sessions:      rows,
	}
	if from != nil {
		report.Period = Period{From: dateFrom, To: dateTo}
	}
	for _, r := range rows {
		report.TotalIncome += r.TotalIncome
	}
	return report, nil
}
