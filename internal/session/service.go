package session

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/audit"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/config"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/income"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/metrics"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/subscription"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/trainer"
)

const dateLayout = "2006-01-02"

// Layouts accepted for date_time without an explicit offset. They are read
// in the session's timezone.
var localLayouts = []string{
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
}

type TrainerLocker interface {
	LockActive(ctx context.Context, tx *sqlx.Tx, id int) (*trainer.Trainer, error)
}

type ClientLocker interface {
	LockMany(ctx context.Context, tx *sqlx.Tx, ids []int) ([]int, error)
}

type Ledger interface {
	ValidateActive(ctx context.Context, tx *sqlx.Tx, subscriptionID, clientID int) (*subscription.Subscription, error)
	Reserve(ctx context.Context, tx *sqlx.Tx, sub *subscription.Subscription) error
	Release(ctx context.Context, tx *sqlx.Tx, subscriptionID int) error
}

// StatusReconciler persists subscription expiry so attendee rows read
// afterwards carry the current status.
type StatusReconciler interface {
	ExpireOverdue(ctx context.Context)
}

type Allocator interface {
	Compute(ctx context.Context, tx *sqlx.Tx, trainerID, sessionID int) (*income.Calculation, error)
	Discard(ctx context.Context, tx *sqlx.Tx, sessionID int) error
}

type IncomeLookup interface {
	GetBySession(ctx context.Context, sessionID int) (*income.Calculation, error)
}

type Service interface {
	CreateSession(ctx context.Context, req CreateRequest) (*CreateResult, error)
	DeleteSession(ctx context.Context, id int) error
	GetSession(ctx context.Context, id int) (*Details, error)
	GetSessions(ctx context.Context, q Query) ([]Details, error)
}

type service struct {
	db        *sqlx.DB
	repo      Repository
	trainers  TrainerLocker
	clients   ClientLocker
	ledger    Ledger
	statuses  StatusReconciler
	allocator Allocator
	incomes   IncomeLookup
	conflicts *Detector
	audit     audit.Publisher
	timezone  string
}

func NewService(
	database *sqlx.DB,
	repo Repository,
	trainers TrainerLocker,
	clients ClientLocker,
	ledger Ledger,
	statuses StatusReconciler,
	allocator Allocator,
	incomes IncomeLookup,
	conflicts *Detector,
	publisher audit.Publisher,
	timezone string,
) Service {
	if timezone == "" {
		timezone = config.DefaultTimezone
	}
	return &service{
		db:        database,
		repo:      repo,
		trainers:  trainers,
		clients:   clients,
		ledger:    ledger,
		statuses:  statuses,
		allocator: allocator,
		incomes:   incomes,
		conflicts: conflicts,
		audit:     publisher,
		timezone:  timezone,
	}
}

// CreateSession books every (client, subscription) pair into one new
// session and records the trainer's income for it. Either all of it is
// stored or none of it is.
func (s *service) CreateSession(ctx context.Context, req CreateRequest) (*CreateResult, error) {
	if err := req.Validate(); err != nil {
		return nil, s.rejected(err)
	}

	tz := strings.TrimSpace(req.Timezone)
	if tz == "" {
		tz = s.timezone
	}
	loc, err := config.ParseTimezone(tz)
	if err != nil {
		return nil, s.rejected(api.NewError(api.CodeValidation, fmt.Sprintf("Unknown timezone %q", tz)))
	}
	start, err := ParseDateTime(req.DateTime, loc)
	if err != nil {
		return nil, s.rejected(api.NewError(api.CodeValidation, "date_time must be an ISO-8601 timestamp"))
	}

	var result *CreateResult
	err = db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		_, err := s.trainers.LockActive(ctx, tx, req.TrainerID)
		if errors.Is(err, sql.ErrNoRows) {
			return api.NewError(api.CodeTrainerNotFound, "Trainer not found or inactive")
		}
		if err != nil {
			return fmt.Errorf("failed to lock trainer %d: %w", req.TrainerID, err)
		}

		if _, err := s.clients.LockMany(ctx, tx, req.Clients); err != nil {
			return fmt.Errorf("failed to lock clients: %w", err)
		}

		if err := s.conflicts.Check(ctx, tx, req.TrainerID, start, 0, req.Clients); err != nil {
			return err
		}

		created, err := s.repo.Create(ctx, tx, &Session{
			TrainerID: req.TrainerID,
			DateTime:  start,
			Timezone:  tz,
			Notes:     req.Notes,
		})
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}

		for i, clientID := range req.Clients {
			sub, err := s.ledger.ValidateActive(ctx, tx, req.Subscriptions[i], clientID)
			if err != nil {
				return err
			}
			if err := s.ledger.Reserve(ctx, tx, sub); err != nil {
				return err
			}
			if _, err := s.repo.AddAttendee(ctx, tx, &Attendee{
				SessionID:      created.ID,
				ClientID:       clientID,
				SubscriptionID: sub.ID,
			}); err != nil {
				return fmt.Errorf("failed to add client %d to session %d: %w", clientID, created.ID, err)
			}
		}

		calc, err := s.allocator.Compute(ctx, tx, req.TrainerID, created.ID)
		if err != nil {
			return err
		}

		result = &CreateResult{Session: *created, Income: calc}
		return nil
	})
	if err != nil {
		return nil, s.rejected(err)
	}

	var earned float64
	if result.Income != nil {
		earned = result.Income.TotalIncome
	}
	metrics.RecordSessionCreated(earned)
	logger.Info("session created",
		"session_id", result.Session.ID,
		"trainer_id", req.TrainerID,
		"attendees", len(req.Clients),
		"total_income", earned,
	)
	s.audit.Publish(ctx, audit.ActionCreate, "session", result.Session.ID, map[string]any{
		"trainer_id":    req.TrainerID,
		"date_time":     result.Session.DateTime,
		"clients":       req.Clients,
		"subscriptions": req.Subscriptions,
		"total_income":  earned,
	})
	return result, nil
}

// rejected records a failed booking. Business errors pass through;
// anything else is logged and hidden behind INTERNAL_ERROR.
func (s *service) rejected(err error) error {
	var apiErr *api.Error
	if errors.As(err, &apiErr) {
		metrics.RecordSessionRejection(string(apiErr.Code))
		return apiErr
	}

	if db.IsSerializationFailure(err) {
		logger.Warn("session booking aborted by a concurrent transaction", "error", err)
	} else {
		logger.Error("failed to create session", "error", err)
	}
	metrics.RecordSessionRejection(string(api.CodeInternal))
	return api.Internal()
}

// DeleteSession removes a session with its attendees and income, giving
// every limited subscription back the session it consumed.
func (s *service) DeleteSession(ctx context.Context, id int) error {
	var attendees []Attendee
	err := db.WithTx(ctx, s.db, func(tx *sqlx.Tx) error {
		sess, err := s.repo.LockByID(ctx, tx, id)
		if errors.Is(err, sql.ErrNoRows) {
			return api.NewError(api.CodeNotFound, "Session not found")
		}
		if err != nil {
			return fmt.Errorf("failed to lock session %d: %w", id, err)
		}

		attendees, err = s.repo.ListAttendees(ctx, tx, sess.ID)
		if err != nil {
			return fmt.Errorf("failed to load attendees of session %d: %w", id, err)
		}

		clientIDs := make([]int, 0, len(attendees))
		for _, a := range attendees {
			clientIDs = append(clientIDs, a.ClientID)
		}
		if len(clientIDs) > 0 {
			if _, err := s.clients.LockMany(ctx, tx, clientIDs); err != nil {
				return fmt.Errorf("failed to lock clients: %w", err)
			}
		}

		for _, a := range attendees {
			if err := s.ledger.Release(ctx, tx, a.SubscriptionID); err != nil {
				return err
			}
		}

		if err := s.repo.DeleteAttendees(ctx, tx, sess.ID); err != nil {
			return fmt.Errorf("failed to delete attendees of session %d: %w", id, err)
		}
		if err := s.allocator.Discard(ctx, tx, sess.ID); err != nil {
			return err
		}
		if err := s.repo.Delete(ctx, tx, sess.ID); err != nil {
			return fmt.Errorf("failed to delete session %d: %w", id, err)
		}
		return nil
	})
	if err != nil {
		if api.CodeOf(err) == api.CodeInternal {
			logger.Error("failed to delete session", "session_id", id, "error", err)
			return api.Internal()
		}
		return err
	}

	metrics.RecordSessionDeleted()
	logger.Info("session deleted", "session_id", id, "released", len(attendees))
	s.audit.Publish(ctx, audit.ActionDelete, "session", id, map[string]any{
		"attendees": len(attendees),
	})
	return nil
}

func (s *service) GetSession(ctx context.Context, id int) (*Details, error) {
	d, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NewError(api.CodeNotFound, "Session not found")
	}
	if err != nil {
		return nil, err
	}

	s.statuses.ExpireOverdue(ctx)
	attendees, err := s.repo.AttendeeDetails(ctx, []int{id})
	if err != nil {
		return nil, err
	}
	d.Attendees = attendees
	if d.Attendees == nil {
		d.Attendees = []AttendeeDetail{}
	}

	calc, err := s.incomes.GetBySession(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
	case err != nil:
		return nil, err
	default:
		d.Income = calc
	}
	return d, nil
}

func (s *service) GetSessions(ctx context.Context, q Query) ([]Details, error) {
	filter := Filter{TrainerID: q.TrainerID, ClientID: q.ClientID}
	if q.DateFrom != "" && q.DateTo != "" {
		loc, err := config.ParseTimezone(s.timezone)
		if err != nil {
			loc = time.UTC
		}
		from, err := parseBound(q.DateFrom, loc, false)
		if err != nil {
			return nil, api.NewError(api.CodeValidation, "date_from must be a date or timestamp")
		}
		to, err := parseBound(q.DateTo, loc, true)
		if err != nil {
			return nil, api.NewError(api.CodeValidation, "date_to must be a date or timestamp")
		}
		if to.Before(from) {
			return nil, api.NewError(api.CodeValidation, "date_to must not precede date_from")
		}
		filter.From, filter.To = &from, &to
	}

	sessions, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}
	if len(sessions) == 0 {
		return sessions, nil
	}

	ids := make([]int, len(sessions))
	index := make(map[int]int, len(sessions))
	for i := range sessions {
		ids[i] = sessions[i].ID
		index[sessions[i].ID] = i
		sessions[i].Attendees = []AttendeeDetail{}
	}

	s.statuses.ExpireOverdue(ctx)
	attendees, err := s.repo.AttendeeDetails(ctx, ids)
	if err != nil {
		return nil, err
	}
	for _, a := range attendees {
		if i, ok := index[a.SessionID]; ok {
			sessions[i].Attendees = append(sessions[i].Attendees, a)
		}
	}
	return sessions, nil
}

// ParseDateTime reads an RFC 3339 timestamp, or a local date-time without
// offset interpreted in loc.
func ParseDateTime(value string, loc *time.Location) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t, nil
	}
	for _, layout := range localLayouts {
		if t, err := time.ParseInLocation(layout, value, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date_time %q", value)
}

// parseBound reads a list filter bound. A bare date as the upper bound
// covers that whole day.
func parseBound(value string, loc *time.Location, upper bool) (time.Time, error) {
	if d, err := time.ParseInLocation(dateLayout, strings.TrimSpace(value), loc); err == nil {
		if upper {
			return d.AddDate(0, 0, 1), nil
		}
		return d, nil
	}
	return ParseDateTime(value, loc)
}
