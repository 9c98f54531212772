package subscription

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/audit"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/metrics"
)

const dateLayout = "2006-01-02"

// ClientLookup is the slice of the client store this package needs.
type ClientLookup interface {
	Exists(ctx context.Context, id int) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Subscription, error)
	GetByID(ctx context.Context, id int) (*Subscription, error)
	List(ctx context.Context, filter Filter) ([]WithClient, error)
	ListByClient(ctx context.Context, clientID int) ([]WithClient, error)
	Update(ctx context.Context, id int, req UpdateRequest) (*Subscription, error)
	Delete(ctx context.Context, id int) error
	HasActive(ctx context.Context, clientID int) (bool, error)
	ExpireOverdue(ctx context.Context)
}

type service struct {
	repo    Repository
	clients ClientLookup
	audit   audit.Publisher
	loc     *time.Location
	now     func() time.Time
}

func NewService(repo Repository, clients ClientLookup, publisher audit.Publisher, loc *time.Location) Service {
	if loc == nil {
		loc = time.UTC
	}
	return &service{
		repo:    repo,
		clients: clients,
		audit:   publisher,
		loc:     loc,
		now:     time.Now,
	}
}

func (s *service) today() time.Time {
	return DateOf(s.now().In(s.loc))
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Subscription, error) {
	if !req.Type.Valid() {
		return nil, api.NewError(api.CodeInvalidType, "Subscription type must be limited or unlimited")
	}

	ok, err := s.clients.Exists(ctx, req.ClientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, api.NewError(api.CodeNotFound, "Client not found")
	}

	start, err := time.Parse(dateLayout, req.StartDate)
	if err != nil {
		return nil, api.NewError(api.CodeValidation, "start_date must be YYYY-MM-DD")
	}

	sub := &Subscription{
		ClientID:       req.ClientID,
		Type:           req.Type,
		Price:          req.Price,
		StartDate:      start,
		ExpirationDate: start.AddDate(0, 1, 0),
	}
	if req.Type == TypeLimited {
		if req.TotalSessions == nil || *req.TotalSessions < 1 {
			return nil, api.NewError(api.CodeValidation, "total_sessions is required for limited subscriptions")
		}
		sub.TotalSessions = req.TotalSessions
	}
	sub.Status = sub.StatusAt(s.now(), s.loc)

	created, err := s.repo.Create(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to create subscription: %w", err)
	}

	logger.Info("subscription created", "subscription_id", created.ID, "client_id", created.ClientID, "type", created.Type)
	metrics.RecordSubscription(string(created.Type))
	s.audit.Publish(ctx, audit.ActionCreate, "subscription", created.ID, map[string]any{
		"client_id": created.ClientID,
		"type":      created.Type,
		"price":     created.Price,
	})
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NewError(api.CodeNotFound, "Subscription not found")
	}
	if err != nil {
		return nil, err
	}

	s.reconcile(ctx, sub)
	return sub, nil
}

// reconcile persists the expiry of a subscription read past its last day.
func (s *service) reconcile(ctx context.Context, sub *Subscription) {
	if sub.Status != StatusActive || sub.StatusAt(s.now(), s.loc) != StatusExpired {
		return
	}
	sub.Status = StatusExpired
	if err := s.repo.UpdateStatus(ctx, sub.ID, StatusExpired); err != nil {
		logger.Warn("failed to persist subscription expiry", "subscription_id", sub.ID, "error", err)
	}
}

// ExpireOverdue persists the expiry of every active subscription past its
// last day. Callers run it before reading statuses through other tables.
func (s *service) ExpireOverdue(ctx context.Context) {
	n, err := s.repo.ExpireOverdue(ctx, s.today())
	if err != nil {
		logger.Warn("failed to expire overdue subscriptions", "error", err)
		return
	}
	if n > 0 {
		logger.Debug("expired overdue subscriptions", "count", n)
	}
}

func (s *service) List(ctx context.Context, filter Filter) ([]WithClient, error) {
	if filter.Type != "" && !filter.Type.Valid() {
		return nil, api.NewError(api.CodeInvalidType, "Subscription type must be limited or unlimited")
	}
	s.ExpireOverdue(ctx)
	return s.repo.List(ctx, filter)
}

func (s *service) ListByClient(ctx context.Context, clientID int) ([]WithClient, error) {
	ok, err := s.clients.Exists(ctx, clientID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, api.NewError(api.CodeNotFound, "Client not found")
	}

	s.ExpireOverdue(ctx)
	return s.repo.List(ctx, Filter{ClientID: &clientID})
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) (*Subscription, error) {
	sub, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NewError(api.CodeNotFound, "Subscription not found")
	}
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.Price != nil {
		sub.Price = *req.Price
		changes["price"] = *req.Price
	}
	if req.TotalSessions != nil {
		if sub.Type != TypeLimited {
			return nil, api.NewError(api.CodeInvalidSessions, "Unlimited subscriptions have no session total")
		}
		sub.TotalSessions = req.TotalSessions
		changes["total_sessions"] = *req.TotalSessions
	}
	if req.SessionsUsed != nil {
		sub.SessionsUsed = *req.SessionsUsed
		changes["sessions_used"] = *req.SessionsUsed
	}
	if req.ExpirationDate != nil {
		exp, err := time.Parse(dateLayout, *req.ExpirationDate)
		if err != nil {
			return nil, api.NewError(api.CodeValidation, "expiration_date must be YYYY-MM-DD")
		}
		if exp.Before(sub.StartDate) {
			return nil, api.NewError(api.CodeValidation, "expiration_date must not precede start_date")
		}
		sub.ExpirationDate = exp
		changes["expiration_date"] = *req.ExpirationDate
	}

	if sub.SessionsUsed < 0 {
		return nil, api.NewError(api.CodeInvalidSessions, "sessions_used cannot be negative")
	}
	if sub.Type == TypeLimited && sub.TotalSessions != nil && sub.SessionsUsed > *sub.TotalSessions {
		return nil, api.NewError(api.CodeInvalidSessions,
			fmt.Sprintf("sessions_used must be between 0 and %d", *sub.TotalSessions))
	}
	sub.Status = sub.StatusAt(s.now(), s.loc)
	if req.Status != nil {
		if *req.Status == StatusExpired {
			sub.Status = StatusExpired
		}
		changes["status"] = sub.Status
	}

	updated, err := s.repo.Update(ctx, sub)
	if err != nil {
		return nil, fmt.Errorf("failed to update subscription %d: %w", id, err)
	}

	s.audit.Publish(ctx, audit.ActionUpdate, "subscription", id, changes)
	return updated, nil
}

func (s *service) Delete(ctx context.Context, id int) error {
	err := s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return api.NewError(api.CodeNotFound, "Subscription not found")
	case db.IsForeignKeyViolation(err):
		return api.NewError(api.CodeSubInUse, "Subscription is referenced by recorded sessions")
	case err != nil:
		return err
	}

	s.audit.Publish(ctx, audit.ActionDelete, "subscription", id, nil)
	return nil
}

func (s *service) HasActive(ctx context.Context, clientID int) (bool, error) {
	n, err := s.repo.CountActiveByClient(ctx, clientID, s.today())
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
