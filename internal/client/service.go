package client

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/audit"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/db"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
)

// ActiveSubscriptions answers whether a client still holds a usable plan.
type ActiveSubscriptions interface {
	HasActive(ctx context.Context, clientID int) (bool, error)
}

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Client, error)
	GetByID(ctx context.Context, id int) (*Client, error)
	List(ctx context.Context, search string) ([]Client, error)
	Update(ctx context.Context, id int, req UpdateRequest) (*Client, error)
	Delete(ctx context.Context, id int) error
}

type service struct {
	repo  Repository
	subs  ActiveSubscriptions
	audit audit.Publisher
}

func NewService(repo Repository, subs ActiveSubscriptions, publisher audit.Publisher) Service {
	return &service{repo: repo, subs: subs, audit: publisher}
}

func phoneTaken() error {
	return api.NewError(api.CodePhoneExists, "A client with this phone number already exists")
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Client, error) {
	created, err := s.repo.Create(ctx, &Client{
		FullName:      req.FullName,
		PhoneNumber:   req.PhoneNumber,
		MessengerLink: req.MessengerLink,
	})
	if db.IsUniqueViolation(err) {
		return nil, phoneTaken()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create client: %w", err)
	}

	logger.Info("client created", "client_id", created.ID)
	s.audit.Publish(ctx, audit.ActionCreate, "client", created.ID, map[string]any{"full_name": created.FullName})
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Client, error) {
	c, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, api.NewError(api.CodeNotFound, "Client not found")
	}
	return c, err
}

func (s *service) List(ctx context.Context, search string) ([]Client, error) {
	return s.repo.List(ctx, search)
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) (*Client, error) {
	c, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.FullName != nil {
		c.FullName = *req.FullName
		changes["full_name"] = *req.FullName
	}
	if req.PhoneNumber != nil {
		c.PhoneNumber = *req.PhoneNumber
		changes["phone_number"] = *req.PhoneNumber
	}
	if req.MessengerLink != nil {
		c.MessengerLink = req.MessengerLink
		changes["messenger_link"] = *req.MessengerLink
	}

	updated, err := s.repo.Update(ctx, c)
	if db.IsUniqueViolation(err) {
		return nil, phoneTaken()
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update client %d: %w", id, err)
	}

	s.audit.Publish(ctx, audit.ActionUpdate, "client", id, changes)
	return updated, nil
}

// Delete removes a client together with their expired subscriptions. Clients
// holding an active plan, or with recorded attendance, are kept.
func (s *service) Delete(ctx context.Context, id int) error {
	active, err := s.subs.HasActive(ctx, id)
	if err != nil {
		return err
	}
	if active {
		return api.NewError(api.CodeHasActiveSubs, "Client has an active subscription")
	}

	err = s.repo.Delete(ctx, id)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		return api.NewError(api.CodeNotFound, "Client not found")
	case db.IsForeignKeyViolation(err):
		return api.NewError(api.CodeClientInUse, "Client has recorded sessions")
	case err != nil:
		return fmt.Errorf("failed to delete client %d: %w", id, err)
	}

	logger.Info("client deleted", "client_id", id)
	s.audit.Publish(ctx, audit.ActionDelete, "client", id, nil)
	return nil
}
