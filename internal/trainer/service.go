package trainer

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/AleksandrSotnikov/WaveWebSite/internal/api"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/audit"
	"github.com/AleksandrSotnikov/WaveWebSite/internal/logger"
)

type Service interface {
	Create(ctx context.Context, req CreateRequest) (*Trainer, error)
	GetByID(ctx context.Context, id int) (*Trainer, error)
	List(ctx context.Context, includeInactive bool) ([]Trainer, error)
	Update(ctx context.Context, id int, req UpdateRequest) (*Trainer, error)
	Deactivate(ctx context.Context, id int) error
}

type service struct {
	repo  Repository
	audit audit.Publisher
	now   func() time.Time
}

func NewService(repo Repository, publisher audit.Publisher) Service {
	return &service{repo: repo, audit: publisher, now: time.Now}
}

func notFound() error {
	return api.NewError(api.CodeTrainerNotFound, "Trainer not found")
}

func (s *service) Create(ctx context.Context, req CreateRequest) (*Trainer, error) {
	created, err := s.repo.Create(ctx, &Trainer{
		FullName:       req.FullName,
		Specialization: req.Specialization,
		PhoneNumber:    req.PhoneNumber,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create trainer: %w", err)
	}

	logger.Info("trainer created", "trainer_id", created.ID)
	s.audit.Publish(ctx, audit.ActionCreate, "trainer", created.ID, map[string]any{"full_name": created.FullName})
	return created, nil
}

func (s *service) GetByID(ctx context.Context, id int) (*Trainer, error) {
	t, err := s.repo.GetByID(ctx, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, notFound()
	}
	return t, err
}

func (s *service) List(ctx context.Context, includeInactive bool) ([]Trainer, error) {
	return s.repo.List(ctx, includeInactive)
}

func (s *service) Update(ctx context.Context, id int, req UpdateRequest) (*Trainer, error) {
	t, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	changes := map[string]any{}
	if req.FullName != nil {
		t.FullName = *req.FullName
		changes["full_name"] = *req.FullName
	}
	if req.Specialization != nil {
		t.Specialization = req.Specialization
		changes["specialization"] = *req.Specialization
	}
	if req.PhoneNumber != nil {
		t.PhoneNumber = req.PhoneNumber
		changes["phone_number"] = *req.PhoneNumber
	}
	if req.IsActive != nil && *req.IsActive != t.IsActive {
		if !*req.IsActive {
			if err := s.ensureNoFutureSessions(ctx, id); err != nil {
				return nil, err
			}
		}
		t.IsActive = *req.IsActive
		changes["is_active"] = *req.IsActive
	}

	updated, err := s.repo.Update(ctx, t)
	if err != nil {
		return nil, fmt.Errorf("failed to update trainer %d: %w", id, err)
	}

	s.audit.Publish(ctx, audit.ActionUpdate, "trainer", id, changes)
	return updated, nil
}

// Deactivate hides a trainer from scheduling. Trainers with sessions still
// ahead of them stay active.
func (s *service) Deactivate(ctx context.Context, id int) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	if err := s.ensureNoFutureSessions(ctx, id); err != nil {
		return err
	}

	if err := s.repo.SetActive(ctx, id, false); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return notFound()
		}
		return fmt.Errorf("failed to deactivate trainer %d: %w", id, err)
	}

	logger.Info("trainer deactivated", "trainer_id", id)
	s.audit.Publish(ctx, audit.ActionDelete, "trainer", id, map[string]any{"is_active": false})
	return nil
}

func (s *service) ensureNoFutureSessions(ctx context.Context, id int) error {
	n, err := s.repo.CountFutureSessions(ctx, id, s.now())
	if err != nil {
		return err
	}
	if n > 0 {
		return api.NewError(api.CodeHasFutureSessions,
			fmt.Sprintf("Trainer has %d upcoming sessions", n))
	}
	return nil
}
