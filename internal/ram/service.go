package ram

import (
	"context"
	"errors"
	"time"

	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/apperror"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram/entity"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/internal/ram/repo"
	"github.com/ovaphlow/pitchfork/service-pcinfo-go/pkg/utilities"
)

const (
	defaultLimit = 50
	maxLimit     = 200
)

type Repository interface {
	List(ctx context.Context, f entity.Filter) ([]entity.Ram, error)
	GetByID(ctx context.Context, id string) (*entity.Ram, error)
	Create(ctx context.Context, m *entity.Ram) error
	Update(ctx context.Context, m *entity.Ram) error
	Delete(ctx context.Context, id string) error
}

// Service encapsulates business logic for RAM records and depends on a repo.
type Service struct {
	repo  Repository
	newID func() string
	now   func() time.Time
}

// NewService constructs a Service with the provided repository. Ids are
// snowflake strings.
func NewService(r Repository) *Service {
	return &Service{repo: r, newID: utilities.NewSnowflakeID, now: func() time.Time { return time.Now().UTC() }}
}

// SaveRequest is the body of create and update calls.
type SaveRequest struct {
	Name       string  `json:"name" validate:"required,max=120"`
	Brand      string  `json:"brand" validate:"max=60"`
	Type       string  `json:"type" validate:"omitempty,oneof=DDR3 DDR4 DDR5 LPDDR4 LPDDR5"`
	CapacityGB int     `json:"capacityGb" validate:"gte=0"`
	SpeedMHz   int     `json:"speedMhz" validate:"gte=0"`
	Price      float64 `json:"price" validate:"gte=0"`
}

func (s *Service) List(ctx context.Context, f entity.Filter) ([]entity.Ram, error) {
	if f.Limit <= 0 {
		f.Limit = defaultLimit
	}
	if f.Limit > maxLimit {
		f.Limit = maxLimit
	}
	if f.Offset < 0 {
		f.Offset = 0
	}
	rams, err := s.repo.List(ctx, f)
	if err != nil {
		return nil, apperror.NewInternal(err)
	}
	return rams, nil
}

func (s *Service) Get(ctx context.Context, id string) (*entity.Ram, error) {
	m, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, mapNotFound(err)
	}
	return m, nil
}

func (s *Service) Create(ctx context.Context, req SaveRequest) (*entity.Ram, error) {
	now := s.now()
	m := &entity.Ram{ID: s.newID(), CreatedAt: now, UpdatedAt: now}
	apply(m, req)
	if err := s.repo.Create(ctx, m); err != nil {
		return nil, apperror.NewOperationFailed("saving the ram", err)
	}
	return m, nil
}

func (s *Service) Update(ctx context.Context, id string, req SaveRequest) (*entity.Ram, error) {
	m, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	apply(m, req)
	m.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, m); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return nil, mapNotFound(err)
		}
		return nil, apperror.NewOperationFailed("updating the ram", err)
	}
	return m, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		if errors.Is(err, repo.ErrNotFound) {
			return mapNotFound(err)
		}
		return apperror.NewOperationFailed("deleting the ram", err)
	}
	return nil
}

func apply(m *entity.Ram, req SaveRequest) {
	m.Name = req.Name
	m.Brand = req.Brand
	m.Type = req.Type
	m.CapacityGB = req.CapacityGB
	m.SpeedMHz = req.SpeedMHz
	m.Price = req.Price
}

func mapNotFound(err error) error {
	if errors.Is(err, repo.ErrNotFound) {
		return apperror.NewNotFound("Ram not found.")
	}
	return apperror.NewInternal(err)
}
