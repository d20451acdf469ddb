package service

import (
	"context"
	"fmt"
	"time"

	"traverse-api/internal/models"
	"traverse-api/internal/traverse"

	"github.com/google/uuid"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog/log"
)

const (
	defaultListLimit = 20
	maxListLimit     = 100
)

// TraverseService contains the business logic for computing and storing traverses
type TraverseService struct {
	repo  TraverseRepository
	cache *cache.Cache
	now   func() time.Time
}

// TraverseRepository interface for dependency injection
type TraverseRepository interface {
	SaveTraverse(ctx context.Context, t *models.Traverse) error
	FindTraverse(ctx context.Context, id uuid.UUID) (*models.Traverse, error)
	ListTraverses(ctx context.Context, limit int) ([]models.TraverseSummary, error)
}

// NewTraverseService creates a new traverse service. Stored traverses are
// cached for ttl.
func NewTraverseService(repo TraverseRepository, ttl time.Duration) *TraverseService {
	return &TraverseService{
		repo:  repo,
		cache: cache.New(ttl, 2*ttl),
		now:   time.Now,
	}
}

// Compute normalizes the table and adjusts the resulting legs without storing anything
func (s *TraverseService) Compute(ctx context.Context, req models.AdjustRequest) (*models.Traverse, error) {
	n, err := traverse.Normalize(req.Table)
	if err != nil {
		return nil, fmt.Errorf("service: failed to normalize table: %w", err)
	}

	adj := traverse.Adjust(n.Legs, req.Start, req.CloseLoop)
	if err := adj.Check(); err != nil {
		log.Warn().Err(err).Str("name", req.Name).Int("legs", len(adj.Legs)).Msg("zero-length traverse, no correction applied")
	}

	return &models.Traverse{
		ID:                uuid.New(),
		Name:              req.Name,
		CoordinateDerived: n.CoordinateDerived,
		CreatedAt:         s.now().UTC(),
		Adjustment:        *adj,
	}, nil
}

// Submit computes a traverse and stores the result
func (s *TraverseService) Submit(ctx context.Context, req models.AdjustRequest) (*models.Traverse, error) {
	t, err := s.Compute(ctx, req)
	if err != nil {
		return nil, err
	}

	if err := s.repo.SaveTraverse(ctx, t); err != nil {
		return nil, fmt.Errorf("service: failed to save traverse: %w", err)
	}
	s.cache.Set(t.ID.String(), t, cache.DefaultExpiration)

	log.Info().
		Str("id", t.ID.String()).
		Str("name", t.Name).
		Int("legs", len(t.Legs)).
		Float64("linear_misclosure", t.LinearMisclosure()).
		Msg("traverse stored")

	return t, nil
}

// Get returns a stored traverse, or nil when it does not exist
func (s *TraverseService) Get(ctx context.Context, id uuid.UUID) (*models.Traverse, error) {
	if cached, ok := s.cache.Get(id.String()); ok {
		return cached.(*models.Traverse), nil
	}

	t, err := s.repo.FindTraverse(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("service: failed to find traverse: %w", err)
	}
	if t != nil {
		s.cache.Set(id.String(), t, cache.DefaultExpiration)
	}

	return t, nil
}

// List returns summaries of the most recent traverses
func (s *TraverseService) List(ctx context.Context, limit int) ([]models.TraverseSummary, error) {
	switch {
	case limit <= 0:
		limit = defaultListLimit
	case limit > maxListLimit:
		limit = maxListLimit
	}

	summaries, err := s.repo.ListTraverses(ctx, limit)
	if err != nil {
		return nil, fmt.Errorf("service: failed to list traverses: %w", err)
	}

	return summaries, nil
}

