package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"traverse-api/internal/models"
	"traverse-api/internal/traverse"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockTraverseRepository is a mock implementation of the TraverseRepository interface
type MockTraverseRepository struct {
	mock.Mock
}

func (m *MockTraverseRepository) SaveTraverse(ctx context.Context, t *models.Traverse) error {
	args := m.Called(ctx, t)
	return args.Error(0)
}

func (m *MockTraverseRepository) FindTraverse(ctx context.Context, id uuid.UUID) (*models.Traverse, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(*models.Traverse), args.Error(1)
}

func (m *MockTraverseRepository) ListTraverses(ctx context.Context, limit int) ([]models.TraverseSummary, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]models.TraverseSummary), args.Error(1)
}

var fixedNow = time.Date(2026, 10, 16, 12, 0, 0, 0, time.UTC)

func newTestService(repo TraverseRepository) *TraverseService {
	s := NewTraverseService(repo, time.Minute)
	s.now = func() time.Time { return fixedNow }
	return s
}

func twoLegRequest() models.AdjustRequest {
	return models.AdjustRequest{
		Name: "two legs",
		Table: models.Table{
			Columns: []string{"code", "distance", "bearing"},
			Rows:    [][]string{{"RD1", "100", "0"}, {"RD2", "100", "90"}},
		},
	}
}

func TestTraverseService_Compute(t *testing.T) {
	tests := []struct {
		name        string
		req         models.AdjustRequest
		legs        int
		coordinate  bool
		expectError bool
	}{
		{
			name: "observation table",
			req:  twoLegRequest(),
			legs: 2,
		},
		{
			name: "coordinate table closed",
			req: models.AdjustRequest{
				Table: models.Table{
					Columns: []string{"N", "E"},
					Rows:    [][]string{{"0", "0"}, {"10", "0"}, {"10", "10"}},
				},
				CloseLoop: true,
			},
			legs:       3,
			coordinate: true,
		},
		{
			name:        "missing columns",
			req:         models.AdjustRequest{Table: models.Table{Columns: []string{"code"}}},
			expectError: true,
		},
		{
			name: "degenerate table still computes",
			req: models.AdjustRequest{
				Table: models.Table{Columns: []string{"dist", "brg"}, Rows: [][]string{{"x", "y"}}},
			},
			legs: 1,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockRepo := new(MockTraverseRepository)
			service := newTestService(mockRepo)

			// Execute
			result, err := service.Compute(context.Background(), tt.req)

			// Assert
			if tt.expectError {
				require.Error(t, err)
				var missing *traverse.MissingColumnsError
				assert.True(t, errors.As(err, &missing))
				assert.Nil(t, result)
				return
			}
			require.NoError(t, err)
			assert.NotEqual(t, uuid.Nil, result.ID)
			assert.Equal(t, tt.req.Name, result.Name)
			assert.Equal(t, fixedNow, result.CreatedAt)
			assert.Equal(t, tt.coordinate, result.CoordinateDerived)
			assert.Len(t, result.Legs, tt.legs)

			mockRepo.AssertNotCalled(t, "SaveTraverse", mock.Anything, mock.Anything)
		})
	}
}

func TestTraverseService_Submit(t *testing.T) {
	tests := []struct {
		name        string
		mockError   error
		expectError bool
	}{
		{name: "stored", mockError: nil},
		{name: "repository error", mockError: assert.AnError, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockRepo := new(MockTraverseRepository)
			service := newTestService(mockRepo)
			mockRepo.On("SaveTraverse", mock.Anything, mock.AnythingOfType("*models.Traverse")).Return(tt.mockError)

			// Execute
			result, err := service.Submit(context.Background(), twoLegRequest())

			// Assert
			if tt.expectError {
				assert.ErrorIs(t, err, assert.AnError)
				assert.Nil(t, result)
			} else {
				require.NoError(t, err)
				assert.InDelta(t, 100, result.Misclosure.North, 1e-9)

				// Served from cache; FindTraverse is never called.
				cached, err := service.Get(context.Background(), result.ID)
				require.NoError(t, err)
				assert.Same(t, result, cached)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTraverseService_Get(t *testing.T) {
	id := uuid.New()
	stored := &models.Traverse{ID: id, Name: "stored"}

	tests := []struct {
		name         string
		mockTraverse *models.Traverse
		mockError    error
		expected     *models.Traverse
		expectError  bool
	}{
		{name: "found", mockTraverse: stored, expected: stored},
		{name: "not found", mockTraverse: nil, expected: nil},
		{name: "repository error", mockTraverse: nil, mockError: assert.AnError, expectError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			// Setup
			mockRepo := new(MockTraverseRepository)
			service := newTestService(mockRepo)
			mockRepo.On("FindTraverse", mock.Anything, id).Return(tt.mockTraverse, tt.mockError).Once()

			// Execute
			result, err := service.Get(context.Background(), id)

			// Assert
			if tt.expectError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, result)
			}

			if tt.mockTraverse != nil {
				again, err := service.Get(context.Background(), id)
				require.NoError(t, err)
				assert.Same(t, tt.mockTraverse, again)
			}

			mockRepo.AssertExpectations(t)
		})
	}
}

func TestTraverseService_List(t *testing.T) {
	summaries := []models.TraverseSummary{{ID: uuid.New(), Name: "a"}}

	tests := []struct {
		name      string
		limit     int
		repoLimit int
		mockError error
	}{
		{name: "default limit", limit: 0, repoLimit: defaultListLimit},
		{name: "explicit limit", limit: 5, repoLimit: 5},
		{name: "clamped limit", limit: 1000, repoLimit: maxListLimit},
		{name: "repository error", limit: 5, repoLimit: 5, mockError: assert.AnError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockTraverseRepository)
			service := newTestService(mockRepo)
			mockRepo.On("ListTraverses", mock.Anything, tt.repoLimit).Return(summaries, tt.mockError)

			result, err := service.List(context.Background(), tt.limit)

			if tt.mockError != nil {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, summaries, result)
			}
			mockRepo.AssertExpectations(t)
		})
	}
}
