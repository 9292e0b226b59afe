package testutils

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/alchemorsel/pantry/internal/domain/ingredient"
	"github.com/alchemorsel/pantry/internal/domain/pantry"
	"github.com/alchemorsel/pantry/internal/domain/recipe"
	"github.com/alchemorsel/pantry/internal/domain/shared"
	"github.com/alchemorsel/pantry/internal/ports/outbound"
)

// MockRecipeRepository provides a mock implementation of RecipeRepository
type MockRecipeRepository struct {
	mock.Mock
}

var _ outbound.RecipeRepository = (*MockRecipeRepository)(nil)

func (m *MockRecipeRepository) Create(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Update(ctx context.Context, r *recipe.Recipe) error {
	return m.Called(ctx, r).Error(0)
}

func (m *MockRecipeRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func (m *MockRecipeRepository) FindByID(ctx context.Context, id uuid.UUID) (*recipe.Recipe, error) {
	args := m.Called(ctx, id)
	r, _ := args.Get(0).(*recipe.Recipe)
	return r, args.Error(1)
}

func (m *MockRecipeRepository) List(ctx context.Context, offset, limit int) ([]*recipe.Recipe, int, error) {
	args := m.Called(ctx, offset, limit)
	recipes, _ := args.Get(0).([]*recipe.Recipe)
	return recipes, args.Int(1), args.Error(2)
}

// MockPantryRepository provides a mock implementation of PantryRepository.
// Update applies fn to the pantry configured for Load when the expectation
// returns no error.
type MockPantryRepository struct {
	mock.Mock
}

var _ outbound.PantryRepository = (*MockPantryRepository)(nil)

func (m *MockPantryRepository) Load(ctx context.Context) (*pantry.Pantry, error) {
	args := m.Called(ctx)
	p, _ := args.Get(0).(*pantry.Pantry)
	return p, args.Error(1)
}

func (m *MockPantryRepository) Update(ctx context.Context, fn func(p *pantry.Pantry) error) (*pantry.Pantry, error) {
	args := m.Called(ctx, fn)
	if err := args.Error(1); err != nil {
		return nil, err
	}
	p, _ := args.Get(0).(*pantry.Pantry)
	if p == nil {
		p = pantry.New()
	}
	if err := fn(p); err != nil {
		return nil, err
	}
	return p, nil
}

// MockCacheRepository provides a mock implementation of CacheRepository
type MockCacheRepository struct {
	mock.Mock
}

var _ outbound.CacheRepository = (*MockCacheRepository)(nil)

func (m *MockCacheRepository) Get(ctx context.Context, key string) ([]byte, error) {
	args := m.Called(ctx, key)
	data, _ := args.Get(0).([]byte)
	return data, args.Error(1)
}

func (m *MockCacheRepository) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	return m.Called(ctx, key, value, ttl).Error(0)
}

func (m *MockCacheRepository) Delete(ctx context.Context, key string) error {
	return m.Called(ctx, key).Error(0)
}

func (m *MockCacheRepository) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

// RecordingPublisher keeps every published event
type RecordingPublisher struct {
	Events []shared.DomainEvent
}

var _ outbound.EventPublisher = (*RecordingPublisher)(nil)

func (p *RecordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.Events = append(p.Events, events...)
	return nil
}

// Names returns the names of the recorded events in order
func (p *RecordingPublisher) Names() []string {
	names := make([]string, len(p.Events))
	for i, e := range p.Events {
		names[i] = e.EventName()
	}
	return names
}

// MockMetricsRecorder provides a mock implementation of MetricsRecorder
type MockMetricsRecorder struct {
	mock.Mock
}

var _ outbound.MetricsRecorder = (*MockMetricsRecorder)(nil)

func (m *MockMetricsRecorder) RecordAnalysis(flow string, summary ingredient.Summary, duration time.Duration) {
	m.Called(flow, summary, duration)
}

func (m *MockMetricsRecorder) RecordScaling(lines int, err error) {
	m.Called(lines, err)
}

func (m *MockMetricsRecorder) RecordCacheLookup(hit bool) {
	m.Called(hit)
}

func (m *MockMetricsRecorder) RecordBulkWrite(operation string, applied, skipped int) {
	m.Called(operation, applied, skipped)
}
