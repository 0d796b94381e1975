package service

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/store"
)

// MockUserStore mocks the store.UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}

func (m *MockUserStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserStore) WithTx(tx *sql.Tx) store.UserStore {
	args := m.Called(tx)
	return args.Get(0).(store.UserStore)
}

// MockBookStore mocks the store.BookStore interface
type MockBookStore struct {
	mock.Mock
}

func (m *MockBookStore) Create(ctx context.Context, book *domain.Book) error {
	args := m.Called(ctx, book)
	return args.Error(0)
}

func (m *MockBookStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookStore) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Book), args.Error(1)
}

func (m *MockBookStore) UpdateEntryCount(ctx context.Context, id uuid.UUID, count int) error {
	args := m.Called(ctx, id, count)
	return args.Error(0)
}

func (m *MockBookStore) FinalizeContent(
	ctx context.Context,
	id uuid.UUID,
	entries []domain.Entry,
	coverImage string,
) error {
	args := m.Called(ctx, id, entries, coverImage)
	return args.Error(0)
}

func (m *MockBookStore) MarkGenerationFailed(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockBookStore) WithTx(tx *sql.Tx) store.BookStore {
	args := m.Called(tx)
	return args.Get(0).(store.BookStore)
}

// MockJobStore mocks the store.JobStore interface
type MockJobStore struct {
	mock.Mock
}

func (m *MockJobStore) Create(ctx context.Context, job *domain.GenerationJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockJobStore) GetForOwner(ctx context.Context, id, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	args := m.Called(ctx, id, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationJob), args.Error(1)
}

func (m *MockJobStore) GetByBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	args := m.Called(ctx, bookID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationJob), args.Error(1)
}

func (m *MockJobStore) ListForOwner(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationJob, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GenerationJob), args.Error(1)
}

func (m *MockJobStore) AcquireLease(
	ctx context.Context,
	id uuid.UUID,
	workerID string,
	now time.Time,
	timeout time.Duration,
) (bool, error) {
	args := m.Called(ctx, id, workerID, now, timeout)
	return args.Bool(0), args.Error(1)
}

func (m *MockJobStore) CommitUnitSuccess(ctx context.Context, id uuid.UUID, result store.UnitSuccess) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *MockJobStore) CommitUnitFailure(ctx context.Context, id uuid.UUID, result store.UnitFailure) error {
	args := m.Called(ctx, id, result)
	return args.Error(0)
}

func (m *MockJobStore) CommitFinalization(
	ctx context.Context,
	id uuid.UUID,
	sortedEntries []domain.Entry,
	completedAt time.Time,
) error {
	args := m.Called(ctx, id, sortedEntries, completedAt)
	return args.Error(0)
}

func (m *MockJobStore) Delete(ctx context.Context, id, ownerID uuid.UUID) error {
	args := m.Called(ctx, id, ownerID)
	return args.Error(0)
}

func (m *MockJobStore) WithTx(tx *sql.Tx) store.JobStore {
	args := m.Called(tx)
	return args.Get(0).(store.JobStore)
}
