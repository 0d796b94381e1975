package api

import (
	"context"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/job"
	"github.com/mattdotroberts/on-this-day/internal/service/auth"
)

// MockUserService mocks the service.UserService interface
type MockUserService struct {
	mock.Mock
}

func (m *MockUserService) Register(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) Authenticate(ctx context.Context, email, password string) (*domain.User, error) {
	args := m.Called(ctx, email, password)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

func (m *MockUserService) GetUser(ctx context.Context, userID uuid.UUID) (*domain.User, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}

// MockBookService mocks the service.BookService interface
type MockBookService struct {
	mock.Mock
}

func (m *MockBookService) CreateBookAndJob(
	ctx context.Context,
	ownerID uuid.UUID,
	prefs domain.Prefs,
) (*domain.Book, *domain.GenerationJob, error) {
	args := m.Called(ctx, ownerID, prefs)
	var book *domain.Book
	var genJob *domain.GenerationJob
	if args.Get(0) != nil {
		book = args.Get(0).(*domain.Book)
	}
	if args.Get(1) != nil {
		genJob = args.Get(1).(*domain.GenerationJob)
	}
	return book, genJob, args.Error(2)
}

func (m *MockBookService) GetBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.Book, error) {
	args := m.Called(ctx, bookID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Book), args.Error(1)
}

func (m *MockBookService) ListBooks(ctx context.Context, ownerID uuid.UUID) ([]*domain.Book, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.Book), args.Error(1)
}

func (m *MockBookService) GetJob(ctx context.Context, jobID, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	args := m.Called(ctx, jobID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationJob), args.Error(1)
}

func (m *MockBookService) GetJobByBook(ctx context.Context, bookID, ownerID uuid.UUID) (*domain.GenerationJob, error) {
	args := m.Called(ctx, bookID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GenerationJob), args.Error(1)
}

func (m *MockBookService) ListJobs(ctx context.Context, ownerID uuid.UUID) ([]*domain.GenerationJob, error) {
	args := m.Called(ctx, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*domain.GenerationJob), args.Error(1)
}

func (m *MockBookService) DeleteFailedJob(ctx context.Context, jobID, ownerID uuid.UUID) error {
	args := m.Called(ctx, jobID, ownerID)
	return args.Error(0)
}

// MockJWTService mocks the auth.JWTService interface
type MockJWTService struct {
	mock.Mock
}

func (m *MockJWTService) GenerateToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

func (m *MockJWTService) GenerateRefreshToken(ctx context.Context, userID uuid.UUID) (string, error) {
	args := m.Called(ctx, userID)
	return args.String(0), args.Error(1)
}

func (m *MockJWTService) ValidateRefreshToken(ctx context.Context, tokenString string) (*auth.Claims, error) {
	args := m.Called(ctx, tokenString)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*auth.Claims), args.Error(1)
}

// MockAdvancer mocks the JobAdvancer interface
type MockAdvancer struct {
	mock.Mock
}

func (m *MockAdvancer) Advance(ctx context.Context, jobID, ownerID uuid.UUID) (*job.AdvanceResult, error) {
	args := m.Called(ctx, jobID, ownerID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*job.AdvanceResult), args.Error(1)
}
