package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/mattdotroberts/on-this-day/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	UserID       uuid.UUID `json:"user_id"`
	AccessToken  string    `json:"token"`
	RefreshToken string    `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// GenerateBookRequest defines the payload for starting a book generation.
// The field constraints mirror domain.Prefs validation so that bad input
// fails fast with a field-level message.
type GenerateBookRequest struct {
	Name       string   `json:"name"        validate:"required,max=100"`
	BirthYear  int      `json:"birth_year"  validate:"required,min=1,max=2100"`
	BirthMonth string   `json:"birth_month" validate:"required"`
	BirthDay   int      `json:"birth_day"   validate:"required,min=1,max=31"`
	Interests  []string `json:"interests"   validate:"required,min=1,max=10,dive,required"`
	BlendLevel string   `json:"blend_level" validate:"required,oneof=focused diverse"`
	CoverStyle string   `json:"cover_style" validate:"required,oneof=classic minimalist whimsical cinematic retro"`
}

// Prefs converts the request into domain personalization preferences.
func (r GenerateBookRequest) Prefs() domain.Prefs {
	return domain.Prefs{
		Name:       r.Name,
		BirthYear:  r.BirthYear,
		BirthMonth: r.BirthMonth,
		BirthDay:   r.BirthDay,
		Interests:  r.Interests,
		BlendLevel: domain.BlendLevel(r.BlendLevel),
		CoverStyle: domain.CoverStyle(r.CoverStyle),
	}
}

// GenerateBookResponse defines the response for a queued generation.
type GenerateBookResponse struct {
	BookID uuid.UUID `json:"book_id"`
	JobID  uuid.UUID `json:"job_id"`
	Status string    `json:"status"`
}

// BookSummaryResponse is the list-view projection of a book: everything
// except the entry payload.
type BookSummaryResponse struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	Status     string    `json:"generation_status"`
	EntryCount int       `json:"entry_count"`
	CoverImage string    `json:"cover_image,omitempty"`
	CreatedAt  time.Time `json:"created_at"`
}

// NewBookSummaryResponse projects a domain book into its list view.
func NewBookSummaryResponse(b *domain.Book) BookSummaryResponse {
	return BookSummaryResponse{
		ID:         b.ID,
		Name:       b.Name,
		Status:     string(b.Status),
		EntryCount: b.EntryCount,
		CoverImage: b.CoverImage,
		CreatedAt:  b.CreatedAt,
	}
}

// JobResponse is the client view of a generation job. Lease internals stay
// server-side.
type JobResponse struct {
	ID           uuid.UUID  `json:"id"`
	BookID       uuid.UUID  `json:"book_id"`
	Status       string     `json:"status"`
	Progress     int        `json:"progress"`
	CurrentMonth int        `json:"current_month"`
	ErrorMessage string     `json:"error_message,omitempty"`
	RetryCount   int        `json:"retry_count"`
	CreatedAt    time.Time  `json:"created_at"`
	CompletedAt  *time.Time `json:"completed_at,omitempty"`
}

// NewJobResponse projects a domain job into its client view.
func NewJobResponse(j *domain.GenerationJob) JobResponse {
	return JobResponse{
		ID:           j.ID,
		BookID:       j.BookID,
		Status:       string(j.Status),
		Progress:     j.Progress,
		CurrentMonth: j.CurrentMonth,
		ErrorMessage: j.ErrorMessage,
		RetryCount:   j.RetryCount,
		CreatedAt:    j.CreatedAt,
		CompletedAt:  j.CompletedAt,
	}
}
