package domain

import (
	"time"

	"github.com/google/uuid"
)

// GenerationStatus is the denormalized generation state carried on a book.
type GenerationStatus string

// Possible generation status values
const (
	GenerationStatusPending    GenerationStatus = "pending"
	GenerationStatusGenerating GenerationStatus = "generating"
	GenerationStatusComplete   GenerationStatus = "complete"
	GenerationStatusFailed     GenerationStatus = "failed"
)

// BlendLevel controls how interests are woven into daily entries.
type BlendLevel string

const (
	BlendLevelFocused BlendLevel = "focused"
	BlendLevelDiverse BlendLevel = "diverse"
)

// CoverStyle selects the cover illustration style.
type CoverStyle string

const (
	CoverStyleClassic    CoverStyle = "classic"
	CoverStyleMinimalist CoverStyle = "minimalist"
	CoverStyleWhimsical  CoverStyle = "whimsical"
	CoverStyleCinematic  CoverStyle = "cinematic"
	CoverStyleRetro      CoverStyle = "retro"
)

// Common validation errors for Book
var (
	ErrEmptyBookID      = NewValidationError("book ID", "cannot be empty", ErrValidation)
	ErrEmptyBookUserID  = NewValidationError("book user ID", "cannot be empty", ErrValidation)
	ErrEmptyBookName    = NewValidationError("book name", "cannot be empty", ErrValidation)
	ErrNoInterests      = NewValidationError("interests", "at least one is required", ErrValidation)
	ErrInvalidBirthDate = NewValidationError("birth date", "is not a valid calendar date", ErrValidation)
	ErrInvalidBlend     = NewValidationError("blend level", "is not a recognized value", ErrValidation)
	ErrInvalidCover     = NewValidationError("cover style", "is not a recognized value", ErrValidation)
	ErrInvalidGenStatus = NewValidationError("generation status", "is not a recognized value", ErrValidation)
)

// Prefs holds the personalization inputs that drive content synthesis.
type Prefs struct {
	Name       string     `json:"name"`
	BirthYear  int        `json:"birth_year"`
	BirthMonth string     `json:"birth_month"`
	BirthDay   int        `json:"birth_day"`
	Interests  []string   `json:"interests"`
	BlendLevel BlendLevel `json:"blend_level"`
	CoverStyle CoverStyle `json:"cover_style"`
}

// Book is the user-facing generated artifact: 365 calendar-day entries plus
// an optional cover image. A book in "generating" state is driven to
// completion by its generation job.
type Book struct {
	ID     uuid.UUID `json:"id"`
	UserID uuid.UUID `json:"user_id"`

	Prefs

	Entries    []Entry          `json:"entries"`
	CoverImage string           `json:"cover_image,omitempty"`
	Status     GenerationStatus `json:"generation_status"`
	EntryCount int              `json:"entry_count"`

	ShareToken string `json:"share_token,omitempty"`
	IsPublic   bool   `json:"is_public"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewBook creates a Book in generating state with no entries yet.
func NewBook(userID uuid.UUID, prefs Prefs, shareToken string) (*Book, error) {
	book := &Book{
		ID:         uuid.New(),
		UserID:     userID,
		Prefs:      prefs,
		Entries:    []Entry{},
		Status:     GenerationStatusGenerating,
		ShareToken: shareToken,
		IsPublic:   false,
		CreatedAt:  time.Now().UTC(),
		UpdatedAt:  time.Now().UTC(),
	}

	if err := book.Validate(); err != nil {
		return nil, err
	}

	return book, nil
}

// Validate checks if the Book has valid data.
func (b *Book) Validate() error {
	if b.ID == uuid.Nil {
		return ErrEmptyBookID
	}

	if b.UserID == uuid.Nil {
		return ErrEmptyBookUserID
	}

	if b.Name == "" {
		return ErrEmptyBookName
	}

	if len(b.Interests) == 0 {
		return ErrNoInterests
	}

	if !isValidMonthName(b.BirthMonth) || b.BirthDay < 1 || b.BirthDay > 31 {
		return ErrInvalidBirthDate
	}

	switch b.BlendLevel {
	case BlendLevelFocused, BlendLevelDiverse:
	default:
		return ErrInvalidBlend
	}

	switch b.CoverStyle {
	case CoverStyleClassic, CoverStyleMinimalist, CoverStyleWhimsical,
		CoverStyleCinematic, CoverStyleRetro:
	default:
		return ErrInvalidCover
	}

	if !isValidGenerationStatus(b.Status) {
		return ErrInvalidGenStatus
	}

	return nil
}

// MonthNames lists calendar month names in order, January first.
var MonthNames = [12]string{
	"January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December",
}

func isValidMonthName(name string) bool {
	for _, m := range MonthNames {
		if m == name {
			return true
		}
	}
	return false
}

func isValidGenerationStatus(status GenerationStatus) bool {
	switch status {
	case GenerationStatusPending, GenerationStatusGenerating,
		GenerationStatusComplete, GenerationStatusFailed:
		return true
	default:
		return false
	}
}
