package api

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/mattdotroberts/on-this-day/internal/api/shared"
	"github.com/mattdotroberts/on-this-day/internal/domain"
	"github.com/mattdotroberts/on-this-day/internal/service"
)

// BookHandler handles book-related API requests.
type BookHandler struct {
	bookService service.BookService
	logger      *slog.Logger
}

// NewBookHandler creates a new BookHandler with the given dependencies.
func NewBookHandler(bookService service.BookService, logger *slog.Logger) *BookHandler {
	return &BookHandler{
		bookService: bookService,
		logger:      logger.With("component", "book_handler"),
	}
}

// Generate handles POST /api/generate. It validates the personalization
// preferences and atomically creates the book plus its pending job; no
// synthesis happens here.
func (h *BookHandler) Generate(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	var req GenerateBookRequest
	if err := shared.DecodeJSON(r, &req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid request format")
		return
	}
	if err := shared.ValidateRequest(req); err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, SanitizeValidationError(err))
		return
	}

	book, job, err := h.bookService.CreateBookAndJob(r.Context(), userID, req.Prefs())
	if err != nil {
		if errors.Is(err, domain.ErrValidation) {
			shared.RespondWithError(w, r, http.StatusBadRequest, err.Error())
			return
		}
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to start book generation", err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusCreated, GenerateBookResponse{
		BookID: book.ID,
		JobID:  job.ID,
		Status: string(job.Status),
	})
}

// GetBook handles GET /api/books/{id}, returning the full book including
// its entries.
func (h *BookHandler) GetBook(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	bookID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID")
		return
	}

	book, err := h.bookService.GetBook(r.Context(), bookID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, book)
}

// ListBooks handles GET /api/books, returning the owner's books without
// entry payloads.
func (h *BookHandler) ListBooks(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	books, err := h.bookService.ListBooks(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list books", err)
		return
	}

	summaries := make([]BookSummaryResponse, 0, len(books))
	for _, b := range books {
		summaries = append(summaries, NewBookSummaryResponse(b))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, summaries)
}
