package api

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/mattdotroberts/on-this-day/internal/api/shared"
	"github.com/mattdotroberts/on-this-day/internal/job"
	"github.com/mattdotroberts/on-this-day/internal/service"
)

// JobAdvancer performs one externally-triggered tick of a generation job.
// Satisfied by *job.Driver.
type JobAdvancer interface {
	Advance(ctx context.Context, jobID, ownerID uuid.UUID) (*job.AdvanceResult, error)
}

// JobHandler handles generation-job API requests.
type JobHandler struct {
	bookService service.BookService
	advancer    JobAdvancer
	logger      *slog.Logger
}

// NewJobHandler creates a new JobHandler with the given dependencies.
func NewJobHandler(
	bookService service.BookService,
	advancer JobAdvancer,
	logger *slog.Logger,
) *JobHandler {
	return &JobHandler{
		bookService: bookService,
		advancer:    advancer,
		logger:      logger.With("component", "job_handler"),
	}
}

// Advance handles POST /api/jobs/{id}/advance. Each call performs at most
// one month of work; clients poll until the returned status is terminal.
func (h *JobHandler) Advance(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	jobID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	result, err := h.advancer.Advance(r.Context(), jobID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, result)
}

// GetJob handles GET /api/jobs/{id}.
func (h *JobHandler) GetJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	jobID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	j, err := h.bookService.GetJob(r.Context(), jobID, userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, NewJobResponse(j))
}

// ListJobs handles GET /api/jobs. With a bookId query parameter it returns
// the single job driving that book; without one it lists the owner's jobs.
func (h *JobHandler) ListJobs(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	if rawBookID := r.URL.Query().Get("bookId"); rawBookID != "" {
		bookID, err := uuid.Parse(rawBookID)
		if err != nil {
			shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid book ID")
			return
		}

		j, err := h.bookService.GetJobByBook(r.Context(), bookID, userID)
		if err != nil {
			shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
				GetSafeErrorMessage(err), err)
			return
		}

		shared.RespondWithJSON(w, r, http.StatusOK, []JobResponse{NewJobResponse(j)})
		return
	}

	jobs, err := h.bookService.ListJobs(r.Context(), userID)
	if err != nil {
		shared.RespondWithErrorAndLog(w, r, http.StatusInternalServerError,
			"Failed to list jobs", err)
		return
	}

	responses := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		responses = append(responses, NewJobResponse(j))
	}

	shared.RespondWithJSON(w, r, http.StatusOK, responses)
}

// DeleteJob handles DELETE /api/jobs/{id}. Only terminally failed jobs can
// be deleted, freeing the owner to start a new generation.
func (h *JobHandler) DeleteJob(w http.ResponseWriter, r *http.Request) {
	userID, ok := getUserIDFromContext(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusUnauthorized, "Authentication required")
		return
	}

	jobID, err := getPathUUID(r, "id")
	if err != nil {
		shared.RespondWithError(w, r, http.StatusBadRequest, "Invalid job ID")
		return
	}

	if err := h.bookService.DeleteFailedJob(r.Context(), jobID, userID); err != nil {
		shared.RespondWithErrorAndLog(w, r, MapErrorToStatusCode(err),
			GetSafeErrorMessage(err), err)
		return
	}

	shared.RespondWithJSON(w, r, http.StatusOK, map[string]bool{"deleted": true})
}
