package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/adapter/http/templates"
	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/service"
)

const maxRequestBody = 1 << 20

type Handlers struct {
	jobs    JobService
	version string
}

func NewHandlers(jobs JobService, version string) *Handlers {
	return &Handlers{jobs: jobs, version: version}
}

type submitResponse struct {
	ID            int64            `json:"id"`
	Status        domain.JobStatus `json:"status"`
	QueuePosition int              `json:"queue_position"`
}

type jobResponse struct {
	*domain.Job
	QueuePosition int `json:"queue_position,omitempty"`
}

type errorResponse struct {
	Error     string `json:"error"`
	StepIndex *int   `json:"step_index,omitempty"`
	Token     string `json:"token,omitempty"`
}

func (h *Handlers) Health() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok", "version": h.version})
	}
}

func (h *Handlers) Submit() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxRequestBody)

		var req service.SubmitRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "request body too large")
				return
			}
			writeError(w, http.StatusBadRequest, "invalid JSON body")
			return
		}

		job, pos, err := h.jobs.Submit(r.Context(), req)
		if err != nil {
			var stepErr *domain.StepError
			switch {
			case errors.As(err, &stepErr):
				idx := stepErr.Index
				writeJSON(w, http.StatusUnprocessableEntity, errorResponse{
					Error:     stepErr.Error(),
					StepIndex: &idx,
					Token:     stepErr.Token,
				})
			case errors.Is(err, service.ErrInvalidJob):
				writeError(w, http.StatusBadRequest, err.Error())
			default:
				log.Error().Err(err).Msg("failed to submit job")
				writeError(w, http.StatusInternalServerError, "failed to enqueue job")
			}
			return
		}

		writeJSON(w, http.StatusAccepted, submitResponse{
			ID:            job.ID,
			Status:        job.Status,
			QueuePosition: pos,
		})
	}
}

func (h *Handlers) Get() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := h.loadJob(w, r)
		if !ok {
			return
		}
		writeJSON(w, http.StatusOK, jobResponse{Job: job, QueuePosition: h.position(r, job)})
	}
}

func (h *Handlers) List() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var filter domain.JobFilter
		if raw := r.URL.Query().Get("status"); raw != "" {
			st, err := domain.ParseJobStatus(raw)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			filter.Status = st
		}
		if raw := r.URL.Query().Get("limit"); raw != "" {
			n, err := strconv.Atoi(raw)
			if err != nil || n < 0 {
				writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
				return
			}
			filter.Limit = n
		}

		jobs, err := h.jobs.List(r.Context(), filter)
		if err != nil {
			log.Error().Err(err).Msg("failed to list jobs")
			writeError(w, http.StatusInternalServerError, "failed to list jobs")
			return
		}
		if jobs == nil {
			jobs = []*domain.Job{}
		}
		writeJSON(w, http.StatusOK, jobs)
	}
}

func (h *Handlers) View() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		job, ok := h.loadJob(w, r)
		if !ok {
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		if err := templates.JobPage(job, h.position(r, job)).Render(r.Context(), w); err != nil {
			log.Error().Err(err).Int64("job_id", job.ID).Msg("failed to render job page")
		}
	}
}

func (h *Handlers) loadJob(w http.ResponseWriter, r *http.Request) (*domain.Job, bool) {
	id, err := parseJobID(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid job id")
		return nil, false
	}
	job, err := h.jobs.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			writeError(w, http.StatusNotFound, "job not found")
			return nil, false
		}
		log.Error().Err(err).Int64("job_id", id).Msg("failed to load job")
		writeError(w, http.StatusInternalServerError, "failed to load job")
		return nil, false
	}
	return job, true
}

func (h *Handlers) position(r *http.Request, job *domain.Job) int {
	if job.Status != domain.JobStatusQueued {
		return 0
	}
	pos, err := h.jobs.QueuePosition(r.Context(), job.ID)
	if err != nil {
		log.Warn().Err(err).Int64("job_id", job.ID).Msg("failed to read queue position")
		return 0
	}
	return pos
}

func parseJobID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errors.New("invalid job id")
	}
	return id, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Debug().Err(err).Msg("failed to write response")
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
