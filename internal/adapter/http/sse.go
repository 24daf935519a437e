package http

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/bnema/renderfarm/internal/domain"
)

const keepAliveInterval = 15 * time.Second

type SSEHandler struct {
	events    EventSource
	jobs      JobService
	keepAlive time.Duration
}

func NewSSEHandler(events EventSource, jobs JobService) *SSEHandler {
	return &SSEHandler{
		events:    events,
		jobs:      jobs,
		keepAlive: keepAliveInterval,
	}
}

// sseWrite writes an SSE event, handling multi-line data correctly.
func sseWrite(w http.ResponseWriter, eventName string, data string) {
	_, _ = fmt.Fprintf(w, "event: %s\n", eventName)
	for _, line := range strings.Split(data, "\n") {
		_, _ = fmt.Fprintf(w, "data: %s\n", line)
	}
	_, _ = fmt.Fprint(w, "\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

// sendKeepAlive writes an SSE comment to keep the connection active.
func sendKeepAlive(w http.ResponseWriter) {
	_, _ = fmt.Fprint(w, ": keep-alive\n\n")
	if f, ok := w.(http.Flusher); ok {
		f.Flush()
	}
}

func sendStatus(w http.ResponseWriter, ev domain.StatusEvent) error {
	data, err := json.Marshal(ev)
	if err != nil {
		return err
	}
	sseWrite(w, "status", string(data))
	return nil
}

// snapshotEvent describes a stored job as if it had just been reported.
func snapshotEvent(job *domain.Job) domain.StatusEvent {
	ev := domain.NewStatusEvent(job, job.Status, job.StatusText)
	ev.FinalURL = job.FinalURL
	ev.ThumbnailURL = job.ThumbnailURL
	return ev
}

// Events streams status changes for one job. The current state is sent
// first; the stream ends after a terminal status.
func (h *SSEHandler) Events() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := parseJobID(r)
		if err != nil {
			writeError(w, http.StatusBadRequest, "invalid job id")
			return
		}

		// Subscribe before reading the job so no transition slips between.
		ch := h.events.Subscribe(id)
		defer h.events.Unsubscribe(id, ch)

		job, err := h.jobs.Get(r.Context(), id)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				writeError(w, http.StatusNotFound, "job not found")
				return
			}
			writeError(w, http.StatusInternalServerError, "failed to load job")
			return
		}

		w.Header().Set("Content-Type", "text/event-stream")
		w.Header().Set("Cache-Control", "no-cache")
		w.Header().Set("Connection", "keep-alive")
		w.Header().Set("X-Accel-Buffering", "no")
		w.WriteHeader(http.StatusOK)

		if err := sendStatus(w, snapshotEvent(job)); err != nil || job.Status.IsTerminal() {
			return
		}

		ctx := r.Context()
		keepAlive := time.NewTicker(h.keepAlive)
		defer keepAlive.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-keepAlive.C:
				sendKeepAlive(w)
			case ev, ok := <-ch:
				if !ok {
					return
				}
				if err := sendStatus(w, ev); err != nil {
					return
				}
				if ev.Status.IsTerminal() {
					return
				}
			}
		}
	}
}
