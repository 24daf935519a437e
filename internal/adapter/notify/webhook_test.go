package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port/mocks"
)

type recorder struct {
	mu     sync.Mutex
	bodies map[string][]map[string]any
}

func (r *recorder) handler(status int) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var body map[string]any
		_ = json.NewDecoder(req.Body).Decode(&body)
		r.mu.Lock()
		r.bodies[req.URL.Path] = append(r.bodies[req.URL.Path], body)
		r.mu.Unlock()
		w.WriteHeader(status)
	}
}

var finishedEvent = domain.StatusEvent{
	JobID:        7,
	ArchiveID:    "arc",
	RunID:        "run",
	Status:       domain.JobStatusFinished,
	Message:      "finished",
	SourceURL:    "https://src/v.mp4",
	FinalURL:     "https://cdn/arc/7/render.mp4",
	ThumbnailURL: "https://cdn/arc/7/thumbnail.jpg",
}

func TestWebhook_FinishedSendsBothPayloads(t *testing.T) {
	rec := &recorder{bodies: map[string][]map[string]any{}}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	w := NewWebhook(srv.URL+"/status", srv.URL+"/finished", time.Second)
	w.Report(context.Background(), finishedEvent)

	require.Len(t, rec.bodies["/status"], 1)
	assert.Equal(t, map[string]any{
		"archive_id": "arc", "item_id": float64(7), "run_id": "run", "status": "finished", "message": "finished",
	}, rec.bodies["/status"][0])

	require.Len(t, rec.bodies["/finished"], 1)
	fin := rec.bodies["/finished"][0]
	assert.Equal(t, "https://src/v.mp4", fin["item_url_original"])
	assert.Equal(t, "https://cdn/arc/7/render.mp4", fin["item_url_rendered"])
	assert.Equal(t, "https://cdn/arc/7/thumbnail.jpg", fin["item_url_rendered_thumbnail"])
}

func TestWebhook_ErrorOnlySendsStatus(t *testing.T) {
	rec := &recorder{bodies: map[string][]map[string]any{}}
	srv := httptest.NewServer(rec.handler(http.StatusOK))
	defer srv.Close()

	w := NewWebhook(srv.URL+"/status", srv.URL+"/finished", time.Second)
	w.Report(context.Background(), domain.StatusEvent{JobID: 1, Status: domain.JobStatusError, Message: "step 0 failed"})

	assert.Len(t, rec.bodies["/status"], 1)
	assert.Empty(t, rec.bodies["/finished"])
}

func TestWebhook_FailuresAreSwallowed(t *testing.T) {
	rec := &recorder{bodies: map[string][]map[string]any{}}
	srv := httptest.NewServer(rec.handler(http.StatusInternalServerError))
	defer srv.Close()

	w := NewWebhook(srv.URL+"/status", "http://127.0.0.1:1/unreachable", 200*time.Millisecond)
	assert.NotPanics(t, func() { w.Report(context.Background(), finishedEvent) })
	assert.Len(t, rec.bodies["/status"], 1)
}

func TestWebhook_NoURLs(t *testing.T) {
	w := NewWebhook("", "", time.Second)
	assert.NotPanics(t, func() { w.Report(context.Background(), finishedEvent) })
}

func TestMulti_FansOut(t *testing.T) {
	a := mocks.NewStatusReporterMock(t)
	b := mocks.NewStatusReporterMock(t)
	a.EXPECT().Report(mock.Anything, finishedEvent).Return().Once()
	b.EXPECT().Report(mock.Anything, finishedEvent).Return().Once()

	Multi{a, nil, b}.Report(context.Background(), finishedEvent)
}
