package notify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

type statusPayload struct {
	ArchiveID string `json:"archive_id"`
	ItemID    int64  `json:"item_id"`
	RunID     string `json:"run_id"`
	Status    string `json:"status"`
	Message   string `json:"message,omitempty"`
}

type finishedPayload struct {
	ArchiveID         string `json:"archive_id"`
	ItemID            int64  `json:"item_id"`
	RunID             string `json:"run_id"`
	OriginalURL       string `json:"item_url_original"`
	RenderedURL       string `json:"item_url_rendered"`
	RenderedThumbnail string `json:"item_url_rendered_thumbnail"`
}

// Webhook posts every status change to statusURL and, for finished jobs,
// the artifact URLs to finishedURL. Either URL may be empty.
type Webhook struct {
	client      *http.Client
	statusURL   string
	finishedURL string
}

func NewWebhook(statusURL, finishedURL string, timeout time.Duration) *Webhook {
	return &Webhook{
		client:      &http.Client{Timeout: timeout},
		statusURL:   statusURL,
		finishedURL: finishedURL,
	}
}

func (w *Webhook) Report(ctx context.Context, ev domain.StatusEvent) {
	if w.statusURL != "" {
		w.send(ctx, w.statusURL, ev, statusPayload{
			ArchiveID: ev.ArchiveID,
			ItemID:    ev.JobID,
			RunID:     ev.RunID,
			Status:    string(ev.Status),
			Message:   ev.Message,
		})
	}
	if w.finishedURL != "" && ev.Status == domain.JobStatusFinished {
		w.send(ctx, w.finishedURL, ev, finishedPayload{
			ArchiveID:         ev.ArchiveID,
			ItemID:            ev.JobID,
			RunID:             ev.RunID,
			OriginalURL:       ev.SourceURL,
			RenderedURL:       ev.FinalURL,
			RenderedThumbnail: ev.ThumbnailURL,
		})
	}
}

func (w *Webhook) send(ctx context.Context, url string, ev domain.StatusEvent, payload any) {
	if err := w.post(ctx, url, payload); err != nil {
		log.Warn().
			Err(&domain.NotificationError{Target: url, Err: err}).
			Int64("job_id", ev.JobID).
			Str("status", string(ev.Status)).
			Msg("webhook delivery failed")
	}
}

func (w *Webhook) post(ctx context.Context, url string, payload any) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := w.client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode >= 300 {
		return fmt.Errorf("unexpected status %s", resp.Status)
	}
	return nil
}

var _ port.StatusReporter = (*Webhook)(nil)
