package notify

import (
	"context"

	"github.com/bnema/renderfarm/internal/domain"
	"github.com/bnema/renderfarm/internal/port"
)

// Multi fans one event out to several reporters in order.
type Multi []port.StatusReporter

func (m Multi) Report(ctx context.Context, ev domain.StatusEvent) {
	for _, r := range m {
		if r != nil {
			r.Report(ctx, ev)
		}
	}
}

var _ port.StatusReporter = Multi(nil)
