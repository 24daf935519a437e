package port

import (
	"context"

	"github.com/bnema/renderfarm/internal/domain"
)

// StatusReporter delivers status events. Implementations log failures and
// never return them.
type StatusReporter interface {
	Report(ctx context.Context, ev domain.StatusEvent)
}
