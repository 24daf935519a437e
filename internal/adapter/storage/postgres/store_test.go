package postgres

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/bnema/renderfarm/internal/adapter/storage/storetest"
	"github.com/bnema/renderfarm/internal/port"
)

// Set RENDERFARM_TEST_POSTGRES_DSN to a throwaway database to run these.
func TestStore_JobStore(t *testing.T) {
	dsn := os.Getenv("RENDERFARM_TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("RENDERFARM_TEST_POSTGRES_DSN not set")
	}

	storetest.Run(t, func(t *testing.T) port.JobStore {
		ctx := context.Background()
		s, err := Connect(ctx, dsn, 4)
		require.NoError(t, err)
		_, err = s.pool.Exec(ctx, `TRUNCATE jobs RESTART IDENTITY`)
		require.NoError(t, err)
		t.Cleanup(func() { _ = s.Close() })
		return s
	})
}
