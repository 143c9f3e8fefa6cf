package sqlite_test

import (
	"context"
	"testing"

	"github.com/kmathews/zalert"
	"github.com/kmathews/zalert/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAlertLogService(t *testing.T) {
	t.Parallel()

	t.Run("logged hash becomes seen", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAlertLogService(db)
		ctx := context.Background()

		seen, err := svc.SeenAlert(ctx, "a1b2c3d4e5f60718")
		require.NoError(t, err)
		assert.False(t, seen)

		require.NoError(t, svc.LogAlert(ctx, "a1b2c3d4e5f60718", "3 new homes in Auburn", 3))

		seen, err = svc.SeenAlert(ctx, "a1b2c3d4e5f60718")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("re-logging the same hash is a no-op", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAlertLogService(db)
		ctx := context.Background()

		require.NoError(t, svc.LogAlert(ctx, "a1b2c3d4e5f60718", "3 new homes in Auburn", 3))
		require.NoError(t, svc.LogAlert(ctx, "a1b2c3d4e5f60718", "3 new homes in Auburn", 3))

		seen, err := svc.SeenAlert(ctx, "a1b2c3d4e5f60718")
		require.NoError(t, err)
		assert.True(t, seen)
	})

	t.Run("empty hash is invalid", func(t *testing.T) {
		t.Parallel()

		db := setupTestDB(t)
		svc := sqlite.NewAlertLogService(db)

		err := svc.LogAlert(context.Background(), "", "no hash", 0)
		require.Error(t, err)
		assert.Equal(t, zalert.EINVALID, zalert.ErrorCode(err))
	})
}
