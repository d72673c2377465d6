package obsolescence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/models"
)

func TestRulesStore_GetCreatesDefaults(t *testing.T) {
	store := NewRulesStore(newTestDB(t), nil)

	rules, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, models.ObsolescenceRulesID, rules.ID)
	assert.Equal(t, "10.0.19041", rules.WindowsMinVersion)
	assert.Equal(t, 8.0, rules.RAMMinGB)
	assert.Equal(t, 10.0, rules.DiskMinFreePercent)
	assert.True(t, rules.Enabled)

	// Second read returns the same row, not another default.
	again, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, rules.ID, again.ID)
}

func TestRulesStore_UpdateStampsActor(t *testing.T) {
	store := NewRulesStore(newTestDB(t), nil)
	ctx := actor.WithActor(context.Background(), actor.Actor{
		ID: 1, Username: "admin", Role: models.RoleAdmin,
	})

	rules, err := store.Update(ctx, RulesUpdate{
		WindowsMinVersion:  "10.0.22000",
		RAMMinGB:           16,
		DiskMinFreePercent: 15,
		Enabled:            true,
	})
	require.NoError(t, err)
	assert.Equal(t, "10.0.22000", rules.WindowsMinVersion)
	assert.Equal(t, 16.0, rules.RAMMinGB)
	assert.Equal(t, "admin", rules.UpdatedBy)

	reloaded, err := store.Get()
	require.NoError(t, err)
	assert.Equal(t, "10.0.22000", reloaded.WindowsMinVersion)
}

func TestRulesStore_UpdateRejectsBadThresholds(t *testing.T) {
	store := NewRulesStore(newTestDB(t), nil)
	ctx := context.Background()

	_, err := store.Update(ctx, RulesUpdate{RAMMinGB: -1})
	assert.Error(t, err)

	_, err = store.Update(ctx, RulesUpdate{DiskMinFreePercent: 120})
	assert.Error(t, err)
}
