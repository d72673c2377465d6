package audit

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sigat/asset-registry/pkg/actor"
	"github.com/sigat/asset-registry/pkg/models"
)

func actorCtx(username string) context.Context {
	return actor.WithActor(context.Background(), actor.Actor{
		ID: 5, Username: username, Role: models.RoleAdmin,
	})
}

func listAll(t *testing.T, store *Store) []Entry {
	t.Helper()
	entries, _, _, err := store.List(ListFilter{}, 100, "")
	require.NoError(t, err)
	return entries
}

func TestRecorder_CreateWithActor(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	asset := models.Asset{ID: 10, InventoryCode: "NB-0001", AssetType: models.AssetNotebook, Status: models.StatusInStorage}
	rec.Created(actorCtx("admin"), asset)

	entries := listAll(t, store)
	require.Len(t, entries, 1)
	e := entries[0]
	assert.Equal(t, ActionCreate, e.Action)
	assert.Equal(t, "assets", e.TargetTable)
	assert.Equal(t, uint(10), e.TargetID)
	assert.Equal(t, "admin", e.ActorUsername)
	require.NotNil(t, e.ActorID)
	assert.Equal(t, uint(5), *e.ActorID)
	assert.Equal(t, "NB-0001", e.Details["inventory_code"])
}

func TestRecorder_NoActorWritesNothing(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	rec.Created(context.Background(), models.Asset{ID: 1, InventoryCode: "PC-0001"})
	rec.Deleted(context.Background(), models.Asset{ID: 1, InventoryCode: "PC-0001"})

	assert.Empty(t, listAll(t, store))
}

func TestRecorder_UpdateLogsOnlyChangedFields(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	before := models.Asset{ID: 3, InventoryCode: "PC-0003", Brand: "Dell", Status: models.StatusInStorage}
	after := before
	after.Status = models.StatusAssigned

	rec.Updated(actorCtx("tech1"), before, after)

	entries := listAll(t, store)
	require.Len(t, entries, 1)
	changes, ok := entries[0].Details["changes"].(map[string]any)
	require.True(t, ok)
	assert.Contains(t, changes, "status")
	assert.NotContains(t, changes, "brand")
	assert.NotContains(t, changes, "inventory_code")
}

func TestRecorder_NoOpUpdateWritesNothing(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	a := models.Asset{ID: 3, InventoryCode: "PC-0003", Brand: "Dell"}
	rec.Updated(actorCtx("tech1"), a, a)

	assert.Empty(t, listAll(t, store))
}

func TestRecorder_UserPasswordNeverLogged(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	before := models.SystemUser{ID: 2, Username: "tech", PasswordHash: "old-hash", Role: models.RoleTechnician}
	after := before
	after.PasswordHash = "new-hash"
	after.Email = "tech@example.com"

	rec.Updated(actorCtx("admin"), before, after)

	entries := listAll(t, store)
	require.Len(t, entries, 1)
	changes := entries[0].Details["changes"].(map[string]any)
	assert.Contains(t, changes, "email")
	assert.NotContains(t, changes, "password_hash")
}

// A credential-only rotation produces an empty redacted diff and
// therefore no entry at all.
func TestRecorder_PasswordOnlyChangeSkipped(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	before := models.SystemUser{ID: 2, Username: "tech", PasswordHash: "old-hash"}
	after := before
	after.PasswordHash = "new-hash"

	rec.Updated(actorCtx("admin"), before, after)

	assert.Empty(t, listAll(t, store))
}

func TestRecorder_DeleteLogsSnapshot(t *testing.T) {
	store := newTestStore(t)
	rec := NewRecorder(store, nil)

	emp := models.Employee{ID: 8, RUT: "12.345.678-9", FirstName: "Ana", LastName: "Rojas", Email: "ana@example.com"}
	rec.Deleted(actorCtx("admin"), emp)

	entries := listAll(t, store)
	require.Len(t, entries, 1)
	assert.Equal(t, ActionDelete, entries[0].Action)
	assert.Equal(t, "employees", entries[0].TargetTable)
	assert.Equal(t, "12.345.678-9", entries[0].Details["rut"])
}
