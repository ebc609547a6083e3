package store_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/scythe504/wordclash-backend/internal/store"
	"github.com/scythe504/wordclash-backend/internal/testutils"
)

// exerciseStore runs the behaviour every backend must share.
func exerciseStore(t *testing.T, s store.Store) {
	t.Helper()
	ctx := context.Background()

	_, err := s.Get(ctx, "1000")
	require.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Set(ctx, "1000", []byte(`{"roomId":"1000","status":"waiting"}`)))
	doc, err := s.Get(ctx, "1000")
	require.NoError(t, err)
	assert.JSONEq(t, `{"roomId":"1000","status":"waiting"}`, string(doc))

	require.NoError(t, s.Set(ctx, "1000", []byte(`{"roomId":"1000","status":"playing"}`)))
	doc, err = s.Get(ctx, "1000")
	require.NoError(t, err)
	assert.JSONEq(t, `{"roomId":"1000","status":"playing"}`, string(doc))

	require.NoError(t, s.Delete(ctx, "1000"))
	_, err = s.Get(ctx, "1000")
	assert.ErrorIs(t, err, store.ErrNotFound)

	require.NoError(t, s.Delete(ctx, "1000"), "deleting a missing key is a no-op")
}

func TestMemory(t *testing.T) {
	m := store.NewMemory()
	exerciseStore(t, m)
	assert.Equal(t, 0, m.Len())
}

func TestMemory_CopiesDocuments(t *testing.T) {
	ctx := context.Background()
	m := store.NewMemory()

	doc := []byte(`{"a":1}`)
	require.NoError(t, m.Set(ctx, "k", doc))
	doc[2] = 'b'

	got, err := m.Get(ctx, "k")
	require.NoError(t, err)
	assert.Equal(t, `{"a":1}`, string(got))
}

func TestPostgres(t *testing.T) {
	pg := testutils.SetupPostgres(t)
	exerciseStore(t, store.NewPostgres(pg.Pool))
}

func TestRedis(t *testing.T) {
	client := testutils.SetupRedis(t)
	s := store.NewRedis(client, "")
	exerciseStore(t, s)

	require.NoError(t, s.Set(context.Background(), "2000", []byte(`{}`)))
	exists, err := client.Exists(context.Background(), store.DefaultRedisPrefix+"2000").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}
