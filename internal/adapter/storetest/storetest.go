// Package storetest holds the behavioural checks every storage adapter must
// pass.
package storetest

import (
	"context"
	"testing"
	"time"

	"bmitrack/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// Stores is one adapter instance under test.
type Stores struct {
	KV       domain.KeyValueStore
	Users    domain.UserRepository
	Sessions domain.SessionRepository
}

// Run exercises the key-value, user and session contracts. newStores must
// return an empty backend on every call.
func Run(t *testing.T, newStores func(t *testing.T) Stores) {
	t.Run("KeyValue", func(t *testing.T) { testKeyValue(t, newStores(t)) })
	t.Run("Users", func(t *testing.T) { testUsers(t, newStores(t)) })
	t.Run("Sessions", func(t *testing.T) { testSessions(t, newStores(t)) })
}

func testKeyValue(t *testing.T, s Stores) {
	ctx := context.Background()

	_, err := s.KV.GetItem(ctx, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	require.NoError(t, s.KV.SetItem(ctx, "settings", []byte(`{"weight":70}`)))
	got, err := s.KV.GetItem(ctx, "settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"weight":70}`, string(got))

	require.NoError(t, s.KV.SetItem(ctx, "settings", []byte(`{"weight":71}`)))
	got, err = s.KV.GetItem(ctx, "settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"weight":71}`, string(got), "SetItem must replace the whole document")

	require.NoError(t, s.KV.SetItem(ctx, "history", []byte(`[]`)))
	got, err = s.KV.GetItem(ctx, "settings")
	require.NoError(t, err)
	assert.JSONEq(t, `{"weight":71}`, string(got), "keys must be independent")
}

func testUsers(t *testing.T, s Stores) {
	ctx := context.Background()

	u, err := s.Users.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	assert.Nil(t, u)

	count, err := s.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 0, count)

	created, err := s.Users.Create(ctx, "bob", "hash")
	require.NoError(t, err)
	assert.Equal(t, "bob", created.Username)
	assert.NotZero(t, created.ID)

	byName, err := s.Users.GetByUsername(ctx, "bob")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, created.ID, byName.ID)
	assert.Equal(t, "hash", byName.PasswordHash)

	byID, err := s.Users.GetByID(ctx, created.ID)
	require.NoError(t, err)
	require.NotNil(t, byID)
	assert.Equal(t, "bob", byID.Username)

	missing, err := s.Users.GetByID(ctx, created.ID+1000)
	require.NoError(t, err)
	assert.Nil(t, missing)

	_, err = s.Users.Create(ctx, "bob", "other")
	assert.Error(t, err, "usernames must be unique")

	count, err = s.Users.Count(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

func testSessions(t *testing.T, s Stores) {
	ctx := context.Background()

	user, err := s.Users.Create(ctx, "alice", "")
	require.NoError(t, err)

	require.NoError(t, s.Sessions.Create(ctx, user.ID, "live", "ua", "10.0.0.1", time.Now().Add(time.Hour)))
	require.NoError(t, s.Sessions.Create(ctx, user.ID, "stale", "ua", "10.0.0.1", time.Now().Add(-time.Hour)))

	sess, err := s.Sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	require.NotNil(t, sess)
	assert.Equal(t, user.ID, sess.UserID)
	assert.Equal(t, "ua", sess.UserAgent)
	assert.Equal(t, "10.0.0.1", sess.IP)

	require.NoError(t, s.Sessions.DeleteExpired(ctx))
	stale, err := s.Sessions.GetByToken(ctx, "stale")
	require.NoError(t, err)
	assert.Nil(t, stale)

	require.NoError(t, s.Sessions.Delete(ctx, "live"))
	sess, err = s.Sessions.GetByToken(ctx, "live")
	require.NoError(t, err)
	assert.Nil(t, sess)

	unknown, err := s.Sessions.GetByToken(ctx, "never-issued")
	require.NoError(t, err)
	assert.Nil(t, unknown)
}
