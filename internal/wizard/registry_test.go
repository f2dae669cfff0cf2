package wizard

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/m04kA/SMC-CleaningBooking/internal/domain"
)

func TestRegistry_Lifecycle(t *testing.T) {
	env := newTestEnv()
	registry := NewRegistry(env.deps, env.cfg)

	session := registry.Create(&domain.UserProfile{FirstName: "Jane"})
	require.NotEmpty(t, session.ID())
	assert.Equal(t, 1, registry.Len())

	got, err := registry.Get(session.ID())
	require.NoError(t, err)
	assert.Same(t, session, got)

	require.NoError(t, registry.Close(session.ID()))
	_, err = registry.Get(session.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	assert.ErrorIs(t, registry.Close(session.ID()), ErrSessionNotFound)
}

func TestRegistry_Evict(t *testing.T) {
	env := newTestEnv()
	registry := NewRegistry(env.deps, env.cfg)

	idle := registry.Create(nil)
	active := registry.Create(nil)

	env.time.now = testNow.Add(20 * time.Minute)
	require.NoError(t, active.SelectService(context.Background(), homeService.ID))

	evicted := registry.Evict(testNow.Add(40 * time.Minute))
	assert.Equal(t, 1, evicted)

	_, err := registry.Get(idle.ID())
	assert.ErrorIs(t, err, ErrSessionNotFound)
	_, err = registry.Get(active.ID())
	assert.NoError(t, err)
}

func TestRegistry_RunClosesSessionsOnShutdown(t *testing.T) {
	env := newTestEnv()
	registry := NewRegistry(env.deps, env.cfg)
	session := registry.Create(nil)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- registry.Run(ctx, time.Hour) }()
	cancel()

	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not stop")
	}

	assert.Equal(t, 0, registry.Len())
	assert.ErrorIs(t, session.Next(), ErrSessionClosed)
}

func TestRegistry_MarkPersistedUnknownSession(t *testing.T) {
	env := newTestEnv()
	registry := NewRegistry(env.deps, env.cfg)

	assert.NotPanics(t, func() { registry.MarkPersisted("missing", 1) })
}
