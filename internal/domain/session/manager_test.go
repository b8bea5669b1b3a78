package session

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Fazirechic21212211212121/Richa-browser/internal/domain/catalog"
	"github.com/Fazirechic21212211212121/Richa-browser/internal/infrastructure/monitoring"
)

func newTestManager(t *testing.T, seed bool) *Manager {
	t.Helper()
	cat, err := catalog.Default()
	require.NoError(t, err)
	m := NewManager(ManagerConfig{Seed: seed}, cat, &recordingAdapter{}, nil)
	t.Cleanup(m.CloseAll)
	return m
}

func TestManagerCreateGet(t *testing.T) {
	m := newTestManager(t, false)

	s := m.Create()
	require.NotEmpty(t, s.ID)

	got, err := m.Get(s.ID)
	require.NoError(t, err)
	assert.Same(t, s, got)
	assert.True(t, got.View().ShowNewTabPage)

	_, err = m.Get("missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestManagerSessionsAreIndependent(t *testing.T) {
	m := newTestManager(t, false)
	a := m.Create()
	b := m.Create()
	require.NotEqual(t, a.ID, b.ID)

	a.Navigate("github.com")
	a.NewTab()

	assert.Len(t, a.View().Tabs, 2)
	assert.Len(t, b.View().Tabs, 1)
	assert.Len(t, a.History(), 1)
	assert.Empty(t, b.History())
}

func TestManagerSeed(t *testing.T) {
	m := newTestManager(t, true)
	s := m.Create()

	assert.Len(t, s.History(), 5)
	assert.Len(t, s.Bookmarks(), 3)

	s.Navigate("https://reactjs.org/docs")
	assert.True(t, s.View().IsBookmarked)

	// revisiting a seeded page moves it to the front
	s.Navigate("nodejs.org")
	entries := s.History()
	assert.Len(t, entries, 6)
	assert.Equal(t, "https://nodejs.org", entries[0].URL)
	assert.Equal(t, "https://reactjs.org/docs", entries[1].URL)
}

func TestManagerListAndClose(t *testing.T) {
	m := newTestManager(t, false)
	a := m.Create()
	b := m.Create()
	a.Navigate("github.com")

	list := m.List()
	require.Len(t, list, 2)
	assert.Equal(t, a.ID, list[0].ID)
	assert.Equal(t, "https://github.com", list[0].ActiveURL)
	assert.Equal(t, 1, list[1].Tabs)

	events, _ := b.Subscribe(1)
	require.NoError(t, m.Close(b.ID))
	_, open := <-events
	assert.False(t, open)

	assert.ErrorIs(t, m.Close(b.ID), ErrNotFound)
	assert.Len(t, m.List(), 1)

	stats := m.Stats()
	assert.Equal(t, 1, stats.Active)
	assert.Equal(t, int64(2), stats.Created)
	assert.NotNil(t, stats.LastCreated)
}

func TestManagerMetrics(t *testing.T) {
	metrics := monitoring.NewMetrics()
	m := newTestManager(t, false).WithMetrics(metrics)

	a := m.Create()
	m.Create()
	a.NewTab()
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.SessionsActive))
	assert.Equal(t, float64(2), testutil.ToFloat64(metrics.SessionsTotal))
	assert.Equal(t, float64(3), testutil.ToFloat64(metrics.TabsOpen))

	require.NoError(t, m.Close(a.ID))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.SessionsActive))
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.TabsOpen))
}
