package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stepClock struct {
	t time.Time
}

func (c *stepClock) now() time.Time {
	c.t = c.t.Add(time.Second)
	return c.t
}

func openTest(t *testing.T) (*SQLite, *stepClock) {
	t.Helper()
	clock := &stepClock{t: time.Date(2024, 2, 14, 12, 0, 0, 0, time.UTC)}
	s, err := Open(context.Background(), filepath.Join(t.TempDir(), "test.db"), WithClock(clock.now))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s, clock
}

func TestProgressRoundTrip(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()

	_, err := s.LoadProgress(ctx, "song1")
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, s.SaveProgress(ctx, "song1", 1))
	p, err := s.LoadProgress(ctx, "song1")
	require.NoError(t, err)
	assert.Equal(t, 1, p.Index)
	first := p.UpdatedAt

	require.NoError(t, s.SaveProgress(ctx, "song1", 0))
	p, err = s.LoadProgress(ctx, "song1")
	require.NoError(t, err)
	assert.Equal(t, 0, p.Index, "upsert replaces")
	assert.True(t, p.UpdatedAt.After(first))

	_, err = s.LoadProgress(ctx, "song2")
	assert.ErrorIs(t, err, ErrNotFound, "per song")
}

func TestRecordAndHistory(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()

	for i := range 3 {
		_, err := s.RecordReveal(ctx, Reveal{
			Session:  "sess",
			Song:     "song1",
			Index:    i,
			Coverage: 0.96,
			Marks:    4 + i,
			Forced:   i == 2,
			Elapsed:  time.Duration(i+1) * time.Second,
		})
		require.NoError(t, err)
	}

	all, err := s.History(ctx, 0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, 2, all[0].Index, "newest first")
	assert.True(t, all[0].Forced)
	assert.Equal(t, 3*time.Second, all[0].Elapsed)
	assert.InDelta(t, 0.96, all[0].Coverage, 1e-9)
	assert.NotEmpty(t, all[0].ID)
	assert.NotEqual(t, all[0].ID, all[1].ID)

	two, err := s.History(ctx, 2)
	require.NoError(t, err)
	assert.Len(t, two, 2)
}

func TestRecordKeepsGivenIDAndTime(t *testing.T) {
	s, _ := openTest(t)
	ctx := context.Background()
	at := time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

	r, err := s.RecordReveal(ctx, Reveal{ID: "fixed", At: at})
	require.NoError(t, err)
	assert.Equal(t, "fixed", r.ID)

	h, err := s.History(ctx, 1)
	require.NoError(t, err)
	require.Len(t, h, 1)
	assert.Equal(t, "fixed", h[0].ID)
	assert.True(t, at.Equal(h[0].At))

	_, err = s.RecordReveal(ctx, Reveal{ID: "fixed"})
	assert.Error(t, err, "duplicate id rejected")
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "persist.db")
	ctx := context.Background()

	s, err := Open(ctx, path)
	require.NoError(t, err)
	require.NoError(t, s.SaveProgress(ctx, "song3", 5))
	require.NoError(t, s.Close())

	s, err = Open(ctx, path)
	require.NoError(t, err)
	defer s.Close()
	p, err := s.LoadProgress(ctx, "song3")
	require.NoError(t, err)
	assert.Equal(t, 5, p.Index)
}

func TestService(t *testing.T) {
	svc := NewService(filepath.Join(t.TempDir(), "svc.db"), nil)
	assert.Equal(t, "store", svc.Name())
	require.NoError(t, svc.Init(context.Background()))
	require.NotNil(t, svc.Store())
	require.NoError(t, svc.Store().SaveProgress(context.Background(), "song1", 1))
	require.NoError(t, svc.Stop())
	require.NoError(t, svc.Stop())
}
