package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	st, err := Open(filepath.Join(t.TempDir(), "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() })
	return st
}

func TestResumeRoundTrip(t *testing.T) {
	st := openTestStore(t)
	repo := st.ResumeRepo()
	ctx := context.Background()

	got, err := repo.Get(ctx, "net-101")
	require.NoError(t, err)
	assert.Nil(t, got, "missing course yields nil, not an error")

	require.NoError(t, repo.Save(ctx, ResumePosition{CourseID: "net-101", ContentID: "x2", Position: 1}))
	got, err = repo.Get(ctx, "net-101")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "x2", got.ContentID)
	assert.Equal(t, 1, got.Position)

	// Navigation overwrites the previous position.
	require.NoError(t, repo.Save(ctx, ResumePosition{CourseID: "net-101", ContentID: "x3", Position: 2}))
	got, err = repo.Get(ctx, "net-101")
	require.NoError(t, err)
	assert.Equal(t, "x3", got.ContentID)

	require.NoError(t, repo.Clear(ctx, "net-101"))
	got, err = repo.Get(ctx, "net-101")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestHistoryAppendAndList(t *testing.T) {
	st := openTestStore(t)
	repo := st.HistoryRepo()
	ctx := context.Background()

	events := []HistoryEvent{
		{Kind: KindVisit, CourseID: "net-101", ContentID: "x1"},
		{Kind: KindCompletion, CourseID: "net-101", ContentID: "x1", Trigger: "auto"},
		{Kind: KindCompletion, CourseID: "net-101", ContentID: "x2", Trigger: "manual"},
		{Kind: KindVisit, CourseID: "other", ContentID: "y1"},
	}
	for _, e := range events {
		require.NoError(t, repo.Append(ctx, e))
	}

	recent, err := repo.ListRecent(ctx, "net-101", 10)
	require.NoError(t, err)
	assert.Len(t, recent, 3, "history is scoped per course")
	for _, e := range recent {
		assert.NotEmpty(t, e.ID, "ids are assigned on append")
		assert.False(t, e.CreatedAt.IsZero())
	}

	completions, err := repo.CountByKind(ctx, "net-101", KindCompletion)
	require.NoError(t, err)
	assert.Equal(t, 2, completions)
}
