package scenario

import (
	"bytes"
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lioncitydevops/carbon-calculator/internal/engine"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := OpenStore(filepath.Join(t.TempDir(), "nested", "scenarios.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = s.Close() })
	return s
}

func TestStore_SaveGetList(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	samples := Samples()
	for _, sc := range samples.Scenarios {
		id, err := s.Save(ctx, sc)
		require.NoError(t, err)
		assert.Equal(t, sc.ID, id)
	}

	got, err := s.Get(ctx, SampleEVFleet)
	require.NoError(t, err)
	want, _ := samples.Find(SampleEVFleet)
	assert.Equal(t, want.Activity, got.Activity)
	assert.Equal(t, "Replace all company vehicles with EVs", got.Description)
	assert.False(t, got.CreatedAt.IsZero())

	byName, err := s.Get(ctx, "Hybrid Remote Work")
	require.NoError(t, err)
	assert.Equal(t, SampleRemoteWork, byName.ID)

	records, err := s.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 5)
	assert.Equal(t, "50% Renewable Energy", records[0].Name)
	assert.Equal(t, "Hybrid Remote Work", records[4].Name)
}

func TestStore_SaveUpserts(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	sc, _ := Samples().Find(SampleRenewable)
	_, err := s.Save(ctx, sc)
	require.NoError(t, err)
	first, err := s.Get(ctx, sc.ID)
	require.NoError(t, err)

	sc.Activity.Scope2.Electricity = 100000
	sc.Description = "Go further"
	_, err = s.Save(ctx, sc)
	require.NoError(t, err)

	got, err := s.Get(ctx, sc.ID)
	require.NoError(t, err)
	assert.InDelta(t, 100000, got.Activity.Scope2.Electricity, 0)
	assert.Equal(t, "Go further", got.Description)
	assert.Equal(t, first.CreatedAt, got.CreatedAt)

	records, err := s.List(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 1)
}

func TestStore_GeneratedIDAndValidation(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	id, err := s.Save(ctx, Scenario{Name: "Heat pumps"})
	require.NoError(t, err)
	assert.Len(t, id, 26)

	_, err = s.Save(ctx, Scenario{ID: "x"})
	require.ErrorIs(t, err, ErrInvalidInput)
}

func TestStore_Delete(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	sc, _ := Samples().Find(SampleCombined)
	_, err := s.Save(ctx, sc)
	require.NoError(t, err)

	require.NoError(t, s.Delete(ctx, "Combined Strategy"))
	_, err = s.Get(ctx, SampleCombined)
	require.ErrorIs(t, err, ErrNotFound)

	require.ErrorIs(t, s.Delete(ctx, SampleCombined), ErrNotFound)
}

func TestStore_SetAndCompare(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)
	for _, sc := range Samples().Scenarios {
		_, err := s.Save(ctx, sc)
		require.NoError(t, err)
	}

	set, err := s.Set(ctx, SampleBaseline, []string{SampleRenewable, SampleCombined})
	require.NoError(t, err)
	require.Len(t, set.Scenarios, 3)
	assert.Equal(t, SampleBaseline, set.Scenarios[0].ID)

	cmp, err := Compare(ctx, engine.NewDefault(), set, Options{})
	require.NoError(t, err)
	assert.Equal(t, SampleCombined, cmp.Best)

	all, err := s.Set(ctx, SampleBaseline, nil)
	require.NoError(t, err)
	assert.Len(t, all.Scenarios, 5)

	_, err = s.Set(ctx, "missing", nil)
	require.ErrorIs(t, err, ErrNoBaseline)
}

func TestStore_Reopen(t *testing.T) {
	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "scenarios.db")

	s, err := OpenStore(path)
	require.NoError(t, err)
	sc, _ := Samples().Find(SampleBaseline)
	_, err = s.Save(ctx, sc)
	require.NoError(t, err)
	require.NoError(t, s.Close())

	reopened, err := OpenStore(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.Get(ctx, SampleBaseline)
	require.NoError(t, err)
	assert.Equal(t, sc.Activity, got.Activity)
}

func TestRenderRecords(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	var buf bytes.Buffer
	require.NoError(t, RenderRecords(&buf, engine.OutputTable, nil))
	assert.Equal(t, "No saved scenarios.\n", buf.String())

	buf.Reset()
	require.NoError(t, RenderRecords(&buf, engine.OutputJSON, nil))
	assert.Equal(t, "[]\n", buf.String())

	sc, _ := Samples().Find(SampleBaseline)
	_, err := s.Save(ctx, sc)
	require.NoError(t, err)
	records, err := s.List(ctx)
	require.NoError(t, err)

	buf.Reset()
	require.NoError(t, RenderRecords(&buf, engine.OutputTable, records))
	assert.Contains(t, buf.String(), "Current Baseline")
	assert.Contains(t, buf.String(), "ID")

	buf.Reset()
	require.NoError(t, RenderChanges(&buf, nil))
	assert.Equal(t, "No differences.\n", buf.String())
}
