package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/rgehrsitz/pvfin/internal/domain"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestSQLiteStore(t *testing.T) *SQLiteStore {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	st, err := NewSQLite(dbPath)
	require.NoError(t, err)
	t.Cleanup(func() { st.Close() }) //nolint:errcheck
	require.NoError(t, st.Migrate(context.Background()))
	return st
}

// tickingClock returns a clock that advances one minute per call.
func tickingClock() func() time.Time {
	t := time.Date(2026, 1, 1, 9, 0, 0, 0, time.UTC)
	return func() time.Time {
		t = t.Add(time.Minute)
		return t
	}
}

func sampleProject(name string) *domain.SavedProject {
	route := domain.DefaultRouteParameters()
	return &domain.SavedProject{
		Name:            name,
		Description:     "test site",
		Parameters:      domain.DefaultModelParameters(),
		Route:           &route,
		UseGridEstimate: true,
		Summary: &domain.SummaryMetrics{
			LCOE:      decimal.RequireFromString("118.09"),
			IRR:       decimal.RequireFromString("0.0856"),
			IRRStatus: domain.RateConverged,
		},
	}
}

func TestSQLite_MigrateIdempotent(t *testing.T) {
	st := newTestSQLiteStore(t)
	require.NoError(t, st.Migrate(context.Background()))
}

func TestSQLite_CreateAndGetProject(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateProject(ctx, sampleProject("North Field"))
	require.NoError(t, err)
	assert.NotEmpty(t, created.ID)
	assert.False(t, created.CreatedAt.IsZero())
	assert.True(t, created.CreatedAt.Equal(created.UpdatedAt))

	got, err := st.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Equal(t, "North Field", got.Name)
	assert.Equal(t, "test site", got.Description)
	assert.True(t, got.UseGridEstimate)
	assert.True(t, got.Parameters.CapacityMW.Equal(decimal.NewFromInt(28)))
	assert.Equal(t, 15, got.Parameters.ProjectLife)
	require.NotNil(t, got.Route)
	assert.True(t, got.Route.RoadFraction.Equal(decimal.RequireFromString("0.3")))
	require.NotNil(t, got.Summary)
	assert.True(t, got.Summary.LCOE.Equal(decimal.RequireFromString("118.09")))
	assert.Equal(t, domain.RateConverged, got.Summary.IRRStatus)
	assert.WithinDuration(t, created.CreatedAt, got.CreatedAt, time.Second)
}

func TestSQLite_CreateProjectWithoutRouteOrSummary(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateProject(ctx, &domain.SavedProject{Name: "Bare", Parameters: domain.DefaultModelParameters()})
	require.NoError(t, err)

	got, err := st.GetProject(ctx, created.ID)
	require.NoError(t, err)
	assert.Nil(t, got.Route)
	assert.Nil(t, got.Summary)
	assert.False(t, got.UseGridEstimate)
}

func TestSQLite_CreateProjectRequiresName(t *testing.T) {
	st := newTestSQLiteStore(t)

	_, err := st.CreateProject(context.Background(), sampleProject("  "))
	assert.Error(t, err)
}

func TestSQLite_GetProjectNotFound(t *testing.T) {
	st := newTestSQLiteStore(t)

	p, err := st.GetProject(context.Background(), "missing")
	assert.Nil(t, p)
	assert.True(t, IsNotFound(err))
}

func TestSQLite_ListProjects(t *testing.T) {
	st := newTestSQLiteStore(t)
	st.now = tickingClock()
	ctx := context.Background()

	for _, name := range []string{"Alpha Farm", "Beta Farm", "Gamma Roof"} {
		_, err := st.CreateProject(ctx, sampleProject(name))
		require.NoError(t, err)
	}

	all, err := st.ListProjects(ctx, ProjectFilter{})
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "Gamma Roof", all[0].Name, "most recently updated first")

	farms, err := st.ListProjects(ctx, ProjectFilter{Search: "Farm"})
	require.NoError(t, err)
	assert.Len(t, farms, 2)

	page, err := st.ListProjects(ctx, ProjectFilter{Limit: 1, Offset: 1})
	require.NoError(t, err)
	require.Len(t, page, 1)
	assert.Equal(t, "Beta Farm", page[0].Name)
}

func TestSQLite_ListProjectsEmpty(t *testing.T) {
	st := newTestSQLiteStore(t)

	projects, err := st.ListProjects(context.Background(), ProjectFilter{})
	require.NoError(t, err)
	assert.NotNil(t, projects)
	assert.Empty(t, projects)
}

func TestSQLite_UpdateProject(t *testing.T) {
	st := newTestSQLiteStore(t)
	st.now = tickingClock()
	ctx := context.Background()

	created, err := st.CreateProject(ctx, sampleProject("Original"))
	require.NoError(t, err)

	created.Name = "Renamed"
	created.Route = nil
	created.Parameters.CapacityMW = decimal.NewFromInt(10)
	updated, err := st.UpdateProject(ctx, created)
	require.NoError(t, err)

	assert.Equal(t, "Renamed", updated.Name)
	assert.Nil(t, updated.Route)
	assert.True(t, updated.Parameters.CapacityMW.Equal(decimal.NewFromInt(10)))
	assert.True(t, updated.UpdatedAt.After(updated.CreatedAt))
	assert.WithinDuration(t, created.CreatedAt, updated.CreatedAt, time.Second)
}

func TestSQLite_UpdateProjectNotFound(t *testing.T) {
	st := newTestSQLiteStore(t)
	p := sampleProject("Ghost")
	p.ID = "missing"

	_, err := st.UpdateProject(context.Background(), p)
	assert.True(t, IsNotFound(err))
}

func TestSQLite_DeleteProject(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	created, err := st.CreateProject(ctx, sampleProject("Doomed"))
	require.NoError(t, err)

	require.NoError(t, st.DeleteProject(ctx, created.ID))
	_, err = st.GetProject(ctx, created.ID)
	assert.True(t, IsNotFound(err))

	assert.True(t, IsNotFound(st.DeleteProject(ctx, created.ID)), "second delete finds nothing")
}

func TestSQLite_DuplicateProject(t *testing.T) {
	st := newTestSQLiteStore(t)
	ctx := context.Background()

	original, err := st.CreateProject(ctx, sampleProject("Template"))
	require.NoError(t, err)

	copied, err := st.DuplicateProject(ctx, original.ID, "Template v2")
	require.NoError(t, err)

	assert.NotEqual(t, original.ID, copied.ID)
	assert.Equal(t, "Template v2", copied.Name)
	assert.Equal(t, original.Description, copied.Description)
	assert.True(t, copied.Parameters.CapexPerMW.Equal(original.Parameters.CapexPerMW))
	require.NotNil(t, copied.Summary)
	assert.True(t, copied.Summary.LCOE.Equal(original.Summary.LCOE))

	_, err = st.DuplicateProject(ctx, "missing", "x")
	assert.True(t, IsNotFound(err))

	_, err = st.DuplicateProject(ctx, original.ID, "")
	assert.Error(t, err)
}
