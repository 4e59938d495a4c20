//go:build integration
// +build integration

package db

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/skydev929/us-resume-v2/internal/types"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	databaseURL := os.Getenv("TEST_DATABASE_URL")
	if databaseURL == "" {
		t.Skip("TEST_DATABASE_URL not set")
	}

	database, err := Connect(context.Background(), databaseURL)
	require.NoError(t, err)
	require.NoError(t, database.EnsureSchema(context.Background()))
	return database
}

func TestProfileRoundTrip_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()

	ctx := context.Background()
	key := "test-" + uuid.NewString()

	record := &types.ProfileRecord{
		Key:      key,
		Name:     "Jane Doe",
		Email:    "jane@example.com",
		Location: "Austin, TX",
		Experience: []types.ExperienceEntry{
			{Title: "Senior Engineer", Company: "Acme LLC", StartDate: "2015-01-01", EndDate: "present"},
			{Title: "Engineer", Company: "Initech", StartDate: "2012-06-01", EndDate: "2014-12-01"},
		},
		Education: []types.EducationEntry{
			{Degree: "BS Computer Science", School: "UT Austin", GraduationDate: "2012"},
		},
	}

	require.NoError(t, database.UpsertProfile(ctx, record))

	got, err := database.GetProfile(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, "Jane Doe", got.Name)
	require.Len(t, got.Experience, 2)
	assert.Equal(t, "Acme LLC", got.Experience[0].Company)
	require.Len(t, got.Education, 1)

	// Upsert replaces the nested lists.
	record.Experience = record.Experience[:1]
	require.NoError(t, database.UpsertProfile(ctx, record))
	got, err = database.GetProfile(ctx, key)
	require.NoError(t, err)
	assert.Len(t, got.Experience, 1)
}

func TestGetProfile_Missing_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()

	got, err := database.GetProfile(context.Background(), "does-not-exist-"+uuid.NewString())
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestRunAuditTrail_Integration(t *testing.T) {
	if testing.Short() {
		t.Skip("Skipping integration test")
	}

	database := setupTestDB(t)
	defer database.Close()

	ctx := context.Background()

	runID, err := database.CreateRun(ctx, "jane", "https://example.com/job", "gemini-2.5-flash")
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, runID)

	run, err := database.GetRun(ctx, runID)
	require.NoError(t, err)
	require.NotNil(t, run)
	assert.Equal(t, RunStatusRunning, run.Status)
	assert.Nil(t, run.CompletedAt)

	err = database.CompleteRun(ctx, runID, RunOutcome{
		Status:           RunStatusCompleted,
		Fallback:         true,
		MergeStrategy:    "profile",
		Years:            11,
		PromptTokens:     1200,
		CompletionTokens: 700,
		TotalTokens:      1900,
	})
	require.NoError(t, err)

	run, err = database.GetRun(ctx, runID)
	require.NoError(t, err)
	assert.Equal(t, RunStatusCompleted, run.Status)
	assert.True(t, run.Fallback)
	assert.Equal(t, "profile", run.MergeStrategy)
	assert.Equal(t, 1900, run.TotalTokens)
	assert.NotNil(t, run.CompletedAt)

	runs, err := database.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.NotEmpty(t, runs)
}
