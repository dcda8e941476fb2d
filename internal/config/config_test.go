package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plaquerisk/internal/errors"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"MODEL_DIR", "BASELINE_FILE", "USE_HEURISTIC_MODEL", "DATABASE_URL",
		"COHORT_TABLE", "EXPLAIN_MAX_PARALLEL", "CACHE_SIZE", "REQUEST_TIMEOUT",
	} {
		t.Setenv(key, "")
	}

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "ag_model", cfg.Model.Dir)
	assert.False(t, cfg.Model.UseHeuristic)
	assert.Empty(t, cfg.Database.URL)
	assert.Equal(t, "patient_cohort", cfg.Database.CohortTable)
	assert.Equal(t, 0, cfg.Explain.MaxParallel)
	assert.Equal(t, 1024, cfg.Cache.Size)
	assert.Equal(t, 30*time.Second, cfg.Server.Timeout)
}

func TestLoad_ReadsEnvironment(t *testing.T) {
	t.Setenv("MODEL_DIR", "/srv/models/current")
	t.Setenv("BASELINE_FILE", "/srv/cohort/baseline.csv")
	t.Setenv("USE_HEURISTIC_MODEL", "true")
	t.Setenv("DATABASE_URL", "postgres://localhost/risk")
	t.Setenv("EXPLAIN_MAX_PARALLEL", "4")
	t.Setenv("CACHE_SIZE", "256")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "/srv/models/current", cfg.Model.Dir)
	assert.Equal(t, "/srv/cohort/baseline.csv", cfg.Model.BaselineFile)
	assert.True(t, cfg.Model.UseHeuristic)
	assert.Equal(t, "postgres://localhost/risk", cfg.Database.URL)
	assert.Equal(t, 4, cfg.Explain.MaxParallel)
	assert.Equal(t, 256, cfg.Cache.Size)
	assert.Equal(t, 5*time.Second, cfg.Server.Timeout)
}

func TestLoad_RejectsInvalidValues(t *testing.T) {
	t.Setenv("EXPLAIN_MAX_PARALLEL", "-1")

	_, err := Load()
	require.Error(t, err)
	assert.Equal(t, errors.CodeConfigInvalid, errors.GetCode(err))
}

func TestLoad_IgnoresUnparsableNumbers(t *testing.T) {
	t.Setenv("CACHE_SIZE", "lots")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1024, cfg.Cache.Size)
}
