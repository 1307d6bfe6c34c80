package config_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AntonStoeckl/querycache-stress-go/config"
	"github.com/AntonStoeckl/querycache-stress-go/stress/sqlexecutor"
)

func Test_DefaultRunConfig_IsValid(t *testing.T) {
	cfg := config.DefaultRunConfig()

	assert.NoError(t, cfg.Validate())
	assert.Equal(t, config.DriverSQLite, cfg.Driver)
	assert.Equal(t, 100, cfg.Attempts)
	assert.GreaterOrEqual(t, cfg.Workers, 1)
	assert.Equal(t, "name = COALESCE(name, 'x') AND name = ?", cfg.Query)
}

func Test_DefaultRunConfig_UsesTheExecutorDefaults(t *testing.T) {
	cfg := config.DefaultRunConfig()

	assert.Equal(t, sqlexecutor.DefaultProbePredicate, cfg.Query)
	assert.Equal(t, sqlexecutor.DefaultTableName, cfg.Table)
}

func Test_LoadRunConfig_OverridesOnlyTheGivenKeys(t *testing.T) {
	// arrange
	path := filepath.Join(t.TempDir(), "run.yaml")
	content := "driver: pgx\nworkers: 16\nattempt_timeout: 250ms\ntable: probe_target\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	// act
	cfg, err := config.LoadRunConfig(path)

	// assert
	require.NoError(t, err)
	assert.Equal(t, config.DriverPGX, cfg.Driver)
	assert.Equal(t, 16, cfg.Workers)
	assert.Equal(t, 250*time.Millisecond, cfg.AttemptTimeout)
	assert.Equal(t, "probe_target", cfg.Table)
	assert.Equal(t, 100, cfg.Attempts, "missing keys keep their defaults")
}

func Test_LoadRunConfig_ShouldFail(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := config.LoadRunConfig(filepath.Join(t.TempDir(), "missing.yaml"))

		assert.ErrorIs(t, err, config.ErrReadingConfigFileFailed)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "broken.yaml")
		require.NoError(t, os.WriteFile(path, []byte("workers: [1, 2"), 0o600))

		_, err := config.LoadRunConfig(path)

		assert.ErrorIs(t, err, config.ErrParsingConfigFileFailed)
	})
}

func Test_RunConfig_ApplyEnv(t *testing.T) {
	// arrange
	env := map[string]string{
		config.EnvDriver: "sqlx",
		config.EnvDSN:    "postgres://u:p@db:5432/x",
	}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	// act
	cfg := config.DefaultRunConfig().ApplyEnv(lookup)

	// assert
	assert.Equal(t, config.DriverSQLX, cfg.Driver)
	assert.Equal(t, "postgres://u:p@db:5432/x", cfg.DSN)
}

func Test_RunConfig_ApplyEnv_IgnoresEmptyValues(t *testing.T) {
	cfg := config.DefaultRunConfig().ApplyEnv(func(string) (string, bool) { return "", true })

	assert.Equal(t, config.DriverSQLite, cfg.Driver)
	assert.Empty(t, cfg.DSN)
}

func Test_RunConfig_ResolvedDSN(t *testing.T) {
	sqlite := config.DefaultRunConfig()
	postgres := config.DefaultRunConfig()
	postgres.Driver = config.DriverPostgres
	explicit := config.DefaultRunConfig()
	explicit.DSN = "file:explicit?mode=memory"

	assert.Equal(t, config.InMemorySQLiteDSN("abc"), sqlite.ResolvedDSN("abc"))
	assert.Equal(t, config.DefaultPostgresDSN(), postgres.ResolvedDSN("abc"))
	assert.Equal(t, "file:explicit?mode=memory", explicit.ResolvedDSN("abc"))
}

func Test_RunConfig_Validate_ShouldFail(t *testing.T) {
	testCases := []struct {
		name        string
		mutate      func(cfg *config.RunConfig)
		expectedErr error
		contains    string
	}{
		{name: "unknown driver", mutate: func(cfg *config.RunConfig) { cfg.Driver = "h2" }, expectedErr: config.ErrUnsupportedDriver, contains: `"h2"`},
		{name: "negative attempts", mutate: func(cfg *config.RunConfig) { cfg.Attempts = -1 }, expectedErr: config.ErrInvalidRunConfig, contains: "attempts"},
		{name: "negative max workers", mutate: func(cfg *config.RunConfig) { cfg.MaxWorkers = -1 }, expectedErr: config.ErrInvalidRunConfig, contains: "max_workers"},
		{name: "empty query", mutate: func(cfg *config.RunConfig) { cfg.Query = "" }, expectedErr: config.ErrInvalidRunConfig, contains: "query"},
		{name: "empty table", mutate: func(cfg *config.RunConfig) { cfg.Table = "" }, expectedErr: config.ErrInvalidRunConfig, contains: "table"},
		{name: "negative timeout", mutate: func(cfg *config.RunConfig) { cfg.AttemptTimeout = -time.Second }, expectedErr: config.ErrInvalidRunConfig, contains: "attempt_timeout"},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// arrange
			cfg := config.DefaultRunConfig()
			tc.mutate(&cfg)

			// act
			err := cfg.Validate()

			// assert
			assert.ErrorIs(t, err, tc.expectedErr)
			assert.ErrorContains(t, err, tc.contains)
		})
	}
}

func Test_RunConfig_Validate_AllowsNonPositiveWorkers(t *testing.T) {
	cfg := config.DefaultRunConfig()
	cfg.Workers = 0

	assert.NoError(t, cfg.Validate())
}
