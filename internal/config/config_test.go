package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// ---------------------------------------------------------------------------
// Helper function tests
// ---------------------------------------------------------------------------

func TestGetEnv(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string // nil = don't set; pointer to distinguish "" from unset
		fallback string
		want     string
	}{
		{name: "returns fallback when unset", key: "VITRIN_TEST_GETENV_UNSET", setVal: nil, fallback: "default", want: "default"},
		{name: "returns env value when set", key: "VITRIN_TEST_GETENV_SET", setVal: strPtr("custom"), fallback: "default", want: "custom"},
		{name: "returns fallback when empty string", key: "VITRIN_TEST_GETENV_EMPTY", setVal: strPtr(""), fallback: "default", want: "default"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnv(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvInt(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback int
		want     int
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "VITRIN_TEST_INT_UNSET", setVal: nil, fallback: 42, want: 42},
		{name: "parses valid int", key: "VITRIN_TEST_INT_VALID", setVal: strPtr("8080"), fallback: 0, want: 8080},
		{name: "returns fallback for empty string", key: "VITRIN_TEST_INT_EMPTY", setVal: strPtr(""), fallback: 25, want: 25},
		{name: "errors on non-numeric", key: "VITRIN_TEST_INT_NAN", setVal: strPtr("abc"), fallback: 0, wantErr: true},
		{name: "errors on float", key: "VITRIN_TEST_INT_FLOAT", setVal: strPtr("3.14"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvInt(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvDuration(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback time.Duration
		want     time.Duration
		wantErr  bool
	}{
		{name: "returns fallback when unset", key: "VITRIN_TEST_DUR_UNSET", setVal: nil, fallback: time.Minute, want: time.Minute},
		{name: "parses seconds", key: "VITRIN_TEST_DUR_SEC", setVal: strPtr("30s"), fallback: 0, want: 30 * time.Second},
		{name: "parses compound", key: "VITRIN_TEST_DUR_COMPOUND", setVal: strPtr("1h30m"), fallback: 0, want: 90 * time.Minute},
		{name: "errors on bare number", key: "VITRIN_TEST_DUR_BARE", setVal: strPtr("30"), fallback: 0, wantErr: true},
		{name: "errors on garbage", key: "VITRIN_TEST_DUR_BAD", setVal: strPtr("soon"), fallback: 0, wantErr: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got, err := getEnvDuration(tc.key, tc.fallback)
			if tc.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.key)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestGetEnvList(t *testing.T) {
	tests := []struct {
		name     string
		key      string
		setVal   *string
		fallback []string
		want     []string
	}{
		{name: "returns fallback when unset", key: "VITRIN_TEST_LIST_UNSET", setVal: nil, fallback: []string{"a"}, want: []string{"a"}},
		{name: "splits on comma", key: "VITRIN_TEST_LIST_SPLIT", setVal: strPtr("a,b,c"), fallback: nil, want: []string{"a", "b", "c"}},
		{name: "trims whitespace", key: "VITRIN_TEST_LIST_WS", setVal: strPtr(" a , b "), fallback: nil, want: []string{"a", "b"}},
		{name: "drops empty elements", key: "VITRIN_TEST_LIST_EMPTY", setVal: strPtr("a,,b,"), fallback: nil, want: []string{"a", "b"}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if tc.setVal != nil {
				t.Setenv(tc.key, *tc.setVal)
			}

			got := getEnvList(tc.key, tc.fallback)
			assert.Equal(t, tc.want, got)
		})
	}
}

// ---------------------------------------------------------------------------
// Load + validate tests
// ---------------------------------------------------------------------------

// setRequiredEnv sets the minimum environment for Load to succeed.
func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("VITRIN_PLATFORM_DOMAIN", "vitrin.app")
	t.Setenv("VITRIN_JWT_SECRET", "0123456789abcdef0123456789abcdef")
}

func TestLoad(t *testing.T) {
	t.Run("defaults with required env", func(t *testing.T) {
		setRequiredEnv(t)

		cfg, err := Load()

		require.NoError(t, err)
		assert.Equal(t, "vitrin.app", cfg.Platform.Domain)
		assert.Equal(t, 30*time.Second, cfg.Platform.ResolverMemoTTL)
		assert.Equal(t, ":8080", cfg.Server.Addr)
		assert.Equal(t, 5*time.Minute, cfg.Cache.ContentStaleTime)
		assert.Equal(t, 10*time.Minute, cfg.Cache.FeatureStaleTime)
		assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
	})

	t.Run("missing platform domain fails", func(t *testing.T) {
		t.Setenv("VITRIN_PLATFORM_DOMAIN", "")
		t.Setenv("VITRIN_JWT_SECRET", "0123456789abcdef0123456789abcdef")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "VITRIN_PLATFORM_DOMAIN")
	})

	t.Run("platform domain must be bare hostname", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("VITRIN_PLATFORM_DOMAIN", "https://vitrin.app/")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "bare hostname")
	})

	t.Run("short jwt secret fails", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("VITRIN_JWT_SECRET", "tooshort")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "32 characters")
	})

	t.Run("invalid db port fails", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("VITRIN_DB_PORT", "70000")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "VITRIN_DB_PORT")
	})

	t.Run("negative stale time fails", func(t *testing.T) {
		setRequiredEnv(t)
		t.Setenv("VITRIN_CACHE_CONTENT_STALE", "-1m")

		_, err := Load()

		require.Error(t, err)
		assert.Contains(t, err.Error(), "VITRIN_CACHE_CONTENT_STALE")
	})
}

func TestDSN(t *testing.T) {
	t.Parallel()

	db := DatabaseConfig{
		Host:     "db.internal",
		Port:     5433,
		User:     "vitrin",
		Password: "secret",
		DBName:   "vitrin_prod",
		SSLMode:  "require",
	}

	assert.Equal(t,
		"host=db.internal port=5433 user=vitrin password=secret dbname=vitrin_prod sslmode=require",
		db.DSN())
}

func strPtr(s string) *string { return &s }
