package config_test

import (
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrymomot/permaqr/pkg/config"
)

type defaultsConfig struct {
	Name    string `env:"CFG_TEST_DEFAULT_NAME" envDefault:"permaqr"`
	Port    int    `env:"CFG_TEST_DEFAULT_PORT" envDefault:"8080"`
	Enabled bool   `env:"CFG_TEST_DEFAULT_ENABLED" envDefault:"true"`
}

type overrideConfig struct {
	Name string `env:"CFG_TEST_OVERRIDE_NAME" envDefault:"default"`
}

type cachedConfig struct {
	Value string `env:"CFG_TEST_CACHED"`
}

type requiredConfig struct {
	Value string `env:"CFG_TEST_REQUIRED,required"`
}

type fileConfig struct {
	Value string   `env:"CFG_TEST_FILE_VALUE"`
	List  []string `env:"CFG_TEST_FILE_LIST" envSeparator:","`
}

func TestLoad_Defaults(t *testing.T) {
	var cfg defaultsConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "permaqr", cfg.Name)
	assert.Equal(t, 8080, cfg.Port)
	assert.True(t, cfg.Enabled)
}

func TestLoad_Environment(t *testing.T) {
	t.Setenv("CFG_TEST_OVERRIDE_NAME", "from_env")

	var cfg overrideConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_env", cfg.Name)
}

func TestLoad_CachedPerType(t *testing.T) {
	t.Setenv("CFG_TEST_CACHED", "first")

	var first cachedConfig
	require.NoError(t, config.Load(&first))

	t.Setenv("CFG_TEST_CACHED", "second")
	var second cachedConfig
	require.NoError(t, config.Load(&second))
	assert.Equal(t, "first", second.Value)

	config.Reset()
	var third cachedConfig
	require.NoError(t, config.Load(&third))
	assert.Equal(t, "second", third.Value)
}

func TestLoad_MissingRequiredIsRetried(t *testing.T) {
	require.NoError(t, os.Unsetenv("CFG_TEST_REQUIRED"))

	var cfg requiredConfig
	err := config.Load(&cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, config.ErrParsingConfig)

	t.Setenv("CFG_TEST_REQUIRED", "now set")
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "now set", cfg.Value)
}

func TestLoad_NilPointer(t *testing.T) {
	var cfg *defaultsConfig
	assert.ErrorIs(t, config.Load(cfg), config.ErrNilPointer)
}

func TestMustLoad_Panics(t *testing.T) {
	require.NoError(t, os.Unsetenv("CFG_TEST_REQUIRED"))
	config.Reset()

	assert.Panics(t, func() {
		var cfg requiredConfig
		config.MustLoad(&cfg)
	})
}

func TestLoadEnv(t *testing.T) {
	t.Setenv("CFG_TEST_FILE_VALUE", "")
	require.NoError(t, os.Unsetenv("CFG_TEST_FILE_VALUE"))
	t.Cleanup(func() { _ = os.Unsetenv("CFG_TEST_FILE_LIST") })

	require.NoError(t, config.LoadEnv("testdata/.env.test"))

	var cfg fileConfig
	require.NoError(t, config.Load(&cfg))
	assert.Equal(t, "from_file", cfg.Value)
	assert.Equal(t, []string{"png", "svg", "jpeg"}, cfg.List)

	assert.ErrorIs(t, config.LoadEnv("testdata/missing.env"), config.ErrLoadingEnvFile)
}
