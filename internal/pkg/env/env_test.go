package env

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestGetEnvPrefersLoadedMap(t *testing.T) {
	t.Setenv("PG_TEST_KEY", "from-os")
	Env = map[string]string{"PG_TEST_KEY": "from-file"}
	t.Cleanup(func() { Env = nil })

	assert.Equal(t, "from-file", GetEnv("PG_TEST_KEY", "def"))
}

func TestGetEnvFallsBackToOSAndDefault(t *testing.T) {
	Env = nil
	t.Setenv("PG_TEST_OS", "from-os")

	assert.Equal(t, "from-os", GetEnv("PG_TEST_OS", "def"))
	assert.Equal(t, "def", GetEnv("PG_TEST_MISSING", "def"))
}

func TestTypedGetters(t *testing.T) {
	Env = map[string]string{
		"B_OK":  "true",
		"B_BAD": "maybe",
		"F_OK":  "15.5",
		"F_BAD": "abc",
		"D_OK":  "20s",
		"D_BAD": "soon",
	}
	t.Cleanup(func() { Env = nil })

	assert.True(t, GetBool("B_OK", false))
	assert.True(t, GetBool("B_BAD", true))
	assert.False(t, GetBool("B_MISSING", false))

	assert.Equal(t, 15.5, GetFloat("F_OK", 1))
	assert.Equal(t, 1.0, GetFloat("F_BAD", 1))

	assert.Equal(t, 20*time.Second, GetDuration("D_OK", time.Second))
	assert.Equal(t, time.Second, GetDuration("D_BAD", time.Second))
}

func TestIsDev(t *testing.T) {
	Env = map[string]string{"APP_ENV": "dev"}
	t.Cleanup(func() { Env = nil })
	assert.True(t, IsDev())

	Env = map[string]string{"APP_ENV": "prod"}
	assert.False(t, IsDev())
}
