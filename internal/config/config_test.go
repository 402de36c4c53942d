package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSplitList(t *testing.T) {
	assert.Nil(t, splitList(""))
	assert.Equal(t, []string{"a"}, splitList("a"))
	assert.Equal(t, []string{"a", "b"}, splitList("a,b"))
	assert.Equal(t, []string{"a", "b"}, splitList(" a , b "))
	assert.Equal(t, []string{"a"}, splitList("a,,"))
}

func TestGetEnvOrDefault(t *testing.T) {
	t.Setenv("PAGECRAFT_TEST_KEY", "")
	assert.Equal(t, "fallback", GetEnvOrDefault("PAGECRAFT_TEST_KEY", "fallback"))

	t.Setenv("PAGECRAFT_TEST_KEY", "set")
	assert.Equal(t, "set", GetEnvOrDefault("PAGECRAFT_TEST_KEY", "fallback"))
}

func TestGetEnvIntOrDefault(t *testing.T) {
	t.Setenv("PAGECRAFT_TEST_PORT", "")
	assert.Equal(t, 8123, getEnvIntOrDefault("PAGECRAFT_TEST_PORT", 8123))

	t.Setenv("PAGECRAFT_TEST_PORT", "9000")
	assert.Equal(t, 9000, getEnvIntOrDefault("PAGECRAFT_TEST_PORT", 8123))

	t.Setenv("PAGECRAFT_TEST_PORT", "not-a-number")
	assert.Equal(t, 8123, getEnvIntOrDefault("PAGECRAFT_TEST_PORT", 8123))
}

func TestReadConfigFlags(t *testing.T) {
	t.Setenv("RECOVERY_ADMIN_EMAILS", "root@platform.test, ops@platform.test")
	t.Setenv("SUPER_ADMIN_TENANT_FALLBACK", "true")
	t.Setenv("ENV", "production")

	conf := ReadConfig()

	assert.Equal(t, []string{"root@platform.test", "ops@platform.test"}, conf.RECOVERY_ADMIN_EMAILS)
	assert.True(t, conf.SUPER_ADMIN_TENANT_FALLBACK)
	assert.True(t, conf.IsProduction())
}
