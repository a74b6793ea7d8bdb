package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	var c Config
	c.LoadDefaults()

	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", c.IdentityEndpoint)
	assert.Equal(t, "profile.db", c.CacheDSN)
	assert.Equal(t, "us-east-1", c.BlobRegion)
	assert.Equal(t, 10*time.Second, c.OpTimeout)
	assert.Empty(t, c.DocumentDSN)
	assert.Empty(t, c.BlobBucket)
}

func TestLoadConfig_UsesDefaultsBeforeParsing(t *testing.T) {
	origArgs := os.Args
	t.Cleanup(func() { os.Args = origArgs })
	os.Args = []string{"testbin"}

	cfg := LoadConfig()

	require.NotNil(t, cfg)
	assert.Equal(t, "https://identitytoolkit.googleapis.com/v1", cfg.IdentityEndpoint)
	assert.Equal(t, 10*time.Second, cfg.OpTimeout)
}
