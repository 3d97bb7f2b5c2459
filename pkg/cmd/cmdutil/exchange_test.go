package cmdutil

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/types"
)

func withSettings(t *testing.T, settings map[string]interface{}) {
	for key, value := range settings {
		viper.Set(key, value)
	}

	t.Cleanup(func() {
		for key := range settings {
			viper.Set(key, nil)
		}
	})
}

func TestNewSession(t *testing.T) {
	record := filepath.Join(t.TempDir(), "traffic.json")
	withSettings(t, map[string]interface{}{
		"exchange":     "bitteam",
		"retries":      uint64(2),
		"rate-limit":   "10/1s",
		"market-cache": "memory",
		"record":       record,
	})

	session, err := NewSession(true)
	require.NoError(t, err)
	assert.Equal(t, types.ExchangeBitteam, session.Exchange.Name())
	require.NotNil(t, session.recorder)

	require.NoError(t, session.Close())
	_, err = os.Stat(record)
	assert.NoError(t, err)
}

func TestNewSessionErrors(t *testing.T) {
	t.Run("exchange required", func(t *testing.T) {
		_, err := NewSession(true)
		assert.ErrorContains(t, err, "--exchange")
	})

	t.Run("bad rate limit", func(t *testing.T) {
		withSettings(t, map[string]interface{}{"exchange": "probit", "rate-limit": "fast"})
		_, err := NewSession(true)
		assert.Error(t, err)
	})

	t.Run("unknown cache", func(t *testing.T) {
		withSettings(t, map[string]interface{}{"exchange": "probit", "market-cache": "disk"})
		_, err := NewSession(true)
		assert.ErrorContains(t, err, "disk")
	})

	t.Run("missing credentials", func(t *testing.T) {
		withSettings(t, map[string]interface{}{"exchange": "novadax", "env-prefix": "CONNECTORS_TEST_NONE"})
		_, err := NewSession(false)
		assert.Error(t, err)
	})
}
