package cmdutil

import (
	"bytes"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c9s/connectors/pkg/types"
)

func TestRender(t *testing.T) {
	ticker := types.Ticker{Symbol: "BTC/USDT", Last: "0.00000001"}

	t.Run("table", func(t *testing.T) {
		viper.Set("output", "table")
		defer viper.Set("output", "")

		var buf bytes.Buffer
		rendered, err := Render(&buf, ticker)
		require.NoError(t, err)
		assert.False(t, rendered)
		assert.Zero(t, buf.Len())
	})

	t.Run("yaml keeps decimals", func(t *testing.T) {
		viper.Set("output", "yaml")
		defer viper.Set("output", "")

		var buf bytes.Buffer
		rendered, err := Render(&buf, ticker)
		require.NoError(t, err)
		assert.True(t, rendered)
		assert.Contains(t, buf.String(), "symbol: BTC/USDT\n")
		assert.Contains(t, buf.String(), "last: 0.00000001\n")
		assert.Contains(t, buf.String(), "bid: null\n")
	})

	t.Run("json", func(t *testing.T) {
		viper.Set("output", "json")
		defer viper.Set("output", "")

		var buf bytes.Buffer
		_, err := Render(&buf, ticker)
		require.NoError(t, err)
		assert.Contains(t, buf.String(), `"last": 0.00000001`)
	})

	t.Run("unknown", func(t *testing.T) {
		viper.Set("output", "xml")
		defer viper.Set("output", "")

		_, err := Render(&bytes.Buffer{}, ticker)
		assert.Error(t, err)
	})
}
