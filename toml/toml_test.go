package toml_test

import (
	"testing"
	"time"

	"github.com/Sjoshi-TYCS/witsml/toml"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDuration(t *testing.T) {
	var d toml.Duration
	require.NoError(t, d.UnmarshalText([]byte("5m")))
	assert.Equal(t, 5*time.Minute, d.Duration())

	text, err := d.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "5m0s", string(text))

	assert.Error(t, d.UnmarshalText([]byte("soon")))

	t.Run("Flag", func(t *testing.T) {
		timeout := toml.Duration(time.Minute)
		fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
		fs.Var(&timeout, "growing-timeout", "")
		require.NoError(t, fs.Parse([]string{"--growing-timeout=90s"}))
		assert.Equal(t, 90*time.Second, timeout.Duration())
	})
}
