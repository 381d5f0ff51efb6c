package ctl

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sjoshi-TYCS/witsml/server"
	"github.com/Sjoshi-TYCS/witsml/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCallCommand_Run(t *testing.T) {
	srv := server.NewCommand(os.Stdin, io.Discard, io.Discard)
	srv.Config.Bind = "localhost:0"
	srv.Config.DataDir = t.TempDir()
	srv.Config.Storage.Backend = storage.InmemBackend
	require.NoError(t, srv.Start())
	defer srv.Close()

	wells := filepath.Join(t.TempDir(), "wells.xml")
	require.NoError(t, os.WriteFile(wells, []byte(
		`<wells version="1.4.1.1"><well uid="w1"><name>Well 01</name><timeZone>Z</timeZone></well></wells>`), 0600))

	call := func(fn, file, options string, stdin io.Reader) (string, error) {
		out := &bytes.Buffer{}
		cm := NewCallCommand(stdin, out, io.Discard)
		cm.Host = srv.URL()
		cm.Function = fn
		cm.WMLTypeIn = "well"
		cm.XMLFile = file
		cm.OptionsIn = options
		err := cm.Run(context.Background())
		return out.String(), err
	}

	out, err := call("AddToStore", wells, "", os.Stdin)
	require.NoError(t, err)
	assert.Equal(t, "w1\n", out)

	_, err = call("AddToStore", wells, "", os.Stdin)
	assert.Error(t, err)

	query := strings.NewReader(`<wells version="1.4.1.1"><well uid="w1"/></wells>`)
	out, err = call("GetFromStore", "-", "returnElements=all", query)
	require.NoError(t, err)
	assert.Contains(t, out, "Well 01")

	_, err = call("Frobnicate", "", "", os.Stdin)
	assert.Error(t, err)
}
