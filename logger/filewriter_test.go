// This file is a modified redistribution of reopen (github.com/client9/reopen),
// which is governed by the following license notice:
//
// The MIT License (MIT)
//
// Copyright (c) 2015 Nick Galbreath
//
// Permission is hereby granted, free of charge, to any person obtaining a copy
// of this software and associated documentation files (the "Software"), to deal
// in the Software without restriction, including without limitation the rights
// to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the Software is
// furnished to do so, subject to the following conditions:
//
// The above copyright notice and this permission notice shall be included in all
// copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
// IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
// FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
// AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
// LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
// OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
// SOFTWARE.

package logger_test

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/Sjoshi-TYCS/witsml/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestReopenAppend makes sure reopening always appends to an existing file.
func TestReopenAppend(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "witsml.log")
	require.NoError(t, os.WriteFile(fname, []byte("line0\n"), 0600))

	f, err := logger.NewFileWriter(fname)
	require.NoError(t, err)

	_, err = f.Write([]byte("line1\n"))
	assert.NoError(t, err)
	assert.NoError(t, f.Reopen())
	_, err = f.Write([]byte("line2\n"))
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	out, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "line0\nline1\nline2\n", string(out))
}

// TestChangeInode checks that after the log file is rotated away, Reopen
// starts writing to a fresh file at the original path.
func TestChangeInode(t *testing.T) {
	fname := filepath.Join(t.TempDir(), "witsml.log")

	f, err := logger.NewFileWriter(fname)
	require.NoError(t, err)
	_, err = f.Write([]byte("line1\n"))
	assert.NoError(t, err)

	require.NoError(t, os.Rename(fname, fname+".orig"))
	_, err = f.Write([]byte("after1\n"))
	assert.NoError(t, err)

	assert.NoError(t, f.Reopen())
	_, err = f.Write([]byte("line2\n"))
	assert.NoError(t, err)
	assert.NoError(t, f.Close())

	out, err := os.ReadFile(fname)
	require.NoError(t, err)
	assert.Equal(t, "line2\n", string(out))

	orig, err := os.ReadFile(fname + ".orig")
	require.NoError(t, err)
	assert.Equal(t, "line1\nafter1\n", string(orig))
}

func TestWriteAfterClose(t *testing.T) {
	f, err := logger.NewFileWriter(filepath.Join(t.TempDir(), "witsml.log"))
	require.NoError(t, err)
	require.NoError(t, f.Close())
	assert.NoError(t, f.Close())

	_, err = f.Write([]byte("late\n"))
	assert.ErrorIs(t, err, os.ErrClosed)
}

func TestStandardLoggerLevels(t *testing.T) {
	var buf strings.Builder
	l := logger.NewLevelLogger(&buf, logger.ParseLevel("warn")).WithPrefix("[store] ")
	l.Infof("dropped %d", 1)
	l.Warnf("kept %d", 2)
	l.Errorf("kept %d", 3)

	out := buf.String()
	assert.NotContains(t, out, "dropped")
	assert.Contains(t, out, "[store] WARN:  kept 2")
	assert.Contains(t, out, "[store] ERROR: kept 3")
}

func TestBufferLogger(t *testing.T) {
	b := logger.NewBufferLogger()
	b.Debugf("hidden")
	b.Infof("object %s added", "w1")
	assert.Equal(t, "INFO:  object w1 added\n", b.String())
}
