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

package logger

import (
	"os"
	"sync"
)

// logFileFlags opens a log file for appending, creating it when missing.
const logFileFlags = os.O_WRONLY | os.O_APPEND | os.O_CREATE

// FileWriter appends to a log file that can be reopened in place, so that
// external rotation (rename then SIGHUP) moves writes to a fresh file.
type FileWriter struct {
	mu   sync.Mutex
	path string
	perm os.FileMode
	file *os.File
}

// NewFileWriter opens path for appending with owner-only permissions.
func NewFileWriter(path string) (*FileWriter, error) {
	w := &FileWriter{path: path, perm: 0600}
	if err := w.open(); err != nil {
		return nil, err
	}
	return w, nil
}

// open replaces the current handle. The caller holds mu, or has sole
// access during construction.
func (w *FileWriter) open() error {
	if w.file != nil {
		_ = w.file.Close()
		w.file = nil
	}
	f, err := os.OpenFile(w.path, logFileFlags, w.perm)
	if err != nil {
		return err
	}
	w.file = f
	return nil
}

// Reopen closes the file and opens path again.
func (w *FileWriter) Reopen() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.open()
}

func (w *FileWriter) Write(p []byte) (int, error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return 0, os.ErrClosed
	}
	return w.file.Write(p)
}

// Close closes the file. Later writes fail with os.ErrClosed.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.file == nil {
		return nil
	}
	err := w.file.Close()
	w.file = nil
	return err
}
