// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

// Package test provides fs.FS doubles for exercising snapshot file handling.
package test

import (
	"io"
	"io/fs"
)

// MockFS is an fs.FS whose Open behavior is supplied by the test.
type MockFS struct {
	OpenFunc func(name string) (fs.File, error)
}

// Open calls OpenFunc.
func (m *MockFS) Open(name string) (fs.File, error) {
	return m.OpenFunc(name)
}

// MockFile serves Content from memory.
type MockFile struct {
	// Content is returned by subsequent Read calls.
	Content []byte
	// ReadErr, if set, is returned by Read once Content is exhausted instead of io.EOF.
	ReadErr error
	// CloseFunc, if set, is returned by Close.
	CloseFunc func() error

	readPos int
}

// Read copies the unread part of Content into b.
func (mf *MockFile) Read(b []byte) (int, error) {
	if mf.readPos >= len(mf.Content) {
		if mf.ReadErr != nil {
			return 0, mf.ReadErr
		}
		return 0, io.EOF
	}
	n := copy(b, mf.Content[mf.readPos:])
	mf.readPos += n
	return n, nil
}

// Close calls CloseFunc if set.
func (mf *MockFile) Close() error {
	if mf.CloseFunc != nil {
		return mf.CloseFunc()
	}
	return nil
}

func (mf *MockFile) Stat() (fs.FileInfo, error) {
	return nil, nil
}
