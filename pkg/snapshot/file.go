// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package snapshot

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/netip"
	"os"
	"path/filepath"
	"time"

	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"gopkg.in/yaml.v3"
	"tailscale.com/atomicfile"
)

var _ Store = (*FileStore)(nil)

// FileStore persists the snapshot as a YAML document so that a rollback
// works across invocations. Concurrent invocations race on the file.
type FileStore struct {
	path string
	fsys fs.FS
}

// record is the on-disk layout of a snapshot.
type record struct {
	Interface  string    `yaml:"interface,omitempty"`
	Backend    string    `yaml:"backend,omitempty"`
	CapturedAt time.Time `yaml:"capturedAt"`
	IPv4       slots     `yaml:"ipv4"`
	IPv6       slots     `yaml:"ipv6"`
}

type slots struct {
	Primary   string `yaml:"primary,omitempty"`
	Secondary string `yaml:"secondary,omitempty"`
}

// NewFileStore returns a store backed by the file at path.
// The file and its directory are created on the first Remember.
func NewFileStore(path string) *FileStore {
	return &FileStore{
		path: path,
		fsys: os.DirFS(filepath.Dir(path)),
	}
}

// Path returns the location of the snapshot file.
func (f *FileStore) Path() string {
	return f.path
}

// Remember writes the snapshot atomically, replacing any previous one.
func (f *FileStore) Remember(ctx context.Context, s Snapshot) error {
	log := logger.FromContext(ctx).With("path", f.path)

	b, err := yaml.Marshal(toRecord(s))
	if err != nil {
		return fmt.Errorf("failed to encode snapshot: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(f.path), 0o700); err != nil {
		log.ErrorContext(ctx, "Failed to create snapshot directory", "error", err)
		return fmt.Errorf("failed to create snapshot directory: %w", err)
	}

	if err := atomicfile.WriteFile(f.path, b, 0o600); err != nil {
		log.ErrorContext(ctx, "Failed to write snapshot file", "error", err)
		return fmt.Errorf("failed to write snapshot file: %w", err)
	}

	log.DebugContext(ctx, "Remembered snapshot", "interface", s.Interface)
	return nil
}

// Recall reads the snapshot file. A missing or empty file means the store is empty.
func (f *FileStore) Recall(ctx context.Context) (s Snapshot, err error) {
	log := logger.FromContext(ctx).With("path", f.path)

	file, err := f.fsys.Open(filepath.Base(f.path))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return s, dnsconf.ErrNoSnapshot
		}
		log.ErrorContext(ctx, "Failed to open snapshot file", "error", err)
		return s, fmt.Errorf("failed to open snapshot file: %w", err)
	}
	defer func() {
		cerr := file.Close()
		if cerr != nil {
			log.ErrorContext(ctx, "Failed to close snapshot file", "error", cerr)
		}
		err = errors.Join(cerr, err)
	}()

	b, err := io.ReadAll(file)
	if err != nil {
		log.ErrorContext(ctx, "Failed to read snapshot file", "error", err)
		return s, fmt.Errorf("failed to read snapshot file: %w", err)
	}

	if len(bytes.TrimSpace(b)) == 0 {
		log.WarnContext(ctx, "Snapshot file is empty, ignoring it")
		return s, dnsconf.ErrNoSnapshot
	}

	var r record
	if err := yaml.Unmarshal(b, &r); err != nil {
		log.ErrorContext(ctx, "Failed to parse snapshot file", "error", err)
		return s, fmt.Errorf("failed to parse snapshot file: %w", err)
	}

	return r.snapshot()
}

func toRecord(s Snapshot) record {
	return record{
		Interface:  s.Interface,
		Backend:    s.Backend,
		CapturedAt: s.CapturedAt.UTC(),
		IPv4:       toSlots(s.Addresses.Pair(dnsconf.IPv4)),
		IPv6:       toSlots(s.Addresses.Pair(dnsconf.IPv6)),
	}
}

func toSlots(primary, secondary netip.Addr) slots {
	var sl slots
	if primary.IsValid() {
		sl.Primary = primary.String()
	}
	if secondary.IsValid() {
		sl.Secondary = secondary.String()
	}
	return sl
}

func (r record) snapshot() (Snapshot, error) {
	s := Snapshot{
		Interface:  r.Interface,
		Backend:    r.Backend,
		CapturedAt: r.CapturedAt,
	}
	for f, sl := range map[dnsconf.Family]slots{dnsconf.IPv4: r.IPv4, dnsconf.IPv6: r.IPv6} {
		var pair [2]netip.Addr
		for i, raw := range []string{sl.Primary, sl.Secondary} {
			if raw == "" {
				continue
			}
			addr, err := dnsconf.ParseAddr(f, raw)
			if err != nil {
				return Snapshot{}, fmt.Errorf("invalid %s entry in snapshot file: %w", f.Label(), err)
			}
			pair[i] = addr
		}
		s.Addresses.SetPair(f, pair[0], pair[1])
	}
	if err := s.Addresses.Validate(); err != nil {
		return Snapshot{}, fmt.Errorf("invalid snapshot file: %w", err)
	}
	return s, nil
}
