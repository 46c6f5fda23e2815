// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package platform

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net"
	"net/netip"
	"os"
	"strings"

	"github.com/miekg/dns"
	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"tailscale.com/atomicfile"
)

const defaultResolvConfPath = "/etc/resolv.conf"

var _ Configurator = (*ResolvConf)(nil)

// ResolvConf manages the nameserver lines of a resolv.conf file.
// The file is system wide; the interface is only checked for existence.
// Every line that is not a nameserver line is kept as is.
type ResolvConf struct {
	path   string
	lookup func(name string) (*net.Interface, error)
}

// NewResolvConf returns a configurator editing the file at path.
func NewResolvConf(path string) *ResolvConf {
	return &ResolvConf{
		path:   path,
		lookup: lookupInterface,
	}
}

// Name returns the configurator name
func (r *ResolvConf) Name() string {
	return BackendResolvConf
}

// Servers returns the nameservers of the family listed in the file
func (r *ResolvConf) Servers(_ context.Context, iface string, family dnsconf.Family) ([]netip.Addr, error) {
	if err := r.checkInterface(iface); err != nil {
		return nil, err
	}

	all, err := r.servers()
	if err != nil {
		return nil, err
	}
	return filterFamily(family, all), nil
}

// SetServers rewrites the nameserver lines. IPv4 servers are listed before IPv6 ones.
func (r *ResolvConf) SetServers(ctx context.Context, iface string, family dnsconf.Family, servers []netip.Addr) error {
	log := logger.FromContext(ctx).With("backend", r.Name(), "path", r.path, "family", family)
	if err := r.checkInterface(iface); err != nil {
		return err
	}

	content, err := os.ReadFile(r.path)
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return r.fileError("read", err)
	}

	current, err := r.servers()
	if err != nil && !errors.Is(err, fs.ErrNotExist) {
		return err
	}

	var v4, v6 []netip.Addr
	for _, f := range []dnsconf.Family{dnsconf.IPv4, dnsconf.IPv6} {
		list := filterFamily(f, current)
		if f == family {
			list = servers
		}
		if f == dnsconf.IPv4 {
			v4 = list
		} else {
			v6 = list
		}
	}

	updated := rewriteNameservers(content, append(v4, v6...))
	if err := atomicfile.WriteFile(r.path, updated, 0o644); err != nil {
		return r.fileError("write", err)
	}

	log.DebugContext(ctx, "Rewrote nameservers", "ipv4", v4, "ipv6", v6)
	return nil
}

func (r *ResolvConf) checkInterface(iface string) error {
	if iface == "" {
		return nil
	}
	_, err := r.lookup(iface)
	return err
}

// servers parses the file with the resolver configuration parser of miekg/dns.
func (r *ResolvConf) servers() ([]netip.Addr, error) {
	conf, err := dns.ClientConfigFromFile(r.path)
	if err != nil {
		return nil, r.fileError("parse", err)
	}

	var servers []netip.Addr
	for _, s := range conf.Servers {
		if addr, err := netip.ParseAddr(s); err == nil {
			servers = append(servers, addr)
		}
	}
	return servers, nil
}

func (r *ResolvConf) fileError(op string, err error) error {
	if errors.Is(err, fs.ErrPermission) {
		return fmt.Errorf("%w: %s %s: %w", dnsconf.ErrPrivilege, op, r.path, err)
	}
	return fmt.Errorf("failed to %s %s: %w", op, r.path, err)
}

// rewriteNameservers replaces all nameserver lines of content with servers.
// The new lines take the place of the first old nameserver line, or follow
// the leading comment block if there was none.
func rewriteNameservers(content []byte, servers []netip.Addr) []byte {
	var lines []string
	insertAt := -1
	headerEnd := 0
	inHeader := true

	scanner := bufio.NewScanner(bytes.NewReader(content))
	for scanner.Scan() {
		line := scanner.Text()
		trimmed := strings.TrimSpace(line)
		if inHeader && (strings.HasPrefix(trimmed, "#") || strings.HasPrefix(trimmed, ";")) {
			headerEnd = len(lines) + 1
		} else {
			inHeader = false
		}

		if fields := strings.Fields(trimmed); len(fields) > 0 && fields[0] == "nameserver" {
			if insertAt < 0 {
				insertAt = len(lines)
			}
			continue
		}
		lines = append(lines, line)
	}
	if insertAt < 0 {
		insertAt = headerEnd
	}

	ns := make([]string, 0, len(servers))
	for _, s := range servers {
		ns = append(ns, "nameserver "+s.String())
	}

	var b bytes.Buffer
	for _, line := range lines[:insertAt] {
		b.WriteString(line + "\n")
	}
	for _, line := range ns {
		b.WriteString(line + "\n")
	}
	for _, line := range lines[insertAt:] {
		b.WriteString(line + "\n")
	}
	return b.Bytes()
}

// resolvConfManagerHint reads the comment header of a resolv.conf file and
// returns the backend that generated it, or "" if there is no hint.
func resolvConfManagerHint(r io.Reader) string {
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		text := scanner.Text()
		if len(text) == 0 {
			continue
		}

		// The header ends at the first non-comment line.
		if text[0] != '#' {
			return ""
		}

		switch {
		case strings.Contains(text, "NetworkManager"):
			return BackendNetworkManager
		case strings.Contains(text, "systemd-resolved"):
			return BackendResolved
		case strings.Contains(text, "resolvconf"):
			return BackendResolvConf
		}
	}
	return ""
}
