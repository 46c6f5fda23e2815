// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/telekom/switch-dns/internal/helper"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/platform"
	"github.com/telekom/switch-dns/pkg/switcher"
	"github.com/telekom/switch-dns/test"
)

var (
	homeSet  = test.Set("192.168.1.1", "", "", "")
	quad9Set = test.Set("9.9.9.9", "149.112.112.112", "2620:fe::fe", "2620:fe::9")
)

// env is a configured command environment backed by a fake OS
type env struct {
	os       *test.FakeOS
	cfgPath  string
	snapPath string
	elevated bool
}

func newEnv(t *testing.T, initial dnsconf.AddressSet, extraConfig string) *env {
	t.Helper()
	dir := t.TempDir()
	e := &env{
		os:       test.NewFakeOS(initial),
		cfgPath:  filepath.Join(dir, "config.yaml"),
		snapPath: filepath.Join(dir, "state", "previous.yaml"),
		elevated: true,
	}
	cfg := fmt.Sprintf("interface: %s\nsnapshot:\n  path: %s\n%s", test.Interface, e.snapPath, extraConfig)
	require.NoError(t, os.WriteFile(e.cfgPath, []byte(cfg), 0o600))

	configurator := e.os.Configurator()
	oldNew, oldOpts := newConfigurator, extraOptions
	newConfigurator = func(context.Context, string, string) (platform.Configurator, error) {
		return configurator, nil
	}
	extraOptions = []switcher.Option{
		switcher.WithElevation(func() bool { return e.elevated }),
		switcher.WithVerifyRetry(helper.RetryConfig{}),
	}
	t.Cleanup(func() {
		newConfigurator, extraOptions = oldNew, oldOpts
		viper.Reset()
	})
	return e
}

// run executes the command tree and returns its standard output
func (e *env) run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	viper.Reset()
	var out bytes.Buffer
	c := BuildCmd("test")
	c.SetOut(&out)
	c.SetErr(&bytes.Buffer{})
	c.SetArgs(append([]string{"-c", e.cfgPath}, args...))
	err := c.ExecuteContext(context.Background())
	return out.String(), err
}

func TestGet(t *testing.T) {
	tests := []struct {
		name    string
		args    []string
		want    string
		wantErr error
	}{
		{
			name: "current by default",
			args: []string{"get"},
			want: "IPv4 Primary DNS: 192.168.1.1\n",
		},
		{
			name: "group",
			args: []string{"get", "Cloudflare"},
			want: "IPv6 Primary DNS: 2606:4700:4700::1111\n" +
				"IPv6 Reserve DNS: 2606:4700:4700::1001\n" +
				"IPv4 Primary DNS: 1.1.1.1\n" +
				"IPv4 Reserve DNS: 1.0.0.1\n",
		},
		{
			name:    "previous before any change",
			args:    []string{"get", "/prev"},
			wantErr: dnsconf.ErrNoSnapshot,
		},
		{
			name:    "unknown group",
			args:    []string{"get", "nope"},
			wantErr: dnsconf.ErrUnknownGroup{Token: "nope"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, homeSet, "")
			out, err := e.run(t, tt.args...)
			if tt.wantErr != nil {
				require.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, out)
		})
	}
}

func TestGet_currentListsEveryServer(t *testing.T) {
	e := newEnv(t, homeSet, "")
	e.os.ReplaceFamily(dnsconf.IPv4, "192.168.1.1", "192.168.1.2", "10.0.0.53")

	out, err := e.run(t, "get", "/curr")
	require.NoError(t, err)
	assert.Equal(t, "IPv4 Primary DNS: 192.168.1.1\n"+
		"IPv4 Reserve DNS: 192.168.1.2\n"+
		"IPv4 Index 3 DNS: 10.0.0.53\n", out)

	e.os.Replace(dnsconf.AddressSet{})
	out, err = e.run(t, "get")
	require.NoError(t, err)
	assert.Equal(t, "No static DNS servers configured\n", out)
}

func TestGet_groups(t *testing.T) {
	e := newEnv(t, homeSet, "groups:\n  office:\n    ipv4: [10.0.0.53]\n")
	out, err := e.run(t, "get", "/groups")
	require.NoError(t, err)
	assert.Equal(t, "Adguard\nCloudflare\nGoogle\nOffice\nOpendns\nQuad9\n", out)
}

func TestSet_thenRollback(t *testing.T) {
	e := newEnv(t, homeSet, "")

	out, err := e.run(t, "set", "-G", "quad9")
	require.NoError(t, err)
	assert.Equal(t, quad9Set, e.os.State())
	assert.Contains(t, out, "Configured IPv4 Primary DNS to 9.9.9.9\n")
	assert.Contains(t, out, "Configured IPv6 Reserve DNS to 2620:fe::9\n")
	assert.FileExists(t, e.snapPath)

	out, err = e.run(t, "get", "/prev")
	require.NoError(t, err)
	assert.Contains(t, out, "IPv4 Primary DNS: 192.168.1.1\n")
	assert.Contains(t, out, "Remembered from eth0 (fake)")

	out, err = e.run(t, "set", "/prev")
	require.NoError(t, err)
	assert.Equal(t, homeSet, e.os.State())
	assert.Contains(t, out, "Configured IPv4 Primary DNS to 192.168.1.1\n")
	assert.Contains(t, out, "Reverted IPv6 Primary DNS to automatic (was 2620:fe::fe)\n")
}

func TestSet_scopeAndQuiet(t *testing.T) {
	e := newEnv(t, homeSet, "")

	out, err := e.run(t, "-q", "set", "-6", "quad9")
	require.NoError(t, err)
	assert.Empty(t, out)
	assert.Equal(t, test.Set("192.168.1.1", "", "2620:fe::fe", "2620:fe::9"), e.os.State())
}

func TestSet_single(t *testing.T) {
	e := newEnv(t, quad9Set, "")

	out, err := e.run(t, "set", "-S", "IPv4", "reserve", "1.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, "Configured IPv4 Reserve DNS to 1.0.0.1\n", out)
	assert.Equal(t, test.Set("9.9.9.9", "1.0.0.1", "2620:fe::fe", "2620:fe::9"), e.os.State())

	out, err = e.run(t, "set", "-S", "ipv4", "1", "9.9.9.9")
	require.NoError(t, err)
	assert.Equal(t, "IPv4 Primary DNS already set to 9.9.9.9\n", out)

	_, err = e.run(t, "set", "-S", "ipv4", "3", "8.8.8.8")
	require.ErrorAs(t, err, new(dnsconf.ErrUnsupportedTier))
}

func TestSet_errors(t *testing.T) {
	tests := []struct {
		name     string
		args     []string
		elevated bool
		wantCode int
	}{
		{name: "unknown group", args: []string{"set", "nope"}, elevated: true, wantCode: exitUnknownGroup},
		{name: "no snapshot", args: []string{"set", "/prev"}, elevated: true, wantCode: exitNoSnapshot},
		{name: "not elevated", args: []string{"set", "quad9"}, elevated: false, wantCode: exitPrivilege},
		{name: "unknown interface", args: []string{"-i", "wlan9", "set", "quad9"}, elevated: true, wantCode: exitInterfaceNotFound},
		{name: "conflicting flags", args: []string{"set", "-4", "-6", "quad9"}, elevated: true, wantCode: exitError},
		{name: "missing group", args: []string{"set"}, elevated: true, wantCode: exitError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newEnv(t, homeSet, "")
			e.elevated = tt.elevated

			_, err := e.run(t, tt.args...)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, exitCode(err))
			assert.Equal(t, homeSet, e.os.State(), "a failed set must not change anything")
		})
	}
}

func TestSet_metricsTextfile(t *testing.T) {
	textfile := filepath.Join(t.TempDir(), "metrics", "switch-dns.prom")
	e := newEnv(t, homeSet, fmt.Sprintf("telemetry:\n  textfile: %s\n", textfile))
	read := func() string {
		t.Helper()
		b, err := os.ReadFile(textfile)
		require.NoError(t, err)
		return string(b)
	}

	_, err := e.run(t, "-q", "set", "quad9")
	require.NoError(t, err)
	assert.Contains(t, read(), `switchdns_apply_total{backend="fake",result="success",scope="both"} 1`)

	_, err = e.run(t, "-q", "set", "cloudflare")
	require.NoError(t, err)
	afterSets := read()
	assert.Contains(t, afterSets, `switchdns_apply_total{backend="fake",result="success",scope="both"} 2`)
	assert.Contains(t, afterSets, "switchdns_last_success_timestamp_seconds{backend=\"fake\"}")

	_, err = e.run(t, "get")
	require.NoError(t, err)
	assert.Equal(t, afterSets, read(), "get must not rewrite the textfile")
}

func TestInvalidConfig(t *testing.T) {
	e := newEnv(t, homeSet, "backend: scutil\n")
	_, err := e.run(t, "get")
	require.Error(t, err)
	assert.Equal(t, exitError, exitCode(err))
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, exitOK, exitCode(nil))
	assert.Equal(t, exitUnknownGroup, exitCode(fmt.Errorf("x: %w", dnsconf.ErrUnknownGroup{Token: "x"})))
	assert.Equal(t, exitNoSnapshot, exitCode(dnsconf.ErrNoSnapshot))
	assert.Equal(t, exitPrivilege, exitCode(dnsconf.ErrPrivilege))
	assert.Equal(t, exitInterfaceNotFound, exitCode(dnsconf.ErrInterfaceNotFound))
	assert.Equal(t, exitError, exitCode(dnsconf.ErrNotApplied))
}
