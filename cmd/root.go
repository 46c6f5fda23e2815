// SPDX-FileCopyrightText: 2025 Deutsche Telekom IT GmbH
//
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"github.com/telekom/switch-dns/internal/logger"
	"github.com/telekom/switch-dns/pkg/config"
	"github.com/telekom/switch-dns/pkg/dnsconf"
	"github.com/telekom/switch-dns/pkg/platform"
	"github.com/telekom/switch-dns/pkg/switcher"
)

// Exit codes of the command
const (
	exitOK = iota
	exitError
	exitUnknownGroup
	exitNoSnapshot
	exitPrivilege
	exitInterfaceNotFound
)

// defaultLogLevel keeps the command output free of progress logs
const defaultLogLevel = "WARN"

// NewCmdRoot creates a new root command
func NewCmdRoot(version string) *cobra.Command {
	var cfgFile string

	rootCmd := &cobra.Command{
		Use:   "switch-dns",
		Short: "switch-dns, switch the DNS servers of a network interface",
		Long: "switch-dns reads and sets the primary and secondary IPv4 and IPv6 DNS servers of a network interface.\n" +
			"Servers are set from named groups and the configuration replaced by the last change can be restored with /prev.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if err := initConfig(cfgFile); err != nil {
				return err
			}
			cmd.SetContext(logger.IntoContext(cmd.Context(), newLogger()))
			return nil
		},
	}

	flags := rootCmd.PersistentFlags()
	flags.StringVarP(&cfgFile, "config", "c", "", "config file (default is $HOME/.switch-dns.yaml)")
	flags.StringP("interface", "i", "", "network interface to manage (default depends on the OS)")
	flags.String("backend", "", fmt.Sprintf("OS facility used to configure DNS, one of %s (default is detected)", strings.Join(platform.Backends(), ", ")))
	flags.String("snapshot", "", "file remembering the previous configuration (default is <user config dir>/switch-dns/previous.yaml)")
	flags.Duration("timeout", config.DefaultTimeout, "timeout of every call to the OS network configuration")
	flags.BoolP("quiet", "q", false, "print less config details")
	flags.String("log-level", "", "log level, one of DEBUG, INFO, WARN, ERROR (default is $LOG_LEVEL or WARN)")
	flags.String("log-format", "", "log format, TEXT or JSON (default is $LOG_FORMAT or TEXT)")

	for key, flag := range map[string]string{
		"interface":     "interface",
		"backend":       "backend",
		"snapshot.path": "snapshot",
		"timeout":       "timeout",
		"quiet":         "quiet",
		"logLevel":      "log-level",
		"logFormat":     "log-format",
	} {
		cobra.CheckErr(viper.BindPFlag(key, flags.Lookup(flag)))
	}
	viper.SetDefault("verify.retry.count", switcher.DefaultVerifyRetry.Count)
	viper.SetDefault("verify.retry.delay", switcher.DefaultVerifyRetry.Delay)

	return rootCmd
}

// Execute adds all child commands to the root command
// and executes the cmd tree
func Execute(version string) {
	cmd := BuildCmd(version)

	if err := cmd.Execute(); err != nil {
		_, _ = fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

func BuildCmd(version string) *cobra.Command {
	cmd := NewCmdRoot(version)
	cmd.AddCommand(NewCmdGet())
	cmd.AddCommand(NewCmdSet())
	return cmd
}

func initConfig(cfgFile string) error {
	if cfgFile != "" {
		// Use config file from the flag
		viper.SetConfigFile(cfgFile)
	} else {
		// Find home directory
		home, err := os.UserHomeDir()
		if err != nil {
			return err
		}

		// Search config in home directory with name ".switch-dns" (without an extension)
		viper.AddConfigPath(home)
		viper.SetConfigType("yaml")
		viper.SetConfigName(".switch-dns")
	}

	viper.SetEnvPrefix("switchdns")
	dotreplacer := strings.NewReplacer(".", "_")
	viper.SetEnvKeyReplacer(dotreplacer)
	viper.AutomaticEnv()

	err := viper.ReadInConfig()
	if err == nil {
		logger.NewLogger().Debug("Using config file", "path", viper.ConfigFileUsed())
		return nil
	}
	var notFound viper.ConfigFileNotFoundError
	if cfgFile == "" && errors.As(err, &notFound) {
		return nil
	}
	return fmt.Errorf("failed to read config file: %w", err)
}

// newLogger creates the logger from the flags, falling back to the LOG_LEVEL
// and LOG_FORMAT environment variables.
func newLogger() *slog.Logger {
	level := firstOf(viper.GetString("logLevel"), os.Getenv("LOG_LEVEL"), defaultLogLevel)
	format := firstOf(viper.GetString("logFormat"), os.Getenv("LOG_FORMAT"))
	return logger.NewLogger(logger.NewHandler(format, level))
}

func firstOf(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// exitCode maps the error kinds onto the exit codes of the command
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.As(err, new(dnsconf.ErrUnknownGroup)):
		return exitUnknownGroup
	case errors.Is(err, dnsconf.ErrNoSnapshot):
		return exitNoSnapshot
	case errors.Is(err, dnsconf.ErrPrivilege):
		return exitPrivilege
	case errors.Is(err, dnsconf.ErrInterfaceNotFound):
		return exitInterfaceNotFound
	default:
		return exitError
	}
}
