/*
Copyright © 2025 Seednode <seednode@seedno.de>
*/

// Package config builds the server's Config from flags and environment
// variables, the way Seednode/partybox does.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config holds every knob the transport layer and session registry need.
// The session core itself (internal/session) takes no configuration; its
// constants are fixed by spec.md.
type Config struct {
	Bind string

	Port int

	Prefix string

	Profile bool

	// SessionIdle is how long a session may receive no events before the
	// registry reaps it.
	SessionIdle time.Duration

	TLSCert string
	TLSKey  string

	Verbose bool
	Version bool
}

func (c *Config) Validate() error {
	if (c.TLSCert == "") != (c.TLSKey == "") {
		return errors.New("both --tls-cert and --tls-key must be provided together")
	}
	if c.Port < 1 || c.Port > 65535 {
		return fmt.Errorf("invalid port (must be between 1-65535 inclusive): %d", c.Port)
	}
	return nil
}

func (c *Config) Scheme() string {
	if c.TLSCert != "" && c.TLSKey != "" {
		return "https"
	}
	return "http"
}

// NewCommand builds the cobra command that parses flags into cfg and binds
// the equivalent TTTOD_* environment variables, mirroring the teacher's
// newCmd/viper wiring in Seednode-partybox/config.go.
func NewCommand(cfg *Config, version string, run func(cmd *cobra.Command, args []string) error) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("TTTOD")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:           "tttod-server",
		Short:         "Authoritative session server for a cooperative tabletop-style game.",
		Args:          cobra.ExactArgs(0),
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.Validate(); err != nil {
				return err
			}
			return run(cmd, args)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVarP(&cfg.Bind, "bind", "b", "0.0.0.0", "address to bind to (env: TTTOD_BIND)")
	fs.IntVarP(&cfg.Port, "port", "p", 8080, "port to listen on (env: TTTOD_PORT)")
	fs.StringVar(&cfg.Prefix, "prefix", "", "path to prepend to all URLs, for use behind reverse proxy (env: TTTOD_PREFIX)")
	fs.BoolVar(&cfg.Profile, "profile", false, "register net/http/pprof handlers (env: TTTOD_PROFILE)")
	fs.DurationVar(&cfg.SessionIdle, "session-idle", 6*time.Hour, "time before idle game sessions are reaped (env: TTTOD_SESSION_IDLE)")
	fs.StringVar(&cfg.TLSCert, "tls-cert", "", "path to tls certificate (env: TTTOD_TLS_CERT)")
	fs.StringVar(&cfg.TLSKey, "tls-key", "", "path to tls keyfile (env: TTTOD_TLS_KEY)")
	fs.BoolVarP(&cfg.Verbose, "verbose", "v", false, "display additional output (env: TTTOD_VERBOSE)")
	fs.BoolVarP(&cfg.Version, "version", "V", false, "display version and exit (env: TTTOD_VERSION)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("tttod-server v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

// Logf gates verbose, timestamped logging the way Seednode-partybox's
// logf helper does.
func Logf(cfg *Config, format string, args ...any) {
	if !cfg.Verbose {
		return
	}
	fmt.Printf("%s | "+format+"\n", append([]any{time.Now().Format(LogDate)}, args...)...)
}

// LogDate is the timestamp layout used by Logf.
const LogDate = "2006-01-02T15:04:05.000-07:00"
