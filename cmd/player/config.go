package main

import (
	"crypto/tls"
	"errors"
	"fmt"
	"net"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"example.com/wordle-tls/internal/player"
	"example.com/wordle-tls/internal/tlsconf"
)

type Config struct {
	cert        string
	key         string
	ca          string
	serverName  string
	dialTimeout time.Duration
	idleTimeout time.Duration
}

func (c *Config) validate() error {
	if c.cert == "" || c.key == "" || c.ca == "" {
		return errors.New("--cert, --key and --ca are required")
	}
	return nil
}

func parsePort(s string) (int, error) {
	p, err := strconv.Atoi(s)
	if err != nil || p < 1 || p > 65535 {
		return 0, fmt.Errorf("invalid port (must be between 1-65535 inclusive): %s", s)
	}
	return p, nil
}

func newCmd(cfg *Config) *cobra.Command {
	v := viper.New()
	v.SetEnvPrefix("WORDLE")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	cmd := &cobra.Command{
		Use:     "player HOST PORT",
		Short:   "Play a game of Wordle against a mutually authenticated server.",
		Args:    cobra.ExactArgs(2),
		Version: releaseVersion,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := cfg.validate(); err != nil {
				return err
			}
			port, err := parsePort(args[1])
			if err != nil {
				return err
			}
			return play(cmd, cfg, args[0], port)
		},
	}

	fs := cmd.Flags()

	fs.SetNormalizeFunc(func(_ *pflag.FlagSet, name string) pflag.NormalizedName {
		return pflag.NormalizedName(strings.ReplaceAll(name, "_", "-"))
	})

	fs.StringVar(&cfg.cert, "cert", "client.crt", "client certificate (env: WORDLE_CERT)")
	fs.StringVar(&cfg.key, "key", "client.key", "client private key (env: WORDLE_KEY)")
	fs.StringVar(&cfg.ca, "ca", "server.crt", "certificate the server must present or chain to (env: WORDLE_CA)")
	fs.StringVar(&cfg.serverName, "server-name", "Wordle Server", "name expected on the server certificate (env: WORDLE_SERVER_NAME)")
	fs.DurationVar(&cfg.dialTimeout, "dial-timeout", 10*time.Second, "connect and TLS handshake timeout (env: WORDLE_DIAL_TIMEOUT)")
	fs.DurationVar(&cfg.idleTimeout, "idle-timeout", 0, "give up on a silent server after this long, 0 waits forever (env: WORDLE_IDLE_TIMEOUT)")

	fs.VisitAll(func(f *pflag.Flag) {
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.CompletionOptions.HiddenDefaultCmd = true
	cmd.SetHelpCommand(&cobra.Command{Hidden: true})
	cmd.SetVersionTemplate("player v{{.Version}}\n")

	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	return cmd
}

func play(cmd *cobra.Command, cfg *Config, host string, port int) error {
	tlsCfg, err := tlsconf.Client(cfg.cert, cfg.key, cfg.ca, cfg.serverName)
	if err != nil {
		return err
	}

	addr := net.JoinHostPort(host, strconv.Itoa(port))
	d := &tls.Dialer{NetDialer: &net.Dialer{Timeout: cfg.dialTimeout}, Config: tlsCfg}
	conn, err := d.DialContext(cmd.Context(), "tcp", addr)
	if err != nil {
		return fmt.Errorf("unable to connect to the server at (%s, %d): %w", host, port, err)
	}

	c := player.New(os.Stdin, cmd.OutOrStdout())
	c.SetIdleTimeout(cfg.idleTimeout)
	_, err = c.Play(cmd.Context(), conn)
	return err
}
