package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"example.com/wordle-tls/internal/auth"
)

// opstoken mints a bearer token for the authority's ops HTTP surface.
func main() {
	cobra.CheckErr(newCmd().Execute())
}

func newCmd() *cobra.Command {
	var (
		secret   string
		operator string
		ttl      time.Duration
	)

	v := viper.New()
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	cmd := &cobra.Command{
		Use:   "opstoken",
		Short: "Mint an operator token for /api/stats.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if secret == "" {
				return errors.New("--secret is required (env: OPS_JWT_SECRET)")
			}
			tok, err := auth.Sign([]byte(secret), operator, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), tok)
			return nil
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&secret, "secret", "", "HMAC secret shared with the server (env: OPS_JWT_SECRET)")
	fs.StringVar(&operator, "operator", "ops", "operator name carried in the token")
	fs.DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime (env: OPS_TOKEN_TTL)")

	envs := map[string]string{"secret": "OPS_JWT_SECRET", "ttl": "OPS_TOKEN_TTL"}
	fs.VisitAll(func(f *pflag.Flag) {
		env, ok := envs[f.Name]
		if !ok {
			return
		}
		_ = v.BindPFlag(f.Name, f)
		_ = v.BindEnv(f.Name, env)
		if !f.Changed && v.IsSet(f.Name) {
			_ = fs.Set(f.Name, fmt.Sprintf("%v", v.Get(f.Name)))
		}
	})

	cmd.SilenceUsage = true
	return cmd
}
