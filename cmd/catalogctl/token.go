package main

import (
	"fmt"

	"github.com/ilyakaznacheev/cleanenv"
	"github.com/jonboulle/clockwork"
	"github.com/spf13/cobra"

	"github.com/rokartur/xcstrings-editor-sub000/internal/auth"
	"github.com/rokartur/xcstrings-editor-sub000/internal/config"
)

func newTokenCmd() *cobra.Command {
	var (
		cfg     config.AuthConfig
		subject string
		scope   string
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Mint a bearer token for the catalogd API",
		Long: `Mint a bearer token for the catalogd API.

The secret, issuer and lifetime default to AUTH_JWT_SECRET,
AUTH_JWT_ISSUER and AUTH_ACCESS_TOKEN_TTL, matching the server.`,
		Args: cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			var env config.AuthConfig
			if err := cleanenv.ReadEnv(&env); err != nil {
				return fmt.Errorf("read env: %w", err)
			}
			flags := cmd.Flags()
			if !flags.Changed("secret") {
				cfg.JWTSecret = env.JWTSecret
			}
			if !flags.Changed("issuer") {
				cfg.JWTIssuer = env.JWTIssuer
			}
			if !flags.Changed("ttl") {
				cfg.AccessTokenTTL = env.AccessTokenTTL
			}
			if !cfg.Enabled() {
				return fmt.Errorf("no secret: set AUTH_JWT_SECRET or --secret")
			}
			return nil
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			manager := auth.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer, cfg.AccessTokenTTL, clockwork.NewRealClock())
			token, err := manager.GenerateAccessToken(subject, auth.Scope(scope))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), token)
			return err
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&subject, "subject", "", "token subject, usually the translator's name")
	flags.StringVar(&scope, "scope", string(auth.ScopeWrite), "read or write")
	flags.StringVar(&cfg.JWTSecret, "secret", "", "signing secret")
	flags.StringVar(&cfg.JWTIssuer, "issuer", "", "token issuer")
	flags.DurationVar(&cfg.AccessTokenTTL, "ttl", 0, "token lifetime")
	_ = cmd.MarkFlagRequired("subject")
	return cmd
}
