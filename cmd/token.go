package main

import (
	"fmt"
	"os"
	"time"

	"shop-order-scheduler/internal/domain/auth"
	"shop-order-scheduler/internal/pkg/jwt"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"
)

var (
	tokenRole     string
	tokenSubject  string
	tokenSecret   string
	tokenDuration time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Mint a bearer token for the API",
	Long:  `Signs a token with JWT_SECRET (or --secret) for use when AUTH_ENABLED=true.`,
	Args:  cobra.NoArgs,
	RunE:  runToken,
}

func init() {
	tokenCmd.Flags().StringVar(&tokenRole, "role", string(auth.RoleOperator), "viewer, operator or admin")
	tokenCmd.Flags().StringVar(&tokenSubject, "subject", "cli", "token subject")
	tokenCmd.Flags().StringVar(&tokenSecret, "secret", "", "signing secret (defaults to $JWT_SECRET)")
	tokenCmd.Flags().DurationVar(&tokenDuration, "ttl", 24*time.Hour, "token lifetime")
}

func runToken(cmd *cobra.Command, _ []string) error {
	secret := tokenSecret
	if secret == "" {
		secret = os.Getenv("JWT_SECRET")
	}
	if secret == "" {
		return errors.New("no signing secret: pass --secret or set JWT_SECRET")
	}

	role, err := auth.NewRole(tokenRole)
	if err != nil {
		return errors.Wrapf(err, "role %q", tokenRole)
	}
	p, err := auth.NewPrincipal(tokenSubject, role)
	if err != nil {
		return errors.Wrap(err, "principal")
	}

	token, err := jwt.NewService(secret, tokenDuration).GenerateToken(p)
	if err != nil {
		return errors.Wrap(err, "sign token")
	}
	fmt.Fprintln(cmd.OutOrStdout(), token)
	return nil
}
