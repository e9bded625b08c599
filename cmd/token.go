package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/urfave/cli/v3"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/crypto"
	"gitlab.com/fcv-2025.net/codejudge/internal/config"
)

// tokenCommand signs a token with JWT_SECRET, for local testing of the API
func tokenCommand() *cli.Command {
	return &cli.Command{
		Name:  "token",
		Usage: "print a signed access token for a user",
		Flags: []cli.Flag{
			envFlag,
			&cli.StringFlag{Name: "user", Required: true},
			&cli.DurationFlag{Name: "ttl", Value: time.Hour},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := loadEnv(cmd.String("env")); err != nil {
				return err
			}
			jwtCfg := config.NewJwtConfig()
			if jwtCfg.Secret == "" {
				return errors.New("JWT_SECRET is not set")
			}

			token, err := crypto.NewJWTService(jwtCfg.Secret).GenerateTokenHMAC(ctx, cmd.String("user"), cmd.Duration("ttl"))
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.Root().Writer, token)
			return err
		},
	}
}
