package main

import (
	"context"
	"fmt"
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func main() {
	app := &cli.Command{
		Name:  "codejudge",
		Usage: "run and grade programming submissions in a sandbox",
		Commands: []*cli.Command{
			serveCommand(),
			execCommand(),
			tokenCommand(),
		},
	}

	if err := app.Run(context.Background(), os.Args); err != nil {
		log.Fatal(err)
	}
}

var envFlag = &cli.StringFlag{
	Name:  "env",
	Usage: "load <env>.env before reading the configuration",
}

// loadEnv reads <environment>.env into the process environment
func loadEnv(environment string) error {
	if environment == "" {
		return nil
	}
	if err := godotenv.Load(environment + ".env"); err != nil {
		return fmt.Errorf("error loading %s.env file: %w", environment, err)
	}
	return nil
}
