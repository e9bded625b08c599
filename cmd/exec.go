package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/urfave/cli/v3"

	"gitlab.com/fcv-2025.net/codejudge/internal/adapter/sandbox"
	"gitlab.com/fcv-2025.net/codejudge/internal/config"
	logger2 "gitlab.com/fcv-2025.net/codejudge/internal/global/logger"
)

func execCommand() *cli.Command {
	return &cli.Command{
		Name:  "exec",
		Usage: "run one program in the sandbox and print the outcome as JSON",
		Flags: []cli.Flag{
			envFlag,
			&cli.StringFlag{Name: "language", Required: true},
			&cli.StringFlag{Name: "source", Required: true, Usage: "path of the program source"},
			&cli.StringFlag{Name: "stdin", Usage: "path of a file fed to the program"},
			&cli.DurationFlag{Name: "timeout", Usage: "overrides JUDGE_CASE_TIMEOUT_MS"},
		},
		Action: func(ctx context.Context, cmd *cli.Command) error {
			if err := loadEnv(cmd.String("env")); err != nil {
				return err
			}
			sysCfg := config.NewSystemConfig()
			logger2.Configure(sysCfg.DebugMode)
			logger := logger2.Logger
			defer func() { _ = logger.Sync() }()

			source, err := os.ReadFile(cmd.String("source"))
			if err != nil {
				return fmt.Errorf("failed to read source: %w", err)
			}
			var stdin []byte
			if path := cmd.String("stdin"); path != "" {
				if stdin, err = os.ReadFile(path); err != nil {
					return fmt.Errorf("failed to read stdin file: %w", err)
				}
			}
			timeout := sysCfg.JudgeConfig.CaseTimeout
			if d := cmd.Duration("timeout"); d > 0 {
				timeout = d
			}

			registry, err := setupLanguages(sysCfg.JudgeConfig)
			if err != nil {
				return err
			}
			profile, err := registry.Resolve(cmd.String("language"))
			if err != nil {
				return err
			}

			isolator, closeIsolator, err := setupIsolator(ctx, sysCfg.JudgeConfig, registry, logger)
			if err != nil {
				return err
			}
			defer closeIsolator()

			executor := sandbox.NewExecutor(isolator, sandboxConfig(sysCfg.JudgeConfig), logger)
			outcome, err := executor.Execute(ctx, profile, string(source), string(stdin), timeout)
			if err != nil {
				return err
			}

			enc := json.NewEncoder(cmd.Root().Writer)
			enc.SetIndent("", "  ")
			return enc.Encode(outcome)
		},
	}
}
