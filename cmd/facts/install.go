package main

import (
	"github.com/joho/godotenv"
	"github.com/sandevgo/dailyfacts/internal/config"
	"github.com/sandevgo/dailyfacts/internal/service/installer"
	"github.com/sandevgo/dailyfacts/pkg/log"
	"github.com/spf13/cobra"
)

var installCmd = &cobra.Command{
	Use:           "install",
	Short:         "Configure DailyFacts interactively",
	SilenceUsage:  true,
	SilenceErrors: false,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		var flushLog func()
		ctx, flushLog = setupLogger(ctx)
		defer flushLog()

		logger := log.FromCtx(ctx)
		logger.Info().Msg("starting installation process")

		runtimePath := config.GetRuntimePath()

		// run wizard (includes save step)
		state, err := installer.RunWizard(runtimePath)
		if err != nil {
			return err
		}

		envPath := state.EnvPath()
		if err := godotenv.Load(envPath); err != nil {
			logger.Warn().Err(err).Str("path", envPath).Msg("failed to load .env file")
		}

		logger.Info().Str("channel", state.Channel).Msgf("initialized runtime directory at: %s", runtimePath)
		logger.Info().Msg("Installation complete! You can now run 'facts start'.")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(installCmd)
}
