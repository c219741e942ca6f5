package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:           "attack2mongo",
	Short:         "Load MITRE ATT&CK attack patterns into MongoDB",
	Long:          "attack2mongo downloads the ATT&CK STIX bundle, flattens every attack-pattern and replaces the target MongoDB collection with the result.",
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE: func(cmd *cobra.Command, _ []string) error {
		svc, cleanup, err := InitApp(cmd.Context())
		if err != nil {
			return fmt.Errorf("init app failed: %w", err)
		}
		defer cleanup()
		return svc.Run(cmd.Context())
	},
}

func main() {
	// .env is optional
	_ = godotenv.Load()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
