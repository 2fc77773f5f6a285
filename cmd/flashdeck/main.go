package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"codeberg.org/snonux/flashdeck/internal/cli"
	"codeberg.org/snonux/flashdeck/internal/processor"
)

func main() {
	// Create flags instance
	flags := cli.NewFlags()

	// Create root command; the processor is built after config is read
	rootCmd := cli.CreateRootCommand(flags, func() (cli.Runner, error) {
		return processor.NewProcessor()
	})

	// Set up command initialization
	cobra.OnInitialize(func() {
		cli.InitConfig(flags.CfgFile)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	code := cli.Execute(ctx, rootCmd)
	stop()
	os.Exit(code)
}
