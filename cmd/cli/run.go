package main

import (
	"wayfinder/internal/app"
	"wayfinder/internal/config"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the wayfinder application",
	Long:  `Run the wayfinder application`,
	Run:   run,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func run(cmd *cobra.Command, args []string) {
	cfg := config.Load()

	if err := config.InitLogger(cfg); err != nil {
		logrus.Fatalf("Failed to initialize logger: %v", err)
	}

	if err := app.Run(cfg); err != nil {
		logrus.Fatalf("%v", err)
	}
}
