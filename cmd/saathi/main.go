package main

import (
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/saathi-labs/saathi/config"
	srv "github.com/saathi-labs/saathi/internal/server"
)

func main() {
	// Provider keys are commonly kept in a local .env during development.
	_ = godotenv.Load()

	var root = &cobra.Command{Use: "saathi"}

	var serveAddr string
	var cfgPath string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.LoadConfig(cfgPath)
			if err != nil {
				return err
			}
			if serveAddr == "" {
				serveAddr = os.Getenv("SAATHI_LISTEN")
			}
			if serveAddr == "" {
				serveAddr = cfg.General.Listen
			}
			return srv.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address (default from config)")
	serve.Flags().StringVarP(&cfgPath, "config", "c", "", "config file (default is ./config/saathi.yaml)")

	root.AddCommand(serve)
	_ = root.Execute()
}
