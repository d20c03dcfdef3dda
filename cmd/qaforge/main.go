package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/qaforge/qaforge/config"
	"github.com/qaforge/qaforge/internal/pipeline"
	srv "github.com/qaforge/qaforge/internal/server"
	"github.com/qaforge/qaforge/internal/vectorstore/chroma"
	"github.com/qaforge/qaforge/provider"
)

func main() {
	var root = &cobra.Command{Use: "qaforge"}

	var configPath string
	root.PersistentFlags().StringVar(&configPath, "config", "", "path to config file")

	var serveAddr string
	var serve = &cobra.Command{
		Use:   "serve",
		Short: "Run HTTP API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if err := cfg.EnsureDirs(); err != nil {
				return err
			}
			if serveAddr == "" {
				serveAddr = os.Getenv("QAFORGE_HTTP_ADDR")
			}
			return srv.Run(cfg, serveAddr)
		},
	}
	serve.Flags().StringVar(&serveAddr, "addr", "", "listen address")

	var ingest = &cobra.Command{
		Use:   "ingest [files...]",
		Short: "Index documents without starting the server",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := config.LoadConfig(configPath)
			if err := cfg.EnsureDirs(); err != nil {
				return err
			}
			pipe, err := buildPipeline(cfg)
			if err != nil {
				return err
			}
			ctx := context.Background()
			if err := pipe.Initialize(ctx); err != nil {
				return err
			}
			for _, path := range args {
				if err := pipe.Ingest(ctx, path); err != nil {
					return fmt.Errorf("ingesting %s: %w", path, err)
				}
			}
			return nil
		},
	}

	root.AddCommand(serve, ingest)
	_ = root.Execute()
}

func buildPipeline(cfg *config.Config) (*pipeline.Pipeline, error) {
	prov, err := provider.NewProvider(cfg.LLM)
	if err != nil {
		return nil, err
	}
	store := chroma.NewStorage(chroma.Config{
		URL:        cfg.Vector.URL,
		Collection: cfg.Vector.Collection,
		Timeout:    cfg.Vector.Timeout,
	})
	return pipeline.New(cfg, prov, store)
}
