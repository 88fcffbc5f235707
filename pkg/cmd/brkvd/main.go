// Copyright 2024 The brkv Authors.
//
// Use of this software is governed by the Apache License, Version 2.0
// included in the LICENSE file.

// brkvd serves the brkv backup and external storage gRPC services.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/brkv/brkv/pkg/server"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
)

var (
	configFile string
	listenAddr string
)

var rootCmd = &cobra.Command{
	Use:          "brkvd",
	Short:        "brkvd serves backups of key-value data to external storage",
	SilenceUsage: true,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg := server.DefaultConfig()
		if configFile != "" {
			var err error
			if cfg, err = server.LoadConfig(configFile); err != nil {
				return err
			}
		}
		if listenAddr != "" {
			cfg.ListenAddr = listenAddr
		}
		setupLogger(cfg.Log)

		srv, err := server.New(cfg, nil)
		if err != nil {
			return err
		}

		ctx, cancel := context.WithCancel(cmd.Context())
		defer cancel()
		go func() {
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
			<-sigCh
			log.Info().Msg("shutting down")
			cancel()
		}()

		if err := srv.Start(ctx); err != nil {
			return err
		}
		srv.Shutdown()
		return nil
	},
}

func setupLogger(cfg server.LogConfig) {
	level, err := zerolog.ParseLevel(cfg.Level)
	if err != nil || cfg.Level == "" {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	if cfg.Format == "console" {
		log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})
	}
}

func main() {
	rootCmd.Flags().StringVar(&configFile, "config", "", "path to a yaml config file")
	rootCmd.Flags().StringVar(&listenAddr, "listen-addr", "", "override the configured listen address")
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
