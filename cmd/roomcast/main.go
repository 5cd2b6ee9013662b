package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/roomcast/internal/app"
	"github.com/vovakirdan/roomcast/internal/client"
	"github.com/vovakirdan/roomcast/internal/config"
	"github.com/vovakirdan/roomcast/internal/log"
	"github.com/vovakirdan/roomcast/internal/tui"
)

func main() {
	root := &cobra.Command{
		Use:           "roomcast",
		Short:         "multi-room broadcast chat server and client",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.AddCommand(serveCmd(), connectCmd())

	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func serveCmd() *cobra.Command {
	var (
		configPath string
		addr       string
		logLevel   string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "run the chat server",
		RunE: func(cmd *cobra.Command, _ []string) error {
			bootLog := log.New("info")
			cfg, path, err := config.Load(bootLog, configPath)
			if err != nil {
				return err
			}
			if addr != "" {
				cfg.Addr = addr
			}
			if logLevel != "" {
				cfg.LogLevel = logLevel
			}

			logger := log.New(cfg.LogLevel)
			logger.Info().Str("addr", cfg.Addr).Str("config", path).Msg("starting roomcast server")

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			if err := app.New(cfg, logger).Run(ctx); err != nil {
				return fmt.Errorf("server exited: %w", err)
			}
			logger.Info().Msg("server stopped")
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "", "path to config file (default: ./config.yaml, created if missing)")
	cmd.Flags().StringVar(&addr, "addr", "", "listen address, overrides config")
	cmd.Flags().StringVar(&logLevel, "log-level", "", "log level, overrides config")
	return cmd
}

func connectCmd() *cobra.Command {
	var (
		host     string
		port     int
		nick     string
		logFile  string
		logLevel string
	)

	cmd := &cobra.Command{
		Use:   "connect",
		Short: "connect to a chat server with a terminal UI",
		RunE: func(cmd *cobra.Command, _ []string) error {
			// The UI owns the terminal, so client logs go to a file or
			// nowhere at all.
			var out io.Writer = io.Discard
			if logFile != "" {
				f, err := os.OpenFile(logFile, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
				if err != nil {
					return fmt.Errorf("open log file: %w", err)
				}
				defer f.Close()
				out = f
			}
			logger := log.NewWithWriter(logLevel, out)

			dialCtx, cancel := context.WithTimeout(cmd.Context(), 10*time.Second)
			defer cancel()

			serverURL := fmt.Sprintf("ws://%s:%d/ws", host, port)
			conn, err := client.Dial(dialCtx, serverURL, nick, logger)
			if err != nil {
				return err
			}
			defer conn.Close()

			ui, err := tui.New(conn, logger)
			if err != nil {
				return err
			}
			defer ui.Close()

			return ui.Run()
		},
	}

	cmd.Flags().StringVar(&host, "host", "localhost", "server host")
	cmd.Flags().IntVar(&port, "port", 9001, "server port")
	cmd.Flags().StringVar(&nick, "nick", "", "requested nickname")
	cmd.Flags().StringVar(&logFile, "log-file", "", "write client logs to this file")
	cmd.Flags().StringVar(&logLevel, "log-level", "info", "client log level")
	_ = cmd.MarkFlagRequired("nick")
	return cmd
}
