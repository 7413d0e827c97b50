package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/cwbudde/evomax/internal/server"
	"github.com/cwbudde/evomax/internal/store"
	"github.com/spf13/cobra"
)

var (
	serveAddr string
	dataDir   string
	noPersist bool
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server for optimization jobs",
	RunE: func(cmd *cobra.Command, args []string) error {
		var resultStore *store.FSStore
		if !noPersist {
			var err error
			resultStore, err = store.NewFSStore(dataDir)
			if err != nil {
				return fmt.Errorf("failed to open result store: %w", err)
			}
		}

		srv := server.NewServer(serveAddr, resultStore)

		errCh := make(chan error, 1)
		go func() {
			errCh <- srv.Start()
		}()

		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

		select {
		case err := <-errCh:
			return err
		case <-sigCh:
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			return srv.Shutdown(ctx)
		}
	},
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", ":8080", "Listen address")
	serveCmd.Flags().StringVar(&dataDir, "data", "./data", "Directory for run records and traces")
	serveCmd.Flags().BoolVar(&noPersist, "no-persist", false, "Disable run record and trace persistence")
	rootCmd.AddCommand(serveCmd)
}
