package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/unowned-ai/eunoia/pkg/httpapi"
	"github.com/unowned-ai/eunoia/pkg/schedule"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the REST API and the reminder scheduler",
	Long: `Serves the journal services as a JSON API under /api, exposes Prometheus
metrics on /metrics and fires enabled reminders on their schedules until
interrupted.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmdContext(cmd), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		a, err := openApp(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		addr := a.Config.HTTPAddr
		if cmd.Flags().Changed("addr") {
			addr, _ = cmd.Flags().GetString("addr")
		}
		resync, _ := cmd.Flags().GetDuration("resync")
		if resync <= 0 {
			return fmt.Errorf("--resync must be positive, got %s", resync)
		}

		srv := &http.Server{
			Addr:              addr,
			Handler:           httpapi.New(a.Services, a.Registry, a.Log).Router(),
			ReadHeaderTimeout: 5 * time.Second,
		}
		serveErr := make(chan error, 1)
		go func() {
			a.Log.WithField("addr", addr).Info("http api listening")
			serveErr <- srv.ListenAndServe()
		}()

		sched := schedule.New(a.Store, schedule.LogNotifier{Log: a.Log}, a.Log)
		schedErr := make(chan error, 1)
		go func() { schedErr <- sched.Run(ctx, resync) }()

		var runErr error
		schedDone := false
		select {
		case <-ctx.Done():
		case err := <-serveErr:
			if err != nil && !errors.Is(err, http.ErrServerClosed) {
				runErr = fmt.Errorf("http serve: %w", err)
			}
		case err := <-schedErr:
			schedDone = true
			if err != nil {
				runErr = fmt.Errorf("reminder scheduler: %w", err)
			}
		}

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			a.Log.WithError(err).Warn("http shutdown did not complete")
		}
		stop()
		if !schedDone {
			<-schedErr
		}
		if runErr != nil {
			return runErr
		}
		a.Log.Info("server stopped")
		return nil
	},
}

func initServeCmd() {
	serveCmd.Flags().String("addr", ":8080", "Listen address (overrides EUNOIA_HTTP_ADDR)")
	serveCmd.Flags().Duration("resync", time.Minute, "How often the scheduler reloads reminders")
}
