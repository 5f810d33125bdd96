package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/gyaneshwarpardhi/topicexplorer/internal/api"
	"github.com/gyaneshwarpardhi/topicexplorer/internal/render"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the explorer page and API",
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "HTTP listen address (overrides server.addr)")
	rootCmd.AddCommand(serveCmd)
}

func runServe(_ *cobra.Command, _ []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	rt, err := setup(ctx, "")
	if err != nil {
		return err
	}
	log := rt.log.Logger
	conf := rt.loader.Config().Server
	addr := conf.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	if configPath != "" {
		stopWatch, err := rt.loader.Watch()
		if err != nil {
			log.Warn("config watcher unavailable (hot-reload disabled)", zap.Error(err))
		} else {
			defer stopWatch()
		}
	}

	page := render.DefaultPageOptions()
	page.Limit = rt.loader.Config().Explorer.DefaultLimit

	srv := &http.Server{
		Addr:         addr,
		Handler:      api.New(rt.eng, rt.loader, log.Named("http"), api.WithPage(page)),
		ReadTimeout:  time.Duration(conf.ReadTimeoutMs) * time.Millisecond,
		WriteTimeout: time.Duration(conf.WriteTimeoutMs) * time.Millisecond,
		IdleTimeout:  time.Duration(conf.IdleTimeoutMs) * time.Millisecond,
	}

	errc := make(chan error, 1)
	go func() {
		log.Info("server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errc <- err
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	defer signal.Stop(quit)

	select {
	case <-quit:
	case err := <-errc:
		rt.close()
		return err
	}
	log.Info("shutting down")

	// Closing the store ends open view streams so Shutdown can finish.
	shutCtx, shutCancel := context.WithTimeout(context.Background(), time.Duration(conf.ShutdownMs)*time.Millisecond)
	defer shutCancel()
	rt.eng.Shutdown()
	rt.store.Close()
	if err := srv.Shutdown(shutCtx); err != nil {
		log.Warn("server shutdown", zap.Error(err))
	}
	cancel()
	log.Info("goodbye")
	_ = rt.log.Sync()
	return nil
}
