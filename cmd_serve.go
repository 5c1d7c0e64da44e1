package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"minimarket/config"
	"minimarket/configuration"
	"minimarket/controllers"
	"minimarket/db"
	"minimarket/dispatcher"
	"minimarket/logger"
	"minimarket/metrics"
	"minimarket/queries"
	"minimarket/render"
	"minimarket/router"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	conf, err := config.Get(configPath)
	if err != nil {
		return err
	}
	log, err := logger.New(conf.LogLevel, conf.LogPath)
	if err != nil {
		return err
	}
	defer logger.Sync(log)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	conn, err := db.Connect(conf, log)
	if err != nil {
		return err
	}
	defer conn.Close()
	store := db.NewStore(conn, log)

	m := metrics.New()
	d := dispatcher.New(store, registry(conf, store),
		dispatcher.WithLogger(log),
		dispatcher.WithRecorder(m),
		dispatcher.WithPaging(dispatcher.Paging{
			DefaultLimit: conf.Pagination.DefaultLimit,
			MaxLimit:     conf.Pagination.MaxLimit,
		}),
	)

	var cache configuration.Cache
	if conf.Redis.Addr != "" {
		rc := configuration.NewRedisCache(conf.Redis.Addr, conf.Redis.Password, conf.Redis.DB)
		defer rc.Close()
		cache = rc
	}
	desc, err := configuration.NewLoader(conf, store, cache, log).Load(ctx)
	if err != nil {
		log.Errorw("configuration unavailable", "error", err)
		return err
	}

	ui, err := render.New(desc, d, log)
	if err != nil {
		return err
	}

	if conf.LogLevel != "debug" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	router.Initialize(r, conf, controllers.New(d, ui, log), m, log)

	srv := &http.Server{
		Addr:              ":" + conf.ApiPort,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infow("listening", "addr", srv.Addr, "registry", d.Registry().Name(), "descriptors", desc.Source())
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	log.Infow("shutting down")
	shutdown, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdown)
}

// registry picks stored procedures or the portable statements.
func registry(conf config.Configuration, store db.Store) *queries.Registry {
	if conf.Statements == "procedures" {
		return queries.Procedures()
	}
	return queries.Portable(store.Flavor())
}
