package main

import (
	"context"
	"net/http"

	"github.com/rs/zerolog/log"

	server "github.com/JMuoc/DatavizPAC3/internal/adapters/http_server"
	"github.com/JMuoc/DatavizPAC3/internal/adapters/observability"
	redisad "github.com/JMuoc/DatavizPAC3/internal/adapters/redis"
	"github.com/JMuoc/DatavizPAC3/internal/app"
	"github.com/JMuoc/DatavizPAC3/internal/shared"
)

func main() {
	cfg := shared.Load()

	// set global logger (console in dev, JSON otherwise)
	log.Logger = observability.NewLogger(cfg.AppEnv)

	observability.Serve()

	// pipeline: load + enrich once, immutable afterwards
	ds, err := app.BuildDataset(context.Background(), cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("dataset pipeline failed")
	}

	// deps
	cache := redisad.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	q := app.NewQueryService(ds, cache, cfg.CacheTTL)
	story := app.NewStoryService(q, cfg.ShareFloorPct, cfg.TopN, cfg.MinGroupSize)

	// http
	srv := server.New()
	reg := observability.InitRegistry()
	srv.Mount("/metrics", observability.MetricsHandler(reg))
	srv.MountHandlers(&server.Handlers{
		Q:             q,
		Story:         story,
		ShareFloorPct: cfg.ShareFloorPct,
		TopN:          cfg.TopN,
		MinGroup:      cfg.MinGroupSize,
		FramesPerSec:  cfg.FramesPerSec,
	})

	log.Info().Str("addr", cfg.HTTPAddr).Msg("API listening")
	httpSrv := &http.Server{Addr: cfg.HTTPAddr, Handler: srv.Mux()}

	if err := httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		log.Fatal().Err(err).Msg("http server failed")
	}
}
