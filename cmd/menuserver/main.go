package main

import (
	"flag"

	"github.com/gin-gonic/gin"

	"github.com/Chative-restaurant-poc/server/internal/agent/model"
	"github.com/Chative-restaurant-poc/server/internal/catalog"
	"github.com/Chative-restaurant-poc/server/internal/catalog/server"
	"github.com/Chative-restaurant-poc/server/internal/core"
	"github.com/Chative-restaurant-poc/server/internal/metrics"
	"github.com/Chative-restaurant-poc/server/pkg/config"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

type AppConfig struct {
	Log     logx.Config
	Catalog model.CatalogConfig
	Server  server.Config
}

func main() {
	envFile := flag.String("env", "", "path to an env file (default: ./.env when present)")
	flag.Parse()

	if err := config.LoadEnv(*envFile); err != nil {
		logx.Fatal().Err(err).Msg("Failed to load env file")
	}
	cfg := config.MustNew[AppConfig]("")
	logx.Init(cfg.Log)
	gin.SetMode(core.ParseEnvironment(cfg.Log.Environment).GinMode())

	store, err := catalog.LoadFile(cfg.Catalog.Path)
	if err != nil {
		logx.Fatal().Err(err).Str("path", cfg.Catalog.Path).Msg("Failed to load catalog")
	}

	h := server.NewHandler(store, metrics.NewCollector())
	logx.Info().Str("addr", cfg.Server.Addr).Int("items", store.Len()).Msg("Menu server listening")
	if err := h.Router().Run(cfg.Server.Addr); err != nil {
		logx.Fatal().Err(err).Msg("Menu server stopped")
	}
}
