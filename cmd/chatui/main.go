package main

import (
	"context"
	"flag"

	"github.com/gin-gonic/gin"

	"github.com/Chative-restaurant-poc/server/internal/agent/graph"
	"github.com/Chative-restaurant-poc/server/internal/chatui"
	"github.com/Chative-restaurant-poc/server/internal/core"
	"github.com/Chative-restaurant-poc/server/internal/metrics"
	"github.com/Chative-restaurant-poc/server/pkg/config"
	logx "github.com/Chative-restaurant-poc/server/pkg/logger"
)

type AppConfig struct {
	Log    logx.Config
	Agent  graph.AgentConfig
	Server chatui.Config
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

	m := metrics.NewCollector()
	agent, closeFn, err := graph.Open(context.Background(), cfg.Agent, m)
	if err != nil {
		logx.Fatal().Err(err).Msg("Failed to build agent")
	}
	defer closeFn()

	srv := chatui.NewServer(agent, m)
	logx.Info().Str("addr", cfg.Server.Addr).Msg("Chat UI listening")
	if err := srv.Router().Run(cfg.Server.Addr); err != nil {
		logx.Error().Err(err).Msg("Chat UI stopped")
	}
}
