package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	orchestratorx "github.com/tanpawarit/promo-agent/agent/agents/orchestrator"
	contractx "github.com/tanpawarit/promo-agent/agent/contract"
	llmx "github.com/tanpawarit/promo-agent/agent/llm"
	promptx "github.com/tanpawarit/promo-agent/agent/prompt"
	repositoryx "github.com/tanpawarit/promo-agent/agent/repository"
	retrievalx "github.com/tanpawarit/promo-agent/agent/retrieval"
	serverx "github.com/tanpawarit/promo-agent/agent/server"
	statex "github.com/tanpawarit/promo-agent/agent/state"
	toolx "github.com/tanpawarit/promo-agent/agent/tool"
	configx "github.com/tanpawarit/promo-agent/pkg/config"
	_ "github.com/tanpawarit/promo-agent/pkg/logger/autoload"
	postgresx "github.com/tanpawarit/promo-agent/pkg/postgres"
)

type StoreConfig struct {
	Backend string `envconfig:"BACKEND" default:"upstash"`
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := postgresx.MustOpen(*configx.MustNew[postgresx.Config]("POSTGRES"))
	defer db.Close()
	if err := postgresx.Ping(ctx, db); err != nil {
		log.Fatal().Err(err).Msg("database unreachable")
	}

	retrievalCfg := configx.MustNew[retrievalx.Config]("RETRIEVAL")
	retriever, err := retrievalx.NewService(
		repositoryx.NewOfferRepository(db),
		repositoryx.NewAddressRepository(db),
		*retrievalCfg,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("init retrieval service")
	}

	catalog, err := toolx.NewCatalog(
		toolx.NewBestPromotions(retriever),
		toolx.NewSQLQuery(repositoryx.NewQueryRepository(db), retrievalCfg.QueryMaxRows),
		toolx.NewFAQAnswer(),
	)
	if err != nil {
		log.Fatal().Err(err).Msg("init tool catalog")
	}

	oracle, err := llmx.NewOracle(ctx, *configx.MustNew[llmx.Config]("LLM"))
	if err != nil {
		log.Fatal().Err(err).Msg("init oracle")
	}

	store, err := newTranscriptStore(*configx.MustNew[StoreConfig]("STORE"))
	if err != nil {
		log.Fatal().Err(err).Msg("init transcript store")
	}

	agentCfg := configx.MustNew[orchestratorx.Config]("AGENT")
	agentCfg.SystemPrompt = promptx.MustRenderSystem(catalog.Infos(), toolx.ToolBestPromotions)
	orch, err := orchestratorx.New(store, oracle, catalog, *agentCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init orchestrator")
	}

	serverCfg := configx.MustNew[serverx.Config]("SERVER")
	auth, err := serverx.NewAuthenticator(serverCfg.JWTSecret)
	if err != nil {
		log.Fatal().Err(err).Msg("init authenticator")
	}
	handler, err := serverx.NewHandler(orch, *serverCfg)
	if err != nil {
		log.Fatal().Err(err).Msg("init chat handler")
	}

	srv := &http.Server{
		Addr:              serverCfg.Addr,
		Handler:           serverx.NewRouter(handler, auth),
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	go func() {
		log.Info().Str("addr", srv.Addr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("http server shutdown")
	}
}

func newTranscriptStore(cfg StoreConfig) (contractx.TranscriptStore, error) {
	switch strings.ToLower(strings.TrimSpace(cfg.Backend)) {
	case "redis":
		store, err := statex.NewRedisStoreFromConfig(*configx.MustNew[statex.RedisConfig]("REDIS"))
		if err != nil {
			return nil, err
		}
		return store, nil
	case "memory":
		log.Warn().Msg("transcripts are kept in memory and lost on restart")
		return statex.NewMemoryStore(), nil
	case "", "upstash":
		store, err := statex.NewUpstashRedisStore(*configx.MustNew[statex.UpstashRedisConfig]("UPSTASH_REDIS"))
		if err != nil {
			return nil, err
		}
		return store, nil
	default:
		return nil, errors.New("unsupported store backend: " + cfg.Backend)
	}
}
