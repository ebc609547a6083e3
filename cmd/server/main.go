package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/scythe504/wordclash-backend/internal/config"
	"github.com/scythe504/wordclash-backend/internal/content"
	"github.com/scythe504/wordclash-backend/internal/events"
	"github.com/scythe504/wordclash-backend/internal/game"
	"github.com/scythe504/wordclash-backend/internal/grid"
	"github.com/scythe504/wordclash-backend/internal/logger"
	"github.com/scythe504/wordclash-backend/internal/persistence"
	"github.com/scythe504/wordclash-backend/internal/round"
	"github.com/scythe504/wordclash-backend/internal/server"
	"github.com/scythe504/wordclash-backend/internal/store"
	"github.com/scythe504/wordclash-backend/internal/store/migrations"
	"github.com/scythe504/wordclash-backend/internal/websocket"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(cfg.Log.Level, cfg.Log.Format)

	if err := run(cfg, log); err != nil {
		log.Fatal().Err(err).Msg("server exited")
	}
}

func run(cfg *config.Config, log zerolog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var pool *pgxpool.Pool
	if cfg.NeedsPostgres() {
		p, err := openPostgres(ctx, cfg.Postgres.URL, log)
		if err != nil {
			return err
		}
		defer p.Close()
		pool = p
	}

	st, err := openStore(ctx, cfg, pool)
	if err != nil {
		return err
	}
	defer func() {
		if err := st.Close(); err != nil {
			log.Warn().Err(err).Msg("close store")
		}
	}()

	source, err := openContent(ctx, cfg, pool, log)
	if err != nil {
		return err
	}

	publisher, err := openPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer func() {
		if err := publisher.Close(); err != nil {
			log.Warn().Err(err).Msg("close publisher")
		}
	}()

	gen := grid.NewGenerator(nil, grid.Options{Size: cfg.Game.GridSize})
	hub := websocket.NewHub(log)
	ctrl := game.NewController(
		round.NewFactory(source, gen, nil, log),
		persistence.NewSync(st, cfg.Store.Timeout, log),
		hub,
		publisher,
		log,
		game.Options{DefaultRounds: cfg.Game.DefaultRounds},
	)

	ctrlCtx, stopCtrl := context.WithCancel(context.Background())
	ctrlDone := make(chan struct{})
	go func() {
		defer close(ctrlDone)
		ctrl.Run(ctrlCtx)
	}()

	srv := server.NewServer(cfg.Server.Port, ctrl, hub, log)
	serveErr := make(chan error, 1)
	go func() {
		log.Info().
			Str("addr", srv.Addr).
			Str("store", string(cfg.Store.Backend)).
			Str("content", string(cfg.Content.Source)).
			Msg("starting wordclash server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
		log.Info().Msg("shutting down")
	case err := <-serveErr:
		stopCtrl()
		<-ctrlDone
		hub.Close()
		return fmt.Errorf("http server: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Warn().Err(err).Msg("http shutdown")
	}
	// Stop the controller before dropping sockets so the resulting
	// disconnects do not delete rooms that should survive a restart.
	stopCtrl()
	<-ctrlDone
	hub.Close()

	log.Info().Msg("server stopped")
	return nil
}

func openPostgres(ctx context.Context, url string, log zerolog.Logger) (*pgxpool.Pool, error) {
	m, err := migrations.New(url, log)
	if err != nil {
		return nil, err
	}
	if err := m.Up(); err != nil {
		_ = m.Close()
		return nil, err
	}
	if err := m.Close(); err != nil {
		log.Warn().Err(err).Msg("close migrator")
	}

	pool, err := pgxpool.New(ctx, url)
	if err != nil {
		return nil, fmt.Errorf("create postgres pool: %w", err)
	}
	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping postgres: %w", err)
	}
	return pool, nil
}

func openStore(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool) (store.Store, error) {
	switch cfg.Store.Backend {
	case config.StorePostgres:
		return store.NewPostgres(pool), nil
	case config.StoreRedis:
		client := redis.NewClient(&redis.Options{
			Addr:         cfg.Redis.Addr,
			Password:     cfg.Redis.Password,
			DB:           cfg.Redis.DB,
			ReadTimeout:  cfg.Store.Timeout,
			WriteTimeout: cfg.Store.Timeout,
		})
		pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
		defer cancel()
		if err := client.Ping(pingCtx).Err(); err != nil {
			_ = client.Close()
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		return store.NewRedis(client, store.DefaultRedisPrefix), nil
	default:
		return store.NewMemory(), nil
	}
}

func openContent(ctx context.Context, cfg *config.Config, pool *pgxpool.Pool, log zerolog.Logger) (content.Source, error) {
	switch cfg.Content.Source {
	case config.ContentYAML:
		return content.LoadYAML(cfg.Content.File)
	case config.ContentCSV:
		return content.LoadCSV(cfg.Content.File)
	case config.ContentPostgres:
		src := content.NewPostgres(pool)
		if cfg.Content.Seed {
			packs, err := content.LoadYAML(cfg.Content.File)
			if err != nil {
				return nil, err
			}
			if err := src.Seed(ctx, packs.Packs()); err != nil {
				return nil, err
			}
			log.Info().Int("packs", len(packs.Packs())).Msg("word packs seeded")
		}
		return src, nil
	default:
		return content.NewStatic(nil), nil
	}
}

func openPublisher(cfg *config.Config, log zerolog.Logger) (events.Publisher, error) {
	if cfg.NATS.URL == "" {
		return events.Nop{}, nil
	}
	pub, err := events.NewNATS(cfg.NATS.URL, cfg.NATS.SubjectPrefix)
	if err != nil {
		return nil, err
	}
	log.Info().Str("url", cfg.NATS.URL).Msg("publishing lifecycle events to nats")
	return pub, nil
}
