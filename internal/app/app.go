package app

import (
	"context"
	"crypto/tls"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"

	"example.com/wordle-tls/internal/auth"
	"example.com/wordle-tls/internal/config"
	"example.com/wordle-tls/internal/httpapi"
	"example.com/wordle-tls/internal/migrate"
	"example.com/wordle-tls/internal/server"
	"example.com/wordle-tls/internal/store"
	"example.com/wordle-tls/internal/tlsconf"
	"example.com/wordle-tls/internal/words"
)

type App struct {
	cfg config.Config
	log *slog.Logger

	corpus     *words.Corpus
	dispatcher *server.Dispatcher
	gameLn     net.Listener

	ops   *http.Server // nil when OPS_HTTP_ADDR is empty
	opsLn net.Listener
}

// New loads the word lists, builds the TLS listener and, when enabled, the
// ops HTTP server. Listeners are bound here so port conflicts fail fast.
func New(ctx context.Context, cfg config.Config, log *slog.Logger) (*App, error) {
	if log == nil {
		log = slog.Default()
	}

	tlsCfg, err := tlsconf.Server(cfg.TLS.CertFile, cfg.TLS.KeyFile, cfg.TLS.ClientCAFile)
	if err != nil {
		return nil, err
	}

	corpus, err := loadCorpus(ctx, cfg, log)
	if err != nil {
		return nil, err
	}

	d := server.New(server.Config{
		IdleTimeout:      cfg.Game.IdleTimeout,
		HandshakeTimeout: cfg.Game.HandshakeTimeout,
		MaxSessions:      int64(cfg.Game.MaxSessions),
		LogTargets:       cfg.Log.Targets,
	}, corpus, corpus, log)

	gameLn, err := tls.Listen("tcp", cfg.Game.Addr, tlsCfg)
	if err != nil {
		return nil, fmt.Errorf("game listen: %w", err)
	}

	a := &App{cfg: cfg, log: log, corpus: corpus, dispatcher: d, gameLn: gameLn}

	if cfg.Ops.Addr != "" {
		opsLn, err := net.Listen("tcp", cfg.Ops.Addr)
		if err != nil {
			_ = gameLn.Close()
			return nil, fmt.Errorf("ops listen: %w", err)
		}
		h := &httpapi.OpsHandler{Sessions: d, Words: corpus, Log: log}
		a.opsLn = opsLn
		a.ops = &http.Server{
			Handler:           h.Routes(auth.NewService([]byte(cfg.Ops.Secret))),
			ReadHeaderTimeout: cfg.Ops.ReadHeaderTimeout,
		}
	}
	return a, nil
}

func (a *App) GameAddr() net.Addr { return a.gameLn.Addr() }

// OpsAddr is nil when the ops server is disabled.
func (a *App) OpsAddr() net.Addr {
	if a.opsLn == nil {
		return nil
	}
	return a.opsLn.Addr()
}

func (a *App) Run(ctx context.Context) error {
	g, gctx := errgroup.WithContext(ctx)

	a.log.Info("game server starting", "addr", a.gameLn.Addr().String(), "max_sessions", a.cfg.Game.MaxSessions)
	g.Go(func() error {
		return a.dispatcher.Serve(gctx, a.gameLn)
	})

	if a.ops != nil {
		a.log.Info("ops http server starting", "addr", a.opsLn.Addr().String())
		g.Go(func() error {
			err := a.ops.Serve(a.opsLn)
			if err == nil || errors.Is(err, http.ErrServerClosed) {
				return nil
			}
			return err
		})

		g.Go(func() error {
			<-gctx.Done()
			shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Ops.ShutdownTimeout)
			defer cancel()
			a.log.Info("ops http server shutting down")
			_ = a.ops.Shutdown(shutdownCtx)
			return nil
		})
	}

	err := g.Wait()
	st := a.dispatcher.Stats()
	a.log.Info("game server stopped", "accepted", st.Accepted, "won", st.Won, "aborted", st.Aborted)
	return err
}

func loadCorpus(ctx context.Context, cfg config.Config, log *slog.Logger) (*words.Corpus, error) {
	var src words.Source

	switch cfg.Words.Source {
	case config.WordsPostgres:
		if cfg.Postgres.RunMigrations {
			if err := migrate.UpContext(ctx, cfg.Postgres.URL, cfg.Postgres.MigrationsDir, log); err != nil {
				return nil, err
			}
		}
		dbpool, err := pgxpool.New(ctx, cfg.Postgres.URL)
		if err != nil {
			return nil, fmt.Errorf("pgxpool: %w", err)
		}
		defer dbpool.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := dbpool.Ping(pingCtx); err != nil {
			return nil, fmt.Errorf("postgres ping: %w", err)
		}
		src = store.NewPostgresWords(dbpool)

	case config.WordsRedis:
		rdb := redis.NewClient(&redis.Options{
			Addr: cfg.Redis.Addr,
			DB:   cfg.Redis.DB,
		})
		defer rdb.Close()

		pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()
		if err := rdb.Ping(pingCtx).Err(); err != nil {
			return nil, fmt.Errorf("redis ping (%s db=%d): %w", cfg.Redis.Addr, cfg.Redis.DB, err)
		}
		src = store.NewRedisWords(rdb, cfg.Redis.TargetsKey, cfg.Redis.GuessesKey)

	default:
		src = words.FileSource{TargetsPath: cfg.Words.TargetsFile, GuessesPath: cfg.Words.GuessesFile}
	}

	corpus, err := words.Load(ctx, src)
	if err != nil {
		return nil, fmt.Errorf("load words from %s: %w", cfg.Words.Source, err)
	}
	targets, accepted := corpus.Stats()
	log.Info("word lists loaded", "source", cfg.Words.Source, "targets", targets, "accepted", accepted)
	return corpus, nil
}
