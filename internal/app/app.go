package app

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/joaommmadureira/challenges-ignite/internal/config"
	"github.com/joaommmadureira/challenges-ignite/internal/logging"
	"github.com/joaommmadureira/challenges-ignite/internal/repo"
)

type App struct {
	cfg    config.Config
	log    logging.Logger
	db     *sql.DB
	redis  *redis.Client
	router *gin.Engine
}

// Stores groups the repositories backing the services.
type Stores struct {
	Users repo.UserRepo
	Todos repo.TodoRepo
}

func New(ctx context.Context, cfg config.Config, log logging.Logger) (*App, error) {
	a := &App{cfg: cfg, log: log}

	st, err := a.openStores(ctx)
	if err != nil {
		return nil, err
	}

	if cfg.Redis.Enabled() {
		rdb, err := newRedis(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close(ctx)
			return nil, err
		}
		a.redis = rdb
	}

	a.router = newRouter(cfg, log, st, a.redis)
	return a, nil
}

func (a *App) Router() *gin.Engine {
	return a.router
}

func (a *App) Close(ctx context.Context) error {
	if a.redis != nil {
		if err := a.redis.Close(); err != nil {
			a.log.Warn(ctx, "redis close", "error", err)
		}
	}
	if a.db != nil {
		if err := a.db.Close(); err != nil {
			return fmt.Errorf("pg close: %w", err)
		}
	}
	return nil
}

func (a *App) openStores(ctx context.Context) (Stores, error) {
	switch a.cfg.Storage.Driver {
	case config.StoragePostgres:
		db, err := repo.OpenPostgres(ctx, a.cfg.PG.DSN)
		if err != nil {
			return Stores{}, err
		}
		if err := repo.Migrate(ctx, db); err != nil {
			_ = db.Close()
			return Stores{}, err
		}
		a.db = db
		a.log.Info(ctx, "storage ready", "driver", config.StoragePostgres)
		return Stores{Users: repo.NewPGUserRepo(db), Todos: repo.NewPGTodoRepo(db)}, nil
	default:
		m := repo.NewMemoryStore()
		a.log.Info(ctx, "storage ready", "driver", config.StorageMemory)
		return Stores{Users: m.Users(), Todos: m.Todos()}, nil
	}
}

func newRedis(ctx context.Context, cfg config.RedisConfig) (*redis.Client, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return rdb, nil
}

func newRouter(cfg config.Config, log logging.Logger, st Stores, rdb *redis.Client) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), requestLogger(log))

	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS", "HEAD"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "username"},
		ExposeHeaders: []string{"Content-Length", "Content-Type"},
		MaxAge:        12 * time.Hour,
	}))

	Setup(r, cfg, log, st, rdb)
	return r
}
