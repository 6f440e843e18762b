package app

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/noah-isme/classroom-client/internal/handler"
	"github.com/noah-isme/classroom-client/internal/repository"
	"github.com/noah-isme/classroom-client/internal/service"
	"github.com/noah-isme/classroom-client/pkg/cache"
	"github.com/noah-isme/classroom-client/pkg/config"
	"github.com/noah-isme/classroom-client/pkg/database"
	"github.com/noah-isme/classroom-client/pkg/storage"
)

// App is the assembled client: stores, workflows and the bridge handlers.
type App struct {
	Config  *config.Config
	Logger  *zap.Logger
	Metrics *service.MetricsService

	Store repository.KeyValueStore
	// Files is set only for the file backend.
	Files *storage.LocalStorage

	Session       *service.Session
	Classrooms    *service.ClassroomService
	Auth          *service.AuthService
	Profiles      *service.ProfileService
	Notifications *service.NotificationService
	Exports       *service.ExportService

	closers []func() error
}

// New builds the object graph from cfg.
func New(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*App, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	a := &App{Config: cfg, Logger: logger, Metrics: service.NewMetricsService()}

	kv, files, err := openStore(ctx, cfg, logger)
	if err != nil {
		return nil, err
	}
	a.Store = kv
	a.Files = files
	a.closers = append(a.closers, kv.Close)

	sinks := []service.NotificationSink{service.NewLogSink(logger)}
	if cfg.Notify.NATSURL != "" {
		nc, err := nats.Connect(cfg.Notify.NATSURL,
			nats.Name("classroom-client"),
			nats.Timeout(5*time.Second),
			nats.MaxReconnects(5),
		)
		if err != nil {
			logger.Warn("nats unavailable, notifications stay local", zap.String("url", cfg.Notify.NATSURL), zap.Error(err))
		} else {
			sinks = append(sinks, service.NewNATSSink(nc, cfg.Notify.NATSSubject))
			a.closers = append(a.closers, func() error {
				nc.Close()
				return nil
			})
		}
	}

	classroomRepo := repository.NewClassroomRepository(kv)
	sessionRepo := repository.NewSessionRepository(kv)
	profileRepo := repository.NewProfileRepository(kv)
	remote := repository.NewRemoteRepository(cfg.Remote, sessionRepo, logger.Named("remote"))

	a.Notifications = service.NewNotificationService(service.NotificationConfig{
		Enabled:   cfg.Notify.Enabled,
		QueueSize: cfg.Notify.QueueSize,
	}, logger.Named("notify"), a.Metrics, sinks...)
	a.Session = service.NewSession(sessionRepo, classroomRepo, logger, a.Metrics)
	a.Classrooms = service.NewClassroomService(classroomRepo, a.Session, remote, a.Notifications, logger.Named("classrooms"), a.Metrics)
	a.Auth = service.NewAuthService(remote, a.Session, a.Notifications, a.Classrooms, validator.New(), logger.Named("auth"))
	a.Profiles = service.NewProfileService(profileRepo, classroomRepo, logger, a.Metrics)
	a.Exports = service.NewExportService(a.Classrooms, logger)

	return a, nil
}

// StartBackground starts the notification worker for long-running commands.
func (a *App) StartBackground(ctx context.Context) {
	a.Notifications.Start(ctx)
}

// Router builds the presentation bridge.
func (a *App) Router() *gin.Engine {
	return handler.NewRouter(handler.RouterConfig{
		APIPrefix:      a.Config.APIPrefix,
		AllowedOrigins: a.Config.CORS.AllowedOrigins,
		EnableDocs:     a.Config.Env != config.EnvProduction,
		Logger:         a.Logger,
		Metrics:        a.Metrics,
		Session:        a.Session,
		Sessions:       handler.NewSessionHandler(a.Auth),
		Rooms:          handler.NewClassroomHandler(a.Classrooms),
		Profile:        handler.NewProfileHandler(a.Profiles),
	})
}

// Close drains notifications and releases the store and broker connections.
func (a *App) Close() error {
	a.Notifications.Close()
	var errs []error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

func openStore(ctx context.Context, cfg *config.Config, logger *zap.Logger) (repository.KeyValueStore, *storage.LocalStorage, error) {
	switch cfg.Store.Backend {
	case config.StoreMemory:
		return repository.NewMemoryKV(), nil, nil
	case config.StoreRedis:
		client, err := cache.NewRedis(ctx, cfg.Redis)
		if err != nil {
			return nil, nil, fmt.Errorf("connect redis: %w", err)
		}
		return repository.NewRedisKV(client, cfg.Redis.KeyPrefix, logger), nil, nil
	case config.StorePostgres:
		db, err := database.NewPostgres(ctx, cfg.Database)
		if err != nil {
			return nil, nil, fmt.Errorf("connect postgres: %w", err)
		}
		kv, err := repository.NewPostgresKV(db, cfg.Store.Table)
		if err != nil {
			db.Close()
			return nil, nil, err
		}
		if err := kv.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, fmt.Errorf("ensure kv schema: %w", err)
		}
		return kv, nil, nil
	case config.StoreFile, "":
		files, err := storage.NewLocalStorage(cfg.Store.Dir)
		if err != nil {
			return nil, nil, fmt.Errorf("open store dir: %w", err)
		}
		return files, files, nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
