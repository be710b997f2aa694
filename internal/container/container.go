package container

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/saulo-duarte/strive/internal/auth"
	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/config"
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/middlewares"
	"github.com/saulo-duarte/strive/internal/milestone"
	"github.com/saulo-duarte/strive/internal/router"
	"github.com/saulo-duarte/strive/internal/schema"
	"github.com/saulo-duarte/strive/internal/session"
	"github.com/saulo-duarte/strive/internal/storage"
	"github.com/saulo-duarte/strive/internal/user"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/saulo-duarte/strive/internal/view"
	"github.com/saulo-duarte/strive/internal/web"
	"gorm.io/gorm"
)

type Container struct {
	Settings config.Settings
	Gateway  *storage.Gateway
	Sessions *session.Manager
	Renderer view.Renderer
	Metrics  *middlewares.Metrics

	UserContainer      *user.UserContainer
	CategoryContainer  *category.Container
	GoalContainer      *goal.Container
	MilestoneContainer *milestone.Container
	AuthHandler        *auth.Handler

	closers []func() error
}

// Options are the already opened resources Build wires together.
type Options struct {
	DB            *gorm.DB
	Store         session.Store
	SessionSecret string
	SessionTTL    time.Duration
	CookieSecure  bool
	Today         validation.Clock
	// HashCost overrides the bcrypt cost; zero keeps the default.
	HashCost int
}

// New loads the environment, connects to Postgres, migrates the schema and
// wires every component.
func New(ctx context.Context) (*Container, error) {
	settings, err := config.Load()
	if err != nil {
		return nil, err
	}
	config.InitLogger(settings.LogLevel, settings.LogFormat)

	dsn, err := settings.DSN()
	if err != nil {
		return nil, err
	}
	if err := config.Connect(ctx, dsn); err != nil {
		return nil, err
	}
	if err := schema.Migrate(config.DB); err != nil {
		return nil, fmt.Errorf("migrate schema: %w", err)
	}

	loc, err := settings.Location()
	if err != nil {
		return nil, err
	}

	store, closeStore, err := newSessionStore(ctx, settings)
	if err != nil {
		return nil, err
	}

	c, err := Build(Options{
		DB:            config.DB,
		Store:         store,
		SessionSecret: settings.SessionSecret,
		SessionTTL:    settings.SessionTTL,
		CookieSecure:  settings.CookieSecure,
		Today:         validation.TodayIn(loc),
	})
	if err != nil {
		return nil, err
	}
	c.Settings = settings
	if closeStore != nil {
		c.closers = append(c.closers, closeStore)
	}
	if sqlDB, err := config.DB.DB(); err == nil {
		c.closers = append(c.closers, sqlDB.Close)
	}

	config.WithContext(ctx).WithField("session_store", settings.SessionStore).Info("Application wired")
	return c, nil
}

func newSessionStore(ctx context.Context, s config.Settings) (session.Store, func() error, error) {
	if s.SessionStore != "redis" {
		return session.NewMemoryStore(), nil, nil
	}

	cipher, err := config.NewCipher(s.CryptoKey)
	if err != nil {
		return nil, nil, err
	}

	client := redis.NewClient(&redis.Options{
		Addr:     s.RedisAddr,
		Password: s.RedisPassword,
		DB:       s.RedisDB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, nil, fmt.Errorf("connect to redis: %w", err)
	}
	return session.NewRedisStore(client, cipher), client.Close, nil
}

func Build(opts Options) (*Container, error) {
	if opts.DB == nil {
		return nil, errors.New("container: database is required")
	}
	if opts.Store == nil {
		opts.Store = session.NewMemoryStore()
	}
	if opts.Today == nil {
		opts.Today = validation.TodayIn(time.UTC)
	}

	renderer, err := view.NewRenderer()
	if err != nil {
		return nil, fmt.Errorf("load templates: %w", err)
	}

	codec, err := auth.NewTokenCodec(opts.SessionSecret)
	if err != nil {
		return nil, err
	}

	sessions := session.NewManager(opts.Store, codec, session.Options{
		TTL:    opts.SessionTTL,
		Secure: opts.CookieSecure,
		ErrorHandler: func(w http.ResponseWriter, r *http.Request, err error) {
			web.ServerError(w, r, renderer, err)
		},
	})

	gw := storage.NewGateway(opts.DB)

	userContainer := user.NewUserContainer(gw, opts.HashCost)
	categoryContainer := category.NewContainer(gw, renderer)
	goalContainer := goal.NewContainer(gw, categoryContainer.Service, opts.Today, renderer)
	milestoneContainer := milestone.NewContainer(gw, goalContainer.Service, renderer)
	goalContainer.Handler.SetDetailView(milestoneContainer.Handler)

	return &Container{
		Gateway:            gw,
		Sessions:           sessions,
		Renderer:           renderer,
		Metrics:            middlewares.NewMetrics(),
		UserContainer:      userContainer,
		CategoryContainer:  categoryContainer,
		GoalContainer:      goalContainer,
		MilestoneContainer: milestoneContainer,
		AuthHandler:        auth.NewHandler(userContainer.Service, renderer),
	}, nil
}

func (c *Container) Router() http.Handler {
	return router.New(router.RouterConfig{
		Sessions:         c.Sessions,
		Renderer:         c.Renderer,
		Metrics:          c.Metrics,
		AuthHandler:      c.AuthHandler,
		CategoryHandler:  c.CategoryContainer.Handler,
		GoalHandler:      c.GoalContainer.Handler,
		MilestoneHandler: c.MilestoneContainer.Handler,
	})
}

func (c *Container) Close() error {
	var errs []error
	for i := len(c.closers) - 1; i >= 0; i-- {
		if err := c.closers[i](); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
