package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"feedback360-go/internal/config"
	"feedback360-go/internal/db"
	assignmentsdomain "feedback360-go/internal/domain/assignments"
	emailingdomain "feedback360-go/internal/domain/emailing"
	identitydomain "feedback360-go/internal/domain/identity"
	relationshipsdomain "feedback360-go/internal/domain/relationships"
	"feedback360-go/internal/domain/scoring"
	tenantsdomain "feedback360-go/internal/domain/tenants"
	validationdomain "feedback360-go/internal/domain/validation"
	"feedback360-go/internal/repository/inmemory"
	assignmentsrepo "feedback360-go/internal/repository/postgres/assignments"
	emailingrepo "feedback360-go/internal/repository/postgres/emailing"
	identityrepo "feedback360-go/internal/repository/postgres/identity"
	relationshipsrepo "feedback360-go/internal/repository/postgres/relationships"
	scoringrepo "feedback360-go/internal/repository/postgres/scoring"
	tenantsrepo "feedback360-go/internal/repository/postgres/tenants"
	redisrepo "feedback360-go/internal/repository/redis"
	"feedback360-go/internal/transport/httpserver"
	"feedback360-go/internal/transport/httpserver/handler"
	"feedback360-go/internal/transport/httpserver/handler/common"
	emailinghandler "feedback360-go/internal/transport/httpserver/handler/emailing"
	"feedback360-go/internal/transport/httpserver/handler/employees"
	relationshipshandler "feedback360-go/internal/transport/httpserver/handler/relationships"
	"feedback360-go/internal/transport/httpserver/handler/reports"
	"feedback360-go/internal/transport/httpserver/handler/submissions"
	"feedback360-go/internal/transport/httpserver/handler/surveys"
	tenantshandler "feedback360-go/internal/transport/httpserver/handler/tenants"
	"feedback360-go/internal/transport/httpserver/middleware"
	"feedback360-go/pkg/logger"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

type App struct {
	cfg        config.Config
	httpServer *http.Server
	db         *gorm.DB
	redis      *goredis.Client
}

// Services groups the domain services so both the HTTP surface and the CLI
// can drive them.
type Services struct {
	Tenants       *tenantsdomain.Service
	Identity      *identitydomain.Service
	Relationships *relationshipsdomain.Service
	Assignments   *assignmentsdomain.Service
	Validation    *validationdomain.Service
	Scoring       *scoring.Service
	Emailing      *emailingdomain.Service
}

func New(ctx context.Context, cfg config.Config, log logger.Logger) (*App, error) {
	log.Info("app: initializing database")
	dbConn, err := db.NewPostgres(cfg.DB, log)
	if err != nil {
		return nil, err
	}

	a := &App{cfg: cfg, db: dbConn}

	if cfg.UsesRedis() {
		log.Info("app: connecting to redis", "addr", cfg.Redis.Addr)
		client, err := redisrepo.NewClient(ctx, cfg.Redis)
		if err != nil {
			_ = a.Close()
			return nil, err
		}
		a.redis = client
	}

	services := a.buildServices(log)

	log.Info("app: initializing router")
	router, err := a.buildRouter(services, log)
	if err != nil {
		_ = a.Close()
		return nil, err
	}

	log.Info("app: initializing http server")
	a.httpServer = httpserver.New(cfg, router)
	return a, nil
}

func (a *App) buildServices(log logger.Logger) Services {
	var cache emailingdomain.Cache
	switch a.cfg.Cache.Backend {
	case "redis":
		cache = redisrepo.NewEmailingCache(a.redis, a.cfg.Redis.Prefix, a.cfg.Cache.SlidingTTL, a.cfg.Cache.AbsoluteTTL)
	default:
		cache = inmemory.NewEmailingCache(a.cfg.Cache.SlidingTTL, a.cfg.Cache.AbsoluteTTL)
	}

	emailing := emailingdomain.NewService(emailingrepo.NewPostgres(a.db), cache, log)
	identity := identitydomain.NewService(identityrepo.NewPostgres(a.db), emailing)
	relationships := relationshipsdomain.NewService(relationshipsrepo.NewPostgres(a.db), identity, emailing)
	assignments := assignmentsdomain.NewService(
		assignmentsrepo.NewPostgres(a.db),
		identity,
		relationships,
		emailing,
		assignmentsdomain.Config{AllowEditAfterCompletion: a.cfg.Submission.AllowEditAfterCompletion},
	)

	return Services{
		Tenants: tenantsdomain.NewService(tenantsrepo.NewPostgres(a.db)).
			WithCache(inmemory.NewTenantCache(), a.cfg.Tenancy.CacheTTL).
			WithInvalidator(emailing),
		Identity:      identity,
		Relationships: relationships,
		Assignments:   assignments,
		Validation:    validationdomain.NewService(identity),
		Scoring:       scoring.NewService(scoringrepo.NewPostgres(a.db), identity),
		Emailing:      emailing,
	}
}

func (a *App) buildRouter(services Services, log logger.Logger) (http.Handler, error) {
	sqlDB, err := a.db.DB()
	if err != nil {
		return nil, fmt.Errorf("db handle: %w", err)
	}

	handlers := &handler.Handlers{
		Common:        common.New(sqlDB, log),
		Tenants:       tenantshandler.New(services.Tenants, log),
		Employees:     employees.New(services.Identity, services.Validation, log),
		Relationships: relationshipshandler.New(services.Relationships, services.Assignments, log),
		Surveys:       surveys.New(services.Assignments, log),
		Submissions:   submissions.New(services.Assignments, log),
		Reports:       reports.New(services.Scoring, log),
		Emailing:      emailinghandler.New(services.Emailing, log),
	}

	opts := httpserver.RouterOptions{
		Tenant: middleware.NewTenant(a.cfg.Tenancy.Header, services.Tenants, log),
	}
	if a.cfg.RateLimit.Enabled {
		var client goredis.UniversalClient
		if a.redis != nil {
			client = a.redis
		}
		rateLimit, err := middleware.NewRateLimit(a.cfg.RateLimit, a.cfg.Tenancy.Header, client, log)
		if err != nil {
			return nil, err
		}
		opts.RateLimit = rateLimit
	}

	return httpserver.NewRouter(a.cfg, handlers, opts), nil
}

func (a *App) HTTPServer() *http.Server {
	return a.httpServer
}

func (a *App) Close() error {
	var errs []error
	if a.redis != nil {
		errs = append(errs, a.redis.Close())
	}
	if a.db != nil {
		sqlDB, err := a.db.DB()
		if err != nil {
			errs = append(errs, err)
		} else {
			errs = append(errs, sqlDB.Close())
		}
	}
	return errors.Join(errs...)
}
