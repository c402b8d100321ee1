// Package app wires the domain services to their stores and manages
// their lifecycle.
package app

import (
	"context"

	"github.com/ratewise/platform/internal/app/services/auth"
	"github.com/ratewise/platform/internal/app/services/ratings"
	"github.com/ratewise/platform/internal/app/services/reporting"
	"github.com/ratewise/platform/internal/app/services/stores"
	"github.com/ratewise/platform/internal/app/services/users"
	"github.com/ratewise/platform/internal/app/storage"
	"github.com/ratewise/platform/internal/app/storage/memory"
	"github.com/ratewise/platform/internal/app/system"
	"github.com/ratewise/platform/internal/metrics"
	"github.com/ratewise/platform/pkg/logger"
)

// Stores encapsulates persistence dependencies. Nil stores default to
// the in-memory implementation.
type Stores struct {
	Users   storage.Users
	Stores  storage.Stores
	Ratings storage.Ratings
}

// Config carries the application-level settings.
type Config struct {
	Auth              auth.Config
	ReportingSchedule string
}

// Application ties domain services together and manages their lifecycle.
type Application struct {
	manager *system.Manager
	log     *logger.Logger

	Metrics *metrics.Metrics

	Auth    *auth.Service
	Users   *users.Service
	Stores  *stores.Service
	Ratings *ratings.Service
}

// New builds a fully initialised application with the provided stores.
func New(st Stores, cfg Config, log *logger.Logger) (*Application, error) {
	if log == nil {
		log = logger.NewDefault("app")
	}

	mem := memory.New()
	if st.Users == nil {
		st.Users = mem
	}
	if st.Stores == nil {
		st.Stores = mem
	}
	if st.Ratings == nil {
		st.Ratings = mem
	}

	m := metrics.New()
	manager := system.NewManager()

	application := &Application{
		manager: manager,
		log:     log,
		Metrics: m,
		Auth:    auth.New(st.Users, cfg.Auth, log.WithField("component", "auth")),
		Users:   users.New(st.Users, log.WithField("component", "users")),
		Stores:  stores.New(st.Stores, st.Ratings, st.Users, log.WithField("component", "stores")),
		Ratings: ratings.New(st.Ratings, st.Stores, st.Users, log.WithField("component", "ratings")),
	}

	collector := reporting.New(st.Users, st.Stores, st.Ratings, m, cfg.ReportingSchedule, log.WithField("component", "reporting"))
	if err := manager.Register(collector); err != nil {
		return nil, err
	}

	return application, nil
}

// Start brings up the managed services.
func (a *Application) Start(ctx context.Context) error {
	a.log.Info("starting application services")
	return a.manager.Start(ctx)
}

// Stop shuts the managed services down in reverse order.
func (a *Application) Stop(ctx context.Context) error {
	a.log.Info("stopping application services")
	return a.manager.Stop(ctx)
}
