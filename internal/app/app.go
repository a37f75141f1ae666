// Package app builds the client stores and their collaborators and owns their lifecycle.
package app

import (
	"context"
	"fmt"
	"net/http"

	"github.com/angelmondragon/storefront/internal/cart"
	"github.com/angelmondragon/storefront/internal/catalog"
	"github.com/angelmondragon/storefront/internal/filter"
	"github.com/angelmondragon/storefront/internal/orders"
	"github.com/angelmondragon/storefront/internal/session"
	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/logger"
	"github.com/angelmondragon/storefront/pkg/metrics"
	"github.com/angelmondragon/storefront/pkg/shopapi"
	"github.com/angelmondragon/storefront/pkg/storage"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/multierr"
)

// Options overrides collaborators, mostly for tests.
type Options struct {
	// Location is the link the listing starts from, e.g. a shared "/?category=Tops".
	Location   string
	HTTPClient *http.Client
	Storage    storage.Store
}

type App struct {
	Config   *config.Config
	Logger   *logger.Logger
	Storage  storage.Store
	API      *shopapi.Client
	Session  *session.Store
	Cart     *cart.Store
	Filter   *filter.Store
	Location *filter.URLLocation
	Catalog  *catalog.Service
	Orders   *orders.Service
	Registry *prometheus.Registry
}

// New wires every store. Logging out clears the cart; checkout falls back to the user's address.
func New(ctx context.Context, cfg *config.Config, logg *logger.Logger, opts Options) (*App, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config required")
	}
	if logg == nil {
		logg = logger.Nop()
	}

	store := opts.Storage
	if store == nil {
		var err error
		store, err = storage.New(ctx, cfg.Storage, cfg.Redis, logg)
		if err != nil {
			return nil, fmt.Errorf("opening storage: %w", err)
		}
	}

	a, err := build(ctx, cfg, logg, store, opts)
	if err != nil {
		_ = store.Close()
		return nil, err
	}
	return a, nil
}

func build(ctx context.Context, cfg *config.Config, logg *logger.Logger, store storage.Store, opts Options) (*App, error) {
	jar, err := shopapi.NewPersistentJar(ctx, cfg.API.BaseURL, store, logg)
	if err != nil {
		return nil, fmt.Errorf("restoring session cookies: %w", err)
	}

	registry := prometheus.NewRegistry()
	clientOpts := []shopapi.Option{
		shopapi.WithBaseURL(cfg.API.BaseURL),
		shopapi.WithLogger(logg),
		shopapi.WithMetrics(metrics.NewAPIMetrics(registry)),
	}
	if opts.HTTPClient != nil {
		clientOpts = append(clientOpts, shopapi.WithHTTPClient(opts.HTTPClient))
	}
	clientOpts = append(clientOpts, shopapi.WithTimeout(cfg.API.Timeout), shopapi.WithCookieJar(jar))
	api := shopapi.NewClient(clientOpts...)

	sessionStore, err := session.NewStore(session.Params{API: api, Logger: logg})
	if err != nil {
		return nil, err
	}

	cartStore, err := cart.NewStore(ctx, cart.Params{
		Storage: store,
		Orders:  api,
		Address: sessionStore,
		Logger:  logg,
	})
	if err != nil {
		return nil, err
	}
	sessionStore.OnLogout(cartStore.Clear)

	startAt := opts.Location
	if startAt == "" {
		startAt = "/"
	}
	location, err := filter.NewURLLocation(startAt)
	if err != nil {
		return nil, fmt.Errorf("parsing start location: %w", err)
	}
	filterStore, err := filter.NewStore(filter.Params{Taxonomy: api, Location: location, Logger: logg})
	if err != nil {
		return nil, err
	}

	catalogService, err := catalog.NewService(api, logg)
	if err != nil {
		return nil, err
	}
	ordersService, err := orders.NewService(api, sessionStore)
	if err != nil {
		return nil, err
	}

	return &App{
		Config:   cfg,
		Logger:   logg,
		Storage:  store,
		API:      api,
		Session:  sessionStore,
		Cart:     cartStore,
		Filter:   filterStore,
		Location: location,
		Catalog:  catalogService,
		Orders:   ordersService,
		Registry: registry,
	}, nil
}

// Init runs the session check and the taxonomy fetch. Neither failure is fatal.
func (a *App) Init(ctx context.Context) {
	a.Session.Init(ctx)
	a.Filter.Init(ctx)
}

// Close flushes client metrics when a textfile is configured and closes storage.
func (a *App) Close() error {
	var errs error
	if path := a.Config.Metrics.Textfile; path != "" {
		if err := prometheus.WriteToTextfile(path, a.Registry); err != nil {
			errs = multierr.Append(errs, fmt.Errorf("writing metrics textfile: %w", err))
		}
	}
	if err := a.Storage.Close(); err != nil {
		errs = multierr.Append(errs, fmt.Errorf("closing storage: %w", err))
	}
	return errs
}
