package tenant

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/singleflight"
	"gorm.io/gorm"
)

// Opener connects to the storage behind one tenant namespace. Implementations
// create the database or schema when it does not exist yet.
type Opener interface {
	Open(ctx context.Context, name string) (*gorm.DB, error)

	// Release drops a connection returned by Open.
	Release(name string, db *gorm.DB) error

	// Ping checks that tenant storage is reachable at all.
	Ping(ctx context.Context) error

	// Close releases anything shared between tenants.
	Close() error
}

// ErrRegistryClosed is returned for opens that finish after Close.
var ErrRegistryClosed = errors.New("tenant registry closed")

// Tenant is an open tenant namespace with its schema registered.
type Tenant struct {
	Name string
	DB   *gorm.DB
}

// tenantModels lists every model registered in a tenant database.
var tenantModels = []any{
	&domain.Staff{},
	&domain.Shift{},
	&domain.Alert{},
	&domain.User{},
}

// Registry caches open tenants by namespace. Concurrent first requests for
// the same namespace share a single open and schema registration. Failed
// opens are never cached.
type Registry struct {
	opener Opener
	logger *slog.Logger

	mu      sync.RWMutex
	tenants map[string]*Tenant
	closed  bool
	group   singleflight.Group
}

func NewRegistry(opener Opener, logger *slog.Logger) *Registry {
	return &Registry{
		opener:  opener,
		logger:  logger,
		tenants: make(map[string]*Tenant),
	}
}

// Resolve returns the tenant for name, opening it on first use. Any failure
// wraps ErrTenantNotFound.
func (r *Registry) Resolve(ctx context.Context, name string) (*Tenant, error) {
	if !ValidName(name) {
		return nil, fmt.Errorf("%w: %w: %q", ErrTenantNotFound, ErrInvalidName, name)
	}

	if t, ok := r.cached(name); ok {
		return t, nil
	}

	v, err, shared := r.group.Do(name, func() (any, error) {
		// Another flight may have finished between the cache miss and now.
		if t, ok := r.cached(name); ok {
			return t, nil
		}
		return r.open(context.WithoutCancel(ctx), name)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %w", ErrTenantNotFound, name, err)
	}
	if shared {
		r.logger.Debug("tenant open shared", "tenant", name)
	}
	return v.(*Tenant), nil
}

// Models resolves name and returns its typed repositories.
func (r *Registry) Models(ctx context.Context, name string) (*Models, error) {
	t, err := r.Resolve(ctx, name)
	if err != nil {
		return nil, err
	}
	return NewModels(t.DB.WithContext(ctx)), nil
}

func (r *Registry) cached(name string) (*Tenant, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	t, ok := r.tenants[name]
	return t, ok
}

func (r *Registry) open(ctx context.Context, name string) (*Tenant, error) {
	db, err := r.opener.Open(ctx, name)
	if err != nil {
		return nil, err
	}

	if err := db.WithContext(ctx).AutoMigrate(tenantModels...); err != nil {
		_ = r.opener.Release(name, db)
		return nil, fmt.Errorf("register schema: %w", err)
	}

	t := &Tenant{Name: name, DB: db}

	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		_ = r.opener.Release(name, db)
		return nil, ErrRegistryClosed
	}
	r.tenants[name] = t
	r.mu.Unlock()

	r.logger.Info("tenant opened", "tenant", name)
	return t, nil
}

// Len returns the number of open tenants.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.tenants)
}

// Ping checks the tenant storage backend.
func (r *Registry) Ping(ctx context.Context) error {
	return r.opener.Ping(ctx)
}

// Collector exposes the number of open tenants as a gauge.
func (r *Registry) Collector() prometheus.Collector {
	return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
		Name: "hss_tenant_connections_open",
		Help: "Number of tenant namespaces with an open connection.",
	}, func() float64 { return float64(r.Len()) })
}

// Close releases every open tenant and then the opener.
func (r *Registry) Close() error {
	r.mu.Lock()
	tenants := r.tenants
	r.tenants = make(map[string]*Tenant)
	r.closed = true
	r.mu.Unlock()

	var errs []error
	for name, t := range tenants {
		if err := r.opener.Release(name, t.DB); err != nil {
			errs = append(errs, fmt.Errorf("release %s: %w", name, err))
		}
	}
	if err := r.opener.Close(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
