package tenant

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/pkg/slogx"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// countingOpener wraps an Opener and counts calls to Open and Release. gate, when set,
// holds every Open until it is closed.
type countingOpener struct {
	Opener
	opens    atomic.Int32
	releases atomic.Int32
	gate     chan struct{}
	fail     error
}

func (o *countingOpener) Release(name string, db *gorm.DB) error {
	o.releases.Add(1)
	return o.Opener.Release(name, db)
}

func (o *countingOpener) Open(ctx context.Context, name string) (*gorm.DB, error) {
	o.opens.Add(1)
	if o.gate != nil {
		<-o.gate
	}
	if o.fail != nil {
		return nil, o.fail
	}
	return o.Opener.Open(ctx, name)
}

func newRegistry(t *testing.T, opener Opener) *Registry {
	t.Helper()

	r := NewRegistry(opener, slogx.Discard())
	t.Cleanup(func() { _ = r.Close() })
	return r
}

func TestRegistryResolveCreatesTenantFile(t *testing.T) {
	dir := t.TempDir()
	r := newRegistry(t, &SQLiteOpener{Dir: dir, Logger: slogx.Discard()})

	tn, err := r.Resolve(context.Background(), "hss_demo_user")
	require.NoError(t, err)
	require.Equal(t, "hss_demo_user", tn.Name)
	require.FileExists(t, filepath.Join(dir, "hss_demo_user.db"))

	for _, model := range []any{&domain.Staff{}, &domain.Shift{}, &domain.Alert{}, &domain.User{}} {
		require.True(t, tn.DB.Migrator().HasTable(model))
	}

	again, err := r.Resolve(context.Background(), "hss_demo_user")
	require.NoError(t, err)
	require.Same(t, tn, again)
	require.Equal(t, 1, r.Len())
}

func TestRegistrySingleFlight(t *testing.T) {
	opener := &countingOpener{
		Opener: &SQLiteOpener{Dir: t.TempDir(), Logger: slogx.Discard()},
		gate:   make(chan struct{}),
	}
	r := newRegistry(t, opener)

	const callers = 16
	var (
		wg      sync.WaitGroup
		results = make([]*Tenant, callers)
		errs    = make([]error, callers)
	)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = r.Resolve(context.Background(), "hss_busy")
		}()
	}

	// Let the callers pile up behind the first open.
	time.Sleep(50 * time.Millisecond)
	close(opener.gate)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		require.Same(t, results[0], results[i])
	}
	require.EqualValues(t, 1, opener.opens.Load())
}

func TestRegistryDoesNotCacheFailures(t *testing.T) {
	boom := errors.New("disk on fire")
	opener := &countingOpener{
		Opener: &SQLiteOpener{Dir: t.TempDir(), Logger: slogx.Discard()},
		fail:   boom,
	}
	r := newRegistry(t, opener)

	_, err := r.Resolve(context.Background(), "hss_demo_user")
	require.ErrorIs(t, err, ErrTenantNotFound)
	require.ErrorIs(t, err, boom)
	require.Equal(t, 0, r.Len())

	opener.fail = nil
	_, err = r.Resolve(context.Background(), "hss_demo_user")
	require.NoError(t, err)
	require.EqualValues(t, 2, opener.opens.Load())
}

func TestRegistryRejectsInvalidNames(t *testing.T) {
	opener := &countingOpener{Opener: &SQLiteOpener{Dir: t.TempDir(), Logger: slogx.Discard()}}
	r := newRegistry(t, opener)

	for _, name := range []string{"", "demo_user", "hss_../../etc/passwd"} {
		_, err := r.Resolve(context.Background(), name)
		require.ErrorIs(t, err, ErrTenantNotFound)
		require.ErrorIs(t, err, ErrInvalidName)
	}
	require.Zero(t, opener.opens.Load())
}

func TestRegistryUnreachableStorage(t *testing.T) {
	// A regular file where the tenant directory should be.
	blocker := filepath.Join(t.TempDir(), "tenants")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	opener := &SQLiteOpener{Dir: blocker, Logger: slogx.Discard()}
	r := newRegistry(t, opener)

	_, err := r.Resolve(context.Background(), "hss_demo_user")
	require.ErrorIs(t, err, ErrTenantNotFound)
	require.Error(t, r.Ping(context.Background()))
}

func TestRegistryTenantsAreIsolated(t *testing.T) {
	ctx := context.Background()
	r := newRegistry(t, &SQLiteOpener{Dir: MemoryDir, Logger: slogx.Discard()})

	a, err := r.Models(ctx, "hss_alpha")
	require.NoError(t, err)
	b, err := r.Models(ctx, "hss_bravo")
	require.NoError(t, err)

	require.NoError(t, a.Staff.Create(ctx, &domain.Staff{FirstName: "Ann", LastName: "A", Email: "ann@a.example", Department: "ICU"}))

	n, err := a.Staff.Count(ctx)
	require.NoError(t, err)
	require.EqualValues(t, 1, n)

	n, err = b.Staff.Count(ctx)
	require.NoError(t, err)
	require.Zero(t, n)
}

func TestRegistryCollector(t *testing.T) {
	r := newRegistry(t, &SQLiteOpener{Dir: MemoryDir, Logger: slogx.Discard()})

	reg := prometheus.NewPedanticRegistry()
	require.NoError(t, reg.Register(r.Collector()))

	_, err := r.Resolve(context.Background(), "hss_gauge")
	require.NoError(t, err)

	require.InDelta(t, 1, testutil.ToFloat64(r.Collector()), 0)
	count, err := testutil.GatherAndCount(reg, "hss_tenant_connections_open")
	require.NoError(t, err)
	require.Equal(t, 1, count)
}

func TestRegistryClose(t *testing.T) {
	r := NewRegistry(&SQLiteOpener{Dir: t.TempDir(), Logger: slogx.Discard()}, slogx.Discard())

	_, err := r.Resolve(context.Background(), "hss_demo_user")
	require.NoError(t, err)
	require.NoError(t, r.Close())
	require.Zero(t, r.Len())
}

func TestRegistryCloseDuringOpenReleasesConnection(t *testing.T) {
	opener := &countingOpener{
		Opener: &SQLiteOpener{Dir: t.TempDir(), Logger: slogx.Discard()},
		gate:   make(chan struct{}),
	}
	r := NewRegistry(opener, slogx.Discard())

	done := make(chan error, 1)
	go func() {
		_, err := r.Resolve(context.Background(), "hss_late")
		done <- err
	}()

	require.Eventually(t, func() bool { return opener.opens.Load() == 1 }, time.Second, 5*time.Millisecond)
	require.NoError(t, r.Close())
	close(opener.gate)

	err := <-done
	require.ErrorIs(t, err, ErrTenantNotFound)
	require.ErrorIs(t, err, ErrRegistryClosed)
	require.Zero(t, r.Len())
	require.EqualValues(t, 1, opener.releases.Load())
}
