package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hsshealth/hss/internal/auth/cache"
	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/tenant"
	"github.com/hsshealth/hss/pkg/slogx"
)

const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// StatsCache stores computed dashboard stats per tenant.
type StatsCache interface {
	Get(ctx context.Context, tenant string) (domain.DashboardStats, error)
	Set(ctx context.Context, tenant string, stats domain.DashboardStats) error
}

// DashboardService answers read-only queries against the tenant database
// named in a session token.
type DashboardService struct {
	Tenants *tenant.Registry

	// Cache is optional. Its failures never fail a request.
	Cache StatsCache

	// Now defaults to time.Now.
	Now func() time.Time
}

func (s *DashboardService) now() time.Time {
	if s.Now != nil {
		return s.Now().UTC()
	}
	return time.Now().UTC()
}

func (s *DashboardService) models(ctx context.Context, tenantName string) (*tenant.Models, error) {
	if tenantName == "" {
		return nil, ErrMissingTenant
	}
	return s.Tenants.Models(ctx, tenantName)
}

// Stats returns the aggregate counts for tenantName.
func (s *DashboardService) Stats(ctx context.Context, tenantName string) (domain.DashboardStats, error) {
	l := slogx.FromContext(ctx)

	m, err := s.models(ctx, tenantName)
	if err != nil {
		return domain.DashboardStats{}, err
	}

	if s.Cache != nil {
		stats, err := s.Cache.Get(ctx, tenantName)
		switch {
		case err == nil:
			return stats, nil
		case !errors.Is(err, cache.ErrMiss):
			l.Warn("stats cache read failed", slog.String("tenant", tenantName), slog.Any("error", err))
		}
	}

	stats, err := computeStats(ctx, m, s.now())
	if err != nil {
		return domain.DashboardStats{}, err
	}

	if s.Cache != nil {
		if err := s.Cache.Set(ctx, tenantName, stats); err != nil {
			l.Warn("stats cache write failed", slog.String("tenant", tenantName), slog.Any("error", err))
		}
	}
	return stats, nil
}

func computeStats(ctx context.Context, m *tenant.Models, now time.Time) (domain.DashboardStats, error) {
	var (
		stats domain.DashboardStats
		err   error
	)

	if stats.TotalStaff, err = m.Staff.Count(ctx); err != nil {
		return stats, fmt.Errorf("count staff: %w", err)
	}
	if stats.ActiveShifts, err = m.Shifts.CountByStatus(ctx, domain.ShiftInProgress); err != nil {
		return stats, fmt.Errorf("count shifts: %w", err)
	}
	if stats.PendingApprovals, err = m.Staff.CountByStatus(ctx, domain.StaffPending); err != nil {
		return stats, fmt.Errorf("count pending staff: %w", err)
	}
	if stats.CompliantStaff, err = m.Staff.CountCompliant(ctx, now); err != nil {
		return stats, fmt.Errorf("count compliant staff: %w", err)
	}
	stats.NonCompliantStaff = stats.TotalStaff - stats.CompliantStaff
	if stats.UnreadAlerts, err = m.Alerts.CountUnread(ctx); err != nil {
		return stats, fmt.Errorf("count alerts: %w", err)
	}
	return stats, nil
}

// ClampLimit maps a requested page size onto [1, MaxListLimit]; zero or
// negative means DefaultListLimit.
func ClampLimit(limit int) int {
	switch {
	case limit <= 0:
		return DefaultListLimit
	case limit > MaxListLimit:
		return MaxListLimit
	}
	return limit
}

// Alerts returns the newest alerts of the tenant.
func (s *DashboardService) Alerts(ctx context.Context, tenantName string, limit int) ([]domain.Alert, error) {
	m, err := s.models(ctx, tenantName)
	if err != nil {
		return nil, err
	}
	return m.Alerts.Recent(ctx, ClampLimit(limit))
}

// Shifts returns in-progress and upcoming shifts with their staff loaded.
func (s *DashboardService) Shifts(ctx context.Context, tenantName string, limit int) ([]domain.Shift, error) {
	m, err := s.models(ctx, tenantName)
	if err != nil {
		return nil, err
	}
	return m.Shifts.Upcoming(ctx, s.now(), ClampLimit(limit))
}
