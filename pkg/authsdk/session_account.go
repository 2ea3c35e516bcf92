package authsdk

import (
	"context"
	"net/http"
)

// Me returns the profile of the authenticated account.
func (s *Session) Me(ctx context.Context) (*Account, error) {
	var out Account
	if err := s.do(ctx, http.MethodGet, "/auth/me", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardStats returns the aggregate counts for the session's tenant.
func (s *Session) DashboardStats(ctx context.Context) (*DashboardStatsResponse, error) {
	var out DashboardStatsResponse
	if err := s.do(ctx, http.MethodGet, "/dashboard/stats", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

// DashboardAlerts returns the most recent alerts of the session's tenant.
func (s *Session) DashboardAlerts(ctx context.Context) ([]AlertItem, error) {
	var out []AlertItem
	if err := s.do(ctx, http.MethodGet, "/dashboard/alerts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}

// DashboardShifts returns upcoming and in-progress shifts of the session's tenant.
func (s *Session) DashboardShifts(ctx context.Context) ([]ShiftItem, error) {
	var out []ShiftItem
	if err := s.do(ctx, http.MethodGet, "/dashboard/shifts", nil, &out); err != nil {
		return nil, err
	}
	return out, nil
}
