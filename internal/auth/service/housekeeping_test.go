package service

import (
	"context"
	"testing"
	"time"

	"github.com/hsshealth/hss/pkg/slogx"
	"github.com/stretchr/testify/require"
)

func TestHousekeepingClearsExpiredCodes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	stale := f.registerApproved(t, "stale_user")
	fresh := f.registerApproved(t, "fresh_user")

	_, err := f.sessions.SendCode(ctx, "stale_user")
	require.NoError(t, err)
	f.clock.Advance(11 * time.Minute)
	_, err = f.sessions.SendCode(ctx, "fresh_user")
	require.NoError(t, err)

	hk := NewHousekeepingService(f.store, slogx.Discard(), time.Hour)
	hk.Now = f.clock.Now
	require.EqualValues(t, 1, hk.Cleanup(ctx))

	acc, err := f.store.Accounts().GetAccountByID(ctx, stale.ID)
	require.NoError(t, err)
	require.False(t, acc.HasPendingCode())

	acc, err = f.store.Accounts().GetAccountByID(ctx, fresh.ID)
	require.NoError(t, err)
	require.True(t, acc.HasPendingCode())

	require.EqualValues(t, 0, hk.Cleanup(ctx))
}

func TestHousekeepingStartStop(t *testing.T) {
	f := newFixture(t)

	hk := NewHousekeepingService(f.store, slogx.Discard(), 0)
	require.Equal(t, 5*time.Minute, hk.Interval)

	hk.Start()
	hk.Stop()
}
