package tenant

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDatabaseNameFor(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{"demo_user", "hss_demo_user"},
		{"Demo_User", "hss_demo_user"},
		{"  demo_user  ", "hss_demo_user"},
		{"Dr.Who@x.org", "hss_dr_who"},
		{"st-mary's", "hss_st_mary_s"},
		{"__x__", "hss__x_"},
		{"demo.", "hss_demo_"},
		{"_demo", "hss__demo"},
		{"___", ""},
		{"@host", ""},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			require.Equal(t, tt.want, DatabaseNameFor(tt.in))
		})
	}
}

func TestDatabaseNameForIsDeterministic(t *testing.T) {
	t.Parallel()

	for range 3 {
		require.Equal(t, DatabaseNameFor("demo_user"), DatabaseNameFor("demo_user"))
	}
}

func TestValidName(t *testing.T) {
	t.Parallel()

	require.True(t, ValidName("hss_demo_user"))
	require.True(t, ValidName(DatabaseNameFor("Dr.Who@x.org")))
	require.False(t, ValidName("demo_user"))
	require.True(t, ValidName("hss__demo"))
	require.True(t, ValidName(DatabaseNameFor("demo.")))
	require.False(t, ValidName("hss_"))
	require.False(t, ValidName("hss___"))
	require.False(t, ValidName("hss_../etc"))
	require.False(t, ValidName(`hss_a"; DROP SCHEMA public`))
	require.False(t, ValidName("hss_"+strings.Repeat("a", 60)))
}
