package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/lode/internal/core/domain"
)

func markerEnv() domain.Environment {
	return domain.NewEnvironment(map[string]string{
		"os_name":        "posix",
		"sys_platform":   "linux",
		"python_version": "3.10",
	})
}

func TestMarkerEval(t *testing.T) {
	tests := []struct {
		marker string
		want   bool
	}{
		{marker: "", want: true},
		{marker: "os_name == 'posix'", want: true},
		{marker: "os_name == 'nt'", want: false},
		{marker: "os_name != 'nt'", want: true},
		{marker: "'posix' == os_name", want: true},
		{marker: "sys_platform == 'linux' and os_name == 'posix'", want: true},
		{marker: "sys_platform == 'win32' and os_name == 'posix'", want: false},
		{marker: "sys_platform == 'win32' or os_name == 'posix'", want: true},
		{marker: "sys_platform == 'win32' or os_name == 'nt'", want: false},
		{marker: "(sys_platform == 'win32' or sys_platform == 'linux') and os_name == 'posix'", want: true},
		{marker: "'linux' in sys_platform", want: true},
		{marker: "'bsd' not in sys_platform", want: true},
		// Version-aware comparison: string comparison would put '3.10'
		// below '3.9'.
		{marker: "python_version >= '3.9'", want: true},
		{marker: "python_version < '3.9'", want: false},
		{marker: "python_version < '4'", want: true},
	}

	env := markerEnv()
	for _, tt := range tests {
		name := tt.marker
		if name == "" {
			name = "empty"
		}
		t.Run(name, func(t *testing.T) {
			m, err := domain.ParseMarker(tt.marker)
			require.NoError(t, err)
			assert.Equal(t, tt.want, m.Eval(env))
		})
	}
}

func TestMarkerExtraVariable(t *testing.T) {
	m, err := domain.ParseMarker("extra == 'tls'")
	require.NoError(t, err)

	base := markerEnv()
	assert.False(t, m.Eval(base))
	assert.True(t, m.Eval(base.WithExtras([]string{"tls", "redis"})))
	assert.True(t, m.Eval(base.WithExtras([]string{"TLS"})))
	assert.False(t, m.Eval(base.WithExtras([]string{"redis"})))
}

func TestParseMarker_Malformed(t *testing.T) {
	for _, marker := range []string{
		"os_name ==",
		"== 'posix'",
		"os_name = 'posix'",
		"(os_name == 'posix'",
		"os_name == 'posix' and",
		"os_name not 'posix'",
		"os_name == 'posix' trailing",
	} {
		t.Run(marker, func(t *testing.T) {
			_, err := domain.ParseMarker(marker)
			require.Error(t, err)
			assert.ErrorIs(t, err, domain.ErrParse)
		})
	}
}

func TestMarkerIsAlways(t *testing.T) {
	m, err := domain.ParseMarker("   ")
	require.NoError(t, err)
	assert.True(t, m.IsAlways())
	assert.Empty(t, m.String())

	m, err = domain.ParseMarker("os_name == 'posix'")
	require.NoError(t, err)
	assert.False(t, m.IsAlways())
	assert.Equal(t, "os_name == 'posix'", m.String())
}
