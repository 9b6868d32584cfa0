package domain_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"go.trai.ch/lode/internal/core/domain"
)

func TestParseSpecifier(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "", want: ""},
		{in: ">=1.0", want: ">=1.0"},
		{in: ">=1.0,<2.0", want: ">=1.0,<2.0"},
		{in: "(>=1.0, <2.0)", want: ">=1.0,<2.0"},
		{in: "~=2.1", want: "~=2.1"},
		{in: "==1.0, !=1.0.3", want: "==1.0,!=1.0.3"},
		{in: ">=", wantErr: true},
		{in: "1.0", wantErr: true},
		{in: ">=1.0,,<2.0", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			spec, err := domain.ParseSpecifier(tt.in)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, domain.ErrParse)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, spec.String())
		})
	}
}

func TestSpecifierContains(t *testing.T) {
	tests := []struct {
		spec    string
		version string
		want    bool
	}{
		{spec: "", version: "0.0.1", want: true},
		{spec: ">=1.0,<2.0", version: "1.5", want: true},
		{spec: ">=1.0,<2.0", version: "2.0", want: false},
		{spec: ">=1.0,<2.0", version: "0.9", want: false},
		{spec: "==1.0", version: "1.0.0", want: true},
		{spec: "!=1.3", version: "1.3", want: false},
		{spec: "~=2.1", version: "2.4", want: true},
		{spec: "~=2.1", version: "3.0", want: false},
		{spec: "~=2.1", version: "2.0", want: false},
		{spec: "~=2.1.3", version: "2.1.7", want: true},
		{spec: "~=2.1.3", version: "2.2.0", want: false},
		{spec: ">1.0", version: "1.0", want: false},
		{spec: "<=1.0", version: "1.0", want: true},
	}

	for _, tt := range tests {
		t.Run(tt.spec+" vs "+tt.version, func(t *testing.T) {
			spec, err := domain.ParseSpecifier(tt.spec)
			require.NoError(t, err)
			got := spec.Contains(domain.MustParseVersion(tt.version))
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestSpecifierInvitesPrerelease(t *testing.T) {
	spec, err := domain.ParseSpecifier("==2.0rc1")
	require.NoError(t, err)
	assert.True(t, spec.InvitesPrerelease())

	spec, err = domain.ParseSpecifier(">=1.0,<2.0")
	require.NoError(t, err)
	assert.False(t, spec.InvitesPrerelease())
}

func TestSpecifierPinned(t *testing.T) {
	spec, err := domain.ParseSpecifier(">=1.0,==1.5")
	require.NoError(t, err)
	v, ok := spec.Pinned()
	require.True(t, ok)
	assert.Equal(t, "1.5", v.String())

	spec, err = domain.ParseSpecifier(">=1.0")
	require.NoError(t, err)
	_, ok = spec.Pinned()
	assert.False(t, ok)
}
