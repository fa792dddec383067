package rustsym

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDemangle(t *testing.T) {
	buf := make([]byte, 64)
	n, ok := Demangle("_RNvC7mycrate4main", buf)
	require.True(t, ok)
	assert.Equal(t, "mycrate::main", string(buf[:n]))
	assert.Equal(t, byte(0), buf[n])

	_, ok = Demangle("_RNvC7mycrate4main", buf[:13])
	assert.False(t, ok)
}

func TestDemangleString(t *testing.T) {
	tests := []struct {
		name    string
		mangled string
		want    string
		wantErr error
	}{
		{"simple", "_RNvC7mycrate4main", "mycrate::main", nil},
		{"punycode", "_RNvC7ice_caps_u19Eyjafjallajkull_jtb", "ice_cap::Eyjafjallajökull", nil},
		{"not mangled", "main", "", ErrNotMangled},
		{"legacy is not v0", "_ZN4core3fmt5writeE", "", ErrNotMangled},
		{"empty", "", "", ErrNotMangled},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := DemangleString(tt.mangled)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestDemangleStringInvalid(t *testing.T) {
	_, err := DemangleString("_RNvC7mycrate")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrNotMangled)
}

func TestDemangleStringGrowsBuffer(t *testing.T) {
	crate := strings.Repeat("a", 3*stackBufSize)
	got, err := DemangleString("_RC1536" + crate)
	require.NoError(t, err)
	assert.Equal(t, crate, got)
}

func TestDemangledName(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		opts []Option
		want string
	}{
		{"v0", "_RNvC7mycrate4main", nil, "mycrate::main"},
		{"v0 with platform underscore", "__RNvC7mycrate4main", nil, "mycrate::main"},
		{"legacy", "_ZN4core3fmt5write17h0123456789abcdefE", nil, "core::fmt::write"},
		{"legacy with platform underscore", "__ZN4core3fmt5write17h0123456789abcdefE", nil, "core::fmt::write"},
		{"legacy disabled", "_ZN4core3fmt5writeE", []Option{WithLegacy(false)}, "_ZN4core3fmt5writeE"},
		{"c symbol", "memcpy", nil, "memcpy"},
		{"go symbol", "runtime.main", nil, "runtime.main"},
		{"broken v0", "_RNvC", nil, "_RNvC"},
		{"broken legacy", "_ZN4core", nil, "_ZN4core"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, DemangledName(tt.raw, tt.opts...))
		})
	}
}

func TestDemangledNameMaxLength(t *testing.T) {
	crate := strings.Repeat("a", 3*stackBufSize)
	raw := "_RC1536" + crate
	assert.Equal(t, crate, DemangledName(raw))
	assert.Equal(t, raw, DemangledName(raw, WithMaxLength(100)))
}

func TestDetect(t *testing.T) {
	tests := []struct {
		raw  string
		want Scheme
	}{
		{"_RNvC1c1f", SchemeV0},
		{"__RNvC1c1f", SchemeV0},
		{"_ZN3foo3barE", SchemeLegacy},
		{"__ZN3foo3barE", SchemeLegacy},
		{"_Z3foov", SchemeNone},
		{"main", SchemeNone},
		{"", SchemeNone},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Detect(tt.raw), tt.raw)
	}
	assert.Equal(t, "v0", SchemeV0.String())
	assert.Equal(t, "legacy", SchemeLegacy.String())
	assert.Equal(t, "none", SchemeNone.String())
}

func TestDemangleAny(t *testing.T) {
	name, scheme := DemangleAny("_RNvC7mycrate4main")
	assert.Equal(t, "mycrate::main", name)
	assert.Equal(t, SchemeV0, scheme)

	name, scheme = DemangleAny("_ZN4core3fmt5writeE")
	assert.Equal(t, "core::fmt::write", name)
	assert.Equal(t, SchemeLegacy, scheme)

	name, scheme = DemangleAny("_RNvC7mycrate")
	assert.Equal(t, "_RNvC7mycrate", name)
	assert.Equal(t, SchemeNone, scheme)
}
