package demangle

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func resultOfLegacyDemangling(mangled string, size int) string {
	buf := bytes.Repeat([]byte{'~'}, size+1)
	buf[size] = canary
	n, ok := DemangleLegacy(mangled, buf[:size:size])
	if !ok {
		return failedParse
	}
	if buf[size] != canary {
		return "Buffer overrun by output: " + string(buf[:size+1])
	}
	return string(buf[:n])
}

func TestDemangleLegacy(t *testing.T) {
	tests := []struct {
		mangled  string
		expected string
	}{
		{"_ZN4core3ptr8write_fn17ha1b2c3d4e5f67890E", "core::ptr::write_fn"},
		{"_ZN10hello_http8bindings4wasi4http5types6Fields3new17ha931456e169eb010E", "hello_http::bindings::wasi::http::types::Fields::new"},
		{"__ZN4core3ptr8write_fn17ha1b2c3d4e5f67890E", "core::ptr::write_fn"},
		{"ZN4core3fmt5writeE", "core::fmt::write"},
		{"_ZN4core3ptr8write_fn17ha1b2c3d4e5f67890E.llvm.1234", "core::ptr::write_fn"},
		{"_ZN71_$LT$Test$u20$$u2b$$u20$$u27$static$u20$as$u20$foo..Bar$LT$Test$GT$$GT$3barE", "<Test + 'static as foo::Bar<Test>>::bar"},
		{"_ZN66_$LT$alloc..vec..Vec$LT$T$GT$$u20$as$u20$core..ops..drop..Drop$GT$4drop17h0123456789abcdefE", "<alloc::vec::Vec<T> as core::ops::drop::Drop>::drop"},
		{"_ZN3foo8$RF$self7$C$$BP$E", "foo::&self::,*"},
		{"_ZN3foo15$LP$$RP$$SP$x.yE", "foo::()@x.y"},
		// A hash-shaped segment that is not last is kept.
		{"_ZN17h0123456789abcdef3fooE", "h0123456789abcdef::foo"},
	}
	for _, tt := range tests {
		t.Run(tt.mangled, func(t *testing.T) {
			require.Equal(t, tt.expected, resultOfLegacyDemangling(tt.mangled, len(tt.expected)+64))
			require.Equal(t, tt.expected, resultOfLegacyDemangling(tt.mangled, len(tt.expected)+1))
			require.Equal(t, failedParse, resultOfLegacyDemangling(tt.mangled, len(tt.expected)))
		})
	}
}

func TestDemangleLegacyFails(t *testing.T) {
	for _, mangled := range []string{
		"",
		"_ZN",
		"_ZNE",
		"_ZN4core",
		"_ZN4core3ptr",
		"_ZN4core3ptrX",
		"_ZN04coreE",
		"_ZN3foo4$LTxE",
		"_ZN3foo4$ZZ$E",
		"_ZN3foo7$ud800$E",
		"_ZN3foo4$u0$E",
		"_ZN3foo6$u000$E",
		"_ZN4coreEjunk",
		"_Z3foov",
		"_RNvC1c1f",
	} {
		assert.Equal(t, failedParse, resultOfLegacyDemangling(mangled, 256), mangled)
	}
}

func TestDemangleLegacyDoesNotAllocate(t *testing.T) {
	var buf [256]byte
	in := "_ZN66_$LT$alloc..vec..Vec$LT$T$GT$$u20$as$u20$core..ops..drop..Drop$GT$4drop17h0123456789abcdefE"
	allocs := testing.AllocsPerRun(100, func() {
		DemangleLegacy(in, buf[:])
	})
	assert.Zero(t, allocs)
}
