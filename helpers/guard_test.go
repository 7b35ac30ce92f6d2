package helpers

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStrPanic(t *testing.T) {
	assert.Equal(t, "x", StrPanic("x", "boom"))
	assert.PanicsWithValue(t, "boom", func() { StrPanic("", "boom") })
}

func TestNilPanic(t *testing.T) {
	var nilMap map[string]int
	var nilFunc func()
	var nilPtr *int
	var nilIface error

	tests := []struct {
		name string
		fn   func()
	}{
		{name: "nil_map", fn: func() { NilPanic(nilMap, "boom") }},
		{name: "nil_func", fn: func() { NilPanic(nilFunc, "boom") }},
		{name: "nil_ptr", fn: func() { NilPanic(nilPtr, "boom") }},
		{name: "nil_interface", fn: func() { NilPanic(nilIface, "boom") }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.PanicsWithValue(t, "boom", tt.fn)
		})
	}

	v := 3
	assert.Equal(t, &v, NilPanic(&v, "boom"))
	assert.Equal(t, 0, NilPanic(0, "boom"))
}
