package catalog

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseLimit(t *testing.T) {
	tests := []struct {
		raw  string
		want int64
	}{
		{"", 0},
		{"abc", 0},
		{"3", 3},
		{"  25", 25},
		{"25abc", 25},
		{"+8", 8},
		{"-5", -5},
		{"0", 0},
		{"1.9", 1},
		{"99999999999999999999999", math.MaxInt64},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseLimit(tt.raw))
		})
	}
}

func TestResolveLimit(t *testing.T) {
	bounded := &Service{defaultLimit: 50, maxLimit: 1000}
	assert.Equal(t, int64(50), bounded.ResolveLimit(0))
	assert.Equal(t, int64(5), bounded.ResolveLimit(-5))
	assert.Equal(t, int64(1000), bounded.ResolveLimit(1001))
	assert.Equal(t, int64(1000), bounded.ResolveLimit(-2000))

	unbounded := &Service{defaultLimit: 20}
	assert.Equal(t, int64(20), unbounded.ResolveLimit(0))
	assert.Equal(t, int64(5000), unbounded.ResolveLimit(5000))
}
