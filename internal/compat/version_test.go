package compat

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLeadingMajor(t *testing.T) {
	t.Parallel()
	tests := []struct {
		version string
		want    int
		ok      bool
	}{
		{"1.2.3", 1, true},
		{"^18.2.0", 18, true},
		{"~> 5.0", 5, true},
		{">=2.0,<3", 2, true},
		{"v0.24.0", 0, true},
		{"==2.3.3", 2, true},
		{"*", 0, false},
		{"latest", 0, false},
		{"workspace:^1.0.0", 0, false},
		{"git+https://github.com/x/y.git#v1.0.0", 0, false},
		{"", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.version, func(t *testing.T) {
			t.Parallel()
			got, ok := leadingMajor(tt.version)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestMajorChanged(t *testing.T) {
	t.Parallel()
	assert.True(t, majorChanged("^1.9.0", "^2.0.0"))
	assert.False(t, majorChanged("^1.9.0", "1.10.0"))
	assert.False(t, majorChanged("latest", "2.0.0"))
	assert.False(t, majorChanged("1.0.0", "*"))
}
