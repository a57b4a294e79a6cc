package library

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestConfig_Directories(t *testing.T) {
	tests := []struct {
		name string
		dirs string
		want []string
	}{
		{"Single", "./library", []string{"./library"}},
		{"Priority Order", "./custom,./library", []string{"./custom", "./library"}},
		{"Blanks Dropped", " ./a , ,./b,", []string{"./a", "./b"}},
		{"Empty", "", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Config{Dirs: tt.dirs}.Directories())
		})
	}
}

func TestConfig_CacheTTL(t *testing.T) {
	assert.Equal(t, 5*time.Minute, Config{CacheTTLSeconds: 300}.CacheTTL())
	assert.Zero(t, Config{}.CacheTTL())
}
