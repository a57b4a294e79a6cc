package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type inner struct {
	Threshold float64 `mapstructure:"fuzzy_threshold" validate:"gte=0,lte=1"`
	OnReject  string  `mapstructure:"on_reject" validate:"oneof=skip abort"`
}

type outer struct {
	Compose inner `mapstructure:"compose"`
	Workers int   `mapstructure:"workers" validate:"min=1"`
}

type request struct {
	Manifest string `json:"manifest" validate:"required"`
}

func TestValidate(t *testing.T) {
	t.Run("Valid", func(t *testing.T) {
		v := New("mapstructure")
		err := v.Validate(outer{Compose: inner{Threshold: 0.6, OnReject: "skip"}, Workers: 2})
		assert.NoError(t, err)
	})

	t.Run("Nested Fields", func(t *testing.T) {
		v := New("mapstructure")
		err := v.Validate(outer{Compose: inner{Threshold: 1.5, OnReject: "maybe"}, Workers: 0})

		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "must be less than or equal to 1", verr.Fields["compose.fuzzy_threshold"])
		assert.Equal(t, "must be one of: skip abort", verr.Fields["compose.on_reject"])
		assert.Equal(t, "must be greater than or equal to 1", verr.Fields["workers"])
		assert.Contains(t, err.Error(), "compose.fuzzy_threshold")
	})

	t.Run("JSON Names", func(t *testing.T) {
		v := New("json")
		err := v.Validate(request{})

		var verr *Error
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "is required", verr.Fields["manifest"])
	})
}
