package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type sample struct {
	Radius float64 `validate:"gt=0"`
	Min    int     `validate:"gte=2"`
	Level  string  `validate:"oneof=debug info"`
	Color  string  `validate:"omitempty,hexcolor"`
}

func TestStruct_Valid(t *testing.T) {
	err := Struct(sample{Radius: 1, Min: 2, Level: "info", Color: "#00FF00"})
	assert.NoError(t, err)
}

func TestStruct_Messages(t *testing.T) {
	tests := []struct {
		name string
		in   sample
		want string
	}{
		{"radius", sample{Radius: 0, Min: 2, Level: "info"}, "radius must be greater than 0"},
		{"min", sample{Radius: 1, Min: 1, Level: "info"}, "min must be at least 2"},
		{"level", sample{Radius: 1, Min: 2, Level: "trace"}, "level must be one of: debug info"},
		{"color", sample{Radius: 1, Min: 2, Level: "info", Color: "green"}, "color must be a hex color"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := Struct(tt.in)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestStruct_JoinsMultipleErrors(t *testing.T) {
	err := Struct(sample{Radius: -1, Min: 0, Level: "info"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "radius")
	assert.Contains(t, err.Error(), "; ")
	assert.Contains(t, err.Error(), "min")
}

func TestStruct_SliceMinimum(t *testing.T) {
	type polygon struct {
		Boundary []int `validate:"min=3"`
	}

	assert.NoError(t, Struct(polygon{Boundary: []int{1, 2, 3}}))

	err := Struct(polygon{Boundary: []int{1, 2}})
	require.Error(t, err)
	assert.Equal(t, "boundary must have at least 3 entries", err.Error())
}
