package main

import (
	"bytes"
	"fmt"
	"math/rand"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveTarget(t *testing.T) {
	tests := []struct {
		name     string
		outputs  []DisplayOutput
		override string
		want     string
		warn     bool
	}{
		{
			name:     "override wins without validation",
			outputs:  []DisplayOutput{{Name: "DP-1", Manufacturer: "WAC"}},
			override: "HDMI-9",
			want:     "HDMI-9",
		},
		{
			name:     "override with empty inventory",
			override: "DP-3",
			want:     "DP-3",
		},
		{
			name: "single vendor match",
			outputs: []DisplayOutput{
				{Name: "eDP-1", Manufacturer: "BOE", Index: 0},
				{Name: "DP-1", Manufacturer: "WAC", Index: 1},
				{Name: "HDMI-1", Manufacturer: "DEL", Index: 2},
			},
			override: autoOutput,
			want:     "DP-1",
		},
		{
			name: "several vendor matches take the first",
			outputs: []DisplayOutput{
				{Name: "eDP-1", Manufacturer: "BOE", Index: 0},
				{Name: "DP-2", Manufacturer: "WAC", Index: 1},
				{Name: "DP-1", Manufacturer: "WAC", Index: 2},
			},
			override: autoOutput,
			want:     "DP-2",
			warn:     true,
		},
		{
			name: "no vendor match falls back to last",
			outputs: []DisplayOutput{
				{Name: "eDP-1", Manufacturer: "BOE", Index: 0},
				{Name: "HDMI-1", Index: 1},
			},
			override: "",
			want:     "HDMI-1",
			warn:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := zerolog.New(&buf)
			got, err := resolveTarget(tt.outputs, tt.override, "WAC", logger)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got.Name)
			if tt.warn {
				assert.Contains(t, buf.String(), `"level":"warn"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}

func TestResolveTargetNoOutputs(t *testing.T) {
	_, err := resolveTarget(nil, autoOutput, "WAC", zerolog.Nop())
	assert.ErrorIs(t, err, ErrNoOutputsAvailable)
}

func randomOutputs(r *rand.Rand, vendorChance float64) []DisplayOutput {
	n := 1 + r.Intn(6)
	outputs := make([]DisplayOutput, n)
	makers := []string{"", "DEL", "GSM", "BOE"}
	for i := range outputs {
		o := DisplayOutput{Name: fmt.Sprintf("OUT-%d", i), Index: i}
		if r.Float64() < vendorChance {
			o.Manufacturer = "WAC"
		} else {
			o.Manufacturer = makers[r.Intn(len(makers))]
		}
		outputs[i] = o
	}
	return outputs
}

func TestResolveTargetPrefersVendor(t *testing.T) {
	r := rand.New(rand.NewSource(1))
	for i := 0; i < 500; i++ {
		outputs := randomOutputs(r, 0.3)
		first := -1
		for j, o := range outputs {
			if o.Manufacturer == "WAC" {
				first = j
				break
			}
		}
		got, err := resolveTarget(outputs, autoOutput, "WAC", zerolog.Nop())
		require.NoError(t, err)
		if first >= 0 {
			assert.Equal(t, "WAC", got.Manufacturer, "inventory %v", outputs)
			assert.Equal(t, outputs[first], got)
		} else {
			assert.Equal(t, outputs[len(outputs)-1], got, "inventory %v", outputs)
		}
	}
}

func TestResolveTargetFallbackIsLast(t *testing.T) {
	r := rand.New(rand.NewSource(2))
	for i := 0; i < 200; i++ {
		outputs := randomOutputs(r, 0)
		got, err := resolveTarget(outputs, autoOutput, "WAC", zerolog.Nop())
		require.NoError(t, err)
		assert.Equal(t, outputs[len(outputs)-1], got)
	}
}
