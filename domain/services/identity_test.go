package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		name     string
		primary  []string
		alt      []string
		expected string
	}{
		{
			name:     "catalyst part number is remapped",
			primary:  []string{"WS-C2960X-48FPD-L"},
			expected: "C2960X-48FPD-L",
		},
		{
			name:     "apc model tag",
			alt:      []string{"APC Web/SNMP Management Card (MB:v4.1.0 PF:v6.5.6 MN:AP9630 HR:05 SN: ZA1234)"},
			expected: "AP9630",
		},
		{
			name:     "digi suffix dropped",
			primary:  []string{"AW24-123456"},
			expected: "AW24",
		},
		{
			name:     "model inside description",
			primary:  []string{""},
			alt:      []string{"SG300-28 28-Port Gigabit Managed Switch"},
			expected: "SG300-28",
		},
		{
			name:     "five segment model",
			alt:      []string{"D-Link DGS-1210-28P-ME-B1 Metro Ethernet Switch"},
			expected: "DGS-1210-28P-ME-B1",
		},
		{
			name:     "primary wins over alt",
			primary:  []string{"WS-C3750G-24TS-S"},
			alt:      []string{"SG300-28"},
			expected: "C3750G-24TS-S",
		},
		{
			name:     "ignored match falls back to raw value",
			primary:  []string{"C9300 Series"},
			expected: "C9300 Series",
		},
		{
			name:     "raw fallback prefers primary",
			primary:  []string{"unknown box"},
			alt:      []string{"acme router"},
			expected: "unknown box",
		},
		{
			name:     "blank primary values are skipped",
			primary:  []string{"  ", ""},
			alt:      []string{"plain text"},
			expected: "plain text",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			model, err := ResolveModel(tt.primary, tt.alt)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, model)
		})
	}
}

func TestResolveModel_Undefined(t *testing.T) {
	_, err := ResolveModel(nil, []string{" ", ""})
	assert.ErrorIs(t, err, entities.ErrModelUndefined)
}

func TestRemapModel(t *testing.T) {
	assert.Equal(t, "C2960-24TT-L", remapModel("WS-C2960-24TT-L"))
	assert.Equal(t, "AW24", remapModel("AW24-000123"))
	assert.Equal(t, "SG350-28", remapModel("SG350-28"))
}
