package platform

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

func TestNormalizeName(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "lowercase", input: "cisco_catalyst", expected: "cisco_catalyst"},
		{name: "uppercase", input: "CISCO_SG_300", expected: "cisco_sg_300"},
		{name: "mixed case", input: "Cisco_Sg_350", expected: "cisco_sg_350"},
		{name: "with spaces", input: "  cisco_catalyst  ", expected: "cisco_catalyst"},
		{name: "empty", input: "", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, normalizeName(tt.input))
		})
	}
}

func TestGet(t *testing.T) {
	tests := []struct {
		family   string
		expected string
	}{
		{family: "cisco_catalyst", expected: "cisco_catalyst"},
		{family: "cisco_sg_300", expected: "cisco_sg_300"},
		{family: " CISCO_SG_350 ", expected: "cisco_sg_350"},
	}

	for _, tt := range tests {
		t.Run(tt.family, func(t *testing.T) {
			builder, err := Get(tt.family)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, builder.Name())
		})
	}
}

func TestGet_Unknown(t *testing.T) {
	_, err := Get("huawei")
	require.Error(t, err)
	assert.ErrorIs(t, err, entities.ErrFamilyNotFound)
}

func TestAvailable(t *testing.T) {
	builders := Available()
	require.Len(t, builders, 3)

	names := make([]string, 0, len(builders))
	for _, b := range builders {
		names = append(names, b.Name())
	}
	assert.Equal(t, []string{"cisco_catalyst", "cisco_sg_300", "cisco_sg_350"}, names)

	builders[0] = nil
	assert.NotNil(t, Available()[0])
}
