package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHexDecoder_Default(t *testing.T) {
	dec, err := NewHexDecoder("")
	require.NoError(t, err)

	tests := []struct {
		name     string
		dump     string
		expected string
	}{
		{name: "ascii", dump: "48 65 6C 6C 6F", expected: "Hello"},
		{name: "utf8 kept", dump: "D0 9F D1 80 D0 B8", expected: "При"},
		{name: "latin1 fallback", dump: "43 61 66 E9", expected: "Café"},
		{name: "control characters stripped", dump: "00 41 50 0A", expected: "AP"},
		{name: "surrounding spaces trimmed", dump: "20 75 70 6C 69 6E 6B 20", expected: "uplink"},
		{name: "empty", dump: "", expected: ""},
		{name: "not hex", dump: "ZZ", expected: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, dec.Decode(tt.dump))
		})
	}
}

func TestHexDecoder_Charset(t *testing.T) {
	dec, err := NewHexDecoder("windows-1251")
	require.NoError(t, err)

	assert.Equal(t, "При", dec.Decode("CF F0 E8"))
	assert.Equal(t, "ok", dec.Decode("6F 6B"))
}

func TestNewHexDecoder_Unknown(t *testing.T) {
	_, err := NewHexDecoder("no-such-charset")
	assert.Error(t, err)
}
