package services

import (
	"encoding/hex"
	"fmt"
	"strings"
	"unicode"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// TextDecoder turns a space separated hex dump into text
type TextDecoder interface {
	Decode(dump string) string
}

// HexDecoder decodes interface descriptions walked as hex. UTF-8 input is
// kept as is, anything else is read in the fallback charset.
type HexDecoder struct {
	fallback encoding.Encoding
}

var defaultDecoder = &HexDecoder{fallback: charmap.ISO8859_1}

// NewHexDecoder returns a decoder for the IANA charset name. An empty name
// selects ISO-8859-1.
func NewHexDecoder(charset string) (*HexDecoder, error) {
	if charset == "" {
		return defaultDecoder, nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return nil, fmt.Errorf("unknown charset %q: %w", charset, err)
	}
	if enc == nil {
		return nil, fmt.Errorf("unsupported charset %q", charset)
	}
	return &HexDecoder{fallback: enc}, nil
}

// Decode returns the text of dump with control characters removed
func (d *HexDecoder) Decode(dump string) string {
	raw, err := hex.DecodeString(strings.Join(strings.Fields(dump), ""))
	if err != nil || len(raw) == 0 {
		return ""
	}

	text := string(raw)
	if !utf8.Valid(raw) {
		decoded, err := d.fallback.NewDecoder().Bytes(raw)
		if err != nil {
			text = strings.ToValidUTF8(text, "")
		} else {
			text = string(decoded)
		}
	}

	text = strings.Map(func(r rune) rune {
		if unicode.IsControl(r) {
			return -1
		}
		return r
	}, text)
	return strings.TrimSpace(text)
}
