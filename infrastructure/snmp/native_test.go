package snmp

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/gosnmp/gosnmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

func newTestNative(src PDUSource) *NativeSession {
	cfg := entities.DeviceConfig{Target: "10.0.0.9", Community: "public"}
	return NewNativeSession(cfg, nil, WithPDUSource(src), WithRetry(1, time.Millisecond))
}

func TestRenderPDUs(t *testing.T) {
	pdus := []gosnmp.SnmpPDU{
		{Name: ".1.3.6.1.2.1.1.5.0", Type: gosnmp.OctetString, Value: []byte("switch01.example.net")},
		{Name: "1.3.6.1.2.1.2.2.1.4.1", Type: gosnmp.Integer, Value: 1500},
		{Name: ".1.3.6.1.2.1.2.2.1.6.1", Type: gosnmp.OctetString, Value: []byte{0x00, 0x1a, 0x2b, 0x3c, 0x4d, 0x5e}},
		{Name: ".1.3.6.1.2.1.4.20.1.1.10.0.0.2", Type: gosnmp.IPAddress, Value: "10.0.0.2"},
		{Name: ".1.3.6.1.2.1.31.1.1.1.18.1", Type: gosnmp.OctetString, Value: []byte{}},
		{Name: ".1.3.6.1.2.1.47.1.1.1.1.11.1", Type: gosnmp.NoSuchInstance},
	}

	expected := ".1.3.6.1.2.1.1.5.0 = STRING: \"switch01.example.net\"\n" +
		".1.3.6.1.2.1.2.2.1.4.1 = INTEGER: 1500\n" +
		".1.3.6.1.2.1.2.2.1.6.1 = Hex-STRING: 00 1A 2B 3C 4D 5E \n" +
		".1.3.6.1.2.1.4.20.1.1.10.0.0.2 = IpAddress: 10.0.0.2\n" +
		".1.3.6.1.2.1.31.1.1.1.18.1 = \"\"\n" +
		".1.3.6.1.2.1.47.1.1.1.1.11.1 = No Such Instance currently exists at this OID\n"

	assert.Equal(t, expected, RenderPDUs(pdus, false))
}

func TestRenderPDUs_HexForcesDump(t *testing.T) {
	pdus := []gosnmp.SnmpPDU{{Name: ".1.3.6.1.2.1.31.1.1.1.18.5", Type: gosnmp.OctetString, Value: []byte("Up")}}
	assert.Equal(t, ".1.3.6.1.2.1.31.1.1.1.18.5 = Hex-STRING: 55 70 \n", RenderPDUs(pdus, true))
}

func TestNativeSession_Walk(t *testing.T) {
	var gotOID string
	s := newTestNative(func(_ context.Context, oid string, _ time.Duration) ([]gosnmp.SnmpPDU, error) {
		gotOID = oid
		return []gosnmp.SnmpPDU{
			{Name: ".1.3.6.1.2.1.1.5.0", Type: gosnmp.OctetString, Value: []byte("switch01")},
		}, nil
	})

	res := s.Walk(context.Background(), entities.WalkRequest{OID: ".1.3.6.1.2.1.1.5", Grammar: entities.GrammarDotSplit})

	require.Equal(t, entities.WalkOK, res.Status)
	assert.Equal(t, []entities.Entry{{Value: "switch01"}}, res.Entries)
	assert.Equal(t, ".1.3.6.1.2.1.1.5", gotOID)
	assert.Equal(t, "10.0.0.9", s.Target())
}

func TestNativeSession_SoftEmpty(t *testing.T) {
	s := newTestNative(func(context.Context, string, time.Duration) ([]gosnmp.SnmpPDU, error) {
		return []gosnmp.SnmpPDU{{Name: ".1.3.6.1.4.1.9.9.68.1.2.2.1.2", Type: gosnmp.NoSuchObject}}, nil
	})

	res := s.Walk(context.Background(), entities.WalkRequest{OID: ".1.3.6.1.4.1.9.9.68.1.2.2.1.2"})

	assert.Equal(t, entities.WalkSoftEmpty, res.Status)
	assert.ErrorIs(t, res.Err, entities.ErrNoSuchObject)
}

func TestNativeSession_RetriesThenFails(t *testing.T) {
	calls := 0
	s := newTestNative(func(context.Context, string, time.Duration) ([]gosnmp.SnmpPDU, error) {
		calls++
		return nil, errors.New("request timeout (after 0 retries)")
	})

	res := s.Walk(context.Background(), entities.WalkRequest{OID: ".1.3.6.1.2.1.1.5"})

	require.Equal(t, entities.WalkFatal, res.Status)
	assert.Equal(t, 2, calls)
	var fatal *entities.FatalError
	require.ErrorAs(t, res.Err, &fatal)
	assert.Equal(t, "10.0.0.9", fatal.Target)
}

func TestNativeSession_RetryRecovers(t *testing.T) {
	calls := 0
	s := newTestNative(func(context.Context, string, time.Duration) ([]gosnmp.SnmpPDU, error) {
		calls++
		if calls == 1 {
			return nil, errors.New("connection refused")
		}
		return []gosnmp.SnmpPDU{{Name: ".1.3.6.1.2.1.2.2.1.8.1", Type: gosnmp.Integer, Value: 1}}, nil
	})

	res := s.Walk(context.Background(), entities.WalkRequest{OID: ".1.3.6.1.2.1.2.2.1.8", Grammar: entities.GrammarIndexInt})

	require.Equal(t, entities.WalkOK, res.Status)
	assert.Equal(t, []entities.Entry{{Index: "1", Value: "1"}}, res.Entries)
}

func TestRenderPDUs_RawStringsMatchSnmpwalk(t *testing.T) {
	tests := []struct {
		name     string
		value    string
		rendered string
		parsed   string
	}{
		{
			name:     "multi-line with backslash",
			value:    "Cisco IOS Software\r\nTechnical Support: C:\\x",
			rendered: ".1.3.6.1.2.1.1.1.0 = STRING: \"Cisco IOS Software\r\nTechnical Support: C:\\x\"\n",
			parsed:   "Cisco IOS Software\r\nTechnical Support: C:\\x",
		},
		{
			name:     "embedded quotes",
			value:    `say "hi"`,
			rendered: ".1.3.6.1.2.1.1.1.0 = STRING: \"say \"hi\"\"\n",
			parsed:   "say ",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			pdus := []gosnmp.SnmpPDU{{Name: ".1.3.6.1.2.1.1.1.0", Type: gosnmp.OctetString, Value: []byte(tt.value)}}
			out := RenderPDUs(pdus, false)
			assert.Equal(t, tt.rendered, out)

			entries, skipped := Parse(out, LookupGrammar(entities.GrammarDefault))
			assert.Zero(t, skipped)
			assert.Equal(t, []entities.Entry{{Value: tt.parsed}}, entries)

			// same entries as the snmpwalk text of the same value
			execEntries, _ := Parse(tt.rendered, LookupGrammar(entities.GrammarDefault))
			assert.Equal(t, execEntries, entries)
		})
	}
}
