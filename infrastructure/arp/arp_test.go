package arp

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/oid"
	"github.com/carlosrabelo/ifpoll/domain/ports"
)

const iosARP = `show ip arp
Protocol  Address          Age (min)  Hardware Addr   Type   Interface
Internet  10.0.0.1                -   0011.2233.4455  ARPA   Vlan10
Internet  10.0.0.5               12   00aa.bbcc.ddee  ARPA   Vlan10
Internet  10.0.0.9                0   Incomplete      ARPA
Internet  10.0.0.5                3   0011.2233.9999  ARPA   Vlan20
Internet  10.0.20.7               7   00aa.bbcc.ddee  ARPA   Vlan20
gw01#`

func TestParseIOSARP(t *testing.T) {
	table := ParseIOSARP(iosARP)

	assert.Equal(t, []entities.ARPEntry{
		{IP: "10.0.0.1", MAC: "00:11:22:33:44:55", Interface: "Vlan10"},
		{IP: "10.0.0.5", MAC: "00:AA:BB:CC:DD:EE", Interface: "Vlan10"},
		{IP: "10.0.20.7", MAC: "00:AA:BB:CC:DD:EE", Interface: "Vlan20"},
	}, table.Entries())

	ip, ok := table.LookupIP("00:AA:BB:CC:DD:EE")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.5", ip)
}

func TestDottedMAC(t *testing.T) {
	tests := []struct {
		raw      string
		expected string
		ok       bool
	}{
		{raw: "0011.2233.4455", expected: "00:11:22:33:44:55", ok: true},
		{raw: "00aa.bbcc.ddee", expected: "00:AA:BB:CC:DD:EE", ok: true},
		{raw: "Incomplete"},
		{raw: "0011.2233.44"},
		{raw: "0011.2233.44zz"},
	}

	for _, tt := range tests {
		t.Run(tt.raw, func(t *testing.T) {
			mac, ok := dottedMAC(tt.raw)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expected, mac)
		})
	}
}

type fakeSession struct {
	output string
	err    error
	cmds   []string
}

func (f *fakeSession) Connect() error    { return nil }
func (f *fakeSession) Disconnect()       {}
func (f *fakeSession) IsConnected() bool { return true }
func (f *fakeSession) ExecuteCommand(cmd string) (string, error) {
	f.cmds = append(f.cmds, cmd)
	return f.output, f.err
}

func TestCLISource(t *testing.T) {
	session := &fakeSession{output: iosARP}
	var gotGateway string
	source := NewCLISource(func(gateway string) ports.CLISession {
		gotGateway = gateway
		return session
	}, nil)

	table, err := source.Fetch(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 3, table.Len())
	assert.Equal(t, "10.0.0.1", gotGateway)
	assert.Equal(t, []string{"show ip arp"}, session.cmds)
}

func TestCLISource_Errors(t *testing.T) {
	tests := []struct {
		name    string
		session *fakeSession
	}{
		{name: "command failed", session: &fakeSession{err: errors.New("read error")}},
		{name: "command rejected", session: &fakeSession{output: "% Invalid input detected at '^' marker."}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			source := NewCLISource(func(string) ports.CLISession { return tt.session }, nil)
			_, err := source.Fetch(context.Background(), "10.0.0.1")
			assert.Error(t, err)
		})
	}
}

type fakeWalker struct {
	result entities.WalkResult
	req    entities.WalkRequest
}

func (f *fakeWalker) Target() string { return "10.0.0.1" }

func (f *fakeWalker) Walk(_ context.Context, req entities.WalkRequest) entities.WalkResult {
	f.req = req
	return f.result
}

func TestSNMPSource(t *testing.T) {
	w := &fakeWalker{result: entities.WalkResult{Status: entities.WalkOK, Entries: []entities.Entry{
		{Index: "10.0.0.5", Value: "00:AA:BB:CC:DD:EE"},
		{Index: "10.0.0.6", Value: "00:11:22:33:44:55"},
		{Index: "10.0.0.5", Value: "00:11:22:33:44:66"},
	}}}
	source := NewSNMPSource(func(string) ports.Walker { return w }, nil)

	table, err := source.Fetch(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, table.Len())
	assert.Equal(t, oid.IPNetToMediaPhysAddress, w.req.OID)
	assert.Equal(t, entities.GrammarIPMAC, w.req.Grammar)
	assert.True(t, w.req.Hex)

	ip, ok := table.LookupIP("00:AA:BB:CC:DD:EE")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.5", ip)
}

func TestSNMPSource_Outcomes(t *testing.T) {
	soft := &fakeWalker{result: entities.WalkResult{Status: entities.WalkSoftEmpty, Err: entities.ErrNoSuchObject}}
	table, err := NewSNMPSource(func(string) ports.Walker { return soft }, nil).Fetch(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Zero(t, table.Len())

	fatal := &fakeWalker{result: entities.WalkResult{
		Status: entities.WalkFatal,
		Err:    &entities.FatalError{Target: "10.0.0.1", Err: entities.ErrWalkTimeout},
	}}
	_, err = NewSNMPSource(func(string) ports.Walker { return fatal }, nil).Fetch(context.Background(), "10.0.0.1")
	assert.ErrorIs(t, err, entities.ErrWalkTimeout)
}

type countingSource struct {
	mu    sync.Mutex
	calls map[string]int
	err   error
}

func (c *countingSource) Fetch(_ context.Context, gateway string) (*entities.ARPTable, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.calls == nil {
		c.calls = make(map[string]int)
	}
	c.calls[gateway]++
	if c.err != nil {
		return nil, c.err
	}
	return entities.NewARPTable(entities.ARPEntry{IP: gateway, MAC: "00:11:22:33:44:55"}), nil
}

func TestCache_LoadsOncePerGateway(t *testing.T) {
	source := &countingSource{}
	c := NewCache(source, time.Minute, nil)

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			table, err := c.Fetch(context.Background(), "10.0.0.1")
			assert.NoError(t, err)
			assert.Equal(t, 1, table.Len())
		}()
	}
	wg.Wait()

	_, err := c.Fetch(context.Background(), "10.0.1.1")
	require.NoError(t, err)
	assert.Equal(t, map[string]int{"10.0.0.1": 1, "10.0.1.1": 1}, source.calls)

	c.Flush()
	_, err = c.Fetch(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls["10.0.0.1"])
}

func TestCache_ErrorsAreNotCached(t *testing.T) {
	source := &countingSource{err: errors.New("timeout")}
	c := NewCache(source, 0, nil)

	_, err := c.Fetch(context.Background(), "10.0.0.1")
	require.Error(t, err)
	_, err = c.Fetch(context.Background(), "10.0.0.1")
	require.Error(t, err)
	assert.Equal(t, 2, source.calls["10.0.0.1"])
}

func TestCache_Expires(t *testing.T) {
	source := &countingSource{}
	c := NewCache(source, 20*time.Millisecond, nil)

	_, err := c.Fetch(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	time.Sleep(40 * time.Millisecond)
	_, err = c.Fetch(context.Background(), "10.0.0.1")
	require.NoError(t, err)
	assert.Equal(t, 2, source.calls["10.0.0.1"])
}
