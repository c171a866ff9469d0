package arp

import (
	"context"
	"fmt"
	"net"
	"strings"

	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/ports"
)

const showARPCommand = "show ip arp"

// SessionFactory returns the CLI session of a gateway
type SessionFactory func(gateway string) ports.CLISession

// CLISource reads "show ip arp" from an IOS gateway
type CLISource struct {
	session SessionFactory
	log     *zap.Logger
}

// NewCLISource creates a CLI backed ARP source
func NewCLISource(session SessionFactory, log *zap.Logger) *CLISource {
	if log == nil {
		log = zap.NewNop()
	}
	return &CLISource{session: session, log: log}
}

// Fetch runs the ARP command on the gateway and parses its output
func (s *CLISource) Fetch(ctx context.Context, gateway string) (*entities.ARPTable, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	output, err := s.session(gateway).ExecuteCommand(showARPCommand)
	if err != nil {
		return nil, fmt.Errorf("failed to read ARP table of %s: %w", gateway, err)
	}
	if isIOSCommandError(output) {
		return nil, fmt.Errorf("gateway %s rejected %q: %s", gateway, showARPCommand, strings.TrimSpace(output))
	}
	table := ParseIOSARP(output)
	s.log.Debug("ARP table loaded", zap.String("gateway", gateway), zap.String("source", "cli"), zap.Int("entries", table.Len()))
	return table, nil
}

// ParseIOSARP parses "show ip arp" output:
//
//	Protocol  Address          Age (min)  Hardware Addr   Type   Interface
//	Internet  10.0.0.1                -   0011.2233.4455  ARPA   Vlan10
//
// Incomplete entries and headers are ignored.
func ParseIOSARP(output string) *entities.ARPTable {
	table := entities.NewARPTable()
	for _, line := range strings.Split(output, "\n") {
		fields := strings.Fields(line)
		if len(fields) < 5 || fields[0] != "Internet" {
			continue
		}
		if net.ParseIP(fields[1]) == nil {
			continue
		}
		mac, ok := dottedMAC(fields[3])
		if !ok {
			continue
		}
		entry := entities.ARPEntry{IP: fields[1], MAC: mac}
		if len(fields) > 5 {
			entry.Interface = fields[5]
		}
		table.Add(entry)
	}
	return table
}

// dottedMAC turns 0011.2233.4455 into 00:11:22:33:44:55
func dottedMAC(raw string) (string, bool) {
	plain := strings.ReplaceAll(raw, ".", "")
	if len(plain) != 12 {
		return "", false
	}
	for _, r := range plain {
		if !strings.ContainsRune("0123456789abcdefABCDEF", r) {
			return "", false
		}
	}
	return formatPlainMac(strings.ToUpper(plain)), true
}

func formatPlainMac(mac string) string {
	var builder strings.Builder
	for i := 0; i < len(mac); i += 2 {
		if i > 0 {
			builder.WriteByte(':')
		}
		builder.WriteString(mac[i : i+2])
	}
	return builder.String()
}

var commandErrHints = []string{
	"invalid input",
	"incomplete command",
	"ambiguous command",
	"unknown command",
}

func isIOSCommandError(output string) bool {
	lower := strings.ToLower(output)
	for _, keyword := range commandErrHints {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
