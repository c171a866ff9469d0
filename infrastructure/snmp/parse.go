package snmp

import (
	"strings"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

// Markers net-snmp prints instead of a value when a subtree is absent
const (
	markerNoSuchObject   = "No Such Object"
	markerNoSuchInstance = "No Such Instance"
)

// SplitEntries cuts walk output into one string per OID. Continuation lines of
// multi-line values stay attached to their entry.
func SplitEntries(stdout string) []string {
	if stdout == "" {
		return nil
	}
	raw := strings.Split(strings.TrimPrefix(stdout, "."), "\n.")
	out := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r\n")
		if line == "" {
			continue
		}
		out = append(out, line)
	}
	return out
}

// Parse applies g to every entry of stdout. Entries that do not match are
// counted in skipped.
func Parse(stdout string, g Grammar) (entries []entities.Entry, skipped int) {
	lines := SplitEntries(stdout)
	entries = make([]entities.Entry, 0, len(lines))
	for _, line := range lines {
		entry, ok := g.Apply(line)
		if !ok {
			skipped++
			continue
		}
		entries = append(entries, entry)
	}
	return entries, skipped
}

// softEmptyReason returns the marker found in stdout, if any
func softEmptyReason(stdout string) (string, bool) {
	switch {
	case strings.Contains(stdout, markerNoSuchObject):
		return "No Such Object available on this agent at this OID", true
	case strings.Contains(stdout, markerNoSuchInstance):
		return "No Such Instance currently exists at this OID", true
	}
	return "", false
}
