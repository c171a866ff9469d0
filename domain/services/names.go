package services

import "strings"

// interfacePrefixes pairs long Cisco interface prefixes with their
// abbreviation. Longer prefixes that share a suffix come first.
var interfacePrefixes = []struct {
	long  string
	short string
}{
	{"TenGigabitEthernet", "Te"},
	{"GigabitEthernet", "Gi"},
	{"FastEthernet", "Fa"},
	{"Port-channel", "Po"},
	{"Ethernet", "Et"},
	{"Loopback", "Lo"},
	{"Vlan", "Vl"},
}

// ShortInterfaceName turns GigabitEthernet1/0/1 into Gi1/0/1. Names that are
// already short or unknown are returned unchanged.
func ShortInterfaceName(name string) string {
	for _, p := range interfacePrefixes {
		if rest, ok := cutPrefixFold(name, p.long); ok && startsWithDigit(rest) {
			return p.short + rest
		}
	}
	return name
}

// LongInterfaceName turns Gi1/0/1 into GigabitEthernet1/0/1
func LongInterfaceName(name string) string {
	for _, p := range interfacePrefixes {
		if rest, ok := cutPrefixFold(name, p.short); ok && startsWithDigit(rest) {
			return p.long + rest
		}
	}
	return name
}

func cutPrefixFold(s, prefix string) (string, bool) {
	if len(s) < len(prefix) || !strings.EqualFold(s[:len(prefix)], prefix) {
		return s, false
	}
	return s[len(prefix):], true
}

func startsWithDigit(s string) bool {
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
