package services

import (
	"strings"

	"github.com/carlosrabelo/ifpoll/domain/table"
)

// CorrelateLLDP maps interface indices (names) to values of an LLDP remote
// table. The LLDP local port of an interface is the first lldpLocPortId entry
// starting with the interface name, or with its short or long form.
func CorrelateLLDP(names, localPorts, remote *table.Indexed) map[string]string {
	out := make(map[string]string)
	if remote.Len() == 0 {
		return out
	}
	for _, index := range names.Keys() {
		local, ok := localPortIndex(names.Value(index), localPorts)
		if !ok {
			continue
		}
		if v := remote.Value(local); v != "" {
			out[index] = v
		}
	}
	return out
}

func localPortIndex(name string, localPorts *table.Indexed) (string, bool) {
	if name == "" {
		return "", false
	}
	candidates := []string{name}
	if short := ShortInterfaceName(name); short != name {
		candidates = append(candidates, short)
	}
	if long := LongInterfaceName(name); long != name {
		candidates = append(candidates, long)
	}
	for _, candidate := range candidates {
		for _, index := range localPorts.Keys() {
			if strings.HasPrefix(localPorts.Value(index), candidate) {
				return index, true
			}
		}
	}
	return "", false
}
