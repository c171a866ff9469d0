package entities

// ARPEntry is one IP to MAC binding learned from a gateway
type ARPEntry struct {
	IP        string
	MAC       string
	Interface string
}

// ARPTable keeps entries in the order the gateway reported them
type ARPTable struct {
	entries []ARPEntry
	seen    map[string]bool
}

// NewARPTable builds a table from entries, keeping the first binding of each IP
func NewARPTable(entries ...ARPEntry) *ARPTable {
	t := &ARPTable{}
	for _, e := range entries {
		t.Add(e)
	}
	return t
}

// Add appends an entry unless the IP is already known
func (t *ARPTable) Add(e ARPEntry) {
	if t.seen == nil {
		t.seen = make(map[string]bool)
	}
	if e.IP == "" || t.seen[e.IP] {
		return
	}
	t.seen[e.IP] = true
	t.entries = append(t.entries, e)
}

// LookupIP returns the first IP bound to mac
func (t *ARPTable) LookupIP(mac string) (string, bool) {
	if t == nil || mac == "" {
		return "", false
	}
	for _, e := range t.entries {
		if e.MAC == mac {
			return e.IP, true
		}
	}
	return "", false
}

// Entries returns a copy of the table rows
func (t *ARPTable) Entries() []ARPEntry {
	if t == nil {
		return nil
	}
	out := make([]ARPEntry, len(t.entries))
	copy(out, t.entries)
	return out
}

// Len returns the number of bindings
func (t *ARPTable) Len() int {
	if t == nil {
		return 0
	}
	return len(t.entries)
}
