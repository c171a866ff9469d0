package snmp

import (
	"regexp"
	"sort"
	"strings"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

// Grammar matches one entry of walk output and extracts its value
type Grammar struct {
	Name    string
	pattern *regexp.Regexp
	extract func(m []string) entities.Entry
}

// Apply runs the grammar against a single entry
func (g Grammar) Apply(line string) (entities.Entry, bool) {
	m := g.pattern.FindStringSubmatch(line)
	if m == nil {
		return entities.Entry{}, false
	}
	return g.extract(m), true
}

func scalar(m []string) entities.Entry {
	return entities.Entry{Value: m[1]}
}

func indexed(m []string) entities.Entry {
	return entities.Entry{Index: m[1], Value: m[2]}
}

// canonicalMAC turns "00 1a 2b 3c 4d 5e " into "00:1A:2B:3C:4D:5E"
func canonicalMAC(raw string) string {
	return strings.ToUpper(strings.Join(strings.Fields(raw), ":"))
}

var grammars = map[string]Grammar{
	entities.GrammarDebug: {
		pattern: regexp.MustCompile(`(.*)`),
		extract: scalar,
	},
	entities.GrammarDotSplit: {
		pattern: regexp.MustCompile(`"([A-Za-z0-9\-_]+)(\\n)?\b`),
		extract: scalar,
	},
	entities.GrammarIP: {
		pattern: regexp.MustCompile(`: (\d{1,3}\.\d{1,3}\.\d{1,3}\.\d{1,3})`),
		extract: scalar,
	},
	entities.GrammarInt: {
		pattern: regexp.MustCompile(`: (\d+)`),
		extract: scalar,
	},
	entities.GrammarMAC: {
		pattern: regexp.MustCompile(`: (([0-9A-Fa-f]{2} ?){6})`),
		extract: func(m []string) entities.Entry {
			return entities.Entry{Value: canonicalMAC(m[1])}
		},
	},
	// enum labels such as "up(1)" show up when MIBs are loaded
	entities.GrammarIndexInt: {
		pattern: regexp.MustCompile(`\.(\d+) = \w+: (?:[\w\-]+\()?(\d+)`),
		extract: indexed,
	},
	entities.GrammarIndexMAC: {
		pattern: regexp.MustCompile(`\.(\d+) = [\w\-]+: (([0-9A-Fa-f]{2} ?){6})`),
		extract: func(m []string) entities.Entry {
			return entities.Entry{Index: m[1], Value: canonicalMAC(m[2])}
		},
	},
	entities.GrammarPreindexMAC: {
		pattern: regexp.MustCompile(`\.(\d+)\.(\d+) = [\w\-]+: (([0-9A-Fa-f]{2} ?){6}) ?$`),
		extract: func(m []string) entities.Entry {
			return entities.Entry{Index: m[1], SubIndex: m[2], Value: canonicalMAC(m[3])}
		},
	},
	entities.GrammarIPMAC: {
		pattern: regexp.MustCompile(`\.(\d+\.\d+\.\d+\.\d+) = [\w\-]+: (([0-9A-Fa-f]{2} ?){6})`),
		extract: func(m []string) entities.Entry {
			return entities.Entry{Index: m[1], Value: canonicalMAC(m[2])}
		},
	},
	entities.GrammarIPMask: {
		pattern: regexp.MustCompile(`\.(\d+\.\d+\.\d+\.\d+) = [\w\-]+: (\d+\.\d+\.\d+\.\d+)`),
		extract: indexed,
	},
	entities.GrammarIPInt: {
		pattern: regexp.MustCompile(`\.(\d+\.\d+\.\d+\.\d+) = [\w\-]+: (\d+)`),
		extract: indexed,
	},
	entities.GrammarIndexDesc: {
		pattern: regexp.MustCompile(`\.(\d+) = [\w\-]*:? ?"([^"]*)"`),
		extract: indexed,
	},
	// the trailing sub-index and any domain suffix of the value are dropped
	entities.GrammarPreindexDesc: {
		pattern: regexp.MustCompile(`\.(\d+)\.(\d+) = [\w\-]*:? ?"([A-Za-z0-9/\-_]*)(?:\.[^"]*)?"`),
		extract: func(m []string) entities.Entry {
			return entities.Entry{Index: m[1], SubIndex: m[2], Value: m[3]}
		},
	},
	entities.GrammarIndexHex: {
		pattern: regexp.MustCompile(`\.(\d+) = [\w\-]+: (([0-9A-Fa-f]{2} ?\n?)+)`),
		extract: func(m []string) entities.Entry {
			value := strings.NewReplacer(" ", "", "\n", "", "\r", "").Replace(m[2])
			return entities.Entry{Index: m[1], Value: strings.ToUpper(value)}
		},
	},
	entities.GrammarIndexDescHex: {
		pattern: regexp.MustCompile(`\.(\d+) = [\w\-]*:? ?"?(([0-9A-Fa-f]{2} ?\n?)*)"?`),
		extract: func(m []string) entities.Entry {
			value := strings.NewReplacer("\n", "", "\r", "").Replace(strings.TrimSpace(m[2]))
			return entities.Entry{Index: m[1], Value: strings.ToUpper(value)}
		},
	},
	entities.GrammarDefault: {
		pattern: regexp.MustCompile(`"([^"]*)"`),
		extract: scalar,
	},
}

func init() {
	for name, g := range grammars {
		g.Name = name
		grammars[name] = g
	}
}

// LookupGrammar returns the named grammar, falling back to DEFAULT
func LookupGrammar(name string) Grammar {
	if g, ok := grammars[name]; ok {
		return g
	}
	return grammars[entities.GrammarDefault]
}

// GrammarNames lists the registered grammars
func GrammarNames() []string {
	names := make([]string, 0, len(grammars))
	for name := range grammars {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
