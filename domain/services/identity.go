package services

import (
	"regexp"
	"strings"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

// modelPatterns are tried in order against every model candidate
var modelPatterns = []*regexp.Regexp{
	regexp.MustCompile(`MN:(\S+)`), // APC
	regexp.MustCompile(`(\b[A-Z][A-Z0-9]+-[A-Z0-9]+-[A-Z0-9]+-[A-Z0-9]+-[A-Z0-9]+\b)`),
	regexp.MustCompile(`(\b[A-Z][A-Z0-9]+-[A-Z0-9]+-[A-Z0-9]+-[A-Z0-9]+\b)`),
	regexp.MustCompile(`(\b[A-Z][A-Z0-9]+-[A-Z0-9]{1,6}-[A-Z0-9/]+\b)`),
	regexp.MustCompile(`(\b[A-Z][A-Z0-9]{1,7}-[A-Za-z0-9]{1,8}\b)`),
	regexp.MustCompile(`(\b[A-Z0-9]{5}-[A-Za-z0-9]{4}\b)`),
	regexp.MustCompile(`(\b[A-Z]{1,3}\d{2,}[A-Za-z0-9]+\b)`),
}

// ignoredModels are pattern matches that name a software train or a series,
// not an orderable model
var ignoredModels = map[string]bool{
	"USW-XG":  true,
	"IOS":     true,
	"IE1000":  true,
	"VMware":  true,
	"C1000":   true,
	"C2960L":  true,
	"C2960RX": true,
	"C2960X":  true,
	"C9300":   true,
}

var modelRemaps = []*regexp.Regexp{
	regexp.MustCompile(`^(AW24)-\d{6}`), // Digi AW24-XXXXXX
	regexp.MustCompile(`^WS-(\S+)`),
}

// ResolveModel extracts a model string from the entPhysicalModelName values
// (primary) and the sysDescr values (alt). Pattern matches win over raw
// values; the first non-empty raw value is the fallback.
func ResolveModel(primary, alt []string) (string, error) {
	lists := [][]string{nonEmpty(primary), nonEmpty(alt)}

	for _, values := range lists {
		for _, value := range values {
			for _, re := range modelPatterns {
				for _, m := range re.FindAllStringSubmatch(value, -1) {
					if ignoredModels[m[1]] {
						continue
					}
					if model := remapModel(m[1]); model != "" {
						return model, nil
					}
				}
			}
		}
	}

	for _, values := range lists {
		if len(values) == 0 {
			continue
		}
		if model := remapModel(strings.TrimSpace(values[0])); model != "" {
			return model, nil
		}
	}
	return "", entities.ErrModelUndefined
}

func remapModel(model string) string {
	for _, re := range modelRemaps {
		if m := re.FindStringSubmatch(model); m != nil {
			return m[1]
		}
	}
	return model
}

func nonEmpty(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			out = append(out, v)
		}
	}
	return out
}
