// Package catalog loads the model family catalog used to pick a vendor
// interface builder for a device.
package catalog

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"
)

// maxLineSize bounds one catalog line
const maxLineSize = 1 << 20

// Family is one catalog line
type Family struct {
	Name   string
	Models []string
}

// Catalog maps model strings to families. It is immutable once loaded and
// safe for concurrent readers.
type Catalog struct {
	families []Family
	byModel  map[string]string
}

// Load reads a catalog file
func Load(path string) (*Catalog, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open model catalog %s: %w", path, err)
	}
	defer f.Close()
	c, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("failed to load model catalog %s: %w", path, err)
	}
	return c, nil
}

// Parse reads "family:model1,model2,..." lines. Blank lines and lines starting
// with '#' are ignored, empty model tokens are dropped.
func Parse(r io.Reader) (*Catalog, error) {
	c := &Catalog{byModel: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ":")
		if len(parts) != 2 {
			return nil, fmt.Errorf("line %d: expected family:model1,model2 got %q", lineNo, line)
		}
		name := strings.TrimSpace(parts[0])
		if name == "" {
			return nil, fmt.Errorf("line %d: empty family name", lineNo)
		}
		family := Family{Name: name}
		for _, token := range strings.Split(parts[1], ",") {
			model := strings.TrimSpace(token)
			if model == "" {
				continue
			}
			family.Models = append(family.Models, model)
			if _, taken := c.byModel[model]; !taken {
				c.byModel[model] = name
			}
		}
		c.families = append(c.families, family)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return c, nil
}

// FindFamily returns the first family, in file order, that lists model
func (c *Catalog) FindFamily(model string) (string, bool) {
	if c == nil {
		return "", false
	}
	name, ok := c.byModel[model]
	return name, ok
}

// Families returns a copy of the catalog entries in file order
func (c *Catalog) Families() []Family {
	if c == nil {
		return nil
	}
	out := make([]Family, len(c.families))
	for i, f := range c.families {
		out[i] = Family{Name: f.Name, Models: append([]string(nil), f.Models...)}
	}
	return out
}
