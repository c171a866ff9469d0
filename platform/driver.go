package platform

import (
	"context"
	"fmt"
	"strings"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/ports"
	"github.com/carlosrabelo/ifpoll/platform/catalyst"
	"github.com/carlosrabelo/ifpoll/platform/sg"
)

// InterfaceBuilder produces the vendor specific part of a device's physical
// interfaces: trunking mode and VLAN membership per port index.
type InterfaceBuilder interface {
	Name() string
	Build(ctx context.Context, walker ports.Walker, rec ports.Recorder) ([]entities.Interface, error)
}

var registry = []InterfaceBuilder{
	catalyst.New(),
	sg.New(sg.SG300),
	sg.New(sg.SG350),
}

// Get returns the builder registered for a model family
func Get(family string) (InterfaceBuilder, error) {
	normalized := normalizeName(family)
	for _, builder := range registry {
		if builder.Name() == normalized {
			return builder, nil
		}
	}
	return nil, fmt.Errorf("no interface builder for family %q: %w", family, entities.ErrFamilyNotFound)
}

// Available returns all registered builders.
func Available() []InterfaceBuilder {
	out := make([]InterfaceBuilder, len(registry))
	copy(out, registry)
	return out
}

func normalizeName(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
