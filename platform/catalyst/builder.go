// Package catalyst builds trunking state for Cisco Catalyst switches from the
// CISCO-VTP-MIB trunk table and CISCO-VLAN-MEMBERSHIP-MIB.
package catalyst

import (
	"context"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/oid"
	"github.com/carlosrabelo/ifpoll/domain/ports"
	"github.com/carlosrabelo/ifpoll/domain/table"
)

const builderName = "cisco_catalyst"

// vlanTrunkPortDynamicState codes
var modeStates = map[string]entities.InterfaceMode{
	"1": entities.ModeTagged,      // on
	"2": entities.ModeAccess,      // off
	"3": entities.ModeTagged,      // desirable
	"4": entities.ModeAccess,      // auto
	"5": entities.ModeTaggedNoneg, // onNoNegotiate
}

// Builder implements the InterfaceBuilder behaviour for Catalyst switches.
type Builder struct{}

// New creates a new Catalyst builder.
func New() *Builder {
	return &Builder{}
}

// Name returns the model family served by the builder.
func (b *Builder) Name() string {
	return builderName
}

// Build walks the trunk tables and returns one record per port with a known
// trunking state. The native VLAN stays in the tagged list.
func (b *Builder) Build(ctx context.Context, w ports.Walker, rec ports.Recorder) ([]entities.Interface, error) {
	modes, err := walkTable(ctx, w, rec, oid.VlanTrunkPortDynamicState)
	if err != nil {
		return nil, err
	}
	natives, err := walkTable(ctx, w, rec, oid.VlanTrunkPortNativeVlan)
	if err != nil {
		return nil, err
	}
	untagged, err := walkTable(ctx, w, rec, oid.VmVlan)
	if err != nil {
		return nil, err
	}
	tagged, err := walkBitmaps(ctx, w, rec, oid.VlanTrunkPortVlansEnabled)
	if err != nil {
		return nil, err
	}
	taggedNoneg, err := walkBitmaps(ctx, w, rec, oid.VlanTrunkPortVlansXmitJoined)
	if err != nil {
		return nil, err
	}

	interfaces := make([]entities.Interface, 0, modes.Len())
	for _, index := range modes.Keys() {
		switch mode := modeStates[modes.Value(index)]; mode {
		case entities.ModeAccess:
			interfaces = append(interfaces, entities.NewAccessInterface(index, untagged.Value(index)))
		case entities.ModeTagged:
			interfaces = append(interfaces, entities.NewTrunkInterface(index, natives.Value(index), clone(tagged[index]), mode))
		case entities.ModeTaggedNoneg:
			interfaces = append(interfaces, entities.NewTrunkInterface(index, natives.Value(index), clone(taggedNoneg[index]), mode))
		}
	}
	return interfaces, nil
}

func walkTable(ctx context.Context, w ports.Walker, rec ports.Recorder, o string) (*table.Indexed, error) {
	entries, err := ports.Fetch(ctx, w, rec, entities.WalkRequest{OID: o, Grammar: entities.GrammarIndexInt})
	if err != nil {
		return nil, err
	}
	return table.Aggregate(entries), nil
}

// walkBitmaps decodes per-port VLAN bitmaps. Rows that fail to decode are
// recorded and left out.
func walkBitmaps(ctx context.Context, w ports.Walker, rec ports.Recorder, o string) (map[string][]string, error) {
	entries, err := ports.Fetch(ctx, w, rec, entities.WalkRequest{OID: o, Grammar: entities.GrammarIndexHex, Hex: true})
	if err != nil {
		return nil, err
	}
	vlans, err := table.TaggedByPort(table.Aggregate(entries), 0)
	if err != nil && rec != nil {
		rec.Warn(&entities.SoftError{Target: w.Target(), OID: o, Err: err})
	}
	return vlans, nil
}

func clone(vlans []string) []string {
	return append([]string{}, vlans...)
}
