// Package sg builds trunking state for Cisco SG300/SG350 small business
// switches from CISCOSB-vlan-MIB and Q-BRIDGE-MIB.
package sg

import (
	"context"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/oid"
	"github.com/carlosrabelo/ifpoll/domain/ports"
	"github.com/carlosrabelo/ifpoll/domain/table"
)

// Profile holds the vlanPortModeState codes of one family and the table its
// untagged VLAN per port is read from
type Profile struct {
	Family      string
	Access      string
	Tagged      string
	UntaggedOID string
}

var (
	SG300 = Profile{Family: "cisco_sg_300", Access: "11", Tagged: "12", UntaggedOID: oid.Dot1qPvid}
	SG350 = Profile{Family: "cisco_sg_350", Access: "2", Tagged: "3", UntaggedOID: oid.Dot1qPvid}
)

// Builder implements the InterfaceBuilder behaviour for one SG family.
type Builder struct {
	profile Profile
}

// New creates a builder for the given family profile. An empty UntaggedOID
// reads dot1qPvid.
func New(profile Profile) *Builder {
	if profile.UntaggedOID == "" {
		profile.UntaggedOID = oid.Dot1qPvid
	}
	return &Builder{profile: profile}
}

// Name returns the model family served by the builder.
func (b *Builder) Name() string {
	return b.profile.Family
}

// Build walks the port mode, untagged VLAN and egress tables. The untagged VLAN of a
// trunk port is removed from its tagged list.
func (b *Builder) Build(ctx context.Context, w ports.Walker, rec ports.Recorder) ([]entities.Interface, error) {
	entries, err := ports.Fetch(ctx, w, rec, entities.WalkRequest{OID: oid.VlanPortModeState, Grammar: entities.GrammarIndexInt})
	if err != nil {
		return nil, err
	}
	modes := table.Aggregate(entries)

	entries, err = ports.Fetch(ctx, w, rec, entities.WalkRequest{OID: b.profile.UntaggedOID, Grammar: entities.GrammarIndexInt})
	if err != nil {
		return nil, err
	}
	untagged := table.Aggregate(entries)

	entries, err = ports.Fetch(ctx, w, rec, entities.WalkRequest{
		OID:     oid.Dot1qVlanStaticEgressPorts,
		Grammar: entities.GrammarIndexHex,
		Hex:     true,
	})
	if err != nil {
		return nil, err
	}
	tagged, err := table.TaggedByVLAN(table.Aggregate(entries), 1)
	if err != nil && rec != nil {
		rec.Warn(&entities.SoftError{Target: w.Target(), OID: oid.Dot1qVlanStaticEgressPorts, Err: err})
	}

	interfaces := make([]entities.Interface, 0, modes.Len())
	for _, index := range modes.Keys() {
		switch modes.Value(index) {
		case b.profile.Access:
			interfaces = append(interfaces, entities.NewAccessInterface(index, untagged.Value(index)))
		case b.profile.Tagged:
			iface := entities.NewTrunkInterface(index, untagged.Value(index), append([]string{}, tagged[index]...), entities.ModeTagged)
			iface.TaggedVLANs = without(iface.TaggedVLANs, iface.UntaggedVLAN)
			interfaces = append(interfaces, iface)
		}
	}
	return interfaces, nil
}

func without(vlans []string, vlan string) []string {
	if vlan == "" {
		return vlans
	}
	out := vlans[:0]
	for _, v := range vlans {
		if v != vlan {
			out = append(out, v)
		}
	}
	return out
}
