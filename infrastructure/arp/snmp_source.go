// Package arp provides gateway ARP tables used to resolve the address of
// LLDP neighbors.
package arp

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/oid"
	"github.com/carlosrabelo/ifpoll/domain/ports"
)

// WalkerFactory builds a walker for a gateway address
type WalkerFactory func(gateway string) ports.Walker

// SNMPSource reads ipNetToMediaPhysAddress from the gateway
type SNMPSource struct {
	newWalker WalkerFactory
	log       *zap.Logger
}

// NewSNMPSource creates an SNMP backed ARP source
func NewSNMPSource(newWalker WalkerFactory, log *zap.Logger) *SNMPSource {
	if log == nil {
		log = zap.NewNop()
	}
	return &SNMPSource{newWalker: newWalker, log: log}
}

// Fetch walks the gateway ARP table. An agent without the table yields an
// empty table.
func (s *SNMPSource) Fetch(ctx context.Context, gateway string) (*entities.ARPTable, error) {
	w := s.newWalker(gateway)
	res := w.Walk(ctx, entities.WalkRequest{
		OID:     oid.IPNetToMediaPhysAddress,
		Grammar: entities.GrammarIPMAC,
		Hex:     true,
	})
	switch res.Status {
	case entities.WalkFatal:
		return nil, fmt.Errorf("failed to read ARP table of %s: %w", gateway, res.Err)
	case entities.WalkSoftEmpty:
		s.log.Warn("gateway has no ARP table", zap.String("gateway", gateway), zap.Error(res.Err))
	}

	table := entities.NewARPTable()
	for _, e := range res.Entries {
		table.Add(entities.ARPEntry{IP: e.Index, MAC: e.Value})
	}
	s.log.Debug("ARP table loaded", zap.String("gateway", gateway), zap.String("source", "snmp"), zap.Int("entries", table.Len()))
	return table, nil
}
