package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/hashicorp/go-multierror"
	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/oid"
	"github.com/carlosrabelo/ifpoll/domain/ports"
	"github.com/carlosrabelo/ifpoll/domain/table"
	"github.com/carlosrabelo/ifpoll/platform"
)

var errEmptySysName = errors.New("sysName returned no value")

var (
	_ ports.PollService = (*DeviceService)(nil)
	_ ports.Recorder    = (*DeviceService)(nil)
)

// DeviceService polls the identity and interface tables of one device
type DeviceService struct {
	walker  ports.Walker
	catalog ports.ModelCatalog
	arp     *entities.ARPTable
	decoder TextDecoder
	logger  *zap.Logger

	mu       sync.Mutex
	warnings *multierror.Error
	ifTables *interfaceTables
}

// interfaceTables are shared by the physical and virtual interface sets
type interfaceTables struct {
	names *table.Indexed
	mtu   *table.Indexed
	mac   *table.Indexed
}

// DeviceOption customises a DeviceService
type DeviceOption func(*DeviceService)

// WithARPTable sets the table used to resolve LLDP neighbor addresses
func WithARPTable(arp *entities.ARPTable) DeviceOption {
	return func(s *DeviceService) { s.arp = arp }
}

// WithDecoder replaces the interface description decoder
func WithDecoder(dec TextDecoder) DeviceOption {
	return func(s *DeviceService) {
		if dec != nil {
			s.decoder = dec
		}
	}
}

// NewDeviceService creates a new instance of the device service. A nil
// catalog leaves every device without a family.
func NewDeviceService(walker ports.Walker, catalog ports.ModelCatalog, logger *zap.Logger, opts ...DeviceOption) *DeviceService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &DeviceService{
		walker:  walker,
		catalog: catalog,
		decoder: defaultDecoder,
		logger:  logger.With(zap.String("target", walker.Target())),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Warn records a non-critical error against the device
func (s *DeviceService) Warn(err error) {
	if err == nil {
		return
	}
	s.logger.Warn("non-critical error", zap.Error(err))
	s.mu.Lock()
	s.warnings = multierror.Append(s.warnings, err)
	s.mu.Unlock()
}

// Warnings returns the non-critical errors recorded so far
func (s *DeviceService) Warnings() []error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.warnings == nil {
		return nil
	}
	return append([]error(nil), s.warnings.Errors...)
}

// Poll runs the whole chain for the device. A fatal error stops the chain
// and leaves the result without interfaces.
func (s *DeviceService) Poll(ctx context.Context) entities.PollResult {
	start := time.Now()
	result := entities.PollResult{Target: s.walker.Target()}

	if err := s.poll(ctx, &result); err != nil {
		s.logger.Error("device poll aborted", zap.Error(err), zap.Duration("took", time.Since(start)))
		result.Interfaces = nil
		result.VirtualInterfaces = nil
		result.Fatal = err.Error()
	} else {
		s.logger.Info("device polled",
			zap.String("hostname", result.Hostname),
			zap.String("model", result.Model),
			zap.String("family", result.Family),
			zap.Int("interfaces", len(result.Interfaces)),
			zap.Int("virtual_interfaces", len(result.VirtualInterfaces)),
			zap.Duration("took", time.Since(start)),
		)
	}

	for _, w := range s.Warnings() {
		result.Warnings = append(result.Warnings, w.Error())
	}
	return result
}

func (s *DeviceService) poll(ctx context.Context, result *entities.PollResult) error {
	var err error
	if result.Hostname, err = s.Hostname(ctx); err != nil {
		return err
	}
	if result.Model, err = s.Model(ctx); err != nil {
		return err
	}
	if result.SerialNumber, err = s.SerialNumber(ctx); err != nil {
		return err
	}
	result.Family = s.FindFamily(result.Model)
	if result.Interfaces, err = s.PhysicalInterfaces(ctx, result.Family); err != nil {
		return err
	}
	if result.VirtualInterfaces, err = s.VirtualInterfaces(ctx); err != nil {
		return err
	}
	return nil
}

// Hostname returns the short sysName of the device
func (s *DeviceService) Hostname(ctx context.Context) (string, error) {
	entries, err := s.fetch(ctx, oid.SysName, entities.GrammarDotSplit, false)
	if err != nil {
		return "", err
	}
	if len(entries) == 0 {
		s.Warn(&entities.SoftError{Target: s.walker.Target(), OID: oid.SysName, Err: errEmptySysName})
		return "", nil
	}
	return entries[0].Value, nil
}

// Model resolves the device model from entPhysicalModelName, falling back to
// sysDescr. No usable value is fatal.
func (s *DeviceService) Model(ctx context.Context) (string, error) {
	primary, err := s.fetch(ctx, oid.EntPhysicalModelName, entities.GrammarDefault, false)
	if err != nil {
		return "", err
	}
	alt, err := s.fetch(ctx, oid.SysDescr, entities.GrammarDefault, false)
	if err != nil {
		return "", err
	}
	model, err := ResolveModel(values(primary), values(alt))
	if err != nil {
		return "", &entities.FatalError{Target: s.walker.Target(), Err: err}
	}
	s.logger.Debug("model resolved", zap.String("model", model))
	return model, nil
}

// SerialNumber returns the first non-empty entPhysicalSerialNum value
func (s *DeviceService) SerialNumber(ctx context.Context) (string, error) {
	entries, err := s.fetch(ctx, oid.EntPhysicalSerialNum, entities.GrammarDefault, false)
	if err != nil {
		return "", err
	}
	for _, e := range entries {
		if v := strings.TrimSpace(e.Value); v != "" {
			return v, nil
		}
	}
	return "", nil
}

// FindFamily looks the model up in the catalog. A missing family is recorded
// and reported as an empty string.
func (s *DeviceService) FindFamily(model string) string {
	if s.catalog == nil {
		return ""
	}
	family, ok := s.catalog.FindFamily(model)
	if !ok {
		s.Warn(&entities.SoftError{
			Target: s.walker.Target(),
			Err:    fmt.Errorf("model %s: %w", model, entities.ErrFamilyNotFound),
		})
		return ""
	}
	return family
}

// PhysicalInterfaces returns the interface table of the device enriched with
// vendor trunking state (when family is known) and LLDP neighbors
func (s *DeviceService) PhysicalInterfaces(ctx context.Context, family string) ([]entities.Interface, error) {
	base, err := s.interfaceTables(ctx)
	if err != nil {
		return nil, err
	}

	tables := PhysicalTables{Names: base.names, MTU: base.mtu, MAC: base.mac}
	walks := []struct {
		dst     **table.Indexed
		oid     string
		grammar string
		hex     bool
	}{
		{&tables.Status, oid.IfOperStatus, entities.GrammarIndexInt, false},
		{&tables.Description, oid.IfAlias, entities.GrammarIndexDescHex, true},
		{&tables.LocalPorts, oid.LldpLocPortID, entities.GrammarIndexDesc, false},
		{&tables.RemoteName, oid.LldpRemSysName, entities.GrammarPreindexDesc, false},
		{&tables.RemotePort, oid.LldpRemPortID, entities.GrammarPreindexDesc, false},
		{&tables.RemoteMAC, oid.LldpRemChassisID, entities.GrammarPreindexMAC, true},
	}
	for _, w := range walks {
		if *w.dst, err = s.table(ctx, w.oid, w.grammar, w.hex); err != nil {
			return nil, err
		}
	}

	vendor, err := s.vendorInterfaces(ctx, family)
	if err != nil {
		return nil, err
	}
	return AssemblePhysical(tables, vendor, s.arp, s.decoder), nil
}

// VirtualInterfaces returns one SVI per configured IP address
func (s *DeviceService) VirtualInterfaces(ctx context.Context) ([]entities.Interface, error) {
	base, err := s.interfaceTables(ctx)
	if err != nil {
		return nil, err
	}
	ifIndex, err := s.table(ctx, oid.IPAdEntIfIndex, entities.GrammarIPInt, false)
	if err != nil {
		return nil, err
	}
	masks, err := s.table(ctx, oid.IPAdEntNetMask, entities.GrammarIPMask, false)
	if err != nil {
		return nil, err
	}
	return AssembleVirtual(VirtualTables{
		IfIndex: ifIndex,
		Masks:   masks,
		Names:   base.names,
		MTU:     base.mtu,
		MAC:     base.mac,
	}), nil
}

func (s *DeviceService) vendorInterfaces(ctx context.Context, family string) ([]entities.Interface, error) {
	if family == "" {
		return nil, nil
	}
	builder, err := platform.Get(family)
	if err != nil {
		s.Warn(&entities.SoftError{Target: s.walker.Target(), Err: err})
		return nil, nil
	}
	vendor, err := builder.Build(ctx, s.walker, s)
	if err != nil {
		return nil, err
	}
	if len(vendor) == 0 {
		s.Warn(&entities.SoftError{
			Target: s.walker.Target(),
			Err:    fmt.Errorf("%s: %w", builder.Name(), entities.ErrNoInterfaces),
		})
		return nil, nil
	}
	s.logger.Debug("vendor interfaces built", zap.String("builder", builder.Name()), zap.Int("count", len(vendor)))
	return vendor, nil
}

// interfaceTables walks the name, MTU and MAC tables once per service. ifDescr
// replaces ifName when ifName has blank or no values.
func (s *DeviceService) interfaceTables(ctx context.Context) (*interfaceTables, error) {
	if s.ifTables != nil {
		return s.ifTables, nil
	}

	entries, err := s.fetch(ctx, oid.IfName, entities.GrammarIndexDesc, false)
	if err != nil {
		return nil, err
	}
	if names := table.Aggregate(entries); names.Len() == 0 || names.HasEmpty() {
		s.logger.Debug("ifName incomplete, using ifDescr")
		if entries, err = s.fetch(ctx, oid.IfDescr, entities.GrammarIndexDesc, false); err != nil {
			return nil, err
		}
	}
	t := &interfaceTables{names: table.AggregateNonEmpty(entries)}

	if t.mtu, err = s.table(ctx, oid.IfMtu, entities.GrammarIndexInt, false); err != nil {
		return nil, err
	}
	if t.mac, err = s.table(ctx, oid.IfPhysAddress, entities.GrammarIndexMAC, true); err != nil {
		return nil, err
	}
	s.ifTables = t
	return t, nil
}

func (s *DeviceService) fetch(ctx context.Context, o, grammar string, hex bool) ([]entities.Entry, error) {
	return ports.Fetch(ctx, s.walker, s, entities.WalkRequest{OID: o, Grammar: grammar, Hex: hex})
}

func (s *DeviceService) table(ctx context.Context, o, grammar string, hex bool) (*table.Indexed, error) {
	entries, err := s.fetch(ctx, o, grammar, hex)
	if err != nil {
		return nil, err
	}
	return table.AggregateNonEmpty(entries), nil
}

func values(entries []entities.Entry) []string {
	out := make([]string, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Value)
	}
	return out
}
