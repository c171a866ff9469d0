package services

import (
	"context"
	"time"

	"github.com/sourcegraph/conc/pool"
	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/ports"
	"github.com/carlosrabelo/ifpoll/domain/services"
	"github.com/carlosrabelo/ifpoll/infrastructure/snmp"
)

const defaultWorkers = 4

// WalkerFactory builds the walker of one device
type WalkerFactory func(dc entities.DeviceConfig) ports.Walker

// PollObserver receives the result of every device poll
type PollObserver interface {
	ObservePoll(result entities.PollResult)
}

// ResultSink collects results for the end of run report
type ResultSink interface {
	Add(result entities.PollResult)
}

// PollApplicationService polls a set of devices concurrently
type PollApplicationService struct {
	catalog   ports.ModelCatalog
	arp       ports.ARPSource
	gateway   string
	newWalker WalkerFactory
	decoder   services.TextDecoder
	observer  PollObserver
	sink      ResultSink
	workers   int
	log       *zap.Logger
}

// Option customises a PollApplicationService
type Option func(*PollApplicationService)

// WithARP resolves LLDP neighbor addresses through gateway's ARP table
func WithARP(source ports.ARPSource, gateway string) Option {
	return func(s *PollApplicationService) {
		s.arp = source
		s.gateway = gateway
	}
}

// WithWalkerFactory replaces the default walker selection
func WithWalkerFactory(f WalkerFactory) Option {
	return func(s *PollApplicationService) { s.newWalker = f }
}

// WithDecoder sets the interface description decoder
func WithDecoder(dec services.TextDecoder) Option {
	return func(s *PollApplicationService) { s.decoder = dec }
}

// WithPollObserver attaches poll telemetry
func WithPollObserver(o PollObserver) Option {
	return func(s *PollApplicationService) { s.observer = o }
}

// WithResultSink attaches the run report
func WithResultSink(sink ResultSink) Option {
	return func(s *PollApplicationService) { s.sink = sink }
}

// WithWorkers bounds the number of devices polled at once
func WithWorkers(n int) Option {
	return func(s *PollApplicationService) {
		if n > 0 {
			s.workers = n
		}
	}
}

// NewPollApplicationService creates a new instance of the poll application service
func NewPollApplicationService(catalog ports.ModelCatalog, log *zap.Logger, opts ...Option) *PollApplicationService {
	if log == nil {
		log = zap.NewNop()
	}
	s := &PollApplicationService{
		catalog: catalog,
		workers: defaultWorkers,
		log:     log,
	}
	s.newWalker = func(dc entities.DeviceConfig) ports.Walker {
		return NewWalker(dc, s.log, nil)
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// NewWalker returns the walker backend selected by dc.Walker. observer may be nil.
func NewWalker(dc entities.DeviceConfig, log *zap.Logger, observer snmp.Observer) ports.Walker {
	if dc.Walker == "gosnmp" {
		var opts []snmp.NativeOption
		if observer != nil {
			opts = append(opts, snmp.WithNativeObserver(observer))
		}
		return snmp.NewNativeSession(dc, log, opts...)
	}
	var opts []snmp.Option
	if observer != nil {
		opts = append(opts, snmp.WithObserver(observer))
	}
	return snmp.NewSession(dc, log, opts...)
}

// PollAll polls every device on a bounded pool and returns the results in
// the order of devices
func (s *PollApplicationService) PollAll(ctx context.Context, devices []entities.DeviceConfig) []entities.PollResult {
	start := time.Now()
	arpTable := s.arpTable(ctx)

	results := make([]entities.PollResult, len(devices))
	p := pool.New().WithMaxGoroutines(s.workers)
	for i, dc := range devices {
		i, dc := i, dc
		p.Go(func() {
			results[i] = s.PollDevice(ctx, dc, arpTable)
		})
	}
	p.Wait()

	s.log.Info("poll finished", zap.Int("devices", len(devices)), zap.Duration("took", time.Since(start)))
	return results
}

// PollDevice polls a single device
func (s *PollApplicationService) PollDevice(ctx context.Context, dc entities.DeviceConfig, arpTable *entities.ARPTable) entities.PollResult {
	var result entities.PollResult
	if err := ctx.Err(); err != nil {
		result = entities.PollResult{
			Target: dc.Target,
			Fatal:  (&entities.FatalError{Target: dc.Target, Err: err}).Error(),
		}
	} else {
		svc := services.NewDeviceService(s.newWalker(dc), s.catalog, s.log,
			services.WithARPTable(arpTable),
			services.WithDecoder(s.decoder),
		)
		result = svc.Poll(ctx)
	}

	if s.observer != nil {
		s.observer.ObservePoll(result)
	}
	if s.sink != nil {
		s.sink.Add(result)
	}
	return result
}

func (s *PollApplicationService) arpTable(ctx context.Context) *entities.ARPTable {
	if s.arp == nil || s.gateway == "" {
		return nil
	}
	table, err := s.arp.Fetch(ctx, s.gateway)
	if err != nil {
		s.log.Warn("ARP table unavailable, LLDP neighbor addresses will not be resolved",
			zap.String("gateway", s.gateway), zap.Error(err))
		return nil
	}
	return table
}
