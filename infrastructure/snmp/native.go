package snmp

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"github.com/cenkalti/backoff/v4"
	"github.com/gosnmp/gosnmp"
	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

const (
	DefaultPort       = 161
	defaultRetries    = 2
	defaultRetryDelay = time.Second
)

// PDUSource fetches the PDUs of one subtree
type PDUSource func(ctx context.Context, oid string, timeout time.Duration) ([]gosnmp.SnmpPDU, error)

// NativeSession walks a device with gosnmp instead of the snmpwalk binary.
// PDUs are rendered as snmpwalk -On text so the same grammars apply.
type NativeSession struct {
	cfg        entities.DeviceConfig
	source     PDUSource
	observer   Observer
	retries    uint64
	retryDelay time.Duration
	log        *zap.Logger
}

// NativeOption customises a NativeSession
type NativeOption func(*NativeSession)

// WithPDUSource replaces the gosnmp transport
func WithPDUSource(src PDUSource) NativeOption {
	return func(s *NativeSession) { s.source = src }
}

// WithNativeObserver attaches walk telemetry
func WithNativeObserver(o Observer) NativeOption {
	return func(s *NativeSession) { s.observer = o }
}

// WithRetry sets how many times a failed walk is retried and the pause between tries
func WithRetry(retries uint64, delay time.Duration) NativeOption {
	return func(s *NativeSession) {
		s.retries = retries
		s.retryDelay = delay
	}
}

// NewNativeSession creates a gosnmp backed session for cfg.Target
func NewNativeSession(cfg entities.DeviceConfig, log *zap.Logger, opts ...NativeOption) *NativeSession {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if cfg.Port == 0 {
		cfg.Port = DefaultPort
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &NativeSession{
		cfg:        cfg,
		retries:    defaultRetries,
		retryDelay: defaultRetryDelay,
		log:        log.With(zap.String("target", cfg.Target)),
	}
	s.source = s.gosnmpWalk
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target returns the device address
func (s *NativeSession) Target() string {
	return s.cfg.Target
}

// Walk fetches req.OID, renders it and applies the grammar
func (s *NativeSession) Walk(ctx context.Context, req entities.WalkRequest) entities.WalkResult {
	start := time.Now()
	res := s.walk(ctx, req)
	if s.observer != nil {
		s.observer.ObserveWalk(LookupGrammar(req.Grammar).Name, res.Status, time.Since(start), res.Skipped)
	}
	return res
}

func (s *NativeSession) walk(ctx context.Context, req entities.WalkRequest) entities.WalkResult {
	if req.CustomOption != "" && s.cfg.IsDebugEnabled() {
		s.log.Debug("custom option ignored by gosnmp walker", zap.String("option", req.CustomOption))
	}
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.cfg.WalkTimeout()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	var pdus []gosnmp.SnmpPDU
	attempt := 0
	op := func() error {
		attempt++
		var err error
		pdus, err = s.source(ctx, req.OID, timeout)
		if err != nil {
			s.log.Debug("walk attempt failed", zap.String("oid", req.OID), zap.Int("attempt", attempt), zap.Error(err))
		}
		return err
	}
	policy := backoff.WithContext(backoff.WithMaxRetries(backoff.NewConstantBackOff(s.retryDelay), s.retries), ctx)
	if err := backoff.Retry(op, policy); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				return fatal(s.cfg.Target, req.OID, fmt.Errorf("%w after %s", entities.ErrWalkTimeout, timeout))
			}
			return fatal(s.cfg.Target, req.OID, ctxErr)
		}
		return fatal(s.cfg.Target, req.OID, fmt.Errorf("gosnmp walk failed after %d attempts: %w", attempt, err))
	}

	out := RenderPDUs(pdus, req.Hex)
	if s.cfg.IsRawOutputEnabled() {
		s.log.Debug("raw walk output", zap.String("oid", req.OID), zap.String("stdout", out))
	}
	if reason, soft := softEmptyReason(out); soft {
		return entities.WalkResult{
			Status: entities.WalkSoftEmpty,
			Err: &entities.SoftError{
				Target: s.cfg.Target,
				OID:    req.OID,
				Err:    fmt.Errorf("%w: %s", entities.ErrNoSuchObject, reason),
			},
		}
	}
	entries, skipped := Parse(out, LookupGrammar(req.Grammar))
	return entities.WalkResult{Status: entities.WalkOK, Entries: entries, Skipped: skipped}
}

func (s *NativeSession) gosnmpWalk(ctx context.Context, oid string, timeout time.Duration) ([]gosnmp.SnmpPDU, error) {
	g := &gosnmp.GoSNMP{
		Target:             s.cfg.Target,
		Port:               s.cfg.Port,
		Community:          s.cfg.Community,
		Timeout:            timeout,
		Retries:            0,
		MaxRepetitions:     25,
		ExponentialTimeout: false,
		Context:            ctx,
	}
	switch s.cfg.Version {
	case "1":
		g.Version = gosnmp.Version1
	default:
		g.Version = gosnmp.Version2c
	}
	if err := g.Connect(); err != nil {
		return nil, fmt.Errorf("snmp connect %s:%d: %w", s.cfg.Target, s.cfg.Port, err)
	}
	defer g.Conn.Close()

	if oid == "" {
		oid = ".1"
	}
	if g.Version == gosnmp.Version1 {
		return g.WalkAll(oid)
	}
	return g.BulkWalkAll(oid)
}

// RenderPDUs formats PDUs the way snmpwalk -On (or -Onx when hex) prints them
func RenderPDUs(pdus []gosnmp.SnmpPDU, hex bool) string {
	var b strings.Builder
	for _, pdu := range pdus {
		name := pdu.Name
		if !strings.HasPrefix(name, ".") {
			name = "." + name
		}
		b.WriteString(name)
		b.WriteString(" = ")
		b.WriteString(renderValue(pdu, hex))
		b.WriteByte('\n')
	}
	return b.String()
}

func renderValue(pdu gosnmp.SnmpPDU, hex bool) string {
	switch pdu.Type {
	case gosnmp.OctetString:
		raw, _ := pdu.Value.([]byte)
		if len(raw) == 0 {
			return `""`
		}
		if hex || !printable(raw) {
			return "Hex-STRING: " + hexDump(raw)
		}
		return `STRING: "` + string(raw) + `"`
	case gosnmp.Integer:
		return "INTEGER: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.Counter32:
		return "Counter32: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.Gauge32, gosnmp.Uinteger32:
		return "Gauge32: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.Counter64:
		return "Counter64: " + gosnmp.ToBigInt(pdu.Value).String()
	case gosnmp.TimeTicks:
		return "Timeticks: (" + gosnmp.ToBigInt(pdu.Value).String() + ")"
	case gosnmp.IPAddress:
		return fmt.Sprintf("IpAddress: %v", pdu.Value)
	case gosnmp.ObjectIdentifier:
		return fmt.Sprintf("OID: %v", pdu.Value)
	case gosnmp.NoSuchObject:
		return "No Such Object available on this agent at this OID"
	case gosnmp.NoSuchInstance:
		return "No Such Instance currently exists at this OID"
	case gosnmp.EndOfMibView:
		return "No more variables left in this MIB View (It is past the end of the MIB tree)"
	case gosnmp.Null:
		return "NULL"
	}
	return fmt.Sprintf("%v", pdu.Value)
}

func hexDump(raw []byte) string {
	var b strings.Builder
	for _, c := range raw {
		fmt.Fprintf(&b, "%02X ", c)
	}
	return b.String()
}

func printable(raw []byte) bool {
	if !utf8.Valid(raw) {
		return false
	}
	for _, r := range string(raw) {
		if !unicode.IsPrint(r) && r != '\n' && r != '\r' && r != '\t' {
			return false
		}
	}
	return true
}
