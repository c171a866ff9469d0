package snmp

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"os/exec"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

const (
	DefaultCommand = "snmpwalk"
	DefaultTimeout = 30 * time.Second
	DefaultVersion = "2c"

	// waitDelay bounds how long a killed snmpwalk may hold its pipes open
	waitDelay = 2 * time.Second
)

// Runner executes the walk command and returns what it printed
type Runner interface {
	Run(ctx context.Context, name string, args ...string) (stdout, stderr []byte, err error)
}

// Observer receives per-walk telemetry
type Observer interface {
	ObserveWalk(grammar string, status entities.WalkStatus, took time.Duration, skipped int)
}

// ExecRunner runs commands with os/exec
type ExecRunner struct{}

// Run starts name with args and waits for it; the process is killed when ctx ends
func (ExecRunner) Run(ctx context.Context, name string, args ...string) ([]byte, []byte, error) {
	var stdout, stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, name, args...)
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr
	cmd.WaitDelay = waitDelay
	err := cmd.Run()
	return stdout.Bytes(), stderr.Bytes(), err
}

// Session walks one device through the external snmpwalk utility
type Session struct {
	cfg      entities.DeviceConfig
	command  string
	runner   Runner
	observer Observer
	log      *zap.Logger
}

// Option customises a Session
type Option func(*Session)

// WithRunner replaces the process runner
func WithRunner(r Runner) Option {
	return func(s *Session) { s.runner = r }
}

// WithCommand replaces the walk binary
func WithCommand(name string) Option {
	return func(s *Session) { s.command = name }
}

// WithObserver attaches walk telemetry
func WithObserver(o Observer) Option {
	return func(s *Session) { s.observer = o }
}

// NewSession creates a session for cfg.Target
func NewSession(cfg entities.DeviceConfig, log *zap.Logger, opts ...Option) *Session {
	if cfg.Version == "" {
		cfg.Version = DefaultVersion
	}
	if log == nil {
		log = zap.NewNop()
	}
	s := &Session{
		cfg:     cfg,
		command: DefaultCommand,
		runner:  ExecRunner{},
		log:     log.With(zap.String("target", cfg.Target)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Target returns the device address
func (s *Session) Target() string {
	return s.cfg.Target
}

// Args builds the snmpwalk argument list for req
func (s *Session) Args(req entities.WalkRequest) []string {
	outputFlag := "-On"
	if req.Hex {
		outputFlag = "-Onx"
	}
	args := []string{"-Pe", "-v", s.cfg.Version, "-c", s.cfg.Community, "-Cc", outputFlag}
	custom := req.CustomOption
	if custom == "" {
		custom = s.cfg.CustomOption
	}
	if custom != "" {
		args = append(args, custom)
	}
	args = append(args, s.cfg.Target)
	if req.OID != "" {
		args = append(args, req.OID)
	}
	return args
}

// Walk runs snmpwalk for req and classifies the outcome
func (s *Session) Walk(ctx context.Context, req entities.WalkRequest) entities.WalkResult {
	start := time.Now()
	res := s.walk(ctx, req)
	if s.observer != nil {
		s.observer.ObserveWalk(LookupGrammar(req.Grammar).Name, res.Status, time.Since(start), res.Skipped)
	}
	return res
}

func (s *Session) walk(ctx context.Context, req entities.WalkRequest) entities.WalkResult {
	timeout := req.Timeout
	if timeout <= 0 {
		timeout = s.cfg.WalkTimeout()
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	args := s.Args(req)
	if s.cfg.IsDebugEnabled() {
		s.log.Debug("walking", zap.String("oid", req.OID), zap.String("grammar", req.Grammar), zap.Bool("hex", req.Hex))
	}

	stdout, stderr, err := s.runner.Run(ctx, s.command, args...)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			if errors.Is(ctxErr, context.DeadlineExceeded) {
				// partial output is not trusted, only reported
				s.log.Warn("walk timed out, discarding partial output",
					zap.String("oid", req.OID),
					zap.Duration("timeout", timeout),
					zap.Int("partial_entries", len(SplitEntries(string(stdout)))))
				return fatal(s.cfg.Target, req.OID, fmt.Errorf("%w after %s", entities.ErrWalkTimeout, timeout))
			}
			return fatal(s.cfg.Target, req.OID, ctxErr)
		}
		if msg := strings.TrimSpace(string(stderr)); msg != "" {
			err = fmt.Errorf("%s: %w", msg, err)
		}
		return fatal(s.cfg.Target, req.OID, fmt.Errorf("snmpwalk failed: %w", err))
	}

	out := string(stdout)
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

	grammar := LookupGrammar(req.Grammar)
	entries, skipped := Parse(out, grammar)
	if skipped > 0 {
		s.log.Debug("lines skipped by grammar",
			zap.String("oid", req.OID),
			zap.String("grammar", grammar.Name),
			zap.Int("skipped", skipped),
			zap.Int("entries", len(entries)))
	}
	return entities.WalkResult{Status: entities.WalkOK, Entries: entries, Skipped: skipped}
}

func fatal(target, oid string, err error) entities.WalkResult {
	return entities.WalkResult{
		Status: entities.WalkFatal,
		Err:    &entities.FatalError{Target: target, OID: oid, Err: err},
	}
}
