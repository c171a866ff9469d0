package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/ianaindex"
	"gopkg.in/yaml.v3"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

const (
	defaultVersion    = "2c"
	defaultWalker     = "exec"
	defaultTimeout    = 30
	defaultPort       = 161
	defaultWorkers    = 4
	defaultModelsFile = "models.list"
	defaultCacheTTL   = 300

	ARPSourceSNMP = "snmp"
	ARPSourceCLI  = "cli"
	ARPSourceNone = "none"
)

// Config defines the global configuration
type Config struct {
	Version            string                  `yaml:"version"`
	Community          string                  `yaml:"community"`
	Walker             string                  `yaml:"walker"`
	Timeout            int                     `yaml:"timeout"`
	Port               uint16                  `yaml:"port"`
	CustomOption       string                  `yaml:"custom_option"`
	ModelsFile         string                  `yaml:"models_file"`
	DescriptionCharset string                  `yaml:"description_charset"`
	Workers            int                     `yaml:"workers"`
	ARP                entities.ARPConfig      `yaml:"arp"`
	Devices            []entities.DeviceConfig `yaml:"devices"`
}

// Select returns the devices to poll: all of them, or the one matching target
func (c *Config) Select(target string) ([]entities.DeviceConfig, error) {
	if target == "" {
		return c.Devices, nil
	}
	for _, dc := range c.Devices {
		if dc.Target == target {
			return []entities.DeviceConfig{dc}, nil
		}
	}
	return nil, fmt.Errorf("target %s is not defined in the configuration", target)
}

func validateVersion(version string) error {
	switch version {
	case "1", "2c":
		return nil
	default:
		return fmt.Errorf("version %s is invalid, must be '1' or '2c'", version)
	}
}

func validateWalker(walker string) error {
	switch walker {
	case "exec", "gosnmp":
		return nil
	default:
		return fmt.Errorf("walker %s is invalid, must be 'exec' or 'gosnmp'", walker)
	}
}

func validateCharset(charset string) error {
	if charset == "" {
		return nil
	}
	enc, err := ianaindex.IANA.Encoding(charset)
	if err != nil {
		return fmt.Errorf("description_charset %s is invalid: %w", charset, err)
	}
	if enc == nil {
		return fmt.Errorf("description_charset %s is not supported", charset)
	}
	return nil
}

// Load loads and validates configuration from a YAML file. Devices other than
// target, when one is given, are polled without debug output.
func Load(yamlFile, target string, verbosity entities.Verbosity, log *zap.Logger) (*Config, error) {
	if log == nil {
		log = zap.NewNop()
	}
	data, err := os.ReadFile(yamlFile)
	if err != nil {
		return nil, fmt.Errorf("failed to read YAML file %s: %w", yamlFile, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse YAML: %w", err)
	}

	cfg.Version = strings.ToLower(strings.TrimSpace(cfg.Version))
	if cfg.Version == "" {
		cfg.Version = defaultVersion
	}
	if err := validateVersion(cfg.Version); err != nil {
		return nil, err
	}

	cfg.Walker = strings.ToLower(strings.TrimSpace(cfg.Walker))
	if cfg.Walker == "" {
		cfg.Walker = defaultWalker
	}
	if err := validateWalker(cfg.Walker); err != nil {
		return nil, err
	}

	if cfg.Timeout < 0 {
		return nil, fmt.Errorf("global timeout must not be negative")
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.Port == 0 {
		cfg.Port = defaultPort
	}
	if cfg.Workers < 0 {
		return nil, fmt.Errorf("workers must not be negative")
	}
	if cfg.Workers == 0 {
		cfg.Workers = defaultWorkers
	}

	if cfg.ModelsFile == "" {
		cfg.ModelsFile = defaultModelsFile
	}
	if !filepath.IsAbs(cfg.ModelsFile) {
		cfg.ModelsFile = filepath.Join(filepath.Dir(yamlFile), cfg.ModelsFile)
	}

	cfg.DescriptionCharset = strings.TrimSpace(cfg.DescriptionCharset)
	if err := validateCharset(cfg.DescriptionCharset); err != nil {
		return nil, err
	}

	if err := loadARP(&cfg.ARP); err != nil {
		return nil, err
	}

	if verbosity.IsDebugEnabled() {
		log.Debug("global values",
			zap.String("version", cfg.Version),
			zap.String("walker", cfg.Walker),
			zap.Int("timeout", cfg.Timeout),
			zap.Int("workers", cfg.Workers),
			zap.String("models_file", cfg.ModelsFile),
			zap.String("arp_source", cfg.ARP.Source),
		)
	}

	seen := make(map[string]bool, len(cfg.Devices))
	for i, dc := range cfg.Devices {
		dc.Target = strings.TrimSpace(dc.Target)
		if dc.Target == "" {
			return nil, fmt.Errorf("target is required for device %d", i)
		}
		if seen[dc.Target] {
			return nil, fmt.Errorf("device %d: target %s is defined more than once", i, dc.Target)
		}
		seen[dc.Target] = true

		deviceVerbosity := verbosity
		if target != "" && dc.Target != target {
			deviceVerbosity = 0
		}
		debug := deviceVerbosity.IsDebugEnabled()
		dlog := log.With(zap.String("target", dc.Target))

		dc.Version = strings.ToLower(strings.TrimSpace(dc.Version))
		if dc.Version == "" {
			dc.Version = cfg.Version
			if debug {
				dlog.Debug("no version defined, using global", zap.String("version", cfg.Version))
			}
		}
		if err := validateVersion(dc.Version); err != nil {
			return nil, fmt.Errorf("invalid version for device %s: %w", dc.Target, err)
		}

		dc.Walker = strings.ToLower(strings.TrimSpace(dc.Walker))
		if dc.Walker == "" {
			dc.Walker = cfg.Walker
		}
		if err := validateWalker(dc.Walker); err != nil {
			return nil, fmt.Errorf("invalid walker for device %s: %w", dc.Target, err)
		}

		if dc.Community == "" {
			dc.Community = cfg.Community
			if debug {
				dlog.Debug("no community defined, using global")
			}
		}
		if dc.Community == "" {
			return nil, fmt.Errorf("community is required for device %s", dc.Target)
		}

		if dc.Timeout < 0 {
			return nil, fmt.Errorf("timeout must not be negative for device %s", dc.Target)
		}
		if dc.Timeout == 0 {
			dc.Timeout = cfg.Timeout
		}
		if dc.Port == 0 {
			dc.Port = cfg.Port
		}
		if dc.CustomOption == "" {
			dc.CustomOption = cfg.CustomOption
		}
		dc.Verbosity = deviceVerbosity

		if debug {
			dlog.Debug("final device configuration",
				zap.String("version", dc.Version),
				zap.String("walker", dc.Walker),
				zap.Int("timeout", dc.Timeout),
				zap.Uint16("port", dc.Port),
				zap.String("custom_option", dc.CustomOption),
			)
		}
		cfg.Devices[i] = dc
	}

	if len(cfg.Devices) == 0 {
		return nil, fmt.Errorf("no devices defined in the YAML configuration")
	}

	return &cfg, nil
}

func loadARP(arp *entities.ARPConfig) error {
	arp.Gateway = strings.TrimSpace(arp.Gateway)
	arp.Source = strings.ToLower(strings.TrimSpace(arp.Source))
	if arp.Source == "" {
		arp.Source = ARPSourceNone
		if arp.Gateway != "" {
			arp.Source = ARPSourceSNMP
		}
	}
	switch arp.Source {
	case ARPSourceNone:
		return nil
	case ARPSourceSNMP, ARPSourceCLI:
	default:
		return fmt.Errorf("arp source %s is invalid, must be 'snmp', 'cli' or 'none'", arp.Source)
	}
	if arp.Gateway == "" {
		return fmt.Errorf("arp gateway is required for source %s", arp.Source)
	}
	if arp.CacheTTL < 0 {
		return fmt.Errorf("arp cache_ttl must not be negative")
	}
	if arp.CacheTTL == 0 {
		arp.CacheTTL = defaultCacheTTL
	}
	if arp.Source != ARPSourceCLI {
		return nil
	}

	arp.Transport = strings.ToLower(strings.TrimSpace(arp.Transport))
	if arp.Transport == "" {
		arp.Transport = "telnet"
	}
	if arp.Transport != "telnet" && arp.Transport != "ssh" {
		return fmt.Errorf("arp transport %s is invalid, must be 'telnet' or 'ssh'", arp.Transport)
	}
	if arp.Username == "" {
		return fmt.Errorf("arp username is required for source cli")
	}
	if arp.Password == "" {
		return fmt.Errorf("arp password is required for source cli")
	}
	if arp.EnablePassword == "" {
		arp.EnablePassword = arp.Password
	}
	return nil
}
