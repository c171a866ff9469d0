package entities

import "time"

// Verbosity selects debug logs (1), raw walk output (2) or both (3)
type Verbosity int

// IsDebugEnabled returns true if debug logs are enabled
func (v Verbosity) IsDebugEnabled() bool {
	return v == 1 || v == 3
}

// IsRawOutputEnabled returns true if raw device output is enabled
func (v Verbosity) IsRawOutputEnabled() bool {
	return v == 2 || v == 3
}

// DeviceConfig defines how a single device is polled
type DeviceConfig struct {
	Target       string `yaml:"target"`
	Version      string `yaml:"version"`
	Community    string `yaml:"community"`
	Walker       string `yaml:"walker"`
	Timeout      int    `yaml:"timeout"`
	Port         uint16 `yaml:"port"`
	CustomOption string `yaml:"custom_option"`
	Verbosity    `yaml:"-"`
}

// WalkTimeout returns the per-walk timeout
func (dc DeviceConfig) WalkTimeout() time.Duration {
	return time.Duration(dc.Timeout) * time.Second
}

// AuthPrompt represents a prompt-response pair during CLI login
type AuthPrompt struct {
	WaitFor string // prompt to wait for
	SendCmd string // command to send (empty means just wait)
}

// CLIConfig defines a telnet/ssh session to a device
type CLIConfig struct {
	Target         string
	Transport      string
	Username       string
	Password       string
	EnablePassword string
	Verbosity
}

// ARPConfig defines where gateway ARP tables come from
type ARPConfig struct {
	Gateway        string `yaml:"gateway"`
	Source         string `yaml:"source"`
	Transport      string `yaml:"transport"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	EnablePassword string `yaml:"enable_password"`
	CacheTTL       int    `yaml:"cache_ttl"`
}

// CLI returns the session settings for the gateway
func (ac ARPConfig) CLI(verbosity Verbosity) CLIConfig {
	return CLIConfig{
		Target:         ac.Gateway,
		Transport:      ac.Transport,
		Username:       ac.Username,
		Password:       ac.Password,
		EnablePassword: ac.EnablePassword,
		Verbosity:      verbosity,
	}
}

// CacheDuration returns how long a fetched ARP table stays valid
func (ac ARPConfig) CacheDuration() time.Duration {
	return time.Duration(ac.CacheTTL) * time.Second
}
