package transport

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"sync"

	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/ports"
)

// Client is a raw telnet/ssh session
type Client interface {
	ports.CLISession
}

// AuthConfigurable allows setting authentication prompts after client creation
type AuthConfigurable interface {
	SetAuthSequence(prompts []entities.AuthPrompt)
}

var (
	clientCache   = make(map[string]*Adapter)
	clientCacheMu sync.Mutex
)

func cacheKey(cfg entities.CLIConfig) string {
	keyData := struct {
		Transport      string
		Target         string
		Username       string
		Password       string
		EnablePassword string
	}{
		Transport:      cfg.Transport,
		Target:         cfg.Target,
		Username:       cfg.Username,
		Password:       cfg.Password,
		EnablePassword: cfg.EnablePassword,
	}
	bytes, _ := json.Marshal(keyData)
	hash := sha256.Sum256(bytes)
	return hex.EncodeToString(hash[:])
}

// Get returns a shared session for cfg, creating it on first use
func Get(cfg entities.CLIConfig, log *zap.Logger) *Adapter {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	key := cacheKey(cfg)
	if adapter, exists := clientCache[key]; exists {
		return adapter
	}
	adapter := NewAdapter(newClient(cfg, log))
	clientCache[key] = adapter
	return adapter
}

// CloseAll releases every cached session
func CloseAll() {
	clientCacheMu.Lock()
	defer clientCacheMu.Unlock()
	for key, adapter := range clientCache {
		adapter.Disconnect()
		delete(clientCache, key)
	}
}

func newClient(cfg entities.CLIConfig, log *zap.Logger) Client {
	if cfg.Transport == "ssh" {
		return NewSSHClient(cfg, log)
	}
	return NewTelnetClient(cfg, log)
}
