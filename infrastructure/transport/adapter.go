package transport

import (
	"sync"

	"github.com/carlosrabelo/ifpoll/domain/ports"
)

var _ ports.CLISession = (*Adapter)(nil)

// Adapter serialises access to one Client so concurrent pollers can share a
// gateway session. Commands connect on demand.
type Adapter struct {
	mu     sync.Mutex
	client Client
}

// NewAdapter wraps client
func NewAdapter(client Client) *Adapter {
	return &Adapter{client: client}
}

// Connect connects to the device
func (a *Adapter) Connect() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.client.Connect()
}

// Disconnect disconnects from the device
func (a *Adapter) Disconnect() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.client.Disconnect()
}

// ExecuteCommand runs cmd, connecting first when needed
func (a *Adapter) ExecuteCommand(cmd string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()
	if !a.client.IsConnected() {
		if err := a.client.Connect(); err != nil {
			return "", err
		}
	}
	return a.client.ExecuteCommand(cmd)
}

// IsConnected checks if connected
func (a *Adapter) IsConnected() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.client.IsConnected()
}
