package ports

import (
	"context"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

// PollService polls one device end to end
type PollService interface {
	Poll(ctx context.Context) entities.PollResult
}

// ARPSource produces the ARP table of a gateway
type ARPSource interface {
	Fetch(ctx context.Context, gateway string) (*entities.ARPTable, error)
}

// CLISession is an interactive telnet/ssh session to a device
type CLISession interface {
	Connect() error
	Disconnect()
	ExecuteCommand(cmd string) (string, error)
	IsConnected() bool
}
