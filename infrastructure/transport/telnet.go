package transport

import (
	"fmt"
	"net"
	"strings"
	"time"

	"github.com/ziutek/telnet"
	"go.uber.org/zap"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

const (
	DefaultTimeout    = 60 * time.Second
	BufferSize        = 4096
	PromptUsername    = "Username:"
	PromptPassword    = "Password:"
	PromptEnable      = ">"
	PromptPrivileged  = "#"
	TerminalLengthCmd = "terminal length 0\n"

	telnetPort = "23"
	sshPort    = "22"
)

// TelnetClient manages a Telnet session with a gateway
type TelnetClient struct {
	conn         *telnet.Conn
	config       entities.CLIConfig
	authSequence []entities.AuthPrompt
	timeout      time.Duration
	log          *zap.Logger
}

// NewTelnetClient creates a new Telnet client with the given configuration
func NewTelnetClient(cfg entities.CLIConfig, log *zap.Logger) *TelnetClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &TelnetClient{
		config:  cfg,
		timeout: DefaultTimeout,
		log:     log.With(zap.String("target", cfg.Target), zap.String("transport", "telnet")),
	}
}

// SetAuthSequence replaces the default IOS login sequence
func (tc *TelnetClient) SetAuthSequence(prompts []entities.AuthPrompt) {
	tc.authSequence = prompts
}

// Connect dials the device and walks the login sequence up to the
// privileged prompt
func (tc *TelnetClient) Connect() error {
	if tc.conn != nil {
		return nil
	}
	conn, err := telnet.DialTimeout("tcp", net.JoinHostPort(tc.config.Target, telnetPort), tc.timeout)
	if err != nil {
		return fmt.Errorf("failed to connect to %s: %w", tc.config.Target, err)
	}
	tc.conn = conn
	tc.log.Debug("connected")

	prompts := tc.authSequence
	if len(prompts) == 0 {
		prompts = iosLogin(tc.config)
	}
	for _, p := range prompts {
		output, err := tc.readUntil(p.WaitFor, tc.timeout)
		if err != nil {
			tc.Disconnect()
			return fmt.Errorf("failed to wait for %s: %w, output: %s", p.WaitFor, err, output)
		}
		if p.SendCmd == "" {
			continue
		}
		if err := tc.send(p.SendCmd); err != nil {
			tc.Disconnect()
			return fmt.Errorf("failed to answer %s: %w", p.WaitFor, err)
		}
		tc.log.Debug("answered prompt", zap.String("prompt", p.WaitFor))
	}
	return nil
}

func (tc *TelnetClient) send(data string) error {
	if err := tc.conn.SetWriteDeadline(time.Now().Add(tc.timeout)); err != nil {
		return err
	}
	_, err := tc.conn.Write([]byte(data))
	return err
}

// readUntil reads until pattern shows up in the accumulated output
func (tc *TelnetClient) readUntil(pattern string, timeout time.Duration) (string, error) {
	if err := tc.conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return "", err
	}
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	for {
		n, err := tc.conn.Read(buffer)
		if n > 0 {
			output.Write(buffer[:n])
			if tc.config.IsRawOutputEnabled() {
				tc.log.Debug("read", zap.ByteString("data", buffer[:n]))
			}
			if strings.Contains(output.String(), pattern) {
				return output.String(), nil
			}
		}
		if err != nil {
			return output.String(), fmt.Errorf("read error waiting for %s: %w", pattern, err)
		}
	}
}

// Disconnect closes the Telnet connection
func (tc *TelnetClient) Disconnect() {
	if tc.conn != nil {
		tc.conn.Close()
		tc.conn = nil
		tc.log.Debug("disconnected")
	}
}

// IsConnected reports whether a session is open
func (tc *TelnetClient) IsConnected() bool {
	return tc.conn != nil
}

// ExecuteCommand sends a command and returns its output without the echoed
// command line and the trailing prompt
func (tc *TelnetClient) ExecuteCommand(cmd string) (string, error) {
	if tc.conn == nil {
		return "", fmt.Errorf("not connected to %s", tc.config.Target)
	}
	tc.log.Debug("executing", zap.String("command", cmd))
	if err := tc.send(cmd + "\n"); err != nil {
		return "", fmt.Errorf("failed to send command %s: %w", cmd, err)
	}
	output, err := tc.readUntil(PromptPrivileged, tc.timeout)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %w", cmd, err)
	}
	output = trimEcho(output)
	if tc.config.IsRawOutputEnabled() {
		tc.log.Debug("command output", zap.String("command", cmd), zap.String("output", output))
	}
	return output, nil
}

// iosLogin is the Cisco IOS login sequence
func iosLogin(cfg entities.CLIConfig) []entities.AuthPrompt {
	return []entities.AuthPrompt{
		{WaitFor: PromptUsername, SendCmd: cfg.Username + "\n"},
		{WaitFor: PromptPassword, SendCmd: cfg.Password + "\n"},
		{WaitFor: PromptEnable, SendCmd: "enable\n"},
		{WaitFor: PromptPassword, SendCmd: cfg.EnablePassword + "\n"},
		{WaitFor: PromptPrivileged, SendCmd: TerminalLengthCmd},
		{WaitFor: PromptPrivileged},
	}
}

// trimEcho drops the echoed command (first line) and the prompt (last line)
func trimEcho(output string) string {
	lines := strings.Split(strings.ReplaceAll(output, "\r\n", "\n"), "\n")
	if len(lines) <= 2 {
		return ""
	}
	return strings.Join(lines[1:len(lines)-1], "\n")
}
