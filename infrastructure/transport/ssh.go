package transport

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net"
	"strings"
	"time"

	"go.uber.org/zap"
	"golang.org/x/crypto/ssh"

	"github.com/carlosrabelo/ifpoll/domain/entities"
)

// SSHClient manages an interactive SSH shell with a gateway
type SSHClient struct {
	config  entities.CLIConfig
	timeout time.Duration
	log     *zap.Logger

	client  *ssh.Client
	session *ssh.Session
	stdin   io.WriteCloser
	reader  *bufio.Reader
	netConn net.Conn
}

// NewSSHClient creates a new SSH client with the given configuration
func NewSSHClient(cfg entities.CLIConfig, log *zap.Logger) *SSHClient {
	if log == nil {
		log = zap.NewNop()
	}
	return &SSHClient{
		config:  cfg,
		timeout: DefaultTimeout,
		log:     log.With(zap.String("target", cfg.Target), zap.String("transport", "ssh")),
	}
}

// Connect opens the shell and elevates to the privileged prompt
func (sc *SSHClient) Connect() error {
	if sc.IsConnected() {
		return nil
	}
	addr := net.JoinHostPort(sc.config.Target, sshPort)
	sshConfig := &ssh.ClientConfig{
		User:            sc.config.Username,
		Auth:            []ssh.AuthMethod{ssh.Password(sc.config.Password)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sc.timeout,
	}

	rawConn, err := (&net.Dialer{Timeout: sc.timeout}).Dial("tcp", addr)
	if err != nil {
		return fmt.Errorf("failed to connect to %s via SSH: %w", sc.config.Target, err)
	}
	sc.netConn = rawConn

	if err := sc.open(rawConn, addr, sshConfig); err != nil {
		sc.Disconnect()
		return err
	}
	sc.log.Debug("connected")

	if err := sc.elevate(); err != nil {
		sc.Disconnect()
		return err
	}
	return nil
}

func (sc *SSHClient) open(rawConn net.Conn, addr string, cfg *ssh.ClientConfig) error {
	clientConn, chans, reqs, err := ssh.NewClientConn(rawConn, addr, cfg)
	if err != nil {
		return fmt.Errorf("failed to establish SSH client connection to %s: %w", sc.config.Target, err)
	}
	sc.client = ssh.NewClient(clientConn, chans, reqs)

	if sc.session, err = sc.client.NewSession(); err != nil {
		return fmt.Errorf("failed to create SSH session for %s: %w", sc.config.Target, err)
	}
	modes := ssh.TerminalModes{
		ssh.ECHO:          0,
		ssh.TTY_OP_ISPEED: 9600,
		ssh.TTY_OP_OSPEED: 9600,
	}
	if err := sc.session.RequestPty("vt100", 80, 40, modes); err != nil {
		return fmt.Errorf("failed to request PTY for %s: %w", sc.config.Target, err)
	}
	if sc.stdin, err = sc.session.StdinPipe(); err != nil {
		return fmt.Errorf("failed to get stdin pipe for %s: %w", sc.config.Target, err)
	}
	stdout, err := sc.session.StdoutPipe()
	if err != nil {
		return fmt.Errorf("failed to get stdout pipe for %s: %w", sc.config.Target, err)
	}
	if err := sc.session.Shell(); err != nil {
		return fmt.Errorf("failed to start shell for %s: %w", sc.config.Target, err)
	}
	sc.reader = bufio.NewReader(stdout)
	return nil
}

func (sc *SSHClient) elevate() error {
	initial, err := sc.readUntilAny([]string{PromptPrivileged, PromptEnable}, sc.timeout)
	if err != nil {
		return err
	}
	if !strings.Contains(initial, PromptPrivileged) {
		sc.log.Debug("elevating to privileged mode")
		steps := []entities.AuthPrompt{
			{SendCmd: "enable\n", WaitFor: PromptPassword},
			{SendCmd: sc.config.EnablePassword + "\n", WaitFor: PromptPrivileged},
		}
		for _, step := range steps {
			if err := sc.send(step.SendCmd); err != nil {
				return fmt.Errorf("failed to send enable sequence to %s: %w", sc.config.Target, err)
			}
			if _, err := sc.readUntil(step.WaitFor, sc.timeout); err != nil {
				return err
			}
		}
	}
	if err := sc.send(TerminalLengthCmd); err != nil {
		return fmt.Errorf("failed to send terminal length command to %s: %w", sc.config.Target, err)
	}
	_, err = sc.readUntil(PromptPrivileged, sc.timeout)
	return err
}

// Disconnect closes the session, the client and the TCP connection
func (sc *SSHClient) Disconnect() {
	if sc.session != nil {
		sc.session.Close()
		sc.session = nil
	}
	if sc.client != nil {
		sc.client.Close()
		sc.client = nil
	}
	if sc.netConn != nil {
		sc.netConn.Close()
		sc.netConn = nil
	}
	sc.stdin = nil
	sc.reader = nil
	sc.log.Debug("disconnected")
}

// IsConnected reports whether a shell is open
func (sc *SSHClient) IsConnected() bool {
	return sc.session != nil && sc.client != nil && sc.reader != nil
}

// ExecuteCommand sends a command and returns its output without the echoed
// command line and the trailing prompt
func (sc *SSHClient) ExecuteCommand(cmd string) (string, error) {
	if !sc.IsConnected() {
		return "", fmt.Errorf("not connected to %s", sc.config.Target)
	}
	sc.log.Debug("executing", zap.String("command", cmd))
	if err := sc.send(cmd + "\n"); err != nil {
		return "", fmt.Errorf("failed to send command %s: %w", cmd, err)
	}
	output, err := sc.readUntil(PromptPrivileged, sc.timeout)
	if err != nil {
		return "", fmt.Errorf("error executing %s: %w", cmd, err)
	}
	output = trimEcho(output)
	if sc.config.IsRawOutputEnabled() {
		sc.log.Debug("command output", zap.String("command", cmd), zap.String("output", output))
	}
	return output, nil
}

func (sc *SSHClient) send(data string) error {
	_, err := sc.stdin.Write([]byte(data))
	return err
}

func (sc *SSHClient) readUntil(pattern string, timeout time.Duration) (string, error) {
	return sc.readUntilAny([]string{pattern}, timeout)
}

func (sc *SSHClient) readUntilAny(patterns []string, timeout time.Duration) (string, error) {
	buffer := make([]byte, BufferSize)
	var output strings.Builder
	output.Grow(BufferSize)
	deadline := time.Now().Add(timeout)

	for {
		if sc.netConn != nil {
			_ = sc.netConn.SetReadDeadline(time.Now().Add(500 * time.Millisecond))
		}

		n, err := sc.reader.Read(buffer)
		if n > 0 {
			output.Write(buffer[:n])
			if sc.config.IsRawOutputEnabled() {
				sc.log.Debug("read", zap.ByteString("data", buffer[:n]))
			}
			text := output.String()
			for _, pattern := range patterns {
				if strings.Contains(text, pattern) {
					return text, nil
				}
			}
		}

		if err != nil {
			var ne net.Error
			if !errors.As(err, &ne) || !ne.Timeout() {
				return output.String(), fmt.Errorf("read error: %w", err)
			}
		}
		if time.Now().After(deadline) {
			return output.String(), fmt.Errorf("timeout waiting for prompts %s", strings.Join(patterns, ", "))
		}
	}
}
