package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	appservices "github.com/carlosrabelo/ifpoll/application/services"
	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/ports"
	"github.com/carlosrabelo/ifpoll/infrastructure/config"
	"github.com/carlosrabelo/ifpoll/infrastructure/snmp"
)

const defaultConfigFile = "config.yaml"

// walkerFactory builds the walker of a device; observer may be nil
type walkerFactory func(dc entities.DeviceConfig, log *zap.Logger, observer snmp.Observer) ports.Walker

// cli holds the flags and the process wiring shared by every subcommand
type cli struct {
	stdout io.Writer
	stderr io.Writer

	configPath  string
	verbosity   int
	target      string
	metricsFile string
	summaryFile string

	newWalker walkerFactory
}

func newCLI(stdout, stderr io.Writer) *cli {
	return &cli{
		stdout:    stdout,
		stderr:    stderr,
		newWalker: appservices.NewWalker,
	}
}

func newRootCmd(c *cli) *cobra.Command {
	root := &cobra.Command{
		Use:           "ifpoll",
		Short:         "Poll switch interfaces, VLANs and LLDP neighbors over SNMP",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if c.verbosity < 0 || c.verbosity > 3 {
				return errors.New("--verbose must be 0, 1, 2, or 3")
			}
			return nil
		},
	}
	root.SetOut(c.stdout)
	root.SetErr(c.stderr)

	flags := root.PersistentFlags()
	flags.StringVar(&c.configPath, "config", defaultConfigFile, "YAML configuration file")
	flags.IntVar(&c.verbosity, "verbose", 0, "Verbosity level: 0=none, 1=debug logs, 2=raw walk output, 3=debug+raw output")
	flags.StringVar(&c.target, "target", "", "Device target (must match a target in YAML)")

	root.AddCommand(
		newPollCmd(c),
		newWalkCmd(c),
		newCatalogCmd(c),
		newVersionCmd(c),
	)
	return root
}

// execute runs root and prints its error once
func execute(root *cobra.Command) error {
	err := root.Execute()
	if err != nil {
		fmt.Fprintf(root.ErrOrStderr(), "Error: %v\n", err)
	}
	return err
}

func (c *cli) logger() (*zap.Logger, error) {
	var cfg zap.Config
	if c.verbosity > 0 {
		cfg = zap.NewDevelopmentConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
	} else {
		cfg = zap.NewProductionConfig()
		cfg.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)
	}
	cfg.OutputPaths = []string{"stderr"}
	cfg.ErrorOutputPaths = []string{"stderr"}
	return cfg.Build()
}

func (c *cli) loadConfig(log *zap.Logger) (*config.Config, error) {
	path, err := resolveConfigPath(c.configPath)
	if err != nil {
		return nil, err
	}
	log.Debug("configuration file found", zap.String("path", path))
	return config.Load(path, c.target, entities.Verbosity(c.verbosity), log)
}

// resolveConfigPath searches the usual locations when the default path is
// not overridden
func resolveConfigPath(path string) (string, error) {
	if path != defaultConfigFile {
		return path, nil
	}

	possiblePaths := []string{filepath.Join(".", defaultConfigFile)}
	switch runtime.GOOS {
	case "linux":
		if userConfigDir, err := os.UserConfigDir(); err == nil {
			possiblePaths = append(possiblePaths, filepath.Join(userConfigDir, "ifpoll", defaultConfigFile))
		}
		possiblePaths = append(possiblePaths, filepath.Join("/etc", "ifpoll", defaultConfigFile))
	case "windows":
		if appDataDir := os.Getenv("APPDATA"); appDataDir != "" {
			possiblePaths = append(possiblePaths, filepath.Join(appDataDir, "ifpoll", defaultConfigFile))
		}
		if programDataDir := os.Getenv("ProgramData"); programDataDir != "" {
			possiblePaths = append(possiblePaths, filepath.Join(programDataDir, "ifpoll", defaultConfigFile))
		}
	}

	for _, p := range possiblePaths {
		if _, err := os.Stat(p); err == nil {
			return p, nil
		}
	}
	return "", fmt.Errorf("no %s file found in %v", defaultConfigFile, possiblePaths)
}
