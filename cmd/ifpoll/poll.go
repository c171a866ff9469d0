package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os/signal"
	"syscall"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	appservices "github.com/carlosrabelo/ifpoll/application/services"
	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/domain/ports"
	domainservices "github.com/carlosrabelo/ifpoll/domain/services"
	"github.com/carlosrabelo/ifpoll/infrastructure/arp"
	"github.com/carlosrabelo/ifpoll/infrastructure/catalog"
	"github.com/carlosrabelo/ifpoll/infrastructure/config"
	"github.com/carlosrabelo/ifpoll/infrastructure/metrics"
	"github.com/carlosrabelo/ifpoll/infrastructure/report"
	"github.com/carlosrabelo/ifpoll/infrastructure/transport"
)

func newPollCmd(c *cli) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "poll",
		Short: "Poll every configured device, or only --target, and print the results as JSON",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return c.poll(ctx)
		},
	}
	cmd.Flags().StringVar(&c.metricsFile, "metrics-file", "", "Write prometheus metrics in text format to this file")
	cmd.Flags().StringVar(&c.summaryFile, "summary-file", "", "Write the error summary as JSON to this file")
	return cmd
}

func (c *cli) poll(ctx context.Context) error {
	log, err := c.logger()
	if err != nil {
		return err
	}
	defer log.Sync() //nolint:errcheck

	cfg, err := c.loadConfig(log)
	if err != nil {
		return err
	}
	devices, err := cfg.Select(c.target)
	if err != nil {
		return err
	}
	models, err := catalog.Load(cfg.ModelsFile)
	if err != nil {
		return err
	}

	registry := prometheus.NewRegistry()
	m := metrics.New(registry)
	summary := report.NewAggregator()

	opts := []appservices.Option{
		appservices.WithWalkerFactory(func(dc entities.DeviceConfig) ports.Walker {
			return c.newWalker(dc, log, m)
		}),
		appservices.WithPollObserver(m),
		appservices.WithResultSink(summary),
		appservices.WithWorkers(cfg.Workers),
	}
	if cfg.DescriptionCharset != "" {
		dec, err := domainservices.NewHexDecoder(cfg.DescriptionCharset)
		if err != nil {
			return err
		}
		opts = append(opts, appservices.WithDecoder(dec))
	}
	if source := c.arpSource(cfg, log, m); source != nil {
		defer transport.CloseAll()
		opts = append(opts, appservices.WithARP(source, cfg.ARP.Gateway))
	}

	results := appservices.NewPollApplicationService(models, log, opts...).PollAll(ctx, devices)

	enc := json.NewEncoder(c.stdout)
	enc.SetIndent("", "  ")
	if err := enc.Encode(results); err != nil {
		return fmt.Errorf("failed to encode results: %w", err)
	}

	summary.Render(c.stderr)
	if c.summaryFile != "" {
		if err := summary.WriteJSON(c.summaryFile); err != nil {
			return err
		}
	}
	if c.metricsFile != "" {
		if err := metrics.WriteFile(c.metricsFile, registry); err != nil {
			return fmt.Errorf("failed to write metrics %s: %w", c.metricsFile, err)
		}
	}
	return summary.Err()
}

// arpSource builds the configured gateway ARP source behind a cache, or nil
func (c *cli) arpSource(cfg *config.Config, log *zap.Logger, m *metrics.Metrics) ports.ARPSource {
	verbosity := entities.Verbosity(c.verbosity)
	var source ports.ARPSource
	switch cfg.ARP.Source {
	case config.ARPSourceSNMP:
		source = arp.NewSNMPSource(func(gateway string) ports.Walker {
			return c.newWalker(entities.DeviceConfig{
				Target:       gateway,
				Version:      cfg.Version,
				Community:    cfg.Community,
				Walker:       cfg.Walker,
				Timeout:      cfg.Timeout,
				Port:         cfg.Port,
				CustomOption: cfg.CustomOption,
				Verbosity:    verbosity,
			}, log, m)
		}, log)
	case config.ARPSourceCLI:
		source = arp.NewCLISource(func(gateway string) ports.CLISession {
			session := cfg.ARP.CLI(verbosity)
			session.Target = gateway
			return transport.Get(session, log)
		}, log)
	default:
		return nil
	}
	return arp.NewCache(source, cfg.ARP.CacheDuration(), log)
}
