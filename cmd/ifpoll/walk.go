package main

import (
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/carlosrabelo/ifpoll/domain/entities"
	"github.com/carlosrabelo/ifpoll/infrastructure/snmp"
)

type walkOutput struct {
	Target  string           `json:"target"`
	OID     string           `json:"oid"`
	Grammar string           `json:"grammar"`
	Status  string           `json:"status"`
	Entries []entities.Entry `json:"entries"`
	Skipped int              `json:"skipped"`
	Error   string           `json:"error,omitempty"`
}

func newWalkCmd(c *cli) *cobra.Command {
	var (
		grammar string
		hex     bool
		timeout time.Duration
	)
	cmd := &cobra.Command{
		Use:   "walk OID",
		Short: "Walk one OID of --target and print the parsed entries",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if c.target == "" {
				return fmt.Errorf("the --target parameter is required")
			}
			if !slices.Contains(snmp.GrammarNames(), grammar) {
				return fmt.Errorf("grammar %s is unknown, must be one of %s", grammar, strings.Join(snmp.GrammarNames(), ", "))
			}

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

			req := entities.WalkRequest{OID: args[0], Grammar: grammar, Hex: hex, Timeout: timeout}
			res := c.newWalker(devices[0], log, nil).Walk(cmd.Context(), req)

			out := walkOutput{
				Target:  c.target,
				OID:     req.OID,
				Grammar: grammar,
				Status:  res.Status.String(),
				Entries: res.Entries,
				Skipped: res.Skipped,
			}
			if out.Entries == nil {
				out.Entries = []entities.Entry{}
			}
			if res.Err != nil {
				out.Error = res.Err.Error()
			}
			enc := json.NewEncoder(c.stdout)
			enc.SetIndent("", "  ")
			if err := enc.Encode(out); err != nil {
				return err
			}
			if res.Status == entities.WalkFatal {
				return res.Err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&grammar, "grammar", entities.GrammarDefault, "Grammar used to parse the walk output")
	cmd.Flags().BoolVar(&hex, "hex", false, "Request OCTET STRING values as hex")
	cmd.Flags().DurationVar(&timeout, "timeout", 0, "Walk timeout (default: device timeout)")
	return cmd
}
