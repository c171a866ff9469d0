package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/carlosrabelo/ifpoll/infrastructure/catalog"
	"github.com/carlosrabelo/ifpoll/platform"
)

func newCatalogCmd(c *cli) *cobra.Command {
	var modelsFile string
	cmd := &cobra.Command{
		Use:   "catalog [MODEL]",
		Short: "List model families, or print the family and builder of MODEL",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if modelsFile == "" {
				log, err := c.logger()
				if err != nil {
					return err
				}
				defer log.Sync() //nolint:errcheck
				cfg, err := c.loadConfig(log)
				if err != nil {
					return err
				}
				modelsFile = cfg.ModelsFile
			}
			models, err := catalog.Load(modelsFile)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				for _, f := range models.Families() {
					builder := "-"
					if b, err := platform.Get(f.Name); err == nil {
						builder = b.Name()
					}
					fmt.Fprintf(c.stdout, "%-24s %-16s %s\n", f.Name, builder, strings.Join(f.Models, ","))
				}
				return nil
			}

			family, found := models.FindFamily(args[0])
			if !found {
				return fmt.Errorf("model %s: no family in %s", args[0], modelsFile)
			}
			b, err := platform.Get(family)
			if err != nil {
				fmt.Fprintf(c.stdout, "%s %s -\n", args[0], family)
				return nil
			}
			fmt.Fprintf(c.stdout, "%s %s %s\n", args[0], family, b.Name())
			return nil
		},
	}
	cmd.Flags().StringVar(&modelsFile, "models-file", "", "Model catalog file (default: models_file from the configuration)")
	return cmd
}
