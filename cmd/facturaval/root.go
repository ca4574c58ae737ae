package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"facturaval/internal/config"
	"facturaval/internal/logger"
)

type rootOptions struct {
	verbose bool
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "facturaval",
		Short: "Normalize and validate OCR fields of Ecuadorian invoices and contracts",
		Long: `facturaval turns the labeled fragments recognized on a scanned invoice or
contract into a validated record: phone numbers, cédula/RUC, emails, dates
and amounts are normalized, product rows are assembled and every problem is
reported as a warning.

Example Usage:
  facturaval process factura.jpg                 # extract, validate and print
  facturaval process -f json -o out.json f.json  # validate pre-extracted fragments
  facturaval check email "juan perez arroba gmial.com"
  facturaval domains hotmai.com`,
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return cmd.Help()
		},
	}

	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable debug logging on stderr")

	cmd.AddCommand(
		newProcessCmd(opts),
		newCheckCmd(),
		newDomainsCmd(),
		newVersionCmd(),
	)
	return cmd
}

// setup loads configuration and builds a console logger for CLI use.
func (o *rootOptions) setup() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}
	level := "warn"
	if o.verbose {
		level = "debug"
	}
	log, err := logger.New(level, "console")
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}
