package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"facturaval/internal/app"
	"facturaval/internal/config"
	"facturaval/internal/validator"
)

func newCheckCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "check KIND TEXT...",
		Short: "Run one field validator on a piece of text",
		Long: `check normalizes TEXT as a field of the given KIND and prints the value,
whether it is valid, and the warning a document would carry.

Kinds: freeform, phone (telefono), national_id (cedula, ruc, id),
email (correo), currency, date (fecha).`,
		Args: cobra.MinimumNArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			kind, err := validator.ParseFieldKind(args[0])
			if err != nil {
				return err
			}

			cfg, err := config.Load()
			if err != nil {
				return err
			}
			engine, err := app.NewEngine(&cfg.Engine)
			if err != nil {
				return err
			}

			raw := strings.Join(args[1:], " ")
			v := engine.Validator(kind)
			res := v.Validate(raw)

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "tipo:    %s\n", kind)
			fmt.Fprintf(out, "entrada: %q\n", raw)
			fmt.Fprintf(out, "valor:   %s\n", res.Value)
			fmt.Fprintf(out, "válido:  %s\n", yesNo(res.Valid))
			if warning := v.Warning(raw, res); warning != "" {
				fmt.Fprintf(out, "aviso:   %s\n", warning)
			}
			return nil
		},
	}
}

func yesNo(b bool) string {
	if b {
		return "sí"
	}
	return "no"
}
