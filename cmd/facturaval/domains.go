package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"facturaval/internal/app"
	"facturaval/internal/config"
	"facturaval/internal/validator/field"
)

func newDomainsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "domains [CANDIDATE]",
		Short: "List known email domains or find the closest one to CANDIDATE",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			kb, err := app.NewDomainKnowledgeBase(&cfg.Engine)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if len(args) == 0 {
				for _, d := range kb.Domains() {
					fmt.Fprintln(out, d)
				}
				fmt.Fprintf(out, "%d dominios conocidos\n", kb.Len())
				return nil
			}

			matcher, err := field.NewDomainMatcher(kb, cfg.Engine.SimilarityCutoff)
			if err != nil {
				return err
			}
			candidate := strings.ToLower(strings.TrimSpace(args[0]))
			if kb.Contains(candidate) {
				fmt.Fprintf(out, "%s: dominio conocido\n", candidate)
				return nil
			}
			best, ok := matcher.Closest(candidate)
			if !ok {
				fmt.Fprintf(out, "%s: sin coincidencia (umbral %.2f)\n", candidate, cfg.Engine.SimilarityCutoff)
				return nil
			}
			fmt.Fprintf(out, "%s -> %s (similitud %.3f)\n", candidate, best, field.Similarity(best, candidate))
			return nil
		},
	}
}
