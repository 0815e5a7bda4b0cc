package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Dan9191/taxflow/internal/middleware"
	"github.com/Dan9191/taxflow/internal/pan"
	"github.com/Dan9191/taxflow/internal/repository"
	"github.com/Dan9191/taxflow/internal/service"
	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/spf13/cobra"
)

func newValidateCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "validate PAN",
		Short: "Check a PAN's format and show its entity type",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := pan.Parse(args[0])
			if err != nil {
				return err
			}
			fmt.Fprintf(a.out, "%s: valid, entity %s\n", id.Code, id.Entity)
			return nil
		},
	}
}

func newRegimesCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "regimes",
		Short: "List the available tax regimes, marking the configured one",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			if _, err := tax.LookupRegime(cfg.Regime); err != nil {
				return err
			}
			for _, name := range tax.Regimes() {
				marker := " "
				if name == cfg.Regime {
					marker = "*"
				}
				fmt.Fprintf(a.out, "%s %s\n", marker, name)
			}
			return nil
		},
	}
}

func newProfileCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "profile PAN",
		Short: "Show the stored profile for a PAN",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			calc, err := a.calculator(cfg)
			if err != nil {
				return err
			}
			db, err := repository.Open(cfg.DBDriver, cfg.DBConn)
			if err != nil {
				return err
			}
			repo := repository.NewRepository(db)
			defer repo.Close()

			p, err := service.NewService(repo, calc, nil, a.log).Profile(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			enc := json.NewEncoder(a.out)
			enc.SetIndent("", "  ")
			return enc.Encode(p)
		},
	}
}

func newTokenCmd(a *app) *cobra.Command {
	var (
		subject string
		ttl     time.Duration
	)
	cmd := &cobra.Command{
		Use:   "token",
		Short: "Issue a bearer token for the API's protected routes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.config()
			if err != nil {
				return err
			}
			token, err := middleware.IssueToken(cfg.JWTSecret, subject, ttl)
			if err != nil {
				return err
			}
			fmt.Fprintln(a.out, token)
			return nil
		},
	}
	cmd.Flags().StringVar(&subject, "subject", "taxcalc", "token subject")
	cmd.Flags().DurationVar(&ttl, "ttl", 24*time.Hour, "token lifetime")
	return cmd
}
