package main

import (
	"encoding/json"
	"fmt"

	"github.com/Dan9191/taxflow/internal/report"
	"github.com/Dan9191/taxflow/internal/repository"
	"github.com/Dan9191/taxflow/internal/service"
	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
)

type calculateOptions struct {
	pan        string
	income     string
	deductions string
	emi        string
	age        int
	format     string
	save       bool
}

func newCalculateCmd(a *app) *cobra.Command {
	opts := &calculateOptions{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate tax for a PAN",
		Example: `  taxcalc calculate --pan ABCPD1234F --income 1000000 --deductions 100000 --age 30
  taxcalc calculate --pan ABCCD1234F --income 6000000 --format xml`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.runCalculate(cmd, opts)
		},
	}
	cmd.Flags().StringVar(&opts.pan, "pan", "", "permanent account number")
	cmd.Flags().StringVar(&opts.income, "income", "", "gross annual income or turnover")
	cmd.Flags().StringVar(&opts.deductions, "deductions", "0", "total deductions")
	cmd.Flags().StringVar(&opts.emi, "emi", "0", "monthly loan installment")
	cmd.Flags().IntVar(&opts.age, "age", 0, "age in years (required for individuals)")
	cmd.Flags().StringVarP(&opts.format, "format", "o", "text", "output format: text, json or xml")
	cmd.Flags().BoolVar(&opts.save, "save", false, "store the inputs as the PAN's profile")
	cmd.MarkFlagRequired("pan")
	cmd.MarkFlagRequired("income")
	return cmd
}

func (a *app) runCalculate(cmd *cobra.Command, opts *calculateOptions) error {
	income, err := parseAmount("income", opts.income)
	if err != nil {
		return err
	}
	deductions, err := parseAmount("deductions", opts.deductions)
	if err != nil {
		return err
	}
	emi, err := parseAmount("emi", opts.emi)
	if err != nil {
		return err
	}

	cfg, err := a.config()
	if err != nil {
		return err
	}
	calc, err := a.calculator(cfg)
	if err != nil {
		return err
	}

	var store service.ProfileStore
	if opts.save {
		db, err := repository.Open(cfg.DBDriver, cfg.DBConn)
		if err != nil {
			return err
		}
		repo := repository.NewRepository(db)
		defer repo.Close()
		store = repo
	}

	req := service.CalculateRequest{
		PAN:        opts.pan,
		Income:     income,
		Deductions: deductions,
		EMI:        emi,
		Save:       opts.save,
	}
	if cmd.Flags().Changed("age") {
		req.Age = &opts.age
	}

	result, err := service.NewService(store, calc, nil, a.log).Calculate(cmd.Context(), req)
	if err != nil {
		return err
	}

	switch opts.format {
	case "text":
		fmt.Fprint(a.out, report.Text(result))
	case "json":
		enc := json.NewEncoder(a.out)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	case "xml":
		out, err := report.XML(result)
		if err != nil {
			return err
		}
		fmt.Fprintln(a.out, string(out))
	default:
		return fmt.Errorf("%w: unknown format %q", tax.ErrInvalidInput, opts.format)
	}
	return nil
}

func parseAmount(name, value string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %s %q is not a number", tax.ErrInvalidInput, name, value)
	}
	return d, nil
}
