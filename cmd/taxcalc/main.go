// Command taxcalc computes income tax from the command line and manages
// stored PAN profiles.
package main

import (
	"fmt"
	"io"
	"os"

	"github.com/Dan9191/taxflow/internal/config"
	"github.com/Dan9191/taxflow/internal/tax"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

type app struct {
	out      io.Writer
	log      *logrus.Logger
	regime   string
	rounding string
	verbose  bool
}

func newRootCmd(out, errOut io.Writer) *cobra.Command {
	a := &app{
		out: out,
		log: logrus.New(),
	}
	a.log.SetOutput(errOut)
	a.log.SetLevel(logrus.WarnLevel)

	root := &cobra.Command{
		Use:           "taxcalc",
		Short:         "Compute income tax for a PAN holder",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if a.verbose {
				a.log.SetLevel(logrus.DebugLevel)
			}
		},
	}
	root.SetOut(out)
	root.SetErr(errOut)

	root.PersistentFlags().StringVar(&a.regime, "regime", "", "tax regime (default from TAX_REGIME)")
	root.PersistentFlags().StringVar(&a.rounding, "rounding", "", "rounding mode: half-even or half-up (default from TAX_ROUNDING)")
	root.PersistentFlags().BoolVarP(&a.verbose, "verbose", "v", false, "debug logging")

	root.AddCommand(
		newCalculateCmd(a),
		newValidateCmd(a),
		newRegimesCmd(a),
		newProfileCmd(a),
		newTokenCmd(a),
	)
	return root
}

// config loads the environment configuration with flag overrides applied.
func (a *app) config() (*config.Config, error) {
	cfg, err := config.NewConfig()
	if err != nil {
		return nil, err
	}
	if a.regime != "" {
		cfg.Regime = a.regime
	}
	if a.rounding != "" {
		cfg.Rounding = a.rounding
	}
	return cfg, nil
}

func (a *app) calculator(cfg *config.Config) (*tax.Calculator, error) {
	calc, err := cfg.Calculator()
	if err != nil {
		return nil, err
	}
	a.log.Debugf("Using regime %s", calc.RegimeName())
	return calc, nil
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}
