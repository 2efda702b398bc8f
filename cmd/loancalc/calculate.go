package main

import (
	"fmt"
	"time"

	"github.com/iwvelando/loan-calculator/pkg/constants"
	"github.com/iwvelando/loan-calculator/pkg/loans"
	"github.com/iwvelando/loan-calculator/pkg/mathutil"
	"github.com/iwvelando/loan-calculator/pkg/output"
	"github.com/iwvelando/loan-calculator/pkg/validation"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newCalculateCmd(opts *rootOptions) *cobra.Command {
	flags := &loanFlags{}
	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate the payment for one loan or every configured loan",
		Example: "  loancalc calculate --home-price 60000 --down-payment 10 --percent --rate 9 --term 20\n" +
			"  loancalc calculate --config loans.yaml --output-format csv",
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runCalculate(cmd, opts, flags, false)
		},
	}
	flags.register(cmd)
	return cmd
}

func newScheduleCmd(opts *rootOptions) *cobra.Command {
	flags := &loanFlags{}
	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Print the month by month amortization schedule",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runSchedule(cmd, opts, flags)
		},
	}
	flags.register(cmd)
	return cmd
}

func newExampleCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "example",
		Short: "Show the example loan and its payment summary",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runExample(cmd, opts)
		},
	}
}

func runCalculate(cmd *cobra.Command, opts *rootOptions, flags *loanFlags, schedule bool) error {
	conf, logger, err := opts.load(!flags.provided(cmd))
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat, err := opts.resolveOutputFormat(conf)
	if err != nil {
		return err
	}

	results, err := opts.quotes(cmd, flags, conf, logger, schedule)
	if err != nil {
		return err
	}

	logger.Debug(fmt.Sprintf("calculated %d loans", len(results)),
		zap.String("op", "main"),
		zap.String("outputFormat", outputFormat),
	)
	return writeQuotes(cmd.OutOrStdout(), outputFormat, results)
}

func runSchedule(cmd *cobra.Command, opts *rootOptions, flags *loanFlags) error {
	conf, logger, err := opts.load(!flags.provided(cmd))
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat, err := opts.resolveOutputFormat(conf)
	if err != nil {
		return err
	}

	results, err := opts.quotes(cmd, flags, conf, logger, true)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	for i, result := range results {
		if outputFormat == constants.OutputFormatCSV {
			if err := output.ScheduleCsv(out, result.Name, result.Schedule); err != nil {
				return err
			}
			continue
		}

		if i > 0 {
			fmt.Fprintln(out)
		}
		fmt.Fprintf(out, "--- Schedule for loan %s ---\n", result.Name)
		if len(result.Schedule) == 0 {
			if mathutil.IsPositive(result.Results.MonthlyPayment) {
				fmt.Fprintf(out, "Too many payments to list (limit %d).\n", constants.MaxSchedulePayments)
			} else {
				fmt.Fprintln(out, "Nothing to finance.")
			}
			continue
		}
		output.ScheduleFormat(out, result.Schedule)
	}
	return nil
}

func runExample(cmd *cobra.Command, opts *rootOptions) error {
	conf, logger, err := opts.load(false)
	if err != nil {
		return err
	}
	defer func() {
		_ = logger.Sync()
	}()

	outputFormat, err := opts.resolveOutputFormat(conf)
	if err != nil {
		return err
	}

	form := validation.ExampleForm()
	inputs, err := form.Inputs()
	if err != nil {
		return err
	}
	results := loans.Calculate(inputs)

	if outputFormat == constants.OutputFormatCSV {
		return output.SummaryCsv(cmd.OutOrStdout(), output.NewSummary(inputs, results, form.DownPaymentIsPercent, time.Now()))
	}
	return output.WriteSummary(cmd.OutOrStdout(), output.NewSummary(inputs, results, form.DownPaymentIsPercent, time.Now()))
}
