package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-slueval/infrastructure/middleware"
	"github.com/ahrav/go-slueval/internal/application"
	"github.com/ahrav/go-slueval/internal/domain"
)

// version is set at build time via -ldflags.
var version = "dev"

type options struct {
	configPath string
	format     string
	logLevel   string
	logFormat  string
	metricsOut string
	queryCER   bool
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "slueval <prediction.jsonl> <ground_truth.jsonl>",
		Short: "Score semantic-frame predictions against ground truth",
		Long: "slueval aligns prediction and ground-truth JSONL files by sample id,\n" +
			"normalizes both sides, and reports exact-match accuracy, intent\n" +
			"accuracy and micro-averaged slot precision, recall and F1.",
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return evaluate(cmd.Context(), opts, args[0], args[1], cmd.Flags().Changed("query-cer"), stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringVar(&opts.format, "format", "text", "report format: text or json")
	f.StringVar(&opts.logLevel, "log-level", "warn", "log level: debug, info, warn or error")
	f.StringVar(&opts.logFormat, "log-format", "text", "log format: text or json")
	f.StringVar(&opts.metricsOut, "metrics-out", "", "write Prometheus metrics to this file after the run")
	f.BoolVar(&opts.queryCER, "query-cer", false, "also report the query character error rate")
	return cmd
}

func evaluate(ctx context.Context, opts options, predPath, gtPath string, cerSet bool, stdout, stderr io.Writer) error {
	logger, err := application.NewLogger(stderr, opts.logLevel, opts.logFormat)
	if err != nil {
		return err
	}
	cfg, err := application.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	if cerSet {
		cfg.QueryCER.Enabled = opts.queryCER
	}

	metrics := middleware.NewEvaluationMetrics()
	evaluator, err := application.NewEvaluator(cfg,
		application.WithLogger(logger),
		application.WithMetrics(metrics),
	)
	if err != nil {
		return err
	}

	report, runErr := evaluator.Run(ctx, predPath, gtPath)
	if opts.metricsOut != "" {
		if err := metrics.WriteTextfile(opts.metricsOut); err != nil {
			logger.Error("write metrics", "path", opts.metricsOut, "error", err)
		}
	}
	if runErr != nil {
		return runErr
	}
	return application.Render(stdout, report, opts.format, cfg.Report)
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		if errors.Is(err, domain.ErrNoAlignedSamples) {
			fmt.Fprintln(stderr, "Error: No matching sample IDs found between files.")
			return 1
		}
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
