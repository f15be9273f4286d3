package main

import (
	"context"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/ahrav/go-slueval/internal/application"
)

var version = "dev"

type options struct {
	inputFile  string
	outputFile string
	configPath string
	logLevel   string
}

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	var opts options
	cmd := &cobra.Command{
		Use:   "sftconvert --input-file=<path>",
		Short: "Convert raw SLU annotations into SFT training records",
		Long: "sftconvert reads JSONL records carrying a query and a raw\n" +
			"intent/domain/slot annotation and writes one\n" +
			"{\"instruction\", \"input\", \"output\"} record per line.",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return convert(cmd.Context(), opts, stdout, stderr)
		},
	}
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	f := cmd.Flags()
	f.StringVar(&opts.inputFile, "input-file", "", "raw annotation JSONL file")
	f.StringVar(&opts.outputFile, "output-file", "", "output path (default <dir>/<stem>_sft_ready.jsonl)")
	f.StringVar(&opts.configPath, "config", "", "YAML configuration file")
	f.StringVar(&opts.logLevel, "log-level", "info", "log level: debug, info, warn or error")
	_ = cmd.MarkFlagRequired("input-file")
	return cmd
}

func convert(ctx context.Context, opts options, stdout, stderr io.Writer) error {
	logger, err := application.NewLogger(stderr, opts.logLevel, "text")
	if err != nil {
		return err
	}
	cfg, err := application.LoadConfig(opts.configPath)
	if err != nil {
		return err
	}
	conv, err := application.NewConverter(cfg, application.WithConverterLogger(logger))
	if err != nil {
		return err
	}

	summary, err := conv.Run(ctx, opts.inputFile, opts.outputFile)
	if err != nil {
		return err
	}
	fmt.Fprintf(stdout, "Converted %d of %d records (%d skipped) -> %s\n",
		summary.Written, summary.Read, summary.Skipped, summary.OutputPath)
	return nil
}

func run(args []string, stdout, stderr io.Writer) int {
	cmd := newRootCmd(stdout, stderr)
	cmd.SetArgs(args)
	if err := cmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(stderr, "Error: %v\n", err)
		return 1
	}
	return 0
}
