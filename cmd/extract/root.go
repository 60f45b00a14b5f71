package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"

	"mixmate/internal/core/sections"

	"github.com/spf13/cobra"
)

type extractOptions struct {
	titles   []string
	trailing string
	alias    string
	raw      bool
	pretty   bool
}

// output CLI 輸出格式
type output struct {
	Sections         sections.SectionMap `json:"sections"`
	Tier             string              `json:"tier"`
	Parsed           bool                `json:"parsed"`
	KeywordFilled    []string            `json:"keyword_filled,omitempty"`
	ConclusionMerged bool                `json:"conclusion_merged"`
	Raw              string              `json:"raw,omitempty"`
}

func newRootCmd() *cobra.Command {
	opts := extractOptions{}

	cmd := &cobra.Command{
		Use:   "extract [file]",
		Short: "Split model output into recipe sections",
		Long: `Reads raw model output from a file (or stdin when no file is given),
splits it into the configured section titles and prints the result as JSON.`,
		Args:          cobra.MaximumNArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExtract(cmd, args, opts)
		},
	}

	defaults := sections.DefaultOptions()
	cmd.Flags().StringSliceVarP(&opts.titles, "titles", "t", defaults.Titles, "section titles in canonical order")
	cmd.Flags().StringVar(&opts.trailing, "trailing", defaults.TrailingTitle, "title that receives the conclusion (empty disables merging)")
	cmd.Flags().StringVar(&opts.alias, "conclusion", defaults.ConclusionAlias, "heading merged into the trailing title")
	cmd.Flags().BoolVar(&opts.raw, "raw", false, "include the raw text when no section is found")
	cmd.Flags().BoolVarP(&opts.pretty, "pretty", "p", false, "indent JSON output")
	return cmd
}

func runExtract(cmd *cobra.Command, args []string, opts extractOptions) error {
	text, err := readInput(cmd.InOrStdin(), args)
	if err != nil {
		return err
	}

	cfg := sections.DefaultOptions()
	cfg.Titles = opts.titles
	cfg.TrailingTitle = opts.trailing
	cfg.ConclusionAlias = opts.alias
	extractor, err := sections.New(cfg.Pruned())
	if err != nil {
		return fmt.Errorf("build extractor: %w", err)
	}

	res := extractor.Extract(text)
	out := output{
		Sections:         res.Sections,
		Tier:             res.Tier.String(),
		Parsed:           res.Found(),
		KeywordFilled:    res.KeywordFilled,
		ConclusionMerged: res.ConclusionMerged,
	}
	if opts.raw && !res.Found() {
		out.Raw = text
	}

	enc := json.NewEncoder(cmd.OutOrStdout())
	if opts.pretty {
		enc.SetIndent("", "  ")
	}
	return enc.Encode(out)
}

func readInput(stdin io.Reader, args []string) (string, error) {
	if len(args) == 0 || args[0] == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", fmt.Errorf("read stdin: %w", err)
		}
		return string(data), nil
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		return "", fmt.Errorf("read %s: %w", args[0], err)
	}
	return string(data), nil
}
