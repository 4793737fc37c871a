// Command projectscan собирает отчёт о файлах проекта: сводку, JSON-отчёт или Markdown-дайджест.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/magabrotheeeer/subsense/internal/scanner"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var root string

	cmd := &cobra.Command{
		Use:           "projectscan",
		Short:         "Scan a project tree and report on its source files",
		SilenceUsage:  true,
	}
	cmd.PersistentFlags().StringVarP(&root, "root", "r", ".", "project root to scan")

	scan := func() (*scanner.Report, error) {
		return scanner.New(scanner.DefaultConfig()).Scan(root)
	}

	cmd.AddCommand(
		newSummaryCmd(scan),
		newSaveCmd(scan),
		newDigestCmd(scan),
	)
	return cmd
}

type scanFunc func() (*scanner.Report, error)

func newSummaryCmd(scan scanFunc) *cobra.Command {
	var keyFiles []string
	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print file counts, file types and key files check",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := scan()
			if err != nil {
				return err
			}
			scanner.WriteSummary(cmd.OutOrStdout(), report, keyFiles)
			return nil
		},
	}
	cmd.Flags().StringSliceVar(&keyFiles, "key", scanner.DefaultKeyFiles, "path fragments that must be present")
	return cmd
}

func newSaveCmd(scan scanFunc) *cobra.Command {
	var out string
	cmd := &cobra.Command{
		Use:   "save",
		Short: "Write the full JSON report",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := scan()
			if err != nil {
				return err
			}
			if err := scanner.SaveJSON(out, report); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "report saved: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "subsense-project-scan.json", "output file")
	return cmd
}

func newDigestCmd(scan scanFunc) *cobra.Command {
	var (
		out     string
		filters []string
	)
	cmd := &cobra.Command{
		Use:   "digest",
		Short: "Write a Markdown digest of files matching the filters",
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := scan()
			if err != nil {
				return err
			}
			if out == "-" {
				return scanner.WriteDigest(cmd.OutOrStdout(), report, filters)
			}
			f, err := os.Create(out)
			if err != nil {
				return fmt.Errorf("create %s: %w", out, err)
			}
			if err := scanner.WriteDigest(f, report, filters); err != nil {
				_ = f.Close()
				return err
			}
			if err := f.Close(); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "digest saved: %s\n", out)
			return nil
		},
	}
	cmd.Flags().StringVarP(&out, "out", "o", "subsense-digest.md", `output file, "-" for stdout`)
	cmd.Flags().StringSliceVarP(&filters, "filter", "f", scanner.DefaultFilters, "path fragments to include")
	return cmd
}
