package main

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/dgallion1/bomdiff/internal/bom"
	"github.com/dgallion1/bomdiff/internal/parser"
	"github.com/dgallion1/bomdiff/internal/pipeline"
	"github.com/dgallion1/bomdiff/internal/render"
	"github.com/fatih/color"
	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compare [flags] ORIGINAL UPDATED",
		Short: "Compare two BOM files and write the report",
		Long: "Compare loads both BOMs with the selected format profile and writes every added, " +
			"removed and changed line. The report is named <original>_<updated>_cmp.<ext> unless -o is given.",
		Args: cobra.ExactArgs(2),
		RunE: runCompare,
	}
	cmd.Flags().StringP("out", "o", "", "report file (default <original>_<updated>_cmp.<ext> in --dir)")
	cmd.Flags().String("dir", ".", "directory for the default report file")
	cmd.Flags().StringP("profile", "p", parser.Simple.Name, "format profile of both inputs")
	cmd.Flags().String("output", "", "report format: "+strings.Join(render.Formats, ", ")+" (default from -o, else xlsx)")
	cmd.Flags().Bool("no-pdftotext", false, "do not fall back to pdftotext for PDF inputs")
	return cmd
}

func runCompare(cmd *cobra.Command, args []string) error {
	log := newLogger(cmd)
	flags := cmd.Flags()
	out, _ := flags.GetString("out")
	dir, _ := flags.GetString("dir")
	profileName, _ := flags.GetString("profile")
	format, _ := flags.GetString("output")
	noPdftotext, _ := flags.GetBool("no-pdftotext")
	profilesFile, _ := flags.GetString("profiles")

	profiles, err := parser.LoadProfilesFile(profilesFile)
	if err != nil {
		return err
	}
	profile, err := profiles.Lookup(profileName)
	if err != nil {
		return fmt.Errorf("%w (available: %s)", err, strings.Join(profiles.Names(), ", "))
	}

	if format == "" {
		format = "xlsx"
		if ext := strings.TrimPrefix(filepath.Ext(out), "."); out != "" && ext != "" {
			format = ext
		}
	}
	writer, err := render.ForFormat(format)
	if err != nil {
		return err
	}
	if out == "" {
		out = filepath.Join(dir, render.DefaultFilename(args[0], args[1], writer.Ext()))
	}

	original, err := readInput(args[0])
	if err != nil {
		return err
	}
	updated, err := readInput(args[1])
	if err != nil {
		return err
	}

	start := time.Now()
	log.Debug("comparing", "original", original.Filename, "updated", updated.Filename, "profile", profile.Name)
	rep, err := pipeline.Run(cmd.Context(), original, updated, profile, parser.Options{PDFFallbackPdftotext: !noPdftotext})
	if err != nil {
		return err
	}
	log.Debug("compared", "rows", len(rep.Rows), "duration_ms", time.Since(start).Milliseconds())

	if err := writeReport(out, writer, rep); err != nil {
		return err
	}
	printSummary(cmd, rep, out)
	return nil
}

func readInput(path string) (pipeline.Input, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return pipeline.Input{}, fmt.Errorf("read %s: %w", path, err)
	}
	return pipeline.Input{Filename: filepath.Base(path), Data: data}, nil
}

func writeReport(path string, w render.Writer, rep *bom.Report) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report: %w", err)
	}
	if err := w.Write(f, rep); err != nil {
		f.Close()
		return fmt.Errorf("write report: %w", err)
	}
	return f.Close()
}

func printSummary(cmd *cobra.Command, rep *bom.Report, path string) {
	w := cmd.OutOrStdout()
	if rep.Summary.Total() == 0 {
		color.New(color.FgGreen).Fprintf(w, "no differences between %s and %s\n", rep.Original, rep.Updated)
	} else {
		fmt.Fprintf(w, "%s vs %s: ", rep.Original, rep.Updated)
		color.New(color.FgGreen).Fprintf(w, "+%d added", rep.Summary.Added)
		fmt.Fprint(w, ", ")
		color.New(color.FgRed).Fprintf(w, "-%d removed", rep.Summary.Removed)
		fmt.Fprint(w, ", ")
		color.New(color.FgYellow).Fprintf(w, "~%d changed", rep.Summary.Changed)
		fmt.Fprintln(w)
	}
	fmt.Fprintf(w, "report written to %s\n", path)
}
