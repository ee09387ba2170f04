package main

import (
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	"golang.org/x/term"
)

var version = "dev"

func newRootCmd(stdout, stderr io.Writer) *cobra.Command {
	root := &cobra.Command{
		Use:           "bomdiff",
		Short:         "Compare two hierarchical bills of materials",
		Long:          "bomdiff compares an original and an updated BOM and writes the changes as a flat report.",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			mode, err := cmd.Flags().GetString("color")
			if err != nil {
				return err
			}
			switch mode {
			case "on":
				color.NoColor = false
			case "off":
				color.NoColor = true
			case "auto":
				color.NoColor = !isTerminal(stdout)
			default:
				return fmt.Errorf("--color must be auto, on or off")
			}
			return nil
		},
	}
	root.SetOut(stdout)
	root.SetErr(stderr)

	root.PersistentFlags().String("color", "auto", "colorize output (auto|on|off)")
	root.PersistentFlags().BoolP("verbose", "v", false, "log debug output to stderr")
	root.PersistentFlags().String("profiles", "", "YAML file with extra format profiles")

	root.AddCommand(newCompareCmd())
	root.AddCommand(newProfilesCmd())
	return root
}

func main() {
	if err := newRootCmd(os.Stdout, os.Stderr).Execute(); err != nil {
		color.New(color.FgRed).Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// newLogger returns a text logger on the command's stderr.
func newLogger(cmd *cobra.Command) *slog.Logger {
	level := slog.LevelWarn
	if v, _ := cmd.Flags().GetBool("verbose"); v {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: level}))
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
