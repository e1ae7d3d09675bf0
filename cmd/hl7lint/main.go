// Command hl7lint decodes an ER7-encoded HL7 v2 message file and prints
// its element tree, or reports the decode failure.
package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jacoelho/hl7"
	hl7errors "github.com/jacoelho/hl7/errors"
)

func main() {
	if err := newRootCommand(os.Stdout, os.Stderr).Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand(stdout, stderr io.Writer) *cobra.Command {
	var (
		version    string
		validation string
		noGroups   bool
	)

	cmd := &cobra.Command{
		Use:           "hl7lint <message.hl7>",
		Short:         "Decode an ER7-encoded HL7 message and print its element tree",
		Args:          cobra.ExactArgs(1),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			level, err := parseLevel(validation)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(args[0])
			if err != nil {
				fmt.Fprintf(stderr, "error reading message: %v\n", err)
				return err
			}

			opts := []hl7.Option{hl7.WithValidation(level)}
			if version != "" {
				opts = append(opts, hl7.WithVersion(version))
			}
			if noGroups {
				opts = append(opts, hl7.WithoutGroups())
			}

			msg, err := hl7.ParseMessage(normalizeSeparators(string(data)), opts...)
			if err != nil {
				if perr, ok := hl7errors.AsParse(err); ok {
					fmt.Fprintln(stderr, perr.Error())
					fmt.Fprintf(stderr, "%s fails to decode\n", args[0])
					return err
				}
				fmt.Fprintf(stderr, "error decoding: %v\n", err)
				return err
			}

			printTree(stdout, msg, 0)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "hl7-version", "", "version assumed when MSH-12 is absent (default 2.5)")
	cmd.Flags().StringVar(&validation, "validation", "quiet", "validation level: strict, tolerant, or quiet")
	cmd.Flags().BoolVar(&noGroups, "no-groups", false, "attach segments flat instead of assigning groups")
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd
}

func parseLevel(s string) (hl7.Level, error) {
	switch s {
	case "strict":
		return hl7.Strict, nil
	case "tolerant":
		return hl7.Tolerant, nil
	case "quiet":
		return hl7.Quiet, nil
	default:
		return 0, fmt.Errorf("unknown validation level %q", s)
	}
}

// normalizeSeparators accepts files saved with LF or CRLF segment breaks.
func normalizeSeparators(text string) string {
	text = strings.ReplaceAll(text, "\r\n", "\r")
	return strings.ReplaceAll(text, "\n", "\r")
}

func printTree(w io.Writer, e *hl7.Element, depth int) {
	indent := strings.Repeat("  ", depth)
	label := e.Name
	if label == "" {
		label = "-"
	}
	switch {
	case e.Kind == hl7.KindSubComponent:
		fmt.Fprintf(w, "%s%s %s: %q\n", indent, e.Kind, label, e.Value)
	case e.Datatype != "":
		fmt.Fprintf(w, "%s%s %s (%s)\n", indent, e.Kind, label, e.Datatype)
	default:
		fmt.Fprintf(w, "%s%s %s\n", indent, e.Kind, label)
	}
	for _, c := range e.Children() {
		printTree(w, c, depth+1)
	}
}
