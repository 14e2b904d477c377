package main

import (
	"fmt"
	"io"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"smallworld/internal/loader"
)

var validateCmd = &cobra.Command{
	Use:   "validate <topology-file>",
	Short: "Validate a topology snapshot file",
	Long: `validate checks that a topology snapshot (JSON or YAML) parses and passes
schema validation, and warns about edges referencing undefined services.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runValidate(cmd.OutOrStdout(), args[0])
	},
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func runValidate(w io.Writer, path string) error {
	snap, err := loader.LoadFile(path)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid: %v\n", err)
		return err
	}

	fmt.Fprintln(w, "Valid topology file")
	fmt.Fprintf(w, "  Services:  %d\n", len(snap.Services))
	fmt.Fprintf(w, "  Edges:     %d\n", len(snap.Edges))
	fmt.Fprintf(w, "  Shortcuts: %d\n", len(snap.Shortcuts))

	if missing := undefinedServices(snap); len(missing) > 0 {
		fmt.Fprintf(w, "Warning: edges reference undefined services: %v\n", missing)
	}
	return nil
}

// undefinedServices returns edge endpoints that match no service record.
// These are dropped during normalization, which is usually a data bug worth
// surfacing before serving the file.
func undefinedServices(snap *loader.Snapshot) []string {
	known := make(map[string]bool, len(snap.Services))
	for _, svc := range snap.Services {
		known[svc.Name] = true
	}

	seen := make(map[string]bool)
	for _, e := range snap.Edges {
		for _, name := range []string{e.From, e.To} {
			if !known[name] {
				seen[name] = true
			}
		}
	}

	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
