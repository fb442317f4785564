// repogen compiles repository manifests into generated query sources.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "repogen",
		Short:         "Derived-query compiler",
		Long:          "repogen translates declarative repository method names into parameterized SQL and generates the Go sources holding them.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.AddCommand(newGenerateCommand())
	return cmd
}
