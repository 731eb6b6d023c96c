// Command bsa packs and unpacks Bethesda game archives (BSA/BA2) from
// the command line: pack a loose mod directory into one or more
// archives, unpack an archive back into loose files, or list an
// archive's contents.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Guekka/bethutil-sub000"
)

var rootCommand = &cobra.Command{
	Use:           "bsa",
	Short:         "Pack and unpack Bethesda game archives",
	SilenceErrors: true,
}

func init() {
	rootCommand.AddCommand(packCommand, unpackCommand, listCommand)
}

func main() {
	if err := rootCommand.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "bsa:", err)

		var archiveErr *bsa.Error
		if errors.As(err, &archiveErr) {
			os.Exit(2)
		}
		os.Exit(1)
	}
}
