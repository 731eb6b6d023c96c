package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	bsa "github.com/Guekka/bethutil-sub000"
	"github.com/Guekka/bethutil-sub000/internal/pathutil"
)

var listFilter string

var listCommand = &cobra.Command{
	Use:   "list <archive>",
	Short: "List an archive's contents",
	Args:  cobra.ExactArgs(1),
	RunE:  listMain,
}

func init() {
	listCommand.Flags().StringVar(&listFilter, "filter", "", `only list entries matching this glob pattern (e.g. "textures/**")`)
}

func listMain(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	archive, err := bsa.Open(args[0])
	if err != nil {
		return err
	}

	entries := archive.Entries()
	var shown int
	var shownSize uint64
	for _, e := range entries {
		if listFilter != "" {
			ok, err := pathutil.Match(listFilter, e.Name)
			if err != nil {
				return fmt.Errorf("invalid --filter pattern: %w", err)
			}
			if !ok {
				continue
			}
		}
		fmt.Printf("%-10s %s\n", humanize.Bytes(uint64(e.File.Size())), e.Name)
		shown++
		shownSize += uint64(e.File.Size())
	}
	if listFilter != "" {
		fmt.Printf("%d/%d files, %s (%s)\n", shown, len(entries), humanize.Bytes(shownSize), archive.Version())
		return nil
	}
	fmt.Printf("%d files, %s (%s)\n", len(entries), humanize.Bytes(archive.FileSize()), archive.Version())
	return nil
}
