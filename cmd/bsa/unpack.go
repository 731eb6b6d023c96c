package main

import (
	"fmt"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	bsa "github.com/Guekka/bethutil-sub000"
	"github.com/Guekka/bethutil-sub000/config"
)

var unpackCommand = &cobra.Command{
	Use:   "unpack <archive>",
	Short: "Unpack an archive into loose files",
	Args:  cobra.ExactArgs(1),
	RunE:  unpackMain,
}

var unpackConfiguration struct {
	out       string
	remove    bool
	overwrite bool
}

func init() {
	flags := unpackCommand.Flags()
	flags.SortFlags = false
	flags.StringVar(&unpackConfiguration.out, "out", "", "directory to unpack into (defaults to the archive's own directory)")
	flags.BoolVar(&unpackConfiguration.remove, "remove", false, "remove the archive after a successful unpack")
	flags.BoolVar(&unpackConfiguration.overwrite, "overwrite", false, "overwrite loose files already present at the destination")
}

func unpackMain(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync() //nolint:errcheck

	archivePath := args[0]
	result, err := bsa.Unpack(bsa.UnpackSettings{
		ArchivePath:       archivePath,
		Root:              unpackConfiguration.out,
		OverwriteExisting: unpackConfiguration.overwrite,
		RemoveArchive:     unpackConfiguration.remove,
		Logger:            log,
	})
	if err != nil {
		return err
	}

	var failed uint64
	for relPath, fileErr := range result.Errors {
		fmt.Printf("warning: %s: %v\n", relPath, fileErr)
		failed++
	}

	fmt.Printf("unpacked %s, %s failed\n", archivePath, humanize.Comma(int64(failed)))
	if result.ArchiveRemoved {
		fmt.Println("removed source archive")
	}

	_ = config.Save(config.RunConfig{
		InputDir:          archivePath,
		OutputDir:         unpackConfiguration.out,
		OverwriteExisting: unpackConfiguration.overwrite,
		RemoveArchive:     unpackConfiguration.remove,
	})
	return nil
}
