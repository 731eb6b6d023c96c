package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	bsa "github.com/Guekka/bethutil-sub000"
	"github.com/Guekka/bethutil-sub000/config"
)

var packCommand = &cobra.Command{
	Use:   "pack <dir>",
	Short: "Pack a loose mod directory into one or more archives",
	Args:  cobra.ExactArgs(1),
	RunE:  packMain,
}

var packConfiguration struct {
	game     string
	compress bool
	out      string
	include  []string
}

func init() {
	flags := packCommand.Flags()
	flags.SortFlags = false
	flags.StringVar(&packConfiguration.game, "game", "", "game to pack for (morrowind, oblivion, fallout3, falloutnv, skyrimle, skyrimse, fallout4, starfield)")
	flags.BoolVar(&packConfiguration.compress, "compress", true, "compress eligible files")
	flags.StringVar(&packConfiguration.out, "out", "", "directory to write archives into (defaults to <dir>)")
	flags.StringSliceVar(&packConfiguration.include, "include", nil, `restrict packing to relative paths matching one of these glob patterns (e.g. "textures/**"); repeatable`)
}

func packMain(cmd *cobra.Command, args []string) error {
	cmd.SilenceUsage = true

	cfg, _ := config.Load()
	gameName := packConfiguration.game
	if gameName == "" {
		gameName = cfg.Game
	}
	game, err := parseGame(gameName)
	if err != nil {
		return err
	}

	inputDir := args[0]
	outDir := packConfiguration.out
	if outDir == "" {
		outDir = inputDir
	}

	log, err := zap.NewProduction()
	if err != nil {
		log = zap.NewNop()
	}
	defer log.Sync() //nolint:errcheck

	sets := bsa.ForGame(game)
	results := bsa.Pack(context.Background(), bsa.PackSettings{
		Game:       sets,
		InputDir:   inputDir,
		Compress:   packConfiguration.compress,
		AllowGlobs: packConfiguration.include,
		Logger:     log,
	})

	var archiveCount, fileCount int
	var totalSize uint64
	for result := range results {
		name, err := bsa.FindArchiveName(outDir, sets, result.Type)
		if err != nil {
			return err
		}
		if err := result.Archive.Write(name.FullPath()); err != nil {
			return err
		}
		archiveCount++
		fileCount += result.Archive.Len()
		totalSize += result.Archive.FileSize()

		for relPath, fileErr := range result.Errors {
			fmt.Printf("warning: %s: %v\n", relPath, fileErr)
		}
	}

	if err := bsa.MakeDummyPlugins(outDir, sets, log); err != nil {
		return err
	}

	fmt.Printf("packed %d files into %d archive(s), %s\n", fileCount, archiveCount, humanize.Bytes(totalSize))
	_ = config.Save(config.RunConfig{Game: gameName, InputDir: inputDir, OutputDir: outDir, Compress: packConfiguration.compress})
	return nil
}

func parseGame(name string) (bsa.Game, error) {
	switch strings.ToLower(name) {
	case "morrowind":
		return bsa.GameMorrowind, nil
	case "oblivion":
		return bsa.GameOblivion, nil
	case "fallout3":
		return bsa.GameFallout3, nil
	case "falloutnv":
		return bsa.GameFalloutNV, nil
	case "skyrimle":
		return bsa.GameSkyrimLE, nil
	case "skyrimse":
		return bsa.GameSkyrimSE, nil
	case "fallout4":
		return bsa.GameFallout4, nil
	case "starfield":
		return bsa.GameStarfield, nil
	default:
		return 0, fmt.Errorf("unknown game %q", name)
	}
}
