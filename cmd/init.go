package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/arcanaland/atelier/internal/config"
)

const sampleCatalog = `[catalog]
name = "Historia sztuki"
description = "Przykładowy katalog; dopisz własne dzieła jako kolejne [[artwork]]."

[[artwork]]
id = 1
title = "Mona Lisa"
author = "Leonardo da Vinci"
year = "1503-1519"
century = "XVI"
style = "Renesans"
filename = "mona_lisa"

[[artwork]]
id = 2
title = "Dziewczyna z perłą"
author = "Johannes Vermeer"
year = "1665"
century = "XVII"
style = "Barok"
filename = "dziewczyna_z_perla"

[[artwork]]
id = 3
title = "Impresja, wschód słońca"
author = "Claude Monet"
year = "1872"
century = "XIX"
style = "Impresjonizm"
filename = "impresja_wschod_slonca"
`

// initCmd represents the init command
var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Create the data directories, config and a sample catalog",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, dir := range []string{config.GetDataDir(), cfg.ImagesDir, config.GetCacheDir()} {
			if err := os.MkdirAll(dir, 0755); err != nil {
				return fmt.Errorf("error creating %s: %w", dir, err)
			}
		}

		if _, err := os.Stat(cfg.CatalogPath); os.IsNotExist(err) {
			if err := os.MkdirAll(filepath.Dir(cfg.CatalogPath), 0755); err != nil {
				return fmt.Errorf("error creating catalog directory: %w", err)
			}
			if err := os.WriteFile(cfg.CatalogPath, []byte(sampleCatalog), 0644); err != nil {
				return fmt.Errorf("error writing sample catalog: %w", err)
			}
			fmt.Println("Sample catalog written to:", cfg.CatalogPath)
		} else {
			fmt.Println("Catalog already exists at:", cfg.CatalogPath)
		}

		fmt.Println("Put artwork images (<filename>.png) in:", cfg.ImagesDir)
		fmt.Println("Config file initialized at:", config.GetConfigFilePath())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(initCmd)
}
