package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/atelier/internal/card"
	"github.com/arcanaland/atelier/internal/mastery"
	"github.com/arcanaland/atelier/internal/storage"
)

var progressCmd = &cobra.Command{
	Use:   "progress",
	Short: "Show how many cards you know",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cards, err := loadCards()
		if err != nil {
			return err
		}
		store, closeStore := openProgress()
		defer closeStore()

		known := store.Load()

		total := make(map[card.Kind]int)
		knownByKind := make(map[card.Kind]int)
		knownInCatalog := 0
		for _, c := range cards {
			total[c.Kind]++
			if known.Has(c.ID) {
				knownByKind[c.Kind]++
				knownInCatalog++
			}
		}

		fmt.Println(colorize.CyanString("Postęp nauki"))
		fmt.Println("------------")
		for _, k := range card.Kinds {
			fmt.Printf("%-8s %s\n", k.Label()+":", colorize.HiWhiteString("%d/%d", knownByKind[k], total[k]))
		}
		fmt.Printf("%-8s %s\n", "Razem:", colorize.GreenString("%d/%d", knownInCatalog, len(cards)))

		if stale := known.Len() - knownInCatalog; stale > 0 {
			fmt.Println(colorize.HiBlackString("(%d zapamiętanych kart nie ma już w katalogu)", stale))
		}
		return nil
	},
}

var progressResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Forget every card marked as known",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		yes, _ := cmd.Flags().GetBool("yes")
		if !yes && !confirm("Na pewno zresetować postęp? [t/N] ") {
			fmt.Println("Anulowano, postęp bez zmian.")
			return nil
		}

		db, err := storage.Open(cfg.StorePath)
		if err != nil {
			return fmt.Errorf("error opening progress store: %w", err)
		}
		defer db.Close()

		if err := resetProgress(db); err != nil {
			return err
		}
		fmt.Println("Postęp zresetowany.")
		return nil
	},
}

// resetProgress clears the known set held in kv
func resetProgress(kv storage.KeyValue) error {
	if err := mastery.NewStore(kv, logger).Clear(); err != nil {
		return fmt.Errorf("progress was not reset: %w", err)
	}
	return nil
}

func init() {
	RootCmd.AddCommand(progressCmd)
	progressCmd.AddCommand(progressResetCmd)

	progressResetCmd.Flags().BoolP("yes", "y", false, "Do not ask for confirmation")
}

// confirm asks a yes/no question on stdin; only an explicit yes counts
func confirm(prompt string) bool {
	fmt.Print(prompt)
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil {
		return false
	}
	return isYes(line)
}

func isYes(answer string) bool {
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "t", "tak", "y", "yes":
		return true
	}
	return false
}
