package cmd

import (
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/atelier/internal/deck"
)

var lsCmd = &cobra.Command{
	Use:   "ls",
	Short: "List the cards of the active deck",
	Long: `List prints the deck a study session would start with, after applying
the view mode, style, century and search filters.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		viewFlag, _ := cmd.Flags().GetString("view")
		mode, err := deck.ParseViewMode(viewFlag)
		if err != nil {
			return err
		}

		filter := deck.DefaultFilter()
		if v, _ := cmd.Flags().GetString("style"); v != "" {
			filter.Style = v
		}
		if v, _ := cmd.Flags().GetString("century"); v != "" {
			filter.Century = v
		}
		filter.Query, _ = cmd.Flags().GetString("query")
		shuffle, _ := cmd.Flags().GetBool("shuffle")

		_, cards, err := loadCards()
		if err != nil {
			return err
		}
		store, closeStore := openProgress()
		defer closeStore()

		s := deck.NewSession(cards, store, deck.Options{Logger: logger})
		s.SetViewMode(mode)
		s.SetFilter(filter)
		if shuffle {
			s.Shuffle()
		}

		fmt.Println(filterLine(s.Mode(), s.Filter()))
		fmt.Println()

		if s.Empty() {
			fmt.Println(s.Reason().Message())
			if s.Reason().CanResetProgress() {
				fmt.Println("Aby zacząć od nowa, uruchom 'atelier progress reset'.")
			}
			return nil
		}

		for _, c := range s.Cards() {
			marker := "  "
			if s.IsKnown(c.ID) {
				marker = colorize.GreenString("✓ ")
			}
			fmt.Printf("%s%-14s %s\n", marker, c.ID, c.Prompt)
		}
		fmt.Printf("\nKart: %d\n", s.Len())
		return nil
	},
}

func init() {
	RootCmd.AddCommand(lsCmd)

	lsCmd.Flags().String("view", "learning", "View mode: learning, known or all")
	lsCmd.Flags().String("style", "", "Only cards of this art style")
	lsCmd.Flags().String("century", "", "Only cards of this century")
	lsCmd.Flags().StringP("query", "q", "", "Only cards whose title, author or style contains this text")
	lsCmd.Flags().Bool("shuffle", false, "Shuffle the deck")
}
