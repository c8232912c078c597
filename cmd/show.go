package cmd

import (
	"context"
	"fmt"

	colorize "github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/arcanaland/atelier/internal/artwork"
	"github.com/arcanaland/atelier/internal/card"
)

var showCmd = &cobra.Command{
	Use:   "show [card_id]",
	Short: "Display a card with ANSI art",
	Long: `Show displays a card with its artwork rendered as ANSI terminal art.
Card IDs have the form <artwork id>-<kind>, where kind is one of title,
author, century or style.

The artwork is taken from the image URL when the catalog has one, otherwise
from <images_dir>/<filename>.png (retrying the Unicode-decomposed filename).
When nothing loads, a placeholder tinted with the style colour is shown.

Examples:
  atelier show 1-title
  atelier show --answer 3-style`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		_, cards, err := loadCards()
		if err != nil {
			return err
		}

		c, ok := findCard(cards, args[0])
		if !ok {
			return fmt.Errorf("card not found: %s", args[0])
		}

		store, closeStore := openProgress()
		defer closeStore()
		known := store.Load().Has(c.ID)

		asset, img := newFetcher().Fetch(context.Background(), c.ID, c.Item)
		art := newRenderer().Render(asset, img, c.Item.Style)

		answer, _ := cmd.Flags().GetBool("answer")
		fmt.Println()
		fmt.Print(sideBySide(art, cardInfo(c, asset, known, answer), "\n"))
		fmt.Println()
		return nil
	},
}

func init() {
	RootCmd.AddCommand(showCmd)

	showCmd.Flags().BoolP("answer", "a", false, "Show the answer face instead of the question")
}

// cardInfo returns the text shown next to a card's art
func cardInfo(c card.Card, asset artwork.Asset, known, answer bool) []string {
	var info []string

	info = append(info, colorize.CyanString("Karta: ")+colorize.HiWhiteString("%s", c.ID))
	info = append(info, colorize.CyanString("Typ:   ")+colorize.HiWhiteString("%s", c.Kind.Label()))
	if known {
		info = append(info, colorize.CyanString("Stan:  ")+colorize.GreenString("Znam"))
	} else {
		info = append(info, colorize.CyanString("Stan:  ")+colorize.YellowString("Do nauki"))
	}
	info = append(info, colorize.CyanString("Obraz: ")+colorize.HiBlackString("%s", asset.Stage.String()))
	info = append(info, "")

	if answer {
		info = append(info, colorize.CyanString("%s", c.Kind.Label()+":"))
		for _, line := range artwork.WrapText(c.Answer(), infoWidth()) {
			info = append(info, colorize.HiWhiteString("%s", line))
		}

		// The full description, as on the back of a paper card
		item := c.Item
		info = append(info, "")
		info = append(info, colorize.HiBlackString("%s, %s", item.Title, item.Author))
		if item.Year != "" {
			info = append(info, colorize.HiBlackString("%s (wiek %s)", item.Year, item.Century))
		} else {
			info = append(info, colorize.HiBlackString("wiek %s", item.Century))
		}
		info = append(info, colorize.HiBlackString("%s", item.Style))
		return info
	}

	for _, line := range artwork.WrapText(c.Prompt, infoWidth()) {
		info = append(info, colorize.HiWhiteString("%s", line))
	}
	return info
}
