package main

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/lixenwraith/washaway/store"
)

func newHistoryCmd(a *app) *cobra.Command {
	var limit int
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List recent reveals",
		RunE: func(cmd *cobra.Command, _ []string) error {
			db, err := store.Open(cmd.Context(), a.cfg.Store.Path, store.WithLogger(a.log))
			if err != nil {
				return err
			}
			defer db.Close()

			reveals, err := db.History(cmd.Context(), limit)
			if err != nil {
				return err
			}
			printHistory(cmd.OutOrStdout(), reveals)
			return nil
		},
	}
	cmd.Flags().IntVarP(&limit, "limit", "n", 20, "maximum rows, 0 for all")
	return cmd
}

var (
	historyHeader = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#5C8AA8"))
	historyCell   = lipgloss.NewStyle().PaddingRight(2)
)

var historyWidths = []int{19, 8, 6, 9, 6, 9, 7}

func printHistory(w io.Writer, reveals []store.Reveal) {
	if len(reveals) == 0 {
		fmt.Fprintln(w, "no reveals recorded")
		return
	}
	row := func(style lipgloss.Style, cells ...string) {
		out := ""
		for i, c := range cells {
			out += historyCell.Width(historyWidths[i] + 2).Render(c)
		}
		fmt.Fprintln(w, style.Render(out))
	}
	row(historyHeader, "when", "song", "image", "coverage", "marks", "elapsed", "forced")
	for _, r := range reveals {
		forced := ""
		if r.Forced {
			forced = "yes"
		}
		row(lipgloss.NewStyle(),
			r.At.Local().Format(time.DateTime),
			r.Song,
			fmt.Sprint(r.Index+1),
			fmt.Sprintf("%.1f%%", r.Coverage*100),
			fmt.Sprint(r.Marks),
			r.Elapsed.Round(10*time.Millisecond).String(),
			forced,
		)
	}
}
