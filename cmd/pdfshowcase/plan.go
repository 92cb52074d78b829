package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/mattn/go-runewidth"

	"github.com/ivlev/pdfshowcase/internal/composer"
	"github.com/ivlev/pdfshowcase/internal/config"
	"github.com/ivlev/pdfshowcase/internal/timeline"
)

const maxTitleWidth = 40

// printPlan writes the compiled timeline as an aligned table. Titles may
// contain wide characters, so widths are measured in terminal cells.
func printPlan(w io.Writer, tl *timeline.Timeline, comp *composer.Composer, fps int) {
	header := []string{"#", "Сцена", "Начало", "Кадры", "Сек", "Стр.", "Заголовок"}
	rows := [][]string{header}
	for i, e := range tl.Entries {
		page, title := "", ""
		if e.Kind() != timeline.KindStack {
			page = strconv.Itoa(e.Item.Page())
			title = runewidth.Truncate(comp.Caption(e).Title, maxTitleWidth, "…")
		}
		if tl.IsEndingEntry(e) {
			title = "(финал)"
		}
		rows = append(rows, []string{
			strconv.Itoa(i + 1),
			e.Kind().String(),
			strconv.Itoa(e.Start),
			strconv.Itoa(e.Duration),
			fmt.Sprintf("%.1f", float64(e.Duration)/float64(fps)),
			page,
			title,
		})
	}

	widths := make([]int, len(header))
	for _, row := range rows {
		for c, cell := range row {
			widths[c] = max(widths[c], runewidth.StringWidth(cell))
		}
	}

	for r, row := range rows {
		cells := make([]string, len(row))
		for c, cell := range row {
			if c == len(row)-1 {
				cells[c] = cell
				continue
			}
			cells[c] = runewidth.FillRight(cell, widths[c])
		}
		fmt.Fprintln(w, strings.TrimRight(strings.Join(cells, "  "), " "))
		if r == 0 {
			fmt.Fprintln(w, strings.Repeat("-", sum(widths)+2*(len(widths)-1)))
		}
	}
	fmt.Fprintf(w, "Всего: %d кадров (%.1fs), акцентов: %d\n", comp.Total(), float64(comp.Total())/float64(fps), tl.Highlights)
}

// exportScript writes the scenes that would be rendered for sc.
func exportScript(sc *config.Showcase, path string) error {
	if err := sc.Validate(); err != nil {
		return err
	}
	return timeline.WriteScript(sc.Items(), path)
}

func sum(xs []int) int {
	n := 0
	for _, x := range xs {
		n += x
	}
	return n
}

// parsePages reads a comma separated list such as "3,5,7".
func parsePages(s string) ([]int, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	var pages []int
	for _, part := range strings.Split(s, ",") {
		n, err := strconv.Atoi(strings.TrimSpace(part))
		if err != nil {
			return nil, fmt.Errorf("неверный номер страницы %q", part)
		}
		pages = append(pages, n)
	}
	return pages, nil
}
