package timeline

import "fmt"

// PagePolicy decides whether explicit pages or pages named by a custom script win.
type PagePolicy string

const (
	// PreferExplicit: pages > script pages > highlights > all pages.
	PreferExplicit PagePolicy = "explicit-first"
	// PreferScript: script pages > pages > highlights > all pages.
	PreferScript PagePolicy = "script-first"
)

// ParsePagePolicy accepts "" as PreferExplicit.
func ParsePagePolicy(s string) (PagePolicy, error) {
	switch PagePolicy(s) {
	case "", PreferExplicit:
		return PreferExplicit, nil
	case PreferScript:
		return PreferScript, nil
	}
	return "", fmt.Errorf("unknown page policy %q", s)
}

// DefaultPageCount is assumed when the document reports no pages.
const DefaultPageCount = 10

// PageSource is the input to ResolvePages.
type PageSource struct {
	Pages      []int
	Script     []Item
	Highlights []int
	// Total is the page count discovered from the document.
	Total int
}

// ResolvePages picks the ordered page set shown in the stack and fan scenes.
func ResolvePages(policy PagePolicy, src PageSource) []int {
	scripted := ScriptPages(src.Script)

	order := [][]int{src.Pages, scripted}
	if policy == PreferScript {
		order = [][]int{scripted, src.Pages}
	}
	order = append(order, src.Highlights)

	for _, candidate := range order {
		if len(candidate) > 0 {
			return append([]int(nil), candidate...)
		}
	}

	total := src.Total
	if total <= 0 {
		total = DefaultPageCount
	}
	all := make([]int, total)
	for i := range all {
		all[i] = i + 1
	}
	return all
}

// ScriptPages lists the distinct pages a script references, in order of first use.
func ScriptPages(items []Item) []int {
	seen := make(map[int]bool)
	var pages []int
	for _, it := range items {
		p := it.Page()
		if p <= 0 || seen[p] {
			continue
		}
		seen[p] = true
		pages = append(pages, p)
	}
	return pages
}
