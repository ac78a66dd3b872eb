// Package catalog filters the projects and skills grids by category.
package catalog

import (
	"strings"
	"time"
)

// All is the filter that shows every item.
const All = "all"

const (
	ProjectStagger = 100 * time.Millisecond
	SkillStagger   = 50 * time.Millisecond
)

type Item struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
}

// Placement is an item's state after a filter is applied. Delay is the
// entrance animation offset and is zero for hidden items.
type Placement struct {
	Item    Item          `json:"item"`
	Visible bool          `json:"visible"`
	Delay   time.Duration `json:"delay"`
}

// Apply shows the items matching filter and hides the rest. A visible item's
// delay is its position in the full grid times stagger, so items keep their
// place in the entrance sequence regardless of what is hidden around them.
func Apply(items []Item, filter string, stagger time.Duration) []Placement {
	filter = strings.TrimSpace(filter)
	out := make([]Placement, len(items))
	for i, it := range items {
		out[i] = Placement{Item: it}
		if filter == All || it.Category == filter {
			out[i].Visible = true
			out[i].Delay = time.Duration(i) * stagger
		}
	}
	return out
}

// Visible returns the shown items in grid order.
func Visible(placements []Placement) []Item {
	var items []Item
	for _, p := range placements {
		if p.Visible {
			items = append(items, p.Item)
		}
	}
	return items
}

// Filters lists All followed by each distinct category in order of first
// appearance.
func Filters(items []Item) []string {
	seen := make(map[string]struct{}, len(items))
	filters := []string{All}
	for _, it := range items {
		if it.Category == "" {
			continue
		}
		if _, ok := seen[it.Category]; ok {
			continue
		}
		seen[it.Category] = struct{}{}
		filters = append(filters, it.Category)
	}
	return filters
}
