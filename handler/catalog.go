package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/aws/aws-lambda-go/events"
	"go.uber.org/zap"

	"portfolio-site/internal/catalog"
)

// Option configures a Handler.
type Option func(*Handler)

// WithCatalog replaces the projects and skills grids.
func WithCatalog(projects, skills []catalog.Item) Option {
	return func(h *Handler) {
		h.projects = projects
		h.skills = skills
	}
}

type gridItem struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Category string `json:"category"`
	Visible  bool   `json:"visible"`
	DelayMS  int64  `json:"delayMs"`
}

type gridResponse struct {
	Filter  string     `json:"filter"`
	Filters []string   `json:"filters"`
	Items   []gridItem `json:"items"`
}

// grid applies the filter query parameter to items. A missing filter shows
// everything; a filter naming no category is rejected.
func grid(logger *zap.Logger, req events.APIGatewayProxyRequest, items []catalog.Item, stagger time.Duration) events.APIGatewayProxyResponse {
	filter := strings.ToLower(strings.TrimSpace(req.QueryStringParameters["filter"]))
	if filter == "" {
		filter = catalog.All
	}
	filters := catalog.Filters(items)
	if !contains(filters, filter) {
		return invalidQuery(logger, "filter")
	}

	out := gridResponse{Filter: filter, Filters: filters, Items: make([]gridItem, 0, len(items))}
	for _, p := range catalog.Apply(items, filter, stagger) {
		out.Items = append(out.Items, gridItem{
			ID:       p.Item.ID,
			Title:    p.Item.Title,
			Category: p.Item.Category,
			Visible:  p.Visible,
			DelayMS:  p.Delay.Milliseconds(),
		})
	}
	return jsonResponse(http.StatusOK, out)
}

func contains(values []string, v string) bool {
	for _, s := range values {
		if s == v {
			return true
		}
	}
	return false
}
