package usecase

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"portfolio-site/internal/domain"
)

// realtimeKeywords mark questions that need current information from the web.
var realtimeKeywords = []string{"news", "weather", "current", "latest", "price", "today", "now"}

const contextHeader = "Current Internet Info: "

const quotaNoticeWithResults = "⚠️ **OpenAI Quota Exceeded**\n\nI couldn't generate a smart summary, but here is what I found on the web:\n\n"

const quotaNotice = "⚠️ **OpenAI API Quota Exceeded**\n\nPlease check your billing details at platform.openai.com. In the meantime, I can answer questions about the portfolio from my local memory."

// needsRealtime reports whether input asks for current information. Plain
// substring matching, so "now" also matches "know".
func needsRealtime(input string) bool {
	lower := strings.ToLower(input)
	for _, kw := range realtimeKeywords {
		if strings.Contains(lower, kw) {
			return true
		}
	}
	return false
}

// buildAugmentationContext renders search results as the block prepended to
// the system instruction. It is empty when there are no results.
func buildAugmentationContext(results []domain.SearchResult) string {
	if len(results) == 0 {
		return ""
	}
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(results); err != nil {
		return ""
	}
	return contextHeader + strings.TrimSuffix(buf.String(), "\n") + "\n\n"
}

func buildSystemInstruction(owner, augmentation string) string {
	instruction := fmt.Sprintf("You are %s's AI assistant. Answer accurately.", owner)
	if augmentation == "" {
		return instruction
	}
	return augmentation + instruction + " Use the provided Internet Info to answer the user's question."
}

func buildCompletionMessages(owner string, results []domain.SearchResult, message string) []domain.ChatMessage {
	return []domain.ChatMessage{
		{Role: domain.RoleSystem, Content: buildSystemInstruction(owner, buildAugmentationContext(results))},
		{Role: domain.RoleUser, Content: message},
	}
}

// formatSearchFallback lists search results as markdown bullets for when the
// model cannot summarize them.
func formatSearchFallback(results []domain.SearchResult) string {
	items := make([]string, 0, len(results))
	for _, r := range results {
		items = append(items, fmt.Sprintf("• **[%s](%s)**\n%s", r.Title, r.Link, r.Snippet))
	}
	return strings.Join(items, "\n\n")
}

func quotaFallback(results []domain.SearchResult) string {
	if len(results) == 0 {
		return quotaNotice
	}
	return quotaNoticeWithResults + formatSearchFallback(results)
}
