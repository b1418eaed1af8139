package summary

import (
	"fmt"
	"strings"
)

// buildPrompt assembles the summarization request from the user query and
// the finding bullet points.
func buildPrompt(query string, bullets []string) string {
	var sb strings.Builder

	sb.WriteString("Write a concise executive summary based on the following research findings. ")
	sb.WriteString("Highlight quantitative results and methodological notes when available.")
	fmt.Fprintf(&sb, "\n\nUser query: %s\n\nFindings:\n", query)
	for _, bullet := range bullets {
		fmt.Fprintf(&sb, "- %s\n", bullet)
	}

	return sb.String()
}
