package zendesk

import (
	"strings"

	"github.com/spec-kit/ticket-search/internal/domain"
)

const ticketTypeFilter = "type:ticket"

var phraseEscaper = strings.NewReplacer(`\`, `\\`, `"`, `\"`)

// BuildQuery renders search params into the remote search syntax.
// Token order is type filter, keyword, status; the remote relevance scoring depends on it.
func BuildQuery(params domain.SearchParams) string {
	parts := []string{ticketTypeFilter}

	if params.Keyword != "" {
		phrase := quotePhrase(params.Keyword)
		if params.SearchContent {
			parts = append(parts, phrase)
		} else {
			parts = append(parts, "subject:"+phrase)
		}
	}

	if params.Status != "" {
		parts = append(parts, "status:"+params.Status)
	}

	return strings.Join(parts, " ")
}

func quotePhrase(s string) string {
	return `"` + phraseEscaper.Replace(s) + `"`
}
