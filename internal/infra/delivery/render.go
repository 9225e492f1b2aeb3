package delivery

import (
	"fmt"
	"strings"

	"follow-digest/internal/domain/entity"
)

const maxRenderedDescription = 200

// renderSubject builds the one-line summary used as the email subject and
// the webhook fallback text.
func renderSubject(digest *entity.Digest) string {
	return fmt.Sprintf("Your %s digest: %d new items from %d accounts",
		digest.Frequency, digest.ContentCount(), len(digest.Sections))
}

// renderText builds the plain-text digest body. Sections appear in digest
// order; accounts with nothing new are listed so the recipient knows they
// were checked.
func renderText(digest *entity.Digest) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s\n\n", renderSubject(digest))

	for _, section := range digest.Sections {
		fmt.Fprintf(&b, "== %s @%s ==\n", section.Platform, section.Username)
		if len(section.Contents) == 0 {
			b.WriteString("Nothing new this time.\n\n")
			continue
		}
		for _, item := range section.Contents {
			fmt.Fprintf(&b, "- %s\n  %s\n", item.Title, item.URL)
			if item.Description != "" {
				fmt.Fprintf(&b, "  %s\n", truncate(item.Description, maxRenderedDescription))
			}
		}
		b.WriteString("\n")
	}

	fmt.Fprintf(&b, "Generated at %s\n", digest.GeneratedAt.Format("2006-01-02 15:04 MST"))
	return b.String()
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
