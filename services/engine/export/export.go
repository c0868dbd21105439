// Package export renders a production kit into the plain-text bundle a
// creator can paste straight into their publishing workflow.
package export

import (
	"fmt"
	"strings"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
)

func banner(title string) string {
	return fmt.Sprintf("\n\n====================\n%s\n====================\n", title)
}

// RenderBundle renders the kit as a banner-delimited text document:
// header, hooks, titles, description, tags, thumbnail, shorts, and the
// long script, in that order.
func RenderBundle(kit datatypes.ProductionKit) string {
	var b strings.Builder

	b.WriteString(banner("CREATIVE PRODUCTION KIT"))
	fmt.Fprintf(&b, "TOPIC: %s\n", kit.Topic)
	fmt.Fprintf(&b, "TONE: %s\n", kit.Tone)
	fmt.Fprintf(&b, "LANGUAGE: %s\n", kit.Language)

	b.WriteString(banner("HOOKS"))
	for _, h := range kit.Hooks {
		fmt.Fprintf(&b, "- %s\n", h)
	}

	b.WriteString(banner("TITLES"))
	for _, t := range kit.Titles {
		fmt.Fprintf(&b, "- %s\n", t)
	}

	b.WriteString(banner("DESCRIPTION"))
	fmt.Fprintf(&b, "%s\n", kit.Description)

	b.WriteString(banner("TAGS"))
	b.WriteString(strings.Join(kit.Tags, ", ") + "\n")

	b.WriteString(banner("THUMBNAIL"))
	fmt.Fprintf(&b, "Text: %s\n", kit.Thumbnail.Text)
	fmt.Fprintf(&b, "Prompt: %s\n", kit.Thumbnail.Prompt)

	b.WriteString(banner("SHORTS"))
	for _, s := range kit.Shorts {
		fmt.Fprintf(&b, "\nTitle: %s\n", s.Title)
		fmt.Fprintf(&b, "Script: %s\n", s.Script)
	}

	b.WriteString(banner("LONG SCRIPT"))
	fmt.Fprintf(&b, "%s\n", kit.Script)

	return b.String()
}

// AttachmentFilename builds a download-safe filename from the topic:
// at most 30 topic characters, alphanumerics plus space/underscore/dash,
// spaces collapsed to underscores, with a "_kit.txt" suffix.
func AttachmentFilename(topic string) string {
	if topic == "" {
		topic = "Untitled"
	}
	if len(topic) > 30 {
		topic = topic[:30]
	}
	var b strings.Builder
	for _, r := range topic {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			b.WriteRune(r)
		case r == ' ', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	safe := strings.TrimSpace(b.String())
	safe = strings.ReplaceAll(safe, " ", "_")
	return safe + "_kit.txt"
}
