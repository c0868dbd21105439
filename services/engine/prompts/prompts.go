// Package prompts builds the generation prompts sent to the LLM backend.
//
// Every prompt repeats the JSON output rules because local models drift:
// double quotes only, time values as strings, \n instead of raw newlines.
package prompts

import (
	"fmt"
	"strings"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/engine/datatypes"
)

const jsonRules = `Return ONLY valid JSON.
Do NOT wrap in markdown.
End your response with the final closing brace } and nothing after it.

IMPORTANT JSON RULES:
- Use ONLY double quotes for all strings.
- Any time values MUST be strings, e.g. "7:30" not 7:30.
- For multiline text (description/script) use \n, do NOT place raw newlines inside the JSON string.`

const kitSchema = `{
  "topic": "string",
  "tone": "string",
  "language": "string",
  "hooks": ["string","string","string","string","string"],
  "titles": ["string","string","string","string","string"],
  "description": "string",
  "tags": ["string","string","string","string","string","string","string","string","string","string"],
  "thumbnail": { "text": "string", "prompt": "string" },
  "shorts": [
    { "title":"string", "script":"string" },
    { "title":"string", "script":"string" },
    { "title":"string", "script":"string" },
    { "title":"string", "script":"string" },
    { "title":"string", "script":"string" }
  ],
  "script": "string"
}`

// sectionRules keeps per-section output consistent across regenerations.
var sectionRules = map[string]string{
	"hooks":       "Generate 5 curiosity hooks. Each hook must be a full punchy sentence.",
	"titles":      "Generate 5 high-CTR YouTube titles. Curiosity + clarity, not spam.",
	"shorts":      "Generate 5 shorts. Each: title + 25-45 sec script. Hook in first line.",
	"thumbnail":   "Generate thumbnail object with text<=30 chars + cinematic image prompt.",
	"script":      "Generate a 6-8 min structured voiceover script (hook, buildup, payoff, CTA). If you use timestamps like 2:15, they MUST be strings like \"2:15\". For multiline text, use \\n.",
	"description": "Generate SEO-friendly YouTube description (2 paragraphs + CTA). Return as ONE JSON string using \\n for new lines.",
	"tags":        "Generate 10 tags as JSON array of 10 strings.",
}

// AllowedSections returns the regenerable section names.
func AllowedSections() []string {
	return []string{"hooks", "titles", "shorts", "thumbnail", "script", "description", "tags"}
}

// IsAllowedSection reports whether section can be regenerated on its own.
func IsAllowedSection(section string) bool {
	_, ok := sectionRules[section]
	return ok
}

// KitPrompt builds the full-kit generation prompt.
func KitPrompt(topic, tone, language string) string {
	return fmt.Sprintf(`You are a Creative Production Engine.

%s

Schema:
%s

Rules:
- hooks = 5 (full sentences, curiosity hooks)
- titles = 5 (high CTR)
- tags = 10
- shorts = 5 (25-45 sec scripts, hook first line)
- script = 6-8 min voiceover (structured)
- thumbnail.text <= 30 characters

Topic: %s
Tone: %s
Language: %s
`, jsonRules, kitSchema, topic, tone, language)
}

// SectionPrompt builds a single-section regeneration prompt. The existing
// hooks and titles are echoed so the model keeps the new section coherent
// with the rest of the kit.
func SectionPrompt(section string, kit datatypes.ProductionKit) string {
	rule := sectionRules[section]
	return fmt.Sprintf(`You are regenerating ONE section of an existing production kit.

%s

Topic: %s
Tone: %s
Language: %s

Keep consistent with existing kit:
Existing hooks: [%s]
Existing titles: [%s]

Task: %s

Return JSON EXACTLY:
{
  "section": "%s",
  "value": <value>
}
`, jsonRules, kit.Topic, kit.Tone, kit.Language,
		quoteJoin(kit.Hooks), quoteJoin(kit.Titles), rule, section)
}

func quoteJoin(items []string) string {
	quoted := make([]string, len(items))
	for i, s := range items {
		quoted[i] = fmt.Sprintf("%q", s)
	}
	return strings.Join(quoted, ", ")
}
