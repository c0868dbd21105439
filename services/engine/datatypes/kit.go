package datatypes

import (
	"time"

	"github.com/AnubhavBangari3/Creative-Production-Engine/services/recovery"
)

// Thumbnail is the overlay text plus the image-generation prompt.
type Thumbnail struct {
	Text   string `json:"text"`
	Prompt string `json:"prompt"`
}

// Short is a single short-form video idea.
type Short struct {
	Title  string `json:"title"`
	Script string `json:"script"`
}

// ProductionKit is the full content kit generated for one topic.
type ProductionKit struct {
	Topic       string    `json:"topic"`
	Tone        string    `json:"tone"`
	Language    string    `json:"language"`
	Hooks       []string  `json:"hooks"`
	Titles      []string  `json:"titles"`
	Description string    `json:"description"`
	Tags        []string  `json:"tags"`
	Thumbnail   Thumbnail `json:"thumbnail"`
	Shorts      []Short   `json:"shorts"`
	Script      string    `json:"script"`
}

// EmptyKit returns the safe kit shape. The frontend always receives this
// structure, even on validation or model failure.
func EmptyKit(topic, tone, language string) ProductionKit {
	if tone == "" {
		tone = "cinematic"
	}
	if language == "" {
		language = "English"
	}
	return ProductionKit{
		Topic:    topic,
		Tone:     tone,
		Language: language,
		Hooks:    []string{},
		Titles:   []string{},
		Tags:     []string{},
		Shorts:   []Short{},
	}
}

// StoredKit is a persisted kit with its identity and creation time.
type StoredKit struct {
	ID        string        `json:"id"`
	Topic     string        `json:"topic"`
	Tone      string        `json:"tone"`
	Language  string        `json:"language"`
	CreatedAt time.Time     `json:"created_at"`
	Kit       ProductionKit `json:"kit"`
}

// KitSummary is the history-sidebar view of a stored kit.
type KitSummary struct {
	ID        string    `json:"id"`
	Topic     string    `json:"topic"`
	Tone      string    `json:"tone"`
	Language  string    `json:"language"`
	CreatedAt time.Time `json:"created_at"`
}

// Summary strips the kit body for list responses.
func (s StoredKit) Summary() KitSummary {
	return KitSummary{
		ID:        s.ID,
		Topic:     s.Topic,
		Tone:      s.Tone,
		Language:  s.Language,
		CreatedAt: s.CreatedAt,
	}
}

type GenerateKitRequest struct {
	Topic    string `json:"topic" binding:"required"`
	Tone     string `json:"tone"`
	Language string `json:"language"`
}

type RegenerateSectionRequest struct {
	Section string        `json:"section" binding:"required,oneof=hooks titles shorts thumbnail script description tags"`
	Kit     ProductionKit `json:"kit"`
}

// MergeParsed folds a recovered document into the kit shape.
//
// # Description
//
// Wrong-typed fields never reach the caller: a field that is not the
// expected kind keeps the empty-kit default, so the frontend cannot
// crash on a shapeshifted model reply.
//
// # Inputs
//
//   - kit: The safe base shape, mutated in place.
//   - doc: The recovered document. Non-object docs are ignored.
func MergeParsed(kit *ProductionKit, doc *recovery.Value) {
	if doc == nil || doc.Kind() != recovery.KindObject {
		return
	}
	if v, ok := doc.Get("topic"); ok && v.Kind() == recovery.KindString && v.Str() != "" {
		kit.Topic = v.Str()
	}
	if v, ok := doc.Get("tone"); ok && v.Kind() == recovery.KindString && v.Str() != "" {
		kit.Tone = v.Str()
	}
	if v, ok := doc.Get("language"); ok && v.Kind() == recovery.KindString && v.Str() != "" {
		kit.Language = v.Str()
	}
	if v, ok := doc.Get("hooks"); ok {
		kit.Hooks = stringSlice(v)
	}
	if v, ok := doc.Get("titles"); ok {
		kit.Titles = stringSlice(v)
	}
	if v, ok := doc.Get("description"); ok && v.Kind() == recovery.KindString {
		kit.Description = v.Str()
	}
	if v, ok := doc.Get("tags"); ok {
		kit.Tags = stringSlice(v)
	}
	if v, ok := doc.Get("thumbnail"); ok && v.Kind() == recovery.KindObject {
		if t, ok := v.Get("text"); ok && t.Kind() == recovery.KindString {
			kit.Thumbnail.Text = t.Str()
		}
		if p, ok := v.Get("prompt"); ok && p.Kind() == recovery.KindString {
			kit.Thumbnail.Prompt = p.Str()
		}
	}
	if v, ok := doc.Get("shorts"); ok && v.Kind() == recovery.KindArray {
		for _, item := range v.Items() {
			if item.Kind() != recovery.KindObject {
				continue
			}
			var short Short
			if t, ok := item.Get("title"); ok && t.Kind() == recovery.KindString {
				short.Title = t.Str()
			}
			if s, ok := item.Get("script"); ok && s.Kind() == recovery.KindString {
				short.Script = s.Str()
			}
			kit.Shorts = append(kit.Shorts, short)
		}
	}
	if v, ok := doc.Get("script"); ok && v.Kind() == recovery.KindString {
		kit.Script = v.Str()
	}
}

// stringSlice flattens a recovered array into its string elements.
// Non-array values and non-string elements are dropped.
func stringSlice(v *recovery.Value) []string {
	if v.Kind() != recovery.KindArray {
		return []string{}
	}
	out := make([]string, 0, v.Len())
	for _, item := range v.Items() {
		if item.Kind() == recovery.KindString {
			out = append(out, item.Str())
		}
	}
	return out
}
