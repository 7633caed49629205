package indexer

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"sort"
	"strings"
)

// labelKeys are probed in priority order on mapping entries to derive a topic.
var labelKeys = []string{"title", "company", "name", "question", "label", "role"}

var slugPattern = regexp.MustCompile(`[^a-zA-Z0-9]+`)

// ExtractDocuments walks a parsed JSON value and yields one Document per
// logical unit it contains:
//
//   - a list yields one document per element, with the topic guessed from the
//     element's label-like keys (falling back to "<source>-<n>");
//   - a mapping yields one document per key, in sorted key order (ids derive
//     from the key itself, so ordering only affects log determinism);
//   - anything else yields a single document covering the whole value.
func ExtractDocuments(source string, payload any) []Document {
	switch value := payload.(type) {
	case []any:
		docs := make([]Document, 0, len(value))
		for i, entry := range value {
			topic := guessLabel(entry)
			if topic == "" {
				topic = fmt.Sprintf("%s-%d", source, i+1)
			}
			docs = append(docs, composeDocument(source, topic, entry))
		}
		return docs

	case map[string]any:
		keys := make([]string, 0, len(value))
		for key := range value {
			keys = append(keys, key)
		}
		sort.Strings(keys)

		docs := make([]Document, 0, len(keys))
		for _, key := range keys {
			docs = append(docs, composeDocument(source, key, value[key]))
		}
		return docs

	default:
		return []Document{{
			BaseID: source + "-all",
			Topic:  source,
			Text:   fmt.Sprintf("Source: %s\n\n%v", source, payload),
		}}
	}
}

func composeDocument(source, topic string, entry any) Document {
	body := renderBody(entry)
	text := strings.TrimSpace(fmt.Sprintf("Source: %s\nTopic: %s\n\n%s", source, topic, body))
	return Document{
		BaseID: fmt.Sprintf("%s-%s", source, slugify(topic)),
		Topic:  topic,
		Text:   text,
	}
}

// guessLabel probes the label keys on a mapping entry and returns the first
// non-empty string value, or "" when the entry is not a mapping or no probe
// matches.
func guessLabel(entry any) string {
	m, ok := entry.(map[string]any)
	if !ok {
		return ""
	}
	for _, key := range labelKeys {
		if value, ok := m[key].(string); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}

// renderBody turns a JSON value into the chunkable text form: structured
// values are pretty-printed, strings pass through, everything else uses its
// plain form.
func renderBody(entry any) string {
	switch value := entry.(type) {
	case map[string]any, []any:
		var buf bytes.Buffer
		enc := json.NewEncoder(&buf)
		enc.SetEscapeHTML(false)
		enc.SetIndent("", "  ")
		if err := enc.Encode(value); err != nil {
			return fmt.Sprintf("%v", value)
		}
		// Encode appends a trailing newline.
		return strings.TrimRight(buf.String(), "\n")
	case string:
		return value
	default:
		return fmt.Sprintf("%v", value)
	}
}

// slugify lower-cases the value, collapses non-alphanumeric runs to single
// hyphens, and strips leading/trailing hyphens. An empty result becomes the
// literal "entry".
func slugify(value string) string {
	slug := strings.ToLower(strings.Trim(slugPattern.ReplaceAllString(value, "-"), "-"))
	if slug == "" {
		return "entry"
	}
	return slug
}
