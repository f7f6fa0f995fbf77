package gdd

import (
	"encoding/json"
	"fmt"
	"strings"
)

// ExtractJSON isolates the JSON payload inside raw model output. Models wrap
// documents in markdown fences (with or without a language tag) and sometimes
// surround the fenced block with prose, so extraction must handle:
//   - raw JSON
//   - ```json ... ``` and ``` ... ``` blocks
//   - leading/trailing prose around the fenced block
//   - prose followed by a bare { or [ payload
func ExtractJSON(raw string) (string, error) {
	text := strings.TrimSpace(raw)
	if text == "" {
		return "", fmt.Errorf("empty response")
	}

	// Fenced blocks take priority: use the first one whose body is JSON.
	segments := strings.Split(text, "```")
	for i := 1; i < len(segments); i += 2 {
		body := segments[i]
		// Drop a language tag such as "json" on the opening fence line.
		if nl := strings.IndexByte(body, '\n'); nl >= 0 {
			first := strings.TrimSpace(body[:nl])
			if first != "" && !strings.HasPrefix(first, "{") && !strings.HasPrefix(first, "[") {
				body = body[nl+1:]
			}
		}
		body = strings.TrimSpace(body)
		if strings.HasPrefix(body, "{") || strings.HasPrefix(body, "[") {
			return body, nil
		}
	}

	if strings.HasPrefix(text, "{") || strings.HasPrefix(text, "[") {
		return text, nil
	}

	// Prose before a bare JSON payload: cut at the first opening bracket.
	obj := strings.IndexByte(text, '{')
	arr := strings.IndexByte(text, '[')
	start := obj
	if start < 0 || (arr >= 0 && arr < start) {
		start = arr
	}
	if start < 0 {
		return "", fmt.Errorf("no JSON payload found in response")
	}
	return strings.TrimSpace(text[start:]), nil
}

// ParseDocument extracts, decodes and validates a Document from raw model
// output. Any failure here is a candidate for re-generation, not a hard stop.
func ParseDocument(raw string) (*Document, error) {
	payload, err := ExtractJSON(raw)
	if err != nil {
		return nil, err
	}

	var doc Document
	if err := json.Unmarshal([]byte(payload), &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON in model response: %w", err)
	}
	if err := doc.Validate(); err != nil {
		return nil, fmt.Errorf("document failed validation: %w", err)
	}
	if doc.SchemaVersion == "" {
		doc.SchemaVersion = "1.0"
	}
	if doc.GeneratedAt == "" {
		doc.GeneratedAt = nowUTC()
	}
	return &doc, nil
}
