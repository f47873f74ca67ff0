/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package result

import (
	"encoding/json"
	"errors"
	"strings"
)

// ErrNoObject is returned by Extract when the response holds no JSON object.
var ErrNoObject = errors.New("no JSON object found in response")

// ExtractJSON pulls a JSON object out of a model response. It accepts a bare
// object, an object inside a ``` or ```json fence, and an object surrounded
// by prose. The result is the text between the first '{' and the last '}' of
// the candidate region, or "" when there is none.
func ExtractJSON(responseText string) string {
	text := unfence(strings.TrimSpace(responseText))

	start := strings.IndexByte(text, '{')
	end := strings.LastIndexByte(text, '}')
	if start < 0 || end < start {
		return ""
	}
	return text[start : end+1]
}

// unfence returns the body of the first fenced code block, or the input when
// there is no fence. An unterminated fence yields everything after it.
func unfence(text string) string {
	open := strings.Index(text, "```")
	if open < 0 {
		return text
	}
	body := text[open+3:]
	// Drop the info string (e.g. "json") up to the end of the line, unless
	// the block starts inline with the object.
	if nl := strings.IndexByte(body, '\n'); nl >= 0 && !strings.Contains(body[:nl], "{") {
		body = body[nl+1:]
	} else {
		body = strings.TrimPrefix(body, "json")
	}
	if end := strings.Index(body, "```"); end >= 0 {
		body = body[:end]
	}
	return strings.TrimSpace(body)
}

// Extract extracts JSON content from a text response and unmarshals it into the provided type.
func Extract[T any](responseText string) (T, error) {
	var result T

	jsonContent := ExtractJSON(responseText)
	if jsonContent == "" {
		return result, ErrNoObject
	}

	if err := json.Unmarshal([]byte(jsonContent), &result); err != nil {
		return result, err
	}

	return result, nil
}
