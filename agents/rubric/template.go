/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package rubric

import (
	"fmt"
	"strings"
)

const (
	// TestPromptMarker is replaced by the prompt the test model answered.
	TestPromptMarker = "test_prompt"
	// ModelResponseMarker is replaced by the test model's answer.
	ModelResponseMarker = "model_response"
)

// Template is a parsed judge rubric. It is immutable and safe to share
// between goroutines.
type Template struct {
	text    string
	markers map[string]int
}

// MissingMarkerError reports a rubric without one of the required markers.
type MissingMarkerError struct {
	Marker string
}

func (e *MissingMarkerError) Error() string {
	return fmt.Sprintf("rubric is missing the {%s} marker", e.Marker)
}

// Parse scans a rubric and checks that both markers are present. Braces
// that do not form a marker, such as a JSON example in the rubric, are
// kept as literal text.
func Parse(text string) (*Template, error) {
	markers := make(map[string]int, 2)
	walkTemplate(text, func(name string) (string, bool) {
		if !isMarker(name) {
			return "", false
		}
		markers[name]++
		return "", true
	})

	for _, name := range []string{TestPromptMarker, ModelResponseMarker} {
		if markers[name] == 0 {
			return nil, &MissingMarkerError{Marker: name}
		}
	}
	return &Template{text: text, markers: markers}, nil
}

// MustParse is like Parse but panics on error.
func MustParse(text string) *Template {
	t, err := Parse(text)
	if err != nil {
		panic(err)
	}
	return t
}

// Render substitutes both markers in a single pass. Marker text that appears
// inside the substituted values is never expanded again.
func (t *Template) Render(testPrompt, modelResponse string) string {
	return walkTemplate(t.text, func(name string) (string, bool) {
		switch name {
		case TestPromptMarker:
			return testPrompt, true
		case ModelResponseMarker:
			return modelResponse, true
		default:
			return "", false
		}
	})
}

// Markers returns how many times each marker occurs.
func (t *Template) Markers() map[string]int {
	out := make(map[string]int, len(t.markers))
	for k, v := range t.markers {
		out[k] = v
	}
	return out
}

// String returns the unrendered rubric text.
func (t *Template) String() string {
	return t.text
}

func isMarker(name string) bool {
	return name == TestPromptMarker || name == ModelResponseMarker
}

// resolveFunc returns the replacement for a {name} placeholder, or false to
// leave the placeholder as literal text.
type resolveFunc func(name string) (string, bool)

// walkTemplate copies template to the output, replacing each {name}
// placeholder that resolve accepts.
func walkTemplate(template string, resolve resolveFunc) string {
	var result strings.Builder
	result.Grow(len(template))

	for len(template) > 0 {
		start := strings.IndexByte(template, '{')
		if start == -1 {
			result.WriteString(template)
			break
		}
		result.WriteString(template[:start])
		template = template[start:]

		end := strings.IndexByte(template, '}')
		if end == -1 {
			result.WriteString(template)
			break
		}

		name := template[1:end]
		if replacement, ok := resolve(name); ok && isIdentifier(name) {
			result.WriteString(replacement)
			template = template[end+1:]
			continue
		}

		// Not a placeholder: emit the brace and rescan after it, so "{{x}"
		// style nesting still finds the inner "{x}".
		result.WriteByte('{')
		template = template[1:]
	}

	return result.String()
}

// isIdentifier accepts lower-case letters, digits and underscores.
func isIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < '0' || r > '9') && r != '_' {
			return false
		}
	}
	return true
}
