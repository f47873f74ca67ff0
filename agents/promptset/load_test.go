/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptset

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"chainguard.dev/promptjudge/agents/config"
	"github.com/stretchr/testify/require"
)

const testRubric = "Prompt: {test_prompt}\nResponse: {model_response}\nReply with JSON."

func writeInputs(t *testing.T, promptSet, rubricText string) string {
	t.Helper()
	dir := t.TempDir()
	if promptSet != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, PromptSetFile), []byte(promptSet), 0o600))
	}
	if rubricText != "" {
		require.NoError(t, os.WriteFile(filepath.Join(dir, RubricFile), []byte(rubricText), 0o600))
	}
	return dir
}

func TestLoaderLoad(t *testing.T) {
	t.Parallel()

	dir := writeInputs(t, `{"prompts": [{"id": "p1", "prompt": "hello"}]}`, testRubric)
	in, err := NewLoader(nil).Load(context.Background(), dir)
	require.NoError(t, err)

	if len(in.Prompts) != 1 || in.Prompts[0].ID != "p1" {
		t.Errorf("Prompts = %+v, wanted one prompt p1", in.Prompts)
	}
	if got, want := in.Rubric.Render("hi", "yo"), "Prompt: hi\nResponse: yo\nReply with JSON."; got != want {
		t.Errorf("Render() = %q, wanted = %q", got, want)
	}
}

func TestLoaderLoadErrors(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		promptSet string
		rubric    string
		wantField string
	}{{
		name:      "missing prompt set",
		rubric:    testRubric,
		wantField: PromptSetFile,
	}, {
		name:      "missing rubric",
		promptSet: `{"prompts": [{"id": "p1", "prompt": "hello"}]}`,
		wantField: RubricFile,
	}, {
		name:      "invalid prompt set",
		promptSet: `{"prompts": [{"id": "p1"}]}`,
		rubric:    testRubric,
		wantField: PromptSetFile,
	}, {
		name:      "rubric without markers",
		promptSet: `{"prompts": [{"id": "p1", "prompt": "hello"}]}`,
		rubric:    "Grade the answer.",
		wantField: RubricFile,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			dir := writeInputs(t, tt.promptSet, tt.rubric)
			_, err := NewLoader(nil).Load(context.Background(), dir)

			var ce *config.ConfigurationError
			if !errors.As(err, &ce) {
				t.Fatalf("Load() error = %v, wanted ConfigurationError", err)
			}
			if got, want := ce.Field, filepath.Join(dir, tt.wantField); got != want {
				t.Errorf("Field = %q, wanted = %q", got, want)
			}
		})
	}
}

func TestLoaderGCSWithoutClient(t *testing.T) {
	t.Parallel()

	_, err := NewLoader(nil).Prompts(context.Background(), "gs://bucket/inputs/prompt_set.json")
	var ce *config.ConfigurationError
	if !errors.As(err, &ce) {
		t.Fatalf("Prompts() error = %v, wanted ConfigurationError", err)
	}
}

func TestSplitGCS(t *testing.T) {
	t.Parallel()

	tests := []struct {
		uri            string
		bucket, object string
		wantErr        bool
	}{{
		uri:    "gs://evals/biometric/prompt_set.json",
		bucket: "evals",
		object: "biometric/prompt_set.json",
	}, {
		uri:    "gs://evals",
		bucket: "evals",
	}, {
		uri:     "gs:///object",
		wantErr: true,
	}, {
		uri:     "/local/path",
		wantErr: true,
	}}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			t.Parallel()

			bucket, object, err := SplitGCS(tt.uri)
			if (err != nil) != tt.wantErr {
				t.Fatalf("SplitGCS() error = %v, wantErr %v", err, tt.wantErr)
			}
			if bucket != tt.bucket || object != tt.object {
				t.Errorf("SplitGCS() = (%q, %q), wanted = (%q, %q)", bucket, object, tt.bucket, tt.object)
			}
		})
	}
}

func TestJoin(t *testing.T) {
	t.Parallel()

	if got, want := join("gs://evals/biometric/", PromptSetFile), "gs://evals/biometric/prompt_set.json"; got != want {
		t.Errorf("join() = %q, wanted = %q", got, want)
	}
	if got, want := join("inputs", RubricFile), filepath.Join("inputs", RubricFile); got != want {
		t.Errorf("join() = %q, wanted = %q", got, want)
	}
}
