/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package promptset

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"strings"

	"chainguard.dev/promptjudge/agents/config"
	"chainguard.dev/promptjudge/agents/rubric"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
)

const (
	// PromptSetFile and RubricFile are the input names inside an input directory.
	PromptSetFile = "prompt_set.json"
	RubricFile    = "judge_prompt.txt"

	gcsScheme = "gs://"
)

// Loader reads prompt sets and rubrics from local paths or gs:// URIs.
type Loader struct {
	gcs *storage.Client
}

// NewLoader returns a Loader. The storage client is only needed for gs://
// URIs and may be nil otherwise.
func NewLoader(gcs *storage.Client) *Loader {
	return &Loader{gcs: gcs}
}

// Inputs holds everything a run reads before scheduling.
type Inputs struct {
	Prompts []Prompt
	Rubric  *rubric.Template
}

// Load reads <dir>/prompt_set.json and <dir>/judge_prompt.txt. Any missing
// or invalid input is a *config.ConfigurationError.
func (l *Loader) Load(ctx context.Context, dir string) (*Inputs, error) {
	prompts, err := l.Prompts(ctx, join(dir, PromptSetFile))
	if err != nil {
		return nil, err
	}
	tmpl, err := l.Rubric(ctx, join(dir, RubricFile))
	if err != nil {
		return nil, err
	}
	clog.FromContext(ctx).With("dir", dir).With("prompts", len(prompts)).Info("Loaded evaluation inputs")
	return &Inputs{Prompts: prompts, Rubric: tmpl}, nil
}

// Prompts reads and validates a prompt set.
func (l *Loader) Prompts(ctx context.Context, uri string) ([]Prompt, error) {
	rc, err := l.open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	prompts, err := Decode(rc)
	if err != nil {
		return nil, &config.ConfigurationError{Field: uri, Err: err}
	}
	return prompts, nil
}

// Rubric reads and parses a rubric template.
func (l *Loader) Rubric(ctx context.Context, uri string) (*rubric.Template, error) {
	rc, err := l.open(ctx, uri)
	if err != nil {
		return nil, err
	}
	defer rc.Close()

	text, err := io.ReadAll(rc)
	if err != nil {
		return nil, &config.ConfigurationError{Field: uri, Err: err}
	}
	tmpl, err := rubric.Parse(string(text))
	if err != nil {
		return nil, &config.ConfigurationError{Field: uri, Err: err}
	}
	return tmpl, nil
}

func (l *Loader) open(ctx context.Context, uri string) (io.ReadCloser, error) {
	if !strings.HasPrefix(uri, gcsScheme) {
		f, err := os.Open(uri)
		if errors.Is(err, fs.ErrNotExist) {
			return nil, config.Errorf(uri, "file not found")
		}
		if err != nil {
			return nil, &config.ConfigurationError{Field: uri, Err: err}
		}
		return f, nil
	}

	bucket, object, err := SplitGCS(uri)
	if err != nil {
		return nil, &config.ConfigurationError{Field: uri, Err: err}
	}
	if l.gcs == nil {
		return nil, config.Errorf(uri, "no storage client configured for gs:// inputs")
	}
	r, err := l.gcs.Bucket(bucket).Object(object).NewReader(ctx)
	if errors.Is(err, storage.ErrObjectNotExist) || errors.Is(err, storage.ErrBucketNotExist) {
		return nil, config.Errorf(uri, "object not found")
	}
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", uri, err)
	}
	return r, nil
}

// SplitGCS splits gs://bucket/object into its parts.
func SplitGCS(uri string) (bucket, object string, err error) {
	rest, ok := strings.CutPrefix(uri, gcsScheme)
	if !ok {
		return "", "", fmt.Errorf("%q is not a gs:// URI", uri)
	}
	bucket, object, _ = strings.Cut(rest, "/")
	if bucket == "" {
		return "", "", fmt.Errorf("%q has no bucket", uri)
	}
	return bucket, object, nil
}

func join(dir, name string) string {
	if strings.HasPrefix(dir, gcsScheme) {
		return gcsScheme + path.Join(strings.TrimPrefix(dir, gcsScheme), name)
	}
	return filepath.Join(dir, name)
}
