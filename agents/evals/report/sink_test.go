/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"chainguard.dev/promptjudge/agents/executor/retry"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
)

func TestNames(t *testing.T) {
	jsonName, csvName := Names("evaluation_results", start)
	assert.Equal(t, "evaluation_results_20260314_093000.json", jsonName)
	assert.Equal(t, "evaluation_results_20260314_093000_summary.csv", csvName)
}

func TestFileSinkPublish(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "out")
	rep := testReport(90 * time.Second)

	locations, err := Publish(context.Background(), NewFileSink(dir), "evaluation_results", rep)
	require.NoError(t, err)

	want := []string{
		filepath.Join(dir, "evaluation_results_20260314_093130.json"),
		filepath.Join(dir, "evaluation_results_20260314_093130_summary.csv"),
	}
	if diff := cmp.Diff(want, locations); diff != "" {
		t.Errorf("locations (-want +got):\n%s", diff)
	}

	data, err := os.ReadFile(locations[0])
	require.NoError(t, err)
	assert.Contains(t, string(data), `"run_id": "run-1"`)

	data, err = os.ReadFile(locations[1])
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(data), "prompt_id,prompt,score,warning_present\n"))
}

// fakeWriter buffers an upload and fails Close with the next scripted error.
type fakeWriter struct {
	bytes.Buffer
	sink   *fakeBucket
	object string
}

func (w *fakeWriter) Close() error {
	return w.sink.commit(w.object, w.Bytes())
}

type fakeBucket struct {
	mu       sync.Mutex
	errs     []error
	attempts int
	objects  map[string]string
}

func (b *fakeBucket) commit(object string, data []byte) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.attempts++
	if len(b.errs) > 0 {
		err := b.errs[0]
		b.errs = b.errs[1:]
		return err
	}
	if b.objects == nil {
		b.objects = make(map[string]string)
	}
	b.objects[object] = string(data)
	return nil
}

func newTestGCSSink(bucket *fakeBucket, prefix string) *GCSSink {
	s := NewGCSSink(nil, "reports", prefix)
	s.retry = retry.RetryConfig{MaxRetries: 3, BaseBackoff: time.Millisecond, MaxBackoff: time.Millisecond}
	s.open = func(_ context.Context, object string) io.WriteCloser {
		return &fakeWriter{sink: bucket, object: object}
	}
	return s
}

func TestGCSSinkPut(t *testing.T) {
	bucket := &fakeBucket{errs: []error{
		&googleapi.Error{Code: 503, Message: "backend error"},
		errors.New("connection reset by peer"),
	}}
	s := newTestGCSSink(bucket, "/runs/2026/")

	loc, err := s.Put(context.Background(), "report.json", []byte(`{}`))
	require.NoError(t, err)

	assert.Equal(t, "gs://reports/runs/2026/report.json", loc)
	assert.Equal(t, 3, bucket.attempts)
	assert.Equal(t, map[string]string{"runs/2026/report.json": `{}`}, bucket.objects)
}

func TestGCSSinkPermanentError(t *testing.T) {
	bucket := &fakeBucket{errs: []error{&googleapi.Error{Code: 403, Message: "forbidden"}}}
	s := newTestGCSSink(bucket, "")

	_, err := s.Put(context.Background(), "report.json", []byte(`{}`))
	require.Error(t, err)
	assert.Equal(t, 1, bucket.attempts)
	assert.Empty(t, bucket.objects)
}

func TestGCSSinkPublish(t *testing.T) {
	bucket := &fakeBucket{}
	s := newTestGCSSink(bucket, "evals")

	locations, err := Publish(context.Background(), s, "evaluation_results", testReport(time.Second))
	require.NoError(t, err)

	assert.Equal(t, []string{
		"gs://reports/evals/evaluation_results_20260314_093001.json",
		"gs://reports/evals/evaluation_results_20260314_093001_summary.csv",
	}, locations)
	assert.Len(t, bucket.objects, 2)
}

func TestIsRetryableUpload(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"rate limited", &googleapi.Error{Code: 429}, true},
		{"server error", &googleapi.Error{Code: 500}, true},
		{"not found", &googleapi.Error{Code: 404}, false},
		{"canceled", context.Canceled, false},
		{"deadline", context.DeadlineExceeded, false},
		{"network", errors.New("unexpected EOF"), true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, isRetryableUpload(tt.err))
		})
	}
}

func TestContentType(t *testing.T) {
	assert.Equal(t, "application/json", contentType("a/b.json"))
	assert.Equal(t, "text/csv", contentType("b_summary.csv"))
	assert.Equal(t, "application/octet-stream", contentType("notes"))
}
