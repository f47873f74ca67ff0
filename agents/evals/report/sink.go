/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package report

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path"
	"path/filepath"
	"strings"
	"time"

	"chainguard.dev/promptjudge/agents/executor/retry"
	"cloud.google.com/go/storage"
	"github.com/chainguard-dev/clog"
	"google.golang.org/api/googleapi"
)

// TimestampLayout formats the run timestamp in output names.
const TimestampLayout = "20060102_150405"

// Sink stores a named output and returns where it went.
type Sink interface {
	Put(ctx context.Context, name string, data []byte) (string, error)
}

// FileSink writes outputs into a local directory.
type FileSink struct {
	dir string
}

// NewFileSink returns a FileSink rooted at dir, which is created on first use.
func NewFileSink(dir string) *FileSink {
	return &FileSink{dir: dir}
}

// Put implements Sink.
func (s *FileSink) Put(_ context.Context, name string, data []byte) (string, error) {
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return "", fmt.Errorf("create output directory: %w", err)
	}
	p := filepath.Join(s.dir, name)
	if err := os.WriteFile(p, data, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", p, err)
	}
	return p, nil
}

// GCSSink uploads outputs into a bucket under a prefix.
type GCSSink struct {
	bucket string
	prefix string
	retry  retry.RetryConfig
	open   func(ctx context.Context, object string) io.WriteCloser
}

// NewGCSSink returns a GCSSink writing gs://bucket/prefix/<name>.
func NewGCSSink(client *storage.Client, bucket, prefix string) *GCSSink {
	return &GCSSink{
		bucket: bucket,
		prefix: strings.Trim(prefix, "/"),
		retry:  retry.DefaultRetryConfig(),
		open: func(ctx context.Context, object string) io.WriteCloser {
			w := client.Bucket(bucket).Object(object).NewWriter(ctx)
			w.ContentType = contentType(object)
			// Single request uploads; reports are small.
			w.ChunkSize = 0
			return w
		},
	}
}

// Put implements Sink. Transient upload failures are retried with backoff.
func (s *GCSSink) Put(ctx context.Context, name string, data []byte) (string, error) {
	object := path.Join(s.prefix, name)
	uri := fmt.Sprintf("gs://%s/%s", s.bucket, object)

	_, err := retry.RetryWithBackoff(ctx, s.retry, "upload "+uri, isRetryableUpload, func() (struct{}, error) {
		w := s.open(ctx, object)
		if _, err := io.Copy(w, bytes.NewReader(data)); err != nil {
			_ = w.Close()
			return struct{}{}, err
		}
		return struct{}{}, w.Close()
	})
	if err != nil {
		return "", err
	}
	return uri, nil
}

// isRetryableUpload retries rate limits, server errors and anything that is
// not an API error, such as a dropped connection.
func isRetryableUpload(err error) bool {
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) {
		return apiErr.Code == http.StatusTooManyRequests || apiErr.Code >= http.StatusInternalServerError
	}
	return true
}

func contentType(name string) string {
	switch path.Ext(name) {
	case ".json":
		return "application/json"
	case ".csv":
		return "text/csv"
	default:
		return "application/octet-stream"
	}
}

// Names returns the JSON and CSV output names for a run finished at ts.
func Names(prefix string, ts time.Time) (jsonName, csvName string) {
	base := prefix + "_" + ts.Format(TimestampLayout)
	return base + ".json", base + "_summary.csv"
}

// Publish renders the JSON report and the CSV summary and stores both in
// sink. It returns their locations, JSON first.
func Publish(ctx context.Context, sink Sink, prefix string, r *RunReport) ([]string, error) {
	jsonName, csvName := Names(prefix, r.Metadata.Timestamp)

	var jsonBuf, csvBuf bytes.Buffer
	if err := WriteJSON(&jsonBuf, r); err != nil {
		return nil, fmt.Errorf("render report: %w", err)
	}
	if err := WriteCSV(&csvBuf, r); err != nil {
		return nil, fmt.Errorf("render summary: %w", err)
	}

	var locations []string
	for _, out := range []struct {
		name string
		data []byte
	}{
		{jsonName, jsonBuf.Bytes()},
		{csvName, csvBuf.Bytes()},
	} {
		loc, err := sink.Put(ctx, out.name, out.data)
		if err != nil {
			return locations, fmt.Errorf("store %s: %w", out.name, err)
		}
		clog.FromContext(ctx).With("location", loc).Info("Saved output")
		locations = append(locations, loc)
	}
	return locations, nil
}
