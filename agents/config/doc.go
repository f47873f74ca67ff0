/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package config holds the run configuration and the ConfigurationError
// type. Settings are read from the environment with go-envconfig; the
// command line overrides the run-shaped ones.
package config
