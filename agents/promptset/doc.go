/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package promptset loads the prompts and the judge rubric of a run.
//
// An input directory, local or gs://bucket/prefix, holds two files:
//
//	prompt_set.json   {"prompts": [{"id": "p1", "prompt": "...", "category": "...", "subcategory": "..."}]}
//	judge_prompt.txt  the rubric, with {test_prompt} and {model_response} markers
//
// Problems with either file are reported as *config.ConfigurationError so
// the run stops before any prompt is scheduled.
package promptset
