/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

// Package rubric renders the judge prompt from a rubric template.
//
// A rubric is plain text with two markers, {test_prompt} and
// {model_response}:
//
//	tmpl, err := rubric.Parse(text)
//	if err != nil {
//		return err
//	}
//	judgePrompt := tmpl.Render(prompt.Text, response)
//
// Rendering is a single literal pass over the rubric. Other braces in the
// rubric are left alone, and markers that happen to appear inside the test
// prompt or the model's response are not substituted.
package rubric
