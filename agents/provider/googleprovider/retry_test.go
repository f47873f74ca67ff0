/*
Copyright 2026 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleprovider

import (
	"errors"
	"testing"

	"chainguard.dev/promptjudge/agents/model"
	"google.golang.org/genai"
)

func TestClassify(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		err       error
		permanent bool
	}{{
		name:      "resource exhausted",
		err:       errors.New("Error 429, Message: Resource exhausted, Status: RESOURCE_EXHAUSTED"),
		permanent: false,
	}, {
		name:      "service unavailable",
		err:       errors.New("Error 503, Message: Overloaded, Status: UNAVAILABLE"),
		permanent: false,
	}, {
		name:      "invalid argument",
		err:       errors.New("Error 400, Message: bad schema, Status: INVALID_ARGUMENT"),
		permanent: true,
	}, {
		name:      "bad key",
		err:       errors.New("Error 400, Message: API key not valid. Please pass a valid API key."),
		permanent: true,
	}, {
		name:      "network failure",
		err:       errors.New("dial tcp: connection refused"),
		permanent: false,
	}}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			if got := model.IsPermanent(classify(tt.err)); got != tt.permanent {
				t.Errorf("IsPermanent(classify(%v)) = %v, wanted = %v", tt.err, got, tt.permanent)
			}
		})
	}

	if classify(nil) != nil {
		t.Error("classify(nil) should be nil")
	}
}

func TestFinishReason(t *testing.T) {
	t.Parallel()

	tests := map[genai.FinishReason]model.FinishReason{
		genai.FinishReasonMaxTokens:  model.FinishLength,
		genai.FinishReasonStop:       model.FinishStop,
		genai.FinishReasonSafety:     model.FinishOther,
		genai.FinishReasonRecitation: model.FinishOther,
	}
	for in, want := range tests {
		if got := finishReason(in); got != want {
			t.Errorf("finishReason(%q) = %q, wanted = %q", in, got, want)
		}
	}
}
