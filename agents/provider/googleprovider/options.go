/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package googleprovider

import (
	"fmt"
)

// Option is a functional option for configuring the provider
type Option func(*provider) error

// WithTemperature sets the temperature for generation
// Gemini models support temperature values from 0.0 to 2.0
func WithTemperature(temperature float32) Option {
	return func(p *provider) error {
		if temperature < 0.0 || temperature > 2.0 {
			return fmt.Errorf("temperature must be between 0.0 and 2.0, got %f", temperature)
		}
		p.temperature = &temperature
		return nil
	}
}
