/*
Copyright 2025 Chainguard, Inc.
SPDX-License-Identifier: Apache-2.0
*/

package claudeprovider

import "fmt"

// Option is a functional option for configuring the provider
type Option func(*provider) error

// WithTemperature sets the temperature for responses
// Claude models support temperature values from 0.0 to 1.0
func WithTemperature(temp float64) Option {
	return func(p *provider) error {
		if temp < 0.0 || temp > 1.0 {
			return fmt.Errorf("temperature must be between 0.0 and 1.0, got %f", temp)
		}
		p.temperature = &temp
		return nil
	}
}
