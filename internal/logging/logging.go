// Package logging builds the zap logger shared by the CLI and the
// serde/env diagnostic consumers, grounded on the corpus's own
// zap.NewProduction()/zap.NewDevelopment() construction pattern.
package logging

import "go.uber.org/zap"

// New builds a production logger unless verbose is set, matching the
// corpus's cmd/*/main.go convention of picking NewProduction by default.
func New(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
