// Package analysis is the boundary to the AI model. It turns extracted
// document text into a normalized set of findings and isolates the rest of
// the system from the model's loosely structured output.
package analysis

import (
	"context"

	api "github.com/tenderdesk/rfp-analyzer/api/v1alpha1"
)

// Analyzer produces findings from extracted document text. The pipeline
// treats it as a black box; the OpenAI client is the production
// implementation and tests substitute a static one.
type Analyzer interface {
	Analyze(ctx context.Context, documentName, text string) (*api.Analysis, error)
}

// StaticAnalyzer returns a fixed analysis. Used in tests and local runs
// without an API key.
type StaticAnalyzer struct {
	Result *api.Analysis
	Err    error
}

var _ Analyzer = (*StaticAnalyzer)(nil)

func (s *StaticAnalyzer) Analyze(_ context.Context, _, _ string) (*api.Analysis, error) {
	if s.Err != nil {
		return nil, s.Err
	}
	if s.Result != nil {
		return s.Result, nil
	}
	return &api.Analysis{}, nil
}
