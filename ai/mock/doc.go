// Package mock provides test double implementations of the AI service
// interfaces.
//
// The mocks allow tests to run without remote AI services and enable
// controlled, deterministic behavior via function-field injection:
//
//	analyzer := mock.NewMockAnalyzer()
//	analyzer.AnalyzeDocumentFunc = func(ctx context.Context, text string) ai.Analysis {
//	    return ai.DegradedAnalysis("simulated outage")
//	}
//
// Default behavior without injected functions:
//
//   - MockAnalyzer: returns plausible non-degraded values
//   - MockEmbedder: returns deterministic vectors based on text hash
//   - MockProvider: aggregates mock analyzer and embedder
package mock
