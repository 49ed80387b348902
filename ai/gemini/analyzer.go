// Copyright 2025 Xentro Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/schema"
	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/core"
)

// Analyzer implements ai.Analyzer over a langchaingo chat model.
//
// All methods degrade instead of failing: remote errors and malformed
// replies become sentinel result values, never returned errors.
type Analyzer struct {
	client llms.Model
	logger *slog.Logger
}

// newAnalyzer is an internal constructor that returns the concrete type.
// Used by Provider to manage the instance.
func newAnalyzer(client llms.Model) *Analyzer {
	return &Analyzer{
		client: client,
		logger: slog.Default().With("component", "gemini-analyzer"),
	}
}

// NewAnalyzer creates an analyzer over an existing langchaingo model.
//
// Returns ai.Analyzer interface to enforce abstraction.
func NewAnalyzer(client llms.Model) ai.Analyzer {
	return newAnalyzer(client)
}

// generate sends a single-turn prompt and returns the raw reply text.
func (a *Analyzer) generate(ctx context.Context, prompt string, opts ...llms.CallOption) (string, error) {
	content := []llms.MessageContent{
		{
			Role: schema.ChatMessageTypeHuman,
			Parts: []llms.ContentPart{
				llms.TextPart(prompt),
			},
		},
	}

	opts = append([]llms.CallOption{llms.WithTemperature(0.0)}, opts...)
	response, err := a.client.GenerateContent(ctx, content, opts...)
	if err != nil {
		return "", err
	}
	if len(response.Choices) < 1 {
		return "", fmt.Errorf("no choices returned from model")
	}
	return response.Choices[0].Content, nil
}

// generateJSON sends a prompt expecting a single JSON object reply and
// decodes it into out. Markdown code fences are stripped and common
// JSON damage repaired before decoding. Tries up to 3 times on
// malformed JSON; remote errors are not retried.
func (a *Analyzer) generateJSON(ctx context.Context, prompt string, out any) error {
	var lastErr error
	for attempt := 0; attempt < 3; attempt++ {
		reply, err := a.generate(ctx, prompt, llms.WithJSONMode())
		if err != nil {
			a.logger.Error("failed to generate content", "attempt", attempt+1, "err", err)
			return err
		}

		cleaned := repairJSON(stripFences(reply))
		if err := json.Unmarshal([]byte(cleaned), out); err != nil {
			lastErr = err
			a.logger.Warn("error parsing model reply",
				"attempt", attempt+1,
				"reply", cleaned,
				"err", err)
			continue
		}
		return nil
	}
	a.logger.Error("failed to parse model reply after retries", "err", lastErr)
	return lastErr
}

// AnalyzeDocument classifies the document and extracts structured fields.
// Input is truncated to the analysis ceiling before being sent.
func (a *Analyzer) AnalyzeDocument(ctx context.Context, text string) ai.Analysis {
	prompt := buildAnalyzePrompt(truncate(text, analyzeInputLimit))

	result := ai.Analysis{}
	if err := a.generateJSON(ctx, prompt, &result); err != nil {
		return ai.DegradedAnalysis(err.Error())
	}
	return result
}

// VerifyMath runs the arithmetic audit over the document text. The text
// is whitespace-collapsed first so columnar extraction artifacts don't
// separate labels from their figures.
func (a *Analyzer) VerifyMath(ctx context.Context, text string) ai.MathAudit {
	clean := collapseWhitespace(text)
	prompt := fmt.Sprintf(mathPromptTemplate, truncate(clean, mathInputLimit))

	var audit ai.MathAudit
	if err := a.generateJSON(ctx, prompt, &audit); err != nil {
		return ai.DegradedMathAudit(err.Error())
	}
	return audit
}

// AuditDocument assesses the document against the vendor's history.
func (a *Analyzer) AuditDocument(ctx context.Context, text string, history []core.VendorHistoryEntry) ai.RiskAudit {
	prompt := fmt.Sprintf(auditPromptTemplate,
		truncate(text, auditInputLimit),
		truncate(renderHistory(history), auditHistoryInputLimit))

	var audit ai.RiskAudit
	if err := a.generateJSON(ctx, prompt, &audit); err != nil {
		return ai.DegradedRiskAudit(err.Error())
	}
	return audit
}

// Redact replaces personal identifiers in the structured data with
// sentinel tokens, preserving business fields.
func (a *Analyzer) Redact(ctx context.Context, data map[string]any) map[string]any {
	encoded, err := json.Marshal(data)
	if err != nil {
		return map[string]any{"error": "Redaction failed: " + err.Error()}
	}
	prompt := fmt.Sprintf(redactPromptTemplate, string(encoded))

	redacted := map[string]any{}
	if err := a.generateJSON(ctx, prompt, &redacted); err != nil {
		return map[string]any{"error": "Redaction failed: " + err.Error()}
	}
	return redacted
}

// Chat answers a question strictly from the supplied context text.
func (a *Analyzer) Chat(ctx context.Context, contextText, question string) string {
	prompt := fmt.Sprintf(chatPromptTemplate, contextText, question)

	reply, err := a.generate(ctx, prompt)
	if err != nil {
		return "Error generating answer: " + err.Error()
	}
	return collapseEdges(reply)
}

// renderHistory flattens vendor history entries into the textual form
// the audit prompt consumes.
func renderHistory(history []core.VendorHistoryEntry) string {
	if len(history) == 0 {
		return "(no history)"
	}
	out := make([]byte, 0, 64*len(history))
	for _, h := range history {
		out = fmt.Appendf(out, "- %s | %s | %s | %s\n", h.Date, h.VendorName, h.Total, h.Filename)
	}
	return string(out)
}
