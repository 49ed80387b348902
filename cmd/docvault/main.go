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


package main

import (
	"encoding/json"
	"fmt"
	"log"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/urfave/cli/v2"
	"github.com/xentrohq/docvault"
	"github.com/xentrohq/docvault/ai"
	"github.com/xentrohq/docvault/ingestion"
)

func main() {
	app := &cli.App{
		Name:  "docvault",
		Usage: "Document intelligence vault: ingest, search and audit business documents",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-dir",
				Aliases: []string{"d"},
				Usage:   "Workspace data directory",
				Value:   "data",
			},
			&cli.StringFlag{
				Name:  "engine-bin",
				Usage: "Path to the external document extraction engine",
			},
			&cli.StringFlag{
				Name:    "api-key",
				Usage:   "API key for the hosted model service",
				EnvVars: []string{"GOOGLE_API_KEY"},
			},
			&cli.StringFlag{
				Name:  "model",
				Usage: "Analysis model identifier",
			},
			&cli.StringFlag{
				Name:  "embedding-model",
				Usage: "Embedding model identifier",
			},
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:      "ingest",
				Usage:     "Ingest one or more document files",
				ArgsUsage: "<files...>",
				Action:    ingestCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of files processed concurrently",
						Value: ingestion.DefaultPoolSize,
					},
				},
			},
			{
				Name:   "recent",
				Usage:  "List recently ingested documents",
				Action: recentCommand,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of documents to list",
						Value: 20,
					},
				},
			},
			{
				Name:      "chat",
				Usage:     "Ask a question against the knowledge base",
				ArgsUsage: "<question>",
				Action:    chatCommand,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "file",
						Usage: "Restrict context to one document's entries",
					},
				},
			},
			{
				Name:      "query",
				Usage:     "Cross-document query with source attribution",
				ArgsUsage: "<question>",
				Action:    queryCommand,
			},
			{
				Name:      "audit",
				Usage:     "Run the forensic risk audit for one document",
				ArgsUsage: "<filename>",
				Action:    auditCommand,
			},
			{
				Name:      "verify-math",
				Usage:     "Re-check the line-item arithmetic of one document",
				ArgsUsage: "<filename>",
				Action:    verifyMathCommand,
			},
			{
				Name:      "redact",
				Usage:     "Produce a PII-scrubbed copy of one document's metadata",
				ArgsUsage: "<filename>",
				Action:    redactCommand,
			},
			{
				Name:   "vendors",
				Usage:  "List vendors and their document counts",
				Action: vendorsCommand,
			},
			{
				Name:   "reconcile",
				Usage:  "Find documents missing from the semantic index",
				Action: reconcileCommand,
			},
			{
				Name:   "reindex",
				Usage:  "Repair the semantic index by re-adding missing documents",
				Action: reindexCommand,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func openWorkspace(c *cli.Context) (*docvault.Workspace, error) {
	var configOpts []ai.ConfigOption
	if key := c.String("api-key"); key != "" {
		configOpts = append(configOpts, ai.WithAPIKey(key))
	}
	if model := c.String("model"); model != "" {
		configOpts = append(configOpts, ai.WithModel(model))
	}
	if model := c.String("embedding-model"); model != "" {
		configOpts = append(configOpts, ai.WithEmbeddingModel(model))
	}

	return docvault.NewWorkspace(c.Context, c.String("data-dir"),
		docvault.WithAIConfig(ai.NewConfig(configOpts...)),
		docvault.WithEngineBinary(c.String("engine-bin")),
	)
}

func ingestCommand(c *cli.Context) error {
	if c.NArg() == 0 {
		return fmt.Errorf("at least one file is required")
	}

	uploads := make([]ingestion.FileUpload, 0, c.NArg())
	for _, path := range c.Args().Slice() {
		data, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("reading %s: %w", path, err)
		}
		uploads = append(uploads, ingestion.FileUpload{
			Filename: filepath.Base(path),
			Data:     data,
		})
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	pipeline, err := ws.NewIngestionPipeline(
		ingestion.WithPoolSize(c.Int("pool-size")),
		ingestion.WithProgress(func(filename string, done, total int) {
			fmt.Fprintf(os.Stderr, "[%d/%d] %s\n", done, total, filename)
		}),
	)
	if err != nil {
		return err
	}
	defer pipeline.Release()

	outcomes, err := pipeline.Ingest(c.Context, uploads)
	if err != nil {
		return err
	}

	var failed int
	for _, o := range outcomes {
		switch {
		case o.Err != nil:
			failed++
			fmt.Printf("FAILED   %s: %v\n", o.Filename, o.Err)
		case o.Skipped:
			fmt.Printf("SKIPPED  %s (duplicate of %s)\n", o.Filename, o.DocumentID)
		default:
			fmt.Printf("INGESTED %s (%s)\n", o.Filename, o.DocumentID)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d files failed", failed, len(outcomes))
	}
	return nil
}

func recentCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	docs, err := ws.Knowledge().GetRecent(c.Context, c.Int("limit"))
	if err != nil {
		return err
	}

	if len(docs) == 0 {
		fmt.Println("No documents ingested yet.")
		return nil
	}

	for _, doc := range docs {
		fmt.Printf("%s  %-30s %-25s %10s  %s\n",
			doc.ProcessedAt.Format("2006-01-02 15:04"),
			doc.Filename, doc.Vendor(), doc.TotalAmount(), doc.ID)
	}
	return nil
}

func chatCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	a, err := ws.NewAnalyst()
	if err != nil {
		return err
	}

	answer, err := a.Chat(c.Context, question, c.String("file"))
	if err != nil {
		return err
	}
	fmt.Println(answer)
	return nil
}

func queryCommand(c *cli.Context) error {
	question := strings.TrimSpace(strings.Join(c.Args().Slice(), " "))
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	a, err := ws.NewAnalyst()
	if err != nil {
		return err
	}

	answer, hits, err := a.GlobalQuery(c.Context, question)
	if err != nil {
		return err
	}

	fmt.Println(answer)
	if len(hits) > 0 {
		fmt.Println("\nSources:")
		for _, hit := range hits {
			fmt.Printf("  %-30s %-25s %10s\n", hit.Filename, hit.Vendor, hit.Total)
		}
	}
	return nil
}

func auditCommand(c *cli.Context) error {
	filename := c.Args().First()
	if filename == "" {
		return fmt.Errorf("a filename is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	a, err := ws.NewAnalyst()
	if err != nil {
		return err
	}

	audit, err := a.Audit(c.Context, filename)
	if err != nil {
		return err
	}

	fmt.Printf("Risk score:     %d/100\n", audit.RiskScore)
	fmt.Printf("Risk level:     %s\n", audit.RiskLevel)
	fmt.Printf("Recommendation: %s\n", audit.Recommendation)
	for _, flag := range audit.Flags {
		fmt.Printf("Flag:           %s\n", flag)
	}
	return nil
}

func verifyMathCommand(c *cli.Context) error {
	filename := c.Args().First()
	if filename == "" {
		return fmt.Errorf("a filename is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	a, err := ws.NewAnalyst()
	if err != nil {
		return err
	}

	audit, err := a.VerifyMath(c.Context, filename)
	if err != nil {
		return err
	}

	fmt.Print(renderMathAudit(audit))
	return nil
}

func renderMathAudit(audit ai.MathAudit) string {
	status := "MISMATCH"
	if audit.IsMathCorrect {
		status = "OK"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "Arithmetic:       %s\n", status)
	fmt.Fprintf(&b, "Stated total:     %.2f\n", audit.FoundTotal)
	fmt.Fprintf(&b, "Calculated total: %.2f\n", audit.CalculatedTotal)
	fmt.Fprintf(&b, "Explanation:      %s\n", audit.Explanation)
	return b.String()
}

func redactCommand(c *cli.Context) error {
	filename := c.Args().First()
	if filename == "" {
		return fmt.Errorf("a filename is required")
	}

	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	a, err := ws.NewAnalyst()
	if err != nil {
		return err
	}

	redacted, err := a.Redact(c.Context, filename)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(redacted, "", "  ")
	if err != nil {
		return err
	}
	fmt.Println(string(out))
	return nil
}

func vendorsCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	counts, err := ws.Knowledge().GetAllVendors(c.Context)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		fmt.Printf("%5d  %s\n", counts[name], name)
	}
	return nil
}

func reconcileCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	orphans, err := ws.Knowledge().Reconcile(c.Context)
	if err != nil {
		return err
	}

	if len(orphans) == 0 {
		fmt.Println("Index is consistent: no orphan documents.")
		return nil
	}

	fmt.Printf("%d document(s) missing from the semantic index:\n", len(orphans))
	for _, id := range orphans {
		fmt.Printf("  %s\n", id)
	}
	return nil
}

func reindexCommand(c *cli.Context) error {
	ws, err := openWorkspace(c)
	if err != nil {
		return err
	}
	defer ws.Close()

	repaired, err := ws.Knowledge().Reindex(c.Context)
	if err != nil {
		return err
	}

	if repaired == 0 {
		fmt.Println("Index is consistent: nothing to repair.")
		return nil
	}
	fmt.Printf("Re-added %d document(s) to the semantic index.\n", repaired)
	return nil
}

func setupLogger(c *cli.Context) error {
	levelStr := strings.ToLower(c.String("log-level"))

	var level slog.Level
	switch levelStr {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		return fmt.Errorf("invalid log level %q: must be one of debug, info, warn, error", levelStr)
	}

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: level,
	}))
	slog.SetDefault(logger)

	return nil
}
