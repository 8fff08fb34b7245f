// Copyright 2025 Poiesic Systems
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
	"context"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"strings"

	"github.com/urfave/cli/v2"

	"github.com/poiesic/docpipe"
	"github.com/poiesic/docpipe/ai"
	"github.com/poiesic/docpipe/classify"
	"github.com/poiesic/docpipe/core"
	"github.com/poiesic/docpipe/draft"
	"github.com/poiesic/docpipe/pipeline"
)

func main() {
	app := &cli.App{
		Name:  "docpipe",
		Usage: "Document intelligence pipeline: extract, index, classify and chat",
		Flags: []cli.Flag{
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
				Name:   "process",
				Usage:  "Upload a document's pages and run the full pipeline",
				Action: processCommand,
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:     "name",
						Usage:    "Document name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "pages",
						Usage:    "Directory holding the document's page images",
						Required: true,
					},
					&cli.StringFlag{
						Name:  "metrics-addr",
						Usage: "Serve Prometheus metrics on this address while processing",
					},
				),
			},
			{
				Name:   "classify",
				Usage:  "Classify a processed document",
				Action: classifyCommand,
				Flags: append(serviceFlags(),
					&cli.Uint64Flag{
						Name:     "doc",
						Usage:    "Document id",
						Required: true,
					},
					&cli.BoolFlag{
						Name:  "force",
						Usage: "Bypass the result cache and reclassify",
					},
					&cli.BoolFlag{
						Name:  "final",
						Usage: "Go straight to the strong model",
					},
				),
			},
			{
				Name:      "chat",
				Usage:     "Ask a question against the tenant's documents",
				Action:    chatCommand,
				ArgsUsage: "QUESTION",
				Flags: append(serviceFlags(),
					&cli.Uint64Flag{
						Name:  "conversation",
						Usage: "Conversation id (reuse to keep history)",
						Value: 1,
					},
				),
			},
			{
				Name:      "draft",
				Usage:     "Draft a legal document from instructions or a template",
				Action:    draftCommand,
				ArgsUsage: "INSTRUCTIONS",
				Flags: append(serviceFlags(),
					&cli.StringFlag{
						Name:  "type",
						Usage: "Document type, e.g. \"contract\" or \"power of attorney\"",
					},
					&cli.StringFlag{
						Name:  "template",
						Usage: "Path to a template file with {{name}} placeholders",
					},
					&cli.StringSliceFlag{
						Name:  "set",
						Usage: "Template placeholder as name=value (repeatable)",
					},
				),
			},
			{
				Name:   "list",
				Usage:  "List a tenant's documents",
				Action: listCommand,
				Flags:  serviceFlags(),
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// serviceFlags are shared by every command that opens the service.
func serviceFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{
			Name:     "db",
			Aliases:  []string{"d"},
			Usage:    "Path to BadgerDB database directory",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "files",
			Usage: "Root directory of the page file store",
			Value: "./pages",
		},
		&cli.Uint64Flag{
			Name:     "tenant",
			Aliases:  []string{"t"},
			Usage:    "Tenant id",
			Required: true,
		},
		&cli.StringFlag{
			Name:  "host",
			Usage: "OpenAI-compatible service host URL",
			Value: "http://localhost:11434/v1",
		},
		&cli.StringFlag{
			Name:  "embedding-model",
			Usage: "Embedding model name",
			Value: "embeddinggemma",
		},
		&cli.StringFlag{
			Name:  "fast-model",
			Usage: "Cheap model for low-stakes passes",
			Value: "qwen2.5:3b",
		},
		&cli.StringFlag{
			Name:  "strong-model",
			Usage: "Higher-quality model for final output",
			Value: "qwen2.5:14b",
		},
	}
}

// openService builds the service from the shared flags. The returned store
// is the file store, so commands can bind page directories.
func openService(c *cli.Context) (*docpipe.Service, *pipeline.DirectoryStore, error) {
	aiConfig := ai.NewConfig(
		ai.WithHost(c.String("host")),
		ai.WithEmbeddingModel(c.String("embedding-model")),
		ai.WithFastModel(c.String("fast-model")),
		ai.WithStrongModel(c.String("strong-model")),
	)
	if err := aiConfig.Validate(); err != nil {
		return nil, nil, fmt.Errorf("invalid AI configuration: %w", err)
	}

	files := pipeline.NewDirectoryStore(c.String("files"))
	svc, err := docpipe.NewService(c.String("db"), files,
		docpipe.WithAIConfig(aiConfig))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open service: %w", err)
	}
	return svc, files, nil
}

func processCommand(c *cli.Context) error {
	ctx := context.Background()
	tenant := core.TenantID(c.Uint64("tenant"))

	svc, files, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	if addr := c.String("metrics-addr"); addr != "" {
		go func() {
			if err := http.ListenAndServe(addr, svc.MetricsHandler()); err != nil {
				slog.Error("metrics server stopped", "err", err)
			}
		}()
	}

	document, err := svc.CreateDocument(ctx, tenant, c.String("name"))
	if err != nil {
		return fmt.Errorf("failed to create document: %w", err)
	}
	files.Bind(document.Id, c.String("pages"))

	document, err = svc.ProcessDocument(ctx, tenant, document.Id)
	if err != nil {
		return fmt.Errorf("processing failed: %w", err)
	}

	fmt.Printf("Document %d is %s\n", document.Id, document.Status)
	fmt.Printf("Pages: %d  Confidence: %.2f  Partial: %v\n",
		document.PageCount, document.OCRConfidence, document.OCRPartial)
	return nil
}

func classifyCommand(c *cli.Context) error {
	ctx := context.Background()
	tenant := core.TenantID(c.Uint64("tenant"))

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	result, err := svc.ClassifyDocument(ctx, tenant, core.ID(c.Uint64("doc")), classify.Options{
		Force: c.Bool("force"),
		Final: c.Bool("final"),
	})
	if err != nil {
		return fmt.Errorf("classification failed: %w", err)
	}

	fmt.Printf("Type:       %s\n", result.DocumentType)
	fmt.Printf("Legal area: %s\n", result.LegalArea)
	fmt.Printf("Urgency:    %s\n", result.Urgency)
	fmt.Printf("Parties:    %s\n", strings.Join(result.Parties, ", "))
	fmt.Printf("Dates:      %s\n", strings.Join(result.ImportantDates, ", "))
	fmt.Printf("Keywords:   %s\n", strings.Join(result.Keywords, ", "))
	fmt.Printf("Summary:    %s\n", result.Summary)
	fmt.Printf("Confidence: %.2f (%s, %s)\n", result.Confidence, result.Model, result.Elapsed)
	return nil
}

func chatCommand(c *cli.Context) error {
	ctx := context.Background()
	tenant := core.TenantID(c.Uint64("tenant"))

	question := strings.Join(c.Args().Slice(), " ")
	if question == "" {
		return fmt.Errorf("a question is required")
	}

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	stream, err := svc.ChatStream(ctx, tenant, core.ID(c.Uint64("conversation")), question)
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	for fragment := range stream.Fragments() {
		fmt.Print(fragment)
	}
	fmt.Println()

	turn, err := stream.Wait()
	if err != nil {
		return fmt.Errorf("chat failed: %w", err)
	}

	for _, citation := range turn.Citations {
		fmt.Printf("  [document %d, chunk %d, score %.2f]\n",
			citation.DocumentId, citation.ChunkIndex, citation.Score)
	}
	if !turn.Grounded {
		fmt.Println("  (answer not grounded in any document)")
	}
	return nil
}

func draftCommand(c *cli.Context) error {
	ctx := context.Background()
	tenant := core.TenantID(c.Uint64("tenant"))
	instructions := strings.Join(c.Args().Slice(), " ")

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	var result *draft.Draft
	if path := c.String("template"); path != "" {
		template, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read template: %w", err)
		}
		placeholders, err := parsePlaceholders(c.StringSlice("set"))
		if err != nil {
			return err
		}
		result, err = svc.DraftFromTemplate(ctx, tenant, draft.TemplateRequest{
			Template:     string(template),
			Placeholders: placeholders,
			Instructions: instructions,
		})
		if err != nil {
			return fmt.Errorf("drafting failed: %w", err)
		}
	} else {
		if instructions == "" {
			return fmt.Errorf("instructions are required without a template")
		}
		result, err = svc.DraftFromPrompt(ctx, tenant, draft.PromptRequest{
			DocumentType: c.String("type"),
			Prompt:       instructions,
		})
		if err != nil {
			return fmt.Errorf("drafting failed: %w", err)
		}
	}

	fmt.Println(result.Text)
	fmt.Fprintf(os.Stderr, "\n%q drafted by %s in %s\n", result.Title, result.Model, result.Elapsed)
	return nil
}

// parsePlaceholders turns repeated name=value flags into a map.
func parsePlaceholders(pairs []string) (map[string]string, error) {
	placeholders := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		name, value, ok := strings.Cut(pair, "=")
		if !ok || name == "" {
			return nil, fmt.Errorf("invalid placeholder %q: expected name=value", pair)
		}
		placeholders[name] = value
	}
	return placeholders, nil
}

func listCommand(c *cli.Context) error {
	ctx := context.Background()
	tenant := core.TenantID(c.Uint64("tenant"))

	svc, _, err := openService(c)
	if err != nil {
		return err
	}
	defer svc.Close()

	documents, err := svc.Documents().ListDocuments(ctx, tenant)
	if err != nil {
		return fmt.Errorf("failed to list documents: %w", err)
	}

	fmt.Printf("Found %d documents\n", len(documents))
	for _, document := range documents {
		fmt.Printf("%d: %q %s (%d pages, created %s)\n",
			document.Id, document.Name, document.Status,
			document.PageCount, document.CreatedAt.Format("2006-01-02 15:04"))
	}
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
