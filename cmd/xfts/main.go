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
	"errors"
	"fmt"
	"io/fs"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/poiesic/xfts"
	"github.com/poiesic/xfts/core"
	"github.com/poiesic/xfts/indexing"
	"github.com/poiesic/xfts/metrics"
	"github.com/poiesic/xfts/storage"
	"github.com/urfave/cli/v2"
)

func main() {
	// Flag env vars are read while parsing, so the env file must be loaded first.
	if err := loadEnv(envFileArg(os.Args[1:])); err != nil {
		log.Fatal(err)
	}
	if err := newApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

// envFileArg returns the value of the global --env-file flag in args,
// or ".env" when it is not given. Scanning stops at the first subcommand.
func envFileArg(args []string) string {
	for i := 0; i < len(args); i++ {
		arg := args[i]
		if !strings.HasPrefix(arg, "-") {
			break
		}
		name, value, hasValue := strings.Cut(strings.TrimLeft(arg, "-"), "=")
		if name != "env-file" {
			if !hasValue && (name == "log-level" || name == "l") {
				i++
			}
			continue
		}
		if hasValue {
			return value
		}
		if i+1 < len(args) {
			return args[i+1]
		}
		return ""
	}
	return ".env"
}

func dbFlag() cli.Flag {
	return &cli.StringFlag{
		Name:     "db",
		Aliases:  []string{"d"},
		Usage:    "Path to BadgerDB index directory",
		EnvVars:  []string{"XFTS_DB"},
		Required: true,
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "xfts",
		Usage: "Cross-entity full-text search over linked records",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Usage:   "Set logging level (debug, info, warn, error)",
				Value:   "info",
				EnvVars: []string{"XFTS_LOG_LEVEL"},
			},
			&cli.StringFlag{
				Name:  "env-file",
				Usage: "Environment file loaded before any flag is read",
				Value: ".env",
			},
		},
		Before: setupLogger,
		Commands: []*cli.Command{
			{
				Name:   "index",
				Usage:  "Index the entities of a YAML fixture",
				Action: indexCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "file",
						Aliases:  []string{"f"},
						Usage:    "YAML fixture to index",
						Required: true,
					},
					&cli.IntFlag{
						Name:  "batch-size",
						Usage: "Number of records written per transaction",
						Value: indexing.DefaultBatchSize,
					},
					&cli.IntFlag{
						Name:  "pool-size",
						Usage: "Number of workers preparing documents (0 picks a default)",
					},
					&cli.IntFlag{
						Name:  "max-retries",
						Usage: "Maximum attempts for conflicting writes",
						Value: indexing.DefaultMaxRetries,
					},
					&cli.DurationFlag{
						Name:  "retry-delay",
						Usage: "Base delay for exponential backoff",
						Value: indexing.DefaultRetryDelay,
					},
					&cli.BoolFlag{
						Name:  "legacy-links",
						Usage: "Store links as bare entity ids",
					},
				},
			},
			{
				Name:      "search",
				Usage:     "Find entities whose linked records together contain every term",
				ArgsUsage: "QUERY...",
				Action:    searchCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "schema",
						Aliases:  []string{"s"},
						Usage:    "YAML schema describing entity links",
						EnvVars:  []string{"XFTS_SCHEMA"},
						Required: true,
					},
					&cli.StringSliceFlag{
						Name:     "type",
						Aliases:  []string{"t"},
						Usage:    "Entity type to search (repeatable)",
						Required: true,
					},
					&cli.StringFlag{
						Name:    "metrics-addr",
						Usage:   "Serve Prometheus metrics on this address",
						EnvVars: []string{"XFTS_METRICS_ADDR"},
					},
				},
			},
			{
				Name:   "text",
				Usage:  "Print the indexed text of one entity",
				Action: textCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringFlag{
						Name:     "type",
						Aliases:  []string{"t"},
						Usage:    "Entity type name",
						Required: true,
					},
					&cli.StringFlag{
						Name:     "id",
						Usage:    "Entity id",
						Required: true,
					},
				},
			},
			{
				Name:   "delete",
				Usage:  "Remove entities from the index",
				Action: deleteCommand,
				Flags: []cli.Flag{
					dbFlag(),
					&cli.StringSliceFlag{
						Name:     "id",
						Usage:    "Entity id to delete (repeatable)",
						Required: true,
					},
				},
			},
		},
	}
}

func indexCommand(c *cli.Context) error {
	ctx := context.Background()

	fixture, err := indexing.LoadFixture(c.String("file"))
	if err != nil {
		return err
	}
	records, err := fixture.Records()
	if err != nil {
		return err
	}

	cfg := xfts.NewConfig(
		xfts.WithBatchSize(c.Int("batch-size")),
		xfts.WithPoolSize(c.Int("pool-size")),
		xfts.WithRetry(c.Int("max-retries"), c.Duration("retry-delay")),
		xfts.WithLegacyLinks(c.Bool("legacy-links")),
	)
	db, err := xfts.NewDatabase(c.String("db"), xfts.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	indexer, err := db.NewIndexer(indexing.WithProgress(c.App.ErrWriter))
	if err != nil {
		return err
	}
	defer indexer.Release()

	start := time.Now()
	written, err := indexer.Index(ctx, records...)
	if err != nil {
		return fmt.Errorf("indexing failed: %w", err)
	}

	fmt.Fprintf(c.App.Writer, "Indexed %d records in %s\n", written, time.Since(start).Round(time.Millisecond))

	count, err := db.Index().CountDocuments(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintf(c.App.Writer, "Index holds %d documents\n", count)
	return nil
}

func searchCommand(c *cli.Context) error {
	ctx := context.Background()

	query := strings.Join(c.Args().Slice(), " ")
	if strings.TrimSpace(query) == "" {
		return errors.New("query is required")
	}

	if addr := c.String("metrics-addr"); addr != "" {
		if err := metrics.Enable(addr); err != nil {
			return err
		}
		slog.Info("serving metrics", "addr", addr)
	}

	cfg := xfts.NewConfig(xfts.WithSchemaPath(c.String("schema")))
	db, err := xfts.NewDatabase(c.String("db"), xfts.WithConfig(cfg))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	types := c.StringSlice("type")
	for _, name := range types {
		if !db.Schema().HasType(name) {
			slog.Warn("entity type not declared in schema", "type", name)
		}
	}

	result, err := db.Search(ctx, query, types...)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	header := color.New(color.Bold)
	typeName := color.New(color.FgCyan)
	header.Fprintf(c.App.Writer, "%d hits for %q\n", len(result.Entries), result.Query)
	for i, entry := range result.Entries {
		fmt.Fprintf(c.App.Writer, "%d: %s %s\n", i+1, typeName.Sprint(entry.EntityTypeName), entry.EntityId)
	}
	return nil
}

func textCommand(c *cli.Context) error {
	ctx := context.Background()

	id, err := uuid.Parse(c.String("id"))
	if err != nil {
		return fmt.Errorf("invalid id: %w", err)
	}
	ref := core.NewEntityReference(c.String("type"), id)

	db, err := xfts.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	reader, err := db.Index().AcquireReader(ctx)
	if err != nil {
		return err
	}
	defer reader.Release()

	text, found, err := reader.FetchIndexedText(ctx, ref)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%s is not indexed", ref)
	}

	doc, err := db.Index().GetDocument(ctx, id)
	if err != nil {
		return err
	}

	fieldName := color.New(color.FgYellow)
	fmt.Fprintln(c.App.Writer, text)
	for name, value := range core.ParseIndexedText(text) {
		fmt.Fprintf(c.App.Writer, "  %s: %s\n", fieldName.Sprint(name), strings.TrimSpace(value))
	}
	fmt.Fprintf(c.App.Writer, "indexed at %s\n", doc.IndexedAt.Format(time.RFC3339))
	for _, linkKey := range doc.LinkKeys {
		fmt.Fprintf(c.App.Writer, "  links to %s\n", linkKey)
	}
	return nil
}

func deleteCommand(c *cli.Context) error {
	ctx := context.Background()

	raw := c.StringSlice("id")
	ids := make([]core.EntityID, 0, len(raw))
	for _, s := range raw {
		id, err := uuid.Parse(s)
		if err != nil {
			return fmt.Errorf("invalid id %q: %w", s, err)
		}
		ids = append(ids, id)
	}

	db, err := xfts.NewDatabase(c.String("db"))
	if err != nil {
		return fmt.Errorf("failed to open index: %w", err)
	}
	defer db.Close()

	known := make([]core.EntityID, 0, len(ids))
	for _, id := range ids {
		_, err := db.Index().GetDocument(ctx, id)
		if errors.Is(err, storage.ErrNotFound) {
			slog.Warn("id is not indexed, skipping", "id", id)
			continue
		}
		if err != nil {
			return err
		}
		known = append(known, id)
	}

	indexer, err := db.NewIndexer()
	if err != nil {
		return err
	}
	defer indexer.Release()

	if err := indexer.Delete(ctx, known...); err != nil {
		return fmt.Errorf("delete failed: %w", err)
	}
	fmt.Fprintf(c.App.Writer, "Deleted %d of %d ids\n", len(known), len(ids))
	return nil
}

// loadEnv loads path into the environment. A missing file is not an error.
func loadEnv(path string) error {
	if path == "" {
		return nil
	}
	if err := godotenv.Load(path); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			slog.Debug("no env file found, using system environment", "path", path)
			return nil
		}
		return fmt.Errorf("failed to load %s: %w", path, err)
	}
	return nil
}

func setupLogger(c *cli.Context) error {
	// Get log level from flag and normalize to lowercase
	levelStr := strings.ToLower(c.String("log-level"))

	// Map string to slog.Level
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
