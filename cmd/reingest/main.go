// Command reingest clears ledger rows under one or more object key
// prefixes so the next identification pass schedules those objects again.
// Downstream upserts are idempotent, so replaying an export is safe.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/jgrantham/inlet/internal/config"
	"github.com/jgrantham/inlet/internal/db"
	"github.com/jgrantham/inlet/internal/repository"
)

type prefixList []string

func (p *prefixList) String() string { return strings.Join(*p, ",") }

func (p *prefixList) Set(value string) error {
	value = strings.TrimSpace(value)
	if value == "" {
		return fmt.Errorf("prefix must not be empty")
	}
	*p = append(*p, value)
	return nil
}

func main() {
	var prefixes prefixList
	configPath := flag.String("config", ".", "directory containing config.yaml")
	dryRun := flag.Bool("dry-run", false, "list the most recent ledger rows instead of deleting")
	flag.Var(&prefixes, "prefix", "object key prefix to clear (repeatable)")
	flag.Parse()

	if len(prefixes) == 0 {
		fmt.Fprintln(os.Stderr, "at least one -prefix is required")
		flag.Usage()
		os.Exit(2)
	}

	cfg, err := config.Load(*configPath)
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx := context.Background()
	conn, err := db.NewConnection(ctx, cfg.Database)
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer conn.Close()

	ledger := repository.NewIngestedObjectRepository(conn.Pool)
	for _, prefix := range prefixes {
		if *dryRun {
			rows, err := ledger.ListRecent(ctx, prefix, 50)
			if err != nil {
				slog.Error("failed to list ledger rows", "prefix", prefix, "error", err)
				os.Exit(1)
			}
			fmt.Printf("%d ledger row(s) under %s (most recent first):\n", len(rows), prefix)
			for _, row := range rows {
				fmt.Printf("  %s  recorded %s  object modified %s\n",
					row.ObjectKey,
					row.RecordedAt.Format(time.RFC3339),
					row.ObjectModifiedAt.Format(time.RFC3339),
				)
			}
			continue
		}

		deleted, err := ledger.DeleteByPrefix(ctx, prefix)
		if err != nil {
			slog.Error("failed to clear ledger rows", "prefix", prefix, "error", err)
			os.Exit(1)
		}
		fmt.Printf("cleared %d ledger row(s) under %s\n", deleted, prefix)
	}
}
