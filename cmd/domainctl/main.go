package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/halvard/cms/internal/config"
	"github.com/halvard/cms/internal/core"
	"github.com/halvard/cms/internal/db"
	"github.com/halvard/cms/internal/logging"
	"github.com/halvard/cms/internal/registrar"
	"github.com/halvard/cms/internal/sync"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	switch os.Args[1] {
	case "sync":
		cmdSync(os.Args[2:])
	case "import":
		cmdImport(os.Args[2:])
	case "migrate":
		cmdMigrate(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Fprintln(os.Stderr, "Usage: domainctl <command> [options]")
	fmt.Fprintln(os.Stderr, "")
	fmt.Fprintln(os.Stderr, "Commands:")
	fmt.Fprintln(os.Stderr, "  sync             Run a full registrar domain sync")
	fmt.Fprintln(os.Stderr, "  import -f FILE   Import candidate domains from a CSV file")
	fmt.Fprintln(os.Stderr, "  migrate          Run database migrations")
}

// newEngine builds the sync engine from config, connecting to the database
// and loading registrar accounts.
func newEngine(ctx context.Context) (*sync.Engine, func(), error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, fmt.Errorf("load config: %w", err)
	}
	if err := cfg.Validate("worker"); err != nil {
		return nil, nil, fmt.Errorf("invalid config: %w", err)
	}

	logger := logging.NewLogger(cfg)

	pool, err := db.NewPool(ctx, cfg.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("connect to database: %w", err)
	}

	accounts, err := config.LoadAccounts(cfg.RegistrarAccountsFile)
	if err != nil {
		pool.Close()
		return nil, nil, fmt.Errorf("load registrar accounts: %w", err)
	}

	services := core.NewServices(pool, cfg.SyncStatusTTL)
	client := registrar.NewClient(logger)
	rotation := registrar.NewRotation(client, accounts, logger)
	engine := sync.NewEngine(services.Domain, services.SyncStatus, client, rotation, accounts, logger)

	return engine, pool.Close, nil
}

func cmdSync(args []string) {
	fs := flag.NewFlagSet("sync", flag.ExitOnError)
	fs.Parse(args)

	ctx := context.Background()
	engine, closer, err := newEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer()

	summary, err := engine.FullSync(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Sync complete: %d deleted, %d imported, %d skipped\n",
		summary.Deleted, summary.Imported, summary.Skipped)
}

func cmdImport(args []string) {
	fs := flag.NewFlagSet("import", flag.ExitOnError)
	file := fs.String("f", "", "CSV file of candidate domains (first column, required)")
	fs.Parse(args)

	if *file == "" {
		fmt.Fprintln(os.Stderr, "Usage: domainctl import -f <file.csv>")
		os.Exit(1)
	}

	f, err := os.Open(*file)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer f.Close()

	ctx := context.Background()
	engine, closer, err := newEngine(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer closer()

	summary, err := engine.Import(ctx, f)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Import complete: %d created, %d skipped\n", summary.Created, summary.Skipped)
}

func cmdMigrate(args []string) {
	fs := flag.NewFlagSet("migrate", flag.ExitOnError)
	dir := fs.String("dir", "", "Migration files directory (default from config)")
	fs.Parse(args)

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if cfg.DatabaseURL == "" {
		fmt.Fprintln(os.Stderr, "Error: DATABASE_URL is required")
		os.Exit(1)
	}

	migrationsDir := cfg.MigrationsDir
	if *dir != "" {
		migrationsDir = *dir
	}

	if err := db.RunMigrations(cfg.DatabaseURL, migrationsDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Migrations applied")
}
