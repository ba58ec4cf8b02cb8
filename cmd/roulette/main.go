package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/mapcrowd/roulette/internal/config"
	"github.com/mapcrowd/roulette/internal/db"
	"github.com/mapcrowd/roulette/internal/ingest"
	"github.com/mapcrowd/roulette/internal/selector"
	"github.com/mapcrowd/roulette/internal/stats"
	"github.com/mapcrowd/roulette/internal/ui/components"
	"github.com/mapcrowd/roulette/pkg/models"
)

var dbPath string

func main() {
	flag.StringVar(&dbPath, "db-path", "", "Path to database file (overrides ROULETTE_DB_PATH)")
	flag.Parse()

	env, err := config.LoadEnv()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if dbPath == "" {
		dbPath = env.DBPath
	}

	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: env.SlogLevel(),
	})))

	if flag.NArg() == 0 {
		usage()
		os.Exit(1)
	}
	command := flag.Arg(0)
	args := flag.Args()[1:]

	switch command {
	case "init":
		err = runInit(args)
	case "create-challenge":
		err = runCreateChallenge(args)
	case "list-challenges":
		err = runListChallenges(args)
	case "ingest":
		err = runIngest(args)
	case "ingest-bulk":
		err = runIngestBulk(args)
	case "next":
		err = runNext(args)
	case "set-status":
		err = runSetStatus(args)
	case "stats":
		err = runStats(args)
	default:
		fmt.Printf("Unknown command: %s\n", command)
		usage()
		os.Exit(1)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func usage() {
	fmt.Println("Usage: roulette [flags] <command>")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  init                                      create the database")
	fmt.Println("  create-challenge <file.yaml>              register a challenge")
	fmt.Println("  list-challenges [-all]                    list challenges")
	fmt.Println("  ingest <slug> <file.json>                 load task payloads")
	fmt.Println("  ingest-bulk <slug> <file.json>            load a bulk task batch")
	fmt.Println("  next <slug> [-near lon|lat -radius m]     pick a random task")
	fmt.Println("  set-status <slug> <identifier> <status>   update a task status")
	fmt.Println("  stats <slug> [-from d] [-to d] [-unix]    per-status daily counts")
}

func openStore(ctx context.Context) (*db.DB, error) {
	store, err := db.Open(dbPath)
	if err != nil {
		return nil, err
	}
	if err := store.Init(ctx); err != nil {
		store.Close()
		return nil, err
	}
	return store, nil
}

func runInit(args []string) error {
	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()
	slog.Info("database ready", "path", dbPath)
	return nil
}

func runCreateChallenge(args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: create-challenge <file.yaml>")
	}

	c, err := loadChallengeFile(args[0])
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.CreateChallenge(ctx, c); err != nil {
		return err
	}
	slog.Info("challenge created", "slug", c.Slug, "type", c.Type, "active", c.Active)
	return nil
}

func runListChallenges(args []string) error {
	fs := flag.NewFlagSet("list-challenges", flag.ExitOnError)
	all := fs.Bool("all", false, "Include inactive challenges")
	if err := fs.Parse(args); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	challenges, err := store.ListChallenges(ctx, !*all)
	if err != nil {
		return err
	}
	for _, c := range challenges {
		state := "inactive"
		if c.Active {
			state = "active"
		}
		fmt.Printf("%s\t%s\t%s\t%s\n", c.Slug, c.Type, state, c.Title)
	}
	return nil
}

func runIngest(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: ingest <slug> <file.json>")
	}
	slug, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := requireChallenge(ctx, store, slug); err != nil {
		return err
	}

	// accept a single payload object or an array of them
	var payloads []ingest.TaskPayload
	if err := json.Unmarshal(data, &payloads); err != nil {
		var one ingest.TaskPayload
		if err := json.Unmarshal(data, &one); err != nil {
			return fmt.Errorf("failed to decode task payload: %w", err)
		}
		payloads = []ingest.TaskPayload{one}
	}

	// validate everything before writing anything
	tasks := make([]*models.Task, 0, len(payloads))
	for i, payload := range payloads {
		t, err := ingest.ParseTaskPayload(ctx, slug, payload, store)
		if err != nil {
			return fmt.Errorf("payload %d: %w", i, err)
		}
		tasks = append(tasks, t)
	}

	if err := store.CreateTasks(ctx, tasks); err != nil {
		return err
	}
	slog.Info("tasks ingested", "challenge", slug, "count", len(tasks))
	return nil
}

func runIngestBulk(args []string) error {
	if len(args) < 2 {
		return fmt.Errorf("usage: ingest-bulk <slug> <file.json>")
	}
	slug, path := args[0], args[1]

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read %s: %w", path, err)
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	c, err := store.GetChallenge(ctx, slug, false)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("challenge not found: %s", slug)
	}
	if info, _ := models.LookupChallengeType(c.Type); !info.BulkIngest {
		return fmt.Errorf("challenge type %q does not accept bulk uploads", c.Type)
	}

	batch, err := ingest.ParseTaskBatch(data)
	if err != nil {
		return err
	}
	tasks := make([]*models.Task, 0, len(batch))
	for _, b := range batch {
		t, err := b.Task(slug)
		if err != nil {
			return err
		}
		tasks = append(tasks, t)
	}

	if err := store.CreateTasks(ctx, tasks); err != nil {
		return err
	}
	slog.Info("bulk batch ingested", "challenge", slug, "count", len(tasks))
	return nil
}

func runNext(args []string) error {
	fs := flag.NewFlagSet("next", flag.ExitOnError)
	near := fs.String("near", "", "Constrain selection near lon|lat")
	radius := fs.Float64("radius", 0, "Constraint radius in meters")
	asJSON := fs.Bool("json", false, "Print the task as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: next <slug> [-near lon|lat -radius m]")
	}
	slug := fs.Arg(0)

	area, err := parseArea(*near, *radius)
	if err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := requireChallenge(ctx, store, slug); err != nil {
		return err
	}

	task, err := selector.New(store).Next(ctx, slug, area)
	if err != nil {
		return err
	}

	if *asJSON {
		if task == nil {
			fmt.Println("null")
			return nil
		}
		out, err := json.MarshalIndent(task, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode task: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(components.NewTaskCard(task).View())
	return nil
}

func runSetStatus(args []string) error {
	if len(args) < 3 {
		return fmt.Errorf("usage: set-status <slug> <identifier> <status>")
	}
	slug, identifier, status := args[0], args[1], models.TaskStatus(args[2])

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.UpdateTaskStatus(ctx, slug, identifier, status); err != nil {
		return err
	}
	slog.Info("task status updated", "challenge", slug, "task", identifier, "status", status)
	return nil
}

func runStats(args []string) error {
	fs := flag.NewFlagSet("stats", flag.ExitOnError)
	fromStr := fs.String("from", "", "Start day (YYYY-MM-DD)")
	toStr := fs.String("to", "", "End day, exclusive (YYYY-MM-DD)")
	unix := fs.Bool("unix", false, "Key series by unix-epoch seconds")
	asJSON := fs.Bool("json", false, "Print series as JSON")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() < 1 {
		return fmt.Errorf("usage: stats <slug> [-from d] [-to d]")
	}
	slug := fs.Arg(0)

	opts := stats.Options{UnixKeys: *unix}
	var err error
	if opts.Start, err = parseDay(*fromStr); err != nil {
		return err
	}
	if opts.End, err = parseDay(*toStr); err != nil {
		return err
	}

	ctx := context.Background()
	store, err := openStore(ctx)
	if err != nil {
		return err
	}
	defer store.Close()

	tuples, err := store.StatusCountsByDay(ctx, slug, opts.Start, opts.End)
	if err != nil {
		return err
	}
	series, err := stats.Reshape(tuples, opts)
	if err != nil {
		return err
	}

	if *asJSON {
		out, err := json.MarshalIndent(series, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to encode series: %w", err)
		}
		fmt.Println(string(out))
		return nil
	}

	fmt.Println(components.NewStatsTable(slug, series).View())
	return nil
}

func requireChallenge(ctx context.Context, store *db.DB, slug string) error {
	c, err := store.GetChallenge(ctx, slug, false)
	if err != nil {
		return err
	}
	if c == nil {
		return fmt.Errorf("challenge not found: %s", slug)
	}
	return nil
}

func parseDay(s string) (*time.Time, error) {
	if s == "" {
		return nil, nil
	}
	d, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid day %q, want YYYY-MM-DD", s)
	}
	return &d, nil
}
