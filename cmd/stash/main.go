// ABOUTME: CLI for managing a stash store
// ABOUTME: Wraps the store provider with init/set/get/list/delete/drop commands

package main

import (
	"bufio"
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"
	"github.com/google/uuid"

	"github.com/stashkv/stash/internal/config"
	"github.com/stashkv/stash/internal/store"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	if cmd == "help" || cmd == "-h" || cmd == "--help" {
		printUsage()
		return
	}

	cfg, err := loadConfig()
	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}

	setupLogger(cfg.Logging)

	provider := store.NewSQLiteProvider(store.Options{
		ConnectionString: cfg.Store.Connection,
		Database:         cfg.Store.Database,
		StoreName:        cfg.Store.Name,
	})
	ctx := context.Background()

	switch cmd {
	case "init":
		err = cmdInit(ctx, provider)
	case "exists":
		err = cmdExists(ctx, provider)
	case "set":
		err = cmdSet(ctx, provider, args)
	case "get":
		err = cmdGet(ctx, provider, args)
	case "list":
		err = cmdList(ctx, provider)
	case "delete":
		err = cmdDelete(ctx, provider, args)
	case "drop":
		err = cmdDrop(ctx, provider, cfg.Store.Name, args)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		printUsage()
		os.Exit(1)
	}

	if err != nil {
		color.Red("Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	cyan := color.New(color.FgCyan)
	yellow := color.New(color.FgYellow)

	cyan.Println("stash - table-backed key/value store")
	fmt.Println()
	fmt.Println("Usage: stash <command> [args]")
	fmt.Println()
	yellow.Println("Commands:")
	fmt.Println("  init                    Create the backing store if absent")
	fmt.Println("  exists                  Report whether the backing store is present")
	fmt.Println("  set [key] [contents]    Store a record (key generated when omitted,")
	fmt.Println("                          contents read from stdin when omitted)")
	fmt.Println("  get <key>               Print a record's contents")
	fmt.Println("  list                    List all records")
	fmt.Println("  delete <key>            Remove a record")
	fmt.Println("  drop                    Destroy the backing store")
	fmt.Println()
	yellow.Println("Set flags:")
	fmt.Println("  -type <tag>             Content type tag (default text/plain)")
	fmt.Println("  -cache <period>         Cache period string")
	fmt.Println("  -longevity <name>       transient, session, or durable")
	fmt.Println()
	yellow.Println("Environment:")
	fmt.Println("  STASH_CONFIG            Config file path (default: " + config.DefaultPath() + ")")
	fmt.Println("  STASH_DB                Database path (overrides config when no file exists)")
	fmt.Println("  STASH_STORE             Store name (used with STASH_DB)")
}

// loadConfig reads the config file, or falls back to STASH_DB/STASH_STORE
// when no file exists.
func loadConfig() (*config.Config, error) {
	path := os.Getenv("STASH_CONFIG")
	if path == "" {
		path = config.DefaultPath()
	}

	cfg, err := config.Load(path)
	if err == nil {
		return cfg, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	db := os.Getenv("STASH_DB")
	name := os.Getenv("STASH_STORE")
	if db == "" || name == "" {
		return nil, fmt.Errorf("no config file at %s and STASH_DB/STASH_STORE not set", path)
	}
	return &config.Config{Store: config.StoreConfig{Connection: db, Name: name}}, nil
}

func cmdInit(ctx context.Context, provider store.Provider) error {
	if err := provider.Init(ctx); err != nil {
		return err
	}
	color.Green("Store ready")
	return nil
}

func cmdExists(ctx context.Context, provider store.Provider) error {
	exists, err := provider.StoreExists(ctx)
	if err != nil {
		return err
	}
	if exists {
		fmt.Println("present")
	} else {
		fmt.Println("absent")
	}
	return nil
}

func cmdSet(ctx context.Context, provider store.Provider, args []string) error {
	fs := flag.NewFlagSet("set", flag.ExitOnError)
	contentType := fs.String("type", "text/plain", "content type tag")
	cachePeriod := fs.String("cache", "{0:00:00:00}", "cache period string")
	longevity := fs.String("longevity", "transient", "longevity name")
	if err := fs.Parse(args); err != nil {
		return err
	}

	long, err := store.ParseLongevity(*longevity)
	if err != nil {
		return err
	}

	key := fs.Arg(0)
	generated := false
	if key == "" {
		key = uuid.New().String()
		generated = true
	}

	contents := fs.Arg(1)
	if fs.NArg() < 2 {
		data, err := io.ReadAll(os.Stdin)
		if err != nil {
			return fmt.Errorf("reading contents from stdin: %w", err)
		}
		contents = string(data)
	}

	item := &store.Storable{
		Key:         key,
		Contents:    contents,
		ContentType: *contentType,
		CachePeriod: *cachePeriod,
		Longevity:   long,
	}
	if err := provider.AddOrUpdate(ctx, item); err != nil {
		return err
	}

	if generated {
		fmt.Println(key)
	}
	return nil
}

func cmdGet(ctx context.Context, provider store.Provider, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: stash get <key>")
	}

	item, err := provider.Get(ctx, args[0])
	if err != nil {
		return err
	}
	if item == nil {
		color.Yellow("not found: %s\n", args[0])
		os.Exit(2)
	}

	fmt.Print(item.Contents)
	if !strings.HasSuffix(item.Contents, "\n") {
		fmt.Println()
	}
	return nil
}

func cmdList(ctx context.Context, provider store.Provider) error {
	items, err := provider.GetAll(ctx)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "KEY\tTYPE\tLONGEVITY\tCACHE\tSIZE")
	for _, item := range items {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%d\n",
			item.Key, item.ContentType, item.Longevity, item.CachePeriod, len(item.Contents))
	}
	return w.Flush()
}

func cmdDelete(ctx context.Context, provider store.Provider, args []string) error {
	if len(args) < 1 {
		return fmt.Errorf("usage: stash delete <key>")
	}
	return provider.Delete(ctx, args[0])
}

func cmdDrop(ctx context.Context, provider store.Provider, name string, args []string) error {
	fs := flag.NewFlagSet("drop", flag.ExitOnError)
	force := fs.Bool("force", false, "skip confirmation")
	if err := fs.Parse(args); err != nil {
		return err
	}

	if !*force {
		fmt.Printf("Drop store %q and all its records? [y/N]: ", name)
		reader := bufio.NewReader(os.Stdin)
		answer, _ := reader.ReadString('\n')
		if strings.ToLower(strings.TrimSpace(answer)) != "y" {
			fmt.Println("aborted")
			return nil
		}
	}

	if err := provider.DeleteStore(ctx); err != nil {
		return err
	}
	color.Green("Store dropped")
	return nil
}
