// Package main is the redpanda command line: print, export and import
// Redis-backed dataframes.
//
// Connection settings come from flags, with REDPANDA_ADDR and REDPANDA_DB
// environment variables as defaults.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/kelseyhightower/envconfig"
	"github.com/lmittmann/tint"
	"github.com/mattn/go-colorable"
	"github.com/mattn/go-isatty"
	"github.com/redis/go-redis/v9"

	"github.com/redpanda-kv/redpanda"
)

type config struct {
	Addr string `envconfig:"REDPANDA_ADDR" default:"localhost:6379"`
	DB   int    `envconfig:"REDPANDA_DB" default:"0"`
}

func main() {
	if err := mainImpl(); err != nil {
		fmt.Fprintf(os.Stderr, "redpanda: %v\n", err)
		os.Exit(1)
	}
}

func mainImpl() error {
	var cfg config
	if err := envconfig.Process("", &cfg); err != nil {
		return fmt.Errorf("reading environment: %w", err)
	}

	addr := flag.String("addr", cfg.Addr, "Redis address")
	db := flag.Int("db", cfg.DB, "Redis database index")
	index := flag.Bool("index", true, "Read or write the row-label index column")
	perRow := flag.Bool("per-row", true, "Transfer data one row at a time instead of all at once")
	logLevel := flag.String("log-level", "info", "Log level (debug, info, warn, error)")
	flag.Parse()

	ll := &slog.LevelVar{}
	switch *logLevel {
	case "debug":
		ll.Set(slog.LevelDebug)
	case "info":
		ll.Set(slog.LevelInfo)
	case "warn":
		ll.Set(slog.LevelWarn)
	case "error":
		ll.Set(slog.LevelError)
	default:
		return fmt.Errorf("unknown log level: %q", *logLevel)
	}
	slog.SetDefault(slog.New(tint.NewHandler(colorable.NewColorable(os.Stderr), &tint.Options{
		Level:   ll,
		NoColor: !isatty.IsTerminal(os.Stderr.Fd()),
	})))

	args := flag.Args()
	if len(args) == 0 {
		return errors.New("usage: redpanda [flags] print | export <csv> | import <csv> | free-db")
	}

	ctx := context.Background()
	rdb := redis.NewClient(&redis.Options{Addr: *addr, DB: *db})

	switch args[0] {
	case "free-db":
		n, err := redpanda.FreeDB(ctx, rdb)
		if err != nil {
			return err
		}
		fmt.Println(n)
		return nil

	case "print":
		df, err := redpanda.Wrap(rdb)
		if err != nil {
			return err
		}
		fmt.Println(df)
		return nil

	case "export":
		if len(args) < 2 {
			return errors.New("export needs a CSV path")
		}
		df, err := redpanda.Wrap(rdb)
		if err != nil {
			return err
		}
		if err := df.ToCSV(args[1], *index, *perRow); err != nil {
			return err
		}
		slog.Info("Exported table", "path", args[1], "db", *db)
		return nil

	case "import":
		if len(args) < 2 {
			return errors.New("import needs a CSV path")
		}
		df, err := redpanda.FromCSV(rdb, args[1], *index, *perRow)
		if err != nil {
			return err
		}
		rows, err := df.Rows()
		if err != nil {
			return err
		}
		slog.Info("Imported table", "path", args[1], "rows", len(rows), "db", *db)
		return nil

	default:
		return fmt.Errorf("unknown command %q", args[0])
	}
}
