package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const (
	defaultStore    = "sqlite"
	defaultInstance = "default"
)

type Config struct {
	PlanPath   string
	Store      string // sqlite | file | redis | none
	DBPath     string
	LayoutDir  string
	RedisAddr  string
	InstanceID string
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	defaultDBPath := filepath.Join(cwd, "planviz.db")
	defaultLayoutDir := filepath.Join(cwd, "layouts")

	planPath := envOrDefault("PLANVIZ_PLAN_PATH", "")
	storeKind := envOrDefault("PLANVIZ_STORE", defaultStore)
	dbPath := envOrDefault("PLANVIZ_DB_PATH", defaultDBPath)
	layoutDir := envOrDefault("PLANVIZ_LAYOUT_DIR", defaultLayoutDir)
	redisAddr := envOrDefault("PLANVIZ_REDIS_ADDR", "localhost:6379")
	instanceID := envOrDefault("PLANVIZ_INSTANCE", defaultInstance)

	flagSet := flag.NewFlagSet("planviz-tui", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagPlan := flagSet.String("plan", planPath, "path to plan JSON document")
	flagStore := flagSet.String("store", storeKind, "layout store backend: sqlite|file|redis|none")
	flagDB := flagSet.String("db", dbPath, "path to SQLite database (store=sqlite)")
	flagLayoutDir := flagSet.String("layout-dir", layoutDir, "layout directory (store=file)")
	flagRedis := flagSet.String("redis-addr", redisAddr, "redis address (store=redis)")
	flagInstance := flagSet.String("instance", instanceID, "graph instance id for layout persistence")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, flag.ErrHelp) {
			flagSet.SetOutput(os.Stdout)
			flagSet.PrintDefaults()
			return Config{}, err
		}
		return Config{}, err
	}

	if *flagPlan == "" && flagSet.NArg() > 0 {
		*flagPlan = flagSet.Arg(0)
	}
	if *flagPlan == "" {
		return Config{}, errors.New("no plan document given (use -plan or PLANVIZ_PLAN_PATH)")
	}

	switch *flagStore {
	case "sqlite", "file", "redis", "none":
	default:
		return Config{}, fmt.Errorf("unknown store backend: %s", *flagStore)
	}

	return Config{
		PlanPath:   resolvePath(*flagPlan, cwd),
		Store:      *flagStore,
		DBPath:     resolvePath(*flagDB, cwd),
		LayoutDir:  resolvePath(*flagLayoutDir, cwd),
		RedisAddr:  *flagRedis,
		InstanceID: *flagInstance,
	}, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func resolvePath(path, cwd string) string {
	if filepath.IsAbs(path) {
		return path
	}
	return filepath.Join(cwd, path)
}
