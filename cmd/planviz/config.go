package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

const defaultFormat = "text"

type Config struct {
	PlanPath string
	Format   string
	ServeMCP bool
}

func LoadConfig(args []string) (Config, error) {
	cwd, err := os.Getwd()
	if err != nil {
		return Config{}, fmt.Errorf("failed to get cwd: %w", err)
	}

	planPath := envOrDefault("PLANVIZ_PLAN_PATH", "")
	format := envOrDefault("PLANVIZ_FORMAT", defaultFormat)

	flagSet := flag.NewFlagSet("planviz", flag.ContinueOnError)
	flagSet.SetOutput(io.Discard)
	flagPlan := flagSet.String("plan", planPath, "path to plan JSON document")
	flagFormat := flagSet.String("format", format, "output format: text|dot|json")
	flagMCP := flagSet.Bool("mcp", false, "serve the graph over MCP on stdio instead of printing")

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

	switch *flagFormat {
	case "text", "dot", "json":
	default:
		return Config{}, fmt.Errorf("unknown format: %s", *flagFormat)
	}

	return Config{
		PlanPath: resolvePath(*flagPlan, cwd),
		Format:   *flagFormat,
		ServeMCP: *flagMCP,
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
