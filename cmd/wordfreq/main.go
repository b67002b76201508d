package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/brianvoe/gofakeit/v7"
	"github.com/tymbaca/wordfreq/mapreduce"
	"github.com/tymbaca/wordfreq/mapreduce/storage/bbolt"
	"github.com/tymbaca/wordfreq/mapreduce/storage/sqlite"
	"github.com/tymbaca/wordfreq/pkg/fetcher"
	"github.com/tymbaca/wordfreq/pkg/topn"
	"github.com/tymbaca/wordfreq/pkg/tracer"
	"github.com/urfave/cli/v2"
)

const defaultURL = "https://www.gutenberg.org/files/1342/1342-0.txt"

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

// storageFlags are shared by every command.
func storageFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Usage: "YAML file with default flag values"},
		&cli.StringFlag{Name: "bbolt", Usage: "bbolt database file to keep results in"},
		&cli.StringFlag{Name: "sqlite", Usage: "sqlite database file to keep results in"},
	}
}

func newApp() *cli.App {
	flags := []cli.Flag{
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Value: defaultURL, Usage: "text to analyze"},
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "local text file to analyze instead of --url"},
		&cli.IntFlag{Name: "fake", Usage: "analyze N generated sentences instead of --url"},
		&cli.DurationFlag{Name: "http-timeout", Value: 30 * time.Second},
		&cli.IntFlag{Name: "mappers", Aliases: []string{"m"}, Value: 4},
		&cli.IntFlag{Name: "reducers", Aliases: []string{"r"}, Value: 2},
		&cli.StringFlag{Name: "partition", Value: "roundrobin", Usage: "roundrobin or hash"},
		&cli.DurationFlag{Name: "phase-timeout", Usage: "fail a phase that takes longer (0 = no limit)"},
		&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Value: 10},
		&cli.IntFlag{Name: "width", Value: 50, Usage: "width of the longest bar"},
		&cli.StringFlag{Name: "run", Usage: "name to store the result under (defaults to the source)"},
		&cli.StringFlag{Name: "otel", Usage: "OTLP/HTTP endpoint (host:port) to export traces to"},
		&cli.StringFlag{Name: "log-level", Value: "warn"},
	}

	return &cli.App{
		Name:   "wordfreq",
		Usage:  "count word frequencies of a text with a concurrent map-reduce",
		Flags:  append(flags, storageFlags()...),
		Action: analyzeAction,
		Commands: []*cli.Command{
			{
				Name:   "runs",
				Usage:  "list stored runs",
				Flags:  storageFlags(),
				Action: runsAction,
			},
			{
				Name:      "show",
				Usage:     "render a stored run",
				ArgsUsage: "RUN",
				Flags: append(storageFlags(),
					&cli.IntFlag{Name: "top", Aliases: []string{"n"}, Value: 10},
					&cli.IntFlag{Name: "width", Value: 50},
				),
				Action: showAction,
			},
		},
	}
}

func analyzeAction(c *cli.Context) error {
	if err := withConfig(c); err != nil {
		return err
	}

	logger, err := newLogger(c.String("log-level"))
	if err != nil {
		return err
	}
	slog.SetDefault(logger)

	if endpoint := c.String("otel"); endpoint != "" {
		shutdown, err := tracer.Init(c.Context, endpoint)
		if err != nil {
			return fmt.Errorf("init tracer: %w", err)
		}
		defer func() {
			if err := shutdown(context.Background()); err != nil {
				logger.Warn("tracer shutdown", "err", err)
			}
		}()
	}

	partitioner, err := mapreduce.ParsePartitioner(c.String("partition"))
	if err != nil {
		return err
	}

	mr, err := mapreduce.New(
		mapreduce.Config{
			Mappers:      c.Int("mappers"),
			Reducers:     c.Int("reducers"),
			PhaseTimeout: c.Duration("phase-timeout"),
		},
		mapreduce.WithPartitioner(partitioner),
		mapreduce.WithLogger(logger),
	)
	if err != nil {
		return err
	}

	text, source, err := loadText(c)
	if err != nil {
		return err
	}
	logger.Info("text loaded", "source", source, "bytes", len(text))

	start := time.Now()
	counts, err := mr.Run(c.Context, text)
	if err != nil {
		return fmt.Errorf("analyze %s: %w", source, err)
	}
	logger.Info("analysis done", "words", len(counts), "elapsed", time.Since(start), "stats", mr.Stats().String())

	run := c.String("run")
	if run == "" {
		run = source
	}
	if err := save(c, run, counts); err != nil {
		return err
	}

	return render(c, counts)
}

func runsAction(c *cli.Context) error {
	if err := withConfig(c, "bbolt", "sqlite"); err != nil {
		return err
	}

	storage, closeFn, err := openStorage(c)
	if err != nil {
		return err
	}
	defer closeFn()

	runs, err := storage.Runs(c.Context)
	if err != nil {
		return err
	}

	for _, run := range runs {
		fmt.Fprintln(c.App.Writer, run)
	}

	return nil
}

func showAction(c *cli.Context) error {
	run := c.Args().First()
	if run == "" {
		return errors.New("show: run name required")
	}

	if err := withConfig(c, "bbolt", "sqlite", "top"); err != nil {
		return err
	}

	storage, closeFn, err := openStorage(c)
	if err != nil {
		return err
	}
	defer closeFn()

	counts, err := storage.Load(c.Context, run)
	if err != nil {
		return err
	}

	return render(c, counts)
}

func render(c *cli.Context, counts map[string]int) error {
	top := topn.Top(counts, c.Int("top"))
	title := fmt.Sprintf("Top %d most frequent words (%d distinct)", len(top), len(counts))

	return topn.Render(c.App.Writer, title, top, c.Int("width"))
}

func loadText(c *cli.Context) (text, source string, err error) {
	switch {
	case c.Int("fake") > 0:
		n := c.Int("fake")
		sentences := make([]string, 0, n)
		for range n {
			sentences = append(sentences, gofakeit.Sentence(gofakeit.IntRange(10, 20)))
		}
		return strings.Join(sentences, " "), fmt.Sprintf("fake:%d", n), nil

	case c.String("file") != "":
		path := c.String("file")
		text, err := fetcher.ReadFile(path)
		return text, path, err

	default:
		url := c.String("url")
		text, err := fetcher.NewFetcher(c.Duration("http-timeout")).Text(c.Context, url)
		if err != nil {
			return "", "", fmt.Errorf("failed to download text from %s: %w", url, err)
		}
		return text, url, nil
	}
}

// save stores counts in every configured storage.
func save(c *cli.Context, run string, counts map[string]int) error {
	if path := c.String("bbolt"); path != "" {
		storage, err := bbolt.New(path)
		if err != nil {
			return err
		}
		defer storage.Close()

		if err := storage.Save(c.Context, run, counts); err != nil {
			return err
		}
	}

	if path := c.String("sqlite"); path != "" {
		storage, err := sqlite.New(path)
		if err != nil {
			return err
		}
		defer storage.Close()

		if err := storage.Save(c.Context, run, counts); err != nil {
			return err
		}
	}

	return nil
}

// openStorage opens the storage to read from, bbolt taking precedence.
func openStorage(c *cli.Context) (mapreduce.Storage, func(), error) {
	if path := c.String("bbolt"); path != "" {
		storage, err := bbolt.New(path)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() { _ = storage.Close() }, nil
	}

	if path := c.String("sqlite"); path != "" {
		storage, err := sqlite.New(path)
		if err != nil {
			return nil, nil, err
		}
		return storage, func() { _ = storage.Close() }, nil
	}

	return nil, nil, errors.New("no storage configured, use --bbolt or --sqlite")
}

func newLogger(level string) (*slog.Logger, error) {
	var lvl slog.Level
	if err := lvl.UnmarshalText([]byte(level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", level, err)
	}

	return slog.New(slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{Level: lvl})), nil
}
