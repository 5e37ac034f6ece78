// Command chatstats builds a word cloud and a top-responder ranking from an
// exported chat transcript. Given a directory instead of a file, it analyzes
// every export that lands there.
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/cockroachdb/errors"

	"github.com/0xcro3dile/chatstats-go/internal/adapters/filewatcher"
	"github.com/0xcro3dile/chatstats-go/internal/adapters/loader"
	"github.com/0xcro3dile/chatstats-go/internal/adapters/normalizer"
	"github.com/0xcro3dile/chatstats-go/internal/adapters/report"
	"github.com/0xcro3dile/chatstats-go/internal/adapters/wordcloud"
	"github.com/0xcro3dile/chatstats-go/internal/config"
	"github.com/0xcro3dile/chatstats-go/internal/domain/entities"
	"github.com/0xcro3dile/chatstats-go/internal/domain/ports"
	"github.com/0xcro3dile/chatstats-go/internal/domain/usecases"
	"github.com/0xcro3dile/chatstats-go/internal/logger"
)

func main() {
	transcript := flag.String("transcript", "result.json", "path to the exported chat JSON, or a directory to watch for exports")
	outDir := flag.String("out", ".", "output directory")
	flag.Parse()

	cfg, err := config.Load(config.DefaultPath)
	if err != nil {
		fmt.Fprintln(os.Stderr, "chatstats:", err)
		os.Exit(1)
	}
	logger.Setup(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, *transcript, *outDir); err != nil {
		slog.Error("chatstats failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg config.Config, transcript, outDir string) error {
	info, err := os.Stat(transcript)
	if err != nil {
		return errors.Wrap(err, "transcript")
	}

	analysis, err := build(ctx, cfg)
	if err != nil {
		return err
	}

	if info.IsDir() {
		return watch(ctx, analysis, transcript, outDir)
	}

	rep, err := analysis.Run(ctx, transcript, outDir)
	if err != nil {
		return err
	}
	printRanking(rep.TopResponders)
	return nil
}

// build loads every resource once and wires the use cases.
func build(ctx context.Context, cfg config.Config) (*usecases.AnalysisUseCase, error) {
	norm, err := normalizer.NewPersianNormalizer(cfg.Normalizer.CacheSize)
	if err != nil {
		return nil, err
	}

	slog.Info("loading stop words", "path", cfg.Resources.StopWords)
	stopWords, err := loader.LoadStopWords(ctx, cfg.Resources.StopWords, norm)
	if err != nil {
		return nil, err
	}

	renderer, err := wordcloud.NewRenderer(cfg.Resources.Font, wordcloud.Options{
		Width:       cfg.Cloud.Width,
		Height:      cfg.Cloud.Height,
		Background:  cfg.Cloud.Background,
		MaxFontSize: cfg.Cloud.MaxFontSize,
		MinFontSize: cfg.Cloud.MinFontSize,
		MaxWords:    cfg.Cloud.MaxWords,
		FileName:    cfg.Cloud.FileName,
	})
	if err != nil {
		return nil, err
	}

	stats := usecases.NewStatisticsUseCase(norm, stopWords, renderer, cfg.Stats.TopN)
	return usecases.NewAnalysisUseCase(loader.NewJSONLoader(), stats, report.NewJSONWriter()), nil
}

// watch runs one full analysis per export file written into dir, each into
// its own sub-directory of outDir, until ctx is cancelled.
func watch(ctx context.Context, analysis *usecases.AnalysisUseCase, dir, outDir string) error {
	w, err := filewatcher.NewFSNotifyWatcher([]string{".json"}, filewatcher.DefaultQuiet)
	if err != nil {
		return err
	}
	defer w.Stop()

	events, err := w.Watch(ctx, dir)
	if err != nil {
		return err
	}
	slog.Info("watching for exports", "dir", dir)

	for ev := range events {
		if ev.Operation == ports.FileDeleted {
			continue
		}
		slog.Info("export detected", "path", ev.Path, "op", ev.Operation)

		name := strings.TrimSuffix(filepath.Base(ev.Path), filepath.Ext(ev.Path))
		rep, err := analysis.Run(ctx, ev.Path, filepath.Join(outDir, name))
		if err != nil {
			slog.Error("analysis failed", "path", ev.Path, "error", err)
			continue
		}
		printRanking(rep.TopResponders)
	}
	return nil
}

func printRanking(ranking []entities.ResponderCount) {
	for i, rc := range ranking {
		fmt.Printf("%d. %s\t%d\n", i+1, rc.Responder, rc.Count)
	}
}
