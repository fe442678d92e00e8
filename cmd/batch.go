package main

import (
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/Preet37/Loomin/internal/model"
)

var batchConcurrency int

var batchCmd = &cobra.Command{
	Use:   "batch <dir>",
	Short: "Evaluate every note file in a directory",
	Long:  "Runs the pipeline over each .md/.txt file in the directory concurrently and reports per-file verdicts.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()
		dir := args[0]

		entries, err := os.ReadDir(dir)
		if err != nil {
			return eris.Wrapf(err, "read dir %s", dir)
		}

		var files []string
		for _, entry := range entries {
			if entry.IsDir() {
				continue
			}
			switch strings.ToLower(filepath.Ext(entry.Name())) {
			case ".md", ".txt":
				files = append(files, filepath.Join(dir, entry.Name()))
			}
		}
		if len(files) == 0 {
			zap.L().Info("no note files found", zap.String("dir", dir))
			return nil
		}

		e, err := initEnv(ctx)
		if err != nil {
			return err
		}
		defer e.Close()

		concurrency := batchConcurrency
		if concurrency <= 0 {
			concurrency = cfg.Batch.Concurrency
		}

		g, gCtx := errgroup.WithContext(ctx)
		g.SetLimit(concurrency)

		var mu sync.Mutex
		counts := map[model.Status]int{}

		for _, file := range files {
			file := file
			g.Go(func() error {
				notes, err := os.ReadFile(file)
				if err != nil {
					return eris.Wrapf(err, "read %s", file)
				}

				result, err := e.Pipeline.Evaluate(gCtx, string(notes))
				if err != nil {
					zap.L().Warn("batch: evaluation failed",
						zap.String("file", file),
						zap.Error(err),
					)
					return nil
				}

				mu.Lock()
				counts[result.Simulation.Status]++
				mu.Unlock()

				zap.L().Info("batch: evaluated",
					zap.String("file", file),
					zap.String("topic", string(result.Extraction.Topic)),
					zap.String("status", string(result.Simulation.Status)),
				)
				return nil
			})
		}

		if err := g.Wait(); err != nil {
			return err
		}

		zap.L().Info("batch complete",
			zap.Int("files", len(files)),
			zap.Int("optimal", counts[model.StatusOptimal]),
			zap.Int("warning", counts[model.StatusWarning]),
			zap.Int("critical", counts[model.StatusCriticalFailure]),
		)
		return nil
	},
}

func init() {
	batchCmd.Flags().IntVar(&batchConcurrency, "concurrency", 0, "max concurrent evaluations (default from config)")
	rootCmd.AddCommand(batchCmd)
}
