package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"forge/internal/chunk"
	"forge/internal/embedding"
	"forge/internal/logging"
	"forge/internal/workspace"
)

var watchIndex bool

var indexCmd = &cobra.Command{
	Use:   "index",
	Short: "(Re)chunk and (re)embed the workspace for the Hybrid Retriever",
	Long: `Walks the workspace, skipping the usual dependency and build-output
directories, chunks every source file, and embeds any chunk whose file
content hash has changed since the last run. Safe to run repeatedly:
unchanged files are skipped.`,
	RunE: runIndex,
}

func init() {
	indexCmd.Flags().BoolVar(&watchIndex, "watch", false, "keep running and re-index on file changes")
}

func runIndex(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	root, err := filepath.Abs(workspaceDir)
	if err != nil {
		return err
	}

	engine, err := embedding.NewEngine(embedding.Config{
		Provider:       cfg.Embedding.Provider,
		OllamaEndpoint: cfg.Embedding.OllamaEndpoint,
		OllamaModel:    cfg.Embedding.OllamaModel,
		GenAIAPIKey:    cfg.Embedding.GenAIAPIKey,
		GenAIModel:     cfg.Embedding.GenAIModel,
		TaskType:       cfg.Embedding.TaskType,
	})
	if err != nil {
		return fmt.Errorf("build embedding engine: %w", err)
	}

	store, err := chunk.Open(filepath.Join(root, ".forge", "embeddings.db"), engine.Dimensions())
	if err != nil {
		return fmt.Errorf("open embedding cache: %w", err)
	}
	defer store.Close()

	pipeline := &chunk.Pipeline{Engine: engine, Store: store}

	if err := reindex(cmd.Context(), pipeline, root, cmd); err != nil {
		return err
	}
	if !watchIndex {
		return nil
	}

	ws, err := workspace.New(root)
	if err != nil {
		return fmt.Errorf("open workspace for watch mode: %w", err)
	}

	return ws.Watch(cmd.Context(), 500*time.Millisecond, func(changed []string) {
		if !anySourceFile(changed) {
			return
		}
		if err := reindex(cmd.Context(), pipeline, root, cmd); err != nil {
			logging.ChunkWarn("watch: re-index failed: %v", err)
		}
	})
}

func anySourceFile(paths []string) bool {
	for _, p := range paths {
		if embedding.IsSourceFile(p) {
			return true
		}
	}
	return false
}

func reindex(ctx context.Context, pipeline *chunk.Pipeline, root string, cmd *cobra.Command) error {
	paths, err := sourceFiles(root)
	if err != nil {
		return err
	}

	n, err := pipeline.Run(ctx, paths)
	if err != nil {
		return fmt.Errorf("index workspace: %w", err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "embedded %d chunks across %d candidate files\n", n, len(paths))
	return nil
}

// sourceFiles walks root for embeddable source files, skipping the same
// directories the Isolated Workspace's sandbox refuses to copy.
func sourceFiles(root string) ([]string, error) {
	var paths []string
	err := filepath.Walk(root, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			if workspace.DenyDirs[info.Name()] {
				return filepath.SkipDir
			}
			return nil
		}
		if embedding.IsSourceFile(path) {
			paths = append(paths, path)
		}
		return nil
	})
	return paths, err
}
