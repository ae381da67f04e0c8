package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"financer/internal/bankparser"
	"financer/internal/dto"
	"financer/internal/repository"
	"financer/internal/service"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

type statementImporter interface {
	ImportFromCSV(ctx context.Context, content string, userID int64) (*dto.ImportReport, error)
	ImportFromBankCSV(ctx context.Context, content, bankCode string, userID int64) (*dto.ImportReport, error)
}

type importOptions struct {
	userID    int64
	bankCode  string
	cacheFile string
	force     bool
}

// importSummary totals the reports of every file processed in one run.
type importSummary struct {
	Files     int
	Unchanged int
	Failed    int
	Imported  int
	Skipped   int
	Dropped   int
}

func importCmd() *cobra.Command {
	opts := importOptions{}

	cmd := &cobra.Command{
		Use:   "import [file or directory]...",
		Short: "Import bank statement CSV files for a user",
		Long: `Imports TBC or Bank of Georgia statement exports for one user.

Directories are scanned for *.csv files. Files whose content did not change
since the last successful import are skipped; use --force to import them again.
Transactions already stored for the user are never duplicated.`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runImport(cmd.Context(), opts, args)
		},
	}

	cmd.Flags().Int64VarP(&opts.userID, "user", "u", 0, "ID of the user that owns the imported transactions")
	cmd.Flags().StringVarP(&opts.bankCode, "bank", "b", "", "Bank code (tbc, bog); detected from the file when empty")
	cmd.Flags().StringVar(&opts.cacheFile, "cache", filepath.Join("cmd", "seed", ".import_cache.json"), "File that remembers already imported statements")
	cmd.Flags().BoolVar(&opts.force, "force", false, "Import files even if they are unchanged since the last run")
	_ = cmd.MarkFlagRequired("user")

	return cmd
}

func runImport(ctx context.Context, opts importOptions, paths []string) error {
	if opts.bankCode != "" {
		if _, err := bankparser.NewRegistry().ByCode(opts.bankCode); err != nil {
			return err
		}
	}

	files, err := collectCSVFiles(paths)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		return errors.New("no CSV files found")
	}

	env, err := setup(ctx)
	if err != nil {
		return err
	}
	defer env.Close()

	users := repository.NewUserRepository(env.db, env.log)
	if _, err := users.GetByID(ctx, opts.userID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("user %d does not exist", opts.userID)
		}
		return fmt.Errorf("failed to look up user: %w", err)
	}

	importer := service.NewImportService(
		bankparser.NewRegistry(),
		repository.NewTransactionRepository(env.db, env.log),
		env.categories,
		env.log,
	)

	cache, err := loadCache(opts.cacheFile)
	if err != nil {
		env.log.Warn("Failed to load cache, will import all files", zap.Error(err))
		cache = newCacheData()
	}

	summary, runErr := importFiles(ctx, importer, files, opts, cache, env.log)

	if err := saveCache(opts.cacheFile, cache); err != nil {
		env.log.Warn("Failed to save cache", zap.Error(err))
	}

	env.log.Info("Import finished",
		zap.Int("files", summary.Files),
		zap.Int("unchanged", summary.Unchanged),
		zap.Int("failed", summary.Failed),
		zap.Int("imported", summary.Imported),
		zap.Int("skipped", summary.Skipped),
		zap.Int("dropped", summary.Dropped),
	)

	return runErr
}

// importFiles imports each file in order and records the successful ones in
// cache. It stops at the first context error.
func importFiles(
	ctx context.Context,
	importer statementImporter,
	files []string,
	opts importOptions,
	cache *CacheData,
	logger *zap.Logger,
) (importSummary, error) {
	var summary importSummary

	for _, path := range files {
		if err := ctx.Err(); err != nil {
			return summary, err
		}
		summary.Files++

		fileHash, err := calculateFileHash(path)
		if err != nil {
			logger.Warn("Failed to calculate file hash, will import anyway", zap.String("path", path), zap.Error(err))
		}

		if cached, ok := cache.unchanged(opts.userID, path, fileHash); ok && !opts.force {
			logger.Info("Statement already imported, skipping",
				zap.String("path", path),
				zap.Time("imported_at", cached.ImportedAt),
			)
			summary.Unchanged++
			continue
		}

		content, err := os.ReadFile(path)
		if err != nil {
			logger.Error("Failed to read statement", zap.String("path", path), zap.Error(err))
			summary.Failed++
			continue
		}

		var report *dto.ImportReport
		if opts.bankCode != "" {
			report, err = importer.ImportFromBankCSV(ctx, string(content), opts.bankCode, opts.userID)
		} else {
			report, err = importer.ImportFromCSV(ctx, string(content), opts.userID)
		}
		if report != nil {
			summary.Imported += report.Imported
			summary.Skipped += report.Skipped
			summary.Dropped += report.Dropped
		}
		if err != nil {
			if ctx.Err() != nil {
				return summary, err
			}
			logger.Error("Failed to import statement", zap.String("path", path), zap.Error(err))
			summary.Failed++
			continue
		}

		logger.Info("Imported statement",
			zap.String("path", path),
			zap.String("bank", report.Bank),
			zap.Int("imported", report.Imported),
			zap.Int("skipped", report.Skipped),
			zap.Int("dropped", report.Dropped),
			zap.Int("errors", len(report.Errors)),
		)

		// rows that failed to persist are retried on the next run
		if len(report.Errors) > 0 {
			summary.Failed++
			continue
		}

		cache.record(ImportedFile{
			FilePath:   path,
			FileHash:   fileHash,
			UserID:     opts.userID,
			Imported:   report.Imported,
			Skipped:    report.Skipped,
			ImportedAt: time.Now(),
		})
	}

	return summary, nil
}

// collectCSVFiles expands directories into the *.csv files below them.
// Plain file arguments are kept as given.
func collectCSVFiles(paths []string) ([]string, error) {
	var files []string
	seen := make(map[string]bool)

	add := func(path string) {
		if !seen[path] {
			seen[path] = true
			files = append(files, path)
		}
	}

	for _, root := range paths {
		info, err := os.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("failed to stat %s: %w", root, err)
		}
		if !info.IsDir() {
			add(root)
			continue
		}

		err = filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if !d.IsDir() && strings.EqualFold(filepath.Ext(path), ".csv") {
				add(path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", root, err)
		}
	}

	return files, nil
}
