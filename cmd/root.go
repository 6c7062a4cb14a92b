package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/IchaiWiz/chat-gpt-insight/internal/archive"
	"github.com/IchaiWiz/chat-gpt-insight/internal/config"
	"github.com/IchaiWiz/chat-gpt-insight/internal/log"
	"github.com/IchaiWiz/chat-gpt-insight/internal/model"
	"github.com/IchaiWiz/chat-gpt-insight/internal/pipeline"
	"github.com/IchaiWiz/chat-gpt-insight/internal/pricing"
	"github.com/IchaiWiz/chat-gpt-insight/internal/store"
)

var (
	flagArchive   string
	flagPriceFile string
	flagPeriod    string
	flagStart     string
	flagEnd       string
	flagNoCache   bool
	flagQuiet     bool
	flagVerbose   bool
)

var rootCmd = &cobra.Command{
	Use:   "gptinsight",
	Short: "ChatGPT archive analyzer",
	Long:  "Analyze your exported ChatGPT conversations: costs, tokens, text metrics, and more.",
	RunE:  runSummary,
}

// Execute is the main entry point called from main.go.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagArchive, "archive", "a", "", "Path to the conversations.json export")
	rootCmd.PersistentFlags().StringVar(&flagPriceFile, "prices", "", "Path to the price table JSON")
	rootCmd.PersistentFlags().StringVarP(&flagPeriod, "period", "p", "", "Bucketing period (hourly, daily, weekly, monthly, quarterly, semi-annually, yearly)")
	rootCmd.PersistentFlags().StringVar(&flagStart, "start", "", "Start date for filtered statistics (YYYY-MM-DD, inclusive)")
	rootCmd.PersistentFlags().StringVar(&flagEnd, "end", "", "End date for filtered statistics (YYYY-MM-DD, inclusive)")
	rootCmd.PersistentFlags().BoolVar(&flagNoCache, "no-cache", false, "Skip SQLite cache, reprocess the archive")
	rootCmd.PersistentFlags().BoolVarP(&flagQuiet, "quiet", "q", false, "Suppress progress output")
	rootCmd.PersistentFlags().BoolVarP(&flagVerbose, "verbose", "v", false, "Enable debug logging")
}

// runContext bundles everything the commands need after loading.
type runContext struct {
	Config  config.Config
	Prices  *pricing.Table
	Entries []model.ConversationEntry
}

// loadEntries is the shared loading path used by all commands: resolve
// the archive, reuse the SQLite cache when the file is unchanged, and
// otherwise read and flatten the archive from scratch.
func loadEntries() (*runContext, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	log.Setup(filepath.Join(config.CacheDir(cfg), "gptinsight.log"), flagVerbose)

	archivePath := flagArchive
	if archivePath == "" {
		archivePath = cfg.General.ArchivePath
	}
	if archivePath == "" {
		return nil, fmt.Errorf("no archive configured: pass --archive or run `gptinsight setup`")
	}

	prices, err := loadPrices(cfg)
	if err != nil {
		return nil, err
	}

	rc := &runContext{Config: cfg, Prices: prices}

	fi, err := os.Stat(archivePath)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", archivePath, err)
	}
	mtimeNs := fi.ModTime().UnixNano()
	size := fi.Size()

	useCache := !flagNoCache && !cfg.General.NoCache
	var cache *store.Cache
	if useCache {
		cache, err = store.Open(filepath.Join(config.CacheDir(cfg), "cache.db"))
		if err != nil {
			// Cache open failed; fall back to a full reprocess.
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache unavailable, reprocessing archive\n")
			}
			cache = nil
		} else {
			defer func() { _ = cache.Close() }()
		}
	}

	if cache != nil {
		fresh, err := cache.IsFresh(archivePath, mtimeNs, size)
		if err == nil && fresh {
			entries, err := cache.LoadEntries(archivePath)
			if err == nil {
				slog.Debug("cache hit", "archive", archivePath, "conversations", len(entries))
				if !flagQuiet {
					fmt.Fprintf(os.Stderr, "  Loaded %d conversations from cache\n", len(entries))
				}
				rc.Entries = entries
				return rc, nil
			}
			slog.Warn("cache read failed", "archive", archivePath, "error", err)
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache read failed, reprocessing archive\n")
			}
		}
	}

	convs, err := archive.ReadFile(archivePath)
	if err != nil {
		return nil, fmt.Errorf("reading archive: %w", err)
	}

	var bar *progressbar.ProgressBar
	if !flagQuiet {
		bar = progressbar.NewOptions(len(convs),
			progressbar.OptionSetDescription("Processing conversations"),
			progressbar.OptionSetWriter(os.Stderr),
			progressbar.OptionClearOnFinish(),
			progressbar.OptionShowCount(),
		)
	}

	rc.Entries = pipeline.BuildEntries(convs, pipeline.Options{
		Prices:              prices,
		ShowMessageText:     cfg.Analysis.ShowMessageText,
		AnalyzeContentTypes: cfg.Analysis.AnalyzeContentTypes,
	}, func(current, total int) {
		if bar != nil {
			_ = bar.Set(current)
		}
	})
	if bar != nil {
		_ = bar.Finish()
	}

	slog.Info("processed archive", "archive", archivePath, "conversations", len(rc.Entries))

	if cache != nil {
		if err := cache.SaveEntries(archivePath, rc.Entries, mtimeNs, size); err != nil {
			slog.Warn("cache write failed", "error", err)
			if !flagQuiet {
				fmt.Fprintf(os.Stderr, "  Cache write failed: %v\n", err)
			}
		}
	}

	if !flagQuiet {
		fmt.Fprintf(os.Stderr, "  Processed %d conversations\n", len(rc.Entries))
	}
	return rc, nil
}

// loadPrices resolves the price table from the flag, the config, or
// the built-in defaults, in that order.
func loadPrices(cfg config.Config) (*pricing.Table, error) {
	path := flagPriceFile
	if path == "" {
		path = cfg.General.PriceFile
	}
	if path == "" {
		return pricing.DefaultTable(), nil
	}
	t, err := pricing.Load(path)
	if err != nil {
		return nil, fmt.Errorf("loading price table: %w", err)
	}
	return t, nil
}

// dateRange parses the --start/--end flags. A missing flag leaves that
// bound open; --end covers the whole end day.
func dateRange() (time.Time, time.Time, error) {
	var start, end time.Time
	var err error
	if flagStart != "" {
		start, err = time.ParseInLocation("2006-01-02", flagStart, time.UTC)
		if err != nil {
			return start, end, fmt.Errorf("invalid --start date: %w", err)
		}
	}
	if flagEnd != "" {
		end, err = time.ParseInLocation("2006-01-02", flagEnd, time.UTC)
		if err != nil {
			return start, end, fmt.Errorf("invalid --end date: %w", err)
		}
		end = end.Add(24*time.Hour - time.Nanosecond)
	}
	return start, end, nil
}
