package main

import (
	"context"
	"fmt"
	"io"
	"os/signal"
	"strings"
	"syscall"
	"text/tabwriter"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aliskhannn/kural-wallpaper/internal/config"
	"github.com/aliskhannn/kural-wallpaper/internal/delivery/telegram"
	"github.com/aliskhannn/kural-wallpaper/internal/infra/postgres"
	pgrepo "github.com/aliskhannn/kural-wallpaper/internal/infra/postgres/repository"
	"github.com/aliskhannn/kural-wallpaper/internal/logger"
	"github.com/aliskhannn/kural-wallpaper/internal/platform"
	"github.com/aliskhannn/kural-wallpaper/internal/render"
	"github.com/aliskhannn/kural-wallpaper/internal/repository"
	"github.com/aliskhannn/kural-wallpaper/internal/service"
)

type options struct {
	configDir string
	date      string
	number    int
	outputDir string
	noSet     bool
	list      bool
}

func newRootCmd() *cobra.Command {
	var opts options

	cmd := &cobra.Command{
		Use:           "kural-wallpaper",
		Short:         "Render a Thirukkural couplet and set it as the desktop wallpaper",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()
			return run(ctx, cmd, opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.configDir, "config", "", "directory containing config.yaml (default ./config)")
	f.StringVar(&opts.date, "date", "", "date to generate the wallpaper for, YYYY-MM-DD (default today)")
	f.IntVarP(&opts.number, "number", "n", 0, "use the couplet with this number instead of a random one")
	f.StringVarP(&opts.outputDir, "output-dir", "o", "", "directory for generated wallpapers (overrides output_dir)")
	f.BoolVar(&opts.noSet, "no-set", false, "only write the image, do not change the desktop wallpaper")
	f.BoolVar(&opts.list, "list", false, "print the available couplets and exit")

	return cmd
}

func run(ctx context.Context, cmd *cobra.Command, opts options) error {
	cfg, err := config.Load(opts.configDir)
	if err != nil {
		cmd.PrintErrln(err)
		return err
	}

	log, err := logger.New(cfg)
	if err != nil {
		cmd.PrintErrln(err)
		return err
	}
	defer func() { _ = log.Sync() }()

	if opts.list {
		verseRepo, err := repository.NewVerseRepository(cfg.DataPath)
		if err != nil {
			log.Error("failed to load verses", zap.String("path", cfg.DataPath), zap.Error(err))
			return err
		}
		return printVerses(ctx, cmd.OutOrStdout(), service.NewVerseService(verseRepo))
	}

	if err := generate(ctx, cfg, opts, log); err != nil {
		log.Error("wallpaper generation failed", zap.Error(err))
		return err
	}
	return nil
}

func generate(ctx context.Context, cfg *config.Config, opts options, log *zap.Logger) error {
	date, err := parseDate(opts.date)
	if err != nil {
		return err
	}
	if opts.outputDir != "" {
		cfg.OutputDir = opts.outputDir
	}
	if opts.noSet {
		cfg.SetWallpaper = false
	}

	verseRepo, err := repository.NewVerseRepository(cfg.DataPath)
	if err != nil {
		return fmt.Errorf("load verses from %s: %w", cfg.DataPath, err)
	}
	log.Debug("verses loaded", zap.Int("count", verseRepo.Count()))

	fontPaths := cfg.Fonts
	if len(fontPaths) == 0 {
		fontPaths = render.DefaultFontPaths()
	}
	fonts, err := render.LoadFontSet(fontPaths, log)
	if err != nil {
		return err
	}
	defer func() { _ = fonts.Close() }()

	renderer, err := render.NewRenderer(render.Options{
		Width:          cfg.Canvas.Width,
		Height:         cfg.Canvas.Height,
		BackgroundPath: cfg.BackgroundPath,
		Title:          cfg.Text.Title,
		Author:         cfg.Text.Author,
	}, fonts, log)
	if err != nil {
		return err
	}

	wallpaperService := service.NewWallpaperService(
		service.NewVerseService(verseRepo),
		renderer,
		platform.NewDesktop(),
		service.WallpaperConfig{
			OutputDir:    cfg.OutputDir,
			SetWallpaper: cfg.SetWallpaper,
			KeepDaily:    cfg.KeepDaily,
		},
		log,
	)

	if cfg.DB.Enabled() {
		history, closeDB, err := newHistory(ctx, cfg.DB)
		if err != nil {
			// History is optional; the wallpaper is still produced.
			log.Warn("history disabled", zap.Error(err))
		} else {
			defer closeDB()
			wallpaperService.SetHistory(history)
		}
	}

	if cfg.Telegram.Enabled() {
		bot, err := tgbotapi.NewBotAPI(cfg.Telegram.Token)
		if err != nil {
			log.Warn("telegram publishing disabled", zap.Error(err))
		} else {
			wallpaperService.SetPublisher(telegram.NewPublisher(bot, cfg.Telegram.ChatID, cfg.Text.Title, log))
		}
	}

	wallpaper, err := wallpaperService.Generate(ctx, service.GenerateOptions{
		Date:   date,
		Number: opts.number,
	})
	if err != nil {
		return err
	}

	log.Info("done", zap.Int("kural_no", wallpaper.Verse.Number), zap.String("path", wallpaper.Path))
	return nil
}

func newHistory(ctx context.Context, db config.DB) (*pgrepo.HistoryRepository, func(), error) {
	dsn, err := db.DSN()
	if err != nil {
		return nil, nil, err
	}

	pool, err := postgres.NewPool(ctx, dsn, postgres.PoolConfig{
		MaxConns:        int32(db.MaxConnections),
		MaxConnLifetime: db.MaxConnLifetime,
	})
	if err != nil {
		return nil, nil, err
	}

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		pool.Close()
		return nil, nil, err
	}

	return pgrepo.NewHistoryRepository(pool, postgres.NewTransactor(pool)), pool.Close, nil
}

// printVerses writes one line per couplet: number, chapter and the start
// of the explanation.
func printVerses(ctx context.Context, w io.Writer, verses *service.VerseService) error {
	all, err := verses.GetAll(ctx)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, v := range all {
		if _, err := fmt.Fprintf(tw, "%d\t%s\t%s\n", v.Number, v.Chapter, preview(v.Explanation, 60)); err != nil {
			return err
		}
	}
	return tw.Flush()
}

func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return strings.TrimSpace(string(r[:n])) + "…"
}

// parseDate parses a YYYY-MM-DD date in local time; empty means today.
func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Now(), nil
	}
	d, err := time.ParseInLocation(time.DateOnly, s, time.Local)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid --date %q: %w", s, err)
	}
	return d, nil
}
