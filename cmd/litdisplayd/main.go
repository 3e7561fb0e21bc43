// cmd/litdisplayd/main.go - Headless display pipeline (update, render, display)
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/exec"
	"time"

	"litdisplay/config"
	"litdisplay/database"
	"litdisplay/scripture"
	"litdisplay/services"
	"litdisplay/utils"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// pipeline bundles the services the subcommands share. Built once per
// invocation in the root PersistentPreRunE.
type pipeline struct {
	cfg     *config.Config
	log     *zap.Logger
	days    *services.DayService
	images  *services.ImageService
	display *services.DisplayService
}

var (
	pl   *pipeline
	date string
)

func main() {
	root := &cobra.Command{
		Use:   "litdisplayd",
		Short: "Liturgical eInk display pipeline",
		Long:  "Assembles the day's liturgical data, renders it to an image, and pushes it to the eInk panel.",
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			var err error
			pl, err = buildPipeline()
			return err
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if pl != nil {
				pl.log.Sync()
				database.CloseDB()
			}
		},
		SilenceUsage: true,
	}
	root.PersistentFlags().StringVar(&date, "date", "", "date to process (YYYY-MM-DD, default today)")

	root.AddCommand(updateCmd(), renderCmd(), displayCmd(), runCmd())

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func buildPipeline() (*pipeline, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	zlog, err := zap.NewProduction()
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}

	if err := database.InitDB(cfg.DatabaseURL); err != nil {
		return nil, fmt.Errorf("database init: %w", err)
	}
	db := database.GetDB()

	scriptura := services.NewScripturaClient(cfg.ScripturaURL, zlog)
	verses := services.NewVerseStore(db, scriptura,
		time.Duration(cfg.ChapterTTLHours)*time.Hour, zlog)

	opts := []scripture.Option{
		scripture.WithVersion(cfg.BibleVersion),
		scripture.WithLogger(zlog),
	}
	if cfg.DelegateParsing {
		opts = append(opts, scripture.WithDelegatedParsing())
	}
	resolver, err := scripture.NewResolver(verses, opts...)
	if err != nil {
		return nil, fmt.Errorf("build resolver: %w", err)
	}

	calendar := services.NewCalendarClient(cfg.CalendarURL, zlog)
	reflections := services.NewReflectionService(db, cfg.OpenAIKey, cfg.OpenAIModel, cfg.OpenAIBaseURL, zlog)
	wikipedia := services.NewWikipediaService(db,
		time.Duration(cfg.WikipediaTTLHours)*time.Hour, zlog)
	days := services.NewDayService(db, calendar, resolver, reflections, wikipedia, zlog)

	images, err := services.NewImageService(cfg.CacheDir, cfg.RenderCommand, zlog)
	if err != nil {
		return nil, fmt.Errorf("init image cache: %w", err)
	}
	display := services.NewDisplayService(cfg.EpdrawPath, cfg.VCOM, zlog)

	return &pipeline{
		cfg:     cfg,
		log:     zlog,
		days:    days,
		images:  images,
		display: display,
	}, nil
}

func targetDate() (string, error) {
	if date == "" {
		return utils.Today(), nil
	}
	if !utils.ValidDate(date) {
		return "", fmt.Errorf("invalid date %q, expected YYYY-MM-DD", date)
	}
	return date, nil
}

func updateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "update",
		Short: "Assemble and cache the day's liturgical data",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := targetDate()
			if err != nil {
				return err
			}
			day, err := pl.days.Refresh(cmd.Context(), d)
			if err != nil {
				return fmt.Errorf("update %s: %w", d, err)
			}
			pl.log.Info("day updated",
				zap.String("date", day.Date),
				zap.String("name", day.Name),
				zap.String("season", day.Season))
			return nil
		},
	}
}

func renderCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "render",
		Short: "Render the day's image",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := targetDate()
			if err != nil {
				return err
			}
			path, err := pl.images.Generate(cmd.Context(), d, "png")
			if err != nil {
				return fmt.Errorf("render %s: %w", d, err)
			}
			pl.log.Info("image rendered", zap.String("path", path))
			fmt.Println(path)
			return nil
		},
	}
}

func displayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "display",
		Short: "Push the day's image to the eInk panel",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := targetDate()
			if err != nil {
				return err
			}
			path, err := pl.images.Generate(cmd.Context(), d, "png")
			if err != nil {
				return fmt.Errorf("render %s: %w", d, err)
			}
			return pl.display.Show(cmd.Context(), path)
		},
	}
}

func runCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "run",
		Short: "Full pipeline: update, render, display",
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := targetDate()
			if err != nil {
				return err
			}
			ctx := cmd.Context()

			if _, err := pl.days.Refresh(ctx, d); err != nil {
				return fmt.Errorf("update %s: %w", d, err)
			}
			path, err := pl.images.Generate(ctx, d, "png")
			if err != nil {
				return fmt.Errorf("render %s: %w", d, err)
			}
			if err := pl.display.Show(ctx, path); err != nil {
				return err
			}

			if pl.cfg.ShutdownAfterDisplay {
				pl.log.Info("display updated, powering off")
				return shutdown(ctx)
			}
			return nil
		},
	}
}

// shutdown powers the host off after a display update. Battery deployments
// wake on an RTC alarm and run the pipeline once per day.
func shutdown(ctx context.Context) error {
	cmd := exec.CommandContext(ctx, "sudo", "shutdown", "-h", "now")
	if out, err := cmd.CombinedOutput(); err != nil {
		log.Printf("shutdown failed: %v: %s", err, out)
		return err
	}
	return nil
}
