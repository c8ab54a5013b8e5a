package main

import (
	"errors"
	"fmt"
	"log"
	"log/slog"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/scipunch/rsslist/app"
	"github.com/scipunch/rsslist/config"
)

func main() {
	if os.Getenv("DEBUG") != "" {
		slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})))
	}

	if err := rootApp().Run(os.Args); err != nil {
		log.Fatal(err)
	}
}

func rootApp() *cli.App {
	return &cli.App{
		Name:  "rss-list",
		Usage: "Aggregate your RSS and Atom subscriptions into one list",
		Description: `Sources are kept one URL per line in sources.txt inside the
		configuration directory ($XDG_CONFIG_HOME/rss-list or ~/.config/rss-list).
		Every reload fetches all sources in parallel and prints the posts
		newest first, followed by any sources that failed.`,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Usage:   "path to a TOML config",
				EnvVars: []string{"RSS_LIST_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "list",
				Usage:  "Print subscribed sources",
				Action: listAction,
			},
			{
				Name:      "add",
				Usage:     "Subscribe to a source and reload",
				ArgsUsage: "URL",
				Flags:     []cli.Flag{limitFlag()},
				Action:    addAction,
			},
			{
				Name:      "replace",
				Usage:     "Overwrite the source list",
				ArgsUsage: "URL...",
				Action:    replaceAction,
			},
			{
				Name:   "reload",
				Usage:  "Fetch every source and print the posts",
				Flags:  []cli.Flag{limitFlag()},
				Action: reloadAction,
			},
		},
		Action: func(ctx *cli.Context) error {
			return reloadAction(ctx)
		},
	}
}

func limitFlag() cli.Flag {
	return &cli.IntFlag{
		Name:  "limit",
		Usage: "maximum number of posts to print (0 = all)",
	}
}

// openApp reads the config, creating the default one on first run.
func openApp(ctx *cli.Context) (*app.App, error) {
	cfgPath := ctx.String("config")
	isDefault := cfgPath == ""
	if isDefault {
		var err error
		cfgPath, err = config.DefaultPath()
		if err != nil {
			return nil, err
		}
	}

	conf, err := config.Read(cfgPath)
	if errors.Is(err, os.ErrNotExist) && isDefault {
		if err := config.Write(cfgPath, conf); err != nil {
			return nil, fmt.Errorf("failed to write default config with %w", err)
		}
	} else if err != nil {
		return nil, fmt.Errorf("failed to read config with %w", err)
	}

	return app.Open(conf)
}

func listAction(ctx *cli.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	sources, err := a.ListSources()
	if err != nil {
		return err
	}
	for _, s := range sources {
		fmt.Fprintln(ctx.App.Writer, s)
	}
	return nil
}

func addAction(ctx *cli.Context) error {
	if ctx.NArg() != 1 {
		return cli.Exit("add expects exactly one URL", 2)
	}
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	if err := a.AddSource(ctx.Args().First()); err != nil {
		return err
	}
	return follow(a, newRenderer(ctx.App.Writer), ctx.Int("limit"))
}

func replaceAction(ctx *cli.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	if err := a.ReplaceSources(ctx.Args().Slice()); err != nil {
		return err
	}
	newRenderer(ctx.App.Writer).info(fmt.Sprintf("Replaced source list with %d entries", ctx.NArg()))
	return nil
}

func reloadAction(ctx *cli.Context) error {
	a, err := openApp(ctx)
	if err != nil {
		return err
	}
	a.Reload()
	return follow(a, newRenderer(ctx.App.Writer), ctx.Int("limit"))
}

// follow renders events until the first reload reaches a terminal event.
func follow(a *app.App, r *renderer, limit int) error {
	var failed int
	for evt := range a.Events() {
		switch e := evt.(type) {
		case app.SourceAdded:
			r.info("Added source " + e.Source)
		case app.ReloadStarted:
			slog.Debug("reload started", "id", e.ID)
		case app.ReloadError:
			failed++
			r.err(e.Err.Error())
		case app.ReloadFailed:
			return e.Err
		case app.ReloadComplete:
			r.posts(e.Posts(), limit)
			r.summary(len(e.Feeds), failed)
			return nil
		}
	}
	return nil
}
