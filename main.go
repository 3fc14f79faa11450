package main

import (
	"fmt"
	"os"

	"github.com/urfave/cli/v2"

	"github.com/dtnitsch/chartbuddy/internal/analyze"
	"github.com/dtnitsch/chartbuddy/internal/db"
	"github.com/dtnitsch/chartbuddy/internal/serve"
	"github.com/dtnitsch/chartbuddy/internal/tui"
	"github.com/dtnitsch/chartbuddy/pkg/help"
)

func main() {
	if err := newApp().Run(os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func aiFlags() []cli.Flag {
	return []cli.Flag{
		&cli.StringFlag{Name: "model", Usage: "model name (overrides ai.model)"},
		&cli.StringFlag{Name: "ai-url", Usage: "Ollama base URL (overrides ai.base_url)"},
	}
}

func pageFlags() []cli.Flag {
	return append([]cli.Flag{
		&cli.StringFlag{Name: "file", Aliases: []string{"f"}, Usage: "HTML file to open"},
		&cli.StringFlag{Name: "url", Aliases: []string{"u"}, Usage: "http(s) page to open"},
		&cli.StringFlag{Name: "server", Usage: "background URL (default: run the analysis in-process)"},
	}, aiFlags()...)
}

func newApp() *cli.App {
	return &cli.App{
		Name:  "chartbuddy",
		Usage: "drag a marker onto a chart and get an AI read of it",
		Flags: []cli.Flag{
			&cli.StringFlag{Name: "config", Aliases: []string{"c"}, Value: "chartbuddy.yaml", Usage: "YAML config file (missing file means defaults)"},
			&cli.StringFlag{Name: "db", Usage: "SQLite database path (default: next to the binary)"},
			&cli.BoolFlag{Name: "quiet", Aliases: []string{"q"}, Usage: "only log errors"},
			&cli.BoolFlag{Name: "verbose", Aliases: []string{"v"}, Usage: "log debug output"},
		},
		Commands: []*cli.Command{
			{
				Name:  "analyze",
				Usage: "drop the widget at --x/--y on a page and print the analysis",
				Flags: append([]cli.Flag{
					&cli.IntFlag{Name: "x", Required: true, Usage: "drop point x in page pixels"},
					&cli.IntFlag{Name: "y", Required: true, Usage: "drop point y in page pixels"},
					&cli.IntFlag{Name: "from-x", Usage: "grab point x (default: widget centre)"},
					&cli.IntFlag{Name: "from-y", Usage: "grab point y (default: widget centre)"},
				}, pageFlags()...),
				Action: analyze.AnalyzeAction,
			},
			{
				Name:  "serve",
				Usage: "run the background analysis server",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "addr", Usage: "listen address (overrides server.addr)"},
				}, aiFlags()...),
				Action: serve.ServeAction,
			},
			{
				Name:  "recall",
				Usage: "print the last analysis",
				Flags: []cli.Flag{
					&cli.StringFlag{Name: "format", Value: "text", Usage: "text, json or yaml"},
				},
				Action: db.RecallAction,
			},
			{
				Name:      "history",
				Usage:     "list recent analyses, or show one by id",
				ArgsUsage: "[id]",
				Flags: []cli.Flag{
					&cli.IntFlag{Name: "limit", Aliases: []string{"n"}, Value: 20, Usage: "rows to list"},
					&cli.StringFlag{Name: "format", Value: "text", Usage: "text, json or yaml (with an id)"},
				},
				Action: db.HistoryAction,
			},
			{
				Name:  "quickstart",
				Usage: "print a YAML cheat sheet",
				Action: func(c *cli.Context) error {
					fmt.Print(help.ColdstartYAML)
					return nil
				},
			},
			{
				Name:  "tui",
				Usage: "open a page in the terminal and drag the widget with the mouse",
				Flags: append([]cli.Flag{
					&cli.StringFlag{Name: "log-file", Usage: "write logs here while the tui runs"},
				}, pageFlags()...),
				Action: tui.TUIAction,
			},
		},
	}
}
