/*
Package main implements papertimeline, a Gantt-style chart generator for
academic paper peer-review milestones.

Each paper is a sequence of dated review stages. The tool lays them out on a
shared time axis, one row per paper, annotates stage durations and total
review periods, marks today, and exports the chart as PNG (or SVG). The
paper data lives in a JSON or YAML document that every command reads and
the render commands write back.
*/
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"text/tabwriter"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var (
	storePath   string
	stylePath   string
	debugMode   bool
	outputFile  string
	formatName  string
	templateIDs []string
	strictMode  bool
	noSave      bool
	forceInit   bool
	listenAddr  string
)

var appConfig = LoadAppConfig()

var rootCmd = &cobra.Command{
	Use:   "papertimeline",
	Short: "Gantt charts of paper peer-review timelines",
	Long: `Render academic paper review milestones as a Gantt-style timeline.

Paper data is read from a JSON document (or YAML, by file extension). When no
document exists the built-in templates are used.`,
	SilenceUsage: true,
}

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Render the timeline chart to a file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		format, err := ParseFormat(formatName)
		if err != nil {
			return err
		}
		app, err := newApp(true)
		if err != nil {
			return err
		}

		var papers []Paper
		if len(templateIDs) > 0 {
			papers, err = PapersFromTemplates(time.Now(), templateIDs...)
			if err != nil {
				return err
			}
		} else {
			var source Source
			papers, source, err = app.svc.Current()
			if err != nil {
				return err
			}
			if source == SourceCorrupt && strictMode {
				return fmt.Errorf("document %s is unreadable", storePath)
			}
			app.log.Debug().Str("source", string(source)).Msg("papers loaded")
		}

		if strictMode {
			if err := ValidateDocument(NewDocument(papers)); err != nil {
				return fmt.Errorf("invalid document: %w", err)
			}
		}

		// Template renders are previews and never replace the document.
		save := !noSave && len(templateIDs) == 0
		chart, err := app.svc.Generate(papers, format, save)
		if err != nil {
			return err
		}

		path := outputFile
		if path == "" {
			path = chart.Filename
		}
		if err := os.WriteFile(path, chart.Data, 0644); err != nil {
			return fmt.Errorf("error writing chart: %w", err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Timeline chart generated successfully: %s\n", path)
		return nil
	},
}

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Seed the document from templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store := NewFileStore(storePath)
		if res := store.Load(); res.Status != LoadAbsent && !forceInit {
			return fmt.Errorf("document %s already exists, use --force to overwrite", storePath)
		}
		papers, err := PapersFromTemplates(time.Now(), templateIDs...)
		if err != nil {
			return err
		}
		if err := store.Save(papers); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %d papers to %s\n", len(papers), storePath)
		return nil
	},
}

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Print stage durations and total periods",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(false)
		if err != nil {
			return err
		}
		papers, source, err := app.svc.Current()
		if err != nil {
			return err
		}
		if source != SourceSaved {
			fmt.Fprintf(cmd.ErrOrStderr(), "No saved document (%s), showing templates\n", source)
		}
		return writeSummary(cmd.OutOrStdout(), papers, time.Now())
	},
}

var templatesCmd = &cobra.Command{
	Use:   "templates",
	Short: "List the built-in paper templates",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tDEFAULT\tDESCRIPTION")
		for _, id := range TemplateIDs() {
			t, err := LookupTemplate(id)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "%s\t%t\t%s\n", t.ID, isDefaultTemplate(id), t.Description)
		}
		return w.Flush()
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the chart and its document over HTTP",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		app, err := newApp(true)
		if err != nil {
			return err
		}
		if !debugMode {
			gin.SetMode(gin.ReleaseMode)
		}
		cfg := appConfig.Server
		if listenAddr != "" {
			cfg.Addr = listenAddr
		}
		return runServer(cfg, NewRouter(app.svc, app.log), app.log)
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&storePath, "store", appConfig.StorePath, "Paper document (.json, .yaml or .yml)")
	rootCmd.PersistentFlags().StringVar(&stylePath, "style", appConfig.StylePath, "YAML render style file (optional)")
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	renderCmd.Flags().StringVarP(&outputFile, "output", "o", "", "Output filename (default paper_timeline_<timestamp>.<format>)")
	renderCmd.Flags().StringVar(&formatName, "format", string(FormatPNG), "Output format: png or svg")
	renderCmd.Flags().StringSliceVar(&templateIDs, "template", nil, "Render these templates instead of the document (never saved)")
	renderCmd.Flags().BoolVar(&strictMode, "strict", false, "Reject unreadable or invalid documents")
	renderCmd.Flags().BoolVar(&noSave, "no-save", false, "Do not write the rendered papers back to the document")

	initCmd.Flags().StringSliceVar(&templateIDs, "template", nil, "Templates to seed (default under-review,revising)")
	initCmd.Flags().BoolVar(&forceInit, "force", false, "Overwrite an existing document")

	serveCmd.Flags().StringVar(&listenAddr, "addr", "", "Listen address (default :$PORT)")

	rootCmd.AddCommand(renderCmd, initCmd, summaryCmd, templatesCmd, serveCmd)
}

type app struct {
	log zerolog.Logger
	svc *TimelineService
}

// newApp wires logger, style, store and service from the parsed flags.
// Commands that never draw pass withRenderer=false to skip font loading.
func newApp(withRenderer bool) (*app, error) {
	log := newLogger(appConfig.Log, debugMode)

	var renderer *Renderer
	if withRenderer {
		config, err := loadConfig(stylePath)
		if err != nil {
			return nil, err
		}
		log.Debug().Str("style", stylePath).Float64("dpi", config.Layout.DPI).Msg("style loaded")
		if renderer, err = NewRenderer(config, log); err != nil {
			return nil, err
		}
	}

	svc := NewTimelineService(NewFileStore(storePath), renderer, log, nil)
	return &app{log: log, svc: svc}, nil
}

// writeSummary prints every stage with its duration, then the paper total.
func writeSummary(out io.Writer, papers []Paper, now time.Time) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "PAPER\tSTATUS\tSTAGE\tSTART\tEND\tDAYS\tONGOING")
	for _, p := range papers {
		for i, s := range p.Stages {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t%t\n",
				p.Name, p.Status, s.Type,
				s.Start.Format(DateLayout), s.End.Format(DateLayout),
				s.DurationDays(), p.IsOngoing(i))
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%d\t\n",
			p.Name, p.Status, "总周期",
			p.SubmitDate.Format(DateLayout), p.DisplayEnd(now).Format(DateLayout),
			p.TotalPeriod())
	}
	return w.Flush()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		if errors.Is(err, ErrUnknownTemplate) {
			fmt.Fprintln(os.Stderr, "Run 'papertimeline templates' to list templates.")
		}
		os.Exit(1)
	}
}
