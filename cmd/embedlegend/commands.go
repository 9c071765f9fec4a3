package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/Sudo-Ivan/embedlegend/pkg/config"
	"github.com/Sudo-Ivan/embedlegend/pkg/errors"
	"github.com/Sudo-Ivan/embedlegend/pkg/export"
	"github.com/Sudo-Ivan/embedlegend/pkg/host"
	"github.com/Sudo-Ivan/embedlegend/pkg/legend"
)

// newRootCmd builds the command tree. Configuration is read from the
// environment before any subcommand runs; flags override it.
func newRootCmd(a *app) *cobra.Command {
	var (
		verbose     bool
		noColor     bool
		projectPath string
	)

	root := &cobra.Command{
		Use:           AppName,
		Short:         "Interactive legend and thematic export for project layers",
		Long:          `embedlegend shows the categories of the selected layers with feature counts and percentages, toggles category visibility, and exports the active layer as MapInfo MIF/MID or as a Google Earth KMZ archive with the legend embedded.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return errors.Wrap(errors.ErrCodeInvalidInput, err, "failed to load configuration")
			}
			if projectPath != "" {
				cfg.Project = projectPath
			}
			if noColor || cfg.NoColor {
				useColor = false
			}
			level := log.InfoLevel
			if verbose {
				level = log.DebugLevel
			}
			a.cfg = cfg
			a.logger = newLogger(a.errOut, level)
			return nil
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	root.PersistentFlags().StringVarP(&projectPath, "project", "p", "", "project file (default $EMBEDLEGEND_PROJECT or project.yaml)")

	root.AddCommand(newLegendCmd(a))
	root.AddCommand(newToggleCmd(a))
	root.AddCommand(newPanelCmd(a))
	root.AddCommand(newExportCmd(a))
	root.AddCommand(newLangCmd(a))
	return root
}

func newLegendCmd(a *app) *cobra.Command {
	var (
		showCount   bool
		showPercent bool
		style       string
		pngPath     string
	)

	cmd := &cobra.Command{
		Use:   "legend",
		Short: "Print the legend of the selected layers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			panel, err := a.newPanel(cmd.Context())
			if err != nil {
				return err
			}
			defer panel.Close()

			state := panel.State()
			state.ShowCount, state.ShowPercent = showCount, showPercent
			if style != "" {
				s, err := legend.ParseStyle(style)
				if err != nil {
					return errors.Wrap(errors.ErrCodeInvalidInput, err, "invalid --style")
				}
				state.Style = s
			}
			panel.Show()

			printLegend(cmd.OutOrStdout(), panel)
			if pngPath == "" {
				return nil
			}
			if err := writePNG(panel, pngPath); err != nil {
				return err
			}
			printSuccess("%s", legend.Trf(state.Lang, "file_saved", pngPath))
			return nil
		},
	}

	cmd.Flags().BoolVar(&showCount, "count", true, "show feature counts")
	cmd.Flags().BoolVar(&showPercent, "percent", true, "show the share of each category")
	cmd.Flags().StringVar(&style, "style", "", "panel style: standard or minimalist")
	cmd.Flags().StringVar(&pngPath, "png", "", "also write the legend as a PNG image")
	return cmd
}

// printLegend writes the panel title and rows to w.
func printLegend(w io.Writer, panel *legend.Panel) {
	fmt.Fprintln(w, paint(styleTitle, panel.Title()))
	snap := panel.Snapshot()
	if snap.Empty() {
		fmt.Fprintln(w, paint(styleDim, legend.Tr(panel.State().Lang, "select_layer")))
		return
	}
	for _, row := range snap.Rows {
		fmt.Fprintln(w, renderRow(row))
	}
}

func writePNG(panel *legend.Panel, path string) error {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, PNGFilePerm)
	if err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "failed to create %s", path)
	}
	if err := panel.CapturePNG(f); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return errors.Wrap(errors.ErrCodeIO, err, "failed to close %s", path)
	}
	return nil
}

func newToggleCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "toggle <layer-id> <rule-key>",
		Short: "Show or hide one category of a layer and save the project",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := a.loadProject(cmd.Context())
			if err != nil {
				return err
			}
			l, ok := p.Layer(args[0])
			if !ok {
				return errors.New(errors.ErrCodeLayerNotFound, "layer %q not found", args[0])
			}
			vl, ok := l.(host.VectorLayer)
			if !ok || !vl.IsValid() {
				return errors.New(errors.ErrCodeNotVector, "layer %q is not a valid vector layer", l.Name())
			}
			if !legend.Toggle(p, vl, host.NewRuleKey(args[1])) {
				return errors.New(errors.ErrCodeInvalidInput, "layer %q has no category %q", vl.Name(), args[1])
			}
			vl.TriggerRepaint()
			if err := p.Save(); err != nil {
				return err
			}
			printSuccess("%s: %s", vl.Name(), args[1])
			return nil
		},
	}
}

func newExportCmd(a *app) *cobra.Command {
	var (
		layerID    string
		withLegend bool
	)

	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export a layer with its thematic colors",
	}
	cmd.PersistentFlags().StringVar(&layerID, "layer", "", "layer ID to export instead of the active layer")

	short := map[string]string{
		FormatMIF: "Export as MapInfo MIF/MID with colors baked into the objects",
		FormatKMZ: "Export as a Google Earth KMZ archive",
	}
	for _, format := range []string{FormatMIF, FormatKMZ} {
		sub := &cobra.Command{
			Use:   format + " <dest>",
			Short: short[format],
			Args:  cobra.MaximumNArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				dest := ""
				if len(args) == 1 {
					dest = args[0]
				}
				return a.exportTo(cmd.Context(), format, layerID, dest, withLegend)
			},
		}
		if format == FormatKMZ {
			sub.Flags().BoolVar(&withLegend, "legend", true, "embed the legend of the selected layers")
		}
		cmd.AddCommand(sub)
	}
	return cmd
}

// exportTo runs one export from the command line. A run canceled through ctx
// keeps its partial output and returns the context error.
func (a *app) exportTo(ctx context.Context, format, layerID, dest string, withLegend bool) error {
	p, err := a.loadProject(ctx)
	if err != nil {
		return err
	}
	layer, err := a.exportLayer(p, layerID)
	if err != nil {
		return err
	}
	lang := a.lang()

	opts := export.Options{Logger: a.logger, DestCRS: a.cfg.DestCRS}
	if format == FormatKMZ && withLegend {
		panel, err := a.newPanel(ctx)
		if err != nil {
			return err
		}
		defer panel.Close()
		panel.Show()
		opts.Legend = panel
	}

	total := 0
	if vl, ok := layer.(host.VectorLayer); ok {
		total = vl.FeatureCount()
	}
	progress := newProgressLine(a.errOut, legend.Tr(lang, "exporting_"+format), total)
	opts.Progress = progress

	summary, err := runExport(ctx, format, layer, dest, opts)
	progress.done()
	if err != nil {
		return err
	}
	reportSummary(lang, summary)
	if summary.Canceled {
		return ctx.Err()
	}
	return nil
}

func runExport(ctx context.Context, format string, layer host.MapLayer, dest string, opts export.Options) (*export.Summary, error) {
	if format == FormatMIF {
		return export.ExportMIF(ctx, layer, dest, opts)
	}
	return export.ExportKMZ(ctx, layer, dest, opts)
}

// reportSummary prints the result of an export run.
func reportSummary(lang string, s *export.Summary) {
	if s.Canceled {
		printWarning("%s", legend.Tr(lang, "canceled"))
	} else {
		printSuccess("%s", legend.Tr(lang, "export_success"))
	}
	for _, line := range strings.Split(legend.Trf(lang, "file_saved", strings.Join(s.Files, ", ")), "\n") {
		printDetail("%s", line)
	}
	printDetail("%s", s.String())
	if s.Labels > 0 {
		printDetail("%d labels", s.Labels)
	}
	if s.Overlay {
		printDetail("legend overlay: %s", export.LegendEntry)
	}
	printDetail("folder: %s", filepath.Dir(s.Path))
}

func newLangCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:       "lang [" + strings.Join(legend.Languages(), "|") + "]",
		Short:     "Show or change the interface language",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: legend.Languages(),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := a.loadSettings()
			if err != nil {
				return err
			}
			if len(args) == 0 {
				current := store.Value(legend.SettingsKeyLang, legend.DefaultLang)
				fmt.Fprintf(cmd.OutOrStdout(), "%s (%s)\n", current, strings.Join(legend.Languages(), ", "))
				return nil
			}

			panel := legend.NewPanel(legend.PanelConfig{Settings: store})
			defer panel.Close()
			if err := panel.SetLanguage(args[0]); err != nil {
				return err
			}
			printSuccess("%s: %s", legend.Tr(args[0], "lang"), args[0])
			return nil
		},
	}
}

// lang returns the persisted language, or the default when the settings
// cannot be read.
func (a *app) lang() string {
	store, err := a.loadSettings()
	if err != nil {
		a.logger.Warn("settings unavailable, using default language", "err", err)
		return legend.DefaultLang
	}
	lang := store.Value(legend.SettingsKeyLang, legend.DefaultLang)
	if !legend.IsLanguage(lang) {
		return legend.DefaultLang
	}
	return lang
}
