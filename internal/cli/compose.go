package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/vonderheiden/bannerforge/pkg/banner"
	"github.com/vonderheiden/bannerforge/pkg/export"
	"github.com/vonderheiden/bannerforge/pkg/observability"
)

// stageMessages maps export stages to spinner messages.
var stageMessages = map[string]string{
	"locate":      "Locating capture surface...",
	"synchronize": "Waiting for fonts and images...",
	"capture":     "Capturing banner...",
	"validate":    "Validating artifact...",
	"persist":     "Writing artifact...",
}

// spinnerHooks surfaces export stages on the compose spinner.
type spinnerHooks struct {
	observability.NoopExportHooks
	spinner *Spinner
}

func (h *spinnerHooks) OnStageStart(ctx context.Context, stage string) {
	if msg, ok := stageMessages[stage]; ok {
		h.spinner.SetMessage(msg)
	}
}

// composeOpts holds the command-line flags for the compose command.
type composeOpts struct {
	output     string        // output directory for the PNG artifact
	dimension  string        // dimension label override (wide, square, tall)
	pixelRatio float64       // device pixel ratio for the capture
	settle     time.Duration // pause after assets resolve, before capture
	storeDir   string        // catalog directory; empty skips persistence
	cacheDir   string        // artifact cache directory override
	noCache    bool          // disable the artifact cache
	refresh    bool          // bypass the cache and recompose
	font       string        // custom font family to prefer
}

// newComposeCmd creates the compose command for rendering a banner document
// to a PNG artifact.
//
// Default settings:
//   - output: current directory
//   - pixel-ratio: 2 (export density; preview density is 1)
//   - cache: file cache under the user cache directory
func newComposeCmd() *cobra.Command {
	opts := composeOpts{
		output:     ".",
		pixelRatio: export.DefaultPixelRatio,
	}

	cmd := &cobra.Command{
		Use:   "compose [document]",
		Short: "Render a banner document to a PNG artifact",
		Long: `Compose reads a banner document (.toml or .json), renders it at the
requested pixel ratio, and writes a PNG artifact named after the banner
dimensions and title.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompose(cmd.Context(), args[0], &opts)
		},
	}

	cmd.Flags().StringVarP(&opts.output, "output", "o", opts.output, "output directory for the PNG artifact")
	cmd.Flags().StringVarP(&opts.dimension, "dimension", "d", "", "dimension override: wide, square, tall")
	cmd.Flags().Float64Var(&opts.pixelRatio, "pixel-ratio", opts.pixelRatio, "device pixel ratio for the capture")
	cmd.Flags().DurationVar(&opts.settle, "settle", 0, "extra settle pause before capture (e.g. 500ms)")
	cmd.Flags().StringVar(&opts.storeDir, "store", "", "catalog directory; saves a record alongside the file")
	cmd.Flags().StringVar(&opts.cacheDir, "cache-dir", "", "artifact cache directory (default: user cache dir)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "disable the artifact cache")
	cmd.Flags().BoolVar(&opts.refresh, "refresh", false, "ignore cached artifacts and recompose")
	cmd.Flags().StringVar(&opts.font, "font", "", "custom font family to prefer")

	return cmd
}

// runCompose loads the document, assembles a workspace, and executes a
// single export over it.
func runCompose(ctx context.Context, path string, opts *composeOpts) error {
	logger := loggerFromContext(ctx)

	doc, err := banner.LoadDocument(path)
	if err != nil {
		return err
	}
	if opts.dimension != "" {
		doc.Dimension = opts.dimension
	}
	st, err := doc.ToState()
	if err != nil {
		return err
	}

	wsOpts := workspaceOpts{
		customFont: opts.font,
		noCache:    opts.noCache,
		cacheDir:   opts.cacheDir,
	}
	wsOpts.catalogDir = opts.storeDir
	ws, err := newWorkspace(st, wsOpts, logger)
	if err != nil {
		return err
	}
	defer ws.Close(ctx)

	spinner := newSpinnerWithContext(ctx, fmt.Sprintf("Composing %s banner...", st.Dimension.Label))
	spinner.Start()
	observability.SetExportHooks(&spinnerHooks{spinner: spinner})
	defer observability.Reset()

	settle := opts.settle
	if settle <= 0 {
		settle = -1 // no live view to settle
	}
	result, err := ws.Runner.Execute(ctx, export.Options{
		PixelRatio:  opts.pixelRatio,
		OutputDir:   opts.output,
		Persist:     opts.storeDir != "",
		Refresh:     opts.refresh,
		SettleDelay: settle,
		Logger:      logger,
	})
	if err != nil {
		spinner.StopWithError("Composition failed")
		return err
	}
	spinner.StopWithSuccess(fmt.Sprintf("Composed %s", result.Filename))

	printFile(result.Path)
	printArtifactStats(result.Stats.Width, result.Stats.Height, len(result.PNG), result.Stats.TotalTime, result.CacheInfo.ArtifactHit)
	for _, w := range result.Warnings {
		printWarning("%s: %s", w.Code, w.Message)
	}
	if result.Record != nil {
		printDetail("Catalog record: %s", result.Record.ID)
	}
	return nil
}
