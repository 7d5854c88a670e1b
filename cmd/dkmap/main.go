package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"dkmap/internal/config"
	"dkmap/internal/logger"
	"dkmap/internal/output"
	"dkmap/internal/preview"
	"dkmap/internal/render"
)

const (
	packedFlag   = "packed"
	layersFlag   = "layers"
	outputFlag   = "output"
	qualityFlag  = "quality"
	nameFlag     = "name"
	dataFlag     = "data-dir"
	outDirFlag   = "out-dir"
	previewFlag  = "preview"
	logLevelFlag = "log-level"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "dkmap",
		Short:         "Render static SVG/HTML maps of Denmark from TopoJSON layers",
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          run,
	}
	def := config.Default()
	f := cmd.Flags()
	f.BoolP(packedFlag, "p", false, "move Bornholm into an inset next to the mainland")
	f.StringSliceP(layersFlag, "l", def.Layers, "layers to draw: "+strings.Join(config.LayerNames(), ", "))
	f.StringSliceP(outputFlag, "o", def.Formats, "output formats: svg, html, container, geojson, png or all")
	f.StringP(qualityFlag, "q", def.Quality.Name, "simplification preset: "+strings.Join(config.QualityNames(), ", "))
	f.StringP(nameFlag, "n", def.BaseName, "base name of the written files")
	f.String(dataFlag, "", "directory holding the .topojson layers (default "+def.DataDir+")")
	f.String(outDirFlag, "", "directory the maps are written to (default "+def.OutputDir+")")
	f.Bool(previewFlag, false, "print a terminal preview of the map")
	f.String(logLevelFlag, "", "log level: debug, info, warn, error")
	return cmd
}

// configure applies defaults, then .env and the environment, then flags.
func configure(cmd *cobra.Command) (config.Config, error) {
	cfg := config.Default()
	cfg.LoadEnv(".env")

	f := cmd.Flags()
	var err error
	if cfg.Packed, err = f.GetBool(packedFlag); err != nil {
		return cfg, err
	}
	if cfg.Layers, err = f.GetStringSlice(layersFlag); err != nil {
		return cfg, err
	}
	if cfg.Formats, err = f.GetStringSlice(outputFlag); err != nil {
		return cfg, err
	}
	q, err := f.GetString(qualityFlag)
	if err != nil {
		return cfg, err
	}
	if cfg.Quality, err = config.ParseQuality(q); err != nil {
		return cfg, err
	}
	if cfg.BaseName, err = f.GetString(nameFlag); err != nil {
		return cfg, err
	}
	for flag, dst := range map[string]*string{dataFlag: &cfg.DataDir, outDirFlag: &cfg.OutputDir, logLevelFlag: &cfg.LogLevel} {
		if !f.Changed(flag) {
			continue
		}
		if *dst, err = f.GetString(flag); err != nil {
			return cfg, err
		}
	}
	return cfg, cfg.Validate()
}

func run(cmd *cobra.Command, _ []string) error {
	cfg, err := configure(cmd)
	if err != nil {
		return err
	}
	log, err := logger.New(cfg.LogLevel)
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	log.Info("rendering",
		zap.Strings("layers", cfg.Layers),
		zap.String("quality", cfg.Quality.Name),
		zap.Bool("packed", cfg.Packed),
		zap.Strings("formats", cfg.Formats),
	)
	res, err := render.Run(cmd.Context(), cfg, render.Dir(cfg.DataDir), log)
	if err != nil {
		return err
	}
	files, err := output.Encode(res, cfg)
	if err != nil {
		return err
	}
	if err := output.Write(files, log); err != nil {
		return err
	}

	show, err := cmd.Flags().GetBool(previewFlag)
	if err != nil {
		return err
	}
	if show {
		fmt.Fprintln(cmd.OutOrStdout(), preview.View(res, cfg, preview.DefaultWidth, preview.DefaultHeight))
	}
	return nil
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
