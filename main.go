package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"syscall"
	"text/tabwriter"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"

	"github.com/df07/go-batch-raytracer/pkg/config"
	"github.com/df07/go-batch-raytracer/pkg/core"
	"github.com/df07/go-batch-raytracer/pkg/geometry"
	"github.com/df07/go-batch-raytracer/pkg/output"
	"github.com/df07/go-batch-raytracer/pkg/progress"
	"github.com/df07/go-batch-raytracer/pkg/renderer"
	"github.com/df07/go-batch-raytracer/pkg/scene"
)

var version = "dev"

func main() {
	err := fang.Execute(context.Background(), newRootCommand(),
		fang.WithVersion(version),
		fang.WithNotifySignal(os.Interrupt, syscall.SIGTERM),
	)
	if err != nil {
		os.Exit(1)
	}
}

// newRootCommand builds the CLI. The root command renders, like the render subcommand.
func newRootCommand() *cobra.Command {
	root := newRenderCommand()
	root.Use = "raytracer"
	root.Short = "Render an image with a Monte Carlo path tracer"
	root.Long = "Renders a scene of spheres with diffuse, metal and glass materials " +
		"in parallel and writes the result as a PPM or PNG image."
	root.AddCommand(newRenderCommand(), newScenesCommand())
	return root
}

func newRenderCommand() *cobra.Command {
	var quiet bool
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Render a scene to an image file",
		Example: "  raytracer render --scene random -o out/cover.png\n" +
			"  raytracer render --scene-file scenes/glass.json --spp 200 -W 800",
		Args: cobra.NoArgs,
	}
	flags := config.NewFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "disable the progress line")

	cmd.RunE = func(cmd *cobra.Command, _ []string) error {
		cfg, err := flags.Resolve()
		if err != nil {
			return err
		}
		return runRender(cmd.Context(), cfg, cmd.ErrOrStderr(), quiet)
	}
	return cmd
}

func newScenesCommand() *cobra.Command {
	var dir string
	cmd := &cobra.Command{
		Use:   "scenes",
		Short: "List the built-in scenes and scene files",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return listScenes(cmd.OutOrStdout(), dir)
		},
	}
	cmd.Flags().StringVarP(&dir, "dir", "d", "scenes", "directory of JSON scene files")
	return cmd
}

// createScene builds the configured scene, a scene file taking precedence over a built-in
func createScene(cfg config.Config) (*scene.Scene, error) {
	if cfg.SceneFile != "" {
		return scene.LoadFile(cfg.SceneFile)
	}
	return scene.NewBuiltin(cfg.Scene, cfg.Seed)
}

// runRender renders cfg and writes the image. Logs and progress go to logOut.
func runRender(ctx context.Context, cfg config.Config, logOut io.Writer, quiet bool) error {
	logger := core.NewWriterLogger(logOut)
	logger.Printf("Host: %s\n", config.DescribeHost())
	logger.Printf("Config: %s\n", cfg)

	encoder, err := output.ForFormat(cfg.OutputFormat())
	if err != nil {
		return err
	}

	selectedScene, err := createScene(cfg)
	if err != nil {
		return err
	}

	sampling := cfg.Sampling()
	selectedScene.CameraConfig = cfg.Camera.Apply(selectedScene.CameraConfig)
	selectedScene.ConfigureCamera(geometry.CameraConfig{}, float64(sampling.Width)/float64(sampling.Height))
	logger.Printf("Scene %q: %d primitives\n", selectedScene.Name, selectedScene.GetPrimitiveCount())

	var onProgress func(renderer.Progress)
	if !quiet {
		reporter := progress.NewReporter(logOut)
		onProgress = func(p renderer.Progress) {
			reporter.Update(p.RowsCompleted, p.TotalRows, p.Elapsed, p.Remaining)
			if p.RowsCompleted == p.TotalRows {
				reporter.Finish(p.Elapsed)
			}
		}
	}

	raytracer := renderer.NewRaytracer(selectedScene, sampling, logger)
	img, _, err := raytracer.Render(ctx, onProgress)
	if err != nil {
		return err
	}

	if err := output.WriteFile(cfg.Output, encoder, img); err != nil {
		return err
	}
	if cfg.Output != "-" {
		logger.Printf("Render saved as %s\n", cfg.Output)
	}
	return nil
}

// listScenes prints the scene catalogue as a table
func listScenes(w io.Writer, dir string) error {
	response, err := scene.ListAllScenes(dir)
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for _, group := range response.Groups {
		fmt.Fprintf(tw, "%s:\n", group.Name)
		for _, info := range group.Scenes {
			name := info.ID
			if info.FilePath != "" {
				name = info.FilePath
			}
			fmt.Fprintf(tw, "  %s\t%s\t%s\n", name, info.DisplayName, info.Description)
		}
	}
	return tw.Flush()
}
