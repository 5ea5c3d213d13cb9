package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/pflag"

	"github.com/df07/go-batch-raytracer/web/server"
)

func main() {
	// Parse command line flags
	limits := server.DefaultLimits()
	port := pflag.IntP("port", "p", 8080, "Port to serve on")
	scenesDir := pflag.String("scenes", "scenes", "Directory of JSON scene files")
	pflag.IntVar(&limits.MaxWidth, "max-width", limits.MaxWidth, "Largest accepted image width")
	pflag.IntVar(&limits.MaxHeight, "max-height", limits.MaxHeight, "Largest accepted image height")
	pflag.IntVar(&limits.MaxSamplesPerPixel, "max-spp", limits.MaxSamplesPerPixel, "Largest accepted samples per pixel")
	pflag.IntVar(&limits.MaxDepth, "max-depth", limits.MaxDepth, "Largest accepted bounce depth")
	pflag.IntVar(&limits.MaxWorkers, "max-workers", limits.MaxWorkers, "Largest worker count a render may use")
	pflag.Parse()

	webServer := server.NewServer(*port, *scenesDir, limits)

	log.Printf("Batch Raytracer Web Server")
	log.Printf("POST http://localhost:%d/api/render to render an image", *port)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() { errCh <- webServer.Start() }()

	select {
	case err := <-errCh:
		if err != nil {
			log.Printf("Error starting server: %v", err)
			os.Exit(1)
		}
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := webServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("Error stopping server: %v", err)
			os.Exit(1)
		}
	}
}
