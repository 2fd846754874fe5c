package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/sethvargo/go-envconfig"
	"github.com/tauraamui/signclips/pkg/config"
	"github.com/tauraamui/signclips/pkg/log"
	"github.com/tauraamui/signclips/pkg/video/videobackend"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	env, err := loadEnv(ctx, envconfig.OsLookuper())
	if err != nil {
		fmt.Println("Error: ", err)
		os.Exit(1)
	}
	log.SetLevel(env.LoggingLevel)

	app := App{
		Resolver:      config.DefaultResolver(),
		Creator:       config.DefaultCreator(),
		ExportWorkers: env.ExportWorkers,
	}
	// the env var takes precedence over the config file's video_backend
	if len(env.VideoBackend) > 0 {
		app.Backend = videobackend.Resolve(env.VideoBackend)
	}

	status, err := app.Manage(ctx, os.Args[1:])
	if err != nil {
		fmt.Println(status, "\nError: ", err)
		os.Exit(1)
	}
	fmt.Println(status)
}
