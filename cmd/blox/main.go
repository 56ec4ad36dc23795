package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/kirei/blox/internal/blox/common/log"
	"github.com/kirei/blox/internal/blox/config"
	"github.com/kirei/blox/internal/blox/gateways/infoblox"
	"github.com/kirei/blox/internal/blox/services/generator"
)

const (
	version = "0.1.0"
	appName = "blox"
)

var (
	configFile  = flag.String("c", "/etc/blox/blox.yaml", "the path to the config file")
	verbose     = flag.Bool("v", false, "log per-zone classification decisions")
	showVersion = flag.Bool("version", false, "print version and exit")
)

func main() {
	flag.Parse()

	if *showVersion {
		fmt.Printf("%s %s\n", appName, version)
		return
	}

	cfg, err := config.Load(os.ExpandEnv(*configFile))
	if err != nil {
		fmt.Fprintf(os.Stderr, "Configuration error: %v\n", err)
		os.Exit(1)
	}

	log.Configure(*verbose)

	log.Debug(map[string]any{
		"version":     version,
		"config":      *configFile,
		"source":      cfg.Source.Host,
		"view":        cfg.Source.View,
		"nameservers": len(cfg.Specs()),
	}, "starting run")

	client, err := infoblox.New(infoblox.Options{
		Host:               cfg.Source.Host,
		Port:               cfg.Source.Port,
		Username:           cfg.Source.Username,
		Password:           cfg.Source.Password,
		InsecureSkipVerify: cfg.Source.InsecureSkipVerify,
		Logger:             log.GetLogger(),
	})
	if err != nil {
		log.Fatal(map[string]any{"error": err}, "Failed to build management system client")
	}

	// One shot, but interruptible while the fetch is in flight.
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	gen := generator.New(client, cfg, log.GetLogger())
	if err := gen.Run(ctx); err != nil {
		log.Fatal(map[string]any{"error": err}, "Run failed")
	}

	log.Info(map[string]any{"nameservers": len(cfg.Specs())}, "all nameserver configs generated")
}
