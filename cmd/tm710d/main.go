package main

import (
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	flag "github.com/spf13/pflag"

	"github.com/dougsko/tm710/pkg/config"
	"github.com/dougsko/tm710/pkg/logging"
)

var (
	configPath = flag.StringP("config", "c", config.DefaultPath(), "Configuration file path")
	device     = flag.StringP("port", "p", "", "Serial device (overrides the configuration)")
	baud       = flag.IntP("baud", "b", 0, "Serial baud rate (overrides the configuration)")
	listen     = flag.IntP("listen", "l", 0, "Web port (overrides the configuration)")
	journal    = flag.Bool("journal", false, "Record every radio transaction in the journal")
	version    = flag.BoolP("version", "v", false, "Show version information")
)

const (
	Version = "0.1.0-dev"
	Build   = "development"
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("tm710d version %s (%s)\n", Version, Build)
		os.Exit(0)
	}

	cfg, err := config.LoadOrDefault(*configPath)
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}
	applyFlags(cfg)

	if err := cfg.Validate(); err != nil {
		log.Fatalf("Invalid configuration: %v", err)
	}

	if err := logging.InitGlobalLogger(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}
	defer logging.CloseGlobalLogger()

	logging.Info("main", fmt.Sprintf("tm710d version %s starting...", Version))
	logging.Info("main", fmt.Sprintf("Radio: %s at %d baud", cfg.Radio.Device, cfg.Radio.BaudRate))
	logging.Info("main", fmt.Sprintf("Web interface: http://%s:%d", cfg.Web.BindAddress, cfg.Web.Port))

	t, err := OpenTransport(cfg)
	if err != nil {
		logging.Error("main", fmt.Sprintf("Failed to open radio: %v", err))
		os.Exit(1)
	}

	daemon, err := NewDaemon(cfg, t)
	if err != nil {
		t.Close()
		logging.Error("main", fmt.Sprintf("Failed to create daemon: %v", err))
		os.Exit(1)
	}

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)

	if err := daemon.Start(); err != nil {
		logging.Error("main", fmt.Sprintf("Failed to start daemon: %v", err))
		os.Exit(1)
	}

	logging.Info("main", "tm710d started successfully")

	<-sigChan
	logging.Info("main", "Shutting down...")

	if err := daemon.Stop(); err != nil {
		logging.Error("main", fmt.Sprintf("Error during shutdown: %v", err))
	}

	logging.Info("main", "tm710d stopped")
}

// applyFlags lets command line flags override the configuration file
func applyFlags(cfg *config.Config) {
	if *device != "" {
		cfg.Radio.Device = *device
	}
	if *baud != 0 {
		cfg.Radio.BaudRate = *baud
	}
	if *listen != 0 {
		cfg.Web.Port = *listen
	}
	if *journal {
		cfg.Storage.JournalEnabled = true
	}
}
