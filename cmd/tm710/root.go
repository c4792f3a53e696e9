package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dougsko/tm710/pkg/cat"
	"github.com/dougsko/tm710/pkg/client"
	"github.com/dougsko/tm710/pkg/command"
	"github.com/dougsko/tm710/pkg/config"
	"github.com/dougsko/tm710/pkg/logging"
	"github.com/dougsko/tm710/pkg/storage"
	"github.com/dougsko/tm710/pkg/tables"
	"github.com/dougsko/tm710/pkg/transport"
)

// app holds the flags and collaborators shared by every subcommand
type app struct {
	configPath string
	port       string
	baud       int
	timeout    time.Duration
	remote     string
	verbose    bool

	cfg    *config.Config
	stdout io.Writer

	// open connects to the radio; replaced in tests
	open func(cfg *config.Config) (transport.Transport, error)
}

func openSerial(cfg *config.Config) (transport.Transport, error) {
	return transport.OpenSerial(transport.SerialConfig{
		Device:   cfg.Radio.Device,
		BaudRate: cfg.Radio.BaudRate,
		Timeout:  time.Duration(cfg.Radio.TimeoutMS) * time.Millisecond,
	})
}

// run executes one invocation and returns the process exit status
func run(args []string, stdout, stderr io.Writer) int {
	return runWith(&app{stdout: stdout, open: openSerial}, args, stderr)
}

func runWith(a *app, args []string, stderr io.Writer) int {
	root := a.rootCmd()
	root.SetArgs(args)
	root.SetOut(a.stdout)
	root.SetErr(stderr)

	err := root.Execute()
	logging.CloseGlobalLogger()
	if err != nil {
		fmt.Fprintf(stderr, "tm710: %v\n", err)
		return 1
	}
	return 0
}

func (a *app) rootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "tm710",
		Short: "Control a Kenwood TM-D710G or TM-V71A over its CAT port",
		Long: `tm710 reads and changes the settings of a Kenwood TM-D710G or TM-V71A
through the radio's serial CAT interface, either directly or through a
running tm710d.`,
		SilenceErrors:     true,
		SilenceUsage:      true,
		PersistentPreRunE: a.setup,
	}

	flags := root.PersistentFlags()
	flags.StringVarP(&a.configPath, "config", "c", config.DefaultPath(), "Configuration file path")
	flags.StringVarP(&a.port, "port", "p", "", "Serial device (overrides the configuration)")
	flags.IntVarP(&a.baud, "baud", "b", 0, "Serial baud rate (overrides the configuration)")
	flags.DurationVarP(&a.timeout, "timeout", "t", 0, "Reply timeout (overrides the configuration)")
	flags.StringVarP(&a.remote, "remote", "r", "", "Send commands to the tm710d at this URL")
	flags.BoolVarP(&a.verbose, "verbose", "v", false, "Log serial traffic")

	root.AddCommand(
		a.verbCmd(command.Get, "Read a setting", `get A
get A freq
get squelch B
get memory 10-20
get info`),
		a.verbCmd(command.Set, "Change a setting", `set A freq 146.52
set squelch B 10
set timeout 5
set aip vhf on
set A up
set lock`),
		a.rawCmd(),
		a.historyCmd(),
		a.versionCmd(),
	)
	return root
}

// setup loads the configuration and applies the flag overrides
func (a *app) setup(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadOrDefault(a.configPath)
	if err != nil {
		return err
	}
	if a.port != "" {
		cfg.Radio.Device = a.port
	}
	if a.baud != 0 {
		cfg.Radio.BaudRate = a.baud
	}
	if a.timeout > 0 {
		cfg.Radio.TimeoutMS = int(a.timeout / time.Millisecond)
	}
	if a.verbose {
		cfg.Logging.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	if err := logging.InitGlobalLogger(cfg); err != nil {
		return fmt.Errorf("failed to initialize logging: %w", err)
	}
	a.cfg = cfg
	return nil
}

func (a *app) verbCmd(verb command.Verb, short, example string) *cobra.Command {
	return &cobra.Command{
		Use:     string(verb) + " <target> [sub] [value]",
		Short:   short,
		Example: indent(example),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(append([]string{string(verb)}, args...))
		},
	}
}

func (a *app) rawCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "raw <line>",
		Short:   "Send one CAT line and print the reply",
		Example: indent("raw FV 0\nraw ME 010"),
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return a.execute(append([]string{string(command.Get), "command"}, args...))
		},
	}
}

func (a *app) versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		// the version needs no configuration
		PersistentPreRunE: func(*cobra.Command, []string) error { return nil },
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(a.stdout, "tm710 version %s (%s)\n", Version, Build)
		},
	}
}

// execute runs one dispatcher command locally or on the remote daemon,
// printing each line as it is produced
func (a *app) execute(args []string) error {
	if a.remote != "" {
		return a.executeRemote(strings.Join(args, " "))
	}

	t, err := a.open(a.cfg)
	if err != nil {
		return err
	}

	var journal *storage.JournalStore
	if a.cfg.Storage.JournalEnabled {
		journal, err = storage.NewJournalStore(a.cfg.Storage.DatabasePath, a.cfg.Storage.MaxEntries)
		if err != nil {
			t.Close()
			return err
		}
		defer journal.Close()
		t = storage.NewJournaledTransport(t, journal)
	}

	radio, err := cat.NewRadio(t, cat.Options{
		ModulationOrder:    tables.ModulationOrder(a.cfg.Radio.ModulationOrder),
		AutoRepeaterOffset: a.cfg.RepeaterOffsetEnabled(),
		MemoryEdit:         a.cfg.MemoryEditPolicy(),
	})
	if err != nil {
		t.Close()
		return err
	}
	defer radio.Close()

	return command.New(radio).Execute(args, func(line string) {
		fmt.Fprintln(a.stdout, line)
	})
}

func (a *app) executeRemote(line string) error {
	c := client.NewHTTPClient(a.remote, a.remoteTimeout())
	resp, err := c.SendCommand(line)
	if err != nil {
		return err
	}
	for _, l := range resp.Lines {
		fmt.Fprintln(a.stdout, l)
	}
	if !resp.Success {
		return fmt.Errorf("%s", resp.Error)
	}
	return nil
}

// remoteTimeout leaves room for the daemon's own serial timeouts; INFO
// alone is a few dozen transactions
func (a *app) remoteTimeout() time.Duration {
	perTransaction := time.Duration(a.cfg.Radio.TimeoutMS) * time.Millisecond
	return 10*time.Second + 50*perTransaction
}

func indent(example string) string {
	return "  tm710 " + strings.ReplaceAll(example, "\n", "\n  tm710 ")
}
