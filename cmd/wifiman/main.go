// Command wifiman manages Wi-Fi credentials: it derives WPA2 preshared
// keys from passphrases, caches them in a credential store and drives an
// interface through a connection attempt.
//
// Usage:
//
//	wifiman <command> [flags]
//
// Commands:
//
//	derive    Derive the preshared key for a network and print it
//	store     Derive and cache the preshared key in the credential store
//	load      Print the cached preshared key for a network
//	remove    Remove a network from the credential store
//	connect   Connect to a network (simulated interface)
//	log       View a credential event log file
//
// Examples:
//
//	# Derive the key for a network (passphrase is prompted)
//	wifiman derive -ssid HomeNet
//
//	# Cache the key, then connect using it
//	wifiman store -ssid HomeNet -store creds.json
//	wifiman connect -ssid HomeNet -store creds.json -hostname sensor-07
//
//	# Watch the events of a past attempt
//	wifiman log -network HomeNet events.cbor
package main

import (
	"context"
	"encoding/hex"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/chzyer/readline"

	"github.com/wifiman-dev/wifiman-go/pkg/announce"
	"github.com/wifiman-dev/wifiman-go/pkg/config"
	"github.com/wifiman-dev/wifiman-go/pkg/credstore"
	"github.com/wifiman-dev/wifiman-go/pkg/kdf"
	"github.com/wifiman-dev/wifiman-go/pkg/log"
	"github.com/wifiman-dev/wifiman-go/pkg/wifi"
)

const usage = `wifiman - Wi-Fi credential manager

Usage:
  wifiman <command> [flags]

Commands:
  derive    Derive the preshared key for a network and print it
  store     Derive and cache the preshared key in the credential store
  load      Print the cached preshared key for a network
  remove    Remove a network from the credential store
  connect   Connect to a network (simulated interface)
  log       View a credential event log file

Use "wifiman <command> -help" for more information about a command.
`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}

	cmd := os.Args[1]
	args := os.Args[2:]

	switch cmd {
	case "derive":
		runDerive(args)
	case "store":
		runStore(args)
	case "load":
		runLoad(args)
	case "remove":
		runRemove(args)
	case "connect":
		runConnect(args)
	case "log":
		runLog(args)
	case "-h", "-help", "--help", "help":
		fmt.Print(usage)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n", cmd)
		fmt.Fprint(os.Stderr, usage)
		os.Exit(1)
	}
}

func fatal(err error) {
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// promptPassphrase reads a passphrase without echo.
func promptPassphrase(prompt string) (string, error) {
	pw, err := readline.Password(prompt)
	if err != nil {
		return "", fmt.Errorf("reading passphrase: %w", err)
	}
	return string(pw), nil
}

// progressPrinter renders derivation progress on stderr.
func progressPrinter(percent int) {
	fmt.Fprintf(os.Stderr, "\rderiving... %3d%%", percent)
	if percent == 100 {
		fmt.Fprintln(os.Stderr)
	}
}

// buildLogger assembles the event logger from the shared flags. The
// returned closer flushes the file logger, if any.
func buildLogger(logPath string, verbose bool) (log.Logger, func(), error) {
	var loggers []log.Logger
	closer := func() {}

	if logPath != "" {
		fl, err := log.NewFileLogger(logPath)
		if err != nil {
			return nil, nil, fmt.Errorf("opening event log: %w", err)
		}
		loggers = append(loggers, fl)
		closer = func() { _ = fl.Close() }
	}
	if verbose {
		handler := slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug})
		loggers = append(loggers, log.NewSlogAdapter(slog.New(handler)))
	}

	switch len(loggers) {
	case 0:
		return log.NoopLogger{}, closer, nil
	case 1:
		return loggers[0], closer, nil
	default:
		return log.NewMultiLogger(loggers...), closer, nil
	}
}

func openStore(path string, logger log.Logger) *credstore.Store {
	return credstore.NewStoreWithConfig(credstore.StoreConfig{
		Backend: credstore.NewFileBackend(path),
		Logger:  logger,
	})
}

func runDerive(args []string) {
	fs := flag.NewFlagSet("derive", flag.ExitOnError)
	ssid := fs.String("ssid", "", "Network name (required)")
	quiet := fs.Bool("q", false, "Suppress progress output")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *ssid == "" {
		fmt.Fprintln(os.Stderr, "Error: -ssid required")
		fs.Usage()
		os.Exit(1)
	}

	passphrase, err := promptPassphrase("Passphrase: ")
	if err != nil {
		fatal(err)
	}

	progress := kdf.ProgressFunc(progressPrinter)
	if *quiet {
		progress = nil
	}

	psk, err := kdf.DerivePSK(*ssid, passphrase, progress)
	if err != nil {
		fatal(err)
	}
	fmt.Println(hex.EncodeToString(psk))
}

func runStore(args []string) {
	fs := flag.NewFlagSet("store", flag.ExitOnError)
	ssid := fs.String("ssid", "", "Network name (required)")
	storePath := fs.String("store", config.Default().StorePath, "Credential store file")
	logPath := fs.String("log", "", "Event log file")
	verbose := fs.Bool("v", false, "Log events to stderr")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *ssid == "" {
		fmt.Fprintln(os.Stderr, "Error: -ssid required")
		fs.Usage()
		os.Exit(1)
	}

	logger, closeLogger, err := buildLogger(*logPath, *verbose)
	if err != nil {
		fatal(err)
	}
	defer closeLogger()

	passphrase, err := promptPassphrase("Passphrase: ")
	if err != nil {
		fatal(err)
	}

	if err := openStore(*storePath, logger).StoreSecret(*ssid, passphrase); err != nil {
		fatal(err)
	}
	fmt.Printf("stored credential for %q\n", *ssid)
}

func runLoad(args []string) {
	fs := flag.NewFlagSet("load", flag.ExitOnError)
	ssid := fs.String("ssid", "", "Network name (required)")
	storePath := fs.String("store", config.Default().StorePath, "Credential store file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *ssid == "" {
		fmt.Fprintln(os.Stderr, "Error: -ssid required")
		fs.Usage()
		os.Exit(1)
	}

	secret, err := openStore(*storePath, log.NoopLogger{}).Get(*ssid)
	if err != nil {
		fatal(err)
	}
	fmt.Println(hex.EncodeToString(secret))
}

func runRemove(args []string) {
	fs := flag.NewFlagSet("remove", flag.ExitOnError)
	ssid := fs.String("ssid", "", "Network name (required)")
	storePath := fs.String("store", config.Default().StorePath, "Credential store file")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if *ssid == "" {
		fmt.Fprintln(os.Stderr, "Error: -ssid required")
		fs.Usage()
		os.Exit(1)
	}

	if err := openStore(*storePath, log.NoopLogger{}).Remove(*ssid); err != nil {
		fatal(err)
	}
	fmt.Printf("removed credential for %q\n", *ssid)
}

func runConnect(args []string) {
	fs := flag.NewFlagSet("connect", flag.ExitOnError)
	configPath := fs.String("config", "", "Configuration file (YAML)")
	ssid := fs.String("ssid", "", "Network name (overrides config)")
	hostname := fs.String("hostname", "", "DHCP/mDNS hostname (overrides config)")
	timeout := fs.Int("timeout", 0, "Association timeout in seconds (overrides config)")
	storePath := fs.String("store", "", "Credential store file (overrides config)")
	logPath := fs.String("log", "", "Event log file (overrides config)")
	verbose := fs.Bool("v", false, "Log events to stderr")
	simDelay := fs.Duration("sim-delay", 2*time.Second, "Simulated association delay")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}

	cfg := config.Default()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			fatal(err)
		}
		cfg = loaded
	}
	if *storePath != "" {
		cfg.StorePath = *storePath
	}
	if *logPath != "" {
		cfg.LogPath = *logPath
	}
	if *hostname != "" {
		cfg.Hostname = *hostname
	}
	if *timeout != 0 {
		cfg.ConnectTimeout = *timeout
	}

	// Resolve the target network: the flag wins, then the first
	// configured network.
	target := *ssid
	passwordHint := ""
	for _, n := range cfg.Networks {
		if target == "" {
			target = n.SSID
		}
		if n.SSID == target {
			passwordHint = n.Passphrase
			break
		}
	}
	if target == "" {
		fmt.Fprintln(os.Stderr, "Error: no network given (-ssid or config networks)")
		fs.Usage()
		os.Exit(1)
	}

	logger, closeLogger, err := buildLogger(cfg.LogPath, *verbose)
	if err != nil {
		fatal(err)
	}
	defer closeLogger()

	store := openStore(cfg.StorePath, logger)
	iface := newSimInterface(*simDelay)

	connector := wifi.NewConnector(wifi.ConnectorConfig{
		Store:     store,
		Interface: iface,
		Logger:    logger,
	})
	connector.OnStateChange(func(oldState, newState wifi.State) {
		fmt.Fprintf(os.Stderr, "%s -> %s\n", oldState, newState)
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	req := wifi.ConnectRequest{
		NetworkID: target,
		Password:  passwordHint,
		Hostname:  cfg.Hostname,
		Timeout:   cfg.ConnectTimeout,
		SecretFunc: func(networkID, password string) (string, error) {
			if password != "" {
				return password, nil
			}
			return promptPassphrase(fmt.Sprintf("Passphrase for %q: ", networkID))
		},
	}

	connected, err := connector.Connect(ctx, req)
	if err != nil {
		fatal(err)
	}

	addr := connected.LocalAddr()
	fmt.Printf("connected to %q", target)
	if addr != nil {
		fmt.Printf(" (%s)", addr)
	}
	fmt.Println()

	if cfg.Hostname != "" {
		announcer, err := announce.Start(announce.Config{
			Hostname:  cfg.Hostname,
			NetworkID: target,
			Addr:      addr,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Warning: mDNS announce failed: %v\n", err)
		} else {
			defer announcer.Shutdown()
		}
	}

	fmt.Println("press Ctrl-C to disconnect")
	<-ctx.Done()

	if err := connected.Activate(false); err != nil {
		fatal(err)
	}
	fmt.Println("disconnected")
}

func runLog(args []string) {
	fs := flag.NewFlagSet("log", flag.ExitOnError)
	fs.Usage = func() {
		fmt.Fprintf(os.Stderr, `wifiman log - View a credential event log file

Usage:
  wifiman log [flags] <file.cbor>

Flags:
`)
		fs.PrintDefaults()
	}

	network := fs.String("network", "", "Filter by network ID")
	attempt := fs.String("attempt", "", "Filter by attempt ID")
	category := fs.String("category", "", "Filter by category (state, progress, store, error)")

	if err := fs.Parse(args); err != nil {
		os.Exit(1)
	}
	if fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Error: log file path required")
		fs.Usage()
		os.Exit(1)
	}

	filter := log.Filter{NetworkID: *network, AttemptID: *attempt}
	if *category != "" {
		c, err := parseCategory(*category)
		if err != nil {
			fatal(err)
		}
		filter.Category = &c
	}

	reader, err := log.NewFilteredReader(fs.Arg(0), filter)
	if err != nil {
		fatal(err)
	}
	defer reader.Close()

	for {
		event, err := reader.Next()
		if err == io.EOF {
			return
		}
		if err != nil {
			fatal(err)
		}
		printEvent(event)
	}
}

func parseCategory(s string) (log.Category, error) {
	switch s {
	case "state":
		return log.CategoryState, nil
	case "progress":
		return log.CategoryProgress, nil
	case "store":
		return log.CategoryStore, nil
	case "error":
		return log.CategoryError, nil
	default:
		return 0, fmt.Errorf("unknown category %q", s)
	}
}

func printEvent(event log.Event) {
	ts := event.Timestamp.Format(time.RFC3339Nano)

	detail := ""
	switch {
	case event.StateChange != nil:
		detail = fmt.Sprintf("%s -> %s", event.StateChange.OldState, event.StateChange.NewState)
		if event.StateChange.Reason != "" {
			detail += " (" + event.StateChange.Reason + ")"
		}
	case event.Progress != nil:
		detail = fmt.Sprintf("%d%%", event.Progress.Percent)
	case event.Store != nil:
		detail = event.Store.Op.String()
		if event.Store.Written {
			detail += " written"
		}
	case event.Error != nil:
		detail = event.Error.Message
		if event.Error.Context != "" {
			detail += " (" + event.Error.Context + ")"
		}
	}

	fmt.Printf("%s  %-8s  %-20s  %s\n", ts, event.Category, event.NetworkID, detail)
}
