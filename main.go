package main

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/urfave/cli/v3"

	"github.com/pleimann/navpad/internal/action"
	"github.com/pleimann/navpad/internal/config"
	"github.com/pleimann/navpad/internal/gesture"
	"github.com/pleimann/navpad/internal/hid"
	"github.com/pleimann/navpad/internal/logging"
	"github.com/pleimann/navpad/internal/navbar"
	"github.com/pleimann/navpad/internal/replay"
	"github.com/pleimann/navpad/internal/ui"
	"github.com/pleimann/navpad/internal/utils"
)

const Version = "0.1.0"

func main() {
	if err := newCommand().Run(context.Background(), os.Args); err != nil {
		if exitErr, ok := err.(cli.ExitCoder); ok {
			os.Exit(exitErr.ExitCode())
		}
		ui.PrintFatalError("navpad failed", err.Error())
		os.Exit(1)
	}
}

func newCommand() *cli.Command {
	return &cli.Command{
		Name:        utils.ExecutableName(),
		Usage:       "touch navigation bar for TUI applications",
		Version:     Version,
		HideVersion: true,
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   "config.yaml",
				Usage:   "path to configuration file",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "enable debug logging",
			},
		},
		Action: runMain,
		Commands: []*cli.Command{
			{
				Name:   "run",
				Usage:  "run the navigation bar (default)",
				Action: runMain,
			},
			{
				Name:   "list-devices",
				Usage:  "list available HID devices",
				Action: runListDevices,
			},
			{
				Name:      "set-device",
				Aliases:   []string{"select-device"},
				Usage:     "set the HID device in the config file",
				ArgsUsage: "[vendor_id product_id]",
				Description: "If vendor_id and product_id are given (hex with 0x prefix or decimal)\n" +
					"the config is updated directly; otherwise a device picker is shown.",
				Action: runSetDevice,
			},
			{
				Name:  "dump",
				Usage: "print the bar layout the config produces",
				Flags: []cli.Flag{
					&cli.BoolFlag{Name: "landscape", Usage: "lay the bar out in landscape"},
				},
				Action: runDump,
			},
			{
				Name:      "replay",
				Usage:     "feed a recorded touch trace through the bar and print the effects",
				ArgsUsage: "<trace.yaml>",
				Action:    runReplay,
			},
			{
				Name:  "version",
				Usage: "print version and exit",
				Action: func(ctx context.Context, cmd *cli.Command) error {
					ui.PrintVersion(Version)
					return nil
				},
			},
		},
	}
}

func runMain(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	log, closeLog, err := logging.New(cfg.Logging, cmd.Bool("verbose"))
	if err != nil {
		return err
	}
	defer closeLog()

	log.WithField("path", configPath).Debug("loaded configuration")

	app, err := newApp(configPath, cfg, log)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}

	if err := app.Run(ctx); err != nil {
		return err
	}
	log.Debug("shutdown complete")
	return nil
}

// runListDevices handles the list-devices subcommand
func runListDevices(ctx context.Context, cmd *cli.Command) error {
	devices, err := hid.ListDevices()
	if err != nil {
		return fmt.Errorf("failed to list devices: %w", err)
	}
	ui.PrintDeviceList(toUIDevices(devices))
	return nil
}

// runSetDevice handles the set-device subcommand
func runSetDevice(ctx context.Context, cmd *cli.Command) error {
	configPath := cmd.String("config")

	var vendorID, productID uint16

	switch cmd.NArg() {
	case 2:
		vid, err := parseID(cmd.Args().Get(0))
		if err != nil {
			return fmt.Errorf("invalid vendor_id %q: %w", cmd.Args().Get(0), err)
		}
		pid, err := parseID(cmd.Args().Get(1))
		if err != nil {
			return fmt.Errorf("invalid product_id %q: %w", cmd.Args().Get(1), err)
		}
		vendorID, productID = vid, pid
	case 0:
		device, err := selectDevice()
		if err != nil {
			return fmt.Errorf("device selection failed: %w", err)
		}
		if device == nil {
			fmt.Println(ui.Muted("No device selected"))
			return nil
		}
		vendorID, productID = device.VendorID, device.ProductID
	default:
		return fmt.Errorf("both vendor_id and product_id must be provided, or neither")
	}

	if config.Exists(configPath) {
		if err := config.UpdateDeviceIDs(configPath, vendorID, productID); err != nil {
			return fmt.Errorf("failed to update config: %w", err)
		}
		ui.PrintDeviceUpdated(configPath, vendorID, productID)
		return nil
	}

	if err := config.CreateDefaultConfig(configPath, vendorID, productID); err != nil {
		return fmt.Errorf("failed to create config: %w", err)
	}
	ui.PrintDeviceCreated(configPath, vendorID, productID)
	return nil
}

// runDump builds the bar from the config without any input source and
// prints its slots
func runDump(ctx context.Context, cmd *cli.Command) error {
	cfg, log, err := loadOffline(cmd)
	if err != nil {
		return err
	}

	bar := navbar.New(cfg, gesture.NewManualScheduler(replay.Epoch), gesture.Services{}, nil, log)
	if cmd.Bool("landscape") {
		bar.SetOrientation(true)
	}
	ui.PrintBar(bar.Snapshot())
	return nil
}

func runReplay(ctx context.Context, cmd *cli.Command) error {
	if cmd.NArg() != 1 {
		return fmt.Errorf("replay needs exactly one trace file")
	}

	cfg, log, err := loadOffline(cmd)
	if err != nil {
		return err
	}

	trace, err := replay.Load(cmd.Args().First())
	if err != nil {
		return err
	}

	records, err := replay.Run(cfg, trace, action.NewMapper(cfg), log)
	ui.PrintReplay(records)
	return err
}

// loadOffline loads the config for commands that never touch hardware.
// Those only log warnings unless --verbose is set.
func loadOffline(cmd *cli.Command) (*config.Config, *logrus.Logger, error) {
	cfg, err := config.Load(cmd.String("config"))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	logCfg := config.LoggingConfig{Level: "warn", Format: cfg.Logging.Format}
	log, _, err := logging.New(logCfg, cmd.Bool("verbose"))
	if err != nil {
		return nil, nil, err
	}
	return cfg, log, nil
}

// parseID parses a vendor or product ID from string (supports hex with 0x prefix or decimal)
func parseID(s string) (uint16, error) {
	s = strings.TrimSpace(s)

	var val uint64
	var err error

	if strings.HasPrefix(strings.ToLower(s), "0x") {
		val, err = strconv.ParseUint(s[2:], 16, 16)
	} else {
		val, err = strconv.ParseUint(s, 10, 16)
	}

	if err != nil {
		return 0, err
	}

	return uint16(val), nil
}

func toUIDevices(devices []hid.DeviceInfo) []ui.DeviceInfo {
	out := make([]ui.DeviceInfo, len(devices))
	for i, d := range devices {
		out[i] = ui.DeviceInfo{
			VendorID:     d.VendorID,
			ProductID:    d.ProductID,
			Manufacturer: d.Manufacturer,
			Product:      d.Product,
			Interface:    d.Interface,
		}
	}
	return out
}

// selectDevice displays an interactive device selection menu
func selectDevice() (*ui.DeviceInfo, error) {
	devices, err := hid.ListDevices()
	if err != nil {
		return nil, fmt.Errorf("failed to list devices: %w", err)
	}

	var identifiable []hid.DeviceInfo
	for _, d := range devices {
		if d.VendorID == 0 && d.ProductID == 0 {
			continue
		}
		identifiable = append(identifiable, d)
	}
	if len(identifiable) == 0 {
		return nil, fmt.Errorf("no identifiable HID devices found")
	}

	return ui.SelectDevice(toUIDevices(identifiable))
}
