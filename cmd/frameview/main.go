package main

import (
	"context"
	"flag"
	"fmt"
	"image"
	"image/png"
	"os"
	"os/signal"
	"path/filepath"
	"strconv"
	"strings"
	"syscall"

	"frameview/internal/config"
	"frameview/internal/frame"
	"frameview/internal/viewer"
)

func main() {
	var (
		serverFlag  = flag.String("server", "", "Server API URL (overrides config)")
		tokenFlag   = flag.String("token", "", "API token (overrides config)")
		itemFlag    = flag.String("item", "", "Item ID to open")
		configFlag  = flag.String("config", "", "Path to config file")
		modeFlag    = flag.String("mode", "", "Selection mode: single or composite")
		frameFlag   = flag.Int("frame", -1, "Jump to a linear frame number")
		outFlag     = flag.String("out", "", "Write the rendered composite PNG to this path")
		countsFlag  = flag.String("counts", "", "Comma-separated item IDs to fetch annotation counts for")
		verboseFlag = flag.Bool("verbose", false, "Show verbose output")
		dryRunFlag  = flag.Bool("dry-run", false, "Print frame number and style JSON without rendering")
	)
	var axisFlags, channelFlags, colorFlags multiFlag
	flag.Var(&axisFlags, "axis", "Set an axis index, e.g. -axis IndexZ=3 (repeatable)")
	flag.Var(&channelFlags, "channel", "Enable/disable a channel, e.g. -channel DAPI=on (repeatable)")
	flag.Var(&colorFlags, "color", "Set a channel false color, e.g. -color DAPI=#0000ff (repeatable)")

	flag.Parse()

	if *itemFlag == "" && *countsFlag == "" {
		fmt.Println("frameview - frame/channel selection for multi-dimensional images")
		fmt.Println()
		fmt.Println("Usage:")
		fmt.Println("  frameview -item <ID> [options]")
		fmt.Println("  frameview -counts <ID,ID,...> [options]")
		fmt.Println()
		fmt.Println("For interactive mode, use: frameview-tui")
		fmt.Println()
		flag.PrintDefaults()
		os.Exit(1)
	}

	// Load config
	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}

	// Apply flags
	if *serverFlag != "" {
		settings.ServerURL = *serverFlag
	}
	if *tokenFlag != "" {
		settings.APIToken = *tokenFlag
	}
	if *modeFlag != "" {
		settings.DefaultMode = *modeFlag
	}

	// Handle interrupts
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		fmt.Println("\nInterrupted, cancelling...")
		cancel()
	}()

	session := viewer.NewSession(settings, func(event viewer.ProgressEvent) {
		if event.Level == viewer.LevelVerbose && !*verboseFlag {
			return
		}

		prefix := "   "
		switch event.Level {
		case viewer.LevelError:
			prefix = " ✗ "
		case viewer.LevelWarning:
			prefix = " ! "
		case viewer.LevelSuccess:
			prefix = " ✓ "
		case viewer.LevelInfo:
			prefix = " › "
		}
		fmt.Println(prefix + event.Message)
	})

	if *countsFlag != "" {
		ids := strings.Split(*countsFlag, ",")
		counts, err := session.DecorateItems(ctx, ids)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error fetching counts: %v\n", err)
			os.Exit(1)
		}
		for _, id := range ids {
			fmt.Printf("%s\t%d\n", id, counts[id])
		}
		if *itemFlag == "" {
			return
		}
	}

	if err := session.Open(ctx, *itemFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error opening item: %v\n", err)
		os.Exit(1)
	}
	model := session.Model()

	if *frameFlag >= 0 {
		if err := model.SetLinearFrame(*frameFlag); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
	}
	if err := applyAxisFlags(model, axisFlags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := applyChannelFlags(model, channelFlags, colorFlags); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("frame %d / %d\n", model.LinearFrame(), model.MaxFrame())
	style, err := session.StyleJSON()
	if err == nil {
		fmt.Printf("style %s\n", style)
	}

	if *dryRunFlag {
		return
	}

	img, err := session.RenderComposite(ctx)
	if err != nil {
		if ctx.Err() != nil {
			fmt.Println("Cancelled.")
			os.Exit(130)
		}
		fmt.Fprintf(os.Stderr, "Error rendering: %v\n", err)
		os.Exit(1)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = filepath.Join(settings.OutputPath, "composite.png")
	}
	if err := writePNG(outPath, img); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outPath, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %s\n", outPath)
}

// multiFlag collects repeated key=value flags.
type multiFlag []string

func (f *multiFlag) String() string { return strings.Join(*f, ",") }

func (f *multiFlag) Set(value string) error {
	*f = append(*f, value)
	return nil
}

func splitPair(s string) (string, string, error) {
	key, value, ok := strings.Cut(s, "=")
	if !ok || key == "" {
		return "", "", fmt.Errorf("invalid flag value %q: want key=value", s)
	}
	return key, value, nil
}

func applyAxisFlags(model *frame.Model, flags multiFlag) error {
	for _, spec := range flags {
		name, value, err := splitPair(spec)
		if err != nil {
			return err
		}
		axis, err := frame.ParseAxis(name)
		if err != nil {
			return err
		}
		index, err := strconv.Atoi(value)
		if err != nil {
			return fmt.Errorf("invalid index %q for axis %s", value, name)
		}
		if _, err := model.SetAxisCurrent(axis, index); err != nil {
			return err
		}
	}
	return nil
}

func applyChannelFlags(model *frame.Model, channels, colors multiFlag) error {
	for _, spec := range channels {
		name, value, err := splitPair(spec)
		if err != nil {
			return err
		}
		var enabled bool
		switch value {
		case "on", "true", "1":
			enabled = true
		case "off", "false", "0":
			enabled = false
		default:
			return fmt.Errorf("invalid channel state %q: want on or off", value)
		}
		if err := model.ToggleChannelEnabled(name, enabled); err != nil {
			return err
		}
	}
	for _, spec := range colors {
		name, value, err := splitPair(spec)
		if err != nil {
			return err
		}
		if err := model.SetChannelStyle(name, frame.StylePatch{FalseColor: frame.String(value)}); err != nil {
			return err
		}
	}
	return nil
}

func writePNG(path string, img image.Image) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	file, err := os.Create(path)
	if err != nil {
		return err
	}
	defer file.Close()

	return png.Encode(file, img)
}
