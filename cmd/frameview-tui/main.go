package main

import (
	"flag"
	"fmt"
	"os"

	"frameview/internal/config"
	"frameview/internal/tui"
)

func main() {
	var (
		serverFlag = flag.String("server", "", "Server API URL (overrides config)")
		tokenFlag  = flag.String("token", "", "API token (overrides config)")
		itemFlag   = flag.String("item", "", "Item ID to open on startup")
		configFlag = flag.String("config", "", "Path to config file")
	)
	flag.Parse()

	settings := config.DefaultSettings()
	if *configFlag != "" {
		var err error
		settings, err = config.Load(*configFlag)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
			os.Exit(1)
		}
	}
	if *serverFlag != "" {
		settings.ServerURL = *serverFlag
	}
	if *tokenFlag != "" {
		settings.APIToken = *tokenFlag
	}

	if err := tui.Run(settings, *itemFlag); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
