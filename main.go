package main

import (
	"fmt"
	"os"

	"github.com/plotwist/importer/internal/cli"
	"github.com/plotwist/importer/internal/config"
	"github.com/plotwist/importer/internal/entrypoint"
)

// Version information - set at build time via ldflags
var (
	Version = "dev"
	Commit  = "unknown"
)

func main() {
	// If no arguments or "serve" command, run the worker daemon
	if len(os.Args) < 2 || os.Args[1] == "serve" {
		cfg := config.NewConfig()
		entrypoint.Run(cfg, Version)
		return
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "import":
		cmd := cli.NewImportCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "import-status":
		cmd := cli.NewStatusCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "create-user":
		cmd := cli.NewCreateUserCommand()
		if err := cmd.ParseFlags(args); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		if err := cmd.Run(); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}

	case "version":
		fmt.Printf("plotwist-importer %s (%s)\n", Version, Commit)

	case "help", "-h", "--help":
		printUsage()

	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Printf("Usage: %s [command] [options]\n\n", os.Args[0])
	fmt.Println("Commands:")
	fmt.Println("  serve          Run the worker daemon (default)")
	fmt.Println("  import         Decode and store a watch-history export")
	fmt.Println("  import-status  Show an import batch and its items")
	fmt.Println("  create-user    Create an account to import into")
	fmt.Println("  version        Print version information")
	fmt.Printf("\nRun '%s <command> -h' for command-specific options.\n", os.Args[0])
}
