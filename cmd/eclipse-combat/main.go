// Package main provides the eclipse-combat CLI: Monte Carlo battle
// estimates, single-trial replays and ship catalog maintenance.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	entrypoint "github.com/MJE43/eclipse-combat/internal/cmd/entrypoint"
	replaycmd "github.com/MJE43/eclipse-combat/internal/cmd/replay"
	shipscmd "github.com/MJE43/eclipse-combat/internal/cmd/ships"
	simulatecmd "github.com/MJE43/eclipse-combat/internal/cmd/simulate"
	"github.com/MJE43/eclipse-combat/internal/version"
)

const usage = `usage: eclipse-combat <command> [flags]

commands:
  simulate   estimate win probabilities for two fleets
  replay     re-fight one trial of a seeded run with a battle trace
  ships      list, export, import, save, delete or reset ship types
  version    print build information

run "eclipse-combat <command> -h" for command flags`

func main() {
	if len(os.Args) < 2 {
		fmt.Fprintln(os.Stderr, usage)
		os.Exit(2)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	name, args := os.Args[1], os.Args[2:]
	fs := flag.NewFlagSet(name, flag.ExitOnError)

	switch name {
	case "simulate":
		cfg, err := simulatecmd.ParseConfig(fs, args)
		if err != nil {
			entrypoint.Exitf("parse flags: %v", err)
		}
		if err := simulatecmd.Run(ctx, cfg, os.Stdout, os.Stderr); err != nil {
			entrypoint.Exitf("Error: %v", err)
		}
	case "replay":
		cfg, err := replaycmd.ParseConfig(fs, args)
		if err != nil {
			entrypoint.Exitf("parse flags: %v", err)
		}
		if err := replaycmd.Run(ctx, cfg, os.Stdout); err != nil {
			entrypoint.Exitf("Error: %v", err)
		}
	case "ships":
		cfg, err := shipscmd.ParseConfig(fs, args)
		if err != nil {
			entrypoint.Exitf("parse flags: %v", err)
		}
		if err := shipscmd.Run(ctx, cfg, os.Stdout); err != nil {
			entrypoint.Exitf("Error: %v", err)
		}
	case "version", "-version", "--version":
		fmt.Println(version.Get())
	case "help", "-h", "--help":
		fmt.Println(usage)
	default:
		fmt.Fprintf(os.Stderr, "unknown command %q\n\n%s\n", name, usage)
		os.Exit(2)
	}
}
