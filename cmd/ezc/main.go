package main

import (
	"context"
	"fmt"
	"os"

	"github.com/felistron/ezlang/pkg/build"
	"github.com/felistron/ezlang/pkg/cli"
	"github.com/felistron/ezlang/pkg/config"
	"github.com/felistron/ezlang/pkg/diag"
)

func main() {
	app := cli.NewApp("ezc")
	app.Synopsis = "[options] <input.ez> ..."
	app.Description = "A compiler for the ez programming language targeting x86-64 ELF through nasm and ld."
	app.Repository = "<https://github.com/felistron/ezlang>"

	var (
		outFile      string
		asmOnly      bool
		warnFlags    []string
		featureFlags []string
	)

	fs := app.FlagSet
	fs.String(&outFile, "output", "o", "", "Place the executable into <file>.", "file")
	fs.Bool(&asmOnly, "assembly", "S", false, "Stop after writing the assembly file.")
	fs.Prefix(&warnFlags, "W", "Toggle a warning.", "warning")
	fs.Prefix(&featureFlags, "F", "Toggle a language feature.", "feature")

	cfg := config.NewConfig()
	app.Groups = []cli.SwitchGroup{
		switchGroup("Warnings", "W", warningEntries(cfg)),
		switchGroup("Features", "F", featureEntries(cfg)),
	}

	app.Action = func(inputFiles []string) error {
		for _, flag := range append(warnFlags, featureFlags...) {
			if err := cfg.ApplyFlag(flag); err != nil {
				fmt.Fprintf(os.Stderr, "ezc: %v\n", err)
				return err
			}
		}

		if len(inputFiles) == 0 {
			err := fmt.Errorf("no input files specified")
			fmt.Fprintf(os.Stderr, "ezc: %v\n", err)
			return err
		}

		tc := build.NewExecToolchain(cfg)
		for _, file := range inputFiles {
			opts := build.Options{Output: outFile, AsmOnly: asmOnly}
			if _, err := build.Compile(context.Background(), file, cfg, tc, opts); err != nil {
				diag.Print(os.Stderr, err)
				return err
			}
		}
		return nil
	}

	if err := app.Run(os.Args[1:]); err != nil {
		os.Exit(1)
	}
}

func switchGroup(title, prefix string, entries []cli.SwitchEntry) cli.SwitchGroup {
	return cli.SwitchGroup{Title: title, Prefix: prefix, Entries: entries}
}

func warningEntries(cfg *config.Config) []cli.SwitchEntry {
	var entries []cli.SwitchEntry
	for i := config.Warning(0); i < config.WarnCount; i++ {
		info := cfg.Warnings[i]
		entries = append(entries, cli.SwitchEntry{Name: info.Name, Description: info.Description, Enabled: info.Enabled})
	}
	return entries
}

func featureEntries(cfg *config.Config) []cli.SwitchEntry {
	var entries []cli.SwitchEntry
	for i := config.Feature(0); i < config.FeatCount; i++ {
		info := cfg.Features[i]
		entries = append(entries, cli.SwitchEntry{Name: info.Name, Description: info.Description, Enabled: info.Enabled})
	}
	return entries
}
