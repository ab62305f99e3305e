// Command wayfinder-lint checks navigation config files.
//
// Every file is decoded and loaded into an empty router, which reports
// duplicate ids, unknown keys, unregistered homes, argument sets and
// animations, and animation cycles. With -templates, template references are
// also checked against the file system, relative to the config file.
package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/config"
	"github.com/BrandonKowalski/wayfinder/pkg/wayfinder/router"
)

func main() {
	os.Exit(runWithArgs(os.Args[1:], os.Stdout, os.Stderr))
}

func runWithArgs(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("wayfinder-lint", flag.ContinueOnError)
	fs.SetOutput(stderr)
	charset := fs.String("charset", "", "charset of the config files (default utf-8)")
	templates := fs.Bool("templates", false, "check that template files exist")
	fs.Usage = func() {
		fmt.Fprintf(stderr, "Usage: wayfinder-lint [options] <nav.toml|nav.yaml>...\n\n")
		fmt.Fprintln(stderr, "Checks navigation config files.")
		fmt.Fprintln(stderr)
		fmt.Fprintln(stderr, "Options:")
		fs.PrintDefaults()
	}
	if err := fs.Parse(args); err != nil {
		return 2
	}
	if fs.NArg() == 0 {
		fmt.Fprintln(stderr, "error: at least one config file is required")
		fs.Usage()
		return 2
	}

	status := 0
	for _, path := range fs.Args() {
		cfg, err := lint(path, *charset, *templates)
		if err != nil {
			fmt.Fprintf(stderr, "%s: %v\n", path, err)
			status = 1
			continue
		}
		fmt.Fprintf(stdout, "%s: ok (%d destinations, %d animations, %d argument sets)\n",
			path, len(cfg.Destinations), len(cfg.Animations), len(cfg.ArgumentSets))
	}
	return status
}

func lint(path, charset string, templates bool) (router.Config, error) {
	cfg, err := config.LoadFile(path, charset)
	if err != nil {
		return router.Config{}, err
	}

	r := router.New(router.Settings{Logger: slog.New(slog.NewTextHandler(io.Discard, nil))})
	if err := r.Load(cfg); err != nil {
		return router.Config{}, err
	}
	if cfg.Home == "" {
		return router.Config{}, errors.New("no home destination")
	}

	if templates {
		var errs []error
		for _, d := range cfg.Destinations {
			if d.Source.Template == "" {
				continue
			}
			ref := d.Source.Template
			if !filepath.IsAbs(ref) {
				ref = filepath.Join(filepath.Dir(path), ref)
			}
			if _, err := os.Stat(ref); err != nil {
				errs = append(errs, fmt.Errorf("destination %q: %w", d.ID, err))
			}
		}
		if err := errors.Join(errs...); err != nil {
			return router.Config{}, err
		}
	}
	return cfg, nil
}
