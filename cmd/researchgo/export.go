package main

import (
	"flag"
)

func runExport(args []string) error {
	fs := flag.NewFlagSet("export", flag.ExitOnError)

	var cf commonFlags
	registerCommonFlags(fs, &cf)

	if err := fs.Parse(args); err != nil {
		return err
	}

	cfg, err := cf.loadConfig()
	if err != nil {
		return err
	}

	logger, err := cf.logger()
	if err != nil {
		return err
	}

	store, err := openStore(cfg, logger)
	if err != nil {
		return err
	}

	return printJSON(store.Documents())
}
