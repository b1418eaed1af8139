package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/hupe1980/researchgo"
	"github.com/hupe1980/researchgo/codec"
	"github.com/hupe1980/researchgo/config"
	"github.com/hupe1980/researchgo/vectorstore"
)

// commonFlags are shared by every subcommand.
type commonFlags struct {
	configPath string
	storePath  string
	logLevel   string
	logFormat  string
}

func registerCommonFlags(fs *flag.FlagSet, cf *commonFlags) {
	fs.StringVar(&cf.configPath, "config", "", "YAML config file")
	fs.StringVar(&cf.storePath, "store", "", "override the vector store path")
	fs.StringVar(&cf.logLevel, "log-level", "info", "log level (debug|info|warn|error)")
	fs.StringVar(&cf.logFormat, "log-format", "text", "log format (text|json)")
}

func (cf *commonFlags) loadConfig() (config.Config, error) {
	cfg, err := config.Load(cf.configPath)
	if err != nil {
		return config.Config{}, err
	}
	if cf.storePath != "" {
		cfg.Store.Path = cf.storePath
	}
	return cfg, nil
}

func (cf *commonFlags) logger() (*researchgo.Logger, error) {
	var level slog.Level
	if err := level.UnmarshalText([]byte(cf.logLevel)); err != nil {
		return nil, fmt.Errorf("invalid log level %q", cf.logLevel)
	}

	switch cf.logFormat {
	case "json":
		return researchgo.NewJSONLogger(level), nil
	case "text":
		return researchgo.NewTextLogger(level), nil
	default:
		return nil, fmt.Errorf("invalid log format %q", cf.logFormat)
	}
}

func openStore(cfg config.Config, logger *researchgo.Logger) (*vectorstore.Store, error) {
	var storeCodec codec.Codec
	if cfg.Store.Codec != "" {
		c, ok := codec.ByName(cfg.Store.Codec)
		if !ok {
			return nil, fmt.Errorf("unknown codec %q", cfg.Store.Codec)
		}
		storeCodec = c
	}

	return vectorstore.New(cfg.Store.Path, func(o *vectorstore.Options) {
		o.Dimension = cfg.Store.Dimension
		o.Codec = storeCodec
		o.Logger = logger.Logger
	})
}

func printJSON(v any) error {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	_, err = fmt.Fprintln(os.Stdout, string(data))
	return err
}
