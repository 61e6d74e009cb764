package main

import (
	"os"
	"strings"

	"github.com/Alia5/pawd/internal/config"
	"github.com/Alia5/pawd/internal/configpaths"
	"github.com/Alia5/pawd/internal/log"

	"github.com/alecthomas/kong"
	kongtoml "github.com/alecthomas/kong-toml"
	kongyaml "github.com/alecthomas/kong-yaml"
)

func main() {

	userCfg := findUserConfig(os.Args[1:])
	jsonPaths, yamlPaths, tomlPaths := configpaths.ConfigCandidatePaths(userCfg)

	var cli config.CLI
	ctx := kong.Parse(&cli,
		kong.Name("pawd"),
		kong.Description("PAW3222 trackball motion daemon"),
		kong.UsageOnError(),
		// Load configuration from JSON/YAML/TOML in priority order; flags/env override config values.
		kong.Configuration(kong.JSON, jsonPaths...),
		kong.Configuration(kongyaml.Loader, yamlPaths...),
		kong.Configuration(kongtoml.Loader, tomlPaths...),
	)

	logger, closeFiles, err := log.Setup(cli.Log.Level, cli.Log.Format, cli.Log.File)
	if err != nil {
		_, _ = os.Stderr.WriteString("failed to setup logger: " + err.Error() + "\n")
		os.Exit(2)
	}
	defer func() {
		for _, c := range closeFiles {
			_ = c.Close()
		}
	}()

	var trace log.RegisterTrace
	if cli.Log.RegisterFile != "" {
		f, err := os.OpenFile(cli.Log.RegisterFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			logger.Error("failed to open register log file", "file", cli.Log.RegisterFile, "error", err)
			trace = log.NewRegisterTrace(nil)
		} else {
			trace = log.NewRegisterTrace(f)
			closeFiles = append(closeFiles, f)
		}
	} else if cli.Log.Level == "trace" {
		trace = log.NewRegisterTrace(os.Stdout)
	} else {
		trace = log.NewRegisterTrace(nil)
	}

	ctx.Bind(logger)
	ctx.BindTo(trace, (*log.RegisterTrace)(nil))

	err = ctx.Run()
	ctx.FatalIfErrorf(err)
}

func findUserConfig(args []string) string {
	for i := 0; i < len(args); i++ {
		a := args[i]
		if strings.HasPrefix(a, "--config=") {
			return a[len("--config="):]
		}
		if a == "--config" && i+1 < len(args) {
			return args[i+1]
		}
	}
	if v := os.Getenv("PAWD_CONFIG"); v != "" {
		return v
	}
	return ""
}
