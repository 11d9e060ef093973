package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/file"
	"github.com/nihei9/lrgen/lr"
	"github.com/npillmayer/schuko"
	"github.com/npillmayer/schuko/schukonf/koanfadapter"
	"github.com/npillmayer/schuko/tracing"
	"github.com/npillmayer/schuko/tracing/gologadapter"
	"github.com/npillmayer/schuko/tracing/trace2go"
)

const (
	keyEngine       = "engine"
	keyBisonPath    = "bison.path"
	keyBisonTimeout = "bison.timeout"
	keyTraceAdapter = "tracing.adapter"

	traceLevelPrefix = "tracelevel"
)

// Tracers whose levels --trace sets.
var traceKeys = []string{"root", "lrgen.grammar", "lrgen.lr", "lrgen.driver"}

// loadConfig merges the defaults, the configuration file if any, and the trace level flag, in this
// order.
//
// A configuration file looks like this:
//
//	engine: lalr1
//	bison:
//	    path: /usr/local/bin/bison
//	    timeout: 30
//	tracelevel:
//	    lrgen:
//	        lr: Debug
func loadConfig(path string, traceLevel string) (*koanfadapter.KConf, error) {
	c := koanfadapter.New(nil, "", nil)
	c.InitDefaults()

	defaults := map[string]interface{}{
		keyTraceAdapter: "go",
		keyEngine:       lr.EngineAuto,
		keyBisonPath:    "bison",
		keyBisonTimeout: 10,
	}
	for _, k := range traceKeys {
		defaults[traceLevelPrefix+"."+k] = "Error"
	}
	if err := c.Koanf().Load(confmap.Provider(defaults, "."), nil); err != nil {
		return nil, err
	}

	if path != "" {
		if err := c.Koanf().Load(file.Provider(path), koanfadapter.Parser()); err != nil {
			return nil, fmt.Errorf("Cannot load the configuration file %v: %w", path, err)
		}
	}

	if traceLevel != "" {
		switch strings.ToLower(traceLevel) {
		case "error", "info", "debug":
		default:
			return nil, fmt.Errorf("invalid trace level: %v", traceLevel)
		}
		for _, k := range traceKeys {
			c.Set(traceLevelPrefix+"."+k, traceLevel)
		}
	}

	return c, nil
}

func setupTracing(c schuko.Configuration) error {
	tracing.RegisterTraceAdapter("go", gologadapter.GetAdapter(), false)
	if err := trace2go.ConfigureRoot(c, traceLevelPrefix, trace2go.ReplaceTracers(true)); err != nil {
		return err
	}
	tracing.SetTraceSelector(trace2go.Selector())
	return nil
}

// engineOptions passes the bison settings of the configuration on to the engines.
func engineOptions(c schuko.Configuration) []lr.EngineOption {
	return []lr.EngineOption{
		lr.BisonPath(c.GetString(keyBisonPath)),
		lr.BisonTimeout(time.Duration(c.GetInt(keyBisonTimeout)) * time.Second),
	}
}
