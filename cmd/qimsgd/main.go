// Command qimsgd runs a demo listener exercising the direct-dispatch
// subsystem end to end: a TCP frame listener per peer connection, each
// backed by a stream.Context, plus a small gin admin server for health,
// metrics, and read-only capability introspection.
package main

import (
	"flag"

	"github.com/danmuck/qimsg/internal/config"
	"github.com/danmuck/qimsg/internal/logging"
)

func main() {
	logging.ConfigureRuntime()

	configPath := flag.String("config", "cmd/qimsgd/config.toml", "path to the listener TOML config")
	initConfig := flag.Bool("init", false, "write a starter config to -config and exit, without clobbering an existing file")
	flag.Parse()

	if *initConfig {
		if err := config.WriteTemplate(*configPath, false); err != nil {
			logging.Errorf("qimsgd: failed to write starter config: %v", err)
		} else {
			logging.Infof("qimsgd: wrote starter config to %q", *configPath)
		}
		return
	}

	cfg, err := config.LoadListenerConfig(*configPath)
	if err != nil {
		logging.Errorf("qimsgd: failed to load config: %v", err)
		return
	}
	logging.Infof("qimsgd: loaded config path=%q name=%q addr=%q", *configPath, cfg.Name, cfg.Addr)

	reg := newStreamRegistry()

	adm := newAdminServer(cfg, reg)
	go func() {
		if err := adm.Run(cfg.AdminAddr); err != nil {
			logging.Errorf("qimsgd: admin server stopped: %v", err)
		}
	}()

	ln := newListener(cfg, reg)
	if err := ln.Serve(); err != nil {
		logging.Errorf("qimsgd: listener stopped: %v", err)
	}
}
