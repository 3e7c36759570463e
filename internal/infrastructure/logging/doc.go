// Package logging wraps log/slog for the brightness daemon.
//
// Every entry carries the service name and build version as default
// attributes. Output format (json or text), destination (stdout or
// stderr) and level come from the logging section of the config:
//
//	logging:
//	  level: "info"
//	  format: "json"
//	  output: "stdout"
//
// JSON is the default so journald and log shippers get structured
// entries; text is for running the daemon interactively.
//
//	log := logging.New(cfg.Logging, version)
//	log.Info("pass complete", "displays", 2)
package logging
