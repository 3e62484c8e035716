// Package logger is the public API of the logging runtime. Most users
// only need to import this package.
//
// A Configuration resolves the logger for a calling context. With no
// explicit registrations every caller shares one common logger, so
// simple programs can log through the package-level functions without
// any setup:
//
//	logger.Info("ready on port", port)
//
// Once a logger is registered for a Category, resolution walks the
// category's ancestors (closest first) and caches the result, so a
// library can be given its own destination or level set while the rest
// of the process keeps the default:
//
//	cfg := logger.NewConfiguration(logger.Config{File: "app.log"})
//	cfg.Register(storeCategory, verbose)
//	logger.SetDefault(cfg)
//
// Level checks happen before any formatting, so filtered-out messages
// cost only an atomic load and a bitmask test.
package logger
