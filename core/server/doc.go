// Package server holds the HTTP server configuration.
//
// The start command owns the Fiber application; this package only defines the
// port the API listens on and the API key that protects it.
//
// # Usage
//
//	app.Listen(cfg.Server.Address())
package server
