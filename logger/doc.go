// Package logger provides structured logging for httpkit using zerolog.
//
// It supports JSON and console output, level configuration, and
// component-scoped loggers carrying the standard call fields (method, url,
// outcome, request id).
//
// # Configuration
//
//	logging:
//	  level: "debug"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("httpclient")
//	log.Debug("dispatch", logger.Fields(logger.FieldMethod, "GET"))
package logger
