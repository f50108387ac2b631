// Package logger provides structured logging backed by zerolog.
//
// It supports JSON and console output, level configuration, component-scoped
// loggers and request/analysis ids carried on the context.
//
// # Configuration
//
//	logging:
//	  level: "info"
//	  format: "json"
//
// # Usage
//
//	log := logger.Get("transcription")
//	log.Info("transcript received", logger.Fields("segments", 12))
package logger
