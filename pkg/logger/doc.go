// Package logger provides a slog-based logger factory and typed attribute
// helpers shared across the notification subsystem.
//
// The factory produces ready-to-use *slog.Logger instances with consistent
// formatting, and the attribute helpers keep log field names uniform so logs
// from the engine, channels, and stores can be correlated downstream.
//
//	log := logger.New(logger.WithLevel(slog.LevelDebug), logger.WithFormat(logger.FormatText))
//	log.Info("payload queued", logger.PayloadID(p.ID), logger.Channel(string(p.Channel)))
package logger
