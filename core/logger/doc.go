// Package logger provides slog construction and attribute helpers shared by
// every package in the module.
//
// Attribute helpers return an empty slog.Attr for nil or empty inputs, so
// calls like log.Info("msg", logger.Error(err)) need no nil checks.
//
//	log := logger.New(
//		logger.WithProduction("authkit-edge"),
//		logger.WithLevel(slog.LevelDebug),
//	)
//
//	log.Info("session refreshed",
//		logger.Component("authkit"),
//		logger.SessionID(claims.SessionID),
//		logger.Duration(elapsed),
//	)
package logger
