// Package logging provides structured logging for the Gramofon tooling.
//
// This package wraps zap logger with convenience functions for common logging
// patterns used throughout the codebase. It provides both general logging
// functions and specialized functions for RPC and discovery logging needs.
//
// # Log Levels
//
// The package supports standard log levels:
//   - Debug: Detailed debugging info (per-call traces, probe results)
//   - Info: Normal operations (devices found, batch progress)
//   - Warn: Non-fatal issues (session expiry, retries)
//   - Error: Fatal issues (startup failures, critical errors)
//
// # Structured Logging
//
// All log functions use structured fields for queryability:
//
//	logging.Info("Device found",
//	    zap.String("address", "192.168.1.100"),
//	    zap.String("name", "Living Room"),
//	    zap.String("mac", "00:11:22:33:44:55"),
//	)
//
// # Specialized Logging
//
// The package provides domain-specific logging functions:
//
//	logging.LogCall(address, "ledd", "switch", 1)
//	logging.LogCallResult(address, "ledd", "switch", elapsed, err)
//	logging.LogSession(address, "login_ok")
//	logging.LogProbe(address, "no_response")
//
// # Configuration
//
// CLI commands initialize from the environment so output stays silent unless
// the user opts in:
//
//	if err := logging.InitializeFromEnv(); err != nil {
//	    log.Fatal(err)
//	}
//	defer logging.Sync()
//
// Set GRAMOFON_LOG_LEVEL=debug to see per-call traces.
//
// # Thread Safety
//
// All logging functions are safe for concurrent use. The underlying zap logger
// handles synchronization automatically.
package logging
