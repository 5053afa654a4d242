// Package logger provides a small wrapper around zap to offer:
//   - a global sugared logger with a sane console encoder,
//   - context helpers (ToContext/FromContext/WithName/WithKV/WithFields),
//   - level configuration and parsing utilities,
//   - convenience functions (Infof, ErrorKV, etc.).
//
// All packages accept a context and extract the logger from it, enabling
// scoped, structured logging throughout the codebase. Console output is
// colored by level, which doubles as the tool's user-facing status text.
package logger
