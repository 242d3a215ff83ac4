// Package helper provides testing utilities, fakes and log handler spies for the bank snapshot packages.
//
// This package contains shared testing infrastructure including a slog.Handler spy for
// capturing and validating log output during tests, fake widget sources and name resolvers,
// and fixture builders for item records.
package helper
