// Package logging provides the leveled logging used across the icon
// engine.
//
// Levels are DEBUG, INFO, WARN and ERROR, configured through the
// LOG_LEVEL environment variable (or DEBUG=1 as a shorthand for the
// debug level). Anything below the configured level is dropped.
package logging
