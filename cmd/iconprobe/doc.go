// Command iconprobe is a diagnostic tool for the icon resolution
// pipeline. It runs each tier for a given path independently and
// prints what each produces, including whether the output would pass
// the visibility gate. Useful when a file shows an unexpected icon:
// the probe reveals which tier won and why the earlier ones fell
// through.
//
// Usage:
//
//	iconprobe -size 128 -theme /usr/share/icons/engine /path/to/file.pdf
package main
