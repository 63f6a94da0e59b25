// Package fsstat provides the filesystem stat and shortcut-resolution
// interfaces the icon engine consumes, plus OS-backed implementations
// with retry handling for stale NFS handles.
package fsstat
