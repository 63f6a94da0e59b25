// Package cache memoizes resolved icons in memory.
//
// Two key scopes coexist. Per-file keys cover content rendered from
// the file itself and are bound to the file's modification time: every
// lookup re-checks the current mtime and treats any mismatch, or any
// stat failure, as stale. Per-extension keys cover resources that are
// visually identical across all files sharing an extension, such as
// generic association icons, and are unaffected by individual files.
package cache
