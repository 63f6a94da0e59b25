package fsstat

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"strings"

	"icon-engine/internal/logging"
)

// ShortcutResolver resolves link files (.lnk, .desktop, symlinks) to
// their target path. Implementations return ok=false when the path is
// not a link or the target cannot be determined.
type ShortcutResolver interface {
	ResolveTarget(path string) (target string, ok bool)
}

// Links is the default ShortcutResolver. It follows symlinks, reads
// the Exec/URL target out of .desktop entries, and extracts the local
// base path from Windows .lnk files.
type Links struct{}

// NewLinks returns the default shortcut resolver.
func NewLinks() *Links {
	return &Links{}
}

// ResolveTarget resolves one level of indirection. It does not chase
// chains of links; the caller re-enters resolution with the target.
func (l *Links) ResolveTarget(path string) (string, bool) {
	if info, err := os.Lstat(path); err == nil && info.Mode()&os.ModeSymlink != 0 {
		target, err := filepath.EvalSymlinks(path)
		if err != nil {
			logging.Debug("broken symlink %s: %v", path, err)
			return "", false
		}
		return target, true
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".lnk":
		return readLnkTarget(path)
	case ".desktop":
		return readDesktopTarget(path)
	}
	return "", false
}

const (
	lnkHeaderSize            = 0x4C
	lnkFlagHasTargetIDList   = 1 << 0
	lnkFlagHasLinkInfo       = 1 << 1
	linkInfoFlagLocalBase    = 1 << 0
	localBasePathOffsetField = 16 // offset of LocalBasePathOffset within LinkInfo
)

// readLnkTarget extracts the LocalBasePath from a Windows shell link
// file. Only the header, the optional target ID list and the LinkInfo
// block are examined; anything malformed yields ok=false.
func readLnkTarget(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil || len(data) < lnkHeaderSize {
		return "", false
	}
	if binary.LittleEndian.Uint32(data[0:4]) != lnkHeaderSize {
		return "", false
	}

	flags := binary.LittleEndian.Uint32(data[20:24])
	pos := lnkHeaderSize

	if flags&lnkFlagHasTargetIDList != 0 {
		if pos+2 > len(data) {
			return "", false
		}
		idListSize := int(binary.LittleEndian.Uint16(data[pos : pos+2]))
		pos += 2 + idListSize
	}

	if flags&lnkFlagHasLinkInfo == 0 || pos+4 > len(data) {
		return "", false
	}

	infoSize := int(binary.LittleEndian.Uint32(data[pos : pos+4]))
	if infoSize < 28 || pos+infoSize > len(data) {
		return "", false
	}
	info := data[pos : pos+infoSize]

	infoFlags := binary.LittleEndian.Uint32(info[8:12])
	if infoFlags&linkInfoFlagLocalBase == 0 {
		return "", false
	}

	baseOffset := int(binary.LittleEndian.Uint32(info[localBasePathOffsetField : localBasePathOffsetField+4]))
	if baseOffset <= 0 || baseOffset >= len(info) {
		return "", false
	}

	raw := info[baseOffset:]
	if i := bytes.IndexByte(raw, 0); i >= 0 {
		raw = raw[:i]
	}
	target := string(raw)
	if target == "" {
		return "", false
	}
	return target, true
}

// readDesktopTarget returns the Path= or URL=file:// target of an XDG
// desktop entry, when one is present.
func readDesktopTarget(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	for _, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if after, ok := strings.CutPrefix(line, "Path="); ok && after != "" {
			return after, true
		}
		if after, ok := strings.CutPrefix(line, "URL=file://"); ok && after != "" {
			return after, true
		}
	}
	return "", false
}
