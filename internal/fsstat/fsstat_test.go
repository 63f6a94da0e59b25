package fsstat

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"
)

func TestOSStatBasics(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "a.txt")
	if err := os.WriteFile(file, []byte("hello"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	fs := NewOS()

	if !fs.Exists(file) {
		t.Error("Exists() = false for existing file")
	}
	if fs.Exists(filepath.Join(tmpDir, "missing")) {
		t.Error("Exists() = true for missing file")
	}

	size, err := fs.Size(file)
	if err != nil || size != 5 {
		t.Errorf("Size() = %d, %v, want 5, nil", size, err)
	}

	mtime, err := fs.MTime(file)
	if err != nil {
		t.Fatalf("MTime: %v", err)
	}
	if time.Since(mtime) > time.Minute {
		t.Errorf("MTime too old: %v", mtime)
	}

	if !fs.IsDir(tmpDir) {
		t.Error("IsDir() = false for directory")
	}
	if fs.IsDir(file) {
		t.Error("IsDir() = true for regular file")
	}
}

func TestOSErrorsForMissing(t *testing.T) {
	fs := NewOS()
	if _, err := fs.Size("/nonexistent/definitely/missing"); err == nil {
		t.Error("Size of missing path must error")
	}
	if _, err := fs.MTime("/nonexistent/definitely/missing"); err == nil {
		t.Error("MTime of missing path must error")
	}
}

func TestResolveTargetSymlink(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation needs privileges on windows")
	}
	tmpDir := t.TempDir()
	target := filepath.Join(tmpDir, "real")
	if err := os.Mkdir(target, 0o755); err != nil {
		t.Fatalf("Mkdir: %v", err)
	}
	link := filepath.Join(tmpDir, "link")
	if err := os.Symlink(target, link); err != nil {
		t.Fatalf("Symlink: %v", err)
	}

	got, ok := NewLinks().ResolveTarget(link)
	if !ok {
		t.Fatal("ResolveTarget failed for symlink")
	}
	resolved, _ := filepath.EvalSymlinks(target)
	if got != resolved {
		t.Errorf("ResolveTarget = %q, want %q", got, resolved)
	}
}

func TestResolveTargetNonLink(t *testing.T) {
	tmpDir := t.TempDir()
	file := filepath.Join(tmpDir, "plain.txt")
	if err := os.WriteFile(file, []byte("x"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, ok := NewLinks().ResolveTarget(file); ok {
		t.Error("plain file must not resolve as a shortcut")
	}
}

// writeLnk builds a minimal shell link with a LinkInfo block carrying
// the given local base path.
func writeLnk(t *testing.T, path, target string) {
	t.Helper()

	base := []byte(target)
	// LinkInfo: size, header size, flags, volumeID offset, localBasePath
	// offset, commonPathSuffix offset, then the path bytes.
	infoHeader := 28
	infoSize := infoHeader + len(base) + 1
	info := make([]byte, infoSize)
	binary.LittleEndian.PutUint32(info[0:4], uint32(infoSize))
	binary.LittleEndian.PutUint32(info[4:8], uint32(infoHeader))
	binary.LittleEndian.PutUint32(info[8:12], linkInfoFlagLocalBase)
	binary.LittleEndian.PutUint32(info[16:20], uint32(infoHeader))
	copy(info[infoHeader:], base)

	header := make([]byte, lnkHeaderSize)
	binary.LittleEndian.PutUint32(header[0:4], lnkHeaderSize)
	binary.LittleEndian.PutUint32(header[20:24], lnkFlagHasLinkInfo)

	if err := os.WriteFile(path, append(header, info...), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
}

func TestReadLnkTarget(t *testing.T) {
	tmpDir := t.TempDir()
	lnk := filepath.Join(tmpDir, "doc.lnk")
	writeLnk(t, lnk, `C:\Users\me\Documents`)

	got, ok := NewLinks().ResolveTarget(lnk)
	if !ok {
		t.Fatal("ResolveTarget failed for .lnk")
	}
	if got != `C:\Users\me\Documents` {
		t.Errorf("ResolveTarget = %q", got)
	}
}

func TestReadLnkTargetMalformed(t *testing.T) {
	tmpDir := t.TempDir()
	lnk := filepath.Join(tmpDir, "broken.lnk")
	if err := os.WriteFile(lnk, []byte("not a link"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if _, ok := NewLinks().ResolveTarget(lnk); ok {
		t.Error("malformed .lnk must not resolve")
	}
}

func TestReadDesktopTarget(t *testing.T) {
	tmpDir := t.TempDir()
	desktop := filepath.Join(tmpDir, "docs.desktop")
	content := "[Desktop Entry]\nType=Link\nURL=file:///home/me/Documents\n"
	if err := os.WriteFile(desktop, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	got, ok := NewLinks().ResolveTarget(desktop)
	if !ok || got != "/home/me/Documents" {
		t.Errorf("ResolveTarget = %q, %v", got, ok)
	}
}
