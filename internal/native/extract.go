package native

import (
	"bytes"
	"debug/pe"
	"encoding/binary"
	"image"
	"image/png"
	"os"

	"icon-engine/internal/filekind"
	"icon-engine/internal/fsstat"
	"icon-engine/internal/logging"

	"github.com/fyne-io/image/ico"
)

// ExtractAdapter is the tier-2 strategy: pull an icon resource out of
// the file itself. It decodes .ico containers directly and extracts
// PNG-compressed icon resources from PE executables. Shortcut link
// files are resolved to their target first.
type ExtractAdapter struct {
	links fsstat.ShortcutResolver
}

// NewExtractAdapter creates the extraction tier with the given
// shortcut resolver.
func NewExtractAdapter(links fsstat.ShortcutResolver) *ExtractAdapter {
	return &ExtractAdapter{links: links}
}

// Name implements Adapter.
func (a *ExtractAdapter) Name() string { return "native_extract" }

// TryResolve implements Adapter.
func (a *ExtractAdapter) TryResolve(path string, px int) (image.Image, bool) {
	if filekind.IsShortcut(path) {
		target, ok := a.links.ResolveTarget(path)
		if !ok {
			return nil, false
		}
		path = target
	}

	switch filekind.Ext(path) {
	case ".ico":
		return decodeIcoFile(path)
	case ".exe", ".dll":
		return extractPEIcon(path)
	}
	return nil, false
}

// decodeIcoFile decodes an icon container, yielding its best frame.
func decodeIcoFile(path string) (image.Image, bool) {
	f, err := os.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	img, err := ico.Decode(f)
	if err != nil {
		logging.Debug("extract: ico decode failed for %s: %v", path, err)
		return nil, false
	}
	return img, true
}

const rtIcon = 3 // RT_ICON resource type

// extractPEIcon walks the resource section of a PE binary and returns
// the first PNG-compressed icon resource it finds. Classic DIB icon
// frames are skipped; callers fall through to the next tier for those.
func extractPEIcon(path string) (image.Image, bool) {
	f, err := pe.Open(path)
	if err != nil {
		return nil, false
	}
	defer f.Close()

	rsrc := f.Section(".rsrc")
	if rsrc == nil {
		return nil, false
	}
	data, err := rsrc.Data()
	if err != nil {
		return nil, false
	}

	for _, blob := range iconResources(data, rsrc.VirtualAddress) {
		if bytes.HasPrefix(blob, []byte("\x89PNG")) {
			img, err := png.Decode(bytes.NewReader(blob))
			if err == nil {
				return img, true
			}
		}
	}
	return nil, false
}

// iconResources collects the raw data blobs of every RT_ICON entry in
// a resource section. The section layout is a three-level directory
// (type / name / language); malformed offsets end the walk early.
func iconResources(data []byte, sectionVA uint32) [][]byte {
	var blobs [][]byte

	entries, ok := dirEntries(data, 0)
	if !ok {
		return nil
	}
	for _, e := range entries {
		if e.id != rtIcon || !e.isDir {
			continue
		}
		names, ok := dirEntries(data, e.offset)
		if !ok {
			continue
		}
		for _, n := range names {
			if !n.isDir {
				continue
			}
			langs, ok := dirEntries(data, n.offset)
			if !ok {
				continue
			}
			for _, l := range langs {
				if l.isDir {
					continue
				}
				if blob, ok := dataBlob(data, l.offset, sectionVA); ok {
					blobs = append(blobs, blob)
				}
			}
		}
	}
	return blobs
}

type rsrcEntry struct {
	id     uint32
	offset uint32
	isDir  bool
}

// dirEntries reads an IMAGE_RESOURCE_DIRECTORY at off and returns its
// entries. The high bit of the entry offset marks a subdirectory.
func dirEntries(data []byte, off uint32) ([]rsrcEntry, bool) {
	const dirHeader = 16
	const entrySize = 8
	if int(off)+dirHeader > len(data) {
		return nil, false
	}
	named := binary.LittleEndian.Uint16(data[off+12 : off+14])
	ids := binary.LittleEndian.Uint16(data[off+14 : off+16])
	count := int(named) + int(ids)
	if count > 4096 { // implausible count, treat as corrupt
		return nil, false
	}

	var entries []rsrcEntry
	base := int(off) + dirHeader
	for i := 0; i < count; i++ {
		pos := base + i*entrySize
		if pos+entrySize > len(data) {
			return nil, false
		}
		id := binary.LittleEndian.Uint32(data[pos : pos+4])
		raw := binary.LittleEndian.Uint32(data[pos+4 : pos+8])
		entries = append(entries, rsrcEntry{
			id:     id,
			offset: raw &^ 0x80000000,
			isDir:  raw&0x80000000 != 0,
		})
	}
	return entries, true
}

// dataBlob reads an IMAGE_RESOURCE_DATA_ENTRY and returns the bytes it
// points at. Data RVAs are relative to the image, so the section's
// virtual address is subtracted.
func dataBlob(data []byte, off, sectionVA uint32) ([]byte, bool) {
	if int(off)+16 > len(data) {
		return nil, false
	}
	rva := binary.LittleEndian.Uint32(data[off : off+4])
	size := binary.LittleEndian.Uint32(data[off+4 : off+8])
	if rva < sectionVA {
		return nil, false
	}
	start := rva - sectionVA
	end := uint64(start) + uint64(size)
	if end > uint64(len(data)) {
		return nil, false
	}
	return data[start:end], true
}
