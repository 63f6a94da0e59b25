//go:build windows

package native

import (
	"image"
	"unsafe"

	"icon-engine/internal/logging"

	"golang.org/x/sys/windows"
)

// ShellAdapter asks the Windows shell for the file's icon via
// SHGetFileInfoW. Every native handle is released on the same exit
// path it was acquired on; nothing is held across tier transitions.
type ShellAdapter struct {
	large bool
}

// NewShellAdapter returns the shell-backed adapter. large selects the
// shell's large icon variant.
func NewShellAdapter(large bool) *ShellAdapter {
	return &ShellAdapter{large: large}
}

// Name implements Adapter.
func (a *ShellAdapter) Name() string {
	if a.large {
		return "native_shell"
	}
	return "native_legacy"
}

// OSAdapters returns the shell-backed adapters, large icon first.
func OSAdapters() []Adapter {
	return []Adapter{NewShellAdapter(true), NewShellAdapter(false)}
}

var (
	shell32           = windows.NewLazySystemDLL("shell32.dll")
	user32            = windows.NewLazySystemDLL("user32.dll")
	gdi32             = windows.NewLazySystemDLL("gdi32.dll")
	procSHGetFileInfo = shell32.NewProc("SHGetFileInfoW")
	procDestroyIcon   = user32.NewProc("DestroyIcon")
	procGetIconInfo   = user32.NewProc("GetIconInfo")
	procGetDC         = user32.NewProc("GetDC")
	procReleaseDC     = user32.NewProc("ReleaseDC")
	procGetDIBits     = gdi32.NewProc("GetDIBits")
	procDeleteObject  = gdi32.NewProc("DeleteObject")
)

const (
	shgfiIcon      = 0x000000100
	shgfiLargeIcon = 0x000000000
	shgfiSmallIcon = 0x000000001

	biRGB          = 0
	dibRGBColors   = 0
	iconPixelLarge = 32
)

type shFileInfo struct {
	HIcon       windows.Handle
	IIcon       int32
	Attributes  uint32
	DisplayName [260]uint16
	TypeName    [80]uint16
}

type iconInfo struct {
	FIcon    int32
	XHotspot uint32
	YHotspot uint32
	HbmMask  windows.Handle
	HbmColor windows.Handle
}

type bitmapInfoHeader struct {
	Size          uint32
	Width         int32
	Height        int32
	Planes        uint16
	BitCount      uint16
	Compression   uint32
	SizeImage     uint32
	XPelsPerMeter int32
	YPelsPerMeter int32
	ClrUsed       uint32
	ClrImportant  uint32
}

// TryResolve implements Adapter.
func (a *ShellAdapter) TryResolve(path string, _ int) (image.Image, bool) {
	p, err := windows.UTF16PtrFromString(path)
	if err != nil {
		return nil, false
	}

	flags := uintptr(shgfiIcon)
	if a.large {
		flags |= shgfiLargeIcon
	} else {
		flags |= shgfiSmallIcon
	}

	var info shFileInfo
	ret, _, _ := procSHGetFileInfo.Call(
		uintptr(unsafe.Pointer(p)), 0,
		uintptr(unsafe.Pointer(&info)), unsafe.Sizeof(info), flags)
	if ret == 0 || info.HIcon == 0 {
		return nil, false
	}
	defer procDestroyIcon.Call(uintptr(info.HIcon))

	img, err := iconToImage(info.HIcon)
	if err != nil {
		logging.Debug("shell adapter: icon conversion failed for %s: %v", path, err)
		return nil, false
	}
	return img, true
}

// iconToImage copies an HICON's color bitmap into an NRGBA buffer.
func iconToImage(hIcon windows.Handle) (image.Image, error) {
	var ii iconInfo
	ret, _, err := procGetIconInfo.Call(uintptr(hIcon), uintptr(unsafe.Pointer(&ii)))
	if ret == 0 {
		return nil, err
	}
	defer procDeleteObject.Call(uintptr(ii.HbmMask))
	defer procDeleteObject.Call(uintptr(ii.HbmColor))

	hdc, _, _ := procGetDC.Call(0)
	if hdc == 0 {
		return nil, windows.ERROR_INVALID_HANDLE
	}
	defer procReleaseDC.Call(0, hdc)

	// First query for dimensions, then fetch the pixels top-down.
	hdr := bitmapInfoHeader{Size: uint32(unsafe.Sizeof(bitmapInfoHeader{}))}
	ret, _, err = procGetDIBits.Call(hdc, uintptr(ii.HbmColor), 0, 0,
		0, uintptr(unsafe.Pointer(&hdr)), dibRGBColors)
	if ret == 0 || hdr.Width <= 0 || hdr.Height == 0 {
		return nil, err
	}

	w := int(hdr.Width)
	h := int(hdr.Height)
	if h < 0 {
		h = -h
	}

	hdr.Height = -int32(h) // negative height = top-down rows
	hdr.Planes = 1
	hdr.BitCount = 32
	hdr.Compression = biRGB

	buf := make([]byte, w*h*4)
	ret, _, err = procGetDIBits.Call(hdc, uintptr(ii.HbmColor), 0, uintptr(h),
		uintptr(unsafe.Pointer(&buf[0])), uintptr(unsafe.Pointer(&hdr)), dibRGBColors)
	if ret == 0 {
		return nil, err
	}

	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for i := 0; i+3 < len(buf); i += 4 {
		// DIB rows are BGRA.
		img.Pix[i] = buf[i+2]
		img.Pix[i+1] = buf[i+1]
		img.Pix[i+2] = buf[i]
		img.Pix[i+3] = buf[i+3]
	}
	return img, nil
}
