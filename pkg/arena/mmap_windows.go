//go:build windows

// pkg/arena/mmap_windows.go
package arena

import (
	"reflect"
	"unsafe"

	"golang.org/x/sys/windows"
)

// mapAnon mirrors pkg/pager/mmap_windows.go's CreateFileMapping/MapViewOfFile
// pair, but passes windows.InvalidHandle so the mapping is backed by the
// system paging file instead of a caller-supplied file.
func mapAnon(size int) ([]byte, error) {
	mapHandle, err := windows.CreateFileMapping(
		windows.InvalidHandle,
		nil,
		windows.PAGE_READWRITE,
		uint32(uint64(size)>>32),
		uint32(uint64(size)&0xFFFFFFFF),
		nil,
	)
	if err != nil {
		return nil, err
	}

	addr, err := windows.MapViewOfFile(
		mapHandle,
		windows.FILE_MAP_READ|windows.FILE_MAP_WRITE,
		0, 0,
		uintptr(size),
	)
	if err != nil {
		windows.CloseHandle(mapHandle)
		return nil, err
	}
	windowsMapHandles[addr] = mapHandle

	var data []byte
	header := (*reflect.SliceHeader)(unsafe.Pointer(&data))
	header.Data = addr
	header.Len = size
	header.Cap = size
	return data, nil
}

// windowsMapHandles tracks the CreateFileMapping handle for each live
// mapping's base address, since unmapAnon is only given the []byte back.
var windowsMapHandles = map[uintptr]windows.Handle{}

func unmapAnon(data []byte) error {
	if len(data) == 0 {
		return nil
	}
	addr := uintptr(unsafe.Pointer(&data[0]))
	mapHandle := windowsMapHandles[addr]
	delete(windowsMapHandles, addr)
	if err := windows.UnmapViewOfFile(addr); err != nil {
		return err
	}
	return windows.CloseHandle(mapHandle)
}
