//go:build unix || darwin || linux || freebsd || openbsd || netbsd

// pkg/arena/mmap_unix.go
package arena

import "golang.org/x/sys/unix"

// mapAnon maps an anonymous, zero-filled region not backed by any file,
// adapted from pkg/pager/mmap_unix.go's file-backed OpenMmapFile: no
// descriptor is opened, and MAP_ANON replaces MAP_SHARED since there is no
// file for another process to share the mapping with.
func mapAnon(size int) ([]byte, error) {
	return unix.Mmap(-1, 0, size, unix.PROT_READ|unix.PROT_WRITE, unix.MAP_ANON|unix.MAP_PRIVATE)
}

func unmapAnon(data []byte) error {
	return unix.Munmap(data)
}
