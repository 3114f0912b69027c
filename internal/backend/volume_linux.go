//go:build linux

package backend

import (
	"syscall"
)

// https://btrfs.readthedocs.io/en/latest/dev/dev-internals.html
const (
	btrfsSuperMagic       = 0x9123683e
	firstFreeObjectID     = 256 // inode number of every subvolume root
	emptySubvolDirInodeNr = 2   // inode of empty-subvolume placeholder dirs
)

// IsVolume checks that path sits on a btrfs filesystem and is the root of
// a subvolume. Snapshots are subvolumes themselves, so they pass too.
func (b *Btrfs) IsVolume(path string) bool {
	var sfs syscall.Statfs_t
	if err := syscall.Statfs(path, &sfs); err != nil {
		return false
	}
	if uint64(sfs.Type) != uint64(btrfsSuperMagic) {
		return false
	}

	var st syscall.Stat_t
	if err := syscall.Stat(path, &st); err != nil {
		return false
	}
	return st.Ino == firstFreeObjectID || st.Ino == emptySubvolDirInodeNr
}
