//go:build linux

package watcher

import "golang.org/x/sys/unix"

// Superblock magic numbers from statfs(2).
const (
	magicNFS   = 0x6969
	magicSMB   = 0x517b
	magicCIFS  = 0xff534d42
	magicSMB2  = 0xfe534d42
	magicFUSE  = 0x65735546
	magicCODA  = 0x73757245
	magicAFS   = 0x5346414f
	magicCEPH  = 0x00c36400
	magicGFS2  = 0x01161970
	magicLUSTR = 0x0bd00bd0
)

func statFilesystemType(path string) FilesystemType {
	var st unix.Statfs_t
	if err := unix.Statfs(path, &st); err != nil {
		return FSTypeUnknown
	}
	switch uint32(st.Type) {
	case magicNFS:
		return FSTypeNFS
	case magicSMB, magicCIFS, magicSMB2:
		return FSTypeSMB
	case magicFUSE:
		// sshfs and other FUSE mounts share a magic number.
		return FSTypeFUSE
	case magicCODA, magicAFS, magicCEPH, magicGFS2, magicLUSTR:
		return FSTypeNFS
	default:
		return FSTypeLocal
	}
}
