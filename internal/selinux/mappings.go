// Package selinux maps kernel security-class IDs and permission
// bitmasks to the names used in policy source.
package selinux

import "fmt"

// classNames maps kernel class IDs to policy class names.
var classNames = map[uint16]string{
	1:  "security",
	2:  "process",
	3:  "system",
	4:  "capability",
	5:  "filesystem",
	6:  "file",
	7:  "dir",
	8:  "fd",
	9:  "lnk_file",
	10: "chr_file",
	11: "blk_file",
	12: "sock_file",
	13: "fifo_file",
	14: "socket",
	15: "tcp_socket",
	16: "udp_socket",
	17: "rawip_socket",
	18: "node",
	19: "netif",
	20: "netlink_socket",
	21: "packet_socket",
	22: "key_socket",
	23: "unix_stream_socket",
	24: "unix_dgram_socket",
}

// Class IDs referenced directly.
const (
	ClassFile uint16 = 6
	ClassDir  uint16 = 7
)

// ClassName returns the policy name for a kernel class ID.
func ClassName(tclass uint16) string {
	if name, ok := classNames[tclass]; ok {
		return name
	}
	return fmt.Sprintf("class_%d", tclass)
}

// ClassID returns the kernel class ID for a policy class name.
func ClassID(name string) (uint16, bool) {
	for id, n := range classNames {
		if n == name {
			return id, true
		}
	}
	return 0, false
}

type permBit struct {
	bit  uint32
	name string
}

// file-class access vector bits.
var filePerms = []permBit{
	{0x00000001, "ioctl"},
	{0x00000002, "read"},
	{0x00000004, "write"},
	{0x00000008, "create"},
	{0x00000010, "getattr"},
	{0x00000020, "setattr"},
	{0x00000040, "lock"},
	{0x00000080, "relabelfrom"},
	{0x00000100, "relabelto"},
	{0x00000200, "append"},
	{0x00000400, "unlink"},
	{0x00000800, "link"},
	{0x00001000, "rename"},
	{0x00002000, "execute"},
	{0x00004000, "quotaon"},
	{0x00008000, "mounton"},
	{0x00010000, "audit_access"},
	{0x00020000, "open"},
	{0x00040000, "execmod"},
}

// dir-class access vector bits.
var dirPerms = []permBit{
	{0x00000001, "ioctl"},
	{0x00000002, "read"},
	{0x00000004, "write"},
	{0x00000008, "create"},
	{0x00000010, "getattr"},
	{0x00000020, "setattr"},
	{0x00000040, "lock"},
	{0x00000080, "relabelfrom"},
	{0x00000100, "relabelto"},
	{0x00000200, "append"},
	{0x00000400, "unlink"},
	{0x00000800, "link"},
	{0x00001000, "rename"},
	{0x00002000, "execute"},
	{0x00004000, "add_name"},
	{0x00008000, "remove_name"},
	{0x00010000, "reparent"},
	{0x00020000, "search"},
	{0x00040000, "rmdir"},
	{0x00080000, "open"},
}

// Linux VFS MAY_* bits as seen by the inode_permission and
// file_permission hooks. These are not SELinux access vector bits.
const (
	mayExec   = 0x00000001
	mayWrite  = 0x00000002
	mayRead   = 0x00000004
	mayAppend = 0x00000008
	mayOpen   = 0x00000010
	mayChdir  = 0x00000020
)

// DecodeVFSMask decodes a Linux VFS MAY_* mask into permission names.
// For file-class read/write checks getattr is included as well, since
// stat is always checked alongside content access.
func DecodeVFSMask(mask uint32, tclass uint16) []string {
	var perms []string
	if mask&mayExec != 0 {
		perms = append(perms, "execute")
	}
	if mask&mayWrite != 0 {
		perms = append(perms, "write")
	}
	if mask&mayRead != 0 {
		perms = append(perms, "read")
	}
	if mask&mayAppend != 0 {
		perms = append(perms, "append")
	}
	if mask&mayOpen != 0 {
		perms = append(perms, "open")
	}
	if mask&mayChdir != 0 {
		perms = append(perms, "chdir")
	}

	if tclass == ClassFile && len(perms) > 0 {
		if contains(perms, "read") || contains(perms, "write") {
			if !contains(perms, "getattr") {
				perms = append(perms, "getattr")
			}
		}
	}

	if len(perms) == 0 {
		return []string{fmt.Sprintf("vfs_mask_0x%x", mask)}
	}
	return perms
}

// DecodePermissions decodes an SELinux access vector bitmask into
// permission names for the given class. Classes without a dedicated
// table fall back to the file-class table.
func DecodePermissions(bits uint32, tclass uint16) []string {
	table := filePerms
	if tclass == ClassDir {
		table = dirPerms
	}

	var perms []string
	for _, p := range table {
		if bits&p.bit != 0 {
			perms = append(perms, p.name)
		}
	}
	if len(perms) == 0 {
		return []string{fmt.Sprintf("perm_0x%x", bits)}
	}
	return perms
}

func contains(ss []string, s string) bool {
	for _, v := range ss {
		if v == s {
			return true
		}
	}
	return false
}
