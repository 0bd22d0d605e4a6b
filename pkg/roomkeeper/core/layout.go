package core

import "path/filepath"

// Fixed on-disk layout under a scanned root. These names are static
// policy: the scanner excludes them and the planner targets them.
const (
	// SortedDirName holds one subdirectory per room.
	SortedDirName = "_Sorted"
	// QuarantineDirName, inside the sorted root, receives redundant
	// duplicates. Nothing is ever deleted.
	QuarantineDirName = "_Quarantine"
	// StateDirName holds undo records and the apply lock.
	StateDirName = ".roomkeeper"
)

// SortedRoot returns the sorted tree root for a scanned root.
func SortedRoot(root string) string {
	return filepath.Join(root, SortedDirName)
}

// QuarantineRoot returns the duplicate quarantine directory.
func QuarantineRoot(root string) string {
	return filepath.Join(SortedRoot(root), QuarantineDirName)
}

// StateRoot returns the engine state directory.
func StateRoot(root string) string {
	return filepath.Join(root, StateDirName)
}

// RoomDir returns the destination directory for a room.
func RoomDir(root string, room Room) string {
	return filepath.Join(SortedRoot(root), room.DirName())
}
