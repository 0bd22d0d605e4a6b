package core

import (
	"time"
)

// Room is a fixed destination category a file is classified into.
type Room string

const (
	RoomImages   Room = "Images"
	RoomDocs     Room = "Docs"
	RoomCode     Room = "Code"
	RoomMedia    Room = "Media"
	RoomArchives Room = "Archives"
	// RoomMisc is the fallback for extensions no rule matches.
	RoomMisc Room = "Misc"
)

// DirName returns the destination subdirectory name for the room.
func (r Room) DirName() string {
	return string(r)
}

// Rooms lists every room in display order.
func Rooms() []Room {
	return []Room{RoomImages, RoomDocs, RoomCode, RoomMedia, RoomArchives, RoomMisc}
}

// FileRecord is one scanned file. Immutable once the scan pass that
// produced it returns.
type FileRecord struct {
	// Path is absolute.
	Path    string    `json:"path"`
	Size    int64     `json:"size"`
	Ext     string    `json:"ext"` // lowercased, leading dot stripped
	ModTime time.Time `json:"mod_time"`
	// Hash is the hex sha256 of the content, computed lazily by the
	// fingerprinter and empty for files that never needed hashing.
	Hash string `json:"hash,omitempty"`
}

// SkippedEntry records a file or directory the scanner could not read.
type SkippedEntry struct {
	Path  string `json:"path"`
	Cause string `json:"cause"`
}

// DuplicateGroup is a set of records proven identical by size and
// content hash. Invariant: len(Redundant) >= 1, so the group holds at
// least two members including the keeper.
type DuplicateGroup struct {
	Size int64  `json:"size"`
	Hash string `json:"hash"`
	// Keeper is the member with the oldest modification time,
	// tie-broken by lexicographic path. It stays in place.
	Keeper    string   `json:"keeper"`
	Redundant []string `json:"redundant"`
}

// BehemothFlag marks a file whose size exceeds the configured
// threshold. Independent of duplicate status.
type BehemothFlag struct {
	Path string `json:"path"`
	Size int64  `json:"size"`
}

// RoomStats aggregates per-room counts for one scan pass.
type RoomStats struct {
	Count     int   `json:"count"`
	Bytes     int64 `json:"bytes"`
	Treasures int   `json:"treasures"`
	Relics    int   `json:"relics"`
}

// ScanReport is the aggregate result of one scan pass. Created fresh
// per invocation and never mutated after return.
type ScanReport struct {
	Root              string           `json:"root"`
	IncludeSubfolders bool             `json:"include_subfolders"`
	ScannedAt         time.Time        `json:"scanned_at"`
	Files             []FileRecord     `json:"files"`
	Skipped           []SkippedEntry   `json:"skipped,omitempty"`
	Duplicates        []DuplicateGroup `json:"duplicates,omitempty"`
	Behemoths         []BehemothFlag   `json:"behemoths,omitempty"`
	// Treasures holds the paths of keyword-matched files.
	Treasures []string `json:"treasures,omitempty"`
	// Relics holds the paths of files older than the relic age.
	Relics    []string           `json:"relics,omitempty"`
	RoomStats map[Room]RoomStats `json:"room_stats,omitempty"`
	TotalSize int64              `json:"total_size"`
}

// MoveReason says why a MoveOperation was planned.
type MoveReason string

const (
	// ReasonClassification moves a file into its room under the
	// sorted root.
	ReasonClassification MoveReason = "classification"
	// ReasonDedupCleanup moves a redundant duplicate into quarantine.
	ReasonDedupCleanup MoveReason = "dedup-cleanup"
	// ReasonUndo appears only in reversal results, never in plans.
	ReasonUndo MoveReason = "undo"
)

// MoveOperation is one planned move. Destination is unique within its
// Plan and does not collide with any path the plan knows about.
type MoveOperation struct {
	Source string     `json:"source"`
	Dest   string     `json:"dest"`
	Reason MoveReason `json:"reason"`
	// Room is set for classification moves only.
	Room Room `json:"room,omitempty"`
}

// Plan is an ordered, conflict-free sequence of moves over one scan.
// Operations are sorted by source path so two plans over an unchanged
// tree serialize byte-identically.
type Plan struct {
	Root      string          `json:"root"`
	CreatedAt time.Time       `json:"created_at"`
	Ops       []MoveOperation `json:"ops"`
	Report    *ScanReport     `json:"report,omitempty"`
}

// ExecutionMode selects simulation or real execution.
type ExecutionMode string

const (
	ModeDryRun ExecutionMode = "dry-run"
	ModeApply  ExecutionMode = "apply"
)

// OpStatus is the outcome of one operation's execution.
type OpStatus string

const (
	// StatusWouldApply is reported by dry-run execution only.
	StatusWouldApply OpStatus = "would-apply"
	StatusApplied    OpStatus = "applied"
	StatusSkipped    OpStatus = "skipped"
	StatusFailed     OpStatus = "failed"
)

// OpOutcome pairs a planned operation with what actually happened.
type OpOutcome struct {
	Op     MoveOperation `json:"op"`
	Status OpStatus      `json:"status"`
	// Dest is the destination actually used; differs from Op.Dest
	// when the executor had to re-disambiguate.
	Dest  string `json:"dest,omitempty"`
	Cause string `json:"cause,omitempty"`
}

// ExecutionResult reports one executor run. Outcome order matches the
// Plan order.
type ExecutionResult struct {
	Mode     ExecutionMode `json:"mode"`
	Outcomes []OpOutcome   `json:"outcomes"`
	Applied  int           `json:"applied"`
	Skipped  int           `json:"skipped"`
	Failed   int           `json:"failed"`
	Duration time.Duration `json:"duration"`
}

// UndoMove is one reverse operation: move Current back to Original.
type UndoMove struct {
	Current  string `json:"current"`
	Original string `json:"original"`
	// Completed is true once the forward move actually happened. The
	// persisted record is written before each move with Completed
	// false and rewritten after, so a crash mid-run never claims a
	// move that did not occur.
	Completed bool `json:"completed"`
}

// UndoRecord is the durable reversal artifact of one apply run. Moves
// are ordered to match the forward run; reversal applies them in
// reverse order.
type UndoRecord struct {
	ID        string     `json:"id"`
	Root      string     `json:"root"`
	CreatedAt time.Time  `json:"created_at"`
	Moves     []UndoMove `json:"moves"`
}

// CompletedMoves returns only the moves whose forward operation
// succeeded, in forward order.
func (u *UndoRecord) CompletedMoves() []UndoMove {
	out := make([]UndoMove, 0, len(u.Moves))
	for _, m := range u.Moves {
		if m.Completed {
			out = append(out, m)
		}
	}
	return out
}

// ScoreSummary is the gamified read-only view over a scan and an
// optional execution.
type ScoreSummary struct {
	FilesOrganized  int    `json:"files_organized"`
	DuplicatesFound int    `json:"duplicates_found"`
	TreasuresFound  int    `json:"treasures_found"`
	BehemothsFound  int    `json:"behemoths_found"`
	RelicsFound     int    `json:"relics_found"`
	BytesReclaimed  int64  `json:"bytes_reclaimed"`
	Experience      int    `json:"experience"`
	Rank            string `json:"rank"`
	// Progress is the percentage of planned moves that were applied,
	// 100 when nothing needed moving.
	Progress int `json:"progress"`
}
