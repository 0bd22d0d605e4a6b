// Package classify maps file records to rooms and flags treasures.
// Classification depends only on name and extension, never on
// filesystem state, so both predicates are pure.
package classify

import (
	"path/filepath"
	"strings"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

// Classifier answers room and treasure questions for file records
// against one immutable ruleset.
type Classifier struct {
	rules *Ruleset
}

// New builds a classifier over the given ruleset.
func New(rules *Ruleset) *Classifier {
	return &Classifier{rules: rules}
}

// RoomFor maps an extension to its room. Unmatched extensions land in
// Misc; this lookup cannot fail.
func (c *Classifier) RoomFor(ext string) core.Room {
	if room, ok := c.rules.rooms[normalizeExt(ext)]; ok {
		return room
	}
	return core.RoomMisc
}

// RoomForRecord maps a record to its room.
func (c *Classifier) RoomForRecord(rec core.FileRecord) core.Room {
	return c.RoomFor(rec.Ext)
}

// IsTreasure reports whether the record's filename contains any
// treasure keyword. The match is case-insensitive, against the base
// name only, and multiple matches still yield one boolean.
func (c *Classifier) IsTreasure(rec core.FileRecord) bool {
	name := strings.ToLower(filepath.Base(rec.Path))
	for _, kw := range c.rules.keywords {
		if strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

// Rules exposes the ruleset the classifier was built with.
func (c *Classifier) Rules() *Ruleset {
	return c.rules
}
