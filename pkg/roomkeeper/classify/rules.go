package classify

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

// DefaultBehemothBytes is the size threshold above which a file is
// flagged as a behemoth.
const DefaultBehemothBytes = 200 * 1024 * 1024

// DefaultRelicAge is how old a file must be to count as a relic.
const DefaultRelicAge = 730 * 24 * time.Hour

// Ruleset is the immutable classification configuration: extension to
// room mapping, treasure keywords, and detection thresholds. Build one
// with DefaultRuleset or LoadRuleset and pass it in explicitly; there
// is no process-wide table.
type Ruleset struct {
	rooms         map[string]core.Room
	keywords      []string
	behemothBytes int64
	relicAge      time.Duration
}

// rulesFile is the YAML override format. Absent fields keep their
// defaults.
type rulesFile struct {
	Rooms      map[string][]string `yaml:"rooms"`
	Keywords   []string            `yaml:"keywords"`
	BehemothMB int64               `yaml:"behemoth_mb"`
	RelicDays  int                 `yaml:"relic_days"`
}

func defaultRooms() map[string]core.Room {
	table := map[core.Room][]string{
		core.RoomImages:   {"png", "jpg", "jpeg", "webp", "gif", "bmp", "tiff"},
		core.RoomDocs:     {"pdf", "docx", "doc", "pptx", "ppt", "xlsx", "xls", "txt", "md", "csv"},
		core.RoomCode:     {"py", "js", "ts", "java", "cs", "cpp", "c", "go", "html", "css", "json", "sql", "yml", "yaml"},
		core.RoomMedia:    {"mp4", "mov", "mkv", "mp3", "wav", "avi", "flac", "m4a"},
		core.RoomArchives: {"zip", "rar", "7z", "tar", "gz", "iso"},
	}
	rooms := make(map[string]core.Room)
	for room, exts := range table {
		for _, ext := range exts {
			rooms[ext] = room
		}
	}
	return rooms
}

func defaultKeywords() []string {
	return []string{
		"invoice", "resume", "cv", "thesis", "contract",
		"grade", "requirements", "certificate", "budget",
	}
}

// DefaultRuleset returns the built-in rule table.
func DefaultRuleset() *Ruleset {
	return &Ruleset{
		rooms:         defaultRooms(),
		keywords:      defaultKeywords(),
		behemothBytes: DefaultBehemothBytes,
		relicAge:      DefaultRelicAge,
	}
}

// LoadRuleset reads a YAML override file on top of the defaults. A
// malformed file or an unknown room name is a ConfigError.
func LoadRuleset(path string) (*Ruleset, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &core.ConfigError{Reason: fmt.Sprintf("rules file %s unreadable", path), Cause: err}
	}
	var rf rulesFile
	if err := yaml.Unmarshal(data, &rf); err != nil {
		return nil, &core.ConfigError{Reason: fmt.Sprintf("rules file %s malformed", path), Cause: err}
	}

	rs := DefaultRuleset()
	if len(rf.Rooms) > 0 {
		known := make(map[string]core.Room)
		for _, r := range core.Rooms() {
			known[strings.ToLower(string(r))] = r
		}
		rooms := make(map[string]core.Room)
		for name, exts := range rf.Rooms {
			room, ok := known[strings.ToLower(name)]
			if !ok {
				return nil, &core.ConfigError{Reason: fmt.Sprintf("rules file %s names unknown room %q", path, name)}
			}
			if room == core.RoomMisc {
				return nil, &core.ConfigError{Reason: fmt.Sprintf("rules file %s maps extensions to the fallback room", path)}
			}
			for _, ext := range exts {
				rooms[normalizeExt(ext)] = room
			}
		}
		rs.rooms = rooms
	}
	if len(rf.Keywords) > 0 {
		kws := make([]string, 0, len(rf.Keywords))
		for _, k := range rf.Keywords {
			k = strings.ToLower(strings.TrimSpace(k))
			if k != "" {
				kws = append(kws, k)
			}
		}
		rs.keywords = kws
	}
	if rf.BehemothMB > 0 {
		rs.behemothBytes = rf.BehemothMB * 1024 * 1024
	}
	if rf.RelicDays > 0 {
		rs.relicAge = time.Duration(rf.RelicDays) * 24 * time.Hour
	}
	return rs, nil
}

// BehemothBytes returns the behemoth size threshold.
func (r *Ruleset) BehemothBytes() int64 { return r.behemothBytes }

// RelicAge returns the relic age threshold.
func (r *Ruleset) RelicAge() time.Duration { return r.relicAge }

func normalizeExt(ext string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), "."))
}
