package classify_test

import (
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/classify"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
)

func TestRoomFor(t *testing.T) {
	cls := classify.New(classify.DefaultRuleset())

	cases := []struct {
		ext  string
		want core.Room
	}{
		{"png", core.RoomImages},
		{"JPG", core.RoomImages},
		{".pdf", core.RoomDocs},
		{"go", core.RoomCode},
		{"mp4", core.RoomMedia},
		{"zip", core.RoomArchives},
		{"xyz", core.RoomMisc},
		{"", core.RoomMisc},
	}
	for _, tc := range cases {
		t.Run(tc.ext, func(t *testing.T) {
			if got := cls.RoomFor(tc.ext); got != tc.want {
				t.Errorf("RoomFor(%q) = %v, want %v", tc.ext, got, tc.want)
			}
		})
	}
}

func TestIsTreasure(t *testing.T) {
	cls := classify.New(classify.DefaultRuleset())

	cases := []struct {
		path string
		want bool
	}{
		{"/tmp/invoice_2023.pdf", true},
		{"/tmp/My-RESUME-final.docx", true},
		{"/tmp/photo.png", false},
		// Keyword must match the base name, not the directory.
		{"/tmp/invoices/photo.png", false},
	}
	for _, tc := range cases {
		t.Run(filepath.Base(tc.path), func(t *testing.T) {
			rec := core.FileRecord{Path: tc.path, ModTime: time.Now()}
			if got := cls.IsTreasure(rec); got != tc.want {
				t.Errorf("IsTreasure(%q) = %v, want %v", tc.path, got, tc.want)
			}
		})
	}
}

func TestLoadRuleset(t *testing.T) {
	t.Run("overrides rooms and keywords", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		content := "rooms:\n  images:\n    - heic\nkeywords:\n  - passport\nbehemoth_mb: 1\n"
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatal(err)
		}

		rules, err := classify.LoadRuleset(path)
		if err != nil {
			t.Fatalf("LoadRuleset failed: %v", err)
		}
		cls := classify.New(rules)
		if got := cls.RoomFor("heic"); got != core.RoomImages {
			t.Errorf("heic mapped to %v, want Images", got)
		}
		if got := cls.RoomFor("png"); got != core.RoomMisc {
			t.Errorf("png should fall through to Misc after override, got %v", got)
		}
		if !cls.IsTreasure(core.FileRecord{Path: "/x/passport-scan.png"}) {
			t.Error("expected passport keyword to match")
		}
		if cls.IsTreasure(core.FileRecord{Path: "/x/invoice.pdf"}) {
			t.Error("default keywords should be replaced")
		}
		if rules.BehemothBytes() != 1024*1024 {
			t.Errorf("BehemothBytes = %d, want 1 MiB", rules.BehemothBytes())
		}
	})

	t.Run("malformed yaml is a config error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		if err := os.WriteFile(path, []byte(":\t not yaml ["), 0o644); err != nil {
			t.Fatal(err)
		}
		_, err := classify.LoadRuleset(path)
		if err == nil {
			t.Fatal("expected error for malformed rules file")
		}
		var cfgErr *core.ConfigError
		if !errors.As(err, &cfgErr) {
			t.Fatalf("expected ConfigError, got %T: %v", err, err)
		}
	})

	t.Run("unknown room is a config error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "rules.yaml")
		if err := os.WriteFile(path, []byte("rooms:\n  dungeon:\n    - png\n"), 0o644); err != nil {
			t.Fatal(err)
		}
		if _, err := classify.LoadRuleset(path); err == nil {
			t.Fatal("expected error for unknown room name")
		}
	})

	t.Run("missing file is a config error", func(t *testing.T) {
		if _, err := classify.LoadRuleset(filepath.Join(t.TempDir(), "absent.yaml")); err == nil {
			t.Fatal("expected error for missing rules file")
		}
	})
}
