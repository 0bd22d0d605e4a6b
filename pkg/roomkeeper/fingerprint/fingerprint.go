// Package fingerprint finds duplicate groups and behemoths in a scan
// inventory. Files are bucketed by exact size first; only buckets with
// more than one member get hashed, so unique files cost nothing.
package fingerprint

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"sort"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog"

	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/core"
	"github.com/arthur-debert/roomkeeper/pkg/roomkeeper/fsys"
)

// DefaultWorkers bounds the hashing pool when the caller does not.
const DefaultWorkers = 4

// Result is the fingerprinting output for one inventory.
type Result struct {
	// Duplicates is sorted by keeper path.
	Duplicates []core.DuplicateGroup
	// Behemoths is sorted by path.
	Behemoths []core.BehemothFlag
	// Hashes maps path to hex sha256 for every file that was hashed.
	Hashes map[string]string
	// Skipped records files that could not be hashed.
	Skipped []core.SkippedEntry
}

// Fingerprinter hashes size-colliding files with a bounded worker
// pool.
type Fingerprinter struct {
	fs      fsys.ReadFS
	workers int
	logger  zerolog.Logger
}

// New builds a fingerprinter. workers <= 0 selects DefaultWorkers.
func New(fs fsys.ReadFS, workers int, logger zerolog.Logger) *Fingerprinter {
	if workers <= 0 {
		workers = DefaultWorkers
	}
	return &Fingerprinter{fs: fs, workers: workers, logger: logger}
}

type hashOutcome struct {
	path string
	size int64
	hash string
	err  error
}

type dupKey struct {
	size int64
	hash string
}

// Fingerprint detects duplicate groups and behemoths in the given
// records. Hashing runs on a bounded pool; everything else is
// deterministic single-threaded aggregation.
func (f *Fingerprinter) Fingerprint(ctx context.Context, records []core.FileRecord, behemothBytes int64) (*Result, error) {
	res := &Result{Hashes: make(map[string]string)}

	bySize := make(map[int64][]core.FileRecord)
	for _, rec := range records {
		bySize[rec.Size] = append(bySize[rec.Size], rec)
		if rec.Size > behemothBytes {
			res.Behemoths = append(res.Behemoths, core.BehemothFlag{Path: rec.Path, Size: rec.Size})
		}
	}
	sort.Slice(res.Behemoths, func(i, j int) bool { return res.Behemoths[i].Path < res.Behemoths[j].Path })

	var candidates []core.FileRecord
	for _, bucket := range bySize {
		if len(bucket) > 1 {
			candidates = append(candidates, bucket...)
		}
	}
	if len(candidates) == 0 {
		return res, nil
	}

	f.logger.Debug().
		Int("candidates", len(candidates)).
		Int("workers", f.workers).
		Msg("hashing size-colliding files")

	outcomes, err := f.hashAll(ctx, candidates)
	if err != nil {
		return nil, err
	}

	byKey := make(map[dupKey][]core.FileRecord)
	modTimes := make(map[string]core.FileRecord)
	for _, rec := range candidates {
		modTimes[rec.Path] = rec
	}
	for _, out := range outcomes {
		if out.err != nil {
			res.Skipped = append(res.Skipped, core.SkippedEntry{Path: out.path, Cause: out.err.Error()})
			continue
		}
		res.Hashes[out.path] = out.hash
		key := dupKey{size: out.size, hash: out.hash}
		byKey[key] = append(byKey[key], modTimes[out.path])
	}

	for key, members := range byKey {
		if len(members) < 2 {
			continue
		}
		// Keeper: oldest modification time, ties broken by path.
		sort.Slice(members, func(i, j int) bool {
			if !members[i].ModTime.Equal(members[j].ModTime) {
				return members[i].ModTime.Before(members[j].ModTime)
			}
			return members[i].Path < members[j].Path
		})
		group := core.DuplicateGroup{
			Size:   key.size,
			Hash:   key.hash,
			Keeper: members[0].Path,
		}
		for _, m := range members[1:] {
			group.Redundant = append(group.Redundant, m.Path)
		}
		res.Duplicates = append(res.Duplicates, group)
	}
	sort.Slice(res.Duplicates, func(i, j int) bool { return res.Duplicates[i].Keeper < res.Duplicates[j].Keeper })

	sort.Slice(res.Skipped, func(i, j int) bool { return res.Skipped[i].Path < res.Skipped[j].Path })
	return res, nil
}

// hashAll fans the candidate files out over an ants pool and collects
// every outcome. Cancellation stops submission between files.
func (f *Fingerprinter) hashAll(ctx context.Context, candidates []core.FileRecord) ([]hashOutcome, error) {
	pool, err := ants.NewPool(f.workers)
	if err != nil {
		return nil, err
	}
	defer pool.Release()

	var (
		mu       sync.Mutex
		wg       sync.WaitGroup
		outcomes []hashOutcome
	)
	for _, rec := range candidates {
		if err := ctx.Err(); err != nil {
			break
		}
		rec := rec
		wg.Add(1)
		submitErr := pool.Submit(func() {
			defer wg.Done()
			hash, err := f.hashFile(rec.Path)
			mu.Lock()
			outcomes = append(outcomes, hashOutcome{path: rec.Path, size: rec.Size, hash: hash, err: err})
			mu.Unlock()
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			outcomes = append(outcomes, hashOutcome{path: rec.Path, size: rec.Size, err: submitErr})
			mu.Unlock()
		}
	}
	wg.Wait()

	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return outcomes, nil
}

// hashFile streams the file through sha256 so arbitrarily large files
// never have to fit in memory.
func (f *Fingerprinter) hashFile(path string) (string, error) {
	rc, err := f.fs.Open(path)
	if err != nil {
		return "", err
	}
	defer rc.Close()

	h := sha256.New()
	if _, err := io.Copy(h, rc); err != nil {
		return "", err
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
