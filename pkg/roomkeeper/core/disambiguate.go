package core

import (
	"fmt"
	"path/filepath"
	"strings"
)

// DisambiguatePath appends _dup<N> to the filename stem until exists
// reports the candidate free. Used by the planner against its own
// destination set and by the executor against the live filesystem.
func DisambiguatePath(dest string, exists func(string) bool) string {
	if !exists(dest) {
		return dest
	}
	dir := filepath.Dir(dest)
	base := filepath.Base(dest)
	ext := filepath.Ext(base)
	stem := strings.TrimSuffix(base, ext)
	for i := 1; ; i++ {
		candidate := filepath.Join(dir, fmt.Sprintf("%s_dup%d%s", stem, i, ext))
		if !exists(candidate) {
			return candidate
		}
	}
}
