package fuzztests

import (
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"bracefmt/internal/indent"
)

const (
	maxSeedBytes = 64 << 10 // 64 KiB, ограничение для тестового корпуса
)

func addCorpusSeeds(f *testing.F) {
	addSampleSeeds(f)
	addTestdataSeeds(f)
}

func addSampleSeeds(f *testing.F) {
	for _, s := range indent.Samples() {
		f.Add([]byte(s.Input))
		f.Add([]byte(s.Want))
	}
}

func addTestdataSeeds(f *testing.F) {
	root := filepath.Join("..", "..", "testdata")
	if _, err := os.Stat(root); err != nil {
		return
	}
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, walkErr error) error {
		if walkErr != nil {
			return nil
		}
		if d.IsDir() || strings.HasSuffix(path, ".golden") {
			return nil
		}
		// #nosec G304 -- path comes from repository testdata walk
		src, err := os.ReadFile(path)
		if err != nil {
			return nil
		}
		f.Add(clampSeed(src))
		return nil
	})
	if err != nil {
		return
	}
	f.Add([]byte{})
	f.Add([]byte("function main() { return 0; }\n"))
}

func clampSeed(src []byte) []byte {
	if len(src) <= maxSeedBytes {
		return append([]byte(nil), src...)
	}
	return append([]byte(nil), src[:maxSeedBytes]...)
}
