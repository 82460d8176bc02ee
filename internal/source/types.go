package source

import (
	"encoding/hex"
	"io/fs"
	"strings"
)

type (
	// FileFlags encodes metadata about a loaded file.
	FileFlags uint8 // метаданные
	// Digest is a sha256 sum of file bytes or of combined digests.
	Digest [32]byte
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota // добавлен не с диска (тест, stdin)
	FileHadBOM
	FileHadCR
	FileUTF16LE
	FileUTF16BE
)

// Has reports whether all bits of flag are set.
func (f FileFlags) Has(flag FileFlags) bool {
	return f&flag == flag
}

func (f FileFlags) String() string {
	names := []struct {
		flag FileFlags
		name string
	}{
		{FileVirtual, "virtual"},
		{FileHadBOM, "bom"},
		{FileHadCR, "cr"},
		{FileUTF16LE, "utf16le"},
		{FileUTF16BE, "utf16be"},
	}
	var parts []string
	for _, n := range names {
		if f.Has(n.flag) {
			parts = append(parts, n.name)
		}
	}
	if len(parts) == 0 {
		return "plain"
	}
	return strings.Join(parts, ",")
}

// String returns the digest as lowercase hex.
func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// Short returns the first 12 hex digits, enough for log lines.
func (d Digest) Short() string {
	return d.String()[:12]
}

// File captures one loaded source file.
type File struct {
	Path  string
	Raw   []byte      // bytes as read
	Text  string      // decoded UTF-8, BOM removed, line endings untouched
	Hash  Digest      // sha256 of Raw
	Mode  fs.FileMode // permission bits to keep on rewrite
	Flags FileFlags
	Lines uint32
}
