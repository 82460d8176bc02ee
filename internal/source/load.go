package source

import (
	"bytes"
	"fmt"
	"os"

	"fortio.org/safecast"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// Load reads a file from disk and decodes it to UTF-8 text.
func Load(path string) (*File, error) {
	// #nosec G304 -- path is provided by the caller
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	info, err := os.Stat(path)
	if err != nil {
		return nil, err
	}
	file, err := decode(normalizePath(path), raw)
	if err != nil {
		return nil, err
	}
	file.Mode = info.Mode().Perm()
	return file, nil
}

// FromBytes decodes in-memory content (stdin, tests) as a virtual file.
func FromBytes(name string, raw []byte) (*File, error) {
	file, err := decode(name, raw)
	if err != nil {
		return nil, err
	}
	file.Flags |= FileVirtual
	file.Mode = 0o644
	return file, nil
}

func decode(path string, raw []byte) (*File, error) {
	file := &File{
		Path: path,
		Raw:  raw,
		Hash: Sum(raw),
	}

	var text []byte
	switch {
	case bytes.HasPrefix(raw, bomUTF8):
		file.Flags |= FileHadBOM
		text = raw[len(bomUTF8):]
	case bytes.HasPrefix(raw, bomUTF16LE):
		file.Flags |= FileHadBOM | FileUTF16LE
	case bytes.HasPrefix(raw, bomUTF16BE):
		file.Flags |= FileHadBOM | FileUTF16BE
	default:
		text = raw
	}
	if enc := file.utf16(); enc != nil {
		decoded, _, err := transform.Bytes(enc.NewDecoder(), raw)
		if err != nil {
			return nil, fmt.Errorf("%s: decode utf-16: %w", path, err)
		}
		text = decoded
	}

	if bytes.IndexByte(text, '\r') >= 0 {
		file.Flags |= FileHadCR
	}
	lines, err := safecast.Conv[uint32](bytes.Count(text, []byte{'\n'}) + 1)
	if err != nil {
		return nil, fmt.Errorf("%s: line count overflow: %w", path, err)
	}
	file.Lines = lines
	file.Text = string(text)
	return file, nil
}

func (f *File) utf16() encoding.Encoding {
	switch {
	case f.Flags.Has(FileUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM)
	case f.Flags.Has(FileUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.ExpectBOM)
	default:
		return nil
	}
}

// Encode converts text back to the file's original encoding, restoring the
// byte order mark when the file had one.
func (f *File) Encode(text string) ([]byte, error) {
	if enc := f.utf16(); enc != nil {
		// ExpectBOM writes the BOM on encode.
		out, _, err := transform.Bytes(enc.NewEncoder(), []byte(text))
		if err != nil {
			return nil, fmt.Errorf("%s: encode utf-16: %w", f.Path, err)
		}
		return out, nil
	}
	if f.Flags.Has(FileHadBOM) {
		out := make([]byte, 0, len(bomUTF8)+len(text))
		out = append(out, bomUTF8...)
		return append(out, text...), nil
	}
	return []byte(text), nil
}

// Changed reports whether encoded output differs from what was read.
func (f *File) Changed(out []byte) bool {
	return !bytes.Equal(f.Raw, out)
}
