package indent

// Writer accumulates re-indented lines in input order. It only ever appends.
type Writer struct {
	unit  string
	buf   []byte
	depth int
	lines int
}

// NewWriter creates a writer emitting unit once per depth level.
func NewWriter(unit string, sizeHint int) *Writer {
	return &Writer{
		unit: unit,
		buf:  make([]byte, 0, sizeHint),
	}
}

// Depth returns the current indentation level.
func (w *Writer) Depth() int {
	return w.depth
}

// IndentPush increases the indentation level by n.
func (w *Writer) IndentPush(n int) {
	if n > 0 {
		w.depth += n
	}
}

// IndentPop decreases the indentation level by n, stopping at zero.
func (w *Writer) IndentPop(n int) {
	if n <= 0 {
		return
	}
	w.depth -= n
	if w.depth < 0 {
		w.depth = 0
	}
}

// WriteLine emits one line at the current depth. When extra is set a single
// space follows the indentation. Empty lines get no indentation. It returns
// the offset the line starts at.
func (w *Writer) WriteLine(content string, extra bool) int {
	if w.lines > 0 {
		w.buf = append(w.buf, '\n')
	}
	w.lines++
	start := len(w.buf)
	if content == "" {
		return start
	}
	for i := 0; i < w.depth; i++ {
		w.buf = append(w.buf, w.unit...)
	}
	if extra {
		w.buf = append(w.buf, ' ')
	}
	w.buf = append(w.buf, content...)
	return start
}

// Lines returns the number of lines written so far.
func (w *Writer) Lines() int {
	return w.lines
}

// Since returns the text written from offset start to the end.
func (w *Writer) Since(start int) string {
	if start < 0 || start > len(w.buf) {
		return ""
	}
	return string(w.buf[start:])
}

// String returns everything written.
func (w *Writer) String() string {
	return string(w.buf)
}
