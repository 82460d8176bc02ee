package indent

import (
	"strings"
)

// LineInfo records how a single output line was produced.
type LineInfo struct {
	Number       int    // 1-based line number in normalized text
	Text         string // emitted line
	Active       string // structural view of the line
	Depth        int    // indentation level used for the prefix
	InComment    bool   // line started inside a block comment
	Dedent       bool   // leading closer lowered the level before printing
	Continuation bool   // extra space for a comment continuation marker
}

// Format re-indents text. It never fails: unbalanced or otherwise odd input
// produces odd indentation, never an error or lost content.
func Format(text string, cfg Config) string {
	cfg = cfg.withDefaults()
	e := newEngine(cfg, len(text))
	e.run(normalize(text, cfg))
	return strings.TrimSpace(e.w.String())
}

// Analyze runs the same pass as Format and reports every line.
func Analyze(text string, cfg Config) []LineInfo {
	cfg = cfg.withDefaults()
	var infos []LineInfo
	e := newEngine(cfg, len(text))
	e.observe = func(info LineInfo) {
		infos = append(infos, info)
	}
	e.run(normalize(text, cfg))
	return infos
}

type engine struct {
	cfg       Config
	w         *Writer
	inComment bool
	observe   func(LineInfo)
}

func newEngine(cfg Config, sizeHint int) *engine {
	return &engine{
		cfg: cfg,
		w:   NewWriter(cfg.Unit, sizeHint+sizeHint/4),
	}
}

func (e *engine) run(text string) {
	rest := text
	for {
		line, tail, more := strings.Cut(rest, "\n")
		e.line(line)
		if !more {
			return
		}
		rest = tail
	}
}

func (e *engine) line(raw string) {
	active := e.cfg.activeContent(raw)
	wasComment := e.inComment

	dedent := false
	if !wasComment && e.cfg.startsWithCloser(active) {
		e.w.IndentPop(1)
		dedent = true
	}
	depth := e.w.Depth()
	extra := wasComment && e.cfg.BlockContinue != "" && strings.HasPrefix(active, e.cfg.BlockContinue)
	start := e.w.WriteLine(strings.TrimSpace(raw), extra)

	if !wasComment {
		opens, closes := e.cfg.countTokens(active)
		if dedent {
			closes = 0 // the leading closer was already applied
		}
		if net := opens - closes; net > 0 {
			e.w.IndentPush(net)
		} else {
			e.w.IndentPop(-net)
		}
	}
	e.inComment = e.cfg.commentAfter(raw, wasComment)

	if e.observe != nil {
		e.observe(LineInfo{
			Number:       e.w.Lines(),
			Text:         e.w.Since(start),
			Active:       active,
			Depth:        depth,
			InComment:    wasComment,
			Dedent:       dedent,
			Continuation: extra,
		})
	}
}

// activeContent strips what must not drive structure: ignore markers,
// quoted text and everything from the first comment marker on.
func (c Config) activeContent(line string) string {
	s := line
	if c.Ignore != "" {
		s = strings.ReplaceAll(s, c.Ignore, "")
	}
	if c.Quote != "" {
		s = blankQuoted(s, c.Quote)
	}
	cut := len(s)
	if c.LineComment != "" {
		if i := strings.Index(s, c.LineComment); i >= 0 && i < cut {
			cut = i
		}
	}
	if c.BlockOpen != "" {
		if i := strings.Index(s, c.BlockOpen); i >= 0 && i < cut {
			cut = i
		}
	}
	return strings.TrimSpace(s[:cut])
}

// blankQuoted drops the contents of quoted runs, keeping the quotes. A
// backslash escapes the next byte. An unterminated quote leaves the rest as is.
func blankQuoted(s, quote string) string {
	if !strings.Contains(s, quote) {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	rest := s
	for {
		i := strings.Index(rest, quote)
		if i < 0 {
			break
		}
		body := rest[i+len(quote):]
		end := closingQuote(body, quote)
		if end < 0 {
			break
		}
		b.WriteString(rest[:i])
		b.WriteString(quote)
		b.WriteString(quote)
		rest = body[end+len(quote):]
	}
	b.WriteString(rest)
	return b.String()
}

func closingQuote(body, quote string) int {
	for i := 0; i < len(body); i++ {
		if body[i] == '\\' {
			i++
			continue
		}
		if strings.HasPrefix(body[i:], quote) {
			return i
		}
	}
	return -1
}

// startsWithCloser reports whether active begins with any closing token.
// Only the first match counts.
func (c Config) startsWithCloser(active string) bool {
	for _, p := range c.Pairs {
		if strings.HasPrefix(active, p.Close) {
			return true
		}
	}
	return false
}

func (c Config) countTokens(active string) (opens, closes int) {
	if active == "" {
		return 0, 0
	}
	for _, p := range c.Pairs {
		opens += strings.Count(active, p.Open)
		closes += strings.Count(active, p.Close)
	}
	return opens, closes
}

// commentAfter returns the block comment state after raw. Any open marker
// enters a comment; a close marker in any fragment between open markers
// leaves it, including one that precedes the first open marker.
func (c Config) commentAfter(raw string, in bool) bool {
	if c.BlockOpen == "" {
		return false
	}
	if strings.Contains(raw, c.BlockOpen) {
		in = true
	}
	if !strings.Contains(raw, c.BlockClose) {
		return in
	}
	for _, frag := range strings.Split(raw, c.BlockOpen) {
		if strings.Contains(frag, c.BlockClose) {
			return false
		}
	}
	return in
}
