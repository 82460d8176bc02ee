package indent

import (
	"strings"
	"unicode"
)

// NormalizeNewlines rewrites "\r\n" and lone "\r" as "\n".
func NormalizeNewlines(text string) string {
	if !strings.Contains(text, "\r") {
		return text
	}
	text = strings.ReplaceAll(text, "\r\n", "\n")
	return strings.ReplaceAll(text, "\r", "\n")
}

// Normalize prepares text for the indentation pass: unified line endings,
// every line stripped of surrounding whitespace, empty bracket pairs collapsed
// onto one line and lone ignore characters joined to the previous line.
func Normalize(text string, cfg Config) string {
	cfg = cfg.withDefaults()
	return normalize(text, cfg)
}

func normalize(text string, cfg Config) string {
	text = NormalizeNewlines(text)
	lines := strings.Split(text, "\n")
	for i, ln := range lines {
		lines[i] = strings.TrimSpace(ln)
	}
	text = strings.Join(lines, "\n")
	for _, p := range cfg.Pairs {
		text = collapseEmpty(text, p)
	}
	return joinIgnored(text, cfg.Ignore)
}

// collapseEmpty turns "open <blank lines> close" into "open close". Matches
// are leftmost-first and do not overlap; the gap must contain a line break.
func collapseEmpty(text string, p Pair) string {
	if !strings.Contains(text, p.Open) || !strings.Contains(text, p.Close) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	rest := text
	for {
		i := strings.Index(rest, p.Open)
		if i < 0 {
			break
		}
		after := rest[i+len(p.Open):]
		gap := len(after) - len(strings.TrimLeftFunc(after, unicode.IsSpace))
		if strings.Contains(after[:gap], "\n") && strings.HasPrefix(after[gap:], p.Close) {
			b.WriteString(rest[:i])
			b.WriteString(p.Open)
			b.WriteString(p.Close)
			rest = after[gap+len(p.Close):]
			continue
		}
		b.WriteString(rest[:i+len(p.Open)])
		rest = after
	}
	b.WriteString(rest)
	return b.String()
}

// joinIgnored appends lines consisting only of ignore to the line above.
func joinIgnored(text, ignore string) string {
	if ignore == "" || !strings.Contains(text, "\n"+ignore) {
		return text
	}
	lines := strings.Split(text, "\n")
	out := make([]string, 0, len(lines))
	for _, ln := range lines {
		if ln != ignore || len(out) == 0 {
			out = append(out, ln)
			continue
		}
		merged := ln
		// An empty line above leaves a lone marker again; keep climbing.
		for merged == ignore && len(out) > 0 {
			merged = out[len(out)-1] + merged
			out = out[:len(out)-1]
		}
		out = append(out, merged)
	}
	return strings.Join(out, "\n")
}
