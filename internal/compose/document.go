package compose

import (
	"iter"
	"strings"
)

// Line is a single line of a compose document
type Line struct {
	Raw     string // original text including its line ending
	Indent  int    // number of leading spaces
	Content string // text without indentation or trailing whitespace
}

// Blank reports whether the line has no content
func (l Line) Blank() bool {
	return l.Content == ""
}

// TopLevel reports whether the line is an unindented key such as "volumes:"
func (l Line) TopLevel() bool {
	return l.Indent == 0 && !l.Blank()
}

// Empty reports whether the line holds nothing but its line ending
func (l Line) Empty() bool {
	return strings.TrimRight(l.Raw, "\r\n") == ""
}

// depth treats empty lines as unindented so they close any open block.
// Whitespace-only lines keep the depth of their leading spaces.
func (l Line) depth() int {
	if l.Empty() {
		return 0
	}
	return l.Indent
}

// isServiceHeader matches "  <name>:" exactly, one level under services:
func (l Line) isServiceHeader(name string) bool {
	return l.Indent == 2 && l.Content == name+":"
}

func newLine(raw string) Line {
	body := strings.TrimRight(raw, "\r\n")
	rest := strings.TrimLeft(body, " ")
	return Line{
		Raw:     raw,
		Indent:  len(body) - len(rest),
		Content: strings.TrimRight(rest, " \t"),
	}
}

// Document is a compose file modelled as an ordered sequence of lines
type Document struct {
	Lines []Line
	eol   string
}

// Scan lazily yields the lines of text with their index
func Scan(text string) iter.Seq2[int, Line] {
	return func(yield func(int, Line) bool) {
		i := 0
		for raw := range strings.Lines(text) {
			if !yield(i, newLine(raw)) {
				return
			}
			i++
		}
	}
}

// Parse builds a Document from text
func Parse(text string) *Document {
	doc := &Document{eol: "\n"}
	for i, line := range Scan(text) {
		if i == 0 && strings.HasSuffix(line.Raw, "\r\n") {
			doc.eol = "\r\n"
		}
		doc.Lines = append(doc.Lines, line)
	}
	return doc
}

// String renders the document back to text
func (d *Document) String() string {
	var b strings.Builder
	for _, l := range d.Lines {
		b.WriteString(l.Raw)
	}
	return b.String()
}

// terminate makes sure the last line ends with a line break before text is appended
func (d *Document) terminate() {
	n := len(d.Lines)
	if n == 0 || strings.HasSuffix(d.Lines[n-1].Raw, "\n") {
		return
	}
	d.Lines[n-1].Raw += d.eol
}

// render converts a "\n" separated text fragment into lines using the document's line ending
func (d *Document) render(text string) []Line {
	var out []Line
	for raw := range strings.Lines(text) {
		if d.eol != "\n" {
			raw = strings.TrimSuffix(raw, "\n")
			raw = strings.TrimSuffix(raw, "\r") + d.eol
		} else if !strings.HasSuffix(raw, "\n") {
			raw += "\n"
		}
		out = append(out, newLine(raw))
	}
	return out
}

// insert places lines before index i
func (d *Document) insert(i int, lines ...Line) {
	d.Lines = append(d.Lines[:i], append(lines, d.Lines[i:]...)...)
}

// findTopLevel returns the index of the first unindented key starting with key+":"
func (d *Document) findTopLevel(key string) int {
	for i, l := range d.Lines {
		if l.TopLevel() && strings.HasPrefix(l.Content, key+":") {
			return i
		}
	}
	return -1
}

// sectionEnd returns the index just past the last non-blank line of the
// top-level section starting at start
func (d *Document) sectionEnd(start int) int {
	end := start + 1
	for i := start + 1; i < len(d.Lines); i++ {
		l := d.Lines[i]
		if l.TopLevel() {
			break
		}
		if !l.Blank() {
			end = i + 1
		}
	}
	return end
}

// findService returns the index of the "  <name>:" header or -1
func (d *Document) findService(name string) int {
	for i, l := range d.Lines {
		if l.isServiceHeader(name) {
			return i
		}
	}
	return -1
}

// HasService reports whether a service header for name is present
func (d *Document) HasService(name string) bool {
	return d.findService(name) >= 0
}
