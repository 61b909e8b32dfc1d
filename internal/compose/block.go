package compose

import "strings"

// Block is a named service definition with its companion global volume.
// Text must start with the "  <Name>:" header line so repeated inserts are detected.
type Block struct {
	Name   string
	Text   string
	Volume string
}

type scanState int

const (
	outsideBlock scanState = iota
	insideBlock
)

// dropBlocks removes every line matched by isHeader together with the lines
// indented deeper than two spaces that follow it. The first line at depth two
// or less closes the block and is kept.
func dropBlocks(lines []Line, isHeader func(Line) bool) ([]Line, bool) {
	kept := make([]Line, 0, len(lines))
	state := outsideBlock
	removed := false

	for _, l := range lines {
		if state == insideBlock {
			if l.depth() > 2 {
				continue
			}
			state = outsideBlock
		}
		if isHeader(l) {
			state = insideBlock
			removed = true
			continue
		}
		kept = append(kept, l)
	}
	return kept, removed
}

// EnsureBlock inserts the block at the end of the services section and
// registers its companion volume. It is a no-op when the service already exists.
func (d *Document) EnsureBlock(b Block) bool {
	if d.HasService(b.Name) {
		return false
	}
	d.terminate()
	body := d.render(b.Text)

	if services := d.findTopLevel("services"); services >= 0 {
		d.insert(d.sectionEnd(services), body...)
	} else if volumes := d.findTopLevel("volumes"); volumes >= 0 {
		d.insert(volumes, append(d.render("services:\n"), body...)...)
	} else {
		d.Lines = append(d.Lines, d.render("services:\n")...)
		d.Lines = append(d.Lines, body...)
	}

	d.ensureVolume(b.Volume)
	return true
}

// ensureVolume adds "  <name>:" under the global volumes section, creating the
// section at the end of the document if there is none
func (d *Document) ensureVolume(name string) {
	if name == "" {
		return
	}
	start := d.findTopLevel("volumes")
	if start < 0 {
		d.terminate()
		d.Lines = append(d.Lines, d.render("\nvolumes:\n  "+name+":\n")...)
		return
	}

	end := d.sectionEnd(start)
	for _, l := range d.Lines[start+1 : end] {
		if isVolumeEntry(l, name) {
			return
		}
	}
	d.insert(end, d.render("  "+name+":\n")...)
}

func isVolumeEntry(l Line, name string) bool {
	return l.Indent == 2 && strings.HasPrefix(l.Content, name+":")
}

// RemoveBlock drops the service block and its companion volume entry.
// Services sharing a name prefix are left alone.
func (d *Document) RemoveBlock(name, volume string) bool {
	lines, removed := dropBlocks(d.Lines, func(l Line) bool {
		return l.isServiceHeader(name)
	})
	d.Lines = lines

	if d.removeVolume(volume) {
		removed = true
	}
	return removed
}

// removeVolume only looks inside the top-level volumes section, so keys with
// the same name elsewhere in the document survive
func (d *Document) removeVolume(name string) bool {
	if name == "" {
		return false
	}
	start := d.findTopLevel("volumes")
	if start < 0 {
		return false
	}
	end := d.sectionEnd(start)

	entries, removed := dropBlocks(d.Lines[start+1:end], func(l Line) bool {
		return isVolumeEntry(l, name)
	})
	if !removed {
		return false
	}

	lines := make([]Line, 0, len(d.Lines))
	lines = append(lines, d.Lines[:start+1]...)
	lines = append(lines, entries...)
	lines = append(lines, d.Lines[end:]...)
	d.Lines = lines

	if d.appendedSection(start) {
		d.Lines = d.Lines[:start-1]
	}
	return true
}

// appendedSection reports whether the section at i has the shape ensureVolume
// appends: a blank line, the header, and nothing after it
func (d *Document) appendedSection(i int) bool {
	return i > 0 && i == len(d.Lines)-1 && d.Lines[i-1].Empty()
}

// EnsureBlock applies Document.EnsureBlock to raw compose text
func EnsureBlock(data []byte, b Block) ([]byte, bool) {
	doc := Parse(string(data))
	if !doc.EnsureBlock(b) {
		return data, false
	}
	return []byte(doc.String()), true
}

// RemoveBlock applies Document.RemoveBlock to raw compose text
func RemoveBlock(data []byte, name, volume string) ([]byte, bool) {
	doc := Parse(string(data))
	if !doc.RemoveBlock(name, volume) {
		return data, false
	}
	return []byte(doc.String()), true
}
