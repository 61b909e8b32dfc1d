package compose

import "strings"

// Directive is a pair of lines injected inside an existing service block.
// Command and Bind carry their own indentation, e.g. "    command: [...]".
type Directive struct {
	Service string
	Command string
	Bind    string
}

const volumesKey = "    volumes:\n"

// serviceBody locates "  <service>:" followed by at least one contiguous line
// indented four or more spaces. end is exclusive.
func (d *Document) serviceBody(service string) (header, end int, ok bool) {
	header = d.findService(service)
	if header < 0 {
		return 0, 0, false
	}
	end = header + 1
	for end < len(d.Lines) && d.Lines[end].depth() >= 4 {
		end++
	}
	return header, end, end > header+1
}

// findKey returns the index of a service-level "<key>:" line in (header, end)
func (d *Document) findKey(header, end int, key string) int {
	for i := header + 1; i < end; i++ {
		l := d.Lines[i]
		if l.Indent == 4 && strings.HasPrefix(l.Content, key+":") {
			return i
		}
	}
	return -1
}

func sameLine(a, b Line) bool {
	return a.Indent == b.Indent && a.Content == b.Content
}

// EnsureDirective adds the command line after the service header when the
// service has no command, and the bind line under the service's volumes key,
// creating that key when missing. Services without a body are left untouched.
func (d *Document) EnsureDirective(dir Directive) bool {
	header, end, ok := d.serviceBody(dir.Service)
	if !ok {
		return false
	}
	changed := false

	if dir.Command != "" && d.findKey(header, end, "command") < 0 {
		cmd := d.render(dir.Command)
		d.insert(header+1, cmd...)
		end += len(cmd)
		changed = true
	}

	if dir.Bind == "" {
		return changed
	}
	bind := newLine(dir.Bind)
	for _, l := range d.Lines[header+1 : end] {
		if sameLine(l, bind) {
			return changed
		}
	}

	if v := d.findKey(header, end, "volumes"); v >= 0 {
		d.insert(v+1, d.render(dir.Bind)...)
	} else {
		d.insert(header+1, d.render(volumesKey+strings.TrimSuffix(dir.Bind, "\n")+"\n")...)
	}
	return true
}

// RemoveDirective drops the command and bind lines from the service. A
// volumes key left without children by the removal is dropped as well.
func (d *Document) RemoveDirective(dir Directive) bool {
	header, end, ok := d.serviceBody(dir.Service)
	if !ok {
		return false
	}
	cmd, bind := newLine(dir.Command), newLine(dir.Bind)

	body := make([]Line, 0, end-header-1)
	changed, bindRemoved := false, false
	for _, l := range d.Lines[header+1 : end] {
		switch {
		case dir.Command != "" && sameLine(l, cmd):
			changed = true
		case dir.Bind != "" && sameLine(l, bind):
			changed, bindRemoved = true, true
		default:
			body = append(body, l)
		}
	}

	if bindRemoved {
		for i, l := range body {
			if l.Indent != 4 || l.Content != "volumes:" {
				continue
			}
			if i+1 == len(body) || body[i+1].Blank() || body[i+1].Indent < 6 {
				body = append(body[:i], body[i+1:]...)
			}
			break
		}
	}

	if !changed {
		return false
	}
	lines := make([]Line, 0, len(d.Lines))
	lines = append(lines, d.Lines[:header+1]...)
	lines = append(lines, body...)
	lines = append(lines, d.Lines[end:]...)
	d.Lines = lines
	return true
}

// EnsureDirective applies Document.EnsureDirective to raw compose text
func EnsureDirective(data []byte, dir Directive) ([]byte, bool) {
	doc := Parse(string(data))
	if !doc.EnsureDirective(dir) {
		return data, false
	}
	return []byte(doc.String()), true
}

// RemoveDirective applies Document.RemoveDirective to raw compose text
func RemoveDirective(data []byte, dir Directive) ([]byte, bool) {
	doc := Parse(string(data))
	if !doc.RemoveDirective(dir) {
		return data, false
	}
	return []byte(doc.String()), true
}
