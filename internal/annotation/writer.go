package annotation

import "strings"

// Writer emits annotation blocks onto a strings.Builder. Emission is
// line-oriented; End closes a block without a trailing newline so the
// caller controls separation between blocks and the following body.
type Writer struct {
	b *strings.Builder
}

func NewWriter(b *strings.Builder) *Writer {
	return &Writer{b: b}
}

// Begin opens the default header block, or a localized one when locale
// is non-empty.
func (w *Writer) Begin(locale string) {
	w.b.WriteString("/*:")
	w.b.WriteString(locale)
	w.b.WriteString("\n")
}

// BeginStruct opens a struct declaration block.
func (w *Writer) BeginStruct(name string) {
	w.b.WriteString("/*~struct~")
	w.b.WriteString(name)
	w.b.WriteString(":\n")
}

// Tag writes one @name value entry. A multi-line value continues on
// the following lines, the way the scanner reads it back.
func (w *Writer) Tag(name, value string) {
	lines := strings.Split(value, "\n")
	w.b.WriteString(" * @")
	w.b.WriteString(name)
	if lines[0] != "" {
		w.b.WriteString(" ")
		w.b.WriteString(sanitize(lines[0]))
	}
	w.b.WriteString("\n")
	for _, line := range lines[1:] {
		w.Text(line)
	}
}

// Text writes one content line inside the block.
func (w *Writer) Text(line string) {
	if line == "" {
		w.Blank()
		return
	}
	w.b.WriteString(" * ")
	w.b.WriteString(sanitize(line))
	w.b.WriteString("\n")
}

// Blank writes an empty content line.
func (w *Writer) Blank() {
	w.b.WriteString(" *\n")
}

// End closes the block.
func (w *Writer) End() {
	w.b.WriteString(" */")
}

// sanitize keeps a value from terminating the comment block early.
func sanitize(s string) string {
	return strings.ReplaceAll(s, "*/", "* /")
}
