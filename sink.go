package docxml

import (
	"io"
	"strconv"
)

// Sink receives markup events from a rich-text front end.
type Sink interface {
	Emit(Event)
}

// output is the append-only buffer an Emitter commits markup to.
type output struct {
	buf []byte
}

func (o *output) reset() {
	o.buf = o.buf[:0]
}

func (o *output) writeString(s string) {
	o.buf = append(o.buf, s...)
}

func (o *output) writeBytes(b []byte) {
	o.buf = append(o.buf, b...)
}

func (o *output) writeInt(n int) {
	o.buf = strconv.AppendInt(o.buf, int64(n), 10)
}

func (o *output) escape(s string) {
	o.buf = appendEscaped(o.buf, s)
}

// attr writes ` name="value"` with value escaped.
func (o *output) attr(name, value string) {
	o.buf = append(o.buf, ' ')
	o.buf = append(o.buf, name...)
	o.buf = append(o.buf, '=', '"')
	o.buf = appendEscaped(o.buf, value)
	o.buf = append(o.buf, '"')
}

func (o *output) attrInt(name string, n int) {
	o.buf = append(o.buf, ' ')
	o.buf = append(o.buf, name...)
	o.buf = append(o.buf, '=', '"')
	o.buf = strconv.AppendInt(o.buf, int64(n), 10)
	o.buf = append(o.buf, '"')
}

func (o *output) writeTo(w io.Writer) (int64, error) {
	n, err := w.Write(o.buf)
	return int64(n), err
}
