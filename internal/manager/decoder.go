package manager

import (
	"bytes"
	"strings"
)

// endCommandMarker terminates the raw output of a "Response: Follows"
// command frame.
const endCommandMarker = "--END COMMAND--"

// Decoder assembles complete frames from an unbounded byte stream fed in
// chunks of arbitrary size and alignment. A chunk may end mid-line or
// mid-frame; incomplete input is buffered until the next Feed. A Decoder
// serves exactly one connection: once the transport is gone, so is the
// decoder, and a fresh connection gets a fresh Decoder.
//
// Framing is CRLF- or LF-terminated "Name: Value" lines with a blank line
// closing each frame. Lines without a separator are skipped; a frame with
// no fields at all is dropped silently. Command output following a
// "Response: Follows" status is folded into a single "Output" field up to
// the end-of-command marker.
type Decoder struct {
	buf     []byte
	fields  Fields
	follows bool
	rawOut  bool
	output  []string
	skipped uint64
}

func NewDecoder() *Decoder {
	return &Decoder{}
}

// Feed appends a chunk and returns the frames it completed, in stream
// order. It never blocks and never assumes chunk boundaries align with
// line or frame boundaries.
func (d *Decoder) Feed(p []byte) []Fields {
	d.buf = append(d.buf, p...)

	var frames []Fields
	for {
		i := bytes.IndexByte(d.buf, '\n')
		if i < 0 {
			return frames
		}
		line := string(bytes.TrimRight(d.buf[:i], "\r"))
		d.buf = d.buf[i+1:]
		if frame, ok := d.line(line); ok {
			frames = append(frames, frame)
		}
	}
}

// Skipped returns the number of malformed lines dropped so far.
func (d *Decoder) Skipped() uint64 { return d.skipped }

func (d *Decoder) line(raw string) (Fields, bool) {
	if d.follows {
		return d.followsLine(raw)
	}

	if raw == "" {
		return d.finish()
	}

	name, value, ok := cutField(raw)
	if !ok {
		d.skipped++
		return nil, false
	}
	d.fields = append(d.fields, Field{Name: name, Value: value})
	if strings.EqualFold(name, "Response") && strings.EqualFold(value, "Follows") {
		d.follows = true
	}
	return nil, false
}

// followsLine handles the body of a "Response: Follows" frame. Header
// fields may still precede the raw command output; once a line no longer
// parses as a field, everything up to the end marker is output verbatim,
// colons included.
func (d *Decoder) followsLine(raw string) (Fields, bool) {
	switch raw {
	case endCommandMarker:
		d.flushOutput()
		d.follows = false
		return nil, false
	case "":
		d.flushOutput()
		d.follows = false
		return d.finish()
	}

	if !d.rawOut {
		if name, value, ok := cutField(raw); ok && !strings.Contains(name, " ") {
			d.fields = append(d.fields, Field{Name: name, Value: value})
			return nil, false
		}
		d.rawOut = true
	}
	d.output = append(d.output, raw)
	return nil, false
}

func (d *Decoder) flushOutput() {
	if len(d.output) > 0 {
		d.fields = append(d.fields, Field{Name: "Output", Value: strings.Join(d.output, "\n")})
		d.output = nil
	}
	d.rawOut = false
}

func (d *Decoder) finish() (Fields, bool) {
	if len(d.fields) == 0 {
		return nil, false
	}
	frame := d.fields
	d.fields = nil
	return frame, true
}

func cutField(line string) (name, value string, ok bool) {
	name, value, ok = strings.Cut(line, ":")
	if !ok {
		return "", "", false
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return "", "", false
	}
	return name, strings.TrimSpace(value), true
}
