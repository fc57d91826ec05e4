package core

// streaming.go provides reader wrappers that clean up uploaded CSV files
// without loading them into memory:
//
//   - skipBOM drops a leading UTF-8 BOM (0xEF 0xBB 0xBF) written by Excel
//   - utf8Sanitizer replaces invalid UTF-8 bytes with '?'
//   - countingReader tracks bytes consumed for the import log
//
// wrapUpload applies them in that order.

import (
	"bufio"
	"bytes"
	"io"
	"unicode/utf8"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// skipBOM returns a reader positioned after the BOM, if r starts with one.
func skipBOM(r io.Reader) io.Reader {
	br := bufio.NewReader(r)
	if head, err := br.Peek(len(utf8BOM)); err == nil && bytes.Equal(head, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
	}
	return br
}

// utf8Sanitizer replaces invalid UTF-8 bytes on the fly. Invalid bytes
// become '?' so the output never grows. A multi-byte sequence split across
// two reads of the source is held back until it completes, and sanitized
// output that does not fit the caller's buffer is kept for the next call.
type utf8Sanitizer struct {
	reader  io.Reader
	scratch []byte
	tail    []byte // incomplete rune from the previous source read
	out     []byte // sanitized bytes not yet returned
	err     error  // sticky source error, returned once out is drained
}

func newUTF8Sanitizer(r io.Reader) *utf8Sanitizer {
	return &utf8Sanitizer{reader: r, scratch: make([]byte, 32*1024)}
}

func (s *utf8Sanitizer) Read(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	for len(s.out) == 0 && s.err == nil {
		s.fill()
	}
	if len(s.out) > 0 {
		n := copy(p, s.out)
		s.out = s.out[n:]
		return n, nil
	}
	return 0, s.err
}

// fill reads once from the source and appends the sanitized bytes to out.
func (s *utf8Sanitizer) fill() {
	n, err := s.reader.Read(s.scratch)
	data := append(s.tail, s.scratch[:n]...)
	s.tail = nil
	atEnd := err != nil

	out := s.out[:0]
	for read := 0; read < len(data); {
		if data[read] < utf8.RuneSelf {
			out = append(out, data[read])
			read++
			continue
		}

		r, size := utf8.DecodeRune(data[read:])
		if r == utf8.RuneError && size == 1 {
			if !atEnd && !utf8.FullRune(data[read:]) {
				s.tail = append([]byte(nil), data[read:]...)
				break
			}
			out = append(out, '?')
			read++
			continue
		}

		out = append(out, data[read:read+size]...)
		read += size
	}

	s.out = out
	s.err = err
}

// countingReader counts the bytes read through it.
type countingReader struct {
	reader    io.Reader
	bytesRead int64
}

func (r *countingReader) Read(p []byte) (int, error) {
	n, err := r.reader.Read(p)
	r.bytesRead += int64(n)
	return n, err
}

// wrapUpload strips the BOM, sanitizes UTF-8 and counts bytes.
// The BOM must be removed before sanitizing, otherwise it would be kept as
// a valid rune in the first header cell.
func wrapUpload(r io.Reader) *countingReader {
	return &countingReader{reader: newUTF8Sanitizer(skipBOM(r))}
}
