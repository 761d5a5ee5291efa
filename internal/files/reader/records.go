package reader

import (
	"bufio"
	"bytes"
	"errors"
	"io"

	"golang.org/x/text/transform"
)

const (
	comma = ','
	quote = '"'
	eol   = -1
)

type parseState int

const (
	startRecord parseState = iota
	startField
	inField
	inQuotedField
	quoteInQuotedField
	eatCRNL
)

// recordReader splits comma separated text into records.
//
// Quoting is lenient: a quote inside an unquoted field is literal text, a
// doubled quote inside a quoted field is one quote, and text after a closing
// quote continues the same field unquoted. A quoted field left open at end of
// input ends there. Lines end at LF, CR or CRLF; line breaks inside quotes are
// kept. A blank line yields an empty record.
type recordReader struct {
	r      *bufio.Reader
	line   int
	field  []byte
	record []string
}

func newRecordReader(r io.Reader) *recordReader {
	return &recordReader{r: bufio.NewReader(r)}
}

// Read returns the next record and the physical line it starts on.
// It returns io.EOF once the input is exhausted.
func (rr *recordReader) Read() ([]string, int, error) {
	rr.record = nil
	rr.field = rr.field[:0]
	st := startRecord
	start := rr.line + 1
	pending := false

	for {
		c, err := rr.r.ReadByte()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, 0, err
			}
			if pending {
				if st = rr.process(st, eol); st == startRecord {
					return rr.record, start, nil
				}
			}
			if st == inQuotedField || len(rr.field) > 0 {
				rr.save()
				return rr.record, start, nil
			}
			return nil, 0, io.EOF
		}

		if !pending {
			rr.line++
			pending = true
		}
		st = rr.process(st, int(c))

		if c == '\n' || (c == '\r' && !rr.next('\n')) {
			pending = false
			if st = rr.process(st, eol); st == startRecord {
				return rr.record, start, nil
			}
		}
	}
}

// next reports whether the next unread byte is b.
func (rr *recordReader) next(b byte) bool {
	p, err := rr.r.Peek(1)
	return err == nil && p[0] == b
}

func (rr *recordReader) process(st parseState, c int) parseState {
	switch st {
	case startRecord:
		switch c {
		case eol:
			return startRecord
		case '\n', '\r':
			return eatCRNL
		}
		return rr.process(startField, c)

	case startField:
		switch c {
		case '\n', '\r', eol:
			return rr.endRecord(c)
		case quote:
			return inQuotedField
		case comma:
			rr.save()
			return startField
		}
		rr.field = append(rr.field, byte(c))
		return inField

	case inField:
		switch c {
		case '\n', '\r', eol:
			return rr.endRecord(c)
		case comma:
			rr.save()
			return startField
		}
		rr.field = append(rr.field, byte(c))
		return inField

	case inQuotedField:
		switch c {
		case eol:
			return inQuotedField
		case quote:
			return quoteInQuotedField
		}
		rr.field = append(rr.field, byte(c))
		return inQuotedField

	case quoteInQuotedField:
		switch c {
		case quote:
			rr.field = append(rr.field, quote)
			return inQuotedField
		case comma:
			rr.save()
			return startField
		case '\n', '\r', eol:
			return rr.endRecord(c)
		}
		rr.field = append(rr.field, byte(c))
		return inField

	default: // eatCRNL
		if c == eol {
			return startRecord
		}
		return eatCRNL
	}
}

func (rr *recordReader) endRecord(c int) parseState {
	rr.save()
	if c == eol {
		return startRecord
	}
	return eatCRNL
}

func (rr *recordReader) save() {
	rr.record = append(rr.record, string(rr.field))
	rr.field = rr.field[:0]
}

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// bomStripper drops a leading UTF-8 byte order mark and passes every other
// byte through untouched.
type bomStripper struct {
	checked bool
}

func (b *bomStripper) Reset() { b.checked = false }

func (b *bomStripper) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	if !b.checked {
		if len(src) < len(utf8BOM) && !atEOF && bytes.HasPrefix(utf8BOM, src) {
			return 0, 0, transform.ErrShortSrc
		}
		b.checked = true
		if bytes.HasPrefix(src, utf8BOM) {
			nSrc = len(utf8BOM)
		}
	}
	n := copy(dst, src[nSrc:])
	nDst = n
	nSrc += n
	if nSrc < len(src) {
		err = transform.ErrShortDst
	}
	return nDst, nSrc, err
}
