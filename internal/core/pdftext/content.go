package pdftext

import (
	"bytes"
	"encoding/hex"
	"math"
	"strconv"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	xunicode "golang.org/x/text/encoding/unicode"
)

// tjGapThreshold is the TJ kerning adjustment (thousandths of an em) treated
// as a word gap.
const tjGapThreshold = -200

type operand struct {
	str   string
	isStr bool
	num   float64
	isNum bool
	arr   []operand
}

// decodeContent walks a page content stream and renders its text-showing
// operators as lines. Text placed on a new baseline starts a new line and a
// horizontal move on the same baseline becomes a single space.
func decodeContent(data []byte) string {
	var (
		w     textWriter
		stack []operand
	)
	s := &contentScanner{data: data}
	for {
		op, operator, ok := s.next()
		if !ok {
			break
		}
		if operator == "" {
			stack = append(stack, op)
			continue
		}
		switch operator {
		case "BT":
			w.y = 0
			w.moved = true
		case "Td", "TD":
			if ty, ok := topNumber(stack); ok {
				w.y += ty
			}
			w.moved = true
		case "Tm":
			if f, ok := topNumber(stack); ok {
				w.y = f
			}
			w.moved = true
		case "T*":
			w.nextLine()
		case "Tj":
			if str, ok := topString(stack); ok {
				w.show(str)
			}
		case "'", "\"":
			w.nextLine()
			if str, ok := topString(stack); ok {
				w.show(str)
			}
		case "TJ":
			if n := len(stack); n > 0 {
				for _, it := range stack[n-1].arr {
					switch {
					case it.isStr:
						w.show(it.str)
					case it.isNum && it.num < tjGapThreshold:
						w.moved = true
					}
				}
			}
		case "BI":
			s.skipInlineImage()
		}
		stack = stack[:0]
	}
	return w.String()
}

func topString(stack []operand) (string, bool) {
	if n := len(stack); n > 0 && stack[n-1].isStr {
		return stack[n-1].str, true
	}
	return "", false
}

func topNumber(stack []operand) (float64, bool) {
	if n := len(stack); n > 0 && stack[n-1].isNum {
		return stack[n-1].num, true
	}
	return 0, false
}

// baselineTolerance absorbs small rises such as superscripts.
const baselineTolerance = 0.5

type textWriter struct {
	buf       []byte
	y         float64
	shownY    float64
	haveShown bool
	moved     bool
	breakLine bool
}

// nextLine forces the next shown text onto its own line. The leading is not
// tracked, so y only needs to differ from the last baseline.
func (w *textWriter) nextLine() {
	w.y--
	w.breakLine = true
}

func (w *textWriter) show(s string) {
	if s == "" {
		return
	}
	if w.haveShown {
		switch {
		case w.breakLine || math.Abs(w.y-w.shownY) > baselineTolerance:
			w.trimSpace()
			w.buf = append(w.buf, '\n')
		case w.moved:
			w.space()
		}
	}
	for _, r := range s {
		switch {
		case r == '\n' || r == '\r' || r == '\t':
			w.space()
		case r < 0x20:
		default:
			w.buf = utf8.AppendRune(w.buf, r)
		}
	}
	w.shownY = w.y
	w.haveShown = true
	w.moved = false
	w.breakLine = false
}

func (w *textWriter) space() {
	if n := len(w.buf); n > 0 && w.buf[n-1] != ' ' && w.buf[n-1] != '\n' {
		w.buf = append(w.buf, ' ')
	}
}

func (w *textWriter) trimSpace() {
	for n := len(w.buf); n > 0 && w.buf[n-1] == ' '; n-- {
		w.buf = w.buf[:n-1]
	}
}

func (w *textWriter) String() string {
	return strings.TrimRight(string(w.buf), " \n")
}

type contentScanner struct {
	data []byte
	pos  int
}

// next returns either an operand (operator == "") or an operator name.
func (s *contentScanner) next() (operand, string, bool) {
	for {
		s.skipSpace()
		if s.pos >= len(s.data) {
			return operand{}, "", false
		}
		switch c := s.data[s.pos]; {
		case c == '(':
			return operand{str: decodeBytes(s.literal()), isStr: true}, "", true
		case c == '<':
			if s.pos+1 < len(s.data) && s.data[s.pos+1] == '<' {
				s.skipDict()
				return operand{}, "", true
			}
			return operand{str: decodeBytes(s.hexString()), isStr: true}, "", true
		case c == '[':
			return s.array(), "", true
		case c == '/':
			s.pos++
			s.regular()
			return operand{}, "", true
		case c == '+' || c == '-' || c == '.' || (c >= '0' && c <= '9'):
			tok := s.regular()
			f, err := strconv.ParseFloat(tok, 64)
			if err != nil {
				return operand{}, "", true
			}
			return operand{num: f, isNum: true}, "", true
		default:
			tok := s.regular()
			if tok == "" {
				// stray delimiter
				s.pos++
				continue
			}
			return operand{}, tok, true
		}
	}
}

func (s *contentScanner) skipSpace() {
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		if c == '%' {
			for s.pos < len(s.data) && s.data[s.pos] != '\n' && s.data[s.pos] != '\r' {
				s.pos++
			}
			continue
		}
		if !isWhite(c) {
			return
		}
		s.pos++
	}
}

func (s *contentScanner) regular() string {
	start := s.pos
	for s.pos < len(s.data) && !isWhite(s.data[s.pos]) && !isDelim(s.data[s.pos]) {
		s.pos++
	}
	return string(s.data[start:s.pos])
}

func (s *contentScanner) literal() []byte {
	s.pos++ // (
	depth := 1
	var b []byte
	for s.pos < len(s.data) {
		c := s.data[s.pos]
		s.pos++
		switch c {
		case '\\':
			if s.pos >= len(s.data) {
				return b
			}
			e := s.data[s.pos]
			s.pos++
			switch e {
			case 'n':
				b = append(b, '\n')
			case 'r':
				b = append(b, '\r')
			case 't':
				b = append(b, '\t')
			case 'b':
				b = append(b, '\b')
			case 'f':
				b = append(b, '\f')
			case '\r':
				if s.pos < len(s.data) && s.data[s.pos] == '\n' {
					s.pos++
				}
			case '\n':
			default:
				if e >= '0' && e <= '7' {
					val := int(e - '0')
					for i := 0; i < 2 && s.pos < len(s.data) && s.data[s.pos] >= '0' && s.data[s.pos] <= '7'; i++ {
						val = val*8 + int(s.data[s.pos]-'0')
						s.pos++
					}
					b = append(b, byte(val))
				} else {
					b = append(b, e)
				}
			}
		case '(':
			depth++
			b = append(b, c)
		case ')':
			depth--
			if depth == 0 {
				return b
			}
			b = append(b, c)
		default:
			b = append(b, c)
		}
	}
	return b
}

func (s *contentScanner) hexString() []byte {
	s.pos++ // <
	var digits []byte
	for s.pos < len(s.data) && s.data[s.pos] != '>' {
		if !isWhite(s.data[s.pos]) {
			digits = append(digits, s.data[s.pos])
		}
		s.pos++
	}
	s.pos++ // >
	if len(digits)%2 == 1 {
		digits = append(digits, '0')
	}
	out, err := hex.DecodeString(string(digits))
	if err != nil {
		return nil
	}
	return out
}

func (s *contentScanner) array() operand {
	s.pos++ // [
	var arr []operand
	for {
		s.skipSpace()
		if s.pos >= len(s.data) {
			break
		}
		if s.data[s.pos] == ']' {
			s.pos++
			break
		}
		op, operator, ok := s.next()
		if !ok {
			break
		}
		if operator == "" {
			arr = append(arr, op)
		}
	}
	return operand{arr: arr}
}

func (s *contentScanner) skipDict() {
	depth := 0
	for s.pos+1 < len(s.data) {
		switch {
		case s.data[s.pos] == '<' && s.data[s.pos+1] == '<':
			depth++
			s.pos += 2
		case s.data[s.pos] == '>' && s.data[s.pos+1] == '>':
			depth--
			s.pos += 2
			if depth == 0 {
				return
			}
		default:
			s.pos++
		}
	}
	s.pos = len(s.data)
}

// skipInlineImage jumps past the binary payload between ID and EI.
func (s *contentScanner) skipInlineImage() {
	id := bytes.Index(s.data[s.pos:], []byte("ID"))
	if id < 0 {
		s.pos = len(s.data)
		return
	}
	s.pos += id + 2
	ei := bytes.Index(s.data[s.pos:], []byte("EI"))
	if ei < 0 {
		s.pos = len(s.data)
		return
	}
	s.pos += ei + 2
}

// decodeBytes maps string bytes to UTF-8: UTF-16BE when BOM-marked, WinAnsi
// otherwise.
func decodeBytes(b []byte) string {
	if len(b) >= 2 && b[0] == 0xFE && b[1] == 0xFF {
		out, err := xunicode.UTF16(xunicode.BigEndian, xunicode.ExpectBOM).NewDecoder().Bytes(b)
		if err == nil {
			return string(out)
		}
	}
	out, err := charmap.Windows1252.NewDecoder().Bytes(b)
	if err != nil {
		return string(b)
	}
	return string(out)
}

func isWhite(c byte) bool {
	switch c {
	case ' ', '\t', '\r', '\n', '\f', 0:
		return true
	}
	return false
}

func isDelim(c byte) bool {
	switch c {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}
