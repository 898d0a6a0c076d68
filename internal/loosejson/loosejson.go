// Package loosejson parses JSON-like literals as written by hand in workflow
// files, where keys are often unquoted and strings single-quoted.
//
// Parse never fails loudly: anything it cannot read yields "absent".
package loosejson

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"strings"
	"unicode"
	"unicode/utf8"
)

var errSyntax = errors.New("loosejson: syntax error")

// Parse reads raw as a JSON literal after relaxing it: bare identifier and
// numeric keys and single-quoted strings are quoted, trailing commas are
// dropped, and numbers may start with a dot.
// Numbers are returned as json.Number. The second result is false when raw
// is empty or cannot be parsed.
func Parse(raw string) (any, bool) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, false
	}

	strict, err := relax(raw)
	if err != nil {
		return nil, false
	}

	dec := json.NewDecoder(bytes.NewReader(strict))
	dec.UseNumber()

	var v any
	if err := dec.Decode(&v); err != nil {
		return nil, false
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, false
	}
	return v, true
}

// relax rewrites the relaxed grammar into strict JSON.
func relax(s string) ([]byte, error) {
	var out bytes.Buffer
	out.Grow(len(s) + 8)

	for i := 0; i < len(s); {
		c := s[i]
		switch {
		case c == '"':
			end, err := scanDouble(s, i)
			if err != nil {
				return nil, err
			}
			out.WriteString(s[i:end])
			i = end

		case c == '\'':
			str, end, err := scanSingle(s, i)
			if err != nil {
				return nil, err
			}
			writeQuoted(&out, str)
			i = end

		case c == ',':
			if closesAfter(s, i+1) {
				i++
				continue
			}
			out.WriteByte(c)
			i++

		case c == '-' || c == '.' || (c >= '0' && c <= '9'):
			end := scanNumber(s, i)
			num := leadingZero(s[i:end])
			if followedByColon(s, end) {
				// numeric keys are allowed, negative ones are not
				if c == '-' {
					return nil, errSyntax
				}
				writeQuoted(&out, num)
			} else {
				out.WriteString(num)
			}
			i = end

		case isIdentStart(s, i):
			end := scanIdent(s, i)
			word := s[i:end]
			if followedByColon(s, end) {
				writeQuoted(&out, word)
			} else {
				switch word {
				case "true", "false", "null":
					out.WriteString(word)
				default:
					// undefined identifier
					return nil, errSyntax
				}
			}
			i = end

		default:
			out.WriteByte(c)
			i++
		}
	}
	return out.Bytes(), nil
}

// scanDouble returns the index just past the double-quoted string at s[i].
func scanDouble(s string, i int) (int, error) {
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			j++
		case '"':
			return j + 1, nil
		}
	}
	return 0, errSyntax
}

// scanSingle returns the unescaped contents of the single-quoted string at
// s[i] and the index just past it.
func scanSingle(s string, i int) (string, int, error) {
	var b strings.Builder
	for j := i + 1; j < len(s); j++ {
		switch s[j] {
		case '\\':
			if j+1 >= len(s) {
				return "", 0, errSyntax
			}
			j++
			switch s[j] {
			case '\'', '"', '\\', '/':
				b.WriteByte(s[j])
			case 'n':
				b.WriteByte('\n')
			case 't':
				b.WriteByte('\t')
			case 'r':
				b.WriteByte('\r')
			case 'b':
				b.WriteByte('\b')
			case 'f':
				b.WriteByte('\f')
			default:
				return "", 0, errSyntax
			}
		case '\'':
			return b.String(), j + 1, nil
		default:
			b.WriteByte(s[j])
		}
	}
	return "", 0, errSyntax
}

func writeQuoted(out *bytes.Buffer, s string) {
	q, _ := json.Marshal(s)
	out.Write(q)
}

func isIdentStart(s string, i int) bool {
	r, _ := utf8.DecodeRuneInString(s[i:])
	return r == '_' || r == '$' || unicode.IsLetter(r)
}

func scanIdent(s string, i int) int {
	for i < len(s) {
		r, size := utf8.DecodeRuneInString(s[i:])
		if r != '_' && r != '$' && !unicode.IsLetter(r) && !unicode.IsDigit(r) {
			break
		}
		i += size
	}
	return i
}

// scanNumber returns the index just past the number-like run at s[i]; the
// decoder rejects malformed numbers.
func scanNumber(s string, i int) int {
	for j := i + 1; j < len(s); j++ {
		c := s[j]
		if !(c >= '0' && c <= '9') && c != '.' && c != 'e' && c != 'E' && c != '+' && c != '-' {
			return j
		}
	}
	return len(s)
}

// leadingZero turns ".5" into "0.5" and "-.5" into "-0.5".
func leadingZero(num string) string {
	sign, rest := "", num
	if strings.HasPrefix(rest, "-") {
		sign, rest = "-", rest[1:]
	}
	if strings.HasPrefix(rest, ".") {
		return sign + "0" + rest
	}
	return num
}

func followedByColon(s string, i int) bool {
	for ; i < len(s); i++ {
		if !isSpace(s[i]) {
			return s[i] == ':'
		}
	}
	return false
}

// closesAfter reports whether the next significant byte after i closes an
// object or array, making the preceding comma a trailing one.
func closesAfter(s string, i int) bool {
	for ; i < len(s); i++ {
		if !isSpace(s[i]) {
			return s[i] == '}' || s[i] == ']'
		}
	}
	return false
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}
