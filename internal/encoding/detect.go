// Package encoding turns uploaded spreadsheet exports into UTF-8 text.
// Spreadsheet tools commonly save CSV as Windows-1252 or UTF-16 with a BOM.
package encoding

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var ErrTooLarge = errors.New("file too large")

var boms = []struct {
	prefix []byte
	enc    encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, nil},
	{[]byte{0xFF, 0xFE}, unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM)},
	{[]byte{0xFE, 0xFF}, unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM)},
}

// charsets maps chardet names to decoders. Unknown names fall back to
// Windows-1252, a superset of Latin-1 for printable text.
var charsets = map[string]encoding.Encoding{
	"ISO-8859-1":   charmap.Windows1252,
	"windows-1252": charmap.Windows1252,
	"ISO-8859-15":  charmap.ISO8859_15,
	"ISO-8859-9":   charmap.ISO8859_9,
	"UTF-16LE":     unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM),
	"UTF-16BE":     unicode.UTF16(unicode.BigEndian, unicode.IgnoreBOM),
}

// ReadText reads at most limit bytes from r and returns them as UTF-8 text.
// Longer input fails with ErrTooLarge.
func ReadText(r io.Reader, limit int64) (string, error) {
	b, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return "", fmt.Errorf("reading file: %w", err)
	}

	if int64(len(b)) > limit {
		return "", ErrTooLarge
	}

	return Decode(b)
}

// Decode converts b to UTF-8. A byte order mark wins over content sniffing
// and is always stripped.
func Decode(b []byte) (string, error) {
	for _, bom := range boms {
		if !bytes.HasPrefix(b, bom.prefix) {
			continue
		}

		b = b[len(bom.prefix):]
		if bom.enc == nil {
			return string(b), nil
		}

		return decodeWith(bom.enc, b)
	}

	if utf8.Valid(b) {
		return string(b), nil
	}

	return decodeWith(detect(b), b)
}

func detect(b []byte) encoding.Encoding {
	result, err := chardet.NewTextDetector().DetectBest(b)
	if err == nil {
		if enc, ok := charsets[result.Charset]; ok {
			return enc
		}
	}

	return charmap.Windows1252
}

func decodeWith(enc encoding.Encoding, b []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(b)
	if err != nil {
		return "", fmt.Errorf("decoding file: %w", err)
	}

	return string(out), nil
}
