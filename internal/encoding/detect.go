// Package encoding normalizes uploaded statements to UTF-8. Brazilian banks
// still export a good share of their CSVs in ISO-8859-1 or Windows-1252.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffSize = 4096

// Charset names reported by NewUTF8Reader.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	ISO88591    = "ISO-8859-1"
	Windows1252 = "windows-1252"
)

var boms = []struct {
	prefix  []byte
	charset string
	decoder encoding.Encoding
}{
	{[]byte{0xEF, 0xBB, 0xBF}, UTF8, nil},
	{[]byte{0xFF, 0xFE}, UTF16LE, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)},
	{[]byte{0xFE, 0xFF}, UTF16BE, unicode.UTF16(unicode.BigEndian, unicode.UseBOM)},
}

var byName = map[string]encoding.Encoding{
	ISO88591:      charmap.ISO8859_1,
	Windows1252:   charmap.Windows1252,
	"ISO-8859-15": charmap.ISO8859_15,
}

// NewUTF8Reader returns a reader yielding r's content as UTF-8 together with
// the charset it was decoded from. A BOM wins over everything else; valid
// UTF-8 is passed through; otherwise chardet is consulted and Windows-1252 is
// the fallback.
func NewUTF8Reader(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReader(r)

	buf, err := br.Peek(sniffSize)
	if err != nil && err != io.EOF {
		return nil, "", fmt.Errorf("peek: %w", err)
	}

	for _, b := range boms {
		if !bytes.HasPrefix(buf, b.prefix) {
			continue
		}

		if b.decoder == nil {
			_, _ = br.Discard(len(b.prefix))
			return br, b.charset, nil
		}

		return transform.NewReader(br, b.decoder.NewDecoder()), b.charset, nil
	}

	if utf8.Valid(buf) {
		return br, UTF8, nil
	}

	charset := Windows1252

	if res, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if res.Charset == UTF8 {
			return br, UTF8, nil
		}

		if _, ok := byName[res.Charset]; ok {
			charset = res.Charset
		}
	}

	return transform.NewReader(br, byName[charset].NewDecoder()), charset, nil
}
