package parser

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"

	apperrors "github.com/koltyakov/orgimport/pkg/errors"
)

// Encoding is a supported source text encoding
type Encoding string

const (
	EncodingUTF8        Encoding = "UTF-8"
	EncodingWindows1251 Encoding = "Windows-1251"
	EncodingISO88591    Encoding = "ISO-8859-1"
)

// cyrillicShare is the minimum share of high bytes among letters for Windows-1251
const cyrillicShare = 0.3

// DetectEncoding guesses the encoding of raw text.
// Valid UTF-8 wins. Otherwise bytes 0x80-0x9F, which are control codes in
// ISO-8859-1, or a dense run of high bytes (Cyrillic text) indicate Windows-1251.
func DetectEncoding(data []byte) Encoding {
	data = bytes.TrimPrefix(data, []byte(utf8BOM))
	if utf8.Valid(data) {
		return EncodingUTF8
	}

	var high, letters int
	for _, b := range data {
		switch {
		case b >= 0x80 && b <= 0x9F:
			return EncodingWindows1251
		case b >= 0xC0:
			high++
			letters++
		case (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z'):
			letters++
		}
	}

	if letters > 0 && float64(high)/float64(letters) >= cyrillicShare {
		return EncodingWindows1251
	}
	return EncodingISO88591
}

// NormalizeEncoding transcodes raw text to UTF-8, stripping a UTF-8 BOM
func NormalizeEncoding(data []byte) (string, Encoding, error) {
	enc := DetectEncoding(data)

	switch enc {
	case EncodingUTF8:
		return string(bytes.TrimPrefix(data, []byte(utf8BOM))), enc, nil
	case EncodingWindows1251:
		return decode(data, charmap.Windows1251, enc)
	default:
		return decode(data, charmap.ISO8859_1, enc)
	}
}

func decode(data []byte, cm *charmap.Charmap, enc Encoding) (string, Encoding, error) {
	out, _, err := transform.Bytes(cm.NewDecoder(), data)
	if err != nil {
		return "", enc, apperrors.NewInputError("parser.NormalizeEncoding", "cannot decode "+string(enc)+" content", err)
	}
	return string(out), enc, nil
}
