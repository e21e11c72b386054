package csvio

import (
	"bytes"
	"unicode/utf8"

	apperrors "github.com/ghchoi48/homeroom/internal/platform/errors"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/korean"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decodeText normalizes operator-supplied file contents to UTF-8.
//
// Import files come from spreadsheet tools that save UTF-8 (with or without a
// byte order mark), UTF-16, or the legacy Korean codepage. A BOM decides
// outright; otherwise valid UTF-8 wins and EUC-KR is the fallback.
func decodeText(data []byte) (string, error) {
	switch {
	case bytes.HasPrefix(data, utf8BOM):
		return string(data[len(utf8BOM):]), nil
	case bytes.HasPrefix(data, bomUTF16LE):
		return decodeWith(data, unicode.UTF16(unicode.LittleEndian, unicode.UseBOM))
	case bytes.HasPrefix(data, bomUTF16BE):
		return decodeWith(data, unicode.UTF16(unicode.BigEndian, unicode.UseBOM))
	}

	if utf8.Valid(data) {
		return string(data), nil
	}

	decoded, err := korean.EUCKR.NewDecoder().Bytes(data)
	if err == nil && utf8.Valid(decoded) && !bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded), nil
	}

	return "", apperrors.New(apperrors.CodeEncodingUnknown, "cannot determine file encoding")
}

func decodeWith(data []byte, enc encoding.Encoding) (string, error) {
	decoded, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", apperrors.Wrap(apperrors.CodeEncodingUnknown, "decode file contents", err)
	}
	return string(decoded), nil
}
