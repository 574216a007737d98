package importer

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw upload bytes to a UTF-8 string. Spreadsheets
// exported from older Brazilian office installs frequently arrive as
// Windows-1252; anything that is not valid UTF-8 is transcoded from that
// charset. A leading byte-order marker is stripped either way.
func DecodeText(data []byte) string {
	data = bytes.TrimPrefix(data, utf8BOM)

	if utf8.Valid(data) {
		return string(data)
	}

	decoded, _, err := transform.Bytes(charmap.Windows1252.NewDecoder(), data)
	if err != nil {
		return string(data)
	}
	return string(decoded)
}
