package utils

import (
	"bytes"
)

// sniffLength defines the maximum number of bytes inspected when detecting binary content.
const sniffLength = 8000

var (
	utf16LittleEndianMark = []byte{0xFF, 0xFE}
	utf16BigEndianMark    = []byte{0xFE, 0xFF}
)

// IsBinary reports whether the provided byte slice appears to contain binary data.
// Only a NUL byte within the first sniffLength bytes marks data as binary;
// invalid UTF-8 alone does not, since it is decoded permissively. UTF-16 text
// carrying a byte order mark is never binary.
func IsBinary(data []byte) bool {
	if len(data) == 0 {
		return false
	}
	if bytes.HasPrefix(data, utf16LittleEndianMark) || bytes.HasPrefix(data, utf16BigEndianMark) {
		return false
	}
	sniffed := data
	if len(sniffed) > sniffLength {
		sniffed = sniffed[:sniffLength]
	}
	return bytes.IndexByte(sniffed, 0) >= 0
}
