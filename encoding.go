package sax

import (
	"strconv"
	"strings"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/ianaindex"
)

// Encoding is the character encoding the input is read with. 16-bit and 32-bit encodings are not supported.
type Encoding int

// Encoding values.
const (
	EncodingUnknown Encoding = iota // autodetect from the byte order mark, falling back to EncodingLegacy
	EncodingLegacy                  // some kind of 8-bit encoding
	EncodingUTF8
)

// String returns the string representation of an Encoding.
func (e Encoding) String() string {
	switch e {
	case EncodingUnknown:
		return "unknown"
	case EncodingLegacy:
		return "legacy"
	case EncodingUTF8:
		return "UTF-8"
	}
	return "Invalid(" + strconv.Itoa(int(e)) + ")"
}

// Signature is the kind of byte order mark or encoding pattern found at the start of the input.
type Signature int

// Signature values.
const (
	SignatureNone   Signature = iota
	SignatureUTF8             // EF BB BF
	SignatureUTF16            // FE FF, FF FE or a 16-bit '<?'
	SignatureUTF32            // 00 00 FE FF, FF FE 00 00 or a 32-bit '<'
	SignatureBroken           // EF not followed by BB BF
)

// DetectSignature inspects the first (up to four) bytes of the input and returns the signature found and the number of bytes it occupies.
// Only the UTF-8 byte order mark is consumed, all other signatures are reported with zero length.
func DetectSignature(b []byte) (Signature, int) {
	if len(b) >= 4 {
		switch {
		case b[0] == 0x00 && b[1] == 0x00 && b[2] == 0xFE && b[3] == 0xFF,
			b[0] == 0xFF && b[1] == 0xFE && b[2] == 0x00 && b[3] == 0x00,
			b[0] == 0x00 && b[1] == 0x00 && b[2] == 0x00 && b[3] == '<',
			b[0] == '<' && b[1] == 0x00 && b[2] == 0x00 && b[3] == 0x00:
			return SignatureUTF32, 0
		case b[0] == 0x00 && b[1] == '<' && b[2] == 0x00 && b[3] == '?',
			b[0] == '<' && b[1] == 0x00 && b[2] == '?' && b[3] == 0x00:
			return SignatureUTF16, 0
		}
	}
	if len(b) > 0 && b[0] == 0xEF {
		if len(b) >= 3 && b[1] == 0xBB && b[2] == 0xBF {
			return SignatureUTF8, 3
		}
		return SignatureBroken, 0
	}
	if len(b) >= 2 && (b[0] == 0xFE && b[1] == 0xFF || b[0] == 0xFF && b[1] == 0xFE) {
		return SignatureUTF16, 0
	}
	return SignatureNone, 0
}

// IsEncodingName returns true when name matches the XML EncName production [A-Za-z] ([A-Za-z0-9._] | '-')*.
func IsEncodingName(name []byte) bool {
	if len(name) == 0 || !isLetter(name[0]) {
		return false
	}
	for _, c := range name[1:] {
		if !isLetter(c) && !isDigit(c) && c != '.' && c != '_' && c != '-' {
			return false
		}
	}
	return true
}

// LookupEncoding resolves a declared encoding name. It returns EncodingUTF8 for UTF-8 and EncodingLegacy for 8-bit encodings, together with the charmap to decode bytes above 0x7F when one is known.
// A zero ErrorCode means the encoding is supported; otherwise it is ErrEncoding or ErrEncoding32.
func LookupEncoding(name string) (Encoding, *charmap.Charmap, ErrorCode) {
	if !IsEncodingName([]byte(name)) {
		return EncodingUnknown, nil, ErrEncoding
	}
	switch strings.ToUpper(name) {
	case "UTF-8", "UTF8":
		return EncodingUTF8, nil, 0
	case "US-ASCII", "ASCII":
		return EncodingLegacy, nil, 0
	case "UTF-16", "UTF-16LE", "UTF-16BE", "UCS-2", "ISO-10646-UCS-2":
		return EncodingUnknown, nil, ErrEncoding
	case "UTF-32", "UTF-32LE", "UTF-32BE", "UCS-4", "ISO-10646-UCS-4":
		return EncodingUnknown, nil, ErrEncoding32
	}

	enc, err := ianaindex.IANA.Encoding(name)
	if err != nil || enc == nil {
		return EncodingUnknown, nil, ErrEncoding
	}
	cm, ok := enc.(*charmap.Charmap)
	if !ok {
		return EncodingUnknown, nil, ErrEncoding // multi-byte encodings are not 8-bit
	}
	return EncodingLegacy, cm, 0
}
