package gen3

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/transform"
)

// TextTerminator ends every in-game string shorter than its field.
const TextTerminator = 0xFF

var (
	decodeTable [256]rune
	encodeTable = make(map[rune]byte)
)

func init() {
	set := func(b byte, r rune) {
		decodeTable[b] = r
		encodeTable[r] = b
	}

	set(0x00, ' ')
	set(0x1B, 'é')
	set(0x2D, '&')
	set(0x5C, '(')
	set(0x5D, ')')
	for i := 0; i < 10; i++ {
		set(0xA1+byte(i), '0'+rune(i))
	}
	for i, r := range []rune("!?.-·…“”‘’♂♀$,×/") {
		set(0xAB+byte(i), r)
	}
	for i := 0; i < 26; i++ {
		set(0xBB+byte(i), 'A'+rune(i))
		set(0xD5+byte(i), 'a'+rune(i))
	}
	set(0xEF, '▶')
	set(0xF0, ':')
	for i, r := range []rune("ÄÖÜäöü") {
		set(0xF1+byte(i), r)
	}

	// ASCII spellings accepted when encoding
	encodeTable['\''] = 0xB4
	encodeTable['"'] = 0xB2
}

// Charset is the western Generation III text encoding.
var Charset encoding.Encoding = charset{}

type charset struct{}

func (charset) NewDecoder() *encoding.Decoder {
	return &encoding.Decoder{Transformer: textDecoder{}}
}

func (charset) NewEncoder() *encoding.Encoder {
	return &encoding.Encoder{Transformer: textEncoder{}}
}

func (charset) String() string { return "gen3" }

type textDecoder struct{ transform.NopResetter }

func (textDecoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := decodeTable[src[nSrc]]
		if r == 0 {
			r = utf8.RuneError
		}
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}

type textEncoder struct{ transform.NopResetter }

func (textEncoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r, size := rune(src[nSrc]), 1
		if r >= utf8.RuneSelf {
			if !atEOF && !utf8.FullRune(src[nSrc:]) {
				return nDst, nSrc, transform.ErrShortSrc
			}
			r, size = utf8.DecodeRune(src[nSrc:])
		}
		b, ok := encodeTable[r]
		if !ok {
			return nDst, nSrc, fmt.Errorf("%w: %q", ErrUnencodableRune, r)
		}
		if nDst >= len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		dst[nDst] = b
		nDst++
		nSrc += size
	}
	return nDst, nSrc, nil
}

// DecodeText converts a fixed-length game string to UTF-8, stopping at the
// first terminator.
func DecodeText(raw []byte) string {
	if idx := bytes.IndexByte(raw, TextTerminator); idx >= 0 {
		raw = raw[:idx]
	}
	out, err := Charset.NewDecoder().Bytes(raw)
	if err != nil {
		// The decoder maps every byte, so this is unreachable
		return ""
	}
	return string(out)
}

// EncodeText converts s into a field of exactly length bytes, padded with
// terminators.
func EncodeText(s string, length int) ([]byte, error) {
	enc, err := Charset.NewEncoder().Bytes([]byte(s))
	if err != nil {
		return nil, err
	}
	if len(enc) > length {
		return nil, fmt.Errorf("%w: %q needs %d bytes, field holds %d", ErrTextTooLong, s, len(enc), length)
	}
	out := bytes.Repeat([]byte{TextTerminator}, length)
	copy(out, enc)
	return out, nil
}
