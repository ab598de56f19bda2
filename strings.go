package x690

/*
strings.go implements the restricted character string family. Each
type is a Go string with a tag and an alphabet; decoding validates
the wire content against the alphabet and fails with an
invalid-character condition otherwise. BMPString additionally
transcodes UTF-16BE.
*/

import (
	"fmt"
	"unicode/utf16"
	"unicode/utf8"
)

/*
UTF8String implements the ASN.1 UTF8String type (tag 12).
*/
type UTF8String string

/*
Tag returns UNIVERSAL 12.
*/
func (r UTF8String) Tag() TagID { return uni(tagUTF8String) }

func (r UTF8String) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	if !utf8.ValidString(string(r)) {
		return dst, failValue(KindStringInvalidChar,
			fmt.Errorf("UTF8String value is not valid UTF-8"))
	}
	return append(dst, r...), nil
}

func (r *UTF8String) readContent(content []byte, at int, _ EncodingRule) error {
	if !utf8.Valid(content) {
		return failAt(KindStringInvalidChar, at,
			fmt.Errorf("UTF8String content is not valid UTF-8"))
	}
	*r = UTF8String(content)
	return nil
}

/*
IA5String implements the ASN.1 IA5String type (tag 22): the full
International Alphabet No. 5, octets 0x00 through 0x7F.
*/
type IA5String string

/*
Tag returns UNIVERSAL 22.
*/
func (r IA5String) Tag() TagID { return uni(tagIA5String) }

func (r IA5String) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return appendTextContent(dst, string(r), "IA5String", isIA5)
}

func (r *IA5String) readContent(content []byte, at int, _ EncodingRule) error {
	return readTextContent((*string)(r), content, at, "IA5String", isIA5)
}

/*
PrintableString implements the ASN.1 PrintableString type (tag 19):
letters, digits, space and the punctuation set of X.680 §41.4.
*/
type PrintableString string

/*
Tag returns UNIVERSAL 19.
*/
func (r PrintableString) Tag() TagID { return uni(tagPrintableString) }

func (r PrintableString) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return appendTextContent(dst, string(r), "PrintableString", isPrintable)
}

func (r *PrintableString) readContent(content []byte, at int, _ EncodingRule) error {
	return readTextContent((*string)(r), content, at, "PrintableString", isPrintable)
}

/*
NumericString implements the ASN.1 NumericString type (tag 18):
digits and space.
*/
type NumericString string

/*
Tag returns UNIVERSAL 18.
*/
func (r NumericString) Tag() TagID { return uni(tagNumericString) }

func (r NumericString) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return appendTextContent(dst, string(r), "NumericString", isNumeric)
}

func (r *NumericString) readContent(content []byte, at int, _ EncodingRule) error {
	return readTextContent((*string)(r), content, at, "NumericString", isNumeric)
}

/*
VisibleString implements the ASN.1 VisibleString type (tag 26):
the printable ASCII range 0x20 through 0x7E.
*/
type VisibleString string

/*
Tag returns UNIVERSAL 26.
*/
func (r VisibleString) Tag() TagID { return uni(tagVisibleString) }

func (r VisibleString) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	return appendTextContent(dst, string(r), "VisibleString", isVisible)
}

func (r *VisibleString) readContent(content []byte, at int, _ EncodingRule) error {
	return readTextContent((*string)(r), content, at, "VisibleString", isVisible)
}

/*
BMPString implements the ASN.1 BMPString type (tag 30), carried as
UTF-16BE on the wire and held as a Go string in memory.
*/
type BMPString string

/*
Tag returns UNIVERSAL 30.
*/
func (r BMPString) Tag() TagID { return uni(tagBMPString) }

func (r BMPString) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	if !utf8.ValidString(string(r)) {
		return dst, failValue(KindStringInvalidChar,
			fmt.Errorf("BMPString value is not valid UTF-8"))
	}
	for _, u := range utf16.Encode([]rune(string(r))) {
		dst = append(dst, byte(u>>8), byte(u))
	}
	return dst, nil
}

func (r *BMPString) readContent(content []byte, at int, _ EncodingRule) error {
	if len(content)%2 != 0 {
		return failAt(KindInvalidEncoding, at,
			fmt.Errorf("BMPString content length is odd"))
	}

	units := make([]uint16, 0, len(content)/2)
	for i := 0; i < len(content); i += 2 {
		units = append(units, uint16(content[i])<<8|uint16(content[i+1]))
	}

	runes := utf16.Decode(units)
	for _, rn := range runes {
		if rn == utf8.RuneError {
			return failAt(KindStringInvalidChar, at,
				fmt.Errorf("BMPString content holds an unpaired surrogate"))
		}
	}
	*r = BMPString(runes)
	return nil
}

// alphabet predicates

func isIA5(b byte) bool { return b < 0x80 }

func isVisible(b byte) bool { return b >= 0x20 && b <= 0x7e }

func isNumeric(b byte) bool {
	return b == ' ' || ('0' <= b && b <= '9')
}

func isPrintable(b byte) bool {
	switch {
	case 'a' <= b && b <= 'z', 'A' <= b && b <= 'Z', '0' <= b && b <= '9':
		return true
	}
	switch b {
	case ' ', '\'', '(', ')', '+', ',', '-', '.', '/', ':', '=', '?':
		return true
	}
	return false
}

func appendTextContent(dst []byte, s, name string, ok func(byte) bool) ([]byte, error) {
	for i := 0; i < len(s); i++ {
		if !ok(s[i]) {
			return dst, failValue(KindStringInvalidChar,
				fmt.Errorf("%s value holds invalid character 0x%02X", name, s[i]))
		}
	}
	return append(dst, s...), nil
}

func readTextContent(out *string, content []byte, at int, name string, ok func(byte) bool) error {
	for i, b := range content {
		if !ok(b) {
			return failAt(KindStringInvalidChar, at+i,
				fmt.Errorf("%s content holds invalid character 0x%02X", name, b))
		}
	}
	*out = string(content)
	return nil
}
