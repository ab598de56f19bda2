package x690

/*
boolean.go implements the ASN.1 BOOLEAN type (tag 1).
*/

import "fmt"

/*
Boolean implements the ASN.1 BOOLEAN type. Content is a single octet:
0x00 is false, anything else is true under BER; DER requires 0x00 or
0xFF exactly.
*/
type Boolean bool

/*
Tag returns UNIVERSAL 1.
*/
func (r Boolean) Tag() TagID { return uni(tagBoolean) }

func (r Boolean) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	if r {
		return append(dst, 0xff), nil
	}
	return append(dst, 0x00), nil
}

func (r *Boolean) readContent(content []byte, at int, rule EncodingRule) error {
	switch {
	case len(content) == 0:
		return failAt(KindInvalidLength, at,
			fmt.Errorf("BOOLEAN content is empty"))
	case len(content) > 1:
		return failAt(KindUnexpectedTrailing, at+1,
			fmt.Errorf("BOOLEAN content longer than one octet"))
	}

	if rule.canonical() && content[0] != 0x00 && content[0] != 0xff {
		return failAt(KindInvalidEncoding, at,
			fmt.Errorf("DER BOOLEAN content must be 0x00 or 0xFF, got 0x%02X", content[0]))
	}

	*r = content[0] != 0
	return nil
}
