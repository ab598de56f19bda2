package x690

import (
	"bytes"
	"testing"
	"time"
)

func TestStrings_RoundTrip(t *testing.T) {
	for idx, v := range []contentWriter{
		UTF8String("héllo, wörld"),
		IA5String("user@example.test"),
		PrintableString("Watson, come here"),
		NumericString("867 5309"),
		VisibleString("plain ASCII"),
		BMPString("καλημέρα"),
	} {
		enc, err := Encode(DER, v)
		if err != nil {
			t.Fatalf("%s[%d] failed [encode]: %v", t.Name(), idx, err)
		}

		// Decode back through the same concrete type.
		switch want := v.(type) {
		case UTF8String:
			var out UTF8String
			if _, err = Decode(DER, enc, &out); err != nil || out != want {
				t.Fatalf("%s[%d] failed: %v / %q", t.Name(), idx, err, out)
			}
		case IA5String:
			var out IA5String
			if _, err = Decode(DER, enc, &out); err != nil || out != want {
				t.Fatalf("%s[%d] failed: %v / %q", t.Name(), idx, err, out)
			}
		case PrintableString:
			var out PrintableString
			if _, err = Decode(DER, enc, &out); err != nil || out != want {
				t.Fatalf("%s[%d] failed: %v / %q", t.Name(), idx, err, out)
			}
		case NumericString:
			var out NumericString
			if _, err = Decode(DER, enc, &out); err != nil || out != want {
				t.Fatalf("%s[%d] failed: %v / %q", t.Name(), idx, err, out)
			}
		case VisibleString:
			var out VisibleString
			if _, err = Decode(DER, enc, &out); err != nil || out != want {
				t.Fatalf("%s[%d] failed: %v / %q", t.Name(), idx, err, out)
			}
		case BMPString:
			var out BMPString
			if _, err = Decode(DER, enc, &out); err != nil || out != want {
				t.Fatalf("%s[%d] failed: %v / %q", t.Name(), idx, err, out)
			}
		}
	}
}

func TestStrings_AlphabetViolations(t *testing.T) {
	// Encode-side: the value itself is out of alphabet.
	for idx, v := range []contentWriter{
		IA5String("héllo"),        // beyond 0x7F
		PrintableString("semi;"),  // ';' not printable
		NumericString("12a3"),     // letter
		VisibleString("bell\x07"), // control character
	} {
		if _, err := Encode(DER, v); err == nil {
			t.Fatalf("%s[%d] failed: invalid value encoded", t.Name(), idx)
		} else if kind, ok := KindOf(err); !ok || kind != KindStringInvalidChar {
			t.Fatalf("%s[%d] failed: expected invalid-character condition, got %v",
				t.Name(), idx, err)
		}
	}

	// Decode-side: wire content violates the declared alphabet.
	var ns NumericString
	_, err := Decode(BER, []byte{0x12, 0x02, 0x31, 0x61}, &ns) // "1a"
	if kind, ok := KindOf(err); !ok || kind != KindStringInvalidChar {
		t.Fatalf("%s failed: expected invalid-character condition, got %v", t.Name(), err)
	}

	var u8 UTF8String
	_, err = Decode(BER, []byte{0x0C, 0x02, 0xC3, 0x28}, &u8) // broken UTF-8
	if kind, ok := KindOf(err); !ok || kind != KindStringInvalidChar {
		t.Fatalf("%s failed: expected invalid-character condition, got %v", t.Name(), err)
	}
}

func TestBMPString_Wire(t *testing.T) {
	enc, err := Encode(DER, BMPString("Hi"))
	if err != nil {
		t.Fatalf("%s failed: %v", t.Name(), err)
	}
	if !bytes.Equal(enc, []byte{0x1E, 0x04, 0x00, 0x48, 0x00, 0x69}) {
		t.Fatalf("%s failed: encoding % X", t.Name(), enc)
	}

	// Supplementary-plane rune round-trips through a surrogate pair.
	var out BMPString
	roundTrip(t, DER, BMPString("😀"), &out)
	if string(out) != "😀" {
		t.Fatalf("%s failed: got %q", t.Name(), out)
	}

	// Odd content length cannot be UTF-16.
	_, err = Decode(BER, []byte{0x1E, 0x03, 0x00, 0x48, 0x00}, &out)
	if kind, ok := KindOf(err); !ok || kind != KindInvalidEncoding {
		t.Fatalf("%s failed: expected invalid-encoding condition, got %v", t.Name(), err)
	}
}

func TestUTCTime_Wire(t *testing.T) {
	v := UTCTime(time.Date(2019, 12, 15, 19, 2, 10, 0, time.UTC))

	var out UTCTime
	enc := roundTrip(t, DER, v, &out)
	if !bytes.Equal(enc, append([]byte{0x17, 0x0D}, "191215190210Z"...)) {
		t.Fatalf("%s failed: encoding % X", t.Name(), enc)
	}
	if !out.Cast().Equal(v.Cast()) {
		t.Fatalf("%s failed: got %v", t.Name(), out.Cast())
	}

	// The fifty rule: 50 maps to 1950, 49 to 2049.
	for _, tc := range []struct {
		in   string
		year int
	}{
		{"500101000000Z", 1950},
		{"491231235959Z", 2049},
	} {
		content := []byte(tc.in)
		wire := append([]byte{0x17, byte(len(content))}, content...)
		if _, err := Decode(DER, wire, &out); err != nil {
			t.Fatalf("%s failed [%s]: %v", t.Name(), tc.in, err)
		}
		if out.Cast().Year() != tc.year {
			t.Fatalf("%s failed [%s]: year %d", t.Name(), tc.in, out.Cast().Year())
		}
	}

	// Omitted seconds and zone offsets pass under BER only.
	lenient := append([]byte{0x17, 0x0B}, "9912312359Z"...)
	if _, err := Decode(BER, lenient, &out); err != nil {
		t.Fatalf("%s failed [BER minutes]: %v", t.Name(), err)
	}
	if _, err := Decode(DER, lenient, &out); err == nil {
		t.Fatalf("%s failed: DER accepted omitted seconds", t.Name())
	}

	offset := append([]byte{0x17, 0x11}, "191215190210+0330"...)
	if _, err := Decode(BER, offset, &out); err != nil {
		t.Fatalf("%s failed [BER offset]: %v", t.Name(), err)
	}
	if _, err := Decode(DER, offset, &out); err == nil {
		t.Fatalf("%s failed: DER accepted a numeric zone offset", t.Name())
	}
}

func TestGeneralizedTime_Wire(t *testing.T) {
	v := GeneralizedTime(time.Date(2020, 1, 2, 3, 4, 5, 0, time.UTC))

	var out GeneralizedTime
	enc := roundTrip(t, DER, v, &out)
	if !bytes.Equal(enc, append([]byte{0x18, 0x0F}, "20200102030405Z"...)) {
		t.Fatalf("%s failed: encoding % X", t.Name(), enc)
	}

	// A fraction encodes dot-separated without trailing zeros.
	frac := GeneralizedTime(time.Date(2020, 1, 2, 3, 4, 5, 250_000_000, time.UTC))
	enc, err := Encode(DER, frac)
	if err != nil {
		t.Fatalf("%s failed: %v", t.Name(), err)
	}
	if !bytes.Equal(enc, append([]byte{0x18, 0x12}, "20200102030405.25Z"...)) {
		t.Fatalf("%s failed [fraction]: % X", t.Name(), enc)
	}
	if _, err = Decode(DER, enc, &out); err != nil {
		t.Fatalf("%s failed [fraction decode]: %v", t.Name(), err)
	}
	if out.Cast().Nanosecond() != 250_000_000 {
		t.Fatalf("%s failed [fraction]: ns %d", t.Name(), out.Cast().Nanosecond())
	}

	// Comma separators and trailing fraction zeros are BER-only.
	comma := append([]byte{0x18, 0x11}, "20200102030405,5Z"...)
	if _, err = Decode(BER, comma, &out); err != nil {
		t.Fatalf("%s failed [BER comma]: %v", t.Name(), err)
	}
	if _, err = Decode(DER, comma, &out); err == nil {
		t.Fatalf("%s failed: DER accepted a comma separator", t.Name())
	}

	padded := append([]byte{0x18, 0x12}, "20200102030405.50Z"...)
	if _, err = Decode(DER, padded, &out); err == nil {
		t.Fatalf("%s failed: DER accepted a padded fraction", t.Name())
	}

	// Missing Z fails DER, passes BER as local time.
	local := append([]byte{0x18, 0x0E}, "20200102030405"...)
	if _, err = Decode(BER, local, &out); err != nil {
		t.Fatalf("%s failed [BER local]: %v", t.Name(), err)
	}
	if _, err = Decode(DER, local, &out); err == nil {
		t.Fatalf("%s failed: DER accepted a zoneless time", t.Name())
	}
}
