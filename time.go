package x690

/*
time.go implements the ASN.1 UTCTime (tag 23) and GeneralizedTime
(tag 24) types. The permissive path accepts every X.680 lexical
variant (omitted seconds, numeric zone offsets, fractional seconds,
local time); the DER path requires the Zulu suffix, explicit seconds
and, for GeneralizedTime, a dot-separated fraction without trailing
zeros.
*/

import (
	"fmt"
	"math"
	"time"
)

/*
UTCTime implements the ASN.1 UTCTime type. The two-digit year maps to
1900+YY when YY is 50 or greater and 2000+YY otherwise.
*/
type UTCTime time.Time

/*
Tag returns UNIVERSAL 23.
*/
func (r UTCTime) Tag() TagID { return uni(tagUTCTime) }

// Cast unwraps the underlying time.Time.
func (r UTCTime) Cast() time.Time { return time.Time(r) }

func (r UTCTime) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	t := time.Time(r).UTC()
	y := t.Year()
	if y < 1950 || y > 2049 {
		return dst, failValue(KindUnsupported,
			fmt.Errorf("year %d is outside the UTCTime window", y))
	}
	dst = append2(dst, y%100)
	dst = append2(dst, int(t.Month()))
	dst = append2(dst, t.Day())
	dst = append2(dst, t.Hour())
	dst = append2(dst, t.Minute())
	dst = append2(dst, t.Second())
	return append(dst, 'Z'), nil
}

func (r *UTCTime) readContent(content []byte, at int, rule EncodingRule) error {
	s := string(content)
	p := &timeLexer{s: s, at: at}

	yy := p.digits2()
	mo := p.digits2()
	da := p.digits2()
	hh := p.digits2()
	mi := p.digits2()

	ss := 0
	if p.err == nil && p.peekDigit() {
		ss = p.digits2()
	} else if rule.canonical() {
		return failAt(KindInvalidEncoding, at,
			fmt.Errorf("DER UTCTime requires explicit seconds"))
	}

	loc, err := p.zone(rule, false)
	if err != nil {
		return err
	}
	if p.err != nil {
		return p.err
	}
	if p.i != len(s) {
		return failAt(KindUnexpectedTrailing, at+p.i,
			fmt.Errorf("trailing characters in UTCTime"))
	}

	year := 2000 + yy
	if yy >= 50 {
		year = 1900 + yy
	}
	t, err := civil(year, mo, da, hh, mi, ss, 0, loc, at)
	if err != nil {
		return err
	}
	*r = UTCTime(t)
	return nil
}

/*
GeneralizedTime implements the ASN.1 GeneralizedTime type with its
four-digit year and optional fractional seconds.
*/
type GeneralizedTime time.Time

/*
Tag returns UNIVERSAL 24.
*/
func (r GeneralizedTime) Tag() TagID { return uni(tagGeneralizedTime) }

// Cast unwraps the underlying time.Time.
func (r GeneralizedTime) Cast() time.Time { return time.Time(r) }

func (r GeneralizedTime) appendContent(dst []byte, _ EncodingRule) ([]byte, error) {
	t := time.Time(r).UTC()
	y := t.Year()
	if y < 0 || y > 9999 {
		return dst, failValue(KindUnsupported,
			fmt.Errorf("year %d is outside the GeneralizedTime window", y))
	}
	dst = append2(dst, y/100)
	dst = append2(dst, y%100)
	dst = append2(dst, int(t.Month()))
	dst = append2(dst, t.Day())
	dst = append2(dst, t.Hour())
	dst = append2(dst, t.Minute())
	dst = append2(dst, t.Second())

	// Canonical fraction: dot separator, no trailing zeros, omitted
	// when zero.
	if ns := t.Nanosecond(); ns != 0 {
		frac := itoa(1000000000 + ns)[1:] // nine digits, zero padded
		for frac[len(frac)-1] == '0' {
			frac = frac[:len(frac)-1]
		}
		dst = append(dst, '.')
		dst = append(dst, frac...)
	}

	return append(dst, 'Z'), nil
}

func (r *GeneralizedTime) readContent(content []byte, at int, rule EncodingRule) error {
	s := string(content)
	p := &timeLexer{s: s, at: at}

	year := p.digits2()*100 + p.digits2()
	mo := p.digits2()
	da := p.digits2()
	hh := p.digits2()

	mi, ss := 0, 0
	haveSec := false
	if p.err == nil && p.peekDigit() {
		mi = p.digits2()
		if p.err == nil && p.peekDigit() {
			ss = p.digits2()
			haveSec = true
		}
	}
	if rule.canonical() && !haveSec {
		return failAt(KindInvalidEncoding, at,
			fmt.Errorf("DER GeneralizedTime requires explicit seconds"))
	}

	ns := 0
	if p.err == nil && p.i < len(s) && (s[p.i] == '.' || s[p.i] == ',') {
		sep := s[p.i]
		if rule.canonical() && sep != '.' {
			return failAt(KindInvalidEncoding, at+p.i,
				fmt.Errorf("DER GeneralizedTime requires the dot separator"))
		}
		p.i++
		start := p.i
		var frac, scale float64 = 0, 1
		for p.i < len(s) && s[p.i] >= '0' && s[p.i] <= '9' {
			scale /= 10
			frac += float64(s[p.i]-'0') * scale
			p.i++
		}
		if p.i == start {
			return failAt(KindInvalidEncoding, at+p.i,
				fmt.Errorf("empty GeneralizedTime fraction"))
		}
		if rule.canonical() && s[p.i-1] == '0' {
			return failAt(KindInvalidEncoding, at+p.i-1,
				fmt.Errorf("trailing zero in DER GeneralizedTime fraction"))
		}
		ns = int(math.Round(frac * 1e9))
	}

	loc, err := p.zone(rule, true)
	if err != nil {
		return err
	}
	if p.err != nil {
		return p.err
	}
	if p.i != len(s) {
		return failAt(KindUnexpectedTrailing, at+p.i,
			fmt.Errorf("trailing characters in GeneralizedTime"))
	}

	t, err := civil(year, mo, da, hh, mi, ss, ns, loc, at)
	if err != nil {
		return err
	}
	*r = GeneralizedTime(t)
	return nil
}

// timeLexer scans fixed-width digit groups of a temporal string.
type timeLexer struct {
	s   string
	i   int
	at  int
	err error
}

func (p *timeLexer) peekDigit() bool {
	return p.i < len(p.s) && p.s[p.i] >= '0' && p.s[p.i] <= '9'
}

func (p *timeLexer) digits2() int {
	if p.err != nil {
		return 0
	}
	if p.i+2 > len(p.s) || !digit(p.s[p.i]) || !digit(p.s[p.i+1]) {
		p.err = failAt(KindInvalidEncoding, p.at+p.i,
			fmt.Errorf("malformed time digit group"))
		return 0
	}
	v := int(p.s[p.i]-'0')*10 + int(p.s[p.i+1]-'0')
	p.i += 2
	return v
}

/*
zone consumes the zone designator: Z, a ±HHMM offset, or (for
GeneralizedTime under BER) nothing, meaning local time. DER accepts
Z alone.
*/
func (p *timeLexer) zone(rule EncodingRule, localOK bool) (*time.Location, error) {
	if p.err != nil {
		return time.UTC, nil
	}
	if p.i < len(p.s) && p.s[p.i] == 'Z' {
		p.i++
		return time.UTC, nil
	}
	if rule.canonical() {
		return nil, failAt(KindInvalidEncoding, p.at+p.i,
			fmt.Errorf("DER time values require the Z suffix"))
	}
	if p.i < len(p.s) && (p.s[p.i] == '+' || p.s[p.i] == '-') {
		sign := 1
		if p.s[p.i] == '-' {
			sign = -1
		}
		p.i++
		hh := p.digits2()
		mm := p.digits2()
		if p.err != nil {
			return nil, p.err
		}
		return time.FixedZone("", sign*(hh*3600+mm*60)), nil
	}
	if localOK {
		return time.Local, nil
	}
	return nil, failAt(KindInvalidEncoding, p.at+p.i,
		fmt.Errorf("missing time zone designator"))
}

func civil(year, mo, da, hh, mi, ss, ns int, loc *time.Location, at int) (time.Time, error) {
	if mo < 1 || mo > 12 || da < 1 || da > 31 || hh > 23 || mi > 59 || ss > 59 {
		return time.Time{}, failAt(KindInvalidEncoding, at,
			fmt.Errorf("time component out of range"))
	}
	return time.Date(year, time.Month(mo), da, hh, mi, ss, ns, loc), nil
}

func digit(b byte) bool { return '0' <= b && b <= '9' }

// append2 appends v as two decimal digits.
func append2(dst []byte, v int) []byte {
	return append(dst, byte('0'+v/10%10), byte('0'+v%10))
}
