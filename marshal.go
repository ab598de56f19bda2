package x690

/*
marshal.go is the reflection front-end: it binds annotated Go values
to the primitive codecs and the constructed composer. Encode and
Decode are the two boundary contracts; Decode returns the unconsumed
remainder of its input.
*/

import (
	"fmt"
	"math"
	"math/big"
	"reflect"
	"time"
)

type config struct {
	errMap func(error) error
}

/*
Option adjusts one Encode or Decode invocation.
*/
type Option func(*config)

/*
WithErrorMapper installs a conversion applied to any error the
operation returns, allowing callers to translate the kinded errors of
this package into their own taxonomy.
*/
func WithErrorMapper(f func(error) error) Option {
	return func(c *config) { c.errMap = f }
}

/*
Encode renders v under the given rule and returns the encoded bytes.
*/
func Encode(rule EncodingRule, v any, opts ...Option) ([]byte, error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	out, err := encodeReflect(nil, rule, reflect.ValueOf(v), noOptions())
	if err != nil {
		if cfg.errMap != nil {
			err = cfg.errMap(err)
		}
		return nil, err
	}
	return out, nil
}

/*
Decode parses one complete value from data into v, which must be a
non-nil pointer, and returns the unconsumed remainder.
*/
func Decode(rule EncodingRule, data []byte, v any, opts ...Option) (rest []byte, err error) {
	var cfg config
	for _, o := range opts {
		o(&cfg)
	}

	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.Ptr || rv.IsNil() {
		return data, fmt.Errorf("x690: Decode target must be a non-nil pointer")
	}

	c := NewCursor(data)
	err = decodeReflect(&c, rule, rv.Elem(), noOptions())
	if err != nil && cfg.errMap != nil {
		err = cfg.errMap(err)
	}
	return c.Bytes(), err
}

var (
	bigIntType   = reflect.TypeOf((*big.Int)(nil))
	timeType     = reflect.TypeOf(time.Time{})
	rawValueType = reflect.TypeOf(RawValue{})
	choiceType   = reflect.TypeOf(Choice{})
	valueType    = reflect.TypeOf((*Value)(nil)).Elem()
)

func encodeReflect(dst []byte, rule EncodingRule, rv reflect.Value, o fieldOptions) ([]byte, error) {
	if !rv.IsValid() {
		return dst, failValue(KindUnsupported, fmt.Errorf("cannot encode untyped nil"))
	}
	for rv.Kind() == reflect.Interface {
		if rv.IsNil() {
			return dst, failValue(KindUnsupported, fmt.Errorf("cannot encode nil interface"))
		}
		rv = rv.Elem()
	}

	if rv.Type() == bigIntType {
		if rv.IsNil() {
			return dst, failValue(KindUnsupported, fmt.Errorf("cannot encode nil *big.Int"))
		}
		return framePrimitive(dst, rule, BigInt{Val: rv.Interface().(*big.Int)}, o)
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			return dst, failValue(KindUnsupported, fmt.Errorf("cannot encode nil pointer"))
		}
		rv = rv.Elem()
	}

	switch rv.Type() {
	case rawValueType:
		return appendRaw(dst, rv.Interface().(RawValue)), nil
	case choiceType:
		if o.choices == "" {
			return dst, failValue(KindNoMatchingVariant,
				fmt.Errorf("Choice field lacks a choices annotation"))
		}
		return encodeChoice(dst, rule, o.choices, rv.Interface().(Choice))
	case timeType:
		t := rv.Interface().(time.Time)
		if o.format == "utc" {
			return framePrimitive(dst, rule, UTCTime(t), o)
		}
		return framePrimitive(dst, rule, GeneralizedTime(t), o)
	}

	if w, ok := rv.Interface().(contentWriter); ok {
		return framePrimitive(dst, rule, w, o)
	}

	switch rv.Kind() {
	case reflect.Bool:
		return framePrimitive(dst, rule, Boolean(rv.Bool()), o)

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if o.format == "enum" {
			return framePrimitive(dst, rule, Enumerated(rv.Int()), o)
		}
		return framePrimitive(dst, rule, Int(rv.Int()), o)

	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := rv.Uint(); u > math.MaxInt64 {
			return framePrimitive(dst, rule, BigInt{Val: new(big.Int).SetUint64(u)}, o)
		}
		return framePrimitive(dst, rule, Int(rv.Uint()), o)

	case reflect.String:
		w, err := textWriter(rv.String(), o.format)
		if err != nil {
			return dst, err
		}
		return framePrimitive(dst, rule, w, o)

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			return framePrimitive(dst, rule, OctetString(rv.Bytes()), o)
		}
		return encodeCollection(dst, rule, rv, o)

	case reflect.Struct:
		return encodeStructValue(dst, rule, rv, o)
	}

	return dst, failValue(KindUnsupported,
		fmt.Errorf("cannot encode %s", rv.Type().String()))
}

func decodeReflect(c *Cursor, rule EncodingRule, rv reflect.Value, o fieldOptions) error {
	if rv.Type() == choiceType {
		if o.choices == "" {
			return failAt(KindNoMatchingVariant, c.Position(),
				fmt.Errorf("Choice field lacks a choices annotation"))
		}
		return decodeChoice(c, rule, o.choices, rv)
	}

	if rv.Type() == bigIntType {
		var bi BigInt
		if err := decodePrimitiveField(c, rule, &bi, o); err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(bi.Val))
		return nil
	}
	for rv.Kind() == reflect.Ptr {
		if rv.IsNil() {
			rv.Set(reflect.New(rv.Type().Elem()))
		}
		rv = rv.Elem()
	}

	switch rv.Type() {
	case rawValueType:
		raw, err := decodeRaw(c, rule)
		if err == nil {
			rv.Set(reflect.ValueOf(raw))
		}
		return err
	case timeType:
		if o.format == "utc" {
			var u UTCTime
			if err := decodePrimitiveField(c, rule, &u, o); err != nil {
				return err
			}
			rv.Set(reflect.ValueOf(time.Time(u)))
			return nil
		}
		var g GeneralizedTime
		if err := decodePrimitiveField(c, rule, &g, o); err != nil {
			return err
		}
		rv.Set(reflect.ValueOf(time.Time(g)))
		return nil
	}

	if rv.CanAddr() {
		if rd, ok := rv.Addr().Interface().(contentReader); ok {
			return decodePrimitiveField(c, rule, rd, o)
		}
	}

	switch rv.Kind() {
	case reflect.Bool:
		var b Boolean
		if err := decodePrimitiveField(c, rule, &b, o); err != nil {
			return err
		}
		rv.SetBool(bool(b))
		return nil

	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return decodeNativeInt(c, rule, rv, o)

	case reflect.String:
		return decodeText(c, rule, rv, o)

	case reflect.Slice:
		if rv.Type().Elem().Kind() == reflect.Uint8 {
			var os OctetString
			if err := decodePrimitiveField(c, rule, &os, o); err != nil {
				return err
			}
			rv.SetBytes(os)
			return nil
		}
		return decodeCollection(c, rule, rv, o)

	case reflect.Struct:
		return decodeStructValue(c, rule, rv, o)
	}

	return failAt(KindUnsupported, c.Position(),
		fmt.Errorf("cannot decode into %s", rv.Type().String()))
}

/*
framePrimitive appends the complete encoding of w, honoring any tag
override: IMPLICIT replaces the identifier, EXPLICIT adds a
constructed wrapper around the inner TLV.
*/
func framePrimitive(dst []byte, rule EncodingRule, w contentWriter, o fieldOptions) ([]byte, error) {
	content, err := w.appendContent(nil, rule)
	if err != nil {
		return dst, err
	}

	if o.tag < 0 {
		return appendTLV(dst, w.Tag(), false, content), nil
	}
	id := o.overrideTag()
	if o.explicit {
		inner := appendTLV(nil, w.Tag(), false, content)
		return appendTLV(dst, id, true, inner), nil
	}
	return appendTLV(dst, id, false, content), nil
}

// frameConstructed mirrors framePrimitive for constructed encodings.
func frameConstructed(dst []byte, base TagID, content []byte, o fieldOptions) []byte {
	if o.tag < 0 {
		return appendTLV(dst, base, true, content)
	}
	id := o.overrideTag()
	if o.explicit {
		inner := appendTLV(nil, base, true, content)
		return appendTLV(dst, id, true, inner)
	}
	return appendTLV(dst, id, true, content)
}

/*
decodePrimitiveField reads one primitive TLV into rd, honoring any
tag override. On the EXPLICIT path the wrapper content must hold
exactly the inner encoding.
*/
func decodePrimitiveField(c *Cursor, rule EncodingRule, rd contentReader, o fieldOptions) error {
	if o.tag < 0 {
		return decodeValue(c, rule, rd.Tag(), rd)
	}

	id := o.overrideTag()
	if !o.explicit {
		// IMPLICIT: the replacement identifier frames the inner
		// type's own content parser.
		return decodeValue(c, rule, id, rd)
	}

	h, err := parseHeader(c, rule)
	if err != nil {
		return err
	}
	if h.Tag != id {
		return errTagMismatch(h.at, id, h.Tag)
	}
	if !h.Constructed {
		return failAt(KindInvalidEncoding, h.at,
			fmt.Errorf("EXPLICIT wrapper must be constructed"))
	}

	inner, err := h.content(c, rule)
	if err != nil {
		return err
	}
	if err = decodeValue(&inner, rule, rd.Tag(), rd); err != nil {
		return err
	}
	if !inner.Empty() {
		return failAt(KindUnexpectedTrailing, inner.Position(),
			fmt.Errorf("trailing content inside EXPLICIT wrapper"))
	}
	return nil
}

/*
decodeNativeInt decodes an INTEGER into a fixed-width native target,
range-checking the value against the target's width and signedness.
*/
func decodeNativeInt(c *Cursor, rule EncodingRule, rv reflect.Value, o fieldOptions) error {
	at := c.Position()

	var bi BigInt
	if o.format == "enum" {
		var e Enumerated
		if err := decodePrimitiveField(c, rule, &e, o); err != nil {
			return err
		}
		bi.Val = big.NewInt(int64(e))
	} else if err := decodePrimitiveField(c, rule, &bi, o); err != nil {
		return err
	}
	v := bi.Val

	switch rv.Kind() {
	case reflect.Int8:
		n, err := decodeNarrow[int8](v, at, math.MinInt8, math.MaxInt8)
		if err != nil {
			return err
		}
		rv.SetInt(int64(n))
	case reflect.Int16:
		n, err := decodeNarrow[int16](v, at, math.MinInt16, math.MaxInt16)
		if err != nil {
			return err
		}
		rv.SetInt(int64(n))
	case reflect.Int32:
		n, err := decodeNarrow[int32](v, at, math.MinInt32, math.MaxInt32)
		if err != nil {
			return err
		}
		rv.SetInt(int64(n))
	case reflect.Int, reflect.Int64:
		n, err := decodeNarrow[int64](v, at, math.MinInt64, math.MaxInt64)
		if err != nil {
			return err
		}
		rv.SetInt(n)
	case reflect.Uint8:
		n, err := decodeNarrowU[uint8](v, at, math.MaxUint8)
		if err != nil {
			return err
		}
		rv.SetUint(uint64(n))
	case reflect.Uint16:
		n, err := decodeNarrowU[uint16](v, at, math.MaxUint16)
		if err != nil {
			return err
		}
		rv.SetUint(uint64(n))
	case reflect.Uint32:
		n, err := decodeNarrowU[uint32](v, at, math.MaxUint32)
		if err != nil {
			return err
		}
		rv.SetUint(uint64(n))
	default: // Uint, Uint64
		n, err := decodeNarrowU[uint64](v, at, math.MaxUint64)
		if err != nil {
			return err
		}
		rv.SetUint(n)
	}
	return nil
}

// textWriter selects the string primitive for a format token.
func textWriter(s, format string) (contentWriter, error) {
	switch format {
	case "", "utf8":
		return UTF8String(s), nil
	case "ia5":
		return IA5String(s), nil
	case "printable":
		return PrintableString(s), nil
	case "numeric":
		return NumericString(s), nil
	case "visible":
		return VisibleString(s), nil
	case "bmp":
		return BMPString(s), nil
	}
	return nil, failValue(KindUnsupported,
		fmt.Errorf("format %q does not name a string type", format))
}

func decodeText(c *Cursor, rule EncodingRule, rv reflect.Value, o fieldOptions) error {
	var (
		rd  contentReader
		get func() string
	)

	switch o.format {
	case "", "utf8":
		v := new(UTF8String)
		rd, get = v, func() string { return string(*v) }
	case "ia5":
		v := new(IA5String)
		rd, get = v, func() string { return string(*v) }
	case "printable":
		v := new(PrintableString)
		rd, get = v, func() string { return string(*v) }
	case "numeric":
		v := new(NumericString)
		rd, get = v, func() string { return string(*v) }
	case "visible":
		v := new(VisibleString)
		rd, get = v, func() string { return string(*v) }
	case "bmp":
		v := new(BMPString)
		rd, get = v, func() string { return string(*v) }
	default:
		return failAt(KindUnsupported, c.Position(),
			fmt.Errorf("format %q does not name a string type", o.format))
	}

	if err := decodePrimitiveField(c, rule, rd, o); err != nil {
		return err
	}
	rv.SetString(get())
	return nil
}

/*
staticTag resolves the identifier a value of rt encodes under, given
its annotation. Polymorphic types (Choice, RawValue) have none.
*/
func staticTag(rt reflect.Type, o fieldOptions) (TagID, bool) {
	if o.tag >= 0 {
		return o.overrideTag(), true
	}

	switch rt {
	case bigIntType:
		return uni(tagInteger), true
	case rawValueType, choiceType:
		return TagID{}, false
	case timeType:
		if o.format == "utc" {
			return uni(tagUTCTime), true
		}
		return uni(tagGeneralizedTime), true
	}

	for rt.Kind() == reflect.Ptr {
		rt = rt.Elem()
	}

	if rt.Implements(valueType) {
		return reflect.New(rt).Elem().Interface().(Value).Tag(), true
	}

	switch rt.Kind() {
	case reflect.Bool:
		return uni(tagBoolean), true
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if o.format == "enum" {
			return uni(tagEnumerated), true
		}
		return uni(tagInteger), true
	case reflect.String:
		switch o.format {
		case "ia5":
			return uni(tagIA5String), true
		case "printable":
			return uni(tagPrintableString), true
		case "numeric":
			return uni(tagNumericString), true
		case "visible":
			return uni(tagVisibleString), true
		case "bmp":
			return uni(tagBMPString), true
		}
		return uni(tagUTF8String), true
	case reflect.Slice:
		if rt.Elem().Kind() == reflect.Uint8 {
			return uni(tagOctetString), true
		}
		if o.set {
			return uni(tagSet), true
		}
		return uni(tagSequence), true
	case reflect.Struct:
		if o.set {
			return uni(tagSet), true
		}
		return uni(tagSequence), true
	}

	return TagID{}, false
}
