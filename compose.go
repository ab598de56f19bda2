package x690

/*
compose.go implements the constructed composer: SEQUENCE and SET over
annotated struct fields, SEQUENCE-OF and SET-OF over slices. The
decoder never consumes bytes before deciding whether an OPTIONAL or
DEFAULT field is present: a field parse that fails on the first
header backtracks the cursor and yields the default or absence.
*/

import (
	"bytes"
	"fmt"
	"reflect"
	"sort"
)

type structField struct {
	index int
	name  string
	opts  fieldOptions
}

func structFields(rt reflect.Type) ([]structField, error) {
	var out []structField
	for i := 0; i < rt.NumField(); i++ {
		sf := rt.Field(i)
		if sf.PkgPath != "" {
			continue // unexported
		}
		o, err := parseFieldOptions(sf.Tag)
		if err != nil {
			return nil, failValue(KindUnsupported,
				fmt.Errorf("field %s: %w", sf.Name, err))
		}
		out = append(out, structField{index: i, name: sf.Name, opts: o})
	}
	return out, nil
}

func encodeStructValue(dst []byte, rule EncodingRule, rv reflect.Value, o fieldOptions) ([]byte, error) {
	base := uni(tagSequence)
	if o.set {
		base = uni(tagSet)
	}

	content, err := encodeStructContent(rule, rv, o.set)
	if err != nil {
		return dst, err
	}
	return frameConstructed(dst, base, content, o), nil
}

func encodeStructContent(rule EncodingRule, rv reflect.Value, set bool) ([]byte, error) {
	fields, err := structFields(rv.Type())
	if err != nil {
		return nil, err
	}

	var parts [][]byte
	for _, f := range fields {
		fv := rv.Field(f.index)

		// A field equal to its DEFAULT is omitted; DER requires it,
		// BER permits it.
		if f.opts.hasDefault && fieldEqualsDefault(fv, f.opts) {
			continue
		}
		if f.opts.optional && fv.IsZero() {
			continue
		}

		enc, err := encodeReflect(nil, rule, fv, f.opts)
		if err != nil {
			return nil, fmt.Errorf("field %s: %w", f.name, err)
		}
		parts = append(parts, enc)
	}

	// DER SET components sort ascending by their encodings.
	if set && rule.canonical() {
		sort.Slice(parts, func(i, j int) bool {
			return bytes.Compare(parts[i], parts[j]) < 0
		})
	}

	var content []byte
	for _, p := range parts {
		content = append(content, p...)
	}
	return content, nil
}

func decodeStructValue(c *Cursor, rule EncodingRule, rv reflect.Value, o fieldOptions) error {
	base := uni(tagSequence)
	if o.set {
		base = uni(tagSet)
	}

	h, err := parseHeader(c, rule)
	if err != nil {
		return err
	}

	want := base
	if o.tag >= 0 {
		want = o.overrideTag()
	}
	if h.Tag != want {
		return errTagMismatch(h.at, want, h.Tag)
	}
	if !h.Constructed {
		return failAt(KindInvalidEncoding, h.at,
			fmt.Errorf("%s encoding must be constructed", want.String()))
	}

	body, err := h.content(c, rule)
	if err != nil {
		return err
	}

	if o.tag >= 0 && o.explicit {
		// The wrapper held the complete inner TLV; recurse without
		// the override.
		inner := o
		inner.tag, inner.explicit = -1, false
		if err = decodeStructValue(&body, rule, rv, inner); err != nil {
			return err
		}
		if !body.Empty() {
			return failAt(KindUnexpectedTrailing, body.Position(),
				fmt.Errorf("trailing content inside EXPLICIT wrapper"))
		}
		return nil
	}

	if o.set {
		return decodeSetContent(body, rule, rv)
	}
	return decodeSequenceContent(body, rule, rv)
}

func decodeSequenceContent(body Cursor, rule EncodingRule, rv reflect.Value) error {
	fields, err := structFields(rv.Type())
	if err != nil {
		return err
	}

	for _, f := range fields {
		fv := rv.Field(f.index)

		if body.Empty() {
			if f.opts.hasDefault {
				assignDefault(fv, f.opts)
				continue
			}
			if f.opts.optional {
				continue
			}
			return failAt(KindMissingRequiredField, body.Position(),
				fmt.Errorf("SEQUENCE content ended before required field %s", f.name))
		}

		save := body
		if err := decodeReflect(&body, rule, fv, f.opts); err != nil {
			if (f.opts.optional || f.opts.hasDefault) && fieldAbsent(err, save.Position()) {
				body = save
				if f.opts.hasDefault {
					assignDefault(fv, f.opts)
				} else {
					fv.Set(reflect.Zero(fv.Type()))
				}
				continue
			}
			return fmt.Errorf("field %s: %w", f.name, err)
		}
	}

	// Elements beyond the declared fields are valid trailing content
	// and are discarded.
	for !body.Empty() {
		if err := skipValue(&body, rule); err != nil {
			return err
		}
	}
	return nil
}

// fieldAbsent reports whether err means "a different element sits at
// this position" rather than a malformed one: the mismatch must be
// reported at start, the offset of the field's first header.
func fieldAbsent(err error, start int) bool {
	if pos, ok := PositionOf(err); !ok || pos != start {
		return false
	}
	if isAbsence(err) {
		return true
	}
	k, ok := KindOf(err)
	return ok && k == KindNoMatchingVariant
}

func decodeSetContent(body Cursor, rule EncodingRule, rv reflect.Value) error {
	fields, err := structFields(rv.Type())
	if err != nil {
		return err
	}

	expect := make([]TagID, len(fields))
	for i, f := range fields {
		tag, ok := staticTag(rv.Type().Field(f.index).Type, f.opts)
		if !ok {
			return failValue(KindUnsupported,
				fmt.Errorf("SET member %s has no static tag", f.name))
		}
		expect[i] = tag
	}

	seen := make([]bool, len(fields))
	var prev TagID
	first := true

	for !body.Empty() {
		h, err := peekHeader(body, rule)
		if err != nil {
			return err
		}

		if rule.canonical() && !first && !tagLess(prev, h.Tag) {
			return failAt(KindNonCanonicalOrder, h.at,
				fmt.Errorf("SET components not in ascending tag order"))
		}
		prev, first = h.Tag, false

		idx := -1
		for i, tag := range expect {
			if tag != h.Tag {
				continue
			}
			if seen[i] {
				return failAt(KindDuplicateField, h.at,
					fmt.Errorf("duplicate SET component %s", fields[i].name))
			}
			idx = i
			break
		}
		if idx < 0 {
			return failAt(KindUnexpectedTag, h.at,
				fmt.Errorf("%s matches no SET member", h.Tag.String()))
		}

		if err := decodeReflect(&body, rule, rv.Field(fields[idx].index), fields[idx].opts); err != nil {
			return fmt.Errorf("field %s: %w", fields[idx].name, err)
		}
		seen[idx] = true
	}

	for i, f := range fields {
		if seen[i] {
			continue
		}
		switch {
		case f.opts.hasDefault:
			assignDefault(rv.Field(f.index), f.opts)
		case f.opts.optional:
		default:
			return failAt(KindMissingRequiredField, body.Position(),
				fmt.Errorf("SET content lacks required field %s", f.name))
		}
	}
	return nil
}

// tagLess orders identifiers by class, then number.
func tagLess(a, b TagID) bool {
	if a.Class != b.Class {
		return a.Class < b.Class
	}
	return a.Number < b.Number
}

func encodeCollection(dst []byte, rule EncodingRule, rv reflect.Value, o fieldOptions) ([]byte, error) {
	base := uni(tagSequence)
	if o.set {
		base = uni(tagSet)
	}

	elemOpts := o.element()
	parts := make([][]byte, 0, rv.Len())
	for i := 0; i < rv.Len(); i++ {
		enc, err := encodeReflect(nil, rule, rv.Index(i), elemOpts)
		if err != nil {
			return dst, fmt.Errorf("element %d: %w", i, err)
		}
		parts = append(parts, enc)
	}

	// DER SET-OF elements sort ascending by their encodings.
	if o.set && rule.canonical() {
		sort.Slice(parts, func(i, j int) bool {
			return bytes.Compare(parts[i], parts[j]) < 0
		})
	}

	var content []byte
	for _, p := range parts {
		content = append(content, p...)
	}
	return frameConstructed(dst, base, content, o), nil
}

func decodeCollection(c *Cursor, rule EncodingRule, rv reflect.Value, o fieldOptions) error {
	base := uni(tagSequence)
	if o.set {
		base = uni(tagSet)
	}

	h, err := parseHeader(c, rule)
	if err != nil {
		return err
	}

	want := base
	if o.tag >= 0 {
		want = o.overrideTag()
	}
	if h.Tag != want {
		return errTagMismatch(h.at, want, h.Tag)
	}
	if !h.Constructed {
		return failAt(KindInvalidEncoding, h.at,
			fmt.Errorf("%s encoding must be constructed", want.String()))
	}

	body, err := h.content(c, rule)
	if err != nil {
		return err
	}

	if o.tag >= 0 && o.explicit {
		inner := o
		inner.tag, inner.explicit = -1, false
		if err = decodeCollection(&body, rule, rv, inner); err != nil {
			return err
		}
		if !body.Empty() {
			return failAt(KindUnexpectedTrailing, body.Position(),
				fmt.Errorf("trailing content inside EXPLICIT wrapper"))
		}
		return nil
	}

	elemOpts := o.element()
	out := reflect.MakeSlice(rv.Type(), 0, 4)
	var prevEnc []byte

	for !body.Empty() {
		start := body
		elem := reflect.New(rv.Type().Elem()).Elem()
		if err := decodeReflect(&body, rule, elem, elemOpts); err != nil {
			return err
		}

		// DER SET-OF elements must ascend lexicographically.
		if o.set && rule.canonical() {
			enc := start.Bytes()[:start.Remaining()-body.Remaining()]
			if prevEnc != nil && bytes.Compare(prevEnc, enc) > 0 {
				return failAt(KindNonCanonicalOrder, start.Position(),
					fmt.Errorf("SET OF elements not in ascending order"))
			}
			prevEnc = enc
		}

		out = reflect.Append(out, elem)
	}

	rv.Set(out)
	return nil
}

func fieldEqualsDefault(fv reflect.Value, o fieldOptions) bool {
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			return false
		}
		fv = fv.Elem()
	}
	if o.defIsBool {
		return fv.Kind() == reflect.Bool && fv.Bool() == o.defBool
	}
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return fv.Int() == o.defInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return o.defInt >= 0 && fv.Uint() == uint64(o.defInt)
	}
	return false
}

func assignDefault(fv reflect.Value, o fieldOptions) {
	for fv.Kind() == reflect.Ptr {
		if fv.IsNil() {
			fv.Set(reflect.New(fv.Type().Elem()))
		}
		fv = fv.Elem()
	}
	if o.defIsBool {
		if fv.Kind() == reflect.Bool {
			fv.SetBool(o.defBool)
		}
		return
	}
	switch fv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		fv.SetInt(o.defInt)
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if o.defInt >= 0 {
			fv.SetUint(uint64(o.defInt))
		}
	}
}
