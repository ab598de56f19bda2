package x690

/*
cursor.go implements the borrowed byte view every parser operates on.
A Cursor never copies input bytes: sub-slicing yields a child cursor
whose position remains relative to the origin of the outermost input,
so error offsets stay meaningful at any nesting depth.
*/

/*
Cursor is a bounded, zero-copy view over encoded input. The zero
Cursor is empty. Cursors are values: copying one is cheap and never
duplicates the underlying bytes.
*/
type Cursor struct {
	data []byte
	pos  int // absolute offset of data[0] from the origin
}

// NewCursor returns a Cursor over data with origin offset zero.
func NewCursor(data []byte) Cursor { return Cursor{data: data} }

// Position returns the absolute offset of the next unread byte.
func (r Cursor) Position() int { return r.pos }

// Remaining returns the number of unread bytes.
func (r Cursor) Remaining() int { return len(r.data) }

// Empty reports whether the cursor has been exhausted.
func (r Cursor) Empty() bool { return len(r.data) == 0 }

// Bytes returns the unread bytes without consuming them.
func (r Cursor) Bytes() []byte { return r.data }

// take consumes and returns the next n bytes.
func (r *Cursor) take(n int) ([]byte, error) {
	if n < 0 || n > len(r.data) {
		return nil, errIncomplete(r.pos+len(r.data), n-len(r.data))
	}
	b := r.data[:n]
	r.data = r.data[n:]
	r.pos += n
	return b, nil
}

// takeByte consumes and returns the next byte.
func (r *Cursor) takeByte() (byte, error) {
	b, err := r.take(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// sub consumes the next n bytes and returns them as a child cursor
// whose position continues to count from the origin.
func (r *Cursor) sub(n int) (Cursor, error) {
	at := r.pos
	b, err := r.take(n)
	if err != nil {
		return Cursor{}, err
	}
	return Cursor{data: b, pos: at}, nil
}
