package transform

// Cursor walks all l-bit Boolean vectors in binary counter order.
// A fresh cursor sits on the all-ones vector so that the first call to Next
// yields all-zeros: [0,0,0] -> [0,0,1] -> [0,1,0] ...
type Cursor struct {
	cur []uint8
}

// NewCursor returns a cursor over l-bit vectors. l may be zero, in which case
// the only vector is the empty one.
func NewCursor(l int) *Cursor {
	c := &Cursor{cur: make([]uint8, l)}
	for i := range c.cur {
		c.cur[i] = 1
	}
	return c
}

// Len returns the vector length.
func (c *Cursor) Len() int { return len(c.cur) }

// Next advances to the following vector (wrapping from all-ones to all-zeros)
// and returns it. The returned slice is owned by the cursor.
func (c *Cursor) Next() []uint8 {
	i := len(c.cur) - 1
	for i >= 0 && c.cur[i] == 1 {
		c.cur[i] = 0
		i--
	}
	if i >= 0 {
		c.cur[i] = 1
	}
	return c.cur
}

// Prev steps back to the preceding vector and returns it.
func (c *Cursor) Prev() []uint8 {
	i := len(c.cur) - 1
	for i >= 0 && c.cur[i] == 0 {
		c.cur[i] = 1
		i--
	}
	if i >= 0 {
		c.cur[i] = 0
	}
	return c.cur
}

// Current returns the current vector. The slice is owned by the cursor.
func (c *Cursor) Current() []uint8 { return c.cur }

// Value returns the integer encoding of the current vector.
func (c *Cursor) Value() int { return ToInt(c.cur) }

// SetValue positions the cursor on v, which must have length Len(). Used to resume
// an enumeration from a checkpoint.
func (c *Cursor) SetValue(v []uint8) error {
	if err := CheckBits("cursor", v, len(c.cur)); err != nil {
		return err
	}
	copy(c.cur, v)
	return nil
}

// AllOnes reports whether the cursor sits on the all-ones vector, the state of
// a fresh cursor and of a finished enumeration.
func (c *Cursor) AllOnes() bool {
	for _, b := range c.cur {
		if b == 0 {
			return false
		}
	}
	return true
}
