package memory

// ConstTable deduplicates literals into the constant segments. Identical
// literals of the same type share one address.
type ConstTable struct {
	ints    []int32
	floats  []float64
	bools   []bool
	strings []string

	intAddr    map[int32]int32
	floatAddr  map[float64]int32
	boolAddr   map[bool]int32
	stringAddr map[string]int32
}

// NewConstTable returns an empty constant table.
func NewConstTable() *ConstTable {
	return &ConstTable{
		intAddr:    make(map[int32]int32),
		floatAddr:  make(map[float64]int32),
		boolAddr:   make(map[bool]int32),
		stringAddr: make(map[string]int32),
	}
}

// IntConst returns the address for an integer literal, allocating on first use.
func (c *ConstTable) IntConst(v int32) (int32, error) {
	if addr, ok := c.intAddr[v]; ok {
		return addr, nil
	}
	addr := ConstIntBase + int32(len(c.ints))
	if addr > ConstIntEnd {
		return 0, &SegmentOverflowError{Segment: ConstInt}
	}
	c.ints = append(c.ints, v)
	c.intAddr[v] = addr
	return addr, nil
}

// FloatConst returns the address for a float literal, allocating on first use.
func (c *ConstTable) FloatConst(v float64) (int32, error) {
	if addr, ok := c.floatAddr[v]; ok {
		return addr, nil
	}
	addr := ConstFloatBase + int32(len(c.floats))
	if addr > ConstFloatEnd {
		return 0, &SegmentOverflowError{Segment: ConstFloat}
	}
	c.floats = append(c.floats, v)
	c.floatAddr[v] = addr
	return addr, nil
}

// BoolConst returns the address for a boolean literal, allocating on first use.
func (c *ConstTable) BoolConst(v bool) (int32, error) {
	if addr, ok := c.boolAddr[v]; ok {
		return addr, nil
	}
	addr := ConstBoolBase + int32(len(c.bools))
	if addr > ConstBoolEnd {
		return 0, &SegmentOverflowError{Segment: ConstBool}
	}
	c.bools = append(c.bools, v)
	c.boolAddr[v] = addr
	return addr, nil
}

// StringConst returns the address for a string literal, allocating on first
// use. Strings exist only to serve print.
func (c *ConstTable) StringConst(v string) (int32, error) {
	if addr, ok := c.stringAddr[v]; ok {
		return addr, nil
	}
	addr := ConstStringBase + int32(len(c.strings))
	if addr > ConstStringEnd {
		return 0, &SegmentOverflowError{Segment: ConstString}
	}
	c.strings = append(c.strings, v)
	c.stringAddr[v] = addr
	return addr, nil
}

// Ints returns the integer constants in allocation order.
func (c *ConstTable) Ints() []int32 { return c.ints }

// Floats returns the float constants in allocation order.
func (c *ConstTable) Floats() []float64 { return c.floats }

// Bools returns the boolean constants in allocation order.
func (c *ConstTable) Bools() []bool { return c.bools }

// Strings returns the string constants in allocation order.
func (c *ConstTable) Strings() []string { return c.strings }
