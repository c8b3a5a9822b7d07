package value

import "github.com/pkg/errors"

// dictRep is the ordered-mapping backing store for a Value's dict typed
// slot: insertion order of first occurrence is preserved, and a later
// duplicate key overwrites the earlier value in place (§4.2 "Dict
// format").
type dictRep struct {
	order []string
	index map[string]int
	keys  []*Value
	vals  []*Value
}

func newDictRep() *dictRep {
	return &dictRep{index: make(map[string]int)}
}

func (d *dictRep) set(k, v *Value) {
	ks := k.String()
	if pos, ok := d.index[ks]; ok {
		d.vals[pos] = v
		return
	}
	d.index[ks] = len(d.keys)
	d.order = append(d.order, ks)
	d.keys = append(d.keys, k)
	d.vals = append(d.vals, v)
}

func (d *dictRep) get(ks string) (*Value, bool) {
	pos, ok := d.index[ks]
	if !ok {
		return nil, false
	}
	return d.vals[pos], true
}

func (d *dictRep) unset(ks string) {
	pos, ok := d.index[ks]
	if !ok {
		return
	}
	d.keys = append(d.keys[:pos], d.keys[pos+1:]...)
	d.vals = append(d.vals[:pos], d.vals[pos+1:]...)
	d.order = append(d.order[:pos], d.order[pos+1:]...)
	delete(d.index, ks)
	for i := pos; i < len(d.order); i++ {
		d.index[d.order[i]] = i
	}
}

func (d *dictRep) flatten() []*Value {
	out := make([]*Value, 0, 2*len(d.keys))
	for i := range d.keys {
		out = append(out, d.keys[i], d.vals[i])
	}
	return out
}

func (d *dictRep) clone() *dictRep {
	nd := newDictRep()
	for i := range d.keys {
		nd.set(d.keys[i], d.vals[i])
	}
	return nd
}

// Dict is a read/write handle onto a Value's dict typed representation,
// returned by Value.AsDict.
type Dict struct {
	d *dictRep
}

// Get looks up key by string rep, returning the associated value.
func (dict *Dict) Get(key *Value) (*Value, bool) {
	return dict.d.get(key.String())
}

// Set inserts or overwrites key's value, preserving the original
// insertion position on overwrite.
func (dict *Dict) Set(key, val *Value) {
	dict.d.set(key, val)
}

// Unset removes key if present; absent keys are a no-op.
func (dict *Dict) Unset(key *Value) {
	dict.d.unset(key.String())
}

// Keys returns the dict's keys in insertion order.
func (dict *Dict) Keys() []*Value {
	out := make([]*Value, len(dict.d.keys))
	copy(out, dict.d.keys)
	return out
}

// Len reports the number of key/value pairs.
func (dict *Dict) Len() int { return len(dict.d.keys) }

// Value renders the dict back into a *Value with a dict typed slot.
func (dict *Dict) Value() *Value {
	return &Value{kind: KindDict, dict: dict.d.clone()}
}

// ParseDict parses s as list-format alternating key/value pairs (§4.2
// "Dict format"). The element count must be even.
func ParseDict(s string) (*Dict, error) {
	elems, err := ParseList(s)
	if err != nil {
		return nil, err
	}
	if len(elems)%2 != 0 {
		return nil, errors.New("missing value to go with key")
	}
	d := newDictRep()
	for i := 0; i < len(elems); i += 2 {
		d.set(elems[i], elems[i+1])
	}
	return &Dict{d: d}, nil
}
