package feature

// Profile maps every feature of a schema to exactly one value, in schema
// order. Features absent from the caller's input resolve to missing.
type Profile struct {
	schema Schema
	values []Value
}

// NewProfile projects a name->value map onto the schema. Entries for
// undeclared features are ignored; declared features without an entry are
// stored as missing.
func NewProfile(schema Schema, values map[string]Value) Profile {
	projected := make([]Value, schema.Len())
	for i, f := range schema.fields {
		if v, ok := values[f.Name]; ok {
			projected[i] = v
		} else {
			projected[i] = NewMissingValue()
		}
	}
	return Profile{schema: schema, values: projected}
}

// EmptyProfile returns a profile with every feature missing.
func EmptyProfile(schema Schema) Profile {
	return NewProfile(schema, nil)
}

// Schema returns the profile's schema.
func (p Profile) Schema() Schema { return p.schema }

// Value returns the value stored for name, or a missing value for
// undeclared names.
func (p Profile) Value(name string) Value {
	i, ok := p.schema.index[name]
	if !ok {
		return NewMissingValue()
	}
	return p.values[i]
}

// ValueAt returns the value at schema position i.
func (p Profile) ValueAt(i int) Value { return p.values[i] }

// With returns a copy of the profile with one feature replaced. The
// receiver is never mutated, which keeps counterfactual swaps independent
// of each other.
func (p Profile) With(name string, v Value) Profile {
	i, ok := p.schema.index[name]
	if !ok {
		return p
	}
	values := make([]Value, len(p.values))
	copy(values, p.values)
	values[i] = v
	return Profile{schema: p.schema, values: values}
}

// Serialized returns the profile as a name->SerializedValue map in a form
// safe for JSON payloads and deterministic hashing.
func (p Profile) Serialized() map[string]interface{} {
	out := make(map[string]interface{}, p.schema.Len())
	for i, f := range p.schema.fields {
		out[f.Name] = Serialize(p.values[i])
	}
	return out
}
