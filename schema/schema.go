package schema

import "errors"

// Schema is an ordered sequence of field descriptors. Order is display
// order. All mutations are value-semantic: they leave the receiver alone
// and return the full updated sequence, so the caller decides when (and
// whether) to persist.
type Schema []Field

var (
	ErrFieldNotFound = errors.New("schema: field not found")
	ErrLastOption    = errors.New("schema: choice fields need at least one option")
	ErrInvalidKind   = errors.New("schema: invalid field kind")
)

type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

func (s Schema) indexOf(id string) int {
	for i, f := range s {
		if f.ID == id {
			return i
		}
	}
	return -1
}

// Add appends a default field of the given kind and returns the new
// sequence along with the field. Callers should open the settings view
// right away for content kinds.
func (s Schema) Add(kind Kind) (Schema, Field, error) {
	if !kind.IsValid() {
		return s, Field{}, ErrInvalidKind
	}
	f := DefaultField(kind)
	out := make(Schema, len(s), len(s)+1)
	copy(out, s)
	return append(out, f), f, nil
}

// Update merges the patch into the field with the given id.
// A patch that would leave a choice field without options is rejected.
func (s Schema) Update(id string, p Patch) (Schema, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrFieldNotFound
	}
	if s[i].Kind.IsChoice() && p.Options != nil && len(*p.Options) == 0 {
		return s, ErrLastOption
	}

	out := make(Schema, len(s))
	copy(out, s)
	out[i] = p.apply(out[i])
	return out, nil
}

// Delete removes the field with the given id. User confirmation is the
// caller's concern.
func (s Schema) Delete(id string) (Schema, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrFieldNotFound
	}

	out := make(Schema, 0, len(s)-1)
	out = append(out, s[:i]...)
	out = append(out, s[i+1:]...)
	return out, nil
}

// Duplicate clones the field with the given id under a fresh id and a
// " (Copy)" label suffix, inserting the clone right after the source.
func (s Schema) Duplicate(id string) (Schema, Field, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, Field{}, ErrFieldNotFound
	}

	dup := s[i].clone()
	dup.ID = newFieldID()
	dup.Label = s[i].Label + " (Copy)"

	out := make(Schema, 0, len(s)+1)
	out = append(out, s[:i+1]...)
	out = append(out, dup)
	out = append(out, s[i+1:]...)
	return out, dup, nil
}

// Move swaps the field with its neighbor in the given direction.
// No-op at sequence boundaries.
func (s Schema) Move(id string, dir Direction) (Schema, error) {
	i := s.indexOf(id)
	if i < 0 {
		return s, ErrFieldNotFound
	}

	j := i + 1
	if dir == Up {
		j = i - 1
	}
	if j < 0 || j >= len(s) {
		return s, nil
	}

	out := make(Schema, len(s))
	copy(out, s)
	out[i], out[j] = out[j], out[i]
	return out, nil
}

// Clone deep-copies the schema, for snapshotting onto a registration.
func (s Schema) Clone() Schema {
	out := make(Schema, len(s))
	for i, f := range s {
		out[i] = f.clone()
	}
	return out
}
