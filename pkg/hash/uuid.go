package hash

import (
	"fmt"

	"github.com/google/uuid"
)

// Uuid4 is a random 128-bit identifier, used for document-type tags and
// purpose/role-set markers.
type Uuid4 struct{ id uuid.UUID }

// NewUuid4 generates a fresh random (v4) identifier.
func NewUuid4() Uuid4 {
	return Uuid4{id: uuid.New()}
}

// ParseUuid4 parses a hyphenated UUID string, validating that it is version 4.
func ParseUuid4(s string) (Uuid4, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Uuid4{}, fmt.Errorf("uuid4: %w", err)
	}
	if u.Version() != 4 {
		return Uuid4{}, fmt.Errorf("uuid4: %q is version %d, not 4", s, u.Version())
	}
	return Uuid4{id: u}, nil
}

func (u Uuid4) String() string   { return u.id.String() }
func (u Uuid4) Bytes() [16]byte  { return u.id }
func (u Uuid4) IsZero() bool     { return u.id == uuid.Nil }
func (u Uuid4) Equal(o Uuid4) bool { return u.id == o.id }

func (u Uuid4) MarshalCBOR() ([]byte, error) { return marshalUUIDTag(u.id) }
func (u *Uuid4) UnmarshalCBOR(data []byte) error {
	id, err := unmarshalUUIDTag(data)
	if err != nil {
		return err
	}
	u.id = id
	return nil
}

// Uuid7 is a time-ordered 128-bit identifier: lexicographic order on the
// encoded bytes equals temporal order. Used for document id/version, where
// spec §3 requires `ver >= id`.
type Uuid7 struct{ id uuid.UUID }

// NewUuid7 generates a fresh time-ordered (v7) identifier.
func NewUuid7() (Uuid7, error) {
	u, err := uuid.NewV7()
	if err != nil {
		return Uuid7{}, fmt.Errorf("uuid7: generate: %w", err)
	}
	return Uuid7{id: u}, nil
}

// ParseUuid7 parses a hyphenated UUID string, validating that it is version 7.
func ParseUuid7(s string) (Uuid7, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return Uuid7{}, fmt.Errorf("uuid7: %w", err)
	}
	if u.Version() != 7 {
		return Uuid7{}, fmt.Errorf("uuid7: %q is version %d, not 7", s, u.Version())
	}
	return Uuid7{id: u}, nil
}

func (u Uuid7) String() string  { return u.id.String() }
func (u Uuid7) Bytes() [16]byte { return u.id }
func (u Uuid7) IsZero() bool    { return u.id == uuid.Nil }
func (u Uuid7) Equal(o Uuid7) bool { return u.id == o.id }

// Less reports temporal ordering (lexicographic on the UUIDv7 bytes).
func (u Uuid7) Less(o Uuid7) bool {
	a, b := u.id, o.id
	for i := range a {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return false
}

// LessOrEqual reports u <= o, used to validate spec §3's `ver >= id` invariant.
func (u Uuid7) LessOrEqual(o Uuid7) bool {
	return u.Equal(o) || u.Less(o)
}

func (u Uuid7) MarshalCBOR() ([]byte, error) { return marshalUUIDTag(u.id) }
func (u *Uuid7) UnmarshalCBOR(data []byte) error {
	id, err := unmarshalUUIDTag(data)
	if err != nil {
		return err
	}
	u.id = id
	return nil
}

// TagUUID is the CBOR tag number (37) spec §4.2/§4.5 assigns to UUID values.
const TagUUID = 37

func marshalUUIDTag(id uuid.UUID) ([]byte, error) {
	return fxcborMarshalTag(TagUUID, id[:])
}

func unmarshalUUIDTag(data []byte) (uuid.UUID, error) {
	b, tagNum, err := fxcborUnmarshalTag(data)
	if err != nil {
		return uuid.UUID{}, err
	}
	if tagNum != TagUUID {
		return uuid.UUID{}, fmt.Errorf("uuid: expected tag %d, got %d", TagUUID, tagNum)
	}
	var id uuid.UUID
	if len(b) != 16 {
		return uuid.UUID{}, fmt.Errorf("uuid: expected 16 bytes, got %d", len(b))
	}
	copy(id[:], b)
	return id, nil
}
