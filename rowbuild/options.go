package rowbuild

import (
	"bytes"
	"fmt"

	"github.com/andaru/xmlrows/gate"
	"github.com/pkg/errors"
)

// AttributesField is the reserved row field holding attributes
const AttributesField = "attributes"

// AttributeScope selects which elements' attributes are collected
type AttributeScope int

const (
	// AttributesRow collects only the row element's attributes, keyed
	// by their raw names
	AttributesRow AttributeScope = iota
	// AttributesAll also collects attributes of every element below
	// the row, keyed by the element path joined with "_" and the
	// attribute name: <title binding="x"> yields "title_binding".
	AttributesAll
)

func (s AttributeScope) String() string {
	switch s {
	case AttributesRow:
		return "row"
	case AttributesAll:
		return "all"
	default:
		return fmt.Sprintf("AttributeScope(%d)", int(s))
	}
}

func (s AttributeScope) MarshalText() ([]byte, error) { return []byte(s.String()), nil }

func (s *AttributeScope) UnmarshalText(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "row", "":
		*s = AttributesRow
	case "all":
		*s = AttributesAll
	default:
		return errors.Errorf("unknown attribute scope %q (want row or all)", b)
	}
	return nil
}

// Collision is the policy for two flattened leaves with the same tag
// name within one row
type Collision int

const (
	// CollisionFirstWins keeps the first value and drops later ones
	CollisionFirstWins Collision = iota
	// CollisionLastWins overwrites the value with each later one
	CollisionLastWins
	// CollisionError fails the read with a duplicate-field error
	CollisionError
)

func (c Collision) String() string {
	switch c {
	case CollisionFirstWins:
		return "first"
	case CollisionLastWins:
		return "last"
	case CollisionError:
		return "error"
	default:
		return fmt.Sprintf("Collision(%d)", int(c))
	}
}

func (c Collision) MarshalText() ([]byte, error) { return []byte(c.String()), nil }

func (c *Collision) UnmarshalText(b []byte) error {
	switch string(bytes.TrimSpace(b)) {
	case "first", "":
		*c = CollisionFirstWins
	case "last":
		*c = CollisionLastWins
	case "error":
		*c = CollisionError
	default:
		return errors.Errorf("unknown collision policy %q (want first, last or error)", b)
	}
	return nil
}

// Options configure a Builder
type Options struct {
	// Projection limits which fields are materialized (nil: all)
	Projection *gate.Projection
	Attributes AttributeScope
	Collision  Collision
}
