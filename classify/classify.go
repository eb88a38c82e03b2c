// Package classify decides what each XML element becomes, based only
// on its nesting depth. The document element has depth 1.
package classify

import (
	"fmt"

	"github.com/andaru/xmlrows/rowerr"
)

// Class is the role of an element in row assembly
type Class int

const (
	// Outside elements enclose the rows; their text is ignored
	Outside Class = iota
	// RowStart elements each begin a new row
	RowStart
	// Structural elements become fields of their parent: a map if
	// they have child elements, otherwise a scalar
	Structural
	// Flattened elements are below the flatten level. Leaf elements
	// become scalars directly under the row, named by their own tag.
	Flattened
)

func (c Class) String() string {
	switch c {
	case Outside:
		return "outside"
	case RowStart:
		return "row-start"
	case Structural:
		return "structural"
	case Flattened:
		return "flattened"
	default:
		return fmt.Sprintf("Class(%d)", int(c))
	}
}

// Classifier classifies elements by depth
type Classifier struct {
	dataLevel    int
	flattenLevel int
}

// New returns a Classifier for rows at depth dataLevel (>= 1).
//
// flattenLevel is the deepest level kept structural; elements deeper
// than it are flattened. Zero disables flattening. A non-zero
// flattenLevel must not be above dataLevel.
func New(dataLevel, flattenLevel int) (*Classifier, error) {
	switch {
	case dataLevel < 1:
		return nil, rowerr.Configuration(rowerr.WithMessage(
			fmt.Sprintf("data level must be >= 1, got %d", dataLevel)))
	case flattenLevel < 0:
		return nil, rowerr.Configuration(rowerr.WithMessage(
			fmt.Sprintf("flatten level must be >= 0, got %d", flattenLevel)))
	case flattenLevel > 0 && flattenLevel < dataLevel:
		return nil, rowerr.Configuration(rowerr.WithMessage(
			fmt.Sprintf("flatten level %d is above data level %d", flattenLevel, dataLevel)))
	}
	return &Classifier{dataLevel: dataLevel, flattenLevel: flattenLevel}, nil
}

func (c *Classifier) DataLevel() int    { return c.dataLevel }
func (c *Classifier) FlattenLevel() int { return c.flattenLevel }

// Classify returns the class of an element opened at depth
func (c *Classifier) Classify(depth int) Class {
	switch {
	case depth < c.dataLevel:
		return Outside
	case depth == c.dataLevel:
		return RowStart
	case c.flattenLevel > 0 && depth > c.flattenLevel:
		return Flattened
	default:
		return Structural
	}
}
