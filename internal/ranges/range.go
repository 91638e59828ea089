package ranges

import (
	"encoding/json"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"
)

// Range is a weight table over the 169 hand classes. A zero weight excludes
// the class; every combo of an included class is drawn in proportion to the
// class weight.
type Range struct {
	weights [NumClasses]float64
}

// Full returns the unconstrained range with every class at weight 1.
func Full() Range {
	var r Range
	for i := range r.weights {
		r.weights[i] = 1
	}
	return r
}

// Include adds the class at weight 1.
func (r *Range) Include(c HandClass) {
	r.weights[c] = 1
}

// Exclude removes the class.
func (r *Range) Exclude(c HandClass) {
	r.weights[c] = 0
}

// SetWeight sets the class weight. Weights must be finite and non-negative.
func (r *Range) SetWeight(c HandClass, w float64) error {
	if !c.Valid() {
		return fmt.Errorf("invalid hand class %d", uint8(c))
	}
	if !validWeight(w) {
		return fmt.Errorf("invalid weight %v for %s", w, c)
	}
	r.weights[c] = w
	return nil
}

func validWeight(w float64) bool {
	return w >= 0 && !math.IsInf(w, 0)
}

// Weight returns the class weight.
func (r Range) Weight(c HandClass) float64 {
	return r.weights[c]
}

// Contains reports whether the class has a positive weight.
func (r Range) Contains(c HandClass) bool {
	return r.weights[c] > 0
}

// Size counts included classes.
func (r Range) Size() int {
	n := 0
	for _, w := range r.weights {
		if w > 0 {
			n++
		}
	}
	return n
}

// IsEmpty reports whether no class is included.
func (r Range) IsEmpty() bool {
	return r.Size() == 0
}

// ComboCount counts the unblocked combos of all included classes.
func (r Range) ComboCount() int {
	n := 0
	for _, c := range r.Classes() {
		n += c.ComboCount()
	}
	return n
}

// Classes lists included classes in grid order.
func (r Range) Classes() []HandClass {
	var classes []HandClass
	for i, w := range r.weights {
		if w > 0 {
			classes = append(classes, HandClass(i))
		}
	}
	return classes
}

// String renders included classes as a comma separated list, strongest first.
// Classes with a weight other than 1 carry a ":weight" suffix.
func (r Range) String() string {
	classes := r.Classes()
	sort.SliceStable(classes, func(i, j int) bool {
		return strengthIndex[classes[i]] < strengthIndex[classes[j]]
	})

	parts := make([]string, len(classes))
	for i, c := range classes {
		parts[i] = c.String()
		if w := r.weights[c]; w != 1 {
			parts[i] += ":" + strconv.FormatFloat(w, 'g', -1, 64)
		}
	}
	return strings.Join(parts, ", ")
}

// Selection converts the range into the class-to-bool map used by grid editors.
func (r Range) Selection() map[string]bool {
	sel := make(map[string]bool, r.Size())
	for _, c := range r.Classes() {
		sel[c.String()] = true
	}
	return sel
}

// FromSelection builds a range from a grid editor's class-to-bool map. False
// entries are ignored; unknown keys are a *ParseError.
func FromSelection(sel map[string]bool) (Range, error) {
	var r Range
	for key, included := range sel {
		c, err := ParseHandClass(key)
		if err != nil {
			return Range{}, err
		}
		if included {
			r.Include(c)
		}
	}
	return r, nil
}

// MarshalJSON encodes the range as its selection map, or as notation when a
// class carries a weight other than 1 so the weights survive.
func (r Range) MarshalJSON() ([]byte, error) {
	for _, w := range r.weights {
		if w != 0 && w != 1 {
			return json.Marshal(r.String())
		}
	}
	return json.Marshal(r.Selection())
}

// UnmarshalJSON accepts either a selection map or a notation string.
func (r *Range) UnmarshalJSON(data []byte) error {
	var notation string
	if err := json.Unmarshal(data, &notation); err == nil {
		parsed, err := ParseRange(notation)
		if err != nil {
			return err
		}
		*r = parsed
		return nil
	}

	var sel map[string]bool
	if err := json.Unmarshal(data, &sel); err != nil {
		return fmt.Errorf("range must be a notation string or a selection map: %w", err)
	}
	parsed, err := FromSelection(sel)
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
