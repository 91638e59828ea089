package equity

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// Iterations is the number of Monte Carlo trials behind a result, or Exact
// when every runout was enumerated.
type Iterations int64

// Exact marks a result computed by full enumeration.
const Exact Iterations = -1

// IsExact reports whether the result came from enumeration.
func (it Iterations) IsExact() bool {
	return it == Exact
}

func (it Iterations) String() string {
	if it.IsExact() {
		return "exact"
	}
	return strconv.FormatInt(int64(it), 10)
}

// MarshalJSON writes a trial count as a number and Exact as "exact".
func (it Iterations) MarshalJSON() ([]byte, error) {
	if it.IsExact() {
		return []byte(`"exact"`), nil
	}
	return []byte(strconv.FormatInt(int64(it), 10)), nil
}

// UnmarshalJSON accepts a number or the string "exact".
func (it *Iterations) UnmarshalJSON(data []byte) error {
	if bytes.Equal(data, []byte(`"exact"`)) {
		*it = Exact
		return nil
	}
	var n int64
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("iterations must be a number or \"exact\": %w", err)
	}
	*it = Iterations(n)
	return nil
}
