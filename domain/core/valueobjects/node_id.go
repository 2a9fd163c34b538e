package valueobjects

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
	"strings"
)

// NodeID is a value object identifying a chart node.
// The content API emits ids as JSON numbers, but some records carry them as strings.
type NodeID int64

// NewNodeIDFromString parses a NodeID from its decimal representation
func NewNodeIDFromString(id string) (NodeID, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return 0, errors.New("node ID cannot be empty")
	}
	v, err := strconv.ParseInt(id, 10, 64)
	if err != nil {
		return 0, errors.New("node ID must be an integer")
	}
	return NodeID(v), nil
}

// String returns the string representation of the NodeID
func (id NodeID) String() string {
	return strconv.FormatInt(int64(id), 10)
}

// Int64 returns the raw integer value
func (id NodeID) Int64() int64 {
	return int64(id)
}

// IsZero checks if the NodeID is the zero value
func (id NodeID) IsZero() bool {
	return id == 0
}

// MarshalJSON implements json.Marshaler
func (id NodeID) MarshalJSON() ([]byte, error) {
	return []byte(id.String()), nil
}

// UnmarshalJSON accepts numbers, numeric strings and null
func (id *NodeID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || string(data) == "null" {
		*id = 0
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return err
		}
		if s == "" {
			*id = 0
			return nil
		}
		parsed, err := NewNodeIDFromString(s)
		if err != nil {
			return err
		}
		*id = parsed
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return errors.New("NodeID must be a number or numeric string")
	}
	v, err := n.Int64()
	if err != nil {
		// whole floats such as 12.0 or 1e2 are accepted, 12.7 is not
		f, ferr := n.Float64()
		if ferr != nil || f != math.Trunc(f) || f < math.MinInt64 || f >= math.MaxInt64 {
			return errors.New("NodeID must be an integer")
		}
		v = int64(f)
	}
	*id = NodeID(v)
	return nil
}
