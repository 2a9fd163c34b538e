package valueobjects

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewNodeIDFromString(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NodeID
		wantErr bool
	}{
		{name: "plain", input: "42", want: 42},
		{name: "padded", input: " 7 ", want: 7},
		{name: "empty", input: "", wantErr: true},
		{name: "not a number", input: "abc", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NewNodeIDFromString(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNodeID_UnmarshalJSON(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    NodeID
		wantErr bool
	}{
		{name: "number", input: `12`, want: 12},
		{name: "numeric string", input: `"12"`, want: 12},
		{name: "float", input: `12.0`, want: 12},
		{name: "exponent", input: `1e2`, want: 100},
		{name: "fractional float", input: `12.7`, wantErr: true},
		{name: "out of range", input: `1e300`, wantErr: true},
		{name: "null", input: `null`, want: 0},
		{name: "empty string", input: `""`, want: 0},
		{name: "word", input: `"twelve"`, wantErr: true},
		{name: "object", input: `{}`, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var id NodeID
			err := json.Unmarshal([]byte(tt.input), &id)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, id)
		})
	}
}

func TestNodeID_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(struct {
		ID NodeID `json:"id"`
	}{ID: 99})

	require.NoError(t, err)
	assert.JSONEq(t, `{"id":99}`, string(data))
}
