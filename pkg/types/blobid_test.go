package types

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeBlobID(t *testing.T) {
	tests := []struct {
		name     string
		content  string
		expected string
	}{
		// Values match `git hash-object --stdin`.
		{name: "empty", content: "", expected: "e69de29bb2d1d6434b8b29ae775ad8c2e48c5391"},
		{name: "hello world", content: "hello world", expected: "95d09f2b10159347eece71399a7e2e907ea3df4f"},
		{name: "with newline", content: "test content\n", expected: "d670460b4b4aece5915caf5c68d12f560a9fe3e4"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id := ComputeBlobID([]byte(tt.content))
			assert.Equal(t, tt.expected, id.Hex())
			assert.Equal(t, tt.expected, id.String())
			assert.False(t, id.IsZero())
		})
	}
}

func TestBlobID_IsZero(t *testing.T) {
	assert.True(t, BlobID{}.IsZero())
}

func TestParseBlobID(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		wantErr bool
	}{
		{name: "lowercase", input: "123456789abcdef0123456789abcdef012345678"},
		{name: "uppercase", input: "ABCDEF0123456789ABCDEF0123456789ABCDEF01"},
		{name: "too short", input: "1234", wantErr: true},
		{name: "too long", input: strings.Repeat("a", 41), wantErr: true},
		{name: "not hex", input: "zzz456789abcdef0123456789abcdef012345678", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			id, err := ParseBlobID(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, strings.ToLower(tt.input), id.Hex())
		})
	}
}

func TestBlobID_JSON(t *testing.T) {
	id := ComputeBlobID([]byte("package main\n"))

	data, err := id.MarshalJSON()
	require.NoError(t, err)
	assert.Equal(t, `"`+id.Hex()+`"`, string(data))

	var back BlobID
	require.NoError(t, back.UnmarshalJSON(data))
	assert.Equal(t, id, back)

	assert.Error(t, back.UnmarshalJSON([]byte(`123`)))
	assert.Error(t, back.UnmarshalJSON([]byte(`"short"`)))
}

func TestBlobID_Scan(t *testing.T) {
	id := ComputeBlobID([]byte("x"))

	v, err := id.Value()
	require.NoError(t, err)
	assert.Equal(t, id.Hex(), v)

	tests := []struct {
		name    string
		value   any
		wantErr bool
	}{
		{name: "string", value: id.Hex()},
		{name: "bytes", value: []byte(id.Hex())},
		{name: "nil", value: nil, wantErr: true},
		{name: "int", value: 42, wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got BlobID
			err := got.Scan(tt.value)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, id, got)
		})
	}
}
