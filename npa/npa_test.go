package npa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustTable(t *testing.T) *Table {
	t.Helper()
	tbl, err := LoadEmbedded()
	require.NoError(t, err)
	require.Greater(t, tbl.Len(), 300)
	return tbl
}

func TestNormalize(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"2125551234", "2125551234"},
		{"12125551234", "2125551234"},
		{"+1 (212) 555-1234", "2125551234"},
		{"212555123499", "2125551234"},
		{"555", "555"},
		{"", ""},
		{"abc", ""},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Normalize(tt.in), "Normalize(%q)", tt.in)
	}
}

func TestAreaCode(t *testing.T) {
	assert.Equal(t, "212", AreaCode("12125551234"))
	assert.Equal(t, "212", AreaCode("(212) 555-1234"))
	assert.Equal(t, "", AreaCode("12"))
	assert.Equal(t, "", AreaCode("n/a"))
}

func TestClassify(t *testing.T) {
	tbl := mustTable(t)

	tests := []struct {
		name   string
		source string
		dest   string
		want   Class
	}{
		{"different states", "2125551234", "2135551234", Interstate}, // NY vs CA
		{"same area code", "2125551234", "2125559999", Intrastate},
		{"same state different NPA", "2125551234", "7185551234", Intrastate}, // both NY
		{"toll free source", "8005551234", "2125551234", TollFree},
		{"toll free destination", "2125551234", "8885551234", TollFree},
		{"toll free beats unknown", "8445551234", "0005551234", TollFree},
		{"unknown source NPA", "0005551234", "2125551234", Unknown},
		{"unknown destination NPA", "2125551234", "9995551234", Unknown},
		{"source too short", "12", "2125551234", Unknown},
		{"non-numeric source", "anonymous", "2125551234", Unknown},
		{"identical numbers", "2125551234", "2125551234", Intrastate},
		{"country code stripped", "12125551234", "13105551234", Interstate},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tbl.Classify(tt.source, tt.dest))
		})
	}
}

func TestClassifyPure(t *testing.T) {
	tbl := mustTable(t)
	for i := 0; i < 3; i++ {
		assert.Equal(t, Interstate, tbl.Classify("2125551234", "2135551234"))
	}
}

func TestClassString(t *testing.T) {
	assert.Equal(t, "interstate", Interstate.String())
	assert.Equal(t, "intrastate", Intrastate.String())
	assert.Equal(t, "toll_free", TollFree.String())
	assert.Equal(t, "unknown", Unknown.String())
}
