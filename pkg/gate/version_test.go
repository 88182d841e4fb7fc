package gate

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractVersion(t *testing.T) {
	tests := []struct {
		name    string
		content string
		want    string
	}{
		{name: "poetry manifest", content: "[tool.poetry]\nname = \"a\"\nversion = \"0.1.3-beta\"\n", want: "0.1.3-beta"},
		{name: "no spaces", content: "version=\"1.0\"", want: "1.0"},
		{name: "indented", content: "  version = \"1.0\"", want: "1.0"},
		{name: "crlf line endings", content: "name = \"a\"\r\nversion = \"1.0\"\r\n", want: "1.0"},
		{name: "empty content", content: "", want: ""},
		{name: "no version line", content: "name = \"a\"\n", want: ""},
		{name: "empty literal", content: "version = \"\"", want: ""},
		{name: "unquoted value", content: "version = 1.0\n", want: ""},
		{name: "single quotes are not literals", content: "version = '1.0'\n", want: ""},
		{name: "first match wins", content: "version = \"1.0\"\nversion = \"2.0\"\n", want: "1.0"},
		{name: "malformed first match is not skipped", content: "version = 1.0\nversion = \"2.0\"\n", want: ""},
		{name: "similarly named keys are ignored", content: "target_version = \"3.11\"\nversion_file = \"v.txt\"\nversions = \"x\"\nversion = \"0.2.0\"\n", want: "0.2.0"},
		{name: "dotted key is not a match", content: "tool.version = \"9\"\nversion = \"0.2.0\"\n", want: "0.2.0"},
		{name: "literal kept verbatim", content: "version = \" 1.0.0 \" # trailing\n", want: " 1.0.0 "},
		{name: "json style does not match", content: "{\"version\": \"1.0\"}", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ExtractVersion(tt.content))
		})
	}
}

func TestNewExtractor(t *testing.T) {
	x, err := NewExtractor("appVersion")
	require.NoError(t, err)

	assert.Equal(t, "3.4.5", x.Extract("version = \"1\"\nappVersion = \"3.4.5\"\n"))
	assert.Equal(t, "", x.Extract("version = \"1\"\n"))

	// Metacharacters in the key are matched literally.
	x, err = NewExtractor("app.version")
	require.NoError(t, err)
	assert.Equal(t, "2", x.Extract("appXversion = \"1\"\napp.version = \"2\"\n"))
}

func TestExtractor_ZeroValueUsesDefaultKey(t *testing.T) {
	var x Extractor
	assert.Equal(t, "1.0", x.Extract("version = \"1.0\""))
}
