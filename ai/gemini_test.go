package ai

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFileDisplayName(t *testing.T) {
	cases := []struct {
		url  string
		want string
	}{
		{"https://example.com/files/report.pdf", "report.pdf"},
		{"https://example.com/img.png?size=large", "img.png"},
		{"https://example.com/", "uploaded-file"},
		{"https://example.com", "uploaded-file"},
		{"://bad", "uploaded-file"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, fileDisplayName(tc.url), "url %q", tc.url)
	}
}

func TestHistoryContentsMapsRoles(t *testing.T) {
	contents := historyContents([]Turn{
		{Role: "user", Content: "hi"},
		{Role: "assistant", Content: "hello"},
	})

	assert.Len(t, contents, 2)
	assert.Equal(t, "user", string(contents[0].Role))
	assert.Equal(t, "model", string(contents[1].Role))
	assert.Equal(t, "hi", contents[0].Parts[0].Text)
	assert.Equal(t, "hello", contents[1].Parts[0].Text)
}

func TestSplitFragmentsKeepsSpaces(t *testing.T) {
	fragments := splitFragments("a b c", 0)
	assert.Equal(t, []string{"a ", "b ", "c"}, fragments)
}
