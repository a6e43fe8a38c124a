package breakdown

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestReferencedIDs_WhitespaceSeparated(t *testing.T) {
	ids, ok := ReferencedIDs("Reference SD SD-REQ-01 SD-REQ-02")
	assert.True(t, ok)
	assert.Equal(t, []string{"SD-REQ-01", "SD-REQ-02"}, ids)
}

func TestReferencedIDs_QuotedSingle(t *testing.T) {
	ids, ok := ReferencedIDs(`Reference SD "SD-REQ-03"`)
	assert.True(t, ok)
	assert.Equal(t, []string{"SD-REQ-03"}, ids)
}

func TestReferencedIDs_ColonAndQuotedList(t *testing.T) {
	ids, ok := ReferencedIDs(`Reference SD : "SD-REQ-04, SD-REQ-05"`)
	assert.True(t, ok)
	assert.Equal(t, []string{"SD-REQ-04", "SD-REQ-05"}, ids)

	ids, ok = ReferencedIDs(`Reference SD: "SD-REQ-06 SD-REQ-07"`)
	assert.True(t, ok)
	assert.Equal(t, []string{"SD-REQ-06", "SD-REQ-07"}, ids)
}

func TestReferencedIDs_MixedQuotingKeepsOrder(t *testing.T) {
	ids, ok := ReferencedIDs(`Reference SD "A", "B" C`)
	assert.True(t, ok)
	assert.Equal(t, []string{"A", "B", "C"}, ids)
}

func TestReferencedIDs_NoDeduplication(t *testing.T) {
	ids, ok := ReferencedIDs(`Reference SD A, A`)
	assert.True(t, ok)
	assert.Equal(t, []string{"A", "A"}, ids)
}

func TestReferencedIDs_CaseInsensitiveKeyword(t *testing.T) {
	ids, ok := ReferencedIDs("reference sd REQ-1")
	assert.True(t, ok)
	assert.Equal(t, []string{"REQ-1"}, ids)
}

func TestReferencedIDs_NotAReference(t *testing.T) {
	for _, text := range []string{
		"they see the dashboard",
		"Reference SD",
		"Reference SD:",
		`Reference SD ""`,
		"Reference SDX REQ-1",
		"the Reference SD REQ-1 is shown",
	} {
		_, ok := ReferencedIDs(text)
		assert.False(t, ok, text)
	}
}
