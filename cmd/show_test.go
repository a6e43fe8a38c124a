package cmd

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/reqtrace/internal/parser"
	"github.com/chriserin/reqtrace/internal/source"
)

func runShow(t *testing.T, path string) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunShow(&buf, path))
	return buf.String()
}

func TestShow_PrintsParts(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "login.feature", loginFeature)

	out := runShow(t, "login.feature")

	assert.Contains(t, out, "Login / User logs in #1")
	assert.Contains(t, out, "Login / User logs in #2")
	assert.Contains(t, out, "Given a registered user")
	assert.Contains(t, out, "When they enter valid credentials")
	assert.Contains(t, out, "Then they see the dashboard")
	assert.Contains(t, out, "SD-REQ-02, SD-REQ-03")
	assert.NotContains(t, out, "Reference SD")
}

func TestShow_PartWithoutRequirements(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "logout.feature", "Feature: Logout\n  Scenario: Out\n    When they log out\n    Then they are out\n")

	out := runShow(t, "logout.feature")
	assert.Contains(t, out, "Requirements: none")
}

func TestShow_NoScenarios(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "empty.feature", "Feature: Empty\n")

	out := runShow(t, "empty.feature")
	assert.Contains(t, out, "no scenarios in empty.feature")
}

func TestShow_InvalidFile(t *testing.T) {
	inTempDir(t)
	writeFeature(t, "bad.feature", "Scenario: no feature\n")

	var buf bytes.Buffer
	err := RunShow(&buf, "bad.feature")
	assert.True(t, errors.Is(err, parser.ErrInvalidContents))
}

func TestShow_MissingFile(t *testing.T) {
	inTempDir(t)

	var buf bytes.Buffer
	err := RunShow(&buf, "missing.feature")
	assert.True(t, errors.Is(err, source.ErrRead))
}
