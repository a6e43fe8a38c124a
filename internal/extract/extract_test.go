package extract

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/reqtrace/internal/parser"
	"github.com/chriserin/reqtrace/internal/source"
)

const loginFeature = `Feature: Login
  Background:
    Given a registered user

  Scenario: User logs in
    When they log in
    Then they see the dashboard
    And Reference SD "SD-REQ-01"
`

func newExtractor(t *testing.T, files map[string]string) *Extractor {
	t.Helper()
	fs := afero.NewMemMapFs()
	for path, content := range files {
		require.NoError(t, afero.WriteFile(fs, path, []byte(content), 0o644))
	}
	return New(source.NewFS(fs), nil, 2)
}

func TestFile_ExtractsRecords(t *testing.T) {
	e := newExtractor(t, map[string]string{"features/login.feature": loginFeature})

	res, err := e.File("features/login.feature")
	require.NoError(t, err)
	require.NotNil(t, res.Document)
	assert.Equal(t, "Login", res.Document.Feature.Name)
	require.Len(t, res.Records, 1)
	assert.Equal(t, "Given a registered user\nWhen they log in", res.Records[0].Action)
	assert.Equal(t, []string{"SD-REQ-01"}, res.Records[0].RequirementIDs())
}

func TestFile_InvalidContentsNamesThePath(t *testing.T) {
	e := newExtractor(t, map[string]string{"features/bad.feature": "Scenario: no feature\n"})

	_, err := e.File("features/bad.feature")
	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrInvalidContents))
	assert.Contains(t, err.Error(), "features/bad.feature")
}

func TestFile_ReadError(t *testing.T) {
	e := newExtractor(t, nil)

	_, err := e.File("features/missing.feature")
	require.Error(t, err)
	assert.True(t, errors.Is(err, source.ErrRead))
	assert.False(t, errors.Is(err, parser.ErrInvalidContents))
}

func TestRun_KeepsOrderAndGoodResults(t *testing.T) {
	files := map[string]string{"features/bad.feature": "no feature here\n"}
	var paths []string
	for i := 0; i < 6; i++ {
		path := fmt.Sprintf("features/f%d.feature", i)
		files[path] = loginFeature
		paths = append(paths, path)
	}
	paths = append(paths[:3], append([]string{"features/bad.feature"}, paths[3:]...)...)
	e := newExtractor(t, files)

	var done atomic.Int32
	results, err := e.Run(context.Background(), paths, func(Result) { done.Add(1) })

	require.Error(t, err)
	assert.True(t, errors.Is(err, parser.ErrInvalidContents))
	assert.Equal(t, int32(len(paths)), done.Load())
	require.Len(t, results, len(paths))
	for i, r := range results {
		assert.Equal(t, paths[i], r.Path)
	}
	assert.Error(t, results[3].Err)
	assert.NoError(t, results[0].Err)
	assert.Len(t, Records(results), 6)
}

func TestRun_AllGood(t *testing.T) {
	e := newExtractor(t, map[string]string{
		"a.feature": loginFeature,
		"b.feature": loginFeature,
	})
	results, err := e.Run(context.Background(), []string{"a.feature", "b.feature"}, nil)
	require.NoError(t, err)
	assert.Len(t, Records(results), 2)
}

func TestRun_CancelledContext(t *testing.T) {
	e := newExtractor(t, map[string]string{"a.feature": loginFeature})
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	results, err := e.Run(ctx, []string{"a.feature"}, nil)
	require.Error(t, err)
	assert.True(t, errors.Is(err, context.Canceled))
	require.Len(t, results, 1)
	assert.Equal(t, "a.feature", results[0].Path)
	assert.Empty(t, Records(results))
}
