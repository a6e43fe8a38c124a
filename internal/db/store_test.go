package db

import (
	"context"
	"database/sql"
	"errors"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/reqtrace/internal/coverage"
	"github.com/chriserin/reqtrace/internal/extract"
	"github.com/chriserin/reqtrace/internal/parser"
)

func openStore(t *testing.T) *Store {
	t.Helper()
	sqlDB, err := Open(filepath.Join(t.TempDir(), "nested", "reqtrace.db"))
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })
	return NewStore(sqlDB)
}

func result(t *testing.T, path, content string) extract.Result {
	t.Helper()
	doc, err := parser.Parse(strings.Split(content, "\n"))
	require.NoError(t, err)
	return extract.Result{Path: path, Document: doc, Records: coverage.Aggregate(path, doc)}
}

const checkoutFeature = `Feature: Checkout
  Scenario: Pay by card
    Given a cart
    When the user pays
    Then the order is placed
    And Reference SD "REQ-01", "REQ-02"
    When the user opens the receipt
    Then the receipt lists the items
    And Reference SD REQ-02

  Rule: Refunds
    Scenario: Refund an order
      Given a placed order
      When the user asks for a refund
      Then the money is returned
      And Reference SD REQ-03
`

func TestStore_SaveAndReadBack(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "ext-1", []extract.Result{result(t, "features/checkout.feature", checkoutFeature)}))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 3)
	assert.Equal(t, "features/checkout.feature", records[0].File)
	assert.Equal(t, "Checkout", records[0].Feature)
	assert.Equal(t, "Pay by card", records[0].Scenario)
	assert.Equal(t, "#1", records[0].Part)
	assert.Equal(t, []string{"REQ-01", "REQ-02"}, records[0].RequirementIDs())
	assert.Equal(t, "#2", records[1].Part)
	assert.Equal(t, "Refunds", records[2].Rule)
	assert.Equal(t, []string{"REQ-03"}, records[2].RequirementIDs())
}

func TestStore_Requirements(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "ext-1", []extract.Result{result(t, "features/checkout.feature", checkoutFeature)}))

	reqs, err := s.Requirements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []RequirementCoverage{
		{ID: "REQ-01", Parts: 1, Files: 1},
		{ID: "REQ-02", Parts: 2, Files: 1},
		{ID: "REQ-03", Parts: 1, Files: 1},
	}, reqs)
}

func TestStore_SaveKeepsRepeatedRequirementIDs(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	repeated := `Feature: Checkout
  Scenario: Pay twice
    When the user pays
    Then the order is placed
    And Reference SD REQ-01 REQ-01
`
	require.NoError(t, s.Save(ctx, "ext-1", []extract.Result{result(t, "features/checkout.feature", repeated)}))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, []string{"REQ-01", "REQ-01"}, records[0].RequirementIDs())

	reqs, err := s.Requirements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []RequirementCoverage{{ID: "REQ-01", Parts: 1, Files: 1}}, reqs)
}

func TestStore_Parts(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "ext-1", []extract.Result{result(t, "features/checkout.feature", checkoutFeature)}))

	parts, err := s.Parts(ctx, "REQ-02")
	require.NoError(t, err)
	require.Len(t, parts, 2)
	assert.Equal(t, "#1", parts[0].Part)
	assert.Equal(t, "#2", parts[1].Part)
	assert.Equal(t, "When the user opens the receipt", parts[1].Action)

	parts, err = s.Parts(ctx, "UNKNOWN")
	require.NoError(t, err)
	assert.Empty(t, parts)
}

func TestStore_SaveReplacesFileRows(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	path := "features/checkout.feature"
	require.NoError(t, s.Save(ctx, "ext-1", []extract.Result{result(t, path, checkoutFeature)}))

	updated := `Feature: Checkout v2
  Scenario: Pay
    When the user pays
    Then the order is placed
    And Reference SD REQ-09
`
	require.NoError(t, s.Save(ctx, "ext-2", []extract.Result{result(t, path, updated)}))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "Checkout v2", records[0].Feature)

	reqs, err := s.Requirements(ctx)
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "REQ-09", reqs[0].ID)
}

func TestStore_SaveKeepsRowsOfFailedFiles(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	path := "features/checkout.feature"
	require.NoError(t, s.Save(ctx, "ext-1", []extract.Result{result(t, path, checkoutFeature)}))

	failed := extract.Result{Path: path, Err: parser.ErrInvalidContents}
	require.NoError(t, s.Save(ctx, "ext-2", []extract.Result{failed}))

	records, err := s.Records(ctx)
	require.NoError(t, err)
	assert.Len(t, records, 3)

	last, err := s.LastExtraction(ctx)
	require.NoError(t, err)
	assert.Equal(t, "ext-2", last.ID)
	assert.Equal(t, 0, last.FileCount)
	assert.False(t, last.StartedAt.IsZero())
}

func TestStore_LastExtraction_Empty(t *testing.T) {
	s := openStore(t)
	_, err := s.LastExtraction(context.Background())
	assert.True(t, errors.Is(err, sql.ErrNoRows))
}

func TestStore_SaveDuplicateExtractionID(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "ext-1", nil))
	assert.Error(t, s.Save(ctx, "ext-1", nil))
}

func TestStore_Prune(t *testing.T) {
	s := openStore(t)
	ctx := context.Background()
	require.NoError(t, s.Save(ctx, "ext-1", []extract.Result{
		result(t, "features/checkout.feature", checkoutFeature),
		result(t, "features/other.feature", "Feature: Other\n  Scenario: One\n    Then it works\n    And Reference SD REQ-77\n"),
	}))

	removed, err := s.Prune(ctx, []string{"features/other.feature"})
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	reqs, err := s.Requirements(ctx)
	require.NoError(t, err)
	assert.Equal(t, []RequirementCoverage{{ID: "REQ-77", Parts: 1, Files: 1}}, reqs)

	removed, err = s.Prune(ctx, []string{"features/other.feature"})
	require.NoError(t, err)
	assert.Equal(t, 0, removed)
}
