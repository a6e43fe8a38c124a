package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/chriserin/reqtrace/internal/config"
	"github.com/chriserin/reqtrace/internal/db"
)

func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	orig, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { os.Chdir(orig) })
	return dir
}

func runInit(t *testing.T) string {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, RunInit(&buf))
	return buf.String()
}

func TestInit_CreatesReqtraceDirectory(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	info, err := os.Stat(filepath.Join(dir, ".reqtrace"))
	require.NoError(t, err)
	assert.True(t, info.IsDir())
	assert.Contains(t, out, ".reqtrace/ created")
}

func TestInit_DirectoryAlreadyExists(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.Mkdir(filepath.Join(dir, ".reqtrace"), 0o755))

	out := runInit(t)
	assert.Contains(t, out, ".reqtrace/ already exists")
}

func TestInit_WritesDefaultConfig(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	cfg, err := config.NewLoader(dir, "").Load()
	require.NoError(t, err)
	assert.Equal(t, config.Default(), cfg)
	assert.Contains(t, out, ".reqtrace/config.yaml created")
}

func TestInit_KeepsExistingConfig(t *testing.T) {
	inTempDir(t)
	require.NoError(t, os.MkdirAll(".reqtrace", 0o755))
	custom := "database: .reqtrace/custom.db\n"
	require.NoError(t, os.WriteFile(".reqtrace/config.yaml", []byte(custom), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(".reqtrace/config.yaml")
	require.NoError(t, err)
	assert.Equal(t, custom, string(data))
	assert.Contains(t, out, ".reqtrace/config.yaml already exists")
	assert.Contains(t, out, ".reqtrace/custom.db created")
}

func TestInit_InitializesSQLiteDatabase(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	dbPath := filepath.Join(dir, ".reqtrace", "reqtrace.db")
	_, err := os.Stat(dbPath)
	require.NoError(t, err)

	sqlDB, err := db.Open(dbPath)
	require.NoError(t, err)
	defer sqlDB.Close()

	var mode string
	require.NoError(t, sqlDB.QueryRow("PRAGMA journal_mode").Scan(&mode))
	assert.Equal(t, "wal", mode)
	assert.Contains(t, out, ".reqtrace/reqtrace.db created")
}

func TestInit_DatabaseAlreadyExists(t *testing.T) {
	inTempDir(t)
	runInit(t)

	out := runInit(t)
	assert.Contains(t, out, ".reqtrace/reqtrace.db already exists")
}

func TestInit_AddsMigrationSystem(t *testing.T) {
	inTempDir(t)
	runInit(t)

	sqlDB, err := db.Open(".reqtrace/reqtrace.db")
	require.NoError(t, err)
	defer sqlDB.Close()

	var version int
	require.NoError(t, sqlDB.QueryRow("SELECT version FROM schema_version").Scan(&version))
	assert.Equal(t, len(db.All), version)
}

func TestInit_AddsToGitignore(t *testing.T) {
	dir := inTempDir(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte("node_modules"), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, "node_modules\n.reqtrace/reqtrace.db*\n", string(data))
	assert.Contains(t, out, ".reqtrace/reqtrace.db* added to .gitignore")
}

func TestInit_GitignoreAlreadyHasEntry(t *testing.T) {
	dir := inTempDir(t)
	original := "node_modules\n.reqtrace/reqtrace.db*\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".gitignore"), []byte(original), 0o644))

	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, original, string(data))
	assert.Contains(t, out, ".reqtrace/reqtrace.db* already in .gitignore")
}

func TestInit_NoGitignoreExists(t *testing.T) {
	dir := inTempDir(t)
	out := runInit(t)

	data, err := os.ReadFile(filepath.Join(dir, ".gitignore"))
	require.NoError(t, err)
	assert.Equal(t, ".reqtrace/reqtrace.db*\n", string(data))
	assert.Contains(t, out, ".gitignore created")
}
