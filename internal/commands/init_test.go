package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var binaryPath string

func TestMain(m *testing.M) {
	// Build the binary once for all tests.
	tmpDir, err := os.MkdirTemp("", "pantau-test-*")
	if err != nil {
		panic(err)
	}
	defer os.RemoveAll(tmpDir)

	binaryPath = filepath.Join(tmpDir, "pantau")
	cmd := exec.Command("go", "build", "-o", binaryPath, "../../cmd/pantau")
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		panic("failed to build binary: " + err.Error())
	}

	os.Exit(m.Run())
}

func runPantau(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := exec.Command(binaryPath, args...)
	out, err := cmd.CombinedOutput()
	return string(out), err
}

func requireGit(t *testing.T) {
	t.Helper()
	if _, err := exec.LookPath("git"); err != nil {
		t.Skip("git not available")
	}
}

func TestInit_CreatesStructure(t *testing.T) {
	dir := t.TempDir()
	out, err := runPantau(t, "init", dir, "--name", "Sari", "--no-git")
	require.NoError(t, err, out)

	for _, d := range []string{"logs", "import", filepath.Join("import", "processed")} {
		info, err := os.Stat(filepath.Join(dir, d))
		require.NoError(t, err, "directory %s should exist", d)
		assert.True(t, info.IsDir(), "%s should be a directory", d)
	}
	for _, f := range []string{"pantau.yaml", "pantau.db", ".gitignore", filepath.Join("import", ".gitkeep")} {
		_, err := os.Stat(filepath.Join(dir, f))
		require.NoError(t, err, "file %s should exist", f)
	}
	_, err = os.Stat(filepath.Join(dir, ".git"))
	assert.True(t, os.IsNotExist(err), "--no-git should skip git init")
}

func TestInit_Config(t *testing.T) {
	dir := t.TempDir()
	_, err := runPantau(t, "init", dir, "--name", "Sari Dewi", "--no-git")
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(dir, "pantau.yaml"))
	require.NoError(t, err)
	contents := string(data)

	assert.Contains(t, contents, "name: Sari Dewi")
	assert.Contains(t, contents, "db_path: pantau.db")
	assert.Contains(t, contents, "auto_commit: false")
}

func TestInit_GitRepo(t *testing.T) {
	requireGit(t)
	dir := t.TempDir()
	out, err := runPantau(t, "init", dir, "--name", "Sari")
	require.NoError(t, err, out)

	_, err = os.Stat(filepath.Join(dir, ".git"))
	require.NoError(t, err, ".git should exist")

	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = dir
	gitOut, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(gitOut), "init: Initialize Sari")

	authorLog := exec.Command("git", "log", "--format=%an <%ae>", "-1")
	authorLog.Dir = dir
	gitOut, err = authorLog.Output()
	require.NoError(t, err)
	assert.Contains(t, string(gitOut), "Pantau <pantau@localhost>")
}

func TestInit_RequiresName(t *testing.T) {
	_, err := runPantau(t, "init", t.TempDir())
	require.Error(t, err, "init without --name should fail")
}

func TestInit_RefusesExistingProject(t *testing.T) {
	dir := t.TempDir()
	_, err := runPantau(t, "init", dir, "--name", "Sari", "--no-git")
	require.NoError(t, err)

	out, err := runPantau(t, "init", dir, "--name", "Sari", "--no-git")
	require.Error(t, err)
	assert.Contains(t, out, "already exists")
}
