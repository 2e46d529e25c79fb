package commands_test

import (
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotbook-dev/jotbook/internal/config"
	"github.com/jotbook-dev/jotbook/internal/synclog"
)

// twoReplicas sets up two project directories sharing one group store:
// replica a owns share/, replica b points its share dir there, the way
// two machines would both mount the same synced folder.
func twoReplicas(t *testing.T, gitOnA bool) (a, b string) {
	t.Helper()
	root := t.TempDir()
	a = filepath.Join(root, "a")
	b = filepath.Join(root, "b")

	argsA := []string{"init", a, "--author", "amy"}
	if !gitOnA {
		argsA = append(argsA, "--no-git")
	}
	out, err := runJotbook(t, argsA...)
	require.NoError(t, err, "init a failed: %s", out)
	out, err = runJotbook(t, "init", b, "--author", "ben", "--no-git")
	require.NoError(t, err, "init b failed: %s", out)

	cfgPath := filepath.Join(b, config.Filename)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.Share.Dir = filepath.Join("..", "a", "share")
	require.NoError(t, config.Save(cfgPath, cfg))

	return a, b
}

func TestSync_PushThenPull(t *testing.T) {
	a, b := twoReplicas(t, false)

	_, err := runJotbook(t, "add", "--dir", a, "--date", "2025-03-16", "--group", "trip", "晚餐 420元")
	require.NoError(t, err)

	out, err := runJotbook(t, "sync", "trip", "--dir", a)
	require.NoError(t, err, "sync a failed: %s", out)
	assert.Contains(t, out, "merged 0, pushed 1, deleted 0")

	_, err = os.Stat(filepath.Join(a, "share", "groups.json"))
	require.NoError(t, err, "group store should exist after the push")

	out, err = runJotbook(t, "sync", "trip", "--dir", b)
	require.NoError(t, err, "sync b failed: %s", out)
	assert.Contains(t, out, "merged 1")

	listOut, err := runJotbook(t, "list", "--dir", b)
	require.NoError(t, err)
	assert.Contains(t, listOut, "晚餐")
	assert.Contains(t, listOut, "[trip x2]")
}

func TestSync_SecondPassIsNoOp(t *testing.T) {
	a, b := twoReplicas(t, false)

	_, err := runJotbook(t, "add", "--dir", a, "--group", "trip", "晚餐 420元")
	require.NoError(t, err)
	_, err = runJotbook(t, "sync", "trip", "--dir", a)
	require.NoError(t, err)
	_, err = runJotbook(t, "sync", "trip", "--dir", b)
	require.NoError(t, err)

	out, err := runJotbook(t, "sync", "trip", "--dir", a)
	require.NoError(t, err)
	assert.Contains(t, out, "merged 0, pushed 0, deleted 0")
}

func TestSync_DeletionPropagates(t *testing.T) {
	a, b := twoReplicas(t, false)

	_, err := runJotbook(t, "add", "--dir", a, "--group", "trip", "晚餐 420元")
	require.NoError(t, err)
	_, err = runJotbook(t, "sync", "trip", "--dir", a)
	require.NoError(t, err)
	_, err = runJotbook(t, "sync", "trip", "--dir", b)
	require.NoError(t, err)

	// b deletes its pulled copy, then spreads the deletion.
	listOut, err := runJotbook(t, "list", "--dir", b)
	require.NoError(t, err)
	recID := firstRecordID(t, listOut)
	out, err := runJotbook(t, "delete", recID, "--dir", b)
	require.NoError(t, err, "delete failed: %s", out)
	_, err = runJotbook(t, "sync", "trip", "--dir", b)
	require.NoError(t, err)

	out, err = runJotbook(t, "sync", "trip", "--dir", a)
	require.NoError(t, err, "sync a failed: %s", out)
	assert.Contains(t, out, "deleted 1")

	listOut, err = runJotbook(t, "list", "--dir", a)
	require.NoError(t, err)
	assert.Contains(t, listOut, "no records")
}

func TestSync_AutoCommitAndLog(t *testing.T) {
	a, _ := twoReplicas(t, true)

	_, err := runJotbook(t, "add", "--dir", a, "--group", "trip", "晚餐 420元")
	require.NoError(t, err)
	out, err := runJotbook(t, "sync", "trip", "--dir", a)
	require.NoError(t, err, "sync failed: %s", out)

	shareDir := filepath.Join(a, "share")
	log := exec.Command("git", "log", "--format=%s", "-1")
	log.Dir = shareDir
	logOut, err := log.Output()
	require.NoError(t, err)
	assert.Contains(t, string(logOut), "sync trip: merged 0, pushed 1, deleted 0")

	entries, err := synclog.Read(a)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, "trip", entries[0].Group)
	assert.Equal(t, 1, entries[0].Pushed)
	assert.NotEmpty(t, entries[0].CommitHash)

	// A no-op pass rewrites identical bytes: no new commit, but the
	// pass is still logged.
	_, err = runJotbook(t, "sync", "trip", "--dir", a)
	require.NoError(t, err)

	count := exec.Command("git", "rev-list", "--count", "HEAD")
	count.Dir = shareDir
	countOut, err := count.Output()
	require.NoError(t, err)
	assert.Equal(t, "2", strings.TrimSpace(string(countOut)), "init commit plus one sync commit")

	entries, err = synclog.Read(a)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Empty(t, entries[1].CommitHash, "skipped commit leaves no hash")
}

func TestSync_BadGroupName(t *testing.T) {
	dir := initProject(t)

	_, err := runJotbook(t, "sync", "bad name", "--dir", dir)
	require.Error(t, err)
}

func TestSync_WithoutInit(t *testing.T) {
	dir := t.TempDir()

	out, err := runJotbook(t, "sync", "trip", "--dir", dir)
	require.Error(t, err)
	assert.Contains(t, out, "jotbook init")
}
