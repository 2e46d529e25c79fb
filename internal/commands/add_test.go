package commands_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jotbook-dev/jotbook/internal/config"
)

// initProject sets up a ready-to-use project directory without git, so
// add/list tests stay independent of the environment's git setup.
func initProject(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	out, err := runJotbook(t, "init", dir, "--author", "amy", "--no-git")
	require.NoError(t, err, "init failed: %s", out)
	return dir
}

func TestAdd_StoresRecord(t *testing.T) {
	dir := initProject(t)

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "晚餐 420元")
	require.NoError(t, err, "add failed: %s", out)
	assert.Contains(t, out, "added")

	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "晚餐")
	assert.Contains(t, out, "420")
	assert.Contains(t, out, "2025-03-16")
	assert.Contains(t, out, "food")
	assert.Contains(t, out, "1 record(s)")
}

func TestAdd_DryRun(t *testing.T) {
	dir := initProject(t)

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "--dry-run", "晚餐 420元")
	require.NoError(t, err, "add failed: %s", out)
	assert.Contains(t, out, "晚餐")

	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "no records")
}

func TestAdd_DateInText(t *testing.T) {
	dir := initProject(t)

	// The 3/14 in the text wins over the reference date.
	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "3/14 晚餐 420元")
	require.NoError(t, err, "add failed: %s", out)

	out, err = runJotbook(t, "list", "--dir", dir, "--date", "2025-03-14")
	require.NoError(t, err)
	assert.Contains(t, out, "1 record(s)")

	out, err = runJotbook(t, "list", "--dir", dir, "--date", "2025-03-16")
	require.NoError(t, err)
	assert.Contains(t, out, "no records")
}

func TestAdd_ClockInText(t *testing.T) {
	dir := initProject(t)

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "晚餐 19:30 420元")
	require.NoError(t, err, "add failed: %s", out)

	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "2025-03-16 19:30")
	assert.Contains(t, out, "420")
}

func TestAdd_FromFile(t *testing.T) {
	dir := initProject(t)

	paste := strings.Join([]string{
		"2025/03/16 19:42",
		"https://example.com/menu",
		"晚餐吃火鍋 420元",
		"已讀",
	}, "\n")
	src := filepath.Join(t.TempDir(), "paste.txt")
	require.NoError(t, os.WriteFile(src, []byte(paste), 0o644))

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "--file", src)
	require.NoError(t, err, "add failed: %s", out)

	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "火鍋")
	assert.Contains(t, out, "420")
	assert.Contains(t, out, "food")
}

func TestAdd_FromStdin(t *testing.T) {
	dir := initProject(t)

	cmd := exec.Command(binaryPath, "add", "--dir", dir, "--date", "2025-03-16")
	cmd.Stdin = strings.NewReader("晚餐 420元\n")
	out, err := cmd.CombinedOutput()
	require.NoError(t, err, "add failed: %s", out)
	assert.Contains(t, string(out), "added")

	listOut, err := runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, listOut, "晚餐")
}

func TestAdd_EmptyInput(t *testing.T) {
	dir := initProject(t)

	// No args, no file, empty stdin: nothing to extract, but not an error.
	out, err := runJotbook(t, "add", "--dir", dir)
	require.NoError(t, err, "add failed: %s", out)
	assert.Contains(t, out, "no record detected")
}

func TestAdd_SharedGroup(t *testing.T) {
	dir := initProject(t)

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16",
		"--group", "trip", "--size", "3", "晚餐 420元")
	require.NoError(t, err, "add failed: %s", out)

	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "[trip x3]")
}

func TestAdd_BadGroupName(t *testing.T) {
	dir := initProject(t)

	out, err := runJotbook(t, "add", "--dir", dir, "--group", "bad name", "晚餐 420元")
	require.Error(t, err, "group names with spaces should be rejected: %s", out)
}

func TestAdd_WithoutInit(t *testing.T) {
	dir := t.TempDir()
	out, err := runJotbook(t, "add", "--dir", dir, "晚餐 420元")
	require.Error(t, err)
	assert.Contains(t, out, "jotbook init")
}

// setAIEndpoint points the project's extraction service at a test server.
func setAIEndpoint(t *testing.T, dir, endpoint string) {
	t.Helper()
	cfgPath := filepath.Join(dir, config.Filename)
	cfg, err := config.Load(cfgPath)
	require.NoError(t, err)
	cfg.AI.Endpoint = endpoint
	require.NoError(t, config.Save(cfgPath, cfg))
}

// chatService answers every chat request with the given candidate document.
func chatService(t *testing.T, doc string) *httptest.Server {
	t.Helper()
	reply, err := json.Marshal(map[string]any{
		"choices": []map[string]any{
			{"message": map[string]any{"role": "assistant", "content": doc}},
		},
	})
	require.NoError(t, err)
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write(reply)
	}))
}

func TestAdd_AIReconciles(t *testing.T) {
	dir := initProject(t)

	// The service offers a better title but no amount; the local pipeline
	// keeps its own 420.
	srv := chatService(t, `{"title":"西門町晚餐","date":"2025-03-16","time":"","amount":null,"category":"food","isExpense":true,"recognizedText":"晚餐 420元"}`)
	defer srv.Close()
	setAIEndpoint(t, dir, srv.URL)

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "--ai", "晚餐 420元")
	require.NoError(t, err, "add failed: %s", out)

	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "西門町晚餐")
	assert.Contains(t, out, "420")
}

func TestAdd_AIServiceDownFallsBack(t *testing.T) {
	dir := initProject(t)

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "overloaded", http.StatusServiceUnavailable)
	}))
	defer srv.Close()
	setAIEndpoint(t, dir, srv.URL)

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "--ai", "晚餐 420元")
	require.NoError(t, err, "add failed: %s", out)
	assert.Contains(t, out, "added")
	assert.Contains(t, out, "extraction service failed")

	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "晚餐")
	assert.Contains(t, out, "420")
}

func TestAdd_FromImage(t *testing.T) {
	dir := initProject(t)

	srv := chatService(t, `{"title":"西門町晚餐","date":"2025-03-16","time":"19:30","amount":null,"category":"food","isExpense":true,"recognizedText":"3/16 19:30 西門町晚餐 420元"}`)
	defer srv.Close()
	setAIEndpoint(t, dir, srv.URL)

	img := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(img, []byte{0x89, 0x50, 0x4e, 0x47}, 0o644))

	out, err := runJotbook(t, "add", "--dir", dir, "--date", "2025-03-16", "--image", img)
	require.NoError(t, err, "add failed: %s", out)

	// The amount comes from the rule pipeline re-reading the recognized text.
	out, err = runJotbook(t, "list", "--dir", dir)
	require.NoError(t, err)
	assert.Contains(t, out, "西門町晚餐")
	assert.Contains(t, out, "420")
	assert.Contains(t, out, "2025-03-16 19:30")
}

func TestAdd_ImageRequiresService(t *testing.T) {
	dir := initProject(t)

	img := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o644))

	out, err := runJotbook(t, "add", "--dir", dir, "--image", img)
	require.Error(t, err)
	assert.Contains(t, out, "no extraction service configured")
}

func TestAdd_ImageRejectsTextInput(t *testing.T) {
	dir := initProject(t)

	img := filepath.Join(t.TempDir(), "receipt.png")
	require.NoError(t, os.WriteFile(img, []byte("png"), 0o644))

	out, err := runJotbook(t, "add", "--dir", dir, "--image", img, "晚餐 420元")
	require.Error(t, err)
	assert.Contains(t, out, "cannot be combined")
}
