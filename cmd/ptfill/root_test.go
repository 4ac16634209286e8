package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"pt-autofill/internal/models"
)

func runCLI(t *testing.T, args ...string) (string, error) {
	t.Helper()
	cmd := newRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeTemp(t *testing.T, name, body string) string {
	t.Helper()
	p := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(p, []byte(body), 0o644); err != nil {
		t.Fatal(err)
	}
	return p
}

func TestClassifyJSON(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.toml")
	mi := writeTemp(t, "movie.txt", "General\nFormat : Matroska\n\nVideo\nFormat : AVC\nHeight : 1 080 pixels\nScan type : Interlaced\n\nAudio\nFormat : AC-3\n")

	out, err := runCLI(t, "-c", cfg, "classify", "--mediainfo", mi, "--title", "Show.1080i.HDTV", "--json")
	if err != nil {
		t.Fatalf("classify: %v\n%s", err, out)
	}
	var got models.Classification
	if err := json.Unmarshal([]byte(out), &got); err != nil {
		t.Fatalf("decode %q: %v", out, err)
	}
	if got.Resolution != models.Res1080i || got.VideoCodec != models.VideoAVC || got.AudioCodec != models.AudioAC3 || got.TitleResolution != models.Res1080i {
		t.Fatalf("unexpected classification %#v", got)
	}
}

func TestClassifyTable(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.toml")
	out, err := runCLI(t, "-c", cfg, "classify", "--title", "Movie.2160p.WEB-DL")
	if err != nil {
		t.Fatalf("classify: %v", err)
	}
	if !strings.Contains(out, "title resolution") || !strings.Contains(out, "2160p") {
		t.Fatalf("unexpected table:\n%s", out)
	}

	if _, err := runCLI(t, "-c", cfg, "classify"); err == nil {
		t.Fatal("expected error without inputs")
	}
}

func TestConfigInitAndValidate(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ptfill.toml")
	if _, err := runCLI(t, "config", "init", "--path", path); err != nil {
		t.Fatalf("init: %v", err)
	}
	if _, err := runCLI(t, "config", "init", "--path", path); err == nil {
		t.Fatal("second init without --overwrite should fail")
	}
	out, err := runCLI(t, "-c", path, "config", "validate")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if !strings.Contains(out, "is valid") {
		t.Fatalf("unexpected validate output %q", out)
	}
}

func TestBatchWritesNDJSON(t *testing.T) {
	cfg := filepath.Join(t.TempDir(), "none.toml")
	in := writeTemp(t, "in.ndjson", "{\"title\":\"a.720p\",\"mediainfo\":\"Height : 720\\nFormat : HEVC\"}\n{\"title\":\"b\"}\n")
	dst := filepath.Join(t.TempDir(), "out.ndjson")

	if _, err := runCLI(t, "-c", cfg, "batch", "--input", in, "--output", dst, "--concurrency", "2"); err != nil {
		t.Fatalf("batch: %v", err)
	}
	b, err := os.ReadFile(dst)
	if err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(string(b)), "\n")
	if len(lines) != 2 {
		t.Fatalf("want 2 lines, got %q", b)
	}
	var first models.ClassifyResult
	if err := json.Unmarshal([]byte(lines[0]), &first); err != nil {
		t.Fatal(err)
	}
	if first.Class == nil || first.Class.Resolution != models.Res720p || first.Class.VideoCodec != models.VideoHEVC {
		t.Fatalf("unexpected first result %#v", first)
	}
	if !strings.Contains(lines[1], `"error"`) {
		t.Fatalf("second line should carry an error: %s", lines[1])
	}
}
