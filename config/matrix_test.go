package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestDefaultMatrixShape(t *testing.T) {
	matrix := DefaultMatrix()
	if len(matrix) != 5 {
		t.Fatalf("default matrix has %d cells; want 5", len(matrix))
	}

	seen := make(map[string]bool)
	mobile := 0
	for _, d := range matrix {
		if d.Browser == "" {
			t.Fatalf("descriptor %+v has no browser", d)
		}
		key := d.Key()
		if seen[key] {
			t.Fatalf("duplicate descriptor key %q", key)
		}
		seen[key] = true
		if d.RealMobile {
			mobile++
			if d.Device == "" {
				t.Fatalf("real-mobile descriptor %+v has no device", d)
			}
		}
	}
	if mobile < 2 {
		t.Fatalf("expected at least 2 real-mobile cells, got %d", mobile)
	}
}

func TestLoadMatrix(t *testing.T) {
	dir := t.TempDir()

	write := func(name, content string) string {
		t.Helper()
		path := filepath.Join(dir, name)
		if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
			t.Fatalf("write fixture: %v", err)
		}
		return path
	}

	good := write("caps.json", `[
		{"browser": "Chrome", "browser_version": "latest", "os": "Windows", "os_version": "11"},
		{"browser": "Safari", "device": "iPhone 14 Pro", "os_version": "16", "real_mobile": true}
	]`)
	matrix, err := LoadMatrix(good)
	if err != nil {
		t.Fatalf("LoadMatrix failed: %v", err)
	}
	if len(matrix) != 2 {
		t.Fatalf("got %d descriptors; want 2", len(matrix))
	}
	if matrix[1].Device != "iPhone 14 Pro" || !matrix[1].RealMobile {
		t.Fatalf("mobile descriptor not parsed: %+v", matrix[1])
	}

	if _, err := LoadMatrix(filepath.Join(dir, "missing.json")); err == nil {
		t.Fatal("expected an error for a missing file")
	}
	if _, err := LoadMatrix(write("empty.json", `[]`)); err == nil {
		t.Fatal("expected an error for an empty matrix")
	}
	if _, err := LoadMatrix(write("nobrowser.json", `[{"os": "Windows"}]`)); err == nil {
		t.Fatal("expected an error for a descriptor without a browser")
	}
	if _, err := LoadMatrix(write("garbage.json", `{"browser":`)); err == nil {
		t.Fatal("expected an error for malformed JSON")
	}
}

func TestConfigMatrixResolution(t *testing.T) {
	var cfg Config
	matrix, err := cfg.Matrix()
	if err != nil {
		t.Fatalf("Matrix with no caps file failed: %v", err)
	}
	if len(matrix) != len(DefaultMatrix()) {
		t.Fatalf("expected the default matrix, got %d cells", len(matrix))
	}

	path := filepath.Join(t.TempDir(), "caps.json")
	if err := os.WriteFile(path, []byte(`[{"browser": "Edge", "os": "Windows", "os_version": "11"}]`), 0o644); err != nil {
		t.Fatalf("write fixture: %v", err)
	}
	cfg.CapsFile = path
	matrix, err = cfg.Matrix()
	if err != nil {
		t.Fatalf("Matrix with caps file failed: %v", err)
	}
	if len(matrix) != 1 || matrix[0].Browser != "Edge" {
		t.Fatalf("unexpected matrix from file: %+v", matrix)
	}
}
