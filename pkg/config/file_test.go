package config

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLoadFileParsesFields(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, DefaultConfigFileYAML)
	content := `
dsn: "  mysql://cacti:pw@lsf-db:3306/cacti  "
lookback: 14d
rate: 2.5
`
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	if got := cfg.DSN; got != "mysql://cacti:pw@lsf-db:3306/cacti" {
		t.Fatalf("expected trimmed dsn, got %q", got)
	}
	if got := cfg.Lookback; got != "14d" {
		t.Fatalf("expected lookback=14d, got %q", got)
	}
	if cfg.Rate == nil || *cfg.Rate != 2.5 {
		t.Fatalf("expected rate=2.5, got %v", cfg.Rate)
	}
}

func TestLoadFileRejectsInvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), DefaultConfigFileYAML)
	if err := os.WriteFile(path, []byte("dsn: [unterminated\n"), 0o644); err != nil {
		t.Fatalf("failed to write config file: %v", err)
	}
	if _, err := LoadFile(path); err == nil {
		t.Fatal("expected parse error")
	}
}

func TestAutoLoadFilePrefersCWD(t *testing.T) {
	cwd := t.TempDir()
	home := t.TempDir()

	cwdFile := filepath.Join(cwd, DefaultConfigFileYAML)
	homeFile := filepath.Join(home, DefaultConfigFileYAML)

	if err := os.WriteFile(cwdFile, []byte("dsn: mysql://cwd:pw@db:3306/cacti\n"), 0o644); err != nil {
		t.Fatalf("failed to write cwd config file: %v", err)
	}
	if err := os.WriteFile(homeFile, []byte("dsn: mysql://home:pw@db:3306/cacti\n"), 0o644); err != nil {
		t.Fatalf("failed to write home config file: %v", err)
	}

	t.Setenv("HOME", home)
	chdir(t, cwd)

	cfg, path, err := AutoLoadFile()
	if err != nil {
		t.Fatalf("AutoLoadFile failed: %v", err)
	}
	if cfg == nil {
		t.Fatal("expected config file to be loaded")
	}
	if got := cfg.DSN; got != "mysql://cwd:pw@db:3306/cacti" {
		t.Fatalf("expected cwd config to win, got %q", got)
	}
	if path != DefaultConfigFileYAML {
		t.Fatalf("expected returned path to be %q, got %q", DefaultConfigFileYAML, path)
	}
}

func TestLoadFirstExistingFileNoMatch(t *testing.T) {
	cfg, path, err := LoadFirstExistingFile([]string{
		filepath.Join(t.TempDir(), "missing-1.yaml"),
		filepath.Join(t.TempDir(), "missing-2.yaml"),
	})
	if err != nil {
		t.Fatalf("expected no error when no files found, got %v", err)
	}
	if cfg != nil || path != "" {
		t.Fatalf("expected nil config and empty path, got cfg=%v path=%q", cfg, path)
	}
}

func TestLoadFirstExistingFileRejectsDirectory(t *testing.T) {
	dir := t.TempDir()
	if _, _, err := LoadFirstExistingFile([]string{dir}); err == nil {
		t.Fatal("expected error for directory path")
	}
}
