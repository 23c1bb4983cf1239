package utils

import (
	"os"
	"path/filepath"
	"reflect"
	"runtime"
	"testing"
)

func TestSplitAndTrim(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"codigo=C1, email=a@b.c", []string{"codigo=C1", "email=a@b.c"}},
		{" , ,", []string{}},
		{"", []string{}},
		{"one", []string{"one"}},
	}
	for _, tt := range tests {
		if got := SplitAndTrim(tt.in, ","); !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitAndTrim(%q) = %#v, want %#v", tt.in, got, tt.want)
		}
	}
}

func TestJSONPointerToPath(t *testing.T) {
	tests := map[string]string{
		"":                    "",
		"#":                   "",
		"/0/tarefas/2/limite": "[0].tarefas[2].limite",
		"#/0/codigo":          "[0].codigo",
		"/0/a~1b/c~0d":        "[0].a/b.c~d",
	}
	for in, want := range tests {
		if got := JSONPointerToPath(in); got != want {
			t.Errorf("JSONPointerToPath(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestWindowsExecutableExtensions(t *testing.T) {
	tests := []struct {
		pathext string
		want    []string
	}{
		{"", []string{".com", ".exe", ".bat", ".cmd"}},
		{".COM;.EXE;.PS1", []string{".com", ".exe", ".ps1"}},
		{"COM; EXE ;BAT", []string{".com", ".exe", ".bat"}},
	}
	for _, tt := range tests {
		t.Setenv("PATHEXT", tt.pathext)
		got := WindowsExecutableExtensions()
		for _, ext := range tt.want {
			if !got[ext] {
				t.Errorf("PATHEXT=%q: missing %q in %v", tt.pathext, ext, got)
			}
		}
	}
}

func TestIsWindowsExecutable(t *testing.T) {
	t.Setenv("PATHEXT", ".COM;.EXE;.BAT;.CMD")
	tests := map[string]bool{
		`C:\hooks\notify.exe`: true,
		`C:\hooks\notify.BAT`: true,
		`C:\hooks\notify`:     false,
		`C:\hooks\notes.txt`:  false,
		"":                    false,
	}
	for path, want := range tests {
		if got := IsWindowsExecutable(path); got != want {
			t.Errorf("IsWindowsExecutable(%q) = %v, want %v", path, got, want)
		}
	}
}

func TestIsExecutable(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("permission bits are not used on windows")
	}
	dir := t.TempDir()
	script := filepath.Join(dir, "hook.sh")
	plain := filepath.Join(dir, "notes.txt")
	if err := os.WriteFile(script, []byte("#!/bin/sh\n"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(plain, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}

	for path, want := range map[string]bool{script: true, plain: false, dir: false} {
		info, err := os.Stat(path)
		if err != nil {
			t.Fatal(err)
		}
		if got := IsExecutable(path, info); got != want {
			t.Errorf("IsExecutable(%q) = %v, want %v", path, got, want)
		}
	}
	if IsExecutable(script, nil) {
		t.Error("IsExecutable with nil info should be false")
	}
}
