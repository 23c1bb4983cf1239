package logging

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func intPtr(i int) *int { return &i }

func TestNewJournal(t *testing.T) {
	t.Run("creates run file under data slug", func(t *testing.T) {
		base := t.TempDir()
		dataDir := filepath.Join(t.TempDir(), "My Data")

		j, err := NewJournal(base, dataDir)
		if err != nil {
			t.Fatalf("NewJournal failed: %v", err)
		}
		defer j.Close()

		if _, err := os.Stat(j.LogPath); err != nil {
			t.Errorf("journal file not created: %v", err)
		}
		if !strings.HasPrefix(filepath.Base(j.Dir), "My_Data-") {
			t.Errorf("Dir: got %q, want My_Data- prefix", filepath.Base(j.Dir))
		}
		want, _ := FindJournalDir(base, dataDir)
		if j.Dir != want {
			t.Errorf("Dir: got %q, want %q", j.Dir, want)
		}
	})

	t.Run("empty base dir returns error", func(t *testing.T) {
		if _, err := NewJournal("", t.TempDir()); err == nil {
			t.Fatal("expected error for empty base dir")
		}
	})
}

func TestJournalRecord(t *testing.T) {
	j, err := NewJournal(t.TempDir(), t.TempDir())
	if err != nil {
		t.Fatal(err)
	}

	first, err := j.Record(Entry{Op: "client.add", Code: "C1", Clients: 1})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	second, err := j.Record(Entry{Op: "task.append", Code: "C1", Index: intPtr(0), Clients: 1, Tasks: 1, Overdue: 1})
	if err != nil {
		t.Fatalf("Record failed: %v", err)
	}
	if first.ID == "" || first.ID >= second.ID {
		t.Errorf("ids not increasing: %q, %q", first.ID, second.ID)
	}
	if err := j.Close(); err != nil {
		t.Fatal(err)
	}

	entries, err := ReadEntries(j.LogPath)
	if err != nil {
		t.Fatalf("ReadEntries failed: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("entries: got %d, want 2", len(entries))
	}
	if entries[0].Index != nil {
		t.Errorf("client entry index: got %v, want nil", *entries[0].Index)
	}
	if entries[1].Op != "task.append" || entries[1].Index == nil || *entries[1].Index != 0 || entries[1].Overdue != 1 {
		t.Errorf("task entry: got %+v", entries[1])
	}

	if _, err := j.Record(Entry{Op: "client.remove"}); err == nil {
		t.Error("expected error recording to a closed journal")
	}
}

func TestNilJournal(t *testing.T) {
	var j *Journal
	if _, err := j.Record(Entry{Op: "client.add"}); err != nil {
		t.Errorf("nil Record: %v", err)
	}
	if err := j.Close(); err != nil {
		t.Errorf("nil Close: %v", err)
	}
}

func TestSlugify(t *testing.T) {
	tests := []struct {
		input string
		want  string
	}{
		{"data", "data"},
		{"My Data", "My_Data"},
		{"a//b??c", "a_b_c"},
		{"", "data"},
		{"   ", "data"},
		{".clientdesk", "clientdesk"},
		{"__", "data"},
	}
	for _, tt := range tests {
		if got := slugify(tt.input); got != tt.want {
			t.Errorf("slugify(%q): got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHashPath(t *testing.T) {
	a := hashPath("/tmp/a")
	if len(a) != 8 {
		t.Errorf("hash length: got %d, want 8", len(a))
	}
	if a != hashPath("/tmp/a") {
		t.Error("hash not stable")
	}
	if a == hashPath("/tmp/b") {
		t.Error("different paths hashed equal")
	}
}

func TestFindLatestLog(t *testing.T) {
	t.Run("missing dir", func(t *testing.T) {
		got, err := FindLatestLog(filepath.Join(t.TempDir(), "missing"))
		if err != nil || got != "" {
			t.Errorf("got %q, %v; want empty, nil", got, err)
		}
	})

	t.Run("picks newest jsonl", func(t *testing.T) {
		dir := t.TempDir()
		old := filepath.Join(dir, "old.jsonl")
		newer := filepath.Join(dir, "new.jsonl")
		other := filepath.Join(dir, "notes.txt")
		for _, p := range []string{old, newer, other} {
			if err := os.WriteFile(p, []byte("{}\n"), 0o644); err != nil {
				t.Fatal(err)
			}
		}
		past := time.Now().Add(-time.Hour)
		if err := os.Chtimes(old, past, past); err != nil {
			t.Fatal(err)
		}
		future := time.Now().Add(time.Hour)
		if err := os.Chtimes(other, future, future); err != nil {
			t.Fatal(err)
		}

		got, err := FindLatestLog(dir)
		if err != nil {
			t.Fatal(err)
		}
		if got != newer {
			t.Errorf("got %q, want %q", got, newer)
		}
	})
}

func TestTailLog(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	var content strings.Builder
	for i := 1; i <= 5; i++ {
		content.WriteString(strings.Repeat("x", i))
		content.WriteString("\n")
	}
	if err := os.WriteFile(path, []byte(content.String()), 0o644); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		n    int
		want string
	}{
		{0, content.String()},
		{2, "xxxx\nxxxxx\n"},
		{5, content.String()},
		{50, content.String()},
	}
	for _, tt := range tests {
		var buf bytes.Buffer
		if err := TailLog(context.Background(), &buf, path, tt.n, false); err != nil {
			t.Fatalf("TailLog(%d) failed: %v", tt.n, err)
		}
		if buf.String() != tt.want {
			t.Errorf("TailLog(%d): got %q, want %q", tt.n, buf.String(), tt.want)
		}
	}

	if err := TailLog(context.Background(), &bytes.Buffer{}, filepath.Join(t.TempDir(), "none"), 1, false); err == nil {
		t.Error("expected error for missing file")
	}
}

func TestTailLogFollowStopsOnCancel(t *testing.T) {
	path := filepath.Join(t.TempDir(), "run.jsonl")
	if err := os.WriteFile(path, []byte("a\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	var buf bytes.Buffer
	if err := TailLog(ctx, &buf, path, 0, true); err != nil {
		t.Fatalf("TailLog follow failed: %v", err)
	}
	if buf.String() != "a\n" {
		t.Errorf("got %q", buf.String())
	}
}

func TestJournalRunsShareDayFile(t *testing.T) {
	base, dataDir := t.TempDir(), t.TempDir()
	first, err := NewJournal(base, dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := first.Record(Entry{Op: "client.add", Code: "C1"}); err != nil {
		t.Fatal(err)
	}
	first.Close()

	second, err := NewJournal(base, dataDir)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := second.Record(Entry{Op: "client.remove", Code: "C1"}); err != nil {
		t.Fatal(err)
	}
	second.Close()

	if first.LogPath != second.LogPath {
		t.Skipf("runs crossed a UTC day boundary: %s, %s", first.LogPath, second.LogPath)
	}
	if first.RunID == second.RunID {
		t.Errorf("run ids should differ, both %q", first.RunID)
	}
	entries, err := ReadEntries(second.LogPath)
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 2 || entries[0].Run != first.RunID || entries[1].Run != second.RunID {
		t.Errorf("entries: got %+v", entries)
	}
}
