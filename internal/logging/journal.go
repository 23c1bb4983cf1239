package logging

import (
	"context"
	"crypto/rand"
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/oklog/ulid/v2"
)

// Entry is one line of the mutation journal.
type Entry struct {
	ID      string    `json:"id"`
	Run     string    `json:"run"`
	Time    time.Time `json:"time"`
	Op      string    `json:"op"`
	Code    string    `json:"code,omitempty"`
	Index   *int      `json:"index,omitempty"`
	Clients int       `json:"clients"`
	Tasks   int       `json:"tasks"`
	Overdue int       `json:"overdue"`
	Today   string    `json:"today,omitempty"`
}

// Journal appends mutation entries to a JSONL file per UTC day. Every
// process gets its own run id, so concurrent and successive runs share the
// day file.
type Journal struct {
	Dir     string
	RunID   string
	LogPath string

	mu      sync.Mutex
	file    *os.File
	entropy *ulid.MonotonicEntropy
	now     func() time.Time
}

// NewJournal creates the journal directory for dataDir under baseDir and
// opens today's file in it for appending.
func NewJournal(baseDir, dataDir string) (*Journal, error) {
	dir, err := FindJournalDir(baseDir, dataDir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create journal dir: %w", err)
	}

	now := time.Now().UTC()
	entropy := ulid.Monotonic(rand.Reader, 0)
	id := ulid.MustNew(ulid.Timestamp(now), entropy).String()
	path := filepath.Join(dir, now.Format("2006-01-02")+".jsonl")
	file, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("create journal file: %w", err)
	}

	return &Journal{
		Dir:     dir,
		RunID:   id,
		LogPath: path,
		file:    file,
		entropy: entropy,
		now:     func() time.Time { return time.Now().UTC() },
	}, nil
}

// Record stamps e with an id and time and appends it as one JSON line.
func (j *Journal) Record(e Entry) (Entry, error) {
	if j == nil {
		return e, nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return e, fmt.Errorf("journal is closed")
	}

	e.Time = j.now()
	e.Run = j.RunID
	e.ID = ulid.MustNew(ulid.Timestamp(e.Time), j.entropy).String()
	data, err := json.Marshal(e)
	if err != nil {
		return e, fmt.Errorf("marshal journal entry: %w", err)
	}
	data = append(data, '\n')
	if _, err := j.file.Write(data); err != nil {
		return e, fmt.Errorf("write journal entry: %w", err)
	}
	return e, nil
}

// Close closes the journal file.
func (j *Journal) Close() error {
	if j == nil {
		return nil
	}
	j.mu.Lock()
	defer j.mu.Unlock()
	if j.file == nil {
		return nil
	}
	err := j.file.Close()
	j.file = nil
	return err
}

// FindJournalDir returns the journal directory used for dataDir.
func FindJournalDir(baseDir, dataDir string) (string, error) {
	if baseDir == "" {
		return "", fmt.Errorf("journal base dir is empty")
	}
	resolved := dataDir
	if resolved == "" {
		resolved = "."
	}
	if abs, err := filepath.Abs(resolved); err == nil {
		resolved = abs
	}
	base := baseDir
	if !filepath.IsAbs(base) {
		if abs, err := filepath.Abs(base); err == nil {
			base = abs
		}
	}
	return filepath.Join(filepath.Clean(base), dataSlug(resolved)), nil
}

func dataSlug(dataDir string) string {
	return fmt.Sprintf("%s-%s", slugify(filepath.Base(dataDir)), hashPath(dataDir))
}

func slugify(input string) string {
	if strings.TrimSpace(input) == "" {
		return "data"
	}

	var b strings.Builder
	lastUnderscore := false
	for i := 0; i < len(input); i++ {
		c := input[i]
		valid := (c >= 'A' && c <= 'Z') ||
			(c >= 'a' && c <= 'z') ||
			(c >= '0' && c <= '9') ||
			c == '.' || c == '_' || c == '-'
		if !valid {
			if !lastUnderscore {
				b.WriteByte('_')
				lastUnderscore = true
			}
			continue
		}
		b.WriteByte(c)
		lastUnderscore = false
	}

	slug := strings.Trim(b.String(), "_.")
	if slug == "" {
		return "data"
	}
	return slug
}

func hashPath(input string) string {
	sum := sha1.Sum([]byte(input))
	return hex.EncodeToString(sum[:])[:8]
}

// FindLatestLog returns the most recently modified JSONL file in dir, or
// "" when there is none. Ties go to the later name.
func FindLatestLog(dir string) (string, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil
		}
		return "", fmt.Errorf("read journal dir: %w", err)
	}

	var latest string
	var latestTime time.Time
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".jsonl") {
			continue
		}
		info, err := entry.Info()
		if err != nil {
			continue
		}
		if latest == "" || !info.ModTime().Before(latestTime) {
			latestTime = info.ModTime()
			latest = filepath.Join(dir, entry.Name())
		}
	}
	return latest, nil
}

// ReadEntries parses every entry of a journal file.
func ReadEntries(path string) ([]Entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read journal: %w", err)
	}
	var entries []Entry
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		var e Entry
		if err := json.Unmarshal([]byte(line), &e); err != nil {
			return entries, fmt.Errorf("journal line %d: %w", i+1, err)
		}
		entries = append(entries, e)
	}
	return entries, nil
}

// TailLog writes the last n lines of path to w (all lines when n <= 0).
// With follow it keeps copying appended data until ctx is done.
func TailLog(ctx context.Context, w io.Writer, path string, n int, follow bool) error {
	file, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("open journal: %w", err)
	}
	defer file.Close()

	if n > 0 {
		if err := tailSeek(file, n); err != nil {
			return fmt.Errorf("seek to tail position: %w", err)
		}
	}
	if _, err := io.Copy(w, file); err != nil {
		return err
	}
	if !follow {
		return nil
	}

	ticker := time.NewTicker(200 * time.Millisecond)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if _, err := io.Copy(w, file); err != nil {
				return err
			}
		}
	}
}

// tailSeek positions file at the start of the n-th line from the end.
func tailSeek(file *os.File, n int) error {
	const chunk = 4096

	stat, err := file.Stat()
	if err != nil {
		return err
	}
	size := stat.Size()
	if size == 0 {
		return nil
	}

	// A trailing newline terminates the last line rather than starting a new one.
	newlines := 0
	pos := size
	buf := make([]byte, chunk)
	skipTrailing := true
	for pos > 0 {
		readSize := int64(chunk)
		if pos < readSize {
			readSize = pos
		}
		pos -= readSize
		if _, err := file.ReadAt(buf[:readSize], pos); err != nil && err != io.EOF {
			return err
		}
		for i := readSize - 1; i >= 0; i-- {
			if buf[i] != '\n' {
				skipTrailing = false
				continue
			}
			if skipTrailing {
				skipTrailing = false
				continue
			}
			newlines++
			if newlines == n {
				_, err := file.Seek(pos+i+1, io.SeekStart)
				return err
			}
		}
	}
	_, err = file.Seek(0, io.SeekStart)
	return err
}
