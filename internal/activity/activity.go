package activity

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/darsamo/bites/internal/logging"
)

// Entry is one decoded line of the kiosk log.
type Entry struct {
	Time    time.Time
	Level   string
	Message string
	OrderID int
	Status  string
	// Raw holds the line as written when it could not be decoded.
	Raw string
}

// Read returns at most maxLines entries from the end of the log at path,
// oldest first. A missing file yields no entries.
func Read(path string, maxLines int) ([]Entry, error) {
	if maxLines <= 0 {
		return nil, nil
	}
	file, err := os.Open(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("open log: %w", err)
	}
	defer file.Close()

	ring := make([]string, maxLines)
	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	count := 0
	idx := 0
	for scanner.Scan() {
		if strings.TrimSpace(scanner.Text()) == "" {
			continue
		}
		ring[idx] = scanner.Text()
		idx = (idx + 1) % maxLines
		if count < maxLines {
			count++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read log: %w", err)
	}

	entries := make([]Entry, 0, count)
	start := 0
	if count == maxLines {
		start = idx
	}
	for i := 0; i < count; i++ {
		entries = append(entries, Parse(ring[(start+i)%maxLines]))
	}
	return entries, nil
}

// Parse decodes a single JSON log line. Lines that are not JSON come back
// with only Raw and Message set.
func Parse(line string) Entry {
	var raw map[string]any
	if err := json.Unmarshal([]byte(line), &raw); err != nil {
		return Entry{Raw: line, Message: line}
	}
	e := Entry{
		Level:   stringField(raw, logging.LevelKey),
		Message: stringField(raw, logging.MessageKey),
		Status:  stringField(raw, "status"),
	}
	if ts := stringField(raw, logging.TimeKey); ts != "" {
		if parsed, err := time.Parse(time.RFC3339, ts); err == nil {
			e.Time = parsed
		}
	}
	if id, ok := raw["order_id"].(float64); ok {
		e.OrderID = int(id)
	}
	return e
}

// Filter keeps entries at or above the given level. An empty level keeps
// everything.
func Filter(entries []Entry, minLevel string) []Entry {
	floor := levelRank(minLevel)
	if floor <= 0 {
		return entries
	}
	out := make([]Entry, 0, len(entries))
	for _, e := range entries {
		if levelRank(e.Level) >= floor || e.Raw != "" {
			out = append(out, e)
		}
	}
	return out
}

func levelRank(level string) int {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return 1
	case "info":
		return 2
	case "warn":
		return 3
	case "error", "dpanic", "panic", "fatal":
		return 4
	default:
		return 0
	}
}

func stringField(raw map[string]any, key string) string {
	if v, ok := raw[key].(string); ok {
		return v
	}
	return ""
}
