package entrylog

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"math"
	"os"
	"strings"
)

// CSVHeader is the first line of every export.
const CSVHeader = "Date,Time,Category,Timer (s),Label"

// CSV yields the header followed by one line per entry, oldest first. Fields
// are joined verbatim: a label containing a comma produces an extra column.
// Each range over the sequence starts again from the header.
func (l *Log) CSV() iter.Seq[string] {
	return func(yield func(string) bool) {
		if !yield(CSVHeader) {
			return
		}
		for i := 0; i < len(l.entries); i++ {
			if !yield(csvLine(l.entries[i])) {
				return
			}
		}
	}
}

// WriteCSV writes every CSV line to w and returns the number of entry rows.
func (l *Log) WriteCSV(w io.Writer) (int, error) {
	rows := -1
	for line := range l.CSV() {
		if _, err := io.WriteString(w, line+"\n"); err != nil {
			return max(rows, 0), err
		}
		rows++
	}
	return rows, nil
}

func csvLine(e Entry) string {
	var date, clock string
	if !e.Date.IsZero() {
		date = e.Date.Format("2006-01-02")
		clock = e.Date.Format("15:04:05")
	}
	return strings.Join([]string{date, clock, e.Category, FormatDuration(e.Duration), e.Label}, ",")
}

// FormatDuration renders seconds as HH:MM:SS.t.
func FormatDuration(seconds float64) string {
	if seconds < 0 || math.IsNaN(seconds) {
		seconds = 0
	}
	tenths := int64(math.Floor(seconds*10 + 1e-6))
	hrs := tenths / 36000
	mins := (tenths / 600) % 60
	secs := (tenths / 10) % 60
	return fmt.Sprintf("%02d:%02d:%02d.%d", hrs, mins, secs, tenths%10)
}

// Export writes the CSV to path, replacing any existing file, and returns the
// number of entry rows written.
func (l *Log) Export(path string) (int, error) {
	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("create export file: %w", err)
	}

	w := bufio.NewWriter(file)
	rows, err := l.WriteCSV(w)
	if err == nil {
		err = w.Flush()
	}
	if closeErr := file.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return rows, fmt.Errorf("write export file: %w", err)
	}
	l.logger.Info("exported time entries", "path", path, "rows", rows)
	return rows, nil
}
