// Package memusage appends a tab-delimited usage log for every search and
// reports aggregate statistics from it, the same log format and fields
// log_usage/show_stats in the original retrieval skill produce.
package memusage

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/fyrsmithlabs/memsearch/pkg/secrets"
)

// AppendUsageLog appends one tab-delimited entry to path, creating parent
// directories as needed. The query is scrubbed for secrets (a pasted API
// key or token in a search query is a realistic leak vector for a
// plain-text log file) before it is written.
func AppendUsageLog(path, query string, resultsCount, sessionsSearched, exactMatches int, now time.Time) error {
	scrubbed, err := secrets.Redact(query)
	if err != nil {
		return fmt.Errorf("memusage: scrubbing query: %w", err)
	}

	queryJSON, err := json.Marshal(scrubbed)
	if err != nil {
		return fmt.Errorf("memusage: encoding query: %w", err)
	}

	line := fmt.Sprintf("%s\tquery=%s\tresults=%d\tsessions=%d\texact=%d\n",
		now.Format("2006-01-02T15:04:05"), queryJSON, resultsCount, sessionsSearched, exactMatches)

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("memusage: creating log directory: %w", err)
	}

	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("memusage: opening log: %w", err)
	}
	defer f.Close()

	if _, err := f.WriteString(line); err != nil {
		return fmt.Errorf("memusage: writing log entry: %w", err)
	}
	return nil
}

// RecentQuery is one entry in Stats.RecentQueries.
type RecentQuery struct {
	Time    string
	Results int
	Query   string
}

// Stats summarizes the usage log (show_stats).
type Stats struct {
	TotalSearches int
	SearchesToday int
	TotalResults  int
	TotalExact    int
	FirstUsed     string
	LastUsed      string
	RecentQueries []RecentQuery
}

// ReadStats reads path and computes aggregate usage statistics. A missing
// file returns a zero-value Stats, not an error.
func ReadStats(path string, now time.Time) (Stats, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Stats{}, nil
		}
		return Stats{}, fmt.Errorf("memusage: reading log: %w", err)
	}

	lines := splitNonEmptyLines(string(data))
	if len(lines) == 0 {
		return Stats{}, nil
	}

	today := now.Format("2006-01-02")
	var stats Stats
	stats.TotalSearches = len(lines)

	for _, line := range lines {
		fields := strings.Split(line, "\t")
		if len(fields) == 0 {
			continue
		}
		if strings.HasPrefix(fields[0], today) {
			stats.SearchesToday++
		}
		for _, field := range fields[1:] {
			if v, ok := intField(field, "results="); ok {
				stats.TotalResults += v
			} else if v, ok := intField(field, "exact="); ok {
				stats.TotalExact += v
			}
		}
	}

	stats.FirstUsed = fieldAt(lines[0], 0)
	stats.LastUsed = fieldAt(lines[len(lines)-1], 0)

	start := 0
	if len(lines) > 5 {
		start = len(lines) - 5
	}
	for _, line := range lines[start:] {
		if rq, ok := parseRecentQuery(line); ok {
			stats.RecentQueries = append(stats.RecentQueries, rq)
		}
	}

	return stats, nil
}

func splitNonEmptyLines(s string) []string {
	var out []string
	for _, line := range strings.Split(s, "\n") {
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

func fieldAt(line string, i int) string {
	fields := strings.Split(line, "\t")
	if i < len(fields) {
		return fields[i]
	}
	return ""
}

func intField(field, prefix string) (int, bool) {
	if !strings.HasPrefix(field, prefix) {
		return 0, false
	}
	v, err := strconv.Atoi(strings.TrimPrefix(field, prefix))
	if err != nil {
		return 0, false
	}
	return v, true
}

func parseRecentQuery(line string) (RecentQuery, bool) {
	fields := strings.Split(line, "\t")
	if len(fields) == 0 {
		return RecentQuery{}, false
	}

	var rq RecentQuery
	rq.Time = fields[0]

	for _, field := range fields[1:] {
		if strings.HasPrefix(field, "query=") {
			var q string
			if err := json.Unmarshal([]byte(strings.TrimPrefix(field, "query=")), &q); err != nil {
				return RecentQuery{}, false
			}
			rq.Query = q
		} else if v, ok := intField(field, "results="); ok {
			rq.Results = v
		}
	}
	return rq, true
}
