// Package secrets scrubs likely secrets out of free text before it is
// written anywhere persistent. memsearch's only use of it is redacting a
// search query before the query is appended to the plain-text usage log
// (§3 UsageLog): a pasted API key or token in a search query is a
// realistic leak vector for that file.
package secrets

import (
	"fmt"
	"sort"
	"strings"

	"github.com/zricethezav/gitleaks/v8/detect"
)

// previewLen bounds how much of a detected secret survives in its
// redaction marker — enough to tell a reader what kind of value was
// found, not enough to leak it.
const previewLen = 4

// Redact scans content for secrets using Gitleaks' default detector and
// replaces each match with a "[REDACTED:rule-id:preview]" marker. Content
// with no detected secrets is returned unchanged.
func Redact(content string) (string, error) {
	detector, err := detect.NewDetectorDefaultConfig()
	if err != nil {
		return "", fmt.Errorf("secrets: building detector: %w", err)
	}

	findings := detector.DetectString(content)
	if len(findings) == 0 {
		return content, nil
	}

	// Replace back-to-front so earlier markers don't shift the column
	// offsets of findings still to be replaced on the same line.
	sort.Slice(findings, func(i, j int) bool {
		if findings[i].StartLine != findings[j].StartLine {
			return findings[i].StartLine > findings[j].StartLine
		}
		return findings[i].StartColumn > findings[j].StartColumn
	})

	lines := strings.Split(content, "\n")
	for _, f := range findings {
		if f.StartLine < 1 || f.StartLine > len(lines) {
			continue
		}
		line := lines[f.StartLine-1]
		if f.StartColumn < 0 || f.EndColumn > len(line) || f.StartColumn > f.EndColumn {
			continue
		}
		lines[f.StartLine-1] = line[:f.StartColumn] + marker(f.RuleID, f.Secret) + line[f.EndColumn:]
	}
	return strings.Join(lines, "\n"), nil
}

func marker(ruleID, secret string) string {
	preview := secret
	if len(preview) > previewLen {
		preview = preview[:previewLen]
	}
	return fmt.Sprintf("[REDACTED:%s:%s]", ruleID, preview)
}
