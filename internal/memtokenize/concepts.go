package memtokenize

// conceptTable maps a canonical term to up to five related terms. It is
// hand-curated and deliberately small — see DESIGN.md Open Question 1 for
// why this ships as a Go map rather than a data file. Concept expansion is
// a recall-only aid (§4.1) and must never be the sole basis for a
// high-weight keyword match (§4.4.2 adversarial protection).
var conceptTable = map[string][]string{
	"wlxc":       {"windows", "container", "wsl", "linux", "runtime"},
	"auth":       {"authentication", "authorization", "login", "oauth", "jwt"},
	"oauth":      {"auth", "token", "login", "jwt"},
	"jwt":        {"token", "auth", "oauth", "session"},
	"docker":     {"container", "image", "compose", "containerd"},
	"k8s":        {"kubernetes", "deployment", "pod", "cluster"},
	"kubernetes": {"k8s", "deployment", "pod", "cluster"},
	"db":         {"database", "sql", "postgres", "storage"},
	"postgres":   {"database", "sql", "db"},
	"api":        {"endpoint", "rest", "http", "service"},
	"ci":         {"cd", "pipeline", "build", "github"},
	"cd":         {"ci", "pipeline", "deploy"},
	"ssl":        {"tls", "certificate", "https"},
	"tls":        {"ssl", "certificate", "https"},
}

// conceptExpand returns the related terms for a canonical term, or nil if
// it has no entry.
func conceptExpand(term string) []string {
	return conceptTable[term]
}
