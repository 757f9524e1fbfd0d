package memtokenize

// stopwords is the fixed English stopword set tokens are filtered against.
// Grounded on temporal_search.py's COMMON_WORDS plus the question-word and
// tokenize_query-specific additions from the same file, union'd with
// index-sessions.py's extract_topics stopword list so index-time and
// query-time tokenization agree (P4).
var stopwords = buildStopwords()

func buildStopwords() map[string]struct{} {
	words := []string{
		"the", "a", "an", "is", "are", "was", "were", "be", "been", "being",
		"have", "has", "had", "do", "does", "did", "will", "would", "could",
		"should", "may", "might", "must", "shall", "can", "need", "dare",
		"ought", "used", "to", "of", "in", "for", "on", "with", "at", "by",
		"from", "as", "into", "through", "during", "before", "after",
		"above", "below", "between", "under", "again", "further", "then",
		"once", "here", "there", "when", "where", "why", "how", "all", "each",
		"few", "more", "most", "other", "some", "such", "no", "nor", "not",
		"only", "own", "same", "so", "than", "too", "very", "just", "and",
		"but", "if", "or", "because", "until", "while", "although", "though",
		"this", "that", "these", "those", "what", "which", "who", "whom",
		"i", "me", "my", "myself", "we", "our", "ours", "ourselves", "you",
		"your", "yours", "yourself", "yourselves", "he", "him", "his",
		"himself", "she", "her", "hers", "herself", "it", "its", "itself",
		"they", "them", "their", "theirs", "themselves", "am", "about",
		"also", "any", "both", "down", "get", "got", "like", "make", "made",
		"now", "one", "out", "over", "see", "up", "use", "using", "want",
		"well", "work", "working", "worked", "yeah", "yes", "ok", "okay",
		"sure", "thanks", "thank", "please", "let", "know", "think", "going",
		"way", "things", "thing", "something", "anything", "everything",
		"nothing", "time", "really", "actually", "basically", "probably",
		"maybe", "right", "good", "great", "nice", "looks", "look",
		"looking", "still", "back", "first", "last", "next", "new", "old",
		"done", "try", "tried", "took", "come", "came", "go", "went", "say",
		"said", "tell", "told", "ask", "asked", "bad", "wrong", "even",
		"writing", "write", "wrote", "written", "read", "reading",
		"message", "messages", "file", "files", "code", "data", "system",
		"discuss", "discussed", "decide", "decided", "talk", "talked",
		// Common logging/metadata terms, not meaningful topics.
		"message_id", "heartbeat_ok", "no_reply", "session", "sessions",
		"timestamp", "content", "user", "assistant", "tool",
		"error", "warning", "info", "debug", "true", "false", "null",
		"pst", "utc", "gmt", "localhost", "http", "https",
	}
	set := make(map[string]struct{}, len(words))
	for _, w := range words {
		set[w] = struct{}{}
	}
	return set
}

// IsStopword reports whether a lowercased token is in the fixed stopword
// set.
func IsStopword(lowerToken string) bool {
	_, ok := stopwords[lowerToken]
	return ok
}
