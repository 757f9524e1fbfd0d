package memindex

import (
	"sort"
	"time"

	"github.com/fyrsmithlabs/memsearch/internal/memerrors"
	"github.com/fyrsmithlabs/memsearch/internal/memtokenize"
	"github.com/fyrsmithlabs/memsearch/internal/memtranscript"
)

// Build creates a fresh index from every transcript under dir, in
// deterministic session-by-session, message-by-message order.
func Build(dir string) (*Index, error) {
	bySession, err := memtranscript.ParseDir(dir)
	if err != nil {
		return nil, err
	}

	sessionIDs := make([]string, 0, len(bySession))
	for sid := range bySession {
		sessionIDs = append(sessionIDs, sid)
	}
	sort.Strings(sessionIDs)

	idx := New()
	now := time.Now().Round(0).UTC()

	for _, sid := range sessionIDs {
		messages := bySession[sid]
		sort.Slice(messages, func(i, j int) bool { return messages[i].Index < messages[j].Index })
		for _, msg := range messages {
			addPosting(idx, sid, msg, now)
		}
	}

	idx.TotalTerms = len(idx.Terms)
	idx.LastUpdated = now
	return idx, nil
}

// addPosting tokenizes msg and appends one posting per unique token to the
// index, updating the owning session's metadata in place.
func addPosting(idx *Index, sessionID string, msg memtranscript.Message, now time.Time) {
	tokens := memtokenize.Tokenize(msg.Text())

	ts := msg.Timestamp.UTC()
	if msg.Timestamp.IsZero() {
		ts = now
	}

	for token := range tokens {
		idx.Terms[token] = append(idx.Terms[token], Posting{
			Session:   sessionID,
			MsgIdx:    msg.Index,
			Timestamp: ts,
		})
	}

	touchSession(idx, sessionID, msg.Index, len(tokens), now)
	idx.TotalMessages++
}

func touchSession(idx *Index, sessionID string, msgIdx, tokenCount int, now time.Time) {
	meta, ok := idx.Sessions[sessionID]
	if !ok {
		meta = SessionMeta{LastMsgIdx: -1}
	}
	if msgIdx > meta.LastMsgIdx {
		meta.LastMsgIdx = msgIdx
	}
	meta.MessageCount++
	meta.TermCount += tokenCount
	meta.IndexedAt = now
	idx.Sessions[sessionID] = meta
}

// UpdateResult reports what an incremental Update call accomplished.
type UpdateResult struct {
	MessagesAdded int
	TokensAdded   int
}

// Update reads only the messages newer than sessionID's recorded
// last_msg_idx from path, tokenizes them, and appends their postings to idx
// in place. It acquires no lock itself — callers coordinate locking via
// FileLock so the whole load-update-save cycle is protected.
func Update(idx *Index, sessionID, path string) (UpdateResult, error) {
	meta, known := idx.Sessions[sessionID]
	lastIdx := -1
	if known {
		lastIdx = meta.LastMsgIdx
	}

	newMessages, err := memtranscript.ParseFileFrom(path, lastIdx)
	if err != nil {
		return UpdateResult{}, err
	}
	if len(newMessages) == 0 {
		return UpdateResult{}, nil
	}

	now := time.Now().Round(0).UTC()
	messagesAdded := 0
	tokensAdded := 0
	newTermsBefore := len(idx.Terms)

	for _, msg := range newMessages {
		if msg.Index <= lastIdx {
			continue
		}
		tokens := memtokenize.Tokenize(msg.Text())
		ts := msg.Timestamp.UTC()
		if msg.Timestamp.IsZero() {
			ts = now
		}
		for token := range tokens {
			idx.Terms[token] = append(idx.Terms[token], Posting{
				Session:   sessionID,
				MsgIdx:    msg.Index,
				Timestamp: ts,
			})
			tokensAdded++
		}
		touchSession(idx, sessionID, msg.Index, len(tokens), now)
		messagesAdded++
		idx.TotalMessages++
		lastIdx = msg.Index
	}

	idx.TotalTerms += len(idx.Terms) - newTermsBefore
	idx.LastUpdated = now

	return UpdateResult{MessagesAdded: messagesAdded, TokensAdded: tokensAdded}, nil
}

// UpdateLocked performs Update under the advisory file lock at lockPath for
// the duration of the read-modify-write cycle: load, update, save.
func UpdateLocked(indexPath, sessionID, transcriptPath string, timeout time.Duration) (UpdateResult, error) {
	lock := NewFileLock(LockPath(indexPath), timeout)
	if err := lock.Acquire(); err != nil {
		return UpdateResult{}, err
	}
	defer lock.Release()

	idx, err := Load(indexPath)
	if err != nil {
		return UpdateResult{}, err
	}

	result, err := Update(idx, sessionID, transcriptPath)
	if err != nil {
		return UpdateResult{}, err
	}
	if result.MessagesAdded == 0 {
		idx.LastUpdated = time.Now().Round(0).UTC()
	}

	if err := Save(idx, indexPath); err != nil {
		return UpdateResult{}, memerrors.New(memerrors.IndexCorrupt, "UpdateLocked", err)
	}
	return result, nil
}
