package tender

import (
	"sync"

	"github.com/google/uuid"
)

// View is the active screen of the client.
type View string

const (
	ViewHome   View = "home"
	ViewResult View = "result"
)

// Session is the shared state for one run of the client: the active
// view, the selected input file, the optional API credential, the
// current analysis result, the transient error, the loading flag and
// the Q&A transcript. It is mutated only through the orchestrators in
// Service, never by the presentation layer directly. A mutex guards it
// because orchestrators run on goroutines off the UI event loop.
type Session struct {
	mu         sync.RWMutex
	view       View
	filePath   string
	credential string
	result     *Result
	errMsg     string
	loading    bool
	transcript []ChatEntry
	onChange   func()
}

// NewSession returns a session in its initial state: home view, nothing
// selected, empty transcript.
func NewSession() *Session {
	return &Session{view: ViewHome}
}

// SetOnChange registers a callback invoked after every mutation, with
// no locks held. The UI uses it to repaint from session snapshots.
func (s *Session) SetOnChange(fn func()) {
	s.mu.Lock()
	s.onChange = fn
	s.mu.Unlock()
}

func (s *Session) notify() {
	s.mu.RLock()
	fn := s.onChange
	s.mu.RUnlock()
	if fn != nil {
		fn()
	}
}

func (s *Session) View() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.view
}

func (s *Session) FilePath() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.filePath
}

func (s *Session) Credential() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.credential
}

func (s *Session) Result() *Result {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.result
}

func (s *Session) Err() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.errMsg
}

func (s *Session) Loading() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.loading
}

// Transcript returns a copy of the transcript so callers can render it
// without racing appends.
func (s *Session) Transcript() []ChatEntry {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]ChatEntry, len(s.transcript))
	copy(out, s.transcript)
	return out
}

// SelectFile records the document chosen for the next analysis.
func (s *Session) SelectFile(path string) {
	s.mu.Lock()
	s.filePath = path
	s.mu.Unlock()
	s.notify()
}

// SetCredential stores the user-entered API credential. The credential
// is standing configuration, not session data: Reset retains it.
func (s *Session) SetCredential(credential string) {
	s.mu.Lock()
	s.credential = credential
	s.mu.Unlock()
	s.notify()
}

// BeginLoading marks the analyze transition in flight. Entering loading
// always clears a prior error; the two are mutually exclusive.
func (s *Session) BeginLoading() {
	s.mu.Lock()
	s.loading = true
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// FailLoading ends the analyze transition with a user-facing message.
// The view stays where it was.
func (s *Session) FailLoading(msg string) {
	s.mu.Lock()
	s.loading = false
	s.errMsg = msg
	s.mu.Unlock()
	s.notify()
}

// CompleteAnalysis installs a freshly analyzed result: the transcript
// is cleared, the view switches to the result screen and loading ends.
func (s *Session) CompleteAnalysis(r *Result) {
	s.mu.Lock()
	s.result = r
	s.transcript = nil
	s.view = ViewResult
	s.loading = false
	s.errMsg = ""
	s.mu.Unlock()
	s.notify()
}

// ReplaceResult swaps the current result in place, as translation does.
// Unlike a new analysis the transcript and view are left untouched.
func (s *Session) ReplaceResult(r *Result) {
	s.mu.Lock()
	s.result = r
	s.mu.Unlock()
	s.notify()
}

// AppendExchange appends a question entry together with its pending
// answer entry and returns the answer's ID for later resolution. The
// transcript is append-only: entries are never reordered or removed,
// only resolved in place or wholesale cleared.
func (s *Session) AppendExchange(question string) uuid.UUID {
	answerID := uuid.New()
	s.mu.Lock()
	s.transcript = append(s.transcript,
		ChatEntry{ID: uuid.New(), Kind: EntryQuestion, Content: question},
		ChatEntry{ID: answerID, Kind: EntryAnswer, Pending: true},
	)
	s.mu.Unlock()
	s.notify()
	return answerID
}

// ResolveAnswer fills in a pending answer entry. Unknown IDs are
// ignored.
func (s *Session) ResolveAnswer(id uuid.UUID, content string) {
	s.mu.Lock()
	for i := range s.transcript {
		if s.transcript[i].ID == id {
			s.transcript[i].Content = content
			s.transcript[i].Pending = false
			break
		}
	}
	s.mu.Unlock()
	s.notify()
}

// Reset restores the initial state: home view, no file, no result, no
// error, empty transcript. The credential survives.
func (s *Session) Reset() {
	s.mu.Lock()
	s.view = ViewHome
	s.filePath = ""
	s.result = nil
	s.errMsg = ""
	s.loading = false
	s.transcript = nil
	s.mu.Unlock()
	s.notify()
}
