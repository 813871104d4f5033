package tender

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSessionInitialState(t *testing.T) {
	s := NewSession()
	assert.Equal(t, ViewHome, s.View())
	assert.Nil(t, s.Result())
	assert.Empty(t, s.FilePath())
	assert.Empty(t, s.Err())
	assert.False(t, s.Loading())
	assert.Empty(t, s.Transcript())
}

func TestBeginLoadingClearsError(t *testing.T) {
	s := NewSession()
	s.FailLoading("previous failure")
	require.Equal(t, "previous failure", s.Err())

	s.BeginLoading()
	assert.True(t, s.Loading())
	assert.Empty(t, s.Err(), "loading and a visible error are mutually exclusive")
}

func TestCompleteAnalysisClearsTranscript(t *testing.T) {
	s := NewSession()
	first := mustParse(t, `{"Executive_Summary": "first"}`)
	s.CompleteAnalysis(first)
	id := s.AppendExchange("what is the deadline?")
	s.ResolveAnswer(id, "2024-03-01")
	require.Len(t, s.Transcript(), 2)

	second := mustParse(t, `{"Executive_Summary": "second"}`)
	s.CompleteAnalysis(second)
	assert.Empty(t, s.Transcript(), "a new upload clears the transcript")
	assert.Equal(t, ViewResult, s.View())
	assert.False(t, s.Loading())
	assert.Same(t, second, s.Result())
}

func TestReplaceResultPreservesTranscript(t *testing.T) {
	s := NewSession()
	s.CompleteAnalysis(mustParse(t, `{"Executive_Summary": "original"}`))
	id := s.AppendExchange("q")
	s.ResolveAnswer(id, "a")

	translated := mustParse(t, `{"Executive_Summary": "übersetzt"}`)
	s.ReplaceResult(translated)
	assert.Len(t, s.Transcript(), 2, "translation preserves the transcript")
	assert.Equal(t, ViewResult, s.View())
	assert.Same(t, translated, s.Result())
}

func TestAppendExchangePairsEntries(t *testing.T) {
	s := NewSession()
	id := s.AppendExchange("what is the EMD?")

	entries := s.Transcript()
	require.Len(t, entries, 2)
	assert.Equal(t, EntryQuestion, entries[0].Kind)
	assert.Equal(t, "what is the EMD?", entries[0].Content)
	assert.False(t, entries[0].Pending)
	assert.Equal(t, EntryAnswer, entries[1].Kind)
	assert.True(t, entries[1].Pending)

	s.ResolveAnswer(id, "INR 2,50,000")
	entries = s.Transcript()
	assert.Equal(t, "INR 2,50,000", entries[1].Content)
	assert.False(t, entries[1].Pending)
}

func TestTranscriptSnapshotIsCopy(t *testing.T) {
	s := NewSession()
	s.AppendExchange("q")
	snapshot := s.Transcript()
	snapshot[0].Content = "mutated"
	assert.Equal(t, "q", s.Transcript()[0].Content)
}

func TestResetRetainsCredential(t *testing.T) {
	s := NewSession()
	s.SetCredential("secret-key")
	s.SelectFile("/tmp/tender.pdf")
	s.CompleteAnalysis(mustParse(t, `{"Executive_Summary": "..."}`))
	for _, q := range []string{"q1", "q2"} {
		id := s.AppendExchange(q)
		s.ResolveAnswer(id, "a")
	}
	require.Len(t, s.Transcript(), 4)
	require.Equal(t, ViewResult, s.View())

	s.Reset()
	assert.Equal(t, ViewHome, s.View())
	assert.Nil(t, s.Result())
	assert.Empty(t, s.Transcript())
	assert.Empty(t, s.FilePath())
	assert.Empty(t, s.Err())
	assert.Equal(t, "secret-key", s.Credential(), "the credential is standing configuration")
}

func TestOnChangeFires(t *testing.T) {
	s := NewSession()
	var calls int
	s.SetOnChange(func() { calls++ })
	s.SelectFile("/tmp/a.pdf")
	s.BeginLoading()
	s.FailLoading("boom")
	assert.Equal(t, 3, calls)
}
