package tender

import (
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

// Blocking precondition errors. These are surfaced to the user as an
// immediate prompt; no network call is made.
var (
	ErrNoFile             = errors.New("no file selected")
	ErrNothingToTranslate = errors.New("no analysis result to translate")
	ErrNoResult           = errors.New("no analysis result to export")

	// ErrBusy rejects a second invocation of an operation that is
	// still in flight. Distinct operations may still interleave.
	ErrBusy = errors.New("operation already in progress")
)

const (
	opAnalyze   = "analyze"
	opTranslate = "translate"
	opExport    = "export"
	opAsk       = "ask"

	genericAnalyzeFailure = "Analysis failed"
	noAnswerFallback      = "No answer found."
	askFailureAnswer      = "Error connecting to AI."
)

// API is the slice of the backend this service depends on. *Client
// implements it.
type API interface {
	Analyze(ctx context.Context, name string, file io.Reader) (*Result, error)
	Translate(ctx context.Context, r *Result, targetLang string) (*Result, error)
	GeneratePDF(ctx context.Context, r *Result) ([]byte, error)
	Ask(ctx context.Context, question string, r *Result) (string, error)
}

// Service owns the four asynchronous operations against the shared
// session. Each carries its own failure-isolation policy: analyze binds
// failures to the session error, translate and export report them to
// the caller with state unchanged, and ask absorbs them into the
// transcript. All collaborators are passed in explicitly; nothing hangs
// off ambient globals.
type Service struct {
	api      API
	session  *Session
	primary  ReportSaver
	fallback ReportSaver
	report   string
	log      *zap.Logger

	inflight inflightGuard
}

// NewService wires the orchestrators. primary may be nil when the host
// has no save-dialog capability; exports then go straight to the
// fallback saver.
func NewService(cfg Config, api API, session *Session, primary, fallback ReportSaver, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	report := cfg.ReportFile
	if report == "" {
		report = defaultReportFile
	}
	return &Service{
		api:      api,
		session:  session,
		primary:  primary,
		fallback: fallback,
		report:   report,
		log:      log,
	}
}

// Session exposes the shared state for the presentation layer to read.
func (s *Service) Session() *Session {
	return s.session
}

// Analyze uploads the selected file and installs the returned result.
// On failure the message (the backend's detail when present) lands in
// the session error and the view stays home; the operation does not
// retry.
func (s *Service) Analyze(ctx context.Context) error {
	if !s.inflight.acquire(opAnalyze) {
		return ErrBusy
	}
	defer s.inflight.release(opAnalyze)

	path := s.session.FilePath()
	if path == "" {
		return ErrNoFile
	}
	s.session.BeginLoading()

	f, err := os.Open(path)
	if err != nil {
		s.log.Error("open document", zap.String("path", path), zap.Error(err))
		s.session.FailLoading(genericAnalyzeFailure)
		return err
	}
	defer f.Close()

	result, err := s.api.Analyze(ctx, filepath.Base(path), f)
	if err != nil {
		s.log.Error("analyze failed", zap.Error(err))
		s.session.FailLoading(failureMessage(err, genericAnalyzeFailure))
		return err
	}
	s.session.CompleteAnalysis(result)
	s.log.Info("analysis complete", zap.String("file", filepath.Base(path)))
	return nil
}

// Translate replaces the whole current result with a translated one.
// The transcript and view are untouched either way; a failure leaves
// the session exactly as it was.
func (s *Service) Translate(ctx context.Context, targetLang string) error {
	if !s.inflight.acquire(opTranslate) {
		return ErrBusy
	}
	defer s.inflight.release(opTranslate)

	result := s.session.Result()
	if result == nil || strings.TrimSpace(result.Field(FieldExecutiveSummary)) == "" {
		return ErrNothingToTranslate
	}
	translated, err := s.api.Translate(ctx, result, targetLang)
	if err != nil {
		s.log.Error("translate failed", zap.Error(err))
		return err
	}
	if translated == nil {
		s.log.Warn("translate returned no payload", zap.String("target_lang", targetLang))
		return nil
	}
	s.session.ReplaceResult(translated)
	s.log.Info("result translated", zap.String("target_lang", targetLang))
	return nil
}

// Export renders the current result to a report and persists it with a
// two-tier strategy: the primary saver first, stopping silently when
// the user cancels its dialog, falling through to the fallback saver on
// any other primary failure or when no primary capability exists.
func (s *Service) Export(ctx context.Context) error {
	if !s.inflight.acquire(opExport) {
		return ErrBusy
	}
	defer s.inflight.release(opExport)

	result := s.session.Result()
	if result == nil {
		return ErrNoResult
	}
	data, err := s.api.GeneratePDF(ctx, result)
	if err != nil {
		s.log.Error("report generation failed", zap.Error(err))
		return err
	}

	if s.primary != nil {
		err := s.primary.Save(s.report, data)
		if err == nil {
			s.log.Info("report saved", zap.String("file", s.report))
			return nil
		}
		if errors.Is(err, ErrSaveCancelled) {
			s.log.Info("report save cancelled")
			return nil
		}
		s.log.Warn("save dialog failed, using fallback", zap.Error(err))
	}
	if err := s.fallback.Save(s.report, data); err != nil {
		s.log.Error("fallback save failed", zap.Error(err))
		return err
	}
	s.log.Info("report saved via fallback", zap.String("file", s.report))
	return nil
}

// Ask appends the question and a pending answer to the transcript
// before the request goes out, then resolves the answer in place. A
// failed request resolves it with a synthetic connection-error answer
// instead of propagating, so one bad question never disables the next.
// Blank questions are a no-op.
func (s *Service) Ask(ctx context.Context, question string) error {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil
	}
	if !s.inflight.acquire(opAsk) {
		return ErrBusy
	}
	defer s.inflight.release(opAsk)

	result := s.session.Result()
	answerID := s.session.AppendExchange(question)

	answer, err := s.api.Ask(ctx, question, result)
	if err != nil {
		s.log.Warn("ask failed", zap.Error(err))
		s.session.ResolveAnswer(answerID, askFailureAnswer)
		return nil
	}
	if answer == "" {
		answer = noAnswerFallback
	}
	s.session.ResolveAnswer(answerID, answer)
	return nil
}

// failureMessage prefers the backend's detail string and falls back to
// a generic message for transport failures and detail-less bodies.
func failureMessage(err error, generic string) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Detail != "" {
		return apiErr.Detail
	}
	return generic
}
