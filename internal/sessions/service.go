package sessions

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/semaphore"

	"resume-studio/internal/extraction"
	"resume-studio/internal/llm"
	"resume-studio/internal/refimage"
	"resume-studio/internal/shared/metrics"
	"resume-studio/internal/shared/telemetry"
	"resume-studio/resume/model"
	"resume-studio/resume/render"
	"resume-studio/resume/theme"
)

// Extractor turns free text into resume data.
type Extractor interface {
	Extract(ctx context.Context, in extraction.Input) (model.ResumeData, error)
}

// Service contains the session business logic.
type Service struct {
	Repo      Repo
	Extractor Extractor
	Images    *refimage.Stager
	TTL       time.Duration
	Now       func() time.Time

	mu      sync.Mutex
	flights map[string]*semaphore.Weighted
}

// NewService constructs a Service. A nil extractor fails every generation as
// a service failure.
func NewService(repo Repo, extractor Extractor, images *refimage.Stager, ttl time.Duration) *Service {
	if extractor == nil {
		extractor = extraction.New(nil, "")
	}
	return &Service{
		Repo:      repo,
		Extractor: extractor,
		Images:    images,
		TTL:       ttl,
		Now:       func() time.Time { return time.Now().UTC() },
		flights:   make(map[string]*semaphore.Weighted),
	}
}

// Create starts a session holding the placeholder resume and default theme.
func (s *Service) Create(ctx context.Context) (Session, error) {
	id, err := uuid.NewV7()
	if err != nil {
		return Session{}, fmt.Errorf("session id: %w", err)
	}
	now := s.now()
	sess := Session{
		ID:        id.String(),
		Data:      model.Seed(),
		ThemeID:   theme.Default().ID,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := s.Repo.Create(ctx, sess); err != nil {
		return Session{}, err
	}
	metrics.IncSessionsCreated()
	telemetry.Info("session.created", map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"session_id": sess.ID,
	})
	return sess, nil
}

// Get returns the session.
func (s *Service) Get(ctx context.Context, id string) (Session, error) {
	return s.Repo.Get(ctx, id)
}

// Delete removes the session and any staged image.
func (s *Service) Delete(ctx context.Context, id string) error {
	sess, err := s.Repo.Delete(ctx, id)
	if err != nil {
		return err
	}
	s.dropFlight(id)
	s.discardImage(ctx, sess.ID, sess.ReferenceImage)
	return nil
}

// SelectTheme switches the session's theme. Data is untouched.
func (s *Service) SelectTheme(ctx context.Context, id, raw string) (Session, error) {
	themeID, err := theme.ParseID(raw)
	if err != nil {
		return Session{}, fmt.Errorf("%w: %v", ErrUnknownTheme, err)
	}
	return s.Repo.Update(ctx, id, func(sess *Session) error {
		sess.ThemeID = themeID
		sess.UpdatedAt = s.now()
		return nil
	})
}

// StageImage stores a reference image for the next generation, replacing any
// previously staged one.
func (s *Service) StageImage(ctx context.Context, id, fileName string, img llm.Image) (Session, error) {
	if _, err := s.Repo.Get(ctx, id); err != nil {
		return Session{}, err
	}
	if s.Images == nil {
		return Session{}, errors.New("reference images not configured")
	}
	ref, err := s.Images.Stage(ctx, id, fileName, img)
	if err != nil {
		return Session{}, err
	}

	var previous *refimage.Ref
	sess, err := s.Repo.Update(ctx, id, func(sess *Session) error {
		previous = sess.ReferenceImage
		sess.ReferenceImage = &ref
		sess.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		s.discardImage(ctx, id, &ref)
		return Session{}, err
	}
	s.discardImage(ctx, id, previous)
	return sess, nil
}

// ClearImage removes the staged reference image, if any.
func (s *Service) ClearImage(ctx context.Context, id string) (Session, error) {
	var previous *refimage.Ref
	sess, err := s.Repo.Update(ctx, id, func(sess *Session) error {
		previous = sess.ReferenceImage
		sess.ReferenceImage = nil
		sess.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		return Session{}, err
	}
	s.discardImage(ctx, id, previous)
	return sess, nil
}

// Generate runs one extraction for the session. On success the resume data is
// replaced wholesale; on any failure the previous data stays and the session
// message explains what happened.
func (s *Service) Generate(ctx context.Context, id, text string) (Session, error) {
	if strings.TrimSpace(text) == "" {
		sess, err := s.Repo.Update(ctx, id, func(sess *Session) error {
			sess.Message = MessageEmptyInput
			sess.UpdatedAt = s.now()
			return nil
		})
		if err != nil {
			return Session{}, err
		}
		return sess, ErrEmptyInput
	}

	current, err := s.Repo.Get(ctx, id)
	if err != nil {
		return Session{}, err
	}
	sem := s.flight(id)
	if !sem.TryAcquire(1) {
		return current, ErrGenerationInFlight
	}
	defer sem.Release(1)

	started, err := s.Repo.Update(ctx, id, func(sess *Session) error {
		sess.Seq++
		sess.Generating = true
		sess.UpdatedAt = s.now()
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			// Deleted between Get and flight; the semaphore was recreated.
			s.dropFlight(id)
		}
		return Session{}, err
	}
	token := started.Seq

	in := extraction.Input{Text: text}
	if started.ReferenceImage != nil && s.Images != nil {
		img, err := s.Images.Load(ctx, *started.ReferenceImage)
		if err != nil {
			telemetry.Warn("session.reference_image.unavailable", map[string]any{
				"request_id": telemetry.RequestID(ctx),
				"session_id": id,
				"error":      err.Error(),
			})
		} else {
			in.Image = &img
		}
	}

	data, genErr := s.Extractor.Extract(ctx, in)

	// The request context may already be done; the bookkeeping below must
	// still run so Generating is cleared.
	stale := false
	sess, err := s.Repo.Update(context.WithoutCancel(ctx), id, func(sess *Session) error {
		sess.Generating = false
		sess.UpdatedAt = s.now()
		if sess.Seq != token {
			stale = true
			return nil
		}
		if genErr != nil {
			sess.Message = UserMessage(genErr)
			return nil
		}
		sess.Data = data
		sess.Message = ""
		return nil
	})
	if err != nil {
		return Session{}, err
	}

	fields := map[string]any{
		"request_id": telemetry.RequestID(ctx),
		"session_id": id,
		"seq":        token,
	}
	switch {
	case stale:
		telemetry.Info("session.generate.superseded", fields)
		return sess, ErrSuperseded
	case genErr != nil:
		fields["error"] = genErr.Error()
		telemetry.Warn("session.generate.failed", fields)
		return sess, genErr
	}
	telemetry.Info("session.generate.applied", fields)
	return sess, nil
}

// Reset restores the placeholder resume. Any generation still in flight is
// superseded and its result dropped.
func (s *Service) Reset(ctx context.Context, id string) (Session, error) {
	return s.Repo.Update(ctx, id, func(sess *Session) error {
		sess.Seq++
		sess.Data = model.Seed()
		sess.Message = ""
		sess.UpdatedAt = s.now()
		return nil
	})
}

// Document renders the session as a standalone printable page.
func (s *Service) Document(ctx context.Context, id string) (string, error) {
	sess, err := s.Repo.Get(ctx, id)
	if err != nil {
		return "", err
	}
	th, ok := theme.Lookup(sess.ThemeID)
	if !ok {
		th = theme.Default()
	}
	return render.Page(sess.Data, th)
}

// Sweep expires sessions idle longer than TTL and discards their images.
func (s *Service) Sweep(ctx context.Context, now time.Time) (int, error) {
	if s.TTL <= 0 {
		return 0, nil
	}
	expired, err := s.Repo.Sweep(ctx, now.Add(-s.TTL))
	if err != nil {
		return 0, err
	}
	for _, sess := range expired {
		s.dropFlight(sess.ID)
		s.discardImage(ctx, sess.ID, sess.ReferenceImage)
	}
	metrics.AddSessionsExpired(len(expired))
	if len(expired) > 0 {
		telemetry.Info("session.sweep", map[string]any{"expired": len(expired)})
	}
	return len(expired), nil
}

// RunJanitor sweeps on every tick until ctx is done.
func (s *Service) RunJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if _, err := s.Sweep(ctx, s.now()); err != nil && ctx.Err() == nil {
				telemetry.Error("session.sweep.failed", map[string]any{"error": err.Error()})
			}
		}
	}
}

// UserMessage maps an extraction error to the message shown to the user.
func UserMessage(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, extraction.ErrEmptyInput), errors.Is(err, ErrEmptyInput):
		return MessageEmptyInput
	case errors.Is(err, extraction.ErrNoData):
		return MessageNoData
	case errors.Is(err, extraction.ErrMalformedResponse):
		return MessageMalformed
	default:
		return MessageServiceFailure
	}
}

func (s *Service) flight(id string) *semaphore.Weighted {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.flights == nil {
		s.flights = make(map[string]*semaphore.Weighted)
	}
	sem, ok := s.flights[id]
	if !ok {
		sem = semaphore.NewWeighted(1)
		s.flights[id] = sem
	}
	return sem
}

func (s *Service) dropFlight(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.flights, id)
}

func (s *Service) discardImage(ctx context.Context, sessionID string, ref *refimage.Ref) {
	if ref == nil || s.Images == nil {
		return
	}
	if err := s.Images.Discard(context.WithoutCancel(ctx), *ref); err != nil {
		telemetry.Warn("session.reference_image.discard_failed", map[string]any{
			"session_id": sessionID,
			"error":      err.Error(),
		})
	}
}

func (s *Service) now() time.Time {
	if s.Now != nil {
		return s.Now()
	}
	return time.Now().UTC()
}
