package transcript

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/repositories"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/metrics"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
)

// StoreNone is reported when no store accepted the operation
const StoreNone = "none"

// PersistResult describes where a transcript landed
type PersistResult struct {
	Store    string `json:"store"`
	ID       string `json:"id,omitempty"`
	Degraded bool   `json:"degraded"`
	// UserIDDropped is set when the fallback only accepted the record without its user_id
	UserIDDropped bool                 `json:"user_id_dropped,omitempty"`
	Transcript    *entities.Transcript `json:"-"`
	Err           error                `json:"-"`
}

// ListResult holds transcripts together with the store that served them
type ListResult struct {
	Store       string
	Transcripts []*entities.Transcript
	Err         error
}

// Service coordinates writes and reads across the primary and fallback stores
type Service struct {
	primary  repositories.TranscriptStore
	fallback repositories.TranscriptStore
	policy   string
	timeout  time.Duration
	logger   *zap.Logger
}

// NewService creates a new persistence coordinator. Either store may be nil.
func NewService(primary, fallback repositories.TranscriptStore, policy string, timeout time.Duration, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	if policy == "" {
		policy = config.MismatchStrip
	}
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	return &Service{
		primary:  primary,
		fallback: fallback,
		policy:   policy,
		timeout:  timeout,
		logger:   logger,
	}
}

// Availability reports which stores are configured, keyed by store name
func (s *Service) Availability() map[string]bool {
	return map[string]bool{
		repositories.StorePrimary:  available(s.primary),
		repositories.StoreFallback: available(s.fallback),
	}
}

// Persist stores the transcript in the primary store, else in the fallback. It never returns an
// error to the caller; total failure is reported as Degraded with Err set.
func (s *Service) Persist(ctx context.Context, rec *entities.Transcript) PersistResult {
	// writes outlive the request that triggered them
	ctx = context.WithoutCancel(ctx)

	if available(s.primary) {
		stored, err := s.insert(ctx, s.primary, rec)
		if err == nil {
			return s.succeeded(s.primary, stored, false)
		}
		s.logger.Warn("primary insert failed, using fallback",
			zap.String("filename", rec.FilenameOrDefault()),
			zap.Error(err),
		)
	}

	if !available(s.fallback) {
		return s.degraded(rec, fmt.Errorf("%w: no store available", entities.ErrStoreUnreachable))
	}

	stored, err := s.insert(ctx, s.fallback, rec)
	if err == nil {
		return s.succeeded(s.fallback, stored, false)
	}
	if !errors.Is(err, entities.ErrSchemaTypeMismatch) || !rec.HasUser() {
		return s.degraded(rec, err)
	}
	if s.policy == config.MismatchReject {
		s.logger.Warn("fallback rejected user_id, policy forbids retry",
			zap.String("filename", rec.FilenameOrDefault()),
			zap.Error(err),
		)
		return s.degraded(rec, err)
	}

	s.logger.Warn("fallback rejected user_id, retrying without it",
		zap.String("filename", rec.FilenameOrDefault()),
		zap.Error(err),
	)
	stored, err = s.insert(ctx, s.fallback, rec.WithoutUser())
	if err != nil {
		return s.degraded(rec, err)
	}
	metrics.UserIDDroppedTotal.Inc()
	return s.succeeded(s.fallback, stored, true)
}

// ListForUser returns the user's transcripts from the first store that answers
func (s *Service) ListForUser(ctx context.Context, userID string) ListResult {
	return s.list(ctx, "select_by_user", func(ctx context.Context, store repositories.TranscriptStore) repositories.Response {
		return store.SelectByUser(ctx, userID)
	})
}

// ListAll returns every transcript from the first store that answers
func (s *Service) ListAll(ctx context.Context) ListResult {
	return s.list(ctx, "select_all", func(ctx context.Context, store repositories.TranscriptStore) repositories.Response {
		return store.SelectAll(ctx)
	})
}

func (s *Service) list(ctx context.Context, op string, fn func(context.Context, repositories.TranscriptStore) repositories.Response) ListResult {
	var lastErr error
	for _, store := range []repositories.TranscriptStore{s.primary, s.fallback} {
		if !available(store) {
			continue
		}
		resp := s.call(ctx, store, op, func(ctx context.Context) repositories.Response {
			return fn(ctx, store)
		})
		if resp.Failed() {
			s.logger.Warn("transcript read failed",
				zap.String("store", store.Name()),
				zap.String("operation", op),
				zap.Error(resp.Err),
			)
			lastErr = resp.Err
			continue
		}
		data := resp.Data
		if data == nil {
			data = []*entities.Transcript{}
		}
		return ListResult{Store: store.Name(), Transcripts: data}
	}

	if lastErr == nil {
		lastErr = fmt.Errorf("%w: no store available", entities.ErrStoreUnreachable)
	}
	return ListResult{Store: StoreNone, Transcripts: []*entities.Transcript{}, Err: lastErr}
}

// insert runs one insert and treats an empty representation as a failure
func (s *Service) insert(ctx context.Context, store repositories.TranscriptStore, rec *entities.Transcript) (*entities.Transcript, error) {
	resp := s.call(ctx, store, "insert", func(ctx context.Context) repositories.Response {
		return store.Insert(ctx, rec)
	})
	if resp.Failed() {
		return nil, resp.Err
	}
	stored := resp.First()
	if stored == nil {
		return nil, entities.ErrEmptyResponse
	}
	return stored, nil
}

// call bounds a store call with its own timeout and records metrics
func (s *Service) call(ctx context.Context, store repositories.TranscriptStore, op string, fn func(context.Context) repositories.Response) repositories.Response {
	ctx, cancel := context.WithTimeout(ctx, s.timeout)
	defer cancel()

	start := time.Now()
	resp := fn(ctx)
	metrics.StoreCallDuration.WithLabelValues(store.Name(), op).Observe(time.Since(start).Seconds())
	metrics.StoreAttemptsTotal.WithLabelValues(store.Name(), op, metrics.Outcome(resp.Err)).Inc()
	return resp
}

func (s *Service) succeeded(store repositories.TranscriptStore, stored *entities.Transcript, dropped bool) PersistResult {
	metrics.PersistOutcomesTotal.WithLabelValues(store.Name(), "false").Inc()
	s.logger.Info("transcript persisted",
		zap.String("store", store.Name()),
		zap.String("transcript_id", stored.ID),
		zap.String("filename", stored.FilenameOrDefault()),
		zap.Bool("user_id_dropped", dropped),
	)
	return PersistResult{
		Store:         store.Name(),
		ID:            stored.ID,
		UserIDDropped: dropped,
		Transcript:    stored,
	}
}

func (s *Service) degraded(rec *entities.Transcript, err error) PersistResult {
	metrics.PersistOutcomesTotal.WithLabelValues(StoreNone, strconv.FormatBool(true)).Inc()
	s.logger.Error("transcript not persisted",
		zap.String("filename", rec.FilenameOrDefault()),
		zap.Error(err),
	)
	return PersistResult{Store: StoreNone, Degraded: true, Err: err}
}

func available(store repositories.TranscriptStore) bool {
	return store != nil && store.Available()
}
