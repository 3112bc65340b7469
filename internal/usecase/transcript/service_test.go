package transcript

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/ashwiniraykar1997/speech-to-text-app/internal/adapter/repository"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/entities"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/domain/repositories"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/database"
	"github.com/ashwiniraykar1997/speech-to-text-app/internal/infrastructure/external/supabase"
	"github.com/ashwiniraykar1997/speech-to-text-app/pkg/config"
)

// fakeStore answers inserts from a queue of responses and records what it was given
type fakeStore struct {
	name      string
	available bool
	inserts   []repositories.Response
	selects   []repositories.Response
	received  []*entities.Transcript
	users     []string
	ctxErrs   []error
	deadlines []bool
}

func (f *fakeStore) Name() string    { return f.name }
func (f *fakeStore) Available() bool { return f.available }

func (f *fakeStore) Insert(ctx context.Context, rec *entities.Transcript) repositories.Response {
	f.received = append(f.received, rec)
	f.ctxErrs = append(f.ctxErrs, ctx.Err())
	_, hasDeadline := ctx.Deadline()
	f.deadlines = append(f.deadlines, hasDeadline)
	return pop(&f.inserts)
}

func (f *fakeStore) SelectAll(ctx context.Context) repositories.Response {
	return pop(&f.selects)
}

func (f *fakeStore) SelectByUser(ctx context.Context, userID string) repositories.Response {
	f.users = append(f.users, userID)
	return pop(&f.selects)
}

func pop(queue *[]repositories.Response) repositories.Response {
	if len(*queue) == 0 {
		return repositories.Response{Err: errors.New("unexpected call")}
	}
	resp := (*queue)[0]
	*queue = (*queue)[1:]
	return resp
}

func ok(id string) repositories.Response {
	return repositories.Response{Data: []*entities.Transcript{{ID: id, Text: "stored"}}}
}

func failed(err error) repositories.Response {
	return repositories.Response{Err: err}
}

func withUser(id string) *entities.Transcript {
	return &entities.Transcript{Text: "hello world", UserID: &id, CreatedAt: time.Now().UTC()}
}

func TestPersistPrimaryAccepts(t *testing.T) {
	primary := &fakeStore{name: repositories.StorePrimary, available: true, inserts: []repositories.Response{ok("p-1")}}
	fallback := &fakeStore{name: repositories.StoreFallback, available: true}
	svc := NewService(primary, fallback, config.MismatchStrip, time.Second, zap.NewNop())

	result := svc.Persist(context.Background(), withUser("u"))

	assert.Equal(t, repositories.StorePrimary, result.Store)
	assert.Equal(t, "p-1", result.ID)
	assert.False(t, result.Degraded)
	assert.NoError(t, result.Err)
	assert.Empty(t, fallback.received)
}

func TestPersistFallsBackOnce(t *testing.T) {
	tests := []struct {
		name    string
		primary *fakeStore
	}{
		{name: "unconfigured", primary: &fakeStore{name: repositories.StorePrimary}},
		{name: "transport error", primary: &fakeStore{name: repositories.StorePrimary, available: true,
			inserts: []repositories.Response{failed(entities.ErrStoreUnreachable)}}},
		{name: "error shaped response", primary: &fakeStore{name: repositories.StorePrimary, available: true,
			inserts: []repositories.Response{failed(fmt.Errorf("%w: boom", entities.ErrStoreRejected))}}},
		{name: "empty representation", primary: &fakeStore{name: repositories.StorePrimary, available: true,
			inserts: []repositories.Response{{}}}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fallback := &fakeStore{name: repositories.StoreFallback, available: true, inserts: []repositories.Response{ok("7")}}
			svc := NewService(tt.primary, fallback, config.MismatchStrip, time.Second, zap.NewNop())
			rec := withUser("u")

			result := svc.Persist(context.Background(), rec)

			assert.Equal(t, repositories.StoreFallback, result.Store)
			assert.Equal(t, "7", result.ID)
			assert.False(t, result.Degraded)
			require.Len(t, fallback.received, 1)
			assert.Equal(t, rec, fallback.received[0])
			assert.LessOrEqual(t, len(tt.primary.received), 1)
		})
	}
}

func TestPersistFallsBackWhenPrimaryReturnsNoRow(t *testing.T) {
	for _, body := range []string{`{}`, `{"data":{"foo":1}}`, `[]`} {
		t.Run(body, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(body))
			}))
			t.Cleanup(srv.Close)

			client := supabase.NewClient(config.SupabaseConfig{URL: srv.URL, Key: "service-key", Table: "transcripts"}, time.Second, zap.NewNop())
			fallback := &fakeStore{name: repositories.StoreFallback, available: true, inserts: []repositories.Response{ok("9")}}
			svc := NewService(supabase.NewTranscriptStore(client), fallback, config.MismatchStrip, time.Second, zap.NewNop())

			result := svc.Persist(context.Background(), withUser("u1"))

			assert.Equal(t, repositories.StoreFallback, result.Store)
			assert.Equal(t, "9", result.ID)
			assert.False(t, result.Degraded)
			assert.Len(t, fallback.received, 1)
		})
	}
}

func TestPersistStripsUserIDOnMismatch(t *testing.T) {
	primary := &fakeStore{name: repositories.StorePrimary}
	fallback := &fakeStore{name: repositories.StoreFallback, available: true, inserts: []repositories.Response{
		failed(entities.ErrSchemaTypeMismatch),
		ok("8"),
	}}
	svc := NewService(primary, fallback, config.MismatchStrip, time.Second, zap.NewNop())
	rec := withUser("42")

	result := svc.Persist(context.Background(), rec)

	assert.Equal(t, repositories.StoreFallback, result.Store)
	assert.False(t, result.Degraded)
	assert.True(t, result.UserIDDropped)
	require.Len(t, fallback.received, 2)
	assert.Equal(t, "42", *fallback.received[0].UserID)
	assert.Nil(t, fallback.received[1].UserID)
	assert.Equal(t, rec.Text, fallback.received[1].Text)
	assert.Equal(t, "42", *rec.UserID, "caller's record is not mutated")
}

func TestPersistRejectPolicy(t *testing.T) {
	fallback := &fakeStore{name: repositories.StoreFallback, available: true, inserts: []repositories.Response{
		failed(entities.ErrSchemaTypeMismatch),
	}}
	svc := NewService(nil, fallback, config.MismatchReject, time.Second, zap.NewNop())

	result := svc.Persist(context.Background(), withUser("42"))

	assert.True(t, result.Degraded)
	assert.Equal(t, StoreNone, result.Store)
	assert.ErrorIs(t, result.Err, entities.ErrSchemaTypeMismatch)
	assert.Len(t, fallback.received, 1)
}

func TestPersistDegraded(t *testing.T) {
	t.Run("retry fails", func(t *testing.T) {
		fallback := &fakeStore{name: repositories.StoreFallback, available: true, inserts: []repositories.Response{
			failed(entities.ErrSchemaTypeMismatch),
			failed(entities.ErrStoreUnreachable),
		}}
		svc := NewService(nil, fallback, config.MismatchStrip, time.Second, zap.NewNop())

		result := svc.Persist(context.Background(), withUser("42"))

		assert.True(t, result.Degraded)
		assert.ErrorIs(t, result.Err, entities.ErrStoreUnreachable)
		assert.Len(t, fallback.received, 2)
	})

	t.Run("other rejection is not retried", func(t *testing.T) {
		fallback := &fakeStore{name: repositories.StoreFallback, available: true, inserts: []repositories.Response{
			failed(entities.ErrStoreRejected),
		}}
		svc := NewService(nil, fallback, config.MismatchStrip, time.Second, zap.NewNop())

		result := svc.Persist(context.Background(), withUser("42"))

		assert.True(t, result.Degraded)
		assert.Len(t, fallback.received, 1)
	})

	t.Run("mismatch without user is not retried", func(t *testing.T) {
		fallback := &fakeStore{name: repositories.StoreFallback, available: true, inserts: []repositories.Response{
			failed(entities.ErrSchemaTypeMismatch),
		}}
		svc := NewService(nil, fallback, config.MismatchStrip, time.Second, zap.NewNop())

		result := svc.Persist(context.Background(), &entities.Transcript{Text: "x"})

		assert.True(t, result.Degraded)
		assert.Len(t, fallback.received, 1)
	})

	t.Run("no store available", func(t *testing.T) {
		svc := NewService(&fakeStore{name: repositories.StorePrimary}, nil, config.MismatchStrip, time.Second, zap.NewNop())

		result := svc.Persist(context.Background(), withUser("u"))

		assert.True(t, result.Degraded)
		assert.ErrorIs(t, result.Err, entities.ErrStoreUnreachable)
	})
}

func TestPersistIgnoresRequestCancellation(t *testing.T) {
	primary := &fakeStore{name: repositories.StorePrimary, available: true, inserts: []repositories.Response{ok("1")}}
	svc := NewService(primary, nil, config.MismatchStrip, time.Second, zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	result := svc.Persist(ctx, withUser("u"))

	assert.Equal(t, repositories.StorePrimary, result.Store)
	require.Len(t, primary.ctxErrs, 1)
	assert.NoError(t, primary.ctxErrs[0])
	assert.True(t, primary.deadlines[0])
}

func TestList(t *testing.T) {
	t.Run("primary serves", func(t *testing.T) {
		primary := &fakeStore{name: repositories.StorePrimary, available: true, selects: []repositories.Response{ok("1")}}
		fallback := &fakeStore{name: repositories.StoreFallback, available: true}
		svc := NewService(primary, fallback, "", 0, nil)

		result := svc.ListForUser(context.Background(), "u-1")

		require.NoError(t, result.Err)
		assert.Equal(t, repositories.StorePrimary, result.Store)
		assert.Len(t, result.Transcripts, 1)
		assert.Equal(t, []string{"u-1"}, primary.users)
		assert.Empty(t, fallback.users)
	})

	t.Run("fallback serves on primary failure", func(t *testing.T) {
		primary := &fakeStore{name: repositories.StorePrimary, available: true, selects: []repositories.Response{failed(entities.ErrStoreUnreachable)}}
		fallback := &fakeStore{name: repositories.StoreFallback, available: true, selects: []repositories.Response{{}}}
		svc := NewService(primary, fallback, "", 0, nil)

		result := svc.ListAll(context.Background())

		require.NoError(t, result.Err)
		assert.Equal(t, repositories.StoreFallback, result.Store)
		assert.NotNil(t, result.Transcripts)
		assert.Empty(t, result.Transcripts)
	})

	t.Run("both fail", func(t *testing.T) {
		primary := &fakeStore{name: repositories.StorePrimary, available: true, selects: []repositories.Response{failed(entities.ErrStoreUnreachable)}}
		fallback := &fakeStore{name: repositories.StoreFallback, available: true, selects: []repositories.Response{failed(entities.ErrStoreRejected)}}
		svc := NewService(primary, fallback, "", 0, nil)

		result := svc.ListAll(context.Background())

		assert.ErrorIs(t, result.Err, entities.ErrStoreRejected)
		assert.Equal(t, StoreNone, result.Store)
	})
}

func TestAvailability(t *testing.T) {
	svc := NewService(&fakeStore{name: repositories.StorePrimary}, &fakeStore{name: repositories.StoreFallback, available: true}, "", 0, nil)
	assert.Equal(t, map[string]bool{"primary": false, "fallback": true}, svc.Availability())
}

// TestPersistEndToEndIntegerColumn runs an unconfigured Supabase store against a legacy sqlite
// table whose user_id column is an INTEGER.
func TestPersistEndToEndIntegerColumn(t *testing.T) {
	cfg := &config.Config{Database: config.DatabaseConfig{
		Driver:         config.DriverSQLite,
		SQLitePath:     ":memory:",
		ConnectTimeout: time.Second,
	}}
	db, err := database.NewDB(context.Background(), cfg, zap.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.CloseDB(db) })
	require.NoError(t, db.Exec(`CREATE TABLE transcripts (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		text TEXT NOT NULL,
		user_id INTEGER,
		filename TEXT,
		duration_seconds REAL,
		created_at DATETIME
	)`).Error)
	_, err = database.Migrate(db, zap.NewNop())
	require.NoError(t, err)

	primary := supabase.NewTranscriptStore(supabase.NewClient(config.SupabaseConfig{}, time.Second, zap.NewNop()))
	fallback := repository.NewTranscriptRepository(db, repository.DetectUserIDKind(db, "auto", zap.NewNop()), zap.NewNop())
	svc := NewService(primary, fallback, config.MismatchStrip, time.Second, zap.NewNop())

	rec, err := Build(NormalizeInput{
		Text:     "hello world",
		Filename: "a.wav",
		Identity: &entities.Identity{ID: "42", Kind: entities.IdentityClaimed},
	}, time.Now())
	require.NoError(t, err)

	result := svc.Persist(context.Background(), rec)

	assert.Equal(t, repositories.StoreFallback, result.Store)
	assert.False(t, result.Degraded)
	assert.True(t, result.UserIDDropped)
	assert.NotEmpty(t, result.ID)

	var row struct {
		Text     string
		UserID   *int64
		Filename string
	}
	require.NoError(t, db.Raw("SELECT text, user_id, filename FROM transcripts WHERE id = ?", result.ID).Scan(&row).Error)
	assert.Equal(t, "hello world", row.Text)
	assert.Equal(t, "a.wav", row.Filename)
	assert.Nil(t, row.UserID)

	// persisting the same record again adds a second row
	again := svc.Persist(context.Background(), rec)
	assert.NotEqual(t, result.ID, again.ID)
	listed := svc.ListAll(context.Background())
	require.NoError(t, listed.Err)
	assert.Equal(t, repositories.StoreFallback, listed.Store)
	assert.Len(t, listed.Transcripts, 2)
}
