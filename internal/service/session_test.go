package service

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/Harshitk-cp/litsynth/internal/embedding"
	"github.com/Harshitk-cp/litsynth/internal/llm"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type mockJournal struct {
	mu      sync.Mutex
	runs    []string
	updates map[string][]int
	finals  map[string]int
	err     error
}

func newMockJournal() *mockJournal {
	return &mockJournal{updates: make(map[string][]int), finals: make(map[string]int)}
}

func (j *mockJournal) CreateRun(ctx context.Context, sessionID string, createdBy string) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.runs = append(j.runs, sessionID)
	return j.err
}

func (j *mockJournal) AppendUpdate(ctx context.Context, sessionID string, update *domain.SynthesisUpdate) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.updates[sessionID] = append(j.updates[sessionID], update.Sequence)
	return j.err
}

func (j *mockJournal) SaveFinal(ctx context.Context, sessionID string, synthesis *domain.Synthesis) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.finals[sessionID]++
	return j.err
}

func newTestSessionService(journal domain.SynthesisJournal) *SessionService {
	return NewSessionService(DefaultEngineConfig(), embedding.NewMockClient(), llm.NewMockClient(), journal, zap.NewNop(), nil)
}

func TestSessionService_Lifecycle(t *testing.T) {
	ctx := context.Background()
	journal := newMockJournal()
	svc := newTestSessionService(journal)

	sess, err := svc.Create(ctx, "reviewer", nil)
	require.NoError(t, err)
	assert.NotEmpty(t, sess.ID)
	assert.Equal(t, "reviewer", sess.CreatedBy)
	assert.Equal(t, 1, svc.Count())

	for _, doc := range []string{"d1", "d2"} {
		_, err := svc.Process(ctx, sess.ID, []domain.ExtractedFinding{{Text: "claim " + doc}}, domain.DocumentInfo{ID: doc})
		require.NoError(t, err)
	}

	view, err := svc.Snapshot(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, view.DocumentsProcessed)
	assert.False(t, view.Finalized)

	first, err := svc.Finalize(ctx, sess.ID)
	require.NoError(t, err)
	second, err := svc.Finalize(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, first, second)

	_, err = svc.Process(ctx, sess.ID, nil, domain.DocumentInfo{ID: "d3"})
	assert.ErrorIs(t, err, domain.ErrEngineFinalized)

	assert.Equal(t, []string{sess.ID}, journal.runs)
	assert.Equal(t, []int{1, 2}, journal.updates[sess.ID])
	assert.Equal(t, 1, journal.finals[sess.ID])

	require.NoError(t, svc.Delete(ctx, sess.ID))
	_, err = svc.Snapshot(ctx, sess.ID)
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	assert.ErrorIs(t, svc.Delete(ctx, sess.ID), domain.ErrSessionNotFound)
}

func TestSessionService_JournalFailuresDoNotFailRounds(t *testing.T) {
	ctx := context.Background()
	journal := newMockJournal()
	journal.err = errors.New("db down")
	svc := newTestSessionService(journal)

	sess, err := svc.Create(ctx, "", nil)
	require.NoError(t, err)

	update, err := svc.Process(ctx, sess.ID, []domain.ExtractedFinding{{Text: "a"}}, domain.DocumentInfo{ID: "d1"})
	require.NoError(t, err)
	assert.Equal(t, 1, update.Sequence)

	_, err = svc.Finalize(ctx, sess.ID)
	assert.NoError(t, err)
}

func TestSessionService_CustomConfig(t *testing.T) {
	svc := newTestSessionService(nil)

	bad := DefaultEngineConfig()
	bad.CandidateTopK = 0
	_, err := svc.Create(context.Background(), "", &bad)
	assert.ErrorIs(t, err, domain.ErrInvalidConfig)
	assert.Equal(t, 0, svc.Count())
}

func TestSessionService_UnknownSession(t *testing.T) {
	svc := newTestSessionService(nil)

	_, err := svc.Process(context.Background(), "missing", nil, domain.DocumentInfo{})
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
	_, err = svc.Finalize(context.Background(), "missing")
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_ConcurrentRoundsStayOrdered(t *testing.T) {
	ctx := context.Background()
	journal := newMockJournal()
	svc := newTestSessionService(journal)
	sess, err := svc.Create(ctx, "", nil)
	require.NoError(t, err)

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.Process(ctx, sess.ID, []domain.ExtractedFinding{{Text: "x"}}, domain.DocumentInfo{ID: "d"})
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	seq := journal.updates[sess.ID]
	require.Len(t, seq, 20)
	for i, s := range seq {
		assert.Equal(t, i+1, s)
	}
}
