package store

import (
	"context"
	_ "embed"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/Harshitk-cp/litsynth/internal/domain"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
)

var ErrNotFound = errors.New("not found")

//go:embed schema/journal.sql
var journalSchema string

// JournalStore keeps an audit trail of synthesis runs in Postgres.
type JournalStore struct {
	db *pgxpool.Pool
}

func NewJournalStore(db *pgxpool.Pool) *JournalStore {
	return &JournalStore{db: db}
}

// EnsureSchema creates the journal tables if they are missing.
func (s *JournalStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.Exec(ctx, journalSchema); err != nil {
		return fmt.Errorf("create journal schema: %w", err)
	}
	return nil
}

func (s *JournalStore) CreateRun(ctx context.Context, sessionID string, createdBy string) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("parse session id: %w", err)
	}
	_, err = s.db.Exec(ctx,
		`INSERT INTO synthesis_runs (id, created_by) VALUES ($1, $2)
		 ON CONFLICT (id) DO NOTHING`,
		id, createdBy,
	)
	return err
}

// AppendUpdate stores the update and the findings it introduced in one
// transaction.
func (s *JournalStore) AppendUpdate(ctx context.Context, sessionID string, update *domain.SynthesisUpdate) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("parse session id: %w", err)
	}
	payload, err := json.Marshal(update)
	if err != nil {
		return fmt.Errorf("marshal update: %w", err)
	}

	tx, err := s.db.Begin(ctx)
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	batch := &pgx.Batch{}
	batch.Queue(
		`INSERT INTO synthesis_updates (run_id, sequence, document_id, document_title, payload)
		 VALUES ($1, $2, $3, $4, $5)`,
		id, update.Sequence, update.DocumentID, update.DocumentTitle, payload,
	)
	for _, f := range update.NewFindings {
		var embedding *pgvector.Vector
		if len(f.Embedding) > 0 {
			v := pgvector.NewVector(f.Embedding)
			embedding = &v
		}
		batch.Queue(
			`INSERT INTO run_findings (run_id, finding_id, document_id, content, embedding, created_at)
			 VALUES ($1, $2, $3, $4, $5, $6)`,
			id, int64(f.ID), f.DocumentID, f.Text, embedding, f.CreatedAt,
		)
	}

	if err := tx.SendBatch(ctx, batch).Close(); err != nil {
		return fmt.Errorf("insert update %d: %w", update.Sequence, err)
	}
	return tx.Commit(ctx)
}

func (s *JournalStore) SaveFinal(ctx context.Context, sessionID string, synthesis *domain.Synthesis) error {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return fmt.Errorf("parse session id: %w", err)
	}
	payload, err := json.Marshal(synthesis)
	if err != nil {
		return fmt.Errorf("marshal synthesis: %w", err)
	}

	tag, err := s.db.Exec(ctx,
		`UPDATE synthesis_runs SET final = $2, finalized_at = NOW() WHERE id = $1`,
		id, payload,
	)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

// Updates returns the journaled updates of a run in sequence order.
func (s *JournalStore) Updates(ctx context.Context, sessionID string) ([]domain.SynthesisUpdate, error) {
	id, err := uuid.Parse(sessionID)
	if err != nil {
		return nil, fmt.Errorf("parse session id: %w", err)
	}
	rows, err := s.db.Query(ctx,
		`SELECT payload FROM synthesis_updates WHERE run_id = $1 ORDER BY sequence`,
		id,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []domain.SynthesisUpdate
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var u domain.SynthesisUpdate
		if err := json.Unmarshal(payload, &u); err != nil {
			return nil, fmt.Errorf("decode update: %w", err)
		}
		results = append(results, u)
	}
	return results, rows.Err()
}

// NopJournal discards everything. It is used when no database is configured.
type NopJournal struct{}

func (NopJournal) CreateRun(ctx context.Context, sessionID string, createdBy string) error {
	return nil
}

func (NopJournal) AppendUpdate(ctx context.Context, sessionID string, update *domain.SynthesisUpdate) error {
	return nil
}

func (NopJournal) SaveFinal(ctx context.Context, sessionID string, synthesis *domain.Synthesis) error {
	return nil
}

var (
	_ domain.SynthesisJournal = (*JournalStore)(nil)
	_ domain.SynthesisJournal = NopJournal{}
)
