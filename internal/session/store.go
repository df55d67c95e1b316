package session

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/ziadkadry99/reqpilot/internal/confirm"
	"github.com/ziadkadry99/reqpilot/internal/db"
	"github.com/ziadkadry99/reqpilot/internal/facts"
	"github.com/ziadkadry99/reqpilot/internal/policy"
)

// ErrSessionNotFound is returned for operations on an unknown session ID.
var ErrSessionNotFound = errors.New("session not found")

// Store persists sessions, turns, fact records and confirmation snapshots.
type Store struct {
	db *db.DB
}

// NewStore creates a store backed by the given database.
func NewStore(database *db.DB) *Store {
	return &Store{db: database}
}

// CreateSession starts a fresh session for the given user.
func (s *Store) CreateSession(ctx context.Context, userID string) (*Session, error) {
	if userID == "" {
		userID = "anonymous"
	}
	now := time.Now().UTC()
	sess := &Session{
		ID:        uuid.NewString(),
		UserID:    userID,
		Status:    StatusCollecting,
		CreatedAt: now,
		UpdatedAt: now,
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO sessions (id, user_id, status, created_at, updated_at) VALUES (?, ?, ?, ?, ?)`,
		sess.ID, sess.UserID, string(sess.Status), sess.CreatedAt, sess.UpdatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting session: %w", err)
	}
	return sess, nil
}

// GetSession loads one session by ID.
func (s *Store) GetSession(ctx context.Context, id string) (*Session, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, user_id, status, original_input, pending_question, pending_category, last_category, created_at, updated_at
		 FROM sessions WHERE id = ?`, id)

	var sess Session
	var status, pendingCat, lastCat string
	err := row.Scan(&sess.ID, &sess.UserID, &status, &sess.OriginalInput,
		&sess.PendingQuestion, &pendingCat, &lastCat, &sess.CreatedAt, &sess.UpdatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrSessionNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("loading session: %w", err)
	}
	sess.Status = Status(status)
	sess.PendingCategory = policy.Category(pendingCat)
	sess.LastCategory = policy.Category(lastCat)
	return &sess, nil
}

// UpdateSession writes back mutable session fields.
func (s *Store) UpdateSession(ctx context.Context, sess *Session) error {
	sess.UpdatedAt = time.Now().UTC()
	res, err := s.db.ExecContext(ctx,
		`UPDATE sessions SET status = ?, original_input = ?, pending_question = ?,
		 pending_category = ?, last_category = ?, updated_at = ? WHERE id = ?`,
		string(sess.Status), sess.OriginalInput, sess.PendingQuestion,
		string(sess.PendingCategory), string(sess.LastCategory), sess.UpdatedAt, sess.ID)
	if err != nil {
		return fmt.Errorf("updating session: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return fmt.Errorf("%w: %s", ErrSessionNotFound, sess.ID)
	}
	return nil
}

// AddTurn appends one immutable question/answer exchange.
func (s *Store) AddTurn(ctx context.Context, turn Turn) (*Turn, error) {
	turn.ID = uuid.NewString()
	turn.CreatedAt = time.Now().UTC()

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO turns (id, session_id, question, answer, category, degraded, created_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		turn.ID, turn.SessionID, turn.Question, turn.Answer, string(turn.Category),
		boolToInt(turn.Degraded), turn.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("inserting turn: %w", err)
	}
	return &turn, nil
}

// GetTurns returns a session's turns oldest first.
func (s *Store) GetTurns(ctx context.Context, sessionID string) ([]Turn, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, session_id, question, answer, category, degraded, created_at
		 FROM turns WHERE session_id = ? ORDER BY created_at, id`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying turns: %w", err)
	}
	defer rows.Close()

	var turns []Turn
	for rows.Next() {
		var t Turn
		var category string
		var degraded int
		if err := rows.Scan(&t.ID, &t.SessionID, &t.Question, &t.Answer, &category, &degraded, &t.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning turn: %w", err)
		}
		t.Category = policy.Category(category)
		t.Degraded = degraded != 0
		turns = append(turns, t)
	}
	return turns, rows.Err()
}

// SaveRecord upserts the session's current facts record as JSON.
func (s *Store) SaveRecord(ctx context.Context, sessionID string, rec facts.Record) error {
	data, err := json.Marshal(rec)
	if err != nil {
		return fmt.Errorf("marshalling record: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO fact_records (session_id, data, updated_at) VALUES (?, ?, ?)
		 ON CONFLICT(session_id) DO UPDATE SET data = excluded.data, updated_at = excluded.updated_at`,
		sessionID, string(data), time.Now().UTC())
	if err != nil {
		return fmt.Errorf("saving record: %w", err)
	}
	return nil
}

// GetRecord loads the session's facts record, or nil if none exists yet.
func (s *Store) GetRecord(ctx context.Context, sessionID string) (*facts.Record, error) {
	var data string
	err := s.db.QueryRowContext(ctx,
		`SELECT data FROM fact_records WHERE session_id = ?`, sessionID).Scan(&data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("loading record: %w", err)
	}

	var rec facts.Record
	if err := json.Unmarshal([]byte(data), &rec); err != nil {
		return nil, fmt.Errorf("unmarshalling record: %w", err)
	}
	return &rec, nil
}

// SaveConfirmationState appends one confirmation snapshot.
func (s *Store) SaveConfirmationState(ctx context.Context, sessionID string, st confirm.State) error {
	data, err := json.Marshal(st)
	if err != nil {
		return fmt.Errorf("marshalling confirmation state: %w", err)
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO confirmation_states (id, session_id, seq, phase, data, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		st.ID, sessionID, st.Seq, string(st.Phase), string(data), st.CreatedAt)
	if err != nil {
		return fmt.Errorf("saving confirmation state: %w", err)
	}
	return nil
}

// GetConfirmationStates returns a session's confirmation snapshots in
// sequence order.
func (s *Store) GetConfirmationStates(ctx context.Context, sessionID string) ([]confirm.State, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT data FROM confirmation_states WHERE session_id = ? ORDER BY seq`, sessionID)
	if err != nil {
		return nil, fmt.Errorf("querying confirmation states: %w", err)
	}
	defer rows.Close()

	var states []confirm.State
	for rows.Next() {
		var data string
		if err := rows.Scan(&data); err != nil {
			return nil, fmt.Errorf("scanning confirmation state: %w", err)
		}
		var st confirm.State
		if err := json.Unmarshal([]byte(data), &st); err != nil {
			return nil, fmt.Errorf("unmarshalling confirmation state: %w", err)
		}
		states = append(states, st)
	}
	return states, rows.Err()
}

// ClearSessionData removes a session's turns, record and confirmation
// snapshots, used on restart. The session row itself stays.
func (s *Store) ClearSessionData(ctx context.Context, sessionID string) error {
	for _, q := range []string{
		`DELETE FROM turns WHERE session_id = ?`,
		`DELETE FROM fact_records WHERE session_id = ?`,
		`DELETE FROM confirmation_states WHERE session_id = ?`,
	} {
		if _, err := s.db.ExecContext(ctx, q, sessionID); err != nil {
			return fmt.Errorf("clearing session data: %w", err)
		}
	}
	return nil
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
