package history

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/careerclimb/careerclimb/pkg/config"
)

// Store defines the interface for history storage operations. Every
// operation is scoped to a single user.
type Store interface {
	AddItem(ctx context.Context, item *Item) error
	ListItems(ctx context.Context, userID string, limit int) ([]*Item, error)
	DeleteItem(ctx context.Context, userID, id string) error
	ClearItems(ctx context.Context, userID string) (int, error)

	SaveCoverLetter(ctx context.Context, letter *CoverLetter) error
	ListCoverLetters(ctx context.Context, userID string, limit int) ([]*CoverLetter, error)

	SaveInterviewSession(ctx context.Context, session *InterviewSession) error
	ListInterviewSessions(ctx context.Context, userID string, limit int) ([]*InterviewSession, error)
}

// StoreOptions contains configuration for creating a store.
type StoreOptions struct {
	Backend config.StorageBackend
	DB      *sql.DB
}

// NewStore creates a new Store based on the provided options.
func NewStore(opts StoreOptions) (Store, error) {
	switch opts.Backend {
	case config.StoragePostgres:
		if opts.DB == nil {
			return nil, fmt.Errorf("database connection required for postgres backend")
		}
		return NewPostgresStore(opts.DB), nil
	default:
		return NewMemoryStore(), nil
	}
}

// MemoryStore is an in-memory implementation of Store.
type MemoryStore struct {
	mu       sync.RWMutex
	items    map[string][]*Item // user id -> items, oldest first
	letters  map[string][]*CoverLetter
	sessions map[string][]*InterviewSession
}

// NewMemoryStore creates a new in-memory history store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		items:    make(map[string][]*Item),
		letters:  make(map[string][]*CoverLetter),
		sessions: make(map[string][]*InterviewSession),
	}
}

func (s *MemoryStore) AddItem(ctx context.Context, item *Item) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepareItem(item)
	s.items[item.UserID] = append(s.items[item.UserID], copyItem(item))
	return nil
}

func (s *MemoryStore) ListItems(ctx context.Context, userID string, limit int) ([]*Item, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	items := s.items[userID]
	out := make([]*Item, 0, len(items))
	for _, it := range items {
		out = append(out, copyItem(it))
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) DeleteItem(ctx context.Context, userID, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	items := s.items[userID]
	for i, it := range items {
		if it.ID == id {
			s.items[userID] = append(items[:i:i], items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("history item %s: %w", id, ErrNotFound)
}

func (s *MemoryStore) ClearItems(ctx context.Context, userID string) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	n := len(s.items[userID])
	delete(s.items, userID)
	return n, nil
}

func (s *MemoryStore) SaveCoverLetter(ctx context.Context, letter *CoverLetter) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if letter.ID == "" {
		letter.ID = NewID()
	}
	if letter.CreatedAt.IsZero() {
		letter.CreatedAt = time.Now().UTC()
	}
	c := *letter
	s.letters[letter.UserID] = append(s.letters[letter.UserID], &c)
	return nil
}

func (s *MemoryStore) ListCoverLetters(ctx context.Context, userID string, limit int) ([]*CoverLetter, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if limit <= 0 {
		limit = DefaultCoverLetterLimit
	}
	letters := s.letters[userID]
	out := make([]*CoverLetter, 0, len(letters))
	for _, l := range letters {
		c := *l
		out = append(out, &c)
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	if len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *MemoryStore) SaveInterviewSession(ctx context.Context, session *InterviewSession) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if session.ID == "" {
		session.ID = NewID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}
	c := *session
	s.sessions[session.UserID] = append(s.sessions[session.UserID], &c)
	return nil
}

func (s *MemoryStore) ListInterviewSessions(ctx context.Context, userID string, limit int) ([]*InterviewSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	sessions := s.sessions[userID]
	out := make([]*InterviewSession, 0, len(sessions))
	for i := len(sessions) - 1; i >= 0; i-- {
		c := *sessions[i]
		out = append(out, &c)
	}
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func prepareItem(item *Item) {
	if item.ID == "" {
		item.ID = NewID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = time.Now().UTC()
	}
}

// PostgresStore implements Store using PostgreSQL.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore creates a new PostgreSQL-backed store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) AddItem(ctx context.Context, item *Item) error {
	prepareItem(item)

	var score sql.NullInt64
	if item.Score != nil {
		score = sql.NullInt64{Int64: int64(*item.Score), Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO user_history (id, user_id, type, input, output, score, provider, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
	`, item.ID, item.UserID, item.Type, item.Input, item.Output, score, item.Provider, item.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert history item: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListItems(ctx context.Context, userID string, limit int) ([]*Item, error) {
	query := `
		SELECT id, user_id, type, input, output, score, provider, created_at
		FROM user_history WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query history items: %w", err)
	}
	defer rows.Close()

	items := make([]*Item, 0)
	for rows.Next() {
		var it Item
		var score sql.NullInt64
		if err := rows.Scan(&it.ID, &it.UserID, &it.Type, &it.Input, &it.Output, &score, &it.Provider, &it.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan history item: %w", err)
		}
		if score.Valid {
			n := int(score.Int64)
			it.Score = &n
		}
		items = append(items, &it)
	}
	return items, rows.Err()
}

func (s *PostgresStore) DeleteItem(ctx context.Context, userID, id string) error {
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM user_history WHERE id = $1 AND user_id = $2
	`, id, userID)
	if err != nil {
		return fmt.Errorf("failed to delete history item: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to delete history item: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("history item %s: %w", id, ErrNotFound)
	}
	return nil
}

func (s *PostgresStore) ClearItems(ctx context.Context, userID string) (int, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM user_history WHERE user_id = $1`, userID)
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to clear history: %w", err)
	}
	return int(n), nil
}

func (s *PostgresStore) SaveCoverLetter(ctx context.Context, letter *CoverLetter) error {
	if letter.ID == "" {
		letter.ID = NewID()
	}
	if letter.CreatedAt.IsZero() {
		letter.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO cover_letters (id, user_id, company_name, job_title, job_description, company_culture, tone, content, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, letter.ID, letter.UserID, letter.CompanyName, letter.JobTitle, letter.JobDescription,
		letter.CompanyCulture, letter.Tone, letter.Content, letter.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert cover letter: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListCoverLetters(ctx context.Context, userID string, limit int) ([]*CoverLetter, error) {
	if limit <= 0 {
		limit = DefaultCoverLetterLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, user_id, company_name, job_title, job_description, company_culture, tone, content, created_at
		FROM cover_letters WHERE user_id = $1
		ORDER BY created_at DESC LIMIT $2
	`, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query cover letters: %w", err)
	}
	defer rows.Close()

	letters := make([]*CoverLetter, 0)
	for rows.Next() {
		var l CoverLetter
		if err := rows.Scan(&l.ID, &l.UserID, &l.CompanyName, &l.JobTitle, &l.JobDescription,
			&l.CompanyCulture, &l.Tone, &l.Content, &l.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan cover letter: %w", err)
		}
		letters = append(letters, &l)
	}
	return letters, rows.Err()
}

func (s *PostgresStore) SaveInterviewSession(ctx context.Context, session *InterviewSession) error {
	if session.ID == "" {
		session.ID = NewID()
	}
	if session.CreatedAt.IsZero() {
		session.CreatedAt = time.Now().UTC()
	}

	questions, err := json.Marshal(session.Questions)
	if err != nil {
		return fmt.Errorf("failed to marshal questions: %w", err)
	}
	responses, err := json.Marshal(session.Responses)
	if err != nil {
		return fmt.Errorf("failed to marshal responses: %w", err)
	}
	feedback, err := json.Marshal(session.FinalFeedback)
	if err != nil {
		return fmt.Errorf("failed to marshal final feedback: %w", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO interview_sessions (
			id, user_id, industry, difficulty, questions, responses, final_feedback,
			overall_score, communication_score, confidence_score, technical_score, created_at
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
	`, session.ID, session.UserID, session.Industry, session.Difficulty,
		questions, responses, feedback,
		session.OverallScore, session.CommunicationScore, session.ConfidenceScore, session.TechnicalScore,
		session.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to insert interview session: %w", err)
	}
	return nil
}

func (s *PostgresStore) ListInterviewSessions(ctx context.Context, userID string, limit int) ([]*InterviewSession, error) {
	query := `
		SELECT id, user_id, industry, difficulty, questions, responses, final_feedback,
			overall_score, communication_score, confidence_score, technical_score, created_at
		FROM interview_sessions WHERE user_id = $1
		ORDER BY created_at DESC
	`
	args := []interface{}{userID}
	if limit > 0 {
		query += " LIMIT $2"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query interview sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]*InterviewSession, 0)
	for rows.Next() {
		var sess InterviewSession
		var questions, responses, feedback []byte
		if err := rows.Scan(&sess.ID, &sess.UserID, &sess.Industry, &sess.Difficulty,
			&questions, &responses, &feedback,
			&sess.OverallScore, &sess.CommunicationScore, &sess.ConfidenceScore, &sess.TechnicalScore,
			&sess.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan interview session: %w", err)
		}
		if err := json.Unmarshal(questions, &sess.Questions); err != nil {
			return nil, fmt.Errorf("failed to unmarshal questions: %w", err)
		}
		if err := json.Unmarshal(responses, &sess.Responses); err != nil {
			return nil, fmt.Errorf("failed to unmarshal responses: %w", err)
		}
		if err := json.Unmarshal(feedback, &sess.FinalFeedback); err != nil {
			return nil, fmt.Errorf("failed to unmarshal final feedback: %w", err)
		}
		sessions = append(sessions, &sess)
	}
	return sessions, rows.Err()
}

var (
	_ Store = (*MemoryStore)(nil)
	_ Store = (*PostgresStore)(nil)
)
