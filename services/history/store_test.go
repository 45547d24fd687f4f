package history

import (
	"context"
	"errors"
	"os"
	"testing"
	"time"

	"github.com/careerclimb/careerclimb/pkg/config"
	"github.com/careerclimb/careerclimb/pkg/database"
	"github.com/careerclimb/careerclimb/pkg/testutil"
	"github.com/careerclimb/careerclimb/services/career"
)

func intPtr(n int) *int { return &n }

func seedItems(t *testing.T, store Store, userID string, n int) []*Item {
	t.Helper()
	base := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	items := make([]*Item, n)
	for i := 0; i < n; i++ {
		items[i] = &Item{
			UserID:    userID,
			Type:      "email_generation",
			Input:     "input",
			Output:    "output",
			Provider:  "gemini",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}
		if err := store.AddItem(context.Background(), items[i]); err != nil {
			t.Fatalf("AddItem() error = %v", err)
		}
	}
	return items
}

// ===== Memory store =====

func TestMemoryStore_AddItem(t *testing.T) {
	store := NewMemoryStore()
	item := &Item{UserID: "u1", Type: "resume_analysis", Input: "cv", Output: "Score: 80/100", Score: intPtr(80)}

	if err := store.AddItem(context.Background(), item); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}
	if item.ID == "" {
		t.Error("AddItem() should assign an ID")
	}
	if item.CreatedAt.IsZero() {
		t.Error("AddItem() should set CreatedAt")
	}

	items, err := store.ListItems(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(items) != 1 {
		t.Fatalf("len(items) = %d, want 1", len(items))
	}
	if *items[0].Score != 80 {
		t.Errorf("Score = %d, want 80", *items[0].Score)
	}

	// Returned items are copies.
	*items[0].Score = 1
	again, _ := store.ListItems(context.Background(), "u1", 0)
	if *again[0].Score != 80 {
		t.Errorf("stored score mutated through copy: %d", *again[0].Score)
	}
}

func TestMemoryStore_ListItems_NewestFirst(t *testing.T) {
	store := NewMemoryStore()
	items := seedItems(t, store, "u1", 3)
	seedItems(t, store, "u2", 2)

	got, err := store.ListItems(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len(items) = %d, want 3", len(got))
	}
	if got[0].ID != items[2].ID || got[2].ID != items[0].ID {
		t.Errorf("items not newest first: %v, %v, %v", got[0].ID, got[1].ID, got[2].ID)
	}

	limited, _ := store.ListItems(context.Background(), "u1", 2)
	if len(limited) != 2 {
		t.Errorf("len(limited) = %d, want 2", len(limited))
	}
}

func TestMemoryStore_DeleteItem(t *testing.T) {
	store := NewMemoryStore()
	items := seedItems(t, store, "u1", 2)

	if err := store.DeleteItem(context.Background(), "u2", items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("DeleteItem(other user) error = %v, want ErrNotFound", err)
	}
	if err := store.DeleteItem(context.Background(), "u1", items[0].ID); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	got, _ := store.ListItems(context.Background(), "u1", 0)
	if len(got) != 1 || got[0].ID != items[1].ID {
		t.Errorf("remaining items = %+v", got)
	}
}

func TestMemoryStore_ClearItems(t *testing.T) {
	store := NewMemoryStore()
	seedItems(t, store, "u1", 3)
	seedItems(t, store, "u2", 1)

	n, err := store.ClearItems(context.Background(), "u1")
	if err != nil {
		t.Fatalf("ClearItems() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ClearItems() = %d, want 3", n)
	}
	if got, _ := store.ListItems(context.Background(), "u1", 0); len(got) != 0 {
		t.Errorf("len(u1 items) = %d, want 0", len(got))
	}
	if got, _ := store.ListItems(context.Background(), "u2", 0); len(got) != 1 {
		t.Errorf("len(u2 items) = %d, want 1", len(got))
	}
}

func TestMemoryStore_CoverLetters(t *testing.T) {
	store := NewMemoryStore()
	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 7; i++ {
		err := store.SaveCoverLetter(context.Background(), &CoverLetter{
			UserID:         "u1",
			CompanyName:    "Acme",
			JobTitle:       "SRE",
			CompanyCulture: "remote-first",
			Content:        "Dear Hiring Manager",
			CreatedAt:      base.Add(time.Duration(i) * time.Hour),
		})
		if err != nil {
			t.Fatalf("SaveCoverLetter() error = %v", err)
		}
	}

	letters, err := store.ListCoverLetters(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ListCoverLetters() error = %v", err)
	}
	if len(letters) != DefaultCoverLetterLimit {
		t.Fatalf("len(letters) = %d, want %d", len(letters), DefaultCoverLetterLimit)
	}
	if !letters[0].CreatedAt.Equal(base.Add(6 * time.Hour)) {
		t.Errorf("first letter CreatedAt = %v, want newest", letters[0].CreatedAt)
	}
	if letters[0].CompanyName != "Acme" || letters[0].JobTitle != "SRE" || letters[0].CompanyCulture != "remote-first" {
		t.Errorf("letter = %+v", letters[0])
	}

	all, _ := store.ListCoverLetters(context.Background(), "u1", 10)
	if len(all) != 7 {
		t.Errorf("len(all) = %d, want 7", len(all))
	}
}

func TestMemoryStore_InterviewSessions(t *testing.T) {
	store := NewMemoryStore()
	for _, industry := range []string{"Tech", "Finance"} {
		err := store.SaveInterviewSession(context.Background(), &InterviewSession{UserID: "u1", Industry: industry, Difficulty: "Junior"})
		if err != nil {
			t.Fatalf("SaveInterviewSession() error = %v", err)
		}
	}

	sessions, err := store.ListInterviewSessions(context.Background(), "u1", 0)
	if err != nil {
		t.Fatalf("ListInterviewSessions() error = %v", err)
	}
	if len(sessions) != 2 || sessions[0].Industry != "Finance" {
		t.Errorf("sessions = %+v", sessions)
	}
	if sessions[0].ID == "" {
		t.Error("SaveInterviewSession() should assign an ID")
	}
}

func TestNewStore(t *testing.T) {
	store, err := NewStore(StoreOptions{Backend: config.StorageMemory})
	if err != nil {
		t.Fatalf("NewStore() error = %v", err)
	}
	if _, ok := store.(*MemoryStore); !ok {
		t.Errorf("NewStore(memory) = %T, want *MemoryStore", store)
	}

	if _, err := NewStore(StoreOptions{Backend: config.StoragePostgres}); err == nil {
		t.Error("NewStore(postgres) without DB should fail")
	}
}

// ===== Recorder =====

func TestRecorder(t *testing.T) {
	store := NewMemoryStore()
	rec := NewRecorder(store)

	err := rec.Record(context.Background(), gatewayRecord("u1"))
	if err != nil {
		t.Fatalf("Record() error = %v", err)
	}
	items, _ := store.ListItems(context.Background(), "u1", 0)
	if len(items) != 1 || items[0].Type != "resume_analysis" || *items[0].Score != 64 {
		t.Errorf("items = %+v", items)
	}

	if err := rec.Record(context.Background(), gatewayRecord("")); !errors.Is(err, ErrMissingUser) {
		t.Errorf("Record(no user) error = %v, want ErrMissingUser", err)
	}

	session := &career.Session{
		UserID:        "u1",
		Industry:      "Tech",
		Difficulty:    "Senior",
		FinalFeedback: career.FinalFeedback{OverallScore: 81, TechnicalScore: 77},
		CreatedAt:     time.Now(),
	}
	if err := rec.SaveSession(context.Background(), session); err != nil {
		t.Fatalf("SaveSession() error = %v", err)
	}
	sessions, _ := store.ListInterviewSessions(context.Background(), "u1", 0)
	if len(sessions) != 1 || sessions[0].OverallScore != 81 || sessions[0].TechnicalScore != 77 {
		t.Errorf("sessions = %+v", sessions)
	}
}

// ===== PostgreSQL integration =====

func setupTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := database.DefaultConfig()
	if host := os.Getenv("POSTGRES_HOST"); host != "" {
		cfg.Host = host
	}
	cfg.Database = "careerclimb_test"

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	db, err := database.Connect(ctx, cfg)
	if err != nil {
		t.Skipf("PostgreSQL not available: %v", err)
	}
	if err := Migrate(ctx, db, testutil.DiscardLogger()); err != nil {
		db.Close()
		t.Fatalf("Migrate() error = %v", err)
	}

	t.Cleanup(func() {
		for _, table := range []string{"user_history", "cover_letters", "interview_sessions"} {
			if _, err := db.ExecContext(context.Background(), "DELETE FROM "+table); err != nil {
				t.Logf("cleanup %s: %v", table, err)
			}
		}
		db.Close()
	})
	return db
}

func TestPostgresStore_Items_Integration(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostgresStore(db.DB)
	ctx := context.Background()

	items := seedItems(t, store, "pg-user", 3)
	scored := &Item{UserID: "pg-user", Type: "resume_analysis", Input: "cv", Output: "Score: 55/100", Score: intPtr(55), CreatedAt: time.Now().UTC()}
	if err := store.AddItem(ctx, scored); err != nil {
		t.Fatalf("AddItem() error = %v", err)
	}

	got, err := store.ListItems(ctx, "pg-user", 0)
	if err != nil {
		t.Fatalf("ListItems() error = %v", err)
	}
	if len(got) != 4 {
		t.Fatalf("len(items) = %d, want 4", len(got))
	}
	if got[0].ID != scored.ID || got[0].Score == nil || *got[0].Score != 55 {
		t.Errorf("newest item = %+v", got[0])
	}
	if got[1].Score != nil {
		t.Errorf("unscored item Score = %d, want nil", *got[1].Score)
	}

	if err := store.DeleteItem(ctx, "pg-user", items[0].ID); err != nil {
		t.Fatalf("DeleteItem() error = %v", err)
	}
	if err := store.DeleteItem(ctx, "pg-user", items[0].ID); !errors.Is(err, ErrNotFound) {
		t.Errorf("second DeleteItem() error = %v, want ErrNotFound", err)
	}

	n, err := store.ClearItems(ctx, "pg-user")
	if err != nil {
		t.Fatalf("ClearItems() error = %v", err)
	}
	if n != 3 {
		t.Errorf("ClearItems() = %d, want 3", n)
	}
}

func TestPostgresStore_CoverLettersAndSessions_Integration(t *testing.T) {
	db := setupTestDB(t)
	store := NewPostgresStore(db.DB)
	ctx := context.Background()

	base := time.Now().UTC().Add(-time.Hour)
	for i := 0; i < 6; i++ {
		if err := store.SaveCoverLetter(ctx, &CoverLetter{
			UserID: "pg-user", CompanyName: "Acme", JobTitle: "SRE", JobDescription: "Run prod",
			CompanyCulture: "remote-first", Tone: "formal", Content: "letter",
			CreatedAt: base.Add(time.Duration(i) * time.Minute),
		}); err != nil {
			t.Fatalf("SaveCoverLetter() error = %v", err)
		}
	}
	letters, err := store.ListCoverLetters(ctx, "pg-user", 0)
	if err != nil {
		t.Fatalf("ListCoverLetters() error = %v", err)
	}
	if len(letters) != DefaultCoverLetterLimit {
		t.Fatalf("len(letters) = %d, want %d", len(letters), DefaultCoverLetterLimit)
	}
	if l := letters[0]; l.CompanyName != "Acme" || l.JobTitle != "SRE" || l.CompanyCulture != "remote-first" || l.Tone != "formal" {
		t.Errorf("letter = %+v", l)
	}

	session := &InterviewSession{
		UserID:     "pg-user",
		Industry:   "Tech",
		Difficulty: "Mid-level",
		Questions:  []career.InterviewQuestion{{Question: "Q1", KeyPoints: []string{"a"}}},
		Responses:  []career.AnswerFeedback{{Transcription: "A1", Clarity: 80}},
		FinalFeedback: career.FinalFeedback{
			OverallScore: 82,
			Strengths:    []string{"Clear"},
		},
		OverallScore: 82,
	}
	if err := store.SaveInterviewSession(ctx, session); err != nil {
		t.Fatalf("SaveInterviewSession() error = %v", err)
	}
	sessions, err := store.ListInterviewSessions(ctx, "pg-user", 0)
	if err != nil {
		t.Fatalf("ListInterviewSessions() error = %v", err)
	}
	if len(sessions) != 1 {
		t.Fatalf("len(sessions) = %d, want 1", len(sessions))
	}
	got := sessions[0]
	if got.Questions[0].Question != "Q1" || got.Responses[0].Clarity != 80 || got.FinalFeedback.Strengths[0] != "Clear" {
		t.Errorf("session = %+v", got)
	}
}
