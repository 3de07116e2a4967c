package repositories

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"crate/internal/models"
	"crate/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}

	if _, err := db.Exec("PRAGMA foreign_keys = ON"); err != nil {
		db.Close()
		t.Fatalf("failed to enable foreign keys: %v", err)
	}

	if err := shared.RunMigrations(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func createTestUser(t *testing.T, db *sql.DB) *models.User {
	t.Helper()

	repo := NewUserRepository(db)
	user := models.NewUser(0, "test@example.com", "$2a$10$fakehashfakehashfakehash")
	if err := repo.Create(user); err != nil {
		t.Fatalf("failed to create user: %v", err)
	}
	return user
}

func TestUserRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)

		if user.ID() == "" {
			t.Error("user ID should be set after creation")
		}
	})

	t.Run("Duplicate Email", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		createTestUser(t, db)

		dup := models.NewUser(0, "test@example.com", "$2a$10$otherhash")
		if err := repo.Create(dup); err == nil {
			t.Error("expected error for duplicate email")
		}
	})

	t.Run("GetByEmail", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db)

		retrieved, err := repo.GetByEmail("test@example.com")
		if err != nil {
			t.Fatalf("failed to get user by email: %v", err)
		}
		if retrieved.ID() != user.ID() {
			t.Errorf("expected ID %s, got %s", user.ID(), retrieved.ID())
		}
		if retrieved.PasswordHash() != user.PasswordHash() {
			t.Error("password hash should round-trip")
		}
	})

	t.Run("Get Missing", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		if _, err := repo.Get("nonexistent"); !errors.Is(err, shared.ErrUserNotFound) {
			t.Errorf("expected ErrUserNotFound, got %v", err)
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewUserRepository(db)
		user := createTestUser(t, db)

		if err := repo.Delete(user.ID()); err != nil {
			t.Fatalf("failed to delete user: %v", err)
		}

		if _, err := repo.Get(user.ID()); err == nil {
			t.Error("expected error when getting deleted user")
		}
	})
}

func TestSessionRepository(t *testing.T) {
	t.Run("Create And GetByToken", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewSessionRepository(db)

		session := models.NewSession(user.ID(), "tok-123", time.Hour)
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		retrieved, err := repo.GetByToken("tok-123")
		if err != nil {
			t.Fatalf("failed to get session: %v", err)
		}
		if retrieved.UserID() != user.ID() {
			t.Errorf("expected user %s, got %s", user.ID(), retrieved.UserID())
		}
	})

	t.Run("Unknown Token", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		repo := NewSessionRepository(db)
		if _, err := repo.GetByToken("missing"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated, got %v", err)
		}
	})

	t.Run("Expired Token", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewSessionRepository(db)

		session := models.NewSession(user.ID(), "tok-expired", -time.Minute)
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if _, err := repo.GetByToken("tok-expired"); !errors.Is(err, shared.ErrSessionExpired) {
			t.Errorf("expected ErrSessionExpired, got %v", err)
		}

		// Expired sessions are evicted on read
		if _, err := repo.GetByToken("tok-expired"); !errors.Is(err, shared.ErrNotAuthenticated) {
			t.Errorf("expected ErrNotAuthenticated after eviction, got %v", err)
		}
	})

	t.Run("DeleteByToken", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewSessionRepository(db)

		session := models.NewSession(user.ID(), "tok-del", time.Hour)
		if err := repo.Create(session); err != nil {
			t.Fatalf("failed to create session: %v", err)
		}

		if err := repo.DeleteByToken("tok-del"); err != nil {
			t.Fatalf("failed to delete session: %v", err)
		}

		if _, err := repo.GetByToken("tok-del"); err == nil {
			t.Error("expected error after logout")
		}
	})
}

func testRecordData() models.RecordData {
	return models.RecordData{
		Artist:      "John Coltrane",
		Album:       "Blue Train",
		Year:        1957,
		Label:       "Blue Note",
		Genres:      []string{"Jazz"},
		Styles:      []string{"Hard Bop"},
		Musicians:   []string{"Lee Morgan (Trumpet)", "Curtis Fuller (Trombone)"},
		MasterURL:   "https://www.discogs.com/master/9600",
		ReleaseURL:  "https://www.discogs.com/release/8067003",
		ReleaseYear: 2014,
		Barcode:     "0724349568716",
	}
}

func TestRecordRepository(t *testing.T) {
	t.Run("Create", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewRecordRepository(db)

		record := models.NewRecord(0, user.ID(), testRecordData())
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		if record.ID() == "" {
			t.Error("record ID should be set after creation")
		}
	})

	t.Run("Create Requires Artist And Album", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewRecordRepository(db)

		record := models.NewRecord(0, user.ID(), models.RecordData{Album: "Blue Train"})
		if err := repo.Create(record); err == nil {
			t.Error("expected validation error for missing artist")
		}

		record = models.NewRecord(0, user.ID(), models.RecordData{Artist: "John Coltrane"})
		if err := repo.Create(record); err == nil {
			t.Error("expected validation error for missing album")
		}
	})

	t.Run("Get Round Trips Lists", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewRecordRepository(db)

		record := models.NewRecord(0, user.ID(), testRecordData())
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}

		if len(retrieved.Musicians()) != 2 {
			t.Errorf("expected 2 musicians, got %d", len(retrieved.Musicians()))
		}
		if len(retrieved.Genres()) != 1 || retrieved.Genres()[0] != "Jazz" {
			t.Errorf("genres did not round-trip: %v", retrieved.Genres())
		}
		if retrieved.ReleaseYear() != 2014 {
			t.Errorf("expected release year 2014, got %d", retrieved.ReleaseYear())
		}
	})

	t.Run("GetForUser Scopes Ownership", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewRecordRepository(db)

		record := models.NewRecord(0, user.ID(), testRecordData())
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		if _, err := repo.GetForUser(user.ID(), record.ID()); err != nil {
			t.Errorf("owner should see the record: %v", err)
		}

		if _, err := repo.GetForUser("someone-else", record.ID()); !errors.Is(err, shared.ErrRecordNotFound) {
			t.Errorf("expected ErrRecordNotFound for other user, got %v", err)
		}
	})

	t.Run("Update Notes", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewRecordRepository(db)

		record := models.NewRecord(0, user.ID(), testRecordData())
		if err := repo.Create(record); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		record.SetNotes("first pressing, NM sleeve")
		if err := repo.Update(record); err != nil {
			t.Fatalf("failed to update record: %v", err)
		}

		retrieved, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("failed to get record: %v", err)
		}
		if retrieved.Notes() != "first pressing, NM sleeve" {
			t.Errorf("notes did not persist: %q", retrieved.Notes())
		}
	})

	t.Run("Delete And List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewRecordRepository(db)

		first := models.NewRecord(0, user.ID(), testRecordData())
		if err := repo.Create(first); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		data := testRecordData()
		data.Artist = "Chet Baker"
		data.Album = "Chet"
		second := models.NewRecord(0, user.ID(), data)
		if err := repo.Create(second); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		if err := repo.Delete(first.ID()); err != nil {
			t.Fatalf("failed to delete record: %v", err)
		}

		records, err := repo.List(map[string]any{"user_id": user.ID()})
		if err != nil {
			t.Fatalf("failed to list records: %v", err)
		}
		if len(records) != 1 {
			t.Fatalf("expected 1 record after delete, got %d", len(records))
		}
		if records[0].Album() != "Chet" {
			t.Errorf("expected remaining record 'Chet', got %q", records[0].Album())
		}
	})
}

func TestCustomColumnRepository(t *testing.T) {
	t.Run("Create And List", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewCustomColumnRepository(db)

		column := models.NewCustomColumn(0, user.ID(), models.ColumnData{
			Name:    "Condition",
			Type:    models.ColumnSelect,
			Options: []string{"Mint", "VG+", "VG"},
		})
		if err := repo.Create(column); err != nil {
			t.Fatalf("failed to create column: %v", err)
		}

		columns, err := repo.List(map[string]any{"user_id": user.ID()})
		if err != nil {
			t.Fatalf("failed to list columns: %v", err)
		}
		if len(columns) != 1 {
			t.Fatalf("expected 1 column, got %d", len(columns))
		}
		if len(columns[0].Options()) != 3 {
			t.Errorf("options did not round-trip: %v", columns[0].Options())
		}
	})

	t.Run("Select Requires Options", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewCustomColumnRepository(db)

		column := models.NewCustomColumn(0, user.ID(), models.ColumnData{Name: "Condition", Type: models.ColumnSelect})
		if err := repo.Create(column); err == nil {
			t.Error("expected validation error for select column without options")
		}
	})

	t.Run("Rejects Unknown Type", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		repo := NewCustomColumnRepository(db)

		column := models.NewCustomColumn(0, user.ID(), models.ColumnData{Name: "Weird", Type: "date"})
		if err := repo.Create(column); err == nil {
			t.Error("expected validation error for unsupported type")
		}
	})

	t.Run("SetValue Upserts", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		colRepo := NewCustomColumnRepository(db)
		recRepo := NewRecordRepository(db)

		column := models.NewCustomColumn(0, user.ID(), models.ColumnData{Name: "Rating", Type: models.ColumnNumber})
		if err := colRepo.Create(column); err != nil {
			t.Fatalf("failed to create column: %v", err)
		}

		record := models.NewRecord(0, user.ID(), testRecordData())
		if err := recRepo.Create(record); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		if err := colRepo.SetValue(record.ID(), column.ID(), "4"); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}
		if err := colRepo.SetValue(record.ID(), column.ID(), "5"); err != nil {
			t.Fatalf("failed to overwrite value: %v", err)
		}

		values, err := colRepo.ValuesForRecord(record.ID())
		if err != nil {
			t.Fatalf("failed to get values: %v", err)
		}
		if values[column.ID()] != "5" {
			t.Errorf("expected last write to win, got %q", values[column.ID()])
		}
	})

	t.Run("ValuesForUser", func(t *testing.T) {
		db := setupTestDB(t)
		defer db.Close()

		user := createTestUser(t, db)
		colRepo := NewCustomColumnRepository(db)
		recRepo := NewRecordRepository(db)

		column := models.NewCustomColumn(0, user.ID(), models.ColumnData{Name: "Owned", Type: models.ColumnBoolean})
		if err := colRepo.Create(column); err != nil {
			t.Fatalf("failed to create column: %v", err)
		}

		record := models.NewRecord(0, user.ID(), testRecordData())
		if err := recRepo.Create(record); err != nil {
			t.Fatalf("failed to create record: %v", err)
		}

		if err := colRepo.SetValue(record.ID(), column.ID(), "true"); err != nil {
			t.Fatalf("failed to set value: %v", err)
		}

		values, err := colRepo.ValuesForUser(user.ID())
		if err != nil {
			t.Fatalf("failed to get values: %v", err)
		}
		if values[record.ID()][column.ID()] != "true" {
			t.Errorf("expected value for record, got %v", values)
		}
	})
}
