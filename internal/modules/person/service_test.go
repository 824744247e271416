package person

import (
	"errors"
	"testing"

	"github.com/daybook-app/core/internal/database"
	"github.com/daybook-app/core/internal/models"
	"github.com/daybook-app/core/internal/pkg/pagination"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

func testDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open sqlite: %v", err)
	}
	sqlDB, err := db.DB()
	if err != nil {
		t.Fatalf("raw db: %v", err)
	}
	sqlDB.SetMaxOpenConns(1)

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func TestPersonCRUD(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	svc := NewService(db)

	nick := "Addie"
	p, err := svc.Create("user-a", &CreatePersonDTO{Name: "Ada", Surname: "Lovelace", Nickname: &nick})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	got, err := svc.Get("user-a", p.ID)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Name != "Ada" || got.Nickname == nil || *got.Nickname != "Addie" {
		t.Fatalf("Get() = %+v", got)
	}

	newName := "Augusta"
	if _, err := svc.Update("user-a", p.ID, &UpdatePersonDTO{Name: &newName}); err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	got, err = svc.Get("user-a", p.ID)
	if err != nil {
		t.Fatalf("Get() after update error = %v", err)
	}
	if got.Name != "Augusta" || got.Surname != "Lovelace" {
		t.Fatalf("update touched wrong fields: %+v", got)
	}

	if err := svc.Delete("user-a", p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if _, err := svc.Get("user-a", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() after delete error = %v, want ErrNotFound", err)
	}
}

func TestPersonOwnerScoping(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	svc := NewService(db)

	p, err := svc.Create("user-a", &CreatePersonDTO{Name: "Ada", Surname: "Lovelace"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	if _, err := svc.Get("user-b", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Get() as other user error = %v, want ErrNotFound", err)
	}
	if err := svc.Delete("user-b", p.ID); !errors.Is(err, ErrNotFound) {
		t.Fatalf("Delete() as other user error = %v, want ErrNotFound", err)
	}

	persons, _, err := svc.List("user-b", pagination.Query{Page: 1, Size: 20})
	if err != nil {
		t.Fatalf("List() error = %v", err)
	}
	if len(persons) != 0 {
		t.Fatalf("List() as other user = %d rows, want 0", len(persons))
	}
}

func TestPersonDeleteDetachesMentions(t *testing.T) {
	t.Parallel()

	db := testDB(t)
	svc := NewService(db)

	p, err := svc.Create("user-a", &CreatePersonDTO{Name: "Ada", Surname: "Lovelace"})
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}

	entry := models.EntryModel{AuthorID: "user-a", Date: "2026-08-27", Content: "<p>x</p>", Text: "x"}
	if err := db.Create(&entry).Error; err != nil {
		t.Fatalf("seed entry: %v", err)
	}
	if err := db.Create(&models.MentionModel{EntryID: entry.ID, PersonID: p.ID}).Error; err != nil {
		t.Fatalf("seed mention: %v", err)
	}

	if err := svc.Delete("user-a", p.ID); err != nil {
		t.Fatalf("Delete() error = %v", err)
	}

	var mentions int64
	db.Model(&models.MentionModel{}).Count(&mentions)
	if mentions != 0 {
		t.Fatalf("mention rows = %d, want 0", mentions)
	}
	var entries int64
	db.Model(&models.EntryModel{}).Count(&entries)
	if entries != 1 {
		t.Fatalf("entry rows = %d, entry must survive person delete", entries)
	}
}
