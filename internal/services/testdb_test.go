package services

import (
	"fmt"
	"path/filepath"
	"testing"

	"factlab/internal/db"
	"factlab/internal/models"
	"factlab/internal/utils"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB points the global handle at a throwaway sqlite database with
// the production schema. Foreign keys are switched on so the parent-comment
// RESTRICT constraint behaves like it does on Postgres.
func setupTestDB(t *testing.T) {
	t.Helper()

	dsn := filepath.Join(t.TempDir(), "factlab-test.db") + "?_pragma=foreign_keys(1)"
	gdb, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := db.Migrate(gdb); err != nil {
		t.Fatalf("migrate test db: %v", err)
	}
	db.DB = gdb

	// The cache outlives individual tests; drop anything a previous test
	// left behind under the same content/comment ids.
	utils.GetCache().Purge()
}

func dbFirst(dest interface{}, id uint) error {
	return db.DB.First(dest, id).Error
}

func seedUser(t *testing.T, username string) *models.User {
	t.Helper()
	user := models.User{
		Username: username,
		Email:    fmt.Sprintf("%s@example.com", username),
	}
	if err := db.DB.Create(&user).Error; err != nil {
		t.Fatalf("seed user %s: %v", username, err)
	}
	return &user
}

func seedNews(t *testing.T, title, analysis string) *models.Content {
	t.Helper()
	content := models.Content{
		Kind:         models.ContentKindNews,
		Title:        title,
		AnalysisType: analysis,
		Source:       "연합뉴스",
	}
	if err := db.DB.Create(&content).Error; err != nil {
		t.Fatalf("seed news %s: %v", title, err)
	}
	return &content
}

func seedPost(t *testing.T, title string, author *models.User) *models.Content {
	t.Helper()
	board := models.Board{Name: fmt.Sprintf("board-%s", title)}
	if err := db.DB.Create(&board).Error; err != nil {
		t.Fatalf("seed board: %v", err)
	}
	content := models.Content{
		Kind:     models.ContentKindPost,
		Title:    title,
		BoardID:  &board.ID,
		AuthorID: &author.ID,
	}
	if err := db.DB.Create(&content).Error; err != nil {
		t.Fatalf("seed post %s: %v", title, err)
	}
	return &content
}
