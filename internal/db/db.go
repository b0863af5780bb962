package db

import (
	"log"
	"os"

	"factlab/internal/models"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Init() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		// Fallback for local dev if not set
		dsn = "host=localhost user=postgres password=postgres dbname=factlab port=5432 sslmode=disable TimeZone=Asia/Seoul"
	}

	var err error
	DB, err = gorm.Open(postgres.Open(dsn), &gorm.Config{
		// Surfaces unique/FK violations as gorm.ErrDuplicatedKey and
		// gorm.ErrForeignKeyViolated; the ballot and reply paths depend
		// on telling those apart from generic storage failures.
		TranslateError: true,
	})
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	log.Println("Database connection established")

	if err := Migrate(DB); err != nil {
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migration completed")

	seedBoards()
}

// Migrate creates or updates the schema. Exported so tests can run the same
// migration against their own database.
func Migrate(gdb *gorm.DB) error {
	return gdb.AutoMigrate(
		&models.User{},
		&models.Board{},
		&models.Content{},
		&models.Comment{},
		&models.Ballot{},
		&models.Notification{},
	)
}

func seedBoards() {
	var count int64
	DB.Model(&models.Board{}).Count(&count)
	if count > 0 {
		log.Println("Boards already seeded, skipping")
		return
	}

	boards := []models.Board{
		{Name: "자유게시판", Description: "자유로운 주제의 이야기"},
		{Name: "정치토론", Description: "정치 이슈 토론"},
		{Name: "팩트체크 제보", Description: "검증이 필요한 뉴스 제보"},
		{Name: "공지사항", Description: "팩트랩 공지"},
	}

	for _, board := range boards {
		if err := DB.Create(&board).Error; err != nil {
			log.Printf("Failed to create board %s: %v", board.Name, err)
		}
	}
	log.Println("Initial boards created successfully")
}
