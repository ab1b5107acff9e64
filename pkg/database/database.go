package database

import (
	"fmt"
	"log"
	"os"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"booklib/pkg/models"
)

// InitLibraryDB opens the library database. With DB_HOST set it connects to
// postgres; otherwise it falls back to a local sqlite file (DB_PATH), which
// is what dev setups use.
func InitLibraryDB() *gorm.DB {
	host := os.Getenv("DB_HOST")
	if host == "" {
		path := getEnv("DB_PATH", "booklib.db")
		log.Printf("Opening sqlite database: %s", path)
		return initDB(sqlite.Open(path))
	}

	port := getEnv("DB_PORT", "5432")
	user := getEnv("DB_USER", "program")
	password := getEnv("DB_PASSWORD", "test")
	dbname := getEnv("DB_NAME", "booklib")

	dsn := fmt.Sprintf("host=%s user=%s password=%s dbname=%s port=%s sslmode=disable TimeZone=UTC",
		host, user, password, dbname, port)

	log.Printf("Connecting to library database: host=%s, port=%s", host, port)
	return initDB(postgres.Open(dsn))
}

func initDB(dialector gorm.Dialector) *gorm.DB {
	db, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(25)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)

	err = db.AutoMigrate(&models.User{}, &models.Category{}, &models.Book{}, &models.Loan{})
	if err != nil {
		log.Fatal("Database migration failed:", err)
	}

	log.Println("Database connection established successfully")
	return db
}

func getEnv(key, defaultValue string) string {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue
	}
	return value
}
