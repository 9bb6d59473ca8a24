package database

import (
	"database/sql"
	"log"
	"sync"

	"github.com/OverrideLLC/Apollo-Dynamics-sub001/models"
	_ "github.com/mattn/go-sqlite3"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

// DB holds the read-mostly people database (student reference data).
var DB *sql.DB
var DBMutex sync.Mutex

// GORMDB holds the documents database: pairing sessions, course documents
// and student credentials.
var GORMDB *gorm.DB
var GORMDBMutex sync.Mutex

// Connect opens the people database.
func Connect(path string) {
	var err error
	DB, err = sql.Open("sqlite3", path)
	if err != nil {
		log.Fatal(err)
	}
}

// ConnectGORM opens the documents database and migrates the credential table.
func ConnectGORM(path string) {
	var err error
	GORMDB, err = gorm.Open(sqlite.Open(path), &gorm.Config{})
	if err != nil {
		log.Fatal("failed to connect to documents database: ", err)
	}
	if err := GORMDB.AutoMigrate(&models.StudentCredentials{}); err != nil {
		log.Fatal("failed to migrate credentials table: ", err)
	}
}

func Close() {
	if DB != nil {
		DB.Close()
	}
}
