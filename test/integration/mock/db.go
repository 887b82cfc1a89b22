package mock

import (
	"database/sql"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/tyreledger/backend/internal/integration/persistence/model"
)

var once sync.Once
var db *Db

// Db wraps a shared in-memory SQLite connection for the test suite.
type Db struct {
	DbConn *gorm.DB
}

// NewDb opens (once) the in-memory test database with the ledger schema.
func NewDb() *Db {
	once.Do(func() {
		db = open()
	})
	return db
}

func open() *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}

	// A single connection keeps the shared in-memory database alive for
	// the whole suite.
	dbSQL.SetMaxOpenConns(1)

	dbConn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	if err := dbConn.AutoMigrate(&model.LedgerEntryModel{}, &model.InvoiceItemModel{}); err != nil {
		panic("failed to migrate test database. err: " + err.Error())
	}

	return &Db{DbConn: dbConn}
}

// Clear wipes the ledger tables between scenarios.
func (d *Db) Clear() error {
	if err := d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.InvoiceItemModel{}).Error; err != nil {
		return err
	}
	return d.DbConn.Session(&gorm.Session{AllowGlobalUpdate: true}).Delete(&model.LedgerEntryModel{}).Error
}
