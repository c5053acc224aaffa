package mock

import (
	"database/sql"
	"fmt"
	"sync"

	"github.com/glebarez/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	dbOnce sync.Once
	db     *Db
)

// Db is the shared in-memory SQLite database behind the integration suite.
// Models are addressed by table name in step definitions.
type Db struct {
	DbConn *gorm.DB
	models map[string]any
	order  []string
}

// NewDb opens the database once and migrates every model.
func NewDb(models ...any) *Db {
	dbOnce.Do(func() {
		db = open(models)
	})
	return db
}

func open(models []any) *Db {
	dbSQL, err := sql.Open("sqlite", "file::memory:?cache=shared")
	if err != nil {
		panic(err)
	}
	// Every connection to :memory: would otherwise see its own database.
	dbSQL.SetMaxOpenConns(1)

	conn, err := gorm.Open(sqlite.Dialector{Conn: dbSQL}, &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		panic("failed to connect to database. err: " + err.Error())
	}

	mockDb := &Db{
		DbConn: conn,
		models: make(map[string]any, len(models)),
		order:  make([]string, 0, len(models)),
	}
	for _, model := range models {
		stmt := &gorm.Statement{DB: conn}
		if err := stmt.Parse(model); err != nil {
			panic(fmt.Sprintf("failed to parse model %T: %s", model, err))
		}
		mockDb.models[stmt.Schema.Table] = model
		mockDb.order = append(mockDb.order, stmt.Schema.Table)
	}

	if err := conn.AutoMigrate(models...); err != nil {
		panic("failed to migrate database. err: " + err.Error())
	}
	for table, model := range mockDb.models {
		if !conn.Migrator().HasTable(model) {
			panic(fmt.Sprintf("table %s was not created", table))
		}
	}

	return mockDb
}

// ClearDB deletes every row so each scenario starts from an empty ledger.
func (d *Db) ClearDB() error {
	return d.DbConn.Transaction(func(tx *gorm.DB) error {
		for _, table := range d.order {
			err := tx.Session(&gorm.Session{AllowGlobalUpdate: true}).
				Unscoped().
				Delete(d.models[table]).Error
			if err != nil {
				return fmt.Errorf("clear %s: %w", table, err)
			}
		}
		return nil
	})
}

// GetModel returns the model registered for a table.
func (d *Db) GetModel(table string) (any, bool) {
	model, ok := d.models[table]
	return model, ok
}

// Count returns how many rows of table match every column in criteria.
func (d *Db) Count(table string, criteria map[string]any) (int64, error) {
	model, ok := d.models[table]
	if !ok {
		return 0, fmt.Errorf("table '%s' not found in models", table)
	}

	query := d.DbConn.Unscoped().Model(model)
	for column, value := range criteria {
		query = query.Where(fmt.Sprintf("%s = ?", column), value)
	}

	var count int64
	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}
