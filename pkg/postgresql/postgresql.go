package postgresql

import (
	"database/sql"
	"sync"

	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/kaantopcuw/NightFlow/config"
)

var (
	db   *sql.DB
	once sync.Once
)

// GetDatabase opens the shared connection pool on first use.
func GetDatabase() *sql.DB {
	once.Do(func() {
		c := config.Get()

		var err error
		db, err = sql.Open("pgx", c.Postgres.DSN)
		if err != nil {
			panic(err)
		}

		db.SetMaxOpenConns(c.Postgres.MaxOpenConns)
		db.SetMaxIdleConns(c.Postgres.MaxIdleConns)
		db.SetConnMaxLifetime(c.Postgres.ConnMaxLifetime)
	})

	return db
}
