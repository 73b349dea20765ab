package db

import (
	"database/sql"
	"time"

	"github.com/getAlby/relayadmin.go/lib/service"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
	"github.com/uptrace/bun/extra/bundebug"
	sqltrace "gopkg.in/DataDog/dd-trace-go.v1/contrib/database/sql"
)

func Open(config *service.Config) (*bun.DB, error) {
	dsn, err := config.DatabaseDSN()
	if err != nil {
		return nil, err
	}
	var dbConn *sql.DB
	//if Datadog is configured, send sql traces there
	if config.DatadogAgentUrl != "" {
		sqltrace.Register(sqliteshim.ShimName, sqliteshim.Driver(), sqltrace.WithServiceName("relayadmin.go"))
		dbConn, err = sqltrace.Open(sqliteshim.ShimName, dsn)
	} else {
		dbConn, err = sql.Open(sqliteshim.ShimName, dsn)
	}
	if err != nil {
		return nil, err
	}
	db := bun.NewDB(dbConn, sqlitedialect.New())
	db.SetMaxOpenConns(config.DatabaseMaxConns)
	db.SetMaxIdleConns(config.DatabaseMaxIdleConns)
	db.SetConnMaxLifetime(time.Duration(config.DatabaseConnMaxLifetime) * time.Second)

	db.AddQueryHook(bundebug.NewQueryHook(
		// disable the hook
		bundebug.WithEnabled(false),
		// BUNDEBUG=1 logs failed queries
		// BUNDEBUG=2 logs all queries
		bundebug.FromEnv("BUNDEBUG"),
	))

	return db, nil
}
