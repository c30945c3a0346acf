package database

import (
	"database/sql"
	"errors"
	"log"
	"sync"
	"time"

	"github.com/lib/pq"

	"github.com/tallyhq/tally/config"
	"github.com/tallyhq/tally/internal/apierror"
	"github.com/tallyhq/tally/internal/cache"
)

var (
	instance *Datasource
	once     sync.Once
)

// Datasource is the postgres backed IDataSource. Cache is optional and only
// used for user profile lookups.
type Datasource struct {
	Conn  *sql.DB
	Cache cache.Cache
}

func NewDataSource(configuration *config.Configuration, c cache.Cache) (IDataSource, error) {
	con, err := GetDBConnection(configuration)
	if err != nil {
		return nil, err
	}
	con.Cache = c
	return con, nil
}

// GetDBConnection opens the shared connection pool once per process.
func GetDBConnection(configuration *config.Configuration) (*Datasource, error) {
	var err error
	once.Do(func() {
		con, errConn := ConnectDB(configuration.DataSource.Dns)
		if errConn != nil {
			err = errConn
			return
		}
		instance = &Datasource{Conn: con}
	})
	if err != nil {
		once = sync.Once{}
		return nil, err
	}
	if instance == nil {
		return nil, errors.New("database connection is not initialised")
	}
	return instance, nil
}

func ConnectDB(dns string) (*sql.DB, error) {
	db, err := sql.Open("postgres", dns)
	if err != nil {
		return nil, err
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(10)
	db.SetConnMaxLifetime(30 * time.Minute)
	db.SetConnMaxIdleTime(5 * time.Minute)

	err = db.Ping()
	if err != nil {
		log.Printf("database Connection error ❌: %v", err)
		return nil, err
	}
	return db, nil
}

// mapWriteError turns driver errors from inserts and updates into API errors.
func mapWriteError(err error, what string) error {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) {
		switch pqErr.Code.Name() {
		case "unique_violation":
			return apierror.NewAPIError(apierror.ErrConflict, what+" already exists", err)
		case "foreign_key_violation":
			return apierror.NewAPIError(apierror.ErrConflict, what+" is still referenced", err)
		case "check_violation":
			return apierror.NewAPIError(apierror.ErrInvalidInput, what+" is invalid", err)
		}
	}
	return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to save "+what, err)
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func expectOneRow(res sql.Result, what string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return apierror.NewAPIError(apierror.ErrInternalServer, "Failed to read affected rows", err)
	}
	if n == 0 {
		return apierror.NewAPIError(apierror.ErrNotFound, what+" not found", nil)
	}
	return nil
}
