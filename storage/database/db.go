package database

import (
	"context"
	"database/sql"
	"net/url"
	"path"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
	"github.com/pkg/errors"
	"github.com/pressly/goose/v3"
	_ "modernc.org/sqlite"

	"github.com/trezcool/studydesk/core"
	appfs "github.com/trezcool/studydesk/fs"
)

const sqliteDriver = "sqlite" // modernc.org/sqlite

func init() {
	// sqlx does not know the modernc driver name
	sqlx.BindDriver(sqliteDriver, sqlx.QUESTION)
}

func driverName(engine string) (string, error) {
	switch engine {
	case core.EnginePostgres:
		return "postgres", nil
	case core.EngineSQLite:
		return sqliteDriver, nil
	}
	return "", errors.Errorf("unsupported database engine %q", engine)
}

// Dialect is the goose dialect of engine.
func Dialect(engine string) string {
	if engine == core.EnginePostgres {
		return "postgres"
	}
	return "sqlite3"
}

// MigrationsDir is the directory of appfs.FS holding the migrations of engine.
func MigrationsDir(engine string) string {
	return path.Join("migrations", engine)
}

func dataSourceName(dbName string, admin bool, conf *core.Config) string {
	if conf.Database.Engine == core.EngineSQLite {
		q := make(url.Values)
		q.Add("_pragma", "foreign_keys(1)")
		q.Add("_pragma", "busy_timeout(5000)")
		q.Add("_pragma", "journal_mode(WAL)")
		q.Set("_time_format", "sqlite")
		return "file:" + filepath.Clean(conf.Database.Path) + "?" + q.Encode()
	}

	user := url.UserPassword(conf.Database.User, conf.Database.Password)
	if admin && conf.Database.AdminUser != "" {
		user = url.UserPassword(conf.Database.AdminUser, conf.Database.AdminPassword)
	}

	sslMode := "require"
	if conf.Database.DisableTLS {
		sslMode = "disable"
	}
	q := make(url.Values)
	q.Set("sslmode", sslMode)
	q.Set("timezone", "utc")

	u := url.URL{
		Scheme:   conf.Database.Engine,
		User:     user,
		Host:     conf.Database.Address(),
		Path:     dbName,
		RawQuery: q.Encode(),
	}
	return u.String()
}

func open(dbName string, admin bool, conf *core.Config) (*sqlx.DB, error) {
	driver, err := driverName(conf.Database.Engine)
	if err != nil {
		return nil, err
	}
	db, err := sqlx.Open(driver, dataSourceName(dbName, admin, conf))
	if err != nil {
		return nil, core.NewUnavailableError(err)
	}
	if driver == sqliteDriver {
		// one writer at a time; also keeps the pragmas on the only connection
		db.SetMaxOpenConns(1)
	}
	if err = ping(db, conf.Database.PingTimeout); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

// Open opens and pings the application database.
// A database that cannot be reached in time is reported as a *core.UnavailableError.
func Open(conf *core.Config) (*sqlx.DB, error) {
	return open(conf.Database.Name, false, conf)
}

// ping waits for the database to be ready. Waits 100ms longer between each attempt.
func ping(db *sqlx.DB, timeout time.Duration) error {
	if timeout <= 0 {
		timeout = 5 * time.Second
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	var err error
	for attempts := 1; ; attempts++ {
		if err = db.PingContext(ctx); err == nil {
			return nil
		}
		select {
		case <-ctx.Done():
			return core.NewUnavailableError(errors.Wrap(err, "DB ping timeout"))
		case <-time.After(time.Duration(attempts) * 100 * time.Millisecond):
		}
	}
}

func exists(db *sqlx.DB, query string, args ...interface{}) (bool, error) {
	var found bool
	if err := db.Get(&found, query, args...); err != nil {
		if err == sql.ErrNoRows {
			return false, nil
		}
		return false, err
	}
	return found, nil
}

func createAppUser(db *sqlx.DB, conf *core.Config) error {
	if conf.Database.User == "" {
		return nil
	}

	found, err := exists(db, "SELECT true FROM pg_roles WHERE rolname = $1", conf.Database.User)
	if err != nil {
		return errors.Wrap(err, "checking app user")
	}
	if !found {
		q := "CREATE USER " + pq.QuoteIdentifier(conf.Database.User) +
			" CREATEDB ENCRYPTED PASSWORD " + pq.QuoteLiteral(conf.Database.Password)
		if _, err = db.Exec(q); err != nil {
			return errors.Wrap(err, "creating app user")
		}
	}
	return nil
}

func createDB(db *sqlx.DB, conf *core.Config) error {
	found, err := exists(db, "SELECT true FROM pg_database WHERE datname = $1", conf.Database.Name)
	if err != nil {
		return errors.Wrap(err, "checking DB")
	}
	if !found {
		if _, err = db.Exec("CREATE DATABASE " + pq.QuoteIdentifier(conf.Database.Name)); err != nil {
			return errors.Wrap(err, "creating database")
		}
	}
	return nil
}

// CreateIfNotExist creates the postgres app user and database when missing.
// SQLite databases are created when opened.
func CreateIfNotExist(conf *core.Config) error {
	if conf.Database.Engine != core.EnginePostgres {
		return nil
	}

	// connect as admin
	db, err := open("postgres", true, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = db.Close() }()

	if err = createAppUser(db, conf); err != nil {
		return errors.Wrap(err, "creating app user")
	}

	// create DB as app user
	appDB, err := open("postgres", false, conf)
	if err != nil {
		return errors.Wrap(err, "opening database")
	}
	defer func() { _ = appDB.Close() }()

	if err = createDB(appDB, conf); err != nil {
		return errors.Wrap(err, "creating database")
	}
	return nil
}

// SetUpGoose points goose at the embedded migrations of engine.
func SetUpGoose(engine string, logger goose.Logger) error {
	goose.SetBaseFS(appfs.FS)
	if logger != nil {
		goose.SetLogger(logger)
	}
	return goose.SetDialect(Dialect(engine))
}

// Migrate applies every pending migration, seed rows included.
func Migrate(db *sqlx.DB, engine string, logger goose.Logger) error {
	if err := SetUpGoose(engine, logger); err != nil {
		return errors.Wrap(err, "setting up goose")
	}
	if err := goose.Up(db.DB, MigrationsDir(engine)); err != nil {
		return errors.Wrap(err, "migrating database")
	}
	return nil
}

// Setup creates, opens and migrates the database.
func Setup(conf *core.Config, logger goose.Logger) (*sqlx.DB, error) {
	if err := CreateIfNotExist(conf); err != nil {
		return nil, err
	}

	db, err := Open(conf)
	if err != nil {
		return nil, err
	}

	if err = Migrate(db, conf.Database.Engine, logger); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}
