package database

import (
	"context"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
)

func sqliteConfig(t *testing.T) *core.Config {
	return &core.Config{
		Database: core.DatabaseConfig{
			Engine:      core.EngineSQLite,
			Path:        filepath.Join(t.TempDir(), "test.db"),
			PingTimeout: time.Second,
		},
	}
}

func TestDataSourceName(t *testing.T) {
	conf := &core.Config{
		Database: core.DatabaseConfig{
			Engine:        core.EnginePostgres,
			Host:          "db",
			Port:          "5432",
			Name:          "studydesk",
			User:          "app",
			Password:      "secret",
			AdminUser:     "postgres",
			AdminPassword: "root",
			DisableTLS:    true,
		},
	}

	tests := []struct {
		name   string
		dbName string
		admin  bool
		want   string
	}{
		{name: "app", dbName: "studydesk", want: "postgres://app:secret@db:5432/studydesk?sslmode=disable&timezone=utc"},
		{name: "admin", dbName: "postgres", admin: true, want: "postgres://postgres:root@db:5432/postgres?sslmode=disable&timezone=utc"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, dataSourceName(tt.dbName, tt.admin, conf))
		})
	}

	sqliteConf := sqliteConfig(t)
	dsn := dataSourceName("", false, sqliteConf)
	assert.True(t, strings.HasPrefix(dsn, "file:"+sqliteConf.Database.Path+"?"))
	assert.Contains(t, dsn, "_pragma=foreign_keys%281%29")
}

func TestOpen_UnsupportedEngine(t *testing.T) {
	conf := sqliteConfig(t)
	conf.Database.Engine = "oracle"
	_, err := Open(conf)
	assert.EqualError(t, err, `unsupported database engine "oracle"`)
}

func TestOpen_Unavailable(t *testing.T) {
	conf := sqliteConfig(t)
	conf.Database.Path = filepath.Join(t.TempDir(), "missing", "dir", "test.db")
	conf.Database.PingTimeout = 200 * time.Millisecond

	db, err := Open(conf)
	assert.Nil(t, db)
	assert.True(t, core.IsUnavailable(err), "want unavailable error, got %v", err)
}

type foreignKey struct {
	ID       int    `db:"id"`
	Seq      int    `db:"seq"`
	Table    string `db:"table"`
	From     string `db:"from"`
	To       string `db:"to"`
	OnUpdate string `db:"on_update"`
	OnDelete string `db:"on_delete"`
	Match    string `db:"match"`
}

// the migrated schema holds exactly the foreign keys of study.Relations
func TestMigrate_ForeignKeys(t *testing.T) {
	db, err := Setup(sqliteConfig(t), goose.NopLogger())
	require.NoError(t, err)
	defer db.Close()

	var enabled int
	require.NoError(t, db.Get(&enabled, "PRAGMA foreign_keys"))
	assert.Equal(t, 1, enabled)

	for _, table := range study.Tables {
		t.Run(table, func(t *testing.T) {
			var fks []foreignKey
			require.NoError(t, db.Select(&fks, "SELECT * FROM pragma_foreign_key_list('"+table+"')"))

			rels := study.ParentRelations(table)
			require.Len(t, fks, len(rels))
			for _, rel := range rels {
				var found bool
				for _, fk := range fks {
					if fk.From != rel.Column {
						continue
					}
					found = true
					assert.Equal(t, rel.Parent, fk.Table)
					assert.Equal(t, "id", fk.To)
					assert.Equal(t, rel.OnDelete.SQLAction(), fk.OnDelete)
				}
				assert.True(t, found, "no foreign key on %s.%s", table, rel.Column)
			}
		})
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	conf := sqliteConfig(t)
	db, err := Setup(conf, goose.NopLogger())
	require.NoError(t, err)
	require.NoError(t, db.Close())

	// seeding runs once
	db, err = Setup(conf, goose.NopLogger())
	require.NoError(t, err)
	defer db.Close()

	var count int
	require.NoError(t, db.GetContext(context.Background(), &count, "SELECT COUNT(*) FROM subjects"))
	assert.Equal(t, len(study.SeedSubjects), count)
}

func TestDialectAndMigrationsDir(t *testing.T) {
	assert.Equal(t, "postgres", Dialect(core.EnginePostgres))
	assert.Equal(t, "sqlite3", Dialect(core.EngineSQLite))
	assert.Equal(t, "migrations/postgres", MigrationsDir(core.EnginePostgres))
	assert.Equal(t, "migrations/sqlite", MigrationsDir(core.EngineSQLite))
}
