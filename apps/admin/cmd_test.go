package main

import (
	"bytes"
	"context"
	"database/sql"
	"fmt"
	"strconv"
	"strings"
	"testing"

	"github.com/pressly/goose/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/volatiletech/null/v8"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
	"github.com/trezcool/studydesk/storage/database/sqlx"
	"github.com/trezcool/studydesk/tests"
)

var repo study.Repository

func setup(t *testing.T) (*commandLine, *bytes.Buffer) {
	// set up DB & repos
	db := testutil.PrepareDB(t)
	repo = sqlxrepos.NewRepository(db)

	validate, translator := core.NewValidator()
	study.InitValidators(validate, translator)

	// start CLI
	var out bytes.Buffer
	return &commandLine{
		db:          db,
		engine:      core.EngineSQLite,
		svc:         study.NewService(repo, validate, nopLogger{}),
		gooseLogger: goose.NopLogger(),
		out:         &out,
	}, &out
}

type nopLogger struct{}

func (nopLogger) Debug(string, ...interface{}) {}
func (nopLogger) Info(string, ...interface{})  {}
func (nopLogger) Warn(string, ...interface{})  {}
func (nopLogger) Error(string, ...interface{}) {}
func (nopLogger) Fatal(string, ...interface{}) {}

// mockTerminal makes stdin look like a terminal answering answer; an empty answer means no terminal.
func mockTerminal(answer string) {
	isTerminalFunc = func(fd int) bool { return answer != "" }
	readConfirmFunc = func() (string, error) { return answer + "\n", nil }
}

type cliTest struct {
	name       string
	args       []string // without program name
	wantErr    error
	wantErrStr string
	wantOut    []string
	check      func(t *testing.T, err error)
}

func runCLITests(t *testing.T, cli *commandLine, out *bytes.Buffer, tests []cliTest) {
	for _, tt := range tests {
		args := append([]string{"admin"}, tt.args...)

		t.Run(tt.name, func(t *testing.T) {
			out.Reset()
			err := cli.run(args)
			switch {
			case tt.check != nil:
				tt.check(t, err)
			case tt.wantErr != nil:
				assert.Equal(t, tt.wantErr, err)
			case tt.wantErrStr != "":
				assert.EqualError(t, err, tt.wantErrStr)
			default:
				assert.NoError(t, err)
			}
			for _, want := range tt.wantOut {
				assert.Contains(t, out.String(), want)
			}
		})
	}
}

func isNotFound(t *testing.T, err error) {
	assert.True(t, core.IsNotFound(err), "want not found, got %v", err)
}

func isIntegrity(t *testing.T, err error) {
	assert.True(t, core.IsIntegrityViolation(err), "want integrity error, got %v", err)
}

func isValidation(t *testing.T, err error) {
	assert.True(t, core.IsValidation(err), "want validation error, got %v", err)
}

func Test_commandLine_migrate(t *testing.T) {
	cli, out := setup(t)

	var gotDir string
	gooseRunFunc = func(ctx context.Context, command string, db *sql.DB, dir string, args ...string) error {
		gotDir = dir
		switch command {
		case "up", "up-by-one", "down", "fix", "redo", "reset", "status", "version": // pass
		case "up-to", "down-to":
			if len(args) == 0 {
				return fmt.Errorf("%s must be of form: goose [OPTIONS] DRIVER DBSTRING %s VERSION", command, command)
			}
			if _, err := strconv.ParseInt(args[0], 10, 64); err != nil {
				return fmt.Errorf("version must be a number (got '%s')", args[0])
			}
		default:
			return fmt.Errorf("%q: no such command", command)
		}
		return nil
	}
	defer func() { gooseRunFunc = goose.RunContext }()

	runCLITests(t, cli, out, []cliTest{
		{name: "no subcommand", args: []string{"migrate"}, wantErr: errHelp},
		{name: "unknown subcommand", args: []string{"migrate", "lol"}, wantErrStr: "\"lol\": no such command"},
		{name: "up-to: no args", args: []string{"migrate", "up-to"}, wantErrStr: "up-to must be of form: goose [OPTIONS] DRIVER DBSTRING up-to VERSION"},
		{name: "up-to: non-int arg", args: []string{"migrate", "up-to", "lol"}, wantErrStr: "version must be a number (got 'lol')"},
		{name: "down-to: no args", args: []string{"migrate", "down-to"}, wantErrStr: "down-to must be of form: goose [OPTIONS] DRIVER DBSTRING down-to VERSION"},
		{name: "up", args: []string{"migrate", "up"}},
		{name: "up-to", args: []string{"migrate", "up-to", "2"}},
		{name: "down", args: []string{"migrate", "down"}},
		{name: "status", args: []string{"migrate", "status"}},
		{name: "version", args: []string{"migrate", "version"}},
	})
	assert.Equal(t, "migrations/sqlite", gotDir)
}

func Test_commandLine_migrateForReal(t *testing.T) {
	cli, _ := setup(t)

	// already up to date
	require.NoError(t, cli.run([]string{"admin", "migrate", "up"}))
	version, err := goose.GetDBVersion(cli.db.DB)
	require.NoError(t, err)
	assert.Equal(t, int64(2), version)
}

func Test_commandLine_usage(t *testing.T) {
	cli, out := setup(t)

	runCLITests(t, cli, out, []cliTest{
		{name: "no command", wantErr: errHelp, wantOut: []string{"Usage:"}},
		{name: "unknown command", args: []string{"lol"}, wantErr: errHelp, wantOut: []string{"deletesubject -id ID"}},
		{name: "help flag", args: []string{"subjects", "-h"}, wantErr: errHelp, wantOut: []string{"-ordering"}},
		{name: "unknown flag", args: []string{"subjects", "-lol"}, wantErrStr: "flag provided but not defined: -lol"},
	})
}

func Test_commandLine_subjects(t *testing.T) {
	cli, out := setup(t)
	mockTerminal("")

	runCLITests(t, cli, out, []cliTest{
		{name: "list", args: []string{"subjects"}, wantOut: []string{"Mathematics", "John Doe", "Science"}},
		{name: "add: no name", args: []string{"addsubject"}, wantErr: errHelp},
		{name: "add", args: []string{"addsubject", "-name", "History", "-teacher", "Ms. Kim"}, wantOut: []string{"subject 3 created"}},
		{name: "list ordered", args: []string{"subjects", "-ordering", "-subject_name"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			s := out.String()
			assert.True(t, strings.Index(s, "Science") < strings.Index(s, "Mathematics"))
			assert.True(t, strings.Index(s, "Mathematics") < strings.Index(s, "History"))
		}},
		{name: "delete: unknown", args: []string{"deletesubject", "-id", "99", "-yes"}, check: isNotFound},
		{name: "delete: no terminal", args: []string{"deletesubject", "-id", "3"}, wantErr: errNotTerminal},
		{name: "delete", args: []string{"deletesubject", "-id", "3", "-yes"}, wantOut: []string{"subject 3 deleted"}},
	})

	_, err := repo.GetSubject(context.Background(), 3)
	assert.True(t, core.IsNotFound(err))
}

func Test_commandLine_confirm(t *testing.T) {
	cli, out := setup(t)
	defer mockTerminal("")

	mockTerminal("n")
	assert.Equal(t, errAborted, cli.run([]string{"admin", "deletesubject", "-id", "2"}))
	assert.Contains(t, out.String(), `Delete "Science"`)
	_, err := repo.GetSubject(context.Background(), 2)
	assert.NoError(t, err)

	mockTerminal("Yes")
	assert.NoError(t, cli.run([]string{"admin", "deletesubject", "-id", "2"}))
	_, err = repo.GetSubject(context.Background(), 2)
	assert.True(t, core.IsNotFound(err))
}

func Test_commandLine_examsAndSessions(t *testing.T) {
	cli, out := setup(t)
	mockTerminal("")

	sess := testutil.CreateStudySession(t, repo, 1, null.IntFrom(1))
	id := strconv.Itoa(sess.ID)

	runCLITests(t, cli, out, []cliTest{
		{name: "exams: no subject", args: []string{"exams"}, wantErr: errHelp},
		{name: "exams", args: []string{"exams", "-subject", "1"}, wantOut: []string{"2024-07-15", "09:00", "High"}},
		{name: "sessions", args: []string{"sessions", "-exam", "1"}, wantOut: []string{"2024-07-10", "revise"}},
		{name: "delete exam in use", args: []string{"deleteexam", "-id", "1", "-yes"}, check: isIntegrity},
		{name: "reassign to exam of another subject", args: []string{"reassignsession", "-id", id, "-exam", "2"}, check: isValidation},
		{name: "reassign to none", args: []string{"reassignsession", "-id", id}, wantOut: []string{"is now a general session"}},
		{name: "delete exam", args: []string{"deleteexam", "-id", "1", "-yes"}, wantOut: []string{"exam schedule 1 deleted"}},
		{name: "reassign unknown", args: []string{"reassignsession", "-id", "99"}, check: isNotFound},
	})
}

func Test_commandLine_filesAndQuizzes(t *testing.T) {
	cli, out := setup(t)
	mockTerminal("")

	runCLITests(t, cli, out, []cliTest{
		{name: "files: none", args: []string{"files", "-subject", "1"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.Equal(t, 1, strings.Count(out.String(), "\n"), "header only")
		}},
		{name: "add file: missing name", args: []string{"addfile", "-subject", "1"}, wantErr: errHelp},
		{name: "add file: unknown subject", args: []string{"addfile", "-subject", "99", "-name", "a.pdf"}, check: isIntegrity},
		{name: "add file", args: []string{"addfile", "-subject", "1", "-name", "algebra.pdf", "-type", "application/pdf", "-size", "2048"}, wantOut: []string{"subject file 1 added"}},
		{name: "files", args: []string{"files", "-subject", "1"}, wantOut: []string{"algebra.pdf", "application/pdf", "2048"}},
		{name: "add literature", args: []string{"addliterature", "-file", "1", "-title", "Elements of Algebra", "-authors", "Leonhard Euler"}, wantOut: []string{"related literature 1 added"}},
		{name: "add similar literature", args: []string{"addliterature", "-file", "1", "-title", "elements of algebra"}, check: isValidation},
		{name: "generate quiz", args: []string{"generatequiz", "-file", "1", "-title", "Readings", "-n", "5"}, wantOut: []string{"quiz 1 generated", "Leonhard Euler"}},
		{name: "generate quiz: bad n", args: []string{"generatequiz", "-file", "1", "-title", "Readings", "-n", "0"}, check: isValidation},
		{name: "quizzes", args: []string{"quizzes", "-file", "1"}, wantOut: []string{"Readings"}},
		{name: "delete file", args: []string{"deletefile", "-id", "1", "-yes"}, wantOut: []string{"subject file 1 deleted"}},
		{name: "quiz gone", args: []string{"quizzes", "-file", "1"}, check: func(t *testing.T, err error) {
			require.NoError(t, err)
			assert.NotContains(t, out.String(), "Readings")
		}},
		{name: "delete file: unknown", args: []string{"deletefile", "-id", "1", "-yes"}, check: isNotFound},
	})
}

func Test_describeError(t *testing.T) {
	_, translator := core.NewValidator()

	tests := []struct {
		name string
		err  error
		want string
	}{
		{name: "not found", err: core.NewNotFoundError("subjects", 9), want: "no such resource: subjects 9 not found"},
		{
			name: "restricted delete",
			err:  &core.IntegrityError{Op: "delete", Entity: "exam_schedules", ID: 1},
			want: "cannot complete, dependent data exists: cannot delete exam_schedules 1: dependent rows exist",
		},
		{
			name: "missing parent",
			err:  &core.IntegrityError{Op: "insert", Entity: "subject_files"},
			want: "cannot complete: cannot insert subject_files: referenced row does not exist",
		},
		{
			name: "validation",
			err:  core.NewValidationError(nil, core.FieldError{Field: "title", Error: "too similar"}),
			want: "invalid input\n  title: too similar",
		},
		{name: "other", err: fmt.Errorf("lol"), want: "lol"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, describeError(tt.err, translator))
		})
	}
}
