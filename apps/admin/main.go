package main

import (
	"fmt"
	"log"
	"os"

	ut "github.com/go-playground/universal-translator"
	"github.com/pkg/errors"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
	"github.com/trezcool/studydesk/services/logger"
	"github.com/trezcool/studydesk/storage/database"
	"github.com/trezcool/studydesk/storage/database/sqlx"
)

func main() {
	conf := core.NewConfig()
	std := log.New(os.Stdout, "ADMIN : ", log.LstdFlags|log.Lmicroseconds|log.Lshortfile)
	logger := logsvc.NewRollbarLogger(std, conf)
	defer logger.Close()

	// set up DB
	if err := database.CreateIfNotExist(conf); err != nil {
		logger.Fatal("setting up database", err)
	}
	db, err := database.Open(conf)
	if err != nil {
		logger.Fatal("opening database", err)
	}

	// set up services
	validate, translator := core.NewValidator()
	study.InitValidators(validate, translator)
	repo := sqlxrepos.NewRepository(db)

	// start CLI
	cli := commandLine{
		db:          db,
		engine:      conf.Database.Engine,
		svc:         study.NewService(repo, validate, logger),
		gooseLogger: logger,
		out:         os.Stdout,
	}
	err = cli.run(os.Args)
	_ = db.Close()
	if err != nil {
		if err != errHelp {
			fmt.Fprintf(os.Stderr, "\nerror: %s\n", describeError(err, translator))
		}
		logger.Close()
		os.Exit(1)
	}
}

// describeError words err for the operator.
func describeError(err error, translator ut.Translator) string {
	switch {
	case core.IsNotFound(err):
		return "no such resource: " + err.Error()
	case core.IsIntegrityViolation(err):
		if ie, ok := errors.Cause(err).(*core.IntegrityError); ok && ie.Op == "delete" {
			return "cannot complete, dependent data exists: " + err.Error()
		}
		return "cannot complete: " + err.Error()
	case core.IsUnavailable(err):
		return "database unavailable: " + err.Error()
	case core.IsValidation(err):
		msg := "invalid input"
		for _, fld := range core.FieldErrors(err, translator) {
			if fld.Field == "" {
				msg += "\n  " + fld.Error
			} else {
				msg += "\n  " + fld.Field + ": " + fld.Error
			}
		}
		return msg
	}
	return err.Error()
}
