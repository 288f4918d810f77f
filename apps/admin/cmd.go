package main

import (
	"bufio"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/jmoiron/sqlx"
	"github.com/pressly/goose/v3"
	"golang.org/x/term"

	"github.com/trezcool/studydesk/core/study"
)

var (
	isTerminalFunc  = term.IsTerminal // mockable
	readConfirmFunc = readLine        // mockable

	errHelp        = errors.New("help provided")
	errAborted     = errors.New("aborted")
	errNotTerminal = errors.New("stdin is not a terminal: pass -yes to confirm")
)

type commandLine struct {
	db          *sqlx.DB
	engine      string
	svc         *study.Service
	gooseLogger goose.Logger
	out         io.Writer
}

func (cli *commandLine) printUsage() {
	fmt.Fprintln(cli.out, "Usage:")
	fmt.Fprintln(cli.out, "  migrate COMMAND [ARGS]                        - run a goose command (up, down, status, version, ...)")
	fmt.Fprintln(cli.out, "  subjects [-ordering FIELDS]                   - list subjects, e.g. -ordering subject_name,-id")
	fmt.Fprintln(cli.out, "  addsubject -name NAME [-description D] [-teacher T]")
	fmt.Fprintln(cli.out, "  deletesubject -id ID [-yes]                   - delete a subject and everything it owns")
	fmt.Fprintln(cli.out, "  exams -subject ID                             - list a subject's exam schedules")
	fmt.Fprintln(cli.out, "  deleteexam -id ID [-yes]                      - delete an exam schedule no session prepares")
	fmt.Fprintln(cli.out, "  sessions [-subject ID] [-exam ID]             - list study sessions")
	fmt.Fprintln(cli.out, "  reassignsession -id ID [-exam ID]             - link a session to another exam, or none")
	fmt.Fprintln(cli.out, "  files -subject ID                             - list a subject's files")
	fmt.Fprintln(cli.out, "  addfile -subject ID -name NAME [-type MIME] [-size BYTES] [-key UUID]")
	fmt.Fprintln(cli.out, "  deletefile -id ID [-yes]                      - delete a file, its literature and quizzes")
	fmt.Fprintln(cli.out, "  addliterature -file ID -title T [-authors A] [-source S] [-summary S]")
	fmt.Fprintln(cli.out, "  generatequiz -file ID -title T [-n N]         - generate a quiz from the file's literature")
	fmt.Fprintln(cli.out, "  quizzes -file ID                              - list a file's quizzes")
}

type command struct {
	flags *flag.FlagSet
	run   func() error
}

func (cli *commandLine) newFlagSet(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(cli.out)
	return fs
}

func (cli *commandLine) run(args []string) error {
	if len(args) < 2 {
		cli.printUsage()
		return errHelp
	}

	if args[1] == "migrate" {
		if len(args) < 3 {
			fmt.Fprintln(cli.out, "Usage: migrate COMMAND [ARGS]")
			return errHelp
		}
		return cli.migrate(args[2:])
	}

	commands := map[string]func() command{
		"subjects":        cli.subjectsCmd,
		"addsubject":      cli.addSubjectCmd,
		"deletesubject":   cli.deleteSubjectCmd,
		"exams":           cli.examsCmd,
		"deleteexam":      cli.deleteExamCmd,
		"sessions":        cli.sessionsCmd,
		"reassignsession": cli.reassignSessionCmd,
		"files":           cli.filesCmd,
		"addfile":         cli.addFileCmd,
		"deletefile":      cli.deleteFileCmd,
		"addliterature":   cli.addLiteratureCmd,
		"generatequiz":    cli.generateQuizCmd,
		"quizzes":         cli.quizzesCmd,
	}
	newCmd, ok := commands[args[1]]
	if !ok {
		cli.printUsage()
		return errHelp
	}

	cmd := newCmd()
	if err := cmd.flags.Parse(args[2:]); err != nil {
		if err == flag.ErrHelp {
			return errHelp
		}
		return err
	}
	return cmd.run()
}

// required prints the usage of fs and returns errHelp unless every value is set.
func required(fs *flag.FlagSet, values ...interface{}) error {
	for _, v := range values {
		switch val := v.(type) {
		case int:
			if val <= 0 {
				fs.Usage()
				return errHelp
			}
		case string:
			if strings.TrimSpace(val) == "" {
				fs.Usage()
				return errHelp
			}
		}
	}
	return nil
}

// confirm asks before destructive commands. Without a terminal, only -yes confirms.
func (cli *commandLine) confirm(yes bool, prompt string) error {
	if yes {
		return nil
	}
	if !isTerminalFunc(int(os.Stdin.Fd())) {
		return errNotTerminal
	}
	fmt.Fprintf(cli.out, "%s [y/N]: ", prompt)
	answer, err := readConfirmFunc()
	if err != nil {
		return err
	}
	switch strings.ToLower(strings.TrimSpace(answer)) {
	case "y", "yes":
		return nil
	}
	return errAborted
}

func readLine() (string, error) {
	line, err := bufio.NewReader(os.Stdin).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	return line, nil
}

func (cli *commandLine) table(header string, rows func(w io.Writer)) error {
	w := tabwriter.NewWriter(cli.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, header)
	rows(w)
	return w.Flush()
}
