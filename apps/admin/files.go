package main

import (
	"context"
	"fmt"
	"io"
	"time"

	"github.com/trezcool/studydesk/core/study"
)

func (cli *commandLine) filesCmd() command {
	fs := cli.newFlagSet("files")
	subjectID := fs.Int("subject", 0, "The subject's ID.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *subjectID); err != nil {
			return err
		}
		files, err := cli.svc.GetFilesBySubjectID(context.Background(), *subjectID)
		if err != nil {
			return err
		}
		return cli.table("ID\tNAME\tTYPE\tSIZE\tUPLOADED\tKEY", func(w io.Writer) {
			for _, file := range files {
				fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
					file.ID, file.FileName, file.ContentType, file.Size, file.UploadedAt.Format(time.RFC3339), file.StorageKey)
			}
		})
	}}
}

func (cli *commandLine) addFileCmd() command {
	fs := cli.newFlagSet("addfile")
	subjectID := fs.Int("subject", 0, "The subject's ID.")
	name := fs.String("name", "", "The file's name.")
	contentType := fs.String("type", "", "The file's MIME type.")
	size := fs.Int64("size", 0, "The file's size, in bytes.")
	key := fs.String("key", "", "The UUID the file is stored under; generated when empty.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *subjectID, *name); err != nil {
			return err
		}
		file, err := cli.svc.AddSubjectFile(context.Background(), study.NewSubjectFile{
			SubjectID:   *subjectID,
			FileName:    *name,
			ContentType: *contentType,
			Size:        *size,
			StorageKey:  *key,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "subject file %d added (key %s)\n", file.ID, file.StorageKey)
		return nil
	}}
}

func (cli *commandLine) deleteFileCmd() command {
	fs := cli.newFlagSet("deletefile")
	id := fs.Int("id", 0, "The subject file's ID.")
	yes := fs.Bool("yes", false, "Do not ask for confirmation.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *id); err != nil {
			return err
		}
		ctx := context.Background()
		file, err := cli.svc.GetSubjectFileByID(ctx, *id)
		if err != nil {
			return err
		}
		if err = cli.confirm(*yes, fmt.Sprintf("Delete %q along with its literature and quizzes?", file.FileName)); err != nil {
			return err
		}
		if err = cli.svc.DeleteSubjectFile(ctx, *id); err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "subject file %d deleted\n", *id)
		return nil
	}}
}

func (cli *commandLine) addLiteratureCmd() command {
	fs := cli.newFlagSet("addliterature")
	fileID := fs.Int("file", 0, "The subject file's ID.")
	title := fs.String("title", "", "The title of the work.")
	authors := fs.String("authors", "", "Who wrote it.")
	source := fs.String("source", "", "Where to find it.")
	summary := fs.String("summary", "", "What it is about.")
	return command{flags: fs, run: func() error {
		if err := required(fs, *fileID, *title); err != nil {
			return err
		}
		lit, err := cli.svc.AddRelatedLiterature(context.Background(), study.NewRelatedLiterature{
			SubjectFileID: *fileID,
			Title:         *title,
			Authors:       *authors,
			Source:        *source,
			Summary:       *summary,
		})
		if err != nil {
			return err
		}
		fmt.Fprintf(cli.out, "related literature %d added\n", lit.ID)
		return nil
	}}
}
