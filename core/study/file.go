package study

import (
	"context"

	"github.com/google/uuid"

	"github.com/trezcool/studydesk/core"
)

// SubjectFileService gives access to the files of a subject.
type SubjectFileService interface {
	// AddSubjectFile fails with a *core.IntegrityError when the subject does not exist.
	AddSubjectFile(ctx context.Context, nf NewSubjectFile) (SubjectFile, error)
	// GetFilesBySubjectID returns the files in upload order; empty, not an error, when there are none.
	GetFilesBySubjectID(ctx context.Context, subjectID int) ([]SubjectFile, error)
	GetSubjectFileByID(ctx context.Context, id int) (SubjectFile, error)
	// DeleteSubjectFile also deletes the file's literature and quizzes.
	DeleteSubjectFile(ctx context.Context, id int) error
}

var _ SubjectFileService = (*Service)(nil) // interface compliance check

var newStorageKey = func() string { return uuid.New().String() } // mockable

func (svc *Service) AddSubjectFile(ctx context.Context, nf NewSubjectFile) (SubjectFile, error) {
	nf.FileName = core.CleanString(nf.FileName)
	nf.ContentType = core.CleanString(nf.ContentType, true /* lower */)
	nf.StorageKey = core.CleanString(nf.StorageKey, true /* lower */)
	if err := svc.validate.Struct(nf); err != nil {
		return SubjectFile{}, err
	}

	file := SubjectFile{
		SubjectID:   nf.SubjectID,
		FileName:    nf.FileName,
		ContentType: nf.ContentType,
		Size:        nf.Size,
		StorageKey:  nf.StorageKey,
		UploadedAt:  nf.UploadedAt.UTC(),
	}
	if file.StorageKey == "" {
		file.StorageKey = newStorageKey()
	}
	if nf.UploadedAt.IsZero() {
		file.UploadedAt = nowFunc().UTC()
	}
	return svc.repo.CreateSubjectFile(ctx, file)
}

func (svc *Service) GetFilesBySubjectID(ctx context.Context, subjectID int) ([]SubjectFile, error) {
	files, err := svc.repo.QuerySubjectFiles(ctx, subjectID)
	if err != nil {
		return nil, err
	}
	if files == nil {
		files = []SubjectFile{}
	}
	return files, nil
}

func (svc *Service) GetSubjectFileByID(ctx context.Context, id int) (SubjectFile, error) {
	return svc.repo.GetSubjectFile(ctx, id)
}

func (svc *Service) DeleteSubjectFile(ctx context.Context, id int) error {
	if err := svc.repo.DeleteSubjectFile(ctx, id); err != nil {
		return err
	}
	svc.logger.Info("subject file deleted", map[string]interface{}{"subject_file_id": id})
	return nil
}

// Related literature

// AddRelatedLiterature rejects titles too similar to one already listed for the file.
func (svc *Service) AddRelatedLiterature(ctx context.Context, nl NewRelatedLiterature) (RelatedLiterature, error) {
	nl.Title = core.CleanString(nl.Title)
	nl.Authors = core.CleanString(nl.Authors)
	nl.Source = core.CleanString(nl.Source)
	nl.Summary = core.CleanString(nl.Summary)
	if err := svc.validate.Struct(nl); err != nil {
		return RelatedLiterature{}, err
	}

	var lit RelatedLiterature
	err := svc.repo.InTx(ctx, func(repo Repository) error {
		existing, err := repo.QueryRelatedLiterature(ctx, nl.SubjectFileID)
		if err != nil {
			return err
		}
		if err = validateLiteratureTitle(nl.Title, existing); err != nil {
			return err
		}
		lit, err = repo.CreateRelatedLiterature(ctx, RelatedLiterature{
			SubjectFileID: nl.SubjectFileID,
			Title:         nl.Title,
			Authors:       nl.Authors,
			Source:        nl.Source,
			Summary:       nl.Summary,
		})
		return err
	})
	if err != nil {
		return RelatedLiterature{}, err
	}
	return lit, nil
}

func (svc *Service) QueryRelatedLiterature(ctx context.Context, subjectFileID int) ([]RelatedLiterature, error) {
	return svc.repo.QueryRelatedLiterature(ctx, subjectFileID)
}

func (svc *Service) DeleteRelatedLiterature(ctx context.Context, id int) error {
	return svc.repo.DeleteRelatedLiterature(ctx, id)
}
