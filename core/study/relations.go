package study

// Tables
const (
	TableSubjects          = "subjects"
	TableSchedules         = "schedules"
	TableExamSchedules     = "exam_schedules"
	TableStudySessions     = "study_sessions"
	TableSubjectFiles      = "subject_files"
	TableRelatedLiterature = "related_literature"
	TableQuizzes           = "quizzes"
	TableQuizQuestions     = "quiz_questions"
	TableQuizAttempts      = "quiz_attempts"
	TableQuizAnswers       = "quiz_answers"
)

// Tables lists every table, parents before children.
var Tables = []string{
	TableSubjects,
	TableSchedules,
	TableExamSchedules,
	TableStudySessions,
	TableSubjectFiles,
	TableRelatedLiterature,
	TableQuizzes,
	TableQuizQuestions,
	TableQuizAttempts,
	TableQuizAnswers,
}

// DeletePolicy is what happens to the children of a deleted parent row.
type DeletePolicy int

const (
	// Cascade deletes the children along with the parent.
	Cascade DeletePolicy = iota
	// Restrict rejects the delete while children remain.
	// Like SQL NO ACTION it is checked once the whole delete has been applied,
	// so children removed by another cascade of the same delete do not block it.
	Restrict
)

func (p DeletePolicy) String() string {
	if p == Restrict {
		return "restrict"
	}
	return "cascade"
}

// SQLAction is the ON DELETE action implementing the policy.
func (p DeletePolicy) SQLAction() string {
	if p == Restrict {
		return "NO ACTION"
	}
	return "CASCADE"
}

// Relation is a foreign key from Child.Column to Parent.id.
type Relation struct {
	Name     string // constraint name
	Parent   string
	Child    string
	Column   string
	Nullable bool
	OnDelete DeletePolicy
}

// Relations is the referential integrity policy of the study graph.
// The migrations create one foreign key per entry, and the in-memory store enforces it as is.
var Relations = []Relation{
	{Name: "fk_schedules_subject", Parent: TableSubjects, Child: TableSchedules, Column: "subject_id", OnDelete: Cascade},
	{Name: "fk_exam_schedules_subject", Parent: TableSubjects, Child: TableExamSchedules, Column: "subject_id", OnDelete: Cascade},
	{Name: "fk_study_sessions_subject", Parent: TableSubjects, Child: TableStudySessions, Column: "subject_id", OnDelete: Cascade},
	{Name: "fk_subject_files_subject", Parent: TableSubjects, Child: TableSubjectFiles, Column: "subject_id", OnDelete: Cascade},
	{Name: "fk_study_sessions_exam_schedule", Parent: TableExamSchedules, Child: TableStudySessions, Column: "exam_schedule_id", Nullable: true, OnDelete: Restrict},
	{Name: "fk_related_literature_subject_file", Parent: TableSubjectFiles, Child: TableRelatedLiterature, Column: "subject_file_id", OnDelete: Cascade},
	{Name: "fk_quizzes_subject_file", Parent: TableSubjectFiles, Child: TableQuizzes, Column: "subject_file_id", OnDelete: Cascade},
	{Name: "fk_quiz_questions_quiz", Parent: TableQuizzes, Child: TableQuizQuestions, Column: "quiz_id", OnDelete: Cascade},
	{Name: "fk_quiz_attempts_quiz", Parent: TableQuizzes, Child: TableQuizAttempts, Column: "quiz_id", OnDelete: Cascade},
	{Name: "fk_quiz_answers_quiz_question", Parent: TableQuizQuestions, Child: TableQuizAnswers, Column: "quiz_question_id", OnDelete: Cascade},
}

// ChildRelations returns the relations whose parent is table.
func ChildRelations(table string) []Relation {
	var rels []Relation
	for _, rel := range Relations {
		if rel.Parent == table {
			rels = append(rels, rel)
		}
	}
	return rels
}

// ParentRelations returns the relations whose child is table.
func ParentRelations(table string) []Relation {
	var rels []Relation
	for _, rel := range Relations {
		if rel.Child == table {
			rels = append(rels, rel)
		}
	}
	return rels
}

// FailedRelation returns the only relation an integrity failure of op on table can come from:
// a restricted child relation of table on delete, a parent relation of table otherwise.
// It reports false when more than one relation could fail.
func FailedRelation(op, table string) (Relation, bool) {
	var candidates []Relation
	if op == "delete" {
		for _, rel := range ChildRelations(table) {
			if rel.OnDelete == Restrict {
				candidates = append(candidates, rel)
			}
		}
	} else {
		candidates = ParentRelations(table)
	}
	if len(candidates) != 1 {
		return Relation{}, false
	}
	return candidates[0], true
}
