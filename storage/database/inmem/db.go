package inmemdb

import (
	"sort"
	"sync"

	"github.com/trezcool/studydesk/core"
	"github.com/trezcool/studydesk/core/study"
)

type (
	DB struct {
		mutex  sync.RWMutex
		tables map[string]*table
	}

	table struct {
		seq  int
		rows map[int]row
	}

	row struct {
		value interface{}
		refs  map[string]int // foreign key column -> parent ID; absent when NULL
	}

	rowKey struct {
		table string
		id    int
	}
)

// Open returns an empty store holding the seed rows.
func Open() (*DB, error) {
	db := &DB{tables: make(map[string]*table, len(study.Tables))}
	for _, name := range study.Tables {
		db.tables[name] = &table{rows: make(map[int]row)}
	}
	if err := db.seed(); err != nil {
		return nil, err
	}
	return db, nil
}

func (db *DB) seed() error {
	for _, subj := range study.SeedSubjects {
		if err := db.put(study.TableSubjects, subj.ID, subj); err != nil {
			return err
		}
	}
	for _, sched := range study.SeedSchedules {
		if err := db.put(study.TableSchedules, sched.ID, sched); err != nil {
			return err
		}
	}
	for _, exam := range study.SeedExamSchedules {
		if err := db.put(study.TableExamSchedules, exam.ID, exam); err != nil {
			return err
		}
	}
	return nil
}

// put stores a row under a known ID, moving the table sequence past it.
func (db *DB) put(name string, id int, value interface{}) error {
	if err := db.checkRefs("insert", name, 0, value); err != nil {
		return err
	}
	t := db.tables[name]
	t.rows[id] = row{value: value, refs: refsOf(value)}
	if id > t.seq {
		t.seq = id
	}
	return nil
}

// snapshot copies the tables; rows are values so a shallow copy per table is enough.
func (db *DB) snapshot() map[string]*table {
	snap := make(map[string]*table, len(db.tables))
	for name, t := range db.tables {
		rows := make(map[int]row, len(t.rows))
		for id, r := range t.rows {
			rows[id] = r
		}
		snap[name] = &table{seq: t.seq, rows: rows}
	}
	return snap
}

func (db *DB) insert(name string, value interface{}, withID func(id int) interface{}) (interface{}, error) {
	if err := db.checkRefs("insert", name, 0, value); err != nil {
		return nil, err
	}
	t := db.tables[name]
	t.seq++
	value = withID(t.seq)
	t.rows[t.seq] = row{value: value, refs: refsOf(value)}
	return value, nil
}

func (db *DB) update(name string, id int, value interface{}) error {
	t := db.tables[name]
	if _, ok := t.rows[id]; !ok {
		return core.NewNotFoundError(name, id)
	}
	if err := db.checkRefs("update", name, id, value); err != nil {
		return err
	}
	t.rows[id] = row{value: value, refs: refsOf(value)}
	return nil
}

func (db *DB) get(name string, id int) (interface{}, error) {
	r, ok := db.tables[name].rows[id]
	if !ok {
		return nil, core.NewNotFoundError(name, id)
	}
	return r.value, nil
}

// list returns the rows of name, by ascending ID, whose column references parentID.
// An empty column lists every row.
func (db *DB) list(name, column string, parentID int) []interface{} {
	t := db.tables[name]
	ids := make([]int, 0, len(t.rows))
	for id, r := range t.rows {
		if column == "" || r.refs[column] == parentID {
			ids = append(ids, id)
		}
	}
	sort.Ints(ids)

	values := make([]interface{}, 0, len(ids))
	for _, id := range ids {
		values = append(values, t.rows[id].value)
	}
	return values
}

// delete removes the row and, transitively, every row reached through Cascade relations.
// Restrict relations are checked once the whole set of deleted rows is known: the delete is
// rejected when a row outside of that set still references a row in it.
func (db *DB) delete(name string, id int) error {
	if _, ok := db.tables[name].rows[id]; !ok {
		return core.NewNotFoundError(name, id)
	}

	doomed := map[rowKey]bool{{name, id}: true}
	queue := []rowKey{{name, id}}
	for len(queue) > 0 {
		key := queue[0]
		queue = queue[1:]
		for _, rel := range study.ChildRelations(key.table) {
			if rel.OnDelete != study.Cascade {
				continue
			}
			for childID, child := range db.tables[rel.Child].rows {
				childKey := rowKey{rel.Child, childID}
				if parentID, ok := child.refs[rel.Column]; ok && parentID == key.id && !doomed[childKey] {
					doomed[childKey] = true
					queue = append(queue, childKey)
				}
			}
		}
	}

	for key := range doomed {
		for _, rel := range study.ChildRelations(key.table) {
			if rel.OnDelete != study.Restrict {
				continue
			}
			for childID, child := range db.tables[rel.Child].rows {
				if parentID, ok := child.refs[rel.Column]; ok && parentID == key.id && !doomed[rowKey{rel.Child, childID}] {
					return &core.IntegrityError{Op: "delete", Entity: name, ID: id, Constraint: rel.Name}
				}
			}
		}
	}

	for key := range doomed {
		delete(db.tables[key.table].rows, key.id)
	}
	return nil
}

// checkRefs makes sure every non-NULL foreign key of value references an existing row.
func (db *DB) checkRefs(op, name string, id int, value interface{}) error {
	refs := refsOf(value)
	for _, rel := range study.ParentRelations(name) {
		parentID, ok := refs[rel.Column]
		if !ok {
			continue
		}
		if _, exists := db.tables[rel.Parent].rows[parentID]; !exists {
			return &core.IntegrityError{Op: op, Entity: name, ID: id, Constraint: rel.Name}
		}
	}
	return nil
}

func refsOf(value interface{}) map[string]int {
	switch v := value.(type) {
	case study.Schedule:
		return map[string]int{"subject_id": v.SubjectID}
	case study.ExamSchedule:
		return map[string]int{"subject_id": v.SubjectID}
	case study.StudySession:
		refs := map[string]int{"subject_id": v.SubjectID}
		if v.ExamScheduleID.Valid {
			refs["exam_schedule_id"] = v.ExamScheduleID.Int
		}
		return refs
	case study.SubjectFile:
		return map[string]int{"subject_id": v.SubjectID}
	case study.RelatedLiterature:
		return map[string]int{"subject_file_id": v.SubjectFileID}
	case study.Quiz:
		return map[string]int{"subject_file_id": v.SubjectFileID}
	case study.QuizQuestion:
		return map[string]int{"quiz_id": v.QuizID}
	case study.QuizAttempt:
		return map[string]int{"quiz_id": v.QuizID}
	case study.QuizAnswer:
		return map[string]int{"quiz_question_id": v.QuizQuestionID}
	}
	return nil
}
