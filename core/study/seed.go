package study

import "time"

// Baseline rows of a freshly initialized store. The SQL migrations insert the same rows.
var (
	SeedSubjects = []Subject{
		{ID: 1, SubjectName: "Mathematics", SubjectDescription: "Basic Math", Teacher: "John Doe"},
		{ID: 2, SubjectName: "Science", SubjectDescription: "Basic Science", Teacher: "Jane Smith"},
	}

	SeedSchedules = []Schedule{
		{ID: 1, SubjectID: 1, Day: time.Monday, StartTime: "09:00", EndTime: "10:00"},
		{ID: 2, SubjectID: 2, Day: time.Tuesday, StartTime: "11:00", EndTime: "12:00"},
	}

	SeedExamSchedules = []ExamSchedule{
		{
			ID: 1, SubjectID: 1, ExamDate: time.Date(2024, time.July, 15, 0, 0, 0, 0, time.UTC),
			StartTime: "09:00", EndTime: "11:00", Priority: PriorityHigh,
		},
		{
			ID: 2, SubjectID: 2, ExamDate: time.Date(2024, time.July, 20, 0, 0, 0, 0, time.UTC),
			StartTime: "13:00", EndTime: "15:00", Priority: PriorityMedium,
		},
	}
)
