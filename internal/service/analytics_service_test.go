package service

import (
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/repository"
	"testing"
	"time"

	"github.com/xuri/excelize/v2"
)

var analyticsNow = time.Date(2024, 3, 15, 12, 0, 0, 0, time.UTC)

type analyticsFixture struct {
	svc       *AnalyticsService
	users     *mockUserRepo
	modules   *mockModuleRepo
	lessons   *mockLessonRepo
	progress  *mockProgressRepo
	messages  *mockMessageRepo
	activity  *mockActivityRepo
	dashboard *mockDashboardRepo
}

func newAnalyticsFixture() *analyticsFixture {
	f := &analyticsFixture{
		users:     newMockUserRepo(),
		lessons:   newMockLessonRepo(),
		progress:  newMockProgressRepo(),
		messages:  newMockMessageRepo(),
		activity:  newMockActivityRepo(),
		dashboard: &mockDashboardRepo{},
	}
	f.modules = newMockModuleRepo(f.lessons)
	f.svc = NewAnalyticsService(f.users, f.modules, f.lessons, f.progress, f.messages, f.activity, f.dashboard)
	f.svc.now = func() time.Time { return analyticsNow }
	return f
}

func TestClassifyStudent(t *testing.T) {
	tests := []struct {
		days int
		pct  int
		want model.StudentStatus
	}{
		{0, 0, model.StatusActive},
		{3, 0, model.StatusActive},
		{4, 10, model.StatusInactive},
		{7, 10, model.StatusInactive},
		{8, 10, model.StatusAtRisk},
		{30, 29, model.StatusAtRisk},
		{30, 30, model.StatusInactive},
		{10, 80, model.StatusInactive},
	}
	for _, tt := range tests {
		if got := classifyStudent(tt.days, tt.pct); got != tt.want {
			t.Errorf("classifyStudent(%d, %d) = %s, want %s", tt.days, tt.pct, got, tt.want)
		}
	}
}

func TestAnalyticsService_Students(t *testing.T) {
	f := newAnalyticsFixture()
	for i := 0; i < 10; i++ {
		f.lessons.Create(&model.Lesson{Title: "L", Order: i})
	}
	alice := f.users.add("Alice", "alice@test.com", model.Student)
	bob := f.users.add("Bob", "bob@test.com", model.Student)
	carol := f.users.add("Carol", "carol@test.com", model.Student)
	f.users.add("Prof", "prof@test.com", model.Professor)

	// Carol never did anything and registered long ago.
	f.users.users[carol.ID].CreatedAt = analyticsNow.Add(-20 * 24 * time.Hour)

	f.dashboard.stats = map[uint]repository.UserProgressStats{
		alice.ID: {UserID: alice.ID, Completed: 5, ScoreSum: 170, ScoredCount: 2},
		bob.ID:   {UserID: bob.ID, Completed: 1},
	}
	f.activity.last[alice.ID] = analyticsNow.Add(-time.Hour)
	f.activity.last[bob.ID] = analyticsNow.Add(-5 * 24 * time.Hour)

	rows, err := f.svc.Students()
	if err != nil {
		t.Fatalf("Students() error = %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("Students() returned %d rows, want 3 (professors excluded)", len(rows))
	}

	byID := make(map[uint]model.StudentAnalytics)
	for _, r := range rows {
		byID[r.ID] = r
		if r.TotalLessons != 10 {
			t.Errorf("student %d TotalLessons = %d, want 10", r.ID, r.TotalLessons)
		}
	}

	a := byID[alice.ID]
	if a.CompletedLessons != 5 || a.AverageScore != 85 || a.Status != model.StatusActive {
		t.Errorf("alice = %+v, want 5 completed, avg 85, active", a)
	}
	if b := byID[bob.ID]; b.AverageScore != 0 || b.Status != model.StatusInactive {
		t.Errorf("bob = %+v, want avg 0, inactive", b)
	}
	c := byID[carol.ID]
	if c.Status != model.StatusAtRisk {
		t.Errorf("carol status = %s, want at-risk", c.Status)
	}
	if !c.LastActivity.Equal(f.users.users[carol.ID].CreatedAt) {
		t.Errorf("carol LastActivity = %v, want registration time", c.LastActivity)
	}
}

func TestAnalyticsService_Students_NoLessons(t *testing.T) {
	f := newAnalyticsFixture()
	st := f.users.add("Dan", "dan@test.com", model.Student)
	f.users.users[st.ID].CreatedAt = analyticsNow.Add(-60 * 24 * time.Hour)

	rows, err := f.svc.Students()
	if err != nil {
		t.Fatalf("Students() error = %v", err)
	}
	if len(rows) != 1 || rows[0].Status != model.StatusInactive {
		t.Errorf("rows = %+v, want one inactive student when the course is empty", rows)
	}
}

func TestAnalyticsService_Lessons(t *testing.T) {
	f := newAnalyticsFixture()
	first := &model.Lesson{Title: "Intro", Order: 1}
	second := &model.Lesson{Title: "Loops", Order: 4}
	f.lessons.Create(first)
	f.lessons.Create(second)
	f.users.add("A", "a@test.com", model.Student)
	f.users.add("B", "b@test.com", model.Student)
	f.users.add("C", "c@test.com", model.Student)
	f.dashboard.completions = map[uint]int{first.ID: 2}

	rows, err := f.svc.Lessons()
	if err != nil {
		t.Fatalf("Lessons() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("Lessons() returned %d rows, want 2", len(rows))
	}
	if rows[0].LessonID != first.ID || rows[0].CompletionRate != 67 || rows[0].StudentsCompleted != 2 || rows[0].TotalStudents != 3 {
		t.Errorf("first lesson = %+v", rows[0])
	}
	if rows[0].AverageTime != 15 || rows[1].AverageTime != 60 {
		t.Errorf("average times = %d, %d, want 15, 60", rows[0].AverageTime, rows[1].AverageTime)
	}
	if rows[1].CompletionRate != 0 {
		t.Errorf("second lesson completion = %d, want 0", rows[1].CompletionRate)
	}
}

func TestAnalyticsService_ProfessorStats(t *testing.T) {
	f := newAnalyticsFixture()
	f.modules.Create(&model.Module{Title: "Basics"})
	l1 := &model.Lesson{Title: "One"}
	l2 := &model.Lesson{Title: "Two"}
	f.lessons.Create(l1)
	f.lessons.Create(l2)
	f.users.add("A", "a@test.com", model.Student)
	f.users.add("B", "b@test.com", model.Student)
	f.progress.Upsert(&model.Progress{UserID: 1, LessonID: l1.ID, Completed: true})
	f.messages.Create(&model.StudentMessage{StudentID: 1, Message: "help", Status: model.MessagePending})
	f.messages.Create(&model.StudentMessage{StudentID: 1, Message: "done", Status: model.MessageAnswered})
	f.activity.active = 1

	stats, err := f.svc.ProfessorStats()
	if err != nil {
		t.Fatalf("ProfessorStats() error = %v", err)
	}
	want := model.ProfessorStats{
		TotalStudents:   2,
		TotalLessons:    2,
		TotalModules:    1,
		PendingMessages: 1,
		ActiveStudents:  1,
		CompletionRate:  25,
	}
	if *stats != want {
		t.Errorf("ProfessorStats() = %+v, want %+v", *stats, want)
	}
}

func TestAnalyticsService_ProfessorStats_Empty(t *testing.T) {
	f := newAnalyticsFixture()
	stats, err := f.svc.ProfessorStats()
	if err != nil {
		t.Fatalf("ProfessorStats() error = %v", err)
	}
	if stats.CompletionRate != 0 {
		t.Errorf("CompletionRate = %d, want 0 without students", stats.CompletionRate)
	}
}

func TestAnalyticsService_Overview(t *testing.T) {
	f := newAnalyticsFixture()
	older := f.users.add("Old", "old@test.com", model.Student)
	newer := f.users.add("New", "new@test.com", model.Student)
	recent := analyticsNow.Add(-time.Hour)
	f.users.users[older.ID].CreatedAt = analyticsNow.Add(-48 * time.Hour)
	f.users.users[newer.ID].CreatedAt = analyticsNow.Add(-72 * time.Hour)
	f.dashboard.stats = map[uint]repository.UserProgressStats{
		newer.ID: {UserID: newer.ID, Completed: 3, LastProgress: &recent},
	}

	rows, err := f.svc.Overview()
	if err != nil {
		t.Fatalf("Overview() error = %v", err)
	}
	if len(rows) != 2 || rows[0].UserID != newer.ID || rows[0].LessonsCompleted != 3 {
		t.Errorf("Overview() = %+v, want most recently active student first", rows)
	}
}

func TestAnalyticsService_ExportStudents(t *testing.T) {
	f := newAnalyticsFixture()
	f.lessons.Create(&model.Lesson{Title: "Only"})
	st := f.users.add("Eve", "eve@test.com", model.Student)
	f.activity.last[st.ID] = analyticsNow
	f.dashboard.stats = map[uint]repository.UserProgressStats{
		st.ID: {UserID: st.ID, Completed: 1, ScoreSum: 90, ScoredCount: 1},
	}

	buf, filename, err := f.svc.ExportStudents()
	if err != nil {
		t.Fatalf("ExportStudents() error = %v", err)
	}
	if filename != "students_2024-03-15.xlsx" {
		t.Errorf("filename = %q", filename)
	}

	wb, err := excelize.OpenReader(buf)
	if err != nil {
		t.Fatalf("workbook does not open: %v", err)
	}
	defer wb.Close()

	rows, err := wb.GetRows("Students")
	if err != nil {
		t.Fatalf("GetRows() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("sheet has %d rows, want header + 1", len(rows))
	}
	if rows[0][0] != "ID" || rows[0][6] != "Status" {
		t.Errorf("header = %v", rows[0])
	}
	if rows[1][1] != "Eve" || rows[1][5] != "90" || rows[1][6] != "active" {
		t.Errorf("data row = %v", rows[1])
	}
}
