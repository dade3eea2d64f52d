package service

import (
	"bytes"
	"fmt"
	"math"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/pkg/logger"
	"sort"
	"time"

	"github.com/xuri/excelize/v2"
	"go.uber.org/zap"
)

const (
	activeWithinDays  = 3
	atRiskAfterDays   = 7
	atRiskBelowPct    = 30
	minutesPerOrder   = 15
	activeStatsWindow = 7 * 24 * time.Hour

	exportFileDate  = "2006-01-02"
	exportTimestamp = "2006-01-02 15:04"
)

type AnalyticsService struct {
	UserRepo      UserStore
	ModuleRepo    ModuleStore
	LessonRepo    LessonStore
	ProgressRepo  ProgressStore
	MessageRepo   MessageStore
	ActivityRepo  ActivityStore
	DashboardRepo DashboardStore

	now func() time.Time
}

func NewAnalyticsService(
	userRepo UserStore,
	moduleRepo ModuleStore,
	lessonRepo LessonStore,
	progressRepo ProgressStore,
	messageRepo MessageStore,
	activityRepo ActivityStore,
	dashboardRepo DashboardStore,
) *AnalyticsService {
	return &AnalyticsService{
		UserRepo:      userRepo,
		ModuleRepo:    moduleRepo,
		LessonRepo:    lessonRepo,
		ProgressRepo:  progressRepo,
		MessageRepo:   messageRepo,
		ActivityRepo:  activityRepo,
		DashboardRepo: dashboardRepo,
		now:           time.Now,
	}
}

// Overview lists every student with their completed lessons, most recently active first.
func (s *AnalyticsService) Overview() ([]model.StudentOverview, error) {
	students, err := s.UserRepo.FindByRole(model.Student)
	if err != nil {
		return nil, err
	}
	stats, err := s.DashboardRepo.ProgressStatsByUser()
	if err != nil {
		return nil, err
	}

	rows := make([]model.StudentOverview, 0, len(students))
	for _, st := range students {
		row := model.StudentOverview{
			UserID:    st.ID,
			UserEmail: st.Email,
			UserName:  st.Name,
			LastSeen:  st.CreatedAt,
		}
		if ps, ok := stats[st.ID]; ok {
			row.LessonsCompleted = ps.Completed
			if ps.LastProgress != nil {
				row.LastSeen = *ps.LastProgress
			}
		}
		rows = append(rows, row)
	}

	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].LastSeen.After(rows[j].LastSeen)
	})
	return rows, nil
}

func classifyStudent(daysSinceActivity, progressPct int) model.StudentStatus {
	switch {
	case daysSinceActivity <= activeWithinDays:
		return model.StatusActive
	case progressPct < atRiskBelowPct && daysSinceActivity > atRiskAfterDays:
		return model.StatusAtRisk
	default:
		return model.StatusInactive
	}
}

// Students computes progress, average score and engagement status per student.
func (s *AnalyticsService) Students() ([]model.StudentAnalytics, error) {
	students, err := s.UserRepo.FindByRole(model.Student)
	if err != nil {
		return nil, err
	}
	totalLessons, err := s.LessonRepo.Count()
	if err != nil {
		return nil, err
	}
	stats, err := s.DashboardRepo.ProgressStatsByUser()
	if err != nil {
		return nil, err
	}
	lastActivity, err := s.ActivityRepo.LastActivityByUser()
	if err != nil {
		return nil, err
	}

	now := s.now()
	rows := make([]model.StudentAnalytics, 0, len(students))
	for _, st := range students {
		ps := stats[st.ID]

		avg := 0
		if ps.ScoredCount > 0 {
			avg = int(math.Round(float64(ps.ScoreSum) / float64(ps.ScoredCount)))
		}

		last, ok := lastActivity[st.ID]
		if !ok {
			last = st.CreatedAt
		}
		days := int(now.Sub(last).Hours() / 24)

		// without lessons there is nothing to fall behind on
		pct := 100
		if totalLessons > 0 {
			pct = ps.Completed * 100 / int(totalLessons)
		}

		rows = append(rows, model.StudentAnalytics{
			ID:               st.ID,
			Name:             st.Name,
			Email:            st.Email,
			CompletedLessons: ps.Completed,
			TotalLessons:     int(totalLessons),
			AverageScore:     avg,
			LastActivity:     last,
			Status:           classifyStudent(days, pct),
		})
	}
	return rows, nil
}

// Lessons reports completion per lesson. AverageTime is an estimate derived from the lesson position.
func (s *AnalyticsService) Lessons() ([]model.LessonAnalytics, error) {
	lessons, err := s.LessonRepo.FindAll()
	if err != nil {
		return nil, err
	}
	totalStudents, err := s.UserRepo.CountByRole(model.Student)
	if err != nil {
		return nil, err
	}
	completions, err := s.DashboardRepo.CompletionsByLesson()
	if err != nil {
		return nil, err
	}

	rows := make([]model.LessonAnalytics, 0, len(lessons))
	for _, l := range lessons {
		done := completions[l.ID]
		rate := 0
		if totalStudents > 0 {
			rate = int(math.Round(float64(done) * 100 / float64(totalStudents)))
		}
		rows = append(rows, model.LessonAnalytics{
			LessonID:          l.ID,
			LessonTitle:       l.Title,
			CompletionRate:    rate,
			AverageTime:       l.Order * minutesPerOrder,
			StudentsCompleted: done,
			TotalStudents:     int(totalStudents),
		})
	}
	return rows, nil
}

func (s *AnalyticsService) ProfessorStats() (*model.ProfessorStats, error) {
	var (
		stats model.ProfessorStats
		err   error
	)

	if stats.TotalStudents, err = s.UserRepo.CountByRole(model.Student); err != nil {
		return nil, err
	}
	if stats.TotalLessons, err = s.LessonRepo.Count(); err != nil {
		return nil, err
	}
	if stats.TotalModules, err = s.ModuleRepo.Count(); err != nil {
		return nil, err
	}
	if stats.PendingMessages, err = s.MessageRepo.CountByStatus(model.MessagePending); err != nil {
		return nil, err
	}
	if stats.ActiveStudents, err = s.ActivityRepo.CountActiveUsersSince(s.now().Add(-activeStatsWindow)); err != nil {
		return nil, err
	}

	completed, err := s.ProgressRepo.CountCompleted()
	if err != nil {
		return nil, err
	}
	if possible := stats.TotalStudents * stats.TotalLessons; possible > 0 {
		stats.CompletionRate = int(math.Round(float64(completed) * 100 / float64(possible)))
	}
	return &stats, nil
}

// ExportStudents renders the student analytics as an xlsx workbook.
func (s *AnalyticsService) ExportStudents() (*bytes.Buffer, string, error) {
	rows, err := s.Students()
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Students"
	idx, _ := f.NewSheet(sheetName)
	f.SetActiveSheet(idx)
	f.DeleteSheet("Sheet1")

	f.SetColWidth(sheetName, "A", "A", 8)
	f.SetColWidth(sheetName, "B", "C", 28)
	f.SetColWidth(sheetName, "D", "G", 16)
	f.SetColWidth(sheetName, "H", "H", 20)

	headerStyle, _ := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#306998"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})

	headers := []string{"ID", "Name", "Email", "Completed", "Total lessons", "Average score", "Status", "Last activity"}
	for i, h := range headers {
		f.SetCellValue(sheetName, cell(colName(i), 1), h)
	}
	f.SetCellStyle(sheetName, "A1", cell(colName(len(headers)-1), 1), headerStyle)

	for i, r := range rows {
		row := i + 2
		f.SetCellValue(sheetName, cell("A", row), r.ID)
		f.SetCellValue(sheetName, cell("B", row), r.Name)
		f.SetCellValue(sheetName, cell("C", row), r.Email)
		f.SetCellValue(sheetName, cell("D", row), r.CompletedLessons)
		f.SetCellValue(sheetName, cell("E", row), r.TotalLessons)
		f.SetCellValue(sheetName, cell("F", row), r.AverageScore)
		f.SetCellValue(sheetName, cell("G", row), string(r.Status))
		f.SetCellValue(sheetName, cell("H", row), r.LastActivity.UTC().Format(exportTimestamp))
	}

	buf := new(bytes.Buffer)
	if err := f.Write(buf); err != nil {
		logger.Log.Error("Failed to write analytics workbook", zap.Error(err))
		return nil, "", err
	}

	filename := fmt.Sprintf("students_%s.xlsx", s.now().Format(exportFileDate))
	return buf, filename, nil
}

func colName(idx int) string {
	name, _ := excelize.ColumnNumberToName(idx + 1)
	return name
}

func cell(col string, row int) string {
	return fmt.Sprintf("%s%d", col, row)
}
