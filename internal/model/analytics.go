package model

import "time"

// StudentOverview is one row of the professor dashboard overview.
type StudentOverview struct {
	UserID           uint      `json:"userId"`
	UserEmail        string    `json:"userEmail"`
	UserName         string    `json:"userName"`
	LessonsCompleted int       `json:"lessonsCompleted"`
	LastSeen         time.Time `json:"lastSeen"`
}

type StudentStatus string

const (
	StatusActive   StudentStatus = "active"
	StatusInactive StudentStatus = "inactive"
	StatusAtRisk   StudentStatus = "at-risk"
)

type StudentAnalytics struct {
	ID               uint          `json:"id"`
	Name             string        `json:"name"`
	Email            string        `json:"email"`
	CompletedLessons int           `json:"completedLessons"`
	TotalLessons     int           `json:"totalLessons"`
	AverageScore     int           `json:"averageScore"`
	LastActivity     time.Time     `json:"lastActivity"`
	Status           StudentStatus `json:"status"`
}

type LessonAnalytics struct {
	LessonID          uint   `json:"lessonId"`
	LessonTitle       string `json:"lessonTitle"`
	CompletionRate    int    `json:"completionRate"`
	AverageTime       int    `json:"averageTime"`
	StudentsCompleted int    `json:"studentsCompleted"`
	TotalStudents     int    `json:"totalStudents"`
}

type ProfessorStats struct {
	TotalStudents   int64 `json:"totalStudents"`
	TotalLessons    int64 `json:"totalLessons"`
	TotalModules    int64 `json:"totalModules"`
	PendingMessages int64 `json:"pendingMessages"`
	ActiveStudents  int64 `json:"activeStudents"`
	CompletionRate  int   `json:"completionRate"`
}

// AILogEntry is the decoded form of an AI_QUERY_ASKED activity.
type AILogEntry struct {
	ID             uint      `json:"id"`
	CreatedAt      time.Time `json:"createdAt"`
	Kind           string    `json:"kind"`
	Code           string    `json:"code,omitempty"`
	Question       string    `json:"question,omitempty"`
	Answer         string    `json:"critique"`
	CodeLength     int       `json:"codeLength"`
	CritiqueLength int       `json:"critiqueLength"`
}
