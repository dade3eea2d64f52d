package controller

import (
	"encoding/json"
	"net/http"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/service"
	"testing"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// stubModules records the visibility the handler asked for.
type stubModules struct {
	service.ModuleStore
	publishedOnly []bool
	reordered     []model.ModuleOrder
}

func (s *stubModules) FindStructure(publishedOnly bool) ([]model.Module, error) {
	s.publishedOnly = append(s.publishedOnly, publishedOnly)
	return []model.Module{{Title: "Basics", Lessons: []model.Lesson{}}}, nil
}

func (s *stubModules) Reorder(orders []model.ModuleOrder) error {
	s.reordered = orders
	return nil
}

type stubLessons struct {
	service.LessonStore
	lessons map[uint]*model.Lesson
}

func (s *stubLessons) FindByID(id uint) (*model.Lesson, error) {
	if l, ok := s.lessons[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func newCourseRouter(role model.UserRole) (*gin.Engine, *stubModules) {
	modules := &stubModules{}
	lessons := &stubLessons{lessons: map[uint]*model.Lesson{
		1: {BaseModel: model.BaseModel{ID: 1}, Title: "Visible", Published: true},
		2: {BaseModel: model.BaseModel{ID: 2}, Title: "Draft"},
	}}
	ctrl := NewCourseController(service.NewCourseService(modules, lessons, nil))

	r := gin.New()
	g := r.Group("/api", withClaims(9, role))
	g.GET("/course/structure", ctrl.GetStructure)
	g.GET("/lessons/:id", ctrl.GetLesson)
	g.PUT("/modules/reorder", ctrl.ReorderModules)
	return r, modules
}

func TestCourseController_GetStructure(t *testing.T) {
	tests := []struct {
		name          string
		role          model.UserRole
		query         string
		publishedOnly bool
	}{
		{"student", model.Student, "", true},
		{"student asking for all", model.Student, "?all=true", true},
		{"professor", model.Professor, "", true},
		{"professor asking for all", model.Professor, "?all=true", false},
		{"admin asking for all", model.Admin, "?all=true", false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r, modules := newCourseRouter(tt.role)
			w := doJSON(r, http.MethodGet, "/api/course/structure"+tt.query, nil)
			if w.Code != http.StatusOK {
				t.Fatalf("status = %d", w.Code)
			}
			if len(modules.publishedOnly) != 1 || modules.publishedOnly[0] != tt.publishedOnly {
				t.Errorf("publishedOnly = %v, want %v", modules.publishedOnly, tt.publishedOnly)
			}
			resp := decode(t, w)
			if resp.Total == nil || *resp.Total != 1 {
				t.Errorf("total = %v, want 1", resp.Total)
			}
		})
	}
}

func TestCourseController_GetLesson(t *testing.T) {
	student, _ := newCourseRouter(model.Student)
	professor, _ := newCourseRouter(model.Professor)

	if w := doJSON(student, http.MethodGet, "/api/lessons/1", nil); w.Code != http.StatusOK {
		t.Errorf("published lesson status = %d", w.Code)
	}
	if w := doJSON(student, http.MethodGet, "/api/lessons/2", nil); w.Code != http.StatusNotFound {
		t.Errorf("draft lesson for student status = %d, want 404", w.Code)
	}
	w := doJSON(professor, http.MethodGet, "/api/lessons/2", nil)
	if w.Code != http.StatusOK {
		t.Fatalf("draft lesson for professor status = %d", w.Code)
	}
	var lesson model.Lesson
	json.Unmarshal(decode(t, w).Data, &lesson)
	if lesson.Title != "Draft" {
		t.Errorf("lesson = %+v", lesson)
	}
	if w := doJSON(student, http.MethodGet, "/api/lessons/77", nil); w.Code != http.StatusNotFound {
		t.Errorf("unknown lesson status = %d, want 404", w.Code)
	}
	if w := doJSON(student, http.MethodGet, "/api/lessons/0", nil); w.Code != http.StatusBadRequest {
		t.Errorf("zero id status = %d, want 400", w.Code)
	}
}

func TestCourseController_ReorderModules(t *testing.T) {
	r, modules := newCourseRouter(model.Professor)

	body := map[string]interface{}{"modules": []model.ModuleOrder{{ID: 2, Order: 1}, {ID: 1, Order: 2}}}
	if w := doJSON(r, http.MethodPut, "/api/modules/reorder", body); w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}
	if len(modules.reordered) != 2 || modules.reordered[0].ID != 2 {
		t.Errorf("reordered = %+v", modules.reordered)
	}

	for _, bad := range []interface{}{
		map[string]interface{}{},
		map[string]interface{}{"modules": "nope"},
		map[string]interface{}{"modules": []map[string]int{{"order": 1}}},
	} {
		if w := doJSON(r, http.MethodPut, "/api/modules/reorder", bad); w.Code != http.StatusBadRequest {
			t.Errorf("body %v status = %d, want 400", bad, w.Code)
		}
	}
}
