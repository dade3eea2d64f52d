package service

import (
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/repository"
	"sort"
	"sync"
	"time"

	"gorm.io/gorm"
)

// ── Mock UserStore ──

type mockUserRepo struct {
	users  map[uint]*model.User
	nextID uint
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[uint]*model.User), nextID: 1}
}

func (m *mockUserRepo) add(name, email string, role model.UserRole) *model.User {
	u := &model.User{Name: name, Email: email, Role: role}
	m.Create(u)
	return u
}

func (m *mockUserRepo) Create(user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return errors.New("duplicate email")
		}
	}
	user.ID = m.nextID
	m.nextID++
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now()
	}
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) FindByID(id uint) (*model.User, error) {
	if u, ok := m.users[id]; ok {
		return u, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByEmail(email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockUserRepo) FindByRole(role model.UserRole) ([]model.User, error) {
	var result []model.User
	for _, u := range m.users {
		if u.Role == role {
			result = append(result, *u)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockUserRepo) CountByRole(role model.UserRole) (int64, error) {
	list, _ := m.FindByRole(role)
	return int64(len(list)), nil
}

func (m *mockUserRepo) Update(user *model.User) error {
	m.users[user.ID] = user
	return nil
}

func (m *mockUserRepo) TouchLastSeen(userID uint, at time.Time) error {
	if u, ok := m.users[userID]; ok {
		u.LastSeen = &at
		return nil
	}
	return gorm.ErrRecordNotFound
}

// ── Mock ModuleStore ──

type mockModuleRepo struct {
	modules    map[uint]*model.Module
	lessons    *mockLessonRepo
	nextID     uint
	reordered  []model.ModuleOrder
	reorderErr error
}

func newMockModuleRepo(lessons *mockLessonRepo) *mockModuleRepo {
	return &mockModuleRepo{modules: make(map[uint]*model.Module), lessons: lessons, nextID: 1}
}

func (m *mockModuleRepo) FindStructure(publishedOnly bool) ([]model.Module, error) {
	var result []model.Module
	for _, mod := range m.modules {
		if publishedOnly && !mod.Published {
			continue
		}
		cp := *mod
		cp.Lessons = []model.Lesson{}
		if m.lessons != nil {
			for _, l := range m.lessons.sorted() {
				if l.ModuleID == mod.ID && (!publishedOnly || l.Published) {
					cp.Lessons = append(cp.Lessons, l)
				}
			}
		}
		result = append(result, cp)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})
	return result, nil
}

func (m *mockModuleRepo) FindByID(id uint) (*model.Module, error) {
	if mod, ok := m.modules[id]; ok {
		return mod, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockModuleRepo) Create(module *model.Module) error {
	module.ID = m.nextID
	m.nextID++
	m.modules[module.ID] = module
	return nil
}

func (m *mockModuleRepo) Update(module *model.Module) error {
	m.modules[module.ID] = module
	return nil
}

func (m *mockModuleRepo) Delete(id uint) error {
	if _, ok := m.modules[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.modules, id)
	if m.lessons != nil {
		for lid, l := range m.lessons.lessons {
			if l.ModuleID == id {
				delete(m.lessons.lessons, lid)
			}
		}
	}
	return nil
}

func (m *mockModuleRepo) Reorder(orders []model.ModuleOrder) error {
	if m.reorderErr != nil {
		return m.reorderErr
	}
	m.reordered = orders
	for _, o := range orders {
		if mod, ok := m.modules[o.ID]; ok {
			mod.Order = o.Order
		}
	}
	return nil
}

func (m *mockModuleRepo) Count() (int64, error) {
	return int64(len(m.modules)), nil
}

// ── Mock LessonStore ──

type mockLessonRepo struct {
	lessons map[uint]*model.Lesson
	nextID  uint
}

func newMockLessonRepo() *mockLessonRepo {
	return &mockLessonRepo{lessons: make(map[uint]*model.Lesson), nextID: 1}
}

func (m *mockLessonRepo) sorted() []model.Lesson {
	var result []model.Lesson
	for _, l := range m.lessons {
		result = append(result, *l)
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Order != result[j].Order {
			return result[i].Order < result[j].Order
		}
		return result[i].ID < result[j].ID
	})
	return result
}

func (m *mockLessonRepo) FindByID(id uint) (*model.Lesson, error) {
	if l, ok := m.lessons[id]; ok {
		return l, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockLessonRepo) FindAll() ([]model.Lesson, error) {
	return m.sorted(), nil
}

func (m *mockLessonRepo) Create(lesson *model.Lesson) error {
	lesson.ID = m.nextID
	m.nextID++
	m.lessons[lesson.ID] = lesson
	return nil
}

func (m *mockLessonRepo) Update(lesson *model.Lesson) error {
	m.lessons[lesson.ID] = lesson
	return nil
}

func (m *mockLessonRepo) Delete(id uint) error {
	if _, ok := m.lessons[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.lessons, id)
	return nil
}

func (m *mockLessonRepo) Reorder(orders []model.LessonOrder) error {
	for _, o := range orders {
		if l, ok := m.lessons[o.ID]; ok {
			l.Order = o.Order
			if o.ModuleID != nil {
				l.ModuleID = *o.ModuleID
			}
		}
	}
	return nil
}

func (m *mockLessonRepo) Count() (int64, error) {
	return int64(len(m.lessons)), nil
}

// ── Mock ProgressStore ──

type mockProgressRepo struct {
	rows   map[uint]*model.Progress
	nextID uint
}

func newMockProgressRepo() *mockProgressRepo {
	return &mockProgressRepo{rows: make(map[uint]*model.Progress), nextID: 1}
}

func (m *mockProgressRepo) FindByID(id uint) (*model.Progress, error) {
	if p, ok := m.rows[id]; ok {
		return p, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockProgressRepo) FindByUser(userID uint) ([]model.Progress, error) {
	var result []model.Progress
	for _, p := range m.rows {
		if p.UserID == userID {
			result = append(result, *p)
		}
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID < result[j].ID })
	return result, nil
}

func (m *mockProgressRepo) Upsert(progress *model.Progress) error {
	for _, p := range m.rows {
		if p.UserID == progress.UserID && p.LessonID == progress.LessonID {
			p.Completed = progress.Completed
			if progress.LastSubmittedCode != "" {
				p.LastSubmittedCode = progress.LastSubmittedCode
			}
			if progress.LastScore != nil {
				p.LastScore = progress.LastScore
			}
			*progress = *p
			return nil
		}
	}
	progress.ID = m.nextID
	m.nextID++
	cp := *progress
	m.rows[cp.ID] = &cp
	return nil
}

func (m *mockProgressRepo) CountCompleted() (int64, error) {
	var n int64
	for _, p := range m.rows {
		if p.Completed {
			n++
		}
	}
	return n, nil
}

// ── Mock FeedbackStore ──

type mockFeedbackRepo struct {
	items []model.Feedback
}

func (m *mockFeedbackRepo) Create(feedback *model.Feedback) error {
	feedback.ID = uint(len(m.items) + 1)
	m.items = append(m.items, *feedback)
	return nil
}

func (m *mockFeedbackRepo) FindByStudent(studentID uint) ([]model.Feedback, error) {
	var result []model.Feedback
	for i := len(m.items) - 1; i >= 0; i-- {
		if m.items[i].StudentID == studentID {
			result = append(result, m.items[i])
		}
	}
	return result, nil
}

// ── Mock AnnouncementStore ──

type mockAnnouncementRepo struct {
	items  map[uint]*model.Announcement
	nextID uint
}

func newMockAnnouncementRepo() *mockAnnouncementRepo {
	return &mockAnnouncementRepo{items: make(map[uint]*model.Announcement), nextID: 1}
}

func (m *mockAnnouncementRepo) FindAll(publishedOnly bool) ([]model.Announcement, error) {
	var result []model.Announcement
	for _, a := range m.items {
		if publishedOnly && !a.Published {
			continue
		}
		result = append(result, *a)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockAnnouncementRepo) FindByID(id uint) (*model.Announcement, error) {
	if a, ok := m.items[id]; ok {
		return a, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockAnnouncementRepo) Create(a *model.Announcement) error {
	a.ID = m.nextID
	m.nextID++
	m.items[a.ID] = a
	return nil
}

func (m *mockAnnouncementRepo) Update(a *model.Announcement) error {
	m.items[a.ID] = a
	return nil
}

func (m *mockAnnouncementRepo) Delete(id uint) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockAnnouncementRepo) Count() (int64, error) {
	return int64(len(m.items)), nil
}

// ── Mock MessageStore ──

type mockMessageRepo struct {
	items      map[uint]*model.StudentMessage
	nextID     uint
	lastFilter repository.MessageFilter
}

func newMockMessageRepo() *mockMessageRepo {
	return &mockMessageRepo{items: make(map[uint]*model.StudentMessage), nextID: 1}
}

func (m *mockMessageRepo) List(filter repository.MessageFilter) ([]model.StudentMessage, error) {
	m.lastFilter = filter
	var result []model.StudentMessage
	for _, msg := range m.items {
		if filter.StudentID != nil && msg.StudentID != *filter.StudentID {
			continue
		}
		if filter.Status != "" && msg.Status != filter.Status {
			continue
		}
		result = append(result, *msg)
	}
	sort.Slice(result, func(i, j int) bool { return result[i].ID > result[j].ID })
	return result, nil
}

func (m *mockMessageRepo) FindByID(id uint) (*model.StudentMessage, error) {
	if msg, ok := m.items[id]; ok {
		return msg, nil
	}
	return nil, gorm.ErrRecordNotFound
}

func (m *mockMessageRepo) Create(msg *model.StudentMessage) error {
	msg.ID = m.nextID
	m.nextID++
	m.items[msg.ID] = msg
	return nil
}

func (m *mockMessageRepo) Update(msg *model.StudentMessage) error {
	m.items[msg.ID] = msg
	return nil
}

func (m *mockMessageRepo) Delete(id uint) error {
	if _, ok := m.items[id]; !ok {
		return gorm.ErrRecordNotFound
	}
	delete(m.items, id)
	return nil
}

func (m *mockMessageRepo) CountByStatus(status model.MessageStatus) (int64, error) {
	var n int64
	for _, msg := range m.items {
		if msg.Status == status {
			n++
		}
	}
	return n, nil
}

// ── Mock ActivityStore ──

type mockActivityRepo struct {
	mu        sync.Mutex
	logs      []model.ActivityLog
	createErr error
	last      map[uint]time.Time
	active    int64
}

func newMockActivityRepo() *mockActivityRepo {
	return &mockActivityRepo{last: make(map[uint]time.Time)}
}

func (m *mockActivityRepo) Create(log *model.ActivityLog) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.createErr != nil {
		return m.createErr
	}
	log.ID = uint(len(m.logs) + 1)
	m.logs = append(m.logs, *log)
	return nil
}

func (m *mockActivityRepo) events(eventType model.EventType) []model.ActivityLog {
	m.mu.Lock()
	defer m.mu.Unlock()
	var result []model.ActivityLog
	for _, l := range m.logs {
		if l.EventType == eventType {
			result = append(result, l)
		}
	}
	return result
}

func (m *mockActivityRepo) FindByUserAndType(userID uint, eventType model.EventType) ([]model.ActivityLog, error) {
	var result []model.ActivityLog
	all := m.events(eventType)
	for i := len(all) - 1; i >= 0; i-- {
		if all[i].UserID == userID {
			result = append(result, all[i])
		}
	}
	return result, nil
}

func (m *mockActivityRepo) LastActivityByUser() (map[uint]time.Time, error) {
	return m.last, nil
}

func (m *mockActivityRepo) CountActiveUsersSince(_ time.Time) (int64, error) {
	return m.active, nil
}

// ── Mock DashboardStore ──

type mockDashboardRepo struct {
	stats       map[uint]repository.UserProgressStats
	completions map[uint]int
}

func (m *mockDashboardRepo) ProgressStatsByUser() (map[uint]repository.UserProgressStats, error) {
	if m.stats == nil {
		return map[uint]repository.UserProgressStats{}, nil
	}
	return m.stats, nil
}

func (m *mockDashboardRepo) CompletionsByLesson() (map[uint]int, error) {
	if m.completions == nil {
		return map[uint]int{}, nil
	}
	return m.completions, nil
}

// ── Mock Notifier ──

type sentNotification struct {
	users []uint
	role  model.UserRole
	all   bool
	msg   Notification
}

type mockNotifier struct {
	sent []sentNotification
}

func (m *mockNotifier) PushToUsers(userIDs []uint, msg Notification) {
	m.sent = append(m.sent, sentNotification{users: userIDs, msg: msg})
}

func (m *mockNotifier) PushToRole(role model.UserRole, msg Notification) {
	m.sent = append(m.sent, sentNotification{role: role, msg: msg})
}

func (m *mockNotifier) Broadcast(msg Notification) {
	m.sent = append(m.sent, sentNotification{all: true, msg: msg})
}
