package service

import (
	"errors"
	"python_tutor_backend/internal/model"
	"python_tutor_backend/internal/util"
	"testing"
)

func TestAnnouncementService_Create(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewAnnouncementService(newMockAnnouncementRepo(), notifier)

	a, err := svc.Create(&model.Announcement{Title: "Hola", Message: "Bienvenidos", ProfessorID: 2}, nil)
	if err != nil {
		t.Fatalf("Create() error = %v", err)
	}
	if a.Priority != model.PriorityNormal || !a.Published {
		t.Errorf("announcement = %+v, want normal priority and published", a)
	}
	if len(notifier.sent) != 1 || !notifier.sent[0].all || notifier.sent[0].msg.Type != NotifyAnnouncement {
		t.Fatalf("notifications = %+v, want one ANNOUNCEMENT broadcast", notifier.sent)
	}

	if _, err := svc.Create(&model.Announcement{Title: "Draft", Message: "x"}, boolPtr(false)); err != nil {
		t.Fatalf("Create(draft) error = %v", err)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("draft was broadcast")
	}
}

func TestAnnouncementService_Create_Validation(t *testing.T) {
	svc := NewAnnouncementService(newMockAnnouncementRepo(), nil)

	if _, err := svc.Create(&model.Announcement{Title: "", Message: "x"}, nil); !errors.Is(err, util.ErrEmptyContent) {
		t.Errorf("empty title err = %v, want ErrEmptyContent", err)
	}
	if _, err := svc.Create(&model.Announcement{Title: "t", Message: "x", Priority: "urgent"}, nil); !errors.Is(err, ErrInvalidPriority) {
		t.Errorf("bad priority err = %v, want ErrInvalidPriority", err)
	}
}

func TestAnnouncementService_List(t *testing.T) {
	svc := NewAnnouncementService(newMockAnnouncementRepo(), nil)
	svc.Create(&model.Announcement{Title: "Old", Message: "x"}, nil)
	svc.Create(&model.Announcement{Title: "Draft", Message: "x"}, boolPtr(false))
	svc.Create(&model.Announcement{Title: "New", Message: "x"}, nil)

	published, _ := svc.List(false)
	if len(published) != 2 || published[0].Title != "New" {
		t.Errorf("published = %+v, want New then Old", published)
	}
	all, _ := svc.List(true)
	if len(all) != 3 {
		t.Errorf("all = %d, want 3", len(all))
	}
}

func TestAnnouncementService_Update_PublishBroadcasts(t *testing.T) {
	notifier := &mockNotifier{}
	svc := NewAnnouncementService(newMockAnnouncementRepo(), notifier)
	draft, _ := svc.Create(&model.Announcement{Title: "Draft", Message: "x"}, boolPtr(false))

	updated, err := svc.Update(draft.ID, AnnouncementPatch{Title: strPtr("Final"), Published: boolPtr(true)})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}
	if updated.Title != "Final" || updated.Message != "x" {
		t.Errorf("announcement = %+v, want title changed and message kept", updated)
	}
	if len(notifier.sent) != 1 {
		t.Errorf("notifications = %d, want 1 on publish", len(notifier.sent))
	}

	svc.Update(draft.ID, AnnouncementPatch{Message: strPtr("y")})
	if len(notifier.sent) != 1 {
		t.Errorf("editing a published announcement broadcast again")
	}

	if _, err := svc.Update(999, AnnouncementPatch{}); !errors.Is(err, util.ErrAnnouncementNotFound) {
		t.Errorf("missing err = %v, want ErrAnnouncementNotFound", err)
	}
	if err := svc.Delete(999); !errors.Is(err, util.ErrAnnouncementNotFound) {
		t.Errorf("delete missing err = %v, want ErrAnnouncementNotFound", err)
	}
}
