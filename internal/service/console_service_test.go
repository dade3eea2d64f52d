package service

import (
	"errors"
	"python_tutor_backend/internal/console"
	"python_tutor_backend/internal/model"
	"strings"
	"testing"
)

func TestConsoleService_Run(t *testing.T) {
	activity := newMockActivityRepo()
	svc := NewConsoleService(NewActivityService(activity))

	res, err := svc.Run(4, 2, "x = 5\nprint(x + 2)")
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if res.Output != "7" || res.Status != console.StatusOutput {
		t.Errorf("Run() = %+v, want output 7", res)
	}

	runs := activity.events(model.EventCodeRun)
	if len(runs) != 1 || runs[0].UserID != 4 {
		t.Fatalf("CODE_RUN events = %+v", runs)
	}
	if !strings.Contains(string(runs[0].Details), `"status":"output"`) {
		t.Errorf("CODE_RUN details = %s", runs[0].Details)
	}
}

func TestConsoleService_Run_Anonymous(t *testing.T) {
	activity := newMockActivityRepo()
	svc := NewConsoleService(NewActivityService(activity))

	if _, err := svc.Run(0, 0, "print('hola')"); err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(activity.logs) != 0 {
		t.Errorf("anonymous run logged %d events", len(activity.logs))
	}
}

func TestConsoleService_Run_TooLong(t *testing.T) {
	svc := NewConsoleService(nil)
	code := strings.Repeat("a", MaxSnippetLength+1)
	if _, err := svc.Run(1, 0, code); !errors.Is(err, ErrSnippetTooLong) {
		t.Errorf("Run() err = %v, want ErrSnippetTooLong", err)
	}
	if _, err := svc.Run(1, 0, strings.Repeat("ñ", MaxSnippetLength)); err != nil {
		t.Errorf("snippet at the limit rejected: %v", err)
	}
}
