package watcher

import (
	"testing"
	"time"
)

func TestNotify_AllLevels(t *testing.T) {
	now := time.Now()
	alerts := map[string]Alert{
		"info":     {Level: "info", Title: "New visits", Message: "1 new visit(s), +95 minutes", Time: now},
		"warning":  {Level: "warning", Title: "No seat found", Message: "1 new visit(s) ended within the no-seat threshold", Time: now},
		"critical": {Level: "critical", Title: "Totals disagree", Message: "total minutes disagree", Time: now},
		"zero":     {},
	}

	for name, a := range alerts {
		t.Run(name, func(t *testing.T) {
			// Delivery depends on osascript or notify-send being present;
			// only a panic is a failure here.
			_ = Notify(a)
		})
	}
}

func TestNotifyFallback(t *testing.T) {
	a := Alert{Level: "warning", Title: "History shrank", Message: "5 -> 3 visits", Time: time.Now()}
	if err := notifyFallback(a); err != nil {
		t.Errorf("notifyFallback: %v", err)
	}
}
