package store

import (
	"context"
	"testing"

	"github.com/dukerupert/homebase/internal/model"
)

func TestSweepEvents(t *testing.T) {
	stores := setupTestStores(t)
	ev := stores.Events

	old, _ := ev.Create("three days ago", day(-3), "", "")
	edge, _ := ev.Create("two days ago", day(-2), "", "")
	yesterday, _ := ev.Create("yesterday", day(-1), "", "")

	res, err := stores.Sweeper(DefaultRetentionDays).Run(context.Background(), testToday)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Events != 1 {
		t.Errorf("swept events = %d, want 1", res.Events)
	}

	if got, _ := ev.GetByID(old.ID); !got.IsDeleted {
		t.Error("event from three days ago should be swept")
	}
	if got, _ := ev.GetByID(edge.ID); got.IsDeleted {
		t.Error("event from exactly two days ago should be kept")
	}
	if got, _ := ev.GetByID(yesterday.ID); got.IsDeleted {
		t.Error("yesterday's event should be kept")
	}
}

func TestSweepChores(t *testing.T) {
	stores := setupTestStores(t)
	ch := stores.Chores

	old := day(-3)
	doneOld, _ := ch.Create("done long ago", model.PriorityNormal, &old)
	ch.Complete(doneOld.ID, model.MemberA)
	openOld, _ := ch.Create("still open", model.PriorityNormal, &old)
	undated, _ := ch.Create("undated", model.PriorityNormal, nil)
	ch.Complete(undated.ID, model.MemberB)

	res, err := stores.Sweeper(0).Run(context.Background(), testToday)
	if err != nil {
		t.Fatalf("sweep: %v", err)
	}
	if res.Chores != 1 {
		t.Errorf("swept chores = %d, want 1", res.Chores)
	}

	if got, _ := ch.GetByID(doneOld.ID); !got.IsDeleted {
		t.Error("completed chore due three days ago should be swept")
	}
	if got, _ := ch.GetByID(openOld.ID); got.IsDeleted {
		t.Error("incomplete chore should be kept")
	}
	if got, _ := ch.GetByID(undated.ID); got.IsDeleted {
		t.Error("undated chore should never be swept")
	}

	bin, _ := stores.Bin.List()
	if len(bin) != 1 || bin[0].ID != doneOld.ID {
		t.Errorf("bin = %+v, want the swept chore", bin)
	}
}

func TestSweepIsIdempotent(t *testing.T) {
	stores := setupTestStores(t)
	stores.Events.Create("old", day(-5), "", "")

	sw := stores.Sweeper(2)
	sw.Run(context.Background(), testToday)
	res, err := sw.Run(context.Background(), testToday)
	if err != nil {
		t.Fatalf("second sweep: %v", err)
	}
	if res.Events != 0 || res.Chores != 0 {
		t.Errorf("second sweep = %+v, want nothing", res)
	}
}

func TestSweepRecordsArchiveEntries(t *testing.T) {
	stores := setupTestStores(t)

	ev, _ := stores.Events.Create("dentist", day(-4), "", "")
	stores.Events.Create("tomorrow", day(1), "", "")
	due := day(-4)
	ch, _ := stores.Chores.Create("taxes", model.PriorityHigh, &due)
	stores.Chores.Complete(ch.ID, model.MemberA)

	if _, err := stores.Sweeper(2).Run(context.Background(), testToday); err != nil {
		t.Fatalf("sweep: %v", err)
	}

	events, _ := stores.Archive.List(model.EntityEvent, 0)
	if len(events) != 1 {
		t.Fatalf("event archive = %+v, want one entry", events)
	}
	got := events[0]
	if got.EntityID != ev.ID || got.Action != model.ActionDeleted || got.Label != "dentist" || got.Actor != SweepActor {
		t.Errorf("event entry = %+v, want deleted dentist by sweep", got)
	}

	chores, _ := stores.Archive.List(model.EntityChore, 0)
	var swept int
	for _, e := range chores {
		if e.Action == model.ActionDeleted && e.Actor == SweepActor && e.EntityID == ch.ID && e.Label == "taxes" {
			swept++
		}
	}
	if swept != 1 {
		t.Errorf("chore archive = %+v, want one sweep entry for taxes", chores)
	}

	stores.Sweeper(2).Run(context.Background(), testToday)
	events, _ = stores.Archive.List(model.EntityEvent, 0)
	if len(events) != 1 {
		t.Errorf("second sweep added entries: %+v", events)
	}
}
