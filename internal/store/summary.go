package store

import (
	"time"

	"github.com/dukerupert/homebase/internal/model"
)

// Summary gathers the dashboard figures at now.
func (s *Stores) Summary(now time.Time) (*model.Summary, error) {
	balance, err := s.Expenses.Balance()
	if err != nil {
		return nil, err
	}
	urgent, err := s.Events.CountUrgent(now)
	if err != nil {
		return nil, err
	}
	reminders, err := s.Events.ListNeedingReminder(now)
	if err != nil {
		return nil, err
	}
	overdue, err := s.CatTasks.ListOverdue(now)
	if err != nil {
		return nil, err
	}
	openChores, err := s.Chores.CountOpen()
	if err != nil {
		return nil, err
	}
	unbought, err := s.Shopping.CountUnbought()
	if err != nil {
		return nil, err
	}

	sum := &model.Summary{
		Balance:         balance.StringFixed(2),
		UrgentEvents:    urgent,
		ReminderEvents:  reminders,
		OverdueCatTasks: overdue,
		OpenChores:      openChores,
		UnboughtItems:   unbought,
	}
	if sum.ReminderEvents == nil {
		sum.ReminderEvents = []model.Event{}
	}
	if sum.OverdueCatTasks == nil {
		sum.OverdueCatTasks = []model.CatTask{}
	}
	return sum, nil
}
