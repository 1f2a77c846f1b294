package submission

import (
	"context"
	"fmt"

	"github.com/amishk599/resumefit/internal/model"
)

// HistoryHook records every stored result in s.
func HistoryHook(s model.HistoryStore) Hook {
	return func(_ context.Context, rec model.Record) error {
		if err := s.Record(rec); err != nil {
			return fmt.Errorf("record history: %w", err)
		}
		return nil
	}
}

// NotifyHook sends every stored result to n.
func NotifyHook(n model.ResultNotifier) Hook {
	return func(_ context.Context, rec model.Record) error {
		if err := n.Notify(rec); err != nil {
			return fmt.Errorf("notify: %w", err)
		}
		return nil
	}
}
