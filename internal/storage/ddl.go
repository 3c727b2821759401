package storage

import (
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// ddlJournal tracks the record DDL a MySQL transaction ran on a connection of
// its own. MySQL commits DDL implicitly, so a rolled back transaction replays
// the undo statements newest first and a committed one drops whatever the
// DDL set aside.
type ddlJournal struct {
	undo    []string
	cleanup []string
}

func (j *ddlJournal) record(undo, cleanup string) {
	if undo != "" {
		j.undo = append(j.undo, undo)
	}
	if cleanup != "" {
		j.cleanup = append(j.cleanup, cleanup)
	}
}

// merge hands the statements of a released savepoint to its parent
func (j *ddlJournal) merge(child *ddlJournal) {
	j.undo = append(j.undo, child.undo...)
	j.cleanup = append(j.cleanup, child.cleanup...)
}

func (j *ddlJournal) rollback(exec func(sql string) error) error {
	var errs []error
	for i := len(j.undo) - 1; i >= 0; i-- {
		if err := exec(j.undo[i]); err != nil {
			errs = append(errs, fmt.Errorf("failed to undo record DDL %q: %w", j.undo[i], err))
		}
	}
	return errors.Join(errs...)
}

func (j *ddlJournal) commit(exec func(sql string) error) error {
	var errs []error
	for _, sql := range j.cleanup {
		if err := exec(sql); err != nil {
			errs = append(errs, fmt.Errorf("failed to clean up record DDL %q: %w", sql, err))
		}
	}
	return errors.Join(errs...)
}

// setAsideName returns a fresh identifier for a dropped table or column that
// is kept until its transaction commits
func setAsideName() string {
	return "wv_del_" + strings.ReplaceAll(uuid.NewString(), "-", "")[:16]
}
