package storage

import (
	"errors"
	"testing"

	"github.com/railsuser2014/WebVella-ERP/internal/security"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type execLog []string

func (l *execLog) exec(sql string) error {
	*l = append(*l, sql)
	return nil
}

func TestDDLJournal_RollbackUndoesNewestFirst(t *testing.T) {
	var j ddlJournal
	j.record("DROP TABLE IF EXISTS `rec_order`", "")
	j.record("ALTER TABLE `rec_order` DROP COLUMN `note`", "")
	j.record("ALTER TABLE `rec_order` RENAME COLUMN `wv_del_1` TO `title`", "ALTER TABLE `rec_order` DROP COLUMN `wv_del_1`")

	var log execLog
	require.NoError(t, j.rollback(log.exec))
	assert.Equal(t, execLog{
		"ALTER TABLE `rec_order` RENAME COLUMN `wv_del_1` TO `title`",
		"ALTER TABLE `rec_order` DROP COLUMN `note`",
		"DROP TABLE IF EXISTS `rec_order`",
	}, log)
}

func TestDDLJournal_CommitRunsCleanupOnly(t *testing.T) {
	var j ddlJournal
	j.record("ALTER TABLE `rec_order` DROP COLUMN `note`", "")
	j.record("RENAME TABLE `wv_del_1` TO `rec_tag`", "DROP TABLE IF EXISTS `wv_del_1`")

	var log execLog
	require.NoError(t, j.commit(log.exec))
	assert.Equal(t, execLog{"DROP TABLE IF EXISTS `wv_del_1`"}, log)
}

func TestDDLJournal_MergeKeepsSavepointStatements(t *testing.T) {
	var parent, child ddlJournal
	parent.record("undo parent", "")
	child.record("undo child", "cleanup child")
	parent.merge(&child)

	var log execLog
	require.NoError(t, parent.rollback(log.exec))
	assert.Equal(t, execLog{"undo child", "undo parent"}, log)
	assert.Equal(t, []string{"cleanup child"}, parent.cleanup)
}

func TestDDLJournal_RollbackKeepsGoing(t *testing.T) {
	var j ddlJournal
	j.record("first", "")
	j.record("second", "")

	var ran []string
	err := j.rollback(func(sql string) error {
		ran = append(ran, sql)
		if sql == "second" {
			return errors.New("lock wait timeout")
		}
		return nil
	})
	assert.ErrorContains(t, err, "lock wait timeout")
	assert.Equal(t, []string{"second", "first"}, ran)
}

func TestSetAsideName(t *testing.T) {
	a, b := setAsideName(), setAsideName()
	assert.NotEqual(t, a, b)
	assert.NoError(t, security.ValidateIdentifier(a))
}
