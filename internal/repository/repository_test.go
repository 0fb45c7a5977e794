package repository

import (
	"context"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingQuerier подменяет базу в тестах: запоминает SQL с аргументами
// и отдаёт заранее заданный результат
type recordingQuerier struct {
	execTag  pgconn.CommandTag
	row      pgx.Row
	lastSQL  string
	lastArgs []any
}

func (q *recordingQuerier) Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error) {
	q.lastSQL = sql
	q.lastArgs = args
	return q.execTag, nil
}

func (q *recordingQuerier) Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error) {
	q.lastSQL = sql
	q.lastArgs = args
	return nil, nil
}

func (q *recordingQuerier) QueryRow(ctx context.Context, sql string, args ...any) pgx.Row {
	q.lastSQL = sql
	q.lastArgs = args
	return q.row
}

type boolRow struct{ v bool }

func (r boolRow) Scan(dest ...any) error {
	*dest[0].(*bool) = r.v
	return nil
}

func TestInsertRefundWritesAmountType(t *testing.T) {
	db := &recordingQuerier{execTag: pgconn.NewCommandTag("INSERT 0 1")}
	repo := NewWalletRepository(db)

	inserted, err := repo.InsertRefund(context.Background(), 7, 1200, "Возврат за тренировку", 42)
	require.NoError(t, err)
	assert.True(t, inserted)

	// журнал исторически кодирует возвраты типом "amount"
	assert.Contains(t, db.lastSQL, "'amount'")
	assert.NotContains(t, db.lastSQL, "'refund'")
	assert.Contains(t, db.lastSQL, "ON CONFLICT (wallet_id, refund_of_session_id)")
	assert.Equal(t, []any{int64(7), float64(1200), "Возврат за тренировку", int64(42)}, db.lastArgs)
}

func TestInsertRefundSecondAttemptNotCredited(t *testing.T) {
	// ON CONFLICT DO NOTHING: повторная вставка не затрагивает ни одной строки
	db := &recordingQuerier{execTag: pgconn.NewCommandTag("INSERT 0 0")}
	repo := NewWalletRepository(db)

	inserted, err := repo.InsertRefund(context.Background(), 7, 1200, "Возврат за тренировку", 42)
	require.NoError(t, err)
	assert.False(t, inserted)
}

func TestDetachTemplateClearsReferences(t *testing.T) {
	db := &recordingQuerier{execTag: pgconn.NewCommandTag("UPDATE 3")}
	repo := NewSessionRepository(db)

	err := repo.DetachTemplate(context.Background(), 5)
	require.NoError(t, err)

	// отвязка обнуляет ссылку у всех тренировок шаблона, включая отменённые:
	// без фильтра по статусу, иначе удаление шаблона упало бы на FK
	assert.Contains(t, db.lastSQL, "SET template_id = NULL")
	assert.NotContains(t, db.lastSQL, "status")
	assert.Equal(t, []any{int64(5)}, db.lastArgs)
}

func TestSlotExists(t *testing.T) {
	day := time.Date(2026, time.March, 9, 0, 0, 0, 0, time.UTC)

	db := &recordingQuerier{row: boolRow{v: false}}
	repo := NewSlotRepository(db)

	exists, err := repo.SlotExists(context.Background(), 1, day, "09:00:00")
	require.NoError(t, err)
	assert.False(t, exists)

	db.row = boolRow{v: true}
	exists, err = repo.SlotExists(context.Background(), 1, day, "09:00:00")
	require.NoError(t, err)
	assert.True(t, exists)
}
