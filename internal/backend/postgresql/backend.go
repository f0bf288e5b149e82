package postgresql

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgconn"
	"go.uber.org/zap"

	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/backend"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/db"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/entity"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/mapper"
	"gitlab.ozon.dev/pupkingeorgij/backoffice/internal/repository"
)

const DefaultSearchLimit = 100

var ErrEmptyPatch = errors.New("patch has no writable columns")

// Backend serves the engine's fetch and persist contract from postgres.
// Every successful Persist also records a change event in the outbox in the
// same transaction.
type Backend struct {
	db          db.DB
	outbox      repository.OutboxTaskRepository
	topic       string
	searchLimit int
	log         *zap.Logger
	newID       func() string
}

func New(database db.DB, outbox repository.OutboxTaskRepository, topic string, searchLimit int, logger *zap.Logger) *Backend {
	if searchLimit <= 0 {
		searchLimit = DefaultSearchLimit
	}
	return &Backend{
		db:          database,
		outbox:      outbox,
		topic:       topic,
		searchLimit: searchLimit,
		log:         logger.With(zap.String("component", "postgres-backend")),
		newID:       uuid.NewString,
	}
}

func (b *Backend) FetchPage(ctx context.Context, kind entity.Kind, page, size int) ([]mapper.Row, bool, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, false, err
	}
	if page < 0 || size <= 0 {
		return nil, false, fmt.Errorf("invalid page %d of size %d", page, size)
	}

	// one extra row tells whether another page exists
	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY display_id DESC LIMIT $1 OFFSET $2`, t.selectList(), t.name)

	var found []map[string]interface{}
	if err := b.db.Select(ctx, &found, query, size+1, page*size); err != nil {
		return nil, false, backend.Transient("fetch page", kind, err)
	}

	isLast := len(found) <= size
	if !isLast {
		found = found[:size]
	}
	return toRows(found), isLast, nil
}

func (b *Backend) FetchFiltered(ctx context.Context, kind entity.Kind, query string) ([]mapper.Row, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	q := strings.TrimSpace(query)
	conds := make([]string, 0, len(t.search)+1)
	for _, col := range t.search {
		conds = append(conds, col+` ILIKE $1`)
	}
	args := []interface{}{containsPattern(q)}
	if n, err := strconv.ParseInt(strings.TrimPrefix(q, "#"), 10, 64); err == nil {
		conds = append(conds, fmt.Sprintf("display_id = $%d", len(args)+1))
		args = append(args, n)
	}
	args = append(args, b.searchLimit)

	sql := fmt.Sprintf(`SELECT %s FROM %s WHERE %s ORDER BY display_id DESC LIMIT $%d`,
		t.selectList(), t.name, strings.Join(conds, " OR "), len(args))

	var found []map[string]interface{}
	if err := b.db.Select(ctx, &found, sql, args...); err != nil {
		return nil, backend.Transient("fetch filtered", kind, err)
	}
	return toRows(found), nil
}

func (b *Backend) FetchByID(ctx context.Context, kind entity.Kind, id string) (mapper.Row, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, t.selectList(), t.name)

	var found map[string]interface{}
	err = b.db.Get(ctx, &found, query, id)
	if db.IsNotFound(err) {
		return nil, backend.ErrNotFound
	}
	if err != nil {
		return nil, backend.Transient("fetch by id", kind, err)
	}
	return mapper.Row(found), nil
}

func (b *Backend) FetchByIDs(ctx context.Context, kind entity.Kind, ids []string) ([]mapper.Row, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	if len(ids) == 0 {
		return nil, nil
	}

	query := fmt.Sprintf(`SELECT %s FROM %s WHERE id = ANY($1)`, t.selectList(), t.name)

	var found []map[string]interface{}
	if err := b.db.Select(ctx, &found, query, ids); err != nil {
		return nil, backend.Transient("fetch by ids", kind, err)
	}
	return toRows(found), nil
}

// Persist inserts a row when id is nil and patches it otherwise. Columns the
// table does not allow writing (identifiers, timestamps) are ignored.
func (b *Backend) Persist(ctx context.Context, kind entity.Kind, id *string, patch mapper.Row) (mapper.Row, error) {
	return b.write(ctx, kind, id, nil, patch)
}

// PersistIf patches id while every column of expect still holds its value.
// NULL matches nil.
func (b *Backend) PersistIf(ctx context.Context, kind entity.Kind, id string, expect, patch mapper.Row) (mapper.Row, error) {
	if len(expect) == 0 {
		return nil, errors.New("conditional persist without expectations")
	}
	return b.write(ctx, kind, &id, expect, patch)
}

func (b *Backend) write(ctx context.Context, kind entity.Kind, id *string, expect, patch mapper.Row) (mapper.Row, error) {
	t, err := lookup(kind)
	if err != nil {
		return nil, err
	}
	cols, vals := t.assignments(patch)
	if id != nil && len(cols) == 0 {
		return nil, ErrEmptyPatch
	}
	conds, condVals, err := t.conditions(expect)
	if err != nil {
		return nil, err
	}

	var (
		saved map[string]interface{}
		op    backend.Operation
	)
	err = db.InTx(ctx, b.db, func(tx db.Tx) error {
		if id == nil {
			op = backend.OpInsert
			query, args := t.insert(b.newID(), cols, vals)
			if err := tx.Get(ctx, &saved, query, args...); err != nil {
				return err
			}
		} else {
			op = backend.OpUpdate
			query, args := t.update(*id, cols, vals, conds, condVals)
			err := tx.Get(ctx, &saved, query, args...)
			if db.IsNotFound(err) {
				return b.missing(ctx, tx, t, *id, len(conds) > 0)
			}
			if err != nil {
				return err
			}
		}

		savedID, _ := saved["id"].(string)
		payload, err := json.Marshal(backend.ChangeEvent{Kind: kind, Operation: op, ID: savedID})
		if err != nil {
			return err
		}
		return b.outbox.CreateTx(ctx, tx, &repository.OutboxTask{
			Payload: payload,
			Topic:   b.topic,
			Key:     string(kind) + "/" + savedID,
		})
	})
	if errors.Is(err, backend.ErrNotFound) || errors.Is(err, backend.ErrConflict) {
		return nil, err
	}
	if err != nil {
		b.log.Warn("Persist failed", zap.String("kind", string(kind)), zap.Error(err))
		return nil, classify("persist", kind, err)
	}

	b.log.Debug("Persisted", zap.String("kind", string(kind)), zap.String("operation", string(op)), zap.Any("entity_id", saved["id"]))
	return mapper.Row(saved), nil
}

// missing tells a vanished row from one that failed the write's expectations.
func (b *Backend) missing(ctx context.Context, tx db.Tx, t table, id string, conditional bool) error {
	if !conditional {
		return backend.ErrNotFound
	}
	var exists bool
	query := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE id = $1)`, t.name)
	if err := tx.Get(ctx, &exists, query, id); err != nil {
		return err
	}
	if !exists {
		return backend.ErrNotFound
	}
	return backend.ErrConflict
}

// SQLSTATE classes that no retry can fix: data exceptions, integrity
// constraint violations, syntax errors and access rule violations.
var rejectedClasses = map[string]bool{"22": true, "23": true, "42": true}

func classify(op string, kind entity.Kind, err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && len(pgErr.Code) >= 2 && rejectedClasses[pgErr.Code[:2]] {
		return fmt.Errorf("%w: %s %s: %s (SQLSTATE %s)", backend.ErrRejected, op, kind, pgErr.Message, pgErr.Code)
	}
	return backend.Transient(op, kind, err)
}

func (t table) insert(id string, cols []string, vals []interface{}) (string, []interface{}) {
	names := append([]string{"id"}, cols...)
	holders := make([]string, len(names))
	for i := range names {
		holders[i] = "$" + strconv.Itoa(i+1)
	}
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s) RETURNING %s`,
		t.name, strings.Join(names, ", "), strings.Join(holders, ", "), t.selectList())
	return query, append([]interface{}{id}, vals...)
}

func (t table) update(id string, cols []string, vals []interface{}, conds []string, condVals []interface{}) (string, []interface{}) {
	sets := make([]string, 0, len(cols)+1)
	for i, col := range cols {
		sets = append(sets, fmt.Sprintf("%s = $%d", col, i+2))
	}
	if t.touch {
		sets = append(sets, "updated_at = now()")
	}
	where := []string{"id = $1"}
	for i, col := range conds {
		where = append(where, fmt.Sprintf("%s IS NOT DISTINCT FROM $%d", col, len(cols)+i+2))
	}
	query := fmt.Sprintf(`UPDATE %s SET %s WHERE %s RETURNING %s`,
		t.name, strings.Join(sets, ", "), strings.Join(where, " AND "), t.selectList())
	args := append([]interface{}{id}, vals...)
	return query, append(args, condVals...)
}

func lookup(kind entity.Kind) (table, error) {
	t, ok := tables[kind]
	if !ok {
		return table{}, fmt.Errorf("unknown entity kind %q", kind)
	}
	return t, nil
}

func toRows(found []map[string]interface{}) []mapper.Row {
	rows := make([]mapper.Row, len(found))
	for i, m := range found {
		rows[i] = mapper.Row(m)
	}
	return rows
}
