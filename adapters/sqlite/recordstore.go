package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/artpar/modeladmin/adapters/clock"
	"github.com/artpar/modeladmin/adapters/idgen"
	"github.com/artpar/modeladmin/core/descriptor"
	"github.com/artpar/modeladmin/core/query"
	"github.com/artpar/modeladmin/core/schema"
	"github.com/artpar/modeladmin/ports"
)

var identPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// Columns every record table carries besides one column per edit field.
var reservedColumns = map[string]bool{
	"id":         true,
	"created_at": true,
	"updated_at": true,
}

// RecordStore implements ports.RecordStore with one table per model.
// Edit fields map to TEXT columns; multi-valued fields are stored as a
// JSON array.
type RecordStore struct {
	db    *DB
	clock ports.Clock
	ids   ports.IDGenerator
}

// NewRecordStore creates a record store. Nil clock or ids fall back to the
// system clock and random UUIDs.
func NewRecordStore(db *DB, c ports.Clock, ids ports.IDGenerator) *RecordStore {
	if c == nil {
		c = clock.Real{}
	}
	if ids == nil {
		ids = idgen.UUID{}
	}
	return &RecordStore{db: db, clock: c, ids: ids}
}

// ErrTableInUse is returned by Ensure when another model path already maps
// to the same table.
var ErrTableInUse = errors.New("table already in use")

// TableName returns the table holding records of the model at path. The
// mapping folds case and every character outside [a-z0-9] to "_", so
// distinct paths can share a name; Ensure refuses the second one.
func TableName(path string) string {
	var b strings.Builder
	b.WriteString("admin_")
	for _, r := range strings.ToLower(path) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			b.WriteRune(r)
		} else {
			b.WriteByte('_')
		}
	}
	return b.String()
}

func quote(ident string) string {
	return `"` + ident + `"`
}

// columns returns the edit fields of d after checking that every name is
// usable as a column.
func columns(d descriptor.Erased) ([]schema.Field, error) {
	fields := d.EditFields()
	for _, f := range fields {
		if !identPattern.MatchString(f.Name) {
			return nil, fmt.Errorf("field %q of %s is not a valid column name", f.Name, d.ModelName())
		}
		if reservedColumns[strings.ToLower(f.Name)] {
			return nil, fmt.Errorf("field %q of %s collides with a reserved column", f.Name, d.ModelName())
		}
	}
	return fields, nil
}

// Ensure creates the model's table, adds columns for new edit fields and
// records the descriptor in the admin_models catalog. Existing columns are
// never dropped.
func (s *RecordStore) Ensure(ctx context.Context, d descriptor.Erased) error {
	fields, err := columns(d)
	if err != nil {
		return err
	}
	table := TableName(d.URLPath())

	var owner string
	err = s.db.QueryRowContext(ctx,
		"SELECT url_path FROM admin_models WHERE table_name = ? AND url_path <> ?",
		table, d.URLPath(),
	).Scan(&owner)
	switch {
	case err == nil:
		return fmt.Errorf("%w: %s is used by model %q, cannot store %q", ErrTableInUse, table, owner, d.URLPath())
	case !errors.Is(err, sql.ErrNoRows):
		return fmt.Errorf("look up table %s: %w", table, err)
	}

	_, err = s.db.ExecContext(ctx, fmt.Sprintf(`
		CREATE TABLE IF NOT EXISTS %s (
			id TEXT PRIMARY KEY,
			created_at TEXT NOT NULL,
			updated_at TEXT NOT NULL
		)`, quote(table)))
	if err != nil {
		return fmt.Errorf("create table %s: %w", table, err)
	}

	existing, err := s.tableColumns(ctx, table)
	if err != nil {
		return err
	}
	for _, f := range fields {
		if existing[strings.ToLower(f.Name)] {
			continue
		}
		stmt := fmt.Sprintf("ALTER TABLE %s ADD COLUMN %s TEXT", quote(table), quote(f.Name))
		if _, err := s.db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("add column %s.%s: %w", table, f.Name, err)
		}
	}

	doc, err := json.Marshal(d)
	if err != nil {
		return fmt.Errorf("encode descriptor: %w", err)
	}
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO admin_models (url_path, model_name, plural_name, table_name, descriptor, ensured_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT(url_path) DO UPDATE SET
			model_name = excluded.model_name,
			plural_name = excluded.plural_name,
			table_name = excluded.table_name,
			descriptor = excluded.descriptor,
			ensured_at = excluded.ensured_at`,
		d.URLPath(), d.ModelName(), d.ModelNamePlural(), table, string(doc),
		s.clock.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("record model %s: %w", d.URLPath(), err)
	}
	return nil
}

func (s *RecordStore) tableColumns(ctx context.Context, table string) (map[string]bool, error) {
	rows, err := s.db.QueryContext(ctx, fmt.Sprintf("PRAGMA table_info(%s)", quote(table)))
	if err != nil {
		return nil, fmt.Errorf("inspect table %s: %w", table, err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var (
			cid     int
			name    string
			typ     string
			notNull int
			dflt    sql.NullString
			pk      int
		)
		if err := rows.Scan(&cid, &name, &typ, &notNull, &dflt, &pk); err != nil {
			return nil, err
		}
		cols[strings.ToLower(name)] = true
	}
	return cols, rows.Err()
}

// CatalogEntry describes a model recorded by Ensure.
type CatalogEntry struct {
	URLPath    string
	ModelName  string
	PluralName string
	TableName  string
	Descriptor string
	EnsuredAt  time.Time
}

// Catalog lists the models prepared in this database, ordered by path.
func (s *RecordStore) Catalog(ctx context.Context) ([]CatalogEntry, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT url_path, model_name, plural_name, table_name, descriptor, ensured_at
		FROM admin_models ORDER BY url_path`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []CatalogEntry
	for rows.Next() {
		var e CatalogEntry
		var ensuredAt string
		if err := rows.Scan(&e.URLPath, &e.ModelName, &e.PluralName, &e.TableName, &e.Descriptor, &ensuredAt); err != nil {
			return nil, err
		}
		e.EnsuredAt, _ = time.Parse(time.RFC3339Nano, ensuredAt)
		out = append(out, e)
	}
	return out, rows.Err()
}

// List filters, sorts and paginates records in SQL.
func (s *RecordStore) List(ctx context.Context, d descriptor.Erased, q query.ListQuery) (ports.Page, error) {
	fields, err := columns(d)
	if err != nil {
		return ports.Page{}, err
	}
	table := quote(TableName(d.URLPath()))

	where, args := searchClause(fields, q)

	var page ports.Page
	countSQL := "SELECT COUNT(*) FROM " + table + where
	if err := s.db.QueryRowContext(ctx, countSQL, args...).Scan(&page.Total); err != nil {
		return ports.Page{}, fmt.Errorf("count %s: %w", d.URLPath(), err)
	}

	dir := "DESC"
	if q.Ascending {
		dir = "ASC"
	}
	order := fmt.Sprintf(" ORDER BY %s %s, rowid %s", orderExpr(fields, q.SortField), dir, dir)

	listSQL := "SELECT " + selectList(fields) + " FROM " + table + where + order
	if q.Limit() > 0 {
		listSQL += " LIMIT ? OFFSET ?"
		args = append(args, q.Limit(), q.Offset())
	}

	rows, err := s.db.QueryContext(ctx, listSQL, args...)
	if err != nil {
		return ports.Page{}, fmt.Errorf("list %s: %w", d.URLPath(), err)
	}
	defer rows.Close()

	for rows.Next() {
		rec, err := scanRecord(rows, fields)
		if err != nil {
			return ports.Page{}, err
		}
		page.Records = append(page.Records, rec)
	}
	return page, rows.Err()
}

// searchClause matches the search term against every searchable column.
// LIKE is case-insensitive for ASCII in SQLite.
func searchClause(fields []schema.Field, q query.ListQuery) (string, []any) {
	if q.Search == "" {
		return "", nil
	}
	known := make(map[string]bool, len(fields))
	for _, f := range fields {
		known[f.Name] = true
	}

	pattern := "%" + escapeLike(q.Search) + "%"
	var conds []string
	var args []any
	for _, name := range q.SearchFields {
		if !known[name] {
			continue
		}
		conds = append(conds, quote(name)+` LIKE ? ESCAPE '\'`)
		args = append(args, pattern)
	}
	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE (" + strings.Join(conds, " OR ") + ")", args
}

func escapeLike(s string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(s)
}

// orderExpr maps a sort field to a column expression. Unknown fields and
// "id" fall back to insertion order.
func orderExpr(fields []schema.Field, field string) string {
	switch field {
	case "createdAt", "created_at":
		return "created_at"
	case "updatedAt", "updated_at":
		return "updated_at"
	}
	for _, f := range fields {
		if f.Name != field {
			continue
		}
		if f.Kind == schema.KindNumber {
			return "CAST(" + quote(f.Name) + " AS REAL)"
		}
		return quote(f.Name)
	}
	return "rowid"
}

func selectList(fields []schema.Field) string {
	cols := []string{"id", "created_at", "updated_at"}
	for _, f := range fields {
		cols = append(cols, quote(f.Name))
	}
	return strings.Join(cols, ", ")
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRecord(row scanner, fields []schema.Field) (ports.Record, error) {
	var rec ports.Record
	var createdAt, updatedAt string
	raw := make([]sql.NullString, len(fields))

	dest := []any{&rec.ID, &createdAt, &updatedAt}
	for i := range raw {
		dest = append(dest, &raw[i])
	}
	if err := row.Scan(dest...); err != nil {
		return ports.Record{}, err
	}

	rec.CreatedAt, _ = time.Parse(time.RFC3339Nano, createdAt)
	rec.UpdatedAt, _ = time.Parse(time.RFC3339Nano, updatedAt)
	rec.Values = make(ports.Values, len(fields))
	for i, f := range fields {
		if !raw[i].Valid {
			continue
		}
		vs, err := decodeValue(f, raw[i].String)
		if err != nil {
			return ports.Record{}, fmt.Errorf("decode %s: %w", f.Name, err)
		}
		rec.Values[f.Name] = vs
	}
	return rec, nil
}

func encodeValue(f schema.Field, vs []string) (string, error) {
	if f.Kind.IsMulti() {
		if vs == nil {
			vs = []string{}
		}
		b, err := json.Marshal(vs)
		return string(b), err
	}
	if len(vs) == 0 {
		return "", nil
	}
	return vs[0], nil
}

func decodeValue(f schema.Field, s string) ([]string, error) {
	if !f.Kind.IsMulti() {
		return []string{s}, nil
	}
	var vs []string
	if err := json.Unmarshal([]byte(s), &vs); err != nil {
		return nil, err
	}
	return vs, nil
}

// Get retrieves a record by ID.
func (s *RecordStore) Get(ctx context.Context, d descriptor.Erased, id string) (ports.Record, error) {
	fields, err := columns(d)
	if err != nil {
		return ports.Record{}, err
	}
	stmt := "SELECT " + selectList(fields) + " FROM " + quote(TableName(d.URLPath())) + " WHERE id = ?"

	rec, err := scanRecord(s.db.QueryRowContext(ctx, stmt, id), fields)
	if errors.Is(err, sql.ErrNoRows) {
		return ports.Record{}, ports.ErrNotFound
	}
	if err != nil {
		return ports.Record{}, err
	}
	return rec, nil
}

// Create inserts a new record. Values for names that are not edit fields
// are not persisted.
func (s *RecordStore) Create(ctx context.Context, d descriptor.Erased, values ports.Values) (ports.Record, error) {
	fields, err := columns(d)
	if err != nil {
		return ports.Record{}, err
	}

	now := s.clock.Now().UTC().Format(time.RFC3339Nano)
	id := s.ids.New()

	cols := []string{"id", "created_at", "updated_at"}
	args := []any{id, now, now}
	for _, f := range fields {
		vs, ok := values[f.Name]
		if !ok {
			continue
		}
		enc, err := encodeValue(f, vs)
		if err != nil {
			return ports.Record{}, err
		}
		cols = append(cols, quote(f.Name))
		args = append(args, enc)
	}

	placeholders := strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", ")
	stmt := fmt.Sprintf("INSERT INTO %s (%s) VALUES (%s)",
		quote(TableName(d.URLPath())), strings.Join(cols, ", "), placeholders)
	if _, err := s.db.ExecContext(ctx, stmt, args...); err != nil {
		return ports.Record{}, fmt.Errorf("insert %s: %w", d.URLPath(), err)
	}

	return s.Get(ctx, d, id)
}

// Update writes the given values; other columns are left untouched.
func (s *RecordStore) Update(ctx context.Context, d descriptor.Erased, id string, values ports.Values) (ports.Record, error) {
	fields, err := columns(d)
	if err != nil {
		return ports.Record{}, err
	}

	sets := []string{"updated_at = ?"}
	args := []any{s.clock.Now().UTC().Format(time.RFC3339Nano)}
	for _, f := range fields {
		vs, ok := values[f.Name]
		if !ok {
			continue
		}
		enc, err := encodeValue(f, vs)
		if err != nil {
			return ports.Record{}, err
		}
		sets = append(sets, quote(f.Name)+" = ?")
		args = append(args, enc)
	}
	args = append(args, id)

	stmt := fmt.Sprintf("UPDATE %s SET %s WHERE id = ?", quote(TableName(d.URLPath())), strings.Join(sets, ", "))
	res, err := s.db.ExecContext(ctx, stmt, args...)
	if err != nil {
		return ports.Record{}, fmt.Errorf("update %s: %w", d.URLPath(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.Record{}, ports.ErrNotFound
	}

	return s.Get(ctx, d, id)
}

// Delete removes a record.
func (s *RecordStore) Delete(ctx context.Context, d descriptor.Erased, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM "+quote(TableName(d.URLPath()))+" WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("delete %s: %w", d.URLPath(), err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ports.ErrNotFound
	}
	return nil
}

var _ ports.RecordStore = (*RecordStore)(nil)
