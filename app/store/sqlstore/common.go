package sqlstore

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/repo3d/repo3d/pkg/types"
)

func ErrorSqlBuild(err error) error {
	return fmt.Errorf("failed to build sql query, %w", err)
}

// SqlProviderAchieve is what a store needs from the provider: the two
// connection pools and the transaction carried on the context, if any.
type SqlProviderAchieve interface {
	GetMaster() *sqlx.DB
	GetReplica() *sqlx.DB
	GetDBName() (string, error)
	GetTxFromCtx(ctx context.Context) *sqlx.Tx
}

// CommonFields is the base wiring every store impl embeds: table name,
// column list and the master/replica accessors that honor an in-flight
// transaction.
type CommonFields struct {
	table      string
	provider   SqlProviderAchieve
	allColumns []string
}

func (c *CommonFields) SetProvider(p SqlProviderAchieve) { c.provider = p }
func (c *CommonFields) SetTable(table types.TableName)   { c.table = table.Name() }
func (c *CommonFields) SetAllColumns(cols ...string)     { c.allColumns = cols }

func (c *CommonFields) GetTable(_ ...interface{}) string { return c.table }
func (c *CommonFields) GetAllColumns() []string          { return c.allColumns }

func (c *CommonFields) GetAllColumnsWithPrefix(prefix string) []string {
	prefixed := make([]string, 0, len(c.allColumns))
	for _, col := range c.allColumns {
		prefixed = append(prefixed, prefix+"."+col)
	}
	return prefixed
}

type Master interface {
	Exec(query string, args ...interface{}) (sql.Result, error)
}

type Replica interface {
	Get(dest interface{}, query string, args ...interface{}) error
	Select(dest interface{}, query string, args ...interface{}) error
	Queryx(query string, args ...interface{}) (*sqlx.Rows, error)
	QueryRowx(query string, args ...interface{}) *sqlx.Row
}

// GetMaster returns the write handle: the context's transaction when one is
// running, otherwise the master pool bound to ctx.
func (c *CommonFields) GetMaster(ctx context.Context) Master {
	if ctx == nil {
		return c.provider.GetMaster()
	}
	if tx := c.provider.GetTxFromCtx(ctx); tx != nil {
		return tx
	}
	return &ctxDB{db: c.provider.GetMaster(), ctx: ctx}
}

// GetReplica returns a read handle. Reads inside a transaction go through
// the transaction so they see its writes.
func (c *CommonFields) GetReplica(ctx context.Context) Replica {
	if ctx == nil {
		return c.provider.GetReplica()
	}
	if tx := c.provider.GetTxFromCtx(ctx); tx != nil {
		return tx
	}
	return &ctxDB{db: c.provider.GetReplica(), ctx: ctx}
}

// ctxDB binds a pool to a request context so every query inherits its
// deadline and cancellation.
type ctxDB struct {
	db  *sqlx.DB
	ctx context.Context
}

func (d *ctxDB) Exec(query string, args ...interface{}) (sql.Result, error) {
	return d.db.ExecContext(d.ctx, query, args...)
}

func (d *ctxDB) Get(dest interface{}, query string, args ...interface{}) error {
	return d.db.GetContext(d.ctx, dest, query, args...)
}

func (d *ctxDB) Select(dest interface{}, query string, args ...interface{}) error {
	return d.db.SelectContext(d.ctx, dest, query, args...)
}

func (d *ctxDB) Queryx(query string, args ...interface{}) (*sqlx.Rows, error) {
	return d.db.QueryxContext(d.ctx, query, args...)
}

func (d *ctxDB) QueryRowx(query string, args ...interface{}) *sqlx.Row {
	return d.db.QueryRowxContext(d.ctx, query, args...)
}
