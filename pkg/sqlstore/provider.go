package sqlstore

import (
	"context"
	"log/slog"

	"github.com/jmoiron/sqlx"

	"github.com/repo3d/repo3d/pkg/utils"
)

// SqlCommons is the slice of a store every consumer may rely on.
type SqlCommons interface {
	GetTable(...interface{}) string
}

type ConnectConfig interface {
	FormatDSN() string
}

// TransactionKey carries the open *sqlx.Tx on the context so nested store
// calls join the same transaction.
type TransactionKey struct{}

// SqlProvider holds one master pool and one or more replicas. With no
// replica configured the master serves reads too.
type SqlProvider struct {
	master   *sqlx.DB
	replicas []*sqlx.DB
	dbname   string
}

func MustSetupProvider(master ConnectConfig, replicas ...ConnectConfig) *SqlProvider {
	p := &SqlProvider{
		master: sqlx.MustOpen("postgres", master.FormatDSN()),
	}

	if len(replicas) == 0 {
		p.replicas = []*sqlx.DB{p.master}
		return p
	}
	for _, conf := range replicas {
		p.replicas = append(p.replicas, sqlx.MustOpen("postgres", conf.FormatDSN()))
	}
	return p
}

func (s *SqlProvider) GetMaster() *sqlx.DB {
	return s.master
}

func (s *SqlProvider) GetReplica() *sqlx.DB {
	return s.replicas[utils.Random(0, len(s.replicas)-1)]
}

func (s *SqlProvider) GetTxFromCtx(ctx context.Context) *sqlx.Tx {
	if tx, ok := ctx.Value(TransactionKey{}).(*sqlx.Tx); ok {
		return tx
	}
	return nil
}

// Transaction runs next inside a transaction, committing on nil and rolling
// back on error or panic. A call already inside a transaction joins it.
func (s *SqlProvider) Transaction(ctx context.Context, next func(ctx context.Context) error) error {
	if ctx == nil {
		ctx = context.Background()
	}
	if s.GetTxFromCtx(ctx) != nil {
		return next(ctx)
	}

	tx, err := s.master.BeginTxx(ctx, nil)
	if err != nil {
		return err
	}

	defer func() {
		if r := recover(); r != nil || err != nil {
			slog.Error("transaction rolled back", slog.Any("recover", r), slog.Any("error", err))
			_ = tx.Rollback()
		}
	}()

	if err = next(context.WithValue(ctx, TransactionKey{}, tx)); err != nil {
		return err
	}
	return tx.Commit()
}

func (s *SqlProvider) GetDBName() (string, error) {
	if s.dbname != "" {
		return s.dbname, nil
	}
	if err := s.master.QueryRow("SELECT current_database()").Scan(&s.dbname); err != nil {
		return "", err
	}
	return s.dbname, nil
}
