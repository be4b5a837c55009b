package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dekarrin/grammarq/server/dao"
	"github.com/google/uuid"
)

type GrammarsDB struct {
	db *sql.DB
}

func (repo *GrammarsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS grammars (
		id TEXT NOT NULL PRIMARY KEY,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		cnf TEXT NOT NULL,
		owner TEXT NOT NULL,
		created INTEGER NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

const grammarColumns = `id, name, source, cnf, owner, created`

func scanGrammar(row scanner) (dao.Grammar, error) {
	var g dao.Grammar
	var id, compiled, owner string
	var created int64

	if err := row.Scan(&id, &g.Name, &g.Source, &compiled, &owner, &created); err != nil {
		return g, wrapDBError(err)
	}

	if err := convertFromDB_UUID(id, &g.ID); err != nil {
		return g, fmt.Errorf("stored UUID %q is invalid: %w", id, err)
	}
	if err := convertFromDB_UUID(owner, &g.Owner); err != nil {
		return g, fmt.Errorf("stored owner UUID %q is invalid: %w", owner, err)
	}
	if err := convertFromDB_CNF(compiled, &g.CNF); err != nil {
		return g, fmt.Errorf("stored grammar is invalid: %w", err)
	}
	if err := convertFromDB_Time(created, &g.Created); err != nil {
		return g, fmt.Errorf("stored created time %d is invalid: %w", created, err)
	}

	return g, nil
}

func (repo *GrammarsDB) Create(ctx context.Context, g dao.Grammar) (dao.Grammar, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Grammar{}, fmt.Errorf("could not generate ID: %w", err)
	}

	_, err = repo.db.ExecContext(ctx, `INSERT INTO grammars (`+grammarColumns+`) VALUES (?, ?, ?, ?, ?, ?);`,
		convertToDB_UUID(newUUID),
		g.Name,
		g.Source,
		convertToDB_CNF(g.CNF),
		convertToDB_UUID(g.Owner),
		convertToDB_Time(time.Now()),
	)
	if err != nil {
		return dao.Grammar{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *GrammarsDB) GetAll(ctx context.Context) ([]dao.Grammar, error) {
	return repo.query(ctx, `SELECT `+grammarColumns+` FROM grammars ORDER BY created, id;`)
}

func (repo *GrammarsDB) GetAllByOwner(ctx context.Context, owner uuid.UUID) ([]dao.Grammar, error) {
	return repo.query(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE owner = ? ORDER BY created, id;`, convertToDB_UUID(owner))
}

func (repo *GrammarsDB) query(ctx context.Context, stmt string, args ...any) ([]dao.Grammar, error) {
	rows, err := repo.db.QueryContext(ctx, stmt, args...)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Grammar
	for rows.Next() {
		g, err := scanGrammar(rows)
		if err != nil {
			return all, err
		}
		all = append(all, g)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}
	return all, nil
}

func (repo *GrammarsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	row := repo.db.QueryRowContext(ctx, `SELECT `+grammarColumns+` FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	return scanGrammar(row)
}

func (repo *GrammarsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Grammar, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM grammars WHERE id = ?;`, convertToDB_UUID(id))
	if err != nil {
		return curVal, wrapDBError(err)
	}
	rowsAff, err := res.RowsAffected()
	if err != nil {
		return curVal, wrapDBError(err)
	}
	if rowsAff < 1 {
		return curVal, dao.ErrNotFound
	}

	return curVal, nil
}

// Close does nothing; the connection is shared by the store and closed by it.
func (repo *GrammarsDB) Close() error {
	return nil
}
