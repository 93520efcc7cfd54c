package sqlite

import (
	"context"
	"database/sql"
	"encoding/base64"
	"fmt"
	"time"

	"github.com/dekarrin/combigram/ptree"
	"github.com/dekarrin/combigram/server/dao"
	"github.com/dekarrin/rezi"
	"github.com/google/uuid"
)

type JobsDB struct {
	db *sql.DB
}

func (repo *JobsDB) init() error {
	_, err := repo.db.Exec(`CREATE TABLE IF NOT EXISTS jobs (
		id TEXT NOT NULL PRIMARY KEY,
		user_id TEXT NOT NULL,
		grammar_name TEXT NOT NULL,
		input TEXT NOT NULL,
		created INTEGER NOT NULL,
		accepted INTEGER NOT NULL,
		final_cursor INTEGER NOT NULL,
		result TEXT NOT NULL,
		tree TEXT NOT NULL
	);`)
	if err != nil {
		return wrapDBError(err)
	}
	return nil
}

func (repo *JobsDB) Create(ctx context.Context, job dao.Job) (dao.Job, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Job{}, fmt.Errorf("could not generate ID: %w", err)
	}

	encTree, err := convertToDB_Tree(job.Tree)
	if err != nil {
		return dao.Job{}, err
	}

	stmt, err := repo.db.Prepare(`INSERT INTO jobs (id, user_id, grammar_name, input, created, accepted, final_cursor, result, tree) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}
	now := time.Now()
	_, err = stmt.ExecContext(ctx, newUUID.String(), job.UserID.String(), job.GrammarName, job.Input, now.Unix(), convertToDB_Bool(job.Accepted), job.FinalCursor, job.Result, encTree)
	if err != nil {
		return dao.Job{}, wrapDBError(err)
	}

	return repo.GetByID(ctx, newUUID)
}

func (repo *JobsDB) GetByID(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job := dao.Job{ID: id}
	var userID, encTree string
	var created int64
	var accepted int

	row := repo.db.QueryRowContext(ctx, `SELECT user_id, grammar_name, input, created, accepted, final_cursor, result, tree FROM jobs WHERE id = ?;`, id.String())
	err := row.Scan(&userID, &job.GrammarName, &job.Input, &created, &accepted, &job.FinalCursor, &job.Result, &encTree)
	if err != nil {
		return job, wrapDBError(err)
	}

	if err := convertFromDB_UUID(userID, &job.UserID); err != nil {
		return job, err
	}
	job.Created = time.Unix(created, 0)
	job.Accepted = accepted != 0
	job.Tree, err = convertFromDB_Tree(encTree)
	if err != nil {
		return job, err
	}

	return job, nil
}

func (repo *JobsDB) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Job, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, grammar_name, input, created, accepted, final_cursor, result, tree FROM jobs WHERE user_id = ? ORDER BY created ASC;`, userID.String())
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	return repo.scanJobs(rows, userID)
}

func (repo *JobsDB) GetAll(ctx context.Context) ([]dao.Job, error) {
	rows, err := repo.db.QueryContext(ctx, `SELECT id, user_id, grammar_name, input, created, accepted, final_cursor, result, tree FROM jobs ORDER BY created ASC;`)
	if err != nil {
		return nil, wrapDBError(err)
	}
	defer rows.Close()

	var all []dao.Job
	for rows.Next() {
		var job dao.Job
		var id, userID, encTree string
		var created int64
		var accepted int

		if err := rows.Scan(&id, &userID, &job.GrammarName, &job.Input, &created, &accepted, &job.FinalCursor, &job.Result, &encTree); err != nil {
			return nil, wrapDBError(err)
		}

		if err := convertFromDB_UUID(id, &job.ID); err != nil {
			return all, err
		}
		if err := convertFromDB_UUID(userID, &job.UserID); err != nil {
			return all, err
		}
		job.Created = time.Unix(created, 0)
		job.Accepted = accepted != 0
		job.Tree, err = convertFromDB_Tree(encTree)
		if err != nil {
			return all, err
		}

		all = append(all, job)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *JobsDB) scanJobs(rows *sql.Rows, userID uuid.UUID) ([]dao.Job, error) {
	var all []dao.Job
	for rows.Next() {
		job := dao.Job{UserID: userID}
		var id, encTree string
		var created int64
		var accepted int

		if err := rows.Scan(&id, &job.GrammarName, &job.Input, &created, &accepted, &job.FinalCursor, &job.Result, &encTree); err != nil {
			return nil, wrapDBError(err)
		}

		var err error
		if err = convertFromDB_UUID(id, &job.ID); err != nil {
			return all, err
		}
		job.Created = time.Unix(created, 0)
		job.Accepted = accepted != 0
		job.Tree, err = convertFromDB_Tree(encTree)
		if err != nil {
			return all, err
		}

		all = append(all, job)
	}

	if err := rows.Err(); err != nil {
		return all, wrapDBError(err)
	}

	return all, nil
}

func (repo *JobsDB) Delete(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	curVal, err := repo.GetByID(ctx, id)
	if err != nil {
		return curVal, err
	}

	res, err := repo.db.ExecContext(ctx, `DELETE FROM jobs WHERE id = ?`, id.String())
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

func (repo *JobsDB) Close() error {
	return repo.db.Close()
}

func convertToDB_Bool(b bool) int {
	if b {
		return 1
	}
	return 0
}

// convertToDB_Tree REZI-binary-encodes a parse tree and base64s it for
// storage in a TEXT column. A nil tree encodes to the empty string.
func convertToDB_Tree(t *ptree.Tree) (string, error) {
	if t == nil {
		return "", nil
	}
	encoded := rezi.EncBinary(t)
	return base64.StdEncoding.EncodeToString(encoded), nil
}

func convertFromDB_Tree(s string) (*ptree.Tree, error) {
	if s == "" {
		return nil, nil
	}
	raw, err := base64.StdEncoding.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("stored tree is not valid base64: %w", err)
	}
	t := &ptree.Tree{}
	n, err := rezi.DecBinary(raw, t)
	if err != nil {
		return nil, fmt.Errorf("REZI decode of stored tree: %w", err)
	}
	if n != len(raw) {
		return nil, fmt.Errorf("REZI decoded byte count mismatch; only consumed %d/%d bytes", n, len(raw))
	}
	return t, nil
}
