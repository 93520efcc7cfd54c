package tunas

import (
	"context"
	"errors"
	"fmt"

	"github.com/dekarrin/combigram"
	"github.com/dekarrin/combigram/ptree"
	"github.com/dekarrin/combigram/server/dao"
	"github.com/dekarrin/combigram/server/registry"
	"github.com/dekarrin/combigram/server/serr"
	"github.com/google/uuid"
)

// SubmitJob tokenizes input with the named registered grammar, parses it,
// and persists the outcome. who is the zero UUID for an unauthenticated
// submission.
//
// The returned error, if non-nil, will match serr.ErrGrammarUnknown via
// errors.Is if no grammar is registered under that name.
func (svc Service) SubmitJob(ctx context.Context, who uuid.UUID, grammarName, input string, withTree bool) (dao.Job, error) {
	entry, ok := registry.Get(grammarName)
	if !ok {
		return dao.Job{}, serr.New("no grammar named '"+grammarName+"' is registered", serr.ErrGrammarUnknown)
	}

	toks := entry.Tokenize(input)
	start, result := entry.Build()

	var cursor int
	var tree *ptree.Tree
	if withTree {
		tree = &ptree.Tree{}
	}

	accepted := combigram.Parse(start, toks, &cursor, tree)

	job := dao.Job{
		UserID:      who,
		GrammarName: grammarName,
		Input:       input,
		Accepted:    accepted,
		FinalCursor: cursor,
	}
	if accepted {
		job.Result = fmt.Sprint(result())
		if withTree {
			job.Tree = tree
		}
	}

	created, err := svc.DB.Jobs().Create(ctx, job)
	if err != nil {
		return dao.Job{}, serr.WrapDB("could not save job", err)
	}

	return created, nil
}

// GetJob returns the job with the given ID.
func (svc Service) GetJob(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job, err := svc.DB.Jobs().GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Job{}, serr.ErrNotFound
		}
		return dao.Job{}, serr.WrapDB("could not get job", err)
	}
	return job, nil
}

// ListJobs returns every job submitted by who, or every job in the system
// if who is the zero UUID.
func (svc Service) ListJobs(ctx context.Context, who uuid.UUID) ([]dao.Job, error) {
	if who == uuid.Nil {
		jobs, err := svc.DB.Jobs().GetAll(ctx)
		if err != nil {
			return nil, serr.WrapDB("could not list jobs", err)
		}
		return jobs, nil
	}

	jobs, err := svc.DB.Jobs().GetAllByUser(ctx, who)
	if err != nil {
		return nil, serr.WrapDB("could not list jobs", err)
	}
	return jobs, nil
}

// DeleteJob deletes the job with the given ID, returning it as it existed
// just before deletion.
func (svc Service) DeleteJob(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job, err := svc.DB.Jobs().Delete(ctx, id)
	if err != nil {
		if errors.Is(err, dao.ErrNotFound) {
			return dao.Job{}, serr.ErrNotFound
		}
		return dao.Job{}, serr.WrapDB("could not delete job", err)
	}
	return job, nil
}
