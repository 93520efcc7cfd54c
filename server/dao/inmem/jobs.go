package inmem

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dekarrin/combigram/server/dao"
	"github.com/google/uuid"
)

func NewJobsRepository() *JobsRepository {
	return &JobsRepository{
		jobs:        make(map[uuid.UUID]dao.Job),
		byUserIndex: make(map[uuid.UUID][]uuid.UUID),
	}
}

type JobsRepository struct {
	jobs        map[uuid.UUID]dao.Job
	byUserIndex map[uuid.UUID][]uuid.UUID
}

func (r *JobsRepository) Close() error {
	return nil
}

func (r *JobsRepository) Create(ctx context.Context, job dao.Job) (dao.Job, error) {
	newUUID, err := uuid.NewRandom()
	if err != nil {
		return dao.Job{}, fmt.Errorf("could not generate ID: %w", err)
	}

	job.ID = newUUID
	job.Created = time.Now()

	r.jobs[job.ID] = job
	r.byUserIndex[job.UserID] = append(r.byUserIndex[job.UserID], job.ID)

	return job, nil
}

func (r *JobsRepository) GetByID(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return dao.Job{}, dao.ErrNotFound
	}

	return job, nil
}

func (r *JobsRepository) GetAllByUser(ctx context.Context, userID uuid.UUID) ([]dao.Job, error) {
	ids := r.byUserIndex[userID]
	all := make([]dao.Job, len(ids))
	for i := range ids {
		all[i] = r.jobs[ids[i]]
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Created.Before(all[j].Created)
	})

	return all, nil
}

func (r *JobsRepository) GetAll(ctx context.Context) ([]dao.Job, error) {
	all := make([]dao.Job, 0, len(r.jobs))
	for k := range r.jobs {
		all = append(all, r.jobs[k])
	}

	sort.Slice(all, func(i, j int) bool {
		return all[i].Created.Before(all[j].Created)
	})

	return all, nil
}

func (r *JobsRepository) Delete(ctx context.Context, id uuid.UUID) (dao.Job, error) {
	job, ok := r.jobs[id]
	if !ok {
		return dao.Job{}, dao.ErrNotFound
	}

	byUser := r.byUserIndex[job.UserID]
	for i, jid := range byUser {
		if jid == id {
			byUser = append(byUser[:i], byUser[i+1:]...)
			break
		}
	}
	if len(byUser) == 0 {
		delete(r.byUserIndex, job.UserID)
	} else {
		r.byUserIndex[job.UserID] = byUser
	}

	delete(r.jobs, id)

	return job, nil
}
