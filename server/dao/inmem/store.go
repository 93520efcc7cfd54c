package inmem

import "github.com/dekarrin/combigram/server/dao"

// NewDatastore returns a dao.Store backed entirely by in-process maps.
// Nothing survives process restart.
func NewDatastore() dao.Store {
	return &store{
		users: NewUsersRepository(),
		jobs:  NewJobsRepository(),
	}
}

type store struct {
	users *UsersRepository
	jobs  *JobsRepository
}

func (s *store) Users() dao.UserRepository {
	return s.users
}

func (s *store) Jobs() dao.JobRepository {
	return s.jobs
}

func (s *store) Close() error {
	return nil
}
