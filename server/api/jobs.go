package api

import (
	"errors"
	"net/http"
	"time"

	"github.com/dekarrin/combigram/server/dao"
	"github.com/dekarrin/combigram/server/middle"
	"github.com/dekarrin/combigram/server/result"
	"github.com/dekarrin/combigram/server/serr"
	"github.com/google/uuid"
)

func jobModel(j dao.Job) JobModel {
	m := JobModel{
		URI:         PathPrefix + "/jobs/" + j.ID.String(),
		ID:          j.ID.String(),
		Grammar:     j.GrammarName,
		Input:       j.Input,
		Created:     j.Created.Format(time.RFC3339),
		Accepted:    j.Accepted,
		FinalCursor: j.FinalCursor,
		Result:      j.Result,
	}
	if j.Tree != nil {
		m.Tree = j.Tree.String()
	}
	return m
}

// HTTPCreateJob returns a HandlerFunc that submits a new parse job against
// one of the registered grammars and returns the outcome. Unauthenticated
// submission is allowed; the job is then attributed to no user.
func (api API) HTTPCreateJob() http.HandlerFunc {
	return api.Endpoint(api.epCreateJob)
}

func (api API) epCreateJob(req *http.Request) result.Result {
	var who uuid.UUID
	if loggedIn, _ := req.Context().Value(middle.AuthLoggedIn).(bool); loggedIn {
		who = req.Context().Value(middle.AuthUser).(dao.User).ID
	}

	var submitReq JobSubmitRequest
	if err := parseJSON(req, &submitReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if submitReq.Grammar == "" {
		return result.BadRequest("grammar: property is empty or missing from request", "empty grammar")
	}

	job, err := api.Backend.SubmitJob(req.Context(), who, submitReq.Grammar, submitReq.Input, submitReq.WithTree)
	if err != nil {
		if errors.Is(err, serr.ErrGrammarUnknown) {
			return result.BadRequest(err.Error(), err.Error())
		}
		return result.InternalServerError(err.Error())
	}

	resp := jobModel(job)
	return result.Created(resp, "job %s against grammar '%s' submitted (accepted=%t)", resp.ID, resp.Grammar, resp.Accepted)
}

// HTTPGetAllJobs returns a HandlerFunc that lists every job submitted by the
// logged-in user, or every job in the system for an admin user.
func (api API) HTTPGetAllJobs() http.HandlerFunc {
	return api.Endpoint(api.epGetAllJobs)
}

func (api API) epGetAllJobs(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	who := user.ID
	if user.Role == dao.Admin {
		who = uuid.Nil
	}

	jobs, err := api.Backend.ListJobs(req.Context(), who)
	if err != nil {
		return result.InternalServerError(err.Error())
	}

	resp := make([]JobModel, len(jobs))
	for i := range jobs {
		resp[i] = jobModel(jobs[i])
	}

	return result.OK(resp, "user '%s' listed jobs", user.Username)
}

// HTTPGetJob returns a HandlerFunc that retrieves a single job. All users
// may retrieve their own jobs, but only an admin may retrieve another
// user's job.
func (api API) HTTPGetJob() http.HandlerFunc {
	return api.Endpoint(api.epGetJob)
}

func (api API) epGetJob(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	job, err := api.Backend.GetJob(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if job.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) get job %s: forbidden", user.Username, user.Role, id)
	}

	return result.OK(jobModel(job), "user '%s' got job %s", user.Username, id)
}

// HTTPDeleteJob returns a HandlerFunc that deletes a job. All users may
// delete their own jobs, but only an admin may delete another user's.
func (api API) HTTPDeleteJob() http.HandlerFunc {
	return api.Endpoint(api.epDeleteJob)
}

func (api API) epDeleteJob(req *http.Request) result.Result {
	id := requireIDParam(req)
	user := req.Context().Value(middle.AuthUser).(dao.User)

	existing, err := api.Backend.GetJob(req.Context(), id)
	if err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	if existing.UserID != user.ID && user.Role != dao.Admin {
		return result.Forbidden("user '%s' (role %s) delete job %s: forbidden", user.Username, user.Role, id)
	}

	if _, err := api.Backend.DeleteJob(req.Context(), id); err != nil {
		if errors.Is(err, serr.ErrNotFound) {
			return result.NotFound()
		}
		return result.InternalServerError(err.Error())
	}

	return result.NoContent("user '%s' deleted job %s", user.Username, id)
}
