package api

import (
	"net/http"

	"github.com/dekarrin/combigram/server/dao"
	"github.com/dekarrin/combigram/server/middle"
	"github.com/dekarrin/combigram/server/result"
	"github.com/dekarrin/combigram/server/token"
)

// HTTPCreateToken returns a HandlerFunc that creates a new token for the
// user the client is currently logged in as, without requiring them to
// resupply their password.
func (api API) HTTPCreateToken() http.HandlerFunc {
	return api.Endpoint(api.epCreateToken)
}

func (api API) epCreateToken(req *http.Request) result.Result {
	user := req.Context().Value(middle.AuthUser).(dao.User)

	tok, err := token.Generate(api.Secret, user)
	if err != nil {
		return result.InternalServerError("could not generate JWT: " + err.Error())
	}

	resp := LoginResponse{
		Token:  tok,
		UserID: user.ID.String(),
	}
	return result.Created(resp, "user '"+user.Username+"' successfully created new token")
}
