package api

import (
	"net/http"

	"github.com/dekarrin/combigram/internal/version"
	"github.com/dekarrin/combigram/server/dao"
	"github.com/dekarrin/combigram/server/middle"
	"github.com/dekarrin/combigram/server/registry"
	"github.com/dekarrin/combigram/server/result"
)

// HTTPGetInfo returns a HandlerFunc that retrieves information on the API,
// server, and the grammars registered with it.
func (api API) HTTPGetInfo() http.HandlerFunc {
	return api.Endpoint(api.epGetInfo)
}

func (api API) epGetInfo(req *http.Request) result.Result {
	loggedIn := req.Context().Value(middle.AuthLoggedIn).(bool)

	var resp InfoModel
	resp.Version.Server = version.ServerCurrent
	resp.Version.Combigram = version.Current

	for _, name := range registry.Names() {
		entry, _ := registry.Get(name)
		resp.Grammars = append(resp.Grammars, GrammarModel{Name: entry.Name, Description: entry.Describe})
	}

	userStr := "unauthed client"
	if loggedIn {
		user := req.Context().Value(middle.AuthUser).(dao.User)
		userStr = "user '" + user.Username + "'"
	}
	return result.OK(resp, "%s got API info", userStr)
}
