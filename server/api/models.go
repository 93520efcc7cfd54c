package api

// LoginRequest is the data passed in to create a new login token.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse holds a newly created auth token.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// UserModel is the public representation of a dao.User.
type UserModel struct {
	URI            string `json:"uri,omitempty"`
	ID             string `json:"id"`
	Username       string `json:"username"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout_time,omitempty"`
	LastLoginTime  string `json:"last_login_time,omitempty"`
}

// PasswordUpdateRequest is the data passed in to change a user's password.
type PasswordUpdateRequest struct {
	Password string `json:"password"`
}

// InfoModel describes the running server and API.
type InfoModel struct {
	Version struct {
		Server    string `json:"server"`
		Combigram string `json:"combigram"`
	} `json:"version"`
	Grammars []GrammarModel `json:"grammars"`
}

// GrammarModel describes one grammar registered with the job server.
type GrammarModel struct {
	Name        string `json:"name"`
	Description string `json:"description"`
}

// JobSubmitRequest is the data passed in to submit a new parse job.
type JobSubmitRequest struct {
	Grammar  string `json:"grammar"`
	Input    string `json:"input"`
	WithTree bool   `json:"with_tree"`
}

// JobModel is the public representation of a dao.Job.
type JobModel struct {
	URI         string `json:"uri,omitempty"`
	ID          string `json:"id"`
	Grammar     string `json:"grammar"`
	Input       string `json:"input"`
	Created     string `json:"created"`
	Accepted    bool   `json:"accepted"`
	FinalCursor int    `json:"final_cursor"`
	Result      string `json:"result,omitempty"`
	Tree        string `json:"tree,omitempty"`
}
