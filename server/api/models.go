package api

import (
	"strings"
	"time"

	"github.com/dekarrin/grammarq/internal/compare"
	"github.com/dekarrin/grammarq/server/dao"
	"github.com/dekarrin/grammarq/server/gqs"
)

// InfoModel is the response body of GET /info.
type InfoModel struct {
	Version struct {
		Server   string `json:"server"`
		GrammarQ string `json:"grammarq"`
	} `json:"version"`
}

// LoginRequest is the request body of POST /login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is the response body of POST /login and POST /tokens.
type LoginResponse struct {
	Token  string `json:"token"`
	UserID string `json:"user_id"`
}

// UserModel is a user as sent to and from clients. Password is only read from
// requests and is never sent in responses.
type UserModel struct {
	URI            string `json:"uri,omitempty"`
	ID             string `json:"id,omitempty"`
	Username       string `json:"username"`
	Password       string `json:"password,omitempty"`
	Email          string `json:"email,omitempty"`
	Role           string `json:"role,omitempty"`
	Created        string `json:"created,omitempty"`
	Modified       string `json:"modified,omitempty"`
	LastLogoutTime string `json:"last_logout,omitempty"`
	LastLoginTime  string `json:"last_login,omitempty"`
}

// UpdateString is a field of an update request. The field is only changed if
// Update is true.
type UpdateString struct {
	Update bool   `json:"u"`
	Value  string `json:"v"`
}

// UserUpdateRequest is the request body of PATCH /users/{id}.
type UserUpdateRequest struct {
	Username UpdateString `json:"username"`
	Email    UpdateString `json:"email"`
	Role     UpdateString `json:"role"`
	Password UpdateString `json:"password"`
}

// GrammarRequest is the request body of POST /grammars.
type GrammarRequest struct {
	Name   string `json:"name"`
	Source string `json:"source"`
}

// GrammarModel is a stored grammar as sent to clients. Source and Normalized
// are left out of listings.
type GrammarModel struct {
	URI        string `json:"uri"`
	ID         string `json:"id"`
	Name       string `json:"name"`
	Owner      string `json:"owner"`
	Created    string `json:"created"`
	Rules      int    `json:"rules"`
	Source     string `json:"source,omitempty"`
	Normalized string `json:"normalized,omitempty"`
}

// CheckRequest is the request body of POST /grammars/{id}/check.
type CheckRequest struct {
	Words []string `json:"words"`
}

// VerdictModel is the result of checking one word.
type VerdictModel struct {
	Word     string `json:"word"`
	Accepted bool   `json:"accepted"`
}

// CheckResponse is the response body of POST /grammars/{id}/check.
type CheckResponse struct {
	Grammar string         `json:"grammar"`
	Results []VerdictModel `json:"results"`
}

// WordsModel is the response body of GET /grammars/{id}/words.
type WordsModel struct {
	Grammar string   `json:"grammar"`
	Words   []string `json:"words"`

	// Done is whether the grammar has no words after the ones listed.
	Done bool `json:"done"`
}

// StreamMessage is one message sent over a word stream. Every message but the
// last carries a word; the last has Done set and its Word is not meaningful.
type StreamMessage struct {
	// Index is the 1-based position of Word in the language.
	Index int    `json:"index,omitempty"`
	Word  string `json:"word"`
	Done  bool   `json:"done,omitempty"`

	// Exhausted is set on the last message if the grammar ran out of words
	// before the limit was reached.
	Exhausted bool   `json:"exhausted,omitempty"`
	Error     string `json:"error,omitempty"`
}

// CompareRequest is the request body of POST /comparisons.
type CompareRequest struct {
	First  string `json:"first"`
	Second string `json:"second"`
	Limit  int    `json:"limit"`
}

// ComparisonModel is the response body of POST /comparisons.
type ComparisonModel struct {
	First      string   `json:"first"`
	Second     string   `json:"second"`
	Limit      int      `json:"limit"`
	Equal      bool     `json:"equal"`
	OnlyFirst  []string `json:"only_first"`
	OnlySecond []string `json:"only_second"`
	Both       []string `json:"both"`
}

func userModel(u dao.User) UserModel {
	m := UserModel{
		URI:            PathPrefix + "/users/" + u.ID.String(),
		ID:             u.ID.String(),
		Username:       u.Username,
		Role:           u.Role.String(),
		Created:        u.Created.Format(time.RFC3339),
		Modified:       u.Modified.Format(time.RFC3339),
		LastLogoutTime: u.LastLogoutTime.Format(time.RFC3339),
		LastLoginTime:  u.LastLoginTime.Format(time.RFC3339),
	}
	if u.Email != nil {
		m.Email = u.Email.Address
	}
	return m
}

// grammarModel converts g to its model. If full is false, the source and the
// normalized grammar are left out.
func grammarModel(g dao.Grammar, full bool) GrammarModel {
	m := GrammarModel{
		URI:     PathPrefix + "/grammars/" + g.ID.String(),
		ID:      g.ID.String(),
		Name:    g.Name,
		Owner:   g.Owner.String(),
		Created: g.Created.Format(time.RFC3339),
		Rules:   len(g.CNF.Rules),
	}
	if full {
		m.Source = g.Source
		m.Normalized = strings.TrimSuffix(g.CNF.String(), "\n")
	}
	return m
}

func verdictModels(verdicts []gqs.Verdict) []VerdictModel {
	models := make([]VerdictModel, len(verdicts))
	for i := range verdicts {
		models[i] = VerdictModel{Word: verdicts[i].Word, Accepted: verdicts[i].Accepted}
	}
	return models
}

func comparisonModel(req CompareRequest, c compare.Comparison) ComparisonModel {
	return ComparisonModel{
		First:      req.First,
		Second:     req.Second,
		Limit:      req.Limit,
		Equal:      c.Equal(),
		OnlyFirst:  nonNil(c.OnlyFirst),
		OnlySecond: nonNil(c.OnlySecond),
		Both:       nonNil(c.Both),
	}
}

// nonNil makes sure empty word lists are sent as [] rather than null.
func nonNil(words []string) []string {
	if words == nil {
		return []string{}
	}
	return words
}
