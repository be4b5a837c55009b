package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/dekarrin/grammarq/internal/ebnf"
	"github.com/dekarrin/grammarq/server/result"
	"github.com/dekarrin/grammarq/server/serr"
	"github.com/google/uuid"
)

// errResult gives the result for an error returned by the backend while
// userStr was trying to do action.
func errResult(err error, userStr, action string) result.Result {
	switch {
	case errors.Is(err, serr.ErrNotFound):
		return result.NotFound("%s %s: %s", userStr, action, err.Error())
	case errors.Is(err, serr.ErrPermissions):
		return result.Forbidden("%s %s: %s", userStr, action, err.Error())
	case errors.Is(err, serr.ErrBadArgument):
		return result.BadRequest(err.Error(), "%s %s: %s", userStr, action, err.Error())
	case errors.Is(err, serr.ErrBadGrammar):
		var details []string
		var synErr ebnf.SyntaxError
		if errors.As(err, &synErr) {
			if cursor := synErr.SourceLineWithCursor(); cursor != "" {
				details = strings.Split(cursor, "\n")
			}
		}
		return result.UnprocessableEntity(err.Error(), details, "%s %s: %s", userStr, action, err.Error())
	default:
		return result.InternalServerError("%s %s: %s", userStr, action, err.Error())
	}
}

// HTTPCreateGrammar returns a HandlerFunc that compiles and stores a new
// grammar owned by the logged-in user.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the logged-in user of the client making the request.
func (api API) HTTPCreateGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateGrammar)
}

func (api API) epCreateGrammar(req *http.Request) result.Result {
	user, userStr := loggedInUser(req)

	var createReq GrammarRequest
	if err := parseJSON(req, &createReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	g, err := api.Backend.CreateGrammar(req.Context(), user.ID, createReq.Name, createReq.Source)
	if err != nil {
		return errResult(err, userStr, "create grammar")
	}

	return result.Created(grammarModel(g, true), "%s created grammar '%s' (%s)", userStr, g.Name, g.ID)
}

// HTTPGetAllGrammars returns a HandlerFunc that lists stored grammars. If the
// "owner" query parameter is given, only the grammars uploaded by that user are
// listed.
func (api API) HTTPGetAllGrammars() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetAllGrammars)
}

func (api API) epGetAllGrammars(req *http.Request) result.Result {
	_, userStr := loggedInUser(req)

	owner := uuid.Nil
	if ownerStr := req.URL.Query().Get("owner"); ownerStr != "" {
		var err error
		owner, err = uuid.Parse(ownerStr)
		if err != nil {
			return result.BadRequest("owner: not a valid ID", "owner: %s", err.Error())
		}
	}

	grammars, err := api.Backend.GetAllGrammars(req.Context(), owner)
	if err != nil {
		return errResult(err, userStr, "get all grammars")
	}

	resp := make([]GrammarModel, len(grammars))
	for i := range grammars {
		resp[i] = grammarModel(grammars[i], false)
	}

	return result.OK(resp, "%s got %d grammars", userStr, len(resp))
}

// HTTPGetGrammar returns a HandlerFunc that gets a stored grammar along with
// its source and its normalized form.
func (api API) HTTPGetGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetGrammar)
}

func (api API) epGetGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	_, userStr := loggedInUser(req)

	g, err := api.Backend.GetGrammar(req.Context(), id.String())
	if err != nil {
		return errResult(err, userStr, "get grammar "+id.String())
	}

	return result.OK(grammarModel(g, true), "%s got grammar '%s'", userStr, g.Name)
}

// HTTPDeleteGrammar returns a HandlerFunc that deletes a stored grammar. Only
// the user who uploaded a grammar or an admin may delete it.
//
// The handler has requirements for the request context it receives, and if the
// requirements are not met it may return an HTTP-500. The context must contain
// the ID of the grammar being deleted and the logged-in user of the client
// making the request.
func (api API) HTTPDeleteGrammar() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epDeleteGrammar)
}

func (api API) epDeleteGrammar(req *http.Request) result.Result {
	id := requireIDParam(req)
	user, userStr := loggedInUser(req)

	g, err := api.Backend.DeleteGrammar(req.Context(), id.String(), user)
	if err != nil {
		return errResult(err, userStr, "delete grammar "+id.String())
	}

	return result.NoContent("%s deleted grammar '%s' (%s)", userStr, g.Name, g.ID)
}

// HTTPCheckWords returns a HandlerFunc that checks whether each of the words
// in the request is accepted by a stored grammar.
func (api API) HTTPCheckWords() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCheckWords)
}

func (api API) epCheckWords(req *http.Request) result.Result {
	id := requireIDParam(req)
	_, userStr := loggedInUser(req)

	var checkReq CheckRequest
	if err := parseJSON(req, &checkReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	verdicts, err := api.Backend.CheckWords(req.Context(), id.String(), checkReq.Words)
	if err != nil {
		return errResult(err, userStr, "check words")
	}

	resp := CheckResponse{
		Grammar: id.String(),
		Results: verdictModels(verdicts),
	}
	return result.OK(resp, "%s checked %d words against %s", userStr, len(verdicts), id)
}

// HTTPGetWords returns a HandlerFunc that lists the first words of a stored
// grammar, shortest first. The "limit" query parameter gives how many; it
// defaults to DefaultWordLimit.
func (api API) HTTPGetWords() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epGetWords)
}

func (api API) epGetWords(req *http.Request) result.Result {
	id := requireIDParam(req)
	_, userStr := loggedInUser(req)

	limit, err := getLimitQuery(req, DefaultWordLimit)
	if err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}

	words, done, err := api.Backend.Words(req.Context(), id.String(), limit)
	if err != nil {
		return errResult(err, userStr, "get words")
	}

	resp := WordsModel{
		Grammar: id.String(),
		Words:   nonNil(words),
		Done:    done,
	}
	return result.OK(resp, "%s got %d words of %s", userStr, len(words), id)
}
