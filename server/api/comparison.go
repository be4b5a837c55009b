package api

import (
	"net/http"

	"github.com/dekarrin/grammarq/server/result"
)

// HTTPCreateComparison returns a HandlerFunc that compares the first words of
// two stored grammars. If the request gives no limit, DefaultCompareLimit is
// used.
func (api API) HTTPCreateComparison() http.HandlerFunc {
	return httpEndpoint(api.UnauthDelay, api.epCreateComparison)
}

func (api API) epCreateComparison(req *http.Request) result.Result {
	_, userStr := loggedInUser(req)

	var cmpReq CompareRequest
	if err := parseJSON(req, &cmpReq); err != nil {
		return result.BadRequest(err.Error(), err.Error())
	}
	if cmpReq.First == "" {
		return result.BadRequest("first: property is empty or missing from request", "empty first")
	}
	if cmpReq.Second == "" {
		return result.BadRequest("second: property is empty or missing from request", "empty second")
	}
	if cmpReq.Limit == 0 {
		cmpReq.Limit = DefaultCompareLimit
	}

	c, err := api.Backend.Compare(req.Context(), cmpReq.First, cmpReq.Second, cmpReq.Limit)
	if err != nil {
		return errResult(err, userStr, "compare grammars")
	}

	resp := comparisonModel(cmpReq, c)
	return result.OK(resp, "%s compared %s to %s (equal=%t)", userStr, cmpReq.First, cmpReq.Second, resp.Equal)
}
