package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/dekarrin/grammarq/server/gqs"
	"github.com/dekarrin/grammarq/server/result"
	"github.com/gorilla/websocket"
)

const streamWriteTimeout = 10 * time.Second

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
}

// HTTPStreamWords returns a HandlerFunc that sends the first words of a stored
// grammar over a WebSocket, one StreamMessage per word followed by a final
// message with Done set, and then closes the connection. The "limit" query
// parameter gives how many words; it defaults to DefaultWordLimit.
//
// The request is checked before the connection is upgraded, so a bad limit or
// an unknown grammar gets a normal HTTP error response.
func (api API) HTTPStreamWords() http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		defer panicTo500(w, req)

		id := requireIDParam(req)
		_, userStr := loggedInUser(req)

		limit, err := getLimitQuery(req, DefaultWordLimit)
		if err != nil {
			api.writeEarly(w, req, result.BadRequest(err.Error(), err.Error()))
			return
		}

		if limit < 1 || limit > gqs.MaxWordLimit {
			msg := fmt.Sprintf("limit must be between 1 and %d", gqs.MaxWordLimit)
			api.writeEarly(w, req, result.BadRequest(msg, "limit %d", limit))
			return
		}
		if _, err := api.Backend.GetGrammar(req.Context(), id.String()); err != nil {
			api.writeEarly(w, req, errResult(err, userStr, "stream words"))
			return
		}

		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			// Upgrade has already replied to the client
			logHttpResponse("ERROR", req, http.StatusBadRequest, "websocket upgrade: "+err.Error())
			return
		}
		defer conn.Close()

		logHttpResponse("INFO", req, http.StatusSwitchingProtocols, userStr+" started word stream of "+id.String())

		ctx, cancel := context.WithCancel(req.Context())
		defer cancel()

		// the client never sends anything; reading is only done to notice when
		// it goes away.
		go func() {
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					cancel()
					return
				}
			}
		}()

		index := 0
		exhausted, err := api.Backend.StreamWords(ctx, id.String(), limit, func(word string) error {
			index++
			conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
			return conn.WriteJSON(StreamMessage{Index: index, Word: word})
		})

		final := StreamMessage{Done: true, Exhausted: exhausted}
		if err != nil {
			if ctx.Err() != nil {
				logHttpResponse("INFO", req, http.StatusSwitchingProtocols, userStr+" closed word stream early")
				return
			}
			final.Error = err.Error()
		}

		conn.SetWriteDeadline(time.Now().Add(streamWriteTimeout))
		if err := conn.WriteJSON(final); err != nil {
			logHttpResponse("ERROR", req, http.StatusSwitchingProtocols, "could not finish word stream: "+err.Error())
			return
		}

		closeMsg := websocket.FormatCloseMessage(websocket.CloseNormalClosure, "")
		conn.WriteControl(websocket.CloseMessage, closeMsg, time.Now().Add(streamWriteTimeout))

		logHttpResponse("INFO", req, http.StatusSwitchingProtocols, userStr+" finished word stream of "+id.String())
	}
}

// writeEarly writes r the same way an endpoint created with httpEndpoint
// would.
func (api API) writeEarly(w http.ResponseWriter, req *http.Request, r result.Result) {
	httpEndpoint(api.UnauthDelay, func(*http.Request) result.Result { return r })(w, req)
}
