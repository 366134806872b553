package http

import (
	"io"
	"log"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/database/live"
)

func startStream(c *gin.Context) {
	c.Header("Content-Type", "text/event-stream")
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
}

// streamResults writes every result of a reactive query as a server-sent
// event until the client goes away or the query fails. The query must be
// bound to the request context so it stops with the request.
func streamResults[T any](c *gin.Context, event string, results <-chan live.Result[T]) {
	startStream(c)
	c.Stream(func(w io.Writer) bool {
		res, ok := <-results
		if !ok {
			return false
		}
		if res.Err != nil {
			log.Printf("Watch %s failed: %v", event, res.Err)
			c.SSEvent("error", ErrorResponse{Error: "query failed"})
			return false
		}
		c.SSEvent(event, res.Value)
		return true
	})
}
