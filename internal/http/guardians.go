package http

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/eldercare/internal/guardian"
	"github.com/mrlokans/eldercare/internal/services"
)

// GuardiansController exposes the paired guardians and the guardian message
// protocol: guardians post messages and read what the elder sends them from
// an event stream.
type GuardiansController struct {
	svc     *services.Services
	limiter *failureLimiter
}

func NewGuardiansController(svc *services.Services) *GuardiansController {
	return &GuardiansController{
		svc:     svc,
		limiter: newFailureLimiter(limiterConfig{}),
	}
}

// GET /api/guardians
func (gc *GuardiansController) List(c *gin.Context) {
	paired, err := gc.svc.Repos.Guardians.GetAllGuardians()
	if err != nil {
		respondInternalError(c, err, "list guardians")
		return
	}
	c.JSON(http.StatusOK, paired)
}

// Unpair removes a guardian from the device side.
// DELETE /api/guardians/:guardian_id
func (gc *GuardiansController) Unpair(c *gin.Context) {
	guardianID := c.Param("guardian_id")
	existing, err := gc.svc.Repos.Guardians.GetGuardianByID(guardianID)
	if err != nil {
		respondLookupError(c, err, "guardian")
		return
	}
	if err := gc.svc.Repos.Guardians.DeleteByID(guardianID); err != nil {
		respondInternalError(c, err, "unpair guardian")
		return
	}
	gc.svc.Audit.LogPairing(existing.GuardianID, existing.GuardianName, false)
	respondSuccess(c, "guardian unpaired")
}

// GET /api/watch/guardians/count
func (gc *GuardiansController) WatchCount(c *gin.Context) {
	streamResults(c, "guardian_count", gc.svc.Repos.Guardians.WatchGuardianCount(c.Request.Context()))
}

// Message handles one guardian protocol message and returns the reply.
// Unknown types and invalid payloads answer 400 with the ERROR reply. A
// client whose messages keep being rejected is refused with 429 for a while.
// POST /api/guardian/messages
func (gc *GuardiansController) Message(c *gin.Context) {
	var msg guardian.Message
	if !bindJSON(c, &msg) {
		return
	}
	ip := c.ClientIP()
	if allowed, retryAfter := gc.limiter.Allow(ip); !allowed {
		c.Header("Retry-After", strconv.Itoa(int(retryAfter.Seconds())+1))
		c.JSON(http.StatusTooManyRequests, ErrorResponse{Error: "too many rejected messages"})
		return
	}
	if msg.Type == "" {
		gc.limiter.RecordFailure(ip)
		respondBadRequest(c, "type is required")
		return
	}

	reply, err := gc.svc.Dispatcher.Handle(msg)
	switch {
	case errors.Is(err, guardian.ErrUnknownMessageType), errors.Is(err, guardian.ErrInvalidPayload):
		gc.limiter.RecordFailure(ip)
		c.JSON(http.StatusBadRequest, reply)
	case err != nil:
		respondInternalError(c, err, "handle "+msg.Type)
	default:
		c.JSON(http.StatusOK, reply)
	}
}

// Stream delivers messages the elder sends to guardians, such as
// ALERT_EVENT, as server-sent events. ?guardian_id= limits the stream to
// one guardian.
// GET /api/guardian/stream
func (gc *GuardiansController) Stream(c *gin.Context) {
	messages, cancel := gc.svc.Hub.Subscribe(c.Query("guardian_id"))
	defer cancel()

	startStream(c)
	done := c.Request.Context().Done()
	c.Stream(func(w io.Writer) bool {
		select {
		case <-done:
			return false
		case msg, ok := <-messages:
			if !ok {
				return false
			}
			c.SSEvent("message", msg)
			return true
		}
	})
}
