package http

import (
	"encoding/json"
	"net/http"

	"github.com/cmlabs-hris/attendance-backend-go/internal/domain/policy"
	"github.com/cmlabs-hris/attendance-backend-go/internal/handler/http/response"
)

// PolicyHandler exposes the attendance rules without touching storage.
type PolicyHandler interface {
	Evaluate(w http.ResponseWriter, r *http.Request)
	Penalty(w http.ResponseWriter, r *http.Request)
	Config(w http.ResponseWriter, r *http.Request)
}

type policyHandlerImpl struct {
	cfg policy.Config
}

func NewPolicyHandler(cfg policy.Config) PolicyHandler {
	return &policyHandlerImpl{cfg: cfg}
}

// Evaluate implements PolicyHandler.
func (h *policyHandlerImpl) Evaluate(w http.ResponseWriter, r *http.Request) {
	var req policy.EvaluateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	checkIn, checkOut, err := req.Parse()
	if err != nil {
		response.HandleError(w, err)
		return
	}

	ev, err := policy.Evaluate(checkIn, checkOut, h.cfg)
	if err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, policy.NewEvaluateResponse(ev, req.PriorLateCount, h.cfg))
}

// Penalty implements PolicyHandler.
func (h *policyHandlerImpl) Penalty(w http.ResponseWriter, r *http.Request) {
	var req policy.PenaltyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	if err := req.Validate(); err != nil {
		response.HandleError(w, err)
		return
	}

	response.Success(w, policy.ComputePenalty(req.LateCount, req.Extra(), h.cfg))
}

// Config implements PolicyHandler.
func (h *policyHandlerImpl) Config(w http.ResponseWriter, r *http.Request) {
	response.Success(w, policy.NewConfigResponse(h.cfg))
}
