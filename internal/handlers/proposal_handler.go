package handlers

import (
	"net/http"

	"ajo-pools/internal/auth"
	"ajo-pools/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
)

// ProposalHandler handles governance endpoints
type ProposalHandler struct {
	proposalService *services.ProposalService
}

// NewProposalHandler creates a new ProposalHandler
func NewProposalHandler(proposalService *services.ProposalService) *ProposalHandler {
	return &ProposalHandler{proposalService: proposalService}
}

// CreateProposal handles POST /api/proposal
func (h *ProposalHandler) CreateProposal(c *gin.Context) {
	var req services.CreateProposalInput
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Missing required fields"})
		return
	}
	subject, _ := auth.GetSubject(c)

	proposal, err := h.proposalService.CreateProposal(c.Request.Context(), subject, req)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"proposal": proposal})
}

// CastVote handles POST /api/proposal/:id/vote
func (h *ProposalHandler) CastVote(c *gin.Context) {
	proposalID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Proposal not found"})
		return
	}

	var req struct {
		Vote string `json:"vote"`
	}
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid vote"})
		return
	}
	subject, _ := auth.GetSubject(c)

	counts, err := h.proposalService.CastVote(c.Request.Context(), subject, proposalID, req.Vote)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":    true,
		"voteCounts": counts,
	})
}
