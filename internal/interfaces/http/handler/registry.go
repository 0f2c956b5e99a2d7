package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/junta/backend/internal/domain/registration"
	"github.com/junta/backend/internal/interfaces/http/dto"
)

// RegistryHandler serves read endpoints over the registration data the
// scoring engine consumes
type RegistryHandler struct {
	BaseHandler
	applicantRepo   registration.ApplicantRepository
	inscriptionRepo registration.InscriptionRepository
}

// NewRegistryHandler creates a new RegistryHandler
func NewRegistryHandler(
	applicantRepo registration.ApplicantRepository,
	inscriptionRepo registration.InscriptionRepository,
) *RegistryHandler {
	return &RegistryHandler{
		applicantRepo:   applicantRepo,
		inscriptionRepo: inscriptionRepo,
	}
}

// RegisterRoutes registers registry routes
func (h *RegistryHandler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/periods/:id/inscriptions", h.ListInscriptions)
	rg.GET("/applicants/by-legajo/:legajo", h.GetApplicantByLegajo)
}

// ListInscriptions returns the inscriptions of a period. With
// dedupe=true, inscriptions sharing (applicant, level) collapse to the
// most recently created one; storage is never modified.
func (h *RegistryHandler) ListInscriptions(c *gin.Context) {
	periodID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid period ID")
		return
	}

	inscriptions, err := h.inscriptionRepo.FindByPeriod(c.Request.Context(), periodID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	discarded := 0
	if dedupe, _ := strconv.ParseBool(c.Query("dedupe")); dedupe {
		inscriptions, discarded = registration.Deduplicate(inscriptions)
	}

	items := make([]dto.InscriptionResponse, len(inscriptions))
	for i, ins := range inscriptions {
		items[i] = dto.NewInscriptionResponse(ins)
	}
	h.Success(c, gin.H{
		"items":     items,
		"total":     len(items),
		"discarded": discarded,
	})
}

// GetApplicantByLegajo looks an applicant up by their registry code
func (h *RegistryHandler) GetApplicantByLegajo(c *gin.Context) {
	applicant, err := h.applicantRepo.FindByLegajo(c.Request.Context(), c.Param("legajo"))
	if err != nil {
		h.HandleError(c, err)
		return
	}
	h.Success(c, gin.H{
		"id":         applicant.ID.String(),
		"legajo":     applicant.Legajo,
		"full_name":  applicant.FullName(),
		"first_name": applicant.FirstName,
		"last_name":  applicant.LastName,
	})
}
