package certificate

import (
	"net/http"

	"github.com/saulo-duarte/learnpath/internal/auth"
	"github.com/saulo-duarte/learnpath/internal/config"
)

type Handler struct {
	service CertificateService
}

func NewHandler(s CertificateService) *Handler {
	return &Handler{service: s}
}

func (h *Handler) ListCertificates(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	certs, err := h.service.List(r.Context(), id.UserID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, certs)
}

func (h *Handler) DownloadCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	certID, err := config.PathUUID(r, "certificateId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	cert, err := h.service.Download(r.Context(), certID, id)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.Binary(w, "application/pdf", "certificate-"+cert.ID.String()+".pdf", cert.Document)
}

// IssueCertificate retries issuance for a finished course.
func (h *Handler) IssueCertificate(w http.ResponseWriter, r *http.Request) {
	id, err := auth.IdentityFromContext(r.Context())
	if err != nil {
		config.Error(w, r, err)
		return
	}

	courseID, err := config.PathUUID(r, "courseId")
	if err != nil {
		config.Error(w, r, err)
		return
	}

	cert, err := h.service.IssueIfAbsent(r.Context(), id.UserID, courseID)
	if err != nil {
		config.Error(w, r, err)
		return
	}

	config.JSON(w, http.StatusOK, cert)
}
