package certificate

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

func Routes(h *Handler) http.Handler {
	r := chi.NewRouter()

	r.Get("/", h.ListCertificates)
	r.Get("/{certificateId}/document", h.DownloadCertificate)
	return r
}
