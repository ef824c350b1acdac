package handlers

import (
	"errors"
	"net/http"

	"github.com/Rakhulsr/go-carestore/app/helpers"
	"github.com/Rakhulsr/go-carestore/app/models"
	"github.com/Rakhulsr/go-carestore/app/repositories"
	"github.com/Rakhulsr/go-carestore/app/services"
	"github.com/Rakhulsr/go-carestore/app/utils/breadcrumb"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
	"github.com/unrolled/render"
)

const prescriptionField = "prescription"

type PrescriptionHandler struct {
	render   *render.Render
	catalog  *services.Catalog
	storage  repositories.StorageRepository
	uploads  *services.UploadRegistry
	maxBytes int64
}

func NewPrescriptionHandler(r *render.Render, catalog *services.Catalog, storage repositories.StorageRepository, uploads *services.UploadRegistry, maxBytes int64) *PrescriptionHandler {
	if maxBytes <= 0 {
		maxBytes = services.DefaultUploadMaxBytes
	}
	return &PrescriptionHandler{
		render:   r,
		catalog:  catalog,
		storage:  storage,
		uploads:  uploads,
		maxBytes: maxBytes,
	}
}

// resolveProduct renders the not-found or unavailable page itself when
// the product cannot be loaded.
func (h *PrescriptionHandler) resolveProduct(w http.ResponseWriter, r *http.Request) (*models.Product, bool) {
	vars := mux.Vars(r)
	err := services.ErrProductNotFound
	var product *models.Product
	if store, ok := h.catalog.Store(vars["source"]); ok {
		product, err = store.FetchByID(r.Context(), vars["id"])
	}
	if err != nil {
		status := http.StatusServiceUnavailable
		if errors.Is(err, services.ErrProductNotFound) {
			status = http.StatusNotFound
		}
		data := helpers.GetBaseData(r, map[string]interface{}{"Title": "Upload Prescription", "Reason": helpers.UserMessage(err)})
		_ = h.render.HTML(w, status, "not_found", data)
		return nil, false
	}
	return product, true
}

func (h *PrescriptionHandler) Show(w http.ResponseWriter, r *http.Request) {
	product, ok := h.resolveProduct(w, r)
	if !ok {
		return
	}

	browserID := helpers.BrowserID(r)
	state := services.UploadIdle
	var stagedName, preview string
	if upload, ok := h.uploads.Peek(browserID, product.ID); ok {
		state = upload.State()
		stagedName, preview = upload.Preview()
	}

	record, hasRecord, err := services.NewPrescriptionStore(services.NewBrowserStorage(h.storage, browserID)).Get(r.Context(), product.ID)
	if err != nil {
		log.Warn().Err(err).Msg("PrescriptionHandler.Show: failed to read prescriptions")
	}

	data := helpers.GetBaseData(r, map[string]interface{}{
		"Title":      "Upload Prescription",
		"Product":    helpers.NewProductCard(*product, helpers.CartStore(r).InWishlist(product.ID)),
		"State":      state.String(),
		"StagedName": stagedName,
		"Preview":    preview,
		"Record":     record,
		"HasRecord":  hasRecord,
		"Breadcrumbs": breadcrumb.Trail(
			breadcrumb.Breadcrumb{Name: product.Title, URL: helpers.ProductURL(product.Source, product.ID)},
			breadcrumb.Breadcrumb{Name: "Upload Prescription", URL: helpers.PrescriptionURL(product.Source, product.ID)},
		),
	})
	_ = h.render.HTML(w, http.StatusOK, "prescription", data)
}

// Stage reads the chosen file and keeps it until submit or cancel.
func (h *PrescriptionHandler) Stage(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolveProduct(w, r); !ok {
		return
	}
	source, id := mux.Vars(r)["source"], mux.Vars(r)["id"]
	page := helpers.PrescriptionURL(source, id)

	if err := h.stageFromRequest(w, r, id); err != nil {
		helpers.RedirectWithMessage(w, r, page, "error", helpers.UserMessage(err))
		return
	}
	helpers.RedirectWithMessage(w, r, page, "success", "File ready. Review and submit.")
}

// Submit accepts either a previously staged file or one sent along with
// the submit request itself.
func (h *PrescriptionHandler) Submit(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.resolveProduct(w, r); !ok {
		return
	}
	source, id := mux.Vars(r)["source"], mux.Vars(r)["id"]
	page := helpers.PrescriptionURL(source, id)
	browserID := helpers.BrowserID(r)

	if err := h.stageFromRequest(w, r, id); err != nil && !errors.Is(err, services.ErrMissingFile) {
		helpers.RedirectWithMessage(w, r, page, "error", helpers.UserMessage(err))
		return
	}

	upload := h.uploads.Get(browserID, id)
	store := services.NewPrescriptionStore(services.NewBrowserStorage(h.storage, browserID))
	if _, err := upload.Submit(r.Context(), store); err != nil {
		if errors.Is(err, services.ErrMissingFile) {
			h.uploads.Drop(browserID, id)
		}
		helpers.RedirectWithMessage(w, r, page, "error", helpers.UserMessage(err))
		return
	}
	h.uploads.Drop(browserID, id)

	helpers.RedirectWithMessage(w, r, helpers.BackTo(r, helpers.ProductURL(source, id)), "success", "Prescription uploaded successfully.")
}

func (h *PrescriptionHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	source, id := mux.Vars(r)["source"], mux.Vars(r)["id"]
	browserID := helpers.BrowserID(r)

	if upload, ok := h.uploads.Peek(browserID, id); ok {
		upload.Cancel()
	}
	h.uploads.Drop(browserID, id)
	helpers.RedirectWithMessage(w, r, helpers.BackTo(r, helpers.ProductURL(source, id)), "info", "Upload cancelled.")
}

// stageFromRequest returns ErrMissingFile when the request carries no file.
func (h *PrescriptionHandler) stageFromRequest(w http.ResponseWriter, r *http.Request, productID string) error {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		var tooBig *http.MaxBytesError
		if errors.As(err, &tooBig) {
			return services.ErrFileTooLarge
		}
		if errors.Is(err, http.ErrNotMultipart) {
			return services.ErrMissingFile
		}
		return err
	}

	file, header, err := r.FormFile(prescriptionField)
	if err != nil {
		return services.ErrMissingFile
	}
	defer file.Close()

	return h.uploads.Get(helpers.BrowserID(r), productID).Choose(r.Context(), header.Filename, file)
}
