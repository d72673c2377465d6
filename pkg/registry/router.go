package registry

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/sigat/asset-registry/pkg/models"
)

// Router creates a chi.Router exposing CRUD for the tracked entities.
func Router(s *Store) chi.Router {
	r := chi.NewRouter()

	r.Route("/assets", func(r chi.Router) {
		resource[models.Asset]{
			create: s.CreateAsset,
			get:    s.GetAsset,
			list:   func() ([]models.Asset, error) { return s.ListAssets(AssetFilter{}) },
			update: s.UpdateAsset,
			delete: s.DeleteAsset,
			setID:  func(a *models.Asset, id uint) { a.ID = id },
		}.mount(r)
		r.Get("/{id}/checkins", listCheckinsHandler(s, true))
	})

	r.Route("/departments", func(r chi.Router) {
		resource[models.Department]{
			create: s.CreateDepartment,
			get:    s.GetDepartment,
			list:   s.ListDepartments,
			update: s.UpdateDepartment,
			delete: s.DeleteDepartment,
			setID:  func(d *models.Department, id uint) { d.ID = id },
		}.mount(r)
	})

	r.Route("/employees", func(r chi.Router) {
		resource[models.Employee]{
			create: s.CreateEmployee,
			get:    s.GetEmployee,
			list:   s.ListEmployees,
			update: s.UpdateEmployee,
			delete: s.DeleteEmployee,
			setID:  func(e *models.Employee, id uint) { e.ID = id },
		}.mount(r)
	})

	r.Route("/users", func(r chi.Router) {
		resource[models.SystemUser]{
			create: s.CreateSystemUser,
			get:    s.GetSystemUser,
			list:   s.ListSystemUsers,
			update: s.UpdateSystemUser,
			delete: s.DeleteSystemUser,
			setID:  func(u *models.SystemUser, id uint) { u.ID = id },
		}.mount(r)
	})

	r.Route("/software", func(r chi.Router) {
		resource[models.SoftwareCatalog]{
			create: s.CreateSoftware,
			get:    s.GetSoftware,
			list:   s.ListSoftware,
			update: s.UpdateSoftware,
			delete: s.DeleteSoftware,
			setID:  func(sw *models.SoftwareCatalog, id uint) { sw.ID = id },
		}.mount(r)
	})

	r.Route("/licenses", func(r chi.Router) {
		resource[models.License]{
			create: s.CreateLicense,
			get:    s.GetLicense,
			list:   s.ListLicenses,
			update: s.UpdateLicense,
			delete: s.DeleteLicense,
			setID:  func(l *models.License, id uint) { l.ID = id },
		}.mount(r)
	})

	r.Route("/installations", func(r chi.Router) {
		resource[models.InstalledSoftware]{
			create: s.CreateInstallation,
			get:    s.GetInstallation,
			list:   func() ([]models.InstalledSoftware, error) { return s.ListInstallations(0) },
			update: s.UpdateInstallation,
			delete: s.DeleteInstallation,
			setID:  func(i *models.InstalledSoftware, id uint) { i.ID = id },
		}.mount(r)
	})

	r.Route("/vulnerabilities", func(r chi.Router) {
		resource[models.SoftwareVulnerability]{
			create: s.CreateVulnerability,
			get:    s.GetVulnerability,
			list:   func() ([]models.SoftwareVulnerability, error) { return s.ListVulnerabilities(0) },
			update: s.UpdateVulnerability,
			delete: s.DeleteVulnerability,
			setID:  func(v *models.SoftwareVulnerability, id uint) { v.ID = id },
		}.mount(r)
	})

	r.Route("/checkins", func(r chi.Router) {
		r.Get("/", listCheckinsHandler(s, false))
		r.Post("/", func(w http.ResponseWriter, req *http.Request) {
			var c models.AssetCheckin
			if err := json.NewDecoder(req.Body).Decode(&c); err != nil {
				writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid request body: %v", err))
				return
			}
			if err := s.CreateCheckin(req.Context(), &c); err != nil {
				writeStoreError(w, err)
				return
			}
			writeJSON(w, http.StatusCreated, c)
		})
	})

	return r
}

func listCheckinsHandler(s *Store, byAsset bool) http.HandlerFunc {
	return func(w http.ResponseWriter, req *http.Request) {
		var assetID uint
		if byAsset {
			id, err := idParam(req)
			if err != nil {
				writeError(w, http.StatusBadRequest, err.Error())
				return
			}
			assetID = id
		} else if raw := req.URL.Query().Get("assetId"); raw != "" {
			if v, err := strconv.ParseUint(raw, 10, 64); err == nil {
				assetID = uint(v)
			}
		}
		checkins, err := s.ListCheckins(assetID)
		if err != nil {
			writeStoreError(w, err)
			return
		}
		if checkins == nil {
			checkins = []models.AssetCheckin{}
		}
		writeJSON(w, http.StatusOK, map[string]any{"items": checkins, "totalSize": len(checkins)})
	}
}
