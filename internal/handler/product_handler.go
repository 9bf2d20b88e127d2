package handler

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"sokoni/market/internal/model"
	"sokoni/market/internal/service"

	"github.com/go-chi/chi/v5"
)

type ProductHandler struct {
	svc       *service.CatalogService
	uploadDir string
}

func NewProductHandler(svc *service.CatalogService, uploadDir string) *ProductHandler {
	return &ProductHandler{svc: svc, uploadDir: uploadDir}
}

type productRequest struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Price       int64  `json:"price"`
	Image       string `json:"image"`
	Location    string `json:"location"`
	Quantity    int    `json:"quantity"`
}

func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	products, err := h.svc.List(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, products)
}

func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.svc.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, product)
}

// Create accepts either JSON (image as URL) or multipart/form-data with
// an uploaded image file stored under the upload dir.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var p model.Product

	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data") {
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			writeError(w, http.StatusBadRequest, "invalid multipart form")
			return
		}
		p.Name = r.FormValue("name")
		p.Description = r.FormValue("description")
		p.Location = r.FormValue("location")

		var err error
		if p.Price, err = strconv.ParseInt(r.FormValue("price"), 10, 64); err != nil {
			writeError(w, http.StatusBadRequest, "invalid price")
			return
		}
		if p.Quantity, err = strconv.Atoi(r.FormValue("quantity")); err != nil {
			writeError(w, http.StatusBadRequest, "invalid quantity")
			return
		}

		file, header, err := r.FormFile("image")
		if err == nil {
			defer file.Close()
			path, err := h.saveUpload(file, header.Filename)
			if err != nil {
				writeError(w, http.StatusInternalServerError, "failed to store image")
				return
			}
			p.Image = path
		} else {
			p.Image = r.FormValue("image")
		}
	} else {
		var req productRequest
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}
		p = model.Product{
			Name:        req.Name,
			Description: req.Description,
			Price:       req.Price,
			Image:       req.Image,
			Location:    req.Location,
			Quantity:    req.Quantity,
		}
	}

	if err := h.svc.Create(r.Context(), &p); err != nil {
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{
		"id":      p.ID,
		"message": "Product added successfully",
		"image":   p.Image,
	})
}

func (h *ProductHandler) Replace(w http.ResponseWriter, r *http.Request) {
	var req productRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	p := model.Product{
		ID:          chi.URLParam(r, "id"),
		Name:        req.Name,
		Description: req.Description,
		Price:       req.Price,
		Image:       req.Image,
		Location:    req.Location,
		Quantity:    req.Quantity,
	}
	if err := h.svc.Replace(r.Context(), &p); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "Product updated successfully")
}

func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		if errors.Is(err, model.ErrProductNotFound) {
			writeError(w, http.StatusNotFound, "Product not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal server error")
		return
	}
	writeMessage(w, http.StatusOK, "Product deleted successfully")
}

// saveUpload stores the file under a timestamped name and returns its
// public path.
func (h *ProductHandler) saveUpload(src io.Reader, originalName string) (string, error) {
	name := fmt.Sprintf("%d%s", time.Now().UnixMilli(), filepath.Ext(originalName))
	dst, err := os.Create(filepath.Join(h.uploadDir, name))
	if err != nil {
		return "", err
	}
	defer dst.Close()

	if _, err := io.Copy(dst, src); err != nil {
		return "", err
	}
	return "/uploads/" + name, nil
}
