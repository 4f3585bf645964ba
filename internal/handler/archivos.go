package handler

import (
	"net/http"

	"aseopro/internal/apierror"
	"aseopro/internal/infra"

	"github.com/gin-gonic/gin"
)

// 10 MB is plenty for fotos y recibos escaneados.
const maxArchivoBytes = 10 << 20

type ArchivosHandler struct{ storage *infra.Storage }

func NewArchivosHandler(storage *infra.Storage) *ArchivosHandler {
	return &ArchivosHandler{storage: storage}
}

// Subir streams a multipart file to object storage and returns its id and
// public view URL. The storage API key never leaves the server.
func (h *ArchivosHandler) Subir(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("archivo requerido en el campo 'file'"))
		return
	}
	if fileHeader.Size > maxArchivoBytes {
		c.JSON(http.StatusRequestEntityTooLarge, apierror.New("archivo demasiado grande (max 10MB)"))
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		c.JSON(http.StatusBadRequest, apierror.New("no se pudo leer el archivo"))
		return
	}
	defer f.Close()

	fileID, err := h.storage.Upload(c.Request.Context(), fileHeader.Filename, f)
	if err != nil {
		c.JSON(http.StatusBadGateway, apierror.New("error subiendo el archivo"))
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"id":  fileID,
		"url": h.storage.FileURL(fileID),
	})
}
