package documents

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/documents/upload", h.UploadDocument)
	r.GET("/documents/equipment/:equipment_id", h.ListEquipmentDocuments)
	r.GET("/documents/:document_id/download", h.DownloadDocument)
	r.DELETE("/documents/:document_id", h.DeleteDocument)
}

// ---------- handlers ----------

// POST /documents/upload (multipart: file, equipment_id, movement_id?)
func (h *Handler) UploadDocument(c *gin.Context) {
	fh, err := c.FormFile("file")
	if err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "file is required"))
		return
	}

	in := UploadInput{
		OriginalFilename: fh.Filename,
		Size:             fh.Size,
		EquipmentID:      c.PostForm("equipment_id"),
	}
	if v := c.PostForm("movement_id"); v != "" {
		in.MovementID = &v
	}

	f, err := fh.Open()
	if err != nil {
		c.JSON(http.StatusInternalServerError, apiErr(CodeInternal, "failed to read upload"))
		return
	}
	defer f.Close()
	in.Src = f

	res, err := h.svc.Upload(c.Request.Context(), in)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusCreated, res)
}

// GET /documents/equipment/:equipment_id
func (h *Handler) ListEquipmentDocuments(c *gin.Context) {
	res, err := h.svc.ListForEquipment(c.Request.Context(), c.Param("equipment_id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /documents/:document_id/download
func (h *Handler) DownloadDocument(c *gin.Context) {
	path, name, err := h.svc.Download(c.Request.Context(), c.Param("document_id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.Header("Content-Type", "application/pdf")
	c.FileAttachment(path, name)
}

// DELETE /documents/:document_id
func (h *Handler) DeleteDocument(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("document_id")); err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Document deleted successfully"})
}

// ---------- helpers ----------

type errDTO struct {
	Error struct {
		Code    Code   `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

func apiErr(code Code, msg string) errDTO {
	var e errDTO
	e.Error.Code = code
	e.Error.Message = msg
	return e
}

func apiErrFrom(err error) errDTO {
	if api, ok := err.(*APIError); ok {
		return apiErr(api.Code, api.Message)
	}
	return apiErr(CodeInternal, err.Error())
}
