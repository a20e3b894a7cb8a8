package equipment

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Handler struct{ svc *Service }

func RegisterRoutes(r gin.IRoutes, svc *Service) {
	h := &Handler{svc: svc}

	r.POST("/equipment", h.CreateEquipment)
	r.GET("/equipment", h.ListEquipment)
	r.GET("/equipment/:equipment_id", h.GetEquipment)
	r.PUT("/equipment/:equipment_id", h.UpdateEquipment)
	r.DELETE("/equipment/:equipment_id", h.DeleteEquipment)
}

// ---------- handlers ----------

// POST /equipment
func (h *Handler) CreateEquipment(c *gin.Context) {
	var req CreateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json or missing required fields"))
		return
	}
	res, err := h.svc.Create(c.Request.Context(), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.Header("Location", "/equipment/"+res.ID)
	c.JSON(http.StatusCreated, res)
}

// GET /equipment?status=&search=
func (h *Handler) ListEquipment(c *gin.Context) {
	f := ListFilter{
		Status: c.Query("status"),
		Search: c.Query("search"),
	}
	res, err := h.svc.List(c.Request.Context(), f)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// GET /equipment/:equipment_id
func (h *Handler) GetEquipment(c *gin.Context) {
	res, err := h.svc.Get(c.Request.Context(), c.Param("equipment_id"))
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// PUT /equipment/:equipment_id
func (h *Handler) UpdateEquipment(c *gin.Context) {
	var req UpdateEquipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, apiErr(CodeInvalidArgument, "invalid json"))
		return
	}
	res, err := h.svc.Update(c.Request.Context(), c.Param("equipment_id"), req)
	if err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, res)
}

// DELETE /equipment/:equipment_id
func (h *Handler) DeleteEquipment(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("equipment_id")); err != nil {
		c.JSON(toHTTPStatus(err), apiErrFrom(err))
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Equipment deleted successfully"})
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
