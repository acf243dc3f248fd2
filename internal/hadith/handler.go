package hadith

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"hadithhub/internal/edition"
)

type Handler struct {
	Sessions *Registry
}

func NewHandler(reg *Registry) *Handler {
	return &Handler{Sessions: reg}
}

func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.GET("/collections", h.collections)

	r.POST("/sessions", h.createSession)
	r.DELETE("/sessions/:id", h.deleteSession)
	r.POST("/sessions/:id/load", h.load)
	r.GET("/sessions/:id/page", h.page)
	r.POST("/sessions/:id/more", h.more)
	r.PUT("/sessions/:id/sort", h.sort)
	r.GET("/sessions/:id/search", h.search) // immediate
	r.POST("/sessions/:id/query", h.query)  // debounced
}

type collectionDTO struct {
	edition.Collection
	Languages []edition.Language `json:"languages"`
}

func (h *Handler) collections(c *gin.Context) {
	e := h.Sessions.Engine
	all := e.Catalog.All()
	out := make([]collectionDTO, 0, len(all))
	for _, col := range all {
		out = append(out, collectionDTO{Collection: col, Languages: e.Resolver.LanguagesFor(col.ID)})
	}
	curated := make([]string, 0)
	for _, col := range e.Catalog.Curated() {
		curated = append(curated, col.ID)
	}
	c.JSON(http.StatusOK, gin.H{
		"items":     out,
		"curated":   curated,
		"languages": e.Resolver.Languages(),
	})
}

func (h *Handler) createSession(c *gin.Context) {
	s := h.Sessions.Create()
	c.JSON(http.StatusCreated, gin.H{"id": s.ID})
}

func (h *Handler) deleteSession(c *gin.Context) {
	if err := h.Sessions.Delete(c.Param("id")); err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	c.Status(http.StatusNoContent)
}

type loadRequest struct {
	Collection string `json:"collection" binding:"required"`
	Language   string `json:"language"`
}

func (h *Handler) load(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req loadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}

	res, err := s.Load(c.Request.Context(), req.Collection, req.Language)
	switch {
	case errors.Is(err, edition.ErrUnknownCollection):
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown collection"})
		return
	case errors.Is(err, edition.ErrUnknownLanguage):
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown language"})
		return
	case err != nil:
		c.JSON(http.StatusConflict, gin.H{"error": "load interrupted"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"load": res, "page": s.Page()})
}

func (h *Handler) page(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Page())
}

func (h *Handler) more(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	view, advanced := s.LoadMore()
	c.JSON(http.StatusOK, gin.H{"advanced": advanced, "page": view})
}

type sortRequest struct {
	Key string `json:"key"`
}

func (h *Handler) sort(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req sortRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	if err := s.SetSort(req.Key); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "unknown sort key"})
		return
	}
	c.JSON(http.StatusOK, s.Page())
}

func (h *Handler) search(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, s.Search(c.Request.Context(), c.Query("q")))
}

type queryRequest struct {
	Q string `json:"q"`
}

func (h *Handler) query(c *gin.Context) {
	s, ok := h.session(c)
	if !ok {
		return
	}
	var req queryRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid body"})
		return
	}
	gen := s.SubmitQuery(req.Q)
	c.JSON(http.StatusAccepted, gin.H{"generation": gen})
}

func (h *Handler) session(c *gin.Context) (*Session, bool) {
	s, err := h.Sessions.Get(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return nil, false
	}
	return s, true
}
