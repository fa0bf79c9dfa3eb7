// Package regions serves read-only views of the region catalog.
package regions

import (
	"github.com/gin-gonic/gin"

	"groundwater-backend/internal/catalog"
	"groundwater-backend/internal/shared/server/respond"
)

// Summary is the list view of a region.
type Summary struct {
	Key           string           `json:"key"`
	Name          string           `json:"name"`
	Category      catalog.Category `json:"category"`
	Severity      string           `json:"severity"`
	ExtractionPct float64          `json:"extractionPct"`
	Status        string           `json:"status"`
}

// Detail is the full record of a region.
type Detail struct {
	Summary
	Aliases         []string             `json:"aliases"`
	Issues          []string             `json:"issues"`
	Recommendations []string             `json:"recommendations"`
	History         []catalog.YearRecord `json:"history"`
}

type Handler struct {
	Catalog *catalog.Catalog
}

func NewHandler(cat *catalog.Catalog) *Handler {
	return &Handler{Catalog: cat}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/regions", h.list)
	rg.GET("/regions/:key", h.get)
}

func (h *Handler) list(c *gin.Context) {
	regions := h.Catalog.Regions()
	if raw := c.Query("category"); raw != "" {
		cat, ok := catalog.ParseCategory(raw)
		if !ok {
			respond.BadRequest(c, "unknown category", gin.H{"category": raw, "allowed": categorySlugs()})
			return
		}
		regions = h.Catalog.ByCategory(cat)
	}
	out := make([]Summary, 0, len(regions))
	for _, r := range regions {
		out = append(out, summarize(r))
	}
	respond.OK(c, gin.H{"count": len(out), "regions": out})
}

func (h *Handler) get(c *gin.Context) {
	r, ok := h.Catalog.Lookup(c.Param("key"))
	if !ok {
		respond.NotFound(c, "region not found")
		return
	}
	respond.OK(c, Detail{
		Summary:         summarize(r),
		Aliases:         r.Aliases(),
		Issues:          nonNil(r.Issues),
		Recommendations: nonNil(r.Recommendations),
		History:         r.History,
	})
}

func summarize(r *catalog.Region) Summary {
	return Summary{
		Key:           r.Key,
		Name:          r.Name,
		Category:      r.Category,
		Severity:      r.Category.Slug(),
		ExtractionPct: r.ExtractionPct,
		Status:        r.Status,
	}
}

func categorySlugs() []string {
	out := make([]string, len(catalog.Categories))
	for i, c := range catalog.Categories {
		out[i] = c.Slug()
	}
	return out
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
