package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zentesthq/zentest/internal/common"
	"github.com/zentesthq/zentest/internal/models"
	"github.com/zentesthq/zentest/internal/server/repositories/cases"
	"github.com/zentesthq/zentest/internal/server/services"
)

func (h *Handlers) writeError(c *gin.Context, err error) {
	if errors.Is(err, common.ErrorNotFound) {
		errorJSON(c, http.StatusNotFound, "not found")
		return
	}
	h.log.Error(c.Request.Context(), "document write failed",
		"appId", c.Param("appId"), "collection", c.Param("collection"), "error", err)
	errorJSON(c, http.StatusInternalServerError, "internal error")
}

// listCollection returns the current snapshot of one collection. Project
// scoped collections require a projectId query parameter.
func (h *Handlers) listCollection(c *gin.Context) {
	ctx := c.Request.Context()
	appID := c.Param("appId")

	collection := c.Param("collection")
	if collection == services.CollectionProjects {
		list, err := h.docs.ListProjects(ctx, appID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
		return
	}

	projectID := c.Query("projectId")
	if projectID == "" {
		errorJSON(c, http.StatusBadRequest, "projectId is required")
		return
	}

	switch collection {
	case services.CollectionModules:
		list, err := h.docs.ListModules(ctx, appID, projectID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	case services.CollectionTestCases:
		list, err := h.docs.ListCases(ctx, appID, projectID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	case services.CollectionAPITestCases:
		list, err := h.docs.ListAPICases(ctx, appID, projectID)
		if err != nil {
			h.writeError(c, err)
			return
		}
		c.JSON(http.StatusOK, list)
	default:
		errorJSON(c, http.StatusNotFound, "unknown collection")
	}
}

// getCollectionRoute serves GET /:collection/:id. The only supported id is
// the literal "subscribe", which opens an SSE stream; individual document
// reads are not part of the protocol.
func (h *Handlers) getCollectionRoute(c *gin.Context) {
	if c.Param("id") != "subscribe" {
		errorJSON(c, http.StatusNotFound, "not found")
		return
	}
	h.subscribeCollection(c)
}

func (h *Handlers) putDocument(c *gin.Context) {
	ctx := c.Request.Context()
	appID := c.Param("appId")
	id := c.Param("id")

	var err error
	switch c.Param("collection") {
	case services.CollectionProjects:
		var p models.Project
		if bindErr := c.ShouldBindJSON(&p); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed project document")
			return
		}
		p.ID = id
		if p.Owner == "" {
			p.Owner = userID(c)
		}
		err = h.docs.PutProject(ctx, appID, p)
	case services.CollectionModules:
		var m models.Module
		if bindErr := c.ShouldBindJSON(&m); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed module document")
			return
		}
		m.ID = id
		err = h.docs.PutModule(ctx, appID, m)
	case services.CollectionTestCases:
		var tc models.TestCase
		if bindErr := c.ShouldBindJSON(&tc); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed test case document")
			return
		}
		tc.ID = id
		err = h.docs.PutCase(ctx, appID, tc)
	case services.CollectionAPITestCases:
		var ac models.APITestCase
		if bindErr := c.ShouldBindJSON(&ac); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed API test case document")
			return
		}
		ac.ID = id
		err = h.docs.PutAPICase(ctx, appID, ac)
	default:
		errorJSON(c, http.StatusNotFound, "unknown collection")
		return
	}

	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

type projectPatch struct {
	Name    string `json:"name"`
	Color   string `json:"color"`
	Initial string `json:"initial"`
}

type modulePatch struct {
	Name string `json:"name" binding:"required"`
}

type statusPatch struct {
	Status            models.Status `json:"status" binding:"required"`
	LastUpdatedBy     string        `json:"lastUpdatedBy"`
	LastUpdatedByName string        `json:"lastUpdatedByName"`
	Timestamp         int64         `json:"timestamp"`
}

func (p statusPatch) repoPatch() cases.StatusPatch {
	return cases.StatusPatch{
		Status:            p.Status,
		LastUpdatedBy:     p.LastUpdatedBy,
		LastUpdatedByName: p.LastUpdatedByName,
		Timestamp:         p.Timestamp,
	}
}

// patchDocument applies the collection's partial update: display fields
// for projects, the name for modules, and the status plus audit fields
// for both case collections.
func (h *Handlers) patchDocument(c *gin.Context) {
	ctx := c.Request.Context()
	appID := c.Param("appId")
	id := c.Param("id")

	var err error
	switch c.Param("collection") {
	case services.CollectionProjects:
		var p projectPatch
		if bindErr := c.ShouldBindJSON(&p); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed project patch")
			return
		}
		err = h.docs.PatchProject(ctx, appID, id, p.Name, p.Color, p.Initial)
	case services.CollectionModules:
		var m modulePatch
		if bindErr := c.ShouldBindJSON(&m); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed module patch")
			return
		}
		err = h.docs.RenameModule(ctx, appID, id, m.Name)
	case services.CollectionTestCases:
		var p statusPatch
		if bindErr := c.ShouldBindJSON(&p); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed status patch")
			return
		}
		err = h.docs.PatchCaseStatus(ctx, appID, id, p.repoPatch())
	case services.CollectionAPITestCases:
		var p statusPatch
		if bindErr := c.ShouldBindJSON(&p); bindErr != nil {
			errorJSON(c, http.StatusBadRequest, "malformed status patch")
			return
		}
		err = h.docs.PatchAPICaseStatus(ctx, appID, id, p.repoPatch())
	default:
		errorJSON(c, http.StatusNotFound, "unknown collection")
		return
	}

	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) deleteDocument(c *gin.Context) {
	ctx := c.Request.Context()
	appID := c.Param("appId")
	id := c.Param("id")

	var err error
	switch c.Param("collection") {
	case services.CollectionProjects:
		err = h.docs.DeleteProject(ctx, appID, id)
	case services.CollectionModules:
		err = h.docs.DeleteModule(ctx, appID, id)
	case services.CollectionTestCases:
		err = h.docs.DeleteCase(ctx, appID, id)
	case services.CollectionAPITestCases:
		err = h.docs.DeleteAPICase(ctx, appID, id)
	default:
		errorJSON(c, http.StatusNotFound, "unknown collection")
		return
	}

	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// --- myProjects ---

func (h *Handlers) listMemberships(c *gin.Context) {
	list, err := h.docs.ListMemberships(c.Request.Context(), c.Param("appId"), userID(c))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.JSON(http.StatusOK, list)
}

func (h *Handlers) getMembershipRoute(c *gin.Context) {
	if c.Param("projectId") != "subscribe" {
		errorJSON(c, http.StatusNotFound, "not found")
		return
	}
	h.subscribeMemberships(c)
}

func (h *Handlers) putMembership(c *gin.Context) {
	var m models.Membership
	if err := c.ShouldBindJSON(&m); err != nil {
		errorJSON(c, http.StatusBadRequest, "malformed membership document")
		return
	}
	m.ProjectID = c.Param("projectId")

	if err := h.docs.PutMembership(c.Request.Context(), c.Param("appId"), userID(c), m); err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (h *Handlers) deleteMembership(c *gin.Context) {
	err := h.docs.DeleteMembership(c.Request.Context(), c.Param("appId"), userID(c), c.Param("projectId"))
	if err != nil {
		h.writeError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
