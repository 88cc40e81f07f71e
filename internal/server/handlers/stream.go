package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/zentesthq/zentest/internal/server/broker"
	"github.com/zentesthq/zentest/internal/server/services"
)

// snapshotFunc produces the full current result set of a subscription.
type snapshotFunc func(ctx context.Context) (any, error)

// stream runs one SSE connection: it sends an initial snapshot, then
// re-queries and resends whenever the topic fires. Snapshots are whole
// result sets; the client replaces, never merges.
func (h *Handlers) stream(c *gin.Context, topic broker.Topic, snapshot snapshotFunc) {
	flusher, ok := c.Writer.(http.Flusher)
	if !ok {
		errorJSON(c, http.StatusInternalServerError, "streaming unsupported")
		return
	}

	c.Writer.Header().Set("Content-Type", "text/event-stream")
	c.Writer.Header().Set("Cache-Control", "no-cache")
	c.Writer.Header().Set("Connection", "keep-alive")
	c.Writer.WriteHeader(http.StatusOK)
	flusher.Flush()

	ctx := c.Request.Context()
	signals, cancel := h.docs.Broker().Subscribe(topic)
	defer cancel()

	send := func() bool {
		v, err := snapshot(ctx)
		if err != nil {
			h.log.Error(ctx, "snapshot query failed", "topic", topic, "error", err)
			return false
		}
		data, err := json.Marshal(v)
		if err != nil {
			h.log.Error(ctx, "snapshot encode failed", "topic", topic, "error", err)
			return false
		}
		if _, err := fmt.Fprintf(c.Writer, "event: snapshot\ndata: %s\n\n", data); err != nil {
			return false
		}
		flusher.Flush()
		return true
	}

	if !send() {
		return
	}

	for {
		select {
		case <-ctx.Done():
			return
		case <-signals:
			if !send() {
				return
			}
		}
	}
}

func (h *Handlers) subscribeCollection(c *gin.Context) {
	appID := c.Param("appId")
	collection := c.Param("collection")

	var snapshot snapshotFunc
	switch collection {
	case services.CollectionProjects:
		snapshot = func(ctx context.Context) (any, error) {
			return h.docs.ListProjects(ctx, appID)
		}
	case services.CollectionModules, services.CollectionTestCases, services.CollectionAPITestCases:
		projectID := c.Query("projectId")
		if projectID == "" {
			errorJSON(c, http.StatusBadRequest, "projectId is required")
			return
		}
		switch collection {
		case services.CollectionModules:
			snapshot = func(ctx context.Context) (any, error) {
				return h.docs.ListModules(ctx, appID, projectID)
			}
		case services.CollectionTestCases:
			snapshot = func(ctx context.Context) (any, error) {
				return h.docs.ListCases(ctx, appID, projectID)
			}
		case services.CollectionAPITestCases:
			snapshot = func(ctx context.Context) (any, error) {
				return h.docs.ListAPICases(ctx, appID, projectID)
			}
		}
	default:
		errorJSON(c, http.StatusNotFound, "unknown collection")
		return
	}

	h.stream(c, services.CollectionTopic(appID, collection), snapshot)
}

func (h *Handlers) subscribeMemberships(c *gin.Context) {
	appID := c.Param("appId")
	uid := userID(c)

	h.stream(c, services.MembershipTopic(appID, uid), func(ctx context.Context) (any, error) {
		return h.docs.ListMemberships(ctx, appID, uid)
	})
}
