package handlers

import (
	"context"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/unifiedui/mongo-viewer/internal/api/dto"
	"github.com/unifiedui/mongo-viewer/internal/api/middleware"
	domainerrors "github.com/unifiedui/mongo-viewer/internal/domain/errors"
)

// Connector opens and closes the gateway's session.
type Connector interface {
	Connect(ctx context.Context, descriptor string) error
	Disconnect(ctx context.Context) error
}

// ConnectionHandler handles connect and disconnect.
type ConnectionHandler struct {
	sessions Connector
}

// NewConnectionHandler creates a new ConnectionHandler.
func NewConnectionHandler(sessions Connector) *ConnectionHandler {
	return &ConnectionHandler{sessions: sessions}
}

// Connect handles POST /connect.
// @Summary Connect to MongoDB
// @Description Opens a session from a connection string, replacing any current one
// @Tags Connection
// @Accept json
// @Produce json
// @Param request body dto.ConnectRequest true "Connection string"
// @Success 200 {object} dto.SuccessResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /connect [post]
func (h *ConnectionHandler) Connect(c *gin.Context) {
	var req dto.ConnectRequest
	// An empty body is treated as a missing connection string.
	if err := c.ShouldBindJSON(&req); err != nil && !errors.Is(err, io.EOF) {
		middleware.HandleFailure(c, domainerrors.NewBadRequestError("Invalid request body", err.Error()))
		return
	}

	if err := h.sessions.Connect(c.Request.Context(), req.ConnectionString); err != nil {
		middleware.HandleFailure(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Connected successfully",
	})
}

// Disconnect handles POST /disconnect.
// @Summary Disconnect from MongoDB
// @Description Closes the current session; succeeds when none is held
// @Tags Connection
// @Produce json
// @Success 200 {object} dto.SuccessResponse
// @Failure 500 {object} dto.ErrorResponse
// @Router /disconnect [post]
func (h *ConnectionHandler) Disconnect(c *gin.Context) {
	if err := h.sessions.Disconnect(c.Request.Context()); err != nil {
		middleware.HandleError(c, err)
		return
	}

	c.JSON(http.StatusOK, dto.SuccessResponse{
		Success: true,
		Message: "Disconnected successfully",
	})
}
