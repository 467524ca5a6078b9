package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/roomvoice/feedback_backend/relay"
	"github.com/roomvoice/feedback_backend/stores"
)

type SubmitFeedbackInput struct {
	Text string `json:"text" binding:"required" example:"The projector is broken"`
}

// FeedbackController serves the public, token-addressed surface: feedback
// submission and room identity lookup.
type FeedbackController struct {
	relay *relay.Relay
	rooms *stores.RoomStore
}

func NewFeedbackController(r *relay.Relay, rooms *stores.RoomStore) *FeedbackController {
	return &FeedbackController{relay: r, rooms: rooms}
}

// SubmitFeedback godoc
// @Summary Submit visitor feedback for a room
// @Description Records a feedback message against the room identified by token and notifies the bound Telegram group
// @Tags feedback
// @Accept json
// @Produce json
// @Param token path string true "Room token"
// @Param feedback body SubmitFeedbackInput true "Feedback"
// @Success 200 {object} map[string]string "Feedback accepted"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /feedback/{token} [post]
func (fc *FeedbackController) SubmitFeedback(c *gin.Context) {
	token := c.Param("token")

	var input SubmitFeedbackInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	if err := fc.relay.Submit(c.Request.Context(), token, input.Text); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// GetRoomInfo godoc
// @Summary Get room identity by token
// @Description Returns the address and name of the room behind a QR token
// @Tags feedback
// @Produce json
// @Param token path string true "Room token"
// @Success 200 {object} map[string]string "Room identity"
// @Failure 404 {object} map[string]string "Room not found"
// @Router /feedback/room/{token} [get]
func (fc *FeedbackController) GetRoomInfo(c *gin.Context) {
	room, err := fc.rooms.GetByToken(c.Request.Context(), c.Param("token"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"address": room.Location.Address,
		"name":    room.Name,
	})
}
