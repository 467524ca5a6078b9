package controllers

import (
	"encoding/base64"
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/roomvoice/feedback_backend/stores"
	"github.com/roomvoice/feedback_backend/utils"
)

type CreateRoomInput struct {
	Address   string `form:"address" binding:"required" example:"Main St 1"`
	Name      string `form:"name" binding:"required" example:"Lobby"`
	TGGroupID int64  `form:"tg_group_id" binding:"required" example:"-1001234567890"`
}

type AddLocationInput struct {
	Address string `form:"address" binding:"required" example:"Main St 1"`
}

// AdminController serves the management surface the bot drives.
type AdminController struct {
	locations *stores.LocationStore
	rooms     *stores.RoomStore
	admins    *stores.AdminStore
}

func NewAdminController(locations *stores.LocationStore, rooms *stores.RoomStore, admins *stores.AdminStore) *AdminController {
	return &AdminController{locations: locations, rooms: rooms, admins: admins}
}

// CreateRoom godoc
// @Summary Create a room with a fresh QR token
// @Description Creates a room under an existing address and returns the token, the public feedback link and its QR code
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param address formData string true "Location address (must already exist)"
// @Param name formData string true "Room name"
// @Param tg_group_id formData int true "Telegram group id for notifications"
// @Success 200 {object} map[string]string "Token, link and QR image"
// @Failure 400 {object} map[string]string "Invalid input"
// @Failure 404 {object} map[string]string "Location not found"
// @Router /feedback/admin/create_room [post]
func (ac *AdminController) CreateRoom(c *gin.Context) {
	var input CreateRoomInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	// Locations are created only through add_location. A room against an
	// unknown address fails closed instead of creating one on the fly.
	location, err := ac.locations.GetByAddress(c.Request.Context(), input.Address)
	if err != nil {
		respondError(c, err)
		return
	}

	room, err := ac.rooms.Create(c.Request.Context(), location.ID, input.Name, input.TGGroupID)
	if err != nil {
		respondError(c, err)
		return
	}

	link := utils.FeedbackLink(os.Getenv("FORM_URL"), room.QRToken)
	png, err := utils.QRPNG(link)
	if err != nil {
		logrus.Errorf("QR encoding failed for token %s: %v", room.QRToken, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to encode QR code", "kind": "internal"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"qr_token":        room.QRToken,
		"qr_link":         link,
		"qr_image_base64": base64.StdEncoding.EncodeToString(png),
	})
}

// IsAuthorized godoc
// @Summary Check whether an identity is an admin
// @Description Membership query against the admin allow-list. 503 means the check could not be completed and must be retried, not read as a denial.
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param identity path string true "Chat-platform user id"
// @Success 200 {object} map[string]bool "Authorization result"
// @Failure 503 {object} map[string]string "Check could not be completed"
// @Router /feedback/admin/is_authorized/{identity} [get]
func (ac *AdminController) IsAuthorized(c *gin.Context) {
	authorized, err := ac.admins.IsAdmin(c.Request.Context(), c.Param("identity"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"authorized": authorized})
}

// AddLocation godoc
// @Summary Register a new address
// @Tags admin
// @Accept x-www-form-urlencoded
// @Produce json
// @Security BearerAuth
// @Param address formData string true "Address"
// @Success 200 {object} map[string]string "Address added"
// @Failure 400 {object} map[string]string "Duplicate or empty address"
// @Router /feedback/admin/add_location [post]
func (ac *AdminController) AddLocation(c *gin.Context) {
	var input AddLocationInput
	if err := c.ShouldBind(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error(), "kind": "validation"})
		return
	}

	if _, err := ac.locations.Create(c.Request.Context(), input.Address); err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// ListLocations godoc
// @Summary List all registered addresses
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Success 200 {array} string "Addresses"
// @Router /feedback/admin/locations [get]
func (ac *AdminController) ListLocations(c *gin.Context) {
	locations, err := ac.locations.ListAll(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	addresses := make([]string, 0, len(locations))
	for _, location := range locations {
		addresses = append(addresses, location.Address)
	}

	c.JSON(http.StatusOK, addresses)
}

// RoomsByLocation godoc
// @Summary List rooms at an address
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param address query string true "Address"
// @Success 200 {array} map[string]string "Rooms with their tokens"
// @Failure 404 {object} map[string]string "Location not found"
// @Router /feedback/admin/rooms/by_location [get]
func (ac *AdminController) RoomsByLocation(c *gin.Context) {
	address := c.Query("address")
	if address == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "address query parameter is required", "kind": "validation"})
		return
	}

	location, err := ac.locations.GetByAddress(c.Request.Context(), address)
	if err != nil {
		respondError(c, err)
		return
	}

	rooms, err := ac.rooms.ListByLocation(c.Request.Context(), location.ID)
	if err != nil {
		respondError(c, err)
		return
	}

	response := make([]gin.H, 0, len(rooms))
	for _, room := range rooms {
		response = append(response, gin.H{
			"name":     room.Name,
			"qr_token": room.QRToken,
		})
	}

	c.JSON(http.StatusOK, response)
}
