package restapi

import (
	"net/http"

	"wallet_dashboard/internal/app/port"

	"github.com/gin-gonic/gin"
)

// addFavoriteRequest is the POST /favorites body.
type addFavoriteRequest struct {
	Address string `json:"address" binding:"required,eth_addr"`
	Label   string `json:"label" binding:"max=100"`
}

// FavoritesHandler serves the per-user favorites endpoints. Routes sit behind RequireUser.
type FavoritesHandler struct {
	favorites port.FavoritesService
}

// NewFavoritesHandler creates a new FavoritesHandler.
func NewFavoritesHandler(fs port.FavoritesService) *FavoritesHandler {
	return &FavoritesHandler{favorites: fs}
}

// List handles GET /favorites.
func (h *FavoritesHandler) List(c *gin.Context) {
	favorites, err := h.favorites.List(c.Request.Context(), userIDFrom(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"favorites": favorites})
}

// Add handles POST /favorites.
func (h *FavoritesHandler) Add(c *gin.Context) {
	var req addFavoriteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondError(c, bindingError(err))
		return
	}
	favorite, err := h.favorites.Add(c.Request.Context(), userIDFrom(c), req.Address, req.Label)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"favorite": favorite})
}

// Remove handles DELETE /favorites?address=0x...
func (h *FavoritesHandler) Remove(c *gin.Context) {
	if err := h.favorites.Remove(c.Request.Context(), userIDFrom(c), c.Query("address")); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Favorite removed"})
}
