package handlers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/maintain_ai/backend/internal/geocode"
)

// @Summary Geocode an address
// @Tags geocode
// @Produce json
// @Param q query string true "address or \"lat, lng\""
// @Success 200 {object} geocode.Place
// @Failure 404 {object} map[string]any
// @Router /api/geocode [get]
func (h *Handler) Geocode(c *gin.Context) {
	place, err := h.Geocoder.Geocode(c.Request.Context(), c.Query("q"))
	if err != nil {
		h.writeGeocodeError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

// @Summary Reverse geocode
// @Tags geocode
// @Produce json
// @Param lat query number true "latitude"
// @Param lon query number true "longitude"
// @Success 200 {object} geocode.Place
// @Router /api/reverse-geocode [get]
func (h *Handler) ReverseGeocode(c *gin.Context) {
	lat, errLat := strconv.ParseFloat(c.Query("lat"), 64)
	lon, errLon := strconv.ParseFloat(c.Query("lon"), 64)
	if errLat != nil || errLon != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "lat and lon are required numbers", nil)
		return
	}
	place, err := h.Geocoder.Reverse(c.Request.Context(), lat, lon)
	if err != nil {
		h.writeGeocodeError(c, err)
		return
	}
	c.JSON(http.StatusOK, place)
}

func (h *Handler) writeGeocodeError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, geocode.ErrInvalidQuery):
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid geocode query", nil)
	case errors.Is(err, geocode.ErrNotFound):
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Location not found", nil)
	default:
		h.Logger.Warn().Err(err).Msg("geocoder request failed")
		writeError(c, http.StatusBadGateway, "GEOCODE_ERROR", "Geocoding service unavailable", nil)
	}
}
