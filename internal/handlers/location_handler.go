package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/aliasadad-hash/Journeyman/internal/location"
)

type LocationHandler struct {
	geocoder *location.Geocoder
}

func NewLocationHandler(geocoder *location.Geocoder) *LocationHandler {
	return &LocationHandler{geocoder: geocoder}
}

func (h *LocationHandler) SearchCities(c *fiber.Ctx) error {
	cities, err := h.geocoder.SearchCities(c.Context(), c.Query("q"))
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(fiber.Map{"cities": cities})
}

func (h *LocationHandler) Reverse(c *fiber.Ctx) error {
	lat := c.QueryFloat("lat")
	lon := c.QueryFloat("lon")
	if lat == 0 && lon == 0 {
		return badRequest(c, "lat and lon required")
	}
	city, err := h.geocoder.Reverse(c.Context(), lat, lon)
	if err != nil {
		return fail(c, err)
	}
	return c.JSON(city)
}
