package http

import (
	"errors"
	"net/http"

	"github.com/hsshealth/hss/internal/auth/domain"
	"github.com/hsshealth/hss/internal/auth/upstream"
	"github.com/hsshealth/hss/pkg/authsdk"
	"github.com/hsshealth/hss/pkg/httpx"
)

// GeocodeHandler resolves coordinates for the registration form.
type GeocodeHandler struct {
	Geocoder upstream.Geocoder
	Errors   ErrorWriter
}

// ServeHTTP handles GET /auth/geocode
//
//	@Summary		Reverse geocode
//	@Description	Resolves a coordinate pair to a display address. An unknown location yields an empty address.
//	@Tags			Auth
//	@Produce		json
//	@Param			lat	query		number					true	"Latitude"
//	@Param			lon	query		number					true	"Longitude"
//	@Success		200	{object}	authsdk.GeocodeResponse	"Address"
//	@Failure		400	{object}	authsdk.ErrorResponse	"Coordinates out of range"
//	@Failure		503	{object}	authsdk.ErrorResponse	"Geocoder unavailable"
//	@Router			/auth/geocode [get].
func (h *GeocodeHandler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	lat, lon, err := domain.ParseCoordinates(q.Get("lat") + "," + q.Get("lon"))
	if err != nil {
		h.Errors.Write(w, r, &domain.ValidationError{Fields: map[string]string{"coordinates": err.Error()}})
		return
	}

	addr, err := h.Geocoder.Reverse(r.Context(), lat, lon)
	if err != nil && !errors.Is(err, upstream.ErrNoAddress) {
		h.Errors.Write(w, r, err)
		return
	}

	httpx.WriteJSON(w, http.StatusOK, authsdk.GeocodeResponse{Lat: lat, Lon: lon, Address: addr})
}
