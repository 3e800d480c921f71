package api

import (
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/bytedance/sonic"
	"github.com/labstack/echo/v4"
)

// defaultMaxBodyBytes bounds request bodies when no limit is configured
const defaultMaxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("request body too large")

// decodeBody strictly decodes a JSON body into v
func decodeBody(c echo.Context, maxBytes int64, v any) error {
	if maxBytes <= 0 {
		maxBytes = defaultMaxBodyBytes
	}
	lr := &io.LimitedReader{R: c.Request().Body, N: maxBytes + 1}
	dec := sonic.ConfigStd.NewDecoder(lr)
	dec.DisallowUnknownFields()

	if err := dec.Decode(v); err != nil {
		if lr.N <= 0 {
			return errBodyTooLarge
		}
		return err
	}
	if lr.N <= 0 {
		return errBodyTooLarge
	}
	return nil
}

func invalidBody(c echo.Context, err error) error {
	if errors.Is(err, errBodyTooLarge) {
		return respondError(c, http.StatusRequestEntityTooLarge, "body_too_large", err.Error())
	}
	return respondError(c, http.StatusBadRequest, "invalid_body", "invalid body")
}

// pathID parses a positive integer path parameter
func pathID(c echo.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		return 0, false
	}
	return id, true
}

func invalidID(c echo.Context, name string) error {
	return respondError(c, http.StatusBadRequest, "invalid_id", "invalid "+name)
}

// optionalIntQuery parses a positive integer query parameter. ok is false when
// the parameter is present but malformed.
func optionalIntQuery(c echo.Context, name string) (*int, bool) {
	raw := c.QueryParam(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.Atoi(raw)
	if err != nil || v <= 0 {
		return nil, false
	}
	return &v, true
}
