package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
)

const maxBodyBytes = 1 << 20

// readJSONObject decodes the request body into a generic object, keeping
// numbers as json.Number so validation can tell 1 from "1" and 1.5.
// It writes the error response itself and returns false on failure.
func readJSONObject(c *gin.Context) (map[string]any, bool) {
	if c.Request.Body == nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", "request body is empty", nil)
		return nil, false
	}
	dec := json.NewDecoder(io.LimitReader(c.Request.Body, maxBodyBytes))
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		msg := "request body must be a JSON object"
		if errors.Is(err, io.EOF) {
			msg = "request body is empty"
		}
		respondError(c, http.StatusBadRequest, "INVALID_JSON", msg, nil)
		return nil, false
	}
	if body == nil {
		respondError(c, http.StatusBadRequest, "INVALID_JSON", "request body must be a JSON object", nil)
		return nil, false
	}
	return body, true
}

// listResponse is the {success, data, count} envelope.
func listResponse[T any](c *gin.Context, items []T) {
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, gin.H{"success": true, "data": items, "count": len(items)})
}
