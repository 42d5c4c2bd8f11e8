package handler

import (
	"bytes"
	"encoding/json"
	stderrors "errors"
	"fmt"
	"io"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/lifebalance/intake-api/pkg/errors"
)

// Handler is implemented by every route group.
type Handler interface {
	RegisterRoutes(*gin.RouterGroup)
}

// BindStrictJSON decodes the request body into v, rejecting unknown keys and
// trailing data.
func BindStrictJSON(c *gin.Context, v any) error {
	if c.Request.Body == nil {
		return errors.BadRequest("request body is required", nil)
	}
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if stderrors.As(err, &tooLarge) {
			return errors.TooLarge(fmt.Sprintf("request body exceeds %d bytes", tooLarge.Limit))
		}
		return errors.BadRequest("failed to read request body", err)
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return errors.BadRequest("request body is required", nil)
	}

	dec := json.NewDecoder(bytes.NewReader(body))
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return errors.BadRequest(fmt.Sprintf("invalid request body: %v", err), err)
	}
	if dec.More() {
		return errors.BadRequest("invalid request body: trailing data", nil)
	}
	return nil
}

// UUIDParam parses the named path parameter as a UUID.
func UUIDParam(c *gin.Context, name string) (uuid.UUID, error) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		return uuid.Nil, errors.BadRequest(fmt.Sprintf("invalid %s", name), err)
	}
	return id, nil
}

// IntParam parses the named path parameter as a non-negative integer.
func IntParam(c *gin.Context, name string) (int, error) {
	n, err := strconv.Atoi(c.Param(name))
	if err != nil || n < 0 {
		return 0, errors.BadRequest(fmt.Sprintf("invalid %s", name), err)
	}
	return n, nil
}
