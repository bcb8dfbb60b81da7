package http

import (
	"bytes"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/bookcatalog/internal/validation"
)

// payloadContextKey holds the decoded request body for handlers behind ValidateBody.
const payloadContextKey = "validated_payload"

// ValidateBody decodes a JSON object body and runs rules against it. On any
// failure the chain is aborted with a 400 listing every failed rule.
// A missing body is validated as an empty object. Each prepare func may
// rewrite the payload before the rules run.
func ValidateBody(rules validation.Rules, prepare ...func(map[string]any)) gin.HandlerFunc {
	return func(c *gin.Context) {
		payload, ok := decodePayload(c)
		if !ok {
			respondValidationErrors(c, []validation.FieldError{
				{Field: "body", Message: "Request body must be a JSON object"},
			})
			return
		}

		for _, p := range prepare {
			p(payload)
		}

		if errs := rules.Validate(payload); len(errs) > 0 {
			respondValidationErrors(c, errs)
			return
		}

		c.Set(payloadContextKey, payload)
		c.Next()
	}
}

func decodePayload(c *gin.Context) (map[string]any, bool) {
	payload := map[string]any{}
	if c.Request.Body == nil {
		return payload, true
	}

	raw, err := io.ReadAll(c.Request.Body)
	if err != nil {
		return nil, false
	}
	c.Request.Body = io.NopCloser(bytes.NewReader(raw))
	if len(bytes.TrimSpace(raw)) == 0 {
		return payload, true
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, false
	}
	if payload == nil {
		// Body was the JSON literal null
		payload = map[string]any{}
	}
	return payload, true
}

// validatedPayload returns the body stored by ValidateBody.
func validatedPayload(c *gin.Context) map[string]any {
	if v, ok := c.Get(payloadContextKey); ok {
		if payload, ok := v.(map[string]any); ok {
			return payload
		}
	}
	return map[string]any{}
}
