package security

import (
	"bytes"
	"encoding/json"
	"io"
	"strings"

	"github.com/gin-gonic/gin"
	"golang.org/x/net/html"
	"golang.org/x/net/html/atom"
)

// discardContent lists elements whose text is dropped together with the tags.
var discardContent = map[atom.Atom]bool{
	atom.Script:   true,
	atom.Style:    true,
	atom.Textarea: true,
	atom.Option:   true,
	atom.Noscript: true,
}

// Clean strips all HTML markup from s and trims surrounding whitespace.
// Text is kept as written, so entities such as &lt; are not decoded.
func Clean(s string) string {
	if !strings.ContainsAny(s, "<>") {
		return strings.TrimSpace(s)
	}

	var b strings.Builder
	z := html.NewTokenizer(strings.NewReader(s))
	depth := 0

	for {
		switch z.Next() {
		case html.ErrorToken:
			return strings.TrimSpace(b.String())
		case html.TextToken:
			if depth == 0 {
				b.Write(z.Raw())
			}
		case html.StartTagToken:
			name, _ := z.TagName()
			if discardContent[atom.Lookup(name)] {
				depth++
			}
		case html.EndTagToken:
			name, _ := z.TagName()
			if discardContent[atom.Lookup(name)] && depth > 0 {
				depth--
			}
		}
	}
}

// CleanValue applies Clean to every string inside a decoded JSON value.
func CleanValue(v any) any {
	switch val := v.(type) {
	case string:
		return Clean(val)
	case []any:
		for i := range val {
			val[i] = CleanValue(val[i])
		}
		return val
	case map[string]any:
		for k := range val {
			val[k] = CleanValue(val[k])
		}
		return val
	default:
		return v
	}
}

// SanitizeMiddleware cleans JSON request bodies, query values and path
// params before handlers see them. Bodies that are not valid JSON are
// passed through untouched.
func SanitizeMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		for i := range c.Params {
			c.Params[i].Value = Clean(c.Params[i].Value)
		}

		if c.Request.URL.RawQuery != "" {
			query := c.Request.URL.Query()
			for key, values := range query {
				for i := range values {
					values[i] = Clean(values[i])
				}
				query[key] = values
			}
			c.Request.URL.RawQuery = query.Encode()
		}

		if c.Request.Body != nil && strings.HasPrefix(c.ContentType(), "application/json") {
			sanitizeBody(c)
		}

		c.Next()
	}
}

func sanitizeBody(c *gin.Context) {
	raw, err := io.ReadAll(c.Request.Body)
	c.Request.Body.Close()
	if err != nil {
		c.Request.Body = io.NopCloser(bytes.NewReader(raw))
		return
	}

	body := raw
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	var payload any
	if err := dec.Decode(&payload); err == nil {
		if cleaned, err := json.Marshal(CleanValue(payload)); err == nil {
			body = cleaned
		}
	}

	c.Request.Body = io.NopCloser(bytes.NewReader(body))
	c.Request.ContentLength = int64(len(body))
}
