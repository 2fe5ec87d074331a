package util

import (
	"github.com/gin-gonic/gin"
)

// Error kinds emitted in the tagged error envelope.
const (
	KindValidation  = "validation_failed"
	KindAuth        = "unauthorized"
	KindForbidden   = "forbidden"
	KindNotFound    = "not_found"
	KindBadFormat   = "unsupported_format"
	KindServerError = "internal_error"
)

// errorBody is the single error shape every endpoint emits: a kind
// plus a list of human-readable messages. Success bodies are emitted
// raw (arrays/objects) by each handler.
type errorBody struct {
	Kind     string   `json:"kind"`
	Messages []string `json:"messages"`
}

// Fail writes the tagged error envelope with the given status.
func Fail(c *gin.Context, status int, kind string, messages ...string) {
	if len(messages) == 0 {
		messages = []string{"error interno del servidor"}
	}
	c.JSON(status, gin.H{"error": errorBody{Kind: kind, Messages: messages}})
}

// AbortFail is Fail for middleware: it also stops the handler chain.
func AbortFail(c *gin.Context, status int, kind string, messages ...string) {
	Fail(c, status, kind, messages...)
	c.Abort()
}
