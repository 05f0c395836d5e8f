package api

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// Error kinds surfaced to clients so they can branch without string-matching
// the message.
const (
	kindBadRequest   = "bad_request"
	kindUnauthorized = "unauthorized"
	kindNoMembers    = "no_members"
	kindNotFound     = "not_found"
	kindConflict     = "conflict"
	kindInternal     = "internal"
)

func errorJSON(c *gin.Context, status int, kind, msg string) {
	c.JSON(status, gin.H{"kind": kind, "error": msg})
}

func badRequest(c *gin.Context, msg string) {
	errorJSON(c, http.StatusBadRequest, kindBadRequest, msg)
}

func notFound(c *gin.Context, msg string) {
	errorJSON(c, http.StatusNotFound, kindNotFound, msg)
}

func internalError(c *gin.Context, msg string) {
	errorJSON(c, http.StatusInternalServerError, kindInternal, msg)
}

// Quantity is a donated amount in grams as it arrives from a form: a JSON
// number or a numeric string. Absent, unparseable, or negative input floors
// to zero — bad data entry must never make a quantity negative.
type Quantity struct {
	decimal.Decimal
}

func (q *Quantity) UnmarshalJSON(b []byte) error {
	s := strings.Trim(strings.TrimSpace(string(b)), `"`)
	if s == "" || s == "null" {
		q.Decimal = decimal.Zero
		return nil
	}
	d, err := decimal.NewFromString(s)
	if err != nil || d.IsNegative() {
		d = decimal.Zero
	}
	q.Decimal = d
	return nil
}
