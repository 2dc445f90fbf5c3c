package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/personal-finance-ledger/internal/api_gateway/middleware"
)

// Error codes carried in ErrorInfo.Code
const (
	CodeBadRequest    = "BAD_REQUEST"
	CodeNotFound      = "NOT_FOUND"
	CodeInternalError = "INTERNAL_SERVER_ERROR"
)

// Response is the envelope every endpoint answers with
type Response struct {
	Data          interface{} `json:"data,omitempty"`
	Error         *ErrorInfo  `json:"error,omitempty"`
	CorrelationID string      `json:"correlation_id,omitempty"`
	Meta          *MetaInfo   `json:"meta,omitempty"`
}

type ErrorInfo struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// MetaInfo describes the collection returned in Data
type MetaInfo struct {
	TotalItems int    `json:"total_items"`
	Filter     string `json:"filter,omitempty"`
}

// respond stamps the request's correlation ID on the envelope and writes it
func respond(c *gin.Context, status int, resp Response) {
	resp.CorrelationID = middleware.GetCorrelationID(c)
	c.JSON(status, resp)
}

func RespondOK(c *gin.Context, data interface{}) {
	respond(c, http.StatusOK, Response{Data: data})
}

func RespondCreated(c *gin.Context, data interface{}) {
	respond(c, http.StatusCreated, Response{Data: data})
}

// RespondWithList answers 200 with a collection and its item count
func RespondWithList(c *gin.Context, data interface{}, totalItems int, filter string) {
	respond(c, http.StatusOK, Response{
		Data: data,
		Meta: &MetaInfo{TotalItems: totalItems, Filter: filter},
	})
}

func RespondNoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// RespondWithError answers with an error envelope and no data
func RespondWithError(c *gin.Context, status int, code, message string) {
	respond(c, status, Response{Error: &ErrorInfo{Code: code, Message: message}})
}

func RespondBadRequest(c *gin.Context, message string) {
	RespondWithError(c, http.StatusBadRequest, CodeBadRequest, message)
}

func RespondNotFound(c *gin.Context, message string) {
	RespondWithError(c, http.StatusNotFound, CodeNotFound, message)
}

// RespondInternalError hides the cause from the client; callers log it
func RespondInternalError(c *gin.Context) {
	RespondWithError(c, http.StatusInternalServerError, CodeInternalError, "An internal server error occurred")
}
