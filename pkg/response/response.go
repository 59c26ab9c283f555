package response

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorBody is the JSON shape of every error response.
type ErrorBody struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

// SuccessBody is the JSON shape of operations that return no data.
type SuccessBody struct {
	Success bool `json:"success"`
}

// ── success ──

// OK writes data as a 200 JSON body.
func OK(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, data)
}

// Success writes {"success": true}.
func Success(c *gin.Context) {
	c.JSON(http.StatusOK, SuccessBody{Success: true})
}

// Created writes {"id": id} with status 201.
func Created(c *gin.Context, id uint) {
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

// ── errors ──

// Error writes an error body with the given status.
func Error(c *gin.Context, httpStatus int, code, message string) {
	c.JSON(httpStatus, ErrorBody{Error: message, Code: code})
}

// BadRequest 400
func BadRequest(c *gin.Context, message string) {
	Error(c, http.StatusBadRequest, "InvalidInput", message)
}

// Unauthorized 401
func Unauthorized(c *gin.Context, message string) {
	Error(c, http.StatusUnauthorized, "Unauthenticated", message)
}

// Forbidden 403
func Forbidden(c *gin.Context, message string) {
	Error(c, http.StatusForbidden, "Forbidden", message)
}

// NotFound 404
func NotFound(c *gin.Context, message string) {
	Error(c, http.StatusNotFound, "NotFound", message)
}

// InternalError 500
func InternalError(c *gin.Context) {
	Error(c, http.StatusInternalServerError, "Internal", "Something went wrong")
}
