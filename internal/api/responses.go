package api

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

type ErrorBody struct {
	Code    Code   `json:"code" example:"TRAINER_CONFLICT"`
	Message string `json:"message" example:"Trainer already has a session at this time"`
}

type ErrorResponse struct {
	Success bool      `json:"success" example:"false"`
	Error   ErrorBody `json:"error"`
}

type MessageResponse struct {
	Success bool   `json:"success" example:"true"`
	Message string `json:"message" example:"ok"`
}

type DataResponse struct {
	Success bool        `json:"success" example:"true"`
	Data    interface{} `json:"data"`
	Total   *int        `json:"total,omitempty"`
}

type HealthResponse struct {
	Status   string `json:"status" example:"ok"`
	Database string `json:"database" example:"up"`
}

func OK(c *gin.Context, status int, data interface{}) {
	c.JSON(status, DataResponse{Success: true, Data: data})
}

func List(c *gin.Context, data interface{}, total int) {
	c.JSON(http.StatusOK, DataResponse{Success: true, Data: data, Total: &total})
}

func Message(c *gin.Context, msg string) {
	c.JSON(http.StatusOK, MessageResponse{Success: true, Message: msg})
}

// Fail writes err as a structured error. Errors that are not *Error are
// reported as INTERNAL_ERROR without their text.
func Fail(c *gin.Context, err error) {
	var apiErr *Error
	if !errors.As(err, &apiErr) {
		apiErr = Internal()
	}
	c.AbortWithStatusJSON(HTTPStatus(apiErr.Code), ErrorResponse{
		Error: ErrorBody{Code: apiErr.Code, Message: apiErr.Message},
	})
}

// ParamID parses a positive integer path parameter, writing a validation
// error when it is malformed.
func ParamID(c *gin.Context, name string) (int, bool) {
	id, err := strconv.Atoi(c.Param(name))
	if err != nil || id <= 0 {
		Fail(c, NewError(CodeValidation, "Invalid "+name))
		return 0, false
	}
	return id, true
}

func BindJSON(c *gin.Context, dst interface{}) bool {
	if err := c.ShouldBindJSON(dst); err != nil {
		Fail(c, NewError(CodeValidation, ValidationMessage(err)))
		return false
	}
	return true
}
