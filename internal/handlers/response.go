package handlers

import "github.com/gin-gonic/gin"

// Response is the envelope every endpoint returns. Status repeats the HTTP
// code, Data carries the payload when there is one, and Error carries a
// machine-readable detail on failures.
type Response struct {
	Status  int         `json:"status"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

func respondSuccess(c *gin.Context, code int, message string, data interface{}) {
	c.JSON(code, Response{
		Status:  code,
		Message: message,
		Data:    data,
	})
}

func respondError(c *gin.Context, code int, message string) {
	c.JSON(code, Response{
		Status:  code,
		Message: message,
	})
}

func respondErrorDetail(c *gin.Context, code int, message, detail string) {
	c.JSON(code, Response{
		Status:  code,
		Message: message,
		Error:   detail,
	})
}
