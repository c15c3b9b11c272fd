package httpresp

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type Envelope struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Data    any    `json:"data,omitempty"`
}

type ListResponse[T any] struct {
	Status string `json:"status"`
	Count  int    `json:"count"`
	Data   []T    `json:"data"`
}

func OK(c *gin.Context, data any) {
	c.JSON(http.StatusOK, Envelope{Status: "success", Data: data})
}

func Created(c *gin.Context, data any) {
	c.JSON(http.StatusCreated, Envelope{Status: "success", Data: data})
}

func Message(c *gin.Context, status int, message string, data any) {
	c.JSON(status, Envelope{Status: "success", Message: message, Data: data})
}

func List[T any](c *gin.Context, data []T) {
	if data == nil {
		data = []T{}
	}
	c.JSON(http.StatusOK, ListResponse[T]{
		Status: "success",
		Count:  len(data),
		Data:   data,
	})
}
