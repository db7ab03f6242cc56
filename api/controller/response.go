package controller

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

const (
	APIVersion    = "1.0"
	ServiceType   = "dax-equalizer"
	ServerVersion = "0.1.0"

	responseKey = "dax-response"
)

// SuccessResponse 统一成功响应，数据放在 key 下
func SuccessResponse(c *gin.Context, key string, data interface{}, count int) {
	c.JSON(http.StatusOK, gin.H{
		responseKey: gin.H{
			"status":        "ok",
			"version":       APIVersion,
			"type":          ServiceType,
			"serverVersion": ServerVersion,
			key:             data,
			"count":         count,
		},
	})
}

// ErrorResponse 统一错误响应
func ErrorResponse(c *gin.Context, status int, code, message string) {
	c.JSON(status, gin.H{
		responseKey: gin.H{
			"status":        "failed",
			"version":       APIVersion,
			"type":          ServiceType,
			"serverVersion": ServerVersion,
			"error": gin.H{
				"code":    code,
				"message": message,
			},
		},
	})
}
