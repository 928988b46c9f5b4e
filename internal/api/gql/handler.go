package gql

import (
	"net/http"

	"github.com/gin-gonic/gin"
	graphql "github.com/graph-gophers/graphql-go"
)

type Request struct {
	Query         string         `json:"query" binding:"required"`
	OperationName string         `json:"operationName"`
	Variables     map[string]any `json:"variables"`
}

// Handler executes POST /graphql. Identity and token sink are expected in the
// request context, put there by the session middleware.
func Handler(schema *graphql.Schema) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req Request
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid graphql request body"})
			return
		}

		resp := schema.Exec(c.Request.Context(), req.Query, req.OperationName, req.Variables)
		c.JSON(http.StatusOK, resp)
	}
}
