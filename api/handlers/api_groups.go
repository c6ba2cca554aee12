package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
)

// APIGroupList - список групп. Коллекция доступна только на чтение,
// небезопасные методы на этих путях получают 405 от роутера.
func APIGroupList(c *gin.Context) {
	groups, err := groupService.List(c.Request.Context())
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch groups"})
		return
	}
	c.JSON(http.StatusOK, groups)
}

// APIGroupRetrieve возвращает одну группу
func APIGroupRetrieve(c *gin.Context) {
	groupID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid group ID"})
		return
	}
	group, err := groupService.Get(c.Request.Context(), groupID)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Group not found"})
		return
	}
	c.JSON(http.StatusOK, group)
}
