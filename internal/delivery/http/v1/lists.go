package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/services"
)

type listResponse struct {
	ID     string `json:"_id"`
	Title  string `json:"title"`
	UserID string `json:"_userId,omitempty"`
}

func newListResponse(list *models.List) listResponse {
	return listResponse{
		ID:     list.ID,
		Title:  list.Title,
		UserID: list.UserID,
	}
}

type createListRequest struct {
	Title string `json:"title"`
}

type updateListRequest struct {
	Title *string `json:"title,omitempty"`
}

func (h *handlerImpl) HandleGetLists(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	lists, err := h.lists.GetLists(c, userID)
	if err != nil {
		abort(c, newBadRequestError(msgStoreFailure))
		return
	}

	response := make([]listResponse, len(lists))
	for i, list := range lists {
		response[i] = newListResponse(list)
	}
	c.JSON(http.StatusOK, response)
}

func (h *handlerImpl) HandleCreateList(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req createListRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	list, err := h.lists.CreateList(c, services.CreateListParams{
		UserID: userID,
		Title:  req.Title,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(list))
}

func (h *handlerImpl) HandleUpdateList(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	var req updateListRequest
	err := c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	_, err = h.lists.UpdateList(c, services.UpdateListParams{
		ID:     c.Param("listId"),
		UserID: userID,
		Patch:  models.ListPatch{Title: req.Title},
	})
	if err != nil && !errors.Is(err, services.ErrListNotFound) {
		abortWithServiceError(c, err)
		return
	}
	c.Status(http.StatusOK)
}

// HandleDeleteList answers 200 with a null body when nothing matched.
func (h *handlerImpl) HandleDeleteList(c *gin.Context) {
	userID, _ := getStringFromContext(c, userIDCtxKey)

	list, err := h.lists.DeleteList(c, services.ListParams{
		ID:     c.Param("listId"),
		UserID: userID,
	})
	if err != nil {
		if errors.Is(err, services.ErrListNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newListResponse(list))
}

// abortWithServiceError answers 400 for every service failure, carrying the
// validation message when the store rejected the input.
func abortWithServiceError(c *gin.Context, err error) {
	if errors.Is(err, services.ErrValidation) {
		abort(c, newBadRequestError(err.Error()))
		return
	}
	abort(c, newBadRequestError(msgStoreFailure))
}
