package v1

import (
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/adanyl0v/task-manager/internal/models"
	"github.com/adanyl0v/task-manager/internal/services"
)

const msgTaskUpdated = "Updated successfully."

type taskResponse struct {
	ID        string `json:"_id"`
	ListID    string `json:"_listId"`
	Title     string `json:"title"`
	Completed bool   `json:"completed"`
}

func newTaskResponse(task *models.Task) taskResponse {
	return taskResponse{
		ID:        task.ID,
		ListID:    task.ListID,
		Title:     task.Title,
		Completed: task.Completed,
	}
}

type createTaskRequest struct {
	Title string `json:"title"`
}

type updateTaskRequest struct {
	Title     *string `json:"title,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

type messageResponse struct {
	Message string `json:"message"`
}

func (h *handlerImpl) HandleGetTasks(c *gin.Context) {
	tasks, err := h.tasks.GetTasks(c, c.Param("listId"))
	if err != nil {
		abort(c, newBadRequestError(msgStoreFailure))
		return
	}

	response := make([]taskResponse, len(tasks))
	for i, task := range tasks {
		response[i] = newTaskResponse(task)
	}
	c.JSON(http.StatusOK, response)
}

// HandleGetTask answers 200 with a null body when the task doesn't exist.
func (h *handlerImpl) HandleGetTask(c *gin.Context) {
	task, err := h.tasks.GetTask(c, services.TaskParams{
		ID:     c.Param("taskId"),
		ListID: c.Param("listId"),
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleCreateTask(c *gin.Context) {
	var req createTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	task, err := h.tasks.CreateTask(c, services.CreateTaskParams{
		ListID: c.Param("listId"),
		Title:  req.Title,
	})
	if err != nil {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}

func (h *handlerImpl) HandleUpdateTask(c *gin.Context) {
	var req updateTaskRequest
	err := c.ShouldBindJSON(&req)
	if err != nil && !errors.Is(err, io.EOF) {
		h.logger.Error().
			Err(err).
			Msg("failed to bind json")
		abort(c, newBadRequestError(msgInvalidRequestBody))
		return
	}

	_, err = h.tasks.UpdateTask(c, services.UpdateTaskParams{
		ID:     c.Param("taskId"),
		ListID: c.Param("listId"),
		Patch: models.TaskPatch{
			Title:     req.Title,
			Completed: req.Completed,
		},
	})
	if err != nil && !errors.Is(err, services.ErrTaskNotFound) {
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, messageResponse{Message: msgTaskUpdated})
}

// HandleDeleteTask answers 200 with a null body when nothing matched.
func (h *handlerImpl) HandleDeleteTask(c *gin.Context) {
	task, err := h.tasks.DeleteTask(c, services.TaskParams{
		ID:     c.Param("taskId"),
		ListID: c.Param("listId"),
	})
	if err != nil {
		if errors.Is(err, services.ErrTaskNotFound) {
			c.JSON(http.StatusOK, nil)
			return
		}
		abortWithServiceError(c, err)
		return
	}
	c.JSON(http.StatusOK, newTaskResponse(task))
}
