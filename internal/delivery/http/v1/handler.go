package v1

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/adanyl0v/task-manager/internal/services"
)

type Handler interface {
	HandleSignup(c *gin.Context)
	HandleLogin(c *gin.Context)
	HandleGetAccessToken(c *gin.Context)
	HandleVerifySession(c *gin.Context)
	HandleAuthenticate(c *gin.Context)

	HandleGetLists(c *gin.Context)
	HandleCreateList(c *gin.Context)
	HandleUpdateList(c *gin.Context)
	HandleDeleteList(c *gin.Context)
	HandleListOwnership(c *gin.Context)

	HandleGetTasks(c *gin.Context)
	HandleGetTask(c *gin.Context)
	HandleCreateTask(c *gin.Context)
	HandleUpdateTask(c *gin.Context)
	HandleDeleteTask(c *gin.Context)
}

type handlerImpl struct {
	logger   zerolog.Logger
	auth     services.AuthService
	sessions services.SessionService
	lists    services.ListService
	tasks    services.TaskService
}

func New(
	logger zerolog.Logger,
	svc *services.Services,
) Handler {
	return &handlerImpl{
		logger:   logger,
		auth:     svc.Auth,
		sessions: svc.Sessions,
		lists:    svc.Lists,
		tasks:    svc.Tasks,
	}
}

// RegisterRoutes mounts the API on router. When requireAccessToken is set,
// list and task routes sit behind HandleAuthenticate and are scoped to the
// caller.
func RegisterRoutes(router gin.IRouter, h Handler, requireAccessToken bool) {
	usersRouter := router.Group("/users")
	usersRouter.POST("", h.HandleSignup)
	usersRouter.POST("/login", h.HandleLogin)
	usersRouter.GET("/me/access-token", h.HandleVerifySession, h.HandleGetAccessToken)

	listsRouter := router.Group("/lists")
	if requireAccessToken {
		listsRouter.Use(h.HandleAuthenticate)
	}
	listsRouter.GET("", h.HandleGetLists)
	listsRouter.POST("", h.HandleCreateList)
	listsRouter.PATCH("/:listId", h.HandleUpdateList)
	listsRouter.DELETE("/:listId", h.HandleDeleteList)

	tasksRouter := listsRouter.Group("/:listId/tasks")
	if requireAccessToken {
		tasksRouter.Use(h.HandleListOwnership)
	}
	tasksRouter.GET("", h.HandleGetTasks)
	tasksRouter.GET("/:taskId", h.HandleGetTask)
	tasksRouter.POST("", h.HandleCreateTask)
	tasksRouter.PATCH("/:taskId", h.HandleUpdateTask)
	tasksRouter.DELETE("/:taskId", h.HandleDeleteTask)
}
