package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/mikestefanello/backlite"

	"github.com/mrlokans/redshift-manager/internal/tasks"
)

// TasksController handles task queue management endpoints.
type TasksController struct {
	client        *tasks.Client
	retentionDays int
}

func NewTasksController(client *tasks.Client, retentionDays int) *TasksController {
	return &TasksController{client: client, retentionDays: retentionDays}
}

// TaskTypeInfo describes an available task type.
type TaskTypeInfo struct {
	Type        string `json:"type"`
	Description string `json:"description"`
	Queue       string `json:"queue"`
}

var taskTypes = []TaskTypeInfo{
	{
		Type:        "locate",
		Description: "Look up the machine location from its public IP",
		Queue:       tasks.LocateQueue,
	},
	{
		Type:        "cleanup_audit_events",
		Description: "Delete audit events older than the retention period",
		Queue:       tasks.CleanupAuditQueue,
	},
}

// ListTaskTypes handles GET /api/tasks/types
func (tc *TasksController) ListTaskTypes(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"task_types": taskTypes,
	})
}

// GetTaskStatus handles GET /api/tasks/:id
func (tc *TasksController) GetTaskStatus(c *gin.Context) {
	taskID := c.Param("id")
	if taskID == "" {
		respondBadRequest(c, "task ID is required")
		return
	}

	ctx, cancel := requestContext(c)
	defer cancel()

	status, err := tc.client.Status(ctx, taskID)
	if err != nil {
		respondInternalError(c, err, "task status")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"id":     taskID,
		"status": tasks.StatusName(status),
	})
}

// RunTask handles POST /api/tasks/:type/run
func (tc *TasksController) RunTask(c *gin.Context) {
	taskType := c.Param("type")

	task, err := tc.newTask(taskType)
	if err != nil {
		respondBadRequest(c, err.Error())
		return
	}

	ids, err := tc.client.Add(task).Save()
	if err != nil {
		respondInternalError(c, err, "enqueue "+taskType)
		return
	}

	respondAccepted(c, "task enqueued", gin.H{
		"task_id": ids[0],
		"type":    taskType,
	})
}

func (tc *TasksController) newTask(taskType string) (backlite.Task, error) {
	switch taskType {
	case "locate":
		return tasks.LocateTask{Reason: "manual"}, nil
	case "cleanup_audit_events":
		return tasks.CleanupAuditEventsTask{RetentionDays: tc.retentionDays}, nil
	default:
		return nil, fmt.Errorf("unknown task type: %s", taskType)
	}
}
