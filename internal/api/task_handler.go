package api

import (
	"errors"
	"net/http"

	"github.com/phrazzld/taskman-api/internal/api/shared"
	"github.com/phrazzld/taskman-api/internal/domain"
	"github.com/phrazzld/taskman-api/internal/service"
)

// TaskHandler serves the /api/tasks endpoints. A task owned by another
// user is reported exactly like a missing one: 404 on show, 403 on update
// and delete.
type TaskHandler struct {
	taskService service.TaskService
}

// NewTaskHandler creates a new TaskHandler with the given dependencies.
func NewTaskHandler(taskService service.TaskService) *TaskHandler {
	return &TaskHandler{taskService: taskService}
}

// List handles GET /api/tasks.
func (h *TaskHandler) List(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	filter, err := taskQueryFromRequest(r).Filter()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	listing, err := h.taskService.GetAllTasks(r.Context(), userID, filter)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondSuccessWithMeta(w, r, http.StatusOK, "Tasks retrieved successfully",
		newTaskResponses(listing.Items), listing.Pagination)
}

// Create handles POST /api/tasks.
func (h *TaskHandler) Create(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	var body domain.TaskPatch
	if err := shared.DecodeJSON(w, r, &body); err != nil {
		HandleAPIError(w, r, err)
		return
	}
	input, err := body.CreateInput()
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.CreateTask(r.Context(), userID, input)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusCreated, "Task created successfully", newTaskResponse(task))
}

// Show handles GET /api/tasks/{id}.
func (h *TaskHandler) Show(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	taskID, ok := pathTaskID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusNotFound, MsgTaskNotFound)
		return
	}

	task, err := h.taskService.GetTaskByID(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Task retrieved successfully", newTaskResponse(task))
}

// Update handles PUT /api/tasks/{id}.
func (h *TaskHandler) Update(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	taskID, ok := pathTaskID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusForbidden, MsgTaskNotFound)
		return
	}

	var patch domain.TaskPatch
	if err := shared.DecodeJSON(w, r, &patch); err != nil {
		HandleAPIError(w, r, err)
		return
	}

	task, err := h.taskService.UpdateTask(r.Context(), userID, taskID, patch)
	if err != nil {
		if errors.Is(err, service.ErrTaskNotFound) {
			shared.RespondWithError(w, r, http.StatusForbidden, MsgTaskNotFound)
			return
		}
		HandleAPIError(w, r, err)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Task updated successfully", newTaskResponse(task))
}

// Delete handles DELETE /api/tasks/{id}.
func (h *TaskHandler) Delete(w http.ResponseWriter, r *http.Request) {
	userID, ok := requireUserID(w, r)
	if !ok {
		return
	}

	taskID, ok := pathTaskID(r)
	if !ok {
		shared.RespondWithError(w, r, http.StatusForbidden, MsgTaskNotFound)
		return
	}

	deleted, err := h.taskService.DeleteTask(r.Context(), userID, taskID)
	if err != nil {
		HandleAPIError(w, r, err)
		return
	}
	if !deleted {
		shared.RespondWithError(w, r, http.StatusForbidden, MsgTaskNotFound)
		return
	}

	shared.RespondSuccess(w, r, http.StatusOK, "Task deleted successfully", nil)
}
