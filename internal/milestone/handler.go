package milestone

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/strive/internal/auth"
	"github.com/saulo-duarte/strive/internal/goal"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/saulo-duarte/strive/internal/view"
	"github.com/saulo-duarte/strive/internal/web"
)

const (
	titleAdd  = "Add New Milestone"
	titleEdit = "Edit Milestone"

	MsgGoalRequired    = "Goal ID is required to manage milestones."
	MsgInvalidGoalID   = "Invalid goal ID format."
	MsgGoalNotFound    = "Goal not found or unauthorized access."
	MsgEditNeedsID     = "Milestone ID is required for editing."
	MsgDeleteNeedsID   = "Milestone ID is required for deletion."
	MsgInvalidID       = "Invalid milestone ID format."
	MsgInvalidUpdateID = "Invalid milestone ID format for update."
	MsgNotFound        = "Milestone not found or unauthorized access."
	MsgAdded           = "Milestone successfully added!"
	MsgUpdated         = "Milestone successfully updated!"
	MsgDeleted         = "Milestone successfully deleted!"
	MsgUpdateFailed    = "Failed to update milestone. Milestone not found or unauthorized."
	MsgDeleteFailed    = "Failed to delete milestone or unauthorized."
)

const (
	goalsPath    = goal.ListPath
	detailsTitle = "Goal details"
)

type Handler struct {
	service  Service
	renderer view.Renderer
}

func NewHandler(service Service, renderer view.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	parent := h.parent(w, r)
	if parent == nil {
		return
	}

	switch web.Action(r, "list") {
	case "list":
		h.ShowDetails(w, r, parent)
	case "addForm":
		h.render(w, r, parent, Form{}, true, "")
	case "editForm":
		h.editForm(w, r, parent)
	case "delete":
		h.delete(w, r, parent)
	default:
		web.Fail(w, r, web.MsgInvalidAction, goal.MilestonesPath(parent.ID))
	}
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	parent := h.parent(w, r)
	if parent == nil {
		return
	}

	switch web.Action(r, "") {
	case "add":
		h.add(w, r, parent)
	case "update":
		h.update(w, r, parent)
	default:
		web.Fail(w, r, web.MsgInvalidAction, goal.MilestonesPath(parent.ID))
	}
}

// ShowDetails renders a goal with its milestones and drains the flash.
func (h *Handler) ShowDetails(w http.ResponseWriter, r *http.Request, g *goal.Goal) {
	h.render(w, r, g, Form{}, false, "")
}

// parent resolves and authorizes the goal every milestone request hangs
// off. On failure the response is already written.
func (h *Handler) parent(w http.ResponseWriter, r *http.Request) *goal.Goal {
	raw := r.FormValue("goalId")
	if validation.IsBlank(raw) {
		web.Fail(w, r, MsgGoalRequired, goalsPath)
		return nil
	}

	g, err := h.service.OwnedGoal(r.Context(), raw, auth.UserID(r))
	switch {
	case err == nil:
		return g
	case errors.Is(err, validation.ErrInvalidID):
		web.Fail(w, r, MsgInvalidGoalID, goalsPath)
	case errors.Is(err, goal.ErrNotFound):
		web.Fail(w, r, MsgGoalNotFound, goalsPath)
	default:
		web.ServerError(w, r, h.renderer, err)
	}
	return nil
}

func (h *Handler) milestoneID(w http.ResponseWriter, r *http.Request, parent *goal.Goal, missingMsg string) (uint, bool) {
	raw := r.FormValue("milestoneId")
	if validation.IsBlank(raw) {
		web.Fail(w, r, missingMsg, goal.MilestonesPath(parent.ID))
		return 0, false
	}
	id, err := validation.ParseID(raw)
	if err != nil {
		web.Fail(w, r, MsgInvalidID, goal.MilestonesPath(parent.ID))
		return 0, false
	}
	return id, true
}

func (h *Handler) editForm(w http.ResponseWriter, r *http.Request, parent *goal.Goal) {
	id, ok := h.milestoneID(w, r, parent, MsgEditNeedsID)
	if !ok {
		return
	}

	m, err := h.service.Get(r.Context(), auth.UserID(r), parent, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, goal.ErrNotFound) {
			web.Fail(w, r, MsgNotFound, goal.MilestonesPath(parent.ID))
			return
		}
		web.ServerError(w, r, h.renderer, err)
		return
	}
	h.render(w, r, parent, FormFrom(m), true, "")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request, parent *goal.Goal) {
	id, ok := h.milestoneID(w, r, parent, MsgDeleteNeedsID)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), auth.UserID(r), parent, id); err != nil {
		if errors.Is(err, ErrNotFound) || errors.Is(err, goal.ErrNotFound) {
			web.Fail(w, r, MsgDeleteFailed, goal.MilestonesPath(parent.ID))
			return
		}
		web.ServerError(w, r, h.renderer, err)
		return
	}
	web.Success(w, r, MsgDeleted, goal.MilestonesPath(parent.ID))
}

func formFromRequest(r *http.Request) Form {
	return Form{
		ID:          r.PostFormValue("milestoneId"),
		Description: r.PostFormValue("description"),
		DueDate:     r.PostFormValue("dueDate"),
		Status:      r.PostFormValue("status"),
	}
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request, parent *goal.Goal) {
	form := formFromRequest(r)
	form.ID = ""

	if _, err := h.service.Create(r.Context(), auth.UserID(r), parent, form); err != nil {
		h.formError(w, r, parent, form, err)
		return
	}
	web.Success(w, r, MsgAdded, goal.MilestonesPath(parent.ID))
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request, parent *goal.Goal) {
	form := formFromRequest(r)

	_, err := h.service.Update(r.Context(), auth.UserID(r), parent, form)
	switch {
	case err == nil:
		web.Success(w, r, MsgUpdated, goal.MilestonesPath(parent.ID))
	case errors.Is(err, validation.ErrInvalidID):
		web.Fail(w, r, MsgInvalidUpdateID, goal.MilestonesPath(parent.ID))
	case errors.Is(err, ErrNotFound), errors.Is(err, goal.ErrNotFound):
		web.Fail(w, r, MsgUpdateFailed, goal.MilestonesPath(parent.ID))
	default:
		h.formError(w, r, parent, form, err)
	}
}

func (h *Handler) formError(w http.ResponseWriter, r *http.Request, parent *goal.Goal, form Form, err error) {
	verr, ok := validation.As(err)
	if !ok {
		web.ServerError(w, r, h.renderer, err)
		return
	}
	h.render(w, r, parent, form, true, verr.Message)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, parent *goal.Goal, form Form, showForm bool, inlineError string) {
	milestones, err := h.service.List(r.Context(), auth.UserID(r), parent)
	if err != nil {
		web.ServerError(w, r, h.renderer, err)
		return
	}

	formTitle := titleAdd
	if form.IsEdit() {
		formTitle = titleEdit
	}

	title := parent.Description
	if title == "" {
		title = detailsTitle
	}

	data := web.Page(r, title, DetailPage{
		Goal:       parent,
		Milestones: milestones,
		Form:       form,
		Statuses:   SuggestedStatuses,
		FormTitle:  formTitle,
		ShowForm:   showForm,
	})
	data.Flash = web.TakeFlash(r)
	data.Error = inlineError
	web.Render(w, r, h.renderer, http.StatusOK, view.GoalDetails, data)
}
