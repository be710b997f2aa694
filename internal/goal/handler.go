package goal

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/strive/internal/auth"
	"github.com/saulo-duarte/strive/internal/category"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/saulo-duarte/strive/internal/view"
	"github.com/saulo-duarte/strive/internal/web"
)

const (
	ListPath = "/goals"

	titleAdd  = "Add New Goal"
	titleEdit = "Edit Goal"

	MsgAdded           = "Goal successfully added!"
	MsgUpdated         = "Goal successfully updated!"
	MsgDeleted         = "Goal successfully deleted!"
	MsgAddFailed       = "Failed to add new goal. Please try again."
	MsgUpdateFailed    = "Failed to update goal. Goal not found or unauthorized."
	MsgDeleteFailed    = "Failed to delete goal or unauthorized."
	MsgEditRequiresID  = "Goal ID is required for editing."
	MsgDeleteNeedsID   = "Goal ID is required for deletion."
	MsgViewNeedsID     = "Goal ID is required to view details."
	MsgEditNotFound    = "Goal not found or unauthorized access for editing."
	MsgDetailsNotFound = "Goal details not found or unauthorized access."
	MsgInvalidID       = "Invalid ID format provided."
	MsgInvalidUpdateID = "Invalid goal ID format for update."
)

// DetailView renders a goal together with its milestones. It lives with
// the milestone handler so this package stays free of milestone imports.
type DetailView interface {
	ShowDetails(w http.ResponseWriter, r *http.Request, g *Goal)
}

type ListPage struct {
	Goals              []Goal
	Categories         []category.Category
	SelectedCategoryID uint
}

type FormPage struct {
	Form       Form
	Categories []category.Category
	Statuses   []Status
	FormTitle  string
}

type Handler struct {
	service  Service
	renderer view.Renderer
	details  DetailView
}

func NewHandler(service Service, renderer view.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

func (h *Handler) SetDetailView(d DetailView) {
	h.details = d
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	switch web.Action(r, "list") {
	case "list":
		h.list(w, r)
	case "add":
		h.renderForm(w, r, Form{}, "")
	case "edit":
		h.edit(w, r)
	case "delete":
		h.delete(w, r)
	case "view":
		h.view(w, r)
	default:
		web.Fail(w, r, web.MsgInvalidAction, ListPath)
	}
}

func (h *Handler) Post(w http.ResponseWriter, r *http.Request) {
	switch web.Action(r, "") {
	case "add":
		h.add(w, r)
	case "update":
		h.update(w, r)
	default:
		web.Fail(w, r, web.MsgInvalidAction, ListPath)
	}
}

func (h *Handler) list(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.List(r.Context(), auth.UserID(r), r.FormValue("categoryId"))
	if err != nil {
		web.ServerError(w, r, h.renderer, err)
		return
	}

	data := web.Page(r, "My goals", ListPage{
		Goals:              result.Goals,
		Categories:         result.Categories,
		SelectedCategoryID: result.SelectedCategoryID,
	})
	data.Flash = web.TakeFlash(r)
	data.Error = result.FilterError
	web.Render(w, r, h.renderer, http.StatusOK, view.Dashboard, data)
}

// load resolves the goalId parameter to an owned goal. It answers the
// request itself and returns nil on any failure.
func (h *Handler) load(w http.ResponseWriter, r *http.Request, missingMsg, notFoundMsg string) *Goal {
	raw := r.FormValue("goalId")
	if validation.IsBlank(raw) {
		web.Fail(w, r, missingMsg, ListPath)
		return nil
	}
	id, err := validation.ParseID(raw)
	if err != nil {
		web.Fail(w, r, MsgInvalidID, ListPath)
		return nil
	}

	g, err := h.service.Get(r.Context(), id, auth.UserID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.Fail(w, r, notFoundMsg, ListPath)
			return nil
		}
		web.ServerError(w, r, h.renderer, err)
		return nil
	}
	return g
}

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	g := h.load(w, r, MsgEditRequiresID, MsgEditNotFound)
	if g == nil {
		return
	}
	h.renderForm(w, r, FormFrom(g), "")
}

func (h *Handler) view(w http.ResponseWriter, r *http.Request) {
	g := h.load(w, r, MsgViewNeedsID, MsgDetailsNotFound)
	if g == nil {
		return
	}
	if h.details == nil {
		web.Redirect(w, r, MilestonesPath(g.ID))
		return
	}
	h.details.ShowDetails(w, r, g)
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	raw := r.FormValue("goalId")
	if validation.IsBlank(raw) {
		web.Fail(w, r, MsgDeleteNeedsID, ListPath)
		return
	}
	id, err := validation.ParseID(raw)
	if err != nil {
		web.Fail(w, r, MsgInvalidID, ListPath)
		return
	}

	if err := h.service.Delete(r.Context(), id, auth.UserID(r)); err != nil {
		if errors.Is(err, ErrNotFound) {
			web.Fail(w, r, MsgDeleteFailed, ListPath)
			return
		}
		web.ServerError(w, r, h.renderer, err)
		return
	}
	web.Success(w, r, MsgDeleted, ListPath)
}

func formFromRequest(r *http.Request) Form {
	return Form{
		ID:          r.PostFormValue("goalId"),
		Description: r.PostFormValue("description"),
		TargetDate:  r.PostFormValue("targetDate"),
		Status:      r.PostFormValue("status"),
		CategoryID:  r.PostFormValue("categoryId"),
	}
}

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)
	form.ID = ""

	_, err := h.service.Create(r.Context(), auth.UserID(r), form)
	switch {
	case err == nil:
		web.Success(w, r, MsgAdded, ListPath)
	case errors.Is(err, ErrNotSaved):
		web.Fail(w, r, MsgAddFailed, ListPath)
	default:
		h.formError(w, r, form, err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	form := formFromRequest(r)

	_, err := h.service.Update(r.Context(), auth.UserID(r), form)
	switch {
	case err == nil:
		web.Success(w, r, MsgUpdated, ListPath)
	case errors.Is(err, validation.ErrInvalidID):
		web.Fail(w, r, MsgInvalidUpdateID, ListPath)
	case errors.Is(err, ErrNotFound), errors.Is(err, ErrNotSaved):
		web.Fail(w, r, MsgUpdateFailed, ListPath)
	default:
		h.formError(w, r, form, err)
	}
}

func (h *Handler) formError(w http.ResponseWriter, r *http.Request, form Form, err error) {
	verr, ok := validation.As(err)
	if !ok {
		web.ServerError(w, r, h.renderer, err)
		return
	}
	h.renderForm(w, r, form, verr.Message)
}

func (h *Handler) renderForm(w http.ResponseWriter, r *http.Request, form Form, inlineError string) {
	categories, err := h.service.Categories(r.Context(), auth.UserID(r))
	if err != nil {
		web.ServerError(w, r, h.renderer, err)
		return
	}

	title := titleAdd
	if form.IsEdit() {
		title = titleEdit
	}

	data := web.Page(r, title, FormPage{
		Form:       form,
		Categories: categories,
		Statuses:   SuggestedStatuses,
		FormTitle:  title,
	})
	data.Error = inlineError
	web.Render(w, r, h.renderer, http.StatusOK, view.GoalForm, data)
}
