package category

import (
	"errors"
	"net/http"

	"github.com/saulo-duarte/strive/internal/auth"
	"github.com/saulo-duarte/strive/internal/validation"
	"github.com/saulo-duarte/strive/internal/view"
	"github.com/saulo-duarte/strive/internal/web"
)

const (
	ListPath = "/categories"

	titleAdd  = "Add New Category"
	titleEdit = "Edit Category"

	MsgAdded         = "Category successfully added!"
	MsgUpdated       = "Category successfully updated!"
	MsgDeleted       = "Category successfully deleted!"
	MsgNotFound      = "Category not found or unauthorized access."
	MsgInvalidID     = "Invalid category ID format."
	MsgInvalidUpdate = "Invalid category ID format for update."
	MsgAddFailed     = "Failed to add new category. Category name might already exist."
	MsgUpdateDup     = "Failed to update category. Category name might already exist."
	MsgUpdateFailed  = "Failed to update category. Category not found or unauthorized."
	MsgDeleteFailed  = "Failed to delete category or unauthorized."
)

// Page is the payload of the categories view: the list plus the add or
// edit form.
type Page struct {
	Categories []Category
	Form       Form
	FormTitle  string
}

type Handler struct {
	service  Service
	renderer view.Renderer
}

func NewHandler(service Service, renderer view.Renderer) *Handler {
	return &Handler{service: service, renderer: renderer}
}

func (h *Handler) Get(w http.ResponseWriter, r *http.Request) {
	switch web.Action(r, "list") {
	case "list":
		h.render(w, r, Form{}, "")
	case "edit":
		h.edit(w, r)
	case "delete":
		h.delete(w, r)
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

func (h *Handler) edit(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.FormValue("categoryId"))
	if err != nil {
		web.Fail(w, r, MsgInvalidID, ListPath)
		return
	}

	c, err := h.service.Get(r.Context(), id, auth.UserID(r))
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			web.Fail(w, r, MsgNotFound, ListPath)
			return
		}
		web.ServerError(w, r, h.renderer, err)
		return
	}

	h.render(w, r, FormFrom(c), "")
}

func (h *Handler) delete(w http.ResponseWriter, r *http.Request) {
	id, err := validation.ParseID(r.FormValue("categoryId"))
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

func (h *Handler) add(w http.ResponseWriter, r *http.Request) {
	form := Form{Name: r.PostFormValue("name")}

	_, err := h.service.Create(r.Context(), auth.UserID(r), form)
	switch {
	case err == nil:
		web.Success(w, r, MsgAdded, ListPath)
	case errors.Is(err, ErrDuplicateName):
		web.Fail(w, r, MsgAddFailed, ListPath)
	default:
		h.formError(w, r, form, err)
	}
}

func (h *Handler) update(w http.ResponseWriter, r *http.Request) {
	form := Form{
		ID:   r.PostFormValue("categoryId"),
		Name: r.PostFormValue("name"),
	}

	_, err := h.service.Update(r.Context(), auth.UserID(r), form)
	switch {
	case err == nil:
		web.Success(w, r, MsgUpdated, ListPath)
	case errors.Is(err, validation.ErrInvalidID):
		web.Fail(w, r, MsgInvalidUpdate, ListPath)
	case errors.Is(err, ErrDuplicateName):
		web.Fail(w, r, MsgUpdateDup, ListPath)
	case errors.Is(err, ErrNotFound):
		web.Fail(w, r, MsgUpdateFailed, ListPath)
	default:
		h.formError(w, r, form, err)
	}
}

// formError re-renders the form with the rule that failed, or falls back
// to the error page for anything else.
func (h *Handler) formError(w http.ResponseWriter, r *http.Request, form Form, err error) {
	verr, ok := validation.As(err)
	if !ok {
		web.ServerError(w, r, h.renderer, err)
		return
	}
	h.render(w, r, form, verr.Message)
}

func (h *Handler) render(w http.ResponseWriter, r *http.Request, form Form, inlineError string) {
	categories, err := h.service.List(r.Context(), auth.UserID(r))
	if err != nil {
		web.ServerError(w, r, h.renderer, err)
		return
	}

	title := titleAdd
	if form.IsEdit() {
		title = titleEdit
	}

	data := web.Page(r, "Categories", Page{
		Categories: categories,
		Form:       form,
		FormTitle:  title,
	})
	data.Flash = web.TakeFlash(r)
	data.Error = inlineError
	web.Render(w, r, h.renderer, http.StatusOK, view.Categories, data)
}
