// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"fmt"
	"log/slog"
	"net/http"

	"gameoftrivia/internal/content"
	"gameoftrivia/internal/models"
	"gameoftrivia/internal/render"
)

// CategoriesList renders all categories with their subcategories.
func (a *Admin) CategoriesList(w http.ResponseWriter, r *http.Request) {
	a.renderCategories(w, r, http.StatusOK, "", "")
}

// CategoryCreate handles the new category form.
func (a *Admin) CategoryCreate(w http.ResponseWriter, r *http.Request) {
	name := r.FormValue("name")

	c, err := a.content.CreateCategory(r.Context(), name)
	if err != nil {
		a.taxonomyError(w, r, err, name)
		return
	}

	a.flash(r, "success", fmt.Sprintf("Category %q created.", c.Name))
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryUpdate renames a category.
func (a *Admin) CategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := a.content.UpdateCategory(r.Context(), id, r.FormValue("name")); err != nil {
		a.taxonomyError(w, r, err, "")
		return
	}

	a.flash(r, "success", "Category renamed.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// CategoryDelete removes a category with its subcategories, questions
// and their images.
func (a *Admin) CategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := a.content.DeleteCategory(r.Context(), id); err != nil {
		a.taxonomyError(w, r, err, "")
		return
	}

	a.flash(r, "success", "Category deleted.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// SubcategoryCreate adds a subcategory to the category in the URL.
func (a *Admin) SubcategoryCreate(w http.ResponseWriter, r *http.Request) {
	categoryID, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	sc, err := a.content.CreateSubcategory(r.Context(), categoryID, r.FormValue("name"))
	if err != nil {
		a.taxonomyError(w, r, err, "")
		return
	}

	a.flash(r, "success", fmt.Sprintf("Subcategory %q created.", sc.Name))
	http.Redirect(w, r, fmt.Sprintf("/admin/categories#category-%d", categoryID), http.StatusSeeOther)
}

// SubcategoryUpdate renames a subcategory.
func (a *Admin) SubcategoryUpdate(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := a.content.UpdateSubcategory(r.Context(), id, r.FormValue("name")); err != nil {
		a.taxonomyError(w, r, err, "")
		return
	}

	a.flash(r, "success", "Subcategory renamed.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// SubcategoryDelete removes a subcategory. Its questions stay in the
// category without a subcategory.
func (a *Admin) SubcategoryDelete(w http.ResponseWriter, r *http.Request) {
	id, ok := urlID(r)
	if !ok {
		http.NotFound(w, r)
		return
	}

	if err := a.content.DeleteSubcategory(r.Context(), id); err != nil {
		a.taxonomyError(w, r, err, "")
		return
	}

	a.flash(r, "success", "Subcategory deleted.")
	http.Redirect(w, r, "/admin/categories", http.StatusSeeOther)
}

// taxonomyError re-renders the categories page with the failure message
// and the status of its kind.
func (a *Admin) taxonomyError(w http.ResponseWriter, r *http.Request, err error, submittedName string) {
	status := statusFor(err)
	if status == http.StatusInternalServerError {
		slog.Error("taxonomy mutation failed", "error", err)
	}
	a.renderCategories(w, r, status, content.Message(err, "Something went wrong. Please try again."), submittedName)
}

func (a *Admin) renderCategories(w http.ResponseWriter, r *http.Request, status int, errMsg, name string) {
	ctx := r.Context()

	cats, err := a.categories.List(ctx)
	if err != nil {
		slog.Error("list categories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}
	subs, err := a.subcategories.List(ctx)
	if err != nil {
		slog.Error("list subcategories failed", "error", err)
		http.Error(w, "Internal Server Error", http.StatusInternalServerError)
		return
	}

	byCategory := make(map[int64][]models.Subcategory, len(cats))
	for _, sc := range subs {
		byCategory[sc.CategoryID] = append(byCategory[sc.CategoryID], sc)
	}

	a.page(w, r, status, "categories", &render.PageData{
		Title:   "Categories",
		Section: "categories",
		Data: map[string]any{
			"Categories":    cats,
			"Subcategories": byCategory,
			"Error":         errMsg,
			"Name":          name,
		},
	})
}
