package handlers

import "github.com/go-chi/chi/v5"

// RegisterOperatorRoutes mounts the operator API on r, which is expected to be the /api sub-router
func RegisterOperatorRoutes(r chi.Router, sessions *SessionHandler, catalog *CatalogHandler, drafts *DraftHandler) {
	// Session
	r.Get("/session", sessions.GetSession)
	r.Put("/session/token", sessions.SetToken)

	// Directory and candidate search
	r.Post("/directory/load", catalog.LoadDirectory)
	r.Get("/directory", catalog.GetDirectory)
	r.Get("/customers", catalog.SearchCustomers)
	r.Get("/products", catalog.SearchProducts)

	// Draft
	r.Route("/draft", func(r chi.Router) {
		r.Get("/", drafts.GetDraft)
		r.Delete("/", drafts.ResetDraft)
		r.Patch("/", drafts.UpdateDraft)

		r.Put("/customer", drafts.SelectCustomer)
		r.Delete("/customer", drafts.ClearCustomer)

		r.Post("/items", drafts.AddItem)
		r.Patch("/items/{productId}", drafts.UpdateItem)
		r.Delete("/items/{productId}", drafts.RemoveItem)

		r.Post("/submit", drafts.Submit)
	})
}
