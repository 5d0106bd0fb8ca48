package v1

import (
	"net/http"

	"storefront-backend/internal/domain"
)

// Handlers bundles everything mounted under /api/v1.
type Handlers struct {
	Catalog      *CatalogHandler
	AdminCatalog *AdminCatalogHandler
	AdminStats   *AdminStatsHandler
	Cart         *CartHandler
	Checkout     *CheckoutHandler
	Config       *ConfigHandler
	Upload       *UploadHandler
}

// RegisterRoutes mounts the API on mux. Cart and checkout routes run behind
// session, which attaches the shopper's anonymous session.
func RegisterRoutes(mux *http.ServeMux, h Handlers, session func(http.Handler) http.Handler) {
	withSession := func(fn http.HandlerFunc) http.Handler {
		return session(fn)
	}

	// Config (Public)
	mux.HandleFunc("GET /api/v1/config/storefront", h.Config.GetStorefront)
	mux.HandleFunc("GET /api/v1/config/enums", h.Config.GetEnums)

	// Catalog (Public)
	mux.HandleFunc("GET /api/v1/products", h.Catalog.ListProducts)
	mux.HandleFunc("GET /api/v1/products/{id}", h.Catalog.GetProduct)
	mux.HandleFunc("GET /api/v1/categories", h.Catalog.GetCategories)

	// Cart (Session)
	mux.Handle("GET /api/v1/cart", withSession(h.Cart.GetCart))
	mux.Handle("DELETE /api/v1/cart", withSession(h.Cart.Clear))
	mux.Handle("POST /api/v1/cart/items", withSession(h.Cart.AddItem))
	mux.Handle("PUT /api/v1/cart/items/{itemId}", withSession(h.Cart.UpdateItem))
	mux.Handle("DELETE /api/v1/cart/items/{itemId}", withSession(h.Cart.RemoveItem))
	mux.Handle("POST /api/v1/cart/open", withSession(h.Cart.Visibility(domain.CartActionOpen)))
	mux.Handle("POST /api/v1/cart/close", withSession(h.Cart.Visibility(domain.CartActionClose)))
	mux.Handle("POST /api/v1/cart/toggle", withSession(h.Cart.Visibility(domain.CartActionToggle)))

	// Checkout (Session)
	mux.Handle("POST /api/v1/checkout", withSession(h.Checkout.Open))
	mux.Handle("GET /api/v1/checkout", withSession(h.Checkout.Get))
	mux.Handle("DELETE /api/v1/checkout", withSession(h.Checkout.Close))
	mux.Handle("PUT /api/v1/checkout/customer", withSession(h.Checkout.UpdateCustomer))
	mux.Handle("PUT /api/v1/checkout/delivery", withSession(h.Checkout.UpdateDelivery))
	mux.Handle("PUT /api/v1/checkout/payment", withSession(h.Checkout.UpdatePayment))
	mux.Handle("PUT /api/v1/checkout/notes", withSession(h.Checkout.UpdateNotes))
	mux.Handle("POST /api/v1/checkout/next", withSession(h.Checkout.Next))
	mux.Handle("POST /api/v1/checkout/back", withSession(h.Checkout.Back))
	mux.Handle("POST /api/v1/checkout/submit", withSession(h.Checkout.Submit))

	// Admin Product Management
	mux.HandleFunc("GET /api/v1/admin/products", h.AdminCatalog.ListProducts)
	mux.HandleFunc("POST /api/v1/admin/products", h.AdminCatalog.CreateProduct)
	mux.HandleFunc("PUT /api/v1/admin/products", h.AdminCatalog.ReplaceProducts)
	mux.HandleFunc("PATCH /api/v1/admin/products/{id}", h.AdminCatalog.UpdateProduct)
	mux.HandleFunc("DELETE /api/v1/admin/products/{id}", h.AdminCatalog.DeleteProduct)
	mux.HandleFunc("GET /api/v1/admin/stats", h.AdminStats.GetDashboard)
	mux.HandleFunc("POST /api/v1/admin/upload", h.Upload.UploadImage)
}
