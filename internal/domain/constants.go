package domain

// Sink channels
const (
	ChannelPaymentAPI = "payment_api"
	ChannelSimulated  = "simulated_payment"
	ChannelWhatsApp   = "whatsapp"
)

// Cart visibility actions
const (
	CartActionOpen   = "open"
	CartActionClose  = "close"
	CartActionToggle = "toggle"
)

// Catalog sort keys
const (
	SortPriceAsc  = "price_asc"
	SortPriceDesc = "price_desc"
	SortName      = "name"
)

// List Exports for API
var CheckoutVariants = []CheckoutVariant{
	VariantCard,
	VariantWhatsApp,
}

var SortKeys = []string{
	SortPriceAsc,
	SortPriceDesc,
	SortName,
}
