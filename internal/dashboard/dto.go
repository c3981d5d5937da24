package dashboard

// AdminStats summarizes the marketplace for the admin dashboard.
type AdminStats struct {
	TotalShops    int64 `json:"total_shops"`
	PendingShops  int64 `json:"pending_shops"`
	ApprovedShops int64 `json:"approved_shops"`
	TotalItems    int64 `json:"total_food_items"`
	TotalOrders   int64 `json:"total_orders"`
}

// VendorStats summarizes one vendor's shop activity.
type VendorStats struct {
	TotalItems     int64 `json:"total_food_items"`
	AvailableItems int64 `json:"available_food_items"`
	TotalOrders    int64 `json:"total_orders"`
	OrdersToday    int64 `json:"orders_today"`
	PendingOrders  int64 `json:"pending_orders"`
}

// StudentStats summarizes what a student can browse and has ordered.
type StudentStats struct {
	AvailableShops int64 `json:"available_shops"`
	AvailableItems int64 `json:"available_food_items"`
	TotalOrders    int64 `json:"total_orders"`
	ActiveOrders   int64 `json:"active_orders"`
}
