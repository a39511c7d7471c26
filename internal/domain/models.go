package domain

import "time"

type OrderType string

const (
	OrderTypeDineIn     OrderType = "DINE_IN"
	OrderTypeTakeaway   OrderType = "TAKEAWAY"
	OrderTypeDelivery   OrderType = "DELIVERY"
	OrderTypeParty      OrderType = "PARTY"
	OrderTypeOpenBuffet OrderType = "OPEN_BUFFET"
)

type CustomerType string

const (
	CustomerTypeIndividual CustomerType = "INDIVIDUAL"
	CustomerTypeCompany    CustomerType = "COMPANY"
)

type TableStatus string

const (
	TableAvailable TableStatus = "AVAILABLE"
	TableOccupied  TableStatus = "OCCUPIED"
	TableReserved  TableStatus = "RESERVED"
	TableCleaning  TableStatus = "CLEANING"
)

// LineItemType tags which catalog reference an order line points at.
type LineItemType string

const (
	LineTypeItem   LineItemType = "item"
	LineTypeRecipe LineItemType = "recipe"
	LineTypeMeal   LineItemType = "meal"
)

type ItemStatus string

const (
	ItemPending   ItemStatus = "PENDING"
	ItemPreparing ItemStatus = "PREPARING"
	ItemReady     ItemStatus = "READY"
)

type Order struct {
	ID                  int          `json:"id"`
	OrderNumber         string       `json:"order_number"`
	OrderType           OrderType    `json:"order_type"`
	CustomerType        CustomerType `json:"customer_type"`
	Status              OrderStatus  `json:"status"`
	Subtotal            float64      `json:"subtotal"`
	TaxAmount           float64      `json:"tax_amount"`
	DeliveryFee         float64      `json:"delivery_fee"`
	TotalAmount         float64      `json:"total_amount"`
	CustomerID          *int         `json:"customer_id,omitempty"`
	CompanyID           *int         `json:"company_id,omitempty"`
	TableID             *int         `json:"table_id,omitempty"`
	DeliveryAreaID      *int         `json:"delivery_area_id,omitempty"`
	CashierID           *int         `json:"cashier_id,omitempty"`
	KitchenStaffID      *int         `json:"kitchen_staff_id,omitempty"`
	HallManagerID       *int         `json:"hall_manager_id,omitempty"`
	DeliveryStaffID     *int         `json:"delivery_staff_id,omitempty"`
	SpecialInstructions string       `json:"special_instructions,omitempty"`
	IsPaid              bool         `json:"is_paid"`
	EstimatedReadyTime  *time.Time   `json:"estimated_ready_time,omitempty"`
	ConfirmedAt         *time.Time   `json:"confirmed_at,omitempty"`
	KitchenStartAt      *time.Time   `json:"kitchen_start_at,omitempty"`
	ReadyAt             *time.Time   `json:"ready_at,omitempty"`
	ServedAt            *time.Time   `json:"served_at,omitempty"`
	DeliveredAt         *time.Time   `json:"delivered_at,omitempty"`
	CreatedAt           time.Time    `json:"created_at"`
	Items               []OrderItem  `json:"items"`
}

type OrderItem struct {
	ID                  int          `json:"id"`
	OrderID             int          `json:"order_id"`
	ItemType            LineItemType `json:"item_type"`
	ItemID              *int         `json:"item_id,omitempty"`
	RecipeID            *int         `json:"recipe_id,omitempty"`
	MealID              *int         `json:"meal_id,omitempty"`
	CookingMethodID     *int         `json:"cooking_method_id,omitempty"`
	Name                string       `json:"name"`
	Quantity            int          `json:"quantity"`
	UnitPrice           float64      `json:"unit_price"`
	TotalPrice          float64      `json:"total_price"`
	Status              ItemStatus   `json:"status"`
	SpecialInstructions string       `json:"special_instructions,omitempty"`
}

// SetRef populates the single reference field matching the item type.
func (i *OrderItem) SetRef(refID int) {
	switch i.ItemType {
	case LineTypeItem:
		i.ItemID = &refID
	case LineTypeRecipe:
		i.RecipeID = &refID
	case LineTypeMeal:
		i.MealID = &refID
	}
}

// Ref returns the populated reference id for the line's item type.
func (i *OrderItem) Ref() *int {
	switch i.ItemType {
	case LineTypeItem:
		return i.ItemID
	case LineTypeRecipe:
		return i.RecipeID
	case LineTypeMeal:
		return i.MealID
	}
	return nil
}

type OrderStatusHistory struct {
	ID        int         `json:"id"`
	OrderID   int         `json:"order_id"`
	OldStatus OrderStatus `json:"old_status,omitempty"`
	NewStatus OrderStatus `json:"new_status"`
	StaffID   *int        `json:"staff_id,omitempty"`
	Note      string      `json:"note,omitempty"`
	CreatedAt time.Time   `json:"created_at"`
}

type Customer struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	IsActive bool   `json:"is_active"`
}

type Company struct {
	ID       int    `json:"id"`
	Name     string `json:"name"`
	TaxID    string `json:"tax_id"`
	IsActive bool   `json:"is_active"`
}

type Table struct {
	ID     int         `json:"id"`
	Number string      `json:"number"`
	Seats  int         `json:"seats"`
	Status TableStatus `json:"status"`
}

type DeliveryArea struct {
	ID                    int     `json:"id"`
	Name                  string  `json:"name"`
	Fee                   float64 `json:"fee"`
	EstimatedDeliveryTime int     `json:"estimated_delivery_time"`
	IsActive              bool    `json:"is_active"`
}

// Staff is the acting user on an order operation. Role ids are optional
// because a staff member may hold none of the kitchen/hall/delivery roles.
type Staff struct {
	ID              int  `json:"id"`
	KitchenStaffID  *int `json:"kitchen_staff_id,omitempty"`
	HallManagerID   *int `json:"hall_manager_id,omitempty"`
	DeliveryStaffID *int `json:"delivery_staff_id,omitempty"`
}

// CatalogEntry is the resolved price/availability view of an item, recipe or
// meal. CurrentStock is only set for stock-tracked items; PrepTime only for
// recipes and meals.
type CatalogEntry struct {
	Name         string
	BasePrice    float64
	IsAvailable  bool
	CurrentStock *int
	PrepTime     *int
}

type CookingMethod struct {
	Name           string
	AdditionalCost float64
	IsAvailable    bool
	ExtraTime      int
}
