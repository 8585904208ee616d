package ordering

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/driveshop/backend/internal/domain/ordering"
)

// AddCartItemRequest represents a request to add a listing to the cart
type AddCartItemRequest struct {
	ListingID uuid.UUID `json:"listing_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,min=1"`
}

// UpdateCartItemRequest changes a cart line quantity; zero removes the line
type UpdateCartItemRequest struct {
	Quantity int `json:"quantity" binding:"min=0"`
}

// CartLineResponse is one line of the cart view
type CartLineResponse struct {
	ListingID uuid.UUID       `json:"listing_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// CartResponse is the full cart view with recomputed totals
type CartResponse struct {
	Lines []CartLineResponse `json:"lines"`
	Count int                `json:"count"`
	Total decimal.Decimal    `json:"total"`
}

// CustomerInfoRequest is the contact step of checkout
type CustomerInfoRequest struct {
	Name    string `json:"name" binding:"required,min=1,max=200"`
	Email   string `json:"email" binding:"required,email,max=200"`
	Phone   string `json:"phone" binding:"max=50"`
	Address string `json:"address" binding:"required,min=1,max=500"`
	City    string `json:"city" binding:"required,min=1,max=100"`
	Country string `json:"country" binding:"required,min=1,max=100"`
}

// ChooseShippingRequest is the delivery step of checkout
type ChooseShippingRequest struct {
	Method string `json:"method" binding:"required,oneof=standard express"`
}

// CustomerInfoResponse echoes the captured contact information
type CustomerInfoResponse struct {
	Name    string `json:"name"`
	Email   string `json:"email"`
	Phone   string `json:"phone"`
	Address string `json:"address"`
	City    string `json:"city"`
	Country string `json:"country"`
}

// CheckoutStateResponse describes checkout progress
type CheckoutStateResponse struct {
	Customer    *CustomerInfoResponse `json:"customer,omitempty"`
	Shipping    string                `json:"shipping,omitempty"`
	ShippingFee *decimal.Decimal      `json:"shipping_fee,omitempty"`
	ReadyToPay  bool                  `json:"ready_to_pay"`
}

// OrderItemResponse is one line of an order view
type OrderItemResponse struct {
	ListingID uuid.UUID       `json:"listing_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Title     string          `json:"title"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
	Subtotal  decimal.Decimal `json:"subtotal"`
}

// OrderResponse is the full order view
type OrderResponse struct {
	ID             uuid.UUID            `json:"id"`
	OrderNumber    string               `json:"order_number"`
	BuyerID        uuid.UUID            `json:"buyer_id"`
	Status         string               `json:"status"`
	Items          []OrderItemResponse  `json:"items"`
	Customer       CustomerInfoResponse `json:"customer"`
	ShippingMethod string               `json:"shipping_method"`
	ShippingFee    decimal.Decimal      `json:"shipping_fee"`
	ItemsTotal     decimal.Decimal      `json:"items_total"`
	GrandTotal     decimal.Decimal      `json:"grand_total"`
	Notes          string               `json:"notes,omitempty"`
	ConfirmedAt    *time.Time           `json:"confirmed_at,omitempty"`
	ShippedAt      *time.Time           `json:"shipped_at,omitempty"`
	DeliveredAt    *time.Time           `json:"delivered_at,omitempty"`
	CancelledAt    *time.Time           `json:"cancelled_at,omitempty"`
	CreatedAt      time.Time            `json:"created_at"`
}

// PaymentResponse is the public view of a captured payment
type PaymentResponse struct {
	ID        uuid.UUID       `json:"id"`
	OrderID   uuid.UUID       `json:"order_id"`
	Reference string          `json:"reference"`
	Amount    decimal.Decimal `json:"amount"`
	Method    string          `json:"method"`
	Status    string          `json:"status"`
	CreatedAt time.Time       `json:"created_at"`
}

// PayResponse is returned by the final checkout step
type PayResponse struct {
	Order   OrderResponse   `json:"order"`
	Payment PaymentResponse `json:"payment"`
}

// CancelOrderRequest carries the mandatory cancellation reason
type CancelOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// RejectOrderRequest carries the seller's mandatory rejection reason
type RejectOrderRequest struct {
	Reason string `json:"reason" binding:"required,min=1,max=500"`
}

// OrderListFilter contains filter options for listing orders
type OrderListFilter struct {
	Status   string `form:"status" binding:"omitempty,oneof=pending_confirmation confirmed preparing shipped delivered cancelled"`
	Page     int    `form:"page" binding:"omitempty,min=1"`
	PageSize int    `form:"page_size" binding:"omitempty,min=1,max=60"`
}

// ToDomainFilter converts the request filter to a domain filter
func (f OrderListFilter) ToDomainFilter() ordering.OrderFilter {
	filter := ordering.NewOrderFilter()
	if f.Status != "" {
		status := ordering.OrderStatus(f.Status)
		filter.Status = &status
	}
	if f.Page > 0 {
		filter.Page = f.Page
	}
	if f.PageSize > 0 {
		filter.PageSize = f.PageSize
	}
	return filter
}

// ToCartResponse converts a cart to its view with recomputed totals
func ToCartResponse(cart *ordering.Cart) CartResponse {
	lines := make([]CartLineResponse, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		lines = append(lines, CartLineResponse{
			ListingID: line.ListingID,
			Title:     line.Title,
			UnitPrice: line.UnitPrice,
			Quantity:  line.Quantity,
			Subtotal:  line.Subtotal(),
		})
	}
	return CartResponse{
		Lines: lines,
		Count: cart.Count(),
		Total: cart.Total(),
	}
}

// ToCheckoutStateResponse converts checkout progress to its view
func ToCheckoutStateResponse(state *ordering.CheckoutState) CheckoutStateResponse {
	response := CheckoutStateResponse{
		ReadyToPay: state.ReadyToPay(),
	}
	if state.HasCustomer {
		customer := toCustomerInfoResponse(state.Customer)
		response.Customer = &customer
	}
	if state.HasShipping {
		response.Shipping = string(state.Shipping)
		fee := state.Shipping.Fee()
		response.ShippingFee = &fee
	}
	return response
}

func toCustomerInfoResponse(customer ordering.CustomerInfo) CustomerInfoResponse {
	return CustomerInfoResponse{
		Name:    customer.Name,
		Email:   customer.Email,
		Phone:   customer.Phone,
		Address: customer.Address,
		City:    customer.City,
		Country: customer.Country,
	}
}

// ToOrderResponse converts an order aggregate to its view
func ToOrderResponse(order *ordering.Order) OrderResponse {
	items := make([]OrderItemResponse, 0, len(order.Items))
	for _, item := range order.Items {
		items = append(items, OrderItemResponse{
			ListingID: item.ListingID,
			SellerID:  item.SellerID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
	}
	return OrderResponse{
		ID:             order.ID,
		OrderNumber:    order.OrderNumber,
		BuyerID:        order.BuyerID,
		Status:         order.Status.String(),
		Items:          items,
		Customer:       toCustomerInfoResponse(order.Customer),
		ShippingMethod: string(order.ShippingMethod),
		ShippingFee:    order.ShippingFee,
		ItemsTotal:     order.ItemsTotal,
		GrandTotal:     order.GrandTotal,
		Notes:          order.Notes,
		ConfirmedAt:    order.ConfirmedAt,
		ShippedAt:      order.ShippedAt,
		DeliveredAt:    order.DeliveredAt,
		CancelledAt:    order.CancelledAt,
		CreatedAt:      order.CreatedAt,
	}
}

// ToOrderResponses converts a slice of orders
func ToOrderResponses(orders []*ordering.Order) []OrderResponse {
	responses := make([]OrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToOrderResponse(order))
	}
	return responses
}

// SellerOrderResponse restricts an order view to one seller's lines
type SellerOrderResponse struct {
	ID          uuid.UUID            `json:"id"`
	OrderNumber string               `json:"order_number"`
	Status      string               `json:"status"`
	Items       []OrderItemResponse  `json:"items"`
	ItemsTotal  decimal.Decimal      `json:"items_total"`
	Customer    CustomerInfoResponse `json:"customer"`
	CreatedAt   time.Time            `json:"created_at"`
}

// ToSellerOrderResponse projects an order onto one seller's lines
func ToSellerOrderResponse(order *ordering.Order, sellerID uuid.UUID) SellerOrderResponse {
	sellerItems := order.ItemsOfSeller(sellerID)
	items := make([]OrderItemResponse, 0, len(sellerItems))
	total := decimal.Zero
	for _, item := range sellerItems {
		items = append(items, OrderItemResponse{
			ListingID: item.ListingID,
			SellerID:  item.SellerID,
			Title:     item.Title,
			UnitPrice: item.UnitPrice,
			Quantity:  item.Quantity,
			Subtotal:  item.Subtotal,
		})
		total = total.Add(item.Subtotal)
	}
	return SellerOrderResponse{
		ID:          order.ID,
		OrderNumber: order.OrderNumber,
		Status:      order.Status.String(),
		Items:       items,
		ItemsTotal:  total,
		Customer:    toCustomerInfoResponse(order.Customer),
		CreatedAt:   order.CreatedAt,
	}
}

// ToSellerOrderResponses projects a slice of orders onto one seller
func ToSellerOrderResponses(orders []*ordering.Order, sellerID uuid.UUID) []SellerOrderResponse {
	responses := make([]SellerOrderResponse, 0, len(orders))
	for _, order := range orders {
		responses = append(responses, ToSellerOrderResponse(order, sellerID))
	}
	return responses
}
