package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"mamareykjavik-backend/internal/domains/payment/gateway/saltpay"
	payment "mamareykjavik-backend/internal/domains/payment/model"
	"mamareykjavik-backend/internal/domains/shop/model"
	"mamareykjavik-backend/internal/domains/shop/repository"
)

// ShopService handles shop checkout.
type ShopService interface {
	Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error)
}

type shopService struct {
	repo       repository.ShopRepository
	saltpayCfg *saltpay.Config
	currency   string
}

func NewShopService(repo repository.ShopRepository, saltpayCfg *saltpay.Config, currency string) ShopService {
	return &shopService{repo: repo, saltpayCfg: saltpayCfg, currency: currency}
}

// Checkout prices the requested items from the catalog, creates a
// pending order with its lines and returns the hosted payment URL.
// Stock is only decremented when payment completes.
func (s *shopService) Checkout(ctx context.Context, req *model.CheckoutRequest) (*model.CheckoutResponse, error) {
	ids := make([]uuid.UUID, 0, len(req.Items))
	quantities := make(map[uuid.UUID]int, len(req.Items))
	for _, item := range req.Items {
		if err := item.Validate(); err != nil {
			return nil, err
		}
		id, err := uuid.Parse(item.ProductID)
		if err != nil {
			return nil, fmt.Errorf("invalid product id")
		}
		ids = append(ids, id)
		quantities[id] += item.Quantity
	}

	products, err := s.repo.FindProducts(ctx, ids)
	if err != nil {
		return nil, err
	}
	if len(products) != len(quantities) {
		return nil, fmt.Errorf("one or more products not found")
	}

	total := decimal.Zero
	items := make([]model.OrderItem, 0, len(products))
	for _, p := range products {
		qty := quantities[p.ID]
		if p.Stock < qty {
			return nil, fmt.Errorf("insufficient stock for %s", p.Name)
		}
		total = total.Add(p.Price.Mul(decimal.NewFromInt(int64(qty))))
		items = append(items, model.OrderItem{
			ProductID: p.ID,
			Quantity:  qty,
			UnitPrice: p.Price,
		})
	}

	order := &model.Order{
		OrderRef:   payment.NewOrderRef("MRS"),
		Amount:     total,
		Currency:   s.currency,
		BuyerEmail: req.BuyerEmail,
		BuyerName:  req.BuyerName,
		Items:      items,
	}
	if err := s.repo.CreateOrder(ctx, order); err != nil {
		return nil, err
	}

	return &model.CheckoutResponse{
		OrderRef:   order.OrderRef,
		PaymentURL: saltpay.BuildPaymentURL(s.saltpayCfg, order.OrderRef, order.Amount, order.Currency),
	}, nil
}
