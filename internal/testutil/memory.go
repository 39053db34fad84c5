package testutil

import (
	"context"
	"database/sql"
	"sort"
	"sync"
	"time"

	"vitashop/internal/domain"
	"vitashop/internal/errors"
)

// MemoryStore is an in-memory stand-in for the MySQL repositories. WithinTx
// serializes callers and restores a snapshot when fn fails, so tests observe
// the same all-or-nothing behaviour as a real transaction. The *sql.Tx handed
// to fn is always nil.
type MemoryStore struct {
	mu          sync.Mutex
	txMu        sync.Mutex
	products    map[int]domain.Product
	users       map[int]domain.User
	orders      map[uint]domain.Order
	items       map[uint][]domain.OrderItem
	nextOrderID uint
	nextItemID  uint

	// FailNextTx makes the next WithinTx fail with this error after fn ran.
	FailNextTx error
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		products:    map[int]domain.Product{},
		users:       map[int]domain.User{},
		orders:      map[uint]domain.Order{},
		items:       map[uint][]domain.OrderItem{},
		nextOrderID: 1,
		nextItemID:  1,
	}
}

type snapshot struct {
	products    map[int]domain.Product
	orders      map[uint]domain.Order
	items       map[uint][]domain.OrderItem
	nextOrderID uint
	nextItemID  uint
}

func (s *MemoryStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		products:    make(map[int]domain.Product, len(s.products)),
		orders:      make(map[uint]domain.Order, len(s.orders)),
		items:       make(map[uint][]domain.OrderItem, len(s.items)),
		nextOrderID: s.nextOrderID,
		nextItemID:  s.nextItemID,
	}
	for id, p := range s.products {
		snap.products[id] = copyProduct(p)
	}
	for id, o := range s.orders {
		snap.orders[id] = o
	}
	for id, items := range s.items {
		snap.items[id] = append([]domain.OrderItem(nil), items...)
	}
	return snap
}

func (s *MemoryStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.products = snap.products
	s.orders = snap.orders
	s.items = snap.items
	s.nextOrderID = snap.nextOrderID
	s.nextItemID = snap.nextItemID
}

func (s *MemoryStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx *sql.Tx) error) error {
	s.txMu.Lock()
	defer s.txMu.Unlock()

	snap := s.snapshot()
	err := fn(ctx, nil)
	if err == nil && s.FailNextTx != nil {
		err, s.FailNextTx = s.FailNextTx, nil
	}
	if err != nil {
		s.restore(snap)
		return err
	}
	return nil
}

func copyProduct(p domain.Product) domain.Product {
	if p.Quantity != nil {
		q := *p.Quantity
		p.Quantity = &q
	}
	return p
}

// AddProduct stores p and returns it; a zero ID is assigned the next free id.
func (s *MemoryStore) AddProduct(p domain.Product) domain.Product {
	s.mu.Lock()
	defer s.mu.Unlock()

	if p.ID == 0 {
		p.ID = len(s.products) + 1
	}
	if p.Status == "" {
		p.Status = domain.ProductStatusActive
	}
	s.products[p.ID] = copyProduct(p)
	return p
}

func (s *MemoryStore) AddUser(u domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.users[u.ID] = u
}

// Quantity returns the stored quantity of a product, or -1 when untracked.
func (s *MemoryStore) Quantity(productID int) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	p, ok := s.products[productID]
	if !ok || p.Quantity == nil {
		return -1
	}
	return *p.Quantity
}

// Order returns the stored order row, deleted or not.
func (s *MemoryStore) Order(id uint) (domain.Order, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	o, ok := s.orders[id]
	return o, ok
}

func (s *MemoryStore) OrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.orders)
}

func (s *MemoryStore) Products() *MemoryProducts { return &MemoryProducts{s} }

func (s *MemoryStore) Users() *MemoryUsers { return &MemoryUsers{s} }

func (s *MemoryStore) Orders() *MemoryOrders { return &MemoryOrders{s} }

func (s *MemoryStore) Items() *MemoryItems { return &MemoryItems{s} }

type MemoryProducts struct{ s *MemoryStore }

func (r *MemoryProducts) FindByIDs(ctx context.Context, ids []int) ([]domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var out []domain.Product
	for _, id := range ids {
		if p, ok := r.s.products[id]; ok && !p.IsDeleted() {
			out = append(out, copyProduct(p))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out, nil
}

func (r *MemoryProducts) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, productID int) (*domain.Product, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok || p.IsDeleted() {
		return nil, errors.NewProductNotFoundError(productID)
	}
	cp := copyProduct(p)
	return &cp, nil
}

func (r *MemoryProducts) DecrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok || p.Quantity == nil || *p.Quantity < amount {
		return false, nil
	}
	q := *p.Quantity - amount
	p.Quantity = &q
	r.s.products[productID] = p
	return true, nil
}

func (r *MemoryProducts) IncrementQuantity(ctx context.Context, tx *sql.Tx, productID int, amount int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok || p.Quantity == nil || p.HasExternalURL() {
		return nil
	}
	q := *p.Quantity + amount
	p.Quantity = &q
	r.s.products[productID] = p
	return nil
}

func (r *MemoryProducts) SetQuantity(ctx context.Context, tx *sql.Tx, productID int, quantity int) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	p, ok := r.s.products[productID]
	if !ok {
		return errors.NewProductNotFoundError(productID)
	}
	p.Quantity = &quantity
	r.s.products[productID] = p
	return nil
}

type MemoryUsers struct{ s *MemoryStore }

func (r *MemoryUsers) FindByID(ctx context.Context, id int) (*domain.User, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	u, ok := r.s.users[id]
	if !ok || u.IsDeleted() {
		return nil, errors.NewUserNotFoundError(id)
	}
	return &u, nil
}

type MemoryOrders struct{ s *MemoryStore }

func (r *MemoryOrders) Insert(ctx context.Context, tx *sql.Tx, order domain.Order) (uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	order.ID = r.s.nextOrderID
	r.s.nextOrderID++
	now := time.Now().UTC()
	order.CreatedAt, order.UpdatedAt = now, now
	order.Items = nil
	r.s.orders[order.ID] = order
	return order.ID, nil
}

func (r *MemoryOrders) find(id uint) (*domain.Order, error) {
	o, ok := r.s.orders[id]
	if !ok || o.DeletedAt != nil {
		return nil, errors.NewOrderNotFoundError(id)
	}
	return &o, nil
}

func (r *MemoryOrders) FindByID(ctx context.Context, id uint) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(id)
}

func (r *MemoryOrders) FindByIDForUpdate(ctx context.Context, tx *sql.Tx, id uint) (*domain.Order, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	return r.find(id)
}

func (r *MemoryOrders) List(ctx context.Context, filter domain.OrderFilter) ([]domain.Order, int, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	var matched []domain.Order
	for _, o := range r.s.orders {
		if o.DeletedAt != nil {
			continue
		}
		if filter.UserID != nil && o.UserID != *filter.UserID {
			continue
		}
		if filter.Status != "" && o.Status != filter.Status {
			continue
		}
		if filter.PaymentStatus != "" && o.PaymentStatus != filter.PaymentStatus {
			continue
		}
		matched = append(matched, o)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].ID > matched[j].ID })

	total := len(matched)
	start := filter.Offset()
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

func (r *MemoryOrders) update(id uint, fn func(o *domain.Order)) error {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok {
		return errors.NewOrderNotFoundError(id)
	}
	fn(&o)
	o.UpdatedAt = time.Now().UTC()
	r.s.orders[id] = o
	return nil
}

func (r *MemoryOrders) UpdatePayment(ctx context.Context, tx *sql.Tx, id uint, paymentStatus string, method, transactionID *string) error {
	return r.update(id, func(o *domain.Order) {
		o.PaymentStatus = paymentStatus
		if method != nil {
			o.PaymentMethod = method
		}
		if transactionID != nil {
			o.PaymentTransactionID = transactionID
		}
	})
}

func (r *MemoryOrders) UpdateStatus(ctx context.Context, tx *sql.Tx, id uint, status string) error {
	return r.update(id, func(o *domain.Order) { o.Status = status })
}

func (r *MemoryOrders) ApplyPatch(ctx context.Context, tx *sql.Tx, id uint, patch domain.OrderPatch) error {
	return r.update(id, func(o *domain.Order) {
		if patch.Status != nil {
			o.Status = *patch.Status
		}
		if patch.PaymentStatus != nil {
			o.PaymentStatus = *patch.PaymentStatus
		}
		if patch.TrackingNumber != nil {
			o.TrackingNumber = patch.TrackingNumber
		}
		if patch.ShippingAddress != nil {
			o.ShippingAddress = patch.ShippingAddress
		}
		if patch.BillingAddress != nil {
			o.BillingAddress = patch.BillingAddress
		}
		if patch.Notes != nil {
			o.Notes = patch.Notes
		}
	})
}

func (r *MemoryOrders) SoftDelete(ctx context.Context, tx *sql.Tx, id uint) error {
	return r.update(id, func(o *domain.Order) {
		now := time.Now().UTC()
		o.DeletedAt = &now
	})
}

func (r *MemoryOrders) MarkStockReleased(ctx context.Context, tx *sql.Tx, id uint) (bool, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	o, ok := r.s.orders[id]
	if !ok || !o.StockReserved {
		return false, nil
	}
	o.StockReserved = false
	r.s.orders[id] = o
	return true, nil
}

type MemoryItems struct{ s *MemoryStore }

func (r *MemoryItems) Insert(ctx context.Context, tx *sql.Tx, item domain.OrderItem) (uint, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	item.ID = r.s.nextItemID
	r.s.nextItemID++
	r.s.items[item.OrderID] = append(r.s.items[item.OrderID], item)
	return item.ID, nil
}

func (r *MemoryItems) FindByOrderIDs(ctx context.Context, orderIDs []uint) (map[uint][]domain.OrderItem, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()

	out := make(map[uint][]domain.OrderItem, len(orderIDs))
	for _, id := range orderIDs {
		if items, ok := r.s.items[id]; ok {
			out[id] = append([]domain.OrderItem(nil), items...)
		}
	}
	return out, nil
}

func (r *MemoryItems) FindByOrderID(ctx context.Context, orderID uint) ([]domain.OrderItem, error) {
	items, err := r.FindByOrderIDs(ctx, []uint{orderID})
	if err != nil {
		return nil, err
	}
	return items[orderID], nil
}

func (r *MemoryItems) FindByOrderIDTx(ctx context.Context, tx *sql.Tx, orderID uint) ([]domain.OrderItem, error) {
	return r.FindByOrderID(ctx, orderID)
}
