// Package devshop is the in-memory backend behind the development API: accounts, the catalog and
// orders. It implements what the storefront client consumes and nothing more.
package devshop

import (
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/angelmondragon/storefront/pkg/config"
	"github.com/angelmondragon/storefront/pkg/enums"
	pkgerrors "github.com/angelmondragon/storefront/pkg/errors"
	"github.com/angelmondragon/storefront/pkg/security"
)

// Shop holds all dev backend state behind one lock.
type Shop struct {
	mu         sync.RWMutex
	users      []User
	categories []Category
	products   []Product
	orders     []Order
	nextUser   int
	nextOrder  int
	passwords  config.PasswordConfig
	now        func() time.Time
}

func New(passwords config.PasswordConfig) *Shop {
	return &Shop{
		passwords: passwords,
		now:       time.Now,
		nextUser:  1,
		nextOrder: 1,
	}
}

// Authenticate checks credentials. Unknown users and wrong passwords get the same error.
func (s *Shop) Authenticate(username, password string) (User, error) {
	s.mu.RLock()
	user, ok := s.userByUsername(username)
	s.mu.RUnlock()

	invalid := pkgerrors.New(pkgerrors.CodeNotAuthenticated, "Invalid username or password")
	if !ok {
		return User{}, invalid
	}
	match, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return User{}, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "verify password")
	}
	if !match {
		return User{}, invalid
	}
	return user, nil
}

func (s *Shop) User(id int) (User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.ID == id {
			return u, nil
		}
	}
	return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
}

func (s *Shop) CreateUser(in NewUser) (User, error) {
	hash, err := security.HashPassword(in.Password, s.passwords)
	if err != nil {
		return User{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.checkUnique(0, in.Username, in.Email); err != nil {
		return User{}, err
	}
	user := User{
		ID:           s.nextUser,
		Username:     in.Username,
		Email:        in.Email,
		Address:      in.Address,
		PasswordHash: hash,
		CreatedAt:    s.now().UTC(),
	}
	s.nextUser++
	s.users = append(s.users, user)
	return user, nil
}

func (s *Shop) UpdateUser(id int, patch UserPatch) (User, error) {
	var hash string
	if patch.Password != nil {
		h, err := security.HashPassword(*patch.Password, s.passwords)
		if err != nil {
			return User{}, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid password")
		}
		hash = h
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	idx := -1
	for i, u := range s.users {
		if u.ID == id {
			idx = i
			break
		}
	}
	if idx < 0 {
		return User{}, pkgerrors.New(pkgerrors.CodeNotFound, "User not found")
	}

	updated := s.users[idx]
	if patch.Username != nil {
		updated.Username = *patch.Username
	}
	if patch.Email != nil {
		updated.Email = *patch.Email
	}
	if patch.Address != nil {
		updated.Address = *patch.Address
	}
	if hash != "" {
		updated.PasswordHash = hash
	}
	if err := s.checkUnique(id, updated.Username, updated.Email); err != nil {
		return User{}, err
	}
	s.users[idx] = updated
	return updated, nil
}

func (s *Shop) Categories() []Category {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Category, len(s.categories))
	for i, c := range s.categories {
		c.Subcategories = append([]Subcategory(nil), c.Subcategories...)
		out[i] = c
	}
	return out
}

// Products lists the catalog narrowed by f, in id order.
func (s *Shop) Products(f ProductFilter) []Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Product, 0, len(s.products))
	for _, p := range s.products {
		if f.matches(p) {
			out = append(out, p)
		}
	}
	return out
}

func (s *Shop) Product(id int) (Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, nil
		}
	}
	return Product{}, pkgerrors.New(pkgerrors.CodeNotFound, "Product not found")
}

// CreateOrder records an order for userID. Every item must reference a known product.
func (s *Shop) CreateOrder(userID int, in NewOrder) (Order, error) {
	if len(in.Items) == 0 {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "Order must contain at least one item")
	}
	if strings.TrimSpace(in.ShippingAddress) == "" {
		return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "Shipping address is required")
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, item := range in.Items {
		if !s.hasProduct(item.ProductID) {
			return Order{}, pkgerrors.New(pkgerrors.CodeValidation, "Unknown product in order").
				WithDetails(map[string]any{"product_id": item.ProductID})
		}
	}
	order := Order{
		ID:              s.nextOrder,
		UserID:          userID,
		Status:          enums.OrderStatusPending,
		TotalAmount:     in.TotalAmount,
		ShippingAddress: in.ShippingAddress,
		Items:           append([]OrderItem(nil), in.Items...),
		CreatedAt:       s.now().UTC(),
	}
	s.nextOrder++
	s.orders = append(s.orders, order)
	return order, nil
}

// Orders returns userID's orders, newest first.
func (s *Shop) Orders(userID int) []Order {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Order, 0)
	for _, o := range s.orders {
		if o.UserID == userID {
			out = append(out, o)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

func (s *Shop) userByUsername(username string) (User, bool) {
	for _, u := range s.users {
		if u.Username == username {
			return u, true
		}
	}
	return User{}, false
}

func (s *Shop) checkUnique(selfID int, username, email string) error {
	for _, u := range s.users {
		if u.ID == selfID {
			continue
		}
		if u.Username == username {
			return pkgerrors.New(pkgerrors.CodeConflict, "Username already taken")
		}
		if strings.EqualFold(u.Email, email) {
			return pkgerrors.New(pkgerrors.CodeConflict, "Email already registered")
		}
	}
	return nil
}

func (s *Shop) hasProduct(id int) bool {
	for _, p := range s.products {
		if p.ID == id {
			return true
		}
	}
	return false
}

func (f ProductFilter) matches(p Product) bool {
	if f.Category != "" && !containsString(p.Categories, f.Category) {
		return false
	}
	if f.Subcategory != "" && p.Subcategory != f.Subcategory {
		return false
	}
	if f.Search != "" && !strings.HasPrefix(strings.ToLower(p.Name), strings.ToLower(f.Search)) {
		return false
	}
	return true
}

func containsString(list []string, value string) bool {
	for _, v := range list {
		if v == value {
			return true
		}
	}
	return false
}
