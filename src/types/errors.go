package types

import "fmt"

// ValidationError is an input-shape failure raised before any read against the
// store. The message is safe to show to the caller.
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

// ProductNotFoundError aborts the reservation transaction when a cart line
// references a product that does not exist.
type ProductNotFoundError struct {
	Name string
}

func (e *ProductNotFoundError) Error() string {
	return fmt.Sprintf("商品「%s」が見つかりません", e.Name)
}

// InsufficientStockError aborts the reservation transaction when a cart line
// asks for more units than the product has left.
type InsufficientStockError struct {
	Name      string
	Remaining int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("商品「%s」の在庫が不足しています（残り%d個）", e.Name, e.Remaining)
}
