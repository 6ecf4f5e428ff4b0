package datastores

import (
	"fmt"
	"math"
	"slices"
	"strings"
)

// Order sorts a page by one property.
type Order struct {
	Property string
	Desc     bool
}

// PageRequest selects the zero-based page Page of Size elements.
type PageRequest struct {
	Page int
	Size int
	Sort []Order
}

// offset saturates at [math.MaxInt] instead of overflowing.
func (r PageRequest) offset() int {
	if r.Page <= 0 || r.Size <= 0 {
		return 0
	}
	if r.Page > math.MaxInt/r.Size {
		return math.MaxInt
	}
	return r.Page * r.Size
}

// checkSort rejects any [Order] whose property is not in properties.
func (r PageRequest) checkSort(properties []string) error {
	for _, o := range r.Sort {
		if !slices.Contains(properties, o.Property) {
			return fmt.Errorf("%w: %q", ErrInvalidSort, o.Property)
		}
	}
	return nil
}

// ParseOrder parses "property[,asc|desc]". The direction defaults to asc.
func ParseOrder(s string) (Order, error) {
	property, direction, _ := strings.Cut(s, ",")
	o := Order{Property: strings.TrimSpace(property)}
	switch strings.ToLower(strings.TrimSpace(direction)) {
	case "", "asc":
	case "desc":
		o.Desc = true
	default:
		return Order{}, fmt.Errorf("invalid sort direction %q", direction)
	}
	if o.Property == "" {
		return Order{}, fmt.Errorf("%w: empty property", ErrInvalidSort)
	}
	return o, nil
}

// Page is a slice of a larger result set.
type Page[T any] struct {
	Content       []T
	Number        int
	Size          int
	TotalElements int64
}

func (p *Page[T]) TotalPages() int {
	if p.Size <= 0 {
		return 0
	}
	return int((p.TotalElements + int64(p.Size) - 1) / int64(p.Size))
}

func (p *Page[T]) First() bool { return p.Number == 0 }

func (p *Page[T]) Last() bool { return p.Number >= p.TotalPages()-1 }

// MapPage converts the content of a page keeping its metadata.
func MapPage[T, U any](p *Page[T], f func(T) U) *Page[U] {
	content := make([]U, 0, len(p.Content))
	for _, v := range p.Content {
		content = append(content, f(v))
	}
	return &Page[U]{Content: content, Number: p.Number, Size: p.Size, TotalElements: p.TotalElements}
}
