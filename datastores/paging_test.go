package datastores

import (
	"errors"
	"math"
	"testing"
)

func TestParseOrder(t *testing.T) {
	tests := []struct {
		in      string
		want    Order
		wantErr bool
	}{
		{in: "nome", want: Order{Property: "nome"}},
		{in: "nome,asc", want: Order{Property: "nome"}},
		{in: "email,DESC", want: Order{Property: "email", Desc: true}},
		{in: " cep , desc ", want: Order{Property: "cep", Desc: true}},
		{in: "nome,up", wantErr: true},
		{in: ",desc", wantErr: true},
	}
	for _, tt := range tests {
		got, err := ParseOrder(tt.in)
		if (err != nil) != tt.wantErr {
			t.Fatalf("ParseOrder(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
		}
		if got != tt.want {
			t.Fatalf("ParseOrder(%q) = %+v, want %+v", tt.in, got, tt.want)
		}
	}
}

func TestPage(t *testing.T) {
	tests := []struct {
		page        Page[int]
		pages       int
		first, last bool
	}{
		{page: Page[int]{Number: 0, Size: 20, TotalElements: 0}, pages: 0, first: true, last: true},
		{page: Page[int]{Number: 0, Size: 2, TotalElements: 5}, pages: 3, first: true, last: false},
		{page: Page[int]{Number: 2, Size: 2, TotalElements: 5}, pages: 3, first: false, last: true},
		{page: Page[int]{Number: 1, Size: 5, TotalElements: 10}, pages: 2, first: false, last: true},
	}
	for _, tt := range tests {
		if got := tt.page.TotalPages(); got != tt.pages {
			t.Fatalf("%+v TotalPages() = %d, want %d", tt.page, got, tt.pages)
		}
		if got := tt.page.First(); got != tt.first {
			t.Fatalf("%+v First() = %v, want %v", tt.page, got, tt.first)
		}
		if got := tt.page.Last(); got != tt.last {
			t.Fatalf("%+v Last() = %v, want %v", tt.page, got, tt.last)
		}
	}
}

func TestPageRequestOffset(t *testing.T) {
	for _, tt := range []struct {
		req  PageRequest
		want int
	}{
		{PageRequest{Page: 0, Size: 20}, 0},
		{PageRequest{Page: 3, Size: 20}, 60},
		{PageRequest{Page: -1, Size: 20}, 0},
		{PageRequest{Page: 2, Size: 0}, 0},
		{PageRequest{Page: math.MaxInt / 2, Size: 20}, math.MaxInt},
		{PageRequest{Page: math.MaxInt, Size: 1}, math.MaxInt},
	} {
		if got := tt.req.offset(); got != tt.want {
			t.Fatalf("%+v offset() = %d, want %d", tt.req, got, tt.want)
		}
	}

	page := slicePage([]int{1, 2, 3}, PageRequest{Page: math.MaxInt / 2, Size: 20})
	if len(page.Content) != 0 || page.TotalElements != 3 || !page.Last() {
		t.Fatalf("slicePage past the end = %+v", page)
	}
}

func TestPageRequestCheckSort(t *testing.T) {
	req := PageRequest{Sort: []Order{{Property: "nome"}, {Property: "rua"}}}
	if err := req.checkSort(contactProperties); !errors.Is(err, ErrInvalidSort) {
		t.Fatalf("checkSort error = %v, want %v", err, ErrInvalidSort)
	}
	if err := req.checkSort(append(contactProperties, "rua")); err != nil {
		t.Fatalf("checkSort: %v", err)
	}
}

func TestLikeContains(t *testing.T) {
	if got, want := likeContains(`AnA_50%\`), `%ana\_50\%\\%`; got != want {
		t.Fatalf("likeContains = %q, want %q", got, want)
	}
}
