package handlers

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"

	ds "github.com/oaiiae/contacts-api/datastores"
)

type handler[I, O any] = func(context.Context, *I) (*O, error)

func handlerWithErrorHandler[I, O any](handler handler[I, O], do func(context.Context, error)) handler[I, O] {
	if do == nil {
		return handler
	}

	return func(ctx context.Context, i *I) (*O, error) {
		o, err := handler(ctx, i)
		if err != nil {
			do(ctx, err)
		}
		return o, err
	}
}

func opErrors(codes ...int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.Errors = codes }
}

func opID(id, summary string, tags ...string) func(*huma.Operation) {
	return func(o *huma.Operation) { o.OperationID, o.Summary, o.Tags = id, summary, tags }
}

func opStatus(status int) func(*huma.Operation) {
	return func(o *huma.Operation) { o.DefaultStatus = status }
}

var installOnce sync.Once //nolint: gochecknoglobals // guards huma.NewError

// Install makes huma answer request validation failures with 400 instead
// of 422. It replaces [huma.NewError], so it affects every huma API of the
// process and must run before serving requests.
func Install() {
	installOnce.Do(func() {
		newError := huma.NewError
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			if status == http.StatusUnprocessableEntity {
				status = http.StatusBadRequest
			}
			return newError(status, msg, errs...)
		}
	})
}

// storeError maps store errors to HTTP errors. Unknown errors are returned as is.
func storeError(err error, notFound string) error {
	switch {
	case errors.Is(err, ds.ErrObjectNotFound):
		return huma.Error404NotFound(notFound, err)
	case errors.Is(err, ds.ErrInvalidSort):
		return huma.Error400BadRequest("invalid sort", err)
	default:
		return err
	}
}

type PageParams struct {
	Page int    `query:"page" minimum:"0" default:"0" doc:"Zero-based page index"`
	Size int    `query:"size" minimum:"1" maximum:"2000" default:"20" doc:"Page size"`
	Sort string `query:"sort" example:"nome,desc" doc:"Sort property, optionally followed by ,asc or ,desc"`
}

func (p *PageParams) pageRequest() (ds.PageRequest, error) {
	req := ds.PageRequest{Page: p.Page, Size: p.Size}
	if p.Sort != "" {
		order, err := ds.ParseOrder(p.Sort)
		if err != nil {
			return req, huma.Error400BadRequest("invalid sort", err)
		}
		req.Sort = []ds.Order{order}
	}
	return req, nil
}

type PageModel[T any] struct {
	Content          []T   `json:"content"`
	TotalElements    int64 `json:"totalElements"`
	TotalPages       int   `json:"totalPages"`
	Size             int   `json:"size"`
	Number           int   `json:"number"`
	NumberOfElements int   `json:"numberOfElements"`
	First            bool  `json:"first"`
	Last             bool  `json:"last"`
	Empty            bool  `json:"empty"`
}

func pageModel[T, U any](p *ds.Page[T], f func(T) U) PageModel[U] {
	m := ds.MapPage(p, f)
	return PageModel[U]{
		Content:          m.Content,
		TotalElements:    m.TotalElements,
		TotalPages:       m.TotalPages(),
		Size:             m.Size,
		Number:           m.Number,
		NumberOfElements: len(m.Content),
		First:            m.First(),
		Last:             m.Last(),
		Empty:            len(m.Content) == 0,
	}
}
