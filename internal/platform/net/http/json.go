package http

import (
	"net/http"

	"enricher/internal/platform/net/http/bind"
)

// JSONHandler adapts a pure JSON handler to a platform Handler, the result is enveloped with 200
func JSONHandler[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return jsonHandler(OK, fn, opts...)
}

// JSONCreatedHandler is JSONHandler answering 201
func JSONCreatedHandler[T any](fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return jsonHandler(Created, fn, opts...)
}

func jsonHandler[T any](wrap func(any) Response, fn func(*http.Request, T) (any, error), opts ...bind.JSONOptions) Handler {
	return Handle(func(r *http.Request) Response {
		in, err := bind.ParseJSON[T](r, opts...)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, in)
		if err != nil {
			return Error(err)
		}
		return wrap(out)
	})
}

// ListOptions tunes JSONListHandler
type ListOptions struct {
	bind.JSONOptions
	// Raw writes the result without the envelope
	Raw bool
}

// JSONListHandler decodes a JSON array of T, validates every item and calls fn
// one invalid item rejects the whole list before fn runs
func JSONListHandler[T any](fn func(*http.Request, []T) (any, error), o ListOptions) Handler {
	return Handle(func(r *http.Request) Response {
		items, err := bind.ParseJSONList[T](r, o.JSONOptions)
		if err != nil {
			return Error(err)
		}
		out, err := fn(r, items)
		if err != nil {
			return Error(err)
		}
		if o.Raw {
			return Raw(out)
		}
		return OK(out)
	})
}

// JSONHandlerNoBody calls fn without parsing a request body and wraps the result
func JSONHandlerNoBody(fn func(*http.Request) (any, error)) Handler {
	return Handle(func(r *http.Request) Response {
		out, err := fn(r)
		if err != nil {
			return Error(err)
		}
		return OK(out)
	})
}

// NoContentHandler calls fn and answers 204 on success
func NoContentHandler(fn func(*http.Request) error) Handler {
	return Handle(func(r *http.Request) Response {
		if err := fn(r); err != nil {
			return Error(err)
		}
		return NoContent()
	})
}
