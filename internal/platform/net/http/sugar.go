package http

import (
	"net/http"

	"enricher/internal/platform/net/http/bind"
)

// GetJSON mounts a pure JSON handler for GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	r.Get(path, JSONHandlerNoBody(h))
}

// PostJSON mounts a pure JSON handler for POST answering 200
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Post(path, JSONHandler(h, opts...))
}

// PostCreated mounts a pure JSON handler for POST answering 201
func PostCreated[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Post(path, JSONCreatedHandler(h, opts...))
}

// PostList mounts a JSON array handler for POST
func PostList[T any](r Router, path string, h func(*http.Request, []T) (any, error), o ListOptions) {
	r.Post(path, JSONListHandler(h, o))
}

// PostNoBody mounts a POST handler that reads no body
func PostNoBody(r Router, path string, h func(*http.Request) (any, error)) {
	r.Post(path, JSONHandlerNoBody(h))
}

// PutJSON mounts a pure JSON handler for PUT answering 200
func PutJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Put(path, JSONHandler(h, opts...))
}

// PatchJSON mounts a pure JSON handler for PATCH answering 200
func PatchJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...bind.JSONOptions) {
	r.Patch(path, JSONHandler(h, opts...))
}

// DeleteNoContent mounts a DELETE handler answering 204
func DeleteNoContent(r Router, path string, h func(*http.Request) error) {
	r.Delete(path, NoContentHandler(h))
}
