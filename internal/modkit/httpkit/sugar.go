package httpkit

import (
	"net/http"

	phttp "enricher/internal/platform/net/http"
)

// GetJSON mounts a body-less handler under GET
func GetJSON(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.GetJSON(r, path, h)
}

// PostJSON mounts a JSON object handler under POST answering 200
func PostJSON[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PostJSON(r, path, h, opts...)
}

// PostCreated mounts a JSON object handler under POST answering 201
func PostCreated[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PostCreated(r, path, h, opts...)
}

// PostList mounts a JSON array handler under POST
func PostList[T any](r Router, path string, h func(*http.Request, []T) (any, error), o ListOptions) {
	phttp.PostList(r, path, h, o)
}

// PostNoBody mounts a POST handler that reads no body
func PostNoBody(r Router, path string, h func(*http.Request) (any, error)) {
	phttp.PostNoBody(r, path, h)
}

// Put mounts a JSON object handler under PUT answering 200
func Put[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PutJSON(r, path, h, opts...)
}

// Patch mounts a JSON object handler under PATCH answering 200
func Patch[T any](r Router, path string, h func(*http.Request, T) (any, error), opts ...JSONOptions) {
	phttp.PatchJSON(r, path, h, opts...)
}

// Delete mounts a DELETE handler answering 204
func Delete(r Router, path string, h func(*http.Request) error) {
	phttp.DeleteNoContent(r, path, h)
}
