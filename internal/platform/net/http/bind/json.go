package bind

import (
	"bytes"
	"encoding/json"
	stderrs "errors"
	"io"
	"net/http"

	perr "enricher/internal/platform/errors"
	"enricher/internal/platform/logger"
)

// JSONOptions controls decoding
type JSONOptions struct {
	MaxBytes       int64 // 0 means 1MB
	MaxItems       int   // list bodies only, 0 means unbounded
	AllowUnknown   bool
	AllowEmptyBody bool
	SkipValidation bool
}

func (o JSONOptions) maxBytes() int64 {
	if o.MaxBytes <= 0 {
		return 1 << 20
	}
	return o.MaxBytes
}

func pick(opts []JSONOptions) JSONOptions {
	if len(opts) > 0 {
		return opts[0]
	}
	return JSONOptions{}
}

// readBody returns the trimmed body bounded by MaxBytes
func readBody(r *http.Request, o JSONOptions) ([]byte, error) {
	defer func() {
		if err := r.Body.Close(); err != nil {
			logger.C(r.Context()).Warn().Err(err).Msg("close request body")
		}
	}()
	b, err := io.ReadAll(http.MaxBytesReader(nil, r.Body, o.maxBytes()))
	if err != nil {
		var mbe *http.MaxBytesError
		if stderrs.As(err, &mbe) {
			return nil, perr.TooLargef("body exceeds %d bytes", mbe.Limit)
		}
		return nil, perr.JSONErrf("read body: %v", err)
	}
	return bytes.TrimSpace(b), nil
}

func decode(b []byte, dst any, o JSONOptions) error {
	dec := json.NewDecoder(bytes.NewReader(b))
	if !o.AllowUnknown {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(dst); err != nil {
		return perr.JSONErrf("invalid JSON: %v", err)
	}
	if dec.More() {
		return perr.JSONErrf("unexpected trailing data")
	}
	return nil
}

// ParseJSON decodes one JSON object into T and validates it
func ParseJSON[T any](r *http.Request, opts ...JSONOptions) (T, error) {
	var dst T
	o := pick(opts)
	b, err := readBody(r, o)
	if err != nil {
		return dst, err
	}
	if len(b) == 0 {
		if o.AllowEmptyBody {
			return dst, nil
		}
		return dst, perr.JSONErrf("empty body")
	}
	if err := decode(b, &dst, o); err != nil {
		return dst, err
	}
	if o.SkipValidation {
		return dst, nil
	}
	if err := Validate(&dst); err != nil {
		var zero T
		return zero, err
	}
	return dst, nil
}

// ParseJSONList decodes a JSON array of T, an empty array is valid
// items are validated together unless SkipValidation is set
func ParseJSONList[T any](r *http.Request, opts ...JSONOptions) ([]T, error) {
	o := pick(opts)
	b, err := readBody(r, o)
	if err != nil {
		return nil, err
	}
	return list[T](b, o)
}

// ReadJSONList is ParseJSONList over any reader, MaxBytes bounds what is read
func ReadJSONList[T any](rd io.Reader, opts ...JSONOptions) ([]T, error) {
	o := pick(opts)
	b, err := io.ReadAll(io.LimitReader(rd, o.maxBytes()+1))
	if err != nil {
		return nil, perr.JSONErrf("read input: %v", err)
	}
	if int64(len(b)) > o.maxBytes() {
		return nil, perr.TooLargef("input exceeds %d bytes", o.maxBytes())
	}
	return list[T](bytes.TrimSpace(b), o)
}

func list[T any](b []byte, o JSONOptions) ([]T, error) {
	if len(b) == 0 {
		return nil, perr.JSONErrf("empty body")
	}
	if b[0] != '[' {
		return nil, perr.JSONErrf("expected a JSON array of items")
	}
	items := []T{}
	if err := decode(b, &items, o); err != nil {
		return nil, err
	}
	if o.MaxItems > 0 && len(items) > o.MaxItems {
		return nil, perr.TooLargef("batch of %d items exceeds the limit of %d", len(items), o.MaxItems)
	}
	if !o.SkipValidation {
		if err := ValidateList(items); err != nil {
			return nil, err
		}
	}
	return items, nil
}
