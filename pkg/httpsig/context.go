package httpsig

import (
	"net/http"
	"net/url"

	"github.com/forcebit/message-signatures/pkg/base"
)

// SignatureContext is a plain-struct alternative to wrapping a
// *http.Request/*http.Response, for callers that are not using net/http
// (other HTTP frameworks, RPC gateways, offline test fixtures). It
// implements base.HTTPMessage directly, following the same wrapper shape as
// pkg/base's requestWrapper/responseWrapper.
type SignatureContext struct {
	isRequest bool

	method string
	url    *url.URL

	statusCode int

	headers  http.Header
	trailers http.Header

	relatedRequest *SignatureContext
}

// NewRequestContext builds a SignatureContext representing an HTTP request.
func NewRequestContext(method string, target *url.URL, headers, trailers http.Header) SignatureContext {
	return SignatureContext{
		isRequest: true,
		method:    method,
		url:       target,
		headers:   headers,
		trailers:  trailers,
	}
}

// NewResponseContext builds a SignatureContext representing an HTTP
// response. relatedRequest may be the zero value when the 'req' component
// parameter will not be used.
func NewResponseContext(statusCode int, headers, trailers http.Header, relatedRequest *SignatureContext) SignatureContext {
	return SignatureContext{
		isRequest:      false,
		statusCode:     statusCode,
		headers:        headers,
		trailers:       trailers,
		relatedRequest: relatedRequest,
	}
}

func (c SignatureContext) IsRequest() bool  { return c.isRequest }
func (c SignatureContext) IsResponse() bool { return !c.isRequest }

func (c SignatureContext) Method() (string, error) {
	if !c.isRequest {
		return "", errNotRequest("Method")
	}
	return c.method, nil
}

func (c SignatureContext) URL() (*url.URL, error) {
	if !c.isRequest {
		return nil, errNotRequest("URL")
	}
	return c.url, nil
}

func (c SignatureContext) StatusCode() (int, error) {
	if c.isRequest {
		return 0, errNotResponse("StatusCode")
	}
	return c.statusCode, nil
}

func (c SignatureContext) HeaderValues(name string) []string {
	if c.headers == nil {
		return nil
	}
	return c.headers[http.CanonicalHeaderKey(name)]
}

func (c SignatureContext) TrailerValues(name string) []string {
	if c.trailers == nil {
		return nil
	}
	return c.trailers[http.CanonicalHeaderKey(name)]
}

func (c SignatureContext) RelatedRequest() base.HTTPMessage {
	if c.relatedRequest == nil {
		return nil
	}
	return *c.relatedRequest
}

func errNotRequest(fn string) error {
	return &contextTypeError{fn: fn, want: "request"}
}

func errNotResponse(fn string) error {
	return &contextTypeError{fn: fn, want: "response"}
}

type contextTypeError struct {
	fn   string
	want string
}

func (e *contextTypeError) Error() string {
	return e.fn + "() called on a SignatureContext that is not a " + e.want
}
