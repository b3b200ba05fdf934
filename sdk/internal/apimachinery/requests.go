package apimachinery

// OutboundRequest describes one call to the API. Every such request passes
// through the full interceptor chain; the fields here only shape the request
// itself and how its response is decoded.
type OutboundRequest struct {
	Method      string
	Path        string
	QueryParams map[string]string
	Headers     map[string]string
	ReqBodyObj  interface{}
	SuccessCode int
	RespObj     interface{}
	// RewriteFilePaths opts the response body into file path rewriting.
	RewriteFilePaths bool
}
