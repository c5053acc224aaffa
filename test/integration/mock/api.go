package mock

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
)

// RecordedRequest is one call received by the mock.
type RecordedRequest struct {
	Method  string
	Path    string
	Headers map[string]string
	Queries map[string]string
	Body    map[string]any
}

type cannedResponse struct {
	status int
	body   map[string]any
}

// ApiMock is an HTTP server standing in for a third-party API. Responses are
// queued per method and path, with an optional default once the queue is spent.
type ApiMock struct {
	mu       sync.Mutex
	server   *httptest.Server
	requests map[string][]RecordedRequest
	queued   map[string]map[int]cannedResponse
	defaults map[string]cannedResponse
	mockUrl  string
}

func NewApiServer() *ApiMock {
	return &ApiMock{
		requests: map[string][]RecordedRequest{},
		queued:   map[string]map[int]cannedResponse{},
		defaults: map[string]cannedResponse{},
	}
}

func (a *ApiMock) Start() {
	a.server = httptest.NewServer(http.HandlerFunc(a.handle))
	a.mockUrl = a.server.URL
}

func (a *ApiMock) Close() {
	if a.server != nil {
		a.server.Close()
	}
}

func (a *ApiMock) GetUrl() string {
	return a.mockUrl
}

func (a *ApiMock) handle(w http.ResponseWriter, r *http.Request) {
	key := r.Method + r.URL.Path

	raw, _ := io.ReadAll(r.Body)
	body := map[string]any{}
	_ = json.Unmarshal(raw, &body)

	recorded := RecordedRequest{
		Method:  r.Method,
		Path:    r.URL.Path,
		Headers: map[string]string{},
		Queries: map[string]string{},
		Body:    body,
	}
	for name, values := range r.Header {
		recorded.Headers[name] = values[0]
	}
	for name, values := range r.URL.Query() {
		recorded.Queries[name] = values[0]
	}

	a.mu.Lock()
	index := len(a.requests[key])
	a.requests[key] = append(a.requests[key], recorded)
	response := a.responseFor(key, index)
	a.mu.Unlock()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(response.status)
	_ = json.NewEncoder(w).Encode(response.body)
}

// responseFor picks the queued response for the nth call, falling back to the
// default and finally to an empty 200.
func (a *ApiMock) responseFor(key string, index int) cannedResponse {
	if response, ok := a.queued[key][index]; ok {
		return response
	}
	if response, ok := a.defaults[key]; ok {
		return response
	}
	return cannedResponse{status: http.StatusOK, body: map[string]any{}}
}

// SetResponse queues the response for the index-th call to method and path.
// An index of -1 sets the default response.
func (a *ApiMock) SetResponse(index int, method, path string, status int, response map[string]any) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	canned := cannedResponse{status: status, body: response}
	if index == -1 {
		a.defaults[key] = canned
		return
	}
	if a.queued[key] == nil {
		a.queued[key] = map[int]cannedResponse{}
	}
	a.queued[key][index] = canned
}

// ClearResponses forgets the requests and responses of method and path.
func (a *ApiMock) ClearResponses(method, path string) {
	a.mu.Lock()
	defer a.mu.Unlock()

	key := method + path
	delete(a.requests, key)
	delete(a.queued, key)
	delete(a.defaults, key)
}

func (a *ApiMock) request(method, path string, index int) (RecordedRequest, bool) {
	a.mu.Lock()
	defer a.mu.Unlock()

	requests := a.requests[method+path]
	if index < 0 || index >= len(requests) {
		return RecordedRequest{}, false
	}
	return requests[index], true
}

func (a *ApiMock) GetRequestBody(method, path string, index int) map[string]any {
	if request, ok := a.request(method, path, index); ok {
		return request.Body
	}
	return nil
}

func (a *ApiMock) GetRequestHeaders(method, path string, index int) map[string]string {
	if request, ok := a.request(method, path, index); ok {
		return request.Headers
	}
	return nil
}

func (a *ApiMock) RequestCount(method, path string) int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.requests[method+path])
}
